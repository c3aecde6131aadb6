package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"workshop/internal/domain"
)

type requestFlags struct {
	userID      string
	length      float64
	width       float64
	height      float64
	unit        string
	material    []string
	color       []string
	style       string
	kind        string
	budget      float64
	description string
	doors       int
	drawers     int
	hinge       string
	slide       string
	finish      string
	extras      []string
	locale      string
}

func (f *requestFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.userID, "user", "", "User id stored with the request")
	fs.Float64Var(&f.length, "length", 0, "Length")
	fs.Float64Var(&f.width, "width", 0, "Width (depth of the piece)")
	fs.Float64Var(&f.height, "height", 0, "Height")
	fs.StringVar(&f.unit, "unit", "", "Length unit: mm, cm or m (default cm)")
	fs.StringSliceVar(&f.material, "material", nil, "Material, repeat or comma separate for several")
	fs.StringSliceVar(&f.color, "color", nil, "Color, repeat or comma separate for several")
	fs.StringVar(&f.style, "style", "", "Style, e.g. rustic or modern")
	fs.StringVarP(&f.kind, "type", "t", "", "Furniture type, e.g. kitchen or wardrobe")
	fs.Float64Var(&f.budget, "budget", 0, "Budget ceiling")
	fs.StringVar(&f.description, "description", "", "Free-form description")
	fs.IntVar(&f.doors, "doors", 0, "Number of doors")
	fs.IntVar(&f.drawers, "drawers", 0, "Number of drawers")
	fs.StringVar(&f.hinge, "hinge", "", "Hinge type: standard, soft_close or concealed")
	fs.StringVar(&f.slide, "slide", "", "Drawer slide type")
	fs.StringVar(&f.finish, "finish", "", "Finish type")
	fs.StringSliceVar(&f.extras, "extra", nil, "Extra requirement, repeatable")
	fs.StringVar(&f.locale, "locale", "", "Output locale: es or en")
}

// buildRequest reads the request file, when given, and applies every flag
// the user set on top of it.
func (o *options) buildRequest(stdin io.Reader) (domain.ConfigurationRequest, error) {
	var req domain.ConfigurationRequest
	if o.file != "" {
		var r io.Reader = stdin
		if o.file != "-" {
			fh, err := os.Open(o.file)
			if err != nil {
				return req, fmt.Errorf("open request: %w", err)
			}
			defer fh.Close()
			r = fh
		}
		if err := json.NewDecoder(r).Decode(&req); err != nil {
			return req, fmt.Errorf("decode request: %w", err)
		}
	}
	o.request.apply(&req)
	return req, nil
}

func (f *requestFlags) apply(req *domain.ConfigurationRequest) {
	setString := func(dst *string, v string) {
		if strings.TrimSpace(v) != "" {
			*dst = v
		}
	}
	setFloat := func(dst *float64, v float64) {
		if v != 0 {
			*dst = v
		}
	}
	setString(&req.UserID, f.userID)
	setFloat(&req.Dimensions.Length, f.length)
	setFloat(&req.Dimensions.Width, f.width)
	setFloat(&req.Dimensions.Height, f.height)
	if f.unit != "" {
		req.Dimensions.Unit = domain.Unit(f.unit)
	}
	if len(f.material) > 0 {
		req.Material = domain.NewMultiValue(f.material...)
	}
	if len(f.color) > 0 {
		req.Color = domain.NewMultiValue(f.color...)
	}
	setString(&req.Style, f.style)
	setString(&req.FurnitureType, f.kind)
	setFloat(&req.BudgetCeiling, f.budget)
	setString(&req.Description, f.description)
	setString(&req.Locale, f.locale)
	if f.doors != 0 {
		req.Specification.DoorCount = f.doors
	}
	if f.drawers != 0 {
		req.Specification.DrawerCount = f.drawers
	}
	if f.hinge != "" {
		req.Specification.HingeType = domain.Hinge(f.hinge)
	}
	if f.slide != "" {
		req.Specification.SlideType = domain.Slide(f.slide)
	}
	if f.finish != "" {
		req.Specification.FinishType = domain.Finish(f.finish)
	}
	if len(f.extras) > 0 {
		req.Specification.FreeText = append(req.Specification.FreeText, f.extras...)
	}
}
