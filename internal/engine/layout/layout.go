// Package layout builds deterministic parametric 3D layouts for the three
// shape families. Pieces that do not physically fit the bounding volume are
// dropped and reported as truncation warnings.
package layout

import (
	"fmt"
	"strings"

	"workshop/internal/domain"
)

// Input describes the piece to lay out. Dimensions must already be in
// centimeters.
type Input struct {
	DimensionsCm  domain.Dimensions3D
	Material      string
	ColorHex      string
	Family        domain.ShapeFamily
	Name          string
	Specification domain.Specification
}

const defaultName = "Custom piece"

// Generate returns the layout for in. Identical input always yields an
// identical layout.
func Generate(in Input) domain.Layout {
	dims := in.DimensionsCm
	dims.Unit = domain.UnitCentimeter
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = defaultName
	}
	colorHex := in.ColorHex
	if colorHex == "" {
		colorHex = ColorHex("")
	}
	out := domain.Layout{
		ShapeFamily: in.Family,
		Name:        name,
		BoundingCm:  dims,
		Material:    in.Material,
		ColorHex:    colorHex,
	}
	b := &builder{material: in.Material, colorHex: colorHex}
	switch in.Family {
	case domain.ShapeKitchenSet:
		kitchen(b, dims, in.Specification)
		out.Modules = b.modules
	case domain.ShapeComponentSet:
		out.BoundingCm.Width = wardrobeDepth(dims.Width)
		wardrobe(b, out.BoundingCm, in.Specification)
	default:
		out.ShapeFamily = domain.ShapeBox
	}
	out.VolumeCm3 = out.BoundingCm.VolumeCm3()
	out.Components = b.components
	out.Warnings = b.warnings
	return out
}

type builder struct {
	material   string
	colorHex   string
	modules    []domain.LayoutComponent
	components []domain.LayoutComponent
	warnings   []domain.LayoutWarning
}

func (b *builder) piece(kind domain.ComponentKind, label string, w, h, d float64, pos domain.Vec3) domain.LayoutComponent {
	return domain.LayoutComponent{
		Kind:     kind,
		Label:    label,
		WidthCm:  w,
		HeightCm: h,
		DepthCm:  d,
		Position: pos,
		Material: b.material,
		ColorHex: b.colorHex,
	}
}

func (b *builder) truncated(kind domain.ComponentKind, requested, placed int) {
	if placed >= requested {
		return
	}
	b.warnings = append(b.warnings, domain.LayoutWarning{
		Code:      domain.WarningLayoutTruncated,
		Kind:      kind,
		Requested: requested,
		Placed:    placed,
		Message:   fmt.Sprintf("placed %d of %d %s components; the rest do not fit", placed, requested, kind),
	})
}
