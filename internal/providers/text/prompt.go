package text

import (
	"fmt"
	"strconv"
	"strings"

	"workshop/internal/domain"
	"workshop/internal/textnorm"
)

const systemPrompt = `You are an expert in custom furniture design. Always answer with one strict JSON object and no other text, using these fields:
{"text":string,"similar_products":[{"name":string,"base_price":number,"similarity":number}],"cost":{"minimum":number,"maximum":number,"average":number},"duration":{"min_days":number,"max_days":number,"avg_days":number},"layout":{"shape_family":"box"|"kitchen_set"|"component_set","bounding_cm":{"length":number,"width":number,"height":number},"material":string,"color_hex":string,"modules":[],"components":[]},"fabrication_steps":[string]}
Rules: every dimension is in centimeters; modules and components carry kind, width_cm, height_cm, depth_cm, position{x,y,z}, material and color_hex. Kitchens use kitchen_set with base and upper modules, wardrobes use component_set with components, simple pieces use box. Omit any field you cannot estimate.`

// BuildPrompt renders the user prompt for a request.
func BuildPrompt(req Request) string {
	c := req.Config
	d := req.DimensionsCm
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "Design a custom piece of furniture with these specifications:\n\n")
	fmt.Fprintf(sb, "Type: %s\n", coalesce(c.FurnitureType, "Custom piece"))
	fmt.Fprintf(sb, "Layout family: %s\n", req.Family)
	fmt.Fprintf(sb, "Dimensions: %sx%sx%s cm\n", num(d.Length), num(d.Width), num(d.Height))
	fmt.Fprintf(sb, "Material: %s\n", strings.Join(c.Material.Values(), ", "))
	fmt.Fprintf(sb, "Color: %s\n", strings.Join(c.Color.Values(), ", "))
	fmt.Fprintf(sb, "Style: %s\n", c.Style)
	s := c.Specification
	if s.DoorCount > 0 || s.DrawerCount > 0 {
		fmt.Fprintf(sb, "Doors: %d, drawers: %d\n", s.DoorCount, s.DrawerCount)
	}
	if s.HingeType != "" || s.SlideType != "" || s.FinishType != "" {
		fmt.Fprintf(sb, "Hardware: hinge=%s, slide=%s, finish=%s\n",
			coalesce(string(s.HingeType), string(domain.HingeStandard)),
			coalesce(string(s.SlideType), string(domain.SlideStandard)),
			coalesce(string(s.FinishType), string(domain.FinishMatte)))
	}
	if c.BudgetCeiling > 0 {
		fmt.Fprintf(sb, "Budget ceiling: %s\n", num(c.BudgetCeiling))
	}
	if desc := textnorm.Sanitize(c.Description); desc != "" {
		fmt.Fprintf(sb, "Additional description: %s\n", desc)
	}
	if len(s.FreeText) > 0 {
		fmt.Fprintf(sb, "Special preferences: %s\n", textnorm.Sanitize(strings.Join(s.FreeText, "; ")))
	}
	fmt.Fprintf(sb, "\nProvide a detailed recommendation covering the design, technical characteristics, suggested fabrication process, production time and finishing advice.")
	if c.Locale != "" {
		fmt.Fprintf(sb, " Write the text in the language of locale %q.", c.Locale)
	}
	return sb.String()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
