// Package compose assembles the recommendation narrative and merges optional
// provider overrides over the local computation.
package compose

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"workshop/internal/domain"
	"workshop/internal/textnorm"
)

// Input is the locally computed material for a recommendation.
type Input struct {
	Request             domain.ConfigurationRequest
	Layout              domain.Layout
	Cost                domain.CostEstimate
	Duration            domain.DurationEstimate
	SimilarProducts     []domain.ProductSuggestion
	Complexity          float64
	WeightKg            float64
	CompatibleMaterials []string
	Override            *domain.TextOverride
}

// Composition is the merged outcome.
type Composition struct {
	Source           string
	Text             string
	Cost             domain.CostEstimate
	Duration         domain.DurationEstimate
	Layout           domain.Layout
	SimilarProducts  []domain.ProductSuggestion
	FabricationSteps []string
	AdditionalTips   []string
	Technical        domain.TechnicalProfile
}

var fabricationSteps = []string{
	"Technical design and detailed drawings",
	"Material selection and preparation",
	"Cutting and machining of parts",
	"Assembly of the main structure",
	"Application of finishes and treatments",
	"Final quality control",
	"Packaging and delivery preparation",
}

var additionalTips = []string{
	"Consider a stain-resistant treatment for extra durability",
	"Include height adjustment where applicable",
	"Evaluate integrated storage options",
	"Plan preventive maintenance every 6 months",
}

// Compose builds the local result and overlays any valid override fields.
// It never fails and never leaves a section empty.
func Compose(in Input) Composition {
	out := Composition{
		Source:           domain.SourceLocal,
		Cost:             in.Cost,
		Duration:         in.Duration,
		Layout:           in.Layout,
		SimilarProducts:  in.SimilarProducts,
		FabricationSteps: append([]string(nil), fabricationSteps...),
		AdditionalTips:   append([]string(nil), additionalTips...),
		Technical: domain.TechnicalProfile{
			VolumeM3:            roundTo(in.Layout.VolumeCm3/1e6, 3),
			WeightKg:            in.WeightKg,
			Complexity:          roundTo(in.Complexity, 2),
			CompatibleMaterials: nonEmpty(in.CompatibleMaterials, []string{"MDF", "Plywood", "Laminate"}),
			ComplementaryColors: ComplementaryColors(in.Request.Color.Primary),
		},
	}
	if merge(&out, in.Override, in.Request.BudgetCeiling) {
		out.Source = in.Override.Provider
		if out.Source == "" {
			out.Source = "external"
		}
	}
	if out.Text == "" {
		out.Text = template(in, out)
	}
	return out
}

// merge applies the usable fields of o and reports whether any was used.
func merge(out *Composition, o *domain.TextOverride, budget float64) bool {
	if o == nil {
		return false
	}
	used := false
	if text := strings.TrimSpace(o.Text); text != "" {
		out.Text = text
		used = true
	}
	if o.Cost != nil && o.Cost.Valid() && (budget <= 0 || float64(o.Cost.Average) <= budget) {
		out.Cost = *o.Cost
		used = true
	}
	if o.Duration != nil && o.Duration.Valid() {
		out.Duration = *o.Duration
		used = true
	}
	if o.Layout != nil && usableLayout(*o.Layout) {
		out.Layout = *o.Layout
		used = true
	}
	if usableProducts(o.SimilarProducts) {
		out.SimilarProducts = o.SimilarProducts
		used = true
	}
	if steps := compact(o.FabricationSteps); len(steps) > 0 {
		out.FabricationSteps = steps
		used = true
	}
	return used
}

func usableLayout(l domain.Layout) bool {
	if !l.ShapeFamily.Valid() {
		return false
	}
	b := l.BoundingCm
	if b.Length <= 0 || b.Width <= 0 || b.Height <= 0 {
		return false
	}
	for _, c := range append(append([]domain.LayoutComponent(nil), l.Modules...), l.Components...) {
		if c.WidthCm <= 0 || c.HeightCm <= 0 || c.DepthCm <= 0 {
			return false
		}
	}
	return true
}

func usableProducts(products []domain.ProductSuggestion) bool {
	if len(products) == 0 {
		return false
	}
	for _, p := range products {
		if strings.TrimSpace(p.Name) == "" || p.BasePrice <= 0 || p.Similarity < 0 || p.Similarity > 100 {
			return false
		}
	}
	return true
}

func template(in Input, out Composition) string {
	req := in.Request
	title := cases.Title(language.English)
	kind := strings.TrimSpace(req.FurnitureType)
	if kind == "" {
		kind = "piece"
	}
	style := strings.TrimSpace(req.Style)
	if style == "" {
		style = "contemporary"
	}
	dims := in.Layout.BoundingCm
	materials := strings.Join(nonEmpty(req.Material.Values(), []string{"the selected material"}), ", ")
	colors := strings.ToLower(strings.Join(nonEmpty(req.Color.Values(), []string{"a neutral tone"}), ", "))
	compat := out.Technical.CompatibleMaterials
	spec := req.Specification

	sb := &strings.Builder{}
	fmt.Fprintf(sb, "Recommendation for a custom %s:\n\n", strings.ToLower(kind))
	fmt.Fprintf(sb, "Based on the requested dimensions (%sx%sx%s cm), we recommend a %s design that balances function and appearance.\n\n",
		num(dims.Length), num(dims.Width), num(dims.Height), strings.ToLower(style))

	sb.WriteString("STYLE SUMMARY\n")
	fmt.Fprintf(sb, "- Primary material: %s finished in %s\n", materials, colors)
	fmt.Fprintf(sb, "- Style: %s with clean lines and balanced proportions\n", title.String(style))
	fmt.Fprintf(sb, "- Layout: %s\n\n", describeLayout(out.Layout))

	sb.WriteString("TECHNICAL CHARACTERISTICS\n")
	fmt.Fprintf(sb, "- Volume: %.3f m3, estimated weight %s kg, complexity %.2f\n", out.Technical.VolumeM3, num(out.Technical.WeightKg), out.Technical.Complexity)
	fmt.Fprintf(sb, "- Hardware: %d door(s) with %s hinges, %d drawer(s) with %s slides, %s finish\n",
		spec.DoorCount, hardwareName(string(spec.HingeType), domain.HingeStandard), spec.DrawerCount,
		hardwareName(string(spec.SlideType), domain.SlideStandard), hardwareName(string(spec.FinishType), domain.FinishMatte))
	fmt.Fprintf(sb, "- Complementary materials: %s\n", strings.Join(compat, ", "))
	fmt.Fprintf(sb, "- Estimated price: %d to %d (average %d); lead time %d to %d days (average %d)\n",
		out.Cost.Minimum, out.Cost.Maximum, out.Cost.Average, out.Duration.MinDays, out.Duration.MaxDays, out.Duration.AvgDays)
	for _, w := range out.Layout.Warnings {
		fmt.Fprintf(sb, "- Note: %s\n", w.Message)
	}
	if len(spec.FreeText) > 0 {
		fmt.Fprintf(sb, "- Extras: %s\n", textnorm.Sanitize(strings.Join(spec.FreeText, ", ")))
	}
	sb.WriteString("\nFABRICATION STEPS\n")
	for i, step := range out.FabricationSteps {
		fmt.Fprintf(sb, "%d. %s\n", i+1, step)
	}
	fmt.Fprintf(sb, "\nThis design pairs the character of the %s style with everyday practicality, resulting in a unique piece built around your space.", strings.ToLower(style))
	return sb.String()
}

func describeLayout(l domain.Layout) string {
	switch l.ShapeFamily {
	case domain.ShapeKitchenSet:
		return fmt.Sprintf("kitchen run of %d base and %d upper modules",
			l.Count(domain.KindBaseCabinet), l.Count(domain.KindUpperCabinet))
	case domain.ShapeComponentSet:
		return fmt.Sprintf("wardrobe carcass with %d shelves, %d doors and %d drawers",
			l.Count(domain.KindShelf), l.Count(domain.KindDoor), l.Count(domain.KindDrawer))
	default:
		return "single volume piece"
	}
}

func hardwareName[T ~string](value string, fallback T) string {
	if value == "" {
		value = string(fallback)
	}
	return strings.ReplaceAll(value, "_", "-")
}
