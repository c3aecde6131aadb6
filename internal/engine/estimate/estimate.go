// Package estimate turns volume, material and complexity into price and lead
// time ranges.
package estimate

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"workshop/internal/domain"
	"workshop/internal/engine/complexity"
)

const (
	daysPerVolumeStep = 100000.0
	baseDays          = 5
	cm3PerM3          = 1e6

	costLow   = 0.8
	costHigh  = 1.2
	daysLow   = 0.8
	daysHigh  = 1.3
	capRatio  = 0.95
	capMargin = 500.0

	hardwarePerDoor   = 2
	hardwarePerDrawer = 2
)

// Input is everything the estimator needs. Volume is in cubic centimeters.
type Input struct {
	VolumeCm3     float64
	Material      string
	Complexity    float64
	BudgetCeiling float64
	Specification domain.Specification
}

// Estimator prices pieces against a Catalog. It is safe for concurrent use.
type Estimator struct {
	catalog *Catalog
}

// New returns an Estimator for catalog, or the built-in catalog when nil.
func New(catalog *Catalog) *Estimator {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Estimator{catalog: catalog}
}

// Catalog exposes the catalog in use.
func (e *Estimator) Catalog() *Catalog { return e.catalog }

// Estimate returns the cost and duration ranges. Input that validation
// should have excluded yields a *domain.EstimationError.
func (e *Estimator) Estimate(in Input) (domain.CostEstimate, domain.DurationEstimate, error) {
	if err := checkInput(in); err != nil {
		return domain.CostEstimate{}, domain.DurationEstimate{}, err
	}
	return e.cost(in), Duration(in.VolumeCm3, in.Complexity), nil
}

func checkInput(in Input) error {
	switch {
	case math.IsNaN(in.VolumeCm3) || math.IsInf(in.VolumeCm3, 0) || in.VolumeCm3 <= 0:
		return &domain.EstimationError{Reason: fmt.Sprintf("volume must be positive, got %v", in.VolumeCm3)}
	case math.IsNaN(in.Complexity) || in.Complexity < complexity.Min || in.Complexity > complexity.Max:
		return &domain.EstimationError{Reason: fmt.Sprintf("complexity %v outside [%v, %v]", in.Complexity, complexity.Min, complexity.Max)}
	case math.IsNaN(in.BudgetCeiling) || in.BudgetCeiling < 0:
		return &domain.EstimationError{Reason: fmt.Sprintf("budget ceiling must not be negative, got %v", in.BudgetCeiling)}
	case in.Specification.DoorCount < 0 || in.Specification.DrawerCount < 0:
		return &domain.EstimationError{Reason: "door and drawer counts must not be negative"}
	}
	return nil
}

// Duration computes the lead time range in days.
func Duration(volumeCm3, multiplier float64) domain.DurationEstimate {
	base := math.Ceil(volumeCm3/daysPerVolumeStep) + baseDays
	avg := math.Round(base * multiplier)
	return domain.DurationEstimate{
		MinDays: int(math.Round(avg * daysLow)),
		MaxDays: int(math.Round(avg * daysHigh)),
		AvgDays: int(avg),
	}
}

func (e *Estimator) cost(in Input) domain.CostEstimate {
	price := e.price(in.VolumeCm3, in.Material, in.Complexity, in.Specification)
	budget := in.BudgetCeiling
	if budget > 0 && price > budget {
		price = math.Floor(math.Max(budget*capRatio, budget-capMargin))
	}
	avg := int64(math.Round(price))
	if budget > 0 && float64(avg) > budget {
		avg = int64(math.Floor(budget))
	}
	if avg < 1 {
		avg = 1
	}
	return domain.CostEstimate{
		Minimum: int64(math.Round(float64(avg) * costLow)),
		Maximum: int64(math.Round(float64(avg) * costHigh)),
		Average: avg,
	}
}

// price is the unrounded, uncapped price for a multiplier.
func (e *Estimator) price(volumeCm3 float64, material string, multiplier float64, spec domain.Specification) float64 {
	price := e.catalog.RatePerM3(material) * (volumeCm3 / cm3PerM3) * multiplier
	price += float64(max(spec.DoorCount, 0)) * e.catalog.hingeCost(spec.HingeType) * hardwarePerDoor
	price += float64(max(spec.DrawerCount, 0)) * e.catalog.slideCost(spec.SlideType) * hardwarePerDrawer
	return price * e.catalog.finishFactor(spec.FinishType)
}

// WeightKg estimates the weight of a solid block of material.
func (e *Estimator) WeightKg(volumeCm3 float64, material string) float64 {
	return math.Round(volumeCm3 / cm3PerM3 * e.catalog.Density(material) * 1000)
}

// CompatibleMaterials lists materials that pair with the primary material.
func (e *Estimator) CompatibleMaterials(material string) []string {
	return e.catalog.CompatibleMaterials(material)
}

// SimilarProducts returns two catalog-style suggestions priced as a plain
// and a simplified version of the request.
func (e *Estimator) SimilarProducts(req domain.ConfigurationRequest, volumeCm3 float64) []domain.ProductSuggestion {
	if volumeCm3 <= 0 {
		return nil
	}
	kind := strings.TrimSpace(req.FurnitureType)
	if kind == "" {
		kind = "custom piece"
	}
	style := strings.TrimSpace(req.Style)
	material := req.Material.Primary
	title := cases.Title(language.Und)
	suggest := func(name string, multiplier float64, similarity int) domain.ProductSuggestion {
		p := int64(math.Round(e.price(volumeCm3, material, multiplier, req.Specification)))
		return domain.ProductSuggestion{Name: name, BasePrice: max(p, 1), Similarity: similarity}
	}
	return []domain.ProductSuggestion{
		suggest(title.String(strings.TrimSpace(kind+" "+style)), 1.0, 85),
		suggest(title.String(strings.TrimSpace(style+" in "+material)), 0.8, 72),
	}
}
