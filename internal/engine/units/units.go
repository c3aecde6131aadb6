// Package units converts request dimensions to whole centimeters.
package units

import (
	"math"
	"strings"

	"workshop/internal/domain"
)

var factors = map[domain.Unit]float64{
	domain.UnitMillimeter: 0.1,
	domain.UnitCentimeter: 1,
	domain.UnitMeter:      100,
}

// ToCentimeters converts d to centimeters, rounding every value to the
// nearest whole centimeter with a floor of 1. An omitted unit is read as
// centimeters.
func ToCentimeters(d domain.Dimensions3D) (domain.Dimensions3D, error) {
	unit := domain.Unit(strings.ToLower(strings.TrimSpace(string(d.Unit))))
	if unit == "" {
		unit = domain.UnitCentimeter
	}
	factor, ok := factors[unit]
	if !ok {
		return domain.Dimensions3D{}, &domain.UnitConversionError{Unit: string(d.Unit)}
	}
	return domain.Dimensions3D{
		Length: toWholeCm(d.Length * factor),
		Width:  toWholeCm(d.Width * factor),
		Height: toWholeCm(d.Height * factor),
		Unit:   domain.UnitCentimeter,
	}, nil
}

func toWholeCm(v float64) float64 {
	return math.Max(1, math.Round(v))
}
