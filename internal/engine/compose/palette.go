package compose

import (
	"math"
	"strconv"
	"strings"

	"workshop/internal/textnorm"
)

type pairing struct {
	names  []string
	colors []string
}

var complementary = []pairing{
	{names: []string{"blanco", "white"}, colors: []string{"Light grey", "Beige", "Pastel blue"}},
	{names: []string{"negro", "black"}, colors: []string{"White", "Grey", "Gold"}},
	{names: []string{"marron", "cafe", "brown"}, colors: []string{"Cream", "Olive green", "Burnt orange"}},
	{names: []string{"gris", "grey", "gray"}, colors: []string{"White", "Blue", "Yellow"}},
	{names: []string{"azul", "blue"}, colors: []string{"White", "Grey", "Orange"}},
}

var popularColors = []string{"White", "Natural wood", "Charcoal"}

// ComplementaryColors suggests colors that pair with the primary color.
func ComplementaryColors(color string) []string {
	folded := textnorm.Fold(color)
	if folded != "" {
		for _, p := range complementary {
			for _, n := range p.names {
				if strings.Contains(folded, n) {
					return append([]string(nil), p.colors...)
				}
			}
		}
	}
	return append([]string(nil), popularColors...)
}

func nonEmpty(values, fallback []string) []string {
	if out := compact(values); len(out) > 0 {
		return out
	}
	return fallback
}

func compact(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
