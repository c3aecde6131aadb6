package layout

import (
	"regexp"
	"strings"

	"workshop/internal/textnorm"
)

type swatch struct {
	names []string
	hex   string
}

// Checked in order; the first name found in the color wins.
var palette = []swatch{
	{names: []string{"blanco", "white"}, hex: "FFFFFF"},
	{names: []string{"negro", "black"}, hex: "000000"},
	{names: []string{"gris", "grey", "gray"}, hex: "808080"},
	{names: []string{"marron", "cafe", "brown"}, hex: "8B4513"},
	{names: []string{"azul", "blue"}, hex: "0000FF"},
	{names: []string{"verde", "green"}, hex: "008000"},
	{names: []string{"rojo", "red"}, hex: "FF0000"},
	{names: []string{"amarillo", "yellow"}, hex: "FFFF00"},
}

const fallbackHex = "808080"

var hexColor = regexp.MustCompile(`^#?([0-9a-fA-F]{6})$`)

// ColorHex maps a color name (English or Spanish) or a hex literal onto a
// "#RRGGBB" value. Unknown colors map to grey.
func ColorHex(name string) string {
	name = strings.TrimSpace(name)
	if m := hexColor.FindStringSubmatch(name); m != nil {
		return "#" + strings.ToUpper(m[1])
	}
	folded := textnorm.Fold(name)
	for _, s := range palette {
		for _, n := range s.names {
			if strings.Contains(folded, n) {
				return "#" + s.hex
			}
		}
	}
	return "#" + fallbackHex
}
