package imagegen

import (
	"fmt"
	"strings"

	"workshop/internal/domain"
	"workshop/internal/textnorm"
)

const qualityModifiers = ", photorealistic, 8k, highly detailed, professional photography, cinematic lighting, 3d render, unreal engine 5"

// vocabulary maps folded Spanish and English terms onto the English words
// the image model is prompted with.
var vocabulary = map[string]string{
	// colors
	"blanco":   "white",
	"negro":    "black",
	"gris":     "grey",
	"beige":    "beige",
	"marron":   "brown",
	"cafe":     "brown",
	"azul":     "blue",
	"verde":    "green",
	"rojo":     "red",
	"amarillo": "yellow",
	"natural":  "natural",

	// materials
	"madera":     "wood",
	"metal":      "metal",
	"vidrio":     "glass",
	"cristal":    "glass",
	"cuero":      "leather",
	"tela":       "fabric",
	"plastico":   "plastic",
	"marmol":     "marble",
	"ceramica":   "ceramic",
	"roble":      "oak",
	"pino":       "pine",
	"nogal":      "walnut",
	"melamina":   "melamine",
	"aglomerado": "particle board",

	// styles
	"moderno":       "modern",
	"contemporaneo": "contemporary",
	"minimalista":   "minimalist",
	"industrial":    "industrial",
	"escandinavo":   "scandinavian",
	"rustico":       "rustic",
	"clasico":       "classic",
	"vintage":       "vintage",
	"bohemio":       "bohemian",

	// furniture types
	"cocina":           "kitchen",
	"mueble de cocina": "kitchen cabinet",
	"closet":           "closet",
	"armario":          "wardrobe",
	"ropero":           "wardrobe",
	"guardarropa":      "wardrobe",
	"mueble":           "furniture",
	"mesa":             "table",
	"escritorio":       "desk",
	"estanteria":       "bookshelf",
	"librero":          "bookshelf",
	"comoda":           "dresser",
	"mueble de tv":     "tv unit",
}

// Translate returns the English vocabulary word for term, or the trimmed
// term when it is not in the vocabulary.
func Translate(term string) string {
	trimmed := strings.TrimSpace(term)
	if en, ok := vocabulary[textnorm.Fold(trimmed)]; ok {
		return en
	}
	return trimmed
}

func translateAll(values []string) string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if t := Translate(v); t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, " and ")
}

// BuildPrompt renders the single-paragraph image prompt for a request.
func BuildPrompt(req domain.ConfigurationRequest) string {
	kind := Translate(req.FurnitureType)
	if kind == "" {
		kind = "furniture"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Furniture design, %s, style %s, made of %s, color %s",
		kind, Translate(req.Style), translateAll(req.Material.Values()), translateAll(req.Color.Values()))
	if n := req.Specification.DoorCount; n > 0 {
		fmt.Fprintf(&sb, ", %d doors", n)
	}
	if n := req.Specification.DrawerCount; n > 0 {
		fmt.Fprintf(&sb, ", %d drawers", n)
	}
	if desc := textnorm.Sanitize(req.Description); desc != "" {
		sb.WriteString(", ")
		sb.WriteString(desc)
	}
	sb.WriteString(qualityModifiers)
	return sb.String()
}
