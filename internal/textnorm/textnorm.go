// Package textnorm folds and cleans user supplied furniture vocabulary so
// lookups are case and accent insensitive.
package textnorm

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var strictPolicy = bluemonday.StrictPolicy()

// Fold lower-cases s and strips diacritics ("Clóset" becomes "closet").
func Fold(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// Key folds s and joins its words with underscores, so "Soft Close",
// "soft-close" and "soft_close" share a key.
func Key(s string) string {
	fields := strings.FieldsFunc(Fold(s), func(r rune) bool {
		return unicode.IsSpace(r) || r == '-' || r == '_'
	})
	return strings.Join(fields, "_")
}

// ContainsAny reports whether the folded form of s contains any of the
// (already folded) needles.
func ContainsAny(s string, needles ...string) bool {
	folded := Fold(s)
	if folded == "" {
		return false
	}
	for _, n := range needles {
		if n != "" && strings.Contains(folded, n) {
			return true
		}
	}
	return false
}

// Sanitize removes markup from free text and collapses whitespace.
func Sanitize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	cleaned := html.UnescapeString(strictPolicy.Sanitize(s))
	return strings.Join(strings.Fields(cleaned), " ")
}
