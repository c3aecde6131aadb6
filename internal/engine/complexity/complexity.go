// Package complexity scores how demanding a piece is to build. The score is
// a multiplier in [1, 3] used by the estimator.
package complexity

import (
	"math"
	"unicode/utf8"

	"workshop/internal/domain"
	"workshop/internal/textnorm"
)

const (
	Min = 1.0
	Max = 3.0

	doorStep      = 0.1
	doorCap       = 0.6
	drawerStep    = 0.15
	drawerCap     = 0.8
	hingeBonus    = 0.2
	slideBonus    = 0.2
	finishBonus   = 0.15
	ornateBonus   = 0.3
	extrasBonus   = 0.5
	longTextBonus = 0.3

	longDescription = 100
)

var ornateStyles = []string{
	"art deco", "art-deco", "artdeco", "vintage", "baroque", "barroco",
	"victorian", "victoriano", "rococo",
}

// Score returns the complexity multiplier for a specification, style and
// free description.
func Score(spec domain.Specification, style, description string) float64 {
	score := Min
	score += math.Min(float64(max(spec.DoorCount, 0))*doorStep, doorCap)
	score += math.Min(float64(max(spec.DrawerCount, 0))*drawerStep, drawerCap)
	if spec.HingeType.Premium() {
		score += hingeBonus
	}
	if spec.SlideType.Premium() {
		score += slideBonus
	}
	if spec.FinishType.Premium() {
		score += finishBonus
	}
	if Ornate(style) {
		score += ornateBonus
	}
	if len(spec.FreeText) > 0 {
		score += extrasBonus
	}
	if utf8.RuneCountInString(description) > longDescription {
		score += longTextBonus
	}
	return math.Min(score, Max)
}

// Ornate reports historically ornate styles.
func Ornate(style string) bool {
	return textnorm.ContainsAny(style, ornateStyles...)
}
