package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// Unit is the length unit a request's dimensions are expressed in.
type Unit string

const (
	UnitMillimeter Unit = "mm"
	UnitCentimeter Unit = "cm"
	UnitMeter      Unit = "m"
)

// Dimensions3D is the bounding volume of a piece.
type Dimensions3D struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Unit   Unit    `json:"unit,omitempty"`
}

// MaxDimensionCm bounds every axis of a converted request. Nothing a
// workshop builds is longer than 100 m.
const MaxDimensionCm = 10000

// CheckCentimeters rejects converted dimensions that are not finite or
// exceed MaxDimensionCm. It returns a *ValidationError or nil.
func (d Dimensions3D) CheckCentimeters() error {
	v := &ValidationError{}
	check := func(field string, value float64) {
		if math.IsNaN(value) || math.IsInf(value, 0) || value > MaxDimensionCm {
			v.Add(field, fmt.Sprintf("must not exceed %d cm", MaxDimensionCm))
		}
	}
	check("dimensions.length", d.Length)
	check("dimensions.width", d.Width)
	check("dimensions.height", d.Height)
	if len(v.Fields) > 0 {
		return v
	}
	return nil
}

// VolumeCm3 returns the bounding volume. Only meaningful once converted to cm.
func (d Dimensions3D) VolumeCm3() float64 {
	return d.Length * d.Width * d.Height
}

// MultiValue holds a primary value that drives lookups plus advisory
// alternates. JSON input may be a string, a list of strings or the object
// form produced by MarshalJSON.
type MultiValue struct {
	Primary    string   `json:"primary"`
	Alternates []string `json:"alternates,omitempty"`
}

// NewMultiValue builds a MultiValue from values, skipping blanks.
func NewMultiValue(values ...string) MultiValue {
	var mv MultiValue
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if mv.Primary == "" {
			mv.Primary = v
			continue
		}
		mv.Alternates = append(mv.Alternates, v)
	}
	return mv
}

// Values returns the primary followed by the alternates.
func (m MultiValue) Values() []string {
	if m.Primary == "" {
		return nil
	}
	return append([]string{m.Primary}, m.Alternates...)
}

// IsZero reports whether no value was supplied.
func (m MultiValue) IsZero() bool {
	return m.Primary == ""
}

func (m *MultiValue) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*m = MultiValue{}
		return nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*m = NewMultiValue(s)
		return nil
	case '[':
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("expected a list of strings: %w", err)
		}
		*m = NewMultiValue(list...)
		return nil
	case '{':
		type plain MultiValue
		var p plain
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		*m = NewMultiValue(append([]string{p.Primary}, p.Alternates...)...)
		return nil
	}
	return fmt.Errorf("expected string or list of strings, got %s", trimmed)
}

// Specification carries the optional hardware and extras of a request.
// Unset fields are neutral: no extra cost and no extra complexity.
type Specification struct {
	DoorCount   int      `json:"door_count"`
	DrawerCount int      `json:"drawer_count"`
	HingeType   Hinge    `json:"hinge_type,omitempty"`
	SlideType   Slide    `json:"slide_type,omitempty"`
	FinishType  Finish   `json:"finish_type,omitempty"`
	FreeText    []string `json:"free_text,omitempty"`
}

// ConfigurationRequest is the customer's description of the piece.
type ConfigurationRequest struct {
	UserID        string        `json:"user_id,omitempty"`
	Dimensions    Dimensions3D  `json:"dimensions"`
	Material      MultiValue    `json:"material"`
	Color         MultiValue    `json:"color"`
	Style         string        `json:"style"`
	FurnitureType string        `json:"furniture_type,omitempty"`
	BudgetCeiling float64       `json:"budget_ceiling,omitempty"`
	Description   string        `json:"description,omitempty"`
	Specification Specification `json:"specification"`
	Locale        string        `json:"locale,omitempty"`
}

const (
	maxMaterialLen    = 50
	maxColorLen       = 30
	maxStyleLen       = 50
	maxTypeLen        = 50
	maxDescriptionLen = 500
	maxFreeTextLen    = 100
)

// Normalize trims text fields, defaults an omitted unit to centimeters and
// drops blank free-text entries. It returns the normalized copy.
func (r ConfigurationRequest) Normalize() ConfigurationRequest {
	out := r
	out.UserID = strings.TrimSpace(r.UserID)
	out.Style = strings.TrimSpace(r.Style)
	out.FurnitureType = strings.TrimSpace(r.FurnitureType)
	out.Description = strings.TrimSpace(r.Description)
	out.Locale = strings.ToLower(strings.TrimSpace(r.Locale))
	out.Material = NewMultiValue(r.Material.Values()...)
	out.Color = NewMultiValue(r.Color.Values()...)
	unit := Unit(strings.ToLower(strings.TrimSpace(string(r.Dimensions.Unit))))
	if unit == "" {
		unit = UnitCentimeter
	}
	out.Dimensions.Unit = unit
	var extras []string
	for _, item := range r.Specification.FreeText {
		if item = strings.TrimSpace(item); item != "" {
			extras = append(extras, item)
		}
	}
	out.Specification.FreeText = extras
	return out
}

// Validate checks the request and returns a *ValidationError listing every
// offending field, or nil. The unit is checked by the unit converter.
func (r ConfigurationRequest) Validate() error {
	v := &ValidationError{}
	positive := func(field string, value float64) {
		if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
			v.Add(field, "must be a positive number")
		}
	}
	positive("dimensions.length", r.Dimensions.Length)
	positive("dimensions.width", r.Dimensions.Width)
	positive("dimensions.height", r.Dimensions.Height)

	lengths := func(field string, values []string, limit int) {
		for _, value := range values {
			n := utf8.RuneCountInString(value)
			if n < 2 || n > limit {
				v.Add(field, fmt.Sprintf("values must be between 2 and %d characters", limit))
				return
			}
		}
	}
	if r.Material.IsZero() {
		v.Add("material", "is required")
	} else {
		lengths("material", r.Material.Values(), maxMaterialLen)
	}
	if r.Color.IsZero() {
		v.Add("color", "is required")
	} else {
		lengths("color", r.Color.Values(), maxColorLen)
	}
	if r.Style == "" {
		v.Add("style", "is required")
	} else {
		lengths("style", []string{r.Style}, maxStyleLen)
	}
	if r.FurnitureType != "" {
		lengths("furniture_type", []string{r.FurnitureType}, maxTypeLen)
	}
	if r.BudgetCeiling != 0 && (math.IsNaN(r.BudgetCeiling) || r.BudgetCeiling < 1) {
		v.Add("budget_ceiling", "must be at least 1 when set")
	}
	if utf8.RuneCountInString(r.Description) > maxDescriptionLen {
		v.Add("description", fmt.Sprintf("must be at most %d characters", maxDescriptionLen))
	}
	if r.Specification.DoorCount < 0 {
		v.Add("specification.door_count", "must not be negative")
	}
	if r.Specification.DrawerCount < 0 {
		v.Add("specification.drawer_count", "must not be negative")
	}
	for _, item := range r.Specification.FreeText {
		if utf8.RuneCountInString(item) > maxFreeTextLen {
			v.Add("specification.free_text", fmt.Sprintf("entries must be at most %d characters", maxFreeTextLen))
			break
		}
	}
	if len(v.Fields) == 0 {
		return nil
	}
	return v
}
