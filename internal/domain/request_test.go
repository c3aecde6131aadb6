package domain

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestMultiValueUnmarshal(t *testing.T) {
	cases := []struct {
		name       string
		input      string
		primary    string
		alternates int
	}{
		{name: "string", input: `"wood"`, primary: "wood"},
		{name: "list", input: `["oak"," ","metal","glass"]`, primary: "oak", alternates: 2},
		{name: "object", input: `{"primary":"walnut","alternates":["steel"]}`, primary: "walnut", alternates: 1},
		{name: "null", input: `null`, primary: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var mv MultiValue
			if err := json.Unmarshal([]byte(tc.input), &mv); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if mv.Primary != tc.primary {
				t.Fatalf("Primary = %q, want %q", mv.Primary, tc.primary)
			}
			if len(mv.Alternates) != tc.alternates {
				t.Fatalf("Alternates = %v, want %d entries", mv.Alternates, tc.alternates)
			}
		})
	}
}

func TestMultiValueRejectsNumbers(t *testing.T) {
	var mv MultiValue
	if err := json.Unmarshal([]byte(`42`), &mv); err == nil {
		t.Fatal("expected error for numeric material")
	}
}

func TestConfigurationRequestDecode(t *testing.T) {
	payload := `{
		"dimensions": {"length": 300, "width": 60, "height": 240},
		"material": ["Madera", "metal"],
		"color": "blanco",
		"style": "moderno",
		"furniture_type": "Cocina integral",
		"specification": {"door_count": 4, "drawer_count": 2, "hinge_type": "Cierre Suave", "slide_type": "telescópica", "finish_type": "brillante"}
	}`
	var req ConfigurationRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		t.Fatalf("decode: %v", err)
	}
	req = req.Normalize()
	if req.Dimensions.Unit != UnitCentimeter {
		t.Fatalf("Unit = %q, want cm default", req.Dimensions.Unit)
	}
	if req.Specification.HingeType != HingeSoftClose {
		t.Fatalf("HingeType = %q", req.Specification.HingeType)
	}
	if req.Specification.SlideType != SlideTelescopic {
		t.Fatalf("SlideType = %q", req.Specification.SlideType)
	}
	if req.Specification.FinishType != FinishGlossy {
		t.Fatalf("FinishType = %q", req.Specification.FinishType)
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateCollectsFieldErrors(t *testing.T) {
	req := ConfigurationRequest{
		Dimensions:    Dimensions3D{Length: 0, Width: -1, Height: 100},
		Color:         NewMultiValue("x"),
		Specification: Specification{DoorCount: -2},
	}.Normalize()
	err := req.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	want := map[string]bool{
		"dimensions.length":        true,
		"dimensions.width":         true,
		"material":                 true,
		"color":                    true,
		"style":                    true,
		"specification.door_count": true,
	}
	for _, f := range verr.Fields {
		delete(want, f.Field)
	}
	if len(want) != 0 {
		t.Fatalf("missing field errors: %v (got %+v)", want, verr.Fields)
	}
}

func TestValidateBudget(t *testing.T) {
	req := ConfigurationRequest{
		Dimensions:    Dimensions3D{Length: 10, Width: 10, Height: 10},
		Material:      NewMultiValue("wood"),
		Color:         NewMultiValue("white"),
		Style:         "modern",
		BudgetCeiling: 0.5,
	}.Normalize()
	if err := req.Validate(); err == nil {
		t.Fatal("expected budget below 1 to be rejected")
	}
	req.BudgetCeiling = 0
	if err := req.Validate(); err != nil {
		t.Fatalf("unset budget must be accepted: %v", err)
	}
}

func TestResolveShapeFamily(t *testing.T) {
	cases := map[string]ShapeFamily{
		"Kitchen island":   ShapeKitchenSet,
		"cocina integral":  ShapeKitchenSet,
		"Clóset principal": ShapeComponentSet,
		"walk-in wardrobe": ShapeComponentSet,
		"armario":          ShapeComponentSet,
		"bookshelf":        ShapeBox,
		"":                 ShapeBox,
	}
	for in, want := range cases {
		if got := ResolveShapeFamily(in); got != want {
			t.Fatalf("ResolveShapeFamily(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestErrorKinds(t *testing.T) {
	provErr := NewProviderError("horde", "submit", errors.New("timeout"))
	if !errors.Is(provErr, ErrProviderFailure) {
		t.Fatal("provider error must match ErrProviderFailure")
	}
	if errors.Unwrap(provErr) == nil {
		t.Fatal("provider error must unwrap its cause")
	}
	if !errors.Is(&JobNotFoundError{JobID: "x"}, ErrNotFound) {
		t.Fatal("job not found must match ErrNotFound")
	}
}

func TestCheckCentimeters(t *testing.T) {
	if err := (Dimensions3D{Length: MaxDimensionCm, Width: 1, Height: 1}).CheckCentimeters(); err != nil {
		t.Fatalf("limit rejected: %v", err)
	}
	err := (Dimensions3D{Length: math.Inf(1), Width: MaxDimensionCm + 1, Height: 50}).CheckCentimeters()
	var verr *ValidationError
	if !errors.As(err, &verr) || len(verr.Fields) != 2 {
		t.Fatalf("err = %v, want 2 field errors", err)
	}
	if verr.Fields[0].Field != "dimensions.length" || verr.Fields[1].Field != "dimensions.width" {
		t.Fatalf("fields = %+v", verr.Fields)
	}
}
