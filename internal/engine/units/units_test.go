package units

import (
	"errors"
	"testing"

	"workshop/internal/domain"
)

func TestToCentimeters(t *testing.T) {
	cases := []struct {
		name string
		in   domain.Dimensions3D
		want domain.Dimensions3D
	}{
		{
			name: "millimeters",
			in:   domain.Dimensions3D{Length: 3004, Width: 596, Height: 2400, Unit: domain.UnitMillimeter},
			want: domain.Dimensions3D{Length: 300, Width: 60, Height: 240, Unit: domain.UnitCentimeter},
		},
		{
			name: "meters",
			in:   domain.Dimensions3D{Length: 1.5, Width: 0.6, Height: 2.01, Unit: domain.UnitMeter},
			want: domain.Dimensions3D{Length: 150, Width: 60, Height: 201, Unit: domain.UnitCentimeter},
		},
		{
			name: "omitted unit is centimeters",
			in:   domain.Dimensions3D{Length: 80.4, Width: 40.5, Height: 100},
			want: domain.Dimensions3D{Length: 80, Width: 41, Height: 100, Unit: domain.UnitCentimeter},
		},
		{
			name: "floor of one",
			in:   domain.Dimensions3D{Length: 2, Width: 3, Height: 4, Unit: domain.UnitMillimeter},
			want: domain.Dimensions3D{Length: 1, Width: 1, Height: 1, Unit: domain.UnitCentimeter},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ToCentimeters(tc.in)
			if err != nil {
				t.Fatalf("ToCentimeters: %v", err)
			}
			if got != tc.want {
				t.Fatalf("ToCentimeters = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestToCentimetersIdempotent(t *testing.T) {
	inputs := []domain.Dimensions3D{
		{Length: 300, Width: 60, Height: 240, Unit: domain.UnitCentimeter},
		{Length: 1, Width: 1, Height: 1, Unit: domain.UnitCentimeter},
		{Length: 1234.6, Width: 0.2, Height: 77.5, Unit: domain.UnitMillimeter},
	}
	for _, in := range inputs {
		once, err := ToCentimeters(in)
		if err != nil {
			t.Fatalf("first conversion: %v", err)
		}
		twice, err := ToCentimeters(once)
		if err != nil {
			t.Fatalf("second conversion: %v", err)
		}
		if once != twice {
			t.Fatalf("conversion not idempotent: %+v then %+v", once, twice)
		}
	}
}

func TestToCentimetersUnknownUnit(t *testing.T) {
	_, err := ToCentimeters(domain.Dimensions3D{Length: 1, Width: 1, Height: 1, Unit: "ft"})
	var uerr *domain.UnitConversionError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected *UnitConversionError, got %v", err)
	}
	if uerr.Unit != "ft" {
		t.Fatalf("Unit = %q", uerr.Unit)
	}
}
