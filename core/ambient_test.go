package core

import (
	"errors"
	"testing"
)

func TestAmbientBoundsValidate(t *testing.T) {
	bounds := DefaultAmbientBounds()

	cases := []struct {
		name      string
		ambient   AmbientCondition
		wantParam string // empty = accepted
	}{
		{"typical summer day", DefaultAmbient(35, 2), ""},
		{"domain floor", DefaultAmbient(bounds.TempMinC, bounds.WindMinFtPerSec), ""},
		{"domain ceiling", DefaultAmbient(bounds.TempMaxC, bounds.WindMaxFtPerSec), ""},
		{"temperature too high", DefaultAmbient(bounds.TempMaxC + 0.1, 2), "ambient temperature"},
		{"temperature too low", DefaultAmbient(bounds.TempMinC - 0.1, 2), "ambient temperature"},
		{"wind too high", DefaultAmbient(35, bounds.WindMaxFtPerSec + 1), "wind speed"},
		{"negative wind", DefaultAmbient(35, -0.5), "wind speed"},
		{"bad wind angle", func() AmbientCondition { a := DefaultAmbient(35, 2); a.WindAngleDeg = 270; return a }(), "wind angle"},
		{"bad sun hour", func() AmbientCondition { a := DefaultAmbient(35, 2); a.SunHour = 25; return a }(), "sun time"},
		{"bad day of year", func() AmbientCondition { a := DefaultAmbient(35, 2); a.DayOfYear = 0; return a }(), "day of year"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := bounds.Validate(tc.ambient)
			if tc.wantParam == "" {
				if err != nil {
					t.Errorf("want accepted, got %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInputOutOfRange) {
				t.Fatalf("want ErrInputOutOfRange, got %v", err)
			}
			var oor *InputOutOfRangeError
			if !errors.As(err, &oor) {
				t.Fatalf("want *InputOutOfRangeError, got %T", err)
			}
			if oor.Param != tc.wantParam {
				t.Errorf("rejected parameter %q, want %q", oor.Param, tc.wantParam)
			}
		})
	}
}

func TestAmbientWithTempAndWind(t *testing.T) {
	base := DefaultAmbient(35, 2)

	hot := base.WithTemp(50)
	if hot.TempC != 50 || hot.WindFtPerSec != 2 {
		t.Errorf("WithTemp result %+v", hot)
	}
	breezy := base.WithWind(10)
	if breezy.WindFtPerSec != 10 || breezy.TempC != 35 {
		t.Errorf("WithWind result %+v", breezy)
	}
	if base.TempC != 35 || base.WindFtPerSec != 2 {
		t.Errorf("base mutated: %+v", base)
	}
}
