package core

import (
	"errors"
	"testing"
)

func TestResistanceInterpolation(t *testing.T) {
	c := linnet()

	cases := []struct {
		tempC float64
		want  float64
	}{
		{25, 0.306},
		{50, 0.337},
		{37.5, 0.3215}, // midpoint
		{75, 0.368},    // extrapolated to MOT
	}
	for _, tc := range cases {
		got := c.ResistanceAtOhmPerMile(tc.tempC)
		if !almostEqual(got, tc.want, 1e-9) {
			t.Errorf("ResistanceAtOhmPerMile(%g) = %g, want %g", tc.tempC, got, tc.want)
		}
	}
}

func TestConductorValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Conductor)
	}{
		{"empty name", func(c *Conductor) { c.Name = "" }},
		{"zero diameter", func(c *Conductor) { c.DiameterIn = 0 }},
		{"equal reference temperatures", func(c *Conductor) { c.TempHiC = c.TempLoC }},
		{"reference temperatures out of order", func(c *Conductor) { c.TempLoC, c.TempHiC = c.TempHiC, c.TempLoC }},
		{"resistance decreasing with temperature", func(c *Conductor) { c.ResHiOhmPerMile = c.ResLoOhmPerMile / 2 }},
		{"zero resistance", func(c *Conductor) { c.ResLoOhmPerMile = 0 }},
		{"MOT below low reference", func(c *Conductor) { c.MaxOpTempC = 10 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := linnet()
			tc.mutate(c)
			if err := c.Validate(); !errors.Is(err, ErrConfiguration) {
				t.Errorf("want ErrConfiguration, got %v", err)
			}
		})
	}

	if err := linnet().Validate(); err != nil {
		t.Errorf("valid conductor rejected: %v", err)
	}
}

func TestWithMaxOpTempCopies(t *testing.T) {
	c := linnet()
	override := c.WithMaxOpTemp(90)

	if override.MaxOpTempC != 90 {
		t.Errorf("override MOT = %g, want 90", override.MaxOpTempC)
	}
	if c.MaxOpTempC != 75 {
		t.Errorf("library entry mutated: MOT = %g, want 75", c.MaxOpTempC)
	}
}

func TestConductorLibrary(t *testing.T) {
	a := linnet()
	b := linnet()
	b.Name = "3/0 ACSR 6/1 PIGEON"
	b.DiameterIn = 0.502
	b.ResLoOhmPerMile = 0.723
	b.ResHiOhmPerMile = 0.795

	lib, err := NewConductorLibrary([]*Conductor{a, b})
	if err != nil {
		t.Fatalf("NewConductorLibrary: %v", err)
	}
	if lib.Len() != 2 {
		t.Errorf("Len = %d, want 2", lib.Len())
	}
	if got := lib.Get(a.Name); got != a {
		t.Errorf("Get(%q) returned %v", a.Name, got)
	}
	if got := lib.Get("missing"); got != nil {
		t.Errorf("Get(missing) = %v, want nil", got)
	}

	names := lib.Names()
	if len(names) != 2 || names[0] != b.Name || names[1] != a.Name {
		t.Errorf("Names = %v, want sorted [%q %q]", names, b.Name, a.Name)
	}
}

func TestConductorLibraryRejectsDuplicates(t *testing.T) {
	_, err := NewConductorLibrary([]*Conductor{linnet(), linnet()})
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("want ErrConfiguration for duplicate conductor, got %v", err)
	}
}
