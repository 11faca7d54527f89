package core

import (
	"fmt"
	"sort"
)

// Conductor describes one conductor type from the library: AC resistance at
// two reference temperatures, outer diameter, and the maximum allowable
// operating temperature (MOT). Resistances are in ohm per mile as published
// in conductor tables; the thermal model converts at the boundary.
type Conductor struct {
	Name string `json:"name"`

	// Resistance at the low and high reference temperatures, ohm/mile.
	ResLoOhmPerMile float64 `json:"res_lo_ohm_per_mile"`
	ResHiOhmPerMile float64 `json:"res_hi_ohm_per_mile"`

	// Reference temperatures for the two resistance points, °C.
	// Conductor tables typically publish 25°C and 50°C.
	TempLoC float64 `json:"temp_lo_c"`
	TempHiC float64 `json:"temp_hi_c"`

	DiameterIn float64 `json:"diameter_in"`

	// MaxOpTempC is the design temperature the steady-state rating is
	// solved at. A line may override it (line-specific MOT).
	MaxOpTempC float64 `json:"max_op_temp_c"`
}

// Validate checks the conductor invariants: a positive diameter, distinct
// reference temperatures, and resistance that does not decrease with
// temperature.
func (c *Conductor) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: conductor with empty name", ErrConfiguration)
	}
	if c.DiameterIn <= 0 {
		return fmt.Errorf("%w: conductor %q has non-positive diameter %g", ErrConfiguration, c.Name, c.DiameterIn)
	}
	if c.TempLoC == c.TempHiC {
		return fmt.Errorf("%w: conductor %q reference temperatures must be distinct", ErrConfiguration, c.Name)
	}
	if c.TempLoC > c.TempHiC {
		return fmt.Errorf("%w: conductor %q reference temperatures out of order", ErrConfiguration, c.Name)
	}
	if c.ResLoOhmPerMile <= 0 || c.ResHiOhmPerMile <= 0 {
		return fmt.Errorf("%w: conductor %q has non-positive resistance", ErrConfiguration, c.Name)
	}
	if c.ResHiOhmPerMile < c.ResLoOhmPerMile {
		return fmt.Errorf("%w: conductor %q resistance decreases with temperature", ErrConfiguration, c.Name)
	}
	if c.MaxOpTempC <= c.TempLoC {
		return fmt.Errorf("%w: conductor %q MOT %g°C not above low reference %g°C",
			ErrConfiguration, c.Name, c.MaxOpTempC, c.TempLoC)
	}
	return nil
}

// ResistanceAtOhmPerMile linearly interpolates (and beyond the reference
// points, extrapolates) AC resistance at the given conductor temperature.
func (c *Conductor) ResistanceAtOhmPerMile(tempC float64) float64 {
	slope := (c.ResHiOhmPerMile - c.ResLoOhmPerMile) / (c.TempHiC - c.TempLoC)
	return c.ResLoOhmPerMile + slope*(tempC-c.TempLoC)
}

// WithMaxOpTemp returns a copy of the conductor with a line-specific MOT
// applied. The library entry itself is never mutated.
func (c *Conductor) WithMaxOpTemp(motC float64) *Conductor {
	cc := *c
	cc.MaxOpTempC = motC
	return &cc
}

// ConductorLibrary is an immutable, name-keyed set of conductor types.
type ConductorLibrary struct {
	byName map[string]*Conductor
}

// NewConductorLibrary validates every conductor and builds the library.
// Duplicate names are a configuration error.
func NewConductorLibrary(conductors []*Conductor) (*ConductorLibrary, error) {
	byName := make(map[string]*Conductor, len(conductors))
	for _, c := range conductors {
		if c == nil {
			return nil, fmt.Errorf("%w: nil conductor", ErrConfiguration)
		}
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if _, exists := byName[c.Name]; exists {
			return nil, fmt.Errorf("%w: duplicate conductor %q", ErrConfiguration, c.Name)
		}
		byName[c.Name] = c
	}
	return &ConductorLibrary{byName: byName}, nil
}

// Get returns the conductor with the given name, or nil if absent.
func (l *ConductorLibrary) Get(name string) *Conductor {
	return l.byName[name]
}

// Len returns the number of conductor types in the library.
func (l *ConductorLibrary) Len() int { return len(l.byName) }

// Names returns all conductor names in sorted order.
func (l *ConductorLibrary) Names() []string {
	out := make([]string, 0, len(l.byName))
	for name := range l.byName {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
