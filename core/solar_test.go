package core

import "testing"

func TestSolarDeclination(t *testing.T) {
	// Mid-June sits near the +23.46° solstice extreme; mid-December near
	// the opposite one.
	if d := solarDeclinationDeg(163); d < 23 || d > 23.46 {
		t.Errorf("declination on day 163 = %g, want near +23.4", d)
	}
	if d := solarDeclinationDeg(355); d > -23 || d < -23.46 {
		t.Errorf("declination on day 355 = %g, want near -23.4", d)
	}
	// Equinoxes are close to zero.
	if d := solarDeclinationDeg(81); d < -1.5 || d > 1.5 {
		t.Errorf("declination on day 81 = %g, want near 0", d)
	}
}

func TestSolarPositionNoon(t *testing.T) {
	// At solar noon the hour angle is zero and altitude peaks at
	// 90 − |lat − decl|.
	decl := solarDeclinationDeg(163)
	alt, _ := solarPositionDeg(27, decl, 0)
	want := 90 - (27 - decl)
	if !almostEqual(alt, want, 1e-6) {
		t.Errorf("noon altitude = %g°, want %g", alt, want)
	}

	// Well before sunrise the sun is below the horizon.
	alt, _ = solarPositionDeg(27, decl, 15*(2-12.0))
	if alt >= 0 {
		t.Errorf("2 AM altitude = %g°, want below horizon", alt)
	}
}

func TestClearSkyFlux(t *testing.T) {
	// Overhead sun lands near the ~1000 W/m² clear-atmosphere ceiling and
	// the flux grows with altitude.
	high := clearSkyFluxWPerM2(90)
	if high < 900 || high > 1100 {
		t.Errorf("flux at 90° = %g W/m², outside clear-sky range", high)
	}
	if low := clearSkyFluxWPerM2(10); low >= high {
		t.Errorf("flux at 10° (%g) not below flux at 90° (%g)", low, high)
	}
}

func TestElevationCorrection(t *testing.T) {
	if c := elevationCorrection(0); !almostEqual(c, 1, 1e-12) {
		t.Errorf("sea-level correction = %g, want 1", c)
	}
	if c := elevationCorrection(1000 * footToM); c <= 1 {
		t.Errorf("correction at 1000 ft = %g, want > 1", c)
	}
}

func TestSolarHeatGain(t *testing.T) {
	noon := DefaultAmbient(35, 2)
	dM := 0.720 * inchToM

	q := solarHeatGainWPerM(noon, dM, 1000*footToM, 27, 90, 0.8)
	if q <= 0 || q > 30 {
		t.Errorf("noon solar gain = %g W/m, outside plausible range", q)
	}

	night := noon
	night.SunHour = 2
	if q := solarHeatGainWPerM(night, dM, 1000*footToM, 27, 90, 0.8); q != 0 {
		t.Errorf("pre-dawn solar gain = %g W/m, want 0", q)
	}
}
