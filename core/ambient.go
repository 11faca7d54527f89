package core

// AmbientCondition is one weather point a rating is evaluated under.
// Wind speed is in ft/s to match conductor-table conventions; the thermal
// model converts to SI internally. The struct is comparable so it can key
// the rating cache directly.
type AmbientCondition struct {
	TempC        float64 `json:"temp_c"`
	WindFtPerSec float64 `json:"wind_ft_per_sec"`

	// WindAngleDeg is the wind direction relative to the conductor axis,
	// in degrees. 90 = perpendicular (maximum cooling).
	WindAngleDeg float64 `json:"wind_angle_deg"`

	// SunHour is the local solar time-of-day, 0–24. 12 = solar noon.
	SunHour float64 `json:"sun_hour"`

	// DayOfYear drives the solar declination, 1–366.
	DayOfYear int `json:"day_of_year"`
}

// WithTemp returns a copy of the condition at a different ambient
// temperature. Used by sweeps, which vary temperature only.
func (a AmbientCondition) WithTemp(tempC float64) AmbientCondition {
	a.TempC = tempC
	return a
}

// WithWind returns a copy of the condition at a different wind speed.
func (a AmbientCondition) WithWind(windFtPerSec float64) AmbientCondition {
	a.WindFtPerSec = windFtPerSec
	return a
}

// AmbientBounds is the validated domain for request parameters. Values
// outside the bounds are rejected before any computation begins — never
// silently clamped.
type AmbientBounds struct {
	TempMinC        float64 `json:"temp_min_c"`
	TempMaxC        float64 `json:"temp_max_c"`
	WindMinFtPerSec float64 `json:"wind_min_ft_per_sec"`
	WindMaxFtPerSec float64 `json:"wind_max_ft_per_sec"`
}

// DefaultAmbientBounds covers the operating envelope the rating model is
// calibrated for, including the upper end of the stress sweep range.
func DefaultAmbientBounds() AmbientBounds {
	return AmbientBounds{
		TempMinC:        -10,
		TempMaxC:        80,
		WindMinFtPerSec: 0,
		WindMaxFtPerSec: 50,
	}
}

// Validate rejects conditions outside the bounded domain. The first
// violating parameter is reported; angle, sun time and day of year have
// fixed physical domains.
func (b AmbientBounds) Validate(a AmbientCondition) error {
	if a.TempC < b.TempMinC || a.TempC > b.TempMaxC {
		return &InputOutOfRangeError{Param: "ambient temperature", Value: a.TempC, Min: b.TempMinC, Max: b.TempMaxC}
	}
	if a.WindFtPerSec < b.WindMinFtPerSec || a.WindFtPerSec > b.WindMaxFtPerSec {
		return &InputOutOfRangeError{Param: "wind speed", Value: a.WindFtPerSec, Min: b.WindMinFtPerSec, Max: b.WindMaxFtPerSec}
	}
	if a.WindAngleDeg < 0 || a.WindAngleDeg > 180 {
		return &InputOutOfRangeError{Param: "wind angle", Value: a.WindAngleDeg, Min: 0, Max: 180}
	}
	if a.SunHour < 0 || a.SunHour > 24 {
		return &InputOutOfRangeError{Param: "sun time", Value: a.SunHour, Min: 0, Max: 24}
	}
	if a.DayOfYear < 1 || a.DayOfYear > 366 {
		return &InputOutOfRangeError{Param: "day of year", Value: float64(a.DayOfYear), Min: 1, Max: 366}
	}
	return nil
}

// DefaultAmbient returns the ambient defaults the original network studies
// were run with: perpendicular wind, solar noon, mid-June sun.
func DefaultAmbient(tempC, windFtPerSec float64) AmbientCondition {
	return AmbientCondition{
		TempC:        tempC,
		WindFtPerSec: windFtPerSec,
		WindAngleDeg: 90,
		SunHour:      12,
		DayOfYear:    163, // 12 June
	}
}
