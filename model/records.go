// Package model defines the structured records exchanged with the
// excluded ingestion layer. Field shapes mirror the upstream network and
// conductor tables; validation tags express the domains the loader
// enforces before any core type is built.
package model

// ConductorRecord is one conductor library entry: AC resistance at two
// reference temperatures, outer diameter, and the maximum allowable
// operating temperature.
type ConductorRecord struct {
	Name            string  `json:"name" validate:"required"`
	ResLoOhmPerMile float64 `json:"res_lo_ohm_per_mile" validate:"gt=0"`
	ResHiOhmPerMile float64 `json:"res_hi_ohm_per_mile" validate:"gt=0,gtefield=ResLoOhmPerMile"`
	TempLoC         float64 `json:"temp_lo_c"`
	TempHiC         float64 `json:"temp_hi_c" validate:"gtfield=TempLoC"`
	DiameterIn      float64 `json:"diameter_in" validate:"gt=0"`
	MaxOpTempC      float64 `json:"max_op_temp_c" validate:"gt=0"`
}

// BusRecord is one network bus.
type BusRecord struct {
	ID        string  `json:"id" validate:"required"`
	VoltageKV float64 `json:"voltage_kv" validate:"gt=0"`
}

// LineRecord is one transmission line. MaxOpTempC optionally overrides
// the conductor library MOT for this line.
type LineRecord struct {
	ID            string  `json:"id" validate:"required"`
	BranchName    string  `json:"branch_name"`
	Bus0          string  `json:"bus0" validate:"required"`
	Bus1          string  `json:"bus1" validate:"required,nefield=Bus0"`
	Conductor     string  `json:"conductor" validate:"required"`
	NominalFlowMW float64 `json:"p0_nominal_mw"`
	VoltageKV     float64 `json:"voltage_kv" validate:"gt=0"`
	Reactance     float64 `json:"reactance" validate:"gt=0"`
	MaxOpTempC    float64 `json:"max_op_temp_c,omitempty" validate:"omitempty,gt=0"`
}

// AmbientDefaults carries the non-request ambient context: solar
// time-of-day, calendar position, wind angle, and the site parameters the
// thermal model needs. Zero values fall back to the study defaults.
type AmbientDefaults struct {
	SunHour        float64 `json:"sun_hour" validate:"gte=0,lte=24"`
	DayOfYear      int     `json:"day_of_year" validate:"gte=0,lte=366"`
	WindAngleDeg   float64 `json:"wind_angle_deg" validate:"gte=0,lte=180"`
	Emissivity     float64 `json:"emissivity" validate:"gte=0,lte=1"`
	Absorptivity   float64 `json:"absorptivity" validate:"gte=0,lte=1"`
	ElevationFt    float64 `json:"elevation_ft" validate:"gte=0"`
	LatitudeDeg    float64 `json:"latitude_deg" validate:"gte=-90,lte=90"`
	LineAzimuthDeg float64 `json:"line_azimuth_deg" validate:"gte=0,lte=360"`
}

// GridScenarioFile is the JSON payload the loader consumes: the conductor
// library, the bus and line tables, and optional ambient defaults.
type GridScenarioFile struct {
	Conductors []ConductorRecord `json:"conductors" validate:"required,min=1,dive"`
	Buses      []BusRecord       `json:"buses" validate:"required,min=1,dive"`
	Lines      []LineRecord      `json:"lines" validate:"required,min=1,dive"`
	Ambient    *AmbientDefaults  `json:"ambient_defaults,omitempty" validate:"omitempty"`
}
