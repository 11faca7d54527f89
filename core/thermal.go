package core

import "math"

// Unit conversions between conductor-table units and SI.
const (
	inchToM = 0.0254
	footToM = 0.3048
	mileToM = 1609.344
)

// RatingResult is the steady-state thermal rating of one conductor under
// one ambient condition. Deterministic and cacheable by the pair
// (conductor identity + MOT, ambient condition).
type RatingResult struct {
	Conductor  string           `json:"conductor"`
	MaxOpTempC float64          `json:"max_op_temp_c"`
	Ambient    AmbientCondition `json:"ambient"`
	Amps       float64          `json:"amps"`
}

// MVA converts the ampere rating to three-phase apparent power at the
// given line voltage (kV).
func (r RatingResult) MVA(voltageKV float64) float64 {
	return math.Sqrt(3) * r.Amps * voltageKV / 1000
}

// ThermalConfig carries the solar/site context and the solve budget for
// the steady-state heat balance. The site values are the study defaults
// the conductor library was calibrated against.
type ThermalConfig struct {
	Emissivity   float64 `json:"emissivity"`
	Absorptivity float64 `json:"absorptivity"`
	ElevationFt  float64 `json:"elevation_ft"`
	LatitudeDeg  float64 `json:"latitude_deg"`

	// LineAzimuthDeg is the assumed conductor run direction for solar
	// incidence. 90 = east-west.
	LineAzimuthDeg float64 `json:"line_azimuth_deg"`

	// MaxIterations bounds the bisection solve; ToleranceAmps is the
	// bracket width at which the solve is considered converged.
	MaxIterations int     `json:"max_iterations"`
	ToleranceAmps float64 `json:"tolerance_amps"`

	Bounds AmbientBounds `json:"bounds"`
}

// DefaultThermalConfig mirrors the original study parameters: 0.8
// emissivity/absorptivity, clear sky, 1000 ft elevation at 27° latitude,
// east-west lines.
func DefaultThermalConfig() ThermalConfig {
	return ThermalConfig{
		Emissivity:     0.8,
		Absorptivity:   0.8,
		ElevationFt:    1000,
		LatitudeDeg:    27,
		LineAzimuthDeg: 90,
		MaxIterations:  200,
		ToleranceAmps:  1e-3,
		Bounds:         DefaultAmbientBounds(),
	}
}

// ThermalModel solves the steady-state conductor heat balance
//
//	qc + qr = I²·R(Tc) + qs
//
// for the maximum current I at which the conductor surface holds its
// maximum allowable operating temperature Tc. Convective and radiative
// losses follow the IEEE 738 forms; resistance is linearly interpolated
// between the conductor's two reference points.
type ThermalModel struct {
	cfg ThermalConfig
}

// NewThermalModel builds a model from the given config. Zero-valued
// budget fields fall back to the defaults.
func NewThermalModel(cfg ThermalConfig) *ThermalModel {
	def := DefaultThermalConfig()
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = def.MaxIterations
	}
	if cfg.ToleranceAmps <= 0 {
		cfg.ToleranceAmps = def.ToleranceAmps
	}
	if cfg.Bounds == (AmbientBounds{}) {
		cfg.Bounds = def.Bounds
	}
	return &ThermalModel{cfg: cfg}
}

// Config returns the model configuration.
func (m *ThermalModel) Config() ThermalConfig { return m.cfg }

// Rate computes the steady-state ampacity of the conductor under the
// ambient condition. It returns InputOutOfRangeError for conditions
// outside the validated domain and NonConvergenceError when the heat
// balance has no positive solution or the iteration budget runs out.
func (m *ThermalModel) Rate(c *Conductor, a AmbientCondition) (RatingResult, error) {
	if err := m.cfg.Bounds.Validate(a); err != nil {
		return RatingResult{}, err
	}

	tc := c.MaxOpTempC
	ta := a.TempC
	dM := c.DiameterIn * inchToM
	elevM := m.cfg.ElevationFt * footToM

	qc := m.convectiveLossWPerM(dM, elevM, tc, a)
	qr := m.radiativeLossWPerM(dM, tc, ta)
	qs := solarHeatGainWPerM(a, dM, elevM, m.cfg.LatitudeDeg, m.cfg.LineAzimuthDeg, m.cfg.Absorptivity)

	// Heat the current is allowed to dissipate, W/m. Non-positive means
	// the conductor cannot hold its design temperature at zero current.
	qNet := qc + qr - qs
	if qNet <= 0 {
		return RatingResult{}, &NonConvergenceError{
			Conductor:  c.Name,
			MaxOpTempC: tc,
			Reason:     "no positive rating: cooling does not exceed solar gain at the design temperature",
		}
	}

	rOhmPerM := c.ResistanceAtOhmPerMile(tc) / mileToM
	if rOhmPerM <= 0 {
		return RatingResult{}, &NonConvergenceError{
			Conductor:  c.Name,
			MaxOpTempC: tc,
			Reason:     "non-positive resistance at design temperature",
		}
	}

	amps, err := m.solveCurrent(c, qNet, rOhmPerM)
	if err != nil {
		return RatingResult{}, err
	}

	return RatingResult{
		Conductor:  c.Name,
		MaxOpTempC: tc,
		Ambient:    a,
		Amps:       amps,
	}, nil
}

// solveCurrent finds I with I²·R = qNet by bisection. The residual is
// strictly monotonic in I, so the bracket always narrows; the iteration
// budget covers both the bracket expansion and the bisection itself.
func (m *ThermalModel) solveCurrent(c *Conductor, qNetWPerM, rOhmPerM float64) (float64, error) {
	residual := func(i float64) float64 { return i*i*rOhmPerM - qNetWPerM }

	iter := 0
	lo, hi := 0.0, 2000.0
	for residual(hi) < 0 {
		hi *= 2
		iter++
		if iter >= m.cfg.MaxIterations {
			return 0, &NonConvergenceError{Conductor: c.Name, MaxOpTempC: c.MaxOpTempC, Iterations: iter}
		}
	}

	for hi-lo > m.cfg.ToleranceAmps {
		mid := 0.5 * (lo + hi)
		if residual(mid) < 0 {
			lo = mid
		} else {
			hi = mid
		}
		iter++
		if iter >= m.cfg.MaxIterations {
			return 0, &NonConvergenceError{Conductor: c.Name, MaxOpTempC: c.MaxOpTempC, Iterations: iter}
		}
	}
	return 0.5 * (lo + hi), nil
}

// convectiveLossWPerM is the larger of forced and natural convection at
// the film temperature, per IEEE 738. Wind angle reduces forced cooling
// through the K-angle factor.
func (m *ThermalModel) convectiveLossWPerM(dM, elevM, tc float64, a AmbientCondition) float64 {
	ta := a.TempC
	if tc <= ta {
		return 0
	}
	tFilm := 0.5 * (tc + ta)

	// Air properties at the film temperature.
	muF := 1.458e-6 * math.Pow(tFilm+273, 1.5) / (tFilm + 383.4)          // kg/m·s
	rhoF := (1.293 - 1.525e-4*elevM + 6.379e-9*elevM*elevM) /
		(1 + 0.00367*tFilm)                                               // kg/m³
	kF := 2.424e-2 + 7.477e-5*tFilm - 4.407e-9*tFilm*tFilm                // W/m·°C

	windMPerS := a.WindFtPerSec * footToM
	reynolds := dM * rhoF * windMPerS / muF

	phi := degToRad(a.WindAngleDeg)
	kAngle := 1.194 - math.Cos(phi) + 0.194*math.Cos(2*phi) + 0.368*math.Sin(2*phi)

	qc1 := kAngle * (1.01 + 1.35*math.Pow(reynolds, 0.52)) * kF * (tc - ta)
	qc2 := kAngle * 0.754 * math.Pow(reynolds, 0.6) * kF * (tc - ta)
	qcNatural := 3.645 * math.Sqrt(rhoF) * math.Pow(dM, 0.75) * math.Pow(tc-ta, 1.25)

	return math.Max(math.Max(qc1, qc2), qcNatural)
}

// radiativeLossWPerM is the Stefan-Boltzmann band form used by IEEE 738.
func (m *ThermalModel) radiativeLossWPerM(dM, tc, ta float64) float64 {
	tcK := (tc + 273) / 100
	taK := (ta + 273) / 100
	return 17.8 * dM * m.cfg.Emissivity * (math.Pow(tcK, 4) - math.Pow(taK, 4))
}
