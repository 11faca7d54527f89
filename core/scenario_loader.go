package core

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"

	"github.com/gridsignals/grid-thermal-analyzer/model"
)

// GridScenario is a fully built analysis context: the immutable topology,
// the conductor library it was resolved against, the ambient defaults for
// non-request parameters, and the thermal site configuration.
type GridScenario struct {
	Topology *NetworkTopology
	Library  *ConductorLibrary

	// Defaults carries wind angle, sun time, and day of year; the
	// request fills in temperature and wind speed.
	Defaults AmbientCondition

	// Thermal is the site/solar configuration for the rating model.
	Thermal ThermalConfig
}

var scenarioValidate = validator.New(validator.WithRequiredStructEnabled())

// LoadGridScenario decodes and validates a scenario payload and builds
// the topology and conductor library from it. Any structural or
// referential problem is a configuration error that fails the load;
// nothing is partially constructed.
func LoadGridScenario(r io.Reader) (*GridScenario, error) {
	var payload model.GridScenarioFile
	dec := json.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode scenario: %v", ErrConfiguration, err)
	}
	return BuildGridScenario(&payload)
}

// BuildGridScenario builds an analysis context from already-decoded
// records.
func BuildGridScenario(payload *model.GridScenarioFile) (*GridScenario, error) {
	if err := scenarioValidate.Struct(payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	conductors := make([]*Conductor, 0, len(payload.Conductors))
	for _, rec := range payload.Conductors {
		conductors = append(conductors, &Conductor{
			Name:            rec.Name,
			ResLoOhmPerMile: rec.ResLoOhmPerMile,
			ResHiOhmPerMile: rec.ResHiOhmPerMile,
			TempLoC:         rec.TempLoC,
			TempHiC:         rec.TempHiC,
			DiameterIn:      rec.DiameterIn,
			MaxOpTempC:      rec.MaxOpTempC,
		})
	}
	library, err := NewConductorLibrary(conductors)
	if err != nil {
		return nil, err
	}

	buses := make([]Bus, 0, len(payload.Buses))
	for _, rec := range payload.Buses {
		buses = append(buses, Bus{ID: rec.ID, VoltageKV: rec.VoltageKV})
	}

	lines := make([]*Line, 0, len(payload.Lines))
	for _, rec := range payload.Lines {
		conductor := library.Get(rec.Conductor)
		if conductor == nil {
			return nil, fmt.Errorf("%w: line %q references conductor %q absent from the library",
				ErrConfiguration, rec.ID, rec.Conductor)
		}
		if rec.MaxOpTempC > 0 && rec.MaxOpTempC != conductor.MaxOpTempC {
			conductor = conductor.WithMaxOpTemp(rec.MaxOpTempC)
		}
		lines = append(lines, &Line{
			ID:            rec.ID,
			BranchName:    rec.BranchName,
			Bus0:          rec.Bus0,
			Bus1:          rec.Bus1,
			VoltageKV:     rec.VoltageKV,
			NominalFlowMW: rec.NominalFlowMW,
			Reactance:     rec.Reactance,
			Conductor:     conductor,
		})
	}

	topo, err := NewNetworkTopology(buses, lines)
	if err != nil {
		return nil, err
	}

	scenario := &GridScenario{
		Topology: topo,
		Library:  library,
		Defaults: DefaultAmbient(0, 0),
		Thermal:  DefaultThermalConfig(),
	}
	if payload.Ambient != nil {
		applyAmbientDefaults(scenario, payload.Ambient)
	}
	return scenario, nil
}

// applyAmbientDefaults overlays the payload's non-zero ambient fields on
// the study defaults.
func applyAmbientDefaults(s *GridScenario, d *model.AmbientDefaults) {
	if d.SunHour > 0 {
		s.Defaults.SunHour = d.SunHour
	}
	if d.DayOfYear > 0 {
		s.Defaults.DayOfYear = d.DayOfYear
	}
	if d.WindAngleDeg > 0 {
		s.Defaults.WindAngleDeg = d.WindAngleDeg
	}
	if d.Emissivity > 0 {
		s.Thermal.Emissivity = d.Emissivity
	}
	if d.Absorptivity > 0 {
		s.Thermal.Absorptivity = d.Absorptivity
	}
	if d.ElevationFt > 0 {
		s.Thermal.ElevationFt = d.ElevationFt
	}
	if d.LatitudeDeg != 0 {
		s.Thermal.LatitudeDeg = d.LatitudeDeg
	}
	if d.LineAzimuthDeg > 0 {
		s.Thermal.LineAzimuthDeg = d.LineAzimuthDeg
	}
}
