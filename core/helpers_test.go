package core

import (
	"math"
	"testing"
)

// linnet is a representative small ACSR conductor used across the core
// tests.
func linnet() *Conductor {
	return &Conductor{
		Name:            "336.4 ACSR 26/7 LINNET",
		ResLoOhmPerMile: 0.306,
		ResHiOhmPerMile: 0.337,
		TempLoC:         25,
		TempHiC:         50,
		DiameterIn:      0.720,
		MaxOpTempC:      75,
	}
}

func testLine(id, bus0, bus1 string, flowMW, reactance float64, c *Conductor) *Line {
	return &Line{
		ID:            id,
		BranchName:    id,
		Bus0:          bus0,
		Bus1:          bus1,
		VoltageKV:     138,
		NominalFlowMW: flowMW,
		Reactance:     reactance,
		Conductor:     c,
	}
}

func mustTopology(t *testing.T, buses []Bus, lines []*Line) *NetworkTopology {
	t.Helper()
	topo, err := NewNetworkTopology(buses, lines)
	if err != nil {
		t.Fatalf("NewNetworkTopology: %v", err)
	}
	return topo
}

func testBuses(ids ...string) []Bus {
	out := make([]Bus, 0, len(ids))
	for _, id := range ids {
		out = append(out, Bus{ID: id, VoltageKV: 138})
	}
	return out
}

// ampsForMVA inverts the three-phase MVA conversion so stub raters can
// express ratings in MVA directly.
func ampsForMVA(mva, voltageKV float64) float64 {
	return mva * 1000 / (math.Sqrt(3) * voltageKV)
}

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// fixedRater rates every conductor at the same MVA, assuming the 138 kV
// test network. Lets loading tests pick percentages directly.
type fixedRater struct{ mva float64 }

func (r fixedRater) Rate(c *Conductor, a AmbientCondition) (RatingResult, error) {
	return RatingResult{Conductor: c.Name, MaxOpTempC: c.MaxOpTempC, Ambient: a, Amps: ampsForMVA(r.mva, 138)}, nil
}

// rampRater shrinks the rating linearly as ambient temperature rises:
// baseMVA + (pivotC − TempC) MVA. Gives sweep tests an exact, known
// crossing temperature.
type rampRater struct{ baseMVA, pivotC float64 }

func (r rampRater) Rate(c *Conductor, a AmbientCondition) (RatingResult, error) {
	return RatingResult{Conductor: c.Name, MaxOpTempC: c.MaxOpTempC, Ambient: a, Amps: ampsForMVA(r.baseMVA+(r.pivotC-a.TempC), 138)}, nil
}

// failingRater rejects every conductor with the given error.
type failingRater struct{ err error }

func (r failingRater) Rate(*Conductor, AmbientCondition) (RatingResult, error) {
	return RatingResult{}, r.err
}

// countingRater counts how many times the inner computation actually
// runs, for cache tests.
type countingRater struct {
	inner Rater
	calls int
}

func (r *countingRater) Rate(c *Conductor, a AmbientCondition) (RatingResult, error) {
	r.calls++
	return r.inner.Rate(c, a)
}
