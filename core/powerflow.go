package core

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// DCFlowSolver is a linearized (DC-equivalent) power-flow solver. Each
// bus has a net injection derived from the base-case flows; each line
// contributes its susceptance to the reduced bus susceptance matrix; bus
// angles come from solving power balance at every non-reference bus, and
// line flows from the angle difference across each line scaled by its
// susceptance. Parallel lines between the same bus pair therefore share
// redistribution in proportion to their individual susceptances.
//
// The solver is stateless and safe for concurrent use.
type DCFlowSolver struct{}

// NewDCFlowSolver returns a DC-equivalent solver.
func NewDCFlowSolver() *DCFlowSolver { return &DCFlowSolver{} }

// Solve computes the flow on every active line of the view. It returns
// IslandedNetworkError when the view leaves any bus without a path to the
// reference bus — during contingency analysis that is an outcome, not a
// failure of the batch.
func (s *DCFlowSolver) Solve(view TopologyView) (FlowSet, error) {
	t := view.Topology()
	if t == nil {
		return nil, fmt.Errorf("%w: solve on empty topology view", ErrConfiguration)
	}

	if unreachable := view.unreachableBuses(); len(unreachable) > 0 {
		return nil, &IslandedNetworkError{
			OutagedLine:      view.ExcludedLine(),
			UnreachableBuses: unreachable,
		}
	}

	n := t.NumBuses()
	if n == 1 {
		return FlowSet{}, nil
	}

	// Reduced susceptance matrix over non-reference buses. Bus 0 is the
	// reference; row/column i of the reduced system is bus i+1.
	b := mat.NewDense(n-1, n-1, nil)
	p := mat.NewVecDense(n-1, nil)
	for i := 1; i < n; i++ {
		p.SetVec(i-1, t.InjectionMW(i))
	}

	busIdx := t.busIdx
	view.ActiveLines(func(_ int, l *Line) {
		i0 := busIdx[l.Bus0]
		i1 := busIdx[l.Bus1]
		y := l.Susceptance()

		if i0 != 0 {
			b.Set(i0-1, i0-1, b.At(i0-1, i0-1)+y)
		}
		if i1 != 0 {
			b.Set(i1-1, i1-1, b.At(i1-1, i1-1)+y)
		}
		if i0 != 0 && i1 != 0 {
			b.Set(i0-1, i1-1, b.At(i0-1, i1-1)-y)
			b.Set(i1-1, i0-1, b.At(i1-1, i0-1)-y)
		}
	})

	var lu mat.LU
	lu.Factorize(b)

	theta := mat.NewVecDense(n-1, nil)
	if err := lu.SolveVecTo(theta, false, p); err != nil {
		// A singular reduced matrix means some bus has no admittance to
		// the rest of the network; report it as islanding.
		return nil, &IslandedNetworkError{OutagedLine: view.ExcludedLine()}
	}

	angleAt := func(busIdx int) float64 {
		if busIdx == 0 {
			return 0
		}
		return theta.AtVec(busIdx - 1)
	}

	flows := make(FlowSet, t.NumLines())
	view.ActiveLines(func(_ int, l *Line) {
		a0 := angleAt(busIdx[l.Bus0])
		a1 := angleAt(busIdx[l.Bus1])
		flows[l.ID] = l.Susceptance() * (a0 - a1)
	})
	return flows, nil
}
