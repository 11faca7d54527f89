package core

// Narrow capability ports the orchestration layer depends on, so the
// concrete thermal and flow implementations can be swapped (or wrapped,
// e.g. by the rating cache) without touching the engines.

// Rater computes the steady-state thermal rating of a conductor under an
// ambient condition.
type Rater interface {
	Rate(c *Conductor, a AmbientCondition) (RatingResult, error)
}

// FlowSolver computes per-line flows for a topology view (base case or
// one line excluded).
type FlowSolver interface {
	Solve(view TopologyView) (FlowSet, error)
}

// FlowSet maps line ID to active power flow in MW, signed positive in the
// line's Bus0 → Bus1 direction.
type FlowSet map[string]float64
