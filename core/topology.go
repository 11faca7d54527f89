package core

import "fmt"

// Bus is one node of the transmission network. Immutable once the
// topology is built.
type Bus struct {
	ID        string  `json:"id"`
	VoltageKV float64 `json:"voltage_kv"`
}

// Line is one transmission line: an ordered bus pair, its resolved
// conductor (with any line-specific MOT already applied), the nominal
// base-case flow, and the reactance that weights flow redistribution.
// Immutable once the topology is built.
type Line struct {
	ID         string  `json:"id"`
	BranchName string  `json:"branch_name"`
	Bus0       string  `json:"bus0"`
	Bus1       string  `json:"bus1"`
	VoltageKV  float64 `json:"voltage_kv"`

	// NominalFlowMW is the base-case active power on the line, signed
	// positive in the Bus0 → Bus1 direction.
	NominalFlowMW float64 `json:"nominal_flow_mw"`

	// Reactance in per-unit; its inverse is the admittance weight in the
	// DC-equivalent flow model.
	Reactance float64 `json:"reactance"`

	Conductor *Conductor `json:"conductor"`
}

// Susceptance is the admittance weight used by the DC-equivalent solve.
func (l *Line) Susceptance() float64 { return 1 / l.Reactance }

// NetworkTopology owns all buses and lines. It is built once, validated
// against the conductor library, and never mutated afterwards; contingency
// analysis works on TopologyView, which masks one line without touching
// the shared instance. The first bus in input order is the reference bus.
type NetworkTopology struct {
	buses    []Bus
	busIdx   map[string]int
	lines    []*Line
	lineIdx  map[string]int
	injectMW []float64 // per bus, derived from nominal flows
}

// NewNetworkTopology validates the bus and line sets and derives per-bus
// net injections from the nominal base-case flows. All referential
// problems (unknown bus, duplicate IDs) are configuration errors.
func NewNetworkTopology(buses []Bus, lines []*Line) (*NetworkTopology, error) {
	if len(buses) == 0 {
		return nil, fmt.Errorf("%w: topology has no buses", ErrConfiguration)
	}

	t := &NetworkTopology{
		buses:    make([]Bus, len(buses)),
		busIdx:   make(map[string]int, len(buses)),
		lines:    make([]*Line, len(lines)),
		lineIdx:  make(map[string]int, len(lines)),
		injectMW: make([]float64, len(buses)),
	}
	copy(t.buses, buses)

	for i, b := range buses {
		if b.ID == "" {
			return nil, fmt.Errorf("%w: bus with empty ID", ErrConfiguration)
		}
		if b.VoltageKV <= 0 {
			return nil, fmt.Errorf("%w: bus %q has non-positive voltage", ErrConfiguration, b.ID)
		}
		if _, exists := t.busIdx[b.ID]; exists {
			return nil, fmt.Errorf("%w: duplicate bus %q", ErrConfiguration, b.ID)
		}
		t.busIdx[b.ID] = i
	}

	for i, l := range lines {
		if l == nil || l.ID == "" {
			return nil, fmt.Errorf("%w: line with empty ID", ErrConfiguration)
		}
		if _, exists := t.lineIdx[l.ID]; exists {
			return nil, fmt.Errorf("%w: duplicate line %q", ErrConfiguration, l.ID)
		}
		i0, ok := t.busIdx[l.Bus0]
		if !ok {
			return nil, fmt.Errorf("%w: line %q references unknown bus %q", ErrConfiguration, l.ID, l.Bus0)
		}
		i1, ok := t.busIdx[l.Bus1]
		if !ok {
			return nil, fmt.Errorf("%w: line %q references unknown bus %q", ErrConfiguration, l.ID, l.Bus1)
		}
		if i0 == i1 {
			return nil, fmt.Errorf("%w: line %q connects bus %q to itself", ErrConfiguration, l.ID, l.Bus0)
		}
		if l.Reactance <= 0 {
			return nil, fmt.Errorf("%w: line %q has non-positive reactance", ErrConfiguration, l.ID)
		}
		if l.Conductor == nil {
			return nil, fmt.Errorf("%w: line %q has no conductor assigned", ErrConfiguration, l.ID)
		}

		t.lines[i] = l
		t.lineIdx[l.ID] = i

		// Nominal flow leaves Bus0 and arrives at Bus1; net injection is
		// outgoing minus incoming.
		t.injectMW[i0] += l.NominalFlowMW
		t.injectMW[i1] -= l.NominalFlowMW
	}

	// The base network must be connected; a disconnected input is
	// malformed data, not a contingency outcome.
	if unreachable := t.View().unreachableBuses(); len(unreachable) > 0 {
		return nil, fmt.Errorf("%w: base network is disconnected: %v", ErrConfiguration, unreachable)
	}

	return t, nil
}

// NumBuses returns the bus count.
func (t *NetworkTopology) NumBuses() int { return len(t.buses) }

// NumLines returns the line count.
func (t *NetworkTopology) NumLines() int { return len(t.lines) }

// Buses returns the buses in input order. The caller must not modify the
// returned slice.
func (t *NetworkTopology) Buses() []Bus { return t.buses }

// Lines returns the lines in input order. The caller must not modify the
// returned slice.
func (t *NetworkTopology) Lines() []*Line { return t.lines }

// Line returns a line by ID, or nil if absent.
func (t *NetworkTopology) Line(id string) *Line {
	i, ok := t.lineIdx[id]
	if !ok {
		return nil
	}
	return t.lines[i]
}

// Bus returns a bus by ID and whether it exists.
func (t *NetworkTopology) Bus(id string) (Bus, bool) {
	i, ok := t.busIdx[id]
	if !ok {
		return Bus{}, false
	}
	return t.buses[i], true
}

// ReferenceBus is the angle reference for the DC-equivalent solve.
func (t *NetworkTopology) ReferenceBus() Bus { return t.buses[0] }

// InjectionMW returns the derived net injection at the i-th bus.
func (t *NetworkTopology) InjectionMW(i int) float64 { return t.injectMW[i] }

// View returns the base-case view with no line excluded.
func (t *NetworkTopology) View() TopologyView {
	return TopologyView{topo: t, excludedIdx: -1}
}

// ExcludeLine derives a view with the given line masked out. The
// underlying topology is shared and read-only.
func (t *NetworkTopology) ExcludeLine(lineID string) (TopologyView, error) {
	i, ok := t.lineIdx[lineID]
	if !ok {
		return TopologyView{}, fmt.Errorf("%w: cannot exclude unknown line %q", ErrConfiguration, lineID)
	}
	return TopologyView{topo: t, excludedIdx: i}, nil
}

// TopologyView is a topology with at most one line masked out. Views are
// cheap values; many can be evaluated concurrently over one shared
// topology.
type TopologyView struct {
	topo        *NetworkTopology
	excludedIdx int
}

// Topology returns the underlying shared topology.
func (v TopologyView) Topology() *NetworkTopology { return v.topo }

// ExcludedLine returns the masked line's ID, or "" for the base case.
func (v TopologyView) ExcludedLine() string {
	if v.excludedIdx < 0 {
		return ""
	}
	return v.topo.lines[v.excludedIdx].ID
}

// ActiveLines calls fn for every line not masked by the view, with the
// line's index in the topology's input order.
func (v TopologyView) ActiveLines(fn func(idx int, l *Line)) {
	for i, l := range v.topo.lines {
		if i == v.excludedIdx {
			continue
		}
		fn(i, l)
	}
}

// unreachableBuses returns the IDs of buses with no path to the reference
// bus through the view's active lines, in bus input order.
func (v TopologyView) unreachableBuses() []string {
	t := v.topo
	adj := make([][]int, len(t.buses))
	v.ActiveLines(func(_ int, l *Line) {
		i0 := t.busIdx[l.Bus0]
		i1 := t.busIdx[l.Bus1]
		adj[i0] = append(adj[i0], i1)
		adj[i1] = append(adj[i1], i0)
	})

	seen := make([]bool, len(t.buses))
	queue := []int{0}
	seen[0] = true
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adj[cur] {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}

	var out []string
	for i, ok := range seen {
		if !ok {
			out = append(out, t.buses[i].ID)
		}
	}
	return out
}
