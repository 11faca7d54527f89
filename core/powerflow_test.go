package core

import (
	"errors"
	"testing"
)

func TestSolveReproducesRadialBaseCase(t *testing.T) {
	// In a radial network the flows are fully determined by power
	// balance, so the solve must reproduce the nominal base case
	// exactly.
	c := linnet()
	topo := mustTopology(t,
		testBuses("B1", "B2", "B3", "B4"),
		[]*Line{
			testLine("L1", "B1", "B2", 80, 0.10, c),
			testLine("L2", "B2", "B3", 45, 0.25, c),
			testLine("L3", "B2", "B4", 20, 0.15, c),
		},
	)

	flows, err := NewDCFlowSolver().Solve(topo.View())
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	for _, line := range topo.Lines() {
		if got := flows[line.ID]; !almostEqual(got, line.NominalFlowMW, 1e-9) {
			t.Errorf("flow on %s = %g MW, want %g", line.ID, got, line.NominalFlowMW)
		}
	}
}

func TestSolveSplitsParallelLinesBySusceptance(t *testing.T) {
	// Two parallel lines with reactances 0.1 and 0.2 carry a 90 MW
	// transfer 2:1, regardless of how the nominal flows were split.
	c := linnet()
	topo := mustTopology(t,
		testBuses("B1", "B2"),
		[]*Line{
			testLine("L1", "B1", "B2", 45, 0.1, c),
			testLine("L2", "B1", "B2", 45, 0.2, c),
		},
	)

	flows, err := NewDCFlowSolver().Solve(topo.View())
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !almostEqual(flows["L1"], 60, 1e-9) {
		t.Errorf("flow on L1 = %g MW, want 60 (2/3 of the transfer)", flows["L1"])
	}
	if !almostEqual(flows["L2"], 30, 1e-9) {
		t.Errorf("flow on L2 = %g MW, want 30 (1/3 of the transfer)", flows["L2"])
	}
}

func TestSolveRedistributesAfterOutage(t *testing.T) {
	// Losing one of two parallel paths moves the whole transfer onto
	// the survivor.
	c := linnet()
	topo := mustTopology(t,
		testBuses("B1", "B2"),
		[]*Line{
			testLine("L1", "B1", "B2", 45, 0.1, c),
			testLine("L2", "B1", "B2", 45, 0.2, c),
		},
	)

	view, err := topo.ExcludeLine("L1")
	if err != nil {
		t.Fatalf("ExcludeLine: %v", err)
	}
	flows, err := NewDCFlowSolver().Solve(view)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if _, present := flows["L1"]; present {
		t.Errorf("excluded line L1 still has a flow entry")
	}
	if !almostEqual(flows["L2"], 90, 1e-9) {
		t.Errorf("flow on survivor L2 = %g MW, want 90", flows["L2"])
	}
}

func TestSolveReportsIslanding(t *testing.T) {
	// B4 hangs off the triangle through L4 only; losing L4 strands it.
	c := linnet()
	topo := mustTopology(t,
		testBuses("B1", "B2", "B3", "B4"),
		[]*Line{
			testLine("L1", "B1", "B2", 30, 0.1, c),
			testLine("L2", "B2", "B3", 20, 0.1, c),
			testLine("L3", "B3", "B1", -10, 0.1, c),
			testLine("L4", "B3", "B4", 15, 0.1, c),
		},
	)

	view, err := topo.ExcludeLine("L4")
	if err != nil {
		t.Fatalf("ExcludeLine: %v", err)
	}
	_, err = NewDCFlowSolver().Solve(view)
	if !errors.Is(err, ErrIslandedNetwork) {
		t.Fatalf("want ErrIslandedNetwork, got %v", err)
	}
	var islanded *IslandedNetworkError
	if !errors.As(err, &islanded) {
		t.Fatalf("want *IslandedNetworkError, got %T", err)
	}
	if islanded.OutagedLine != "L4" {
		t.Errorf("OutagedLine = %q, want L4", islanded.OutagedLine)
	}
	if len(islanded.UnreachableBuses) != 1 || islanded.UnreachableBuses[0] != "B4" {
		t.Errorf("UnreachableBuses = %v, want [B4]", islanded.UnreachableBuses)
	}
}

func TestSolveDeterministic(t *testing.T) {
	c := linnet()
	topo := mustTopology(t,
		testBuses("B1", "B2", "B3"),
		[]*Line{
			testLine("L1", "B1", "B2", 30, 0.10, c),
			testLine("L2", "B2", "B3", 20, 0.20, c),
			testLine("L3", "B3", "B1", -10, 0.15, c),
		},
	)

	solver := NewDCFlowSolver()
	first, err := solver.Solve(topo.View())
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	second, err := solver.Solve(topo.View())
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	for id, flow := range first {
		if second[id] != flow {
			t.Errorf("flow on %s differs across runs: %g vs %g", id, flow, second[id])
		}
	}
}

func TestSolveMeshConservesPower(t *testing.T) {
	// In a meshed network the solve projects the base case onto the
	// DC-feasible manifold; power balance at every bus must still hold.
	c := linnet()
	topo := mustTopology(t,
		testBuses("B1", "B2", "B3"),
		[]*Line{
			testLine("L1", "B1", "B2", 30, 0.10, c),
			testLine("L2", "B2", "B3", 20, 0.20, c),
			testLine("L3", "B3", "B1", -10, 0.15, c),
		},
	)

	flows, err := NewDCFlowSolver().Solve(topo.View())
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	for i, bus := range topo.Buses() {
		net := 0.0
		for _, line := range topo.Lines() {
			if line.Bus0 == bus.ID {
				net += flows[line.ID]
			}
			if line.Bus1 == bus.ID {
				net -= flows[line.ID]
			}
		}
		if !almostEqual(net, topo.InjectionMW(i), 1e-9) {
			t.Errorf("bus %s power balance violated: net %g, injection %g", bus.ID, net, topo.InjectionMW(i))
		}
	}
}
