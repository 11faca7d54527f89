package core

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/gridsignals/grid-thermal-analyzer/internal/logging"
)

// Violation is one surviving line whose post-outage loading crossed the
// reporting floor.
type Violation struct {
	LineID     string  `json:"line_id"`
	BranchName string  `json:"branch_name"`
	Conductor  string  `json:"conductor"`
	VoltageKV  float64 `json:"voltage_kv"`
	Bus0       string  `json:"bus0"`
	Bus1       string  `json:"bus1"`
	FlowMVA    float64 `json:"flow_mva"`
	RatingMVA  float64 `json:"rating_mva"`
	LoadingPct float64 `json:"loading_pct"`
}

// ContingencyOutcome is the result of outaging one line: either a
// violation list over the surviving network, or an infeasible marker when
// the loss islands the network. Per-line rating failures are carried
// inline; they never abort the run.
type ContingencyOutcome struct {
	OutagedLine string `json:"outaged_line"`
	OutagedName string `json:"outaged_name"`

	Infeasible       bool     `json:"infeasible"`
	UnreachableBuses []string `json:"unreachable_buses,omitempty"`

	Violations    []Violation `json:"violations"`
	RatingErrors  []LineError `json:"rating_errors,omitempty"`
	MaxLoadingPct float64     `json:"max_loading_pct"`

	// Status bands the outcome for operators: INFEASIBLE, OVERLOADED,
	// CRITICAL, CAUTION, or NORMAL.
	Status string `json:"status"`
}

// ContingencySummary aggregates a full N-1 run.
type ContingencySummary struct {
	TotalContingencies    int `json:"total_contingencies"`
	InfeasibleCount       int `json:"infeasible_count"`
	CriticalContingencies int `json:"critical_contingencies"`
	TotalViolations       int `json:"total_violations"`
}

// ContingencyReport is the full N-1 result set, ordered by outaged line
// in topology input order.
type ContingencyReport struct {
	RunID       string               `json:"run_id"`
	GeneratedAt time.Time            `json:"generated_at"`
	Ambient     AmbientCondition     `json:"ambient"`
	Outcomes    []ContingencyOutcome `json:"outcomes"`
	Summary     ContingencySummary   `json:"summary"`
}

// Outcome returns the result for a given outaged line, or nil when the
// run did not evaluate it (e.g. cancelled early).
func (r *ContingencyReport) Outcome(outagedLine string) *ContingencyOutcome {
	for i := range r.Outcomes {
		if r.Outcomes[i].OutagedLine == outagedLine {
			return &r.Outcomes[i]
		}
	}
	return nil
}

// ContingencyEngine runs N-1 analysis: every line outaged once, flows
// re-solved on the surviving network, every surviving line rated and
// evaluated. Each outage is independent and stateless given the shared
// read-only topology and ambient condition, so outages run on a worker
// pool.
type ContingencyEngine struct {
	Rater  Rater
	Solver FlowSolver
	Eval   *LoadingEvaluator

	Bounds AmbientBounds
	// Workers bounds the outage pool; 0 means GOMAXPROCS.
	Workers int
	Log     logging.Logger
}

// NewContingencyEngine wires the capability ports with default bounds and
// a noop logger.
func NewContingencyEngine(rater Rater, solver FlowSolver, eval *LoadingEvaluator) *ContingencyEngine {
	return &ContingencyEngine{
		Rater:  rater,
		Solver: solver,
		Eval:   eval,
		Bounds: DefaultAmbientBounds(),
		Log:    logging.Noop(),
	}
}

// RunN1 evaluates the loss of every single line under the ambient
// condition. Out-of-range conditions reject the request before any
// computation. On cancellation the outcomes completed so far are
// returned together with the ctx error.
func (e *ContingencyEngine) RunN1(ctx context.Context, topo *NetworkTopology, ambient AmbientCondition) (*ContingencyReport, error) {
	if err := e.Bounds.Validate(ambient); err != nil {
		return nil, err
	}

	lines := topo.Lines()
	outcomes := make([]ContingencyOutcome, len(lines))

	start := time.Now()
	runErr := runParallel(ctx, len(lines), e.Workers, func(i int) {
		outcomes[i] = e.evaluateOutage(topo, ambient, lines[i])
	})

	report := &ContingencyReport{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Ambient:     ambient,
	}
	for _, oc := range outcomes {
		if oc.OutagedLine == "" {
			// Slot never ran: the dispatch loop was cancelled.
			continue
		}
		report.Outcomes = append(report.Outcomes, oc)
		report.Summary.TotalContingencies++
		if oc.Infeasible {
			report.Summary.InfeasibleCount++
		}
		if oc.Status == "CRITICAL" || oc.Status == "OVERLOADED" {
			report.Summary.CriticalContingencies++
		}
		report.Summary.TotalViolations += len(oc.Violations)
	}

	e.Log.Info(ctx, "N-1 run complete",
		logging.Int("contingencies", report.Summary.TotalContingencies),
		logging.Int("violations", report.Summary.TotalViolations),
		logging.Int("infeasible", report.Summary.InfeasibleCount),
		logging.Any("elapsed", time.Since(start)),
	)

	if runErr != nil {
		return report, runErr
	}
	return report, nil
}

// evaluateOutage handles one line loss end to end: derive the view,
// re-solve, rate and evaluate every survivor.
func (e *ContingencyEngine) evaluateOutage(topo *NetworkTopology, ambient AmbientCondition, outaged *Line) ContingencyOutcome {
	oc := ContingencyOutcome{
		OutagedLine: outaged.ID,
		OutagedName: outaged.BranchName,
	}

	view, err := topo.ExcludeLine(outaged.ID)
	if err != nil {
		oc.Status = "ERROR"
		oc.RatingErrors = append(oc.RatingErrors, LineError{LineID: outaged.ID, Reason: err.Error()})
		return oc
	}

	flows, err := e.Solver.Solve(view)
	if err != nil {
		var islanded *IslandedNetworkError
		if errors.As(err, &islanded) {
			// The network cannot tolerate this loss at all; record it as
			// an outcome rather than omitting the contingency.
			oc.Infeasible = true
			oc.UnreachableBuses = islanded.UnreachableBuses
			oc.Status = "INFEASIBLE"
			return oc
		}
		oc.Status = "ERROR"
		oc.RatingErrors = append(oc.RatingErrors, LineError{LineID: outaged.ID, Reason: err.Error()})
		return oc
	}

	violationFloor := e.Eval.Thresholds().ViolationPct
	view.ActiveLines(func(_ int, line *Line) {
		rating, rerr := e.Rater.Rate(line.Conductor, ambient)
		if rerr != nil {
			oc.RatingErrors = append(oc.RatingErrors, LineError{LineID: line.ID, Reason: rerr.Error()})
			return
		}

		rec := e.Eval.Evaluate(line.ID, flows[line.ID], rating.MVA(line.VoltageKV))
		if rec.LoadingPct > oc.MaxLoadingPct {
			oc.MaxLoadingPct = rec.LoadingPct
		}
		if rec.LoadingPct >= violationFloor {
			oc.Violations = append(oc.Violations, Violation{
				LineID:     line.ID,
				BranchName: line.BranchName,
				Conductor:  line.Conductor.Name,
				VoltageKV:  line.VoltageKV,
				Bus0:       line.Bus0,
				Bus1:       line.Bus1,
				FlowMVA:    rec.FlowMVA,
				RatingMVA:  rec.RatingMVA,
				LoadingPct: rec.LoadingPct,
			})
		}
	})

	sort.Slice(oc.Violations, func(i, j int) bool {
		if oc.Violations[i].LoadingPct != oc.Violations[j].LoadingPct {
			return oc.Violations[i].LoadingPct > oc.Violations[j].LoadingPct
		}
		return oc.Violations[i].LineID < oc.Violations[j].LineID
	})

	if len(oc.Violations) > 0 {
		oc.Status = e.Eval.SystemStatus(oc.MaxLoadingPct)
	} else {
		oc.Status = "NORMAL"
	}
	return oc
}
