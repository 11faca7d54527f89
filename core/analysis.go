package core

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/gridsignals/grid-thermal-analyzer/internal/logging"
)

// LineError annotates a line that could not be evaluated in a batch,
// alongside the successful results of the same batch.
type LineError struct {
	LineID string `json:"line_id"`
	Reason string `json:"reason"`
}

// LineAnalysis is one row of the per-line analysis table handed to the
// presentation layer.
type LineAnalysis struct {
	LineID     string         `json:"line_id"`
	BranchName string         `json:"branch_name"`
	Conductor  string         `json:"conductor"`
	VoltageKV  float64        `json:"voltage_kv"`
	Bus0       string         `json:"bus0"`
	Bus1       string         `json:"bus1"`
	FlowMVA    float64        `json:"flow_mva"`
	RatingMVA  float64        `json:"rating_mva"`
	LoadingPct float64        `json:"loading_pct"`
	Category   StressCategory `json:"category"`
}

// AnalysisReport is the base-case loading picture of the whole network
// under one ambient condition.
type AnalysisReport struct {
	RunID       string           `json:"run_id"`
	GeneratedAt time.Time        `json:"generated_at"`
	Ambient     AmbientCondition `json:"ambient"`
	Lines       []LineAnalysis   `json:"lines"`
	Stats       SystemStats      `json:"stats"`
	Errors      []LineError      `json:"errors,omitempty"`
}

// Analyzer evaluates the base-case loading of every line: solve flows
// once, rate each line's conductor under the ambient condition, and
// classify. All inputs are immutable; the analyzer holds no state between
// calls.
type Analyzer struct {
	Rater  Rater
	Solver FlowSolver
	Eval   *LoadingEvaluator
	Bounds AmbientBounds
	Log    logging.Logger
}

// NewAnalyzer wires the three capability ports with default bounds and a
// noop logger.
func NewAnalyzer(rater Rater, solver FlowSolver, eval *LoadingEvaluator) *Analyzer {
	return &Analyzer{
		Rater:  rater,
		Solver: solver,
		Eval:   eval,
		Bounds: DefaultAmbientBounds(),
		Log:    logging.Noop(),
	}
}

// AnalyzeConditions produces the per-line analysis table and system
// statistics for the ambient condition. Out-of-range conditions reject
// the whole request; per-line rating failures are annotated inline and
// do not abort the batch. Rows are ordered by loading, highest first.
func (a *Analyzer) AnalyzeConditions(ctx context.Context, topo *NetworkTopology, ambient AmbientCondition) (*AnalysisReport, error) {
	if err := a.Bounds.Validate(ambient); err != nil {
		return nil, err
	}

	flows, err := a.Solver.Solve(topo.View())
	if err != nil {
		return nil, err
	}

	report := &AnalysisReport{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Ambient:     ambient,
	}

	records := make([]LoadingRecord, 0, topo.NumLines())
	for _, line := range topo.Lines() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rating, rerr := a.Rater.Rate(line.Conductor, ambient)
		if rerr != nil {
			report.Errors = append(report.Errors, LineError{LineID: line.ID, Reason: rerr.Error()})
			a.Log.Warn(ctx, "line skipped: rating unavailable",
				logging.String("line", line.ID), logging.String("error", rerr.Error()))
			continue
		}

		rec := a.Eval.Evaluate(line.ID, flows[line.ID], rating.MVA(line.VoltageKV))
		records = append(records, rec)
		report.Lines = append(report.Lines, LineAnalysis{
			LineID:     line.ID,
			BranchName: line.BranchName,
			Conductor:  line.Conductor.Name,
			VoltageKV:  line.VoltageKV,
			Bus0:       line.Bus0,
			Bus1:       line.Bus1,
			FlowMVA:    rec.FlowMVA,
			RatingMVA:  rec.RatingMVA,
			LoadingPct: rec.LoadingPct,
			Category:   rec.Category,
		})
	}

	sort.Slice(report.Lines, func(i, j int) bool {
		if report.Lines[i].LoadingPct != report.Lines[j].LoadingPct {
			return report.Lines[i].LoadingPct > report.Lines[j].LoadingPct
		}
		return report.Lines[i].LineID < report.Lines[j].LineID
	})

	report.Stats = a.Eval.Summarize(records)
	return report, nil
}
