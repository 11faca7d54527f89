package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gridsignals/grid-thermal-analyzer/internal/logging"
)

// TemperatureRange is an ordered, discrete sweep domain in °C.
type TemperatureRange struct {
	LowC  float64 `json:"low_c"`
	HighC float64 `json:"high_c"`
	StepC float64 `json:"step_c"`
}

// DefaultSweepRange covers the standard stress study: 25–70 °C in 1 °C
// steps.
func DefaultSweepRange() TemperatureRange {
	return TemperatureRange{LowC: 25, HighC: 70, StepC: 1}
}

// Steps expands the range into ascending temperatures, inclusive of both
// bounds.
func (r TemperatureRange) Steps() []float64 {
	if r.StepC <= 0 || r.HighC < r.LowC {
		return nil
	}
	var out []float64
	for t := r.LowC; t <= r.HighC+1e-9; t += r.StepC {
		out = append(out, t)
	}
	return out
}

// FirstOverload reports the lowest sweep temperature at which any line
// reaches the overload threshold, and which line crossed first.
type FirstOverload struct {
	Found        bool    `json:"found"`
	TemperatureC float64 `json:"temperature_c"`
	LineID       string  `json:"line_id"`
	BranchName   string  `json:"branch_name"`
	LoadingPct   float64 `json:"loading_pct"`
}

// SweepRow is one temperature step of the stress table.
type SweepRow struct {
	TemperatureC  float64     `json:"temperature_c"`
	CriticalCount int         `json:"critical"`
	CautionCount  int         `json:"caution"`
	NormalCount   int         `json:"normal"`
	MaxLoadingPct float64     `json:"max_loading_pct"`
	Status        string      `json:"status"`
	Errors        []LineError `json:"errors,omitempty"`
}

// SweepReport is the full per-temperature stress categorization table.
type SweepReport struct {
	RunID        string     `json:"run_id"`
	GeneratedAt  time.Time  `json:"generated_at"`
	WindFtPerSec float64    `json:"wind_ft_per_sec"`
	Rows         []SweepRow `json:"rows"`
}

// SweepAnalyzer drives the thermal model and flow solver across a
// temperature range. Flow is independent of temperature, so flows are
// solved once per sweep; ratings vary per step and are served through the
// (caching) Rater. Because rating is non-increasing in temperature,
// loading is non-decreasing, and the first-overload search is a linear
// scan in ascending order.
type SweepAnalyzer struct {
	Rater  Rater
	Solver FlowSolver
	Eval   *LoadingEvaluator

	// Defaults supplies the non-swept ambient parameters (wind angle,
	// sun time, day of year).
	Defaults AmbientCondition
	Bounds   AmbientBounds
	// Workers bounds the table pool; 0 means GOMAXPROCS.
	Workers int
	Log     logging.Logger
}

// NewSweepAnalyzer wires the capability ports with the standard ambient
// defaults and a noop logger.
func NewSweepAnalyzer(rater Rater, solver FlowSolver, eval *LoadingEvaluator) *SweepAnalyzer {
	return &SweepAnalyzer{
		Rater:    rater,
		Solver:   solver,
		Eval:     eval,
		Defaults: DefaultAmbient(0, 0),
		Bounds:   DefaultAmbientBounds(),
		Log:      logging.Noop(),
	}
}

// FindFirstOverload scans the default sweep range in ascending
// temperature order and returns the first temperature at which any
// line's loading reaches the overload threshold. Ties at that
// temperature break to the highest loading, then to the lowest line ID.
// The scan short-circuits at the first qualifying step.
func (s *SweepAnalyzer) FindFirstOverload(ctx context.Context, topo *NetworkTopology, windFtPerSec float64) (FirstOverload, error) {
	return s.FindFirstOverloadInRange(ctx, topo, DefaultSweepRange(), windFtPerSec)
}

// FindFirstOverloadInRange is FindFirstOverload over an explicit range.
func (s *SweepAnalyzer) FindFirstOverloadInRange(ctx context.Context, topo *NetworkTopology, rng TemperatureRange, windFtPerSec float64) (FirstOverload, error) {
	steps := rng.Steps()
	if len(steps) == 0 {
		return FirstOverload{}, fmt.Errorf("%w: empty temperature range", ErrConfiguration)
	}
	if err := s.validateEndpoints(steps, windFtPerSec); err != nil {
		return FirstOverload{}, err
	}

	flows, err := s.Solver.Solve(topo.View())
	if err != nil {
		return FirstOverload{}, err
	}

	overload := s.Eval.Thresholds().OverloadPct
	for _, temp := range steps {
		if err := ctx.Err(); err != nil {
			return FirstOverload{}, err
		}

		ambient := s.Defaults.WithWind(windFtPerSec).WithTemp(temp)
		best := FirstOverload{TemperatureC: temp}
		for _, line := range topo.Lines() {
			rating, rerr := s.Rater.Rate(line.Conductor, ambient)
			if rerr != nil {
				continue
			}
			rec := s.Eval.Evaluate(line.ID, flows[line.ID], rating.MVA(line.VoltageKV))
			if rec.LoadingPct < overload {
				continue
			}
			if !best.Found ||
				rec.LoadingPct > best.LoadingPct ||
				(rec.LoadingPct == best.LoadingPct && line.ID < best.LineID) {
				best.Found = true
				best.LineID = line.ID
				best.BranchName = line.BranchName
				best.LoadingPct = rec.LoadingPct
			}
		}
		if best.Found {
			s.Log.Info(ctx, "first overload found",
				logging.Any("temperature_c", temp),
				logging.String("line", best.LineID),
				logging.Any("loading_pct", best.LoadingPct))
			return best, nil
		}
	}
	return FirstOverload{}, nil
}

// SweepTable produces the full per-temperature stress table. Unlike the
// first-overload search it always runs the whole range; steps are
// independent and run on a worker pool, with rows assembled back in
// ascending temperature order. Per-step rating failures are annotated on
// the row.
func (s *SweepAnalyzer) SweepTable(ctx context.Context, topo *NetworkTopology, rng TemperatureRange, windFtPerSec float64) (*SweepReport, error) {
	steps := rng.Steps()
	if len(steps) == 0 {
		return nil, fmt.Errorf("%w: empty temperature range", ErrConfiguration)
	}
	if err := s.validateEndpoints(steps, windFtPerSec); err != nil {
		return nil, err
	}

	flows, err := s.Solver.Solve(topo.View())
	if err != nil {
		return nil, err
	}

	rows := make([]SweepRow, len(steps))
	done := make([]bool, len(steps))
	runErr := runParallel(ctx, len(steps), s.Workers, func(i int) {
		rows[i] = s.tableRow(topo, flows, s.Defaults.WithWind(windFtPerSec).WithTemp(steps[i]))
		done[i] = true
	})

	report := &SweepReport{
		RunID:        uuid.NewString(),
		GeneratedAt:  time.Now().UTC(),
		WindFtPerSec: windFtPerSec,
	}
	for i, row := range rows {
		if done[i] {
			report.Rows = append(report.Rows, row)
		}
	}

	if runErr != nil {
		return report, runErr
	}
	return report, nil
}

func (s *SweepAnalyzer) tableRow(topo *NetworkTopology, flows FlowSet, ambient AmbientCondition) SweepRow {
	row := SweepRow{TemperatureC: ambient.TempC}

	records := make([]LoadingRecord, 0, topo.NumLines())
	for _, line := range topo.Lines() {
		rating, rerr := s.Rater.Rate(line.Conductor, ambient)
		if rerr != nil {
			row.Errors = append(row.Errors, LineError{LineID: line.ID, Reason: rerr.Error()})
			continue
		}
		records = append(records, s.Eval.Evaluate(line.ID, flows[line.ID], rating.MVA(line.VoltageKV)))
	}

	stats := s.Eval.Summarize(records)
	row.CriticalCount = stats.CriticalCount
	row.CautionCount = stats.CautionCount
	row.NormalCount = stats.NormalCount
	row.MaxLoadingPct = stats.MaxLoadingPct
	row.Status = s.Eval.SystemStatus(stats.MaxLoadingPct)
	return row
}

// validateEndpoints rejects a sweep whose extremes fall outside the
// validated ambient domain before any computation starts.
func (s *SweepAnalyzer) validateEndpoints(steps []float64, windFtPerSec float64) error {
	base := s.Defaults.WithWind(windFtPerSec)
	if err := s.Bounds.Validate(base.WithTemp(steps[0])); err != nil {
		return err
	}
	return s.Bounds.Validate(base.WithTemp(steps[len(steps)-1]))
}
