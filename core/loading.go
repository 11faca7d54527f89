package core

import "math"

// StressCategory classifies a line's loading into the closed partition
// used by the reliability policy.
type StressCategory string

const (
	StressNormal   StressCategory = "normal"
	StressCaution  StressCategory = "caution"
	StressCritical StressCategory = "critical"
)

// Thresholds are the loading boundaries of the stress partition. They are
// configuration, not constants, so differing reliability policies can
// reuse the evaluator.
type Thresholds struct {
	// CriticalPct: loading at or above this is critical.
	CriticalPct float64 `json:"critical_pct"`
	// CautionPct: loading at or above this (and below critical) is
	// caution; below is normal.
	CautionPct float64 `json:"caution_pct"`
	// OverloadPct is a true overload (flow exceeds rating).
	OverloadPct float64 `json:"overload_pct"`
	// ViolationPct is the severity floor for reporting a surviving line
	// in a contingency result.
	ViolationPct float64 `json:"violation_pct"`
}

// DefaultThresholds returns the study policy: 90 critical, 60 caution,
// 100 overload, 80 contingency violation floor.
func DefaultThresholds() Thresholds {
	return Thresholds{CriticalPct: 90, CautionPct: 60, OverloadPct: 100, ViolationPct: 80}
}

// LoadingRecord combines one line's flow and rating into a loading
// percentage and stress category. Derived, never stored independently of
// the report that produced it.
type LoadingRecord struct {
	LineID     string         `json:"line_id"`
	FlowMVA    float64        `json:"flow_mva"`
	RatingMVA  float64        `json:"rating_mva"`
	LoadingPct float64        `json:"loading_pct"`
	Category   StressCategory `json:"category"`
}

// SystemStats aggregates loading over an arbitrary record set.
type SystemStats struct {
	Total           int     `json:"total"`
	CriticalCount   int     `json:"critical"`
	CautionCount    int     `json:"caution"`
	NormalCount     int     `json:"normal"`
	OverloadedCount int     `json:"overloaded"`
	MaxLoadingPct   float64 `json:"max_loading_pct"`
	MeanLoadingPct  float64 `json:"mean_loading_pct"`
}

// LoadingEvaluator applies the threshold policy.
type LoadingEvaluator struct {
	thresholds Thresholds
}

// NewLoadingEvaluator builds an evaluator; zero-valued thresholds fall
// back to the defaults.
func NewLoadingEvaluator(th Thresholds) *LoadingEvaluator {
	if th == (Thresholds{}) {
		th = DefaultThresholds()
	}
	return &LoadingEvaluator{thresholds: th}
}

// Thresholds returns the policy in effect.
func (e *LoadingEvaluator) Thresholds() Thresholds { return e.thresholds }

// Evaluate computes loading_percent = |flow| / rating × 100 and the
// category. The caller guarantees a positive rating; lines whose rating
// could not be computed are reported as rating errors, not evaluated.
func (e *LoadingEvaluator) Evaluate(lineID string, flowMVA, ratingMVA float64) LoadingRecord {
	pct := math.Abs(flowMVA) / ratingMVA * 100
	return LoadingRecord{
		LineID:     lineID,
		FlowMVA:    math.Abs(flowMVA),
		RatingMVA:  ratingMVA,
		LoadingPct: pct,
		Category:   e.Categorize(pct),
	}
}

// Categorize maps a loading percentage onto the closed, ordered
// partition: ≥ critical, [caution, critical), < caution.
func (e *LoadingEvaluator) Categorize(loadingPct float64) StressCategory {
	switch {
	case loadingPct >= e.thresholds.CriticalPct:
		return StressCritical
	case loadingPct >= e.thresholds.CautionPct:
		return StressCaution
	default:
		return StressNormal
	}
}

// Summarize aggregates system-wide statistics over the record set.
func (e *LoadingEvaluator) Summarize(records []LoadingRecord) SystemStats {
	stats := SystemStats{Total: len(records)}
	if len(records) == 0 {
		return stats
	}

	sum := 0.0
	for _, r := range records {
		sum += r.LoadingPct
		if r.LoadingPct > stats.MaxLoadingPct {
			stats.MaxLoadingPct = r.LoadingPct
		}
		if r.LoadingPct > e.thresholds.OverloadPct {
			stats.OverloadedCount++
		}
		switch r.Category {
		case StressCritical:
			stats.CriticalCount++
		case StressCaution:
			stats.CautionCount++
		default:
			stats.NormalCount++
		}
	}
	stats.MeanLoadingPct = sum / float64(len(records))
	return stats
}

// SystemStatus bands a maximum loading into the operator-facing status
// label used on contingency and stress reports.
func (e *LoadingEvaluator) SystemStatus(maxLoadingPct float64) string {
	switch {
	case maxLoadingPct >= e.thresholds.OverloadPct:
		return "OVERLOADED"
	case maxLoadingPct >= e.thresholds.CriticalPct:
		return "CRITICAL"
	case maxLoadingPct >= e.thresholds.CautionPct:
		return "CAUTION"
	default:
		return "NORMAL"
	}
}
