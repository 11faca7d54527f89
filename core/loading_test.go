package core

import "testing"

func TestCategorizeBoundaries(t *testing.T) {
	eval := NewLoadingEvaluator(DefaultThresholds())

	cases := []struct {
		pct  float64
		want StressCategory
	}{
		{0, StressNormal},
		{59.999, StressNormal},
		{60, StressCaution},
		{75, StressCaution},
		{89.999, StressCaution},
		{90, StressCritical},
		{100, StressCritical},
		{130, StressCritical},
	}
	for _, tc := range cases {
		if got := eval.Categorize(tc.pct); got != tc.want {
			t.Errorf("Categorize(%g) = %q, want %q", tc.pct, got, tc.want)
		}
	}
}

func TestEvaluateUsesFlowMagnitude(t *testing.T) {
	eval := NewLoadingEvaluator(DefaultThresholds())

	rec := eval.Evaluate("L1", -92, 91.7)
	if !almostEqual(rec.LoadingPct, 100.327, 1e-2) {
		t.Errorf("LoadingPct = %g, want ≈100.33", rec.LoadingPct)
	}
	if rec.Category != StressCritical {
		t.Errorf("Category = %q, want critical", rec.Category)
	}
	if rec.FlowMVA != 92 {
		t.Errorf("FlowMVA = %g, want 92 (magnitude of reverse flow)", rec.FlowMVA)
	}
}

func TestSummarize(t *testing.T) {
	eval := NewLoadingEvaluator(DefaultThresholds())

	records := []LoadingRecord{
		eval.Evaluate("L1", 30, 100),  // 30%, normal
		eval.Evaluate("L2", 70, 100),  // 70%, caution
		eval.Evaluate("L3", 95, 100),  // 95%, critical
		eval.Evaluate("L4", 105, 100), // 105%, critical and overloaded
	}
	stats := eval.Summarize(records)

	if stats.Total != 4 {
		t.Errorf("Total = %d, want 4", stats.Total)
	}
	if stats.NormalCount != 1 || stats.CautionCount != 1 || stats.CriticalCount != 2 {
		t.Errorf("counts normal=%d caution=%d critical=%d, want 1/1/2",
			stats.NormalCount, stats.CautionCount, stats.CriticalCount)
	}
	if stats.OverloadedCount != 1 {
		t.Errorf("OverloadedCount = %d, want 1", stats.OverloadedCount)
	}
	if !almostEqual(stats.MaxLoadingPct, 105, 1e-9) {
		t.Errorf("MaxLoadingPct = %g, want 105", stats.MaxLoadingPct)
	}
	if !almostEqual(stats.MeanLoadingPct, 75, 1e-9) {
		t.Errorf("MeanLoadingPct = %g, want 75", stats.MeanLoadingPct)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	stats := NewLoadingEvaluator(DefaultThresholds()).Summarize(nil)
	if stats != (SystemStats{}) {
		t.Errorf("empty summary = %+v, want zero value", stats)
	}
}

func TestSystemStatusBands(t *testing.T) {
	eval := NewLoadingEvaluator(DefaultThresholds())

	cases := []struct {
		pct  float64
		want string
	}{
		{45, "NORMAL"},
		{60, "CAUTION"},
		{90, "CRITICAL"},
		{100, "OVERLOADED"},
		{140, "OVERLOADED"},
	}
	for _, tc := range cases {
		if got := eval.SystemStatus(tc.pct); got != tc.want {
			t.Errorf("SystemStatus(%g) = %q, want %q", tc.pct, got, tc.want)
		}
	}
}

func TestEvaluatorZeroThresholdsFallBack(t *testing.T) {
	eval := NewLoadingEvaluator(Thresholds{})
	if eval.Thresholds() != DefaultThresholds() {
		t.Errorf("zero-valued thresholds should fall back to defaults, got %+v", eval.Thresholds())
	}
}
