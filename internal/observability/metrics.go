package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// AnalysisCollector bundles Prometheus metrics for analysis runs and
// provides a ready-to-serve /metrics handler. All fields tolerate a nil
// receiver so instrumentation can be disabled without branching at every
// call site.
type AnalysisCollector struct {
	gatherer prometheus.Gatherer

	RunsTotal    *prometheus.CounterVec
	RunDurations *prometheus.HistogramVec

	ContingenciesEvaluated prometheus.Counter
	ViolationsFound        prometheus.Counter
	InfeasibleOutages      prometheus.Counter

	RatingCacheHits   prometheus.Counter
	RatingCacheMisses prometheus.Counter

	ScenarioBuses      prometheus.Gauge
	ScenarioLines      prometheus.Gauge
	ScenarioConductors prometheus.Gauge
}

// NewAnalysisCollector registers the analysis metrics against the
// provided registerer, defaulting to the global Prometheus registry when
// nil. Re-registration reuses the existing collectors, so repeated
// construction in one process is safe.
func NewAnalysisCollector(reg prometheus.Registerer) (*AnalysisCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "analysis_runs_total",
		Help: "Completed analysis runs, labeled by mode (analyze, n1, sweep, first_overload).",
	}, []string{"mode"})
	runs, err := registerCounterVec(reg, runs, "analysis_runs_total")
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "analysis_run_duration_seconds",
		Help:    "Wall-clock duration of analysis runs, labeled by mode.",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"mode"})
	durations, err = registerHistogramVec(reg, durations, "analysis_run_duration_seconds")
	if err != nil {
		return nil, err
	}

	contingencies, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "contingencies_evaluated_total",
		Help: "Single-line outages evaluated across all N-1 runs.",
	}), "contingencies_evaluated_total")
	if err != nil {
		return nil, err
	}
	violations, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "contingency_violations_total",
		Help: "Post-outage loading violations reported across all N-1 runs.",
	}), "contingency_violations_total")
	if err != nil {
		return nil, err
	}
	infeasible, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "infeasible_outages_total",
		Help: "Outages whose loss islands the network.",
	}), "infeasible_outages_total")
	if err != nil {
		return nil, err
	}

	cacheHits, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rating_cache_hits_total",
		Help: "Thermal rating computations served from the cache.",
	}), "rating_cache_hits_total")
	if err != nil {
		return nil, err
	}
	cacheMisses, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rating_cache_misses_total",
		Help: "Thermal rating computations that required a heat-balance solve.",
	}), "rating_cache_misses_total")
	if err != nil {
		return nil, err
	}

	buses, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "scenario_buses",
		Help: "Buses in the loaded network scenario.",
	}), "scenario_buses")
	if err != nil {
		return nil, err
	}
	lines, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "scenario_lines",
		Help: "Lines in the loaded network scenario.",
	}), "scenario_lines")
	if err != nil {
		return nil, err
	}
	conductors, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "scenario_conductors",
		Help: "Conductor types in the loaded library.",
	}), "scenario_conductors")
	if err != nil {
		return nil, err
	}

	return &AnalysisCollector{
		gatherer:               gatherer,
		RunsTotal:              runs,
		RunDurations:           durations,
		ContingenciesEvaluated: contingencies,
		ViolationsFound:        violations,
		InfeasibleOutages:      infeasible,
		RatingCacheHits:        cacheHits,
		RatingCacheMisses:      cacheMisses,
		ScenarioBuses:          buses,
		ScenarioLines:          lines,
		ScenarioConductors:     conductors,
	}, nil
}

// ObserveRun records one completed run of the given mode.
func (c *AnalysisCollector) ObserveRun(mode string, elapsed time.Duration) {
	if c == nil {
		return
	}
	if c.RunsTotal != nil {
		c.RunsTotal.WithLabelValues(mode).Inc()
	}
	if c.RunDurations != nil {
		c.RunDurations.WithLabelValues(mode).Observe(elapsed.Seconds())
	}
}

// ObserveContingencies records the aggregate of one N-1 run.
func (c *AnalysisCollector) ObserveContingencies(evaluated, violations, infeasible int) {
	if c == nil {
		return
	}
	if c.ContingenciesEvaluated != nil {
		c.ContingenciesEvaluated.Add(float64(evaluated))
	}
	if c.ViolationsFound != nil {
		c.ViolationsFound.Add(float64(violations))
	}
	if c.InfeasibleOutages != nil {
		c.InfeasibleOutages.Add(float64(infeasible))
	}
}

// ObserveCache folds in rating-cache hit/miss deltas.
func (c *AnalysisCollector) ObserveCache(hits, misses uint64) {
	if c == nil {
		return
	}
	if c.RatingCacheHits != nil {
		c.RatingCacheHits.Add(float64(hits))
	}
	if c.RatingCacheMisses != nil {
		c.RatingCacheMisses.Add(float64(misses))
	}
}

// SetScenarioCounts drives the scenario gauges after a load.
func (c *AnalysisCollector) SetScenarioCounts(buses, lines, conductors int) {
	if c == nil {
		return
	}
	if c.ScenarioBuses != nil {
		c.ScenarioBuses.Set(float64(buses))
	}
	if c.ScenarioLines != nil {
		c.ScenarioLines.Set(float64(lines))
	}
	if c.ScenarioConductors != nil {
		c.ScenarioConductors.Set(float64(conductors))
	}
}

// Handler exposes a ready-to-use /metrics handler.
func (c *AnalysisCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
