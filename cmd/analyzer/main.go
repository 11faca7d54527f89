// Command analyzer runs thermal loading and N-1 contingency analysis for
// a transmission network scenario. It loads a JSON scenario (conductor
// library, buses, lines, ambient defaults), runs the requested analysis
// mode, and writes the structured report to stdout for the presentation
// layer to consume.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/gridsignals/grid-thermal-analyzer/core"
	"github.com/gridsignals/grid-thermal-analyzer/internal/logging"
	"github.com/gridsignals/grid-thermal-analyzer/internal/observability"
)

func main() {
	scenarioPath := flag.String("scenario", "", "path to the grid scenario JSON (required)")
	mode := flag.String("mode", "analyze", "analysis mode: analyze | n1 | sweep | first-overload")
	temp := flag.Float64("temp", 35, "ambient temperature, °C")
	wind := flag.Float64("wind", 2, "wind speed, ft/s")
	sweepLow := flag.Float64("sweep-low", 25, "sweep lower bound, °C")
	sweepHigh := flag.Float64("sweep-high", 70, "sweep upper bound, °C")
	sweepStep := flag.Float64("sweep-step", 1, "sweep step, °C")
	workers := flag.Int("workers", 0, "worker pool size for N-1 and sweep (0 = GOMAXPROCS)")
	timeout := flag.Duration("timeout", 30*time.Second, "wall-clock budget for the run")
	metricsAddr := flag.String("metrics-addr", "", "listen address for /metrics (empty = disabled)")
	pretty := flag.Bool("pretty", true, "indent the JSON report")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *scenarioPath == "" {
		fmt.Fprintln(os.Stderr, "missing required -scenario flag")
		flag.Usage()
		os.Exit(2)
	}

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "tracing init failed", logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	var collector *observability.AnalysisCollector
	if *metricsAddr != "" {
		collector, err = observability.NewAnalysisCollector(nil)
		if err != nil {
			log.Error(ctx, "metrics init failed", logging.String("error", err.Error()))
			os.Exit(1)
		}
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		go func() {
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				log.Warn(ctx, "metrics listener stopped", logging.String("error", err.Error()))
			}
		}()
		log.Info(ctx, "serving metrics", logging.String("addr", *metricsAddr))
	}

	f, err := os.Open(*scenarioPath)
	if err != nil {
		log.Error(ctx, "open scenario failed", logging.String("error", err.Error()))
		os.Exit(1)
	}
	scenario, err := core.LoadGridScenario(f)
	f.Close()
	if err != nil {
		log.Error(ctx, "load scenario failed", logging.String("error", err.Error()))
		os.Exit(1)
	}
	topo := scenario.Topology
	log.Info(ctx, "scenario loaded",
		logging.Int("buses", topo.NumBuses()),
		logging.Int("lines", topo.NumLines()),
		logging.Int("conductors", scenario.Library.Len()),
	)
	collector.SetScenarioCounts(topo.NumBuses(), topo.NumLines(), scenario.Library.Len())

	// One rating cache per process run; every mode shares it.
	rater := core.NewCachingRater(core.NewThermalModel(scenario.Thermal))
	solver := core.NewDCFlowSolver()
	eval := core.NewLoadingEvaluator(core.DefaultThresholds())

	ambient := scenario.Defaults.WithTemp(*temp).WithWind(*wind)

	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	tracer := otel.Tracer("analyzer")
	start := time.Now()

	var report any
	var runErr error
	switch *mode {
	case "analyze":
		ctx, span := tracer.Start(ctx, "analyze_conditions")
		analyzer := core.NewAnalyzer(rater, solver, eval)
		analyzer.Log = log
		var ar *core.AnalysisReport
		ar, runErr = analyzer.AnalyzeConditions(ctx, topo, ambient)
		span.End()
		if ar != nil {
			report = ar
		}

	case "n1":
		ctx, span := tracer.Start(ctx, "n1_contingency")
		engine := core.NewContingencyEngine(rater, solver, eval)
		engine.Workers = *workers
		engine.Log = log
		var n1 *core.ContingencyReport
		n1, runErr = engine.RunN1(ctx, topo, ambient)
		span.End()
		if n1 != nil {
			collector.ObserveContingencies(
				n1.Summary.TotalContingencies,
				n1.Summary.TotalViolations,
				n1.Summary.InfeasibleCount,
			)
			report = n1
		}

	case "sweep":
		ctx, span := tracer.Start(ctx, "sweep_table")
		sweep := newSweep(rater, solver, eval, scenario, *workers, log)
		rng := core.TemperatureRange{LowC: *sweepLow, HighC: *sweepHigh, StepC: *sweepStep}
		var sr *core.SweepReport
		sr, runErr = sweep.SweepTable(ctx, topo, rng, *wind)
		span.End()
		if sr != nil {
			report = sr
		}

	case "first-overload":
		ctx, span := tracer.Start(ctx, "first_overload")
		sweep := newSweep(rater, solver, eval, scenario, *workers, log)
		rng := core.TemperatureRange{LowC: *sweepLow, HighC: *sweepHigh, StepC: *sweepStep}
		var fo core.FirstOverload
		fo, runErr = sweep.FindFirstOverloadInRange(ctx, topo, rng, *wind)
		span.End()
		if runErr == nil {
			report = fo
		}

	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q\n", *mode)
		os.Exit(2)
	}

	collector.ObserveRun(metricMode(*mode), time.Since(start))
	stats := rater.Stats()
	collector.ObserveCache(stats.Hits, stats.Misses)
	log.Info(ctx, "run finished",
		logging.String("mode", *mode),
		logging.Any("elapsed", time.Since(start)),
		logging.Any("rating_cache", stats),
	)

	if runErr != nil {
		log.Error(ctx, "analysis failed", logging.String("error", runErr.Error()))
		// Batch modes may still have partial results worth emitting.
		if report == nil {
			os.Exit(1)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(report); err != nil {
		log.Error(ctx, "encode report failed", logging.String("error", err.Error()))
		os.Exit(1)
	}
	if runErr != nil {
		os.Exit(1)
	}
}

func newSweep(rater core.Rater, solver core.FlowSolver, eval *core.LoadingEvaluator, scenario *core.GridScenario, workers int, log logging.Logger) *core.SweepAnalyzer {
	sweep := core.NewSweepAnalyzer(rater, solver, eval)
	sweep.Defaults = scenario.Defaults
	sweep.Workers = workers
	sweep.Log = log
	return sweep
}

func metricMode(mode string) string {
	if mode == "first-overload" {
		return "first_overload"
	}
	return mode
}
