package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/locosim/internal/analysis"
	"github.com/san-kum/locosim/internal/automation"
	"github.com/san-kum/locosim/internal/config"
	"github.com/san-kum/locosim/internal/experiment"
	"github.com/san-kum/locosim/internal/export"
	"github.com/san-kum/locosim/internal/optim"
	"github.com/san-kum/locosim/internal/sim"
	"github.com/san-kum/locosim/internal/storage"
	"github.com/san-kum/locosim/internal/viz"
	"github.com/spf13/cobra"
)

var seriesFuncs = map[string]func(*sim.Sample) float64{
	"speed":         func(s *sim.Sample) float64 { return s.Speed },
	"phase":         func(s *sim.Sample) float64 { return s.Phase },
	"phase_speed":   func(s *sim.Sample) float64 { return s.PhaseSpeed },
	"stride_length": func(s *sim.Sample) float64 { return s.StrideLength },
	"bob":           func(s *sim.Sample) float64 { return s.Bob },
	"pelvis_z":      func(s *sim.Sample) float64 { return s.Pelvis.Translation.Z() },
	"goal_lag": func(s *sim.Sample) float64 {
		return s.Goal.Translation.Sub(s.Body.Translation).Len()
	},
}

func seriesNames() []string {
	names := make([]string, 0, len(seriesFuncs))
	for name := range seriesFuncs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func seriesFunc(name string) (func(*sim.Sample) float64, error) {
	fn, ok := seriesFuncs[name]
	if !ok {
		return nil, fmt.Errorf("unknown series: %s (available: %v)", name, seriesNames())
	}
	return fn, nil
}

// parseParams reads name=value pairs.
func parseParams(args []string) (map[string]float64, error) {
	out := make(map[string]float64, len(args))
	for _, arg := range args {
		name, raw, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("param %q: want name=value", arg)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("param %s: %w", name, err)
		}
		out[name] = v
	}
	return out, nil
}

// parseGrid reads name=v1,v2,... axes in the order given.
func parseGrid(args []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(args))
	ranges := make([][]float64, 0, len(args))
	for _, arg := range args {
		name, raw, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, nil, fmt.Errorf("param %q: want name=v1,v2,...", arg)
		}
		var values []float64
		for _, field := range strings.Split(raw, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("param %s: %w", name, err)
			}
			values = append(values, v)
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func openStore() *storage.Store {
	return storage.New(dataDir)
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := setupConfig(cmd)
	if err != nil {
		return err
	}
	if saveAs != "" {
		cfg.Name = saveAs
	}

	st := openStore()
	if err := st.Init(); err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	exp := experiment.New(cfg)
	if err := exp.Setup(registry, registry.DefaultMetrics()); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %s (%d legs, %s path)...\n", cfg.Name, cfg.Rig.Legs, cfg.Path)
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d, sub-steps: %d, stalls: %d\n", result.Frames, result.SubSteps, result.Stalls)
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}
	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := openStore().List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLEGS\tGAIT\tPATH\tGROUND\tTIME\tDURATION\tFPS\tFRAMES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\t%.2fs\t%.0f\t%d\n",
			run.ID,
			run.Legs,
			run.Gait,
			run.Path,
			run.Ground,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.FrameRate,
			run.Frames,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := openStore()
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}
	if len(trace.Rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("rig: %d legs, %s gait\n", meta.Legs, meta.Gait)
	fmt.Printf("samples: %d\n\n", len(trace.Rows))

	for _, col := range columns {
		data := trace.Column(col)
		if data == nil {
			return fmt.Errorf("unknown column: %s", col)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(col+" vs frame"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	value, err := seriesFunc(series)
	if err != nil {
		return err
	}

	st := openStore()
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}
	samples := trace.Samples()
	if len(samples) < 2 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("gait analysis: %s\n", meta.ID)
	fmt.Printf("rig: %d legs, %s gait, %s path\n\n", meta.Legs, meta.Gait, meta.Path)

	// Frames may be irregular, so resample onto the nominal frame rate first.
	data := analysis.Resample(trace.Column("time"), analysis.SampleSeries(samples, value), meta.FrameRate)
	ps := analysis.PowerSpectrum(data)
	if len(ps) > 4 {
		graph := asciigraph.Plot(ps[:len(ps)/4],
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum ("+series+")"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	freq, _ := analysis.DominantFrequency(data, meta.FrameRate)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	fmt.Printf("\nstride section (%s, cycle n vs n+1):\n", series)
	fmt.Println(analysis.StrideSectionToASCII(analysis.StrideSection(samples, value), 60, 20))

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	meta, err := openStore().Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]
	trace, err := openStore().LoadTrace(runID)
	if err != nil {
		return err
	}

	out := outFile
	if out == "" {
		out = runID + ".csv"
	}
	if err := storage.WriteTraceFile(out, trace.Samples()); err != nil {
		return err
	}
	fmt.Printf("exported %d rows to %s\n", len(trace.Rows), out)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	trace, err := openStore().LoadTrace(runID)
	if err != nil {
		return err
	}
	samples := trace.Samples()
	if len(samples) == 0 {
		return fmt.Errorf("no data to draw")
	}

	out := outFile
	if out == "" {
		out = runID + ".svg"
	}
	svg := export.FootprintsToSVG(samples, svgWidth, svgHeight)
	if err := os.WriteFile(out, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %d footprints to %s\n", len(export.Footprints(samples)), out)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	fmt.Println("presets:")
	for _, rig := range config.ListRigs() {
		fmt.Printf("  %s\n", rig)
		for _, name := range config.ListPresets(rig) {
			p := config.GetPreset(rig, name)
			fmt.Printf("    %s/%s\t%d legs, %s gait, %s path on %s\n", rig, name, p.Rig.Legs, p.Rig.Gait, p.Path, p.Ground)
		}
	}

	registry := experiment.NewRegistry()
	fmt.Printf("\npaths: %s\n", strings.Join(registry.ListPaths(), ", "))
	fmt.Printf("gaits: %s\n", strings.Join(registry.ListGaits(), ", "))

	fmt.Println("\nparams:")
	defaults := config.DefaultConfig()
	for _, name := range config.ListParams() {
		v, _ := defaults.GetParam(name)
		fmt.Printf("  %-30s %g\n", name, v)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := setupConfig(cmd)
	if err != nil {
		return err
	}
	s, err := launch(cfg)
	if err != nil {
		return err
	}
	return viz.RunLive(cfg.Name, s)
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := openStore()
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("scenario: %s (%d steps)\n", scenario.Name, len(scenario.Steps))
	results, err := automation.RunScenario(ctx, scenario, experiment.NewRegistry(), st)
	if err != nil {
		return err
	}

	for i, r := range results {
		fmt.Printf("\nstep %d: %s\n", i+1, r.Name)
		if r.RunID != "" {
			fmt.Printf("  run id: %s\n", r.RunID)
		}
		printMetrics(r.Result.Metrics)
	}
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := setupConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	mc := &automation.MonteCarloConfig{
		Base:       cfg,
		Trials:     trials,
		Seed:       cfg.Seed,
		MaxJitter:  maxJitter,
		MaxPause:   maxPause,
		MaxOverlap: maxOverlap,
	}
	results, err := automation.RunMonteCarlo(ctx, mc, experiment.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tJITTER\tPAUSE AT\tPAUSE\tSTABLE\tGOAL LAG\tOVERLAP")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%.3f\t%.2fs\t%.3fs\t%v\t%.3f\t%.3f\n",
			r.Trial, r.Jitter, r.Pause.At, r.Pause.Length, r.Stable,
			r.Metrics["goal_lag"], r.Metrics["foot_overlap"])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("\nstable: %d, unstable: %d\n", stable, unstable)
	return nil
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := setupConfig(cmd)
	if err != nil {
		return err
	}
	names, ranges, err := parseGrid(params)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("no grid given; use --param name=v1,v2,... (see presets for names)")
	}

	grid, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}
	grid.Maximize = maximize

	ctx, cancel := signalContext()
	defer cancel()

	best, value, tried, err := grid.Search(ctx, cfg, optim.Evaluate(experiment.NewRegistry()), metricName)
	if err != nil {
		return err
	}

	failed := 0
	for _, t := range tried {
		if t.Err != nil {
			failed++
		}
	}

	fmt.Printf("evaluated %d points (%d failed)\n", len(tried), failed)
	fmt.Printf("best %s: %.6f\n", metricName, value)
	for _, name := range names {
		fmt.Printf("  %s = %g\n", name, best[name])
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, err := setupConfig(cmd)
	if err != nil {
		return err
	}
	if _, err := base.GetParam(sweepParam); err != nil {
		return err
	}
	value, err := seriesFunc(series)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	run := func(ctx context.Context, v float64) (*sim.Result, error) {
		cfg := base.Clone()
		if err := cfg.SetParam(sweepParam, v); err != nil {
			return nil, err
		}
		exp := experiment.New(cfg)
		if err := exp.Setup(registry, nil); err != nil {
			return nil, err
		}
		return exp.Run(ctx)
	}

	ctx, cancel := signalContext()
	defer cancel()

	points, err := analysis.Sweep(ctx, run, analysis.Range(sweepLo, sweepHi, sweepSteps), value, transient, 0.5)
	if err != nil {
		return err
	}

	fmt.Printf("%s vs %s\n", series, sweepParam)
	fmt.Println(analysis.SweepToASCII(points, 80, 24))
	return nil
}
