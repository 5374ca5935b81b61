package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/san-kum/locosim/internal/config"
	"github.com/san-kum/locosim/internal/experiment"
	"github.com/san-kum/locosim/internal/ground"
	"github.com/san-kum/locosim/internal/sim"
	"github.com/san-kum/locosim/internal/viz"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	dataDir  string
	logLevel string

	preset     string
	configFile string
	legs       int
	gait       string
	pathName   string
	groundName string
	duration   float64
	frameRate  float64
	jitter     float64
	seed       int64
	goalSpeed  float64
	params     []string
	saveAs     string

	columns    []string
	series     string
	outFile    string
	svgWidth   int
	svgHeight  int
	trials     int
	maxJitter  float64
	maxPause   float64
	maxOverlap float64
	metricName string
	maximize   bool
	sweepParam string
	sweepLo    float64
	sweepHi    float64
	sweepSteps int
	transient  float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "locosim",
		Short: "procedural legged locomotion simulator",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logrus.SetLevel(level)
			logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(launch)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".locosim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warning", "log level (debug, info, warning, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store its trace",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSetupFlags(runCmd)
	runCmd.Flags().StringVar(&saveAs, "save", "", "name to store the run under (default: config name)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot trace columns of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVarP(&columns, "column", "c", []string{"speed", "phase", "bob"}, "trace columns to plot")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "gait frequency and stride-to-stride analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&series, "series", "bob", "series to analyse ("+strings.Join(seriesNames(), ", ")+")")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "copy the trace of a run to a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default: <run_id>.csv)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return openStore().ExportJSON(args[0], outFile)
		},
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default: stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw the footprints of a run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default: <run_id>.svg)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 600, "image height")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list rigs, presets, paths and tunable parameters",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "watch a rig walk in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSetupFlags(liveCmd)

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run the steps of a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	montecarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "perturb host timing and count stable runs",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	addSetupFlags(montecarloCmd)
	montecarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	montecarloCmd.Flags().Float64Var(&maxJitter, "max-jitter", 0.5, "largest frame time jitter")
	montecarloCmd.Flags().Float64Var(&maxPause, "max-pause", 1, "longest host stall (s)")
	montecarloCmd.Flags().Float64Var(&maxOverlap, "max-overlap", 0, "deepest foot overlap still stable (0 disables)")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search over locomotion parameters",
		Long:  "grid search over locomotion parameters; give each axis as --param name=v1,v2,...",
		Args:  cobra.NoArgs,
		RunE:  runTune,
	}
	addSetupFlags(tuneCmd)
	tuneCmd.Flags().StringVar(&metricName, "metric", "goal_lag", "metric to optimise")
	tuneCmd.Flags().BoolVar(&maximize, "maximize", false, "maximise the metric instead of minimising it")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one parameter and plot the settled values of a series",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addSetupFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "sweep", "goal.speed", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepLo, "from", 20, "first value")
	sweepCmd.Flags().Float64Var(&sweepHi, "to", 120, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 11, "number of values")
	sweepCmd.Flags().Float64Var(&transient, "transient", 3, "seconds to skip before sampling")
	sweepCmd.Flags().StringVar(&series, "series", "stride_length", "series to sample")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, analyzeCmd, exportCmd, exportCSVCmd, exportJSONCmd,
		exportSVGCmd, presetsCmd, liveCmd, scenarioCmd, montecarloCmd, tuneCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSetupFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&preset, "preset", "p", "", "preset as rig/name (see presets)")
	cmd.Flags().StringVar(&configFile, "config", "", "YAML config file (overrides preset)")
	cmd.Flags().IntVar(&legs, "legs", config.DefaultLegs, "number of legs (even)")
	cmd.Flags().StringVar(&gait, "gait", "alternate", "gait pattern")
	cmd.Flags().StringVar(&pathName, "path", "line", "root goal path")
	cmd.Flags().StringVar(&groundName, "ground", "flat", "ground surface ("+strings.Join(ground.Names(), ", ")+")")
	cmd.Flags().Float64VarP(&duration, "time", "t", config.DefaultDuration, "simulated host time (s)")
	cmd.Flags().Float64Var(&frameRate, "fps", config.DefaultFrameRate, "host frame rate")
	cmd.Flags().Float64Var(&jitter, "jitter", 0, "frame time jitter in [0, 1)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	cmd.Flags().Float64Var(&goalSpeed, "speed", config.DefaultGoalSpeed, "root goal speed (units/s)")
	cmd.Flags().StringArrayVar(&params, "param", nil, "parameter override name=value (repeatable)")
}

// setupConfig layers the default config, a preset, a config file and any
// flags the user set explicitly, in that order.
func setupConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		rig, name, ok := strings.Cut(preset, "/")
		if !ok {
			return nil, fmt.Errorf("preset %q: want rig/name", preset)
		}
		p := config.GetPreset(rig, name)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(rig))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("legs") {
		cfg.Rig.Legs = legs
	}
	if flags.Changed("gait") {
		cfg.Rig.Gait = gait
	}
	if flags.Changed("path") {
		cfg.Path = pathName
	}
	if flags.Changed("ground") {
		cfg.Ground = groundName
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("fps") {
		cfg.FrameRate = frameRate
	}
	if flags.Changed("jitter") {
		cfg.Jitter = jitter
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("speed") {
		cfg.Goal.Speed = goalSpeed
	}

	// tune reads its --param values as grid axes.
	if cmd.Name() != "tune" {
		overrides, err := parseParams(params)
		if err != nil {
			return nil, err
		}
		if err := cfg.ApplyParams(overrides); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// launch builds a simulator for the interactive views.
func launch(cfg *config.Config) (*sim.Simulator, error) {
	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry(), nil); err != nil {
		return nil, err
	}
	return exp.GetSimulator(), nil
}
