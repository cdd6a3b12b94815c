package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/boidsim/internal/viz"
)

var (
	dataDir  string
	logLevel string
	// Run configuration
	configFile  string
	preset      string
	seed        int64
	count       int
	frames      int
	sampleEvery int
	metricNames []string
	resumeID    string
	// Ensembles and sweeps
	numRuns   int
	sweepName string
	sweepMin  float64
	sweepMax  float64
	steps     int
	transient int
	// Bench and menu
	benchFrames int
	menuSeed    int64
	// Tuning
	gridSpecs []string
	objective string
	maximize  bool
	// Output
	outPath  string
	frameIdx int
	trail    bool
)

// main registers the boidsim commands and runs the root command. With no
// subcommand the profile picker opens.
func main() {
	rootCmd := &cobra.Command{
		Use:           "boidsim",
		Short:         "flocking simulation lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunMenu(menuSeed)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".boidsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.Flags().Int64Var(&menuSeed, "seed", time.Now().UnixNano(), "random seed")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and store it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().StringSliceVar(&metricNames, "metrics", nil, "metrics to record (default all)")
	runCmd.Flags().StringVar(&resumeID, "resume", "", "continue from the final flock of a stored run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot metric series of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().BoolVar(&trail, "trail", false, "also plot the centroid trail")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "spectral analysis of run metrics",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export sampled frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <run_id>.csv)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render a sampled frame or the centroid trail as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().IntVar(&frameIdx, "frame", -1, "sample index to render (negative counts from the end)")
	exportSVGCmd.Flags().BoolVar(&trail, "trail", false, "render the centroid trail instead of a frame")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list tuning profiles",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a config file (.yaml or .toml)",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}
	initCmd.Flags().StringVar(&preset, "preset", "", "start from a tuning profile")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "steer the target and watch the flock in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark Step across flock sizes",
		Args:  cobra.NoArgs,
		RunE:  benchFlock,
	}
	benchCmd.Flags().IntVar(&benchFrames, "frames", 500, "frames per size")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run many seeds concurrently and summarize metrics",
		Args:  cobra.NoArgs,
		RunE:  runEnsemble,
	}
	addConfigFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&numRuns, "runs", 8, "number of seeds")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one flock parameter and plot the mean spread",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addConfigFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepName, "param", "cohesion_strength", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0.05, "last value")
	sweepCmd.Flags().IntVar(&steps, "steps", 20, "number of values")
	sweepCmd.Flags().IntVar(&transient, "transient", 200, "frames before recording")

	divergeCmd := &cobra.Command{
		Use:   "divergence",
		Short: "estimate sensitivity to a tiny spawn perturbation",
		Args:  cobra.NoArgs,
		RunE:  runDivergence,
	}
	addConfigFlags(divergeCmd)

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search flock parameters against an objective",
		Args:  cobra.NoArgs,
		RunE:  runTune,
	}
	addConfigFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&gridSpecs, "grid", nil, "parameter grid as name=min:max:n (repeatable)")
	tuneCmd.Flags().StringVar(&objective, "objective", "health", "metric name, score or health")
	tuneCmd.Flags().BoolVar(&maximize, "maximize", true, "maximize the objective instead of minimizing")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a YAML scenario of scripted experiments",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, analyzeCmd, exportCSVCmd, exportJSONCmd,
		exportSVGCmd, presetsCmd, initCmd, liveCmd, benchCmd, ensembleCmd, sweepCmd, divergeCmd,
		tuneCmd, scenarioCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	cmd.Flags().StringVar(&preset, "preset", "", "tuning profile")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	cmd.Flags().IntVar(&count, "count", 0, "number of agents")
	cmd.Flags().IntVar(&frames, "frames", 0, "frames to simulate")
	cmd.Flags().IntVar(&sampleEvery, "sample", 0, "record every nth frame")
}

func newLogger() (*log.Logger, error) {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		Prefix:          "boidsim",
		ReportTimestamp: true,
	}), nil
}
