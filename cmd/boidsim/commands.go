package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/boidsim/internal/analysis"
	"github.com/san-kum/boidsim/internal/automation"
	"github.com/san-kum/boidsim/internal/config"
	"github.com/san-kum/boidsim/internal/experiment"
	"github.com/san-kum/boidsim/internal/export"
	"github.com/san-kum/boidsim/internal/flock"
	"github.com/san-kum/boidsim/internal/metrics"
	"github.com/san-kum/boidsim/internal/optim"
	"github.com/san-kum/boidsim/internal/sim"
	"github.com/san-kum/boidsim/internal/storage"
	"github.com/san-kum/boidsim/internal/target"
	"github.com/san-kum/boidsim/internal/viz"
)

// buildConfig layers the run configuration: defaults, then the preset, then
// the config file, then any flag set on the command line.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		if err := config.LoadInto(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("count") {
		cfg.Count = count
	}
	if flags.Changed("frames") {
		cfg.Frames = frames
	}
	if flags.Changed("sample") {
		cfg.SampleEvery = sampleEvery
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resumeConfig continues a stored run: its saved config and final flock,
// with --frames and --sample applied on top.
func resumeConfig(cmd *cobra.Command, st *storage.Store) (*config.Config, *flock.Snapshot, error) {
	for _, name := range []string{"config", "preset", "seed", "count"} {
		if cmd.Flags().Changed(name) {
			return nil, nil, fmt.Errorf("--%s cannot be combined with --resume", name)
		}
	}
	cfg, snap, err := st.Resume(resumeID)
	if err != nil {
		return nil, nil, fmt.Errorf("resume %s: %w", resumeID, err)
	}
	if cmd.Flags().Changed("frames") {
		cfg.Frames = frames
	}
	if cmd.Flags().Changed("sample") {
		cfg.SampleEvery = sampleEvery
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, &snap, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	var (
		cfg  *config.Config
		snap *flock.Snapshot
	)
	if resumeID != "" {
		cfg, snap, err = resumeConfig(cmd, st)
	} else {
		cfg, err = buildConfig(cmd)
	}
	if err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry(), metricNames, logger.WithPrefix("sim")); err != nil {
		return err
	}
	if snap != nil {
		if err := exp.Restore(*snap); err != nil {
			return err
		}
		logger.Info("resuming run", "from", resumeID, "agents", exp.Flock().Len())
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %s: %d agents, %d frames...\n", cfg.Profile, exp.Flock().Len(), cfg.Frames)
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		if result == nil {
			return err
		}
		logger.Warn("run stopped early", "frames", result.FramesRun, "err", err)
	}
	elapsed := time.Since(start)

	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", result.FramesRun)
	fmt.Printf("survivors: %d  score: %d  health: %.0f\n", len(result.Final.IDs), result.Score, result.Health)
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPROFILE\tTIME\tAGENTS\tFRAMES\tSURVIVORS\tSCORE\tHEALTH")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%.0f\n",
			run.ID,
			run.Profile,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Count,
			run.Frames,
			run.Survivors,
			run.Score,
			run.Health,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	if len(meta.Series) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("profile: %s\n", meta.Profile)
	fmt.Printf("frames: %d\n\n", meta.Frames)

	for _, name := range sortedKeys(meta.Series) {
		fmt.Println(viz.PlotSeries(name, meta.Series[name], 80, 10))
		fmt.Println()
	}

	if trail {
		frames, err := st.LoadFrames(runID)
		if err != nil {
			return err
		}
		fmt.Println("centroid trail (@ = last)")
		fmt.Println(analysis.TrailToASCII(centroids(frames), 80, 20))
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	if len(meta.Series) == 0 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("spectral analysis: %s\n", meta.ID)
	fmt.Printf("profile: %s\n\n", meta.Profile)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tMEAN\tSTDDEV\tPERIOD (frames)")
	for _, name := range sortedKeys(meta.Series) {
		series := meta.Series[name]
		mean, std := stat.MeanStdDev(series, nil)
		period := "-"
		if p := analysis.DominantPeriod(series); p > 0 {
			period = fmt.Sprintf("%.1f", p)
		}
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%s\n", name, mean, std, period)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if series, ok := meta.Series["target_distance"]; ok {
		ps := analysis.PowerSpectrum(series)
		if len(ps) > 4 {
			fmt.Println()
			fmt.Println(viz.PlotSeries("power spectrum (target_distance)", ps[1:], 80, 12))
		}
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]
	dst := outPath
	if dst == "" {
		dst = runID + ".csv"
	}
	if err := storage.New(dataDir).ExportCSV(runID, dst); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", dst)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSON(args[0], outPath)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	frames, err := storage.New(dataDir).LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("run %s has no frames", runID)
	}

	var svg string
	if trail {
		svg = export.TrajectoryToSVG(centroids(frames), 800, 600, "#00ffff")
	} else {
		idx := frameIdx
		if idx < 0 {
			idx += len(frames)
		}
		if idx < 0 || idx >= len(frames) {
			return fmt.Errorf("frame %d out of range [0, %d)", frameIdx, len(frames))
		}
		lo, hi := export.FrameBounds(frames)
		svg = export.FrameToSVG(frames[idx], viz.FitViewport(lo, hi, 0.05), 800, 600)
	}

	dst := outPath
	if dst == "" {
		dst = runID + ".svg"
	}
	if err := os.WriteFile(dst, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", dst)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tAGENTS\tFRAMES\tTARGET\tSEEK\tCOHESION\tSEP R²\tALIGN R²\tALIGN")
	for _, name := range config.ListPresets() {
		p := config.Presets[name]
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%g\t%g\t%g\t%g\t%g\n",
			name, p.Count, p.Frames, p.Target.Kind,
			p.Params.SeekStrength, p.Params.CohesionStrength,
			p.Params.SeparationRadiusSq, p.Params.AlignmentRadiusSq, p.Params.AlignmentStrength)
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	return viz.RunLive(cfg)
}

func benchFlock(cmd *cobra.Command, args []string) error {
	sizes := []int{10, 50, 100, 200, 500}
	params := flock.DefaultParams()
	tgt := flock.Vec2{X: 400, Y: 300}

	fmt.Printf("benchmarking Step, %d frames per size\n\n", benchFrames)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "AGENTS\tFRAMES\tTIME\tPER STEP\tSTEPS/SEC")

	for _, n := range sizes {
		f := flock.NewFlock(n, flock.Vec2{}, flock.Vec2{X: 800, Y: 600},
			flock.Vec2{Y: -5}, flock.Vec2{X: 2, Y: 3}, params, rand.New(rand.NewSource(42)))

		start := time.Now()
		for i := 0; i < benchFrames; i++ {
			f.Step(tgt)
		}
		elapsed := time.Since(start)

		perStep := elapsed / time.Duration(max(benchFrames, 1))
		fmt.Fprintf(w, "%d\t%d\t%v\t%v\t%.0f\n",
			n, benchFrames, elapsed, perStep, float64(benchFrames)/elapsed.Seconds())
	}
	return w.Flush()
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	if numRuns < 1 {
		return fmt.Errorf("runs must be at least 1, got %d", numRuns)
	}
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}

	reg := experiment.NewRegistry()
	spawn := func(s int64) (*flock.Flock, target.Path, *sim.Runner, error) {
		f, path, r, err := experiment.Spawn(cfg, reg, nil, s)
		if err != nil {
			return nil, nil, nil, err
		}
		r.SetLogger(logger.With("seed", s))
		return f, path, r, nil
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("ensemble: %s, %d runs from seed %d\n\n", cfg.Profile, numRuns, cfg.Seed)
	start := time.Now()
	results, err := sim.NewEnsemble(spawn, numRuns, cfg.Seed).Run(ctx, experiment.SimConfig(cfg))
	if err != nil {
		return err
	}

	values := make(map[string][]float64)
	for _, res := range results {
		for name, v := range res.Metrics {
			values[name] = append(values[name], v)
		}
		values["score"] = append(values["score"], float64(res.Score))
		values["health"] = append(values["health"], res.Health)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tMEAN\tSTDDEV\tMIN\tMAX")
	for _, name := range sortedKeys(values) {
		vs := values[name]
		mean, std := stat.MeanStdDev(vs, nil)
		sorted := append([]float64(nil), vs...)
		sort.Float64s(sorted)
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%.4f\n", name, mean, std, sorted[0], sorted[len(sorted)-1])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\ncompleted in %v\n", time.Since(start))
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	_, path, err := experiment.NewFlock(cfg, cfg.Seed)
	if err != nil {
		return err
	}
	spawn := func() (*flock.Flock, error) {
		f, _, err := experiment.NewFlock(cfg, cfg.Seed)
		return f, err
	}
	spread := func(f *flock.Flock, _ flock.Vec2) float64 { return metrics.SpreadOf(f) }

	points, err := analysis.Sweep(spawn, path, analysis.SweepConfig{
		Param:     sweepName,
		Min:       sweepMin,
		Max:       sweepMax,
		Steps:     steps,
		Transient: transient,
		Record:    cfg.Frames,
	}, spread)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tMEAN SPREAD\n", sweepName)
	means := make([]float64, len(points))
	for i, p := range points {
		means[i] = p.Mean()
		fmt.Fprintf(w, "%.5g\t%.3f\n", p.Param, means[i])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(viz.PlotSweep(fmt.Sprintf("mean spread vs %s", sweepName), means, 60, 10))
	return nil
}

func runDivergence(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	f, path, _, err := experiment.Spawn(cfg, experiment.NewRegistry(), []string{"spread"}, cfg.Seed)
	if err != nil {
		return err
	}

	lambda, err := analysis.Divergence(f, path, cfg.Frames, 1e-6)
	if err != nil {
		return err
	}
	fmt.Printf("profile: %s  agents: %d  frames: %d\n", cfg.Profile, cfg.Count, cfg.Frames)
	fmt.Printf("divergence rate: %.5f per frame\n", lambda)
	if lambda > 0 {
		fmt.Println("nearby spawns drift into different formations")
	} else {
		fmt.Println("nearby spawns converge to the same formation")
	}
	return nil
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if len(gridSpecs) == 0 {
		return fmt.Errorf("at least one --grid is required")
	}
	names := make([]string, 0, len(gridSpecs))
	ranges := make([][]float64, 0, len(gridSpecs))
	for _, g := range gridSpecs {
		name, values, err := parseGrid(g)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	ctx, cancel := signalContext()
	defer cancel()

	best, err := optim.NewGridSearch(names, ranges).Search(ctx, cfg, objective, maximize)
	if err != nil {
		return err
	}

	fmt.Printf("%d runs, best %s = %.4f\n\n", best.Runs, objective, best.Value)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARAM\tVALUE")
	for _, name := range sortedKeys(best.Params) {
		fmt.Fprintf(w, "%s\t%.6g\n", name, best.Params[name])
	}
	return w.Flush()
}

// parseGrid reads name=min:max:n.
func parseGrid(arg string) (string, []float64, error) {
	name, rng, ok := strings.Cut(arg, "=")
	parts := strings.Split(rng, ":")
	if !ok || name == "" || len(parts) != 3 {
		return "", nil, fmt.Errorf("invalid grid %q, want name=min:max:n", arg)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return "", nil, fmt.Errorf("grid %s min: %w", name, err)
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", nil, fmt.Errorf("grid %s max: %w", name, err)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n < 1 {
		return "", nil, fmt.Errorf("grid %s needs a positive point count", name)
	}
	return name, optim.Linspace(lo, hi, n), nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("scenario %s: %s\n\n", sc.Name, sc.Description)
	results, err := automation.RunScenario(ctx, sc, experiment.NewRegistry(), st, logger)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tFRAMES\tSURVIVORS\tSCORE\tHEALTH\tRUN")
	for _, r := range results {
		run := r.RunID
		if run == "" {
			run = "-"
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%.1f\t%s\n",
			r.Name, r.Result.FramesRun, len(r.Result.Final.IDs), r.Result.Score, r.Result.Health, run)
	}
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

// centroids returns the mean agent position of each sampled frame, skipping
// frames with no agents left.
func centroids(frames []sim.Frame) []flock.Vec2 {
	out := make([]flock.Vec2, 0, len(frames))
	for _, fr := range frames {
		if len(fr.Positions) == 0 {
			continue
		}
		var sum flock.Vec2
		for _, p := range fr.Positions {
			sum = sum.Add(p)
		}
		out = append(out, sum.Scale(1/float64(len(fr.Positions))))
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
