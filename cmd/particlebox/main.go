package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/particlebox/internal/analysis"
	"github.com/san-kum/particlebox/internal/automation"
	"github.com/san-kum/particlebox/internal/config"
	"github.com/san-kum/particlebox/internal/export"
	"github.com/san-kum/particlebox/internal/logging"
	"github.com/san-kum/particlebox/internal/metrics"
	"github.com/san-kum/particlebox/internal/optim"
	"github.com/san-kum/particlebox/internal/sim"
	"github.com/san-kum/particlebox/internal/storage"
	"github.com/san-kum/particlebox/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	logLevel   string
	logFormat  string
	configFile string
	overrides  []string
	frames     int
	seed       int64
	width      float64
	height     float64
	noSave     bool
	outPath    string
	column     string
	gifPath    string
	themeName  string
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	trials     int
	gridSpecs  []string
	metricName string
	maximize   bool

	log *slog.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "particlebox",
		Short:         "balls bouncing inside rotating containers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(viz.LiveOptions{Width: width, Height: height, Theme: themeName}, seed, log)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".particlebox", "data directory")
	pf.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); defaults to $"+logging.EnvLevel)
	pf.StringVar(&logFormat, "log-format", string(logging.FormatText), "log format (text, json)")
	pf.Int64Var(&seed, "seed", 0, "spawn seed (0 uses the clock)")
	pf.Float64Var(&width, "width", config.DefaultWidth, "canvas width in pixels")
	pf.Float64Var(&height, "height", config.DefaultHeight, "canvas height in pixels")
	pf.StringVar(&themeName, "theme", "tags", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	cardFlags := func(cmd *cobra.Command) {
		cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
		cmd.Flags().StringArrayVar(&overrides, "set", nil, "override a card parameter, name=value (repeatable)")
	}

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run one card headlessly and save the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	cardFlags(runCmd)
	runCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames to simulate")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	liveCmd := &cobra.Command{
		Use:   "live [preset...]",
		Short: "watch one or more cards in the terminal",
		RunE:  runLive,
	}
	cardFlags(liveCmd)
	liveCmd.Flags().StringVar(&gifPath, "gif", "particlebox.gif", "where G-key recordings are written")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a frame series of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&column, "column", "kinetic_energy", "frames.csv column to plot")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "power spectrum of a frame series",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&column, "column", "kinetic_energy", "frames.csv column to analyze")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "dump a saved run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (stdout when empty)")

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "draw the final state of a saved run, or a series with --column",
		Args:  cobra.ExactArgs(1),
		RunE:  svgRun,
	}
	svgCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (stdout when empty)")
	svgCmd.Flags().StringVar(&column, "column", "", "plot this frames.csv column instead of the bodies")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list stock cards",
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [preset]",
		Short: "time frames per second across body counts",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchCard,
	}
	benchCmd.Flags().IntVar(&frames, "frames", 300, "frames per measurement")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario of steps",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "sweep one card parameter and report kinetic energy",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	cardFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "gravity", "parameter to sweep ("+strings.Join(config.ParamNames(), ", ")+")")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames per value")

	mcCmd := &cobra.Command{
		Use:   "montecarlo [preset]",
		Short: "re-run a card from many seeds and count unstable runs",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonteCarlo,
	}
	cardFlags(mcCmd)
	mcCmd.Flags().IntVar(&trials, "trials", 20, "number of seeds")
	mcCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames per trial")

	tuneCmd := &cobra.Command{
		Use:   "tune [preset]",
		Short: "grid-search card parameters against a run metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTune,
	}
	cardFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&gridSpecs, "grid", nil, "parameter values to try, name=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&metricName, "metric", "overlaps", "metric to minimize (energy, energy_drift, momentum, stability, overlaps)")
	tuneCmd.Flags().BoolVar(&maximize, "maximize", false, "maximize the metric instead")
	tuneCmd.Flags().IntVar(&frames, "frames", 300, "frames per candidate")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, analyzeCmd, exportCmd, svgCmd,
		presetsCmd, benchCmd, scenarioCmd, sweepCmd, mcCmd, tuneCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func setupLogging() error {
	level := logging.LevelFromEnv()
	if logLevel != "" {
		l, ok := logging.ParseLevel(logLevel)
		if !ok {
			return fmt.Errorf("unknown log level %q", logLevel)
		}
		level = l
	}
	log = logging.New(os.Stderr, logging.Format(logFormat), level)
	return nil
}

// loadFile builds the run configuration: the config file or defaults, cards
// replaced by named presets when given, then --set overrides on every card.
// Global flags override file values only when set explicitly.
func loadFile(cmd *cobra.Command, presets []string) (*config.File, error) {
	f := config.DefaultFile()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		f = loaded
	}

	if len(presets) > 0 {
		f.Cards = f.Cards[:0]
		for _, name := range presets {
			card, err := config.GetPreset(name)
			if err != nil {
				return nil, err
			}
			f.Cards = append(f.Cards, card)
		}
	}

	for i := range f.Cards {
		if err := f.Cards[i].ApplyOverrides(overrides); err != nil {
			return nil, err
		}
		if err := f.Cards[i].Validate(); err != nil {
			return nil, fmt.Errorf("card %s: %w", f.Cards[i].Name, err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("frames") || f.Frames <= 0 {
		f.Frames = frames
	}
	if flags.Changed("seed") {
		f.Seed = seed
	}
	if flags.Changed("width") || f.Width <= 0 {
		f.Width = width
	}
	if flags.Changed("height") || f.Height <= 0 {
		f.Height = height
	}
	if f.Seed == 0 {
		f.Seed = time.Now().UnixNano()
	}
	return f, nil
}

func interruptible() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	f, err := loadFile(cmd, args)
	if err != nil {
		return err
	}
	card := f.Cards[0]

	s := sim.New(sim.WithSeed(f.Seed), sim.WithLogger(log))
	if err := s.Initialize(card, f.Width, f.Height); err != nil {
		return err
	}
	for _, m := range metrics.Standard(s.Model()) {
		s.AddMetric(m)
	}

	ctx, cancel := interruptible()
	defer cancel()

	log.Info("running", "card", card.Name, "model", s.Model().Kind(), "frames", f.Frames, "seed", f.Seed)
	start := time.Now()
	result, err := s.Run(ctx, sim.RunConfig{Frames: f.Frames, Width: f.Width, Height: f.Height, Global: f.Global})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("card: %s (%s)\n", card.Name, s.Model().Kind())
	fmt.Printf("bodies: %d outer, %d inner", result.Spawn.Outer, result.Spawn.Inner)
	if result.Spawn.Overlapping > 0 {
		fmt.Printf(" (%d placed overlapping)", result.Spawn.Overlapping)
	}
	fmt.Printf("\nframes: %d in %v\n\n", result.FramesTaken, elapsed.Round(time.Millisecond))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	for _, m := range metrics.Standard(s.Model()) {
		fmt.Fprintf(w, "%s\t%.4f\n", m.Name(), result.Metrics[m.Name()])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if noSave {
		return nil
	}
	store := storage.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}
	id, err := store.Save(storage.RunInfo{Card: card, Global: f.Global, Seed: f.Seed, Width: f.Width, Height: f.Height}, result)
	if err != nil {
		return err
	}
	fmt.Printf("\nsaved: %s\n", id)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	f, err := loadFile(cmd, args)
	if err != nil {
		return err
	}
	grid, err := sim.NewGrid(f.Cards, f.Width, f.Height, f.Seed, log)
	if err != nil {
		return err
	}
	if err := grid.SetGlobal(f.Global); err != nil {
		return err
	}
	return viz.RunLive(grid, viz.LiveOptions{Width: f.Width, Height: f.Height, GIFPath: gifPath, Theme: themeName})
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCARD\tMODEL\tSHAPE\tTIME\tFRAMES\tBODIES\tCLAMPED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			run.ID,
			run.Card,
			run.Model,
			run.Shape,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Bodies,
			run.Clamped,
		)
	}
	return w.Flush()
}

func loadSeries(runID string) (*storage.RunMetadata, []float64, error) {
	store := storage.New(dataDir)
	meta, err := store.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	samples, err := store.LoadFrames(runID)
	if err != nil {
		return nil, nil, err
	}
	series, err := storage.Series(samples, column)
	if err != nil {
		return nil, nil, err
	}
	if len(series) == 0 {
		return nil, nil, fmt.Errorf("run %s has no frames", runID)
	}
	return meta, series, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, series, err := loadSeries(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("card: %s (%s)\n", meta.Card, meta.Model)
	fmt.Printf("frames: %d\n\n", len(series))

	graph := asciigraph.Plot(series,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(column+" vs frame"),
	)
	fmt.Println(graph)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, series, err := loadSeries(args[0])
	if err != nil {
		return err
	}
	ps := analysis.Spectrum(series)
	if len(ps) < 4 {
		return fmt.Errorf("run %s is too short to analyze", meta.ID)
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("card: %s (%s)\n\n", meta.Card, meta.Model)

	graph := asciigraph.Plot(ps[:len(ps)/2],
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum ("+column+")"),
	)
	fmt.Println(graph)
	fmt.Println()

	period, power := analysis.DominantPeriod(ps, len(series))
	if period == 0 {
		fmt.Println("no dominant frequency")
		return nil
	}
	fmt.Printf("dominant period: %.1f frames (%.3f cycles/frame, power %.3g)\n", period, 1/period, power)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	if outPath == "" {
		return store.Export(args[0], os.Stdout)
	}
	if err := store.ExportFile(args[0], outPath); err != nil {
		return err
	}
	fmt.Printf("exported %s to %s\n", args[0], outPath)
	return nil
}

func svgRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	var svg string

	if column != "" {
		_, series, err := loadSeries(runID)
		if err != nil {
			return err
		}
		svg = export.SeriesToSVG(series, 800, 300, "#22d3ee")
	} else {
		store := storage.New(dataDir)
		cfg, err := store.LoadConfig(runID)
		if err != nil {
			return err
		}
		st, err := store.LoadState(runID)
		if err != nil {
			return err
		}
		svg = export.StateToSVG(*st, cfg.Cards[0], cfg.Width, cfg.Height)
	}

	if outPath == "" {
		fmt.Println(svg)
		return nil
	}
	return os.WriteFile(outPath, []byte(svg), 0644)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMODEL\tSHAPE\tBALLS\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		p := config.Presets[name]
		balls := fmt.Sprintf("%d", p.BallCount)
		if n := p.InnerBallCount(); n > 0 {
			balls = fmt.Sprintf("%d+%d", p.BallCount, n)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", name, p.Model, p.Shape, balls, p.Description)
	}
	return w.Flush()
}

func benchCard(cmd *cobra.Command, args []string) error {
	name := "box-spin"
	if len(args) == 1 {
		name = args[0]
	}
	base, err := config.GetPreset(name)
	if err != nil {
		return err
	}

	fmt.Printf("benchmarking %s\n\n", name)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODIES\tFRAMES\tTIME\tFRAMES/SEC\tCONTACTS/FRAME")

	for _, n := range []int{10, 50, 100, 200} {
		card := base.Clone()
		card.BallCount = n

		s := sim.New(sim.WithSeed(42))
		if err := s.Initialize(card, width, height); err != nil {
			return err
		}
		global := config.DefaultGlobal()

		contacts := 0
		start := time.Now()
		for i := 0; i < frames; i++ {
			contacts += s.Tick(global, width, height).Contacts
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\t%.1f\n",
			len(s.State().Bodies), frames, elapsed.Round(time.Microsecond),
			float64(frames)/elapsed.Seconds(), float64(contacts)/float64(frames))
	}
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	store := storage.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}

	ctx, cancel := interruptible()
	defer cancel()

	results, err := automation.RunScenario(ctx, sc, store, log)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tCARD\tFRAMES\tENERGY\tCLAMPED\tRUN")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%d\t%.3f\t%d\t%s\n",
			i+1, r.Card.Name, r.Result.FramesTaken, r.Result.Metrics["energy"], r.Result.Clamped, r.RunID)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	f, err := loadFile(cmd, args)
	if err != nil {
		return err
	}
	ctx, cancel := interruptible()
	defer cancel()

	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Card:      f.Cards[0],
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
		Frames:    f.Frames,
		Width:     f.Width,
		Height:    f.Height,
		Seed:      f.Seed,
	}, log)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tMEAN KE\tMIN KE\tMAX KE\tCLAMPED\n", strings.ToUpper(sweepParam))
	means := make([]float64, len(results))
	for i, r := range results {
		fmt.Fprintf(w, "%.4g\t%.3f\t%.3f\t%.3f\t%d\n", r.ParamValue, r.MeanEnergy, r.MinEnergy, r.MaxEnergy, r.Clamped)
		means[i] = r.MeanEnergy
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(asciigraph.Plot(means, asciigraph.Height(8), asciigraph.Caption("mean kinetic energy vs "+sweepParam)))
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	f, err := loadFile(cmd, args)
	if err != nil {
		return err
	}
	ctx, cancel := interruptible()
	defer cancel()

	results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Card:      f.Cards[0],
		NumTrials: trials,
		Frames:    f.Frames,
		Width:     f.Width,
		Height:    f.Height,
		Seed:      f.Seed,
	}, log)
	if err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	worst := 0
	for _, r := range results {
		worst = max(worst, r.Overlaps)
	}
	fmt.Printf("card: %s\n", f.Cards[0].Name)
	fmt.Printf("trials: %d (seeds %d..%d)\n", len(results), f.Seed, f.Seed+int64(len(results))-1)
	fmt.Printf("stable: %d  unstable: %d\n", stable, unstable)
	fmt.Printf("worst final overlap count: %d\n", worst)
	return nil
}

// parseGrid turns name=v1,v2 specs into parallel name and value lists.
func parseGrid(specs []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(specs))
	ranges := make([][]float64, 0, len(specs))
	for _, entry := range specs {
		name, raw, ok := strings.Cut(entry, "=")
		if !ok || raw == "" {
			return nil, nil, fmt.Errorf("grid %q is not name=v1,v2,...", entry)
		}
		var values []float64
		for _, field := range strings.Split(raw, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("grid %q: %w", entry, err)
			}
			values = append(values, v)
		}
		names = append(names, strings.TrimSpace(name))
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func runTune(cmd *cobra.Command, args []string) error {
	f, err := loadFile(cmd, args)
	if err != nil {
		return err
	}
	names, ranges, err := parseGrid(gridSpecs)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("tune needs at least one --grid")
	}

	ctx, cancel := interruptible()
	defer cancel()

	objective := optim.MetricObjective(f.Frames, f.Width, f.Height, f.Seed, metricName, maximize)
	best, score, err := optim.NewGridSearch(names, ranges).Search(ctx, f.Cards[0], objective)
	if err != nil {
		return err
	}
	if maximize {
		score = -score
	}

	fmt.Printf("card: %s\n", f.Cards[0].Name)
	fmt.Printf("best %s: %.4f\n", metricName, score)
	for _, name := range names {
		fmt.Printf("  %s = %g\n", name, best[name])
	}
	return nil
}
