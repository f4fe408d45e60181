package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/san-kum/motionsim/internal/config"
	"github.com/san-kum/motionsim/internal/dynamo"
	"github.com/san-kum/motionsim/internal/experiment"
	"github.com/san-kum/motionsim/internal/export"
	"github.com/san-kum/motionsim/internal/metrics"
	"github.com/san-kum/motionsim/internal/optim"
	"github.com/san-kum/motionsim/internal/sim"
	"github.com/san-kum/motionsim/internal/spring"
	"github.com/san-kum/motionsim/internal/storage"
	"github.com/san-kum/motionsim/internal/viz"
	"github.com/san-kum/motionsim/internal/vmath"
)

// resolveConfig layers preset, scenario file, positional scenario and flags,
// in that order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	scenario := ""
	if len(args) > 0 {
		scenario = args[0]
	}

	cfg := config.DefaultConfig()
	if preset != "" {
		name := scenario
		if name == "" {
			name = config.DefaultScenario
		}
		p := config.GetPreset(name, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(name))
		}
		cp := *p
		cfg = &cp
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if scenario != "" {
		cfg.Scenario = scenario
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("stop-at-rest") {
		cfg.StopAtRest = stopAtRest
	}
	return cfg, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	log := logger()

	st := storage.New(dataDir())
	if err := st.Init(); err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	exp := experiment.New(cfg, registry, experiment.WithLogger(log))
	if err := exp.Setup(registry.DefaultMetrics(cfg.Scenario)); err != nil {
		return err
	}
	defer exp.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info().Str("scenario", cfg.Scenario).Float64("duration", cfg.Duration).Msg("running")
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	for _, e := range result.Errors {
		log.Warn().Err(e).Msg("run stopped early")
	}

	meta := storage.NewMetadata(cfg.Scenario, exp.SimConfig(), result)
	meta.Preset = preset
	meta.Integrator = cfg.SpringConfig().Integrator
	runID, err := st.Save(meta, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", result.StepsTaken)
	if result.SettledAt >= 0 {
		fmt.Printf("settled at: %.3fs\n", result.SettledAt)
	}
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir())
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tPRESET\tTIME\tDURATION\tFRAMES\tSETTLED")

	for _, run := range runs {
		settled := "-"
		if run.SettledAt >= 0 {
			settled = fmt.Sprintf("%.2fs", run.SettledAt)
		}
		fmt.Fprintf(w, "%s_%s\t%s\t%s\t%s\t%.2fs\t%d\t%s\n",
			run.Scenario, run.ID[:min(8, len(run.ID))],
			run.Scenario,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Steps,
			settled,
		)
	}

	return w.Flush()
}

func loadTracks(runID string) (*storage.RunMetadata, []export.Track, []dynamo.Snapshot, error) {
	st := storage.New(dataDir())
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(frames) == 0 {
		return nil, nil, nil, fmt.Errorf("no data in run %s", runID)
	}
	byID := storage.Tracks(frames)
	ids := meta.Entities
	if len(ids) == 0 {
		for id := range byID {
			ids = append(ids, id)
		}
		sort.Strings(ids)
	}
	tracks := make([]export.Track, 0, len(ids))
	for _, id := range ids {
		if plotEntity != "" && id != plotEntity {
			continue
		}
		tracks = append(tracks, export.Track{ID: id, Points: byID[id]})
	}
	return meta, tracks, frames, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, tracks, frames, err := loadTracks(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("frames: %d\n\n", len(frames))

	const maxPlots = 4
	plotted := 0
	for _, tr := range tracks {
		if plotted == maxPlots {
			break
		}
		xs := make([]float64, len(tr.Points))
		ys := make([]float64, len(tr.Points))
		for i, p := range tr.Points {
			xs[i], ys[i] = p.X, p.Y
		}
		if isFlat(xs) && isFlat(ys) {
			continue
		}
		graph := asciigraph.PlotMany([][]float64{xs, ys},
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Green),
			asciigraph.Caption(tr.ID+": x (blue), y (green)"),
		)
		fmt.Println(graph)
		fmt.Println()
		plotted++
	}

	energy := make([]float64, len(frames))
	for i, f := range frames {
		energy[i] = metrics.FrameEnergy(f, 1)
	}
	fmt.Println(asciigraph.Plot(energy, asciigraph.Height(8), asciigraph.Width(80), asciigraph.Caption("kinetic energy")))
	return nil
}

func isFlat(v []float64) bool {
	for _, x := range v {
		if x != v[0] {
			return false
		}
	}
	return true
}

func listPresets(cmd *cobra.Command, args []string) error {
	registry := experiment.NewRegistry()
	scenarios := registry.ListScenarios()
	if len(args) > 0 {
		if _, err := registry.GetScenario(args[0]); err != nil {
			return err
		}
		scenarios = []string{args[0]}
	}

	rows := make([][]string, 0)
	for _, s := range scenarios {
		rows = append(rows, []string{s, strings.Join(config.ListPresets(s), ", "), registry.Describe(s)})
	}
	fmt.Print(viz.Table([]string{"SCENARIO", "PRESETS", "DESCRIPTION"}, rows))

	if len(args) == 0 || args[0] == "spring" {
		fmt.Println()
		springRows := make([][]string, 0, len(spring.Presets))
		for _, name := range spring.PresetNames() {
			p, _ := spring.Preset(name)
			springRows = append(springRows, []string{name, fmt.Sprintf("%.0f", p.Tension), fmt.Sprintf("%.0f", p.Friction)})
		}
		fmt.Print(viz.Table([]string{"SPRING", "TENSION", "FRICTION"}, springRows))
	}
	return nil
}

// builderFor rebuilds the scenario on every call, disposing the engines of
// the previous build first.
func builderFor(cfg *config.Config, registry *experiment.Registry) viz.Builder {
	var last *experiment.Experiment
	return func() (dynamo.Ticker, sim.Script, error) {
		if last != nil {
			last.Close()
			last = nil
		}
		cp := *cfg
		exp := experiment.New(&cp, registry, experiment.WithLogger(zerolog.Nop()))
		if err := exp.Setup(nil); err != nil {
			return nil, nil, err
		}
		last = exp
		return exp.Ticker(), exp.Script(), nil
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && preset == "" && configFile == "" {
		return viz.RunPicker(pickerEntries())
	}
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	registry := experiment.NewRegistry()
	if _, err := registry.GetScenario(cfg.Scenario); err != nil {
		return err
	}
	return viz.Run(cfg.Scenario, builderFor(cfg, registry))
}

func pickerEntries() []viz.Entry {
	registry := experiment.NewRegistry()
	entries := make([]viz.Entry, 0)
	for _, s := range registry.ListScenarios() {
		names := config.ListPresets(s)
		if len(names) == 0 {
			cfg := config.DefaultConfig()
			cfg.Scenario = s
			entries = append(entries, viz.Entry{Name: s, About: registry.Describe(s), Build: builderFor(cfg, registry)})
			continue
		}
		for _, name := range names {
			entries = append(entries, viz.Entry{
				Name:  s + "/" + name,
				About: registry.Describe(s),
				Build: builderFor(config.GetPreset(s, name), registry),
			})
		}
	}
	return entries
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir())
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	times := make([]float64, len(frames))
	for i, f := range frames {
		times[i] = f.Time
	}
	data := storage.NewExport(*meta, &sim.Result{Frames: frames, Times: times})

	if outPath == "" {
		return storage.ExportJSONStdout(data)
	}
	if err := storage.ExportJSON(outPath, data); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", outPath)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	_, tracks, _, err := loadTracks(runID)
	if err != nil {
		return err
	}
	svg := export.TrajectoryToSVG(tracks, svgWidth, svgHeight)
	if svg == "" {
		return fmt.Errorf("run %s has no trajectory to draw", runID)
	}
	path := outPath
	if path == "" {
		path = runID + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", path)
	return nil
}

// parseGrid reads "lo:hi:n".
func parseGrid(s string) ([]float64, error) {
	parts := strings.Split(s, ":")
	if len(parts) == 1 {
		v, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, fmt.Errorf("grid %q: %w", s, err)
		}
		return []float64{v}, nil
	}
	if len(parts) != 3 {
		return nil, fmt.Errorf("grid %q: want lo:hi:n", s)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return nil, fmt.Errorf("grid %q: %w", s, err)
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return nil, fmt.Errorf("grid %q: %w", s, err)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n < 1 {
		return nil, fmt.Errorf("grid %q: bad count", s)
	}
	return optim.Linspace(lo, hi, n), nil
}

func tuneSpring(cmd *cobra.Command, args []string) error {
	tensions, err := parseGrid(tension)
	if err != nil {
		return err
	}
	frictions, err := parseGrid(friction)
	if err != nil {
		return err
	}

	target := vmath.V2(tuneTarget, 0)
	registry := experiment.NewRegistry()
	build := func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := config.DefaultConfig()
		cfg.Duration = 5
		cfg.Init.Target = target
		t, f := params["tension"], params["friction"]
		cfg.Spring = spring.Overrides{Tension: &t, Friction: &f}

		exp := experiment.New(cfg, registry)
		ms := []dynamo.Metric{metrics.NewSettleTime(), metrics.NewOvershoot("spring", target)}
		if err := exp.Setup(ms); err != nil {
			return nil, err
		}
		return exp, nil
	}

	log := logger()
	log.Info().Int("points", len(tensions)*len(frictions)).Str("metric", tuneMetric).Msg("tuning")

	g := optim.NewGridSearch([]string{"tension", "friction"}, [][]float64{tensions, frictions})
	trials, err := g.Search(cmd.Context(), build, optim.MetricObjective(tuneMetric))
	if err != nil {
		return err
	}

	rows := make([][]string, 0, 5)
	for i, tr := range trials {
		if i == 5 {
			break
		}
		rows = append(rows, []string{
			fmt.Sprintf("%.1f", tr.Params["tension"]),
			fmt.Sprintf("%.1f", tr.Params["friction"]),
			fmt.Sprintf("%.4f", tr.Score),
		})
	}
	fmt.Print(viz.Table([]string{"TENSION", "FRICTION", strings.ToUpper(tuneMetric)}, rows))
	return nil
}
