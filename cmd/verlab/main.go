package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/mkoval/verlab/internal/analysis"
	"github.com/mkoval/verlab/internal/config"
	"github.com/mkoval/verlab/internal/engine"
	"github.com/mkoval/verlab/internal/experiment"
	"github.com/mkoval/verlab/internal/export"
	"github.com/mkoval/verlab/internal/metrics"
	"github.com/mkoval/verlab/internal/sim"
	"github.com/mkoval/verlab/internal/storage"
	"github.com/mkoval/verlab/internal/viz"
)

var (
	dataDir      string
	dt           float64
	duration     float64
	substeps     int
	gravity      float64
	friction     float64
	bounce       float64
	maxParticles int
	interval     float64
	configFile   string
	preset       string
	particleIdx  int
	frameIdx     int
	svgOut       string
	svgScale     float64
	trajectory   int
	sweepParam   string
	sweepLo      float64
	sweepHi      float64
	sweepSteps   int
	sweepMetric  string
)

// main registers commands and flags and runs the root command. With
// no subcommand the live sandbox opens on the default scene.
func main() {
	rootCmd := &cobra.Command{
		Use:   "verlab",
		Short: "verlet particle sandbox",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLive(cmd, args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".verlab", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store the result",
		RunE:  runSimulation,
	}
	addSceneFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "bounce frequency analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&particleIdx, "particle", 0, "particle id to analyze")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run frames to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render a stored frame to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  renderSVG,
	}
	svgCmd.Flags().StringVar(&svgOut, "out", "frame.svg", "output file")
	svgCmd.Flags().IntVar(&frameIdx, "frame", -1, "frame index (-1 for last)")
	svgCmd.Flags().Float64Var(&svgScale, "scale", 20, "pixels per simulation unit")
	svgCmd.Flags().IntVar(&trajectory, "trajectory", -1, "trace this particle index instead of drawing a frame")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep a solver parameter and compare metrics",
		RunE:  runSweep,
	}
	addSceneFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "bounce", "parameter to sweep (gravity, friction, bounce)")
	sweepCmd.Flags().Float64Var(&sweepLo, "from", 0.5, "first value")
	sweepCmd.Flags().Float64Var(&sweepHi, "to", 1.0, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 6, "number of values")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "kinetic", "metric to minimize")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the solver",
		RunE:  benchSolver,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with live terminal visualization",
		RunE:  runLive,
	}
	addSceneFlags(liveCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list scene presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, analyzeCmd, exportCmd, exportCSVCmd, exportJSONCmd, svgCmd, sweepCmd, benchCmd, liveCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSceneFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "frame timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().IntVar(&substeps, "substeps", engine.DefaultSubsteps, "substeps per frame")
	cmd.Flags().Float64Var(&gravity, "gravity", engine.DefaultGravity, "gravity acceleration")
	cmd.Flags().Float64Var(&friction, "friction", engine.DefaultFriction, "velocity damping per substep")
	cmd.Flags().Float64Var(&bounce, "bounce", engine.DefaultBounce, "wall restitution")
	cmd.Flags().IntVar(&maxParticles, "max-particles", 0, "particle cap (0 = unbounded)")
	cmd.Flags().Float64Var(&interval, "interval", config.DefaultInterval, "spawn interval in seconds")
	cmd.Flags().StringVar(&configFile, "config", "", "scene config file (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "scene preset name")
}

// buildConfig resolves preset, config file and flags in that order of
// increasing precedence, matching how changed flags win.
func buildConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cfg := config.DefaultConfig()
	scene := "default"

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
		scene = preset
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		scene = "custom"
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("substeps") {
		cfg.Substeps = substeps
	}
	if cmd.Flags().Changed("gravity") {
		cfg.Gravity = gravity
	}
	if cmd.Flags().Changed("friction") {
		cfg.Friction = friction
	}
	if cmd.Flags().Changed("bounce") {
		cfg.Bounce = bounce
	}
	if cmd.Flags().Changed("max-particles") {
		cfg.MaxParticles = maxParticles
	}
	if cmd.Flags().Changed("interval") {
		cfg.Spawn.Interval = interval
	}

	return cfg, scene, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, scene, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	bounds := cfg.EngineBounds()
	runner := sim.New(cfg.Solver(), bounds)
	if e := cfg.Emitter(); e != nil {
		runner.SetEmitter(e)
	}
	runner.AddMetric(metrics.NewKinetic())
	runner.AddMetric(metrics.NewPenetration())
	runner.AddMetric(metrics.NewContainment(bounds))

	runCfg := sim.Config{
		Dt:            cfg.Dt,
		Duration:      cfg.Duration,
		MaxParticles:  cfg.MaxParticles,
		ValidateState: true,
	}

	fmt.Printf("running %s scene...\n", scene)
	start := time.Now()

	result, err := runner.Run(context.Background(), cfg.InitialParticles(), runCfg)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(scene, cfg.Dt, cfg.Duration, cfg.Substeps, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", len(result.Frames))
	for _, e := range result.Errors {
		fmt.Printf("warning: %v\n", e)
	}
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
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
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tDURATION\tDT\tSUBSTEPS\tPARTICLES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%d\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Substeps,
			run.Particles,
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

	frames, _, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("frames: %d\n\n", len(frames))

	count := make([]float64, len(frames))
	meanY := make([]float64, len(frames))
	minY := make([]float64, len(frames))

	for i, frame := range frames {
		count[i] = float64(len(frame))
		if len(frame) == 0 {
			continue
		}
		low := frame[0].Y
		sum := 0.0
		for _, p := range frame {
			sum += p.Y
			if p.Y < low {
				low = p.Y
			}
		}
		meanY[i] = sum / float64(len(frame))
		minY[i] = low
	}

	series := []struct {
		data    []float64
		caption string
	}{
		{count, "particle count"},
		{meanY, "mean height"},
		{minY, "lowest particle"},
	}

	for _, s := range series {
		graph := asciigraph.Plot(s.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
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

	frames, _, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	// track by stored id, not slot, so spawning cannot shift the trace
	// onto a different particle mid-run
	trace := make([]float64, 0, len(frames))
	for _, frame := range frames {
		for _, p := range frame {
			if p.ID == particleIdx {
				trace = append(trace, p.Y)
				break
			}
		}
	}
	if len(trace) < 4 {
		return fmt.Errorf("not enough samples for particle %d", particleIdx)
	}

	fmt.Printf("bounce analysis: %s\n", meta.ID)
	fmt.Printf("particle: %d\n\n", particleIdx)

	// de-mean for display, same as the frequency estimator does
	mean := 0.0
	for _, v := range trace {
		mean += v
	}
	mean /= float64(len(trace))
	centered := make([]float64, len(trace))
	for i, v := range trace {
		centered[i] = v - mean
	}

	ps := analysis.PowerSpectrum(centered)
	plotData := ps
	if len(ps) >= 8 {
		// bounce frequencies live well below nyquist, trim the graph
		plotData = ps[:len(ps)/4]
	}

	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum (particle %d height)", particleIdx)),
	)
	fmt.Println(graph)
	fmt.Println()

	sampleSpan := meta.Dt * float64(len(trace))
	freq, power := analysis.DominantFrequency(trace, sampleSpan)
	if freq == 0 {
		fmt.Println("no dominant frequency (flat trace)")
		return nil
	}

	fmt.Printf("dominant frequency: %.3f hz (power %.2f)\n", freq, power)
	fmt.Printf("period: %.3f s\n", 1.0/freq)

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	return storage.ExportJSONStdout(meta.ID, meta.Scene, meta.Dt, meta.Duration, nil, nil, meta.Metrics)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	frames, times, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}

	if len(frames) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	for i, frame := range frames {
		row := []string{
			strconv.FormatFloat(times[i], 'f', 6, 64),
			strconv.Itoa(len(frame)),
		}
		for _, p := range frame {
			row = append(row,
				strconv.Itoa(p.ID),
				strconv.FormatFloat(p.X, 'f', 6, 64),
				strconv.FormatFloat(p.Y, 'f', 6, 64),
				strconv.FormatFloat(p.Radius, 'f', 6, 64),
			)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	frames, times, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}

	return storage.ExportJSONStdout(meta.ID, meta.Scene, meta.Dt, meta.Duration, frames, times, meta.Metrics)
}

func renderSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	frames, _, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}

	if len(frames) == 0 {
		return fmt.Errorf("no frames in run")
	}

	// frame extents are not stored; reconstruct a bounding box large
	// enough for every frame
	bounds := frameBounds(frames)

	var doc string
	if trajectory >= 0 {
		doc = export.TrajectoryToSVG(frames, trajectory, bounds, svgScale)
	} else {
		idx := frameIdx
		if idx < 0 || idx >= len(frames) {
			idx = len(frames) - 1
		}
		doc = export.FrameToSVG(frames[idx], bounds, svgScale)
	}

	if err := os.WriteFile(svgOut, []byte(doc), 0644); err != nil {
		return err
	}

	fmt.Printf("wrote %s\n", svgOut)
	return nil
}

func frameBounds(frames []sim.Frame) engine.Bounds {
	b := engine.NewBounds(0, 0, 1, 1)
	first := true
	for _, frame := range frames {
		for _, p := range frame {
			if first {
				b = engine.NewBounds(p.X-p.Radius, p.Y-p.Radius, p.X+p.Radius, p.Y+p.Radius)
				first = false
				continue
			}
			if p.X-p.Radius < b.MinX {
				b.MinX = p.X - p.Radius
			}
			if p.X+p.Radius > b.MaxX {
				b.MaxX = p.X + p.Radius
			}
			if p.Y-p.Radius < b.MinY {
				b.MinY = p.Y - p.Radius
			}
			if p.Y+p.Radius > b.MaxY {
				b.MaxY = p.Y + p.Radius
			}
		}
	}
	return b
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, scene, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	sweep := experiment.Range(sweepParam, sweepLo, sweepHi, sweepSteps)

	fmt.Printf("sweeping %s over %s scene (%d runs)...\n\n", sweepParam, scene, len(sweep.Values))

	points, err := sweep.Run(context.Background(), cfg)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tKINETIC\tMAX_PENETRATION\tVIOLATIONS\n", sweepParam)
	series := make([]float64, 0, len(points))
	for _, pt := range points {
		if pt.Err != nil {
			fmt.Fprintf(w, "%.4f\terror: %v\t\t\n", pt.Value, pt.Err)
			continue
		}
		fmt.Fprintf(w, "%.4f\t%.6f\t%.6f\t%.0f\n",
			pt.Value,
			pt.Metrics["kinetic"],
			pt.Metrics["max_penetration"],
			pt.Metrics["containment_violations"],
		)
		series = append(series, pt.Metrics[sweepMetric])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(series) > 1 {
		fmt.Println()
		graph := asciigraph.Plot(series,
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption(fmt.Sprintf("%s vs %s", sweepMetric, sweepParam)),
		)
		fmt.Println(graph)
	}

	best, err := experiment.Best(points, sweepMetric)
	if err != nil {
		return err
	}
	fmt.Printf("\nbest %s: %.4f (%s %.6f)\n", sweepParam, best.Value, sweepMetric, best.Metrics[sweepMetric])

	return nil
}

func benchSolver(cmd *cobra.Command, args []string) error {
	counts := []int{10, 50, 100, 200}
	durations := []float64{1.0, 5.0}

	fmt.Println("benchmarking solver")
	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tDURATION\tFRAMES\tTIME\tFRAMES/SEC")

	for _, n := range counts {
		for _, dur := range durations {
			solver := engine.NewSolver()
			bounds := engine.NewBounds(0, 0, 50, 50)

			ps := make([]*engine.Particle, n)
			for i := range ps {
				ps[i] = engine.New(i, float64(i%20)*2.4+1, float64(i/20)*2.4+5, 0.05, 0)
			}

			frameDt := 1.0 / 60
			frames := int(dur / frameDt)

			start := time.Now()
			for f := 0; f < frames; f++ {
				solver.Step(ps, bounds, frameDt)
			}
			elapsed := time.Since(start)

			fps := float64(frames) / elapsed.Seconds()
			fmt.Fprintf(w, "%d\t%.1fs\t%d\t%v\t%.0f\n", n, dur, frames, elapsed, fps)
		}
	}

	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, _, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewModel(cfg))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
