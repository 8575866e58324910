package main

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dataset"
	"github.com/san-kum/gravsim/internal/evaluate"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/export"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/san-kum/gravsim/internal/viz"
)

// resolveConfig layers defaults, preset, config file and explicitly set
// flags, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		m, name, ok := strings.Cut(preset, "/")
		if !ok {
			return nil, fmt.Errorf("preset must be matter/name, got %q", preset)
		}
		p := config.GetPreset(m, name)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available for %s: %v)", preset, m, config.ListPresets(m))
		}
		c := *p
		cfg = &c
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	f := cmd.Flags()
	if f.Changed("n") {
		cfg.Grid.N = gridN
	}
	if f.Changed("length") {
		cfg.Grid.L = gridL
	}
	if f.Changed("matter") {
		cfg.Matter.Preset = matter
	}
	if f.Changed("density") {
		cfg.Matter.Density = density
	}
	if f.Changed("w") {
		cfg.Matter.W = eos
	}
	if f.Changed("sigma") {
		cfg.Matter.Sigma = sigma
	}
	if f.Changed("omega") {
		cfg.Matter.Omega = omega
	}
	if f.Changed("radius") {
		cfg.Matter.Radius = radius
	}
	if f.Changed("width") {
		cfg.Matter.Width = width
	}
	if f.Changed("workers") {
		cfg.Workers = workers
	}
	if f.Changed("relax") {
		cfg.Relax = relax
	}
	if f.Changed("no-scan") {
		cfg.Scan.Enabled = !noScan
	}
	if f.Changed("threshold") {
		cfg.Scan.Threshold = threshold
	}
	if f.Changed("trajectory") {
		cfg.Trajectory.Enabled = withTraj
	}
	if err := applyTrajectoryFlags(cmd, cfg); err != nil {
		return nil, err
	}
	if configFile != "" && cfg.DataDir != "" && !f.Changed("data") {
		dataDir = cfg.DataDir
	}

	return cfg, cfg.Validate()
}

func applyTrajectoryFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	if f.Changed("pos") {
		v, err := vec3("pos", position)
		if err != nil {
			return err
		}
		cfg.Trajectory.Position = v
	}
	if f.Changed("vel") {
		v, err := vec3("vel", velocity)
		if err != nil {
			return err
		}
		cfg.Trajectory.Velocity = v
	}
	if f.Changed("t0") {
		cfg.Trajectory.T0 = t0
	}
	if f.Changed("tf") {
		cfg.Trajectory.Tf = tf
	}
	if f.Changed("steps") {
		cfg.Trajectory.Steps = steps
	}
	if f.Changed("integrator") {
		cfg.Trajectory.Integrator = integrator
	}
	if f.Changed("rtol") {
		cfg.Trajectory.Rtol = rtol
	}
	if f.Changed("atol") {
		cfg.Trajectory.Atol = atol
	}
	return nil
}

func vec3(name string, v []float64) ([3]float64, error) {
	if len(v) != 3 {
		return [3]float64{}, fmt.Errorf("--%s needs 3 components, got %d", name, len(v))
	}
	return [3]float64{v[0], v[1], v[2]}, nil
}

func openStore(cmd *cobra.Command) (*storage.Store, error) {
	st := storage.New(dataDir)
	if err := st.Init(cmd.Context()); err != nil {
		return nil, err
	}
	return st, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	driver, err := experiment.New(cfg.Experiment())
	if err != nil {
		return err
	}
	m, err := experiment.NewRegistry().GetMatter(cfg.Matter.Preset, driver.Grid(), cfg.MatterParams())
	if err != nil {
		return err
	}

	fmt.Printf("%s %s on %s\n", viz.Title.Render("running"), cfg.Matter.Preset, driver.Grid())
	start := time.Now()
	res, err := driver.Run(ctx, m)
	if err != nil {
		return err
	}

	runID, err := st.Save(ctx, cfg.Matter.Preset, cfg.Experiment(), res)
	if err != nil {
		return err
	}
	fmt.Println(viz.KeyValue("run", runID))
	fmt.Println(viz.KeyValue("mass", fmt.Sprintf("%.6g", m.TotalMass())))
	fmt.Println(viz.KeyValue("max |G|", fmt.Sprintf("%.6g", maxOf(res.Gravity.Norm().Data()))))
	if verbose {
		printTimings(res.Timings)
	}

	if cfg.Scan.Enabled {
		holes := analysis.ScanCurvature(res.Metric, cfg.ScanOptions())
		if err := st.SaveBlackHoles(ctx, runID, holes); err != nil {
			return err
		}
		printBlackHoles(holes)
	}

	if cfg.Trajectory.Enabled {
		traj, err := analysis.IntegrateTrajectory(ctx, res.Gravity, cfg.Trajectory.Position, cfg.Trajectory.Velocity, cfg.TrajectoryOptions())
		if err != nil {
			return err
		}
		if err := st.SaveTrajectory(ctx, runID, traj); err != nil {
			return err
		}
		printTrajectory(traj)
	}

	fmt.Println(viz.Subtle.Render(fmt.Sprintf("done in %v", time.Since(start).Round(time.Millisecond))))
	return nil
}

func runTrajectory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	runID := args[0]
	cfg := config.DefaultConfig()
	if err := applyTrajectoryFlags(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	grav, err := st.LoadGravity(runID)
	if err != nil {
		return err
	}

	start := time.Now()
	traj, err := analysis.IntegrateTrajectory(ctx, grav, cfg.Trajectory.Position, cfg.Trajectory.Velocity, cfg.TrajectoryOptions())
	if err != nil {
		return err
	}
	if verbose {
		printTimings(map[string]time.Duration{"trajectory": time.Since(start)})
	}
	if err := st.SaveTrajectory(ctx, runID, traj); err != nil {
		return err
	}
	printTrajectory(traj)
	fmt.Println(viz.PlotTrajectory(traj))
	return nil
}

func scanRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	runID := args[0]

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	metric, err := st.LoadMetric(runID)
	if err != nil {
		return err
	}

	start := time.Now()
	holes := analysis.ScanCurvature(metric, analysis.ScanConfig{Threshold: threshold, Workers: workers})
	if verbose {
		printTimings(map[string]time.Duration{"scan": time.Since(start)})
	}
	if err := st.SaveBlackHoles(ctx, runID, holes); err != nil {
		return err
	}
	printBlackHoles(holes)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	rows := make([][]string, len(runs))
	for i, r := range runs {
		traj := "-"
		if r.HasTrajectory {
			traj = "yes"
		}
		rows[i] = []string{
			r.ID,
			r.Matter,
			fmt.Sprintf("%d", r.N),
			fmt.Sprintf("%g", r.L),
			fmt.Sprintf("%d", r.BlackHoles),
			traj,
			r.Timestamp.Local().Format("2006-01-02 15:04:05"),
		}
	}
	fmt.Println(viz.Table([]string{"id", "matter", "n", "L", "black holes", "trajectory", "time"}, rows))
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	grav, err := st.LoadGravity(runID)
	if err != nil {
		return err
	}
	g := grav.Grid()
	mag := grav.Norm()
	profile := make([]float64, g.N())
	for i := range profile {
		profile[i] = mag.At(i, g.N()/2, g.N()/2)
	}
	fmt.Println(viz.PlotSeries(profile, "|G| along x through the grid center"))
	fmt.Println()

	traj, err := st.LoadTrajectory(runID)
	if errors.Is(err, fs.ErrNotExist) {
		fmt.Println(viz.Subtle.Render("no trajectory stored; run `gravsim trajectory " + runID + "`"))
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Println(viz.PlotTrajectory(traj))
	fmt.Println()

	proj := analysis.Project(traj, xAxis, yAxis)
	if proj == nil {
		return fmt.Errorf("projection axes must be in 0..2, got %d and %d", xAxis, yAxis)
	}
	axes := "xyz"
	fmt.Println(viz.HeaderStyle.Render(fmt.Sprintf("%c-%c projection", axes[xAxis], axes[yAxis])))
	fmt.Print(analysis.ProjectionToASCII(proj, 60, 20))
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	runID := args[0]
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if traj.Len() < 2 {
		return fmt.Errorf("trajectory of run %s has %d points, need at least 2", runID, traj.Len())
	}
	dt := traj.Times[1] - traj.Times[0]

	for axis, name := range []string{"x", "y", "z"} {
		spec := analysis.PowerSpectrum(traj.Axis(axis), dt)
		freq, power := spec.Dominant()
		fmt.Printf("%s  %s  %s\n", viz.MetricLabel.Render(name),
			viz.KeyValue("dominant", fmt.Sprintf("%.4g Hz", freq)),
			viz.KeyValue("power", fmt.Sprintf("%.4g", power)))
		if axis == 0 {
			fmt.Println(viz.PlotSpectrum(spec, "power spectrum (x)"))
		}
	}

	grav, err := st.LoadGravity(runID)
	if err != nil {
		return err
	}
	values := metrics.Evaluate(traj, metrics.Defaults(grav.Grid())...)
	names := make([]string, 0, len(values))
	for n := range values {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Println(viz.KeyValue(fmt.Sprintf("%-16s", n), fmt.Sprintf("%.6g", values[n])))
	}

	if perturbation > 0 {
		tc := analysis.DefaultTrajectoryConfig()
		tc.T0, tc.Tf, tc.Steps = traj.Times[0], traj.Times[traj.Len()-1], traj.Len()
		lambda, err := analysis.LyapunovExponent(ctx, grav, traj.Positions[0], traj.Velocities[0], perturbation, tc)
		if err != nil {
			return err
		}
		fmt.Println(viz.KeyValue("divergence rate", fmt.Sprintf("%.4g /s", lambda)))
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID, out := args[0], args[1]
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	var svg string
	if orbit {
		meta, err := st.Load(runID)
		if err != nil {
			return err
		}
		canvas := viz.NewCanvas(80, 40)
		scene := viz.BoxWireframe()
		scene.Merge(viz.TrajectoryWireframe(traj, meta.L))
		viz.Render3D(canvas, scene, viz.NewCamera())
		svg = export.CanvasToSVG(canvas, 4, "#00ff88")
	} else {
		proj := analysis.Project(traj, xAxis, yAxis)
		if proj == nil {
			return fmt.Errorf("projection axes must be in 0..2, got %d and %d", xAxis, yAxis)
		}
		svg = export.ProjectionToSVG(proj, 800, 800, "#ff00ff")
	}

	if err := export.WriteFile(out, svg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", out)
	return nil
}

func browseRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	grav, err := st.LoadGravity(runID)
	if err != nil {
		return err
	}
	traj, err := st.LoadTrajectory(runID)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return viz.RunBrowser(viz.NewBrowser(runID, grav, traj))
}

func listPresets(cmd *cobra.Command, args []string) error {
	matters := make([]string, 0, len(config.Presets))
	if len(args) == 1 {
		matters = append(matters, args[0])
	} else {
		for m := range config.Presets {
			matters = append(matters, m)
		}
		sort.Strings(matters)
	}

	for _, m := range matters {
		presets := config.ListPresets(m)
		if len(presets) == 0 {
			fmt.Printf("no presets for matter: %s\n", m)
			continue
		}
		fmt.Printf("presets for %s:\n", viz.Title.Render(m))
		for _, p := range presets {
			c := config.GetPreset(m, p)
			fmt.Printf("  %-10s %s\n", p, viz.Subtle.Render(fmt.Sprintf("n=%d L=%g density=%g", c.Grid.N, c.Grid.L, c.Matter.Density)))
		}
	}
	return nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	if err := config.Save(args[0], config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}

func evaluateRun(cmd *cobra.Command, args []string) error {
	ds, err := dataset.LoadCSV(args[0])
	if err != nil {
		return err
	}
	raw, err := dataset.LoadLabels(args[1])
	if err != nil {
		return err
	}
	pred, err := ds.Encode(raw)
	if err != nil {
		return err
	}

	cm, err := evaluate.ConfusionMatrix(ds.Labels, pred, len(ds.Classes))
	if err != nil {
		return err
	}
	fmt.Println(viz.ConfusionTable(cm, ds.Classes, normalize))
	fmt.Println()
	fmt.Print(evaluate.Report(cm, ds.Classes))
	return nil
}

func printTimings(timings map[string]time.Duration) {
	stages := make([]string, 0, len(timings))
	for s := range timings {
		stages = append(stages, s)
	}
	sort.Strings(stages)
	for _, s := range stages {
		fmt.Println(viz.KeyValue(fmt.Sprintf("  %-14s", s), timings[s].String()))
	}
}

func printBlackHoles(holes []analysis.BlackHole) {
	if len(holes) == 0 {
		fmt.Println(viz.Subtle.Render("no black holes above threshold"))
		return
	}
	fmt.Println(viz.Warn.Render(fmt.Sprintf("%d black holes", len(holes))))
	const maxRows = 20
	rows := make([][]string, 0, min(len(holes), maxRows))
	for _, bh := range holes[:min(len(holes), maxRows)] {
		rows = append(rows, []string{
			fmt.Sprintf("(%d,%d,%d)", bh.Index[0], bh.Index[1], bh.Index[2]),
			fmt.Sprintf("(%.3f, %.3f, %.3f)", bh.Position[0], bh.Position[1], bh.Position[2]),
			fmt.Sprintf("%.4g", bh.Curvature),
			fmt.Sprintf("%.4g", bh.Mass),
		})
	}
	fmt.Println(viz.Table([]string{"index", "position", "R00", "mass"}, rows))
	if len(holes) > maxRows {
		fmt.Println(viz.Subtle.Render(fmt.Sprintf("... %d more", len(holes)-maxRows)))
	}
}

func printTrajectory(traj *analysis.Trajectory) {
	last := traj.Positions[traj.Len()-1]
	fmt.Println(viz.KeyValue("trajectory", fmt.Sprintf("%d points, %d accepted / %d rejected steps", traj.Len(), traj.Accepted, traj.Rejected)))
	fmt.Println(viz.KeyValue("final position", fmt.Sprintf("(%.4f, %.4f, %.4f)", last[0], last[1], last[2])))
}

func maxOf(v []float64) float64 {
	m := 0.0
	for _, x := range v {
		m = max(m, x)
	}
	return m
}
