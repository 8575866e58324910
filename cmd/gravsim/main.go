package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	verbose    bool
	// grid and matter
	gridN   int
	gridL   float64
	matter  string
	density float64
	eos     float64
	sigma   float64
	omega   float64
	radius  float64
	width   float64
	workers int
	relax   int
	// scan
	noScan    bool
	threshold float64
	// trajectory
	withTraj   bool
	position   []float64
	velocity   []float64
	t0, tf     float64
	steps      int
	integrator string
	rtol, atol float64
	// plot and analysis
	xAxis        int
	yAxis        int
	perturbation float64
	normalize    bool
	orbit        bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "gravsim",
		Short:         "heuristic gravity fields, test particles and curvature scans on a cubic grid",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravsim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print stage timings")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "compute stress-energy, metric and gravitational field for a matter preset",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimulationFlags(runCmd)
	runCmd.Flags().BoolVar(&withTraj, "trajectory", false, "integrate a test particle")
	addTrajectoryFlags(runCmd)

	trajCmd := &cobra.Command{
		Use:   "trajectory [run_id]",
		Short: "integrate a test particle through a stored field",
		Args:  cobra.ExactArgs(1),
		RunE:  runTrajectory,
	}
	addTrajectoryFlags(trajCmd)

	scanCmd := &cobra.Command{
		Use:   "scan [run_id]",
		Short: "scan a stored metric for curvature peaks",
		Args:  cobra.ExactArgs(1),
		RunE:  scanRun,
	}
	scanCmd.Flags().Float64Var(&threshold, "threshold", 1e-10, "curvature threshold")
	scanCmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (0 = logical CPUs)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the field profile and the stored trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&xAxis, "x-axis", 0, "trajectory axis for the projection x-axis")
	plotCmd.Flags().IntVar(&yAxis, "y-axis", 1, "trajectory axis for the projection y-axis")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis and divergence of the stored trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().Float64Var(&perturbation, "perturbation", 1e-6, "initial separation for the divergence estimate (0 disables)")

	browseCmd := &cobra.Command{
		Use:   "browse [run_id]",
		Short: "browse the gravitational field slice by slice",
		Args:  cobra.ExactArgs(1),
		RunE:  browseRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [matter]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the default configuration",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}

	evaluateCmd := &cobra.Command{
		Use:   "evaluate [dataset.csv] [predictions.csv]",
		Short: "confusion matrix and classification report for predicted labels",
		Args:  cobra.ExactArgs(2),
		RunE:  evaluateRun,
	}
	evaluateCmd.Flags().BoolVar(&normalize, "normalize", false, "show row-normalized confusion matrix")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search over matter and grid parameters",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addSimulationFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", nil, "parameter values as name=v1,v2,... (repeatable)")
	sweepCmd.Flags().StringVar(&objective, "objective", "max_gravity", "objective (max_gravity, black_holes, black_hole_mass)")
	sweepCmd.Flags().BoolVar(&maximize, "maximize", false, "maximize instead of minimize the objective")
	_ = sweepCmd.MarkFlagRequired("param")

	svgCmd := &cobra.Command{
		Use:   "export-svg [run_id] [out.svg]",
		Short: "export the stored trajectory as SVG",
		Args:  cobra.ExactArgs(2),
		RunE:  exportSVG,
	}
	svgCmd.Flags().IntVar(&xAxis, "x-axis", 0, "trajectory axis for the x-axis")
	svgCmd.Flags().IntVar(&yAxis, "y-axis", 1, "trajectory axis for the y-axis")
	svgCmd.Flags().BoolVar(&orbit, "orbit", false, "render the 3D orbit view inside the grid box instead of a projection")

	rootCmd.AddCommand(runCmd, trajCmd, scanCmd, listCmd, plotCmd, analyzeCmd, browseCmd, presetsCmd, configCmd, evaluateCmd, sweepCmd, svgCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func addSimulationFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration, as matter/name")
	cmd.Flags().IntVar(&gridN, "n", 16, "grid points per axis")
	cmd.Flags().Float64Var(&gridL, "length", 1.0, "grid side length")
	cmd.Flags().StringVar(&matter, "matter", "gaussian", "matter preset")
	cmd.Flags().Float64Var(&density, "density", 1.0, "peak rest-mass density")
	cmd.Flags().Float64Var(&eos, "w", 0.0, "equation of state p = w*rho")
	cmd.Flags().Float64Var(&sigma, "sigma", 0.2, "gaussian width (gaussian, rotating)")
	cmd.Flags().Float64Var(&omega, "omega", 0.0, "angular velocity (rotating)")
	cmd.Flags().Float64Var(&radius, "radius", 0.3, "shell radius (shell)")
	cmd.Flags().Float64Var(&width, "width", 0.05, "shell width (shell)")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (0 = logical CPUs)")
	cmd.Flags().IntVar(&relax, "relax", 0, "extra metric/gravity passes fed back from the computed field")
	cmd.Flags().BoolVar(&noScan, "no-scan", false, "skip the curvature scan")
	cmd.Flags().Float64Var(&threshold, "threshold", 1e-10, "curvature threshold")
}

func addTrajectoryFlags(cmd *cobra.Command) {
	cmd.Flags().Float64SliceVar(&position, "pos", []float64{0.3, 0, 0}, "initial position x,y,z")
	cmd.Flags().Float64SliceVar(&velocity, "vel", []float64{0, 0.1, 0}, "initial velocity x,y,z")
	cmd.Flags().Float64Var(&t0, "t0", 0, "start time")
	cmd.Flags().Float64Var(&tf, "tf", 10, "end time")
	cmd.Flags().IntVar(&steps, "steps", 1000, "evaluation points")
	cmd.Flags().StringVar(&integrator, "integrator", "rk45", "integrator (euler, rk4, rk45, verlet)")
	cmd.Flags().Float64Var(&rtol, "rtol", 1e-3, "relative tolerance")
	cmd.Flags().Float64Var(&atol, "atol", 1e-6, "absolute tolerance")
}
