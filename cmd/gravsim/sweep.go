package main

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/optim"
	"github.com/san-kum/gravsim/internal/viz"
)

var (
	sweepParams []string
	objective   string
	maximize    bool
)

var objectives = map[string]func(*experiment.Result, config.ScanConfig) float64{
	"max_gravity": func(res *experiment.Result, _ config.ScanConfig) float64 {
		return maxOf(res.Gravity.Norm().Data())
	},
	"black_holes": func(res *experiment.Result, sc config.ScanConfig) float64 {
		return float64(len(analysis.ScanCurvature(res.Metric, analysis.ScanConfig{Threshold: sc.Threshold})))
	},
	"black_hole_mass": func(res *experiment.Result, sc config.ScanConfig) float64 {
		total := 0.0
		for _, bh := range analysis.ScanCurvature(res.Metric, analysis.ScanConfig{Threshold: sc.Threshold}) {
			total += bh.Mass
		}
		return total
	},
}

func objectiveNames() []string {
	names := make([]string, 0, len(objectives))
	for n := range objectives {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// setParam applies a sweep parameter to cfg.
func setParam(cfg *config.Config, name string, v float64) error {
	switch name {
	case "n":
		cfg.Grid.N = int(v)
	case "length":
		cfg.Grid.L = v
	case "density":
		cfg.Matter.Density = v
	case "w":
		cfg.Matter.W = v
	case "sigma":
		cfg.Matter.Sigma = v
	case "omega":
		cfg.Matter.Omega = v
	case "radius":
		cfg.Matter.Radius = v
	case "width":
		cfg.Matter.Width = v
	case "relax":
		cfg.Relax = int(v)
	default:
		return fmt.Errorf("unknown sweep parameter: %s", name)
	}
	return nil
}

func parseSweep(specs []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(specs))
	ranges := make([][]float64, 0, len(specs))
	for _, spec := range specs {
		name, list, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, nil, fmt.Errorf("sweep parameter must be name=v1,v2,..., got %q", spec)
		}
		var vals []float64
		for _, s := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%s: %w", name, err)
			}
			vals = append(vals, v)
		}
		names = append(names, name)
		ranges = append(ranges, vals)
	}
	return names, ranges, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	score, ok := objectives[objective]
	if !ok {
		return fmt.Errorf("unknown objective: %s (available: %v)", objective, objectiveNames())
	}
	names, ranges, err := parseSweep(sweepParams)
	if err != nil {
		return err
	}
	search, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	sign := 1.0
	if maximize {
		sign = -1
	}

	fmt.Printf("%s %d combinations of %v, objective %s\n", viz.Title.Render("sweep"), search.Size(), names, objective)
	best, val, trials, err := search.Search(cmd.Context(), func(ctx context.Context, p map[string]float64) (float64, error) {
		cfg := *base
		for name, v := range p {
			if err := setParam(&cfg, name, v); err != nil {
				return 0, err
			}
		}
		if err := cfg.Validate(); err != nil {
			return 0, err
		}
		driver, err := experiment.New(cfg.Experiment())
		if err != nil {
			return 0, err
		}
		m, err := registry.GetMatter(cfg.Matter.Preset, driver.Grid(), cfg.MatterParams())
		if err != nil {
			return 0, err
		}
		res, err := driver.Run(ctx, m)
		if err != nil {
			return 0, err
		}
		return sign * score(res, cfg.Scan), nil
	})
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(trials))
	for _, tr := range trials {
		row := make([]string, 0, len(names)+1)
		for _, n := range names {
			row = append(row, strconv.FormatFloat(tr.Params[n], 'g', 6, 64))
		}
		if tr.Err != nil {
			row = append(row, viz.Fail.Render(tr.Err.Error()))
		} else {
			row = append(row, fmt.Sprintf("%.6g", sign*tr.Value))
		}
		rows = append(rows, row)
	}
	fmt.Println(viz.Table(append(append([]string{}, names...), objective), rows))

	if best == nil {
		return fmt.Errorf("every trial failed")
	}
	parts := make([]string, 0, len(names))
	for _, n := range names {
		parts = append(parts, fmt.Sprintf("%s=%g", n, best[n]))
	}
	fmt.Println(viz.KeyValue("best", strings.Join(parts, " ")+fmt.Sprintf(" -> %.6g", sign*val)))
	return nil
}
