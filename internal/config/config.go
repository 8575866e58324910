package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/experiment"
)

const (
	DefaultN         = 16
	DefaultL         = 1.0
	DefaultMatter    = "gaussian"
	DefaultDensity   = 1.0
	DefaultSigma     = 0.2
	DefaultT0        = 0.0
	DefaultTf        = 10.0
	DefaultSteps     = 1000
	DefaultRtol      = 1e-3
	DefaultAtol      = 1e-6
	DefaultThreshold = 1e-10
	DefaultDataDir   = "data"
)

type Config struct {
	Grid       GridConfig       `yaml:"grid"`
	Matter     MatterConfig     `yaml:"matter"`
	Trajectory TrajectoryConfig `yaml:"trajectory"`
	Scan       ScanConfig       `yaml:"scan"`
	Workers    int              `yaml:"workers"`
	Relax      int              `yaml:"relax"`
	DataDir    string           `yaml:"data_dir"`
}

type GridConfig struct {
	N int     `yaml:"n"`
	L float64 `yaml:"l"`
}

type MatterConfig struct {
	Preset  string  `yaml:"preset"`
	Density float64 `yaml:"density"`
	W       float64 `yaml:"w"`
	Sigma   float64 `yaml:"sigma"`
	Omega   float64 `yaml:"omega"`
	Radius  float64 `yaml:"radius"`
	Width   float64 `yaml:"width"`
}

type TrajectoryConfig struct {
	Enabled    bool       `yaml:"enabled"`
	Position   [3]float64 `yaml:"position,flow"`
	Velocity   [3]float64 `yaml:"velocity,flow"`
	T0         float64    `yaml:"t0"`
	Tf         float64    `yaml:"tf"`
	Steps      int        `yaml:"steps"`
	Integrator string     `yaml:"integrator"`
	Rtol       float64    `yaml:"rtol"`
	Atol       float64    `yaml:"atol"`
}

type ScanConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Threshold float64 `yaml:"threshold"`
}

func DefaultConfig() *Config {
	return &Config{
		Grid: GridConfig{N: DefaultN, L: DefaultL},
		Matter: MatterConfig{
			Preset:  DefaultMatter,
			Density: DefaultDensity,
			Sigma:   DefaultSigma,
		},
		Trajectory: TrajectoryConfig{
			Position:   [3]float64{0.3, 0, 0},
			Velocity:   [3]float64{0, 0.1, 0},
			T0:         DefaultT0,
			Tf:         DefaultTf,
			Steps:      DefaultSteps,
			Integrator: "rk45",
			Rtol:       DefaultRtol,
			Atol:       DefaultAtol,
		},
		Scan:    ScanConfig{Enabled: true, Threshold: DefaultThreshold},
		DataDir: DefaultDataDir,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch {
	case c.Grid.N < 1:
		return fmt.Errorf("grid.n must be >= 1, got %d: %w", c.Grid.N, dynamo.ErrParameterBounds)
	case c.Grid.L <= 0:
		return fmt.Errorf("grid.l must be positive, got %g: %w", c.Grid.L, dynamo.ErrParameterBounds)
	case c.Workers < 0:
		return fmt.Errorf("workers must be >= 0, got %d: %w", c.Workers, dynamo.ErrParameterBounds)
	case c.Relax < 0:
		return fmt.Errorf("relax must be >= 0, got %d: %w", c.Relax, dynamo.ErrParameterBounds)
	case c.Trajectory.Steps < 1:
		return fmt.Errorf("trajectory.steps must be >= 1, got %d: %w", c.Trajectory.Steps, dynamo.ErrParameterBounds)
	case c.Trajectory.Tf <= c.Trajectory.T0:
		return fmt.Errorf("trajectory window [%g, %g] is empty: %w", c.Trajectory.T0, c.Trajectory.Tf, dynamo.ErrParameterBounds)
	case c.Trajectory.Rtol <= 0 || c.Trajectory.Atol <= 0:
		return fmt.Errorf("trajectory tolerances must be positive: %w", dynamo.ErrParameterBounds)
	case c.Scan.Threshold < 0:
		return fmt.Errorf("scan.threshold must be >= 0, got %g: %w", c.Scan.Threshold, dynamo.ErrParameterBounds)
	}
	return nil
}

func (c *Config) Experiment() experiment.Config {
	return experiment.Config{
		N:       c.Grid.N,
		L:       c.Grid.L,
		Workers: c.Workers,
		Relax:   c.Relax,
	}
}

func (c *Config) MatterParams() experiment.MatterParams {
	return experiment.MatterParams{
		Density: c.Matter.Density,
		W:       c.Matter.W,
		Sigma:   c.Matter.Sigma,
		Omega:   c.Matter.Omega,
		Radius:  c.Matter.Radius,
		Width:   c.Matter.Width,
	}
}

func (c *Config) TrajectoryOptions() analysis.TrajectoryConfig {
	tc := analysis.DefaultTrajectoryConfig()
	tc.T0 = c.Trajectory.T0
	tc.Tf = c.Trajectory.Tf
	tc.Steps = c.Trajectory.Steps
	if c.Trajectory.Integrator != "" {
		tc.Integrator = c.Trajectory.Integrator
	}
	tc.Tolerance = dynamo.Tolerance{Rel: c.Trajectory.Rtol, Abs: c.Trajectory.Atol}
	return tc
}

func (c *Config) ScanOptions() analysis.ScanConfig {
	return analysis.ScanConfig{Threshold: c.Scan.Threshold, Workers: c.Workers}
}
