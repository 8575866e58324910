package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/field"
	"github.com/san-kum/gravsim/internal/physics"
)

type Config struct {
	N       int
	L       float64
	Workers int
	// Relax re-feeds the computed gravitational field into the metric stage
	// this many extra times. Zero keeps the single pass from a zero field.
	Relax int
}

type Result struct {
	Grid         field.Grid
	Gravity      *field.VectorField
	Metric       *field.TensorField
	StressEnergy *field.TensorField
	Timings      map[string]time.Duration
}

// Driver runs the field pipeline: stress-energy from matter, the metric
// from a zero gravitational field, then gravity from metric and
// stress-energy. The pass is deterministic and has no feedback unless
// Relax is set.
type Driver struct {
	cfg      Config
	grid     field.Grid
	computer *physics.Computer
}

func New(cfg Config) (*Driver, error) {
	g, err := field.NewGrid(cfg.N, cfg.L)
	if err != nil {
		return nil, err
	}
	if cfg.Relax < 0 {
		return nil, fmt.Errorf("relax %d: %w", cfg.Relax, dynamo.ErrParameterBounds)
	}
	return &Driver{
		cfg:      cfg,
		grid:     g,
		computer: physics.NewComputer(cfg.Workers),
	}, nil
}

func (d *Driver) Grid() field.Grid { return d.grid }

func (d *Driver) Run(ctx context.Context, m *physics.Matter) (*Result, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if err := field.Check(d.grid, m.Grid()); err != nil {
		return nil, err
	}

	res := &Result{Grid: d.grid, Timings: make(map[string]time.Duration)}
	stage := func(name string, fn func() error) error {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", name, dynamo.ErrContextCanceled)
		default:
		}
		start := time.Now()
		err := fn()
		res.Timings[name] += time.Since(start)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}

	if err := stage("stress_energy", func() (err error) {
		res.StressEnergy, err = d.computer.StressEnergy(m.Density, m.Pressure, m.Velocity)
		return
	}); err != nil {
		return nil, err
	}

	grav := field.NewVector(d.grid)
	for pass := 0; pass <= d.cfg.Relax; pass++ {
		if err := stage("metric", func() (err error) {
			res.Metric, err = d.computer.Metric(grav, res.StressEnergy)
			return
		}); err != nil {
			return nil, err
		}
		if err := stage("gravity", func() (err error) {
			grav, err = d.computer.Gravity(res.Metric, res.StressEnergy)
			return
		}); err != nil {
			return nil, err
		}
	}
	res.Gravity = grav

	return res, nil
}

// RunSimulation builds an n^3 grid of side l and runs one pipeline pass.
func RunSimulation(ctx context.Context, n int, l float64, density, pressure *field.ScalarField, velocity *field.VectorField) (*Result, error) {
	d, err := New(Config{N: n, L: l})
	if err != nil {
		return nil, err
	}
	return d.Run(ctx, &physics.Matter{Density: density, Pressure: pressure, Velocity: velocity})
}
