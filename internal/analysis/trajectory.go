package analysis

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/field"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/physics"
)

type TrajectoryConfig struct {
	T0, Tf     float64
	Steps      int
	Integrator string
	Tolerance  dynamo.Tolerance
	MaxSteps   int
}

func DefaultTrajectoryConfig() TrajectoryConfig {
	return TrajectoryConfig{
		T0:         0,
		Tf:         10,
		Steps:      1000,
		Integrator: "rk45",
		Tolerance:  dynamo.DefaultTolerance(),
		MaxSteps:   1_000_000,
	}
}

type Trajectory struct {
	Times      []float64
	Positions  [][3]float64
	Velocities [][3]float64
	Accepted   int
	Rejected   int
}

func (t *Trajectory) Len() int { return len(t.Positions) }

// Axis returns one position coordinate over time.
func (t *Trajectory) Axis(axis int) []float64 {
	out := make([]float64, len(t.Positions))
	for i, p := range t.Positions {
		out[i] = p[axis]
	}
	return out
}

// IntegrationError reports a trajectory the solver could not complete.
type IntegrationError struct {
	Time float64
	Step int
	Err  error
}

func (e *IntegrationError) Error() string {
	return fmt.Sprintf("trajectory integration failed at step %d (t=%.4f): %v", e.Step, e.Time, e.Err)
}

func (e *IntegrationError) Unwrap() error { return e.Err }

// IntegrateTrajectory integrates a test particle through the gravitational
// field from pos and vel, sampling the position at Steps evenly spaced times
// over [T0, Tf]. The field is sampled at the nearest grid point. Every call
// integrates from scratch.
func IntegrateTrajectory(ctx context.Context, grav *field.VectorField, pos, vel [3]float64, cfg TrajectoryConfig) (*Trajectory, error) {
	if cfg.Steps < 1 {
		return nil, fmt.Errorf("trajectory steps %d: %w", cfg.Steps, dynamo.ErrParameterBounds)
	}
	if cfg.Steps > 1 && !(cfg.Tf > cfg.T0) {
		return nil, fmt.Errorf("trajectory window [%g, %g]: %w", cfg.T0, cfg.Tf, dynamo.ErrParameterBounds)
	}

	integ, err := integrators.New(cfg.Integrator)
	if err != nil {
		return nil, err
	}

	x0 := dynamo.State{pos[0], pos[1], pos[2], vel[0], vel[1], vel[2]}
	tEval := integrators.Linspace(cfg.T0, cfg.Tf, cfg.Steps)

	solveCfg := integrators.SolveConfig{
		Tolerance: cfg.Tolerance,
		MaxSteps:  cfg.MaxSteps,
	}
	if cfg.Steps > 1 {
		solveCfg.InitialStep = tEval[1] - tEval[0]
	}

	sol, err := integrators.Solve(ctx, integ, physics.NewTestParticle(grav), x0, tEval, solveCfg)
	if err != nil {
		var simErr *dynamo.SimulationError
		if errors.As(err, &simErr) {
			return nil, &IntegrationError{Time: simErr.Time, Step: simErr.Step, Err: simErr.Wrapped}
		}
		return nil, &IntegrationError{Err: err}
	}

	traj := &Trajectory{
		Times:      sol.Times,
		Positions:  make([][3]float64, len(sol.States)),
		Velocities: make([][3]float64, len(sol.States)),
		Accepted:   sol.Accepted,
		Rejected:   sol.Rejected,
	}
	for i, s := range sol.States {
		traj.Positions[i] = [3]float64{s[0], s[1], s[2]}
		traj.Velocities[i] = [3]float64{s[3], s[4], s[5]}
	}
	return traj, nil
}
