package integrators

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
)

type SolveConfig struct {
	Tolerance dynamo.Tolerance
	// InitialStep is the first trial step; 0 picks 1% of the window.
	InitialStep float64
	// MinStep is the adaptive step floor; 0 picks 1e-12 of the window.
	MinStep  float64
	MaxSteps int
}

func DefaultSolveConfig() SolveConfig {
	return SolveConfig{
		Tolerance: dynamo.DefaultTolerance(),
		MaxSteps:  1_000_000,
	}
}

type Solution struct {
	Times    []float64
	States   []dynamo.State
	Accepted int
	Rejected int
}

// Solve integrates dyn from tEval[0] and records the state at every time in
// tEval, which must be strictly increasing. Adaptive integrators run with
// error control; fixed-step integrators use InitialStep, shortened to land
// exactly on each evaluation time.
func Solve(ctx context.Context, integ dynamo.Integrator, dyn dynamo.System, x0 dynamo.State, tEval []float64, cfg SolveConfig) (*Solution, error) {
	if err := validate(dyn, x0, tEval, cfg); err != nil {
		return nil, err
	}

	span := tEval[len(tEval)-1] - tEval[0]
	if cfg.InitialStep <= 0 {
		cfg.InitialStep = math.Max(span/100, math.SmallestNonzeroFloat64)
	}
	if cfg.MinStep <= 0 {
		cfg.MinStep = 1e-12 * math.Max(1, span)
	}

	sol := &Solution{
		Times:  make([]float64, 0, len(tEval)),
		States: make([]dynamo.State, 0, len(tEval)),
	}

	x := x0.Clone()
	t := tEval[0]
	dt := cfg.InitialStep
	sol.Times = append(sol.Times, t)
	sol.States = append(sol.States, x.Clone())

	adaptive, isAdaptive := integ.(dynamo.AdaptiveIntegrator)
	steps := 0

	for idx := 1; idx < len(tEval); idx++ {
		target := tEval[idx]

		for t < target {
			select {
			case <-ctx.Done():
				return sol, &dynamo.SimulationError{Step: steps, Time: t, State: x, Wrapped: dynamo.ErrContextCanceled}
			default:
			}

			if steps >= cfg.MaxSteps {
				return sol, &dynamo.SimulationError{Step: steps, Time: t, State: x, Wrapped: dynamo.ErrTooManySteps}
			}
			steps++

			h := math.Min(dt, target-t)
			last := h >= target-t

			var xNew dynamo.State
			if isAdaptive {
				var ratio, dtNext float64
				xNew, ratio, dtNext = adaptive.StepAdaptive(dyn, x, t, h, cfg.Tolerance)
				if !xNew.IsValid() {
					return sol, &dynamo.SimulationError{Step: steps, Time: t, State: x, Wrapped: dynamo.ErrUnstable}
				}
				if ratio > 1 {
					sol.Rejected++
					dt = dtNext
					if dt < cfg.MinStep {
						return sol, &dynamo.SimulationError{Step: steps, Time: t, State: x, Wrapped: dynamo.ErrStepTooSmall}
					}
					continue
				}
				if h < dt {
					dt = math.Max(dt, dtNext)
				} else {
					dt = dtNext
				}
			} else {
				xNew = integ.Step(dyn, x, t, h)
				if !xNew.IsValid() {
					return sol, &dynamo.SimulationError{Step: steps, Time: t, State: x, Wrapped: dynamo.ErrUnstable}
				}
			}

			sol.Accepted++
			x = xNew
			if last {
				t = target
			} else {
				t += h
			}
		}

		sol.Times = append(sol.Times, t)
		sol.States = append(sol.States, x.Clone())
	}

	return sol, nil
}

func validate(dyn dynamo.System, x0 dynamo.State, tEval []float64, cfg SolveConfig) error {
	if len(tEval) == 0 {
		return fmt.Errorf("no evaluation times: %w", dynamo.ErrParameterBounds)
	}
	for i := 1; i < len(tEval); i++ {
		if !(tEval[i] > tEval[i-1]) {
			return fmt.Errorf("evaluation times not increasing at %d: %w", i, dynamo.ErrParameterBounds)
		}
	}
	if len(x0) != dyn.StateDim() {
		return fmt.Errorf("state has %d components, system wants %d: %w", len(x0), dyn.StateDim(), dynamo.ErrDimensionMismatch)
	}
	if !x0.IsValid() {
		return dynamo.ErrInvalidState
	}
	if cfg.MaxSteps <= 0 {
		return fmt.Errorf("max steps must be positive, got %d: %w", cfg.MaxSteps, dynamo.ErrParameterBounds)
	}
	if cfg.Tolerance.Rel < 0 || cfg.Tolerance.Abs < 0 || cfg.Tolerance.Rel+cfg.Tolerance.Abs == 0 {
		return fmt.Errorf("tolerance %+v: %w", cfg.Tolerance, dynamo.ErrParameterBounds)
	}
	return nil
}

// Linspace returns n evenly spaced points over [start, stop].
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{start}
	}
	out := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}
