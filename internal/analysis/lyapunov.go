package analysis

import (
	"context"
	"math"

	"github.com/san-kum/gravsim/internal/field"
)

// LyapunovExponent estimates the finite-time divergence rate of two test
// particles launched perturbation apart along x:
//
//	λ ≈ (1/T) ln(|δx(T)| / |δx(0)|)
//
// A positive value means nearby orbits separate over the window.
func LyapunovExponent(ctx context.Context, grav *field.VectorField, pos, vel [3]float64, perturbation float64, cfg TrajectoryConfig) (float64, error) {
	if perturbation <= 0 {
		perturbation = 1e-8
	}

	a, err := IntegrateTrajectory(ctx, grav, pos, vel, cfg)
	if err != nil {
		return 0, err
	}
	shifted := pos
	shifted[0] += perturbation
	b, err := IntegrateTrajectory(ctx, grav, shifted, vel, cfg)
	if err != nil {
		return 0, err
	}

	last := a.Len() - 1
	span := a.Times[last] - a.Times[0]
	if span <= 0 {
		return 0, nil
	}

	sep := 0.0
	for c := 0; c < 3; c++ {
		diff := b.Positions[last][c] - a.Positions[last][c]
		sep += diff * diff
	}
	sep = math.Sqrt(sep)
	if sep == 0 {
		return math.Inf(-1), nil
	}
	return math.Log(sep/perturbation) / span, nil
}
