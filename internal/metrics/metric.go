// Package metrics summarizes test-particle trajectories.
package metrics

import (
	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/field"
)

// Metric accumulates a scalar over the states of a trajectory. States are
// (x, y, z, vx, vy, vz).
type Metric interface {
	Name() string
	Observe(x dynamo.State, t float64)
	Value() float64
	Reset()
}

// Defaults returns the metrics reported for a trajectory through grid g.
func Defaults(g field.Grid) []Metric {
	return []Metric{
		NewKineticEnergy(),
		NewEnergyChange(),
		NewMaxSpeed(),
		NewContainment(g),
		NewEscape(g),
	}
}

// Evaluate resets ms, feeds every trajectory point through them and
// returns the values by name.
func Evaluate(traj *analysis.Trajectory, ms ...Metric) map[string]float64 {
	for _, m := range ms {
		m.Reset()
	}
	x := make(dynamo.State, 6)
	for i, t := range traj.Times {
		copy(x[:3], traj.Positions[i][:])
		copy(x[3:], traj.Velocities[i][:])
		for _, m := range ms {
			m.Observe(x, t)
		}
	}

	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}
