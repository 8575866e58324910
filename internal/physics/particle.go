package physics

import (
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/field"
)

// TestParticle is a massless probe accelerated by a gravitational field.
// State layout: x, y, z, vx, vy, vz.
type TestParticle struct {
	Field *field.VectorField
}

func NewTestParticle(g *field.VectorField) *TestParticle {
	return &TestParticle{Field: g}
}

func (tp *TestParticle) StateDim() int { return 6 }

func (tp *TestParticle) Derive(s dynamo.State, _ float64) dynamo.State {
	a := tp.Acceleration(s[0], s[1], s[2])
	return dynamo.State{s[3], s[4], s[5], a[0], a[1], a[2]}
}

// Acceleration looks up the field at the grid point nearest to (x, y, z).
// There is no interpolation.
func (tp *TestParticle) Acceleration(x, y, z float64) [3]float64 {
	g := tp.Field.Grid()
	v := tp.Field.At(g.Nearest(x), g.Nearest(y), g.Nearest(z))
	return [3]float64{v[0], v[1], v[2]}
}
