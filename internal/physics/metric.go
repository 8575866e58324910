package physics

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/gravsim/internal/field"
)

// Metric derives the metric from a gravitational field G and the
// stress-energy T. The spatial block is the inverse spatial metric
// I + 2 G / |G|^2, with G added to every row; points where G vanishes get
// the identity. The temporal entry is -sum(T spatial block) / |G|^2, or 0
// where |G| = 0. All mixed entries are zero.
func (c *Computer) Metric(gravity *field.VectorField, stress *field.TensorField) (*field.TensorField, error) {
	g := gravity.Grid()
	if err := field.Check(g, stress.Grid()); err != nil {
		return nil, err
	}

	out := field.NewTensor(g)

	c.each(g.Points(), func(p int) {
		m := out.Point(p)
		gv := gravity.Point(p)
		norm2 := floats.Dot(gv, gv)

		for a := 0; a < 3; a++ {
			for b := 0; b < 3; b++ {
				v := 0.0
				if a == b {
					v = 1
				}
				if norm2 > 0 {
					v += 2 * gv[b] / norm2
				}
				m[field.Rank*a+b] = v
			}
		}

		if norm2 > 0 {
			m[field.Rank*field.Time+field.Time] = -stress.SpatialSum(p) / norm2
		}
	})

	return out, nil
}
