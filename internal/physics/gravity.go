package physics

import (
	"math"

	"github.com/san-kum/gravsim/internal/field"
)

// connection holds d_a g_bc at one point; the temporal derivative row
// (a = 3) is always zero because the grid is a single time slice.
type connection [field.Rank][field.Rank][field.Rank]float64

func (m *connection) load(grad [3]*field.TensorField, p int) {
	*m = connection{}
	for a := 0; a < 3; a++ {
		d := grad[a].Point(p)
		for b := 0; b < field.Rank; b++ {
			for c := 0; c < field.Rank; c++ {
				m[a][b][c] = d[field.Rank*b+c]
			}
		}
	}
}

// gamma is the Christoffel-like combination
// 0.5 (M[al,mu,nu] + M[be,mu,nu] - M[mu,nu,al] - M[mu,nu,be]).
func (m *connection) gamma(al, be, mu, nu int) float64 {
	return 0.5 * (m[al][mu][nu] + m[be][mu][nu] - m[mu][nu][al] - m[mu][nu][be])
}

// Gravity derives the gravitational field from the metric and the
// stress-energy. Each component l is
//
//	G_l = -4π Σ_{μν} T[μ][ν] Γ[3, l, μ, ν]
//
// with every tensor index bounded to rank 4; the grid only enters through
// the finite-difference metric derivatives.
func (c *Computer) Gravity(metric, stress *field.TensorField) (*field.VectorField, error) {
	g := metric.Grid()
	if err := field.Check(g, stress.Grid()); err != nil {
		return nil, err
	}

	grad := metric.Gradient(c.workers)
	out := field.NewVector(g)

	c.each(g.Points(), func(p int) {
		var m connection
		m.load(grad, p)

		t := stress.Point(p)
		gv := out.Point(p)
		for l := 0; l < 3; l++ {
			sum := 0.0
			for mu := 0; mu < field.Rank; mu++ {
				for nu := 0; nu < field.Rank; nu++ {
					sum += t[field.Rank*mu+nu] * m.gamma(field.Time, l, mu, nu)
				}
			}
			gv[l] = -4 * math.Pi * sum
		}
	})

	return out, nil
}
