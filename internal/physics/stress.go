package physics

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/gravsim/internal/field"
)

// StressEnergy builds T from matter density rho, pressure p and velocity v:
//
//	e            = rho * (1 + |v|^2)
//	T[0:3, 0:3]  = (p + e) I + e v⊗v
//	T[0:3, 3]    = T[3, 0:3] = rho v
//	T[3, 3]      = e
func (c *Computer) StressEnergy(density, pressure *field.ScalarField, velocity *field.VectorField) (*field.TensorField, error) {
	g := density.Grid()
	if err := field.Check(g, pressure.Grid(), velocity.Grid()); err != nil {
		return nil, err
	}

	out := field.NewTensor(g)
	rho, pr := density.Data(), pressure.Data()

	c.each(g.Points(), func(p int) {
		t := mat.NewDense(field.Rank, field.Rank, out.Point(p))
		v := mat.NewVecDense(3, velocity.Point(p))

		e := rho[p] * (1 + mat.Dot(v, v))
		ep := pr[p] + e

		spatial := t.Slice(0, 3, 0, 3).(*mat.Dense)
		spatial.Outer(e, v, v)
		for a := 0; a < 3; a++ {
			spatial.Set(a, a, spatial.At(a, a)+ep)
			flux := rho[p] * v.AtVec(a)
			t.Set(a, field.Time, flux)
			t.Set(field.Time, a, flux)
		}
		t.Set(field.Time, field.Time, e)
	})

	return out, nil
}
