package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/field"
)

// Matter is the input of the stress-energy stage.
type Matter struct {
	Density  *field.ScalarField
	Pressure *field.ScalarField
	Velocity *field.VectorField
}

func (m *Matter) Grid() field.Grid { return m.Density.Grid() }

// Validate checks that all three fields share the same grid size.
func (m *Matter) Validate() error {
	if m.Density == nil || m.Pressure == nil || m.Velocity == nil {
		return fmt.Errorf("matter: missing field: %w", dynamo.ErrDimensionMismatch)
	}
	return field.Check(m.Density.Grid(), m.Pressure.Grid(), m.Velocity.Grid())
}

// TotalMass integrates density over the grid cells.
func (m *Matter) TotalMass() float64 {
	g := m.Grid()
	sum := 0.0
	for _, rho := range m.Density.Data() {
		sum += rho
	}
	return sum * g.Dx() * g.Dx() * g.Dx()
}

// Vacuum is matter with every field identically zero.
func Vacuum(g field.Grid) *Matter {
	return &Matter{
		Density:  field.NewScalar(g),
		Pressure: field.NewScalar(g),
		Velocity: field.NewVector(g),
	}
}

// Dust fills the grid with uniform, pressureless matter at rest.
func Dust(g field.Grid, rho float64) *Matter {
	m := Vacuum(g)
	for p := range m.Density.Data() {
		m.Density.Data()[p] = rho
	}
	return m
}

// Gaussian is a static blob of width sigma centred on the origin, with
// pressure proportional to density (p = w rho).
func Gaussian(g field.Grid, rho0, sigma, w float64) *Matter {
	m := Vacuum(g)
	fill(m, func(x, y, z float64) (float64, [3]float64) {
		r2 := x*x + y*y + z*z
		return rho0 * math.Exp(-r2/(2*sigma*sigma)), [3]float64{}
	}, w)
	return m
}

// Rotating is a Gaussian blob in rigid rotation about the z axis with
// angular velocity omega.
func Rotating(g field.Grid, rho0, sigma, omega, w float64) *Matter {
	m := Vacuum(g)
	fill(m, func(x, y, z float64) (float64, [3]float64) {
		r2 := x*x + y*y + z*z
		return rho0 * math.Exp(-r2/(2*sigma*sigma)), [3]float64{-omega * y, omega * x, 0}
	}, w)
	return m
}

// Shell is a spherical shell of radius r and Gaussian thickness width.
func Shell(g field.Grid, rho0, r, width, w float64) *Matter {
	m := Vacuum(g)
	fill(m, func(x, y, z float64) (float64, [3]float64) {
		d := math.Sqrt(x*x+y*y+z*z) - r
		return rho0 * math.Exp(-d*d/(2*width*width)), [3]float64{}
	}, w)
	return m
}

func fill(m *Matter, fn func(x, y, z float64) (float64, [3]float64), w float64) {
	g := m.Grid()
	for p := 0; p < g.Points(); p++ {
		i, j, k := g.Unindex(p)
		pos := g.Position(i, j, k)
		rho, v := fn(pos[0], pos[1], pos[2])
		m.Density.Data()[p] = rho
		m.Pressure.Data()[p] = w * rho
		copy(m.Velocity.Point(p), v[:])
	}
}
