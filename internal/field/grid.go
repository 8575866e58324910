// Package field holds the cubic lattice and the dense scalar, vector and
// rank-2 tensor fields defined on it.
package field

import (
	"fmt"
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// Grid is an N x N x N lattice spanning [-L/2, L/2] on every axis.
type Grid struct {
	n  int
	l  float64
	dx float64
}

func NewGrid(n int, l float64) (Grid, error) {
	if n < 1 {
		return Grid{}, fmt.Errorf("grid size %d: %w", n, dynamo.ErrParameterBounds)
	}
	if !(l > 0) || math.IsInf(l, 0) {
		return Grid{}, fmt.Errorf("grid length %g: %w", l, dynamo.ErrParameterBounds)
	}
	return Grid{n: n, l: l, dx: l / float64(n)}, nil
}

func (g Grid) N() int                { return g.n }
func (g Grid) L() float64            { return g.l }
func (g Grid) Dx() float64           { return g.dx }
func (g Grid) Points() int           { return g.n * g.n * g.n }
func (g Grid) Index(i, j, k int) int { return (i*g.n+j)*g.n + k }

// Unindex is the inverse of Index.
func (g Grid) Unindex(p int) (i, j, k int) {
	k = p % g.n
	j = (p / g.n) % g.n
	i = p / (g.n * g.n)
	return
}

// Coord is the physical coordinate of lattice index i along any axis,
// following linspace(-L/2, L/2, N).
func (g Grid) Coord(i int) float64 {
	if g.n == 1 {
		return -g.l / 2
	}
	return -g.l/2 + float64(i)*g.Spacing()
}

func (g Grid) Coords() []float64 {
	c := make([]float64, g.n)
	for i := range c {
		c[i] = g.Coord(i)
	}
	return c
}

// Spacing is the distance between neighbouring coordinates, used by the
// finite differences. It differs from Dx, the cell size L/N used for volume
// elements, because the coordinates include both faces.
func (g Grid) Spacing() float64 {
	if g.n == 1 {
		return g.dx
	}
	return g.l / float64(g.n-1)
}

func (g Grid) Position(i, j, k int) [3]float64 {
	return [3]float64{g.Coord(i), g.Coord(j), g.Coord(k)}
}

// Nearest returns the lattice index whose coordinate is closest to x.
// Ties resolve to the lower index.
func (g Grid) Nearest(x float64) int {
	if g.n == 1 || math.IsNaN(x) {
		return 0
	}
	i := int(math.Round((x + g.l/2) / g.Spacing()))
	if i < 0 {
		return 0
	}
	if i >= g.n {
		return g.n - 1
	}
	// math.Round goes away from zero on exact halves; argmin keeps the first.
	if i > 0 && math.Abs(x-g.Coord(i-1)) <= math.Abs(x-g.Coord(i)) {
		return i - 1
	}
	return i
}

// Same reports whether both grids have the same shape.
func (g Grid) Same(o Grid) bool {
	return g.n == o.n && g.l == o.l
}

func (g Grid) String() string {
	return fmt.Sprintf("grid(n=%d, L=%g, dx=%g)", g.n, g.l, g.dx)
}

// Check returns ErrDimensionMismatch unless every grid has the same N.
func Check(grids ...Grid) error {
	for i := 1; i < len(grids); i++ {
		if grids[i].n != grids[0].n {
			return fmt.Errorf("n=%d vs n=%d: %w", grids[0].n, grids[i].n, dynamo.ErrDimensionMismatch)
		}
	}
	return nil
}
