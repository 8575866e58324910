package field

import "github.com/san-kum/gravsim/internal/dynamo"

// partial differentiates every component of a point-major array along one
// spatial axis. Interior points use central differences, the two faces use
// one-sided differences, and a single-point axis has zero derivative.
func partial(g Grid, src, dst []float64, comps, axis, workers int) {
	n := g.n
	if n < 2 {
		for i := range dst {
			dst[i] = 0
		}
		return
	}

	stride := 1
	switch axis {
	case 0:
		stride = n * n
	case 1:
		stride = n
	}
	h := g.Spacing()

	dynamo.ParallelFor(g.Points(), 64, workers, func(start, end int) {
		for p := start; p < end; p++ {
			i, j, k := g.Unindex(p)
			pos := [3]int{i, j, k}[axis]

			lo, hi, span := p-stride, p+stride, 2*h
			switch pos {
			case 0:
				lo, span = p, h
			case n - 1:
				hi, span = p, h
			}

			for c := 0; c < comps; c++ {
				dst[comps*p+c] = (src[comps*hi+c] - src[comps*lo+c]) / span
			}
		}
	})
}

// Partial returns d/dx_axis of every tensor component, axis in {0, 1, 2}.
func (t *TensorField) Partial(axis, workers int) *TensorField {
	out := NewTensor(t.grid)
	partial(t.grid, t.values, out.values, Rank*Rank, axis, workers)
	return out
}

// Partial returns d/dx_axis of the scalar field, axis in {0, 1, 2}.
func (s *ScalarField) Partial(axis, workers int) *ScalarField {
	out := NewScalar(s.grid)
	partial(s.grid, s.values, out.values, 1, axis, workers)
	return out
}

// Gradient returns the three spatial partials of the tensor field.
func (t *TensorField) Gradient(workers int) [3]*TensorField {
	return [3]*TensorField{t.Partial(0, workers), t.Partial(1, workers), t.Partial(2, workers)}
}
