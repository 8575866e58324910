package analysis

import (
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/field"
)

// DefaultThreshold is the |R_00| above which a grid point is flagged.
const DefaultThreshold = 1e-10

type ScanConfig struct {
	Threshold float64
	Workers   int
}

func DefaultScanConfig() ScanConfig {
	return ScanConfig{Threshold: DefaultThreshold}
}

// BlackHole is a grid point whose curvature exceeded the scan threshold.
type BlackHole struct {
	Index     [3]int
	Position  [3]float64
	Curvature float64
	Mass      float64
}

// secondDerivatives holds d_b d_c g for spatial b, c.
type secondDerivatives [3][3]*field.TensorField

func newSecondDerivatives(metric *field.TensorField, workers int) secondDerivatives {
	var dd secondDerivatives
	first := metric.Gradient(workers)
	for c := 0; c < 3; c++ {
		for b := 0; b < 3; b++ {
			dd[b][c] = first[c].Partial(b, workers)
		}
	}
	return dd
}

// at returns d_b d_c g_xy at flat index p; derivatives along time vanish.
func (dd secondDerivatives) at(p, b, c, x, y int) float64 {
	if b == field.Time || c == field.Time {
		return 0
	}
	return dd[b][c].Component(p, x, y)
}

// Ricci builds the Ricci-like tensor
//
//	R_ab = Σ_c [ d_b d_c g_ac - ½ Σ_d g_dc (d_b d_c g_ad + d_a d_c g_bd - d_c d_d g_ab) ]
//
// from finite differences of the metric. All loops run over the rank-4
// tensor indices; the grid enters only through the differences.
func Ricci(metric *field.TensorField, workers int) *field.TensorField {
	g := metric.Grid()
	dd := newSecondDerivatives(metric, workers)
	out := field.NewTensor(g)

	dynamo.ParallelFor(g.Points(), 32, workers, func(start, end int) {
		for p := start; p < end; p++ {
			r := out.Point(p)
			for a := 0; a < field.Rank; a++ {
				for b := 0; b < field.Rank; b++ {
					sum := 0.0
					for c := 0; c < field.Rank; c++ {
						sum += dd.at(p, b, c, a, c)
						inner := 0.0
						for d := 0; d < field.Rank; d++ {
							gdc := metric.Component(p, d, c)
							if gdc == 0 {
								continue
							}
							inner += gdc * (dd.at(p, b, c, a, d) + dd.at(p, a, c, b, d) - dd.at(p, c, d, a, b))
						}
						sum -= 0.5 * inner
					}
					r[field.Rank*a+b] = sum
				}
			}
		}
	})

	return out
}

// ScanCurvature flags every grid point with |R_00| > Threshold and reports
// it with mass |R_00| dx^3 at its physical position, in grid order.
func ScanCurvature(metric *field.TensorField, cfg ScanConfig) []BlackHole {
	g := metric.Grid()
	ricci := Ricci(metric, cfg.Workers)
	dx3 := g.Dx() * g.Dx() * g.Dx()

	var holes []BlackHole
	for p := 0; p < g.Points(); p++ {
		r00 := ricci.Component(p, 0, 0)
		if !(math.Abs(r00) > cfg.Threshold) {
			continue
		}
		i, j, k := g.Unindex(p)
		holes = append(holes, BlackHole{
			Index:     [3]int{i, j, k},
			Position:  g.Position(i, j, k),
			Curvature: r00,
			Mass:      math.Abs(r00) * dx3,
		})
	}
	return holes
}
