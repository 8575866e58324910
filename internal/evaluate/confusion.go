// Package evaluate scores classifier predictions against ground truth.
package evaluate

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// Matrix is a k x k confusion matrix: rows are true classes, columns are
// predicted classes.
type Matrix struct {
	k      int
	counts *mat.Dense
}

func ConfusionMatrix(yTrue, yPred []int, k int) (*Matrix, error) {
	if len(yTrue) != len(yPred) {
		return nil, fmt.Errorf("%d true labels, %d predictions: %w", len(yTrue), len(yPred), dynamo.ErrDimensionMismatch)
	}
	if k < 1 {
		return nil, fmt.Errorf("k=%d: %w", k, dynamo.ErrParameterBounds)
	}

	counts := mat.NewDense(k, k, nil)
	for i := range yTrue {
		t, p := yTrue[i], yPred[i]
		if t < 0 || t >= k || p < 0 || p >= k {
			return nil, fmt.Errorf("sample %d: label (%d, %d) outside [0, %d): %w", i, t, p, k, dynamo.ErrParameterBounds)
		}
		counts.Set(t, p, counts.At(t, p)+1)
	}
	return &Matrix{k: k, counts: counts}, nil
}

func (m *Matrix) K() int                  { return m.k }
func (m *Matrix) At(t, p int) int         { return int(m.counts.At(t, p)) }
func (m *Matrix) Counts() mat.Matrix      { return m.counts }
func (m *Matrix) Total() int              { return int(mat.Sum(m.counts)) }
func (m *Matrix) Support(class int) int   { return int(floats.Sum(m.counts.RawRowView(class))) }
func (m *Matrix) Predicted(class int) int { return int(mat.Sum(m.counts.ColView(class))) }

// Normalize returns the matrix with each row divided by its sum. Rows of
// classes with no samples stay zero.
func (m *Matrix) Normalize() *mat.Dense {
	out := mat.DenseCopyOf(m.counts)
	for i := 0; i < m.k; i++ {
		row := out.RawRowView(i)
		if s := floats.Sum(row); s > 0 {
			floats.Scale(1/s, row)
		}
	}
	return out
}
