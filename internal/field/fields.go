package field

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Rank is the dimension of the spacetime tensors: three spatial axes and time.
const Rank = 4

// Time is the temporal tensor index.
const Time = 3

type ScalarField struct {
	grid   Grid
	values []float64
}

func NewScalar(g Grid) *ScalarField {
	return &ScalarField{grid: g, values: make([]float64, g.Points())}
}

// ScalarFrom wraps values without copying. len(values) must equal g.Points().
func ScalarFrom(g Grid, values []float64) (*ScalarField, error) {
	if len(values) != g.Points() {
		return nil, mismatch(len(values), g.Points())
	}
	return &ScalarField{grid: g, values: values}, nil
}

func (s *ScalarField) Grid() Grid             { return s.grid }
func (s *ScalarField) Data() []float64        { return s.values }
func (s *ScalarField) At(i, j, k int) float64 { return s.values[s.grid.Index(i, j, k)] }
func (s *ScalarField) Set(i, j, k int, v float64) {
	s.values[s.grid.Index(i, j, k)] = v
}

type VectorField struct {
	grid   Grid
	values []float64
}

func NewVector(g Grid) *VectorField {
	return &VectorField{grid: g, values: make([]float64, 3*g.Points())}
}

func VectorFrom(g Grid, values []float64) (*VectorField, error) {
	if len(values) != 3*g.Points() {
		return nil, mismatch(len(values), 3*g.Points())
	}
	return &VectorField{grid: g, values: values}, nil
}

func (v *VectorField) Grid() Grid      { return v.grid }
func (v *VectorField) Data() []float64 { return v.values }

// Point returns the 3 components stored at flat index p; the slice aliases the field.
func (v *VectorField) Point(p int) []float64 { return v.values[3*p : 3*p+3 : 3*p+3] }

func (v *VectorField) At(i, j, k int) []float64 { return v.Point(v.grid.Index(i, j, k)) }

// Vec returns a gonum view of the vector at (i, j, k).
func (v *VectorField) Vec(i, j, k int) *mat.VecDense {
	return mat.NewVecDense(3, v.At(i, j, k))
}

// Norm returns |v| at every point as a scalar field.
func (v *VectorField) Norm() *ScalarField {
	out := NewScalar(v.grid)
	for p := range out.values {
		out.values[p] = floats.Norm(v.Point(p), 2)
	}
	return out
}

type TensorField struct {
	grid   Grid
	values []float64
}

func NewTensor(g Grid) *TensorField {
	return &TensorField{grid: g, values: make([]float64, Rank*Rank*g.Points())}
}

func TensorFrom(g Grid, values []float64) (*TensorField, error) {
	if len(values) != Rank*Rank*g.Points() {
		return nil, mismatch(len(values), Rank*Rank*g.Points())
	}
	return &TensorField{grid: g, values: values}, nil
}

func (t *TensorField) Grid() Grid      { return t.grid }
func (t *TensorField) Data() []float64 { return t.values }

// Point returns the row-major 4x4 block at flat index p; the slice aliases the field.
func (t *TensorField) Point(p int) []float64 {
	const size = Rank * Rank
	return t.values[size*p : size*p+size : size*p+size]
}

func (t *TensorField) At(i, j, k int) []float64 { return t.Point(t.grid.Index(i, j, k)) }

// Component returns T[a][b] at flat index p.
func (t *TensorField) Component(p, a, b int) float64 {
	return t.values[Rank*Rank*p+Rank*a+b]
}

// Matrix returns a gonum view of the 4x4 tensor at (i, j, k). Writes through
// the view modify the field.
func (t *TensorField) Matrix(i, j, k int) *mat.Dense {
	return mat.NewDense(Rank, Rank, t.At(i, j, k))
}

// SpatialSum is the sum of the 3x3 spatial block at flat index p.
func (t *TensorField) SpatialSum(p int) float64 {
	block := t.Point(p)
	sum := 0.0
	for a := 0; a < 3; a++ {
		sum += floats.Sum(block[Rank*a : Rank*a+3])
	}
	return sum
}

// IsSymmetric reports whether every point's tensor is symmetric within tol.
func (t *TensorField) IsSymmetric(tol float64) bool {
	for p := 0; p < t.grid.Points(); p++ {
		m := mat.NewDense(Rank, Rank, t.Point(p))
		if !mat.EqualApprox(m, m.T(), tol) {
			return false
		}
	}
	return true
}
