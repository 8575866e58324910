package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/field"
)

func mustGrid(t *testing.T, n int, l float64) field.Grid {
	t.Helper()
	g, err := field.NewGrid(n, l)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	return g
}

func allZero(values []float64) bool {
	for _, v := range values {
		if v != 0 {
			return false
		}
	}
	return true
}

func TestStressEnergy_ZeroMatter(t *testing.T) {
	g := mustGrid(t, 4, 1.0)
	m := Vacuum(g)

	T, err := NewComputer(2).StressEnergy(m.Density, m.Pressure, m.Velocity)
	if err != nil {
		t.Fatalf("StressEnergy: %v", err)
	}
	if !allZero(T.Data()) {
		t.Error("expected all-zero stress-energy for vacuum")
	}
}

func TestStressEnergy_Components(t *testing.T) {
	g := mustGrid(t, 2, 1.0)
	m := Vacuum(g)
	p := g.Index(1, 0, 1)
	m.Density.Data()[p] = 2
	m.Pressure.Data()[p] = 0.5
	copy(m.Velocity.Point(p), []float64{1, 2, 0})

	T, err := NewComputer(1).StressEnergy(m.Density, m.Pressure, m.Velocity)
	if err != nil {
		t.Fatalf("StressEnergy: %v", err)
	}

	e := 2.0 * (1 + 5)
	ep := 0.5 + e
	v := []float64{1, 2, 0}
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			want := e * v[a] * v[b]
			if a == b {
				want += ep
			}
			if got := T.Component(p, a, b); math.Abs(got-want) > 1e-12 {
				t.Errorf("T[%d][%d] = %v, want %v", a, b, got, want)
			}
		}
		if got := T.Component(p, a, 3); got != 2*v[a] {
			t.Errorf("T[%d][3] = %v, want %v", a, got, 2*v[a])
		}
	}
	if got := T.Component(p, 3, 3); got != e {
		t.Errorf("T[3][3] = %v, want %v", got, e)
	}
}

func TestStressEnergy_Symmetric(t *testing.T) {
	g := mustGrid(t, 5, 2.0)
	m := Rotating(g, 1.0, 0.4, 1.5, 0.3)

	T, err := NewComputer(3).StressEnergy(m.Density, m.Pressure, m.Velocity)
	if err != nil {
		t.Fatalf("StressEnergy: %v", err)
	}
	for p := 0; p < g.Points(); p++ {
		for a := 0; a < 3; a++ {
			if T.Component(p, a, 3) != T.Component(p, 3, a) {
				t.Fatalf("point %d: T[%d][3] != T[3][%d]", p, a, a)
			}
		}
	}
	if !T.IsSymmetric(1e-12) {
		t.Error("expected fully symmetric stress-energy")
	}
}

func TestStressEnergy_Mismatch(t *testing.T) {
	a := Vacuum(mustGrid(t, 3, 1.0))
	b := Vacuum(mustGrid(t, 4, 1.0))

	_, err := NewComputer(1).StressEnergy(a.Density, b.Pressure, a.Velocity)
	if !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestMetric_ZeroFieldGuard(t *testing.T) {
	g := mustGrid(t, 3, 1.0)
	m := Gaussian(g, 1.0, 0.3, 0.2)
	c := NewComputer(2)

	T, _ := c.StressEnergy(m.Density, m.Pressure, m.Velocity)
	metric, err := c.Metric(field.NewVector(g), T)
	if err != nil {
		t.Fatalf("Metric: %v", err)
	}

	for p := 0; p < g.Points(); p++ {
		for a := 0; a < field.Rank; a++ {
			for b := 0; b < field.Rank; b++ {
				want := 0.0
				if a == b && a < 3 {
					want = 1
				}
				got := metric.Component(p, a, b)
				if math.IsNaN(got) || got != want {
					t.Fatalf("point %d: metric[%d][%d] = %v, want %v", p, a, b, got, want)
				}
			}
		}
	}
}

func TestMetric_NonZeroField(t *testing.T) {
	g := mustGrid(t, 1, 1.0)
	grav := field.NewVector(g)
	copy(grav.Point(0), []float64{0, 2, 0})

	T := field.NewTensor(g)
	T.Point(0)[0] = 3
	T.Point(0)[5] = 1

	metric, err := NewComputer(1).Metric(grav, T)
	if err != nil {
		t.Fatalf("Metric: %v", err)
	}

	// 2 G_b / |G|^2 = (0, 1, 0) added to each row
	want := [3][3]float64{{1, 1, 0}, {0, 2, 0}, {0, 1, 1}}
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			if got := metric.Component(0, a, b); got != want[a][b] {
				t.Errorf("g^-1[%d][%d] = %v, want %v", a, b, got, want[a][b])
			}
		}
	}
	if got := metric.Component(0, 3, 3); got != -1 {
		t.Errorf("metric[3][3] = %v, want -1", got)
	}
}

func TestGravity_UniformInputs(t *testing.T) {
	g := mustGrid(t, 4, 1.0)
	metric := field.NewTensor(g)
	stress := field.NewTensor(g)
	for p := 0; p < g.Points(); p++ {
		for c := 0; c < field.Rank*field.Rank; c++ {
			metric.Point(p)[c] = float64(c%5) - 1.5
			stress.Point(p)[c] = 0.25 * float64(c)
		}
	}

	grav, err := NewComputer(3).Gravity(metric, stress)
	if err != nil {
		t.Fatalf("Gravity: %v", err)
	}

	ref := grav.Point(0)
	for p := 1; p < g.Points(); p++ {
		for l := 0; l < 3; l++ {
			if grav.Point(p)[l] != ref[l] {
				t.Fatalf("point %d component %d = %v, want %v", p, l, grav.Point(p)[l], ref[l])
			}
		}
	}
}

func TestGravity_TemporalMetricGradient(t *testing.T) {
	const slope = 0.8
	const energy = 1.25

	g := mustGrid(t, 5, 2.0)
	metric := field.NewTensor(g)
	stress := field.NewTensor(g)
	for p := 0; p < g.Points(); p++ {
		i, _, _ := g.Unindex(p)
		metric.Point(p)[field.Rank*3+3] = slope * g.Coord(i)
		stress.Point(p)[field.Rank*3+3] = energy
	}

	grav, err := NewComputer(2).Gravity(metric, stress)
	if err != nil {
		t.Fatalf("Gravity: %v", err)
	}

	want := [3]float64{-2 * math.Pi * energy * slope, 0, 0}
	for p := 0; p < g.Points(); p++ {
		for l := 0; l < 3; l++ {
			if math.Abs(grav.Point(p)[l]-want[l]) > 1e-9 {
				t.Fatalf("point %d component %d = %v, want %v", p, l, grav.Point(p)[l], want[l])
			}
		}
	}
}

func TestGravity_WorkerIndependent(t *testing.T) {
	g := mustGrid(t, 6, 1.0)
	m := Rotating(g, 2.0, 0.3, 0.7, 0.1)

	run := func(workers int) []float64 {
		c := NewComputer(workers)
		T, _ := c.StressEnergy(m.Density, m.Pressure, m.Velocity)
		grav := field.NewVector(g)
		for p := 0; p < g.Points(); p++ {
			i, j, k := g.Unindex(p)
			copy(grav.Point(p), []float64{float64(i) * 0.1, float64(j) * 0.2, float64(k) * 0.05})
		}
		metric, _ := c.Metric(grav, T)
		out, err := c.Gravity(metric, T)
		if err != nil {
			t.Fatalf("Gravity: %v", err)
		}
		return out.Data()
	}

	serial, parallel := run(1), run(8)
	for i := range serial {
		if serial[i] != parallel[i] {
			t.Fatalf("index %d differs: %v vs %v", i, serial[i], parallel[i])
		}
	}
}

func TestTestParticle_Derive(t *testing.T) {
	g := mustGrid(t, 3, 2.0)
	grav := field.NewVector(g)
	copy(grav.At(2, 1, 0), []float64{1, -1, 0.5})

	tp := NewTestParticle(grav)
	d := tp.Derive(dynamo.State{0.9, 0.1, -0.8, 3, 4, 5}, 0)
	want := dynamo.State{3, 4, 5, 1, -1, 0.5}
	for i := range want {
		if d[i] != want[i] {
			t.Errorf("Derive[%d] = %v, want %v", i, d[i], want[i])
		}
	}
}

func TestMatterPresets(t *testing.T) {
	g := mustGrid(t, 4, 1.0)

	if Vacuum(g).TotalMass() != 0 {
		t.Error("vacuum should have zero mass")
	}

	d := Dust(g, 2.0)
	if math.Abs(d.TotalMass()-2.0*g.Dx()*g.Dx()*g.Dx()*64) > 1e-12 {
		t.Errorf("dust mass = %v", d.TotalMass())
	}

	for name, m := range map[string]*Matter{
		"gaussian": Gaussian(g, 1, 0.2, 0.1),
		"rotating": Rotating(g, 1, 0.2, 1, 0.1),
		"shell":    Shell(g, 1, 0.3, 0.1, 0),
	} {
		if err := m.Validate(); err != nil {
			t.Errorf("%s: %v", name, err)
		}
		if m.TotalMass() <= 0 {
			t.Errorf("%s: expected positive mass", name)
		}
	}

	bad := &Matter{Density: field.NewScalar(g)}
	if err := bad.Validate(); !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}
