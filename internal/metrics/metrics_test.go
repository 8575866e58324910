package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/field"
)

func TestKineticEnergy(t *testing.T) {
	m := NewKineticEnergy()
	m.Observe(dynamo.State{0, 0, 0, 1, 0, 0}, 0)
	m.Observe(dynamo.State{0, 0, 0, 0, 2, 2}, 1)

	if got, want := m.Value(), (0.5+4)/2; math.Abs(got-want) > 1e-12 {
		t.Errorf("expected %f, got %f", want, got)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}

	m.Observe(dynamo.State{1, 2}, 0)
	if m.Value() != 0 {
		t.Error("short states should be ignored")
	}
}

func TestEnergyChangeAndMaxSpeed(t *testing.T) {
	ec, ms := NewEnergyChange(), NewMaxSpeed()
	for i, v := range []float64{1, 3, 2} {
		x := dynamo.State{0, 0, 0, v, 0, 0}
		ec.Observe(x, float64(i))
		ms.Observe(x, float64(i))
	}
	if got := ec.Value(); math.Abs(got-1.5) > 1e-12 {
		t.Errorf("energy change: expected 1.5, got %f", got)
	}
	if got := ms.Value(); math.Abs(got-3) > 1e-12 {
		t.Errorf("max speed: expected 3, got %f", got)
	}
}

func TestEvaluate(t *testing.T) {
	g, err := field.NewGrid(4, 2.0)
	if err != nil {
		t.Fatal(err)
	}
	traj := &analysis.Trajectory{
		Times:      []float64{0, 1, 2, 3},
		Positions:  [][3]float64{{0, 0, 0}, {0.5, 0, 0}, {1.0, 0, 0}, {1.5, 0, 0}},
		Velocities: [][3]float64{{0.5, 0, 0}, {0.5, 0, 0}, {0.5, 0, 0}, {0.5, 0, 0}},
	}

	got := Evaluate(traj, Defaults(g)...)

	tests := []struct {
		name string
		want float64
	}{
		{"kinetic_energy", 0.125},
		{"energy_change", 0},
		{"max_speed", 0.5},
		{"containment", 0.75},
		{"escape_time", 3},
	}
	for _, tt := range tests {
		if v, ok := got[tt.name]; !ok || math.Abs(v-tt.want) > 1e-12 {
			t.Errorf("%s: expected %f, got %f (present %v)", tt.name, tt.want, v, ok)
		}
	}
}

func TestEscapeNever(t *testing.T) {
	g, _ := field.NewGrid(2, 1.0)
	e := NewEscape(g)
	e.Observe(dynamo.State{0.1, 0.1, 0.1, 0, 0, 0}, 5)
	if e.Value() != -1 {
		t.Errorf("expected -1, got %f", e.Value())
	}
}
