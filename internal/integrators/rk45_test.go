package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/gravsim/internal/dynamo"
)

type harmonicOscillator struct{}

func (h *harmonicOscillator) StateDim() int { return 2 }

func (h *harmonicOscillator) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (h *harmonicOscillator) Energy(x dynamo.State) float64 {
	return 0.5 * (x[0]*x[0] + x[1]*x[1])
}

func TestRK45_Step(t *testing.T) {
	integrator := NewRK45()
	dyn := &harmonicOscillator{}
	x := dynamo.State{1.0, 0.0}
	dt := 0.01

	for i := 0; i < 1000; i++ {
		x = integrator.Step(dyn, x, float64(i)*dt, dt)
	}

	if !x.IsValid() {
		t.Error("RK45 produced invalid state")
	}
}

func TestRK45_EnergyConservation(t *testing.T) {
	integrator := NewRK45()
	dyn := &harmonicOscillator{}
	x0 := dynamo.State{1.0, 0.0}

	initialEnergy := dyn.Energy(x0)
	x := x0.Clone()
	dt := 0.01

	for i := 0; i < 10000; i++ {
		x = integrator.Step(dyn, x, float64(i)*dt, dt)
	}

	drift := math.Abs(dyn.Energy(x)-initialEnergy) / initialEnergy
	if drift > 1e-6 {
		t.Errorf("RK45 energy drift too high: %e", drift)
	}
}

func TestRK45_AdaptiveStep(t *testing.T) {
	integrator := NewRK45()
	dyn := &harmonicOscillator{}
	x0 := dynamo.State{1.0, 0.0}

	x, ratio, newDt := integrator.StepAdaptive(dyn, x0, 0, 0.1, dynamo.Tolerance{Rel: 1e-8, Abs: 1e-8})

	if !x.IsValid() {
		t.Error("StepAdaptive produced invalid state")
	}
	if ratio < 0 || math.IsNaN(ratio) {
		t.Errorf("StepAdaptive returned invalid error ratio: %v", ratio)
	}
	if newDt <= 0 {
		t.Errorf("StepAdaptive returned invalid dt: %f", newDt)
	}
}

func TestRK45_ShrinksOnLooseStep(t *testing.T) {
	integrator := NewRK45()
	dyn := &harmonicOscillator{}

	_, ratio, newDt := integrator.StepAdaptive(dyn, dynamo.State{1, 0}, 0, 2.0, dynamo.Tolerance{Rel: 1e-10, Abs: 1e-10})
	if ratio <= 1 {
		t.Fatalf("expected rejected step, ratio=%v", ratio)
	}
	if newDt >= 2.0 {
		t.Errorf("expected smaller step, got %v", newDt)
	}
}
