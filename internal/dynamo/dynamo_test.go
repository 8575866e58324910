package dynamo

import (
	"errors"
	"math"
	"sync/atomic"
	"testing"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"empty", State{}, true},
		{"normal", State{1.0, 2.0, 3.0}, true},
		{"with NaN", State{1.0, math.NaN()}, false},
		{"with +Inf", State{1.0, math.Inf(1)}, false},
		{"with -Inf", State{1.0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestState_NormSub(t *testing.T) {
	a := State{4, 6}
	b := State{1, 2}
	if got := a.Sub(b).Norm(); math.Abs(got-5) > 1e-12 {
		t.Errorf("Sub/Norm = %v, want 5", got)
	}
}

func TestParallelFor_CoversRange(t *testing.T) {
	for _, workers := range []int{0, 1, 3, 16} {
		const n = 1000
		var hits [n]int32
		ParallelFor(n, 7, workers, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		for i, h := range hits {
			if h != 1 {
				t.Fatalf("workers=%d: index %d visited %d times", workers, i, h)
			}
		}
	}
}

func TestParallelFor_Empty(t *testing.T) {
	called := 0
	ParallelFor(0, 1, 4, func(start, end int) {
		called++
		if start != 0 || end != 0 {
			t.Errorf("unexpected range [%d,%d)", start, end)
		}
	})
	if called != 1 {
		t.Errorf("expected one serial call, got %d", called)
	}
}

func TestSimulationError_Unwrap(t *testing.T) {
	err := &SimulationError{Step: 3, Time: 0.5, Wrapped: ErrStepTooSmall}
	if !errors.Is(err, ErrStepTooSmall) {
		t.Error("SimulationError should unwrap to ErrStepTooSmall")
	}
}

func TestDefaultWorkers(t *testing.T) {
	if DefaultWorkers() < 1 {
		t.Error("DefaultWorkers must be positive")
	}
}
