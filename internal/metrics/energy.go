package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
)

func kinetic(x dynamo.State) float64 {
	return 0.5 * (x[3]*x[3] + x[4]*x[4] + x[5]*x[5])
}

// KineticEnergy is the mean specific kinetic energy over the samples.
type KineticEnergy struct {
	total   float64
	samples int
}

func NewKineticEnergy() *KineticEnergy { return &KineticEnergy{} }

func (e *KineticEnergy) Name() string { return "kinetic_energy" }

func (e *KineticEnergy) Observe(x dynamo.State, _ float64) {
	if len(x) < 6 {
		return
	}
	e.total += kinetic(x)
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *KineticEnergy) Reset() {
	e.total = 0
	e.samples = 0
}

// EnergyChange is the specific work done by the field: final minus initial
// kinetic energy.
type EnergyChange struct {
	initial, current float64
	samples          int
}

func NewEnergyChange() *EnergyChange { return &EnergyChange{} }

func (e *EnergyChange) Name() string { return "energy_change" }

func (e *EnergyChange) Observe(x dynamo.State, _ float64) {
	if len(x) < 6 {
		return
	}
	ke := kinetic(x)
	if e.samples == 0 {
		e.initial = ke
	}
	e.current = ke
	e.samples++
}

func (e *EnergyChange) Value() float64 { return e.current - e.initial }

func (e *EnergyChange) Reset() {
	e.initial, e.current = 0, 0
	e.samples = 0
}

type MaxSpeed struct {
	max float64
}

func NewMaxSpeed() *MaxSpeed { return &MaxSpeed{} }

func (m *MaxSpeed) Name() string { return "max_speed" }

func (m *MaxSpeed) Observe(x dynamo.State, _ float64) {
	if len(x) < 6 {
		return
	}
	m.max = math.Max(m.max, math.Sqrt(2*kinetic(x)))
}

func (m *MaxSpeed) Value() float64 { return m.max }
func (m *MaxSpeed) Reset()         { m.max = 0 }
