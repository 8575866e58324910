package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/field"
)

func inside(x dynamo.State, half float64) bool {
	return math.Abs(x[0]) <= half && math.Abs(x[1]) <= half && math.Abs(x[2]) <= half
}

// Containment is the fraction of samples inside the grid box. Outside it
// the field lookup clamps to the nearest face.
type Containment struct {
	half     float64
	violated int
	samples  int
}

func NewContainment(g field.Grid) *Containment {
	return &Containment{half: g.L() / 2}
}

func (c *Containment) Name() string { return "containment" }

func (c *Containment) Observe(x dynamo.State, _ float64) {
	c.samples++
	if !inside(x, c.half) {
		c.violated++
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violated)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violated = 0
	c.samples = 0
}

// Escape is the first sample time outside the grid box, or -1.
type Escape struct {
	half float64
	at   float64
}

func NewEscape(g field.Grid) *Escape {
	return &Escape{half: g.L() / 2, at: -1}
}

func (e *Escape) Name() string { return "escape_time" }

func (e *Escape) Observe(x dynamo.State, t float64) {
	if e.at < 0 && !inside(x, e.half) {
		e.at = t
	}
}

func (e *Escape) Value() float64 { return e.at }
func (e *Escape) Reset()         { e.at = -1 }
