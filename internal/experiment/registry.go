package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/gravsim/internal/field"
	"github.com/san-kum/gravsim/internal/physics"
)

// MatterParams parameterizes the matter presets. Fields a preset does not
// use are ignored.
type MatterParams struct {
	Density float64
	W       float64
	Sigma   float64
	Omega   float64
	Radius  float64
	Width   float64
}

type Registry struct {
	matter map[string]func(field.Grid, MatterParams) *physics.Matter
}

func NewRegistry() *Registry {
	r := &Registry{
		matter: make(map[string]func(field.Grid, MatterParams) *physics.Matter),
	}

	r.matter["vacuum"] = func(g field.Grid, _ MatterParams) *physics.Matter { return physics.Vacuum(g) }
	r.matter["dust"] = func(g field.Grid, p MatterParams) *physics.Matter { return physics.Dust(g, p.Density) }
	r.matter["gaussian"] = func(g field.Grid, p MatterParams) *physics.Matter {
		return physics.Gaussian(g, p.Density, p.Sigma, p.W)
	}
	r.matter["rotating"] = func(g field.Grid, p MatterParams) *physics.Matter {
		return physics.Rotating(g, p.Density, p.Sigma, p.Omega, p.W)
	}
	r.matter["shell"] = func(g field.Grid, p MatterParams) *physics.Matter {
		return physics.Shell(g, p.Density, p.Radius, p.Width, p.W)
	}

	return r
}

func (r *Registry) GetMatter(name string, g field.Grid, p MatterParams) (*physics.Matter, error) {
	fn, ok := r.matter[name]
	if !ok {
		return nil, fmt.Errorf("unknown matter preset: %s (available: %v)", name, r.ListMatter())
	}
	return fn(g, p), nil
}

func (r *Registry) ListMatter() []string {
	names := make([]string, 0, len(r.matter))
	for name := range r.matter {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
