// Package optim sweeps simulation parameters over a grid of values.
package optim

import (
	"context"
	"fmt"
	"maps"
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// Objective evaluates one parameter combination. Lower is better.
type Objective func(ctx context.Context, params map[string]float64) (float64, error)

type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%d parameters, %d ranges: %w", len(params), len(ranges), dynamo.ErrDimensionMismatch)
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("parameter %s has no values: %w", params[i], dynamo.ErrParameterBounds)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Size is the number of combinations in the grid.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search evaluates every combination in row-major order of the parameter
// list. Failed trials are recorded and skipped when picking the best. It
// returns the best parameters, their value and all trials; the best
// parameters are nil when every trial failed.
func (g *GridSearch) Search(ctx context.Context, objective Objective) (map[string]float64, float64, []Trial, error) {
	best := math.Inf(1)
	var bestParams map[string]float64
	trials := make([]Trial, 0, g.Size())

	err := g.searchRecursive(ctx, 0, make(map[string]float64), objective, func(tr Trial) {
		trials = append(trials, tr)
		if tr.Err == nil && tr.Value < best {
			best = tr.Value
			bestParams = tr.Params
		}
	})
	return bestParams, best, trials, err
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	objective Objective,
	record func(Trial),
) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("grid search: %w", dynamo.ErrContextCanceled)
	}

	if depth == len(g.paramNames) {
		params := maps.Clone(current)
		val, err := objective(ctx, params)
		record(Trial{Params: params, Value: val, Err: err})
		return nil
	}

	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		current[name] = val
		if err := g.searchRecursive(ctx, depth+1, current, objective, record); err != nil {
			return err
		}
	}
	delete(current, name)
	return nil
}
