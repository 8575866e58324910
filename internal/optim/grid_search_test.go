package optim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/gravsim/internal/dynamo"
)

func TestGridSearchFindsMinimum(t *testing.T) {
	g, err := NewGridSearch([]string{"a", "b"}, [][]float64{{-1, 0, 1, 2}, {0, 3}})
	if err != nil {
		t.Fatal(err)
	}
	if g.Size() != 8 {
		t.Errorf("expected 8 combinations, got %d", g.Size())
	}

	obj := func(_ context.Context, p map[string]float64) (float64, error) {
		return math.Pow(p["a"]-1, 2) + math.Abs(p["b"]-3), nil
	}
	best, val, trials, err := g.Search(context.Background(), obj)
	if err != nil {
		t.Fatal(err)
	}
	if best["a"] != 1 || best["b"] != 3 || val != 0 {
		t.Errorf("expected a=1 b=3 val=0, got %v %f", best, val)
	}
	if len(trials) != 8 {
		t.Fatalf("expected 8 trials, got %d", len(trials))
	}
	if trials[0].Params["a"] != -1 || trials[0].Params["b"] != 0 || trials[1].Params["b"] != 3 {
		t.Errorf("trials not in row-major order: %v %v", trials[0].Params, trials[1].Params)
	}
}

func TestGridSearchSkipsFailures(t *testing.T) {
	g, _ := NewGridSearch([]string{"x"}, [][]float64{{1, 2, 3}})
	boom := errors.New("boom")
	obj := func(_ context.Context, p map[string]float64) (float64, error) {
		if p["x"] == 1 {
			return -100, boom
		}
		return p["x"], nil
	}

	best, val, trials, err := g.Search(context.Background(), obj)
	if err != nil {
		t.Fatal(err)
	}
	if best["x"] != 2 || val != 2 {
		t.Errorf("expected x=2, got %v %f", best, val)
	}
	if !errors.Is(trials[0].Err, boom) {
		t.Errorf("failed trial not recorded: %+v", trials[0])
	}
}

func TestGridSearchCanceled(t *testing.T) {
	g, _ := NewGridSearch([]string{"x"}, [][]float64{{1, 2}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, trials, err := g.Search(ctx, func(context.Context, map[string]float64) (float64, error) { return 0, nil })
	if !errors.Is(err, dynamo.ErrContextCanceled) {
		t.Errorf("expected ErrContextCanceled, got %v", err)
	}
	if len(trials) != 0 {
		t.Errorf("expected no trials, got %d", len(trials))
	}
}

func TestNewGridSearchValidation(t *testing.T) {
	if _, err := NewGridSearch([]string{"a"}, nil); !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
	if _, err := NewGridSearch([]string{"a"}, [][]float64{{}}); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
}
