// Package optim tunes flock parameters against a run objective.
package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/boidsim/internal/config"
	"github.com/san-kum/boidsim/internal/experiment"
	"github.com/san-kum/boidsim/internal/sim"
)

// Result-level objectives that are not registered metrics.
const (
	ObjectiveScore  = "score"
	ObjectiveHealth = "health"
)

// GridSearch tries every combination of the given values for the named
// flock parameters.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	registry   *experiment.Registry
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges, registry: experiment.NewRegistry()}
}

// Best is the winning parameter combination and its objective value.
type Best struct {
	Params map[string]float64
	Value  float64
	Runs   int
}

// Search runs base once per combination and keeps the one with the lowest
// objective, or the highest when maximize is set. objective names a
// registered metric, ObjectiveScore or ObjectiveHealth.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, objective string, maximize bool) (*Best, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, fmt.Errorf("optim: %d parameters but %d ranges", len(g.paramNames), len(g.ranges))
	}
	metrics := []string{objective}
	if objective == ObjectiveScore || objective == ObjectiveHealth {
		metrics = []string{"survivors"}
	} else if _, err := g.registry.GetMetric(objective, base); err != nil {
		return nil, err
	}

	best := &Best{Value: math.Inf(1)}
	if maximize {
		best.Value = math.Inf(-1)
	}

	var visit func(depth int, current map[string]float64) error
	visit = func(depth int, current map[string]float64) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if depth == len(g.paramNames) {
			val, err := g.evaluate(ctx, base, current, metrics, objective)
			if err != nil {
				return err
			}
			best.Runs++
			if (maximize && val > best.Value) || (!maximize && val < best.Value) {
				best.Value = val
				best.Params = make(map[string]float64, len(current))
				for k, v := range current {
					best.Params[k] = v
				}
			}
			return nil
		}

		name := g.paramNames[depth]
		for _, val := range g.ranges[depth] {
			current[name] = val
			if err := visit(depth+1, current); err != nil {
				return err
			}
		}
		delete(current, name)
		return nil
	}

	if err := visit(0, make(map[string]float64)); err != nil {
		return nil, err
	}
	return best, nil
}

func (g *GridSearch) evaluate(ctx context.Context, base *config.Config, params map[string]float64, metrics []string, objective string) (float64, error) {
	cfg := *base
	for name, val := range params {
		if err := cfg.Params.Set(name, val); err != nil {
			return 0, err
		}
	}

	exp := experiment.New(&cfg)
	if err := exp.Setup(g.registry, metrics, nil); err != nil {
		return 0, fmt.Errorf("optim %v: %w", params, err)
	}
	res, err := exp.Run(ctx)
	if err != nil {
		return 0, fmt.Errorf("optim %v: %w", params, err)
	}
	return objectiveValue(res, objective), nil
}

func objectiveValue(res *sim.Result, objective string) float64 {
	switch objective {
	case ObjectiveScore:
		return float64(res.Score)
	case ObjectiveHealth:
		return res.Health
	}
	return res.Metrics[objective]
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}
