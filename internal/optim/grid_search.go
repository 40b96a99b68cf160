package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/particlebox/internal/config"
	"github.com/san-kum/particlebox/internal/metrics"
	"github.com/san-kum/particlebox/internal/sim"
)

// ErrNoCandidate is returned when every grid point was rejected.
var ErrNoCandidate = errors.New("optim: no valid parameter combination")

// Objective scores one card. Lower is better.
type Objective func(ctx context.Context, card config.Simulation) (float64, error)

// GridSearch tries every combination of the given card parameter values.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search returns the parameter values with the lowest objective. Combinations
// the card rejects are skipped; a cancelled context stops the search.
func (g *GridSearch) Search(ctx context.Context, base config.Simulation, objective Objective) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("optim: %d parameters but %d ranges", len(g.paramNames), len(g.ranges))
	}

	best := math.Inf(1)
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), base, objective, &best, &bestParams)
	if err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, ErrNoCandidate
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base config.Simulation,
	objective Objective,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		card := base.Clone()
		for k, v := range current {
			if err := card.SetParam(k, v); err != nil {
				return err
			}
		}
		if card.Validate() != nil {
			return nil
		}

		val, err := objective(ctx, card)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return nil
		}
		if val < *best {
			*best = val
			*bestParams = make(map[string]float64, len(current))
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, next, base, objective, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}

// MetricObjective runs the card headlessly with the standard metrics attached
// and scores it by the named metric, or by its negation when maximize is set.
func MetricObjective(frames int, w, h float64, seed int64, metric string, maximize bool) Objective {
	return func(ctx context.Context, card config.Simulation) (float64, error) {
		s := sim.New(sim.WithSeed(seed))
		if err := s.Initialize(card, w, h); err != nil {
			return 0, err
		}
		for _, m := range metrics.Standard(s.Model()) {
			s.AddMetric(m)
		}

		result, err := s.Run(ctx, sim.RunConfig{Frames: frames, Width: w, Height: h, Global: config.DefaultGlobal()})
		if err != nil {
			return 0, err
		}
		val, ok := result.Metrics[metric]
		if !ok {
			return 0, fmt.Errorf("optim: unknown metric %q", metric)
		}
		if maximize {
			val = -val
		}
		return val, nil
	}
}
