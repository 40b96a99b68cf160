package optim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/particlebox/internal/config"
)

func TestGridSearchFindsMinimum(t *testing.T) {
	g := NewGridSearch(
		[]string{"gravity", "restitution"},
		[][]float64{{0, 0.1, 0.2, 0.3}, {0.5, 0.7, 0.9}},
	)

	calls := 0
	objective := func(_ context.Context, card config.Simulation) (float64, error) {
		calls++
		return math.Abs(card.Gravity-0.2) + math.Abs(card.Restitution-0.7), nil
	}

	params, score, err := g.Search(context.Background(), config.DefaultSimulation(), objective)
	if err != nil {
		t.Fatal(err)
	}
	if calls != 12 {
		t.Errorf("expected 12 evaluations, got %d", calls)
	}
	if params["gravity"] != 0.2 || params["restitution"] != 0.7 || score > 1e-12 {
		t.Errorf("best = %v (%f)", params, score)
	}
}

func TestGridSearchSkipsInvalid(t *testing.T) {
	g := NewGridSearch([]string{"friction"}, [][]float64{{-1, 2, 0.5}})

	seen := []float64{}
	objective := func(_ context.Context, card config.Simulation) (float64, error) {
		seen = append(seen, card.Friction)
		return 1, nil
	}

	params, _, err := g.Search(context.Background(), config.DefaultSimulation(), objective)
	if err != nil {
		t.Fatal(err)
	}
	if len(seen) != 1 || params["friction"] != 0.5 {
		t.Errorf("only friction 0.5 is valid, evaluated %v", seen)
	}

	g = NewGridSearch([]string{"friction"}, [][]float64{{-1, 2}})
	if _, _, err := g.Search(context.Background(), config.DefaultSimulation(), objective); !errors.Is(err, ErrNoCandidate) {
		t.Errorf("expected ErrNoCandidate, got %v", err)
	}
}

func TestGridSearchErrors(t *testing.T) {
	objective := func(context.Context, config.Simulation) (float64, error) { return 0, nil }

	g := NewGridSearch([]string{"gravity"}, nil)
	if _, _, err := g.Search(context.Background(), config.DefaultSimulation(), objective); err == nil {
		t.Error("expected mismatched ranges to fail")
	}

	g = NewGridSearch([]string{"coupling"}, [][]float64{{1}})
	if _, _, err := g.Search(context.Background(), config.DefaultSimulation(), objective); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("expected ErrInvalid for a parameter the card lacks, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g = NewGridSearch([]string{"gravity"}, [][]float64{{0.1}})
	if _, _, err := g.Search(ctx, config.DefaultSimulation(), objective); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestMetricObjective(t *testing.T) {
	card := config.DefaultSimulation()
	card.BallCount = 6

	still := card.Clone()
	still.InitialSpeed = 0
	still.Gravity = 0

	obj := MetricObjective(5, 400, 400, 1, "energy", true)
	moving, err := obj(context.Background(), card)
	if err != nil {
		t.Fatal(err)
	}
	resting, err := obj(context.Background(), still)
	if err != nil {
		t.Fatal(err)
	}
	if resting != 0 || moving >= 0 {
		t.Errorf("maximized energy scores: moving %f resting %f", moving, resting)
	}

	if _, err := MetricObjective(5, 400, 400, 1, "nope", false)(context.Background(), card); err == nil {
		t.Error("expected unknown metric error")
	}
}
