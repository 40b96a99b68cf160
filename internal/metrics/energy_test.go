package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/particlebox/internal/dynamo"
	"github.com/san-kum/particlebox/internal/physics"
	"github.com/san-kum/particlebox/internal/sim"
)

func twoBodies(v float64) *physics.State {
	return &physics.State{Bodies: []physics.Body{
		{ID: "a", Pos: dynamo.Vec2{X: -20}, Vel: dynamo.Vec2{X: v}, Radius: 2},
		{ID: "b", Pos: dynamo.Vec2{X: 20}, Vel: dynamo.Vec2{X: -v}, Radius: 2},
	}}
}

func TestEnergyMean(t *testing.T) {
	m := NewEnergy()

	m.Observe(twoBodies(1), sim.FrameStats{})
	m.Observe(twoBodies(3), sim.FrameStats{})

	// KE = 2 * 0.5 * r² * v² = 4v²
	expected := (4.0 + 36.0) / 2
	if math.Abs(m.Value()-expected) > 1e-9 {
		t.Errorf("expected energy %f, got %f", expected, m.Value())
	}
}

func TestEnergyReset(t *testing.T) {
	m := NewEnergy()

	m.Observe(twoBodies(1), sim.FrameStats{})
	if m.Value() == 0 {
		t.Error("expected non-zero energy")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift()

	m.Observe(twoBodies(2), sim.FrameStats{})
	m.Observe(twoBodies(1), sim.FrameStats{})
	m.Observe(twoBodies(2), sim.FrameStats{})

	if math.Abs(m.Value()-0.75) > 1e-9 {
		t.Errorf("expected max drift 0.75, got %f", m.Value())
	}
}

func TestMomentumCancels(t *testing.T) {
	m := NewMomentum()
	m.Observe(twoBodies(5), sim.FrameStats{})

	if m.Value() > 1e-12 {
		t.Errorf("opposite velocities should cancel, got %f", m.Value())
	}
}

func TestStability(t *testing.T) {
	s := NewStability()
	if s.Value() != 1 {
		t.Error("expected full stability before any frame")
	}

	s.Observe(nil, sim.FrameStats{})
	s.Observe(nil, sim.FrameStats{Clamped: 2})
	s.Observe(nil, sim.FrameStats{})
	s.Observe(nil, sim.FrameStats{})

	if s.Value() != 0.75 || s.Clamped() != 2 {
		t.Errorf("got stability %f clamped %d", s.Value(), s.Clamped())
	}
}

func TestOverlap(t *testing.T) {
	st := &physics.State{Bodies: []physics.Body{
		{Pos: dynamo.Vec2{X: 0}, Radius: 5},
		{Pos: dynamo.Vec2{X: 6}, Radius: 5},
		{Pos: dynamo.Vec2{X: 40}, Radius: 5},
	}}
	o := NewOverlap(physics.Standard{}, 0.5)

	o.Observe(st, sim.FrameStats{})
	if o.Value() != 1 {
		t.Errorf("expected 1 overlapping pair, got %f", o.Value())
	}

	st.Bodies[1].Pos.X = 30
	o.Observe(st, sim.FrameStats{})
	if o.Value() != 1 {
		t.Error("overlap metric should keep the worst frame")
	}
}

func TestStandardSet(t *testing.T) {
	names := map[string]bool{}
	for _, m := range Standard(physics.Standard{}) {
		names[m.Name()] = true
	}
	for _, want := range []string{"energy", "energy_drift", "momentum", "stability", "overlaps"} {
		if !names[want] {
			t.Errorf("missing metric %s", want)
		}
	}
}
