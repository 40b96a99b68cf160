//go:build !simdebug

package sim

import (
	"math"
	"testing"

	"github.com/san-kum/particlebox/internal/config"
	"github.com/san-kum/particlebox/internal/dynamo"
)

func TestTickClampsNonFinite(t *testing.T) {
	s := newTestSim(t, config.DefaultSimulation())
	s.state.Bodies[3].Vel = dynamo.Vec2{X: math.NaN(), Y: 0}

	stats := s.Tick(config.DefaultGlobal(), 400, 400)

	if stats.Clamped != 1 {
		t.Errorf("expected one clamped body, got %d", stats.Clamped)
	}
	for _, b := range s.State().Bodies {
		if !b.Valid() {
			t.Fatalf("body %s still non-finite", b.ID)
		}
	}
}
