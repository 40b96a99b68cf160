package sim

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/particlebox/internal/config"
	"github.com/san-kum/particlebox/internal/dynamo"
)

// Grid holds one Simulator per card and ticks them in parallel under a single
// shared Global. Methods must be called from one goroutine.
type Grid struct {
	sims   []*Simulator
	global config.Global
	paused bool
	stats  []FrameStats
}

// NewGrid initializes a simulator per card. Card i spawns from seed+i; a zero
// seed uses the clock.
func NewGrid(cards []config.Simulation, w, h float64, seed int64, log *slog.Logger) (*Grid, error) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := &Grid{
		sims:   make([]*Simulator, len(cards)),
		global: config.DefaultGlobal(),
		stats:  make([]FrameStats, len(cards)),
	}
	for i, card := range cards {
		s := New(WithSeed(seed+int64(i)), WithLogger(log))
		if err := s.Initialize(card, w, h); err != nil {
			return nil, fmt.Errorf("card %d (%s): %w", i, card.Name, err)
		}
		g.sims[i] = s
	}
	return g, nil
}

func (g *Grid) Len() int { return len(g.sims) }

func (g *Grid) At(i int) *Simulator { return g.sims[i] }

func (g *Grid) Global() config.Global { return g.global }

func (g *Grid) SetGlobal(global config.Global) error {
	if err := global.Validate(); err != nil {
		return err
	}
	g.global = global
	return nil
}

// TogglePause flips between the configured time scale and zero.
func (g *Grid) TogglePause() bool {
	g.paused = !g.paused
	return g.paused
}

func (g *Grid) Paused() bool { return g.paused }

func (g *Grid) effective() config.Global {
	if g.paused {
		e := g.global
		e.TimeScale = 0
		return e
	}
	return g.global
}

// Tick advances every card by one frame and returns their stats in card order.
// The returned slice is reused by the next call.
func (g *Grid) Tick(w, h float64) []FrameStats {
	global := g.effective()
	dynamo.ParallelFor(len(g.sims), 1, func(start, end int) {
		for i := start; i < end; i++ {
			g.stats[i] = g.sims[i].Tick(global, w, h)
		}
	})
	return g.stats
}

// Reset re-spawns card i with its current configuration.
func (g *Grid) Reset(i int) error {
	s := g.sims[i]
	return s.Reconfigure(s.Config())
}

// Edit applies cfg to card i, re-spawning only when the change needs it.
func (g *Grid) Edit(i int, cfg config.Simulation) (bool, error) {
	s := g.sims[i]
	if config.RespawnRequired(s.Config(), cfg) {
		return true, s.Reconfigure(cfg)
	}
	return false, s.Update(cfg)
}
