package sim

import (
	"errors"

	"github.com/san-kum/particlebox/internal/config"
	"github.com/san-kum/particlebox/internal/physics"
)

var ErrNotInitialized = errors.New("sim: simulator not initialized")

// FrameStats describes one Tick.
type FrameStats struct {
	Frame    int
	Contacts int
	Clamped  int
}

// Metric accumulates a scalar over the frames of a run.
type Metric interface {
	Name() string
	Observe(st *physics.State, stats FrameStats)
	Value() float64
	Reset()
}

// Observer sees every frame after it is stepped. The state must not be retained.
type Observer interface {
	OnFrame(st *physics.State, stats FrameStats)
}

// RunConfig drives a headless run.
type RunConfig struct {
	Frames int
	Width  float64
	Height float64
	Global config.Global
}

// Sample is the per-frame record kept by Run.
type Sample struct {
	Frame         int
	KineticEnergy float64
	Momentum      float64
	Overlaps      int
	Clamped       int
}

type Result struct {
	Samples     []Sample
	Final       physics.State
	Spawn       physics.SpawnReport
	Metrics     map[string]float64
	FramesTaken int
	Clamped     int
}
