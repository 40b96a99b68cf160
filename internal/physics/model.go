package physics

import (
	"math"

	"github.com/san-kum/particlebox/internal/config"
)

// SubSteps is the number of integration steps per rendered frame.
const SubSteps = 8

// ShapeScale sizes polygon, star and ring containers relative to the smaller canvas side.
const ShapeScale = 0.45

// Env carries the per-sub-step inputs shared by every body.
type Env struct {
	Cfg    *config.Simulation
	Global config.Global
	Width  float64
	Height float64
	Dt     float64
}

func (e *Env) ShapeRadius() float64 { return math.Min(e.Width, e.Height) * ShapeScale }

func (e *Env) Restitution() float64 { return e.Cfg.Restitution * e.Global.BouncinessMultiplier }

func (e *Env) gravity() float64 { return e.Cfg.Gravity * e.Global.GravityMultiplier * e.Dt }

// Model is the closed set of force models. Each variant owns how bodies are
// accelerated, damped and contained; the integrator calls it once per body per
// sub-step and never branches on the model kind itself.
type Model interface {
	Kind() config.ModelKind

	// Spin advances the container angles by one sub-step.
	Spin(st *State, env *Env)

	// Force applies the model's velocity change for one sub-step, before friction.
	Force(b *Body, env *Env)

	// Friction is the linear damping rate applied as v *= 1 - rate*dt.
	Friction(env *Env) float64

	// Boundary returns the container for the angles already advanced by Spin.
	Boundary(st *State, env *Env) Container

	// Separated reports whether a and b must never collide with each other.
	Separated(a, b *Body) bool

	sealed()
}

// NewModel picks the variant named by cfg. A model whose parameter block is
// missing runs as Standard.
func NewModel(cfg *config.Simulation) Model {
	switch cfg.Model {
	case config.ModelSSTHydrogen:
		if cfg.SST != nil {
			return &SSTHydrogen{Params: *cfg.SST}
		}
	case config.ModelDualRingSwarm:
		if cfg.Swarm != nil {
			return &DualRingSwarm{Params: *cfg.Swarm}
		}
	case config.ModelFluidVortex:
		if cfg.Vortex != nil {
			return &FluidVortex{Params: *cfg.Vortex}
		}
	}
	return Standard{}
}
