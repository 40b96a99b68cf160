package physics

import (
	"math"

	"github.com/san-kum/particlebox/internal/config"
)

// sstSpeedDamping is applied every sub-step while a body is above MaxSpeed.
const sstSpeedDamping = 0.9

// SSTHydrogen pulls every body toward the center with a softened inverse-square
// force f = λr / (r² + rc²)^1.5 inside a frictionless circular container.
type SSTHydrogen struct {
	Standard
	Params config.SSTParams
}

func (*SSTHydrogen) Kind() config.ModelKind { return config.ModelSSTHydrogen }

// Accel returns the central acceleration magnitude at distance r.
func (m *SSTHydrogen) Accel(r float64) float64 {
	rc := m.Params.CoreRadius
	return m.Params.Coupling * r / math.Pow(r*r+rc*rc, 1.5)
}

func (m *SSTHydrogen) Force(b *Body, env *Env) {
	r := b.Pos.Len()
	if r > 0 {
		inward := b.Pos.Scale(-1 / r)
		b.Vel = b.Vel.Add(inward.Scale(m.Accel(r) * env.Global.GravityMultiplier * env.Dt))
	}

	// speed limit, not a force; skipped while paused
	if m.Params.MaxSpeed > 0 && env.Dt > 0 && b.Vel.Len() > m.Params.MaxSpeed {
		b.Vel = b.Vel.Scale(sstSpeedDamping)
	}
}

func (*SSTHydrogen) Friction(*Env) float64 { return 0 }

func (*SSTHydrogen) Boundary(st *State, env *Env) Container {
	return shapeContainer(st, env, true)
}
