package physics

import (
	"math"

	"github.com/san-kum/particlebox/internal/config"
)

// FluidVortex adds a counter-clockwise tangential drive to bodies inside the
// vortex radius, on top of standard gravity and friction.
type FluidVortex struct {
	Standard
	Params config.VortexParams
}

func (*FluidVortex) Kind() config.ModelKind { return config.ModelFluidVortex }

func (m *FluidVortex) Spin(st *State, env *Env) {
	m.Standard.Spin(st, env)
	st.InnerRotation += m.Params.VortexStrength * 0.05 * env.Global.RotationMultiplier * env.Dt
}

// Radius is the vortex influence radius in pixels for the given canvas.
func (m *FluidVortex) Radius(env *Env) float64 {
	ref := env.ShapeRadius()
	if env.Cfg.CanvasBounds {
		ref = math.Min(env.Width, env.Height) * 0.5
	}
	return ref * m.Params.VortexRadius
}

func (m *FluidVortex) Force(b *Body, env *Env) {
	m.Standard.Force(b, env)

	if b.Pos.Len() < m.Radius(env) {
		tangent := b.Pos.Perp().Normalize()
		drive := m.Params.VortexStrength * 0.1 * env.Global.RotationMultiplier * env.Dt
		b.Vel = b.Vel.Add(tangent.Scale(drive))
	}
}
