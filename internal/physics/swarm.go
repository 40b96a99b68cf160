package physics

import (
	"github.com/san-kum/particlebox/internal/config"
	"github.com/san-kum/particlebox/internal/dynamo"
)

// DualRingSwarm confines two populations between independently rotating
// circular walls: Outer bodies live in the annulus, Inner bodies in the core.
// The groups never collide with each other.
type DualRingSwarm struct {
	Standard
	Params config.SwarmParams
}

func (*DualRingSwarm) Kind() config.ModelKind { return config.ModelDualRingSwarm }

func (m *DualRingSwarm) Spin(st *State, env *Env) {
	m.Standard.Spin(st, env)
	st.InnerRotation += m.Params.InnerRotationSpeed * env.Global.RotationMultiplier * env.Dt
}

func (m *DualRingSwarm) Boundary(st *State, env *Env) Container {
	if env.Cfg.CanvasBounds {
		return Rect{HalfW: env.Width / 2, HalfH: env.Height / 2}
	}
	outer := env.ShapeRadius()
	return DualRing{
		OuterR:    outer,
		InnerR:    outer * m.Params.InnerRadius,
		OuterSpin: env.Cfg.RotationSpeed,
		InnerSpin: m.Params.InnerRotationSpeed,
		Dt:        env.Dt,
	}
}

func (*DualRingSwarm) Separated(a, b *Body) bool { return a.Group != b.Group }

// DualRing is the pair of concentric walls used by DualRingSwarm.
//
// Every reflecting contact also adds a tangential kick of spin·R·0.05·dt, a
// discrete stand-in for a rotating wall dragging the bodies it touches.
type DualRing struct {
	OuterR, InnerR       float64
	OuterSpin, InnerSpin float64
	Dt                   float64
}

func (d DualRing) Resolve(b *Body, e float64) {
	dist := b.Pos.Len()
	if dist+b.Radius > d.OuterR {
		n := b.Pos.Scale(-1).Normalize()
		d.wall(b, n, dist+b.Radius-d.OuterR, e, d.OuterSpin*d.OuterR*0.5)
		dist = b.Pos.Len()
	}

	if b.Group == Inner {
		if dist+b.Radius > d.InnerR {
			n := b.Pos.Scale(-1).Normalize()
			d.wall(b, n, dist+b.Radius-d.InnerR, e, d.InnerSpin*d.InnerR*0.5)
		}
		return
	}

	if dist-b.Radius < d.InnerR {
		n := dynamo.Vec2{X: 1}
		if dist > 0 {
			n = b.Pos.Scale(1 / dist)
		}
		d.wall(b, n, d.InnerR-(dist-b.Radius), e, d.InnerSpin*d.InnerR*0.5)
	}
}

func (d DualRing) wall(b *Body, n dynamo.Vec2, depth, e, wallSpeed float64) {
	b.Pos = b.Pos.Add(n.Scale(depth))
	if b.Vel.Dot(n) < 0 {
		b.Vel = b.Vel.Reflect(n).Scale(e)
		b.Vel = b.Vel.Add(n.Perp().Scale(wallSpeed * 0.1 * d.Dt))
	}
}
