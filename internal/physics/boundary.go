package physics

import (
	"github.com/san-kum/particlebox/internal/config"
	"github.com/san-kum/particlebox/internal/dynamo"
)

// polygonNudge is the extra inward velocity added after a polygon wall bounce
// so bodies sliding along a rotating edge do not stick to it.
const polygonNudge = 0.1

// starInnerRatio is the inner vertex radius of a star as a fraction of the outer.
const starInnerRatio = 0.4

// Container keeps a single body inside the simulation region. Resolve applies
// positional correction first and then reflects the velocity scaled by e.
type Container interface {
	Resolve(b *Body, e float64)
}

// shapeContainer picks the container for cfg: canvas bounds take precedence,
// then circle (or forced circle), then polygon or star.
func shapeContainer(st *State, env *Env, forceCircle bool) Container {
	if env.Cfg.CanvasBounds {
		return Rect{HalfW: env.Width / 2, HalfH: env.Height / 2}
	}
	r := env.ShapeRadius()
	if forceCircle || env.Cfg.Shape == config.ShapeCircle {
		return Circle{R: r}
	}

	n := env.Cfg.Vertices
	if n == 0 {
		n = env.Cfg.Shape.VertexCount()
	}
	if env.Cfg.Shape == config.ShapeStar {
		if n == 0 {
			n = 5
		}
		return Polygon{Verts: dynamo.Star(n, r, r*starInnerRatio, dynamo.Vec2{}, st.Rotation)}
	}
	if n < 3 {
		n = 4
	}
	return Polygon{Verts: dynamo.Polygon(n, r, dynamo.Vec2{}, st.Rotation)}
}

// Rect is the axis-aligned canvas box centered on the origin.
type Rect struct {
	HalfW, HalfH float64
}

func (r Rect) Resolve(b *Body, e float64) {
	if b.Pos.X+b.Radius > r.HalfW {
		b.Pos.X = r.HalfW - b.Radius
		b.Vel.X *= -e
	}
	if b.Pos.X-b.Radius < -r.HalfW {
		b.Pos.X = -r.HalfW + b.Radius
		b.Vel.X *= -e
	}
	if b.Pos.Y+b.Radius > r.HalfH {
		b.Pos.Y = r.HalfH - b.Radius
		b.Vel.Y *= -e
	}
	if b.Pos.Y-b.Radius < -r.HalfH {
		b.Pos.Y = -r.HalfH + b.Radius
		b.Vel.Y *= -e
	}
}

// Circle is a disc of radius R centered on the origin.
type Circle struct {
	R float64
}

func (c Circle) Resolve(b *Body, e float64) {
	dist := b.Pos.Len()
	if dist+b.Radius <= c.R {
		return
	}
	n := b.Pos.Scale(-1).Normalize()
	b.Pos = b.Pos.Add(n.Scale(dist + b.Radius - c.R))
	if b.Vel.Dot(n) < 0 {
		b.Vel = b.Vel.Reflect(n).Scale(e)
	}
}

// Polygon is a closed outline around the origin; stars use it too.
// Each edge is treated as an infinite wall facing the origin.
type Polygon struct {
	Verts []dynamo.Vec2
}

func (p Polygon) Resolve(b *Body, e float64) {
	for i := range p.Verts {
		p1 := p.Verts[i]
		p2 := p.Verts[(i+1)%len(p.Verts)]
		n := p2.Sub(p1).Perp().Normalize()
		if n.Dot(p1.Scale(-1)) < 0 {
			n = n.Scale(-1)
		}

		dist := b.Pos.Sub(p1).Dot(n)
		if dist >= b.Radius {
			continue
		}
		b.Pos = b.Pos.Add(n.Scale(b.Radius - dist))
		if b.Vel.Dot(n) < 0 {
			b.Vel = b.Vel.Reflect(n).Scale(e)
			b.Vel = b.Vel.Add(n.Scale(polygonNudge))
		}
	}
}
