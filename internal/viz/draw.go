package viz

import (
	"math"

	"github.com/san-kum/particlebox/internal/config"
	"github.com/san-kum/particlebox/internal/dynamo"
	"github.com/san-kum/particlebox/internal/physics"
)

// Viewport maps simulation coordinates, origin at the canvas center, to dots.
type Viewport struct {
	Scale  float64
	CX, CY float64
}

// Fit scales a w×h simulation canvas uniformly into c.
func Fit(c *Canvas, w, h float64) Viewport {
	dw, dh := c.Dots()
	scale := 1.0
	if w > 0 && h > 0 {
		scale = math.Min(float64(dw)/w, float64(dh)/h)
	}
	return Viewport{Scale: scale, CX: float64(dw) / 2, CY: float64(dh) / 2}
}

func (v Viewport) Point(p dynamo.Vec2) (int, int) {
	return int(math.Round(v.CX + p.X*v.Scale)), int(math.Round(v.CY + p.Y*v.Scale))
}

func (v Viewport) Length(l float64) int { return int(math.Round(l * v.Scale)) }

// DrawState clears c and draws the card's container at the state's rotation
// followed by every finite body in its theme color.
func DrawState(c *Canvas, st *physics.State, cfg *config.Simulation, w, h float64, theme Theme) {
	c.Clear()
	vp := Fit(c, w, h)

	model := physics.NewModel(cfg)
	env := &physics.Env{Cfg: cfg, Global: config.DefaultGlobal(), Width: w, Height: h}
	drawContainer(c, vp, model.Boundary(st, env), theme)

	for i := range st.Bodies {
		b := &st.Bodies[i]
		if !b.Valid() {
			continue
		}
		x, y := vp.Point(b.Pos)
		c.FillDisc(x, y, vp.Length(b.Radius), theme.Body(b.Tag))
	}
}

func drawContainer(c *Canvas, vp Viewport, wall physics.Container, theme Theme) {
	switch wall := wall.(type) {
	case physics.Rect:
		corners := []dynamo.Vec2{
			{X: -wall.HalfW, Y: -wall.HalfH},
			{X: wall.HalfW, Y: -wall.HalfH},
			{X: wall.HalfW, Y: wall.HalfH},
			{X: -wall.HalfW, Y: wall.HalfH},
		}
		drawLoop(c, vp, corners, theme)
	case physics.Circle:
		x, y := vp.Point(dynamo.Vec2{})
		c.DrawCircle(x, y, vp.Length(wall.R), theme.Wall, false)
	case physics.DualRing:
		x, y := vp.Point(dynamo.Vec2{})
		c.DrawCircle(x, y, vp.Length(wall.OuterR), theme.Wall, false)
		c.DrawCircle(x, y, vp.Length(wall.InnerR), theme.InnerWall, true)
	case physics.Polygon:
		drawLoop(c, vp, wall.Verts, theme)
	}
}

func drawLoop(c *Canvas, vp Viewport, pts []dynamo.Vec2, theme Theme) {
	for i := range pts {
		x0, y0 := vp.Point(pts[i])
		x1, y1 := vp.Point(pts[(i+1)%len(pts)])
		c.DrawLine(x0, y0, x1, y1, theme.Wall)
	}
}
