package physics

import (
	"math"
	"testing"

	"github.com/san-kum/particlebox/internal/config"
	"github.com/san-kum/particlebox/internal/dynamo"
)

func TestRectBounce(t *testing.T) {
	r := Rect{HalfW: 100, HalfH: 50}

	tests := []struct {
		name    string
		pos     dynamo.Vec2
		vel     dynamo.Vec2
		wantPos dynamo.Vec2
		wantVel dynamo.Vec2
	}{
		{"right", dynamo.Vec2{X: 98}, dynamo.Vec2{X: 5}, dynamo.Vec2{X: 95}, dynamo.Vec2{X: -4}},
		{"left", dynamo.Vec2{X: -99}, dynamo.Vec2{X: -5}, dynamo.Vec2{X: -95}, dynamo.Vec2{X: 4}},
		{"bottom", dynamo.Vec2{Y: 47}, dynamo.Vec2{Y: 5}, dynamo.Vec2{Y: 45}, dynamo.Vec2{Y: -4}},
		{"corner", dynamo.Vec2{X: 97, Y: -48}, dynamo.Vec2{X: 5, Y: -5}, dynamo.Vec2{X: 95, Y: -45}, dynamo.Vec2{X: -4, Y: 4}},
		{"inside", dynamo.Vec2{X: 10, Y: 10}, dynamo.Vec2{X: 5, Y: 5}, dynamo.Vec2{X: 10, Y: 10}, dynamo.Vec2{X: 5, Y: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Body{Pos: tt.pos, Vel: tt.vel, Radius: 5}
			r.Resolve(&b, 0.8)
			if b.Pos.Sub(tt.wantPos).Len() > 1e-12 {
				t.Errorf("pos = %v, want %v", b.Pos, tt.wantPos)
			}
			if b.Vel.Sub(tt.wantVel).Len() > 1e-12 {
				t.Errorf("vel = %v, want %v", b.Vel, tt.wantVel)
			}
		})
	}
}

func TestRectChecksEveryWall(t *testing.T) {
	r := Rect{HalfW: 4, HalfH: 50}
	b := Body{Pos: dynamo.Vec2{}, Vel: dynamo.Vec2{X: 3}, Radius: 5}

	r.Resolve(&b, 0.8)

	// right wall pushes to -1, then the left wall pushes back to 1
	if math.Abs(b.Pos.X-1) > 1e-12 {
		t.Errorf("pos = %v, want x=1", b.Pos)
	}
	if math.Abs(b.Vel.X-1.92) > 1e-12 {
		t.Errorf("vel = %v, want x=1.92", b.Vel)
	}
}

func TestCircleReflect(t *testing.T) {
	c := Circle{R: 100}
	b := Body{Pos: dynamo.Vec2{X: 98}, Vel: dynamo.Vec2{X: 2, Y: 1}, Radius: 5}

	c.Resolve(&b, 0.5)

	if math.Abs(b.Pos.X-95) > 1e-12 || b.Pos.Y != 0 {
		t.Errorf("expected body pushed to 95, got %v", b.Pos)
	}
	want := dynamo.Vec2{X: -1, Y: 0.5}
	if b.Vel.Sub(want).Len() > 1e-12 {
		t.Errorf("vel = %v, want %v", b.Vel, want)
	}
}

func TestCircleInwardVelocityNotReflected(t *testing.T) {
	c := Circle{R: 100}
	b := Body{Pos: dynamo.Vec2{X: 98}, Vel: dynamo.Vec2{X: -2}, Radius: 5}

	c.Resolve(&b, 0.5)

	if b.Vel.X != -2 {
		t.Errorf("inward velocity should be kept, got %v", b.Vel)
	}
	if math.Abs(b.Pos.X-95) > 1e-12 {
		t.Errorf("expected positional correction, got %v", b.Pos)
	}
}

func TestPolygonEdgeBounce(t *testing.T) {
	p := Polygon{Verts: []dynamo.Vec2{{X: -50, Y: -50}, {X: 50, Y: -50}, {X: 50, Y: 50}, {X: -50, Y: 50}}}
	b := Body{Pos: dynamo.Vec2{X: 48}, Vel: dynamo.Vec2{X: 1}, Radius: 5}

	p.Resolve(&b, 1)

	if math.Abs(b.Pos.X-45) > 1e-12 {
		t.Errorf("expected body pushed to 45, got %v", b.Pos)
	}
	if math.Abs(b.Vel.X+1.1) > 1e-12 {
		t.Errorf("expected reflected velocity plus nudge, got %v", b.Vel)
	}
}

func TestShapeContainerSelection(t *testing.T) {
	tests := []struct {
		name  string
		cfg   config.Simulation
		force bool
		want  string
		verts int
	}{
		{"canvas", config.Simulation{Shape: config.ShapeCircle, CanvasBounds: true}, false, "rect", 0},
		{"circle", config.Simulation{Shape: config.ShapeCircle}, false, "circle", 0},
		{"forced", config.Simulation{Shape: config.ShapeSquare, Vertices: 4}, true, "circle", 0},
		{"hexagon", config.Simulation{Shape: config.ShapeHexagon, Vertices: 6}, false, "polygon", 6},
		{"triangle default", config.Simulation{Shape: config.ShapeTriangle}, false, "polygon", 3},
		{"star", config.Simulation{Shape: config.ShapeStar, Vertices: 5}, false, "polygon", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := &Env{Cfg: &tt.cfg, Width: 400, Height: 300}
			got := shapeContainer(&State{}, env, tt.force)
			switch c := got.(type) {
			case Rect:
				if tt.want != "rect" || c.HalfW != 200 || c.HalfH != 150 {
					t.Errorf("got %+v, want %s", c, tt.want)
				}
			case Circle:
				if tt.want != "circle" || math.Abs(c.R-135) > 1e-12 {
					t.Errorf("got %+v, want %s", c, tt.want)
				}
			case Polygon:
				if tt.want != "polygon" || len(c.Verts) != tt.verts {
					t.Errorf("got %d vertices, want %s with %d", len(c.Verts), tt.want, tt.verts)
				}
			default:
				t.Errorf("unexpected container %T", got)
			}
		})
	}
}

func TestDualRingOuterBodyPushedOut(t *testing.T) {
	d := DualRing{OuterR: 180, InnerR: 72, Dt: 0.125}
	b := Body{Pos: dynamo.Vec2{X: 10}, Radius: 5, Group: Outer}

	d.Resolve(&b, 1)

	if got := b.Pos.Len(); got < d.InnerR+b.Radius-1e-9 {
		t.Errorf("outer body left inside inner ring at %f", got)
	}
}

func TestDualRingInnerBodyHeldIn(t *testing.T) {
	d := DualRing{OuterR: 180, InnerR: 72, InnerSpin: 0.05, Dt: 0.125}
	b := Body{Pos: dynamo.Vec2{X: 100}, Vel: dynamo.Vec2{X: 3}, Radius: 5, Group: Inner}

	d.Resolve(&b, 1)

	if got := b.Pos.Len(); math.Abs(got-67) > 1e-9 {
		t.Errorf("inner body at %f, want 67", got)
	}
	if b.Vel.X >= 0 {
		t.Errorf("expected outward velocity reflected, got %v", b.Vel)
	}
	if b.Vel.Y == 0 {
		t.Error("expected tangential kick from spinning wall")
	}
}

func TestDualRingOuterBodyAtOrigin(t *testing.T) {
	d := DualRing{OuterR: 180, InnerR: 72}
	b := Body{Radius: 5, Group: Outer}

	d.Resolve(&b, 1)

	if math.Abs(b.Pos.X-77) > 1e-9 || b.Pos.Y != 0 {
		t.Errorf("expected push along +x to 77, got %v", b.Pos)
	}
}
