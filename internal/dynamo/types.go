package dynamo

import (
	"fmt"
	"math"
)

// Vec2 is a 2D vector in container-relative coordinates.
// The origin is the container center and +Y points down, matching screen space.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }

func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

func (v Vec2) Len() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y) }

func (v Vec2) LenSq() float64 { return v.X*v.X + v.Y*v.Y }

// Normalize returns the unit vector along v, or the zero vector when v is zero.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Perp returns v rotated a quarter turn: (-y, x).
func (v Vec2) Perp() Vec2 { return Vec2{-v.Y, v.X} }

// Reflect mirrors v about the surface with unit normal n.
func (v Vec2) Reflect(n Vec2) Vec2 { return v.Sub(n.Scale(2 * v.Dot(n))) }

func (v Vec2) IsValid() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

func (v Vec2) String() string { return fmt.Sprintf("(%.3f, %.3f)", v.X, v.Y) }

// FromAngle returns a vector of length mag pointing at angle radians.
func FromAngle(angle, mag float64) Vec2 {
	s, c := math.Sincos(angle)
	return Vec2{c * mag, s * mag}
}

// Polygon returns the vertices of a regular n-gon of circumradius r around center,
// rotated by rotation radians. The first vertex sits at the top when rotation is zero.
func Polygon(n int, r float64, center Vec2, rotation float64) []Vec2 {
	if n < 3 {
		return nil
	}
	pts := make([]Vec2, n)
	step := 2 * math.Pi / float64(n)
	for i := range pts {
		pts[i] = center.Add(FromAngle(rotation+float64(i)*step-math.Pi/2, r))
	}
	return pts
}

// Star returns the 2n vertices of an n-pointed star alternating between the outer
// and inner radius, rotated by rotation radians.
func Star(n int, outer, inner float64, center Vec2, rotation float64) []Vec2 {
	if n < 2 {
		return nil
	}
	pts := make([]Vec2, 2*n)
	step := math.Pi / float64(n)
	for i := range pts {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		pts[i] = center.Add(FromAngle(rotation+float64(i)*step-math.Pi/2, r))
	}
	return pts
}
