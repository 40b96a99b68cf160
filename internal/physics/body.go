package physics

import (
	"math"

	"github.com/san-kum/particlebox/internal/dynamo"
)

// Group partitions bodies for the dual ring model's wall and collision rules.
type Group uint8

const (
	Outer Group = iota
	Inner
)

func (g Group) String() string {
	if g == Inner {
		return "inner"
	}
	return "outer"
}

// Color tags handed to renderers. Purely cosmetic.
const (
	TagDefault     = "#22D3EE"
	TagSST         = "#FACC15"
	TagVortexOuter = "#60A5FA"
	TagVortexInner = "#A78BFA"
	TagSwarmInner  = "#E879F9"
)

// Body is one circular particle. Mass is Radius² so larger bodies are heavier.
type Body struct {
	ID     string      `json:"id"`
	Pos    dynamo.Vec2 `json:"pos"`
	Vel    dynamo.Vec2 `json:"vel"`
	Radius float64     `json:"radius"`
	Group  Group       `json:"group"`
	Tag    string      `json:"tag"`
}

func (b *Body) Mass() float64 { return b.Radius * b.Radius }

func (b *Body) Valid() bool { return b.Pos.IsValid() && b.Vel.IsValid() }

// State is everything a renderer needs for one simulation.
// Rotation and InnerRotation accumulate without wrapping.
type State struct {
	Bodies        []Body  `json:"bodies"`
	Rotation      float64 `json:"rotation"`
	InnerRotation float64 `json:"inner_rotation"`
}

func (s State) Clone() State {
	c := s
	c.Bodies = make([]Body, len(s.Bodies))
	copy(c.Bodies, s.Bodies)
	return c
}

// KineticEnergy returns Σ ½ m v² with m = r².
func (s *State) KineticEnergy() float64 {
	e := 0.0
	for i := range s.Bodies {
		b := &s.Bodies[i]
		e += 0.5 * b.Mass() * b.Vel.LenSq()
	}
	return e
}

// Momentum returns Σ m v.
func (s *State) Momentum() dynamo.Vec2 {
	var p dynamo.Vec2
	for i := range s.Bodies {
		b := &s.Bodies[i]
		p = p.Add(b.Vel.Scale(b.Mass()))
	}
	return p
}

// Overlaps counts colliding pairs deeper than tol, ignoring pairs the model keeps apart.
func (s *State) Overlaps(m Model, tol float64) int {
	n := 0
	for i := 0; i < len(s.Bodies); i++ {
		for j := i + 1; j < len(s.Bodies); j++ {
			a, b := &s.Bodies[i], &s.Bodies[j]
			if m != nil && m.Separated(a, b) {
				continue
			}
			if a.Radius+b.Radius-b.Pos.Sub(a.Pos).Len() > tol {
				n++
			}
		}
	}
	return n
}

// MaxSpeed returns the fastest body speed, or 0 for an empty state.
func (s *State) MaxSpeed() float64 {
	m := 0.0
	for i := range s.Bodies {
		m = math.Max(m, s.Bodies[i].Vel.Len())
	}
	return m
}
