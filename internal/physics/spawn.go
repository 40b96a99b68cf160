package physics

import (
	"math"
	"math/rand"
	"strconv"

	"github.com/san-kum/particlebox/internal/config"
	"github.com/san-kum/particlebox/internal/dynamo"
)

const (
	// SpawnAttempts bounds rejection sampling per body; the last candidate is kept.
	SpawnAttempts = 50

	// spawnRadius is the reference container radius placement is computed against.
	spawnRadius = 150.0

	sstSpawnDist  = 100.0
	sstSpawnBand  = 20.0
	sstSpawnSpeed = 9.0

	defaultInnerRadius = 0.4
)

// SpawnReport summarizes a placement run.
type SpawnReport struct {
	Outer int
	Inner int

	// Overlapping counts bodies that exhausted SpawnAttempts and were placed
	// touching an earlier body.
	Overlapping int
}

type spawner struct {
	rng    *rand.Rand
	bodies []Body
	report SpawnReport
}

// place draws candidates from gen until one clears every existing body.
func (s *spawner) place(r float64, gen func() dynamo.Vec2) dynamo.Vec2 {
	pos := gen()
	for range SpawnAttempts {
		if !s.overlaps(pos, r) {
			return pos
		}
		pos = gen()
	}
	if s.overlaps(pos, r) {
		s.report.Overlapping++
	}
	return pos
}

func (s *spawner) overlaps(pos dynamo.Vec2, r float64) bool {
	for i := range s.bodies {
		b := &s.bodies[i]
		if pos.Sub(b.Pos).Len() < r+b.Radius {
			return true
		}
	}
	return false
}

func (s *spawner) angle() float64 { return s.rng.Float64() * 2 * math.Pi }

// Spawn builds the initial bodies for cfg on a w×h canvas. Outer bodies come
// first with IDs outer-0…, followed by Inner bodies inner-0… for models that
// carry a second population.
func Spawn(cfg *config.Simulation, m Model, w, h float64, rng *rand.Rand) ([]Body, SpawnReport) {
	s := &spawner{rng: rng}
	r := cfg.BallSize

	var innerCount int
	var innerLimit float64
	innerTag := TagSwarmInner
	outerTag := TagDefault

	switch mm := m.(type) {
	case *SSTHydrogen:
		outerTag = TagSST
	case *DualRingSwarm:
		innerCount, innerLimit = mm.Params.InnerBallCount, mm.Params.InnerRadius
	case *FluidVortex:
		innerCount, innerLimit = mm.Params.InnerBallCount, mm.Params.VortexRadius
		outerTag, innerTag = TagVortexOuter, TagVortexInner
	}

	gen := s.outerGen(cfg, m, w, h)
	for i := 0; i < cfg.BallCount; i++ {
		pos := s.place(r, gen)

		var vel dynamo.Vec2
		if m.Kind() == config.ModelSSTHydrogen {
			vel = dynamo.FromAngle(math.Atan2(pos.Y, pos.X)+math.Pi/2, sstSpawnSpeed)
		} else {
			speed := cfg.InitialSpeed * (0.5 + rng.Float64())
			vel = dynamo.FromAngle(s.angle(), speed)
		}

		s.bodies = append(s.bodies, Body{
			ID:     "outer-" + strconv.Itoa(i),
			Pos:    pos,
			Vel:    vel,
			Radius: r,
			Group:  Outer,
			Tag:    outerTag,
		})
		s.report.Outer++
	}

	disc := math.Max(0, spawnRadius*innerLimit-2*r)
	for i := 0; i < innerCount; i++ {
		pos := s.place(r, func() dynamo.Vec2 {
			return dynamo.FromAngle(s.angle(), rng.Float64()*disc)
		})
		s.bodies = append(s.bodies, Body{
			ID:     "inner-" + strconv.Itoa(i),
			Pos:    pos,
			Vel:    dynamo.FromAngle(s.angle(), cfg.InitialSpeed),
			Radius: r,
			Group:  Inner,
			Tag:    innerTag,
		})
		s.report.Inner++
	}

	return s.bodies, s.report
}

// outerGen returns the candidate generator for Outer bodies.
func (s *spawner) outerGen(cfg *config.Simulation, m Model, w, h float64) func() dynamo.Vec2 {
	r := cfg.BallSize
	rng := s.rng

	if cfg.CanvasBounds {
		return func() dynamo.Vec2 {
			return dynamo.Vec2{
				X: (rng.Float64() - 0.5) * (w - 4*r),
				Y: (rng.Float64() - 0.5) * (h - 4*r),
			}
		}
	}

	switch mm := m.(type) {
	case *SSTHydrogen:
		return func() dynamo.Vec2 {
			return dynamo.FromAngle(s.angle(), sstSpawnDist+rng.Float64()*sstSpawnBand)
		}
	case *DualRingSwarm:
		inner := mm.Params.InnerRadius
		if inner <= 0 {
			inner = defaultInnerRadius
		}
		lo := spawnRadius*inner + 2*r
		hi := spawnRadius - 2*r
		return func() dynamo.Vec2 {
			return dynamo.FromAngle(s.angle(), lo+rng.Float64()*(hi-lo))
		}
	}

	return func() dynamo.Vec2 {
		return dynamo.FromAngle(s.angle(), rng.Float64()*(spawnRadius-r))
	}
}
