package metrics

import (
	"github.com/san-kum/particlebox/internal/physics"
	"github.com/san-kum/particlebox/internal/sim"
)

// Stability is the fraction of frames on which the safety clamp stayed idle.
type Stability struct {
	name       string
	violations int
	samples    int
	clamped    int
}

func NewStability() *Stability {
	return &Stability{name: "stability"}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(_ *physics.State, stats sim.FrameStats) {
	s.samples++
	if stats.Clamped > 0 {
		s.violations++
		s.clamped += stats.Clamped
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

// Clamped is the total number of body resets seen.
func (s *Stability) Clamped() int { return s.clamped }

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
	s.clamped = 0
}

// Overlap is the worst same-group overlap count seen on any frame.
type Overlap struct {
	name  string
	model physics.Model
	tol   float64
	worst int
}

// NewOverlap counts pairs deeper than tol, skipping pairs model keeps apart.
func NewOverlap(model physics.Model, tol float64) *Overlap {
	return &Overlap{name: "overlaps", model: model, tol: tol}
}

func (o *Overlap) Name() string { return o.name }

func (o *Overlap) Observe(st *physics.State, _ sim.FrameStats) {
	o.worst = max(o.worst, st.Overlaps(o.model, o.tol))
}

func (o *Overlap) Value() float64 { return float64(o.worst) }

func (o *Overlap) Reset() { o.worst = 0 }

// Standard returns the metric set recorded with every stored run.
func Standard(model physics.Model) []sim.Metric {
	return []sim.Metric{
		NewEnergy(),
		NewEnergyDrift(),
		NewMomentum(),
		NewStability(),
		NewOverlap(model, 0.5),
	}
}
