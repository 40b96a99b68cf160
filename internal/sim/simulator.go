package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/san-kum/particlebox/internal/config"
	"github.com/san-kum/particlebox/internal/dynamo"
	"github.com/san-kum/particlebox/internal/logging"
	"github.com/san-kum/particlebox/internal/physics"
)

// clampMargin is how far past the larger canvas side a body may drift before
// the safety clamp returns it to the origin.
const clampMargin = 100

// overlapTolerance is the depth below which a same-group contact is not counted.
const overlapTolerance = 0.5

// Simulator owns one card: its config snapshot, force model and body state.
// It is not safe for concurrent use.
type Simulator struct {
	cfg   config.Simulation
	model physics.Model
	state physics.State
	spawn physics.SpawnReport

	width, height float64
	frame         int
	ready         bool

	rng       *rand.Rand
	log       *slog.Logger
	metrics   []Metric
	observers []Observer
}

type Option func(*Simulator)

func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.log = l
		}
	}
}

// WithSeed makes every spawn reproducible.
func WithSeed(seed int64) Option {
	return func(s *Simulator) { s.rng = rand.New(rand.NewSource(seed)) }
}

func WithRand(rng *rand.Rand) Option {
	return func(s *Simulator) {
		if rng != nil {
			s.rng = rng
		}
	}
}

func New(opts ...Option) *Simulator {
	s := &Simulator{
		log:       logging.Discard(),
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return s
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Initialize validates cfg, selects the force model and spawns bodies for a w×h canvas.
func (s *Simulator) Initialize(cfg config.Simulation, w, h float64) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.width, s.height = w, h
	s.cfg = cfg.Clone()
	s.respawn()
	s.ready = true
	return nil
}

// Reconfigure replaces the snapshot and always re-spawns. Callers use
// config.RespawnRequired to choose between Reconfigure and Update.
func (s *Simulator) Reconfigure(cfg config.Simulation) error {
	if !s.ready {
		return ErrNotInitialized
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.cfg = cfg.Clone()
	s.respawn()
	return nil
}

// Update swaps in a snapshot that keeps the current bodies. Fields read every
// sub-step (gravity, friction, restitution, rotation speeds, vortex strength)
// take effect on the next Tick.
func (s *Simulator) Update(cfg config.Simulation) error {
	if !s.ready {
		return ErrNotInitialized
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.cfg = cfg.Clone()
	s.model = physics.NewModel(&s.cfg)
	return nil
}

func (s *Simulator) respawn() {
	s.model = physics.NewModel(&s.cfg)
	bodies, report := physics.Spawn(&s.cfg, s.model, s.width, s.height, s.rng)
	s.state = physics.State{Bodies: bodies}
	s.spawn = report
	s.frame = 0
	for _, m := range s.metrics {
		m.Reset()
	}

	s.log.Debug("spawned bodies",
		"card", s.cfg.Name,
		"model", s.model.Kind(),
		"outer", report.Outer,
		"inner", report.Inner)
	if report.Overlapping > 0 {
		s.log.Debug("placement gave up on some bodies",
			"card", s.cfg.Name,
			"overlapping", report.Overlapping,
			"attempts", physics.SpawnAttempts)
	}
}

// Tick advances one frame. The canvas size may change between ticks; it moves
// the container geometry but never re-spawns. Before Initialize it is a no-op.
func (s *Simulator) Tick(g config.Global, w, h float64) FrameStats {
	if !s.ready {
		return FrameStats{}
	}
	s.width, s.height = w, h

	env := physics.Env{Cfg: &s.cfg, Global: g, Width: w, Height: h}
	contacts := physics.Step(&s.state, s.model, env)
	clamped := s.clamp(w, h)
	s.frame++

	stats := FrameStats{Frame: s.frame, Contacts: contacts, Clamped: clamped}
	for _, m := range s.metrics {
		m.Observe(&s.state, stats)
	}
	for _, o := range s.observers {
		o.OnFrame(&s.state, stats)
	}
	return stats
}

// clamp returns runaway or non-finite bodies to the origin at rest.
func (s *Simulator) clamp(w, h float64) int {
	bound := math.Max(w, h) + clampMargin
	n := 0
	for i := range s.state.Bodies {
		b := &s.state.Bodies[i]
		cause := dynamo.ErrDiverged
		if !b.Valid() {
			assertFinite(s.frame, b)
			cause = dynamo.ErrInvalidState
		} else if math.Abs(b.Pos.X) <= bound && math.Abs(b.Pos.Y) <= bound {
			continue
		}

		s.log.Warn("body reset by safety clamp",
			"card", s.cfg.Name,
			"err", &dynamo.SimulationError{Frame: s.frame, BodyID: b.ID, Pos: b.Pos, Vel: b.Vel, Wrapped: cause})
		b.Pos = dynamo.Vec2{}
		b.Vel = dynamo.Vec2{}
		n++
	}
	return n
}

// Dispose drops the bodies. The simulator must be initialized again before use.
func (s *Simulator) Dispose() {
	s.state = physics.State{}
	s.ready = false
	s.frame = 0
}

// State returns a deep copy of the current bodies and container angles.
func (s *Simulator) State() physics.State { return s.state.Clone() }

func (s *Simulator) Config() config.Simulation { return s.cfg.Clone() }

func (s *Simulator) Model() physics.Model { return s.model }

func (s *Simulator) SpawnReport() physics.SpawnReport { return s.spawn }

func (s *Simulator) Frame() int { return s.frame }

func (s *Simulator) Ready() bool { return s.ready }

// Overlaps counts same-group pairs currently deeper than half a pixel.
func (s *Simulator) Overlaps() int {
	if !s.ready {
		return 0
	}
	return s.state.Overlaps(s.model, overlapTolerance)
}

// Run ticks rc.Frames frames headlessly, recording a Sample per frame.
// The simulator must already be initialized.
func (s *Simulator) Run(ctx context.Context, rc RunConfig) (*Result, error) {
	if !s.ready {
		return nil, ErrNotInitialized
	}
	if rc.Frames <= 0 {
		return nil, fmt.Errorf("frames must be positive, got %d", rc.Frames)
	}
	if err := rc.Global.Validate(); err != nil {
		return nil, err
	}

	result := &Result{
		Samples: make([]Sample, 0, rc.Frames),
		Spawn:   s.spawn,
		Metrics: make(map[string]float64),
	}

	for i := 0; i < rc.Frames; i++ {
		select {
		case <-ctx.Done():
			result.Final = s.State()
			return result, ctx.Err()
		default:
		}

		stats := s.Tick(rc.Global, rc.Width, rc.Height)
		result.Samples = append(result.Samples, Sample{
			Frame:         stats.Frame,
			KineticEnergy: s.state.KineticEnergy(),
			Momentum:      s.state.Momentum().Len(),
			Overlaps:      s.Overlaps(),
			Clamped:       stats.Clamped,
		})
		result.Clamped += stats.Clamped
		result.FramesTaken++
	}

	result.Final = s.State()
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}
