package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultFrames       = 600
	DefaultWidth        = 400
	DefaultHeight       = 400
	DefaultBallCount    = 20
	DefaultBallSize     = 8
	DefaultInitialSpeed = 2.0
)

var (
	// ErrInvalid marks a configuration rejected by Validate.
	ErrInvalid = errors.New("config: invalid configuration")

	// ErrUnknownPreset is returned when a preset name is not registered.
	ErrUnknownPreset = errors.New("config: unknown preset")
)

type Shape string

const (
	ShapeTriangle Shape = "triangle"
	ShapeSquare   Shape = "square"
	ShapePentagon Shape = "pentagon"
	ShapeHexagon  Shape = "hexagon"
	ShapeOctagon  Shape = "octagon"
	ShapeStar     Shape = "star"
	ShapeCircle   Shape = "circle"
)

type ModelKind string

const (
	ModelStandard      ModelKind = "standard"
	ModelSSTHydrogen   ModelKind = "sst-hydrogen"
	ModelDualRingSwarm ModelKind = "dual-ring-swarm"
	ModelFluidVortex   ModelKind = "fluid-vortex"
)

type SSTParams struct {
	CoreRadius float64 `yaml:"core_radius"`
	Coupling   float64 `yaml:"coupling"`
	MaxSpeed   float64 `yaml:"max_speed,omitempty"`
}

type SwarmParams struct {
	InnerRadius        float64 `yaml:"inner_radius"`
	InnerRotationSpeed float64 `yaml:"inner_rotation_speed"`
	InnerBallCount     int     `yaml:"inner_ball_count"`
}

type VortexParams struct {
	VortexRadius   float64 `yaml:"vortex_radius"`
	VortexStrength float64 `yaml:"vortex_strength"`
	InnerBallCount int     `yaml:"inner_ball_count"`
}

// Simulation describes one card: its container, material constants and force model.
// The core treats a Simulation as an immutable snapshot.
type Simulation struct {
	Name          string        `yaml:"name"`
	Description   string        `yaml:"description,omitempty"`
	Shape         Shape         `yaml:"shape"`
	Vertices      int           `yaml:"vertices"`
	CanvasBounds  bool          `yaml:"canvas_bounds,omitempty"`
	Gravity       float64       `yaml:"gravity"`
	Friction      float64       `yaml:"friction"`
	Restitution   float64       `yaml:"restitution"`
	RotationSpeed float64       `yaml:"rotation_speed"`
	BallCount     int           `yaml:"ball_count"`
	BallSize      float64       `yaml:"ball_size"`
	InitialSpeed  float64       `yaml:"initial_speed"`
	Model         ModelKind     `yaml:"model"`
	SST           *SSTParams    `yaml:"sst,omitempty"`
	Swarm         *SwarmParams  `yaml:"swarm,omitempty"`
	Vortex        *VortexParams `yaml:"vortex,omitempty"`
}

// Global holds the multipliers shared by every running simulation.
type Global struct {
	TimeScale            float64 `yaml:"time_scale"`
	GravityMultiplier    float64 `yaml:"gravity_multiplier"`
	RotationMultiplier   float64 `yaml:"rotation_multiplier"`
	BouncinessMultiplier float64 `yaml:"bounciness_multiplier"`
}

// File is the on-disk layout read by Load: shared settings plus a list of cards.
type File struct {
	Global Global       `yaml:"global"`
	Cards  []Simulation `yaml:"cards"`
	Frames int          `yaml:"frames"`
	Width  float64      `yaml:"width"`
	Height float64      `yaml:"height"`
	Seed   int64        `yaml:"seed"`
}

func DefaultGlobal() Global {
	return Global{
		TimeScale:            1.0,
		GravityMultiplier:    1.0,
		RotationMultiplier:   1.0,
		BouncinessMultiplier: 1.0,
	}
}

func DefaultSimulation() Simulation {
	return Simulation{
		Name:          "box spin",
		Shape:         ShapeSquare,
		Vertices:      4,
		Gravity:       0.2,
		Friction:      0.005,
		Restitution:   0.8,
		RotationSpeed: 0.01,
		BallCount:     DefaultBallCount,
		BallSize:      DefaultBallSize,
		InitialSpeed:  DefaultInitialSpeed,
		Model:         ModelStandard,
	}
}

func DefaultFile() *File {
	return &File{
		Global: DefaultGlobal(),
		Cards:  []Simulation{DefaultSimulation()},
		Frames: DefaultFrames,
		Width:  DefaultWidth,
		Height: DefaultHeight,
	}
}

func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f := DefaultFile()
	f.Cards = nil
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(f.Cards) == 0 {
		f.Cards = []Simulation{DefaultSimulation()}
	}
	for i := range f.Cards {
		f.Cards[i].fillVertices()
		if err := f.Cards[i].Validate(); err != nil {
			return nil, fmt.Errorf("card %d (%s): %w", i, f.Cards[i].Name, err)
		}
	}
	if err := f.Global.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

func Save(path string, f *File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// VertexCount maps a shape to its natural vertex count; zero for circle.
func (s Shape) VertexCount() int {
	switch s {
	case ShapeTriangle:
		return 3
	case ShapeSquare:
		return 4
	case ShapePentagon, ShapeStar:
		return 5
	case ShapeHexagon:
		return 6
	case ShapeOctagon:
		return 8
	}
	return 0
}

func (s Shape) valid() bool {
	switch s {
	case ShapeTriangle, ShapeSquare, ShapePentagon, ShapeHexagon, ShapeOctagon, ShapeStar, ShapeCircle:
		return true
	}
	return false
}

func (c *Simulation) fillVertices() {
	if c.Vertices == 0 {
		c.Vertices = c.Shape.VertexCount()
	}
}

// Validate rejects values the physics loop does not guard against.
func (c *Simulation) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
	}

	if !c.Shape.valid() {
		return invalid("unknown shape %q", c.Shape)
	}
	if c.Shape != ShapeCircle && c.Shape != ShapeStar && c.Vertices != 0 && c.Vertices < 3 {
		return invalid("polygon needs at least 3 vertices, got %d", c.Vertices)
	}
	if c.BallSize <= 0 {
		return invalid("ball_size must be positive, got %g", c.BallSize)
	}
	if c.BallCount < 0 {
		return invalid("ball_count must not be negative, got %d", c.BallCount)
	}
	if c.Friction < 0 || c.Friction > 1 {
		return invalid("friction must be in [0,1], got %g", c.Friction)
	}
	if c.Restitution < 0 {
		return invalid("restitution must not be negative, got %g", c.Restitution)
	}

	switch c.Model {
	case ModelStandard, "":
	case ModelSSTHydrogen:
		if c.SST == nil {
			return invalid("model %s requires sst parameters", c.Model)
		}
		if c.SST.CoreRadius < 0 || c.SST.MaxSpeed < 0 {
			return invalid("sst core_radius and max_speed must not be negative")
		}
	case ModelDualRingSwarm:
		if c.Swarm == nil {
			return invalid("model %s requires swarm parameters", c.Model)
		}
		if c.Swarm.InnerRadius <= 0 || c.Swarm.InnerRadius >= 1 {
			return invalid("swarm inner_radius must be in (0,1), got %g", c.Swarm.InnerRadius)
		}
		if c.Swarm.InnerBallCount < 0 {
			return invalid("swarm inner_ball_count must not be negative")
		}
	case ModelFluidVortex:
		if c.Vortex == nil {
			return invalid("model %s requires vortex parameters", c.Model)
		}
		if c.Vortex.VortexRadius <= 0 || c.Vortex.VortexRadius >= 1 {
			return invalid("vortex_radius must be in (0,1), got %g", c.Vortex.VortexRadius)
		}
		if c.Vortex.InnerBallCount < 0 {
			return invalid("vortex inner_ball_count must not be negative")
		}
	default:
		return invalid("unknown model %q", c.Model)
	}
	return nil
}

func (g Global) Validate() error {
	if g.TimeScale < 0 || g.GravityMultiplier < 0 || g.BouncinessMultiplier < 0 {
		return fmt.Errorf("%w: time_scale, gravity_multiplier and bounciness_multiplier must not be negative", ErrInvalid)
	}
	return nil
}

// Clone returns a deep copy so callers can edit a card without touching a running snapshot.
func (c Simulation) Clone() Simulation {
	if c.SST != nil {
		p := *c.SST
		c.SST = &p
	}
	if c.Swarm != nil {
		p := *c.Swarm
		c.Swarm = &p
	}
	if c.Vortex != nil {
		p := *c.Vortex
		c.Vortex = &p
	}
	return c
}

// InnerBallCount returns how many Inner-group bodies the card asks for.
func (c *Simulation) InnerBallCount() int {
	switch c.Model {
	case ModelDualRingSwarm:
		if c.Swarm != nil {
			return c.Swarm.InnerBallCount
		}
	case ModelFluidVortex:
		if c.Vortex != nil {
			return c.Vortex.InnerBallCount
		}
	}
	return 0
}
