package config

import (
	"fmt"
	"sort"
)

// Presets is the stock card set. Values are in pixels and frames: with TimeScale 1
// a gravity of 0.2 adds 0.2 px/frame to a body's speed every frame.
var Presets = map[string]Simulation{
	"box-spin": {
		Name: "box spin", Description: "a slowly rotating box churns a pile of balls",
		Shape: ShapeSquare, Vertices: 4, Gravity: 0.2, Friction: 0.002, Restitution: 0.8,
		RotationSpeed: 0.01, BallCount: 30, BallSize: 8, InitialSpeed: 2, Model: ModelStandard,
	},
	"triangle": {
		Name: "triangle", Description: "sharp corners trap balls until the spin frees them",
		Shape: ShapeTriangle, Vertices: 3, Gravity: 0.2, Friction: 0.002, Restitution: 0.7,
		RotationSpeed: 0.02, BallCount: 20, BallSize: 8, InitialSpeed: 2, Model: ModelStandard,
	},
	"pentagon": {
		Name: "pentagon", Description: "bouncy walls with mild spin",
		Shape: ShapePentagon, Vertices: 5, Gravity: 0.15, Friction: 0.001, Restitution: 0.95,
		RotationSpeed: 0.012, BallCount: 25, BallSize: 7, InitialSpeed: 3, Model: ModelStandard,
	},
	"hexagon": {
		Name: "hexagon", Description: "counter-rotating hexagon with a dense fill",
		Shape: ShapeHexagon, Vertices: 6, Gravity: 0.2, Friction: 0.003, Restitution: 0.6,
		RotationSpeed: -0.015, BallCount: 40, BallSize: 6, InitialSpeed: 2, Model: ModelStandard,
	},
	"octagon": {
		Name: "octagon", Description: "nearly round, fast spin",
		Shape: ShapeOctagon, Vertices: 8, Gravity: 0.25, Friction: 0.002, Restitution: 0.8,
		RotationSpeed: 0.03, BallCount: 30, BallSize: 7, InitialSpeed: 2, Model: ModelStandard,
	},
	"star": {
		Name: "star", Description: "concave star arms catch and fling balls",
		Shape: ShapeStar, Vertices: 5, Gravity: 0.2, Friction: 0.002, Restitution: 0.8,
		RotationSpeed: 0.008, BallCount: 20, BallSize: 6, InitialSpeed: 2, Model: ModelStandard,
	},
	"circle": {
		Name: "circle", Description: "smooth round wall, no corners to trap balls",
		Shape: ShapeCircle, Gravity: 0.2, Friction: 0.001, Restitution: 0.95,
		RotationSpeed: 0, BallCount: 25, BallSize: 8, InitialSpeed: 3, Model: ModelStandard,
	},
	"canvas-box": {
		Name: "canvas box", Description: "the whole viewport is the container",
		Shape: ShapeSquare, Vertices: 4, CanvasBounds: true, Gravity: 0.3, Friction: 0.002,
		Restitution: 0.7, BallCount: 60, BallSize: 6, InitialSpeed: 3, Model: ModelStandard,
	},
	"sst-hydrogen": {
		Name: "sst hydrogen", Description: "softened central attraction seeds circular orbits",
		Shape: ShapeCircle, Gravity: 0, Friction: 0, Restitution: 1,
		BallCount: 12, BallSize: 5, InitialSpeed: 9, Model: ModelSSTHydrogen,
		SST: &SSTParams{CoreRadius: 20, Coupling: 9000, MaxSpeed: 14},
	},
	"dual-ring-swarm": {
		Name: "dual ring swarm", Description: "two counter-rotating rings drag separate swarms",
		Shape: ShapeCircle, Gravity: 0, Friction: 0.001, Restitution: 0.9,
		RotationSpeed: 0.02, BallCount: 40, BallSize: 5, InitialSpeed: 2, Model: ModelDualRingSwarm,
		Swarm: &SwarmParams{InnerRadius: 0.4, InnerRotationSpeed: -0.03, InnerBallCount: 20},
	},
	"fluid-vortex": {
		Name: "fluid vortex", Description: "a tangential drive region stirs the fill",
		Shape: ShapeSquare, Vertices: 4, CanvasBounds: true, Gravity: 0.05, Friction: 0.01,
		Restitution: 0.7, BallCount: 80, BallSize: 5, InitialSpeed: 2, Model: ModelFluidVortex,
		Vortex: &VortexParams{VortexRadius: 0.5, VortexStrength: 8, InnerBallCount: 30},
	},
}

// GetPreset returns an independent copy of the named preset.
func GetPreset(name string) (Simulation, error) {
	p, ok := Presets[name]
	if !ok {
		return Simulation{}, fmt.Errorf("%w: %s (available: %v)", ErrUnknownPreset, name, ListPresets())
	}
	return p.Clone(), nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
