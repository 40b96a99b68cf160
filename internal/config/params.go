package config

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// paramSetters maps the yaml name of each numeric card field to its setter.
// Model-specific names fail when the card carries no block for that model.
var paramSetters = map[string]func(c *Simulation, v float64) error{
	"gravity":        func(c *Simulation, v float64) error { c.Gravity = v; return nil },
	"friction":       func(c *Simulation, v float64) error { c.Friction = v; return nil },
	"restitution":    func(c *Simulation, v float64) error { c.Restitution = v; return nil },
	"rotation_speed": func(c *Simulation, v float64) error { c.RotationSpeed = v; return nil },
	"initial_speed":  func(c *Simulation, v float64) error { c.InitialSpeed = v; return nil },
	"ball_size":      func(c *Simulation, v float64) error { c.BallSize = v; return nil },
	"ball_count":     func(c *Simulation, v float64) error { return setInt(&c.BallCount, v) },
	"vertices":       func(c *Simulation, v float64) error { return setInt(&c.Vertices, v) },
	"core_radius": func(c *Simulation, v float64) error {
		if c.SST == nil {
			return errNoBlock("sst")
		}
		c.SST.CoreRadius = v
		return nil
	},
	"coupling": func(c *Simulation, v float64) error {
		if c.SST == nil {
			return errNoBlock("sst")
		}
		c.SST.Coupling = v
		return nil
	},
	"max_speed": func(c *Simulation, v float64) error {
		if c.SST == nil {
			return errNoBlock("sst")
		}
		c.SST.MaxSpeed = v
		return nil
	},
	"inner_radius": func(c *Simulation, v float64) error {
		if c.Swarm == nil {
			return errNoBlock("swarm")
		}
		c.Swarm.InnerRadius = v
		return nil
	},
	"inner_rotation_speed": func(c *Simulation, v float64) error {
		if c.Swarm == nil {
			return errNoBlock("swarm")
		}
		c.Swarm.InnerRotationSpeed = v
		return nil
	},
	"inner_ball_count": func(c *Simulation, v float64) error {
		switch {
		case c.Swarm != nil:
			return setInt(&c.Swarm.InnerBallCount, v)
		case c.Vortex != nil:
			return setInt(&c.Vortex.InnerBallCount, v)
		}
		return errNoBlock("swarm or vortex")
	},
	"vortex_radius": func(c *Simulation, v float64) error {
		if c.Vortex == nil {
			return errNoBlock("vortex")
		}
		c.Vortex.VortexRadius = v
		return nil
	},
	"vortex_strength": func(c *Simulation, v float64) error {
		if c.Vortex == nil {
			return errNoBlock("vortex")
		}
		c.Vortex.VortexStrength = v
		return nil
	},
}

func errNoBlock(block string) error {
	return fmt.Errorf("%w: card has no %s parameters", ErrInvalid, block)
}

func setInt(dst *int, v float64) error {
	if v != math.Trunc(v) {
		return fmt.Errorf("%w: expected a whole number, got %g", ErrInvalid, v)
	}
	*dst = int(v)
	return nil
}

// SetParam sets one numeric field by its yaml name. The result is not validated.
func (c *Simulation) SetParam(name string, v float64) error {
	set, ok := paramSetters[name]
	if !ok {
		return fmt.Errorf("%w: unknown parameter %q", ErrInvalid, name)
	}
	return set(c, v)
}

// ParamNames lists the names accepted by SetParam.
func ParamNames() []string {
	names := make([]string, 0, len(paramSetters))
	for name := range paramSetters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyOverrides parses name=value pairs and applies them in order.
func (c *Simulation) ApplyOverrides(pairs []string) error {
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("%w: override %q is not name=value", ErrInvalid, pair)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return fmt.Errorf("%w: override %q: %v", ErrInvalid, pair, err)
		}
		if err := c.SetParam(strings.TrimSpace(name), v); err != nil {
			return err
		}
	}
	return nil
}

// Param is one editable numeric field of a card.
type Param struct {
	Name  string
	Value float64
	Whole bool
}

// Params lists the fields SetParam accepts for this card, shared fields first.
func (c *Simulation) Params() []Param {
	ps := []Param{
		{Name: "gravity", Value: c.Gravity},
		{Name: "friction", Value: c.Friction},
		{Name: "restitution", Value: c.Restitution},
		{Name: "rotation_speed", Value: c.RotationSpeed},
		{Name: "initial_speed", Value: c.InitialSpeed},
		{Name: "ball_size", Value: c.BallSize},
		{Name: "ball_count", Value: float64(c.BallCount), Whole: true},
	}
	if c.Shape != ShapeCircle {
		ps = append(ps, Param{Name: "vertices", Value: float64(c.Vertices), Whole: true})
	}
	if c.SST != nil {
		ps = append(ps,
			Param{Name: "core_radius", Value: c.SST.CoreRadius},
			Param{Name: "coupling", Value: c.SST.Coupling},
			Param{Name: "max_speed", Value: c.SST.MaxSpeed})
	}
	if c.Swarm != nil {
		ps = append(ps,
			Param{Name: "inner_radius", Value: c.Swarm.InnerRadius},
			Param{Name: "inner_rotation_speed", Value: c.Swarm.InnerRotationSpeed},
			Param{Name: "inner_ball_count", Value: float64(c.Swarm.InnerBallCount), Whole: true})
	}
	if c.Vortex != nil {
		ps = append(ps,
			Param{Name: "vortex_radius", Value: c.Vortex.VortexRadius},
			Param{Name: "vortex_strength", Value: c.Vortex.VortexStrength})
		if c.Swarm == nil {
			ps = append(ps, Param{Name: "inner_ball_count", Value: float64(c.Vortex.InnerBallCount), Whole: true})
		}
	}
	return ps
}
