package physics

import "github.com/san-kum/particlebox/internal/config"

// Standard is uniform downward gravity inside a rotating container.
type Standard struct{}

func (Standard) Kind() config.ModelKind { return config.ModelStandard }

func (Standard) Spin(st *State, env *Env) {
	st.Rotation += env.Cfg.RotationSpeed * env.Global.RotationMultiplier * env.Dt
}

func (Standard) Force(b *Body, env *Env) {
	b.Vel.Y += env.gravity()
}

func (Standard) Friction(env *Env) float64 { return env.Cfg.Friction }

func (Standard) Boundary(st *State, env *Env) Container {
	return shapeContainer(st, env, false)
}

func (Standard) Separated(a, b *Body) bool { return false }

func (Standard) sealed() {}
