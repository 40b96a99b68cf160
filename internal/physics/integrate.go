package physics

// SubStep advances st by env.Dt using semi-implicit Euler: container spin,
// then per body force, friction, drift and wall response, then one pairwise
// collision pass. It returns the number of body contacts resolved.
func SubStep(st *State, m Model, env *Env) int {
	m.Spin(st, env)
	wall := m.Boundary(st, env)
	e := env.Restitution()
	damp := 1 - m.Friction(env)*env.Dt

	for i := range st.Bodies {
		b := &st.Bodies[i]
		m.Force(b, env)
		b.Vel = b.Vel.Scale(damp)
		b.Pos = b.Pos.Add(b.Vel.Scale(env.Dt))
		wall.Resolve(b, e)
	}

	return ResolvePairs(st.Bodies, m, e)
}

// Step runs SubSteps sub-steps of timeScale/SubSteps each. A zero time scale
// leaves the state untouched.
func Step(st *State, m Model, env Env) int {
	if env.Global.TimeScale == 0 {
		return 0
	}
	env.Dt = env.Global.TimeScale / SubSteps
	hits := 0
	for range SubSteps {
		hits += SubStep(st, m, &env)
	}
	return hits
}
