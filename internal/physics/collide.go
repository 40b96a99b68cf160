package physics

import "github.com/san-kum/particlebox/internal/dynamo"

// Collide separates two overlapping bodies and exchanges the normal impulse
// j = -(1+e)(v_rel·n) / (1/mA + 1/mB). It reports whether the bodies touched.
//
// The overlap is split equally between the two bodies regardless of mass.
// Coincident centers use the fixed normal (1, 0).
func Collide(a, b *Body, e float64) bool {
	delta := b.Pos.Sub(a.Pos)
	dist := delta.Len()
	sum := a.Radius + b.Radius
	// written negated so a NaN distance never counts as contact
	if !(dist < sum) {
		return false
	}

	n := dynamo.Vec2{X: 1}
	if dist > 0 {
		n = delta.Scale(1 / dist)
	}

	half := (sum - dist) * 0.5
	a.Pos = a.Pos.Sub(n.Scale(half))
	b.Pos = b.Pos.Add(n.Scale(half))

	vn := b.Vel.Sub(a.Vel).Dot(n)
	if vn >= 0 {
		return true
	}
	invA, invB := 1/a.Mass(), 1/b.Mass()
	j := -(1 + e) * vn / (invA + invB)
	a.Vel = a.Vel.Sub(n.Scale(j * invA))
	b.Vel = b.Vel.Add(n.Scale(j * invB))
	return true
}

// ResolvePairs runs one sequential pass over every unordered pair, skipping
// pairs the model keeps apart, and returns the number of contacts.
func ResolvePairs(bodies []Body, m Model, e float64) int {
	hits := 0
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			a, b := &bodies[i], &bodies[j]
			if m.Separated(a, b) {
				continue
			}
			if Collide(a, b, e) {
				hits++
			}
		}
	}
	return hits
}
