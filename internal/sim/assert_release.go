//go:build !simdebug

package sim

import "github.com/san-kum/particlebox/internal/physics"

// assertFinite is a no-op in release builds; the safety clamp recovers the body.
func assertFinite(int, *physics.Body) {}
