//go:build simdebug

package sim

import (
	"github.com/san-kum/particlebox/internal/dynamo"
	"github.com/san-kum/particlebox/internal/physics"
)

// assertFinite stops a debug build at the first non-finite body.
func assertFinite(frame int, b *physics.Body) {
	panic(&dynamo.SimulationError{
		Frame:   frame,
		BodyID:  b.ID,
		Pos:     b.Pos,
		Vel:     b.Vel,
		Wrapped: dynamo.ErrInvalidState,
	})
}
