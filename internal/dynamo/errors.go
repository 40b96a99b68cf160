package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a body position or velocity became NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrDiverged indicates a body left the container far enough to be reset.
	ErrDiverged = errors.New("dynamo: body diverged beyond safety bound")
)

// SimulationError wraps an error with the frame and body it was detected on.
type SimulationError struct {
	Frame   int
	BodyID  string
	Pos     Vec2
	Vel     Vec2
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("frame %d body %s pos=%s vel=%s: %v", e.Frame, e.BodyID, e.Pos, e.Vel, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
