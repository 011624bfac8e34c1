package engine

import "errors"

// Domain errors for solver operations.
var (
	// ErrParameterBounds indicates a parameter value outside its valid range.
	ErrParameterBounds = errors.New("engine: parameter out of valid bounds")

	// ErrUnknownParameter indicates a SetParam name with no matching parameter.
	ErrUnknownParameter = errors.New("engine: unknown parameter")

	// ErrInvalidState indicates a particle with NaN or Inf position.
	ErrInvalidState = errors.New("engine: invalid particle state (NaN or Inf detected)")
)
