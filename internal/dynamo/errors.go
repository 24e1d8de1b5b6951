package dynamo

import "errors"

// Domain errors for ODE operations.
var (
	// ErrInvalidState indicates a state vector containing NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrUnknownParameter indicates SetParam was given a name the system does not expose.
	ErrUnknownParameter = errors.New("dynamo: unknown parameter")

	// ErrDimensionMismatch indicates a state whose length differs from the system's.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")
)
