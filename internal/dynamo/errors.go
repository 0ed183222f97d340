package dynamo

import "errors"

// Domain errors for state-space operations.
var (
	// ErrInvalidState indicates a state vector with NaN or Inf values.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrUnstable indicates a trajectory diverged while sampling.
	ErrUnstable = errors.New("dynamo: trajectory unstable (state diverged)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrDimensionMismatch indicates points of different dimension in one set.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between points")

	// ErrEmptySet indicates a set with too few points for the requested operation.
	ErrEmptySet = errors.New("dynamo: state space set has too few points")
)

// SimulationError wraps an error with trajectory context.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return e.Wrapped.Error()
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
