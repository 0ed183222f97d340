package evt

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownEstimator indicates an estimator tag the tail family does not support.
	ErrUnknownEstimator = errors.New("evt: unknown estimator")

	// ErrUnknownExtraction indicates an extraction kind other than exceedances or block maxima.
	ErrUnknownExtraction = errors.New("evt: unknown extraction type")

	// ErrInvalidProbability indicates a quantile probability outside (0, 1).
	ErrInvalidProbability = errors.New("evt: quantile probability must lie in (0, 1)")

	// ErrInvalidBlockSize indicates a block size below 1.
	ErrInvalidBlockSize = errors.New("evt: block size must be at least 1")

	// ErrDegenerateSample indicates a sample too small or too flat to identify
	// the distribution parameters.
	ErrDegenerateSample = errors.New("evt: degenerate sample")

	// ErrTooFewExceedances indicates the extremal index has no gaps to work with.
	ErrTooFewExceedances = errors.New("evt: fewer than 2 exceedances")
)

// ConfigError reports an invalid configuration value before any estimation.
type ConfigError struct {
	Field string
	Value any
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s %v: %v", e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func degenerate(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDegenerateSample, fmt.Sprintf(format, args...))
}
