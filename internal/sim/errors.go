package sim

import (
	"errors"
	"fmt"
)

// Configuration errors.
var (
	// ErrTemperature indicates T <= 0, where the Boltzmann factor is undefined.
	ErrTemperature = errors.New("sim: temperature must be positive")

	// ErrTrials indicates a negative trial count.
	ErrTrials = errors.New("sim: trial count must be non-negative")

	// ErrSampleInterval indicates a non-positive sampling interval.
	ErrSampleInterval = errors.New("sim: sample interval must be positive")
)

// RunError wraps an error with the number of trials completed before it.
type RunError struct {
	Trial   int
	Wrapped error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("trial %d: %v", e.Trial, e.Wrapped)
}

func (e *RunError) Unwrap() error {
	return e.Wrapped
}
