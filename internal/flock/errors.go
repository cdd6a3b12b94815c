package flock

import (
	"errors"
	"fmt"
)

// Domain errors for flock operations.
var (
	// ErrInvalidIndex indicates an agent index outside [0, Len).
	ErrInvalidIndex = errors.New("flock: invalid agent index")

	// ErrUnknownID indicates an agent id that is not (or no longer) in the flock.
	ErrUnknownID = errors.New("flock: unknown agent id")

	// ErrLengthMismatch indicates parallel state slices of different lengths.
	ErrLengthMismatch = errors.New("flock: length mismatch between positions and velocities")

	// ErrInvalidParams indicates a negative or non-finite tuning value.
	ErrInvalidParams = errors.New("flock: invalid params")
)

// IndexError reports an out-of-range removal together with the flock size
// at the time of the call.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("flock: invalid agent index %d (len %d)", e.Index, e.Len)
}

func (e *IndexError) Unwrap() error {
	return ErrInvalidIndex
}
