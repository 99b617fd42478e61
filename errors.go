package vptree

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidK is returned when k is negative.
	ErrInvalidK = errors.New("k must be non-negative")

	// ErrInvalidRadius is returned when a search radius is negative.
	ErrInvalidRadius = errors.New("radius must be non-negative")

	// ErrNilDistanceFunc is returned when no distance function is supplied.
	ErrNilDistanceFunc = errors.New("distance function must not be nil")
)

// ErrNegativeDistance indicates the configured distance function returned a
// negative value. Distances must be non-negative for pruning to be sound;
// the tree cannot continue with a broken metric, so the operation is aborted
// and the offending value is reported to the caller.
type ErrNegativeDistance struct {
	Distance float64
}

func (e *ErrNegativeDistance) Error() string {
	return fmt.Sprintf("negative distance: %g", e.Distance)
}
