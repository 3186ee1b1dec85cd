package scheduler

import "errors"

var (
	// ErrInvalidJob is returned for a job without a name, run function or interval
	ErrInvalidJob = errors.New("invalid scheduler job")

	// ErrDuplicateJob is returned when two jobs share a name
	ErrDuplicateJob = errors.New("duplicate scheduler job")
)
