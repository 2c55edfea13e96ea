package search

import "errors"

var (
	// ErrInvalidQuery is returned for a pattern that does not compile.
	ErrInvalidQuery = errors.New("invalid search pattern")

	// ErrTimeout is returned when a scan exceeds its time bound.
	ErrTimeout = errors.New("search timed out")

	// ErrCanceled is returned when a scan is superseded or its context ends.
	ErrCanceled = errors.New("search canceled")
)
