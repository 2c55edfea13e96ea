package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrClosed is returned by operations on a closed App.
	ErrClosed = errors.New("application closed")

	// ErrNoActiveSession indicates an action needed a session and none
	// is active.
	ErrNoActiveSession = errors.New("no active session")
)

// InitError reports which component failed during startup.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("initializing %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}
