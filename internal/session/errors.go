package session

import "errors"

var (
	// ErrSpawnFailed is returned by CreateSession when the shell cannot be
	// resolved or started. It wraps the underlying cause.
	ErrSpawnFailed = errors.New("shell could not be started")

	// ErrManagerClosed is returned by operations on a closed manager.
	ErrManagerClosed = errors.New("session manager is closed")
)
