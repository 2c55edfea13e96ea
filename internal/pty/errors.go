package pty

import "errors"

var (
	// ErrClosed is returned by operations on a closed bridge.
	ErrClosed = errors.New("pty closed")

	// ErrInvalidSize is returned when a resize has a zero dimension.
	ErrInvalidSize = errors.New("invalid pty size")

	// ErrWriteTimeout is returned when the PTY does not accept input in time.
	ErrWriteTimeout = errors.New("pty write timed out")

	// ErrUnsupportedSignal is returned when a signal has no equivalent on
	// this platform.
	ErrUnsupportedSignal = errors.New("signal not supported on this platform")
)
