package event

import "errors"

// ErrHubClosed is returned when publishing to a closed hub.
var ErrHubClosed = errors.New("event hub is closed")
