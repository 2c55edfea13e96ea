package session

// State is a session lifecycle state.
type State int32

const (
	StateStarting State = iota
	StateRunning
	StateExited
	StateError
	StateClosing
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateExited:
		return "exited"
	case StateError:
		return "error"
	case StateClosing:
		return "closing"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether the child process is gone.
func (s State) IsTerminal() bool {
	return s == StateExited || s == StateError || s == StateClosing
}
