package shortcut

import (
	"errors"
	"fmt"

	"github.com/dshills/termhost/internal/input/key"
)

// Registry errors.
var (
	ErrConflict        = errors.New("shortcut already in use")
	ErrUnknownAction   = errors.New("unknown action")
	ErrDuplicateAction = errors.New("action already registered")
	ErrNotCustomizable = errors.New("binding is not customizable")
)

// ConflictError reports the enabled binding that already owns a chord.
type ConflictError struct {
	Action   Action
	Chord    key.Chord
	Existing Binding
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s is bound to %s", ErrConflict, e.Chord, e.Existing.Action)
}

// Unwrap lets errors.Is match ErrConflict.
func (e *ConflictError) Unwrap() error {
	return ErrConflict
}
