package key

import (
	"time"
	"unicode"
)

// Event represents a single key press event.
type Event struct {
	// Key identifies the key pressed.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// NewEvent creates a key event with the current timestamp.
func NewEvent(k Key, r rune, mods Modifier) Event {
	return Event{
		Key:       k,
		Rune:      r,
		Modifiers: mods,
		Timestamp: time.Now(),
	}
}

// NewRuneEvent creates a key event for a character.
func NewRuneEvent(r rune, mods Modifier) Event {
	return NewEvent(KeyRune, r, mods)
}

// NewSpecialEvent creates a key event for a special key.
func NewSpecialEvent(k Key, mods Modifier) Event {
	return NewEvent(k, 0, mods)
}

// IsRune returns true if this is a character key event.
func (e Event) IsRune() bool {
	return e.Key == KeyRune
}

// Chord returns the normalized chord for the event. Uppercase letters are
// folded to lowercase with Shift added, so a front end that reports
// Ctrl+Shift+C as rune 'C' and one that reports 'c' with Shift agree.
func (e Event) Chord() Chord {
	return newChord(e.Key, e.Rune, e.Modifiers)
}

// String returns the chord notation for the event.
func (e Event) String() string {
	return e.Chord().String()
}

func newChord(k Key, r rune, mods Modifier) Chord {
	if k != KeyRune {
		return Chord{Key: k, Mods: mods}
	}
	if unicode.IsUpper(r) {
		r = unicode.ToLower(r)
		mods |= ModShift
	}
	return Chord{Key: KeyRune, Rune: r, Mods: mods}
}
