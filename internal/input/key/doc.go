// Package key provides key event types, chord parsing and PTY encoding.
//
// This package defines the types for representing keyboard input:
//
//   - Key: Identifies a keyboard key (special keys, function keys, or runes)
//   - Modifier: Represents modifier keys (Ctrl, Alt, Shift, Meta)
//   - Event: A single key press as delivered by the front end
//   - Chord: The normalized (key, modifiers) pair used as a binding key
//
// # Chord Specifications
//
// Chords are written as modifier names joined to a key with "+":
//
//   - Simple keys: "a", "Enter", "Escape", "F5"
//   - With modifiers: "Ctrl+C", "Ctrl+Shift+C", "Alt+Enter"
//
// Letters are case-insensitive; "Ctrl+Shift+c" and "Ctrl+Shift+C" name the
// same chord.
//
// # Encoding
//
// Encode turns an Event into the bytes an xterm-compatible terminal sends
// to the application: control characters for Ctrl+letter, an ESC prefix for
// Alt, and CSI/SS3 sequences with xterm modifier parameters for cursor,
// editing and function keys.
package key
