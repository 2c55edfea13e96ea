// Package shortcut maps key chords to terminal actions and decides whether
// a key press is handled by the application or passed through to the shell.
//
// The Registry holds one Binding per action with a secondary index from
// chord to binding. No two enabled bindings may share a chord: Register,
// UpdateBinding and SetEnabled reject conflicts instead of overwriting.
//
// Pass-through bindings (PassToPty) name shell control sequences such as
// Ctrl+C or Ctrl+D. They occupy their chord like any other binding so that
// an application action can never claim the same key.
//
// User customizations are stored as overrides against the defaults in a
// TOML file:
//
//	[[binding]]
//	action = "clipboard.copy"
//	chord = "Ctrl+Shift+C"
//
//	[[binding]]
//	action = "search.findNext"
//	enabled = false
//
// A Watcher reloads that file when it changes, and a Router applies the
// registry to incoming key events.
package shortcut
