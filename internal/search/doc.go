// Package search finds text in terminal buffer snapshots.
//
// Searches run against an immutable terminal.Snapshot, so output arriving
// during a scan never disturbs it. Results are addressed by logical line
// index and rune column, which stay valid while the lines remain stored.
//
// State is a value type: every transition returns a new State, and a State
// already handed to a renderer is never modified.
//
// Regex and plain queries share one matcher (github.com/dlclark/regexp2)
// whose match timeout bounds catastrophic backtracking. An Engine cancels a
// superseded run; a canceled run yields the caller's previous State.
package search
