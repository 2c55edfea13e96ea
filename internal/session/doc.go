// Package session manages interactive shell sessions.
//
// A Manager owns a set of sessions. Each session pairs one PTY bridge (the
// child shell) with one terminal buffer (the interpreted output) and runs a
// dedicated read loop that is the only writer of that buffer.
//
// Lifecycle:
//
//	Starting -> Running -> (Exited | Error) -> Closing -> removed
//
// CreateSession returns a session only once it is Running; spawn failures
// are returned synchronously as ErrSpawnFailed and never reach subscribers.
// A session that exits stays listed (state Exited, exit code recorded) until
// CloseSession removes it.
//
// Routine misses, such as writing to an unknown or already closed session,
// are reported as a false return rather than an error so that callers racing
// a close need no special handling.
//
// Events are delivered through Subscribe. Events of one session arrive in the
// order the PTY produced them; no ordering holds across sessions.
package session
