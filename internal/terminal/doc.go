// Package terminal interprets a shell's raw output stream into a bounded
// scrollback of styled lines.
//
// A Buffer is fed with Write from a single goroutine (the session read
// loop). Output may arrive in arbitrary chunks; partial escape sequences
// are carried across calls. Readers call Snapshot, Viewport or Range, which
// copy what they need under a read lock so long scans never hold it.
//
// Lines carry a logical Index that grows monotonically for the lifetime of
// the buffer. When the scrollback cap is reached the oldest line is evicted
// from the head; indices are never reassigned.
//
// Supported input:
//
//   - printable UTF-8 with wide-rune handling and deferred auto-wrap
//   - BS, HT, LF, VT, FF, CR and BEL
//   - CSI cursor movement, erase, insert/delete and SGR (16, 256 and
//     truecolor); other CSI sequences are consumed and ignored
//   - OSC 0/2 (title), 7 (cwd), 9 (cwd or notification) and 133 (prompt
//     marks); other OSC sequences are consumed and ignored
//
// Sequences that exceed a size cap, or are cancelled by CAN/SUB, are
// discarded and the parser returns to the ground state.
package terminal
