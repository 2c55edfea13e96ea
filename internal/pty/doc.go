// Package pty owns one pseudo-terminal and the child process attached to it.
//
// A Bridge exposes byte-level primitives: Read (the ordered output stream),
// Write with a bounded deadline, Resize with an explicit window-change
// notification to the foreground process group, and Signal. It does no
// parsing; interpretation of the output belongs to the terminal package.
package pty
