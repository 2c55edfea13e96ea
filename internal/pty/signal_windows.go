//go:build windows

package pty

import "fmt"

// Windows has no process groups or job-control signals; terminating kinds
// map to process termination and the rest are unsupported.
func (b *Bridge) deliver(sig Signal) error {
	switch sig {
	case SignalInterrupt, SignalTerminate, SignalKill, SignalHangup:
		return b.cmd.Process.Kill()
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedSignal, sig)
}

// ConPTY delivers size changes itself.
func (b *Bridge) notifyResize() error {
	return nil
}
