//go:build !windows

package pty

import (
	"fmt"
	"syscall"

	"golang.org/x/sys/unix"
)

var unixSignals = map[Signal]syscall.Signal{
	SignalInterrupt: unix.SIGINT,
	SignalTerminate: unix.SIGTERM,
	SignalKill:      unix.SIGKILL,
	SignalSuspend:   unix.SIGTSTP,
	SignalContinue:  unix.SIGCONT,
	SignalHangup:    unix.SIGHUP,
}

// foregroundGroup returns the process group that owns the terminal.
func (b *Bridge) foregroundGroup() (int, error) {
	conn, err := b.file.SyscallConn()
	if err != nil {
		return 0, err
	}
	var pgrp int
	var ioctlErr error
	if err := conn.Control(func(fd uintptr) {
		pgrp, ioctlErr = unix.IoctlGetInt(int(fd), unix.TIOCGPGRP)
	}); err != nil {
		return 0, err
	}
	if ioctlErr != nil {
		return 0, ioctlErr
	}
	return pgrp, nil
}

func (b *Bridge) deliver(sig Signal) error {
	s, ok := unixSignals[sig]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedSignal, sig)
	}
	if pgrp, err := b.foregroundGroup(); err == nil && pgrp > 0 {
		if err := unix.Kill(-pgrp, s); err == nil {
			return nil
		}
	}
	return b.cmd.Process.Signal(s)
}

func (b *Bridge) notifyResize() error {
	pgrp, err := b.foregroundGroup()
	if err != nil || pgrp <= 0 {
		return b.cmd.Process.Signal(unix.SIGWINCH)
	}
	return unix.Kill(-pgrp, unix.SIGWINCH)
}
