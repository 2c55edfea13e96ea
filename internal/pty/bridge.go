package pty

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	creack "github.com/creack/pty"
	"go.uber.org/zap"
)

// DefaultWriteTimeout bounds a single Write when Spec.WriteTimeout is zero.
const DefaultWriteTimeout = 250 * time.Millisecond

// Spec describes the child process to start.
type Spec struct {
	Path string
	Args []string
	Env  []string
	Dir  string
	Cols int
	Rows int

	// WriteTimeout bounds Write and Signal.
	WriteTimeout time.Duration
}

// Bridge is a running child process attached to a pseudo-terminal.
type Bridge struct {
	file *os.File
	cmd  *exec.Cmd

	writeTimeout time.Duration
	writeSem     chan struct{}

	exited   chan struct{}
	exitCode atomic.Int32
	waitErr  error

	closed    atomic.Bool
	closeOnce sync.Once

	logger *zap.Logger
}

// Start spawns spec.Path on a new PTY. Spawn failures (missing
// executable, permission denied) are returned synchronously.
func Start(ctx context.Context, spec Spec, logger *zap.Logger) (*Bridge, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if spec.Cols < 1 || spec.Rows < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, spec.Cols, spec.Rows)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cmd := exec.Command(spec.Path, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Env = spec.Env

	f, err := creack.StartWithSize(cmd, &creack.Winsize{
		Rows: uint16(spec.Rows),
		Cols: uint16(spec.Cols),
	})
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", spec.Path, err)
	}

	timeout := spec.WriteTimeout
	if timeout <= 0 {
		timeout = DefaultWriteTimeout
	}

	b := &Bridge{
		file:         f,
		cmd:          cmd,
		writeTimeout: timeout,
		writeSem:     make(chan struct{}, 1),
		exited:       make(chan struct{}),
		logger:       logger.With(zap.Int("pid", cmd.Process.Pid)),
	}
	b.exitCode.Store(-1)

	go b.wait()

	return b, nil
}

func (b *Bridge) wait() {
	err := b.cmd.Wait()
	code := -1
	if state := b.cmd.ProcessState; state != nil {
		code = state.ExitCode()
	}
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		b.waitErr = err
	}
	b.exitCode.Store(int32(code))
	b.logger.Debug("child exited", zap.Int("code", code), zap.Error(err))
	close(b.exited)
}

// PID returns the child process id.
func (b *Bridge) PID() int {
	return b.cmd.Process.Pid
}

// Read reads raw output. It returns an error once the child has exited and
// the output has been drained, or after Close.
func (b *Bridge) Read(p []byte) (int, error) {
	return b.file.Read(p)
}

// Write sends input to the child. It fails with ErrWriteTimeout rather than
// blocking when the PTY does not accept the bytes within the write timeout.
func (b *Bridge) Write(p []byte) (int, error) {
	if b.closed.Load() {
		return 0, ErrClosed
	}

	timer := time.NewTimer(b.writeTimeout)
	defer timer.Stop()

	select {
	case b.writeSem <- struct{}{}:
	case <-timer.C:
		return 0, ErrWriteTimeout
	}

	if err := b.file.SetWriteDeadline(time.Now().Add(b.writeTimeout)); err == nil {
		defer func() { <-b.writeSem }()
		n, err := b.file.Write(p)
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return n, ErrWriteTimeout
		}
		return n, err
	}

	// The descriptor is not pollable; run the write in the background and
	// keep the semaphore until it completes.
	type result struct {
		n   int
		err error
	}
	done := make(chan result, 1)
	go func() {
		defer func() { <-b.writeSem }()
		n, err := b.file.Write(p)
		done <- result{n, err}
	}()

	select {
	case r := <-done:
		return r.n, r.err
	case <-timer.C:
		return 0, ErrWriteTimeout
	}
}

// Resize sets the window size and notifies the foreground process group.
func (b *Bridge) Resize(cols, rows int) error {
	if b.closed.Load() {
		return ErrClosed
	}
	if cols < 1 || rows < 1 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, cols, rows)
	}
	if err := creack.Setsize(b.file, &creack.Winsize{Rows: uint16(rows), Cols: uint16(cols)}); err != nil {
		return fmt.Errorf("resize pty: %w", err)
	}
	if err := b.notifyResize(); err != nil {
		b.logger.Debug("window change notification failed", zap.Error(err))
	}
	return nil
}

// Signal delivers sig to the foreground process group, falling back to the
// child itself. SignalEOF writes EOFByte instead.
func (b *Bridge) Signal(sig Signal) error {
	if b.closed.Load() {
		return ErrClosed
	}
	if sig == SignalEOF {
		_, err := b.Write([]byte{EOFByte})
		return err
	}
	select {
	case <-b.exited:
		return os.ErrProcessDone
	default:
	}
	return b.deliver(sig)
}

// Exited is closed once the child process has been reaped.
func (b *Bridge) Exited() <-chan struct{} {
	return b.exited
}

// ExitCode returns the exit code, or -1 while running or when the child was
// killed by a signal.
func (b *Bridge) ExitCode() int {
	return int(b.exitCode.Load())
}

// WaitErr reports a failure to reap the child, as opposed to a non-zero exit.
func (b *Bridge) WaitErr() error {
	<-b.exited
	return b.waitErr
}

// Wait blocks until the child exits or ctx is done.
func (b *Bridge) Wait(ctx context.Context) (int, error) {
	select {
	case <-b.exited:
		return b.ExitCode(), nil
	case <-ctx.Done():
		return -1, ctx.Err()
	}
}

// Kill forcibly terminates the child.
func (b *Bridge) Kill() error {
	select {
	case <-b.exited:
		return nil
	default:
	}
	return b.cmd.Process.Kill()
}

// Close kills the child if it is still running and releases the PTY.
// Pending and future reads fail.
func (b *Bridge) Close() error {
	var err error
	b.closeOnce.Do(func() {
		b.closed.Store(true)
		if kerr := b.Kill(); kerr != nil && !errors.Is(kerr, os.ErrProcessDone) {
			b.logger.Debug("kill on close", zap.Error(kerr))
		}
		err = b.file.Close()
	})
	return err
}
