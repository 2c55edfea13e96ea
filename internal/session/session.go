package session

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/termhost/internal/pty"
	"github.com/dshills/termhost/internal/shell"
	"github.com/dshills/termhost/internal/terminal"
)

// Session is one shell attached to a PTY and a terminal buffer.
type Session struct {
	id         string
	createdAt  time.Time
	shellPath  string
	shellType  shell.ShellType
	scrollback int

	bridge *pty.Bridge
	buffer *terminal.Buffer
	logger *zap.Logger
	read   func([]byte) (int, error)

	// lifecycle serializes a state transition with its event.
	lifecycle sync.Mutex

	mu       sync.RWMutex
	name     string
	state    State
	cwd      string
	cols     int
	rows     int
	exitCode *int

	readDone chan struct{}
	readErr  error
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// Name returns the display name.
func (s *Session) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

// State returns the lifecycle state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// ShellPath returns the resolved shell executable.
func (s *Session) ShellPath() string {
	return s.shellPath
}

// ShellType returns the shell kind.
func (s *Session) ShellType() shell.ShellType {
	return s.shellType
}

// WorkingDirectory returns the last known working directory.
func (s *Session) WorkingDirectory() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cwd
}

// Size returns the terminal size.
func (s *Session) Size() (cols, rows int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cols, s.rows
}

// ScrollbackLines returns the buffer line capacity.
func (s *Session) ScrollbackLines() int {
	return s.scrollback
}

// Title returns the window title set by the application.
func (s *Session) Title() string {
	return s.buffer.Title()
}

// ExitCode returns the child's exit code once it has exited. A child killed
// by a signal reports -1.
func (s *Session) ExitCode() (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.exitCode == nil {
		return 0, false
	}
	return *s.exitCode, true
}

// CreatedAt returns the creation time.
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// PID returns the child process id.
func (s *Session) PID() int {
	return s.bridge.PID()
}

// Buffer returns the interpreted output. The read loop writes to it while
// Manager.Resize and Manager.ClearScreen adjust it from the caller's
// goroutine; the buffer's own lock orders them.
func (s *Session) Buffer() *terminal.Buffer {
	return s.buffer
}

func (s *Session) setName(name string) {
	s.mu.Lock()
	s.name = name
	s.mu.Unlock()
}

// setDirectory records path and reports whether it changed.
func (s *Session) setDirectory(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cwd == path {
		return false
	}
	s.cwd = path
	return true
}

func (s *Session) setSize(cols, rows int) {
	s.mu.Lock()
	s.cols, s.rows = cols, rows
	s.mu.Unlock()
}

func (s *Session) running() bool {
	return s.State() == StateRunning
}

// transition moves from one of the allowed states to next. It returns the
// previous state and false if the session was not in an allowed state.
func (s *Session) transition(next State, from ...State) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.state
	for _, f := range from {
		if old == f {
			s.state = next
			return old, true
		}
	}
	return old, false
}

func (s *Session) recordExit(code int) *int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exitCode == nil {
		c := code
		s.exitCode = &c
	}
	c := *s.exitCode
	return &c
}

func (s *Session) exitCodePtr() *int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.exitCode == nil {
		return nil
	}
	c := *s.exitCode
	return &c
}

// readLoop feeds PTY output into the buffer until the PTY fails or closes.
func (s *Session) readLoop(publish func(Event)) {
	defer close(s.readDone)

	buf := make([]byte, 32*1024)
	for {
		n, err := s.read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			_, _ = s.buffer.Write(data)
			publish(OutputReceived{Meta: newMeta(s.id), Data: data})
		}
		if err != nil {
			s.readErr = err
			s.logger.Debug("read loop finished", zap.Error(err))
			return
		}
	}
}
