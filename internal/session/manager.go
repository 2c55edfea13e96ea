package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/termhost/internal/config"
	"github.com/dshills/termhost/internal/event"
	"github.com/dshills/termhost/internal/pty"
	"github.com/dshills/termhost/internal/shell"
	"github.com/dshills/termhost/internal/terminal"
)

const (
	// drainTimeout bounds how long the supervisor waits for buffered output
	// after the child exits, and how long CloseSession waits for the read
	// loop after releasing the PTY.
	drainTimeout = 500 * time.Millisecond

	// exitTimeout bounds how long a failed read loop waits for the child to
	// be reaped before the session is marked Error.
	exitTimeout = time.Second

	// killTimeout bounds the wait for a forced kill to be reaped.
	killTimeout = 2 * time.Second
)

// ManagerConfig configures a Manager.
type ManagerConfig struct {
	// Terminal supplies session defaults. Zero fields fall back to
	// config.Default(); LoginShell is honored whenever any field is set.
	Terminal config.TerminalConfig

	// Resolver locates shells. Defaults to a resolver backed by the process
	// environment.
	Resolver *shell.Resolver

	Logger *zap.Logger
}

// Manager owns the live sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	order    []*Session

	active atomic.Pointer[Session]

	defaults config.TerminalConfig
	resolver *shell.Resolver
	hub      *event.Hub[Event]
	logger   *zap.Logger

	closed atomic.Bool

	// newReader overrides the read side of a session's PTY.
	newReader func(*pty.Bridge) func([]byte) (int, error)
}

// NewManager creates a manager.
func NewManager(cfg ManagerConfig) *Manager {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("session")

	defaults := config.Default().Terminal
	t := cfg.Terminal
	if t.Shell != "" {
		defaults.Shell = t.Shell
	}
	if t.Cols > 0 {
		defaults.Cols = t.Cols
	}
	if t.Rows > 0 {
		defaults.Rows = t.Rows
	}
	if t.Scrollback > 0 {
		defaults.Scrollback = t.Scrollback
	}
	if t.CloseGrace > 0 {
		defaults.CloseGrace = t.CloseGrace
	}
	if t.IOTimeout > 0 {
		defaults.IOTimeout = t.IOTimeout
	}
	if t.Term != "" {
		defaults.Term = t.Term
	}
	if t != (config.TerminalConfig{}) {
		defaults.LoginShell = t.LoginShell
	}

	resolver := cfg.Resolver
	if resolver == nil {
		resolver = shell.NewResolver(logger)
		resolver.Login = defaults.LoginShell
	}

	return &Manager{
		sessions: make(map[string]*Session),
		defaults: defaults,
		resolver: resolver,
		hub:      event.NewHub[Event](logger),
		logger:   logger,
	}
}

// Subscribe registers for manager events. Call Unsubscribe when done.
func (m *Manager) Subscribe(opts ...SubscribeOption) *Subscription {
	return m.hub.Subscribe(opts...)
}

// CreateSession starts a shell and returns it in the Running state. Spawn
// failures return an error wrapping ErrSpawnFailed and publish nothing.
func (m *Manager) CreateSession(ctx context.Context, opts Options) (*Session, error) {
	if m.closed.Load() {
		return nil, ErrManagerClosed
	}

	r, err := m.resolve(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSpawnFailed, err)
	}

	s := &Session{
		id:         uuid.NewString(),
		createdAt:  time.Now(),
		shellPath:  r.shell.Path,
		shellType:  r.shell.Type,
		scrollback: max(r.scrollback, r.rows),
		name:       r.name,
		state:      StateStarting,
		cwd:        r.dir,
		cols:       r.cols,
		rows:       r.rows,
		readDone:   make(chan struct{}),
	}
	s.logger = m.logger.With(zap.String("session", s.id))
	s.buffer = terminal.New(terminal.Options{
		Cols:       r.cols,
		Rows:       r.rows,
		Scrollback: r.scrollback,
		Handlers:   m.handlers(s),
	})

	bridge, err := pty.Start(ctx, pty.Spec{
		Path:         r.shell.Path,
		Args:         r.args,
		Env:          r.env,
		Dir:          r.dir,
		Cols:         r.cols,
		Rows:         r.rows,
		WriteTimeout: m.defaults.IOTimeout.Std(),
	}, s.logger)
	if err != nil {
		s.logger.Info("spawn failed", zap.String("shell", r.shell.Path), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrSpawnFailed, err)
	}
	s.bridge = bridge
	s.read = bridge.Read
	if m.newReader != nil {
		s.read = m.newReader(bridge)
	}

	// Hold the lifecycle lock until Running is published so a concurrent
	// CloseSession cannot report Closing first.
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	m.mu.Lock()
	if m.closed.Load() {
		m.mu.Unlock()
		_ = bridge.Close()
		return nil, ErrManagerClosed
	}
	s.transition(StateRunning, StateStarting)
	m.sessions[s.id] = s
	m.order = append(m.order, s)
	m.active.CompareAndSwap(nil, s)
	m.mu.Unlock()

	s.logger.Info("session started",
		zap.String("shell", s.shellPath),
		zap.Strings("args", r.args),
		zap.Int("pid", bridge.PID()),
		zap.Int("cols", r.cols),
		zap.Int("rows", r.rows),
	)

	m.publish(SessionCreated{Meta: newMeta(s.id), Session: s})
	m.publish(SessionStateChanged{Meta: newMeta(s.id), Old: StateStarting, New: StateRunning})

	go s.readLoop(m.publish)
	go m.supervise(s)

	return s, nil
}

func (m *Manager) handlers(s *Session) terminal.Handlers {
	return terminal.Handlers{
		Title: func(title string) {
			m.publish(TitleChanged{Meta: newMeta(s.id), Title: title})
		},
		Bell: func() {
			m.publish(BellTriggered{Meta: newMeta(s.id)})
		},
		Directory: func(path string) {
			if s.setDirectory(path) {
				m.publish(DirectoryChanged{Meta: newMeta(s.id), Path: path})
			}
		},
		Notification: func(message string) {
			m.publish(Notification{Meta: newMeta(s.id), Message: message})
		},
		CommandFinished: func(code int) {
			m.publish(CommandCompleted{Meta: newMeta(s.id), ExitCode: code})
		},
		Reply: func(p []byte) {
			if _, err := s.bridge.Write(p); err != nil {
				s.logger.Debug("terminal reply dropped", zap.Error(err))
			}
		},
	}
}

// supervise moves a Running session to Exited when the child exits, or to
// Error when the PTY fails while the child is still alive.
func (m *Manager) supervise(s *Session) {
	select {
	case <-s.bridge.Exited():
		select {
		case <-s.readDone:
		case <-time.After(drainTimeout):
		}
		m.exited(s)
	case <-s.readDone:
		select {
		case <-s.bridge.Exited():
			m.exited(s)
		case <-time.After(exitTimeout):
			if _, ok := m.advance(s, StateError, StateRunning); ok {
				s.logger.Warn("pty failed", zap.Error(s.readErr))
			}
		}
	}
}

func (m *Manager) exited(s *Session) {
	code := s.recordExit(s.bridge.ExitCode())
	if _, ok := m.advance(s, StateExited, StateRunning); !ok {
		return
	}
	if err := s.bridge.WaitErr(); err != nil {
		s.logger.Warn("wait failed", zap.Error(err))
	}
	s.logger.Info("session exited", zap.Int("code", *code))
}

// advance moves s to next and publishes the change under the session's
// lifecycle lock, so each session's state events arrive in transition order.
func (m *Manager) advance(s *Session, next State, from ...State) (State, bool) {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()
	old, ok := s.transition(next, from...)
	if ok {
		m.publish(SessionStateChanged{Meta: newMeta(s.id), Old: old, New: next, ExitCode: s.exitCodePtr()})
	}
	return old, ok
}

// CloseSession terminates and removes a session: hangup and terminate
// signals, a bounded grace period, then a forced kill. It returns false if
// the session is unknown or already closing. Cancelling ctx skips the rest of
// the grace period.
func (m *Manager) CloseSession(ctx context.Context, id string) bool {
	s := m.Get(id)
	if s == nil {
		return false
	}
	if _, ok := m.advance(s, StateClosing, StateStarting, StateRunning, StateExited, StateError); !ok {
		return false
	}

	m.terminate(ctx, s)

	m.mu.Lock()
	delete(m.sessions, s.id)
	for i, o := range m.order {
		if o == s {
			m.order = append(m.order[:i:i], m.order[i+1:]...)
			break
		}
	}
	m.active.CompareAndSwap(s, nil)
	m.mu.Unlock()

	s.logger.Info("session closed")
	m.publish(SessionClosed{Meta: newMeta(s.id), Session: s})
	return true
}

func (m *Manager) terminate(ctx context.Context, s *Session) {
	exited := s.bridge.Exited()

	select {
	case <-exited:
	default:
		for _, sig := range []pty.Signal{pty.SignalHangup, pty.SignalTerminate} {
			if err := s.bridge.Signal(sig); err != nil {
				s.logger.Debug("graceful signal failed", zap.Stringer("signal", sig), zap.Error(err))
			}
		}

		grace := time.NewTimer(m.defaults.CloseGrace.Std())
		defer grace.Stop()

		select {
		case <-exited:
		case <-grace.C:
			s.logger.Warn("grace period expired, killing", zap.Duration("grace", m.defaults.CloseGrace.Std()))
			m.kill(s)
		case <-ctx.Done():
			s.logger.Debug("close cancelled, killing", zap.Error(ctx.Err()))
			m.kill(s)
		}
	}

	if err := s.bridge.Close(); err != nil {
		s.logger.Debug("close pty", zap.Error(err))
	}
	select {
	case <-s.readDone:
	case <-time.After(drainTimeout):
		s.logger.Debug("read loop still running after close")
	}
	s.recordExit(s.bridge.ExitCode())
}

func (m *Manager) kill(s *Session) {
	if err := s.bridge.Kill(); err != nil {
		s.logger.Debug("kill", zap.Error(err))
	}
	select {
	case <-s.bridge.Exited():
	case <-time.After(killTimeout):
		s.logger.Warn("child not reaped after kill")
	}
}

// WriteInput sends raw bytes to a Running session.
func (m *Manager) WriteInput(id string, data []byte) bool {
	s := m.Get(id)
	if s == nil || !s.running() {
		return false
	}
	if _, err := s.bridge.Write(data); err != nil {
		s.logger.Debug("write failed", zap.Error(err))
		return false
	}
	return true
}

// WriteActive sends raw bytes to the active session.
func (m *Manager) WriteActive(data []byte) bool {
	s := m.ActiveSession()
	if s == nil {
		return false
	}
	return m.WriteInput(s.ID(), data)
}

// Resize changes the PTY and buffer size of a Running session.
func (m *Manager) Resize(id string, cols, rows int) bool {
	s := m.Get(id)
	if s == nil || !s.running() {
		return false
	}
	if err := s.bridge.Resize(cols, rows); err != nil {
		s.logger.Debug("resize failed", zap.Error(err))
		return false
	}
	s.buffer.Resize(cols, rows)
	s.setSize(cols, rows)
	return true
}

// SendSignal delivers sig to the foreground process of a Running session.
func (m *Manager) SendSignal(id string, sig pty.Signal) bool {
	s := m.Get(id)
	if s == nil || !s.running() {
		return false
	}
	if err := s.bridge.Signal(sig); err != nil {
		s.logger.Debug("signal failed", zap.Stringer("signal", sig), zap.Error(err))
		return false
	}
	return true
}

// SetActiveSession makes id the active session. Unknown ids are ignored.
func (m *Manager) SetActiveSession(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return false
	}
	m.active.Store(s)
	return true
}

// ActiveSession returns the active session, or nil.
func (m *Manager) ActiveSession() *Session {
	return m.active.Load()
}

// Get returns a live session, or nil.
func (m *Manager) Get(id string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id]
}

// Sessions returns the live sessions in creation order.
func (m *Manager) Sessions() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Session, len(m.order))
	copy(out, m.order)
	return out
}

// Rename sets a session's display name.
func (m *Manager) Rename(id, name string) bool {
	s := m.Get(id)
	if s == nil {
		return false
	}
	s.setName(name)
	return true
}

// ChangeDirectory types a shell-specific cd command into a Running session
// and records path as its working directory.
func (m *Manager) ChangeDirectory(id, path string) bool {
	s := m.Get(id)
	if s == nil || !s.running() {
		return false
	}
	cmd := shell.FormatChangeDirectory(s.shellType, path)
	if !m.WriteInput(id, []byte(cmd+"\r")) {
		return false
	}
	if s.setDirectory(path) {
		m.publish(DirectoryChanged{Meta: newMeta(s.id), Path: path})
	}
	return true
}

// ClearScreen clears the buffer and asks the shell to redraw its prompt.
func (m *Manager) ClearScreen(id string) bool {
	s := m.Get(id)
	if s == nil || !s.running() {
		return false
	}
	s.buffer.Clear()
	cmd := shell.ConfigurationFor(s.shellType).ClearCommand
	return m.WriteInput(id, []byte(cmd+"\r"))
}

// CloseAll closes every session concurrently.
func (m *Manager) CloseAll(ctx context.Context) error {
	var g errgroup.Group
	for _, s := range m.Sessions() {
		id := s.id
		g.Go(func() error {
			m.CloseSession(ctx, id)
			return nil
		})
	}
	_ = g.Wait()
	return ctx.Err()
}

// Close closes every session and stops event delivery. Subscribers receive
// the final SessionClosed events before their channels close.
func (m *Manager) Close(ctx context.Context) error {
	if m.closed.Swap(true) {
		return nil
	}
	err := m.CloseAll(ctx)
	m.hub.Close()
	return err
}

func (m *Manager) publish(ev Event) {
	_ = m.hub.Publish(ev)
}
