// Package app wires the terminal subsystem together: configuration,
// logging, the session manager, the shortcut registry and search.
//
// Front ends create an App, feed it key events through HandleKey and
// register handlers for the actions they implement themselves (copy,
// paste, scrolling). Session and search actions have built-in behavior.
package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/dshills/termhost/internal/config"
	"github.com/dshills/termhost/internal/input/key"
	"github.com/dshills/termhost/internal/input/shortcut"
	"github.com/dshills/termhost/internal/search"
	"github.com/dshills/termhost/internal/session"
)

// Options configures New.
type Options struct {
	// Config is used as is when set. Otherwise configuration is loaded
	// from ConfigPath, which may be empty.
	Config     *config.Config
	ConfigPath string

	// Shell overrides the configured shell.
	Shell string

	// LogLevel overrides the configured log level.
	LogLevel string

	// Debug enables development logging at debug level.
	Debug bool

	// Logger is used instead of building one from the configuration.
	Logger *Logger
}

// App is the composition root.
type App struct {
	opts   Options
	cfg    *config.Config
	logger *Logger

	sessions  *session.Manager
	shortcuts *shortcut.Registry
	watcher   *shortcut.Watcher
	router    *shortcut.Router

	engine    *search.Engine
	debouncer *search.Debouncer

	mu          sync.Mutex
	handlers    map[shortcut.Action]func()
	cols, rows  int
	searchOpts  search.Options
	searchState search.State
	searchSeq   uint64
	onSearch    func(search.State)

	closed atomic.Bool
}

// New creates an App. No session is started; call NewSession.
func New(opts Options) (*App, error) {
	a := &App{
		opts:        opts,
		handlers:    make(map[shortcut.Action]func()),
		searchState: search.Idle(),
	}
	if err := newBootstrapper(a).bootstrap(); err != nil {
		return nil, err
	}
	return a, nil
}

// Config returns the effective configuration.
func (a *App) Config() *config.Config { return a.cfg }

// Logger returns the application logger.
func (a *App) Logger() *Logger { return a.logger }

// Sessions returns the session manager.
func (a *App) Sessions() *session.Manager { return a.sessions }

// Shortcuts returns the shortcut registry.
func (a *App) Shortcuts() *shortcut.Registry { return a.shortcuts }

// HandleKey routes a key press to an action or the active session.
func (a *App) HandleKey(ev key.Event) shortcut.Outcome {
	if a.closed.Load() {
		return shortcut.OutcomeDropped
	}
	return a.router.HandleKey(ev)
}

// Paste writes text to the active session.
func (a *App) Paste(text string, bracketed bool) bool {
	return a.router.Paste(text, bracketed)
}

// SetViewportSize records the front end's terminal area and resizes every
// running session to it. New sessions start at this size.
func (a *App) SetViewportSize(cols, rows int) {
	if cols < 1 || rows < 1 {
		return
	}
	a.mu.Lock()
	a.cols, a.rows = cols, rows
	a.mu.Unlock()

	for _, s := range a.sessions.Sessions() {
		a.sessions.Resize(s.ID(), cols, rows)
	}
}

// NewSession starts a session with the configured defaults and makes it
// active.
func (a *App) NewSession(ctx context.Context) (*session.Session, error) {
	if a.closed.Load() {
		return nil, ErrClosed
	}
	a.mu.Lock()
	opts := session.Options{Cols: a.cols, Rows: a.rows}
	a.mu.Unlock()

	s, err := a.sessions.CreateSession(ctx, opts)
	if err != nil {
		return nil, err
	}
	a.sessions.SetActiveSession(s.ID())
	return s, nil
}

// CloseActive closes the active session and activates the first remaining
// one.
func (a *App) CloseActive(ctx context.Context) error {
	s := a.sessions.ActiveSession()
	if s == nil {
		return ErrNoActiveSession
	}
	a.sessions.CloseSession(ctx, s.ID())
	if rest := a.sessions.Sessions(); len(rest) > 0 {
		a.sessions.SetActiveSession(rest[0].ID())
	}
	a.ClearSearch()
	return nil
}

// CycleSession activates the session delta places after the active one,
// wrapping around, and returns it.
func (a *App) CycleSession(delta int) *session.Session {
	all := a.sessions.Sessions()
	if len(all) == 0 {
		return nil
	}
	cur := 0
	if active := a.sessions.ActiveSession(); active != nil {
		for i, s := range all {
			if s == active {
				cur = i
				break
			}
		}
	}
	next := all[((cur+delta)%len(all)+len(all))%len(all)]
	a.sessions.SetActiveSession(next.ID())
	a.ClearSearch()
	return next
}

// Close stops the watcher, cancels searches and closes every session.
func (a *App) Close(ctx context.Context) error {
	if !a.closed.CompareAndSwap(false, true) {
		return nil
	}

	a.debouncer.Cancel()
	a.engine.Cancel()

	var errs []error
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.sessions.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	// Sync fails on terminals; nothing useful to report.
	_ = a.logger.Sync()
	return errors.Join(errs...)
}
