package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/termhost/internal/config"
	"github.com/dshills/termhost/internal/input/shortcut"
	"github.com/dshills/termhost/internal/search"
	"github.com/dshills/termhost/internal/session"
)

// bootstrapper initializes components in dependency order and unwinds
// them if a later step fails.
type bootstrapper struct {
	app       *App
	initOrder []string
}

func newBootstrapper(a *App) *bootstrapper {
	return &bootstrapper{app: a, initOrder: make([]string, 0, 6)}
}

func (b *bootstrapper) bootstrap() error {
	steps := []func() error{
		b.initConfig,
		b.initLogger,
		b.initSessions,
		b.initShortcuts,
		b.initSearch,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			b.cleanup()
			return err
		}
	}
	b.app.router = shortcut.NewRouter(b.app.shortcuts, b.app, b.app.sessions)

	b.app.logger.Info("termhost started",
		zap.String("shell", b.app.cfg.Terminal.Shell),
		zap.Int("scrollback", b.app.cfg.Terminal.Scrollback),
		zap.Int("bindings", b.app.shortcuts.Len()))
	return nil
}

func (b *bootstrapper) initConfig() error {
	a := b.app
	cfg := a.opts.Config
	if cfg == nil {
		loaded, err := config.Load(a.opts.ConfigPath)
		if err != nil {
			return &InitError{Component: "config", Err: err}
		}
		cfg = loaded
	}

	if a.opts.Shell != "" {
		cfg.Terminal.Shell = a.opts.Shell
	}
	if a.opts.LogLevel != "" {
		cfg.Log.Level = a.opts.LogLevel
	}
	if a.opts.Debug {
		cfg.Log.Level = "debug"
		cfg.Log.Development = true
	}
	if err := cfg.Validate(); err != nil {
		return &InitError{Component: "config", Err: err}
	}

	a.cfg = cfg
	a.cols, a.rows = cfg.Terminal.Cols, cfg.Terminal.Rows
	a.searchOpts = search.OptionsFromConfig("", cfg.Search)
	b.initOrder = append(b.initOrder, "config")
	return nil
}

func (b *bootstrapper) initLogger() error {
	a := b.app
	if a.opts.Logger != nil {
		a.logger = a.opts.Logger
	} else {
		l, err := NewLogger(a.cfg.Log)
		if err != nil {
			return &InitError{Component: "logger", Err: err}
		}
		a.logger = l
	}
	b.initOrder = append(b.initOrder, "logger")
	return nil
}

func (b *bootstrapper) initSessions() error {
	a := b.app
	a.sessions = session.NewManager(session.ManagerConfig{
		Terminal: a.cfg.Terminal,
		Logger:   a.logger.Logger,
	})
	b.initOrder = append(b.initOrder, "sessions")
	return nil
}

func (b *bootstrapper) initShortcuts() error {
	a := b.app
	a.shortcuts = shortcut.NewDefaultRegistry()

	path := a.cfg.Keybindings.Path
	if path == "" {
		b.initOrder = append(b.initOrder, "shortcuts")
		return nil
	}

	// A bad override file leaves the defaults in place.
	if err := a.shortcuts.LoadOverrides(path); err != nil {
		a.logger.Warn("loading keybindings", zap.String("path", path), zap.Error(err))
	}
	if a.cfg.Keybindings.Watch {
		w, err := shortcut.NewWatcher(a.shortcuts, path,
			shortcut.WithWatcherLogger(a.logger.Component("shortcut")))
		if err != nil {
			return &InitError{Component: "keybinding watcher", Err: err}
		}
		a.watcher = w
	}
	b.initOrder = append(b.initOrder, "shortcuts")
	return nil
}

func (b *bootstrapper) initSearch() error {
	a := b.app
	a.engine = search.NewEngine(a.logger.Component("search"))
	a.debouncer = search.NewDebouncer(a.cfg.Search.Debounce.Std())
	b.initOrder = append(b.initOrder, "search")
	return nil
}

// cleanup releases initialized components in reverse order.
func (b *bootstrapper) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for i := len(b.initOrder) - 1; i >= 0; i-- {
		b.cleanupComponent(ctx, b.initOrder[i])
	}
}

func (b *bootstrapper) cleanupComponent(ctx context.Context, component string) {
	a := b.app
	switch component {
	case "search":
		a.debouncer.Cancel()
		a.engine.Cancel()
	case "shortcuts":
		if a.watcher != nil {
			_ = a.watcher.Close()
			a.watcher = nil
		}
	case "sessions":
		_ = a.sessions.Close(ctx)
	case "logger":
		_ = a.logger.Sync()
	}
}
