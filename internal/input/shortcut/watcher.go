package shortcut

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultReloadDelay is how long the watcher waits for writes to settle.
const DefaultReloadDelay = 100 * time.Millisecond

// Watcher reloads a registry's override file when it changes.
//
// The parent directory is watched rather than the file so that editors
// which save by renaming a temporary file are picked up.
type Watcher struct {
	registry *Registry
	path     string
	fsw      *fsnotify.Watcher

	logger   *zap.Logger
	delay    time.Duration
	onReload func(error)

	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatcherLogger sets the logger for reload failures.
func WithWatcherLogger(l *zap.Logger) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithReloadDelay sets the settle delay before reloading.
func WithReloadDelay(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// WithReloadHook registers fn to run after every reload with its result.
func WithReloadHook(fn func(error)) WatcherOption {
	return func(w *Watcher) {
		w.onReload = fn
	}
}

// NewWatcher starts watching path and applies it to r on every change.
// The initial load is left to the caller.
func NewWatcher(r *Registry, path string, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	w := &Watcher{
		registry: r,
		path:     filepath.Clean(abs),
		logger:   zap.NewNop(),
		delay:    DefaultReloadDelay,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(w.path), err)
	}
	w.fsw = fsw

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		w.wg.Wait()
		err = w.fsw.Close()
	})
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.done:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
				!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.delay)
			} else {
				timer.Reset(w.delay)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("keybinding watcher error", zap.Error(err))

		case <-fire:
			fire = nil
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	err := w.registry.LoadOverrides(w.path)
	if err != nil {
		w.logger.Warn("reloading keybindings failed", zap.String("path", w.path), zap.Error(err))
	} else {
		w.logger.Debug("keybindings reloaded", zap.String("path", w.path))
	}
	if w.onReload != nil {
		w.onReload(err)
	}
}
