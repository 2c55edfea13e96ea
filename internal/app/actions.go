package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/dshills/termhost/internal/input/shortcut"
)

// Handle registers fn to run for action, replacing any built-in behavior.
// A nil fn removes the handler.
func (a *App) Handle(action shortcut.Action, fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if fn == nil {
		delete(a.handlers, action)
		return
	}
	a.handlers[action] = fn
}

// Dispatch runs action. It implements shortcut.Dispatcher.
func (a *App) Dispatch(action shortcut.Action) {
	a.mu.Lock()
	fn := a.handlers[action]
	a.mu.Unlock()

	if fn != nil {
		fn()
		return
	}
	if !a.builtin(action) {
		a.logger.Debug("unhandled action", zap.String("action", string(action)))
	}
}

// builtin runs the default behavior for session and search actions.
func (a *App) builtin(action shortcut.Action) bool {
	ctx := context.Background()
	switch action {
	case shortcut.ActionNewSession:
		if _, err := a.NewSession(ctx); err != nil {
			a.logger.Warn("starting session", zap.Error(err))
		}
	case shortcut.ActionCloseSession:
		if err := a.CloseActive(ctx); err != nil {
			a.logger.Debug("closing session", zap.Error(err))
		}
	case shortcut.ActionNextSession:
		a.CycleSession(1)
	case shortcut.ActionPreviousSession:
		a.CycleSession(-1)
	case shortcut.ActionFindNext:
		a.FindNext()
	case shortcut.ActionFindPrevious:
		a.FindPrevious()
	default:
		return false
	}
	return true
}
