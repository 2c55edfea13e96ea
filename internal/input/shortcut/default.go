package shortcut

import "github.com/dshills/termhost/internal/input/key"

// Terminal actions. Most are shell control sequences passed to the PTY.
const (
	ActionSendInterrupt Action = "terminal.sendInterrupt"
	ActionSendSuspend   Action = "terminal.sendSuspend"
	ActionSendEOF       Action = "terminal.sendEOF"
	ActionClearScreen   Action = "terminal.clearScreen"
	ActionLineStart     Action = "terminal.lineStart"
	ActionLineEnd       Action = "terminal.lineEnd"
	ActionDeleteLine    Action = "terminal.deleteLine"
	ActionDeleteWord    Action = "terminal.deleteWord"
	ActionHistorySearch Action = "terminal.historySearch"
)

// Application actions.
const (
	ActionCopy  Action = "clipboard.copy"
	ActionPaste Action = "clipboard.paste"

	ActionFind         Action = "search.open"
	ActionFindNext     Action = "search.findNext"
	ActionFindPrevious Action = "search.findPrevious"

	ActionNewSession      Action = "session.new"
	ActionCloseSession    Action = "session.close"
	ActionNextSession     Action = "session.next"
	ActionPreviousSession Action = "session.previous"
	ActionQuit            Action = "session.quit"

	ActionScrollPageUp   Action = "navigation.pageUp"
	ActionScrollPageDown Action = "navigation.pageDown"
	ActionScrollTop      Action = "navigation.top"
	ActionScrollBottom   Action = "navigation.bottom"
)

// DefaultBindings returns the built-in binding set.
func DefaultBindings() []Binding {
	pass := func(a Action, spec, desc string) Binding {
		return NewBinding(a, key.MustParse(spec), CategoryTerminal).PassThrough().WithDescription(desc)
	}
	app := func(a Action, spec string, cat Category, desc string) Binding {
		return NewBinding(a, key.MustParse(spec), cat).WithDescription(desc)
	}

	return []Binding{
		// Shell control
		pass(ActionSendInterrupt, "Ctrl+C", "Interrupt the foreground process"),
		pass(ActionSendSuspend, "Ctrl+Z", "Suspend the foreground process"),
		pass(ActionSendEOF, "Ctrl+D", "Send end of file"),
		pass(ActionClearScreen, "Ctrl+L", "Clear the screen"),

		// Line editing
		pass(ActionLineStart, "Ctrl+A", "Move to line start"),
		pass(ActionLineEnd, "Ctrl+E", "Move to line end"),
		pass(ActionDeleteLine, "Ctrl+U", "Delete to line start"),
		pass(ActionDeleteWord, "Ctrl+W", "Delete previous word"),
		pass(ActionHistorySearch, "Ctrl+R", "Search shell history"),

		app(ActionCopy, "Ctrl+Shift+C", CategoryClipboard, "Copy selection"),
		app(ActionPaste, "Ctrl+Shift+V", CategoryClipboard, "Paste"),

		app(ActionFind, "Ctrl+Shift+F", CategorySearch, "Search scrollback"),
		app(ActionFindNext, "F3", CategorySearch, "Next match"),
		app(ActionFindPrevious, "Shift+F3", CategorySearch, "Previous match"),

		app(ActionNewSession, "Ctrl+Shift+T", CategorySession, "New session"),
		app(ActionCloseSession, "Ctrl+Shift+W", CategorySession, "Close session"),
		app(ActionNextSession, "Ctrl+PageDown", CategorySession, "Next session"),
		app(ActionPreviousSession, "Ctrl+PageUp", CategorySession, "Previous session"),
		app(ActionQuit, "Ctrl+Shift+Q", CategorySession, "Quit"),

		app(ActionScrollPageUp, "Shift+PageUp", CategoryNavigation, "Scroll up one page"),
		app(ActionScrollPageDown, "Shift+PageDown", CategoryNavigation, "Scroll down one page"),
		app(ActionScrollTop, "Shift+Home", CategoryNavigation, "Scroll to top"),
		app(ActionScrollBottom, "Shift+End", CategoryNavigation, "Scroll to bottom"),
	}
}

// NewDefaultRegistry returns a registry loaded with DefaultBindings.
func NewDefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultBindings()...)
	if err != nil {
		panic("shortcut: invalid default bindings: " + err.Error())
	}
	return r
}
