package shortcut

import "github.com/dshills/termhost/internal/input/key"

// Dispatcher runs application actions.
type Dispatcher interface {
	Dispatch(action Action)
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(Action)

// Dispatch calls f(action).
func (f DispatcherFunc) Dispatch(action Action) { f(action) }

// PTYWriter sends raw input to the active terminal session.
// session.Manager implements it.
type PTYWriter interface {
	WriteActive(data []byte) bool
}

// Outcome describes what Router.HandleKey did with an event.
type Outcome int

const (
	// OutcomeDropped means the event had no encoding or no session took it.
	OutcomeDropped Outcome = iota

	// OutcomePassedThrough means the event was written to the PTY.
	OutcomePassedThrough

	// OutcomeDispatched means an application action ran.
	OutcomeDispatched
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeDropped:
		return "dropped"
	case OutcomePassedThrough:
		return "passed-through"
	case OutcomeDispatched:
		return "dispatched"
	default:
		return "unknown"
	}
}

// Router sends key events to the application or the shell.
type Router struct {
	registry   *Registry
	dispatcher Dispatcher
	pty        PTYWriter
}

// NewRouter creates a router.
func NewRouter(r *Registry, d Dispatcher, w PTYWriter) *Router {
	return &Router{registry: r, dispatcher: d, pty: w}
}

// HandleKey routes ev. An enabled application binding dispatches its
// action. Pass-through bindings and unbound keys are encoded and written
// to the active session.
func (rt *Router) HandleKey(ev key.Event) Outcome {
	if b, ok := rt.registry.TryGetAction(ev.Chord()); ok && !b.PassToPty && rt.dispatcher != nil {
		rt.dispatcher.Dispatch(b.Action)
		return OutcomeDispatched
	}

	data := key.Encode(ev)
	if len(data) == 0 || rt.pty == nil {
		return OutcomeDropped
	}
	if !rt.pty.WriteActive(data) {
		return OutcomeDropped
	}
	return OutcomePassedThrough
}

// Paste writes text to the active session, wrapped in bracketed paste
// markers when bracketed is set.
func (rt *Router) Paste(text string, bracketed bool) bool {
	if rt.pty == nil || text == "" {
		return false
	}
	if bracketed {
		text = "\x1b[200~" + text + "\x1b[201~"
	}
	return rt.pty.WriteActive([]byte(text))
}
