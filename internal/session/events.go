package session

import (
	"time"

	"github.com/dshills/termhost/internal/event"
)

// Meta is carried by every event.
type Meta struct {
	SessionID string
	Time      time.Time
}

// Metadata returns m.
func (m Meta) Metadata() Meta { return m }

func (Meta) isEvent() {}

// Event is one of the event types below.
type Event interface {
	Metadata() Meta
	isEvent()
}

// OutputReceived carries a raw chunk read from the PTY, after it has been
// applied to the session buffer.
type OutputReceived struct {
	Meta
	Data []byte
}

// SessionCreated fires once a new session is Running.
type SessionCreated struct {
	Meta
	Session *Session
}

// SessionClosed fires after a session has been removed.
type SessionClosed struct {
	Meta
	Session *Session
}

// SessionStateChanged fires on every lifecycle transition. ExitCode is set
// once the child has exited.
type SessionStateChanged struct {
	Meta
	Old      State
	New      State
	ExitCode *int
}

// TitleChanged fires when the application sets the window title.
type TitleChanged struct {
	Meta
	Title string
}

// BellTriggered fires on BEL.
type BellTriggered struct {
	Meta
}

// DirectoryChanged fires when the working directory changes, either reported
// by the shell (OSC 7, OSC 9;9) or set through ChangeDirectory.
type DirectoryChanged struct {
	Meta
	Path string
}

// CommandCompleted fires when shell integration (OSC 133;D) reports the end
// of a command. ExitCode is -1 when the shell did not report one.
type CommandCompleted struct {
	Meta
	ExitCode int
}

// Notification fires for OSC 9 desktop notifications.
type Notification struct {
	Meta
	Message string
}

// Subscription receives manager events.
type Subscription = event.Subscription[Event]

// SubscribeOption configures a subscription.
type SubscribeOption = event.SubscriptionOption[Event]

// WithBuffer sets the subscription channel capacity.
func WithBuffer(n int) SubscribeOption {
	return event.WithBuffer[Event](n)
}

// WithSessionFilter limits a subscription to one session.
func WithSessionFilter(id string) SubscribeOption {
	return event.WithFilter(func(ev Event) bool {
		return ev.Metadata().SessionID == id
	})
}

// WithEventFilter limits a subscription to events accepted by f.
func WithEventFilter(f func(Event) bool) SubscribeOption {
	return event.WithFilter(f)
}

func newMeta(id string) Meta {
	return Meta{SessionID: id, Time: time.Now()}
}
