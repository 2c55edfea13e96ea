package event

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// SubscriptionState represents the state of a subscription.
type SubscriptionState int32

const (
	// SubscriptionStateActive means the subscription is receiving events.
	SubscriptionStateActive SubscriptionState = iota

	// SubscriptionStateDraining means the hub closed and the subscription is
	// delivering what was already queued.
	SubscriptionStateDraining

	// SubscriptionStateCancelled means the subscription has been permanently cancelled.
	SubscriptionStateCancelled
)

// String returns a human-readable state name.
func (s SubscriptionState) String() string {
	switch s {
	case SubscriptionStateActive:
		return "active"
	case SubscriptionStateDraining:
		return "draining"
	case SubscriptionStateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// SubscriptionConfig contains configuration for a subscription.
type SubscriptionConfig[T any] struct {
	// Buffer is the capacity of the delivery channel. The queue behind it
	// is unbounded regardless.
	Buffer int

	// Filter is an optional predicate. Events are only queued if it
	// returns true.
	Filter func(T) bool
}

// SubscriptionOption configures a subscription.
type SubscriptionOption[T any] func(*SubscriptionConfig[T])

// WithBuffer sets the delivery channel capacity.
func WithBuffer[T any](n int) SubscriptionOption[T] {
	return func(c *SubscriptionConfig[T]) {
		if n > 0 {
			c.Buffer = n
		}
	}
}

// WithFilter sets a filter predicate. Multiple filters are combined with AND.
func WithFilter[T any](f func(T) bool) SubscriptionOption[T] {
	return func(c *SubscriptionConfig[T]) {
		if f == nil {
			return
		}
		prev := c.Filter
		if prev == nil {
			c.Filter = f
			return
		}
		c.Filter = func(v T) bool { return prev(v) && f(v) }
	}
}

// Subscription is a registered consumer of a Hub.
type Subscription[T any] struct {
	id     string
	hub    *Hub[T]
	filter func(T) bool

	mu    sync.Mutex
	queue []T

	wake  chan struct{}
	done  chan struct{}
	out   chan T
	state atomic.Int32

	cancelOnce sync.Once
}

func newSubscription[T any](h *Hub[T], opts ...SubscriptionOption[T]) *Subscription[T] {
	var cfg SubscriptionConfig[T]
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Subscription[T]{
		id:     uuid.NewString(),
		hub:    h,
		filter: cfg.Filter,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		out:    make(chan T, cfg.Buffer),
	}
}

// ID returns the unique subscription identifier.
func (s *Subscription[T]) ID() string {
	return s.id
}

// Events returns the delivery channel. It is closed after Unsubscribe, or
// once the queue is drained after the hub closes.
func (s *Subscription[T]) Events() <-chan T {
	return s.out
}

// State returns the current subscription state.
func (s *Subscription[T]) State() SubscriptionState {
	return SubscriptionState(s.state.Load())
}

// Pending returns the number of queued events not yet handed to the channel.
func (s *Subscription[T]) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Unsubscribe removes the subscription from its hub and closes the channel.
// Queued events are discarded. Safe to call more than once.
func (s *Subscription[T]) Unsubscribe() {
	s.cancelOnce.Do(func() {
		s.state.Store(int32(SubscriptionStateCancelled))
		if s.hub != nil {
			s.hub.remove(s.id)
		}
		close(s.done)
	})
}

func (s *Subscription[T]) accepts(v T) bool {
	return s.filter == nil || s.filter(v)
}

func (s *Subscription[T]) enqueue(v T) {
	s.mu.Lock()
	s.queue = append(s.queue, v)
	s.mu.Unlock()
	s.notify()
}

// drain lets the pump finish delivering what is queued, then close.
func (s *Subscription[T]) drain() {
	s.state.CompareAndSwap(int32(SubscriptionStateActive), int32(SubscriptionStateDraining))
	s.notify()
}

func (s *Subscription[T]) notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Subscription[T]) pump() {
	defer close(s.out)
	var zero T
	for {
		s.mu.Lock()
		for len(s.queue) == 0 {
			if s.State() != SubscriptionStateActive {
				s.mu.Unlock()
				return
			}
			s.mu.Unlock()
			select {
			case <-s.wake:
			case <-s.done:
				return
			}
			s.mu.Lock()
		}
		v := s.queue[0]
		s.queue[0] = zero
		s.queue = s.queue[1:]
		if len(s.queue) == 0 {
			s.queue = nil
		}
		s.mu.Unlock()

		select {
		case s.out <- v:
		case <-s.done:
			return
		}
	}
}
