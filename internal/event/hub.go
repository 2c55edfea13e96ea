package event

import (
	"sync"

	"go.uber.org/zap"
)

// Hub fans published values out to subscriptions.
type Hub[T any] struct {
	mu     sync.RWMutex
	subs   map[string]*Subscription[T]
	order  []*Subscription[T]
	closed bool

	logger *zap.Logger
}

// NewHub creates an empty hub. A nil logger is replaced with a no-op logger.
func NewHub[T any](logger *zap.Logger) *Hub[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub[T]{
		subs:   make(map[string]*Subscription[T]),
		logger: logger,
	}
}

// Subscribe registers a new subscription. Subscribing to a closed hub
// returns a subscription whose channel is already closed.
func (h *Hub[T]) Subscribe(opts ...SubscriptionOption[T]) *Subscription[T] {
	s := newSubscription(h, opts...)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		s.state.Store(int32(SubscriptionStateCancelled))
		close(s.out)
		return s
	}
	h.subs[s.id] = s
	h.order = append(h.order, s)
	h.mu.Unlock()

	go s.pump()
	h.logger.Debug("subscribed", zap.String("subscription", s.id))
	return s
}

// Publish queues v on every subscription whose filter accepts it. It never
// blocks on a consumer.
func (h *Hub[T]) Publish(v T) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return ErrHubClosed
	}
	for _, s := range h.order {
		if s.accepts(v) {
			s.enqueue(v)
		}
	}
	return nil
}

// Count returns the number of live subscriptions.
func (h *Hub[T]) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close stops accepting events. Each subscription delivers what it has
// already queued and then closes its channel. Safe to call more than once.
func (h *Hub[T]) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	subs := h.order
	h.order = nil
	h.subs = make(map[string]*Subscription[T])
	h.mu.Unlock()

	for _, s := range subs {
		s.drain()
	}
	h.logger.Debug("hub closed", zap.Int("subscriptions", len(subs)))
}

func (h *Hub[T]) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[id]; !ok {
		return
	}
	delete(h.subs, id)
	for i, s := range h.order {
		if s.id == id {
			h.order = append(h.order[:i:i], h.order[i+1:]...)
			break
		}
	}
}
