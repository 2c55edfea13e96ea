package event

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect[T any](t *testing.T, ch <-chan T, n int) []T {
	t.Helper()
	out := make([]T, 0, n)
	timeout := time.After(2 * time.Second)
	for len(out) < n {
		select {
		case v, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, v)
		case <-timeout:
			t.Fatalf("received %d of %d events", len(out), n)
		}
	}
	return out
}

func TestSubscriptionState_String(t *testing.T) {
	tests := []struct {
		state    SubscriptionState
		expected string
	}{
		{SubscriptionStateActive, "active"},
		{SubscriptionStateDraining, "draining"},
		{SubscriptionStateCancelled, "cancelled"},
		{SubscriptionState(99), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.state.String())
	}
}

func TestHub_PublishOrder(t *testing.T) {
	h := NewHub[int](nil)
	defer h.Close()

	a := h.Subscribe()
	b := h.Subscribe(WithBuffer[int](4))
	require.NotEqual(t, a.ID(), b.ID())

	for i := 0; i < 1000; i++ {
		require.NoError(t, h.Publish(i))
	}

	want := make([]int, 1000)
	for i := range want {
		want[i] = i
	}
	assert.Equal(t, want, collect(t, a.Events(), 1000))
	assert.Equal(t, want, collect(t, b.Events(), 1000))
}

func TestHub_SlowConsumerDoesNotBlock(t *testing.T) {
	h := NewHub[int](nil)
	defer h.Close()

	sub := h.Subscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10000; i++ {
			_ = h.Publish(i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on an unread subscription")
	}

	got := collect(t, sub.Events(), 10000)
	assert.Equal(t, 0, got[0])
	assert.Equal(t, 9999, got[len(got)-1])
}

func TestHub_Filter(t *testing.T) {
	h := NewHub[int](nil)
	defer h.Close()

	even := h.Subscribe(
		WithFilter(func(v int) bool { return v%2 == 0 }),
		WithFilter(func(v int) bool { return v > 2 }),
	)
	for i := 0; i < 10; i++ {
		require.NoError(t, h.Publish(i))
	}
	assert.Equal(t, []int{4, 6, 8}, collect(t, even.Events(), 3))
}

func TestHub_Unsubscribe(t *testing.T) {
	h := NewHub[string](nil)
	defer h.Close()

	sub := h.Subscribe()
	require.Equal(t, 1, h.Count())

	sub.Unsubscribe()
	sub.Unsubscribe()

	assert.Equal(t, 0, h.Count())
	assert.Equal(t, SubscriptionStateCancelled, sub.State())

	require.NoError(t, h.Publish("ignored"))
	require.Eventually(t, func() bool {
		_, ok := <-sub.Events()
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestHub_CloseDrains(t *testing.T) {
	h := NewHub[int](nil)
	sub := h.Subscribe()

	for i := 0; i < 5; i++ {
		require.NoError(t, h.Publish(i))
	}
	h.Close()
	h.Close()

	var got []int
	for v := range sub.Events() {
		got = append(got, v)
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
	assert.ErrorIs(t, h.Publish(5), ErrHubClosed)
}

func TestHub_SubscribeAfterClose(t *testing.T) {
	h := NewHub[int](nil)
	h.Close()

	sub := h.Subscribe()
	_, ok := <-sub.Events()
	assert.False(t, ok)
	assert.Equal(t, 0, h.Count())
}

func TestHub_Concurrent(t *testing.T) {
	h := NewHub[int](nil)
	defer h.Close()

	const publishers = 8
	const perPublisher = 200

	sub := h.Subscribe()

	var wg sync.WaitGroup
	for p := 0; p < publishers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perPublisher; i++ {
				_ = h.Publish(p*perPublisher + i)
			}
		}(p)
	}

	// Churn subscriptions while publishing.
	for i := 0; i < 50; i++ {
		s := h.Subscribe()
		s.Unsubscribe()
	}
	wg.Wait()

	got := collect(t, sub.Events(), publishers*perPublisher)
	require.Len(t, got, publishers*perPublisher)

	// Per-publisher order is preserved.
	last := make(map[int]int)
	for _, v := range got {
		p := v / perPublisher
		prev, seen := last[p]
		if seen {
			assert.Greater(t, v, prev)
		}
		last[p] = v
	}
}
