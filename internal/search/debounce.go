package search

import (
	"sync"
	"time"
)

// Debouncer delays keystroke-driven searches until input pauses. Only the
// function passed to the last Trigger in a burst runs.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	seq     uint64
	pending func()
}

// NewDebouncer creates a debouncer with the given quiet period.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn after the quiet period, replacing any pending call.
// A non-positive delay runs fn immediately on the caller's goroutine.
func (d *Debouncer) Trigger(fn func()) {
	if d.delay <= 0 {
		d.Cancel()
		fn()
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	seq := d.seq
	d.pending = fn
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.seq != seq || d.pending == nil {
			d.mu.Unlock()
			return
		}
		run := d.pending
		d.pending = nil
		d.mu.Unlock()
		run()
	})
}

// Flush runs the pending call now, if there is one.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
	run := d.pending
	d.pending = nil
	d.mu.Unlock()

	if run != nil {
		run()
	}
}

// Cancel drops the pending call.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
	d.pending = nil
}

// IsPending reports whether a call is scheduled.
func (d *Debouncer) IsPending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}
