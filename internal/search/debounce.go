// Package search coalesces rapid text input into at most one geocoding
// call per quiescence window, with last-query-wins result delivery.
package search

import (
	"sync"
	"time"
)

// DefaultDelay is the quiescence window a query must survive before it
// triggers a remote call.
const DefaultDelay = 300 * time.Millisecond

// Debouncer is a coalescing timer: every Observe resets the countdown and
// only the value present when the countdown expires is delivered. It is
// the explicit form of the usual "wait for typing to stop" behavior.
type Debouncer[T any] struct {
	delay time.Duration
	fire  func(T)

	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer creates a Debouncer that calls fire with the surviving
// value. A non-positive delay falls back to DefaultDelay. fire runs on
// the timer goroutine.
func NewDebouncer[T any](delay time.Duration, fire func(T)) *Debouncer[T] {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer[T]{delay: delay, fire: fire}
}

// Observe records a new value and restarts the countdown. Values observed
// before the countdown expires are coalesced away.
func (d *Debouncer[T]) Observe(value T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.fire(value)
	})
}

// Cancel stops any pending delivery.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
