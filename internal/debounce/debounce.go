// Package debounce groups rapid successive calls into a single callback.
package debounce

import (
	"sync"
	"time"
)

// Debouncer fires its callback once after a quiet period.
//
// Each Call cancels any pending timer and arms a new one, so at most one
// timer is pending at any instant. A sequence number guards against a timer
// that already fired racing with a newer Call.
//
// Thread-safety: All methods are safe for concurrent use. The callback is
// never called concurrently with itself from the debouncer.
type Debouncer struct {
	mu       sync.Mutex
	delay    time.Duration
	timer    *time.Timer
	pending  bool
	closed   bool
	seq      uint64 // sequence number to detect stale callbacks
	fireMu   sync.Mutex
	callback func()
}

// New creates a debouncer with the specified delay.
func New(delay time.Duration, callback func()) *Debouncer {
	return &Debouncer{
		delay:    delay,
		callback: callback,
	}
}

// Delay returns the quiet period.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Call (re)arms the timer. Calls after Close are ignored.
func (d *Debouncer) Call() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}

	d.pending = true
	d.seq++
	currentSeq := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// Only execute if this is still the current scheduled callback
		if !d.pending || d.seq != currentSeq || d.callback == nil {
			d.mu.Unlock()
			return
		}
		d.pending = false
		d.timer = nil
		d.mu.Unlock()

		d.fireMu.Lock()
		defer d.fireMu.Unlock()
		d.callback()
	})
}

// Flush runs the callback immediately if a call is pending, cancelling the
// scheduled one.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
	run := d.pending && d.callback != nil
	d.pending = false
	d.mu.Unlock()

	if run {
		d.fireMu.Lock()
		defer d.fireMu.Unlock()
		d.callback()
	}
}

// Cancel cancels any pending call.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
}

// Close cancels any pending call and ignores future calls.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	d.closed = true
}

// IsPending returns true if a call is waiting for its timer.
func (d *Debouncer) IsPending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

func (d *Debouncer) cancelLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	// Increment seq to invalidate any running timer callback
	d.seq++
	d.pending = false
}
