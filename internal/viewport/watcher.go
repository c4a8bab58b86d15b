// Package viewport coalesces viewport change signals into debounced
// notifications.
//
// A Watcher listens to host update cycles. Every cycle that reports a
// viewport change re-arms a single timer; the notifier runs only once the
// viewport has been quiet for the configured delay.
package viewport

import (
	"log/slog"
	"sync"
	"time"

	"github.com/dshills/redline/internal/debounce"
	"github.com/dshills/redline/internal/logging"
	"github.com/dshills/redline/internal/metrics"
	"github.com/dshills/redline/internal/overlay"
)

// DefaultDelay is the default quiet period before notifying.
const DefaultDelay = 25 * time.Millisecond

// Notification is delivered once the viewport settles.
type Notification struct {
	// Seq counts notifications delivered by this watcher, starting at 1.
	Seq uint64

	// Signals is the number of change signals coalesced into this one.
	Signals int

	At time.Time
}

// Notifier receives settled viewport notifications.
type Notifier func(Notification)

// Watcher debounces viewport changes.
type Watcher struct {
	mu       sync.Mutex
	notify   Notifier
	delay    time.Duration
	logger   *slog.Logger
	metrics  *metrics.Metrics
	deb      *debounce.Debouncer
	seq      uint64
	coalesce int
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDelay sets the quiet period. Non-positive values keep the default.
func WithDelay(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// WithLogger sets the watcher logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		w.logger = l
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(w *Watcher) {
		w.metrics = m
	}
}

// NewWatcher creates a watcher that calls notify after each settled burst.
func NewWatcher(notify Notifier, opts ...Option) *Watcher {
	w := &Watcher{
		notify: notify,
		delay:  DefaultDelay,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = logging.OrDiscard(w.logger)
	w.deb = debounce.New(w.delay, w.fire)
	return w
}

// OnUpdate arms the timer when the cycle reports a viewport change.
// It never fails.
func (w *Watcher) OnUpdate(c overlay.Cycle) error {
	if c.ViewportChanged {
		w.Signal()
	}
	return nil
}

// Signal records one viewport change.
func (w *Watcher) Signal() {
	w.mu.Lock()
	w.coalesce++
	w.mu.Unlock()
	w.deb.Call()
}

// Pending returns true if a notification is scheduled.
func (w *Watcher) Pending() bool {
	return w.deb.IsPending()
}

// Delay returns the quiet period.
func (w *Watcher) Delay() time.Duration {
	return w.delay
}

// Flush delivers a pending notification immediately.
func (w *Watcher) Flush() {
	w.deb.Flush()
}

// Close cancels any pending notification and stops the watcher.
func (w *Watcher) Close() {
	w.deb.Close()
}

func (w *Watcher) fire() {
	w.mu.Lock()
	w.seq++
	n := Notification{Seq: w.seq, Signals: w.coalesce, At: time.Now()}
	w.coalesce = 0
	w.mu.Unlock()

	w.metrics.ViewportNotified()
	w.logger.Debug("viewport settled",
		slog.Uint64("seq", n.Seq),
		slog.Int("signals", n.Signals))

	if w.notify != nil {
		w.notify(n)
	}
}
