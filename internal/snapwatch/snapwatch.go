// Package snapwatch reloads a tracked-change snapshot file when it changes
// on disk and delivers each reload to a sink as a refresh.
//
// The watcher observes the file's directory rather than the file itself,
// so editors and tools that replace the file by rename are still seen.
// Bursts of events are debounced into a single reload.
package snapwatch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/redline/internal/debounce"
	"github.com/dshills/redline/internal/engine/buffer"
	"github.com/dshills/redline/internal/engine/tracking"
	"github.com/dshills/redline/internal/logging"
	"github.com/dshills/redline/internal/metrics"
	"github.com/dshills/redline/internal/overlay"
)

// Reload results reported to metrics.
const (
	resultOK       = "ok"
	resultDecode   = "decode_error"
	resultDispatch = "dispatch_error"
)

// DefaultDelay is the default quiet period before reloading.
const DefaultDelay = 50 * time.Millisecond

// Sink receives reloaded snapshots. host.Surface implements it.
type Sink interface {
	Refresh(*overlay.Refresh) error
	Len() buffer.ByteOffset
}

// LoadFile reads and decodes a snapshot file.
func LoadFile(path string) (tracking.SnapshotFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return tracking.SnapshotFile{}, err
	}
	defer f.Close()

	snap, err := tracking.DecodeSnapshot(f)
	if err != nil {
		return tracking.SnapshotFile{}, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}

// Watcher reloads one snapshot file.
type Watcher struct {
	mu sync.Mutex

	path    string
	sink    Sink
	delay   time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics

	fsw      *fsnotify.Watcher
	deb      *debounce.Debouncer
	errors   chan error
	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDelay sets the debounce delay. Non-positive values keep the default.
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

// New starts watching path and delivers reloads to sink.
func New(path string, sink Sink, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:    abs,
		sink:    sink,
		delay:   DefaultDelay,
		errors:  make(chan error, 16),
		closeCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = logging.OrDiscard(w.logger)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	w.fsw = fsw
	w.deb = debounce.New(w.delay, func() {
		if err := w.Reload(); err != nil {
			w.sendError(err)
		}
	})

	w.closedWg.Add(1)
	go w.processLoop()

	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Errors returns reload and watch errors. The channel is closed by Close.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Reload reads the file now and delivers it to the sink.
func (w *Watcher) Reload() error {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return ErrWatcherClosed
	}

	snap, err := LoadFile(w.path)
	if err != nil {
		w.metrics.SnapshotReload(resultDecode)
		w.logger.Warn("snapshot reload failed", slog.String("path", w.path), slog.Any("error", err))
		return err
	}

	refresh := overlay.NewBoundedRefresh(snap.Ranges, snap.Threads, w.sink.Len())
	if err := w.sink.Refresh(refresh); err != nil {
		w.metrics.SnapshotReload(resultDispatch)
		return fmt.Errorf("dispatch snapshot %s: %w", w.path, err)
	}

	w.metrics.SnapshotReload(resultOK)
	w.logger.Info("snapshot reloaded",
		slog.String("path", w.path),
		slog.Int("changes", snap.Ranges.Len()))
	return nil
}

// Close stops watching. A pending reload is cancelled.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	w.deb.Close()
	w.closedWg.Wait()
	err := w.fsw.Close()
	close(w.errors)
	return err
}

// processLoop handles incoming fsnotify events.
func (w *Watcher) processLoop() {
	defer w.closedWg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.relevant(ev) {
				w.deb.Call()
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.sendError(err)
		}
	}
}

// relevant reports whether ev may have changed the snapshot contents.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Rename)
}

// sendError forwards err without blocking.
func (w *Watcher) sendError(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	select {
	case w.errors <- err:
	default:
		// Channel full, drop error
	}
}
