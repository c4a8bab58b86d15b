// Package host provides an in-process editing surface that drives the
// overlay core.
//
// A Surface owns the document text, applies edit batches atomically, records
// them in a history tagged by origin, and delivers each change to its
// listeners as one update cycle. Listeners run synchronously, in
// registration order, and must not call back into the surface's mutating
// methods.
package host

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dshills/redline/internal/engine/buffer"
	"github.com/dshills/redline/internal/engine/history"
	"github.com/dshills/redline/internal/engine/remap"
	"github.com/dshills/redline/internal/engine/tracking"
	"github.com/dshills/redline/internal/logging"
	"github.com/dshills/redline/internal/overlay"
	"github.com/dshills/redline/internal/reject"
)

// DefaultHistorySize is the default number of transactions kept.
const DefaultHistorySize = 1000

// Listener receives update cycles.
type Listener interface {
	OnUpdate(overlay.Cycle) error
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(overlay.Cycle) error

// OnUpdate implements Listener.
func (f ListenerFunc) OnUpdate(c overlay.Cycle) error {
	return f(c)
}

// Surface is a document plus the listeners observing it.
type Surface struct {
	// cycleMu serializes cycles; mu guards the fields below it.
	cycleMu sync.Mutex

	mu        sync.RWMutex
	doc       *buffer.Document
	listeners []Listener
	closed    bool

	history     *history.History
	historySize int
	mapper      remap.Mapper
	logger      *slog.Logger
}

// Option configures a Surface.
type Option func(*Surface)

// WithLogger sets the surface logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Surface) {
		s.logger = l
	}
}

// WithHistorySize bounds the transaction history.
func WithHistorySize(n int) Option {
	return func(s *Surface) {
		s.historySize = n
	}
}

// WithMapper replaces the position mapping rule.
func WithMapper(m remap.Mapper) Option {
	return func(s *Surface) {
		s.mapper = m
	}
}

// New creates a surface holding text.
func New(text string, opts ...Option) *Surface {
	s := &Surface{
		doc:         buffer.NewDocument(text),
		historySize: DefaultHistorySize,
		mapper:      remap.Sequential{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrDiscard(s.logger)
	s.history = history.New(s.historySize)
	return s
}

// AddListener registers l. Listeners are notified in registration order.
func (s *Surface) AddListener(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// MapOffset implements remap.Mapper.
func (s *Surface) MapOffset(offset buffer.ByteOffset, edits []buffer.Edit) buffer.ByteOffset {
	return s.mapper.MapOffset(offset, edits)
}

// Text returns the current document text.
func (s *Surface) Text() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Text()
}

// Len returns the current document length in bytes.
func (s *Surface) Len() buffer.ByteOffset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Len()
}

// History returns the transaction history.
func (s *Surface) History() *history.History {
	return s.history
}

// ApplyBatch applies batch atomically, records it, and dispatches it as one
// cycle. Nothing changes if any edit fails to apply. Listener errors are
// returned after the batch has been applied.
func (s *Surface) ApplyBatch(batch buffer.Batch) error {
	return s.apply(batch, true)
}

// Undo reverts the most recent transaction.
func (s *Surface) Undo() error {
	tx, ok := s.history.Pop()
	if !ok {
		return ErrNothingToUndo
	}
	if err := s.apply(tx.Inverse(), false); err != nil {
		s.history.Push(tx)
		return fmt.Errorf("undo %s: %w", tx.ID, err)
	}
	return nil
}

// Reject reverts the tracked changes named by ids and applies the result.
// The returned batch is what was applied.
func (s *Surface) Reject(r *reject.Rejector, index tracking.ChangeIndex, ids []string) (buffer.Batch, error) {
	if r == nil {
		r = reject.New(reject.WithLogger(s.logger))
	}

	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()

	batch, err := r.Reject(s.Text(), index, ids)
	if err != nil {
		return buffer.Batch{}, err
	}
	if batch.IsEmpty() {
		return batch, nil
	}
	if err := s.applyLocked(batch, true); err != nil {
		return buffer.Batch{}, err
	}
	return batch, nil
}

// Refresh dispatches a cycle that replaces the annotation set.
func (s *Surface) Refresh(r *overlay.Refresh) error {
	return s.Dispatch(overlay.Cycle{Refresh: r})
}

// ViewportChanged dispatches a cycle reporting a viewport change.
func (s *Surface) ViewportChanged() error {
	return s.Dispatch(overlay.Cycle{ViewportChanged: true})
}

// Dispatch delivers c to every listener.
// All listeners run even if some fail; their errors are joined.
func (s *Surface) Dispatch(c overlay.Cycle) error {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()
	return s.dispatchLocked(c)
}

// Close detaches all listeners. Later calls fail with ErrClosed.
func (s *Surface) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.listeners = nil
}

func (s *Surface) apply(batch buffer.Batch, record bool) error {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()
	return s.applyLocked(batch, record)
}

func (s *Surface) applyLocked(batch buffer.Batch, record bool) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	tx, err := history.Capture(s.doc.Text(), batch)
	if err == nil {
		err = s.doc.Apply(batch)
	}
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("apply batch %s: %w", batch.ID, err)
	}

	if record {
		s.history.Push(tx)
	}
	s.logger.Debug("batch applied",
		slog.String("batch", batch.ID.String()),
		slog.String("origin", string(batch.Origin)),
		slog.Int("edits", batch.Len()))

	return s.dispatchLocked(overlay.Cycle{Edits: batch.Edits, Origin: batch.Origin})
}

func (s *Surface) dispatchLocked(c overlay.Cycle) error {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return ErrClosed
	}
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.RUnlock()

	var errs []error
	for _, l := range listeners {
		if err := l.OnUpdate(c); err != nil {
			s.logger.Warn("listener failed", slog.Any("error", err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
