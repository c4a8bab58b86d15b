// Package reject computes the edits that revert tracked changes.
//
// Reverting an insertion deletes its text; reverting a deletion re-inserts
// the removed text. The edits are ordered by descending position so that
// applying them in sequence never shifts a later edit's target.
package reject

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/dshills/redline/internal/engine/buffer"
	"github.com/dshills/redline/internal/engine/remap"
	"github.com/dshills/redline/internal/engine/tracking"
	"github.com/dshills/redline/internal/logging"
	"github.com/dshills/redline/internal/metrics"
)

// Rejector turns tracked change ids into a reversion batch.
type Rejector struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures a Rejector.
type Option func(*Rejector)

// WithLogger sets the rejector logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Rejector) {
		r.logger = l
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Rejector) {
		r.metrics = m
	}
}

// New creates a Rejector.
func New(opts ...Option) *Rejector {
	r := &Rejector{}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.OrDiscard(r.logger)
	return r
}

// Reject uses a default Rejector.
func Reject(text string, index tracking.ChangeIndex, ids []string) (buffer.Batch, error) {
	return New().Reject(text, index, ids)
}

// reversion is one pending edit with its ordering key.
type reversion struct {
	pos    int64
	insert bool // reverts an insertion
	edit   buffer.Edit
}

// Reject returns the batch that reverts the changes named by ids against
// text. Ids not present in index and repeated ids are skipped. On error the returned batch is
// empty and nothing should be applied.
func (r *Rejector) Reject(text string, index tracking.ChangeIndex, ids []string) (buffer.Batch, error) {
	revs := make([]reversion, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		change, ok := index.Lookup(id)
		if !ok {
			r.logger.Debug("reject: unknown change id", slog.String("id", id))
			continue
		}
		if change.Op == nil {
			r.metrics.Reject(metrics.RejectUnexpected)
			return buffer.Batch{}, fmt.Errorf("reject %s: %w: unknown kind", id, ErrUnexpectedOperation)
		}
		v := &reverter{id: id, text: text}
		if err := change.Op.Accept(v); err != nil {
			r.metrics.Reject(resultOf(err))
			return buffer.Batch{}, err
		}
		revs = append(revs, v.rev)
	}

	if len(revs) == 0 {
		r.metrics.Reject(metrics.RejectEmpty)
		return buffer.NewBatch(buffer.OriginReject), nil
	}

	sort.SliceStable(revs, func(i, j int) bool {
		if revs[i].pos != revs[j].pos {
			return revs[i].pos > revs[j].pos
		}
		return revs[i].insert && !revs[j].insert
	})

	edits := make([]buffer.Edit, len(revs))
	for i, rev := range revs {
		edits[i] = rev.edit
	}
	if !remap.EditsInReverseOrder(edits) {
		r.metrics.Reject(metrics.RejectDiverged)
		return buffer.Batch{}, fmt.Errorf("reject: %w: reverted changes overlap", ErrDiverged)
	}
	batch := buffer.NewBatch(buffer.OriginReject, edits...)

	r.metrics.Reject(metrics.RejectApplied)
	r.logger.Debug("reject batch",
		slog.String("batch", batch.ID.String()),
		slog.Int("edits", batch.Len()))
	return batch, nil
}

// reverter builds the reversion for a single change.
type reverter struct {
	id   string
	text string
	rev  reversion
}

func (v *reverter) VisitInsert(op tracking.Insert) error {
	rng := buffer.NewRange(op.Pos, op.Pos+int64(len(op.Text)))
	got, ok := slice(v.text, rng)
	if !ok || got != op.Text {
		return &DivergedError{ID: v.id, Range: rng, Want: op.Text, Got: got}
	}
	v.rev = reversion{pos: op.Pos, insert: true, edit: buffer.NewDelete(rng.Start, rng.End)}
	return nil
}

func (v *reverter) VisitDelete(op tracking.Delete) error {
	if op.Pos < 0 || op.Pos > int64(len(v.text)) {
		return &DivergedError{ID: v.id, Range: buffer.NewRange(op.Pos, op.Pos), Want: op.Text}
	}
	v.rev = reversion{pos: op.Pos, edit: buffer.NewInsert(op.Pos, op.Text)}
	return nil
}

func (v *reverter) VisitComment(tracking.Comment) error {
	return fmt.Errorf("reject %s: %w: comment", v.id, ErrUnexpectedOperation)
}

// slice returns text[r.Start:r.End] clamped to text, and whether r was
// fully in bounds.
func slice(text string, r buffer.Range) (string, bool) {
	n := int64(len(text))
	if r.Start < 0 || r.Start > n {
		return "", false
	}
	if r.End > n {
		return text[r.Start:], false
	}
	return text[r.Start:r.End], true
}

func resultOf(err error) string {
	if errors.Is(err, ErrDiverged) {
		return metrics.RejectDiverged
	}
	return metrics.RejectUnexpected
}
