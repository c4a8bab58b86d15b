package annotation

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dshills/redline/internal/engine/tracking"
	"github.com/dshills/redline/internal/logging"
	"github.com/dshills/redline/internal/metrics"
)

// Builder builds annotation sets with a configured logger and metrics.
// The zero value is usable and logs nothing.
type Builder struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger sets the logger for dropped entries.
func WithLogger(l *slog.Logger) BuilderOption {
	return func(b *Builder) {
		b.logger = l
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) BuilderOption {
	return func(b *Builder) {
		b.metrics = m
	}
}

// NewBuilder creates a builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildOption configures a single build.
type BuildOption func(*buildConfig)

type buildConfig struct {
	docLen int64
}

// WithDocumentLength bounds spans to a document of n bytes. Entries reaching
// past the end are dropped. A negative n disables the check.
func WithDocumentLength(n int64) BuildOption {
	return func(c *buildConfig) {
		c.docLen = n
	}
}

// Build builds an annotation set without logging or metrics.
func Build(ranges *tracking.RangesSnapshot, threads tracking.Threads, opts ...BuildOption) Set {
	var b Builder
	return b.Build(ranges, threads, opts...)
}

// Build turns a snapshot into an annotation set. It returns an empty set if
// ranges is nil and never fails: an entry that cannot be built is dropped and
// processing continues.
func (b *Builder) Build(ranges *tracking.RangesSnapshot, threads tracking.Threads, opts ...BuildOption) Set {
	if ranges == nil {
		return Set{}
	}
	cfg := buildConfig{docLen: -1}
	for _, opt := range opts {
		opt(&cfg)
	}

	start := time.Now()
	logger := logging.OrDiscard(b.logger)

	items := make([]Annotation, 0, 2*ranges.Len())
	for _, change := range ranges.All() {
		out, err := buildEntry(change, threads, cfg.docLen)
		if err != nil {
			if isSkip(err) {
				logger.Debug("annotation skipped",
					slog.String("id", change.ID),
					slog.String("kind", change.Kind().String()),
					slog.String("reason", err.Error()))
				continue
			}
			logger.Warn("annotation dropped",
				slog.String("id", change.ID),
				slog.String("kind", change.Kind().String()),
				slog.String("reason", err.Error()))
			b.metrics.AnnotationDropped(change.Kind().String(), dropReason(err))
			continue
		}
		for _, a := range out {
			b.metrics.AnnotationBuilt(a.Kind.String())
		}
		items = append(items, out...)
	}

	b.metrics.ObserveBuild(time.Since(start))
	return Set{items: items}
}

// buildEntry returns the annotations for one change, or an error and no
// annotations. A panic is recovered into errPanic.
func buildEntry(change tracking.Change, threads tracking.Threads, docLen int64) (out []Annotation, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("%w: %v", errPanic, r)
		}
	}()

	if change.Op == nil {
		return nil, errUnknownOperation
	}
	v := &entryVisitor{change: change, threads: threads, docLen: docLen}
	if err := change.Op.Accept(v); err != nil {
		return nil, err
	}
	return v.out, nil
}

// entryVisitor emits the annotations for a single change.
type entryVisitor struct {
	change  tracking.Change
	threads tracking.Threads
	docLen  int64
	out     []Annotation
}

func (v *entryVisitor) VisitDelete(op tracking.Delete) error {
	if err := v.checkSpan(op.Pos, op.Pos); err != nil {
		return err
	}
	v.out = append(v.out,
		v.point(KindDelete, ShapeTombstone, op.Pos),
		v.point(KindDelete, ShapeCallout, op.Pos),
	)
	return nil
}

func (v *entryVisitor) VisitInsert(op tracking.Insert) error {
	if len(op.Text) == 0 {
		return errEmptySpan
	}
	return v.emitSpan(KindInsert, op.Pos, op.Pos+int64(len(op.Text)))
}

func (v *entryVisitor) VisitComment(op tracking.Comment) error {
	if _, ok := v.threads.Open(op.Thread); !ok {
		return errThreadHidden
	}
	if len(op.Text) == 0 {
		return errEmptySpan
	}
	return v.emitSpan(KindComment, op.Pos, op.Pos+int64(len(op.Text)))
}

func (v *entryVisitor) emitSpan(kind Kind, from, to ByteOffset) error {
	if err := v.checkSpan(from, to); err != nil {
		return err
	}
	v.out = append(v.out,
		Annotation{Kind: kind, Shape: ShapeMark, From: from, To: to, ID: v.change.ID, Metadata: v.change.Metadata},
		v.point(kind, ShapeCallout, from),
	)
	return nil
}

func (v *entryVisitor) point(kind Kind, shape Shape, at ByteOffset) Annotation {
	return Annotation{Kind: kind, Shape: shape, From: at, To: at, ID: v.change.ID, Metadata: v.change.Metadata}
}

func (v *entryVisitor) checkSpan(from, to ByteOffset) error {
	if from < 0 {
		return fmt.Errorf("%w: %d", errNegativeOffset, from)
	}
	if to < from {
		return fmt.Errorf("%w: span at %d overflows", errOutOfBounds, from)
	}
	if v.docLen >= 0 && to > v.docLen {
		return fmt.Errorf("%w: [%d:%d) past length %d", errOutOfBounds, from, to, v.docLen)
	}
	return nil
}
