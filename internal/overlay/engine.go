package overlay

import (
	"log/slog"

	"github.com/dshills/redline/internal/annotation"
	"github.com/dshills/redline/internal/engine/buffer"
	"github.com/dshills/redline/internal/engine/remap"
	"github.com/dshills/redline/internal/logging"
	"github.com/dshills/redline/internal/metrics"
)

// Cycle outcomes reported to metrics.
const (
	outcomeIdle    = "idle"
	outcomeRemap   = "remap"
	outcomeRefresh = "refresh"
)

// BuildFunc builds an annotation set from a refresh.
type BuildFunc func(r *Refresh) annotation.Set

// State is the engine state between cycles.
type State struct {
	Set annotation.Set

	// Cycle counts completed cycles.
	Cycle uint64
}

// Step runs one cycle: remap through each edit, then replace on refresh.
func Step(state State, cycle Cycle, mapper remap.Mapper, build BuildFunc) State {
	set := state.Set
	for _, e := range cycle.Edits {
		set = set.Remap(mapper, []buffer.Edit{e})
	}
	if cycle.Refresh != nil {
		set = build(cycle.Refresh)
	}
	return State{Set: set, Cycle: state.Cycle + 1}
}

// Engine keeps an annotation set in step with local edits and refreshes.
type Engine struct {
	mapper      remap.Mapper
	builder     *annotation.Builder
	logger      *slog.Logger
	metrics     *metrics.Metrics
	state       State
	inCycle     bool
	subscribers []func(State)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. The builder logs through it too unless
// WithBuilder is given.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithBuilder sets the annotation builder used on refresh.
func WithBuilder(b *annotation.Builder) Option {
	return func(e *Engine) {
		e.builder = b
	}
}

// NewEngine creates an engine seeded from initial, or empty if initial is nil.
func NewEngine(mapper remap.Mapper, initial *Refresh, opts ...Option) *Engine {
	e := &Engine{mapper: mapper}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.OrDiscard(e.logger)
	if e.builder == nil {
		e.builder = annotation.NewBuilder(
			annotation.WithLogger(e.logger),
			annotation.WithMetrics(e.metrics),
		)
	}
	if e.mapper == nil {
		e.mapper = remap.Sequential{}
	}
	if initial != nil {
		e.state.Set = e.build(initial)
	}
	return e
}

// OnUpdate runs one cycle and then notifies subscribers.
// It returns ErrCycleInProgress if called from within a cycle.
func (e *Engine) OnUpdate(c Cycle) error {
	if e.inCycle {
		return ErrCycleInProgress
	}
	e.inCycle = true
	defer func() { e.inCycle = false }()

	e.state = Step(e.state, c, e.mapper, e.build)

	outcome := outcomeIdle
	switch {
	case c.Refresh != nil:
		outcome = outcomeRefresh
	case c.HasEdits():
		outcome = outcomeRemap
	}
	e.metrics.Cycle(outcome)
	e.logger.Debug("update cycle",
		slog.Uint64("cycle", e.state.Cycle),
		slog.String("outcome", outcome),
		slog.Int("edits", len(c.Edits)),
		slog.Int("annotations", e.state.Set.Len()))

	for _, fn := range e.subscribers {
		fn(e.state)
	}
	return nil
}

// Set returns the current annotation set.
func (e *Engine) Set() annotation.Set {
	return e.state.Set
}

// State returns the current engine state.
func (e *Engine) State() State {
	return e.state
}

// Subscribe registers fn to run after every cycle with the new state.
func (e *Engine) Subscribe(fn func(State)) {
	e.subscribers = append(e.subscribers, fn)
}

func (e *Engine) build(r *Refresh) annotation.Set {
	if !r.Bounded {
		return e.builder.Build(r.Ranges, r.Threads)
	}
	return e.builder.Build(r.Ranges, r.Threads, annotation.WithDocumentLength(r.DocLen))
}
