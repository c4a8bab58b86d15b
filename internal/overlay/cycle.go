package overlay

import (
	"github.com/dshills/redline/internal/engine/buffer"
	"github.com/dshills/redline/internal/engine/tracking"
)

// Cycle is one host update tick.
type Cycle struct {
	// Edits are applied to the document in order.
	Edits []buffer.Edit

	// Refresh replaces the annotation set when non-nil.
	Refresh *Refresh

	// ViewportChanged is set when the visible window scrolled, resized, or
	// reflowed during the cycle.
	ViewportChanged bool

	// Origin tags where the edits came from.
	Origin buffer.Origin
}

// HasEdits returns true if the cycle carries text edits.
func (c Cycle) HasEdits() bool {
	return len(c.Edits) > 0
}

// Refresh is a new authoritative snapshot.
type Refresh struct {
	Ranges  *tracking.RangesSnapshot
	Threads tracking.Threads

	// DocLen is the document length the snapshot was taken against. It is
	// only consulted when Bounded is set.
	DocLen int64

	// Bounded drops entries reaching past DocLen.
	Bounded bool
}

// NewRefresh creates a refresh without a known document length.
func NewRefresh(ranges *tracking.RangesSnapshot, threads tracking.Threads) *Refresh {
	return &Refresh{Ranges: ranges, Threads: threads}
}

// NewBoundedRefresh creates a refresh taken against a document of docLen
// bytes.
func NewBoundedRefresh(ranges *tracking.RangesSnapshot, threads tracking.Threads, docLen int64) *Refresh {
	return &Refresh{Ranges: ranges, Threads: threads, DocLen: docLen, Bounded: true}
}
