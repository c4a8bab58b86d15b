package buffer

import (
	"github.com/google/uuid"
)

// Origin tags where a batch of edits came from, so history and undo logic can
// distinguish reversions from ordinary edits.
type Origin string

// Known origins.
const (
	// OriginInput is local typing or paste.
	OriginInput Origin = "input"

	// OriginRemote is an edit merged from another collaborator.
	OriginRemote Origin = "remote"

	// OriginReject is a reversion of tracked changes.
	OriginReject Origin = "reject"
)

// Batch is an ordered group of edits applied as one transaction.
type Batch struct {
	// ID uniquely identifies the transaction.
	ID uuid.UUID

	// Origin tags the transaction.
	Origin Origin

	// Edits in application order.
	Edits []Edit
}

// NewBatch creates a batch with a fresh transaction ID.
func NewBatch(origin Origin, edits ...Edit) Batch {
	return Batch{
		ID:     uuid.New(),
		Origin: origin,
		Edits:  edits,
	}
}

// IsEmpty returns true if the batch carries no edits.
func (b Batch) IsEmpty() bool {
	return len(b.Edits) == 0
}

// Len returns the number of edits in the batch.
func (b Batch) Len() int {
	return len(b.Edits)
}

// Delta returns the total change in document length.
func (b Batch) Delta() ByteOffset {
	var d ByteOffset
	for _, e := range b.Edits {
		d += e.Delta()
	}
	return d
}
