package history

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/redline/internal/engine/buffer"
)

// ByteOffset is an alias for buffer.ByteOffset for convenience.
type ByteOffset = buffer.ByteOffset

// Range is an alias for buffer.Range for convenience.
type Range = buffer.Range

// Operation represents a single undoable edit.
type Operation struct {
	Range   Range  // Range that was modified (in the text before the edit)
	OldText string // Text that was replaced (for undo)
	NewText string // Text that was inserted (for redo)
}

// NewRange returns the range of the text after the operation.
func (op Operation) NewRange() Range {
	return Range{
		Start: op.Range.Start,
		End:   op.Range.Start + ByteOffset(len(op.NewText)),
	}
}

// Invert returns an operation that undoes this one.
func (op Operation) Invert() Operation {
	return Operation{
		Range:   op.NewRange(),
		OldText: op.NewText,
		NewText: op.OldText,
	}
}

// Edit returns the operation as a buffer edit.
func (op Operation) Edit() buffer.Edit {
	return buffer.NewEdit(op.Range, op.NewText)
}

// Transaction is one applied batch.
type Transaction struct {
	ID         uuid.UUID
	Origin     buffer.Origin
	Operations []Operation
	Timestamp  time.Time
}

// Capture records the operations batch would perform against text.
// It returns an error, and records nothing, if any edit does not fit.
func Capture(text string, batch buffer.Batch) (Transaction, error) {
	ops := make([]Operation, 0, len(batch.Edits))
	for i, e := range batch.Edits {
		next, err := buffer.ApplyEdits(text, batch.Edits[i:i+1])
		if err != nil {
			return Transaction{}, err
		}
		ops = append(ops, Operation{
			Range:   e.Range,
			OldText: text[e.Range.Start:e.Range.End],
			NewText: e.NewText,
		})
		text = next
	}
	return Transaction{
		ID:         batch.ID,
		Origin:     batch.Origin,
		Operations: ops,
		Timestamp:  time.Now(),
	}, nil
}

// Inverse returns a batch that undoes the transaction.
// Operations are inverted in reverse order.
func (tx Transaction) Inverse() buffer.Batch {
	edits := make([]buffer.Edit, 0, len(tx.Operations))
	for i := len(tx.Operations) - 1; i >= 0; i-- {
		edits = append(edits, tx.Operations[i].Invert().Edit())
	}
	return buffer.NewBatch(OriginUndo, edits...)
}

// OriginUndo tags batches produced by Transaction.Inverse.
const OriginUndo buffer.Origin = "undo"
