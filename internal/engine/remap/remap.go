package remap

import "github.com/dshills/redline/internal/engine/buffer"

// ByteOffset is an alias for buffer.ByteOffset for convenience.
type ByteOffset = buffer.ByteOffset

// Edit is an alias for buffer.Edit for convenience.
type Edit = buffer.Edit

// Mapper composes one or more text edits against a prior offset.
type Mapper interface {
	// MapOffset returns where offset lands after edits are applied in order.
	MapOffset(offset ByteOffset, edits []Edit) ByteOffset
}

// MapperFunc adapts a function to the Mapper interface.
type MapperFunc func(offset ByteOffset, edits []Edit) ByteOffset

// MapOffset calls f.
func (f MapperFunc) MapOffset(offset ByteOffset, edits []Edit) ByteOffset {
	return f(offset, edits)
}

// Sequential applies edits one after another using TransformOffset.
type Sequential struct{}

// MapOffset implements Mapper.
func (Sequential) MapOffset(offset ByteOffset, edits []Edit) ByteOffset {
	for _, e := range edits {
		offset = TransformOffset(offset, e)
	}
	return offset
}

// TransformOffset updates an offset after a single edit.
func TransformOffset(offset ByteOffset, edit Edit) ByteOffset {
	// At or after the edit end: shift by delta
	if offset >= edit.Range.End {
		return offset + edit.Delta()
	}

	// Strictly before the edit: unchanged
	if offset < edit.Range.Start {
		return offset
	}

	// Inside the replaced span: collapse to the start
	return edit.Range.Start
}

// EditsInReverseOrder reports whether edits run by descending position
// without overlapping, so that each can be applied at its recorded offset.
func EditsInReverseOrder(edits []Edit) bool {
	for i := 1; i < len(edits); i++ {
		if edits[i].Range.End > edits[i-1].Range.Start {
			return false
		}
	}
	return true
}
