package buffer

import "fmt"

// Edit replaces the bytes in Range with NewText.
type Edit struct {
	Range   Range
	NewText string
}

// NewEdit returns an edit replacing r with text.
func NewEdit(r Range, text string) Edit {
	return Edit{Range: r, NewText: text}
}

// NewInsert returns an edit inserting text at offset.
func NewInsert(offset ByteOffset, text string) Edit {
	return Edit{Range: NewRange(offset, offset), NewText: text}
}

// NewDelete returns an edit removing [start, end).
func NewDelete(start, end ByteOffset) Edit {
	return Edit{Range: NewRange(start, end)}
}

func (e Edit) String() string {
	switch {
	case e.Range.IsEmpty():
		return fmt.Sprintf("Insert(%d, %q)", e.Range.Start, e.NewText)
	case e.NewText == "":
		return "Delete" + e.Range.String()
	default:
		return fmt.Sprintf("Replace%s with %q", e.Range, e.NewText)
	}
}

// Delta is the change in document length once the edit is applied.
func (e Edit) Delta() ByteOffset {
	return ByteOffset(len(e.NewText)) - e.Range.Len()
}
