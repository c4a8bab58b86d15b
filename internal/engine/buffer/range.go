package buffer

import "fmt"

// Range is a half-open byte span [Start, End).
type Range struct {
	Start ByteOffset
	End   ByteOffset
}

// NewRange returns the span [start, end).
func NewRange(start, end ByteOffset) Range {
	return Range{Start: start, End: end}
}

func (r Range) String() string {
	return fmt.Sprintf("[%d:%d)", r.Start, r.End)
}

// Len returns the number of bytes covered.
func (r Range) Len() ByteOffset {
	return r.End - r.Start
}

// IsEmpty reports whether the span covers no bytes.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Contains reports whether offset falls inside the span. End is exclusive.
func (r Range) Contains(offset ByteOffset) bool {
	return r.Start <= offset && offset < r.End
}
