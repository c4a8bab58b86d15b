package buffer

// ByteOffset indexes into UTF-8 document text. Every position in redline
// is a byte offset.
type ByteOffset = int64

// Point is a zero-based line and byte column, used only for display.
type Point struct {
	Line   uint32
	Column uint32
}
