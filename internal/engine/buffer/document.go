package buffer

import (
	"fmt"
	"strings"
)

// Document is an in-memory text buffer.
//
// Document is not safe for concurrent use; the host serializes access.
type Document struct {
	text string
}

// NewDocument creates a document holding text.
func NewDocument(text string) *Document {
	return &Document{text: text}
}

// Text returns the full document text.
func (d *Document) Text() string {
	return d.text
}

// Len returns the document length in bytes.
func (d *Document) Len() ByteOffset {
	return ByteOffset(len(d.text))
}

// Slice returns the text in r.
func (d *Document) Slice(r Range) (string, error) {
	if err := checkRange(r, d.Len()); err != nil {
		return "", err
	}
	return d.text[r.Start:r.End], nil
}

// Apply applies all edits in the batch in order.
//
// Application is all-or-nothing: every edit is validated against the text
// produced by the edits before it, and the document only changes if all
// edits succeed.
func (d *Document) Apply(batch Batch) error {
	next, err := ApplyEdits(d.text, batch.Edits)
	if err != nil {
		return err
	}
	d.text = next
	return nil
}

// ApplyEdits returns text with edits applied in order.
func ApplyEdits(text string, edits []Edit) (string, error) {
	for i, e := range edits {
		if err := checkRange(e.Range, ByteOffset(len(text))); err != nil {
			return "", fmt.Errorf("edit %d %s: %w", i, e, err)
		}
		var sb strings.Builder
		sb.Grow(len(text) + len(e.NewText) - int(e.Range.Len()))
		sb.WriteString(text[:e.Range.Start])
		sb.WriteString(e.NewText)
		sb.WriteString(text[e.Range.End:])
		text = sb.String()
	}
	return text, nil
}

// OffsetToPoint converts a byte offset to a line/column position.
// Offsets past the end clamp to the end of the document.
func (d *Document) OffsetToPoint(offset ByteOffset) Point {
	if offset < 0 {
		offset = 0
	}
	if offset > d.Len() {
		offset = d.Len()
	}
	prefix := d.text[:offset]
	line := strings.Count(prefix, "\n")
	col := len(prefix)
	if i := strings.LastIndexByte(prefix, '\n'); i >= 0 {
		col = len(prefix) - i - 1
	}
	return Point{Line: uint32(line), Column: uint32(col)}
}

// Lines returns the document split into lines, without line terminators.
func (d *Document) Lines() []string {
	return strings.Split(d.text, "\n")
}

func checkRange(r Range, length ByteOffset) error {
	if r.Start > r.End {
		return ErrRangeInvalid
	}
	if r.Start < 0 || r.End > length {
		return ErrOffsetOutOfRange
	}
	return nil
}
