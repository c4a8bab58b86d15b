// Package buffer provides the position, range, and edit primitives shared by
// the overlay core, plus a small in-memory Document that applies edit batches
// the way a host editing surface does.
//
// The buffer package provides:
//
//   - Byte offsets and half-open ranges
//   - Edits (insert, delete, replace) and their length delta
//   - Batches of edits tagged with an Origin, so reversions can be told apart
//     from ordinary typing
//   - All-or-nothing batch application against a Document
//   - Coordinate conversion between byte offsets and line/column positions
//
// Basic usage:
//
//	doc := buffer.NewDocument("foo quux baz")
//
//	batch := buffer.NewBatch(buffer.OriginReject,
//	    buffer.NewInsert(8, "bar"),
//	    buffer.NewDelete(4, 8),
//	)
//	if err := doc.Apply(batch); err != nil {
//	    // nothing was applied
//	}
//	doc.Text() // "foo bar baz"
//
// Edits inside a batch are applied in order. Each edit's offsets refer to the
// text produced by the edits before it.
package buffer
