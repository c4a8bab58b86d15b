// Package render presents an annotation set.
//
// Painter draws a document with its annotations on a tcell screen: marks
// restyle the text they cover, while tombstones and callouts are drawn as
// inline glyphs at their anchor offset. Several zero-width annotations at
// the same offset are drawn in set order.
//
// Describe and Records produce a plain listing for non-interactive output.
package render
