package render

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dshills/redline/internal/annotation"
	"github.com/dshills/redline/internal/engine/buffer"
)

// Record is a flat, serializable view of one annotation.
type Record struct {
	ID     string    `json:"id" yaml:"id"`
	Kind   string    `json:"kind" yaml:"kind"`
	Shape  string    `json:"shape" yaml:"shape"`
	From   int64     `json:"from" yaml:"from"`
	To     int64     `json:"to" yaml:"to"`
	Line   uint32    `json:"line" yaml:"line"`
	Column uint32    `json:"column" yaml:"column"`
	Text   string    `json:"text,omitempty" yaml:"text,omitempty"`
	User   string    `json:"user,omitempty" yaml:"user,omitempty"`
	At     time.Time `json:"ts,omitzero" yaml:"ts,omitempty"`
}

// Records flattens set against doc in document order. Line and column are
// zero-based; Text is the covered text for marks.
func Records(doc *buffer.Document, set annotation.Set) []Record {
	out := make([]Record, 0, set.Len())
	for _, a := range set.Sorted() {
		pt := doc.OffsetToPoint(a.From)
		rec := Record{
			ID:     a.ID,
			Kind:   a.Kind.String(),
			Shape:  a.Shape.String(),
			From:   a.From,
			To:     a.To,
			Line:   pt.Line,
			Column: pt.Column,
			User:   a.Metadata.UserID,
			At:     a.Metadata.Timestamp,
		}
		if !a.IsZeroWidth() {
			if text, err := doc.Slice(a.Range()); err == nil {
				rec.Text = text
			}
		}
		out = append(out, rec)
	}
	return out
}

// Describe writes one aligned line per annotation.
func Describe(w io.Writer, doc *buffer.Document, set annotation.Set) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range Records(doc, set) {
		span := fmt.Sprintf("@%d", r.From)
		if r.Shape == annotation.ShapeMark.String() {
			span = fmt.Sprintf("[%d:%d)", r.From, r.To)
		}
		if _, err := fmt.Fprintf(tw, "%d:%d\t%s\t%s\t%s\t%s\t%q\n",
			r.Line+1, r.Column+1, r.Kind, r.Shape, span, r.ID, r.Text); err != nil {
			return err
		}
	}
	return tw.Flush()
}
