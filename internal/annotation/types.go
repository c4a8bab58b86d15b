package annotation

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/dshills/redline/internal/engine/buffer"
	"github.com/dshills/redline/internal/engine/remap"
	"github.com/dshills/redline/internal/engine/tracking"
)

// ByteOffset is an alias for buffer.ByteOffset for convenience.
type ByteOffset = buffer.ByteOffset

// Kind is the tracked-change kind an annotation belongs to.
type Kind = tracking.Kind

// Annotation kinds.
const (
	KindInsert  = tracking.KindInsert
	KindDelete  = tracking.KindDelete
	KindComment = tracking.KindComment
)

// Shape is how an annotation is drawn.
type Shape uint8

const (
	// ShapeMark styles the live text in [From, To).
	ShapeMark Shape = iota

	// ShapeTombstone is a zero-width marker where text was deleted.
	ShapeTombstone

	// ShapeCallout is a zero-width marker surfacing a change's metadata.
	ShapeCallout
)

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case ShapeMark:
		return "mark"
	case ShapeTombstone:
		return "tombstone"
	case ShapeCallout:
		return "callout"
	default:
		return "unknown"
	}
}

// Annotation is a visual overlay bound to a position or range.
type Annotation struct {
	Kind  Kind
	Shape Shape

	// From and To bound a mark. Zero-width shapes have From == To.
	From ByteOffset
	To   ByteOffset

	// ID and Metadata are copied verbatim from the change.
	ID       string
	Metadata tracking.Metadata
}

// Range returns [From, To).
func (a Annotation) Range() buffer.Range {
	return buffer.NewRange(a.From, a.To)
}

// IsZeroWidth returns true for tombstones and callouts.
func (a Annotation) IsZeroWidth() bool {
	return a.Shape != ShapeMark
}

// String returns a human-readable representation.
func (a Annotation) String() string {
	if a.IsZeroWidth() {
		return fmt.Sprintf("%s %s %s @%d", a.Kind, a.Shape, a.ID, a.From)
	}
	return fmt.Sprintf("%s %s %s [%d:%d)", a.Kind, a.Shape, a.ID, a.From, a.To)
}

// Set is an ordered collection of annotations. The zero value is empty.
//
// Set is a value: Remap returns a new Set and leaves the receiver untouched.
type Set struct {
	items []Annotation
}

// NewSet creates a set holding items in order.
func NewSet(items ...Annotation) Set {
	if len(items) == 0 {
		return Set{}
	}
	cp := make([]Annotation, len(items))
	copy(cp, items)
	return Set{items: cp}
}

// Len returns the number of annotations.
func (s Set) Len() int {
	return len(s.items)
}

// IsEmpty returns true if the set has no annotations.
func (s Set) IsEmpty() bool {
	return len(s.items) == 0
}

// All returns a copy of the annotations in set order.
func (s Set) All() []Annotation {
	out := make([]Annotation, len(s.items))
	copy(out, s.items)
	return out
}

// Item returns the i-th annotation.
func (s Set) Item(i int) Annotation {
	return s.items[i]
}

// ByID returns the annotations emitted for change id, in set order.
func (s Set) ByID(id string) []Annotation {
	var out []Annotation
	for _, a := range s.items {
		if a.ID == id {
			out = append(out, a)
		}
	}
	return out
}

// AtOffset returns the annotations at offset: marks covering it and
// zero-width annotations sitting on it.
func (s Set) AtOffset(offset ByteOffset) []Annotation {
	var out []Annotation
	for _, a := range s.items {
		if a.IsZeroWidth() {
			if a.From == offset {
				out = append(out, a)
			}
			continue
		}
		if a.Range().Contains(offset) {
			out = append(out, a)
		}
	}
	return out
}

// Overlapping returns the annotations that intersect r. Zero-width
// annotations match when they sit within [r.Start, r.End].
func (s Set) Overlapping(r buffer.Range) []Annotation {
	var out []Annotation
	for _, a := range s.items {
		if a.IsZeroWidth() {
			if a.From >= r.Start && a.From <= r.End {
				out = append(out, a)
			}
			continue
		}
		if a.From < r.End && r.Start < a.To {
			out = append(out, a)
		}
	}
	return out
}

// Sorted returns the annotations ordered by From. Annotations starting at the
// same offset keep their set order.
func (s Set) Sorted() []Annotation {
	out := s.All()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].From < out[j].From
	})
	return out
}

// Remap returns the set with every position mapped through edits.
// Marks that collapse to an empty span are dropped; zero-width annotations
// are always kept.
func (s Set) Remap(m remap.Mapper, edits []buffer.Edit) Set {
	if len(edits) == 0 || len(s.items) == 0 {
		return s
	}
	out := make([]Annotation, 0, len(s.items))
	for _, a := range s.items {
		if a.IsZeroWidth() {
			a.From = m.MapOffset(a.From, edits)
			a.To = a.From
			out = append(out, a)
			continue
		}
		a.From = m.MapOffset(a.From, edits)
		a.To = m.MapOffset(a.To, edits)
		if a.To <= a.From {
			continue
		}
		out = append(out, a)
	}
	return Set{items: out}
}

// Equal reports whether both sets hold equal annotations in the same order.
func (s Set) Equal(other Set) bool {
	if len(s.items) != len(other.items) {
		return false
	}
	for i := range s.items {
		if !reflect.DeepEqual(s.items[i], other.items[i]) {
			return false
		}
	}
	return true
}
