package annotation

import (
	"testing"

	"github.com/dshills/redline/internal/engine/buffer"
	"github.com/dshills/redline/internal/engine/remap"
	"github.com/dshills/redline/internal/engine/tracking"
)

func sampleSet() Set {
	threads := tracking.Threads{"t": {ID: "t"}}
	return Build(&tracking.RangesSnapshot{
		Changes: []tracking.Change{
			insert("ins", 4, "quux"), // mark [4:8), callout @4
			del("del", 12, "bar"),    // tombstone + callout @12
		},
		Comments: []tracking.Change{
			comment("com", 20, "hello", "t"), // mark [20:25), callout @20
		},
	}, threads)
}

func TestRemapNonOverlappingEdit(t *testing.T) {
	tests := []struct {
		name string
		edit buffer.Edit
	}{
		{"insert before all", buffer.NewInsert(1, "ab")},
		{"delete before all", buffer.NewDelete(0, 3)},
		{"insert between", buffer.NewInsert(10, "xyz")},
		{"delete between", buffer.NewDelete(14, 18)},
		{"insert after all", buffer.NewInsert(30, "tail")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := sampleSet()
			after := before.Remap(remap.Sequential{}, []buffer.Edit{tt.edit})

			if after.Len() != before.Len() {
				t.Fatalf("Len() = %d, want %d", after.Len(), before.Len())
			}
			for i := range before.All() {
				b, a := before.Item(i), after.Item(i)
				wantFrom, wantTo := b.From, b.To
				if b.From >= tt.edit.Range.End {
					wantFrom += tt.edit.Delta()
				}
				if b.To >= tt.edit.Range.End {
					wantTo += tt.edit.Delta()
				}
				if a.From != wantFrom || a.To != wantTo {
					t.Errorf("annotation %d: got [%d:%d), want [%d:%d)", i, a.From, a.To, wantFrom, wantTo)
				}
				if a.ID != b.ID || a.Kind != b.Kind || a.Shape != b.Shape {
					t.Errorf("annotation %d identity changed: %v -> %v", i, b, a)
				}
			}
		})
	}
}

func TestRemapDropsCollapsedMark(t *testing.T) {
	set := sampleSet()

	// Deleting [3,9) swallows the insertion mark [4:8) entirely.
	after := set.Remap(remap.Sequential{}, []buffer.Edit{buffer.NewDelete(3, 9)})

	if after.Len() != set.Len()-1 {
		t.Fatalf("Len() = %d, want %d", after.Len(), set.Len()-1)
	}
	for _, a := range after.ByID("ins") {
		if a.Shape == ShapeMark {
			t.Errorf("collapsed mark survived: %v", a)
		}
		if a.From != 3 {
			t.Errorf("callout = %v, want collapsed to 3", a)
		}
	}
	if set.Len() != 6 {
		t.Error("Remap modified the receiver")
	}
}

func TestRemapPartialOverlapShrinksMark(t *testing.T) {
	set := sampleSet()
	after := set.Remap(remap.Sequential{}, []buffer.Edit{buffer.NewDelete(6, 10)})

	mark := after.ByID("ins")[0]
	if mark.From != 4 || mark.To != 6 {
		t.Errorf("mark = %v, want [4:6)", mark)
	}
}

func TestRemapNoEdits(t *testing.T) {
	set := sampleSet()
	if after := set.Remap(remap.Sequential{}, nil); !after.Equal(set) {
		t.Error("Remap without edits should return an equal set")
	}
}

func TestSetQueries(t *testing.T) {
	set := sampleSet()

	if got := len(set.AtOffset(4)); got != 2 {
		t.Errorf("AtOffset(4) = %d annotations, want 2 (mark + callout)", got)
	}
	if got := len(set.AtOffset(7)); got != 1 {
		t.Errorf("AtOffset(7) = %d annotations, want 1", got)
	}
	if got := len(set.AtOffset(8)); got != 0 {
		t.Errorf("AtOffset(8) = %d annotations, want 0 (end exclusive)", got)
	}
	if got := len(set.AtOffset(12)); got != 2 {
		t.Errorf("AtOffset(12) = %d annotations, want 2", got)
	}

	if got := len(set.Overlapping(buffer.NewRange(10, 21))); got != 4 {
		t.Errorf("Overlapping([10:21)) = %d, want 4", got)
	}
	if got := len(set.ByID("missing")); got != 0 {
		t.Errorf("ByID(missing) = %d, want 0", got)
	}
}

func TestSortedKeepsInputOrderAtEqualPositions(t *testing.T) {
	set := NewSet(
		Annotation{ID: "late", Shape: ShapeCallout, From: 9, To: 9},
		Annotation{ID: "first", Shape: ShapeTombstone, From: 2, To: 2},
		Annotation{ID: "second", Shape: ShapeCallout, From: 2, To: 2},
		Annotation{ID: "mark", Shape: ShapeMark, From: 2, To: 5},
		Annotation{ID: "callout", Shape: ShapeCallout, From: 2, To: 2},
	)

	got := set.Sorted()
	want := []string{"first", "second", "mark", "callout", "late"}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("Sorted()[%d] = %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestShapeString(t *testing.T) {
	if ShapeMark.String() != "mark" || ShapeTombstone.String() != "tombstone" || ShapeCallout.String() != "callout" {
		t.Error("unexpected shape names")
	}
	if Shape(99).String() != "unknown" {
		t.Error("unknown shape should print unknown")
	}
}
