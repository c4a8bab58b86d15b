package annotation

import (
	"bytes"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dshills/redline/internal/engine/tracking"
	"github.com/dshills/redline/internal/metrics"
)

func insert(id string, p int64, text string) tracking.Change {
	return tracking.Change{ID: id, Op: tracking.Insert{Pos: p, Text: text}, Metadata: tracking.Metadata{UserID: "u-" + id}}
}

func del(id string, p int64, text string) tracking.Change {
	return tracking.Change{ID: id, Op: tracking.Delete{Pos: p, Text: text}}
}

func comment(id string, p int64, text, thread string) tracking.Change {
	return tracking.Change{ID: id, Op: tracking.Comment{Pos: p, Text: text, Thread: thread}}
}

func TestBuildInsert(t *testing.T) {
	ranges := &tracking.RangesSnapshot{Changes: []tracking.Change{insert("a", 4, "quux")}}

	set := Build(ranges, nil)

	if set.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", set.Len())
	}
	mark := set.Item(0)
	if mark.Shape != ShapeMark || mark.Kind != KindInsert || mark.From != 4 || mark.To != 8 {
		t.Errorf("mark = %v, want insert mark [4:8)", mark)
	}
	if mark.Metadata.UserID != "u-a" {
		t.Errorf("mark metadata = %+v, want verbatim copy", mark.Metadata)
	}
	callout := set.Item(1)
	if callout.Shape != ShapeCallout || callout.From != 4 || callout.To != 4 {
		t.Errorf("callout = %v, want callout @4", callout)
	}
}

func TestBuildInsertEmptySkipped(t *testing.T) {
	ranges := &tracking.RangesSnapshot{Changes: []tracking.Change{insert("a", 4, "")}}
	if set := Build(ranges, nil); !set.IsEmpty() {
		t.Errorf("Len() = %d, want 0 for empty insertion", set.Len())
	}
}

func TestBuildDelete(t *testing.T) {
	ranges := &tracking.RangesSnapshot{Changes: []tracking.Change{del("d", 8, "bar")}}

	set := Build(ranges, nil)

	if set.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", set.Len())
	}
	for i, a := range set.All() {
		if !a.IsZeroWidth() || a.From != 8 || a.To != 8 || a.Kind != KindDelete {
			t.Errorf("annotation %d = %v, want zero-width delete @8", i, a)
		}
	}
	if set.Item(0).Shape != ShapeTombstone || set.Item(1).Shape != ShapeCallout {
		t.Errorf("shapes = %v, %v; want tombstone, callout", set.Item(0).Shape, set.Item(1).Shape)
	}
}

func TestBuildComment(t *testing.T) {
	threads := tracking.Threads{
		"open":     {ID: "open"},
		"resolved": {ID: "resolved", Resolved: true},
	}

	tests := []struct {
		name   string
		change tracking.Change
		want   int
	}{
		{"open thread", comment("c1", 0, "foo", "open"), 2},
		{"resolved thread", comment("c2", 0, "foo", "resolved"), 0},
		{"missing thread", comment("c3", 0, "foo", "gone"), 0},
		{"empty span", comment("c4", 3, "", "open"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranges := &tracking.RangesSnapshot{Comments: []tracking.Change{tt.change}}
			set := Build(ranges, threads)
			if set.Len() != tt.want {
				t.Errorf("Len() = %d, want %d", set.Len(), tt.want)
			}
			if tt.want == 2 {
				if m := set.Item(0); m.Kind != KindComment || m.Shape != ShapeMark || m.From != 0 || m.To != 3 {
					t.Errorf("mark = %v", m)
				}
			}
		})
	}
}

func TestBuildAbsentRanges(t *testing.T) {
	if set := Build(nil, tracking.Threads{"t": {}}); !set.IsEmpty() {
		t.Errorf("Build(nil) Len() = %d, want 0", set.Len())
	}
}

func TestBuildOrderChangesBeforeComments(t *testing.T) {
	ranges := &tracking.RangesSnapshot{
		Changes:  []tracking.Change{insert("a", 0, "xy"), del("b", 0, "z")},
		Comments: []tracking.Change{comment("c", 0, "x", "t")},
	}
	set := Build(ranges, tracking.Threads{"t": {ID: "t"}})

	var ids []string
	for _, a := range set.All() {
		ids = append(ids, a.ID)
	}
	if got := strings.Join(ids, ","); got != "a,a,b,b,c,c" {
		t.Errorf("order = %s, want a,a,b,b,c,c", got)
	}
}

func TestBuildIsPure(t *testing.T) {
	ranges := &tracking.RangesSnapshot{
		Changes:  []tracking.Change{insert("a", 4, "quux"), del("b", 8, "bar")},
		Comments: []tracking.Change{comment("c", 0, "foo", "t")},
	}
	threads := tracking.Threads{"t": {ID: "t"}}

	first := Build(ranges, threads)
	second := Build(ranges, threads)

	if !first.Equal(second) {
		t.Errorf("Build is not deterministic:\n%v\n%v", first.All(), second.All())
	}
	if len(ranges.Changes) != 2 || len(ranges.Comments) != 1 {
		t.Error("Build modified its input")
	}
}

func TestBuildDropsMalformedEntries(t *testing.T) {
	var logs bytes.Buffer
	reg := prometheus.NewRegistry()
	b := NewBuilder(
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
		WithMetrics(metrics.New(reg)),
	)

	ranges := &tracking.RangesSnapshot{
		Changes: []tracking.Change{
			insert("ok-1", 0, "abc"),
			{ID: "nil-op"},
			insert("neg", -2, "x"),
			insert("past-end", 8, "toolong"),
			del("del-past-end", 11, "x"),
			del("ok-2", 10, "zz"),
		},
	}

	set := b.Build(ranges, nil, WithDocumentLength(10))

	if set.Len() != 4 {
		t.Fatalf("Len() = %d, want 4 (only ok-1 and ok-2 survive): %v", set.Len(), set.All())
	}
	if len(set.ByID("ok-1")) != 2 || len(set.ByID("ok-2")) != 2 {
		t.Errorf("surviving entries = %v", set.All())
	}
	for _, id := range []string{"nil-op", "neg", "past-end", "del-past-end"} {
		if !strings.Contains(logs.String(), "id="+id) {
			t.Errorf("expected a log line for %s, got:\n%s", id, logs.String())
		}
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	var dropped float64
	for _, f := range families {
		if f.GetName() == "redline_annotation_dropped_total" {
			for _, m := range f.GetMetric() {
				dropped += m.GetCounter().GetValue()
			}
		}
	}
	if dropped != 4 {
		t.Errorf("dropped = %v, want 4", dropped)
	}
}

func TestBuildDropsOverflowingSpan(t *testing.T) {
	ranges := &tracking.RangesSnapshot{
		Changes: []tracking.Change{
			insert("wrap", math.MaxInt64-1, "abc"),
			comment("wrap-comment", math.MaxInt64, "x", "t1"),
		},
	}
	threads := tracking.Threads{"t1": {ID: "t1"}}

	for _, opts := range [][]BuildOption{nil, {WithDocumentLength(100)}} {
		set := Build(ranges, threads, opts...)
		if !set.IsEmpty() {
			t.Errorf("Build(%d opts) = %v, want empty", len(opts), set.All())
		}
	}
}

// panicOp is an Operation whose visitor dispatch panics.
type panicOp struct{ tracking.Insert }

func (panicOp) Accept(tracking.OperationVisitor) error { panic("corrupt record") }

func TestBuildRecoversPanickingEntry(t *testing.T) {
	ranges := &tracking.RangesSnapshot{
		Changes: []tracking.Change{
			{ID: "boom", Op: panicOp{}},
			insert("ok", 0, "a"),
		},
	}

	set := Build(ranges, nil)

	if set.Len() != 2 || set.Item(0).ID != "ok" {
		t.Errorf("set = %v, want only entry ok", set.All())
	}
}
