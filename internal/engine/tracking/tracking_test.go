package tracking

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

const sampleSnapshot = `{
  "ranges": {
    "changes": [
      {"id": "ins-1", "op": {"p": 4, "i": "quux"}, "metadata": {"user_id": "alice", "ts": "2024-03-01T10:00:00Z", "origin": "web"}},
      {"id": "del-1", "op": {"p": 8, "d": "bar"}, "metadata": {"user_id": "bob"}},
      {"id": "bad-1", "op": {"p": 2}}
    ],
    "comments": [
      {"id": "com-1", "op": {"p": 0, "c": "foo", "t": "thread-1"}}
    ]
  },
  "threads": {
    "thread-1": {"resolved": false},
    "thread-2": {"resolved": true}
  }
}`

func TestDecodeSnapshot(t *testing.T) {
	f, err := DecodeSnapshot(strings.NewReader(sampleSnapshot))
	if err != nil {
		t.Fatalf("DecodeSnapshot() error = %v", err)
	}
	if f.Ranges == nil {
		t.Fatal("Ranges should not be nil")
	}
	if len(f.Ranges.Changes) != 3 || len(f.Ranges.Comments) != 1 {
		t.Fatalf("got %d changes, %d comments", len(f.Ranges.Changes), len(f.Ranges.Comments))
	}

	ins, ok := f.Ranges.Changes[0].Op.(Insert)
	if !ok {
		t.Fatalf("Changes[0].Op = %T, want Insert", f.Ranges.Changes[0].Op)
	}
	if ins.Pos != 4 || ins.Text != "quux" {
		t.Errorf("Insert = %+v", ins)
	}

	md := f.Ranges.Changes[0].Metadata
	if md.UserID != "alice" {
		t.Errorf("UserID = %q, want alice", md.UserID)
	}
	if !md.Timestamp.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("Timestamp = %v", md.Timestamp)
	}
	if md.Extra["origin"] != "web" {
		t.Errorf("Extra[origin] = %v, want web", md.Extra["origin"])
	}

	if _, ok := f.Ranges.Changes[1].Op.(Delete); !ok {
		t.Errorf("Changes[1].Op = %T, want Delete", f.Ranges.Changes[1].Op)
	}
	if f.Ranges.Changes[2].Op != nil {
		t.Errorf("Changes[2].Op = %v, want nil for unrecognized op", f.Ranges.Changes[2].Op)
	}
	if f.Ranges.Changes[2].Kind() != KindUnknown {
		t.Errorf("Kind() = %v, want unknown", f.Ranges.Changes[2].Kind())
	}

	com, ok := f.Ranges.Comments[0].Op.(Comment)
	if !ok || com.Thread != "thread-1" {
		t.Errorf("Comments[0].Op = %#v", f.Ranges.Comments[0].Op)
	}

	if th := f.Threads["thread-1"]; th.ID != "thread-1" || th.Resolved {
		t.Errorf("thread-1 = %+v", th)
	}
	if _, ok := f.Threads.Open("thread-2"); ok {
		t.Error("resolved thread should not be open")
	}
	if _, ok := f.Threads.Open("missing"); ok {
		t.Error("missing thread should not be open")
	}
}

func TestDecodeSnapshotAbsentRanges(t *testing.T) {
	f, err := DecodeSnapshot(strings.NewReader(`{"threads": {}}`))
	if err != nil {
		t.Fatalf("DecodeSnapshot() error = %v", err)
	}
	if f.Ranges != nil {
		t.Errorf("Ranges = %v, want nil", f.Ranges)
	}
	if f.Ranges.Len() != 0 {
		t.Errorf("Len() on nil snapshot = %d, want 0", f.Ranges.Len())
	}
}

func TestDecodeSnapshotMalformed(t *testing.T) {
	_, err := DecodeSnapshot(strings.NewReader(`{"ranges": [`))
	if !errors.Is(err, ErrMalformedSnapshot) {
		t.Errorf("DecodeSnapshot() error = %v, want ErrMalformedSnapshot", err)
	}
}

func TestDecodeOpAmbiguous(t *testing.T) {
	if op := decodeOp([]byte(`{"p": 1, "i": "a", "d": "b"}`)); op != nil {
		t.Errorf("decodeOp() = %v, want nil for ambiguous op", op)
	}
	if op := decodeOp([]byte(`{"i": "a"}`)); op != nil {
		t.Errorf("decodeOp() = %v, want nil without position", op)
	}
	if op := decodeOp([]byte(`{"p": 0, "i": ""}`)); op == nil {
		t.Error("decodeOp() = nil, want empty Insert")
	}
}

func TestEncodeDecodeSnapshot(t *testing.T) {
	in, err := DecodeSnapshot(strings.NewReader(sampleSnapshot))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := EncodeSnapshot(&buf, in); err != nil {
		t.Fatalf("EncodeSnapshot() error = %v", err)
	}

	out, err := DecodeSnapshot(&buf)
	if err != nil {
		t.Fatalf("DecodeSnapshot() error = %v", err)
	}
	if out.Ranges.Len() != in.Ranges.Len() {
		t.Fatalf("Len() = %d, want %d", out.Ranges.Len(), in.Ranges.Len())
	}
	for i, c := range in.Ranges.All() {
		got := out.Ranges.All()[i]
		if got.ID != c.ID || got.Op != c.Op || got.Metadata.UserID != c.Metadata.UserID {
			t.Errorf("entry %d = %v, want %v", i, got, c)
		}
	}
}

func TestSnapshotIndex(t *testing.T) {
	s := &RangesSnapshot{
		Changes: []Change{
			{ID: "a", Op: Insert{Pos: 0, Text: "x"}},
			{ID: "b", Op: Delete{Pos: 3, Text: "y"}},
			{ID: "a", Op: Delete{Pos: 9, Text: "dup"}},
		},
		Comments: []Change{
			{ID: "c", Op: Comment{Pos: 1, Text: "z", Thread: "t"}},
		},
	}

	idx := s.Index()
	if len(idx) != 3 {
		t.Errorf("len(Index()) = %d, want 3", len(idx))
	}
	if c, _ := idx.Lookup("a"); c.Kind() != KindInsert {
		t.Errorf("Lookup(a).Kind() = %v, want insert (first occurrence)", c.Kind())
	}
	if c, ok := idx.Lookup("c"); !ok || c.Kind() != KindComment {
		t.Errorf("Lookup(c) = %v, %v", c, ok)
	}
	if _, ok := idx.Lookup("nope"); ok {
		t.Error("Lookup(nope) should fail")
	}
}

func TestSnapshotIndexLogsDuplicates(t *testing.T) {
	s := &RangesSnapshot{
		Changes:  []Change{{ID: "a", Op: Insert{Pos: 0, Text: "x"}}},
		Comments: []Change{{ID: "a", Op: Comment{Pos: 0, Text: "x", Thread: "t"}}},
	}

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	idx := s.IndexLogged(logger)

	if c, _ := idx.Lookup("a"); c.Kind() != KindInsert {
		t.Errorf("Lookup(a).Kind() = %v, want insert", c.Kind())
	}
	out := logs.String()
	if !strings.Contains(out, "duplicate change id") || !strings.Contains(out, "id=a") || !strings.Contains(out, "ignored=comment") {
		t.Errorf("log = %q, want duplicate id line", out)
	}
}

type countingVisitor struct {
	inserts, deletes, comments int
}

func (v *countingVisitor) VisitInsert(Insert) error   { v.inserts++; return nil }
func (v *countingVisitor) VisitDelete(Delete) error   { v.deletes++; return nil }
func (v *countingVisitor) VisitComment(Comment) error { v.comments++; return nil }

func TestOperationAccept(t *testing.T) {
	ops := []Operation{
		Insert{Pos: 1, Text: "a"},
		Delete{Pos: 2, Text: "b"},
		Comment{Pos: 3, Text: "c", Thread: "t"},
		Insert{Pos: 4, Text: "d"},
	}

	var v countingVisitor
	for _, op := range ops {
		if err := op.Accept(&v); err != nil {
			t.Fatal(err)
		}
	}
	if v.inserts != 2 || v.deletes != 1 || v.comments != 1 {
		t.Errorf("visits = %+v", v)
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindInsert, "insert"},
		{KindDelete, "delete"},
		{KindComment, "comment"},
		{KindUnknown, "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
