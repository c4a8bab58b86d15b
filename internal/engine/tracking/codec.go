package tracking

import (
	"encoding/json"
	"fmt"
	"io"
)

// wireOp is the ShareJS operation shape. Exactly one of I, D, C is set.
type wireOp struct {
	P *int64  `json:"p"`
	I *string `json:"i,omitempty"`
	D *string `json:"d,omitempty"`
	C *string `json:"c,omitempty"`
	T string  `json:"t,omitempty"`
}

type wireChange struct {
	ID       string          `json:"id"`
	Op       json.RawMessage `json:"op"`
	Metadata *Metadata       `json:"metadata,omitempty"`
}

// decodeOp returns nil if raw matches no operation variant.
func decodeOp(raw json.RawMessage) Operation {
	if len(raw) == 0 {
		return nil
	}
	var w wireOp
	if err := json.Unmarshal(raw, &w); err != nil || w.P == nil {
		return nil
	}
	set := 0
	for _, s := range []*string{w.I, w.D, w.C} {
		if s != nil {
			set++
		}
	}
	if set != 1 {
		return nil
	}
	switch {
	case w.I != nil:
		return Insert{Pos: *w.P, Text: *w.I}
	case w.D != nil:
		return Delete{Pos: *w.P, Text: *w.D}
	default:
		return Comment{Pos: *w.P, Text: *w.C, Thread: w.T}
	}
}

// wireEncoder builds the wire shape of an Operation.
type wireEncoder struct {
	out wireOp
}

func (e *wireEncoder) VisitInsert(op Insert) error {
	e.out = wireOp{P: &op.Pos, I: &op.Text}
	return nil
}

func (e *wireEncoder) VisitDelete(op Delete) error {
	e.out = wireOp{P: &op.Pos, D: &op.Text}
	return nil
}

func (e *wireEncoder) VisitComment(op Comment) error {
	e.out = wireOp{P: &op.Pos, C: &op.Text, T: op.Thread}
	return nil
}

// UnmarshalJSON decodes a change. An unrecognized op leaves Op nil rather
// than failing, so one corrupt record does not reject the whole snapshot.
func (c *Change) UnmarshalJSON(data []byte) error {
	var w wireChange
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*c = Change{ID: w.ID, Op: decodeOp(w.Op)}
	if w.Metadata != nil {
		c.Metadata = *w.Metadata
	}
	return nil
}

// MarshalJSON encodes a change in the wire shape. A nil Op encodes as null.
func (c Change) MarshalJSON() ([]byte, error) {
	w := struct {
		ID       string    `json:"id"`
		Op       *wireOp   `json:"op"`
		Metadata *Metadata `json:"metadata,omitempty"`
	}{ID: c.ID}
	if c.Op != nil {
		var enc wireEncoder
		if err := c.Op.Accept(&enc); err != nil {
			return nil, err
		}
		w.Op = &enc.out
	}
	if c.Metadata.UserID != "" || !c.Metadata.Timestamp.IsZero() || len(c.Metadata.Extra) > 0 {
		w.Metadata = &c.Metadata
	}
	return json.Marshal(w)
}

type wireRanges struct {
	Changes  []Change `json:"changes"`
	Comments []Change `json:"comments"`
}

// SnapshotFile is a RangesSnapshot together with its thread mapping.
type SnapshotFile struct {
	// Ranges is nil when the input carried no ranges.
	Ranges  *RangesSnapshot
	Threads Threads
}

// DecodeSnapshot reads a SnapshotFile from r.
func DecodeSnapshot(r io.Reader) (SnapshotFile, error) {
	var w struct {
		Ranges  *wireRanges `json:"ranges"`
		Threads Threads     `json:"threads"`
	}
	if err := json.NewDecoder(r).Decode(&w); err != nil {
		return SnapshotFile{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}

	var out SnapshotFile
	if w.Ranges != nil {
		out.Ranges = &RangesSnapshot{
			Changes:  w.Ranges.Changes,
			Comments: w.Ranges.Comments,
		}
	}
	out.Threads = make(Threads, len(w.Threads))
	for id, th := range w.Threads {
		th.ID = id
		out.Threads[id] = th
	}
	return out, nil
}

// EncodeSnapshot writes f to w in the wire format.
func EncodeSnapshot(w io.Writer, f SnapshotFile) error {
	var out struct {
		Ranges  *wireRanges `json:"ranges,omitempty"`
		Threads Threads     `json:"threads,omitempty"`
	}
	if f.Ranges != nil {
		out.Ranges = &wireRanges{Changes: f.Ranges.Changes, Comments: f.Ranges.Comments}
	}
	out.Threads = f.Threads
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
