package tracking

import (
	"encoding/json"
	"fmt"
	"time"
)

// Metadata describes who made a change and when.
type Metadata struct {
	// UserID is the author.
	UserID string

	// Timestamp is when the change was recorded.
	Timestamp time.Time

	// Extra holds any other metadata keys verbatim.
	Extra map[string]any
}

// MarshalJSON encodes metadata with user_id and ts next to the extra keys.
func (m Metadata) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(m.Extra)+2)
	for k, v := range m.Extra {
		out[k] = v
	}
	if m.UserID != "" {
		out["user_id"] = m.UserID
	}
	if !m.Timestamp.IsZero() {
		out["ts"] = m.Timestamp.Format(time.RFC3339Nano)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes metadata, keeping unknown keys in Extra.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = Metadata{}
	if v, ok := raw["user_id"]; ok {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("metadata user_id: expected string, got %T", v)
		}
		m.UserID = s
		delete(raw, "user_id")
	}
	if v, ok := raw["ts"]; ok {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("metadata ts: expected string, got %T", v)
		}
		ts, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("metadata ts: %w", err)
		}
		m.Timestamp = ts
		delete(raw, "ts")
	}
	if len(raw) > 0 {
		m.Extra = raw
	}
	return nil
}

// Change is one tracked change or comment.
type Change struct {
	ID       string
	Metadata Metadata

	// Op is nil when the recorded operation was not recognized.
	Op Operation
}

// Kind returns the kind of the change's operation.
func (c Change) Kind() Kind {
	return KindOf(c.Op)
}

// String returns a human-readable representation of the change.
func (c Change) String() string {
	if c.Op == nil {
		return fmt.Sprintf("%s: unknown operation", c.ID)
	}
	return fmt.Sprintf("%s: %v", c.ID, c.Op)
}
