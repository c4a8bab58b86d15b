package tracking

import "time"

// Thread is a comment thread.
type Thread struct {
	ID         string    `json:"id,omitempty"`
	Resolved   bool      `json:"resolved"`
	ResolvedAt time.Time `json:"resolved_at,omitzero"`
	ResolvedBy string    `json:"resolved_by_user_id,omitempty"`
}

// Threads maps thread ID to thread.
type Threads map[string]Thread

// Open returns the thread with id if it exists and is unresolved.
func (t Threads) Open(id string) (Thread, bool) {
	th, ok := t[id]
	if !ok || th.Resolved {
		return Thread{}, false
	}
	return th, true
}
