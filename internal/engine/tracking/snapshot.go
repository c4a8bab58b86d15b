package tracking

import (
	"log/slog"

	"github.com/dshills/redline/internal/logging"
)

// RangesSnapshot is an immutable view of the tracked-change history.
// Callers must not modify the slices after constructing the snapshot.
type RangesSnapshot struct {
	// Changes holds insertions and deletions, in history order.
	Changes []Change

	// Comments holds comment changes, in history order.
	Comments []Change
}

// Len returns the total number of entries.
func (s *RangesSnapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Changes) + len(s.Comments)
}

// All returns changes followed by comments.
func (s *RangesSnapshot) All() []Change {
	if s == nil {
		return nil
	}
	all := make([]Change, 0, s.Len())
	all = append(all, s.Changes...)
	all = append(all, s.Comments...)
	return all
}

// Index returns an id lookup over every entry in the snapshot.
// When an id repeats, the first occurrence wins.
func (s *RangesSnapshot) Index() ChangeIndex {
	return s.IndexLogged(nil)
}

// IndexLogged is Index, reporting each repeated id at debug on logger.
func (s *RangesSnapshot) IndexLogged(logger *slog.Logger) ChangeIndex {
	logger = logging.OrDiscard(logger)
	idx := make(ChangeIndex, s.Len())
	for _, c := range s.All() {
		first, ok := idx[c.ID]
		if ok {
			logger.Debug("tracking: duplicate change id",
				slog.String("id", c.ID),
				slog.String("kept", first.Kind().String()),
				slog.String("ignored", c.Kind().String()))
			continue
		}
		idx[c.ID] = c
	}
	return idx
}

// ChangeIndex maps change ID to change.
type ChangeIndex map[string]Change

// Lookup returns the change with id.
func (idx ChangeIndex) Lookup(id string) (Change, bool) {
	c, ok := idx[id]
	return c, ok
}
