// Package ledger holds the append-only status history attached to an entity.
//
// Past entries are never edited or removed; the only mutation is Append, which
// returns a new slice so callers cannot alias into stored history.
package ledger

import (
	"sort"
	"time"
)

// Entry records one status change.
type Entry struct {
	Status      string    `json:"status"`
	PerformedBy string    `json:"performedBy,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// History is an ordered, append-only sequence of entries. The slice order is
// insertion order.
type History []Entry

// Append returns a new history with the entry added. A zero timestamp is
// filled with now.
func (h History) Append(e Entry, now time.Time) History {
	if e.Timestamp.IsZero() {
		e.Timestamp = now
	}
	out := make(History, len(h), len(h)+1)
	copy(out, h)
	return append(out, e)
}

// Newest returns entries ordered by timestamp descending; ties keep insertion
// order. This is the default read-side ordering.
func (h History) Newest() []Entry {
	out := make([]Entry, len(h))
	copy(out, h)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// Oldest returns entries in insertion order (which is also chronological for
// histories built through Append).
func (h History) Oldest() []Entry {
	out := make([]Entry, len(h))
	copy(out, h)
	return out
}

// Latest returns the most recently appended entry, or false for an empty
// history.
func (h History) Latest() (Entry, bool) {
	if len(h) == 0 {
		return Entry{}, false
	}
	return h[len(h)-1], true
}
