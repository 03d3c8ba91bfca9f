// Package state holds the values the store layer publishes to the UI on
// every change.
package state

import (
	"fmt"

	"tableflip.dev/logger/pkg/entry"
)

// Search is the current search request and its relevance-ranked results.
type Search struct {
	Query   string
	Active  bool
	Results []int64
}

// Snapshot is the authoritative state bundle emitted after each mutation.
// Results may briefly reference ids that are no longer in Entries.
type Snapshot struct {
	Entries map[int64]entry.Entry
	Search  Search
}

// Describe renders the snapshot for the debug log.
func (s Snapshot) Describe() string {
	if s.Search.Active {
		return fmt.Sprintf(`entries:%d query:%q results:%d`, len(s.Entries), s.Search.Query, len(s.Search.Results))
	}
	return fmt.Sprintf(`entries:%d`, len(s.Entries))
}
