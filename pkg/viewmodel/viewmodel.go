// Package viewmodel reconciles store snapshots into the ordered list the
// entries view renders.
//
// The store publishes one snapshot for two unrelated kinds of change: the
// entry set and the search results. ApplyEntries and ApplySearch each look at
// one of them and report whether the rendered list must change, so the host
// can tell a new entry (redraw and scroll) from a new filter (redraw only).
package viewmodel

import (
	"sort"

	"tableflip.dev/logger/pkg/entry"
	"tableflip.dev/logger/pkg/state"
)

// View is the render-ready projection.
type View struct {
	Visible []entry.Entry
	Filter  []int64
}

// Model caches the last accepted sorted entries and filter. The zero value is
// ready to use.
type Model struct {
	sorted  []entry.Entry
	filter  []int64
	visible []entry.Entry
}

// ApplyEntries accepts the entry half of a snapshot. It returns false and
// leaves the model untouched when the sorted entries match the cache.
func (m *Model) ApplyEntries(s state.Snapshot) bool {
	candidate := Sorted(s.Entries)
	if EntriesEqual(m.sorted, candidate) {
		return false
	}
	m.sorted = candidate
	m.visible = Project(m.sorted, m.filter)
	return true
}

// ApplySearch accepts the search half of a snapshot. Results are ranked, so
// a reordering counts as a change.
func (m *Model) ApplySearch(s state.Snapshot) bool {
	if FilterEqual(m.filter, s.Search.Results) {
		return false
	}
	m.filter = append([]int64(nil), s.Search.Results...)
	m.visible = Project(m.sorted, m.filter)
	return true
}

// View returns a copy of the current projection.
func (m *Model) View() View {
	return View{
		Visible: append([]entry.Entry(nil), m.visible...),
		Filter:  append([]int64(nil), m.filter...),
	}
}

// Len is the number of visible entries.
func (m *Model) Len() int { return len(m.visible) }

// At returns the visible entry at index i.
func (m *Model) At(i int) (entry.Entry, bool) {
	if i < 0 || i >= len(m.visible) {
		return entry.Entry{}, false
	}
	return m.visible[i], true
}

// Last returns the final visible entry, the scroll target after new entries
// arrive.
func (m *Model) Last() (entry.Entry, bool) {
	return m.At(len(m.visible) - 1)
}

// Filtering reports whether a non-empty filter is applied.
func (m *Model) Filtering() bool { return len(m.filter) > 0 }

// Sorted returns the entries ordered by creation time, oldest first. Equal
// timestamps fall back to id order so the result is deterministic.
func Sorted(entries map[int64]entry.Entry) []entry.Entry {
	out := make([]entry.Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		li, lj := out[i].Created.Time, out[j].Created.Time
		if li.Equal(lj) {
			return out[i].ID < out[j].ID
		}
		return li.Before(lj)
	})
	return out
}

// EntriesEqual compares two sorted lists element by element.
func EntriesEqual(a, b []entry.Entry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// FilterEqual compares two result lists by value and order.
func FilterEqual(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Project applies a filter to the sorted entries. A non-empty filter yields
// entries in filter order, skipping ids that are not present; an empty filter
// yields every entry.
func Project(sorted []entry.Entry, filter []int64) []entry.Entry {
	if len(filter) == 0 {
		return append([]entry.Entry(nil), sorted...)
	}
	byID := make(map[int64]entry.Entry, len(sorted))
	for _, e := range sorted {
		byID[e.ID] = e
	}
	out := make([]entry.Entry, 0, len(filter))
	for _, id := range filter {
		if e, ok := byID[id]; ok {
			out = append(out, e)
		}
	}
	return out
}
