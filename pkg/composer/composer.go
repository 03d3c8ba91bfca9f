// Package composer implements the input-mode state machine behind the
// composer line: a single text surface that either drafts a new entry or
// runs a live search, with a placeholder standing in for empty input.
package composer

import (
	"fmt"
	"strings"
)

const (
	// DefaultPlaceholder is shown while the composer is empty.
	DefaultPlaceholder = "Message"
	// DefaultSearchPlaceholder is shown while search mode has no query.
	DefaultSearchPlaceholder = "Search"
	// DefaultMaxLines caps how tall the composer grows before it scrolls.
	DefaultMaxLines = 4
	// SearchIndent is the room reserved for the search icon.
	SearchIndent = 2
)

// Mode is the composer input mode.
type Mode int

const (
	// Empty shows the placeholder; typed text becomes a new entry.
	Empty Mode = iota
	// Composing holds a draft entry.
	Composing
	// SearchEmpty shows the search placeholder.
	SearchEmpty
	// SearchWithQuery holds a live query.
	SearchWithQuery
)

func (m Mode) String() string {
	switch m {
	case Empty:
		return "empty"
	case Composing:
		return "composing"
	case SearchEmpty:
		return "search-empty"
	case SearchWithQuery:
		return "search"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Searching reports whether typed text is interpreted as a query.
func (m Mode) Searching() bool {
	return m == SearchEmpty || m == SearchWithQuery
}

// Placeholding reports whether a placeholder stands in for the text.
func (m Mode) Placeholding() bool {
	return m == Empty || m == SearchEmpty
}

// Stage is what the action button does when pressed.
type Stage int

const (
	// StagePhoto opens the photo picker.
	StagePhoto Stage = iota
	// StageSend submits the draft.
	StageSend
	// StageClear leaves search mode.
	StageClear
)

func (s Stage) String() string {
	switch s {
	case StagePhoto:
		return "photo"
	case StageSend:
		return "send"
	case StageClear:
		return "clear"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// StageFor derives the action button stage from a mode.
func StageFor(m Mode) Stage {
	switch m {
	case Composing:
		return StageSend
	case SearchEmpty, SearchWithQuery:
		return StageClear
	default:
		return StagePhoto
	}
}

// Options configures a Machine. Zero values fall back to the defaults.
type Options struct {
	Placeholder       string
	SearchPlaceholder string
	MaxLines          int
}

// Machine owns the composer state. Every mutation goes through Propose or
// one of the explicit operations; none of them fail.
type Machine struct {
	mode Mode
	text string
	opts Options
}

// New returns a machine in the Empty mode.
func New(opts Options) *Machine {
	if opts.Placeholder == "" {
		opts.Placeholder = DefaultPlaceholder
	}
	if opts.SearchPlaceholder == "" {
		opts.SearchPlaceholder = DefaultSearchPlaceholder
	}
	if opts.MaxLines <= 0 {
		opts.MaxLines = DefaultMaxLines
	}
	return &Machine{mode: Empty, opts: opts}
}

// Mode returns the current mode.
func (m *Machine) Mode() Mode { return m.mode }

// Stage returns the action button stage for the current mode.
func (m *Machine) Stage() Stage { return StageFor(m.mode) }

// Searching reports whether the composer is in a search mode.
func (m *Machine) Searching() bool { return m.mode.Searching() }

// Placeholding reports whether the placeholder is showing.
func (m *Machine) Placeholding() bool { return m.mode.Placeholding() }

// Text returns the user's text; empty while a placeholder is shown.
func (m *Machine) Text() string {
	if m.mode.Placeholding() {
		return ""
	}
	return m.text
}

// Placeholder returns the hint for the current mode.
func (m *Machine) Placeholder() string {
	if m.mode.Searching() {
		return m.opts.SearchPlaceholder
	}
	return m.opts.Placeholder
}

// Display returns what the surface shows: the text or the placeholder.
func (m *Machine) Display() string {
	if m.mode.Placeholding() {
		return m.Placeholder()
	}
	return m.text
}

// Query returns the trimmed live query. It reports false outside search mode
// and while the search placeholder is showing.
func (m *Machine) Query() (string, bool) {
	if m.mode != SearchWithQuery {
		return "", false
	}
	return strings.TrimSpace(m.text), true
}

// Submit returns the draft when composing. It never changes the mode; hosts
// call Reset once the entry is stored.
func (m *Machine) Submit() (string, bool) {
	if m.mode != Composing || m.text == "" {
		return "", false
	}
	return m.text, true
}

// SetQuery forces search mode showing q. An empty q lands in SearchEmpty.
// Calling it again with the same query changes nothing visible.
func (m *Machine) SetQuery(q string) []Event {
	var events []Event
	if !m.mode.Searching() {
		events = append(events, Event{Kind: EventSearchBegan})
	}
	if q == "" {
		m.mode, m.text = SearchEmpty, ""
	} else {
		m.mode, m.text = SearchWithQuery, q
	}
	return events
}

// ClearQuery leaves search mode for the empty composer.
func (m *Machine) ClearQuery() []Event {
	if !m.mode.Searching() {
		return nil
	}
	m.mode, m.text = Empty, ""
	return searchEndedEvents()
}

// Reset discards any text and returns to Empty, leaving search mode if
// needed. It never emits a submit.
func (m *Machine) Reset() []Event {
	if m.mode.Searching() {
		return m.ClearQuery()
	}
	m.mode, m.text = Empty, ""
	return nil
}

// Primary performs the action button for the current stage.
func (m *Machine) Primary() []Event {
	switch m.Stage() {
	case StageSend:
		text, ok := m.Submit()
		if !ok {
			return nil
		}
		return []Event{{Kind: EventSubmit, Text: text}}
	case StageClear:
		return m.Reset()
	default:
		return []Event{{Kind: EventPhotoPicker}}
	}
}

func searchEndedEvents() []Event {
	return []Event{
		{Kind: EventQueryChanged},
		{Kind: EventSearchEnded},
	}
}
