package composer

import (
	"strings"
	"unicode/utf8"
)

// Range addresses a span of the host buffer in runes.
type Range struct {
	Location int
	Length   int
}

// Edit is a change the host is about to commit: replace Range with
// Replacement. While a placeholder is showing, the buffer is empty.
type Edit struct {
	Range       Range
	Replacement string
}

// Insert builds an edit inserting text at the rune offset at.
func Insert(at int, text string) Edit {
	return Edit{Range: Range{Location: at}, Replacement: text}
}

// Delete builds an edit removing n runes starting at at.
func Delete(at, n int) Edit {
	return Edit{Range: Range{Location: at, Length: n}}
}

// Apply commits the edit to s the way a host buffer would.
func (e Edit) Apply(s string) string {
	return splice(s, e.Range, e.Replacement)
}

// Decision is the verdict on a proposed edit.
//
// When Replace is false and Accept is true the host commits the edit itself.
// When Replace is true the host loads Text into its buffer instead, and shows
// the placeholder when Placeholder is set.
type Decision struct {
	Accept      bool
	Replace     bool
	Placeholder bool
	Text        string
	Events      []Event
}

// Propose decides a keystroke-level edit before the host commits it.
func (m *Machine) Propose(edit Edit) Decision {
	// A leading space on an empty composer opens search.
	if m.mode.Placeholding() && edit.Replacement == " " && edit.Range == (Range{}) {
		var events []Event
		if m.mode == Empty {
			events = append(events, Event{Kind: EventSearchBegan})
		}
		m.mode, m.text = SearchEmpty, ""
		return Decision{Replace: true, Placeholder: true, Events: events}
	}

	// Deleting before the first character closes search.
	if m.mode.Searching() && edit.Replacement == "" && edit.Range == (Range{}) {
		m.mode, m.text = Empty, ""
		return Decision{Replace: true, Placeholder: true, Events: searchEndedEvents()}
	}

	current := m.Text()
	next := splice(current, edit.Range, edit.Replacement)

	if next == "" {
		var events []Event
		switch m.mode {
		case Composing:
			m.mode = Empty
		case SearchWithQuery:
			m.mode = SearchEmpty
			events = append(events, Event{Kind: EventQueryChanged})
		}
		m.text = ""
		return Decision{Replace: true, Placeholder: true, Events: events}
	}

	if m.mode.Placeholding() {
		// The placeholder is cleared and the edit lands on an empty buffer.
		if m.mode == SearchEmpty {
			m.mode = SearchWithQuery
		} else {
			m.mode = Composing
		}
		m.text = next
		return Decision{Accept: true, Replace: true, Text: next, Events: m.queryEvents()}
	}

	m.text = next
	return Decision{Accept: true, Text: next, Events: m.queryEvents()}
}

func (m *Machine) queryEvents() []Event {
	if !m.mode.Searching() {
		return nil
	}
	return []Event{{Kind: EventQueryChanged, Query: strings.TrimSpace(m.text)}}
}

// splice replaces r in s with repl, clamping r to the bounds of s.
func splice(s string, r Range, repl string) string {
	runes := []rune(s)
	n := len(runes)
	start := clamp(r.Location, 0, n)
	end := clamp(start+r.Length, start, n)
	if start == 0 && end == n {
		return repl
	}
	var b strings.Builder
	b.Grow(len(s) + len(repl))
	b.WriteString(string(runes[:start]))
	b.WriteString(repl)
	b.WriteString(string(runes[end:]))
	return b.String()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RuneLen is the length of s in the units Range uses.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}
