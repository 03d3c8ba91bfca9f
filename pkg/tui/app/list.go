package teaui

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/logger/pkg/entry"
)

const timeColumn = 12

// renderList redraws every visible entry into the viewport. Day headers split
// the list whenever the calendar date changes.
func (m *Model) renderList() {
	th := m.theme.List
	width := m.list.Width()
	if width <= 0 {
		width = 40
	}
	textWidth := width - timeColumn
	if textWidth < 10 {
		textWidth = 10
	}

	view := m.entries.View()
	m.rowStart = make([]int, len(view.Visible))
	if m.noMatches() {
		m.rowStart = nil
		m.list.SetContent(th.Empty.Render(fmt.Sprintf("No matches for %q.", m.search.Query)))
		return
	}
	if len(view.Visible) == 0 {
		empty := "No entries yet. Start typing below."
		if m.composer.Searching() {
			empty = "No matches."
		}
		m.list.SetContent(th.Empty.Render(empty))
		return
	}

	var lines []string
	var prev entry.Entry
	for i, e := range view.Visible {
		if i == 0 || !e.Created.SameDay(prev.Created.Time) {
			if i > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, th.Header.Render(e.Created.Local().Format("Mon Jan 2, 2006")))
		}
		prev = e
		m.rowStart[i] = len(lines)

		body := m.renderBody(e, textWidth)
		rows := strings.Split(body, "\n")
		stamp := fmt.Sprintf("%-*s", timeColumn, e.Created.Local().Format("15:04"))
		rows[0] = th.Time.Render(stamp) + rows[0]
		for j := 1; j < len(rows); j++ {
			rows[j] = indent.String(rows[j], uint(timeColumn))
		}
		if e.ID == m.selectedID {
			for j := range rows {
				rows[j] = th.Selected.Render(rows[j])
			}
		}
		lines = append(lines, rows...)
	}
	m.list.SetContent(strings.Join(lines, "\n"))
}

// renderBody wraps the entry text and highlights hashtags.
func (m *Model) renderBody(e entry.Entry, width int) string {
	th := m.theme.List
	if e.HasPhoto() && strings.TrimSpace(e.Text) == "" {
		return th.Photo.Render("▣ photo " + shortRef(e.Photo))
	}
	wrapped := wordwrap.String(e.Text, width)
	words := strings.Split(wrapped, "\n")
	for i, line := range words {
		words[i] = highlightTags(line, th.Hashtag.Render, th.Text.Render)
	}
	out := strings.Join(words, "\n")
	if e.HasPhoto() {
		out += "\n" + th.Photo.Render("▣ photo "+shortRef(e.Photo))
	}
	return out
}

// highlightTags styles #tags with tag and everything else with text.
func highlightTags(line string, tag, text func(...string) string) string {
	fields := strings.SplitAfter(line, " ")
	var b strings.Builder
	for _, f := range fields {
		word := strings.TrimRight(f, " ")
		space := f[len(word):]
		if len(word) > 1 && strings.HasPrefix(word, "#") {
			b.WriteString(tag(word))
		} else {
			b.WriteString(text(word))
		}
		b.WriteString(space)
	}
	return b.String()
}

func shortRef(ref string) string {
	if len(ref) > 12 {
		return ref[:12]
	}
	return ref
}

// noMatches reports a live search that ranked nothing. The view model
// falls back to every entry when its filter is empty, so the list hides them.
func (m *Model) noMatches() bool {
	return m.search.Active && m.search.Query != "" && !m.entries.Filtering()
}

// indexOf returns the visible position of the entry with id.
func (m *Model) indexOf(id int64) (int, bool) {
	if id == 0 || m.noMatches() {
		return 0, false
	}
	for i, e := range m.entries.View().Visible {
		if e.ID == id {
			return i, true
		}
	}
	return 0, false
}

// moveSelection steps the selection by delta, starting from the newest entry.
func (m *Model) moveSelection(delta int) {
	n := m.entries.Len()
	if n == 0 || m.noMatches() {
		return
	}
	idx, ok := m.indexOf(m.selectedID)
	switch {
	case !ok && delta < 0:
		idx = n - 1
	case !ok:
		return
	default:
		idx += delta
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		m.selectedID = 0
		m.renderList()
		m.list.GotoBottom()
		return
	}
	e, _ := m.entries.At(idx)
	m.selectedID = e.ID
	m.renderList()
	m.scrollToSelection(idx)
}

func (m *Model) scrollToSelection(idx int) {
	if idx < 0 || idx >= len(m.rowStart) {
		return
	}
	// SetYOffset clamps to the content.
	m.list.SetYOffset(m.rowStart[idx] - m.list.Height()/2)
}

// selected returns the selected entry.
func (m *Model) selected() (entry.Entry, bool) {
	idx, ok := m.indexOf(m.selectedID)
	if !ok {
		return entry.Entry{}, false
	}
	return m.entries.At(idx)
}
