package teaui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/logger/pkg/composer"
	"tableflip.dev/logger/pkg/entry"
)

type entryCreatedMsg struct {
	entry *entry.Entry
	// submitted marks entries created from the composer draft.
	submitted bool
}

type createFailedMsg struct{ err error }

func (m createFailedMsg) Describe() string { return m.err.Error() }

// searchDoneMsg reports that the service took a query. At most one search
// runs at a time so the service sees queries in the order they were typed.
type searchDoneMsg struct {
	query string
	err   error
}

func (m searchDoneMsg) Describe() string { return fmt.Sprintf("searched:%q", m.query) }

func (m entryCreatedMsg) Describe() string {
	return fmt.Sprintf("created:%d", m.entry.ID)
}

// handleComposerKey turns a key into a proposed edit against the composer
// line. Cursor movement goes straight to the text input.
func (m *Model) handleComposerKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) {
	value := m.input.Value()
	pos := m.input.Position()
	n := composer.RuneLen(value)

	switch msg.String() {
	case "backspace":
		if pos == 0 {
			m.propose(composer.Edit{}, cmds)
			return
		}
		m.propose(composer.Delete(pos-1, 1), cmds)
		return
	case "delete":
		if pos < n {
			m.propose(composer.Delete(pos, 1), cmds)
		}
		return
	case "ctrl+u":
		m.propose(composer.Delete(0, n), cmds)
		return
	case "left", "right", "home", "end", "ctrl+a", "ctrl+e":
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		*cmds = append(*cmds, cmd)
		return
	}

	text := printable(msg)
	if text == "" {
		return
	}
	m.propose(composer.Insert(pos, text), cmds)
}

// printable returns the text a key would type, or "" for control keys.
func printable(msg tea.KeyPressMsg) string {
	if msg.Mod&(tea.ModCtrl|tea.ModAlt) != 0 {
		return ""
	}
	if msg.Text != "" {
		return msg.Text
	}
	if msg.String() == "space" {
		return " "
	}
	return ""
}

// propose asks the composer about edit and honors the verdict on the input.
func (m *Model) propose(edit composer.Edit, cmds *[]tea.Cmd) {
	before := m.input.Value()
	d := m.composer.Propose(edit)
	m.events.Record("composer", edit)

	switch {
	case d.Replace && d.Placeholder:
		m.syncInput()
	case d.Replace:
		m.input.SetValue(d.Text)
		m.input.SetCursor(edit.Range.Location + composer.RuneLen(edit.Replacement))
	case d.Accept:
		m.input.SetValue(edit.Apply(before))
		m.input.SetCursor(edit.Range.Location + composer.RuneLen(edit.Replacement))
	}
	m.input.Placeholder = m.composer.Placeholder()
	m.handleEvents(d.Events, cmds)
	m.applySizes()
}

// syncInput copies the composer's text and placeholder into the input.
func (m *Model) syncInput() {
	m.input.Placeholder = m.composer.Placeholder()
	m.input.SetValue(m.composer.Text())
	m.input.CursorEnd()
	m.applySizes()
}

// handleEvents forwards composer notifications to the service.
func (m *Model) handleEvents(events []composer.Event, cmds *[]tea.Cmd) {
	for _, ev := range events {
		m.events.Record("composer", ev)
		switch ev.Kind {
		case composer.EventSearchBegan:
			m.selectedID = 0
			m.setStatus("Searching")
		case composer.EventSearchEnded:
			m.setStatus("")
		case composer.EventQueryChanged:
			m.requestSearch(ev.Query, cmds)
		case composer.EventSubmit:
			if m.submitting {
				continue
			}
			m.submitting = true
			*cmds = append(*cmds, m.createCmd(ev.Text))
		case composer.EventPhotoPicker:
			m.openPhotoPrompt()
		}
	}
}

func (m *Model) createCmd(text string) tea.Cmd {
	svc := m.svc
	ctx := m.ctx
	return func() tea.Msg {
		if svc == nil {
			return createFailedMsg{errServiceUnavailable}
		}
		e, err := svc.Create(ctx, text)
		if err != nil {
			return createFailedMsg{err}
		}
		return entryCreatedMsg{entry: e, submitted: true}
	}
}

// requestSearch sends query to the service, or parks it as the next query
// when a search is already running. Only the newest parked query is kept.
func (m *Model) requestSearch(query string, cmds *[]tea.Cmd) {
	if m.searching {
		m.nextQuery = query
		m.queryParked = true
		return
	}
	m.searching = true
	*cmds = append(*cmds, m.searchCmd(query))
}

// handleSearchDone releases the search slot and sends any parked query.
func (m *Model) handleSearchDone(msg searchDoneMsg, cmds *[]tea.Cmd) {
	m.searching = false
	if msg.err != nil {
		m.setError(msg.err)
	}
	if m.queryParked {
		query := m.nextQuery
		m.nextQuery, m.queryParked = "", false
		m.requestSearch(query, cmds)
	}
}

func (m *Model) searchCmd(query string) tea.Cmd {
	svc := m.svc
	ctx := m.ctx
	return func() tea.Msg {
		if svc == nil {
			return searchDoneMsg{query: query, err: errServiceUnavailable}
		}
		_, err := svc.Search(ctx, query)
		return searchDoneMsg{query: query, err: err}
	}
}

// handleCreated clears the draft once its entry is stored. A draft edited
// while the store was busy is kept.
func (m *Model) handleCreated(msg entryCreatedMsg) {
	if msg.submitted {
		m.submitting = false
	}
	if msg.entry == nil {
		return
	}
	if text, ok := m.composer.Submit(); ok && strings.TrimSpace(text) == msg.entry.Text {
		m.composer.Reset()
		m.syncInput()
	}
	if msg.entry.HasPhoto() {
		m.setStatus(fmt.Sprintf("Saved photo %d", msg.entry.ID))
		return
	}
	m.setStatus(fmt.Sprintf("Saved entry %d", msg.entry.ID))
}

func (m *Model) renderComposer() string {
	th := m.theme.Composer
	layout := m.composer.Layout(m.composerWidth())

	icon := ""
	if layout.Indent > 0 {
		icon = th.SearchIcon.Render(searchIcon) + strings.Repeat(" ", layout.Indent-1)
	}

	var body string
	if layout.Height <= 1 || m.composer.Placeholding() {
		body = icon + m.input.View()
	} else {
		rows := layout.Rows
		if layout.Scroll {
			rows = rows[len(rows)-layout.Height:]
		}
		lines := make([]string, len(rows))
		pad := strings.Repeat(" ", layout.Indent)
		for i, row := range rows {
			prefix := pad
			if i == 0 {
				prefix = icon
			}
			lines[i] = prefix + th.Text.Render(row)
		}
		body = strings.Join(lines, "\n")
	}

	label := th.Stage.Render(stageLabel(m.composer.Stage()))
	gap := m.termWidth - lipgloss.Width(body) - lipgloss.Width(label)
	if gap < 1 {
		gap = 1
	}
	line := body + strings.Repeat(" ", gap) + label
	if m.termWidth > 0 {
		return th.Frame.Width(m.termWidth).Render(line)
	}
	return th.Frame.Render(line)
}
