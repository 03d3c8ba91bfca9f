package teaui

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/mitchellh/go-homedir"

	"tableflip.dev/logger/pkg/entry"
)

type actionKind int

const (
	actionDelete actionKind = iota
	actionCopy
	actionWebSearch
	actionHashtag
	actionLink
	actionPhotoInfo
)

type action struct {
	kind  actionKind
	label string
	tag   string
	url   string
}

type entryDeletedMsg struct{ id int64 }

func (m entryDeletedMsg) Describe() string { return fmt.Sprintf("deleted:%d", m.id) }

// copyToClipboard is swapped out in tests.
var copyToClipboard = clipboard.WriteAll

// actionsFor lists what can be done with e.
func actionsFor(e entry.Entry) []action {
	actions := []action{{kind: actionDelete, label: "Delete"}}
	if strings.TrimSpace(e.Text) != "" {
		actions = append(actions,
			action{kind: actionCopy, label: "Copy text"},
			action{kind: actionWebSearch, label: "Copy web search link"},
		)
	}
	for _, link := range e.Links() {
		actions = append(actions, action{kind: actionLink, label: "Copy link " + link, url: link})
	}
	for _, tag := range e.Hashtags() {
		actions = append(actions, action{kind: actionHashtag, label: "Search #" + tag, tag: tag})
	}
	if e.HasPhoto() {
		actions = append(actions, action{kind: actionPhotoInfo, label: "Photo details"})
	}
	return actions
}

func (m *Model) openActions() {
	if m.noMatches() {
		m.setStatus("Nothing to act on")
		return
	}
	e, ok := m.selected()
	if !ok {
		if e, ok = m.entries.Last(); !ok {
			m.setStatus("Nothing to act on")
			return
		}
		m.selectedID = e.ID
		m.renderList()
	}
	m.actions = actionsFor(e)
	m.actionIndex = 0
	m.setMode(modeActions)
}

func (m *Model) handleActionKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "tab":
		m.setMode(modeNormal)
	case "up", "k":
		if m.actionIndex > 0 {
			m.actionIndex--
		} else {
			m.actionIndex = len(m.actions) - 1
		}
	case "down", "j":
		if m.actionIndex < len(m.actions)-1 {
			m.actionIndex++
		} else {
			m.actionIndex = 0
		}
	case "enter":
		if m.actionIndex < 0 || m.actionIndex >= len(m.actions) {
			m.setMode(modeNormal)
			return
		}
		m.runAction(m.actions[m.actionIndex], cmds)
	}
}

func (m *Model) runAction(a action, cmds *[]tea.Cmd) {
	e, ok := m.selected()
	if !ok {
		m.setMode(modeNormal)
		return
	}
	switch a.kind {
	case actionDelete:
		m.confirmID = e.ID
		m.setMode(modeConfirm)
		return
	case actionCopy:
		*cmds = append(*cmds, copyCmd(e.Text, "Copied entry text"))
	case actionWebSearch:
		*cmds = append(*cmds, copyCmd(e.WebSearchURL(), "Copied "+e.WebSearchURL()))
	case actionHashtag:
		query := "#" + a.tag
		m.handleEvents(m.composer.SetQuery(query), cmds)
		m.syncInput()
		m.requestSearch(query, cmds)
	case actionLink:
		*cmds = append(*cmds, copyCmd(a.url, "Copied "+a.url))
	case actionPhotoInfo:
		*cmds = append(*cmds, m.photoInfoCmd(e.Photo))
	}
	m.setMode(modeNormal)
}

func copyCmd(text, status string) tea.Cmd {
	return func() tea.Msg {
		if err := copyToClipboard(text); err != nil {
			return errMsg{fmt.Errorf("clipboard: %w", err)}
		}
		return statusMsg{text: status}
	}
}

func (m *Model) photoInfoCmd(ref string) tea.Cmd {
	svc := m.svc
	ctx := m.ctx
	return func() tea.Msg {
		if svc == nil {
			return errMsg{errServiceUnavailable}
		}
		data, err := svc.Photo(ctx, ref)
		if err != nil {
			return errMsg{err}
		}
		return statusMsg{text: fmt.Sprintf("photo %s · %s · %s", shortRef(ref), http.DetectContentType(data), humanSize(len(data)))}
	}
}

func humanSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func (m *Model) handleConfirmKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		*cmds = append(*cmds, m.deleteCmd(m.confirmID))
		m.confirmID = 0
		m.setMode(modeNormal)
	case "n", "N", "esc", "q":
		m.confirmID = 0
		m.setMode(modeNormal)
	}
}

func (m *Model) deleteCmd(id int64) tea.Cmd {
	svc := m.svc
	ctx := m.ctx
	return func() tea.Msg {
		if svc == nil {
			return errMsg{errServiceUnavailable}
		}
		if err := svc.Delete(ctx, id); err != nil {
			return errMsg{err}
		}
		return entryDeletedMsg{id: id}
	}
}

func (m *Model) openPhotoPrompt() {
	m.prompt.SetValue("")
	m.prompt.Focus()
	m.setMode(modePhoto)
}

func (m *Model) handlePhotoKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.setMode(modeNormal)
	case "enter":
		path := strings.TrimSpace(m.prompt.Value())
		m.setMode(modeNormal)
		if path == "" {
			return
		}
		*cmds = append(*cmds, m.createPhotoCmd(path))
	default:
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		*cmds = append(*cmds, cmd)
	}
}

func (m *Model) createPhotoCmd(path string) tea.Cmd {
	svc := m.svc
	ctx := m.ctx
	return func() tea.Msg {
		if svc == nil {
			return errMsg{errServiceUnavailable}
		}
		expanded, err := homedir.Expand(path)
		if err != nil {
			return errMsg{err}
		}
		e, err := svc.CreatePhoto(ctx, expanded)
		if err != nil {
			return errMsg{err}
		}
		return entryCreatedMsg{entry: e}
	}
}

func (m *Model) renderActions() string {
	th := m.theme.Modal
	e, _ := m.selected()
	title := th.Title.Render(fmt.Sprintf("Entry %d · %s", e.ID, e.Created.Short()))
	lines := []string{title, ""}
	for i, a := range m.actions {
		prefix := "  "
		if i == m.actionIndex {
			prefix = "→ "
		}
		lines = append(lines, th.Body.Render(prefix+a.label))
	}
	return th.Frame.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderConfirm() string {
	th := m.theme.Modal
	var e entry.Entry
	if idx, ok := m.indexOf(m.confirmID); ok {
		e, _ = m.entries.At(idx)
	}
	preview := e.Text
	if preview == "" && e.HasPhoto() {
		preview = "photo " + shortRef(e.Photo)
	}
	body := fmt.Sprintf("Delete entry %d?\n%s\n\n(y/n)", m.confirmID, preview)
	return th.Frame.Render(th.Body.Render(body))
}

func (m *Model) renderPhotoPrompt() string {
	th := m.theme.Modal
	return th.Frame.Render(th.Title.Render("Attach photo") + "\n\n" + m.prompt.View())
}
