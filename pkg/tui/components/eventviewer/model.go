// Package eventviewer is a debug pane listing the messages the UI handled,
// newest first. Identical consecutive events collapse into one line.
package eventviewer

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"
)

// Event is one recorded message.
type Event struct {
	At     time.Time
	Source string
	Kind   string
	Detail string
	Err    bool
	// Repeat counts identical events folded into this one.
	Repeat int
}

func (e Event) same(o Event) bool {
	return e.Source == o.Source && e.Kind == o.Kind && e.Detail == o.Detail && e.Err == o.Err
}

// Styles controls the pane's presentation.
type Styles struct {
	Frame  lipgloss.Style
	Header lipgloss.Style
	Info   lipgloss.Style
	Error  lipgloss.Style
	Time   lipgloss.Style
}

// Describer is implemented by messages that summarize themselves.
type Describer interface {
	Describe() string
}

// Model renders the event log.
type Model struct {
	vp     viewport.Model
	events []Event // newest first
	limit  int
	follow bool

	width, height int
	styles        Styles
}

// New returns a pane keeping at most limit events.
func New(limit int, styles Styles) *Model {
	if limit <= 0 {
		limit = 200
	}
	m := &Model{
		vp:     viewport.New(viewport.WithWidth(1), viewport.WithHeight(1)),
		limit:  limit,
		follow: true,
		styles: styles,
	}
	m.refresh()
	return m
}

// Update scrolls the pane. Scrolling away from the top stops it following
// new events.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	m.follow = m.vp.AtTop()
	return m, cmd
}

// Record logs msg under source.
func (m *Model) Record(source string, msg any) {
	e := Event{At: time.Now(), Source: source, Kind: fmt.Sprintf("%T", msg)}
	switch v := msg.(type) {
	case error:
		e.Err = true
		e.Detail = v.Error()
	case Describer:
		e.Detail = v.Describe()
	}
	m.add(e)
}

func (m *Model) add(e Event) {
	if e.Source == "" {
		e.Source = "tea"
	}
	if len(m.events) > 0 && m.events[0].same(e) {
		m.events[0].Repeat++
		m.events[0].At = e.At
	} else {
		m.events = append([]Event{e}, m.events...)
		if len(m.events) > m.limit {
			m.events = m.events[:m.limit]
		}
	}
	m.refresh()
	if m.follow {
		m.vp.SetYOffset(0)
	}
}

// Events returns the log, newest first.
func (m *Model) Events() []Event {
	return m.events
}

func (m *Model) Clear() {
	m.events = nil
	m.refresh()
}

// SetSize sizes the pane including its border and header.
func (m *Model) SetSize(width, height int) {
	width = max(width, 4)
	height = max(height, 3)
	if m.width == width && m.height == height {
		return
	}
	m.width, m.height = width, height
	m.vp.SetWidth(max(1, width-2))
	m.vp.SetHeight(max(1, height-3))
	m.refresh()
}

func (m *Model) View() string {
	if m.width == 0 {
		return ""
	}
	header := m.styles.Header.Render(fmt.Sprintf("Events (%d)", len(m.events)))
	return m.styles.Frame.Width(m.width).Height(m.height).Render(header + "\n" + m.vp.View())
}

func (m *Model) refresh() {
	if len(m.events) == 0 {
		m.vp.SetContent(m.styles.Time.Render("No events yet"))
		return
	}
	lines := make([]string, len(m.events))
	for i, e := range m.events {
		lines[i] = m.line(e)
	}
	m.vp.SetContent(strings.Join(lines, "\n"))
}

func (m *Model) line(e Event) string {
	text := e.Source + " " + e.Kind
	if e.Detail != "" {
		text += ": " + e.Detail
	}
	if e.Repeat > 0 {
		text += fmt.Sprintf(" ×%d", e.Repeat+1)
	}
	style := m.styles.Info
	if e.Err {
		style = m.styles.Error
	}
	line := m.styles.Time.Render(e.At.Format("15:04:05.000")) + " " + style.Render(text)
	if w := m.vp.Width(); w > 1 {
		line = truncate.StringWithTail(line, uint(w), "…")
	}
	return line
}
