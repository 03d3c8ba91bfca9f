// Package help renders the key reference overlay with glamour.
package help

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss/v2"
)

//go:embed help.md
var intro string

// Key documents one binding. Keys sharing a Section render as one table, in
// order of first appearance.
type Key struct {
	Section string
	Keys    string
	Action  string
}

type Options struct {
	// Dark selects glamour's dark style.
	Dark bool
	Keys []Key
}

// Model is a scrollable, framed help page.
type Model struct {
	vp     viewport.Model
	frame  lipgloss.Style
	opts   Options
	source string

	width, height int
	err           error
}

func New(width, height int, opts Options) *Model {
	m := &Model{
		vp:     viewport.New(viewport.WithWidth(1), viewport.WithHeight(1)),
		frame:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()),
		opts:   opts,
		source: Markdown(opts.Keys),
	}
	m.vp.MouseWheelEnabled = true
	m.SetSize(width, height)
	return m
}

// Markdown is the help page source: the intro followed by one key table per
// section.
func Markdown(keys []Key) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(intro))
	b.WriteString("\n")

	var sections []string
	bySection := map[string][]Key{}
	for _, k := range keys {
		if _, ok := bySection[k.Section]; !ok {
			sections = append(sections, k.Section)
		}
		bySection[k.Section] = append(bySection[k.Section], k)
	}
	for _, s := range sections {
		fmt.Fprintf(&b, "\n## %s\n\n| Key | Action |\n| --- | --- |\n", s)
		for _, k := range bySection[s] {
			fmt.Fprintf(&b, "| `%s` | %s |\n", k.Keys, k.Action)
		}
	}
	return b.String()
}

func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m *Model) View() string {
	body := m.vp.View()
	if m.err != nil {
		body = "help unavailable: " + m.err.Error()
	}
	return m.frame.Width(m.width).Height(m.height).Render(body)
}

// Err reports the last render failure.
func (m *Model) Err() error {
	return m.err
}

// SetSize clamps to 32x8 and re-renders when the size changes.
func (m *Model) SetSize(width, height int) {
	width, height = max(width, 32), max(height, 8)
	if m.width == width && m.height == height {
		return
	}
	m.width, m.height = width, height

	inner := max(width-m.frame.GetHorizontalFrameSize(), 1)
	m.vp.SetWidth(inner)
	m.vp.SetHeight(max(height-m.frame.GetVerticalFrameSize(), 1))
	m.render(inner)
}

func (m *Model) render(width int) {
	style := "light"
	if m.opts.Dark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(max(width-2, 10)),
	)
	if err == nil {
		var out string
		if out, err = r.Render(m.source); err == nil {
			m.err = nil
			m.vp.SetContent(out)
			m.vp.SetYOffset(0)
			return
		}
	}
	m.err = err
}
