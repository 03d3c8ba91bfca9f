package composer

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
)

// Layout describes how much room the composer needs.
type Layout struct {
	// Indent is the columns reserved before the text, for the search icon.
	Indent int
	// Lines is the wrapped line count of the displayed text.
	Lines int
	// Height is the visible line count, capped at the configured maximum.
	Height int
	// Scroll is set once the text outgrows Height.
	Scroll bool
	// Rows holds the wrapped display text, one element per line.
	Rows []string
}

// Layout measures the displayed text for a surface width columns wide.
func (m *Machine) Layout(width int) Layout {
	indent := 0
	if m.mode.Searching() {
		indent = SearchIndent
	}
	avail := width - indent
	if avail < 1 {
		avail = 1
	}
	wrapped := wrap.String(wordwrap.String(m.Display(), avail), avail)
	rows := strings.Split(wrapped, "\n")
	lines := len(rows)
	height := lines
	if height > m.opts.MaxLines {
		height = m.opts.MaxLines
	}
	return Layout{
		Indent: indent,
		Lines:  lines,
		Height: height,
		Scroll: lines > m.opts.MaxLines,
		Rows:   rows,
	}
}
