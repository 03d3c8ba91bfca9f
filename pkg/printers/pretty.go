package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"tableflip.dev/logger/pkg/entry"
)

type PrettyPrint struct {
	ShowID bool
	// Out defaults to color.Output.
	Out io.Writer
}

var (
	spacing = strings.Repeat(" ", len("000000  "))
)

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)

	if pp.ShowID {
		_, _ = t.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowID {
		_, _ = t.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " entry")
	default:
		_, _ = c.Fprintln(pp.out(), " entries")
	}
}

// Entries prints one line per entry: time, text with hashtags picked out,
// and a marker for photos.
func (pp *PrettyPrint) Entries(entries ...*entry.Entry) {
	w := pp.out()
	if len(entries) == 0 {
		f := color.New(color.Faint, color.Italic)
		if pp.ShowID {
			_, _ = f.Fprint(w, spacing)
		}
		_, _ = f.Fprint(w, " none\n\n")
		return
	}

	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	ts := color.New(color.Faint)

	for _, e := range entries {
		if e == nil {
			continue
		}
		if pp.ShowID {
			id := fmt.Sprintf("%d", e.ID)
			_, _ = y.Fprint(w, id)
			_, _ = y.Fprint(w, strings.Repeat(" ", max(1, len(spacing)-len(id))))
		}
		_, _ = ts.Fprintf(w, "%s ", e.Created.Local().Format("15:04"))
		_, _ = fmt.Fprintln(w, pp.body(e))
	}
	_, _ = fmt.Fprintln(w, "")
}

func (pp *PrettyPrint) body(e *entry.Entry) string {
	tag := color.New(color.FgCyan, color.Bold)
	photo := color.New(color.FgMagenta)

	words := strings.Split(e.Text, " ")
	for i, word := range words {
		if len(word) > 1 && strings.HasPrefix(word, "#") {
			words[i] = tag.Sprint(word)
		}
	}
	text := strings.Join(words, " ")
	if e.HasPhoto() {
		marker := photo.Sprintf("[photo %s]", shortRef(e.Photo))
		if strings.TrimSpace(text) == "" {
			return marker
		}
		text += " " + marker
	}
	return text
}

func shortRef(ref string) string {
	if len(ref) > 12 {
		return ref[:12]
	}
	return ref
}
