package theme

import (
	"image/color"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	// Dark reports which palette the theme was built from.
	Dark bool

	Footer   FooterTheme
	List     ListTheme
	Composer ComposerTheme
	Modal    ModalTheme
	Events   EventsTheme
}

// FooterTheme groups styles used by the bottom status line.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
}

// ListTheme styles entry rows.
type ListTheme struct {
	Time     lipgloss.Style
	Text     lipgloss.Style
	Hashtag  lipgloss.Style
	Photo    lipgloss.Style
	Selected lipgloss.Style
	Empty    lipgloss.Style
	Header   lipgloss.Style
}

// ComposerTheme styles the composer line.
type ComposerTheme struct {
	Frame       lipgloss.Style
	Text        lipgloss.Style
	Placeholder lipgloss.Style
	SearchIcon  lipgloss.Style
	Stage       lipgloss.Style
}

// ModalTheme styles centered overlays (action menu, prompts).
type ModalTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Body  lipgloss.Style
}

// EventsTheme styles the debug event pane.
type EventsTheme struct {
	Frame  lipgloss.Style
	Header lipgloss.Style
	Info   lipgloss.Style
	Error  lipgloss.Style
	Time   lipgloss.Style
}

type palette struct {
	fg, bg, accent, muted, tag, warn string
}

var (
	darkPalette  = palette{fg: "#E4E4E4", bg: "#1C1C1C", accent: "#FF87D7", muted: "#808080", tag: "#5FD7FF", warn: "#FF5F5F"}
	lightPalette = palette{fg: "#262626", bg: "#FAFAFA", accent: "#AF005F", muted: "#8A8A8A", tag: "#005FAF", warn: "#D70000"}
)

// Default returns the theme matching the terminal background.
func Default() Theme {
	return ForBackground(termenv.HasDarkBackground())
}

// ForBackground returns the dark or light theme.
func ForBackground(dark bool) Theme {
	p := lightPalette
	if dark {
		p = darkPalette
	}
	fg := lipgloss.Color(p.fg)
	accent := lipgloss.Color(p.accent)
	muted := lipgloss.Color(p.muted)

	return Theme{
		Dark: dark,
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(muted),
			Status: lipgloss.NewStyle().Foreground(muted),
			Error:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.warn)),
		},
		List: ListTheme{
			Time:     lipgloss.NewStyle().Foreground(muted),
			Text:     lipgloss.NewStyle().Foreground(fg),
			Hashtag:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.tag)).Bold(true),
			Photo:    lipgloss.NewStyle().Foreground(accent),
			Selected: lipgloss.NewStyle().Reverse(true),
			Empty:    lipgloss.NewStyle().Foreground(muted).Italic(true),
			Header:   lipgloss.NewStyle().Foreground(accent).Bold(true),
		},
		Composer: ComposerTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder(), true, false, false, false).
				BorderForeground(muted),
			Text:        lipgloss.NewStyle().Foreground(fg),
			Placeholder: lipgloss.NewStyle().Foreground(Blend(p.fg, p.bg, 0.55)),
			SearchIcon:  lipgloss.NewStyle().Foreground(accent),
			Stage:       lipgloss.NewStyle().Foreground(accent).Bold(true),
		},
		Modal: ModalTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(accent).
				Padding(0, 1),
			Title: lipgloss.NewStyle().Bold(true),
			Body:  lipgloss.NewStyle(),
		},
		Events: EventsTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(muted),
			Header: lipgloss.NewStyle().Bold(true).Foreground(muted),
			Info:   lipgloss.NewStyle().Foreground(fg),
			Error:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.warn)),
			Time:   lipgloss.NewStyle().Foreground(Blend(p.muted, p.bg, 0.3)),
		},
	}
}

// Blend mixes two hex colors in Lab space; t=0 is a, t=1 is b.
func Blend(a, b string, t float64) color.Color {
	ca, err := colorful.Hex(a)
	if err != nil {
		return lipgloss.Color(a)
	}
	cb, err := colorful.Hex(b)
	if err != nil {
		return lipgloss.Color(a)
	}
	return lipgloss.Color(ca.BlendLab(cb, t).Clamped().Hex())
}
