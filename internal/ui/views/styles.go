package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Dark          bool
	Title         lipgloss.Style
	Dim           lipgloss.Style
	Filter        lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	Path          lipgloss.Style
	Highlight     lipgloss.Style
	SelectionBg   lipgloss.Style
	InlineError   lipgloss.Style
	StatusLoading lipgloss.Style
	NoticeInfo    lipgloss.Style
	NoticeSuccess lipgloss.Style
	NoticeError   lipgloss.Style
	Popup         lipgloss.Style
	PopupTitle    lipgloss.Style
	Pane          lipgloss.Style
	PaneActive    lipgloss.Style
	Question      lipgloss.Style
}

type palette struct {
	accent, dim, filter, highlight, selection, err, success, info, border, text string
}

var (
	darkPalette = palette{
		accent: "99", dim: "241", filter: "214", highlight: "226", selection: "238",
		err: "203", success: "78", info: "39", border: "241", text: "252",
	}
	lightPalette = palette{
		accent: "57", dim: "245", filter: "130", highlight: "25", selection: "254",
		err: "160", success: "28", info: "26", border: "250", text: "235",
	}
)

// NewStyles creates the style set for the light or dark theme
func NewStyles(dark bool) *Styles {
	p := lightPalette
	if dark {
		p = darkPalette
	}
	return &Styles{
		Dark: dark,
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.accent)),
		Dim:         lipgloss.NewStyle().Foreground(lipgloss.Color(p.dim)),
		Filter:      lipgloss.NewStyle().Foreground(lipgloss.Color(p.filter)),
		Help:        lipgloss.NewStyle().Faint(true),
		Main:        lipgloss.NewStyle().Padding(1, 2),
		Path:        lipgloss.NewStyle().Foreground(lipgloss.Color(p.dim)).Italic(true),
		Highlight:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.highlight)).Bold(true),
		SelectionBg: lipgloss.NewStyle().Background(lipgloss.Color(p.selection)),
		InlineError: lipgloss.NewStyle().Foreground(lipgloss.Color(p.err)).Bold(true),
		StatusLoading: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.dim)),
		NoticeInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color(p.info)),
		NoticeSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color(p.success)),
		NoticeError:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.err)),
		Popup: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.accent)).
			Padding(0, 1),
		PopupTitle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.accent)).MarginBottom(1),
		Pane: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(p.border)),
		PaneActive: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(p.accent)),
		Question: lipgloss.NewStyle().Foreground(lipgloss.Color(p.text)),
	}
}
