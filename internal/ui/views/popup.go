package views

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PickerState is the category picker as shown; Current is the active
// category the picker reflects, never its own copy.
type PickerState struct {
	Filter  string
	Options []string
	Cursor  int
	Current string
}

// NoFilterLabel is shown for the empty category
const NoFilterLabel = "No filter"

// PopupRenderer handles popup/modal rendering
type PopupRenderer struct {
	styles *Styles
}

// NewPopupRenderer creates a new popup renderer
func NewPopupRenderer(styles *Styles) *PopupRenderer {
	return &PopupRenderer{
		styles: styles,
	}
}

// RenderPicker places the category picker over a dimmed copy of the main content
func (pr *PopupRenderer) RenderPicker(mainContent string, p PickerState, width, height int) string {
	var b strings.Builder
	b.WriteString(pr.styles.PopupTitle.Render("Filter by data structure"))
	b.WriteString("\n")
	b.WriteString(pr.styles.Dim.Render(fmt.Sprintf("Type to narrow: %s", p.Filter)))
	b.WriteString("\n\n")

	if len(p.Options) == 0 {
		b.WriteString(pr.styles.Dim.Render("No matching category"))
	}
	for i, opt := range p.Options {
		label := opt
		if label == "" {
			label = NoFilterLabel
		}
		mark := "  "
		if opt == p.Current {
			mark = "✓ "
		}
		line := mark + label
		if i == p.Cursor {
			line = pr.styles.Highlight.Render("> " + label)
			if opt == p.Current {
				line = pr.styles.Highlight.Render("✓ " + label)
			}
		}
		b.WriteString(line)
		if i < len(p.Options)-1 {
			b.WriteString("\n")
		}
	}

	popup := pr.styles.Popup.Render(b.String())
	if width <= 0 || height <= 0 {
		return desaturateANSI(mainContent) + "\n\n" + popup
	}
	return lipgloss.Place(width-4, height-2, lipgloss.Center, lipgloss.Center, popup,
		lipgloss.WithWhitespaceChars(" "))
}

// ANSI escape sequence regex to strip styles/colors
var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// desaturateANSI strips ANSI color/style codes and recolors text dim gray
func desaturateANSI(s string) string {
	plain := ansiRE.ReplaceAllString(s, "")
	return lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render(plain)
}

// StripANSI removes color and style sequences
func StripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}
