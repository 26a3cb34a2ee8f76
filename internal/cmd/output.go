package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"dsaview/internal/domain"
	"dsaview/internal/ui"
)

// isTerminal reports whether w is an interactive terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := int(f.Fd())
	return fd >= 0 && term.IsTerminal(fd)
}

// terminalWidth returns the width of w, or 80 when unknown
func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok && isTerminal(w) {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return 80
}

var (
	nameStyle = lipgloss.NewStyle().Bold(true)
	pathStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
)

// printResults writes a result set as JSON, a styled list or plain
// tab-separated lines
func printResults(w io.Writer, items []domain.SearchResultItem, asJSON bool) error {
	if asJSON {
		return writeJSON(w, items)
	}
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "No solutions found.")
		return err
	}
	styled := isTerminal(w)
	for _, item := range items {
		var err error
		if styled {
			_, err = fmt.Fprintf(w, "%s  %s\n", nameStyle.Render(item.Name), pathStyle.Render(item.Path))
		} else {
			_, err = fmt.Fprintf(w, "%s\t%s\n", item.Name, item.Path)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// printMarkdown renders md with glamour on a terminal and passes it
// through unchanged otherwise
func printMarkdown(w io.Writer, md string, dark func() bool) error {
	if !isTerminal(w) {
		_, err := fmt.Fprintln(w, strings.TrimRight(md, "\n"))
		return err
	}
	r := ui.NewRenderer(dark())
	_, err := fmt.Fprintln(w, r.Markdown(md, terminalWidth(w)))
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
