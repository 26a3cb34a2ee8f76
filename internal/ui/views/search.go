package views

import (
	"strings"
)

// renderSearch draws the search box, inline error and result list
func (r *Renderer) renderSearch(state ViewState) string {
	var b strings.Builder
	b.WriteString(state.SearchInput)
	b.WriteString("\n")

	if state.Err != "" {
		b.WriteString("\n")
		b.WriteString(r.styles.InlineError.Render(state.Err))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case state.HasResults && len(state.Results) == 0:
		b.WriteString(r.styles.Dim.Render("No solutions found."))
	case len(state.Results) > 0:
		b.WriteString(r.renderResults(state))
	case state.Loading:
		b.WriteString(r.styles.Dim.Render("Searching..."))
	default:
		b.WriteString(r.styles.Dim.Render("Type at least two characters to search, or press f to filter by data structure."))
	}
	return b.String()
}

func (r *Renderer) renderResults(state ViewState) string {
	visible := state.Height - 12
	if visible < 5 {
		visible = 5
	}

	start := 0
	if state.Cursor >= visible {
		start = state.Cursor - visible + 1
	}
	end := start + visible
	if end > len(state.Results) {
		end = len(state.Results)
	}

	lines := make([]string, 0, end-start+2)
	if start > 0 {
		lines = append(lines, r.styles.Dim.Render("↑ (more above)"))
	}
	for i := start; i < end; i++ {
		item := state.Results[i]
		line := item.Name + "  " + r.styles.Path.Render(item.Path)
		if i == state.Cursor {
			marker := "> "
			if state.LoadingFile {
				marker = state.Spinner + " "
			}
			line = r.styles.SelectionBg.Render(r.styles.Highlight.Render(marker+item.Name) + "  " + r.styles.Path.Render(item.Path))
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	if end < len(state.Results) {
		lines = append(lines, r.styles.Dim.Render("↓ (more below)"))
	}
	return strings.Join(lines, "\n")
}
