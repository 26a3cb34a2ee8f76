package views

import (
	"strings"
)

// renderViewer draws the file header, the active pane and the question box
func (r *Renderer) renderViewer(state ViewState) string {
	var b strings.Builder

	b.WriteString(r.styles.Highlight.Render(state.FileName))
	b.WriteString("  ")
	b.WriteString(r.styles.Path.Render(state.FilePath))
	b.WriteString("\n")

	codeTab, answerTab := "[code]", " answer "
	if state.Pane == PaneAnswer {
		codeTab, answerTab = " code ", "[answer]"
	}
	b.WriteString(r.styles.Dim.Render(codeTab + " " + answerTab))
	b.WriteString("\n")

	pane := r.styles.Pane
	if !state.QuestionFocus {
		pane = r.styles.PaneActive
	}
	b.WriteString(pane.Render(state.Body))
	b.WriteString("\n")

	if state.AIErr != "" {
		b.WriteString(r.styles.InlineError.Render(state.AIErr))
		b.WriteString("\n")
	}

	var asking []string
	if state.AskingFree {
		asking = append(asking, "explanation")
	}
	if state.AskingSteps {
		asking = append(asking, "step-by-step")
	}
	if len(asking) > 0 {
		b.WriteString(r.styles.StatusLoading.Render(state.Spinner + " Waiting for " + strings.Join(asking, " and ")))
		b.WriteString("\n")
	}

	b.WriteString(r.styles.Question.Render(state.QuestionInput))
	return b.String()
}
