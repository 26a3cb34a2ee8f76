package ui

import (
	"dsaview/internal/ai"
	"dsaview/internal/session"
	"dsaview/internal/ui/views"
)

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.inPagerMode {
		return ""
	}
	return m.renderer.Render(m.viewState())
}

// viewState snapshots everything the renderer needs
func (m *Model) viewState() views.ViewState {
	st := m.session.State()
	vs := views.ViewState{
		Width:         m.width,
		Height:        m.height,
		Category:      st.Category,
		Loading:       st.Phase == session.Loading,
		LoadingFile:   st.LoadingFile,
		Spinner:       m.spinner.View(),
		Err:           st.Err,
		Notifications: m.notes.Items(),
	}

	if m.help.ShowAll && m.mode != modeInput && m.mode != modeQuestion {
		vs.Help = m.help.FullHelpView(m.keys.fullHelp())
	} else {
		vs.Help = m.help.ShortHelpView(m.keys.shortHelp(m.mode))
	}

	if st.Phase == session.ViewingFile && st.File != nil {
		vs.Screen = views.ScreenViewer
		vs.FileName = st.File.Name
		vs.FilePath = st.File.Path
		vs.Pane = m.pane
		vs.Body = m.viewport.View()
		vs.QuestionInput = m.question.View()
		vs.QuestionFocus = m.mode == modeQuestion
		vs.AskingFree = m.ai.Loading(ai.Freeform)
		vs.AskingSteps = m.ai.Loading(ai.Structured)
		vs.AIErr = m.ai.Err()
		return vs
	}

	vs.Screen = views.ScreenSearch
	vs.SearchInput = m.input.View()
	vs.Results = st.Results
	vs.HasResults = st.Phase == session.ShowingResults && st.Results != nil
	vs.Cursor = m.cursor
	if m.mode != modeResults && m.mode != modePicker {
		vs.Cursor = -1
	}
	if m.mode == modePicker {
		vs.Picker = m.picker.state(st.Category)
	}
	return vs
}
