package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"dsaview/internal/ai"
	"dsaview/internal/debounce"
	"dsaview/internal/eventbus"
	"dsaview/internal/notify"
	"dsaview/internal/session"
	"dsaview/internal/ui/views"
)

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.FocusMsg:
		if m.systemDark == nil || m.theme == nil {
			return m, nil
		}
		return m, sampleThemeCmd(m.systemDark)

	case systemThemeMsg:
		if m.theme != nil {
			m.theme.SystemChanged(msg.dark)
			m.applyTheme(m.theme.Dark())
		}
		return m, nil

	case debounce.SettledMsg:
		return m, m.handleSettled(msg)

	case resultsMsg:
		return m, m.handleResults(msg)

	case fileMsg:
		return m, m.handleFile(msg)

	case answerMsg:
		return m, m.handleAnswer(msg)

	case notify.ExpiredMsg:
		m.notes.Expire(msg)
		return m, nil

	case EventMsg:
		return m, m.handleEvent(msg.Event)

	case spinner.TickMsg:
		if !m.busy() || m.inPagerMode {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case pagerMsg:
		if msg.err != nil {
			m.logger.Warn("pager failed", zap.Error(msg.err))
			return m, m.notes.Error("Failed to open pager.")
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, m.startSpinnerIfBusy()
	}

	// cursor blink and other component messages
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	if m.mode == modeQuestion {
		m.question, cmd = m.question.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) startSpinnerIfBusy() tea.Cmd {
	if !m.busy() {
		return nil
	}
	m.spinning = false
	return m.startSpinner()
}

// handleKey routes a key press to the handler for the current mode
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.ForceQuit) {
		m.Close()
		return tea.Quit
	}

	switch m.mode {
	case modePicker:
		return m.handlePickerKey(msg)
	case modeInput:
		return m.handleInputKey(msg)
	case modeQuestion:
		return m.handleQuestionKey(msg)
	}

	// shared by the results and viewer modes
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Close()
		return tea.Quit
	case key.Matches(msg, m.keys.Theme):
		return m.toggleTheme()
	case key.Matches(msg, m.keys.Dismiss):
		m.notes.DismissNewest()
		return nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	}

	if m.mode == modeViewer {
		return m.handleViewerKey(msg)
	}
	return m.handleResultsKey(msg)
}

func (m *Model) handleInputKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back):
		if !m.session.DismissResults() {
			m.focusResults()
		}
		return nil
	case key.Matches(msg, m.keys.SwitchFocus), key.Matches(msg, m.keys.Select), msg.Type == tea.KeyDown:
		m.focusResults()
		return nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		return tea.Batch(cmd, m.debounce.Input(after))
	}
	return cmd
}

func (m *Model) handleResultsKey(msg tea.KeyMsg) tea.Cmd {
	st := m.session.State()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(st.Results)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Select):
		return m.selectCurrent()
	case key.Matches(msg, m.keys.FocusSearch), key.Matches(msg, m.keys.SwitchFocus):
		return m.focusInput()
	case key.Matches(msg, m.keys.Filter):
		m.picker.open(st.Category)
		m.mode = modePicker
	case key.Matches(msg, m.keys.Back):
		m.session.DismissResults()
		m.cursor = 0
	}
	return nil
}

func (m *Model) handlePickerKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.mode = modeResults
	case msg.Type == tea.KeyUp, msg.Type == tea.KeyCtrlP:
		m.picker.move(-1)
	case msg.Type == tea.KeyDown, msg.Type == tea.KeyCtrlN:
		m.picker.move(1)
	case key.Matches(msg, m.keys.Select):
		category, ok := m.picker.chosen()
		if !ok {
			return nil
		}
		m.mode = modeResults
		return m.applyFilter(category)
	case msg.Type == tea.KeyBackspace:
		m.picker.backspace()
	case msg.Type == tea.KeyRunes, msg.Type == tea.KeySpace:
		m.picker.typeRunes(msg.Runes)
	}
	return nil
}

func (m *Model) handleViewerKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.closeViewer()
		return m.focusInput()
	case key.Matches(msg, m.keys.Ask):
		m.mode = modeQuestion
		return m.question.Focus()
	case key.Matches(msg, m.keys.SwitchPane):
		if m.pane == views.PaneCode {
			m.pane = views.PaneAnswer
		} else {
			m.pane = views.PaneCode
		}
		m.refreshViewport()
		m.viewport.GotoTop()
		return nil
	case key.Matches(msg, m.keys.Pager):
		return m.openPager(m.pagerContent())
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return cmd
}

func (m *Model) handleQuestionKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.question.Blur()
		m.mode = modeViewer
		return nil
	case key.Matches(msg, m.keys.SendFree):
		return m.ask(ai.Freeform)
	case key.Matches(msg, m.keys.SendSteps):
		return m.ask(ai.Structured)
	}

	var cmd tea.Cmd
	m.question, cmd = m.question.Update(msg)
	return cmd
}

func (m *Model) focusResults() {
	m.input.Blur()
	m.mode = modeResults
	m.clampCursor()
}

func (m *Model) focusInput() tea.Cmd {
	m.mode = modeInput
	return m.input.Focus()
}

// handleSettled turns a quiet search box into a search, a clear or nothing
func (m *Model) handleSettled(msg debounce.SettledMsg) tea.Cmd {
	em, ok := m.debounce.Settle(msg)
	if !ok {
		return nil
	}
	switch em.Kind {
	case debounce.EmitClear:
		if m.session.ClearQuery() {
			m.cursor = 0
		}
	case debounce.EmitSearch:
		t, ok := m.session.BeginSearch(em.Query)
		if !ok {
			return nil
		}
		m.logger.Debug("search issued", zap.String("query", em.Query), zap.Uint64("seq", t.Seq))
		return tea.Batch(resultsCmd(m.ctx, m.backend, t), m.startSpinner())
	}
	return nil
}

// applyFilter installs category as the controlled filter value
func (m *Model) applyFilter(category string) tea.Cmd {
	t, ok := m.session.BeginFilter(category)
	m.cursor = 0
	if !ok {
		return nil
	}
	m.logger.Debug("filter issued", zap.String("category", category), zap.Uint64("seq", t.Seq))
	return tea.Batch(resultsCmd(m.ctx, m.backend, t), m.startSpinner())
}

func (m *Model) handleResults(msg resultsMsg) tea.Cmd {
	if msg.err != nil {
		if m.session.FailResults(msg.ticket, msg.err) == session.Discarded {
			return nil
		}
		m.logger.Warn("results request failed",
			zap.Stringer("kind", msg.ticket.Kind),
			zap.String("arg", msg.ticket.Arg),
			zap.Error(msg.err))
		return m.notes.Error(m.session.State().Err)
	}

	if m.session.CompleteResults(msg.ticket, msg.items) == session.Discarded {
		m.logger.Debug("stale results discarded", zap.Uint64("seq", msg.ticket.Seq))
		return nil
	}
	m.cursor = 0
	if n := len(msg.items); n > 0 {
		return m.notes.Success(fmt.Sprintf("Found %d solutions.", n))
	}
	return m.notes.Info("No solutions found.")
}

// selectCurrent fetches the highlighted result
func (m *Model) selectCurrent() tea.Cmd {
	st := m.session.State()
	if m.cursor < 0 || m.cursor >= len(st.Results) {
		return nil
	}
	t, ok := m.session.BeginSelect(st.Results[m.cursor])
	if !ok {
		return nil
	}
	return tea.Batch(fetchFileCmd(m.ctx, m.backend, t), m.startSpinner())
}

func (m *Model) handleFile(msg fileMsg) tea.Cmd {
	if msg.err != nil {
		if m.session.FailFile(msg.ticket, msg.err) == session.Discarded {
			return nil
		}
		m.logger.Warn("file request failed", zap.String("path", msg.ticket.Arg), zap.Error(msg.err))
		return m.notes.Error(session.MsgFileFailed)
	}

	if m.session.CompleteFile(msg.ticket, msg.file) == session.Discarded {
		return nil
	}
	m.ai.Reset()
	m.input.Blur()
	m.question.Reset()
	m.mode = modeViewer
	m.pane = views.PaneCode
	m.cursor = 0
	m.refreshViewport()
	m.viewport.GotoTop()
	return m.notes.Success(fmt.Sprintf("Loaded %s.", msg.file.Name))
}

// closeViewer returns to the search screen and forgets the answer
func (m *Model) closeViewer() {
	if m.session.DismissToSearch() {
		m.ai.Reset()
		m.question.Reset()
		m.question.Blur()
		m.pane = views.PaneCode
		m.refreshViewport()
	}
}

// ask sends the question box to the explainer
func (m *Model) ask(kind ai.Kind) tea.Cmd {
	st := m.session.State()
	if st.File == nil || m.explainer == nil {
		return nil
	}
	req, ok := m.ai.Begin(kind, st.File.Content, m.question.Value())
	if !ok {
		return nil
	}
	m.logger.Debug("question issued", zap.Stringer("kind", kind), zap.String("path", st.File.Path))
	return tea.Batch(explainCmd(m.ctx, m.explainer, req), m.startSpinner())
}

func (m *Model) handleAnswer(msg answerMsg) tea.Cmd {
	if msg.err != nil {
		if !m.ai.Fail(msg.req, msg.err) {
			return nil
		}
		m.logger.Warn("explanation failed", zap.Stringer("kind", msg.req.Kind), zap.Error(msg.err))
		return m.notes.Error(ai.MsgExplainFailed)
	}
	if !m.ai.Complete(msg.req, msg.answer) {
		return nil
	}
	m.pane = views.PaneAnswer
	m.refreshViewport()
	m.viewport.GotoTop()
	return m.notes.Success("Explanation ready.")
}

func (m *Model) toggleTheme() tea.Cmd {
	if m.theme == nil {
		return nil
	}
	dark, err := m.theme.Toggle()
	if err != nil {
		m.logger.Warn("failed to save theme preference", zap.Error(err))
		return m.notes.Error("Failed to save theme preference.")
	}
	m.applyTheme(dark)
	return nil
}

// handleEvent applies domain events forwarded from the bus
func (m *Model) handleEvent(e eventbus.DomainEvent) tea.Cmd {
	switch e := e.(type) {
	case eventbus.ThemeChangedEvent:
		m.applyTheme(e.Dark)
	case eventbus.PreferenceSavedEvent:
		m.logger.Debug("preference saved", zap.String("path", e.Path))
	case eventbus.ErrorEvent:
		m.logger.Warn("background error", zap.String("message", e.Message), zap.Error(e.Err))
		return m.notes.Error(e.Message)
	}
	return nil
}

// pagerContent is the raw text of the active pane
func (m *Model) pagerContent() string {
	st := m.session.State()
	if m.pane == views.PaneAnswer {
		if ans, ok := m.ai.Answer(); ok {
			return ans.Markdown
		}
	}
	if st.File == nil {
		return ""
	}
	return st.File.Content
}
