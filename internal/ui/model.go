package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"dsaview/internal/ai"
	"dsaview/internal/debounce"
	"dsaview/internal/notify"
	"dsaview/internal/session"
	"dsaview/internal/theme"
	"dsaview/internal/ui/views"
)

// mode decides which component receives key presses
type mode int

const (
	modeInput    mode = iota // typing in the search box
	modeResults              // navigating the result list
	modePicker               // category picker open
	modeViewer               // reading a file
	modeQuestion             // typing a question about the file
)

func (m mode) String() string {
	switch m {
	case modeInput:
		return "input"
	case modeResults:
		return "results"
	case modePicker:
		return "picker"
	case modeViewer:
		return "viewer"
	case modeQuestion:
		return "question"
	}
	return "unknown"
}

// Options wires the model to its collaborators
type Options struct {
	Context   context.Context
	Backend   Backend
	Explainer ai.Explainer
	Theme     *theme.Store // nil keeps the dark palette
	Logger    *zap.Logger

	Policy          session.Policy
	Debounce        time.Duration
	MinQueryLength  int
	NotificationTTL time.Duration

	// Tick schedules delayed messages; tea.Tick when nil.
	Tick func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd
	// Now is the notification clock; time.Now when nil.
	Now func() time.Time
	// Animate enables the spinner and the blinking cursors.
	Animate bool
	// SystemDark samples the terminal background when focus returns.
	SystemDark func() bool
}

// Model represents the UI state
type Model struct {
	ctx       context.Context
	backend   Backend
	explainer ai.Explainer
	theme     *theme.Store
	logger    *zap.Logger

	session  *session.Machine
	debounce *debounce.Debouncer
	notes    *notify.Queue
	ai       *ai.Orchestrator

	input    textinput.Model
	question textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	help     help.Model
	keys     keyMap

	renderer *views.Renderer
	markdown *Renderer

	width  int
	height int
	mode   mode
	cursor int
	picker picker
	pane   views.Pane
	dark   bool

	animate     bool
	spinning    bool
	systemDark  func() bool
	inPagerMode bool

	// Program reference for terminal management
	program *tea.Program
	pager   *PagerOps
}

// New creates the UI model
func New(opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	tick := opts.Tick
	if tick == nil {
		tick = tea.Tick
	}

	dark := true
	if opts.Theme != nil {
		dark = opts.Theme.Dark()
	}

	notifyOpts := []notify.Option{notify.WithTick(tick), notify.WithDefaultTTL(opts.NotificationTTL)}
	if opts.Now != nil {
		notifyOpts = append(notifyOpts, notify.WithClock(opts.Now))
	}

	m := &Model{
		ctx:        ctx,
		backend:    opts.Backend,
		explainer:  opts.Explainer,
		theme:      opts.Theme,
		logger:     logger,
		session:    session.New(opts.Policy),
		debounce:   debounce.New(opts.Debounce, opts.MinQueryLength, debounce.WithTick(tick)),
		notes:      notify.New(notifyOpts...),
		ai:         ai.NewOrchestrator(),
		help:       help.New(),
		keys:       newKeyMap(),
		renderer:   views.NewRenderer(dark),
		markdown:   NewRenderer(dark),
		mode:       modeInput,
		dark:       dark,
		animate:    opts.Animate,
		systemDark: opts.SystemDark,
	}

	m.input = textinput.New()
	m.input.Prompt = "Search: "
	m.input.Placeholder = "two sum, bfs, reverse list..."
	m.input.CharLimit = 200

	m.question = textarea.New()
	m.question.Placeholder = "Ask about this solution..."
	m.question.ShowLineNumbers = false
	m.question.SetHeight(3)

	if !m.animate {
		m.input.Cursor.SetMode(cursor.CursorStatic)
		m.question.Cursor.SetMode(cursor.CursorStatic)
	}
	m.input.Focus()

	m.spinner = spinner.New(spinner.WithSpinner(spinner.Dot))
	m.viewport = viewport.New(0, 0)

	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager = NewPagerOps(p)
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.SetWindowTitle("dsaview")}
	if m.animate {
		cmds = append(cmds, textinput.Blink)
	}
	return tea.Batch(cmds...)
}

// Close stops the debouncer so no emission fires after teardown.
func (m *Model) Close() {
	m.debounce.Close()
}

// busy reports whether any request is outstanding
func (m *Model) busy() bool {
	st := m.session.State()
	return st.Phase == session.Loading || st.LoadingFile || m.ai.Busy()
}

// startSpinner begins the tick loop unless it is already running
func (m *Model) startSpinner() tea.Cmd {
	if !m.animate || m.spinning {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}

// applyTheme pushes the effective theme into both renderers
func (m *Model) applyTheme(dark bool) {
	if m.dark == dark {
		return
	}
	m.dark = dark
	m.renderer.SetDark(dark)
	m.markdown.SetDark(dark)
	m.refreshViewport()
}

// layout sizes the inputs and the viewer pane to the terminal
func (m *Model) layout() {
	w := m.width - 8
	if w < 20 {
		w = 20
	}
	m.input.Width = w - len(m.input.Prompt)
	m.question.SetWidth(w)
	m.help.Width = m.width

	h := m.height - 16
	if h < 5 {
		h = 5
	}
	m.viewport.Width = w
	m.viewport.Height = h
}

// refreshViewport re-renders the active pane into the viewport
func (m *Model) refreshViewport() {
	st := m.session.State()
	if st.File == nil {
		m.viewport.SetContent("")
		return
	}
	if m.pane == views.PaneAnswer {
		ans, ok := m.ai.Answer()
		if !ok {
			m.viewport.SetContent(m.renderer.Styles().Dim.Render("Ask a question about this solution with a."))
			return
		}
		m.viewport.SetContent(m.markdown.Markdown(ans.Markdown, m.viewport.Width))
		return
	}
	m.viewport.SetContent(m.markdown.Code(st.File.Path, st.File.Content, m.viewport.Width))
}

// clampCursor keeps the result cursor inside the current list
func (m *Model) clampCursor() {
	n := len(m.session.State().Results)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
