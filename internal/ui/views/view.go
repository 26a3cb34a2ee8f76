package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"dsaview/internal/domain"
	"dsaview/internal/notify"
)

// Screen selects the top-level layout
type Screen int

const (
	ScreenSearch Screen = iota
	ScreenViewer
)

// Pane of the viewer screen
type Pane int

const (
	PaneCode Pane = iota
	PaneAnswer
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width  int
	Height int
	Screen Screen

	// search screen
	SearchInput string
	Category    string
	Results     []domain.SearchResultItem
	HasResults  bool // a result set (possibly empty) is being shown
	Cursor      int
	Loading     bool
	LoadingFile bool
	Spinner     string
	Err         string
	Picker      *PickerState

	// viewer screen
	FileName      string
	FilePath      string
	Pane          Pane
	Body          string // rendered code or answer, already sized to the pane
	QuestionInput string
	QuestionFocus bool
	AskingFree    bool
	AskingSteps   bool
	AIErr         string

	Notifications []notify.Notification
	Help          string
}

// Renderer handles all view rendering
type Renderer struct {
	styles      *Styles
	popupRender *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer(dark bool) *Renderer {
	styles := NewStyles(dark)
	return &Renderer{
		styles:      styles,
		popupRender: NewPopupRenderer(styles),
	}
}

// Styles returns the active style set
func (r *Renderer) Styles() *Styles { return r.styles }

// SetDark swaps the palette
func (r *Renderer) SetDark(dark bool) {
	if r.styles.Dark == dark {
		return
	}
	r.styles = NewStyles(dark)
	r.popupRender = NewPopupRenderer(r.styles)
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	content := &strings.Builder{}

	content.WriteString(r.titleLine(state))
	content.WriteString("\n\n")

	switch state.Screen {
	case ScreenViewer:
		content.WriteString(r.renderViewer(state))
	default:
		content.WriteString(r.renderSearch(state))
	}

	if notes := r.renderNotifications(state.Notifications); notes != "" {
		content.WriteString("\n\n")
		content.WriteString(notes)
	}

	main := content.String()
	if state.Help != "" {
		main = r.padToBottom(main, r.styles.Help.Render(state.Help), state.Height)
	}

	if state.Picker != nil {
		return r.styles.Main.Render(r.popupRender.RenderPicker(main, *state.Picker, state.Width, state.Height))
	}
	return r.styles.Main.Render(main)
}

// titleLine renders the logo with right-aligned loading and filter indicators
func (r *Renderer) titleLine(state ViewState) string {
	logo := r.styles.Title.Render("dsaview")

	var right []string
	switch {
	case state.Loading:
		right = append(right, r.styles.StatusLoading.Render(state.Spinner+" Searching"))
	case state.LoadingFile:
		right = append(right, r.styles.StatusLoading.Render(state.Spinner+" Loading file"))
	case state.AskingFree || state.AskingSteps:
		right = append(right, r.styles.StatusLoading.Render(state.Spinner+" Thinking"))
	}
	if state.Category != "" {
		right = append(right, r.styles.Filter.Render(fmt.Sprintf("[Filter: %s]", state.Category)))
	}
	if len(right) == 0 {
		return logo
	}

	rightContent := strings.Join(right, "  ")
	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	padding := termWidth - 4 - lipgloss.Width(logo) - lipgloss.Width(rightContent)
	if padding < 2 {
		padding = 2
	}
	return logo + strings.Repeat(" ", padding) + rightContent
}

func (r *Renderer) padToBottom(content, footer string, height int) string {
	lines := strings.Count(content, "\n") + 1
	available := height - 2
	if available <= 0 {
		available = 22
	}
	if pad := available - lines - 1; pad > 0 {
		content += strings.Repeat("\n", pad)
	} else {
		content += "\n"
	}
	return content + "\n" + footer
}
