package ui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dsaview/internal/api"
	"dsaview/internal/domain"
	"dsaview/internal/notify"
	"dsaview/internal/session"
	"dsaview/internal/theme"
	"dsaview/internal/ui/views"
)

type fakeBackend struct {
	searches []string
	filters  []string
	fetches  []string
	results  map[string][]domain.SearchResultItem
	files    map[string]string
	err      error
}

func (f *fakeBackend) Search(_ context.Context, q string) ([]domain.SearchResultItem, error) {
	f.searches = append(f.searches, q)
	if f.err != nil {
		return nil, f.err
	}
	return f.results[q], nil
}

func (f *fakeBackend) Filter(_ context.Context, c string) ([]domain.SearchResultItem, error) {
	f.filters = append(f.filters, c)
	if f.err != nil {
		return nil, f.err
	}
	return f.results["filter:"+c], nil
}

func (f *fakeBackend) FetchFile(_ context.Context, item domain.SearchResultItem) (domain.FileContent, error) {
	f.fetches = append(f.fetches, item.Path)
	if f.err != nil {
		return domain.FileContent{}, f.err
	}
	return domain.FileContent{Name: item.Name, Path: item.Path, Content: f.files[item.Path]}, nil
}

type fakeExplainer struct {
	questions []string
	err       error
}

func (f *fakeExplainer) Explain(_ context.Context, _, q string) (string, error) {
	f.questions = append(f.questions, "free:"+q)
	if f.err != nil {
		return "", f.err
	}
	return "A hash map keeps complements.", nil
}

func (f *fakeExplainer) ExplainStructured(_ context.Context, _, q string) (domain.StructuredExplanation, error) {
	f.questions = append(f.questions, "steps:"+q)
	if f.err != nil {
		return domain.StructuredExplanation{}, f.err
	}
	return domain.StructuredExplanation{
		Summary:         "Single pass with a map",
		Steps:           []domain.ExplanationStep{{StepNumber: 1, Description: "Scan the array"}},
		TimeComplexity:  "O(n)",
		SpaceComplexity: "O(n)",
	}, nil
}

var twoSum = domain.SearchResultItem{Name: "Two Sum", Path: "/Arrays/two_sum.py"}

func newFixture() *fakeBackend {
	return &fakeBackend{
		results: map[string][]domain.SearchResultItem{
			"two": {twoSum},
			"sum": {twoSum, {Name: "Three Sum", Path: "/Arrays/three_sum.py"}},
		},
		files: map[string]string{
			twoSum.Path: "def two_sum(nums, target):\n    seen = {}\n",
		},
	}
}

func messages(q *notify.Queue) []string {
	var out []string
	for _, n := range q.Items() {
		out = append(out, n.Message)
	}
	return out
}

func search(h *Harness, q string) {
	h.Type(q)
	h.Advance(500 * time.Millisecond)
}

func TestSearchSelectAndView(t *testing.T) {
	backend := newFixture()
	h := NewHarness(Options{Backend: backend})

	search(h, "two")
	require.Equal(t, []string{"two"}, backend.searches)

	m := h.Model()
	st := m.session.State()
	assert.Equal(t, session.ShowingResults, st.Phase)
	assert.Equal(t, []domain.SearchResultItem{twoSum}, st.Results)
	assert.Equal(t, []string{"Found 1 solutions."}, messages(m.notes))
	assert.Contains(t, views.StripANSI(h.View()), "/Arrays/two_sum.py")

	h.Key(tea.KeyTab)
	h.Key(tea.KeyEnter)
	require.Equal(t, []string{twoSum.Path}, backend.fetches)

	st = m.session.State()
	assert.Equal(t, session.ViewingFile, st.Phase)
	assert.Empty(t, st.Results)
	require.NotNil(t, st.File)
	assert.Equal(t, twoSum.Path, st.File.Path)
	assert.Equal(t, modeViewer, m.mode)
	assert.Contains(t, messages(m.notes), "Loaded Two Sum.")

	view := views.StripANSI(h.View())
	assert.Contains(t, view, "Two Sum")
	assert.Contains(t, view, "two_sum")
}

func TestDebounceCoalescesTyping(t *testing.T) {
	backend := newFixture()
	h := NewHarness(Options{Backend: backend})

	h.Type("su")
	h.Advance(200 * time.Millisecond)
	h.Type("m")
	h.Advance(200 * time.Millisecond)
	assert.Empty(t, backend.searches, "still inside the window")

	h.Advance(300 * time.Millisecond)
	assert.Equal(t, []string{"sum"}, backend.searches)
	assert.Len(t, h.Model().session.State().Results, 2)
}

func TestShortQueryIssuesNothing(t *testing.T) {
	backend := newFixture()
	h := NewHarness(Options{Backend: backend})

	search(h, " a ")
	assert.Empty(t, backend.searches)
	assert.Equal(t, session.Idle, h.Model().session.State().Phase)
}

func TestClearingInputClearsResults(t *testing.T) {
	backend := newFixture()
	h := NewHarness(Options{Backend: backend})

	search(h, "two")
	require.True(t, h.Model().session.State().HasResults())

	for range "two" {
		h.Key(tea.KeyBackspace)
	}
	h.Advance(500 * time.Millisecond)

	st := h.Model().session.State()
	assert.Equal(t, session.Idle, st.Phase)
	assert.Nil(t, st.Results)
	assert.Equal(t, []string{"two"}, backend.searches)
}

func TestEmptyFilterIsInformational(t *testing.T) {
	backend := newFixture()
	h := NewHarness(Options{Backend: backend})

	h.Key(tea.KeyTab)
	h.Type("f")
	require.Equal(t, modePicker, h.Model().mode)
	assert.Contains(t, views.StripANSI(h.View()), "Filter by data structure")

	h.Type("graph")
	h.Key(tea.KeyEnter)

	m := h.Model()
	st := m.session.State()
	assert.Equal(t, []string{"Graphs"}, backend.filters)
	assert.Equal(t, "Graphs", st.Category)
	assert.Equal(t, session.ShowingResults, st.Phase)
	assert.Empty(t, st.Results)
	assert.Empty(t, st.Err)

	items := m.notes.Items()
	require.Len(t, items, 1)
	assert.Equal(t, notify.Info, items[0].Severity)
	assert.Equal(t, "No solutions found.", items[0].Message)

	view := views.StripANSI(h.View())
	assert.Contains(t, view, "[Filter: Graphs]")
	assert.Contains(t, view, "No solutions found.")
}

func TestNoFilterClearsWithoutRequest(t *testing.T) {
	backend := newFixture()
	backend.results["filter:Arrays"] = []domain.SearchResultItem{twoSum}
	h := NewHarness(Options{Backend: backend})

	h.Key(tea.KeyTab)
	h.Type("f")
	h.Type("arr")
	h.Key(tea.KeyEnter)
	require.Len(t, h.Model().session.State().Results, 1)

	h.Type("f")
	h.Key(tea.KeyEnter) // cursor starts on the active category
	h.Type("f")
	h.Key(tea.KeyUp)
	h.Key(tea.KeyEnter)

	st := h.Model().session.State()
	assert.Equal(t, []string{"Arrays", "Arrays"}, backend.filters)
	assert.Equal(t, "", st.Category)
	assert.Nil(t, st.Results)
	assert.Equal(t, session.Idle, st.Phase)
}

func TestSearchFailureKeepsResults(t *testing.T) {
	backend := newFixture()
	h := NewHarness(Options{Backend: backend})

	search(h, "sum")
	require.Len(t, h.Model().session.State().Results, 2)

	backend.err = &api.RequestFailedError{Endpoint: api.EndpointSearch, Status: 500}
	search(h, "s")

	m := h.Model()
	st := m.session.State()
	assert.Equal(t, []string{"sum", "sums"}, backend.searches)
	assert.Len(t, st.Results, 2)
	assert.Equal(t, session.ShowingResults, st.Phase)
	assert.Equal(t, session.MsgSearchFailed, st.Err)

	items := m.notes.Items()
	require.Len(t, items, 2)
	assert.Equal(t, notify.Error, items[1].Severity)
	assert.Equal(t, session.MsgSearchFailed, items[1].Message)
	assert.Contains(t, views.StripANSI(h.View()), session.MsgSearchFailed)
}

func TestFileFailureStaysOnResults(t *testing.T) {
	backend := newFixture()
	h := NewHarness(Options{Backend: backend})

	search(h, "two")
	backend.err = errors.New("boom")
	h.Key(tea.KeyTab)
	h.Key(tea.KeyEnter)

	m := h.Model()
	st := m.session.State()
	assert.Equal(t, session.ShowingResults, st.Phase)
	assert.False(t, st.LoadingFile)
	assert.Equal(t, session.MsgFileFailed, st.Err)
	assert.Len(t, st.Results, 1)
	assert.Contains(t, messages(m.notes), session.MsgFileFailed)
}

func TestNotificationsExpireAndDismiss(t *testing.T) {
	backend := newFixture()
	h := NewHarness(Options{Backend: backend, NotificationTTL: time.Second})

	search(h, "two")
	require.Equal(t, 1, h.Model().notes.Len())

	h.Advance(999 * time.Millisecond)
	assert.Equal(t, 1, h.Model().notes.Len())
	h.Advance(time.Millisecond)
	assert.Equal(t, 0, h.Model().notes.Len())

	search(h, "sum")
	require.Equal(t, 1, h.Model().notes.Len())
	h.Key(tea.KeyTab)
	h.Type("x")
	assert.Equal(t, 0, h.Model().notes.Len())

	// the expiry for a dismissed notification is a no-op
	h.Advance(time.Second)
	assert.Equal(t, 0, h.Model().notes.Len())
}

func openFile(t *testing.T, h *Harness) {
	t.Helper()
	search(h, "two")
	h.Key(tea.KeyTab)
	h.Key(tea.KeyEnter)
	require.Equal(t, modeViewer, h.Model().mode)
}

func TestAskStructuredQuestion(t *testing.T) {
	explainer := &fakeExplainer{}
	h := NewHarness(Options{Backend: newFixture(), Explainer: explainer})
	openFile(t, h)

	h.Type("a")
	require.Equal(t, modeQuestion, h.Model().mode)
	h.Type("why a map?")
	h.Key(tea.KeyCtrlS)

	m := h.Model()
	assert.Equal(t, []string{"steps:why a map?"}, explainer.questions)
	ans, ok := m.ai.Answer()
	require.True(t, ok)
	require.NotNil(t, ans.Structured)
	assert.Contains(t, ans.Markdown, "## Summary")
	assert.Equal(t, views.PaneAnswer, m.pane)
	assert.Contains(t, messages(m.notes), "Explanation ready.")
	assert.Contains(t, views.StripANSI(h.View()), "Single pass with a map")
}

func TestBlankQuestionIsIgnored(t *testing.T) {
	explainer := &fakeExplainer{}
	h := NewHarness(Options{Backend: newFixture(), Explainer: explainer})
	openFile(t, h)

	h.Type("a")
	h.Type("   ")
	h.Key(tea.KeyCtrlE)
	assert.Empty(t, explainer.questions)
	assert.False(t, h.Model().ai.Busy())
}

func TestExplainFailureShowsError(t *testing.T) {
	explainer := &fakeExplainer{err: errors.New("offline")}
	h := NewHarness(Options{Backend: newFixture(), Explainer: explainer})
	openFile(t, h)

	h.Type("a")
	h.Type("why?")
	h.Key(tea.KeyCtrlE)

	m := h.Model()
	assert.Equal(t, []string{"free:why?"}, explainer.questions)
	assert.Equal(t, "An error occurred while fetching the explanation.", m.ai.Err())
	assert.False(t, m.ai.Busy())
	assert.Contains(t, messages(m.notes), "An error occurred while fetching the explanation.")
}

func TestDismissViewerForgetsAnswer(t *testing.T) {
	explainer := &fakeExplainer{}
	h := NewHarness(Options{Backend: newFixture(), Explainer: explainer})
	openFile(t, h)

	h.Type("a")
	h.Type("why?")
	h.Key(tea.KeyCtrlE)
	h.Key(tea.KeyEsc) // leave the question box
	h.Key(tea.KeyEsc) // leave the viewer

	m := h.Model()
	assert.Equal(t, modeInput, m.mode)
	assert.Equal(t, session.Idle, m.session.State().Phase)
	assert.Nil(t, m.session.State().File)
	_, ok := m.ai.Answer()
	assert.False(t, ok)
	assert.Equal(t, views.PaneCode, m.pane)
}

func TestThemeToggleIsStored(t *testing.T) {
	fs := afero.NewMemMapFs()
	store, err := theme.NewStore(theme.Options{Fs: fs, Path: "/cfg/preferences.toml", SystemDark: true})
	require.NoError(t, err)

	h := NewHarness(Options{Backend: newFixture(), Theme: store})
	require.True(t, h.Model().dark)

	h.Key(tea.KeyTab)
	h.Type("t")

	assert.False(t, store.Dark())
	assert.False(t, h.Model().dark)
	assert.False(t, h.Model().renderer.Styles().Dark)

	data, err := afero.ReadFile(fs, "/cfg/preferences.toml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "dark_mode = false")
}

func TestSystemThemeFollowedWithoutExplicitChoice(t *testing.T) {
	store, err := theme.NewStore(theme.Options{Fs: afero.NewMemMapFs(), Path: "/p.toml", SystemDark: true})
	require.NoError(t, err)

	h := NewHarness(Options{Backend: newFixture(), Theme: store, SystemDark: func() bool { return false }})
	h.Send(tea.FocusMsg{})

	assert.False(t, store.Dark())
	assert.False(t, h.Model().dark)
}

func TestQuitFromResults(t *testing.T) {
	h := NewHarness(Options{Backend: newFixture()})
	h.Type("q")
	assert.False(t, h.Quit(), "q is text while typing")
	assert.Equal(t, "q", h.Model().input.Value())

	h.Key(tea.KeyTab)
	h.Type("q")
	assert.True(t, h.Quit())
}
