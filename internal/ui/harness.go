package ui

import (
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type timer struct {
	at  time.Time
	seq int
	fn  func(time.Time) tea.Msg
}

// Harness drives the UI model programmatically for integration tests.
// Delayed messages wait on a manual clock until Advance is called.
type Harness struct {
	model  *Model
	now    time.Time
	timers []timer
	seq    int
	quit   bool
}

// NewHarness builds a model from opts with the harness clock and no
// animation, and sizes it to a 100x40 terminal.
func NewHarness(opts Options) *Harness {
	h := &Harness{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	opts.Tick = h.tick
	opts.Now = h.Now
	opts.Animate = false
	h.model = New(opts)
	h.Send(tea.WindowSizeMsg{Width: 100, Height: 40})
	return h
}

// Now returns the harness clock.
func (h *Harness) Now() time.Time { return h.now }

func (h *Harness) tick(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		h.seq++
		h.timers = append(h.timers, timer{at: h.now.Add(d), seq: h.seq, fn: fn})
		return nil
	}
}

// Send routes a message through the model and executes any returned commands.
func (h *Harness) Send(msg tea.Msg) {
	if h.model == nil || h.quit {
		return
	}
	mdl, cmd := h.model.Update(msg)
	if updated, ok := mdl.(*Model); ok {
		h.model = updated
	}
	h.processCmd(cmd)
}

// Type sends each rune of s as its own key press.
func (h *Harness) Type(s string) {
	for _, r := range s {
		h.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// Key sends a special key.
func (h *Harness) Key(t tea.KeyType) {
	h.Send(tea.KeyMsg{Type: t})
}

// Advance moves the clock forward by d, firing due timers in order.
func (h *Harness) Advance(d time.Duration) {
	target := h.now.Add(d)
	for {
		sort.SliceStable(h.timers, func(i, j int) bool {
			if h.timers[i].at.Equal(h.timers[j].at) {
				return h.timers[i].seq < h.timers[j].seq
			}
			return h.timers[i].at.Before(h.timers[j].at)
		})
		if len(h.timers) == 0 || h.timers[0].at.After(target) {
			break
		}
		next := h.timers[0]
		h.timers = h.timers[1:]
		h.now = next.at
		h.Send(next.fn(next.at))
	}
	h.now = target
}

// Pending returns the number of scheduled timers.
func (h *Harness) Pending() int { return len(h.timers) }

// Quit reports whether the model asked the program to exit.
func (h *Harness) Quit() bool { return h.quit }

func (h *Harness) processCmd(cmd tea.Cmd) {
	if cmd == nil || h.quit {
		return
	}
	msg := cmd()
	switch msg := msg.(type) {
	case nil:
		return
	case tea.BatchMsg:
		for _, c := range msg {
			h.processCmd(c)
		}
		return
	case tea.QuitMsg:
		h.quit = true
		return
	}
	mdl, next := h.model.Update(msg)
	if updated, ok := mdl.(*Model); ok {
		h.model = updated
	}
	h.processCmd(next)
}

// View returns the current view string.
func (h *Harness) View() string {
	if h.model == nil {
		return ""
	}
	return h.model.View()
}

// Model exposes the underlying model.
func (h *Harness) Model() *Model {
	return h.model
}
