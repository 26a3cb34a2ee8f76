package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// keyMap holds every binding; which ones are live depends on the mode.
type keyMap struct {
	Quit        key.Binding
	ForceQuit   key.Binding
	FocusSearch key.Binding
	Filter      key.Binding
	Up          key.Binding
	Down        key.Binding
	Select      key.Binding
	Back        key.Binding
	SwitchFocus key.Binding
	Ask         key.Binding
	SendFree    key.Binding
	SendSteps   key.Binding
	SwitchPane  key.Binding
	Pager       key.Binding
	Theme       key.Binding
	Dismiss     key.Binding
	Help        key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit:        key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		FocusSearch: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Filter:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		Up:          key.NewBinding(key.WithKeys("up", "k", "ctrl+p"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j", "ctrl+n"), key.WithHelp("↓/j", "down")),
		Select:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Back:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		SwitchFocus: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "results")),
		Ask:         key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "ask")),
		SendFree:    key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "explain")),
		SendSteps:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "step by step")),
		SwitchPane:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "code/answer")),
		Pager:       key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "pager")),
		Theme:       key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Dismiss:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		PageUp:      key.NewBinding(key.WithKeys("pgup", "b"), key.WithHelp("pgup", "page up")),
		PageDown:    key.NewBinding(key.WithKeys("pgdown", " "), key.WithHelp("pgdn", "page down")),
	}
}

// shortHelp returns the footer bindings for a mode.
func (k keyMap) shortHelp(m mode) []key.Binding {
	switch m {
	case modeInput:
		return []key.Binding{k.Select, k.SwitchFocus, k.Back, k.ForceQuit}
	case modeResults:
		return []key.Binding{k.Up, k.Down, k.Select, k.FocusSearch, k.Filter, k.Back, k.Help}
	case modePicker:
		return []key.Binding{k.Up, k.Down, k.Select, k.Back}
	case modeViewer:
		return []key.Binding{k.Ask, k.SwitchPane, k.Pager, k.Back, k.Help}
	case modeQuestion:
		return []key.Binding{k.SendFree, k.SendSteps, k.Back}
	}
	return nil
}

// fullHelp groups every binding usable outside text entry.
func (k keyMap) fullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.FocusSearch, k.Filter, k.Select, k.Back},
		{k.Ask, k.SendFree, k.SendSteps, k.SwitchPane, k.Pager},
		{k.Theme, k.Dismiss, k.Help, k.Quit},
	}
}
