package ui

import (
	"dsaview/internal/ai"
	"dsaview/internal/domain"
	"dsaview/internal/eventbus"
	"dsaview/internal/session"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// resultsMsg carries a search or filter response
type resultsMsg struct {
	ticket session.Ticket
	items  []domain.SearchResultItem
	err    error
}

// fileMsg carries a file fetch response
type fileMsg struct {
	ticket session.Ticket
	file   domain.FileContent
	err    error
}

// answerMsg carries an explanation response
type answerMsg struct {
	req    ai.Request
	answer ai.Answer
	err    error
}

// systemThemeMsg reports a fresh sample of the terminal background
type systemThemeMsg struct {
	dark bool
}

// pagerMsg contains the result of a pager command
type pagerMsg struct {
	err error
}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}
