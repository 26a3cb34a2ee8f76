package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"dsaview/internal/ai"
	"dsaview/internal/domain"
	"dsaview/internal/session"
)

// Backend is the search and file half of the HTTP adapter.
type Backend interface {
	Search(ctx context.Context, query string) ([]domain.SearchResultItem, error)
	Filter(ctx context.Context, category string) ([]domain.SearchResultItem, error)
	FetchFile(ctx context.Context, item domain.SearchResultItem) (domain.FileContent, error)
}

// resultsCmd runs the search or filter request behind t
func resultsCmd(ctx context.Context, backend Backend, t session.Ticket) tea.Cmd {
	return func() tea.Msg {
		var (
			items []domain.SearchResultItem
			err   error
		)
		if t.Kind == session.KindFilter {
			items, err = backend.Filter(ctx, t.Arg)
		} else {
			items, err = backend.Search(ctx, t.Arg)
		}
		return resultsMsg{ticket: t, items: items, err: err}
	}
}

// fetchFileCmd retrieves the file behind t
func fetchFileCmd(ctx context.Context, backend Backend, t session.Ticket) tea.Cmd {
	return func() tea.Msg {
		file, err := backend.FetchFile(ctx, t.Item)
		return fileMsg{ticket: t, file: file, err: err}
	}
}

// explainCmd asks the explainer the question behind req
func explainCmd(ctx context.Context, explainer ai.Explainer, req ai.Request) tea.Cmd {
	return func() tea.Msg {
		if req.Kind == ai.Structured {
			s, err := explainer.ExplainStructured(ctx, req.Code, req.Question)
			if err != nil {
				return answerMsg{req: req, err: err}
			}
			return answerMsg{req: req, answer: ai.Answer{Markdown: ai.Markdown(s), Structured: &s}}
		}
		md, err := explainer.Explain(ctx, req.Code, req.Question)
		if err != nil {
			return answerMsg{req: req, err: err}
		}
		return answerMsg{req: req, answer: ai.Answer{Markdown: md}}
	}
}

// sampleThemeCmd re-reads the terminal background off the update loop
func sampleThemeCmd(sample func() bool) tea.Cmd {
	return func() tea.Msg {
		return systemThemeMsg{dark: sample()}
	}
}
