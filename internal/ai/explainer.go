// Package ai asks an explanation backend about the file being viewed and
// tracks the outstanding questions for the UI.
package ai

import (
	"context"

	"dsaview/internal/api"
	"dsaview/internal/domain"
)

// Explainer answers questions about a piece of code.
type Explainer interface {
	Explain(ctx context.Context, code, question string) (string, error)
	ExplainStructured(ctx context.Context, code, question string) (domain.StructuredExplanation, error)
}

// The explanation service driver is the API client itself.
var _ Explainer = (*api.Client)(nil)
