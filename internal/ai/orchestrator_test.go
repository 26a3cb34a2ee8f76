package ai

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dsaview/internal/domain"
)

func TestBeginRejectsEmptyInput(t *testing.T) {
	o := NewOrchestrator()

	_, ok := o.Begin(Freeform, "code", "   ")
	assert.False(t, ok)
	_, ok = o.Begin(Structured, "", "why")
	assert.False(t, ok)
	assert.False(t, o.Busy())
}

func TestBothKindsOutstanding(t *testing.T) {
	o := NewOrchestrator()

	free, ok := o.Begin(Freeform, "code", " why? ")
	require.True(t, ok)
	assert.Equal(t, "why?", free.Question)
	steps, ok := o.Begin(Structured, "code", "how?")
	require.True(t, ok)

	assert.True(t, o.Loading(Freeform))
	assert.True(t, o.Loading(Structured))

	assert.True(t, o.Complete(steps, Answer{Markdown: "steps"}))
	assert.False(t, o.Loading(Structured))
	assert.True(t, o.Loading(Freeform))

	assert.True(t, o.Complete(free, Answer{Markdown: "free"}))
	ans, ok := o.Answer()
	require.True(t, ok)
	assert.Equal(t, "free", ans.Markdown, "last completion wins")
	assert.Equal(t, Freeform, ans.Kind)
	assert.False(t, o.Busy())
}

func TestFailSetsMessage(t *testing.T) {
	o := NewOrchestrator()
	req, _ := o.Begin(Freeform, "code", "q")

	assert.True(t, o.Fail(req, errors.New("boom")))
	assert.Equal(t, MsgExplainFailed, o.Err())
	assert.False(t, o.Loading(Freeform))

	// a new question clears the error
	o.Begin(Freeform, "code", "q2")
	assert.Empty(t, o.Err())
}

func TestResetDiscardsOldFileAnswers(t *testing.T) {
	o := NewOrchestrator()
	req, _ := o.Begin(Structured, "old code", "q")
	o.Reset()

	assert.False(t, o.Loading(Structured))
	assert.False(t, o.Complete(req, Answer{Markdown: "stale"}))
	assert.False(t, o.Fail(req, errors.New("late")))
	_, ok := o.Answer()
	assert.False(t, ok)
	assert.Empty(t, o.Err())
}

func TestMarkdown(t *testing.T) {
	md := Markdown(domain.StructuredExplanation{
		Summary: "Uses a hash map.",
		Steps: []domain.ExplanationStep{
			{StepNumber: 1, Description: "Create the map.", CodeSnippet: "seen = {}"},
			{Description: "Scan the array."},
		},
		TimeComplexity:  "O(n)",
		SpaceComplexity: "O(n)",
		AdditionalNotes: "Sorting gives O(1) space.",
	})

	assert.Contains(t, md, "## Summary\n\nUses a hash map.")
	assert.Contains(t, md, "1. Create the map.\n\n   ```\n   seen = {}\n   ```\n")
	assert.Contains(t, md, "2. Scan the array.\n")
	assert.Contains(t, md, "- **Time:** O(n)")
	assert.Contains(t, md, "## Notes\n\nSorting gives O(1) space.")
}

func TestMarkdownOmitsEmptySections(t *testing.T) {
	md := Markdown(domain.StructuredExplanation{Summary: "s"})
	assert.NotContains(t, md, "## Steps")
	assert.NotContains(t, md, "## Notes")
	assert.Contains(t, md, "- **Space:** -")
}
