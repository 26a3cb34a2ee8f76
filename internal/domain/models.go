package domain

import "strings"

// SearchResultItem identifies a candidate solution file returned by the backend.
// Path is the unique key within a result set.
type SearchResultItem struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// FileContent is the realized source text of a selected item
type FileContent struct {
	Name    string
	Path    string
	Content string
}

// ExplanationStep is one ordered step of a structured explanation
type ExplanationStep struct {
	StepNumber  int    `json:"step_number"`
	Description string `json:"description"`
	CodeSnippet string `json:"code_snippet,omitempty"`
}

// StructuredExplanation is an AI answer decomposed into summary, steps and complexity fields
type StructuredExplanation struct {
	Summary         string            `json:"summary"`
	Steps           []ExplanationStep `json:"steps"`
	TimeComplexity  string            `json:"time_complexity"`
	SpaceComplexity string            `json:"space_complexity"`
	AdditionalNotes string            `json:"additional_notes,omitempty"`
}

// Categories is the fixed data-structure enumeration accepted by the filter endpoint,
// in display order. The empty string means "no filter".
var Categories = []string{
	"Arrays",
	"Graphs",
	"LinkedLists",
	"DynamicProgramming",
	"Backtracking",
	"Heaps",
	"Trees",
	"Binary Search",
}

// IsCategory reports whether name is one of the enumerated categories
func IsCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}

// NormalizeCategory maps loosely typed input ("binary-search", "linked lists")
// onto the canonical category name. Empty input stays empty.
func NormalizeCategory(input string) (string, bool) {
	key := categoryKey(input)
	if key == "" {
		return "", true
	}
	for _, c := range Categories {
		if categoryKey(c) == key {
			return c, true
		}
	}
	return "", false
}

func categoryKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r == ' ' || r == '-' || r == '_' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
