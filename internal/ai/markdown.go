package ai

import (
	"fmt"
	"strings"

	"dsaview/internal/domain"
)

// Markdown renders a structured explanation as a markdown document.
func Markdown(e domain.StructuredExplanation) string {
	var b strings.Builder

	b.WriteString("## Summary\n\n")
	b.WriteString(strings.TrimSpace(e.Summary))
	b.WriteString("\n\n")

	if len(e.Steps) > 0 {
		b.WriteString("## Steps\n\n")
		for i, s := range e.Steps {
			n := s.StepNumber
			if n == 0 {
				n = i + 1
			}
			fmt.Fprintf(&b, "%d. %s\n", n, strings.TrimSpace(s.Description))
			if snippet := strings.TrimRight(s.CodeSnippet, "\n"); strings.TrimSpace(snippet) != "" {
				b.WriteString("\n   ```\n")
				for _, line := range strings.Split(snippet, "\n") {
					b.WriteString("   ")
					b.WriteString(line)
					b.WriteString("\n")
				}
				b.WriteString("   ```\n")
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("## Complexity\n\n")
	fmt.Fprintf(&b, "- **Time:** %s\n", orDash(e.TimeComplexity))
	fmt.Fprintf(&b, "- **Space:** %s\n", orDash(e.SpaceComplexity))

	if notes := strings.TrimSpace(e.AdditionalNotes); notes != "" {
		b.WriteString("\n## Notes\n\n")
		b.WriteString(notes)
		b.WriteString("\n")
	}
	return b.String()
}

func orDash(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "-"
	}
	return s
}
