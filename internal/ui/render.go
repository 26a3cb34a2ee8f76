package ui

import (
	"path"
	"strings"

	"github.com/charmbracelet/glamour"
)

var fenceLanguages = map[string]string{
	".py":    "python",
	".go":    "go",
	".js":    "javascript",
	".ts":    "typescript",
	".java":  "java",
	".c":     "c",
	".h":     "c",
	".cc":    "cpp",
	".cpp":   "cpp",
	".hpp":   "cpp",
	".cs":    "csharp",
	".rs":    "rust",
	".rb":    "ruby",
	".kt":    "kotlin",
	".swift": "swift",
	".scala": "scala",
	".sh":    "bash",
}

// Language infers a fence language from a file path; empty if unknown.
func Language(p string) string {
	return fenceLanguages[strings.ToLower(path.Ext(p))]
}

// CodeMarkdown wraps source in a fenced block for rendering.
func CodeMarkdown(p, content string) string {
	if strings.EqualFold(path.Ext(p), ".md") {
		return content
	}
	fence := "```"
	for strings.Contains(content, fence) {
		fence += "`"
	}
	return fence + Language(p) + "\n" + strings.TrimRight(content, "\n") + "\n" + fence + "\n"
}

// Renderer turns markdown into styled terminal text. The glamour renderer
// is rebuilt only when the theme or wrap width changes noticeably.
type Renderer struct {
	dark  bool
	width int
	term  *glamour.TermRenderer
}

// NewRenderer creates a renderer for the given theme.
func NewRenderer(dark bool) *Renderer {
	return &Renderer{dark: dark}
}

// SetDark switches the glamour style.
func (r *Renderer) SetDark(dark bool) {
	if r.dark != dark {
		r.dark = dark
		r.term = nil
	}
}

func wrapWidth(width int) int {
	w := (width * 9) / 10
	if w > 120 {
		w = 120
	}
	if w < 40 {
		w = 40
	}
	if width > 0 && width < 50 {
		w = width - 4
		if w < 20 {
			w = 20
		}
	}
	return w
}

func (r *Renderer) get(width int) (*glamour.TermRenderer, error) {
	w := wrapWidth(width)
	if r.term == nil || abs(r.width-w) > 10 {
		style := "light"
		if r.dark {
			style = "dark"
		}
		t, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(w),
		)
		if err != nil {
			return nil, err
		}
		r.term = t
		r.width = w
	}
	return r.term, nil
}

// Markdown renders md for a terminal of the given width. On failure the
// source text is returned unchanged.
func (r *Renderer) Markdown(md string, width int) string {
	t, err := r.get(width)
	if err != nil {
		return md
	}
	out, err := t.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// Code renders a source file with syntax highlighting.
func (r *Renderer) Code(p, content string, width int) string {
	return r.Markdown(CodeMarkdown(p, content), width)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
