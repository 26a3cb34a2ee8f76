package ui

import (
	"strings"

	fuzzy "github.com/lithammer/fuzzysearch/fuzzy"

	"dsaview/internal/domain"
	"dsaview/internal/ui/views"
)

// picker narrows the category list as the user types. It holds no
// selection of its own; the active category comes from the session.
type picker struct {
	filter string
	cursor int
}

// pickerOptions is "no filter" followed by the categories in display order.
func pickerOptions() []string {
	return append([]string{""}, domain.Categories...)
}

// FilterCategories returns options whose label fuzzily matches query,
// keeping display order.
func FilterCategories(options []string, query string) []string {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return append([]string(nil), options...)
	}

	labels := make([]string, len(options))
	for i, o := range options {
		labels[i] = o
		if o == "" {
			labels[i] = views.NoFilterLabel
		}
	}

	ranks := fuzzy.RankFindNormalizedFold(trimmed, labels)
	matches := make(map[int]struct{}, len(ranks))
	for _, rank := range ranks {
		matches[rank.OriginalIndex] = struct{}{}
	}
	out := make([]string, 0, len(matches))
	for i, o := range options {
		if _, ok := matches[i]; ok {
			out = append(out, o)
		}
	}
	return out
}

func (p *picker) options() []string {
	return FilterCategories(pickerOptions(), p.filter)
}

// open positions the cursor on the current category.
func (p *picker) open(current string) {
	p.filter = ""
	p.cursor = 0
	for i, o := range p.options() {
		if o == current {
			p.cursor = i
		}
	}
}

func (p *picker) move(delta int) {
	n := len(p.options())
	if n == 0 {
		p.cursor = 0
		return
	}
	p.cursor = (p.cursor + delta + n) % n
}

func (p *picker) typeRunes(rs []rune) {
	p.filter += string(rs)
	p.cursor = 0
}

func (p *picker) backspace() {
	if rs := []rune(p.filter); len(rs) > 0 {
		p.filter = string(rs[:len(rs)-1])
		p.cursor = 0
	}
}

// chosen returns the highlighted option.
func (p *picker) chosen() (string, bool) {
	opts := p.options()
	if p.cursor < 0 || p.cursor >= len(opts) {
		return "", false
	}
	return opts[p.cursor], true
}

func (p *picker) state(current string) *views.PickerState {
	return &views.PickerState{
		Filter:  p.filter,
		Options: p.options(),
		Cursor:  p.cursor,
		Current: current,
	}
}
