package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dsaview/internal/domain"
)

func TestFilterCategories(t *testing.T) {
	all := pickerOptions()
	require.Len(t, all, len(domain.Categories)+1)
	assert.Equal(t, "", all[0])

	assert.Equal(t, all, FilterCategories(all, "  "))
	assert.Equal(t, []string{"Binary Search"}, FilterCategories(all, "binary"))
	assert.Equal(t, []string{"Graphs"}, FilterCategories(all, "GRAPH"))
	assert.Contains(t, FilterCategories(all, "no filt"), "")
	assert.Empty(t, FilterCategories(all, "zzz"))
}

func TestPickerCursor(t *testing.T) {
	var p picker
	p.open("Heaps")
	chosen, ok := p.chosen()
	require.True(t, ok)
	assert.Equal(t, "Heaps", chosen)

	p.move(-1)
	chosen, _ = p.chosen()
	assert.Equal(t, "Backtracking", chosen)

	p.open("")
	p.move(-1)
	chosen, _ = p.chosen()
	assert.Equal(t, "Binary Search", chosen, "wraps to the end")

	p.typeRunes([]rune("zzz"))
	_, ok = p.chosen()
	assert.False(t, ok)
	p.backspace()
	p.backspace()
	p.backspace()
	assert.Equal(t, "", p.filter)
}

func TestLanguageAndCodeMarkdown(t *testing.T) {
	assert.Equal(t, "python", Language("/Arrays/two_sum.py"))
	assert.Equal(t, "go", Language("x/Y.GO"))
	assert.Equal(t, "", Language("notes.txt"))

	assert.Equal(t, "```python\nx = 1\n```\n", CodeMarkdown("a.py", "x = 1\n"))
	assert.Equal(t, "# Notes", CodeMarkdown("README.md", "# Notes"))
	assert.Equal(t, "````\na ``` b\n````\n", CodeMarkdown("a.txt", "a ``` b"))
}
