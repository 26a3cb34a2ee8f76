package debounce

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// immediateTick records the requested delay and fires without sleeping.
func immediateTick(delays *[]time.Duration) TickFunc {
	return func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
		*delays = append(*delays, d)
		return func() tea.Msg { return fn(time.Time{}) }
	}
}

func settle(t *testing.T, d *Debouncer, cmd tea.Cmd) (Emission, bool) {
	t.Helper()
	require.NotNil(t, cmd)
	msg, ok := cmd().(SettledMsg)
	require.True(t, ok)
	return d.Settle(msg)
}

func TestInputUsesWindow(t *testing.T) {
	var delays []time.Duration
	d := New(500*time.Millisecond, 2, WithTick(immediateTick(&delays)))

	d.Input("two")
	assert.Equal(t, []time.Duration{500 * time.Millisecond}, delays)
}

func TestClassification(t *testing.T) {
	tests := []struct {
		value string
		want  Emission
	}{
		{"", Emission{Kind: EmitClear}},
		{"   ", Emission{Kind: EmitClear}},
		{"a", Emission{Kind: EmitNone}},
		{" a ", Emission{Kind: EmitNone}},
		{"é", Emission{Kind: EmitNone}},
		{"ab", Emission{Kind: EmitSearch, Query: "ab"}},
		{"  two sum ", Emission{Kind: EmitSearch, Query: "two sum"}},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			var delays []time.Duration
			d := New(0, 0, WithTick(immediateTick(&delays)))
			got, ok := settle(t, d, d.Input(tt.value))
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLaterInputSupersedesEarlier(t *testing.T) {
	var delays []time.Duration
	d := New(time.Second, 2, WithTick(immediateTick(&delays)))

	first := d.Input("ab")
	second := d.Input("abc")

	_, ok := settle(t, d, first)
	assert.False(t, ok, "stale settle must not emit")

	got, ok := settle(t, d, second)
	require.True(t, ok)
	assert.Equal(t, Emission{Kind: EmitSearch, Query: "abc"}, got)
}

func TestSettleEmitsOnce(t *testing.T) {
	var delays []time.Duration
	d := New(time.Second, 2, WithTick(immediateTick(&delays)))

	cmd := d.Input("heap")
	assert.True(t, d.Pending())
	msg := cmd().(SettledMsg)

	_, ok := d.Settle(msg)
	assert.True(t, ok)
	assert.False(t, d.Pending())

	_, ok = d.Settle(msg)
	assert.False(t, ok)
}

func TestCloseCancelsPending(t *testing.T) {
	var delays []time.Duration
	d := New(time.Second, 2, WithTick(immediateTick(&delays)))

	cmd := d.Input("graph")
	d.Close()

	_, ok := settle(t, d, cmd)
	assert.False(t, ok)
	assert.Nil(t, d.Input("more"))
	assert.False(t, d.Pending())
}

func TestDefaults(t *testing.T) {
	d := New(0, 0)
	assert.Equal(t, DefaultWindow, d.Window())
	assert.Equal(t, "search", EmitSearch.String())
}
