package notify

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTicker struct {
	delays []time.Duration
}

func (f *fakeTicker) tick(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	f.delays = append(f.delays, d)
	return func() tea.Msg { return fn(time.Time{}) }
}

func newQueue(ft *fakeTicker) *Queue {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return New(WithTick(ft.tick), WithClock(func() time.Time { return fixed }))
}

func TestPushDefaultsTTL(t *testing.T) {
	ft := &fakeTicker{}
	q := newQueue(ft)

	q.Push("a", Info, 0)
	q.Push("b", Error, -5*time.Second)
	q.Push("c", Success, time.Second)

	assert.Equal(t, []time.Duration{DefaultTTL, DefaultTTL, time.Second}, ft.delays)
	items := q.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "a", items[0].Message, "oldest first")
	assert.Equal(t, Error, items[1].Severity)
	assert.Equal(t, 2024, items[2].CreatedAt.Year())
}

func TestExpireRemovesNotification(t *testing.T) {
	ft := &fakeTicker{}
	q := newQueue(ft)

	id, cmd := q.Push("Loaded Two Sum.", Success, 0)
	msg := cmd().(ExpiredMsg)
	assert.Equal(t, id, msg.ID)

	assert.True(t, q.Expire(msg))
	assert.Equal(t, 0, q.Len())
}

func TestDismissBeforeExpiry(t *testing.T) {
	ft := &fakeTicker{}
	q := newQueue(ft)

	id, cmd := q.Push("Failed to search files.", Error, 0)
	keep, _ := q.Push("other", Info, 0)

	assert.True(t, q.Dismiss(id))
	assert.False(t, q.Expire(cmd().(ExpiredMsg)), "stale expiry is a no-op")

	items := q.Items()
	require.Len(t, items, 1)
	assert.Equal(t, keep, items[0].ID)
}

func TestTimersIndependent(t *testing.T) {
	ft := &fakeTicker{}
	q := newQueue(ft)

	_, first := q.Push("one", Info, 0)
	_, _ = q.Push("two", Info, 0)

	q.Expire(first().(ExpiredMsg))
	items := q.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "two", items[0].Message)
}

func TestDismissUnknown(t *testing.T) {
	q := newQueue(&fakeTicker{})
	assert.False(t, q.Dismiss(uuid.New()))
	assert.False(t, q.DismissNewest())
}

func TestDismissNewest(t *testing.T) {
	q := newQueue(&fakeTicker{})
	q.Info("old")
	q.Error("new")

	assert.True(t, q.DismissNewest())
	items := q.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "old", items[0].Message)
}

func TestItemsIsCopy(t *testing.T) {
	q := newQueue(&fakeTicker{})
	q.Success("x")
	items := q.Items()
	items[0].Message = "changed"
	assert.Equal(t, "x", q.Items()[0].Message)
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "info", Info.String())
	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "error", Error.String())
}
