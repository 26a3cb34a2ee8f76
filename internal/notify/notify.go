// Package notify holds transient, self-expiring user notifications.
package notify

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// DefaultTTL applies when Push is given a non-positive ttl
const DefaultTTL = 3000 * time.Millisecond

// Severity of a notification
type Severity int

const (
	Info Severity = iota
	Success
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Notification is a single queued message
type Notification struct {
	ID        uuid.UUID
	Message   string
	Severity  Severity
	TTL       time.Duration
	CreatedAt time.Time
}

// ExpiredMsg is delivered when a notification's TTL elapses.
type ExpiredMsg struct {
	ID uuid.UUID
}

// TickFunc schedules fn after d. tea.Tick satisfies it.
type TickFunc func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd

// Queue is owned by the Bubble Tea model; it is not goroutine safe.
type Queue struct {
	items      []Notification
	defaultTTL time.Duration
	now        func() time.Time
	tick       TickFunc
	newID      func() uuid.UUID
}

// Option configures a Queue
type Option func(*Queue)

// WithClock overrides the clock used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(q *Queue) { q.now = now }
}

// WithTick overrides the expiry scheduler.
func WithTick(fn TickFunc) Option {
	return func(q *Queue) { q.tick = fn }
}

// WithDefaultTTL changes the lifetime used for non-positive ttl values.
func WithDefaultTTL(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.defaultTTL = d
		}
	}
}

// New creates an empty queue.
func New(opts ...Option) *Queue {
	q := &Queue{
		defaultTTL: DefaultTTL,
		now:        time.Now,
		tick:       tea.Tick,
		newID:      uuid.New,
	}
	for _, o := range opts {
		o(q)
	}
	return q
}

// Push appends a notification and returns its id along with the command
// that will expire it.
func (q *Queue) Push(message string, severity Severity, ttl time.Duration) (uuid.UUID, tea.Cmd) {
	if ttl <= 0 {
		ttl = q.defaultTTL
	}
	n := Notification{
		ID:        q.newID(),
		Message:   message,
		Severity:  severity,
		TTL:       ttl,
		CreatedAt: q.now(),
	}
	q.items = append(q.items, n)

	id := n.ID
	return id, q.tick(ttl, func(time.Time) tea.Msg {
		return ExpiredMsg{ID: id}
	})
}

// Info pushes an info notification with the default ttl.
func (q *Queue) Info(message string) tea.Cmd {
	_, cmd := q.Push(message, Info, 0)
	return cmd
}

// Success pushes a success notification with the default ttl.
func (q *Queue) Success(message string) tea.Cmd {
	_, cmd := q.Push(message, Success, 0)
	return cmd
}

// Error pushes an error notification with the default ttl.
func (q *Queue) Error(message string) tea.Cmd {
	_, cmd := q.Push(message, Error, 0)
	return cmd
}

// Dismiss removes id immediately. It reports whether it was present.
func (q *Queue) Dismiss(id uuid.UUID) bool {
	for i, n := range q.items {
		if n.ID == id {
			q.items = append(q.items[:i:i], q.items[i+1:]...)
			return true
		}
	}
	return false
}

// DismissNewest removes the most recently pushed notification.
func (q *Queue) DismissNewest() bool {
	if len(q.items) == 0 {
		return false
	}
	return q.Dismiss(q.items[len(q.items)-1].ID)
}

// Expire handles a TTL message. Already dismissed ids are ignored.
func (q *Queue) Expire(msg ExpiredMsg) bool {
	return q.Dismiss(msg.ID)
}

// Items returns a copy of the queue, oldest first.
func (q *Queue) Items() []Notification {
	out := make([]Notification, len(q.items))
	copy(out, q.items)
	return out
}

// Len returns the number of live notifications.
func (q *Queue) Len() int { return len(q.items) }
