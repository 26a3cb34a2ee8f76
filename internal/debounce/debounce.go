// Package debounce turns a stream of search-box edits into settled query
// emissions once input has been quiet for a fixed window.
package debounce

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Defaults used when the caller passes zero values
const (
	DefaultWindow    = 500 * time.Millisecond
	DefaultMinLength = 2
)

// Kind classifies a settled value
type Kind int

const (
	// EmitClear means the box was emptied; results should be cleared.
	EmitClear Kind = iota
	// EmitNone is the dead zone: too short to search, not empty either.
	EmitNone
	// EmitSearch carries a query that should be sent to the backend.
	EmitSearch
)

func (k Kind) String() string {
	switch k {
	case EmitClear:
		return "clear"
	case EmitNone:
		return "none"
	case EmitSearch:
		return "search"
	default:
		return "unknown"
	}
}

// Emission is the outcome of one settled value
type Emission struct {
	Kind  Kind
	Query string
}

// SettledMsg is delivered by the tick command once the window elapses.
type SettledMsg struct {
	Gen   uint64
	Value string
}

// TickFunc schedules fn after d. tea.Tick satisfies it.
type TickFunc func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd

// Debouncer is owned by the Bubble Tea model and is not safe for use from
// more than one goroutine.
type Debouncer struct {
	window    time.Duration
	minLength int
	tick      TickFunc

	gen     uint64
	pending bool
	closed  bool
}

// Option configures a Debouncer
type Option func(*Debouncer)

// WithTick replaces the scheduler, mostly for tests.
func WithTick(fn TickFunc) Option {
	return func(d *Debouncer) { d.tick = fn }
}

// New creates a debouncer with the given window and minimum query length.
func New(window time.Duration, minLength int, opts ...Option) *Debouncer {
	if window <= 0 {
		window = DefaultWindow
	}
	if minLength < 1 {
		minLength = DefaultMinLength
	}
	d := &Debouncer{window: window, minLength: minLength, tick: tea.Tick}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Window returns the quiescence window.
func (d *Debouncer) Window() time.Duration { return d.window }

// Input records value and schedules its settlement. Any earlier pending
// value is superseded.
func (d *Debouncer) Input(value string) tea.Cmd {
	if d.closed {
		return nil
	}
	d.gen++
	d.pending = true
	gen := d.gen
	return d.tick(d.window, func(time.Time) tea.Msg {
		return SettledMsg{Gen: gen, Value: value}
	})
}

// Settle classifies msg. It reports false when msg was superseded by a
// later Input or the debouncer is closed.
func (d *Debouncer) Settle(msg SettledMsg) (Emission, bool) {
	if d.closed || msg.Gen != d.gen {
		return Emission{}, false
	}
	// consume so a duplicate delivery cannot emit twice
	d.gen++
	d.pending = false
	return Classify(msg.Value, d.minLength), true
}

// Pending reports whether an Input is waiting to settle.
func (d *Debouncer) Pending() bool {
	return !d.closed && d.pending
}

// Close cancels any pending emission permanently.
func (d *Debouncer) Close() {
	d.closed = true
	d.pending = false
}

// Classify applies the length rules to a raw search-box value.
func Classify(value string, minLength int) Emission {
	q := strings.TrimSpace(value)
	switch n := len([]rune(q)); {
	case n == 0:
		return Emission{Kind: EmitClear}
	case n < minLength:
		return Emission{Kind: EmitNone}
	default:
		return Emission{Kind: EmitSearch, Query: q}
	}
}
