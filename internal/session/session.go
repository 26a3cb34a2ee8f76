// Package session is the selection and filter state machine behind the
// search, results and viewer screens.
package session

import (
	"fmt"

	"dsaview/internal/domain"
)

// User-visible failure messages
const (
	MsgSearchFailed = "Failed to search files."
	MsgFilterFailed = "Failed to filter files."
	MsgFileFailed   = "Failed to fetch file content."
)

// Phase of the machine
type Phase int

const (
	Idle Phase = iota
	Loading
	ShowingResults
	ViewingFile
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case ShowingResults:
		return "showing-results"
	case ViewingFile:
		return "viewing-file"
	default:
		return "unknown"
	}
}

// Policy decides which completions are applied when requests overlap.
type Policy int

const (
	// LatestIssued applies only the most recently issued request of each
	// slot; older completions are discarded.
	LatestIssued Policy = iota
	// LastArrival applies every completion, so whichever lands last wins.
	LastArrival
)

// ParsePolicy maps the config value onto a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "latest":
		return LatestIssued, nil
	case "arrival":
		return LastArrival, nil
	default:
		return LatestIssued, fmt.Errorf("unknown sequencing policy %q", s)
	}
}

func (p Policy) String() string {
	if p == LastArrival {
		return "arrival"
	}
	return "latest"
}

// Kind of request a ticket was issued for
type Kind int

const (
	KindSearch Kind = iota
	KindFilter
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindSearch:
		return "search"
	case KindFilter:
		return "filter"
	case KindFile:
		return "file"
	default:
		return "unknown"
	}
}

// Ticket identifies an issued request. Arg is the query, category or
// file path it was issued with.
type Ticket struct {
	Kind Kind
	Seq  uint64
	Arg  string
	Item domain.SearchResultItem
}

// Outcome of delivering a completion
type Outcome int

const (
	Applied Outcome = iota
	Discarded
)

func (o Outcome) String() string {
	if o == Discarded {
		return "discarded"
	}
	return "applied"
}

// State is a snapshot of the machine. Results is replaced wholesale and
// never modified in place.
type State struct {
	Phase       Phase
	LoadingFile bool
	Query       string
	Category    string
	Results     []domain.SearchResultItem
	File        *domain.FileContent
	Err         string
}

// HasResults reports whether a non-empty result set is shown.
func (s State) HasResults() bool {
	return s.Phase == ShowingResults && len(s.Results) > 0
}

// Machine owns the query, result and file slots. It is driven from the
// Bubble Tea update loop and is not goroutine safe.
type Machine struct {
	policy Policy
	state  State

	resultSeq uint64
	fileSeq   uint64
}

// New creates an idle machine.
func New(policy Policy) *Machine {
	return &Machine{policy: policy}
}

// Policy returns the configured sequencing policy.
func (m *Machine) Policy() Policy { return m.policy }

// State returns a snapshot of the current state.
func (m *Machine) State() State { return m.state }

// BeginSearch starts a search for an already trimmed, long enough query.
func (m *Machine) BeginSearch(query string) (Ticket, bool) {
	if m.state.Phase == ViewingFile {
		return Ticket{}, false
	}
	m.state.Query = query
	return m.beginResults(KindSearch, query), true
}

// BeginFilter starts a category filter. The empty category clears the
// results without issuing a request.
func (m *Machine) BeginFilter(category string) (Ticket, bool) {
	if m.state.Phase == ViewingFile {
		return Ticket{}, false
	}
	m.state.Category = category
	if category == "" {
		m.clearResults()
		return Ticket{}, false
	}
	return m.beginResults(KindFilter, category), true
}

func (m *Machine) beginResults(kind Kind, arg string) Ticket {
	m.resultSeq++
	m.state.Phase = Loading
	m.state.Err = ""
	return Ticket{Kind: kind, Seq: m.resultSeq, Arg: arg}
}

// clearResults empties the result slot and returns to Idle. Under
// LatestIssued it also retires any outstanding result request.
func (m *Machine) clearResults() {
	if m.policy == LatestIssued {
		m.resultSeq++
	}
	m.state.Results = nil
	m.state.Phase = Idle
	m.state.Err = ""
}

func (m *Machine) staleResults(t Ticket) bool {
	if m.state.Phase == ViewingFile {
		return true
	}
	return m.policy == LatestIssued && t.Seq != m.resultSeq
}

// CompleteResults installs items as the new result set.
func (m *Machine) CompleteResults(t Ticket, items []domain.SearchResultItem) Outcome {
	if m.staleResults(t) {
		return Discarded
	}
	if items == nil {
		items = []domain.SearchResultItem{}
	}
	m.state.Results = items
	m.state.Phase = ShowingResults
	m.state.Err = ""
	return Applied
}

// FailResults records a failed search or filter. The previous result set
// is left untouched.
func (m *Machine) FailResults(t Ticket, _ error) Outcome {
	if m.staleResults(t) {
		return Discarded
	}
	m.state.Phase = ShowingResults
	if t.Kind == KindFilter {
		m.state.Err = MsgFilterFailed
	} else {
		m.state.Err = MsgSearchFailed
	}
	return Applied
}

// BeginSelect starts fetching item. Only valid while results are shown.
func (m *Machine) BeginSelect(item domain.SearchResultItem) (Ticket, bool) {
	if m.state.Phase != ShowingResults {
		return Ticket{}, false
	}
	m.fileSeq++
	m.state.LoadingFile = true
	m.state.Err = ""
	return Ticket{Kind: KindFile, Seq: m.fileSeq, Arg: item.Path, Item: item}, true
}

func (m *Machine) staleFile(t Ticket) bool {
	return m.policy == LatestIssued && t.Seq != m.fileSeq
}

// CompleteFile makes content the active file. Results and the category
// selection are cleared.
func (m *Machine) CompleteFile(t Ticket, content domain.FileContent) Outcome {
	if m.staleFile(t) {
		return Discarded
	}
	if m.policy == LatestIssued {
		m.resultSeq++
	}
	c := content
	m.state.File = &c
	m.state.Results = nil
	m.state.Category = ""
	m.state.Phase = ViewingFile
	m.state.LoadingFile = false
	m.state.Err = ""
	return Applied
}

// FailFile records a failed fetch; the result list stays as it was.
func (m *Machine) FailFile(t Ticket, _ error) Outcome {
	if m.staleFile(t) {
		return Discarded
	}
	m.state.LoadingFile = false
	m.state.Err = MsgFileFailed
	return Applied
}

// DismissToSearch closes the viewer.
func (m *Machine) DismissToSearch() bool {
	if m.state.Phase != ViewingFile {
		return false
	}
	if m.policy == LatestIssued {
		m.fileSeq++
	}
	m.state.File = nil
	m.state.Results = nil
	m.state.Phase = Idle
	m.state.LoadingFile = false
	m.state.Err = ""
	return true
}

// DismissResults hides the result list. Requests already in flight are
// not cancelled and may still land.
func (m *Machine) DismissResults() bool {
	if m.state.Phase != ShowingResults {
		return false
	}
	m.state.Results = nil
	m.state.Phase = Idle
	m.state.Err = ""
	return true
}

// ClearQuery handles an emptied search box.
func (m *Machine) ClearQuery() bool {
	if m.state.Phase == ViewingFile {
		return false
	}
	m.state.Query = ""
	m.clearResults()
	return true
}
