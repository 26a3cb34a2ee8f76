package ai

import (
	"strings"

	"dsaview/internal/domain"
)

// MsgExplainFailed is shown for any explanation failure
const MsgExplainFailed = "An error occurred while fetching the explanation."

// Kind of question
type Kind int

const (
	Freeform Kind = iota
	Structured
)

func (k Kind) String() string {
	if k == Structured {
		return "structured"
	}
	return "freeform"
}

// Request is an issued question. Epoch ties it to the file it was asked
// about.
type Request struct {
	Kind     Kind
	Epoch    uint64
	Code     string
	Question string
}

// Answer holds the most recent explanation. Structured is nil for
// freeform answers.
type Answer struct {
	Kind       Kind
	Markdown   string
	Structured *domain.StructuredExplanation
}

// Orchestrator tracks outstanding questions and the single answer slot.
// It is owned by the UI model and not goroutine safe.
type Orchestrator struct {
	epoch   uint64
	loading [2]bool
	answer  *Answer
	err     string
}

// NewOrchestrator returns an empty orchestrator.
func NewOrchestrator() *Orchestrator {
	return &Orchestrator{}
}

// Begin validates and issues a question. Both kinds may be outstanding at
// once.
func (o *Orchestrator) Begin(kind Kind, code, question string) (Request, bool) {
	question = strings.TrimSpace(question)
	if question == "" || code == "" {
		return Request{}, false
	}
	o.loading[kind] = true
	o.err = ""
	return Request{Kind: kind, Epoch: o.epoch, Code: code, Question: question}, true
}

func (o *Orchestrator) current(req Request) bool {
	return req.Epoch == o.epoch
}

// Complete stores ans. The last completion wins the answer slot.
func (o *Orchestrator) Complete(req Request, ans Answer) bool {
	if !o.current(req) {
		return false
	}
	o.loading[req.Kind] = false
	ans.Kind = req.Kind
	o.answer = &ans
	o.err = ""
	return true
}

// Fail records a failed question.
func (o *Orchestrator) Fail(req Request, _ error) bool {
	if !o.current(req) {
		return false
	}
	o.loading[req.Kind] = false
	o.err = MsgExplainFailed
	return true
}

// Reset forgets the answer and retires every outstanding request. Called
// whenever the viewed file changes or is dismissed.
func (o *Orchestrator) Reset() {
	o.epoch++
	o.loading = [2]bool{}
	o.answer = nil
	o.err = ""
}

// Loading reports whether a question of kind is outstanding.
func (o *Orchestrator) Loading(kind Kind) bool { return o.loading[kind] }

// Busy reports whether any question is outstanding.
func (o *Orchestrator) Busy() bool { return o.loading[Freeform] || o.loading[Structured] }

// Answer returns the current answer, if any.
func (o *Orchestrator) Answer() (Answer, bool) {
	if o.answer == nil {
		return Answer{}, false
	}
	return *o.answer, true
}

// Err returns the inline error message.
func (o *Orchestrator) Err() string { return o.err }
