package api

import (
	"errors"
	"fmt"
)

// ErrRequestFailed matches every *RequestFailedError via errors.Is.
var ErrRequestFailed = errors.New("request failed")

// RequestFailedError is the single failure kind surfaced by the client.
// Timeouts, refused connections, non-2xx statuses and undecodable bodies all
// collapse into it.
type RequestFailedError struct {
	Endpoint string // search, filter, file, explain-code, structured-explain-code
	Status   int    // 0 when no response was received
	Detail   string // server-provided message when available
	Err      error
}

func (e *RequestFailedError) Error() string {
	msg := fmt.Sprintf("%s request failed", e.Endpoint)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	} else if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *RequestFailedError) Unwrap() error { return e.Err }

func (e *RequestFailedError) Is(target error) bool { return target == ErrRequestFailed }
