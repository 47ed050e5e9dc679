package mcts

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest is wrapped by every RequestError.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNoDecision is returned when the search never visited a root child,
	// for example with a budget of a single iteration.
	ErrNoDecision = errors.New("no root child was visited")
)

// RequestError reports a request rejected before any search work.
type RequestError struct {
	Field  string
	Reason string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidRequest, e.Field, e.Reason)
}

func (e *RequestError) Unwrap() error {
	return ErrInvalidRequest
}
