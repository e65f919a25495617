package quizgen

import "fmt"

// ErrInvalidRequest indicates a malformed batch request. Surfaced
// immediately, no retry.
type ErrInvalidRequest struct {
	Reason string
}

func (e *ErrInvalidRequest) Error() string {
	return fmt.Sprintf("invalid request: %s", e.Reason)
}

// ErrExhausted indicates that neither generation nor fallback could fill
// a slot. With a non-empty fallback library this is unreachable; seeing
// it means the orchestrator was misconfigured.
type ErrExhausted struct {
	Subject string
}

func (e *ErrExhausted) Error() string {
	return fmt.Sprintf("no questions could be produced for subject %q: retry or narrow the request", e.Subject)
}
