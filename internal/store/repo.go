package store

import (
	"context"
	"time"
)

// LLMRequestData captures the data for a single provider request event.
type LLMRequestData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored provider request event.
type LLMRequestEvent struct {
	ID        int64
	Timestamp time.Time
	LLMRequestData
}

// RequestLog provides append access to provider request events.
type RequestLog interface {
	// AppendLLMRequest records a provider API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestData) error
}

// ServedQuestion records one question id delivered to a session.
type ServedQuestion struct {
	SessionID  string
	QuestionID string
	Subject    string
	Source     string
	ServedAt   time.Time
}

// UsageRepo records which question ids were served in which session.
// RecordServed is invoked fire-and-forget after a batch is assembled; it
// must never block batch return and its errors are logged, not surfaced.
type UsageRepo interface {
	RecordServed(ctx context.Context, served []ServedQuestion) error

	// ServedInSession returns the question ids already delivered to a session.
	ServedInSession(ctx context.Context, sessionID string) ([]string, error)
}

// QueryOpts configures event queries.
type QueryOpts struct {
	Limit int // max results (0 = default 50)
}
