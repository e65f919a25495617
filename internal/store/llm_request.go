package store

import (
	"context"
	"fmt"
)

// RequestLog returns a RequestLog backed by this store.
func (s *Store) RequestLog() RequestLog {
	return &requestLog{db: s.db}
}

type requestLog struct {
	db dbtx
}

func (r *requestLog) AppendLLMRequest(ctx context.Context, data LLMRequestData) error {
	const q = `
INSERT INTO llm_requests
	(provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message, request_body, response_body)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		data.Provider,
		data.Model,
		data.Purpose,
		data.InputTokens,
		data.OutputTokens,
		data.LatencyMs,
		boolToInt(data.Success),
		data.ErrorMessage,
		data.RequestBody,
		data.ResponseBody,
	)
	if err != nil {
		return fmt.Errorf("append llm request: %w", err)
	}
	return nil
}

// QueryLLMRequests returns recent provider request events, newest first.
func (s *Store) QueryLLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	const q = `
SELECT id, provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message, created_at
FROM llm_requests
ORDER BY id DESC
LIMIT ?`

	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("query llm requests: %w", err)
	}
	defer rows.Close()

	var out []LLMRequestEvent
	for rows.Next() {
		var e LLMRequestEvent
		var success int
		if err := rows.Scan(
			&e.ID,
			&e.Provider,
			&e.Model,
			&e.Purpose,
			&e.InputTokens,
			&e.OutputTokens,
			&e.LatencyMs,
			&success,
			&e.ErrorMessage,
			&e.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan llm request: %w", err)
		}
		e.Success = success != 0
		out = append(out, e)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
