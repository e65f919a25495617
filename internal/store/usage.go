package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// dbtx is the subset of *sql.DB used by repositories.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// UsageRepo returns a UsageRepo backed by this store.
func (s *Store) UsageRepo() UsageRepo {
	return &usageRepo{db: s.db}
}

type usageRepo struct {
	db dbtx
}

func (u *usageRepo) RecordServed(ctx context.Context, served []ServedQuestion) error {
	if len(served) == 0 {
		return nil
	}

	const q = `
INSERT INTO served_questions (session_id, question_id, subject, source, served_at)
VALUES (?, ?, ?, ?, ?)`

	for _, sq := range served {
		at := sq.ServedAt
		if at.IsZero() {
			at = time.Now().UTC()
		}
		if _, err := u.db.ExecContext(ctx, q, sq.SessionID, sq.QuestionID, sq.Subject, sq.Source, at); err != nil {
			return fmt.Errorf("record served question %s: %w", sq.QuestionID, err)
		}
	}
	return nil
}

func (u *usageRepo) ServedInSession(ctx context.Context, sessionID string) ([]string, error) {
	const q = `
SELECT question_id FROM served_questions
WHERE session_id = ?
ORDER BY id ASC`

	rows, err := u.db.QueryContext(ctx, q, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query served questions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan served question: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// NopRequestLog discards all events. Used when no database is configured.
type NopRequestLog struct{}

func (NopRequestLog) AppendLLMRequest(context.Context, LLMRequestData) error { return nil }

// NopUsageRepo discards all usage records.
type NopUsageRepo struct{}

func (NopUsageRepo) RecordServed(context.Context, []ServedQuestion) error { return nil }

func (NopUsageRepo) ServedInSession(context.Context, string) ([]string, error) {
	return nil, nil
}
