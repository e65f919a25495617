package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_SchemaAndPing(t *testing.T) {
	s := openTestStore(t)

	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	// Reopening the same file must be idempotent.
	path := filepath.Join(t.TempDir(), "reopen.db")
	for i := 0; i < 2; i++ {
		s2, err := Open(path)
		if err != nil {
			t.Fatalf("Open attempt %d: %v", i+1, err)
		}
		s2.Close()
	}
}

func TestUsageRepo_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	repo := s.UsageRepo()
	ctx := context.Background()

	served := []ServedQuestion{
		{SessionID: "s1", QuestionID: "q-aaa", Subject: "math", Source: "generated", ServedAt: time.Now().UTC()},
		{SessionID: "s1", QuestionID: "q-bbb", Subject: "math", Source: "local-bank", ServedAt: time.Now().UTC()},
		{SessionID: "s2", QuestionID: "q-ccc", Subject: "physics", Source: "generated", ServedAt: time.Now().UTC()},
	}
	if err := repo.RecordServed(ctx, served); err != nil {
		t.Fatalf("RecordServed: %v", err)
	}

	ids, err := repo.ServedInSession(ctx, "s1")
	if err != nil {
		t.Fatalf("ServedInSession: %v", err)
	}
	if len(ids) != 2 || ids[0] != "q-aaa" || ids[1] != "q-bbb" {
		t.Errorf("ServedInSession(s1) = %v, want [q-aaa q-bbb] in insertion order", ids)
	}

	ids, err = repo.ServedInSession(ctx, "s3")
	if err != nil {
		t.Fatalf("ServedInSession: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("unknown session returned %d ids", len(ids))
	}
}

func TestUsageRepo_EmptyBatchIsNoop(t *testing.T) {
	s := openTestStore(t)

	if err := s.UsageRepo().RecordServed(context.Background(), nil); err != nil {
		t.Fatalf("RecordServed(nil): %v", err)
	}
}

func TestRequestLog_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	log := s.RequestLog()
	ctx := context.Background()

	events := []LLMRequestData{
		{Provider: "mock", Model: "mock-1", Purpose: "question-gen", InputTokens: 10, OutputTokens: 20, LatencyMs: 120, Success: true},
		{Provider: "mock", Model: "mock-1", Purpose: "question-gen", Success: false, ErrorMessage: "provider unavailable"},
	}
	for _, ev := range events {
		if err := log.AppendLLMRequest(ctx, ev); err != nil {
			t.Fatalf("AppendLLMRequest: %v", err)
		}
	}

	got, err := s.QueryLLMRequests(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("QueryLLMRequests: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}

	// Newest first.
	if got[0].Success || got[0].ErrorMessage != "provider unavailable" {
		t.Errorf("newest event = %+v, want the failed one", got[0])
	}
	if !got[1].Success || got[1].InputTokens != 10 || got[1].OutputTokens != 20 {
		t.Errorf("oldest event = %+v, want the successful one", got[1])
	}
	if got[1].Timestamp.IsZero() {
		t.Error("stored event has zero timestamp")
	}
}

func TestQueryLLMRequests_Limit(t *testing.T) {
	s := openTestStore(t)
	log := s.RequestLog()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := log.AppendLLMRequest(ctx, LLMRequestData{Provider: "mock", Model: "mock-1", Purpose: "question-gen", Success: true}); err != nil {
			t.Fatalf("AppendLLMRequest: %v", err)
		}
	}

	got, err := s.QueryLLMRequests(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("QueryLLMRequests: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d events, want 2", len(got))
	}
	if got[0].ID <= got[1].ID {
		t.Errorf("events not newest-first: ids %d, %d", got[0].ID, got[1].ID)
	}
}

func TestDefaultDBPath_EnvOverride(t *testing.T) {
	override := filepath.Join(t.TempDir(), "custom", "quiz.db")
	t.Setenv("QUIZFORGE_DB", override)

	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("DefaultDBPath: %v", err)
	}
	if got != override {
		t.Errorf("path = %q, want %q", got, override)
	}
}

func TestDefaultDBPath_XDG(t *testing.T) {
	t.Setenv("QUIZFORGE_DB", "")
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)

	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("DefaultDBPath: %v", err)
	}
	want := filepath.Join(dataHome, "quizforge", "quizforge.db")
	if got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
}
