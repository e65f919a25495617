package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizforge/internal/bank"
	"github.com/abhisek/quizforge/internal/llm"
	"github.com/abhisek/quizforge/internal/mode"
	"github.com/abhisek/quizforge/internal/quizgen"
	"github.com/abhisek/quizforge/internal/store"
)

func newTestServer(t *testing.T, providers []llm.Provider, prober mode.Prober, usage store.UsageRepo) *Server {
	t.Helper()

	b, err := bank.Load()
	require.NoError(t, err)

	cfg := quizgen.DefaultConfig()
	cfg.SlotStagger = 0
	cfg.ProviderTimeout = time.Second

	orch := quizgen.NewOrchestrator(providers, quizgen.NewFallbackLibrary(), usage, cfg, nil)
	return NewServer(orch, bank.NewSelector(b), prober, usage, nil)
}

func postJSON(t *testing.T, srv *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func validQuestionJSON(text string) string {
	return fmt.Sprintf(`{"question_text": %q, "options": ["one", "two", "three", "four"], "correct_answer": "A", "explanation": "short rationale"}`, text)
}

type recordingUsage struct {
	mu     sync.Mutex
	served []store.ServedQuestion
	done   chan struct{}
}

func newRecordingUsage() *recordingUsage {
	return &recordingUsage{done: make(chan struct{}, 1)}
}

func (r *recordingUsage) RecordServed(_ context.Context, served []store.ServedQuestion) error {
	r.mu.Lock()
	r.served = append(r.served, served...)
	r.mu.Unlock()
	select {
	case r.done <- struct{}{}:
	default:
	}
	return nil
}

func (r *recordingUsage) ServedInSession(context.Context, string) ([]string, error) {
	return nil, nil
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, nil, mode.Static(true), nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}

func TestGenerate_Online(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: validQuestionJSON("Which digit appears in the ones place of 7 to the power 4?")},
		llm.MockResponse{Content: validQuestionJSON("What remainder is left when 100 is divided by 7?")},
	)
	srv := newTestServer(t, []llm.Provider{mock}, mode.Static(true), nil)

	rec := postJSON(t, srv, "/api/questions/generate", map[string]any{
		"subject": "math",
		"count":   2,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp batchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Questions, 2)
	require.Equal(t, quizgen.SourceGenerated, resp.Source)
	require.Empty(t, resp.Warning)
}

func TestGenerate_OfflineServesBank(t *testing.T) {
	// Providers would succeed, but the probe says offline: the bank answers.
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: validQuestionJSON("unused")},
	)
	srv := newTestServer(t, []llm.Provider{mock}, mode.Static(false), nil)

	rec := postJSON(t, srv, "/api/questions/generate", map[string]any{
		"subject": "math",
		"count":   2,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp batchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Questions, 2)
	require.Equal(t, quizgen.SourceLocalBank, resp.Source)
	require.Zero(t, mock.CallCount())
}

func TestGenerate_OfflineValidatesRequest(t *testing.T) {
	// Validation runs before the delivery-mode decision: an offline probe
	// must not turn a malformed request into a 200 from the bank.
	srv := newTestServer(t, nil, mode.Static(false), nil)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"missing subject", map[string]any{"count": 1}},
		{"zero count", map[string]any{"subject": "math"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postJSON(t, srv, "/api/questions/generate", tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGenerate_OfflineRecordsSession(t *testing.T) {
	usage := newRecordingUsage()
	srv := newTestServer(t, nil, mode.Static(false), usage)

	rec := postJSON(t, srv, "/api/questions/generate", map[string]any{
		"subject":   "math",
		"count":     2,
		"sessionId": "sess-offline",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp batchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	select {
	case <-usage.done:
	case <-time.After(2 * time.Second):
		t.Fatal("usage recording never ran for the offline-served batch")
	}

	usage.mu.Lock()
	defer usage.mu.Unlock()
	require.Len(t, usage.served, 2)
	for i, s := range usage.served {
		require.Equal(t, "sess-offline", s.SessionID)
		require.Equal(t, resp.Questions[i].ID, s.QuestionID)
		require.Equal(t, string(quizgen.SourceLocalBank), s.Source)
	}
}

func TestGenerate_ProviderFailureFallsBack(t *testing.T) {
	srv := newTestServer(t, []llm.Provider{&llm.FailingProvider{}}, mode.Static(true), nil)

	rec := postJSON(t, srv, "/api/questions/generate", map[string]any{
		"subject": "physics",
		"count":   1,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp batchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, quizgen.SourceLocalBank, resp.Source)
	require.NotEmpty(t, resp.Warning)
}

func TestGenerate_BadRequests(t *testing.T) {
	srv := newTestServer(t, nil, mode.Static(true), nil)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"missing subject", map[string]any{"count": 1}},
		{"zero count", map[string]any{"subject": "math"}},
		{"bad difficulty", map[string]any{"subject": "math", "count": 1, "difficulty": "impossible"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postJSON(t, srv, "/api/questions/generate", tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.NotEmpty(t, resp.Error)
		})
	}
}

func TestGenerate_MalformedBody(t *testing.T) {
	srv := newTestServer(t, nil, mode.Static(true), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/questions/generate", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerate_DifficultyMapping(t *testing.T) {
	for name, want := range map[string]int{"easy": 2, "medium": 3, "hard": 4, "": 0} {
		got, ok := mapDifficulty(name)
		require.True(t, ok, name)
		require.Equal(t, want, got, name)
	}
	_, ok := mapDifficulty("brutal")
	require.False(t, ok)
}

func TestOffline_Select(t *testing.T) {
	srv := newTestServer(t, nil, mode.Static(true), nil)

	rec := postJSON(t, srv, "/api/questions/offline", map[string]any{
		"subject": "biology",
		"count":   2,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp selectionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Questions, 2)
	for _, q := range resp.Questions {
		require.Equal(t, quizgen.SourceLocalBank, q.Source)
		require.NotEmpty(t, q.ID)
	}
}

func TestOffline_InvalidCount(t *testing.T) {
	srv := newTestServer(t, nil, mode.Static(true), nil)

	rec := postJSON(t, srv, "/api/questions/offline", map[string]any{
		"subject": "biology",
		"count":   0,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
