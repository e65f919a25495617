package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/quizforge/internal/bank"
	"github.com/abhisek/quizforge/internal/quizgen"
	"github.com/abhisek/quizforge/internal/store"
)

type generateRequest struct {
	Subject    string `json:"subject"`
	Count      int    `json:"count"`
	Objective  string `json:"objective,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	SessionID  string `json:"sessionId,omitempty"`
}

type offlineRequest struct {
	Subject   string `json:"subject,omitempty"`
	Objective string `json:"objective,omitempty"`
	Count     int    `json:"count"`
}

type batchResponse struct {
	Questions []quizgen.Question `json:"questions"`
	Source    quizgen.Source     `json:"source"`
	Warning   string             `json:"warning,omitempty"`
}

type selectionResponse struct {
	Questions []quizgen.Question `json:"questions"`
	Warning   string             `json:"warning,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleGenerate serves batch generation. When the connectivity probe
// reports offline, the request is answered from the local bank instead;
// the learner never sees a hard failure for provider trouble.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Validate before deciding the delivery mode: a malformed request is
	// a 400 regardless of whether the bank or the providers would answer.
	if req.Subject == "" {
		writeError(w, http.StatusBadRequest, "subject is required")
		return
	}
	if req.Count < 1 {
		writeError(w, http.StatusBadRequest, "count must be at least 1")
		return
	}
	difficulty, ok := mapDifficulty(req.Difficulty)
	if !ok {
		writeError(w, http.StatusBadRequest, "difficulty must be easy, medium, or hard")
		return
	}

	if !s.prober.IsOnline(r.Context()) {
		s.logger.Info("offline; serving batch from local bank",
			zap.String("subject", req.Subject),
			zap.Int("count", req.Count))

		sel, err := s.selector.Select(bank.SelectRequest{
			Subject:   req.Subject,
			Objective: req.Objective,
			Count:     req.Count,
		})
		if err != nil {
			writeSelectError(w, err)
			return
		}
		s.recordServed(req.SessionID, sel.Questions)
		writeJSON(w, http.StatusOK, batchResponse{
			Questions: sel.Questions,
			Source:    quizgen.SourceLocalBank,
			Warning:   sel.Warning,
		})
		return
	}

	batch, err := s.orch.GenerateBatch(r.Context(), quizgen.BatchRequest{
		Subject:    req.Subject,
		Objective:  req.Objective,
		Count:      req.Count,
		Difficulty: difficulty,
		SessionID:  req.SessionID,
	})
	if err != nil {
		var invalid *quizgen.ErrInvalidRequest
		if errors.As(err, &invalid) {
			writeError(w, http.StatusBadRequest, invalid.Error())
			return
		}
		s.logger.Error("batch generation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, batchResponse{
		Questions: batch.Questions,
		Source:    batch.Source,
		Warning:   batch.Warning,
	})
}

// handleOffline serves explicit offline selection against the local bank.
func (s *Server) handleOffline(w http.ResponseWriter, r *http.Request) {
	var req offlineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sel, err := s.selector.Select(bank.SelectRequest{
		Subject:   req.Subject,
		Objective: req.Objective,
		Count:     req.Count,
	})
	if err != nil {
		writeSelectError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, selectionResponse{
		Questions: sel.Questions,
		Warning:   sel.Warning,
	})
}

// recordServed hands offline-served question ids to the usage sink
// without blocking the response. The orchestrator does the same for
// generated batches.
func (s *Server) recordServed(sessionID string, questions []quizgen.Question) {
	if sessionID == "" {
		return
	}

	served := make([]store.ServedQuestion, len(questions))
	now := time.Now().UTC()
	for i, q := range questions {
		served[i] = store.ServedQuestion{
			SessionID:  sessionID,
			QuestionID: q.ID,
			Subject:    q.Subject,
			Source:     string(q.Source),
			ServedAt:   now,
		}
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.usage.RecordServed(ctx, served); err != nil {
			s.logger.Warn("failed to record served questions", zap.Error(err))
		}
	}()
}

// mapDifficulty converts the API's difficulty enum to the 1-5 ordinal
// scale. Empty means unspecified.
func mapDifficulty(s string) (int, bool) {
	switch s {
	case "":
		return 0, true
	case "easy":
		return 2, true
	case "medium":
		return 3, true
	case "hard":
		return 4, true
	default:
		return 0, false
	}
}

func writeSelectError(w http.ResponseWriter, err error) {
	var invalid *quizgen.ErrInvalidRequest
	if errors.As(err, &invalid) {
		writeError(w, http.StatusBadRequest, invalid.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
