package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/abhisek/quizforge/internal/bank"
	"github.com/abhisek/quizforge/internal/mode"
	"github.com/abhisek/quizforge/internal/quizgen"
	"github.com/abhisek/quizforge/internal/store"
)

// Server exposes the question pipeline over HTTP.
type Server struct {
	orch     *quizgen.Orchestrator
	selector *bank.Selector
	prober   mode.Prober
	usage    store.UsageRepo
	logger   *zap.Logger
}

// NewServer wires the HTTP surface. A nil usage repo disables usage
// tracking for offline-served batches; a nil logger disables logging.
func NewServer(orch *quizgen.Orchestrator, selector *bank.Selector, prober mode.Prober, usage store.UsageRepo, logger *zap.Logger) *Server {
	if usage == nil {
		usage = store.NopUsageRepo{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		orch:     orch,
		selector: selector,
		prober:   prober,
		usage:    usage,
		logger:   logger,
	}
}

// Router builds the chi router with standard middleware.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/questions", func(r chi.Router) {
		r.Post("/generate", s.handleGenerate)
		r.Post("/offline", s.handleOffline)
	})

	return r
}
