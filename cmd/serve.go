package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/quizforge/internal/api"
	"github.com/abhisek/quizforge/internal/bank"
	"github.com/abhisek/quizforge/internal/llm"
	"github.com/abhisek/quizforge/internal/mode"
	"github.com/abhisek/quizforge/internal/quizgen"
	"github.com/abhisek/quizforge/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the question generation HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		return runServe(cmd, addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "Listen address")
}

func runServe(cmd *cobra.Command, addr string) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close()

	ctx := cmd.Context()

	providers, err := buildProviders(ctx, st)
	if err != nil {
		return err
	}

	b, err := bank.Load()
	if err != nil {
		return fmt.Errorf("load question bank: %w", err)
	}

	orch := quizgen.NewOrchestrator(
		providers,
		quizgen.NewFallbackLibrary(),
		st.UsageRepo(),
		quizgen.DefaultConfig(),
		logger,
	)
	selector := bank.NewSelector(b)
	prober := mode.NewDialProber()

	server := api.NewServer(orch, selector, prober, st.UsageRepo(), logger)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", addr))
		errCh <- httpServer.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// buildProviders creates the provider list from QUIZFORGE_* env vars,
// falling back to probing standard API key env vars when none are set.
func buildProviders(ctx context.Context, st *store.Store) ([]llm.Provider, error) {
	cfg := llm.ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		discovered, ok := llm.DiscoverConfig()
		if !ok {
			return nil, fmt.Errorf("no usable provider configuration: %w", err)
		}
		cfg = discovered
	}
	return llm.NewProviders(ctx, cfg, st.RequestLog())
}
