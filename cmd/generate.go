package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/quizforge/internal/quizgen"
	"github.com/abhisek/quizforge/internal/store"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a batch of questions and print it as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		subject, _ := cmd.Flags().GetString("subject")
		count, _ := cmd.Flags().GetInt("count")
		objective, _ := cmd.Flags().GetString("objective")
		difficulty, _ := cmd.Flags().GetInt("difficulty")
		session, _ := cmd.Flags().GetString("session")

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

		logger, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer logger.Sync()

		orch := quizgen.NewOrchestrator(
			providers,
			quizgen.NewFallbackLibrary(),
			st.UsageRepo(),
			quizgen.DefaultConfig(),
			logger,
		)

		batch, err := orch.GenerateBatch(ctx, quizgen.BatchRequest{
			Subject:    subject,
			Objective:  objective,
			Count:      count,
			Difficulty: difficulty,
			SessionID:  session,
		})
		if err != nil {
			return err
		}

		if batch.Warning != "" {
			fmt.Fprintln(os.Stderr, "warning:", batch.Warning)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(batch)
	},
}

func init() {
	generateCmd.Flags().String("subject", "", "Subject to generate questions for (required)")
	generateCmd.Flags().Int("count", 5, "Number of questions")
	generateCmd.Flags().String("objective", "", "Learning objective to bias generation")
	generateCmd.Flags().Int("difficulty", 0, "Difficulty 1-5 (0 = unspecified)")
	generateCmd.Flags().String("session", "", "Session id for usage tracking")
	_ = generateCmd.MarkFlagRequired("subject")
}
