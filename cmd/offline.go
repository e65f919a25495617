package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizforge/internal/bank"
)

var offlineCmd = &cobra.Command{
	Use:   "offline",
	Short: "Select questions from the local bank and print them as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		subject, _ := cmd.Flags().GetString("subject")
		objective, _ := cmd.Flags().GetString("objective")
		count, _ := cmd.Flags().GetInt("count")

		b, err := bank.Load()
		if err != nil {
			return fmt.Errorf("load question bank: %w", err)
		}

		sel, err := bank.NewSelector(b).Select(bank.SelectRequest{
			Subject:   subject,
			Objective: objective,
			Count:     count,
		})
		if err != nil {
			return err
		}

		if sel.Warning != "" {
			fmt.Fprintln(os.Stderr, "warning:", sel.Warning)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sel.Questions)
	},
}

func init() {
	offlineCmd.Flags().String("subject", "", "Subject filter (empty = all subjects)")
	offlineCmd.Flags().String("objective", "", "Objective filter")
	offlineCmd.Flags().Int("count", 5, "Number of questions")
}
