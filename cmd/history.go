package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/learnex/learnex/internal/assessment"
	"github.com/learnex/learnex/internal/store"
	"github.com/learnex/learnex/internal/ui/layout"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List submitted tests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		exam, _ := cmd.Flags().GetString("exam")

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := context.Background()
		var results []store.ResultRecord
		if exam != "" {
			results, err = s.ResultRepo().ForExam(ctx, exam, limit)
		} else {
			results, err = s.ResultRepo().Recent(ctx, limit)
		}
		if err != nil {
			return fmt.Errorf("query results: %w", err)
		}

		if len(results) == 0 {
			fmt.Println("No tests submitted yet.")
			return nil
		}

		fmt.Printf("%-16s  %-12s  %-28s  %9s  %8s  %8s  %s\n",
			"Submitted", "Exam", "Title", "Score", "Accuracy", "Time", "Auto")
		fmt.Println(strings.Repeat("─", 100))

		for _, r := range results {
			auto := ""
			if r.AutoSubmitted {
				auto = "✓"
			}
			title := r.Title
			if len(title) > 28 {
				title = title[:28]
			}
			fmt.Printf("%-16s  %-12s  %-28s  %9s  %7d%%  %8s  %s\n",
				r.SubmittedAt.Local().Format("2006-01-02 15:04"),
				r.ExamID,
				title,
				fmt.Sprintf("%d/%d", r.Score, r.Total*assessment.PointsPerCorrect),
				r.Accuracy,
				layout.FormatClock(r.TimeTakenSecs),
				auto,
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum number of results to show (0 = all)")
	historyCmd.Flags().String("exam", "", "Only show results for this exam")
}
