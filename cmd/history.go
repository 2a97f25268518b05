package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizforge/internal/notify"
	"github.com/abhisek/quizforge/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded quiz results",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cmd, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		results, err := st.EventRepo().QueryQuizResults(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query results: %w", err)
		}
		printQuizResults(cmd.OutOrStdout(), results)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of results to show")
}

func printQuizResults(w io.Writer, results []store.QuizResultEvent) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No quiz results recorded yet.")
		return
	}

	fmt.Fprintf(w, "%-19s  %-28s  %-6s  %7s  %7s  %7s  %-20s  %s\n",
		"Timestamp", "Topic", "Level", "Correct", "Score", "Time", "Pace", "Email")
	fmt.Fprintln(w, strings.Repeat("─", 110))

	for _, r := range results {
		pace := notify.FormatRate(0, false)
		if r.QuestionsPerMinute != nil {
			pace = notify.FormatRate(*r.QuestionsPerMinute, true)
		}
		email := "-"
		if r.Notified {
			email = "sent"
		}
		fmt.Fprintf(w, "%-19s  %-28s  %-6s  %7s  %6.1f%%  %7s  %-20s  %s\n",
			r.Timestamp.Local().Format("2006-01-02 15:04:05"),
			truncate(r.Topic, 28),
			r.Difficulty,
			fmt.Sprintf("%d/%d", r.CorrectCount, r.TotalCount),
			r.Score,
			notify.FormatDuration(r.Duration),
			pace,
			email,
		)
	}
}
