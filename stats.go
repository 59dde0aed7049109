package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/example/leitnerbot/pkg/models"
)

const recentSessions = 5

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <learner-id>",
		Short: "Show a learner's progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseUserID(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			stats, err := a.stats.Statistics(ctx, userID)
			if err != nil {
				return fmt.Errorf("failed to compute statistics: %w", err)
			}
			history, err := a.history.ListByUser(ctx, userID, recentSessions)
			if err != nil {
				return fmt.Errorf("failed to list sessions: %w", err)
			}

			out := cmd.OutOrStdout()
			printStatistics(out, stats)
			printHistory(out, history)
			return nil
		},
	}
}

func printStatistics(out io.Writer, s *models.Statistics) {
	headerColor.Fprintf(out, "Statistics for learner %d\n", s.UserID)
	fmt.Fprintf(out, "Total words: %d\n", s.TotalWords)
	goodColor.Fprintf(out, "Mastered: %d\n", s.MasteredWords)
	fmt.Fprintf(out, "Due today: %d\n", s.DueToday)
	fmt.Fprintf(out, "Reviews: %d (correct %d, incorrect %d)\n", s.TotalReviews, s.TotalCorrect, s.TotalIncorrect)
	fmt.Fprintf(out, "Accuracy: %.2f%%\n", s.Accuracy)

	fmt.Fprintln(out, "Boxes:")
	for box := models.MinBox; box <= models.MaxBox; box++ {
		fmt.Fprintf(out, "  %d: %d\n", box, s.BoxDistribution[box])
	}
}

func printHistory(out io.Writer, history []models.StudySession) {
	if len(history) == 0 {
		hintColor.Fprintln(out, "No finished sessions yet")
		return
	}
	fmt.Fprintln(out, "Recent sessions:")
	for _, s := range history {
		fmt.Fprintf(out, "  %s  reviewed %d, correct %d, new %d\n",
			s.StartedAt.Format("2006-01-02 15:04"), s.WordsReviewed, s.WordsCorrect, s.NewWords)
	}
}
