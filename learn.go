package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/leitnerbot/internal/session"
	"github.com/example/leitnerbot/pkg/models"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	hintColor   = color.New(color.FgHiBlack)
	goodColor   = color.New(color.FgGreen)
	warnColor   = color.New(color.FgYellow)
	errorColor  = color.New(color.FgRed)
)

func newLearnCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "learn <learner-id>",
		Short: "Study interactively by typing event payloads such as answer:correct",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseUserID(args[0])
			if err != nil {
				return err
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			return runLearn(cmd.Context(), a.sessions, userID, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func runLearn(ctx context.Context, m *session.Manager, userID int64, in io.Reader, out io.Writer) error {
	hintColor.Fprintln(out, "type learn:start to begin, learn:stop to finish")

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		event, err := session.ParseEvent(line)
		if err != nil {
			errorColor.Fprintf(out, "%v\n", err)
			continue
		}

		step, err := m.Dispatch(ctx, userID, event)
		switch {
		case errors.Is(err, models.ErrNothingDue):
			warnColor.Fprintln(out, "Nothing to study today. Come back tomorrow!")
			continue
		case err != nil:
			errorColor.Fprintf(out, "%v\n", err)
			continue
		}

		if step.State == session.StateSummarizing {
			sum, err := m.Summary(ctx, userID)
			if err != nil {
				return err
			}
			printSummary(out, sum)
			continue
		}
		printStep(out, step)
	}
	return scanner.Err()
}

func printStep(out io.Writer, step session.Step) {
	card := step.Card
	if card == nil {
		return
	}

	switch step.State {
	case session.StatePresenting:
		label := ""
		if card.IsNew {
			label = " (new)"
		}
		headerColor.Fprintf(out, "[%d/%d] %s%s\n", card.Position, card.Total, card.Word.Word, label)
		hintColor.Fprintln(out, "answer:correct | answer:incorrect")
	case session.StateAwaitingDifficulty:
		fmt.Fprintf(out, "  %s\n", card.Word.Definition)
		if card.Word.Example != "" {
			fmt.Fprintf(out, "  e.g. %s\n", card.Word.Example)
		}
		if card.Word.Translation != "" {
			fmt.Fprintf(out, "  = %s\n", card.Word.Translation)
		}
		hintColor.Fprintln(out, "difficulty:easy | difficulty:normal | difficulty:hard")
	}
}

func printSummary(out io.Writer, sum session.Summary) {
	headerColor.Fprintln(out, "Session finished")
	fmt.Fprintf(out, "  reviewed:  %d\n", sum.WordsReviewed)
	goodColor.Fprintf(out, "  correct:   %d\n", sum.WordsCorrect)
	fmt.Fprintf(out, "  incorrect: %d\n", sum.WordsIncorrect)
	fmt.Fprintf(out, "  new words: %d\n", sum.NewWordsCovered)
	fmt.Fprintf(out, "  accuracy:  %.0f%%\n", sum.Accuracy*100)
}
