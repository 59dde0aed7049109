package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/example/leitnerbot/pkg/models"
)

func newAddWordCommand() *cobra.Command {
	var (
		word    models.Word
		addedBy int64
	)

	cmd := &cobra.Command{
		Use:   "add-word <word>",
		Short: "Add a word to the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			word.Word = args[0]
			if addedBy > 0 {
				word.AddedBy = &addedBy
			}
			if err := a.words.Create(ctx, &word); err != nil {
				return fmt.Errorf("failed to add word: %w", err)
			}

			total, err := a.words.CountActive(ctx)
			if err != nil {
				return err
			}
			goodColor.Fprintf(cmd.OutOrStdout(), "added %q with id %d (%d active words)\n", word.Word, word.ID, total)
			return nil
		},
	}

	cmd.Flags().StringVar(&word.Definition, "definition", "", "definition shown after the answer (required)")
	cmd.Flags().StringVar(&word.Example, "example", "", "usage example")
	cmd.Flags().StringVar(&word.Translation, "translation", "", "translation")
	cmd.Flags().Int64Var(&addedBy, "added-by", 0, "id of the learner who suggested the word")
	_ = cmd.MarkFlagRequired("definition")

	return cmd
}

func newWordActiveCommand() *cobra.Command {
	var active bool

	cmd := &cobra.Command{
		Use:   "set-word-active <word-id>",
		Short: "Activate or deactivate a catalog word",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid word id %q", args[0])
			}

			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.words.SetActive(ctx, id, active); err != nil {
				return fmt.Errorf("failed to update word: %w", err)
			}
			cmd.Printf("word %d active=%t\n", id, active)
			return nil
		},
	}

	cmd.Flags().BoolVar(&active, "active", false, "whether learners are shown the word")
	return cmd
}
