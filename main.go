package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configFile string

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "leitnerbot",
		Short:         "Leitner spaced-repetition vocabulary trainer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./leitnerbot.yaml)")

	root.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
		newStatsCommand(),
		newLearnCommand(),
		newAddWordCommand(),
		newWordActiveCommand(),
		newSettingsCommand(),
	)
	return root
}
