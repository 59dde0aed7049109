package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSettingsCommand() *cobra.Command {
	var (
		limit           int
		reminderTime    string
		reminderEnabled bool
	)

	cmd := &cobra.Command{
		Use:   "settings <learner-id>",
		Short: "Show or change a learner's daily limit and reminder",
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

			user, err := a.users.GetOrCreate(ctx, userID)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("limit") || flags.Changed("reminder-time") || flags.Changed("reminder") {
				if flags.Changed("limit") {
					user.DailyWordLimit = limit
				}
				if flags.Changed("reminder-time") {
					user.ReminderTime = reminderTime
				}
				if flags.Changed("reminder") {
					user.ReminderEnabled = reminderEnabled
				}
				if err := a.users.UpdateSettings(ctx, user); err != nil {
					return fmt.Errorf("failed to update settings: %w", err)
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Daily word limit: %d\n", user.DailyWordLimit)
			fmt.Fprintf(out, "Reminder: %t at %s\n", user.ReminderEnabled, user.ReminderTime)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "words per session (1-100)")
	cmd.Flags().StringVar(&reminderTime, "reminder-time", "", "daily reminder time, HH:MM")
	cmd.Flags().BoolVar(&reminderEnabled, "reminder", true, "enable the daily reminder")
	return cmd
}
