package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/leitnerbot/internal/reminder"
	"github.com/example/leitnerbot/internal/session"
)

// logNotifier reports reminded sessions in the log until a transport is attached
type logNotifier struct {
	logger *slog.Logger
}

func (n logNotifier) NotifySession(_ context.Context, userID int64, step session.Step) error {
	attrs := []any{slog.Int64("user_id", userID), slog.String("state", step.State.String())}
	if step.Card != nil {
		attrs = append(attrs,
			slog.String("word", step.Card.Word.Word),
			slog.Int("position", step.Card.Position),
			slog.Int("total", step.Card.Total))
	}
	n.logger.Info("daily session started", attrs...)
	return nil
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the daily reminder service until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.cfg.Reminder.Enabled {
				a.logger.Info("reminders disabled, nothing to serve")
				return nil
			}

			r := reminder.New(a.sessions, a.users, logNotifier{logger: a.logger}, a.cfg.Location(), a.logger)
			if err := r.Start(); err != nil {
				return err
			}
			a.logger.Info("service started, press Ctrl+C to stop", slog.String("timezone", a.cfg.Timezone))

			<-ctx.Done()
			r.Stop()
			a.logger.Info("service stopped")
			return nil
		},
	}
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Connect creates missing tables.
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			cmd.Printf("schema is up to date (%s)\n", a.cfg.Database.Driver)
			return nil
		},
	}
}
