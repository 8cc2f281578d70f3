package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/benvon/taskboard/internal/models"
	"github.com/benvon/taskboard/internal/store"
	"github.com/benvon/taskboard/internal/workers"
	"github.com/spf13/cobra"
)

type sentReminder struct {
	DeadlineID string `json:"deadlineId" yaml:"deadline_id"`
	Title      string `json:"title" yaml:"title"`
	Message    string `json:"message" yaml:"message"`
}

type reminderReport struct {
	Sent      int            `json:"sent" yaml:"sent"`
	Reminders []sentReminder `json:"reminders" yaml:"reminders"`
}

// collectingNotifier records reminders so they can be printed after the check
type collectingNotifier struct {
	loc  *time.Location
	sent []sentReminder
}

func (n *collectingNotifier) Notify(_ context.Context, d models.Deadline) error {
	n.sent = append(n.sent, sentReminder{
		DeadlineID: d.ID,
		Title:      workers.ReminderTitle,
		Message:    workers.ReminderMessage(d.Title, d.DueDate, n.loc),
	})
	return nil
}

func newRemindersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "List deadlines whose reminder is due",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(_ context.Context, s *store.Store) error {
				due := s.DeadlinesRequiringReminders()
				return a.render(cmd.OutOrStdout(), due, deadlineTable(due))
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Send every due reminder once and mark it notified",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(ctx context.Context, s *store.Store) error {
				notifier := &collectingNotifier{loc: s.Location()}
				scheduler := workers.NewReminderScheduler(s, notifier, 0, a.log, nil)
				sent, err := scheduler.Check(ctx)
				if err != nil {
					return fmt.Errorf("reminder check failed: %w", err)
				}

				report := reminderReport{Sent: sent, Reminders: notifier.sent}
				if report.Reminders == nil {
					report.Reminders = []sentReminder{}
				}
				return a.render(cmd.OutOrStdout(), report, func(w io.Writer) error {
					if sent == 0 {
						_, err := fmt.Fprintln(w, "No reminders due")
						return err
					}
					for _, r := range report.Reminders {
						_, _ = fmt.Fprintf(w, "%s\t%s\n", r.DeadlineID, r.Message)
					}
					return nil
				})
			})
		},
	})
	return cmd
}
