package commands

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/benvon/taskboard/internal/models"
	"github.com/benvon/taskboard/internal/store"
	"github.com/benvon/taskboard/internal/validation"
	"github.com/spf13/cobra"
)

// maxReminderHours bounds the reminder lead time to one year
const maxReminderHours = 8760

func newDeadlinesCmd(a *app) *cobra.Command {
	var (
		projectID string
		priority  string
		status    string
		overdue   bool
		upcoming  float64
	)

	cmd := &cobra.Command{
		Use:     "deadlines",
		Aliases: []string{"deadline"},
		Short:   "List and manage deadlines",
		RunE: func(cmd *cobra.Command, args []string) error {
			if priority != "" {
				if err := validation.ValidatePriority(priority); err != nil {
					return err
				}
			}

			if status != "" {
				if err := validation.ValidateDeadlineStatus(status); err != nil {
					return err
				}
			}

			return a.withStore(cmd, func(_ context.Context, s *store.Store) error {
				var deadlines []models.Deadline
				switch {
				case overdue:
					deadlines = s.OverdueDeadlines()
				case cmd.Flags().Changed("upcoming"):
					if upcoming <= 0 {
						return fmt.Errorf("--upcoming must be positive")
					}
					deadlines = s.UpcomingDeadlines(upcoming)
				case priority != "":
					deadlines = s.DeadlinesByPriority(models.Priority(priority))
				case projectID != "":
					deadlines = s.DeadlinesByProject(projectID)
				default:
					deadlines = s.Deadlines()
				}
				if status != "" {
					deadlines = slices.DeleteFunc(deadlines, func(d models.Deadline) bool {
						return d.Status != models.DeadlineStatus(status)
					})
				}
				return a.render(cmd.OutOrStdout(), deadlines, deadlineTable(deadlines))
			})
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Only deadlines linked to this project")
	cmd.Flags().StringVar(&priority, "priority", "", "Only deadlines with this priority")
	cmd.Flags().StringVar(&status, "status", "", "Only deadlines with this status: active, overdue or completed")
	cmd.Flags().BoolVar(&overdue, "overdue", false, "Only incomplete deadlines already past due")
	cmd.Flags().Float64Var(&upcoming, "upcoming", store.DefaultUpcomingHours, "Only incomplete deadlines due within this many hours")

	cmd.AddCommand(
		newDeadlineAddCmd(a),
		newDeadlineToggleCmd(a),
		newDeadlineDeleteCmd(a),
		newDeadlineClearCmd(a),
	)
	return cmd
}

func newDeadlineAddCmd(a *app) *cobra.Command {
	var (
		title     string
		dueDate   string
		priority  string
		projectID string
		taskID    string
		remind    float64
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a deadline",
		RunE: func(cmd *cobra.Command, args []string) error {
			title = validation.SanitizeText(title)
			if title == "" {
				return fmt.Errorf("--title is required")
			}
			if _, err := models.ParseDate(dueDate); err != nil {
				return fmt.Errorf("invalid --due: %w", err)
			}
			if err := validation.ValidatePriority(priority); err != nil {
				return err
			}
			if remind < 0 || remind > maxReminderHours {
				return fmt.Errorf("--remind must be between 0 and %d hours", maxReminderHours)
			}

			return a.withStore(cmd, func(ctx context.Context, s *store.Store) error {
				now := s.Now()
				d := models.Deadline{
					ID:        store.NewID("deadline"),
					Title:     title,
					DueDate:   dueDate,
					Priority:  models.Priority(priority),
					Status:    models.DeadlineStatusActive,
					TaskID:    taskID,
					ProjectID: projectID,
					CreatedAt: now,
					UpdatedAt: now,
				}
				if remind > 0 {
					d.Reminder = &models.Reminder{Enabled: true, Interval: remind}
				}
				if err := s.AddDeadline(ctx, d); err != nil {
					return fmt.Errorf("failed to create deadline: %w", err)
				}
				return a.render(cmd.OutOrStdout(), d, fieldTable([2]string{"Created deadline", d.ID}))
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Deadline title (required)")
	cmd.Flags().StringVar(&dueDate, "due", "", "Due date or timestamp (required)")
	cmd.Flags().StringVar(&priority, "priority", string(models.PriorityMedium), "Priority: low, medium, high or urgent")
	cmd.Flags().StringVar(&projectID, "project", "", "Linked project id")
	cmd.Flags().StringVar(&taskID, "task", "", "Linked task id")
	cmd.Flags().Float64Var(&remind, "remind", 0, "Send a reminder this many hours before the due date")
	return cmd
}

func newDeadlineToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <deadline-id>",
		Short: "Switch a deadline between completed and active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(ctx context.Context, s *store.Store) error {
				d, ok := s.Deadline(args[0])
				if !ok {
					return fmt.Errorf("deadline %s not found", args[0])
				}
				if d.Status == models.DeadlineStatusCompleted {
					d.Status = models.DeadlineStatusActive
				} else {
					d.Status = models.DeadlineStatusCompleted
				}
				d.UpdatedAt = s.Now()
				if err := s.UpdateDeadline(ctx, d); err != nil {
					return fmt.Errorf("failed to update deadline: %w", err)
				}
				return a.render(cmd.OutOrStdout(), d, fieldTable(
					[2]string{"Deadline", d.ID},
					[2]string{"Status", string(d.Status)},
				))
			})
		},
	}
}

func newDeadlineDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <deadline-id>",
		Short: "Delete a deadline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(ctx context.Context, s *store.Store) error {
				if err := s.RemoveDeadline(ctx, args[0]); err != nil {
					return fmt.Errorf("failed to delete deadline: %w", err)
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Deleted deadline %s\n", args[0])
				return err
			})
		},
	}
}

func newDeadlineClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-completed",
		Short: "Remove every completed deadline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(ctx context.Context, s *store.Store) error {
				n, err := s.ClearCompletedDeadlines(ctx)
				if err != nil {
					return fmt.Errorf("failed to clear deadlines: %w", err)
				}
				return a.render(cmd.OutOrStdout(), map[string]int{"count": n},
					fieldTable([2]string{"Removed", strconv.Itoa(n)}))
			})
		},
	}
}
