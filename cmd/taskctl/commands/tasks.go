package commands

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/benvon/taskboard/internal/models"
	"github.com/benvon/taskboard/internal/store"
	"github.com/benvon/taskboard/internal/validation"
	"github.com/spf13/cobra"
)

func newTasksCmd(a *app) *cobra.Command {
	var (
		projectID string
		sectionID string
		priority  string
		status    string
		overdue   bool
		upcoming  int
	)

	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task"},
		Short:   "List and manage tasks",
		Long:    "List tasks. The first of --overdue, --upcoming, --priority, --project with --section, --project selects the tasks; --status narrows the result.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if priority != "" {
				if err := validation.ValidatePriority(priority); err != nil {
					return err
				}
			}
			if status != "" {
				if err := validation.ValidateTaskStatus(status); err != nil {
					return err
				}
			}
			if sectionID != "" && projectID == "" {
				return fmt.Errorf("--section requires --project")
			}

			return a.withStore(cmd, func(_ context.Context, s *store.Store) error {
				var tasks []models.Task
				switch {
				case overdue:
					tasks = s.OverdueTasks()
				case cmd.Flags().Changed("upcoming"):
					if upcoming <= 0 {
						return fmt.Errorf("--upcoming must be positive")
					}
					tasks = s.UpcomingTasks(upcoming)
				case priority != "":
					tasks = s.TasksByPriority(models.Priority(priority))
				case sectionID != "":
					tasks = s.TasksBySection(projectID, sectionID)
				case projectID != "":
					tasks = s.TasksByProject(projectID)
				default:
					tasks = s.Tasks()
				}
				if status != "" {
					tasks = slices.DeleteFunc(tasks, func(t models.Task) bool { return t.Status != models.TaskStatus(status) })
				}
				return a.render(cmd.OutOrStdout(), tasks, taskTable(tasks))
			})
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Only tasks in this project")
	cmd.Flags().StringVar(&sectionID, "section", "", "Only tasks in this section of --project")
	cmd.Flags().StringVar(&priority, "priority", "", "Only tasks with this priority")
	cmd.Flags().StringVar(&status, "status", "", "Only tasks with this status: todo, in-progress or completed")
	cmd.Flags().BoolVar(&overdue, "overdue", false, "Only incomplete tasks past their due date")
	cmd.Flags().IntVar(&upcoming, "upcoming", store.DefaultUpcomingDays, "Only incomplete tasks due within this many days")

	cmd.AddCommand(
		newTaskAddCmd(a),
		newTaskToggleCmd(a),
		newTaskMoveCmd(a),
		newTaskDuplicateCmd(a),
		newTaskDeleteCmd(a),
	)
	return cmd
}

func newTaskAddCmd(a *app) *cobra.Command {
	var (
		title       string
		description string
		projectID   string
		sectionID   string
		priority    string
		dueDate     string
		tags        []string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			title = validation.SanitizeText(title)
			if title == "" {
				return fmt.Errorf("--title is required")
			}
			if projectID == "" || sectionID == "" {
				return fmt.Errorf("--project and --section are required")
			}
			if priority != "" {
				if err := validation.ValidatePriority(priority); err != nil {
					return err
				}
			}
			if dueDate != "" {
				if _, err := models.ParseDate(dueDate); err != nil {
					return fmt.Errorf("invalid --due: %w", err)
				}
			}

			return a.withStore(cmd, func(ctx context.Context, s *store.Store) error {
				now := s.Now()
				t := models.Task{
					ID:          store.NewID("task"),
					Title:       title,
					Description: validation.SanitizeText(description),
					ProjectID:   projectID,
					SectionID:   sectionID,
					Status:      models.TaskStatusTodo,
					Priority:    models.Priority(priority),
					DueDate:     dueDate,
					Tags:        tags,
					CreatedAt:   now,
					UpdatedAt:   now,
					Position:    len(s.TasksBySection(projectID, sectionID)),
				}
				if err := s.AddTask(ctx, t); err != nil {
					return fmt.Errorf("failed to create task: %w", err)
				}
				return a.render(cmd.OutOrStdout(), t, fieldTable([2]string{"Created task", t.ID}))
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Task title (required)")
	cmd.Flags().StringVar(&description, "description", "", "Task description")
	cmd.Flags().StringVar(&projectID, "project", "", "Project id (required)")
	cmd.Flags().StringVar(&sectionID, "section", "", "Section id (required)")
	cmd.Flags().StringVar(&priority, "priority", "", "Priority: low, medium, high or urgent")
	cmd.Flags().StringVar(&dueDate, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag, repeatable")
	return cmd
}

func newTaskToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <task-id>",
		Short: "Flip a task's completed flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(ctx context.Context, s *store.Store) error {
				if err := s.ToggleTaskComplete(ctx, args[0]); err != nil {
					return fmt.Errorf("failed to toggle task: %w", err)
				}
				t, _ := s.Task(args[0])
				return a.render(cmd.OutOrStdout(), t, fieldTable(
					[2]string{"Task", t.ID},
					[2]string{"Completed", strconv.FormatBool(t.Completed)},
				))
			})
		},
	}
}

func newTaskMoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "move <task-id> <section-id>",
		Short: "Move a task to another section",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(ctx context.Context, s *store.Store) error {
				if err := s.MoveTaskToSection(ctx, args[0], args[1]); err != nil {
					return fmt.Errorf("failed to move task: %w", err)
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Moved task %s to section %s\n", args[0], args[1])
				return err
			})
		},
	}
}

func newTaskDuplicateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "duplicate <task-id>",
		Short: "Copy a task as a new todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(ctx context.Context, s *store.Store) error {
				t, err := s.DuplicateTask(ctx, args[0])
				if err != nil {
					return fmt.Errorf("failed to duplicate task: %w", err)
				}
				return a.render(cmd.OutOrStdout(), t, fieldTable([2]string{"Created task", t.ID}))
			})
		},
	}
}

func newTaskDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id>...",
		Short: "Delete one or more tasks; unknown ids are ignored",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(ctx context.Context, s *store.Store) error {
				if err := s.BulkDeleteTasks(ctx, args); err != nil {
					return fmt.Errorf("failed to delete tasks: %w", err)
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", strings.Join(args, ", "))
				return err
			})
		},
	}
}
