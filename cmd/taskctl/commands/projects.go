package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/benvon/taskboard/internal/models"
	"github.com/benvon/taskboard/internal/store"
	"github.com/benvon/taskboard/internal/validation"
	"github.com/spf13/cobra"
)

const defaultProjectColor = "#2196F3"

func newProjectsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "List and manage projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(_ context.Context, s *store.Store) error {
				projects := s.Projects()
				return a.render(cmd.OutOrStdout(), projects, projectTable(projects))
			})
		},
	}

	cmd.AddCommand(
		newProjectShowCmd(a),
		newProjectAddCmd(a),
		newProjectToggleCmd(a),
		newProjectDeleteCmd(a),
	)
	return cmd
}

func newProjectShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show a project and its sections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(_ context.Context, s *store.Store) error {
				p, ok := s.Project(args[0])
				if !ok {
					return fmt.Errorf("project %s not found", args[0])
				}
				return a.render(cmd.OutOrStdout(), p, func(w io.Writer) error {
					if err := fieldTable(
						[2]string{"ID", p.ID},
						[2]string{"Name", p.Name},
						[2]string{"Description", dash(p.Description)},
						[2]string{"Color", p.Color},
						[2]string{"Deadline", dash(p.Deadline)},
						[2]string{"Completed", strconv.FormatBool(p.Completed)},
					)(w); err != nil {
						return err
					}
					for _, sec := range p.Sections {
						_, _ = fmt.Fprintf(w, "Section:\t%s (%s)\n", sec.Name, sec.ID)
					}
					return nil
				})
			})
		},
	}
}

func newProjectAddCmd(a *app) *cobra.Command {
	var (
		name        string
		description string
		color       string
		deadline    string
		sections    []string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			name = validation.SanitizeText(name)
			if name == "" {
				return fmt.Errorf("--name is required")
			}
			if deadline != "" {
				if _, err := models.ParseDate(deadline); err != nil {
					return fmt.Errorf("invalid --deadline: %w", err)
				}
			}

			return a.withStore(cmd, func(ctx context.Context, s *store.Store) error {
				now := s.Now()
				p := models.Project{
					ID:          store.NewID("project"),
					Name:        name,
					Description: validation.SanitizeText(description),
					Color:       color,
					Sections:    []models.Section{},
					Deadline:    deadline,
					CreatedAt:   now,
					UpdatedAt:   now,
				}
				for i, sectionName := range sections {
					p.Sections = append(p.Sections, models.Section{
						ID:       store.NewID("section"),
						Name:     validation.SanitizeText(sectionName),
						Color:    store.DefaultSectionColor,
						Position: i,
					})
				}
				if err := s.AddProject(ctx, p); err != nil {
					return fmt.Errorf("failed to create project: %w", err)
				}
				return a.render(cmd.OutOrStdout(), p, fieldTable([2]string{"Created project", p.ID}))
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name (required)")
	cmd.Flags().StringVar(&description, "description", "", "Project description")
	cmd.Flags().StringVar(&color, "color", defaultProjectColor, "Project color")
	cmd.Flags().StringVar(&deadline, "deadline", "", "Project deadline (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&sections, "section", nil, "Section name, repeatable")
	return cmd
}

func newProjectToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <project-id>",
		Short: "Flip a project's completed flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(ctx context.Context, s *store.Store) error {
				if err := s.ToggleProjectComplete(ctx, args[0]); err != nil {
					return fmt.Errorf("failed to toggle project: %w", err)
				}
				p, _ := s.Project(args[0])
				return a.render(cmd.OutOrStdout(), p, fieldTable(
					[2]string{"Project", p.ID},
					[2]string{"Completed", strconv.FormatBool(p.Completed)},
				))
			})
		},
	}
}

func newProjectDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a project and its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(ctx context.Context, s *store.Store) error {
				if err := s.DeleteProject(ctx, args[0]); err != nil {
					return fmt.Errorf("failed to delete project: %w", err)
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %s\n", args[0])
				return err
			})
		},
	}
}
