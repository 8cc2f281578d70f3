package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/benvon/taskboard/internal/models"
	"github.com/benvon/taskboard/internal/store"
	"github.com/spf13/cobra"
)

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats [project-id]",
		Short: "Show project statistics, or deadline statistics when no project is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(_ context.Context, s *store.Store) error {
				if len(args) == 0 {
					st := s.DeadlineStats()
					return a.render(cmd.OutOrStdout(), st, fieldTable(
						[2]string{"Total", strconv.Itoa(st.Total)},
						[2]string{"Active", strconv.Itoa(st.Active)},
						[2]string{"Completed", strconv.Itoa(st.Completed)},
						[2]string{"Overdue", strconv.Itoa(st.Overdue)},
						[2]string{"Urgent", strconv.Itoa(st.Urgent)},
						[2]string{"Due today", strconv.Itoa(st.DueToday)},
					))
				}

				if _, ok := s.Project(args[0]); !ok {
					return fmt.Errorf("project %s not found", args[0])
				}
				st := s.ProjectStats(args[0])
				return a.render(cmd.OutOrStdout(), st, fieldTable(
					[2]string{"Total tasks", strconv.Itoa(st.TotalTasks)},
					[2]string{"Completed", strconv.Itoa(st.CompletedTasks)},
					[2]string{"Active", strconv.Itoa(st.ActiveTasks)},
					[2]string{"Overdue", strconv.Itoa(st.OverdueTasks)},
					[2]string{"Completion", pct(st.CompletionRate)},
					[2]string{"Priorities", breakdown(st.PriorityBreakdown)},
				))
			})
		},
	}
}

type searchResult struct {
	Query    string           `json:"query" yaml:"query"`
	Projects []models.Project `json:"projects" yaml:"projects"`
	Tasks    []models.Task    `json:"tasks" yaml:"tasks"`
}

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search project names and task titles, descriptions and tags",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return a.withStore(cmd, func(_ context.Context, s *store.Store) error {
				res := searchResult{
					Query:    query,
					Projects: s.SearchProjects(query),
					Tasks:    s.SearchTasks(query),
				}
				return a.render(cmd.OutOrStdout(), res, func(w io.Writer) error {
					if err := projectTable(res.Projects)(w); err != nil {
						return err
					}
					_, _ = fmt.Fprintln(w)
					return taskTable(res.Tasks)(w)
				})
			})
		},
	}
}

func newDashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the board overview",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(_ context.Context, s *store.Store) error {
				d := s.Dashboard()
				return a.render(cmd.OutOrStdout(), d, func(w io.Writer) error {
					if err := fieldTable(
						[2]string{"Projects", fmt.Sprintf("%d (%d active, %d completed)", d.TotalProjects, d.ActiveProjects, d.CompletedProjects)},
						[2]string{"Tasks", fmt.Sprintf("%d (%d active, %d completed)", d.TotalTasks, d.ActiveTasks, d.CompletedTasks)},
						[2]string{"Overdue", strconv.Itoa(d.OverdueTasks)},
						[2]string{"Urgent", strconv.Itoa(d.UrgentTasks)},
						[2]string{"Completion", pct(d.CompletionRate)},
						[2]string{"Priorities", breakdown(d.TasksByPriority)},
					)(w); err != nil {
						return err
					}
					for _, p := range d.ProjectProgress {
						_, _ = fmt.Fprintf(w, "Progress:\t%s\t%s\n", p.ProjectName, pct(p.Progress))
					}
					_, _ = fmt.Fprintln(w, "\nUpcoming")
					return taskTable(d.UpcomingTasks)(w)
				})
			})
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Dump the whole store; table output falls back to JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(_ context.Context, s *store.Store) error {
				snap := s.Snapshot()
				return a.render(cmd.OutOrStdout(), snap, func(w io.Writer) error {
					enc := json.NewEncoder(w)
					enc.SetIndent("", "  ")
					return enc.Encode(snap)
				})
			})
		},
	}
}

func breakdown(b models.PriorityBreakdown) string {
	return fmt.Sprintf("urgent=%d high=%d medium=%d low=%d", b.Urgent, b.High, b.Medium, b.Low)
}
