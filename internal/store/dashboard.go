package store

import (
	"sort"

	"github.com/benvon/taskboard/internal/models"
)

const dashboardListSize = 5

// Dashboard aggregates the overview shown on the landing page
func (s *Store) Dashboard() models.Dashboard {
	now := s.now()
	today := now.In(s.loc).Format(models.DateLayout)

	s.mu.RLock()
	defer s.mu.RUnlock()

	dash := models.Dashboard{
		TotalProjects:   len(s.projects),
		TotalTasks:      len(s.tasks),
		ProjectProgress: make([]models.ProjectProgress, 0, len(s.projects)),
	}
	for _, p := range s.projects {
		if p.Completed {
			dash.CompletedProjects++
		} else {
			dash.ActiveProjects++
		}
	}

	perProject := make(map[string][2]int) // total, completed
	for _, t := range s.tasks {
		counts := perProject[t.ProjectID]
		counts[0]++
		if t.Completed {
			dash.CompletedTasks++
			counts[1]++
		} else {
			dash.ActiveTasks++
			dash.TasksByPriority.Add(t.Priority)
			if t.Priority == models.PriorityUrgent {
				dash.UrgentTasks++
			}
		}
		if isOverdueOn(t, today) {
			dash.OverdueTasks++
		}
		perProject[t.ProjectID] = counts
	}
	dash.CompletionRate = percent(dash.CompletedTasks, dash.TotalTasks)

	for _, p := range s.projects {
		counts := perProject[p.ID]
		dash.ProjectProgress = append(dash.ProjectProgress, models.ProjectProgress{
			ProjectID:   p.ID,
			ProjectName: p.Name,
			Progress:    percent(counts[1], counts[0]),
		})
	}

	recent := cloneAll(s.tasks, models.Task.Clone)
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].UpdatedAt.After(recent[j].UpdatedAt) })
	dash.RecentTasks = head(recent, dashboardListSize)
	dash.UpcomingTasks = head(upcomingTasks(s.tasks, now, DefaultUpcomingDays), dashboardListSize)
	return dash
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
