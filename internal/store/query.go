package store

import (
	"sort"
	"strings"
	"time"

	"github.com/benvon/taskboard/internal/models"
)

// DefaultUpcomingDays is the task look-ahead used by the dashboard
const DefaultUpcomingDays = 7

// DefaultUpcomingHours is the deadline look-ahead used when none is given
const DefaultUpcomingHours = 24

// dueTime parses a stored due date; ok is false for empty or malformed values
func dueTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := models.ParseDate(s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// TasksByProject returns the tasks whose ProjectID matches
func (s *Store) TasksByProject(projectID string) []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.tasks, func(t models.Task) bool { return t.ProjectID == projectID }, models.Task.Clone)
}

// TasksBySection returns a project's tasks filed under one section
func (s *Store) TasksBySection(projectID, sectionID string) []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.tasks, func(t models.Task) bool {
		return t.ProjectID == projectID && t.SectionID == sectionID
	}, models.Task.Clone)
}

// TasksByPriority returns the incomplete tasks with the given priority
func (s *Store) TasksByPriority(priority models.Priority) []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.tasks, func(t models.Task) bool {
		return t.Priority == priority && !t.Completed
	}, models.Task.Clone)
}

// OverdueTasks returns incomplete tasks whose due date falls before today.
// Only the calendar date is compared.
func (s *Store) OverdueTasks() []models.Task {
	today := s.now().In(s.loc).Format(models.DateLayout)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.tasks, func(t models.Task) bool { return isOverdueOn(t, today) }, models.Task.Clone)
}

func isOverdueOn(t models.Task, today string) bool {
	return t.DueDate != "" && !t.Completed && models.DatePart(t.DueDate) < today
}

// UpcomingTasks returns incomplete tasks due within the next days days,
// soonest first.
func (s *Store) UpcomingTasks(days int) []models.Task {
	now := s.now()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return upcomingTasks(s.tasks, now, days)
}

func upcomingTasks(tasks []models.Task, now time.Time, days int) []models.Task {
	until := now.Add(time.Duration(days) * 24 * time.Hour)

	type dated struct {
		task models.Task
		due  time.Time
	}
	var matches []dated
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		due, ok := dueTime(t.DueDate)
		if !ok || due.Before(now) || due.After(until) {
			continue
		}
		matches = append(matches, dated{task: t, due: due})
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].due.Before(matches[j].due) })

	out := make([]models.Task, len(matches))
	for i, m := range matches {
		out[i] = m.task.Clone()
	}
	return out
}

// ProjectStats summarises the tasks of one project. Overdue here compares the
// full due instant with now.
func (s *Store) ProjectStats(projectID string) models.ProjectStats {
	now := s.now()
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats models.ProjectStats
	for _, t := range s.tasks {
		if t.ProjectID != projectID {
			continue
		}
		stats.TotalTasks++
		if t.Completed {
			stats.CompletedTasks++
			continue
		}
		stats.PriorityBreakdown.Add(t.Priority)
		if due, ok := dueTime(t.DueDate); ok && due.Before(now) {
			stats.OverdueTasks++
		}
	}
	stats.ActiveTasks = stats.TotalTasks - stats.CompletedTasks
	stats.CompletionRate = percent(stats.CompletedTasks, stats.TotalTasks)
	return stats
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// SearchTasks matches query case-insensitively against title, description and tags
func (s *Store) SearchTasks(query string) []models.Task {
	q := strings.ToLower(query)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.tasks, func(t models.Task) bool {
		if contains(t.Title, q) || contains(t.Description, q) {
			return true
		}
		for _, tag := range t.Tags {
			if contains(tag, q) {
				return true
			}
		}
		return false
	}, models.Task.Clone)
}

// SearchProjects matches query case-insensitively against name and description
func (s *Store) SearchProjects(query string) []models.Project {
	q := strings.ToLower(query)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.projects, func(p models.Project) bool {
		return contains(p.Name, q) || contains(p.Description, q)
	}, models.Project.Clone)
}

func contains(s, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(s), lowerQuery)
}

// DeadlinesByProject returns the deadlines linked to a project
func (s *Store) DeadlinesByProject(projectID string) []models.Deadline {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.deadlines, func(d models.Deadline) bool { return d.ProjectID == projectID }, models.Deadline.Clone)
}

// OverdueDeadlines returns uncompleted deadlines whose due time has passed
func (s *Store) OverdueDeadlines() []models.Deadline {
	now := s.now()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.deadlines, func(d models.Deadline) bool { return isDeadlineOverdue(d, now) }, models.Deadline.Clone)
}

func isDeadlineOverdue(d models.Deadline, now time.Time) bool {
	due, ok := dueTime(d.DueDate)
	return ok && due.Before(now) && d.Status != models.DeadlineStatusCompleted
}

// UpcomingDeadlines returns uncompleted deadlines due after now and no later
// than hours from now.
func (s *Store) UpcomingDeadlines(hours float64) []models.Deadline {
	now := s.now()
	until := now.Add(time.Duration(hours * float64(time.Hour)))
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.deadlines, func(d models.Deadline) bool {
		due, ok := dueTime(d.DueDate)
		return ok && due.After(now) && !due.After(until) && d.Status != models.DeadlineStatusCompleted
	}, models.Deadline.Clone)
}

// DeadlinesByPriority returns uncompleted deadlines with the given priority
func (s *Store) DeadlinesByPriority(priority models.Priority) []models.Deadline {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.deadlines, func(d models.Deadline) bool {
		return d.Priority == priority && d.Status != models.DeadlineStatusCompleted
	}, models.Deadline.Clone)
}

// DeadlineStats counts deadlines by state. DueToday compares calendar dates
// in the store location.
func (s *Store) DeadlineStats() models.DeadlineStats {
	now := s.now()
	y, m, d := now.In(s.loc).Date()

	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := models.DeadlineStats{Total: len(s.deadlines)}
	for _, dl := range s.deadlines {
		switch dl.Status {
		case models.DeadlineStatusActive:
			stats.Active++
		case models.DeadlineStatusCompleted:
			stats.Completed++
			continue
		}
		if dl.Priority == models.PriorityUrgent {
			stats.Urgent++
		}
		due, ok := dueTime(dl.DueDate)
		if !ok {
			continue
		}
		if due.Before(now) {
			stats.Overdue++
		}
		if dy, dm, dd := due.In(s.loc).Date(); dy == y && dm == m && dd == d {
			stats.DueToday++
		}
	}
	return stats
}

// DeadlinesRequiringReminders returns the deadlines whose reminder window is
// open: reminder enabled and not yet sent, deadline not completed, and now in
// [due - interval, due).
func (s *Store) DeadlinesRequiringReminders() []models.Deadline {
	now := s.now()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.deadlines, func(d models.Deadline) bool {
		r := d.Reminder
		if r == nil || !r.Enabled || r.Notified || d.Status == models.DeadlineStatusCompleted {
			return false
		}
		due, ok := dueTime(d.DueDate)
		if !ok {
			return false
		}
		return !now.Before(due.Add(-r.Lead())) && now.Before(due)
	}, models.Deadline.Clone)
}
