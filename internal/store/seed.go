package store

import (
	"time"

	"github.com/benvon/taskboard/internal/models"
)

func sampleProjects(now time.Time) []models.Project {
	project := func(id, name, color string, completed bool, sections ...models.Section) models.Project {
		for i := range sections {
			sections[i].Position = i
		}
		return models.Project{
			ID:        id,
			Name:      name,
			Color:     color,
			Completed: completed,
			Sections:  sections,
			CreatedAt: now,
			UpdatedAt: now,
			Updates:   []models.Update{},
		}
	}
	section := func(id, name, color string) models.Section {
		return models.Section{ID: id, Name: name, Color: color}
	}

	return []models.Project{
		project("demo-1", "🚀 Website Redesign", "#1976d2", false,
			section("s1", "To Do", "#ff5722"),
			section("s2", "In Progress", "#ff9800"),
			section("s3", "Done", "#4caf50"),
		),
		project("demo-2", "📱 Mobile App Development", "#9c27b0", false,
			section("s4", "Planning", "#2196f3"),
			section("s5", "Development", "#ff9800"),
			section("s6", "Testing", "#ffc107"),
			section("s7", "Completed", "#4caf50"),
		),
		project("demo-3", "💼 Marketing Campaign", "#4caf50", true,
			section("s8", "Research", "#2196f3"),
			section("s9", "Execution", "#ff9800"),
			section("s10", "Completed", "#4caf50"),
		),
	}
}

func sampleTasks(now time.Time) []models.Task {
	completedAt := now
	sub := func(id, title string, done bool) models.Subtask {
		return models.Subtask{ID: id, Title: title, Completed: done}
	}

	tasks := []models.Task{
		{
			ID:          "t1",
			Title:       "Create wireframes for homepage",
			Description: "Design comprehensive wireframes showing layout, navigation, and key sections for the new homepage",
			ProjectID:   "demo-1",
			SectionID:   "s1",
			Status:      models.TaskStatusTodo,
			Priority:    models.PriorityHigh,
			DueDate:     "2025-09-15",
			Tags:        []string{"design", "wireframes", "ux"},
			Subtasks: []models.Subtask{
				sub("st1", "Research competitor layouts", true),
				sub("st2", "Sketch initial concepts", false),
				sub("st3", "Create digital wireframes", false),
			},
		},
		{
			ID:          "t2",
			Title:       "Design new navigation system",
			Description: "Create intuitive and responsive navigation that works across all devices",
			ProjectID:   "demo-1",
			SectionID:   "s2",
			Status:      models.TaskStatusInProgress,
			Priority:    models.PriorityMedium,
			DueDate:     "2025-09-20",
			Tags:        []string{"navigation", "responsive", "accessibility"},
			Subtasks: []models.Subtask{
				sub("st4", "Design mobile menu", true),
				sub("st5", "Create desktop navigation", true),
				sub("st6", "Test accessibility features", false),
			},
		},
		{
			ID:          "t3",
			Title:       "Update brand colors and typography",
			Description: "Implement new brand guidelines across all design elements",
			ProjectID:   "demo-1",
			SectionID:   "s3",
			Status:      models.TaskStatusCompleted,
			Completed:   true,
			Tags:        []string{"branding", "typography", "colors"},
			CompletedAt: &completedAt,
		},
		{
			ID:          "t4",
			Title:       "User research and requirements gathering",
			Description: "Conduct comprehensive user interviews and surveys to understand needs and pain points",
			ProjectID:   "demo-2",
			SectionID:   "s4",
			Status:      models.TaskStatusTodo,
			Priority:    models.PriorityUrgent,
			DueDate:     "2025-09-12",
			Tags:        []string{"research", "user-experience", "requirements"},
			Subtasks: []models.Subtask{
				sub("st7", "Create survey questions", false),
				sub("st8", "Schedule user interviews", false),
				sub("st9", "Analyze research data", false),
			},
		},
		{
			ID:          "t5",
			Title:       "Build authentication system",
			Description: "Implement secure user authentication with social login options",
			ProjectID:   "demo-2",
			SectionID:   "s5",
			Status:      models.TaskStatusInProgress,
			Priority:    models.PriorityHigh,
			DueDate:     "2025-09-25",
			Tags:        []string{"authentication", "security", "backend"},
			Subtasks: []models.Subtask{
				sub("st10", "Set up OAuth providers", true),
				sub("st11", "Implement JWT tokens", true),
				sub("st12", "Add password reset", false),
				sub("st13", "Test security measures", false),
			},
		},
		{
			ID:          "t6",
			Title:       "Implement dark mode support",
			Description: "Add system-wide dark mode toggle with user preferences",
			ProjectID:   "demo-2",
			SectionID:   "s5",
			Status:      models.TaskStatusInProgress,
			Priority:    models.PriorityMedium,
			Position:    1,
			DueDate:     "2025-09-30",
			Tags:        []string{"ui", "themes", "accessibility"},
			Subtasks: []models.Subtask{
				sub("st14", "Design dark theme colors", true),
				sub("st15", "Implement theme switching", false),
				sub("st16", "Test with all components", false),
			},
		},
		{
			ID:          "t7",
			Title:       "Launch social media campaign",
			Description: "Execute comprehensive social media strategy across all platforms",
			ProjectID:   "demo-3",
			SectionID:   "s10",
			Status:      models.TaskStatusCompleted,
			Completed:   true,
			Tags:        []string{"social-media", "marketing", "content"},
			CompletedAt: &completedAt,
		},
		{
			ID:          "t8",
			Title:       "Create email marketing templates",
			Description: "Design responsive email templates for various campaign types",
			ProjectID:   "demo-3",
			SectionID:   "s10",
			Status:      models.TaskStatusCompleted,
			Completed:   true,
			Position:    1,
			Tags:        []string{"email-marketing", "templates", "design"},
			CompletedAt: &completedAt,
		},
		{
			ID:          "t9",
			Title:       "Performance optimization",
			Description: "Optimize application performance and loading times",
			ProjectID:   "demo-2",
			SectionID:   "s6",
			Status:      models.TaskStatusTodo,
			Priority:    models.PriorityHigh,
			DueDate:     "2025-10-05",
			Tags:        []string{"performance", "optimization", "testing"},
			Subtasks: []models.Subtask{
				sub("st17", "Analyze bundle size", false),
				sub("st18", "Implement lazy loading", false),
				sub("st19", "Optimize images", false),
				sub("st20", "Performance testing", false),
			},
		},
	}

	for i := range tasks {
		tasks[i].CreatedAt = now
		tasks[i].UpdatedAt = now
	}
	return tasks
}

func sampleDeadlines(now time.Time) []models.Deadline {
	day := 24 * time.Hour
	deadline := func(id, title string, due time.Time, priority models.Priority, status models.DeadlineStatus, projectID string, reminder models.Reminder) models.Deadline {
		return models.Deadline{
			ID:        id,
			Title:     title,
			DueDate:   due.UTC().Format(time.RFC3339Nano),
			Priority:  priority,
			Status:    status,
			ProjectID: projectID,
			Reminder:  &reminder,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	return []models.Deadline{
		deadline("deadline-1", "🎯 Complete Project Proposal", now.Add(day),
			models.PriorityHigh, models.DeadlineStatusActive, "demo-1",
			models.Reminder{Enabled: true, Interval: 4}),
		deadline("deadline-2", "📊 Submit Monthly Report", now.Add(-2*day),
			models.PriorityUrgent, models.DeadlineStatusActive, "",
			models.Reminder{Enabled: true, Interval: 24, Notified: true}),
		deadline("deadline-3", "🚀 Deploy New Features", now.Add(7*day),
			models.PriorityMedium, models.DeadlineStatusActive, "demo-2",
			models.Reminder{Enabled: true, Interval: 48}),
		deadline("deadline-4", "✅ Code Review Complete", now,
			models.PriorityHigh, models.DeadlineStatusCompleted, "demo-1",
			models.Reminder{Interval: 24}),
		deadline("deadline-5", "🔄 System Maintenance Window", now.Add(3*day),
			models.PriorityLow, models.DeadlineStatusActive, "",
			models.Reminder{Enabled: true, Interval: 72}),
	}
}
