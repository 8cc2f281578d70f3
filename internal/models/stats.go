package models

// PriorityBreakdown counts non-completed items per priority bucket
type PriorityBreakdown struct {
	Urgent int `json:"urgent" yaml:"urgent"`
	High   int `json:"high" yaml:"high"`
	Medium int `json:"medium" yaml:"medium"`
	Low    int `json:"low" yaml:"low"`
}

// Add counts one item of the given priority; unknown or empty priorities are ignored
func (b *PriorityBreakdown) Add(p Priority) {
	switch p {
	case PriorityUrgent:
		b.Urgent++
	case PriorityHigh:
		b.High++
	case PriorityMedium:
		b.Medium++
	case PriorityLow:
		b.Low++
	}
}

// ProjectStats summarises the tasks of one project
type ProjectStats struct {
	TotalTasks        int               `json:"totalTasks" yaml:"total_tasks"`
	CompletedTasks    int               `json:"completedTasks" yaml:"completed_tasks"`
	ActiveTasks       int               `json:"activeTasks" yaml:"active_tasks"`
	OverdueTasks      int               `json:"overdueTasks" yaml:"overdue_tasks"`
	CompletionRate    float64           `json:"completionRate" yaml:"completion_rate"`
	PriorityBreakdown PriorityBreakdown `json:"priorityBreakdown" yaml:"priority_breakdown"`
}

// DeadlineStats summarises the deadline collection
type DeadlineStats struct {
	Total     int `json:"total" yaml:"total"`
	Active    int `json:"active" yaml:"active"`
	Completed int `json:"completed" yaml:"completed"`
	Overdue   int `json:"overdue" yaml:"overdue"`
	Urgent    int `json:"urgent" yaml:"urgent"`
	DueToday  int `json:"dueToday" yaml:"due_today"`
}

// ProjectProgress is the completion percentage of one project
type ProjectProgress struct {
	ProjectID   string  `json:"projectId" yaml:"project_id"`
	ProjectName string  `json:"projectName" yaml:"project_name"`
	Progress    float64 `json:"progress" yaml:"progress"`
}

// Dashboard aggregates the overview metrics across all projects and tasks
type Dashboard struct {
	TotalProjects     int               `json:"totalProjects" yaml:"total_projects"`
	ActiveProjects    int               `json:"activeProjects" yaml:"active_projects"`
	CompletedProjects int               `json:"completedProjects" yaml:"completed_projects"`
	TotalTasks        int               `json:"totalTasks" yaml:"total_tasks"`
	ActiveTasks       int               `json:"activeTasks" yaml:"active_tasks"`
	CompletedTasks    int               `json:"completedTasks" yaml:"completed_tasks"`
	OverdueTasks      int               `json:"overdueTasks" yaml:"overdue_tasks"`
	UrgentTasks       int               `json:"urgentTasks" yaml:"urgent_tasks"`
	CompletionRate    float64           `json:"completionRate" yaml:"completion_rate"`
	ProjectProgress   []ProjectProgress `json:"projectProgress" yaml:"project_progress"`
	RecentTasks       []Task            `json:"recentTasks" yaml:"recent_tasks"`
	UpcomingTasks     []Task            `json:"upcomingTasks" yaml:"upcoming_tasks"`
	TasksByPriority   PriorityBreakdown `json:"tasksByPriority" yaml:"tasks_by_priority"`
}
