package models

import "time"

// TaskStatus represents the workflow column state of a task
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Priority is shared by tasks and deadlines
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Priorities lists every priority bucket, most pressing first
var Priorities = []Priority{PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow}

// Subtask is a checklist item inside a task
type Subtask struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Task is a unit of work belonging to one project and one section.
// Completed is tracked independently of Status; the two may disagree.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	ProjectID   string     `json:"projectId"`
	SectionID   string     `json:"sectionId"`
	Status      TaskStatus `json:"status"`
	Priority    Priority   `json:"priority,omitempty"`
	StartDate   string     `json:"startDate,omitempty"`
	DueDate     string     `json:"dueDate,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Tags        []string   `json:"tags,omitzero"`
	Subtasks    []Subtask  `json:"subtasks,omitzero"`
	Attachments []string   `json:"attachments,omitzero"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Position    int        `json:"position"`
}

// Clone returns a deep copy of the task
func (t Task) Clone() Task {
	if t.CompletedAt != nil {
		completedAt := *t.CompletedAt
		t.CompletedAt = &completedAt
	}
	t.Tags = cloneSlice(t.Tags)
	t.Subtasks = cloneSlice(t.Subtasks)
	t.Attachments = cloneSlice(t.Attachments)
	return t
}

// TaskPatch carries the fields of a partial task update; nil fields are left untouched
type TaskPatch struct {
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	SectionID   *string     `json:"sectionId,omitempty"`
	Status      *TaskStatus `json:"status,omitempty" validate:"omitempty,task_status"`
	Priority    *Priority   `json:"priority,omitempty" validate:"omitempty,priority"`
	StartDate   *string     `json:"startDate,omitempty"`
	DueDate     *string     `json:"dueDate,omitempty"`
	Tags        *[]string   `json:"tags,omitempty"`
	Completed   *bool       `json:"completed,omitempty"`
	Position    *int        `json:"position,omitempty"`
}

// Apply merges the non-nil patch fields into t
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.SectionID != nil {
		t.SectionID = *p.SectionID
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.StartDate != nil {
		t.StartDate = *p.StartDate
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Tags != nil {
		t.Tags = cloneSlice(*p.Tags)
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Position != nil {
		t.Position = *p.Position
	}
}
