package models

import "time"

// DeadlineStatus represents the lifecycle state of a deadline.
// DeadlineStatusOverdue is informational; nothing transitions a deadline into it.
type DeadlineStatus string

const (
	DeadlineStatusActive    DeadlineStatus = "active"
	DeadlineStatusOverdue   DeadlineStatus = "overdue"
	DeadlineStatusCompleted DeadlineStatus = "completed"
)

// Reminder configures a one-shot notification fired Interval hours before the due time
type Reminder struct {
	Enabled  bool    `json:"enabled"`
	Interval float64 `json:"interval"`
	Notified bool    `json:"notified"`
}

// Lead returns the reminder interval as a duration
func (r Reminder) Lead() time.Duration {
	return time.Duration(r.Interval * float64(time.Hour))
}

// Deadline is a standalone time-boxed item, optionally linked to a task or project
type Deadline struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	DueDate   string         `json:"dueDate"`
	Priority  Priority       `json:"priority"`
	Status    DeadlineStatus `json:"status"`
	TaskID    string         `json:"taskId,omitempty"`
	ProjectID string         `json:"projectId,omitempty"`
	Reminder  *Reminder      `json:"reminder,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// Clone returns a deep copy of the deadline
func (d Deadline) Clone() Deadline {
	if d.Reminder != nil {
		reminder := *d.Reminder
		d.Reminder = &reminder
	}
	return d
}
