package queue

import (
	"time"

	"github.com/google/uuid"
)

// JobType represents the type of job
type JobType string

const (
	// JobTypeDeadlineReminder asks the worker to deliver a deadline reminder
	JobTypeDeadlineReminder JobType = "deadline_reminder"
)

// ReminderPayload is the part of a deadline a reminder needs to be shown
type ReminderPayload struct {
	Title         string  `json:"title"`
	DueDate       string  `json:"due_date"`
	Priority      string  `json:"priority,omitempty"`
	ProjectID     string  `json:"project_id,omitempty"`
	IntervalHours float64 `json:"interval_hours"`
}

// Job represents a job in the queue
type Job struct {
	ID         uuid.UUID        `json:"id"`
	Type       JobType          `json:"type"`
	DeadlineID string           `json:"deadline_id"`
	Reminder   *ReminderPayload `json:"reminder,omitempty"`
	NotBefore  *time.Time       `json:"not_before,omitempty"` // nil = immediate
	NotAfter   *time.Time       `json:"not_after,omitempty"`  // nil = never expires
	CreatedAt  time.Time        `json:"created_at"`
}

// NewJob creates a new job
func NewJob(jobType JobType, deadlineID string) *Job {
	return &Job{
		ID:         uuid.New(),
		Type:       jobType,
		DeadlineID: deadlineID,
		CreatedAt:  time.Now(),
	}
}

// ShouldProcess checks if the job should be processed now
func (j *Job) ShouldProcess() bool {
	now := time.Now()
	if j.NotBefore != nil && now.Before(*j.NotBefore) {
		return false
	}
	return !j.IsExpired()
}

// IsExpired checks if the job has expired
func (j *Job) IsExpired() bool {
	if j.NotAfter == nil {
		return false
	}
	return time.Now().After(*j.NotAfter)
}
