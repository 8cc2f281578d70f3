package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/benvon/taskboard/internal/logger"
	"github.com/benvon/taskboard/internal/models"
	"github.com/benvon/taskboard/internal/queue"
	"go.uber.org/zap"
)

// ReminderTitle is the heading shown with every reminder
const ReminderTitle = "Deadline Reminder"

const reminderDateLayout = "Jan 2, 2006"

// ReminderMessage renders the user-facing reminder text for a deadline
func ReminderMessage(title, dueDate string, loc *time.Location) string {
	when := dueDate
	if due, err := models.ParseDate(dueDate); err == nil {
		if loc == nil {
			loc = time.Local
		}
		when = due.In(loc).Format(reminderDateLayout)
	}
	return fmt.Sprintf("%s is due on %s", logger.SanitizeString(title, logger.MaxTitleLength), when)
}

// LogNotifier writes reminders to the log
type LogNotifier struct {
	logger *zap.Logger
	loc    *time.Location
}

// NewLogNotifier creates a notifier that logs each reminder at info level
func NewLogNotifier(logger *zap.Logger, loc *time.Location) *LogNotifier {
	return &LogNotifier{logger: logger, loc: loc}
}

var _ Notifier = (*LogNotifier)(nil)

// Notify logs the reminder
func (n *LogNotifier) Notify(_ context.Context, d models.Deadline) error {
	n.logger.Info("deadline_reminder",
		zap.String("deadline_id", d.ID),
		zap.String("title", ReminderTitle),
		zap.String("message", ReminderMessage(d.Title, d.DueDate, n.loc)),
		zap.String("priority", string(d.Priority)),
	)
	return nil
}

// QueueNotifier hands reminders to the worker through the job queue
type QueueNotifier struct {
	queue queue.JobQueue
}

// NewQueueNotifier creates a notifier that enqueues deadline_reminder jobs
func NewQueueNotifier(q queue.JobQueue) *QueueNotifier {
	return &QueueNotifier{queue: q}
}

var _ Notifier = (*QueueNotifier)(nil)

// Notify enqueues a reminder job that expires at the deadline's due time
func (n *QueueNotifier) Notify(ctx context.Context, d models.Deadline) error {
	job := queue.NewJob(queue.JobTypeDeadlineReminder, d.ID)
	job.Reminder = &queue.ReminderPayload{
		Title:     d.Title,
		DueDate:   d.DueDate,
		Priority:  string(d.Priority),
		ProjectID: d.ProjectID,
	}
	if d.Reminder != nil {
		job.Reminder.IntervalHours = d.Reminder.Interval
	}
	if due, err := models.ParseDate(d.DueDate); err == nil {
		job.NotAfter = &due
	}

	if err := n.queue.Enqueue(ctx, job); err != nil {
		return fmt.Errorf("failed to enqueue reminder job: %w", err)
	}
	return nil
}
