package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/benvon/taskboard/internal/metrics"
	"github.com/benvon/taskboard/internal/queue"
	"go.uber.org/zap"
)

// ReminderDelivery consumes deadline_reminder jobs and presents them to the user
type ReminderDelivery struct {
	logger  *zap.Logger
	loc     *time.Location
	metrics *metrics.Metrics
}

// NewReminderDelivery creates a job processor; m may be nil
func NewReminderDelivery(logger *zap.Logger, loc *time.Location, m *metrics.Metrics) *ReminderDelivery {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderDelivery{logger: logger, loc: loc, metrics: m}
}

// ProcessJob delivers one message. Expired, malformed and unknown jobs are
// dead-lettered; jobs before their NotBefore time are requeued; delivered
// jobs are acked.
func (r *ReminderDelivery) ProcessJob(_ context.Context, msg queue.MessageInterface) error {
	job := msg.GetJob()
	if job == nil {
		if nackErr := msg.Nack(false); nackErr != nil {
			r.logger.Warn("failed_to_nack_job", zap.Error(nackErr))
		}
		return fmt.Errorf("message has no job")
	}

	switch job.Type {
	case queue.JobTypeDeadlineReminder:
	default:
		if nackErr := msg.Nack(false); nackErr != nil {
			r.logger.Warn("failed_to_nack_job", zap.String("job_id", job.ID.String()), zap.Error(nackErr))
		}
		return fmt.Errorf("unknown job type: %s", job.Type)
	}

	if !job.ShouldProcess() && !job.IsExpired() {
		r.logger.Debug("reminder_job_not_due",
			zap.String("job_id", job.ID.String()),
			zap.String("deadline_id", job.DeadlineID),
		)
		if nackErr := msg.Nack(true); nackErr != nil {
			return fmt.Errorf("failed to requeue early job: %w", nackErr)
		}
		return nil
	}

	if job.IsExpired() {
		r.logger.Info("reminder_job_expired",
			zap.String("job_id", job.ID.String()),
			zap.String("deadline_id", job.DeadlineID),
		)
		r.record("expired")
		if nackErr := msg.Nack(false); nackErr != nil {
			return fmt.Errorf("failed to nack expired job: %w", nackErr)
		}
		return nil
	}

	if job.Reminder == nil {
		if nackErr := msg.Nack(false); nackErr != nil {
			r.logger.Warn("failed_to_nack_job", zap.String("job_id", job.ID.String()), zap.Error(nackErr))
		}
		return fmt.Errorf("reminder job %s has no payload", job.ID)
	}

	r.logger.Info("deadline_reminder",
		zap.String("job_id", job.ID.String()),
		zap.String("deadline_id", job.DeadlineID),
		zap.String("title", ReminderTitle),
		zap.String("message", ReminderMessage(job.Reminder.Title, job.Reminder.DueDate, r.loc)),
		zap.String("priority", job.Reminder.Priority),
	)
	r.record("delivered")

	if ackErr := msg.Ack(); ackErr != nil {
		return fmt.Errorf("failed to ack reminder job: %w", ackErr)
	}
	return nil
}

func (r *ReminderDelivery) record(result string) {
	if r.metrics != nil {
		r.metrics.RemindersSent.WithLabelValues(result).Inc()
	}
}
