package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/benvon/taskboard/internal/metrics"
	"github.com/benvon/taskboard/internal/models"
	"go.uber.org/zap"
)

// DefaultReminderInterval is how often the scheduler polls for due reminders
const DefaultReminderInterval = time.Minute

// ReminderSource is the part of the store the scheduler needs
type ReminderSource interface {
	DeadlinesRequiringReminders() []models.Deadline
	MarkDeadlineNotified(ctx context.Context, id string) error
}

// Notifier delivers one deadline reminder
type Notifier interface {
	Notify(ctx context.Context, deadline models.Deadline) error
}

// ReminderScheduler periodically sends reminders for deadlines whose reminder
// window has opened and marks them notified. A reminder whose delivery fails
// stays unmarked and is retried on the next poll.
type ReminderScheduler struct {
	source   ReminderSource
	notifier Notifier
	interval time.Duration
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// NewReminderScheduler creates a scheduler. A non-positive interval falls back
// to DefaultReminderInterval; m may be nil.
func NewReminderScheduler(source ReminderSource, notifier Notifier, interval time.Duration, logger *zap.Logger, m *metrics.Metrics) *ReminderScheduler {
	if interval <= 0 {
		interval = DefaultReminderInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderScheduler{
		source:   source,
		notifier: notifier,
		interval: interval,
		logger:   logger,
		metrics:  m,
	}
}

// Start checks immediately and then on every tick until ctx is cancelled
func (s *ReminderScheduler) Start(ctx context.Context) error {
	s.logger.Info("reminder_scheduler_started", zap.Duration("interval", s.interval))

	if _, err := s.Check(ctx); err != nil {
		s.logger.Warn("reminder_check_failed", zap.Error(err))
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("reminder_scheduler_stopped")
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.Check(ctx); err != nil {
				s.logger.Warn("reminder_check_failed", zap.Error(err))
			}
		}
	}
}

// Check sends every due reminder once and returns how many were delivered.
// The returned error reports the first failure; remaining deadlines are still tried.
func (s *ReminderScheduler) Check(ctx context.Context) (int, error) {
	var (
		sent     int
		firstErr error
	)
	for _, d := range s.source.DeadlinesRequiringReminders() {
		if err := ctx.Err(); err != nil {
			return sent, err
		}

		if err := s.notifier.Notify(ctx, d); err != nil {
			s.record("failed")
			s.logger.Warn("reminder_delivery_failed",
				zap.String("deadline_id", d.ID),
				zap.Error(err),
			)
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to notify deadline %s: %w", d.ID, err)
			}
			continue
		}

		if err := s.source.MarkDeadlineNotified(ctx, d.ID); err != nil {
			s.record("mark_failed")
			s.logger.Error("failed_to_mark_deadline_notified",
				zap.String("deadline_id", d.ID),
				zap.Error(err),
			)
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to mark deadline %s notified: %w", d.ID, err)
			}
			continue
		}

		s.record("sent")
		sent++
	}

	if sent > 0 {
		s.logger.Info("reminders_sent", zap.Int("count", sent))
	}
	return sent, firstErr
}

func (s *ReminderScheduler) record(result string) {
	if s.metrics != nil {
		s.metrics.RemindersSent.WithLabelValues(result).Inc()
	}
}
