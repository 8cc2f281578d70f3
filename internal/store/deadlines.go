package store

import (
	"context"

	"github.com/benvon/taskboard/internal/models"
)

// Deadlines returns a copy of every deadline in insertion order
func (s *Store) Deadlines() []models.Deadline {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.deadlines, models.Deadline.Clone)
}

// Deadline returns a copy of the deadline with the given id
func (s *Store) Deadline(id string) (models.Deadline, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.deadlineIndex(id); i >= 0 {
		return s.deadlines[i].Clone(), true
	}
	return models.Deadline{}, false
}

// AddDeadline appends d and persists
func (s *Store) AddDeadline(ctx context.Context, d models.Deadline) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.strictIDs && s.deadlineIndex(d.ID) >= 0 {
		return duplicate("deadline", d.ID)
	}
	s.deadlines = append(s.deadlines, d.Clone())
	return s.save(ctx)
}

// UpdateDeadline replaces the deadline with d's id as given
func (s *Store) UpdateDeadline(ctx context.Context, d models.Deadline) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.deadlineIndex(d.ID)
	if i < 0 {
		return notFound("deadline", d.ID)
	}
	s.deadlines[i] = d.Clone()
	return s.save(ctx)
}

// RemoveDeadline deletes the deadline with the given id
func (s *Store) RemoveDeadline(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.deadlineIndex(id)
	if i < 0 {
		return notFound("deadline", id)
	}
	s.deadlines = append(s.deadlines[:i:i], s.deadlines[i+1:]...)
	return s.save(ctx)
}

// MarkDeadlineNotified records that the deadline's reminder fired. A deadline
// without a reminder is left unchanged.
func (s *Store) MarkDeadlineNotified(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.deadlineIndex(id)
	if i < 0 {
		return notFound("deadline", id)
	}
	if r := s.deadlines[i].Reminder; r != nil {
		s.deadlines[i].Reminder = &models.Reminder{Enabled: r.Enabled, Interval: r.Interval, Notified: true}
	}
	return s.save(ctx)
}

// ClearCompletedDeadlines removes every completed deadline and returns how many were removed
func (s *Store) ClearCompletedDeadlines(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.deadlines)
	s.deadlines = removeWhere(s.deadlines, func(d models.Deadline) bool {
		return d.Status == models.DeadlineStatusCompleted
	})
	return before - len(s.deadlines), s.save(ctx)
}
