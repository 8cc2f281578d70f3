// Package store owns the project, task and deadline collections and mirrors
// every change to a storage.Persister.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benvon/taskboard/internal/models"
	"github.com/benvon/taskboard/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned by mutations that reference an unknown id
	ErrNotFound = errors.New("not found")
	// ErrDuplicateID is returned by Add* when strict ids are enabled and the id is taken
	ErrDuplicateID = errors.New("duplicate id")
)

// DefaultUpdateUser is recorded on audit entries added without a user
const DefaultUpdateUser = "You"

// Store holds the three collections in memory. All methods are safe for
// concurrent use; each mutation applies its change and then saves the full
// snapshot while holding the write lock.
type Store struct {
	mu        sync.RWMutex
	persister storage.Persister
	logger    *zap.Logger
	now       func() time.Time
	loc       *time.Location
	strictIDs bool
	seed      bool

	projects         []models.Project
	tasks            []models.Task
	deadlines        []models.Deadline
	currentProjectID string
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLocation sets the location used for calendar-date comparisons
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStrictIDs makes Add* reject ids that already exist in the collection
func WithStrictIDs() Option {
	return func(s *Store) { s.strictIDs = true }
}

// WithoutSampleData disables seeding of empty collections
func WithoutSampleData() Option {
	return func(s *Store) { s.seed = false }
}

// New loads the persisted snapshot and seeds sample data into empty collections
func New(ctx context.Context, persister storage.Persister, opts ...Option) (*Store, error) {
	s := &Store{
		persister: persister,
		logger:    zap.NewNop(),
		now:       time.Now,
		loc:       time.Local,
		seed:      true,
	}
	for _, opt := range opts {
		opt(s)
	}

	snap, err := persister.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	s.projects = snap.Projects
	s.tasks = snap.Tasks
	s.deadlines = snap.Deadlines

	if !s.seed {
		return s, nil
	}

	now := s.now()
	if len(s.projects) == 0 {
		s.projects, s.tasks = sampleProjects(now), sampleTasks(now)
		if err := s.save(ctx); err != nil {
			return nil, fmt.Errorf("failed to persist sample projects: %w", err)
		}
		s.logger.Info("seeded_sample_projects",
			zap.Int("projects", len(s.projects)),
			zap.Int("tasks", len(s.tasks)))
	}
	if len(s.deadlines) == 0 {
		s.deadlines = sampleDeadlines(now)
		if err := s.save(ctx); err != nil {
			return nil, fmt.Errorf("failed to persist sample deadlines: %w", err)
		}
		s.logger.Info("seeded_sample_deadlines", zap.Int("deadlines", len(s.deadlines)))
	}
	return s, nil
}

// NewID returns a fresh identifier of the form "<prefix>-<uuid>"
func NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// Now returns the store clock's current time
func (s *Store) Now() time.Time {
	return s.now()
}

// Location returns the location used for calendar-date comparisons
func (s *Store) Location() *time.Location {
	return s.loc
}

// save persists the current collections. Callers must hold the write lock.
func (s *Store) save(ctx context.Context) error {
	return s.persister.Save(ctx, storage.Snapshot{
		Projects:  s.projects,
		Tasks:     s.tasks,
		Deadlines: s.deadlines,
	})
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

func duplicate(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrDuplicateID)
}

func findIndex[T any](items []T, match func(T) bool) int {
	for i, item := range items {
		if match(item) {
			return i
		}
	}
	return -1
}

func (s *Store) projectIndex(id string) int {
	return findIndex(s.projects, func(p models.Project) bool { return p.ID == id })
}

func (s *Store) taskIndex(id string) int {
	return findIndex(s.tasks, func(t models.Task) bool { return t.ID == id })
}

func (s *Store) deadlineIndex(id string) int {
	return findIndex(s.deadlines, func(d models.Deadline) bool { return d.ID == id })
}

// Snapshot returns a deep copy of all three collections
func (s *Store) Snapshot() storage.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return storage.Snapshot{
		Projects:  cloneAll(s.projects, models.Project.Clone),
		Tasks:     cloneAll(s.tasks, models.Task.Clone),
		Deadlines: cloneAll(s.deadlines, models.Deadline.Clone),
	}
}

// Ping checks the persistence backend
func (s *Store) Ping(ctx context.Context) error {
	return s.persister.Ping(ctx)
}

func cloneAll[T any](items []T, clone func(T) T) []T {
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = clone(item)
	}
	return out
}

func filter[T any](items []T, keep func(T) bool, clone func(T) T) []T {
	out := []T{}
	for _, item := range items {
		if keep(item) {
			out = append(out, clone(item))
		}
	}
	return out
}
