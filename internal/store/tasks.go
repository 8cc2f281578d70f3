package store

import (
	"context"

	"github.com/benvon/taskboard/internal/models"
)

// CopySuffix is appended to the title of duplicated tasks
const CopySuffix = " (Copy)"

// Tasks returns a copy of every task in insertion order
func (s *Store) Tasks() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.tasks, models.Task.Clone)
}

// Task returns a copy of the task with the given id
func (s *Store) Task(id string) (models.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.taskIndex(id); i >= 0 {
		return s.tasks[i].Clone(), true
	}
	return models.Task{}, false
}

// AddTask appends t and persists. Project and section references are not checked.
func (s *Store) AddTask(ctx context.Context, t models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.strictIDs && s.taskIndex(t.ID) >= 0 {
		return duplicate("task", t.ID)
	}
	s.tasks = append(s.tasks, t.Clone())
	return s.save(ctx)
}

// EditTask replaces the task with t's id as given
func (s *Store) EditTask(ctx context.Context, t models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.taskIndex(t.ID)
	if i < 0 {
		return notFound("task", t.ID)
	}
	s.tasks[i] = t.Clone()
	return s.save(ctx)
}

// UpdateTask replaces the task with t's id and stamps UpdatedAt with the
// store clock, ignoring whatever UpdatedAt the caller set.
func (s *Store) UpdateTask(ctx context.Context, t models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.taskIndex(t.ID)
	if i < 0 {
		return notFound("task", t.ID)
	}
	t = t.Clone()
	t.UpdatedAt = s.now()
	s.tasks[i] = t
	return s.save(ctx)
}

// PatchTask merges patch into the task with the given id under the write lock,
// stamps UpdatedAt and returns the stored result.
func (s *Store) PatchTask(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.taskIndex(id)
	if i < 0 {
		return models.Task{}, notFound("task", id)
	}
	patch.Apply(&s.tasks[i])
	s.tasks[i].UpdatedAt = s.now()
	if err := s.save(ctx); err != nil {
		return models.Task{}, err
	}
	return s.tasks[i].Clone(), nil
}

// DeleteTask removes the task with the given id
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.taskIndex(id)
	if i < 0 {
		return notFound("task", id)
	}
	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	return s.save(ctx)
}

// ToggleTaskComplete flips the task's completed flag. Status is left alone.
func (s *Store) ToggleTaskComplete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.taskIndex(id)
	if i < 0 {
		return notFound("task", id)
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	return s.save(ctx)
}

// MoveTaskToSection files the task under sectionID and refreshes UpdatedAt.
// The section is not required to belong to the task's project.
func (s *Store) MoveTaskToSection(ctx context.Context, taskID, sectionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.taskIndex(taskID)
	if i < 0 {
		return notFound("task", taskID)
	}
	s.tasks[i].SectionID = sectionID
	s.tasks[i].UpdatedAt = s.now()
	return s.save(ctx)
}

// DuplicateTask appends a copy of the task with a new id, a " (Copy)" title,
// fresh timestamps and every completion flag cleared. It returns the copy.
func (s *Store) DuplicateTask(ctx context.Context, id string) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.taskIndex(id)
	if i < 0 {
		return models.Task{}, notFound("task", id)
	}

	now := s.now()
	dup := s.tasks[i].Clone()
	dup.ID = NewID("task")
	dup.Title += CopySuffix
	dup.Completed = false
	dup.CreatedAt = now
	dup.UpdatedAt = now
	for j := range dup.Subtasks {
		dup.Subtasks[j].ID = NewID("subtask")
		dup.Subtasks[j].Completed = false
	}

	s.tasks = append(s.tasks, dup)
	return dup.Clone(), s.save(ctx)
}

// BulkUpdateTasks applies patch to every task whose id is listed and refreshes
// their UpdatedAt. Unknown ids are ignored.
func (s *Store) BulkUpdateTasks(ctx context.Context, ids []string, patch models.TaskPatch) error {
	wanted := idSet(ids)
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if _, ok := wanted[s.tasks[i].ID]; ok {
			patch.Apply(&s.tasks[i])
			s.tasks[i].UpdatedAt = now
		}
	}
	return s.save(ctx)
}

// BulkDeleteTasks removes every task whose id is listed. Unknown ids are ignored.
func (s *Store) BulkDeleteTasks(ctx context.Context, ids []string) error {
	wanted := idSet(ids)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = removeWhere(s.tasks, func(t models.Task) bool {
		_, ok := wanted[t.ID]
		return ok
	})
	return s.save(ctx)
}

// ClearCompletedTasks removes the completed tasks of one section and returns
// how many were removed.
func (s *Store) ClearCompletedTasks(ctx context.Context, projectID, sectionID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.tasks)
	s.tasks = removeWhere(s.tasks, func(t models.Task) bool {
		return t.ProjectID == projectID && t.SectionID == sectionID && t.Completed
	})
	return before - len(s.tasks), s.save(ctx)
}

// ToggleAllTasks marks every task of a section complete, or incomplete when
// all of them already are. It returns the completed value that was applied.
func (s *Store) ToggleAllTasks(ctx context.Context, projectID, sectionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var idx []int
	allDone := true
	for i, t := range s.tasks {
		if t.ProjectID == projectID && t.SectionID == sectionID {
			idx = append(idx, i)
			allDone = allDone && t.Completed
		}
	}
	completed := len(idx) == 0 || !allDone

	now := s.now()
	for _, i := range idx {
		s.tasks[i].Completed = completed
		s.tasks[i].UpdatedAt = now
	}
	return completed, s.save(ctx)
}

func idSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
