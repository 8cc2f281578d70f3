package store

import (
	"context"

	"github.com/benvon/taskboard/internal/models"
)

// DefaultSectionColor is used by AddSection when no color is given
const DefaultSectionColor = "#ddd"

// Projects returns a copy of every project in insertion order
func (s *Store) Projects() []models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.projects, models.Project.Clone)
}

// Project returns a copy of the project with the given id
func (s *Store) Project(id string) (models.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.projectIndex(id); i >= 0 {
		return s.projects[i].Clone(), true
	}
	return models.Project{}, false
}

// AddProject appends p and persists
func (s *Store) AddProject(ctx context.Context, p models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.strictIDs && s.projectIndex(p.ID) >= 0 {
		return duplicate("project", p.ID)
	}
	s.projects = append(s.projects, p.Clone())
	return s.save(ctx)
}

// EditProject replaces the project with p's id, keeping its position
func (s *Store) EditProject(ctx context.Context, p models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.projectIndex(p.ID)
	if i < 0 {
		return notFound("project", p.ID)
	}
	s.projects[i] = p.Clone()
	return s.save(ctx)
}

// DeleteProject removes the project and every task that belongs to it.
// Deadlines linked to the project are left in place.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.projectIndex(id)
	if i < 0 {
		return notFound("project", id)
	}
	s.projects = append(s.projects[:i:i], s.projects[i+1:]...)
	s.tasks = removeWhere(s.tasks, func(t models.Task) bool { return t.ProjectID == id })
	return s.save(ctx)
}

// ToggleProjectComplete flips the project's completed flag
func (s *Store) ToggleProjectComplete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.projectIndex(id)
	if i < 0 {
		return notFound("project", id)
	}
	s.projects[i].Completed = !s.projects[i].Completed
	return s.save(ctx)
}

// SetCurrentProject points the current-project marker at id, or clears it
// when no such project exists. It reports whether the project was found.
func (s *Store) SetCurrentProject(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.projectIndex(id) < 0 {
		s.currentProjectID = ""
		return false
	}
	s.currentProjectID = id
	return true
}

// CurrentProject returns the project selected with SetCurrentProject
func (s *Store) CurrentProject() (models.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentProjectID == "" {
		return models.Project{}, false
	}
	if i := s.projectIndex(s.currentProjectID); i >= 0 {
		return s.projects[i].Clone(), true
	}
	return models.Project{}, false
}

// AddUpdate appends an audit entry to the project's update trail
func (s *Store) AddUpdate(ctx context.Context, projectID, action, user string) error {
	if user == "" {
		user = DefaultUpdateUser
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.projectIndex(projectID)
	if i < 0 {
		return notFound("project", projectID)
	}
	s.projects[i].Updates = append(s.projects[i].Updates, models.Update{
		User:   user,
		Action: action,
		Date:   s.now(),
	})
	return s.save(ctx)
}

// AddSection appends a section to the project. An empty id or color is filled
// in; the position is the current number of sections.
func (s *Store) AddSection(ctx context.Context, projectID string, section models.Section) (models.Section, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.projectIndex(projectID)
	if i < 0 {
		return models.Section{}, notFound("project", projectID)
	}
	p := &s.projects[i]
	if section.ID == "" {
		section.ID = NewID("section")
	}
	if _, taken := p.Section(section.ID); taken {
		return models.Section{}, duplicate("section", section.ID)
	}
	if section.Color == "" {
		section.Color = DefaultSectionColor
	}
	section.Position = len(p.Sections)
	p.Sections = append(p.Sections, section)
	return section, s.save(ctx)
}

// DeleteSection removes the section and every task of that project filed under it
func (s *Store) DeleteSection(ctx context.Context, projectID, sectionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.projectIndex(projectID)
	if i < 0 {
		return notFound("project", projectID)
	}
	p := &s.projects[i]
	if _, ok := p.Section(sectionID); !ok {
		return notFound("section", sectionID)
	}
	s.tasks = removeWhere(s.tasks, func(t models.Task) bool {
		return t.ProjectID == projectID && t.SectionID == sectionID
	})
	p.Sections = removeWhere(p.Sections, func(sec models.Section) bool { return sec.ID == sectionID })
	return s.save(ctx)
}

func removeWhere[T any](items []T, drop func(T) bool) []T {
	out := items[:0:0]
	for _, item := range items {
		if !drop(item) {
			out = append(out, item)
		}
	}
	return out
}
