package handlers

import (
	"net/http"

	"github.com/benvon/taskboard/internal/models"
	"github.com/benvon/taskboard/internal/request"
	"github.com/benvon/taskboard/internal/store"
	"github.com/benvon/taskboard/internal/validation"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// DefaultProjectColor is used when a new project has no color
const DefaultProjectColor = "#2196F3"

// ProjectHandler handles project-related requests
type ProjectHandler struct {
	store  *store.Store
	logger *zap.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(s *store.Store, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{store: s, logger: logger}
}

// RegisterRoutes registers project routes on a router already scoped to /projects
func (h *ProjectHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListProjects).Methods("GET")
	r.HandleFunc("", h.CreateProject).Methods("POST")
	r.HandleFunc("/current", h.GetCurrentProject).Methods("GET")
	r.HandleFunc("/current", h.SetCurrentProject).Methods("PUT")
	r.HandleFunc("/{id}", h.GetProject).Methods("GET")
	r.HandleFunc("/{id}", h.UpdateProject).Methods("PATCH")
	r.HandleFunc("/{id}", h.DeleteProject).Methods("DELETE")
	r.HandleFunc("/{id}/toggle", h.ToggleProject).Methods("POST")
	r.HandleFunc("/{id}/stats", h.GetProjectStats).Methods("GET")
	r.HandleFunc("/{id}/updates", h.AddUpdate).Methods("POST")
	r.HandleFunc("/{id}/tasks", h.ListProjectTasks).Methods("GET")
	r.HandleFunc("/{id}/sections", h.AddSection).Methods("POST")
	r.HandleFunc("/{id}/sections/{sectionId}", h.DeleteSection).Methods("DELETE")
	r.HandleFunc("/{id}/sections/{sectionId}/clear-completed", h.ClearCompletedTasks).Methods("POST")
	r.HandleFunc("/{id}/sections/{sectionId}/toggle-all", h.ToggleAllTasks).Methods("POST")
	r.HandleFunc("/{id}/deadlines", h.ListProjectDeadlines).Methods("GET")
}

// CreateProjectRequest represents a create project request
type CreateProjectRequest struct {
	ID          string           `json:"id,omitempty" validate:"omitempty,max=128"`
	Name        string           `json:"name" validate:"required,max=200"`
	Description string           `json:"description,omitempty" validate:"max=2000"`
	Color       string           `json:"color,omitempty" validate:"max=32"`
	Deadline    string           `json:"deadline,omitempty" validate:"omitempty,date"`
	Sections    []models.Section `json:"sections,omitempty"`
}

// UpdateProjectRequest represents a partial project update
type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Color       *string `json:"color,omitempty" validate:"omitempty,max=32"`
	Deadline    *string `json:"deadline,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// SetCurrentProjectRequest selects the current project
type SetCurrentProjectRequest struct {
	ID string `json:"id" validate:"required"`
}

// AddUpdateRequest appends an entry to a project's audit trail
type AddUpdateRequest struct {
	Action string `json:"action" validate:"required,max=500"`
	User   string `json:"user,omitempty" validate:"max=100"`
}

// AddSectionRequest represents a new board section
type AddSectionRequest struct {
	ID    string `json:"id,omitempty" validate:"omitempty,max=128"`
	Name  string `json:"name" validate:"required,max=200"`
	Color string `json:"color,omitempty" validate:"max=32"`
}

// ListProjects lists projects, filtered by name when q is given
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	if q := r.URL.Query().Get("q"); q != "" {
		respondJSON(w, http.StatusOK, h.store.SearchProjects(q))
		return
	}
	respondJSON(w, http.StatusOK, h.store.Projects())
}

// CreateProject adds a new project
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	now := h.store.Now()
	p := models.Project{
		ID:          req.ID,
		Name:        validation.SanitizeText(req.Name),
		Description: validation.SanitizeText(req.Description),
		Color:       req.Color,
		Sections:    req.Sections,
		Deadline:    req.Deadline,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if p.ID == "" {
		p.ID = store.NewID("project")
	}
	if p.Color == "" {
		p.Color = DefaultProjectColor
	}
	if p.Sections == nil {
		p.Sections = []models.Section{}
	}

	if err := h.store.AddProject(r.Context(), p); err != nil {
		respondStoreError(w, r, h.logger, "create project", err)
		return
	}

	h.logger.Info("project_created", zap.String("project_id", p.ID))
	respondJSON(w, http.StatusCreated, p)
}

// GetProject returns one project
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	p, ok := h.store.Project(id)
	if !ok {
		respondJSONError(w, http.StatusNotFound, "Not Found", "project not found: "+id)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// UpdateProject applies a partial update and refreshes updatedAt
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	var req UpdateProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	if req.Deadline != nil && *req.Deadline != "" {
		if _, err := models.ParseDate(*req.Deadline); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
	}

	id := pathID(r, "id")
	p, ok := h.store.Project(id)
	if !ok {
		respondJSONError(w, http.StatusNotFound, "Not Found", "project not found: "+id)
		return
	}

	if req.Name != nil {
		p.Name = validation.SanitizeText(*req.Name)
	}
	if req.Description != nil {
		p.Description = validation.SanitizeText(*req.Description)
	}
	if req.Color != nil {
		p.Color = *req.Color
	}
	if req.Deadline != nil {
		p.Deadline = *req.Deadline
	}
	if req.Completed != nil {
		p.Completed = *req.Completed
	}
	p.UpdatedAt = h.store.Now()

	if err := h.store.EditProject(r.Context(), p); err != nil {
		respondStoreError(w, r, h.logger, "update project", err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// DeleteProject removes a project and its tasks
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	if err := h.store.DeleteProject(r.Context(), id); err != nil {
		respondStoreError(w, r, h.logger, "delete project", err)
		return
	}
	h.logger.Info("project_deleted", zap.String("project_id", id))
	w.WriteHeader(http.StatusNoContent)
}

// ToggleProject flips the completed flag
func (h *ProjectHandler) ToggleProject(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	if err := h.store.ToggleProjectComplete(r.Context(), id); err != nil {
		respondStoreError(w, r, h.logger, "toggle project", err)
		return
	}
	p, _ := h.store.Project(id)
	respondJSON(w, http.StatusOK, p)
}

// GetCurrentProject returns the selected project
func (h *ProjectHandler) GetCurrentProject(w http.ResponseWriter, r *http.Request) {
	p, ok := h.store.CurrentProject()
	if !ok {
		respondJSONError(w, http.StatusNotFound, "Not Found", "no current project")
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// SetCurrentProject selects the current project
func (h *ProjectHandler) SetCurrentProject(w http.ResponseWriter, r *http.Request) {
	var req SetCurrentProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	if !h.store.SetCurrentProject(req.ID) {
		respondJSONError(w, http.StatusNotFound, "Not Found", "project not found: "+req.ID)
		return
	}
	p, _ := h.store.CurrentProject()
	respondJSON(w, http.StatusOK, p)
}

// GetProjectStats returns task statistics for a project
func (h *ProjectHandler) GetProjectStats(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	if _, ok := h.store.Project(id); !ok {
		respondJSONError(w, http.StatusNotFound, "Not Found", "project not found: "+id)
		return
	}
	respondJSON(w, http.StatusOK, h.store.ProjectStats(id))
}

// AddUpdate appends an audit entry; the user defaults to the X-User header
func (h *ProjectHandler) AddUpdate(w http.ResponseWriter, r *http.Request) {
	var req AddUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	user := req.User
	if user == "" {
		user = request.User(r, store.DefaultUpdateUser)
	}

	id := pathID(r, "id")
	if err := h.store.AddUpdate(r.Context(), id, validation.SanitizeText(req.Action), validation.SanitizeText(user)); err != nil {
		respondStoreError(w, r, h.logger, "add project update", err)
		return
	}
	p, _ := h.store.Project(id)
	respondJSON(w, http.StatusCreated, p.Updates)
}

// ListProjectTasks lists a project's tasks, optionally limited to one section
func (h *ProjectHandler) ListProjectTasks(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	if section := r.URL.Query().Get("section"); section != "" {
		respondJSON(w, http.StatusOK, h.store.TasksBySection(id, section))
		return
	}
	respondJSON(w, http.StatusOK, h.store.TasksByProject(id))
}

// ClearCompletedTasks deletes the completed tasks of one section
func (h *ProjectHandler) ClearCompletedTasks(w http.ResponseWriter, r *http.Request) {
	n, err := h.store.ClearCompletedTasks(r.Context(), pathID(r, "id"), pathID(r, "sectionId"))
	if err != nil {
		respondStoreError(w, r, h.logger, "clear completed tasks", err)
		return
	}
	respondJSON(w, http.StatusOK, countResult{Count: n})
}

// ToggleAllTasks completes every task of a section, or reopens them all when all are done
func (h *ProjectHandler) ToggleAllTasks(w http.ResponseWriter, r *http.Request) {
	completed, err := h.store.ToggleAllTasks(r.Context(), pathID(r, "id"), pathID(r, "sectionId"))
	if err != nil {
		respondStoreError(w, r, h.logger, "toggle all tasks", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"completed": completed})
}

// AddSection appends a section to a project
func (h *ProjectHandler) AddSection(w http.ResponseWriter, r *http.Request) {
	var req AddSectionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	section, err := h.store.AddSection(r.Context(), pathID(r, "id"), models.Section{
		ID:    req.ID,
		Name:  validation.SanitizeText(req.Name),
		Color: req.Color,
	})
	if err != nil {
		respondStoreError(w, r, h.logger, "add section", err)
		return
	}
	respondJSON(w, http.StatusCreated, section)
}

// DeleteSection removes a section and the tasks in it
func (h *ProjectHandler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteSection(r.Context(), pathID(r, "id"), pathID(r, "sectionId")); err != nil {
		respondStoreError(w, r, h.logger, "delete section", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListProjectDeadlines lists the deadlines linked to a project
func (h *ProjectHandler) ListProjectDeadlines(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.DeadlinesByProject(pathID(r, "id")))
}
