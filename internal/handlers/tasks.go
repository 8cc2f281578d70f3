package handlers

import (
	"net/http"

	"github.com/benvon/taskboard/internal/models"
	"github.com/benvon/taskboard/internal/store"
	"github.com/benvon/taskboard/internal/validation"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// TaskHandler handles task-related requests
type TaskHandler struct {
	store  *store.Store
	logger *zap.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(s *store.Store, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{store: s, logger: logger}
}

// RegisterRoutes registers task routes on a router already scoped to /tasks
func (h *TaskHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListTasks).Methods("GET")
	r.HandleFunc("", h.CreateTask).Methods("POST")
	r.HandleFunc("/overdue", h.ListOverdueTasks).Methods("GET")
	r.HandleFunc("/upcoming", h.ListUpcomingTasks).Methods("GET")
	r.HandleFunc("/bulk-update", h.BulkUpdateTasks).Methods("POST")
	r.HandleFunc("/bulk-delete", h.BulkDeleteTasks).Methods("POST")
	r.HandleFunc("/{id}", h.GetTask).Methods("GET")
	r.HandleFunc("/{id}", h.UpdateTask).Methods("PATCH")
	r.HandleFunc("/{id}", h.DeleteTask).Methods("DELETE")
	r.HandleFunc("/{id}/toggle", h.ToggleTask).Methods("POST")
	r.HandleFunc("/{id}/move", h.MoveTask).Methods("POST")
	r.HandleFunc("/{id}/duplicate", h.DuplicateTask).Methods("POST")
}

// CreateTaskRequest represents a create task request
type CreateTaskRequest struct {
	ID          string           `json:"id,omitempty" validate:"omitempty,max=128"`
	Title       string           `json:"title" validate:"required,max=500"`
	Description string           `json:"description,omitempty" validate:"max=10000"`
	ProjectID   string           `json:"projectId" validate:"required"`
	SectionID   string           `json:"sectionId" validate:"required"`
	Status      string           `json:"status,omitempty" validate:"omitempty,task_status"`
	Priority    string           `json:"priority,omitempty" validate:"omitempty,priority"`
	StartDate   string           `json:"startDate,omitempty" validate:"omitempty,date"`
	DueDate     string           `json:"dueDate,omitempty" validate:"omitempty,date"`
	Tags        []string         `json:"tags,omitempty" validate:"max=50,dive,max=100"`
	Subtasks    []models.Subtask `json:"subtasks,omitempty"`
	Position    int              `json:"position,omitempty" validate:"min=0"`
}

// BulkUpdateRequest applies one patch to several tasks
type BulkUpdateRequest struct {
	IDs   []string         `json:"ids" validate:"required,min=1"`
	Patch models.TaskPatch `json:"patch"`
}

// BulkDeleteRequest deletes several tasks
type BulkDeleteRequest struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}

// MoveTaskRequest files a task under another section
type MoveTaskRequest struct {
	SectionID string `json:"sectionId" validate:"required"`
}

// ListTasks lists tasks. q searches titles, descriptions and tags, priority lists open
// tasks of that priority, project and section narrow to a board column.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	switch {
	case query.Get("q") != "":
		respondJSON(w, http.StatusOK, h.store.SearchTasks(query.Get("q")))
	case query.Get("priority") != "":
		priority := query.Get("priority")
		if err := validation.ValidatePriority(priority); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		respondJSON(w, http.StatusOK, h.store.TasksByPriority(models.Priority(priority)))
	case query.Get("project") != "" && query.Get("section") != "":
		respondJSON(w, http.StatusOK, h.store.TasksBySection(query.Get("project"), query.Get("section")))
	case query.Get("project") != "":
		respondJSON(w, http.StatusOK, h.store.TasksByProject(query.Get("project")))
	default:
		respondJSON(w, http.StatusOK, h.store.Tasks())
	}
}

// CreateTask adds a new task. Completed follows the initial status.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	now := h.store.Now()
	t := models.Task{
		ID:          req.ID,
		Title:       validation.SanitizeText(req.Title),
		Description: validation.SanitizeText(req.Description),
		ProjectID:   req.ProjectID,
		SectionID:   req.SectionID,
		Status:      models.TaskStatus(req.Status),
		Priority:    models.Priority(req.Priority),
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
		Subtasks:    req.Subtasks,
		CreatedAt:   now,
		UpdatedAt:   now,
		Position:    req.Position,
	}
	if t.ID == "" {
		t.ID = store.NewID("task")
	}
	if t.Status == "" {
		t.Status = models.TaskStatusTodo
	}
	t.Completed = t.Status == models.TaskStatusCompleted
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == "" {
			t.Subtasks[i].ID = store.NewID("subtask")
		}
	}

	if err := h.store.AddTask(r.Context(), t); err != nil {
		respondStoreError(w, r, h.logger, "create task", err)
		return
	}

	h.logger.Info("task_created",
		zap.String("task_id", t.ID),
		zap.String("project_id", t.ProjectID),
	)
	respondJSON(w, http.StatusCreated, t)
}

// GetTask returns one task
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	t, ok := h.store.Task(id)
	if !ok {
		respondJSONError(w, http.StatusNotFound, "Not Found", "task not found: "+id)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

// UpdateTask applies a partial update; updatedAt is refreshed by the store
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var patch models.TaskPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	if err := validatePatchDates(patch); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	t, err := h.store.PatchTask(r.Context(), pathID(r, "id"), patch)
	if err != nil {
		respondStoreError(w, r, h.logger, "update task", err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

// validatePatchDates rejects unparseable non-empty dates; an empty string clears the field
func validatePatchDates(p models.TaskPatch) error {
	for _, d := range []*string{p.StartDate, p.DueDate} {
		if d == nil || *d == "" {
			continue
		}
		if _, err := models.ParseDate(*d); err != nil {
			return err
		}
	}
	return nil
}

// DeleteTask removes a task
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteTask(r.Context(), pathID(r, "id")); err != nil {
		respondStoreError(w, r, h.logger, "delete task", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleTask flips the completed flag; status is left alone
func (h *TaskHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	if err := h.store.ToggleTaskComplete(r.Context(), id); err != nil {
		respondStoreError(w, r, h.logger, "toggle task", err)
		return
	}
	t, _ := h.store.Task(id)
	respondJSON(w, http.StatusOK, t)
}

// MoveTask files a task under another section
func (h *TaskHandler) MoveTask(w http.ResponseWriter, r *http.Request) {
	var req MoveTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	id := pathID(r, "id")
	if err := h.store.MoveTaskToSection(r.Context(), id, req.SectionID); err != nil {
		respondStoreError(w, r, h.logger, "move task", err)
		return
	}
	t, _ := h.store.Task(id)
	respondJSON(w, http.StatusOK, t)
}

// DuplicateTask copies a task and returns the copy
func (h *TaskHandler) DuplicateTask(w http.ResponseWriter, r *http.Request) {
	dup, err := h.store.DuplicateTask(r.Context(), pathID(r, "id"))
	if err != nil {
		respondStoreError(w, r, h.logger, "duplicate task", err)
		return
	}
	respondJSON(w, http.StatusCreated, dup)
}

// BulkUpdateTasks applies one patch to every listed task; unknown ids are skipped
func (h *TaskHandler) BulkUpdateTasks(w http.ResponseWriter, r *http.Request) {
	var req BulkUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	if err := validatePatchDates(req.Patch); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	if err := h.store.BulkUpdateTasks(r.Context(), req.IDs, req.Patch); err != nil {
		respondStoreError(w, r, h.logger, "update tasks", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BulkDeleteTasks removes every listed task; unknown ids are skipped
func (h *TaskHandler) BulkDeleteTasks(w http.ResponseWriter, r *http.Request) {
	var req BulkDeleteRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	if err := h.store.BulkDeleteTasks(r.Context(), req.IDs); err != nil {
		respondStoreError(w, r, h.logger, "delete tasks", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListOverdueTasks lists open tasks whose due date is before today
func (h *TaskHandler) ListOverdueTasks(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.OverdueTasks())
}

// ListUpcomingTasks lists open tasks due within the next days (default 7)
func (h *TaskHandler) ListUpcomingTasks(w http.ResponseWriter, r *http.Request) {
	days, err := queryNumber(r, "days", store.DefaultUpcomingDays)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, h.store.UpcomingTasks(int(days)))
}
