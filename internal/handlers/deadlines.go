package handlers

import (
	"net/http"

	"github.com/benvon/taskboard/internal/models"
	"github.com/benvon/taskboard/internal/store"
	"github.com/benvon/taskboard/internal/validation"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// DeadlineHandler handles deadline-related requests
type DeadlineHandler struct {
	store  *store.Store
	logger *zap.Logger
}

// NewDeadlineHandler creates a new deadline handler
func NewDeadlineHandler(s *store.Store, logger *zap.Logger) *DeadlineHandler {
	return &DeadlineHandler{store: s, logger: logger}
}

// RegisterRoutes registers deadline routes on a router already scoped to /deadlines
func (h *DeadlineHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListDeadlines).Methods("GET")
	r.HandleFunc("", h.CreateDeadline).Methods("POST")
	r.HandleFunc("/overdue", h.ListOverdueDeadlines).Methods("GET")
	r.HandleFunc("/upcoming", h.ListUpcomingDeadlines).Methods("GET")
	r.HandleFunc("/stats", h.GetDeadlineStats).Methods("GET")
	r.HandleFunc("/reminders", h.ListDueReminders).Methods("GET")
	r.HandleFunc("/clear-completed", h.ClearCompletedDeadlines).Methods("POST")
	r.HandleFunc("/{id}", h.GetDeadline).Methods("GET")
	r.HandleFunc("/{id}", h.UpdateDeadline).Methods("PATCH")
	r.HandleFunc("/{id}", h.DeleteDeadline).Methods("DELETE")
	r.HandleFunc("/{id}/toggle", h.ToggleDeadline).Methods("POST")
	r.HandleFunc("/{id}/notified", h.MarkNotified).Methods("POST")
}

// ReminderRequest configures a deadline reminder
type ReminderRequest struct {
	Enabled  bool    `json:"enabled"`
	Interval float64 `json:"interval" validate:"gt=0,lte=8760"`
}

// CreateDeadlineRequest represents a create deadline request
type CreateDeadlineRequest struct {
	ID        string           `json:"id,omitempty" validate:"omitempty,max=128"`
	Title     string           `json:"title" validate:"required,max=500"`
	DueDate   string           `json:"dueDate" validate:"required,date"`
	Priority  string           `json:"priority,omitempty" validate:"omitempty,priority"`
	TaskID    string           `json:"taskId,omitempty"`
	ProjectID string           `json:"projectId,omitempty"`
	Reminder  *ReminderRequest `json:"reminder,omitempty"`
}

// UpdateDeadlineRequest represents a partial deadline update
type UpdateDeadlineRequest struct {
	Title     *string          `json:"title,omitempty" validate:"omitempty,min=1,max=500"`
	DueDate   *string          `json:"dueDate,omitempty" validate:"omitempty,date"`
	Priority  *string          `json:"priority,omitempty" validate:"omitempty,priority"`
	Status    *string          `json:"status,omitempty" validate:"omitempty,deadline_status"`
	TaskID    *string          `json:"taskId,omitempty"`
	ProjectID *string          `json:"projectId,omitempty"`
	Reminder  *ReminderRequest `json:"reminder,omitempty"`
}

// newReminder builds a fresh, not yet notified reminder
func (r *ReminderRequest) newReminder() *models.Reminder {
	if r == nil {
		return nil
	}
	return &models.Reminder{Enabled: r.Enabled, Interval: r.Interval}
}

// ListDeadlines lists deadlines, narrowed by project or open ones by priority
func (h *DeadlineHandler) ListDeadlines(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	switch {
	case query.Get("priority") != "":
		priority := query.Get("priority")
		if err := validation.ValidatePriority(priority); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		respondJSON(w, http.StatusOK, h.store.DeadlinesByPriority(models.Priority(priority)))
	case query.Get("project") != "":
		respondJSON(w, http.StatusOK, h.store.DeadlinesByProject(query.Get("project")))
	default:
		respondJSON(w, http.StatusOK, h.store.Deadlines())
	}
}

// CreateDeadline adds a new active deadline; priority defaults to medium
func (h *DeadlineHandler) CreateDeadline(w http.ResponseWriter, r *http.Request) {
	var req CreateDeadlineRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	now := h.store.Now()
	d := models.Deadline{
		ID:        req.ID,
		Title:     validation.SanitizeText(req.Title),
		DueDate:   req.DueDate,
		Priority:  models.Priority(req.Priority),
		Status:    models.DeadlineStatusActive,
		TaskID:    req.TaskID,
		ProjectID: req.ProjectID,
		Reminder:  req.Reminder.newReminder(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if d.ID == "" {
		d.ID = store.NewID("deadline")
	}
	if d.Priority == "" {
		d.Priority = models.PriorityMedium
	}

	if err := h.store.AddDeadline(r.Context(), d); err != nil {
		respondStoreError(w, r, h.logger, "create deadline", err)
		return
	}

	h.logger.Info("deadline_created", zap.String("deadline_id", d.ID))
	respondJSON(w, http.StatusCreated, d)
}

// GetDeadline returns one deadline
func (h *DeadlineHandler) GetDeadline(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	d, ok := h.store.Deadline(id)
	if !ok {
		respondJSONError(w, http.StatusNotFound, "Not Found", "deadline not found: "+id)
		return
	}
	respondJSON(w, http.StatusOK, d)
}

// UpdateDeadline applies a partial update. Changing the due date or the
// reminder re-arms the reminder.
func (h *DeadlineHandler) UpdateDeadline(w http.ResponseWriter, r *http.Request) {
	var req UpdateDeadlineRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	id := pathID(r, "id")
	d, ok := h.store.Deadline(id)
	if !ok {
		respondJSONError(w, http.StatusNotFound, "Not Found", "deadline not found: "+id)
		return
	}

	if req.Title != nil {
		d.Title = validation.SanitizeText(*req.Title)
	}
	if req.DueDate != nil && *req.DueDate != d.DueDate {
		d.DueDate = *req.DueDate
		if d.Reminder != nil {
			d.Reminder.Notified = false
		}
	}
	if req.Priority != nil {
		d.Priority = models.Priority(*req.Priority)
	}
	if req.Status != nil {
		d.Status = models.DeadlineStatus(*req.Status)
	}
	if req.TaskID != nil {
		d.TaskID = *req.TaskID
	}
	if req.ProjectID != nil {
		d.ProjectID = *req.ProjectID
	}
	if req.Reminder != nil {
		d.Reminder = req.Reminder.newReminder()
	}
	d.UpdatedAt = h.store.Now()

	if err := h.store.UpdateDeadline(r.Context(), d); err != nil {
		respondStoreError(w, r, h.logger, "update deadline", err)
		return
	}
	respondJSON(w, http.StatusOK, d)
}

// DeleteDeadline removes a deadline
func (h *DeadlineHandler) DeleteDeadline(w http.ResponseWriter, r *http.Request) {
	if err := h.store.RemoveDeadline(r.Context(), pathID(r, "id")); err != nil {
		respondStoreError(w, r, h.logger, "delete deadline", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleDeadline switches a deadline between completed and active
func (h *DeadlineHandler) ToggleDeadline(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	d, ok := h.store.Deadline(id)
	if !ok {
		respondJSONError(w, http.StatusNotFound, "Not Found", "deadline not found: "+id)
		return
	}
	if d.Status == models.DeadlineStatusCompleted {
		d.Status = models.DeadlineStatusActive
	} else {
		d.Status = models.DeadlineStatusCompleted
	}
	d.UpdatedAt = h.store.Now()

	if err := h.store.UpdateDeadline(r.Context(), d); err != nil {
		respondStoreError(w, r, h.logger, "toggle deadline", err)
		return
	}
	respondJSON(w, http.StatusOK, d)
}

// MarkNotified records that a deadline's reminder was delivered
func (h *DeadlineHandler) MarkNotified(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	if err := h.store.MarkDeadlineNotified(r.Context(), id); err != nil {
		respondStoreError(w, r, h.logger, "mark deadline notified", err)
		return
	}
	d, _ := h.store.Deadline(id)
	respondJSON(w, http.StatusOK, d)
}

// ClearCompletedDeadlines removes every completed deadline
func (h *DeadlineHandler) ClearCompletedDeadlines(w http.ResponseWriter, r *http.Request) {
	n, err := h.store.ClearCompletedDeadlines(r.Context())
	if err != nil {
		respondStoreError(w, r, h.logger, "clear completed deadlines", err)
		return
	}
	respondJSON(w, http.StatusOK, countResult{Count: n})
}

// ListOverdueDeadlines lists open deadlines whose due time has passed
func (h *DeadlineHandler) ListOverdueDeadlines(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.OverdueDeadlines())
}

// ListUpcomingDeadlines lists open deadlines due within the next hours (default 24)
func (h *DeadlineHandler) ListUpcomingDeadlines(w http.ResponseWriter, r *http.Request) {
	hours, err := queryNumber(r, "hours", store.DefaultUpcomingHours)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, h.store.UpcomingDeadlines(hours))
}

// GetDeadlineStats returns deadline counters
func (h *DeadlineHandler) GetDeadlineStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.DeadlineStats())
}

// ListDueReminders lists deadlines whose reminder window is open and not yet notified
func (h *DeadlineHandler) ListDueReminders(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.DeadlinesRequiringReminders())
}
