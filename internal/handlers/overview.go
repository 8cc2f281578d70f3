package handlers

import (
	"net/http"

	"github.com/benvon/taskboard/internal/models"
	"github.com/benvon/taskboard/internal/store"
	"github.com/gorilla/mux"
)

// OverviewHandler serves cross-collection reads
type OverviewHandler struct {
	store *store.Store
}

// NewOverviewHandler creates a new overview handler
func NewOverviewHandler(s *store.Store) *OverviewHandler {
	return &OverviewHandler{store: s}
}

// RegisterRoutes registers the dashboard, search and export routes on the API router
func (h *OverviewHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/dashboard", h.GetDashboard).Methods("GET")
	r.HandleFunc("/search", h.Search).Methods("GET")
	r.HandleFunc("/export", h.Export).Methods("GET")
}

// SearchResponse groups matching projects and tasks
type SearchResponse struct {
	Query    string           `json:"query"`
	Projects []models.Project `json:"projects"`
	Tasks    []models.Task    `json:"tasks"`
}

// GetDashboard returns the aggregated overview
func (h *OverviewHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Dashboard())
}

// Search matches projects by name and tasks by title or description
func (h *OverviewHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "query parameter q is required")
		return
	}
	respondJSON(w, http.StatusOK, SearchResponse{
		Query:    q,
		Projects: h.store.SearchProjects(q),
		Tasks:    h.store.SearchTasks(q),
	})
}

// Export returns the full snapshot in the persisted layout
func (h *OverviewHandler) Export(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Snapshot())
}
