package handlers

import (
	"github.com/benvon/taskboard/internal/store"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// RegisterAPI mounts every store-backed resource on an /api/v1 subrouter
func RegisterAPI(api *mux.Router, s *store.Store, logger *zap.Logger) {
	NewProjectHandler(s, logger).RegisterRoutes(api.PathPrefix("/projects").Subrouter())
	NewTaskHandler(s, logger).RegisterRoutes(api.PathPrefix("/tasks").Subrouter())
	NewDeadlineHandler(s, logger).RegisterRoutes(api.PathPrefix("/deadlines").Subrouter())
	NewOverviewHandler(s).RegisterRoutes(api)
}
