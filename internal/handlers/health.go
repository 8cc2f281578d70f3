package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(ctx context.Context) error

// Ping calls f
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

const healthCheckTimeout = 5 * time.Second

// HealthChecker handles health check requests
type HealthChecker struct {
	storage Pinger
	queue   Pinger
}

// NewHealthChecker creates a new health checker. A nil queue is reported as not configured.
func NewHealthChecker(storage, queue Pinger) *HealthChecker {
	return &HealthChecker{storage: storage, queue: queue}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthCheck handles the /healthz endpoint. mode=extended probes the storage
// backend and the reminder queue.
func (h *HealthChecker) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	statusCode := http.StatusOK

	if r.URL.Query().Get("mode") == "extended" {
		response.Checks = map[string]string{
			"storage":  h.check(r.Context(), h.storage),
			"rabbitmq": h.check(r.Context(), h.queue),
		}
		for _, result := range response.Checks {
			if result != "healthy" && result != "not configured" {
				response.Status = "unhealthy"
				statusCode = http.StatusServiceUnavailable
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(response)
}

func (h *HealthChecker) check(ctx context.Context, p Pinger) string {
	if p == nil {
		return "not configured"
	}
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		return "unhealthy: " + sanitizeErrorMessage(err.Error())
	}
	return "healthy"
}
