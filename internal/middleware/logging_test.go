package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/benvon/taskboard/internal/metrics"
	"github.com/benvon/taskboard/internal/request"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogging(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		method        string
		path          string
		handlerStatus int
	}{
		{"GET request", "GET", "/api/v1/projects", http.StatusOK},
		{"POST request", "POST", "/api/v1/tasks", http.StatusCreated},
		{"404 request", "GET", "/api/v1/tasks/missing", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			core, logs := observer.New(zap.InfoLevel)
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.handlerStatus)
			})

			middleware := RequestID(Logging(zap.New(core), nil)(handler))

			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.Header.Set(request.RequestIDHeader, "req-1")
			w := httptest.NewRecorder()
			middleware.ServeHTTP(w, req)

			if w.Code != tt.handlerStatus {
				t.Errorf("Expected status %d, got %d", tt.handlerStatus, w.Code)
			}

			entries := logs.FilterMessage("http_request").All()
			if len(entries) != 1 {
				t.Fatalf("Expected 1 http_request log entry, got %d", len(entries))
			}
			fields := entries[0].ContextMap()
			if fields["status_code"] != int64(tt.handlerStatus) {
				t.Errorf("Expected status_code %d, got %v", tt.handlerStatus, fields["status_code"])
			}
			if fields["path"] != tt.path {
				t.Errorf("Expected path %q, got %v", tt.path, fields["path"])
			}
			if fields["request_id"] != "req-1" {
				t.Errorf("Expected request_id req-1, got %v", fields["request_id"])
			}
		})
	}
}

func TestLoggingResponseWriter(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("test")) // Ignore error in test
	})

	middleware := Logging(zap.NewNop(), nil)(handler)

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()

	middleware.ServeHTTP(w, req)

	resp := w.Result()
	defer func() {
		_ = resp.Body.Close() // Ignore error in test
	}()

	if resp.StatusCode != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", resp.StatusCode)
	}
}

func TestLogging_RecordsRouteMetrics(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	r := mux.NewRouter()
	r.Use(Logging(zap.NewNop(), m))
	r.HandleFunc("/api/v1/projects/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodDelete)

	for _, id := range []string{"a", "b"} {
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/projects/"+id, nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues(http.MethodDelete, "/api/v1/projects/{id}", "204"))
	if got != 2 {
		t.Errorf("Expected 2 requests on the route template, got %v", got)
	}
}
