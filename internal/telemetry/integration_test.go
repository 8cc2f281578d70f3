package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/benvon/taskboard/internal/storage"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// TestTraceContextPropagation verifies that storage spans join the request trace
func TestTraceContextPropagation(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	Install(tp)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	kv := storage.Instrument(storage.NewMemoryKV(), "memory", nil)

	r := mux.NewRouter()
	r.Use(otelmux.Middleware("taskboard-api"))
	r.HandleFunc("/api/v1/projects", func(w http.ResponseWriter, r *http.Request) {
		if err := kv.Set(r.Context(), storage.KeyProjects, []byte("[]")); err != nil {
			t.Errorf("Set() error = %v", err)
		}
		w.WriteHeader(http.StatusOK)
	})

	const parentTraceID = "4bf92f3577b34da6a3ce929d0e0e4736"

	tests := []struct {
		name        string
		traceParent string
	}{
		{name: "without existing trace ID"},
		{name: "with existing trace ID", traceParent: "00-" + parentTraceID + "-00f067aa0ba902b7-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exporter.Reset()

			req := httptest.NewRequest("GET", "/api/v1/projects", nil)
			if tt.traceParent != "" {
				req.Header.Set("traceparent", tt.traceParent)
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			if rr.Code != http.StatusOK {
				t.Errorf("Expected status OK, got %d", rr.Code)
			}

			spans := exporter.GetSpans()
			if len(spans) != 2 {
				t.Fatalf("Expected 2 spans, got %d", len(spans))
			}

			// the kv span ends first
			kvSpan, httpSpan := spans[0], spans[1]
			if kvSpan.Name != "kv.set" {
				t.Errorf("Expected kv.set span, got %q", kvSpan.Name)
			}
			if kvSpan.Parent.SpanID() != httpSpan.SpanContext.SpanID() {
				t.Error("Expected kv span to be a child of the request span")
			}
			if kvSpan.SpanContext.TraceID() != httpSpan.SpanContext.TraceID() {
				t.Error("Expected kv span to share the request trace")
			}

			if tt.traceParent != "" {
				want, _ := trace.TraceIDFromHex(parentTraceID)
				if httpSpan.SpanContext.TraceID() != want {
					t.Errorf("Expected trace ID %s, got %s", want, httpSpan.SpanContext.TraceID())
				}
			}
		})
	}
}
