package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	logpkg "github.com/benvon/taskboard/internal/logger"
	"github.com/benvon/taskboard/internal/request"
	"go.uber.org/zap"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Path      string `json:"path"`
	RequestID string `json:"requestId,omitempty"`
}

// ErrorHandler recovers handler panics into a 500 JSON response
func ErrorHandler(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				// panic details stay in the log
				logger.Error("panic_recovered",
					zap.Any("error", rec),
					zap.String("request_id", request.RequestIDFromContext(r.Context())),
					zap.String("method", r.Method),
					zap.String("path", logpkg.SanitizePath(r.URL.Path)),
				)
				if err := writeErrorJSON(w, r, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred"); err != nil {
					logger.Error("failed_to_encode_error_response", zap.Error(err))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// writeErrorJSON answers with the API error envelope
func writeErrorJSON(w http.ResponseWriter, r *http.Request, status int, errorType, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	return json.NewEncoder(w).Encode(ErrorResponse{
		Success:   false,
		Error:     errorType,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Path:      r.URL.Path,
		RequestID: request.RequestIDFromContext(r.Context()),
	})
}
