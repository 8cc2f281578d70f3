package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/benvon/taskboard/internal/logger"
	"github.com/benvon/taskboard/internal/request"
	"github.com/benvon/taskboard/internal/store"
	"github.com/benvon/taskboard/internal/validation"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// maxErrorMessageLength bounds messages echoed back to clients
const maxErrorMessageLength = 200

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"success":   true,
		"data":      data,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// sanitizeErrorMessage strips control characters and bounds the length
func sanitizeErrorMessage(message string) string {
	return logger.SanitizeString(message, maxErrorMessageLength)
}

// respondJSONError sends an error JSON response with sanitized error messages
func respondJSONError(w http.ResponseWriter, status int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"success":   false,
		"error":     errorType,
		"message":   sanitizeErrorMessage(message),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// respondStoreError maps store errors onto HTTP statuses. Save failures are
// logged; the in-memory change they follow has already been applied.
func respondStoreError(w http.ResponseWriter, r *http.Request, log *zap.Logger, action string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondJSONError(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, store.ErrDuplicateID):
		respondJSONError(w, http.StatusConflict, "Conflict", err.Error())
	default:
		log.Error("store_operation_failed",
			zap.String("action", action),
			zap.String("request_id", request.RequestIDFromContext(r.Context())),
			zap.String("error", logger.SanitizeError(err)),
		)
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to "+action)
	}
}

// decodeJSON decodes the request body into dst and runs struct validation
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("request body is required")
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := validation.Validate.Struct(dst); err != nil {
		return validationMessage(err)
	}
	return nil
}

// validationMessage flattens validator errors into one readable line
func validationMessage(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return errors.New("validation failed: " + strings.Join(parts, "; "))
}

// pathID returns a mux path variable
func pathID(r *http.Request, name string) string {
	return mux.Vars(r)[name]
}

// queryNumber parses a positive numeric query parameter, falling back to def when absent
func queryNumber(r *http.Request, name string, def float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%s must be a positive number", name)
	}
	return v, nil
}

// countResult is returned by operations that remove or change several items
type countResult struct {
	Count int `json:"count"`
}
