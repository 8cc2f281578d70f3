package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/benvon/taskboard/internal/models"
	"github.com/go-playground/validator/v10"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// Register custom validators for enums and stored date strings
	for tag, fn := range map[string]validator.Func{
		"priority":        validatePriority,
		"task_status":     validateTaskStatus,
		"deadline_status": validateDeadlineStatus,
		"date":            validateDate,
	} {
		if err := Validate.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("failed to register %s validator: %v", tag, err))
		}
	}
}

func validatePriority(fl validator.FieldLevel) bool {
	return ValidatePriority(fl.Field().String()) == nil
}

func validateTaskStatus(fl validator.FieldLevel) bool {
	return ValidateTaskStatus(fl.Field().String()) == nil
}

func validateDeadlineStatus(fl validator.FieldLevel) bool {
	return ValidateDeadlineStatus(fl.Field().String()) == nil
}

// validateDate accepts anything models.ParseDate understands
func validateDate(fl validator.FieldLevel) bool {
	_, err := models.ParseDate(fl.Field().String())
	return err == nil
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	// Remove control characters except newline and tab
	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// ValidatePriority validates a Priority string value
func ValidatePriority(value string) error {
	switch models.Priority(value) {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh, models.PriorityUrgent:
		return nil
	default:
		return fmt.Errorf("invalid priority: %s (must be 'low', 'medium', 'high', or 'urgent')", value)
	}
}

// ValidateTaskStatus validates a TaskStatus string value
func ValidateTaskStatus(value string) error {
	switch models.TaskStatus(value) {
	case models.TaskStatusTodo, models.TaskStatusInProgress, models.TaskStatusCompleted:
		return nil
	default:
		return fmt.Errorf("invalid status: %s (must be 'todo', 'in-progress', or 'completed')", value)
	}
}

// ValidateDeadlineStatus validates a DeadlineStatus string value
func ValidateDeadlineStatus(value string) error {
	switch models.DeadlineStatus(value) {
	case models.DeadlineStatusActive, models.DeadlineStatusOverdue, models.DeadlineStatusCompleted:
		return nil
	default:
		return fmt.Errorf("invalid deadline status: %s (must be 'active', 'overdue', or 'completed')", value)
	}
}
