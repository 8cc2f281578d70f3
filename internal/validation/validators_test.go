package validation

import (
	"testing"

	"github.com/benvon/taskboard/internal/models"
)

func TestValidateEnums(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		fn      func(string) error
		value   string
		wantErr bool
	}{
		{"priority urgent", ValidatePriority, "urgent", false},
		{"priority low", ValidatePriority, "low", false},
		{"priority unknown", ValidatePriority, "critical", true},
		{"priority empty", ValidatePriority, "", true},
		{"task status todo", ValidateTaskStatus, "todo", false},
		{"task status in-progress", ValidateTaskStatus, "in-progress", false},
		{"task status underscore", ValidateTaskStatus, "in_progress", true},
		{"deadline status overdue", ValidateDeadlineStatus, "overdue", false},
		{"deadline status unknown", ValidateDeadlineStatus, "done", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.fn(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestStructTags(t *testing.T) {
	t.Parallel()

	type input struct {
		Priority string `validate:"required,priority"`
		Status   string `validate:"omitempty,deadline_status"`
		DueDate  string `validate:"required,date"`
	}

	tests := []struct {
		name    string
		in      input
		wantErr bool
	}{
		{"valid", input{Priority: "high", Status: "active", DueDate: "2025-09-20"}, false},
		{"timestamp date", input{Priority: "high", DueDate: "2025-09-20T10:00:00Z"}, false},
		{"bad priority", input{Priority: "nope", DueDate: "2025-09-20"}, true},
		{"bad status", input{Priority: "low", Status: "paused", DueDate: "2025-09-20"}, true},
		{"bad date", input{Priority: "low", DueDate: "next week"}, true},
		{"missing date", input{Priority: "low"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Validate.Struct(tt.in)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate.Struct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTaskPatchTags(t *testing.T) {
	t.Parallel()

	bad := models.TaskStatus("archived")
	if err := Validate.Struct(models.TaskPatch{Status: &bad}); err == nil {
		t.Error("expected invalid status in patch to fail validation")
	}

	good := models.PriorityHigh
	if err := Validate.Struct(models.TaskPatch{Priority: &good}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := Validate.Struct(models.TaskPatch{}); err != nil {
		t.Errorf("empty patch should validate: %v", err)
	}
}

func TestSanitizeText(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want string
	}{
		{"  hello  ", "hello"},
		{"a\x00b\x07c", "abc"},
		{"line\nnext\tcol", "line\nnext\tcol"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SanitizeText(tt.in); got != tt.want {
			t.Errorf("SanitizeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
