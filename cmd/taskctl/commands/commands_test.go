package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/benvon/taskboard/internal/models"
	"github.com/benvon/taskboard/internal/storage"
	"github.com/benvon/taskboard/internal/store"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var testNow = time.Date(2025, 9, 16, 12, 0, 0, 0, time.UTC)

// memoryOpener reopens the same in-memory backend on every command, so state
// carries over between invocations the way it would with a file backend
func memoryOpener(kv *storage.MemoryKV) Opener {
	return func(ctx context.Context, log *zap.Logger) (*store.Store, io.Closer, error) {
		s, err := store.New(ctx, storage.NewJSONPersister(kv),
			store.WithClock(func() time.Time { return testNow }),
			store.WithLocation(time.UTC),
			store.WithLogger(log),
			store.WithoutSampleData(),
		)
		return s, kv, err
	}
}

func run(t *testing.T, open Opener, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd(open)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, open Opener, args ...string) string {
	t.Helper()
	out, err := run(t, open, args...)
	if err != nil {
		t.Fatalf("taskctl %s: unexpected error: %v", strings.Join(args, " "), err)
	}
	return out
}

func TestProjectsAndTasks(t *testing.T) {
	t.Parallel()

	open := memoryOpener(storage.NewMemoryKV())

	var project models.Project
	out := mustRun(t, open, "projects", "add", "--name", "Launch", "--section", "Todo", "--section", "Done", "-o", "json")
	if err := json.Unmarshal([]byte(out), &project); err != nil {
		t.Fatalf("Failed to decode project: %v\n%s", err, out)
	}
	if project.Name != "Launch" || len(project.Sections) != 2 || project.Color != defaultProjectColor {
		t.Fatalf("Unexpected project: %+v", project)
	}
	if project.Sections[1].Position != 1 {
		t.Errorf("Expected second section at position 1, got %d", project.Sections[1].Position)
	}

	todo := project.Sections[0].ID
	var task models.Task
	out = mustRun(t, open, "tasks", "add", "--title", "Write docs", "--project", project.ID,
		"--section", todo, "--priority", "high", "--due", "2025-09-15", "-o", "json")
	if err := json.Unmarshal([]byte(out), &task); err != nil {
		t.Fatalf("Failed to decode task: %v\n%s", err, out)
	}
	if task.Status != models.TaskStatusTodo || !task.CreatedAt.Equal(testNow) {
		t.Errorf("Unexpected task defaults: %+v", task)
	}

	var overdue []models.Task
	out = mustRun(t, open, "tasks", "--overdue", "-o", "json")
	if err := json.Unmarshal([]byte(out), &overdue); err != nil {
		t.Fatalf("Failed to decode tasks: %v", err)
	}
	if len(overdue) != 1 || overdue[0].ID != task.ID {
		t.Errorf("Expected the new task to be overdue, got %+v", overdue)
	}

	out = mustRun(t, open, "tasks", "--project", project.ID)
	if !strings.Contains(out, "Write docs") || !strings.Contains(out, "TITLE") {
		t.Errorf("Expected table output with the task, got:\n%s", out)
	}

	out = mustRun(t, open, "tasks", "--status", "in-progress")
	if !strings.Contains(out, "No tasks") {
		t.Errorf("Expected no in-progress tasks, got:\n%s", out)
	}

	mustRun(t, open, "tasks", "toggle", task.ID)
	var stats models.ProjectStats
	out = mustRun(t, open, "stats", project.ID, "-o", "json")
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatalf("Failed to decode stats: %v", err)
	}
	want := models.ProjectStats{TotalTasks: 1, CompletedTasks: 1, CompletionRate: 100}
	if diff := cmp.Diff(want, stats); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}

	mustRun(t, open, "projects", "delete", project.ID)
	out = mustRun(t, open, "tasks")
	if !strings.Contains(out, "No tasks") {
		t.Errorf("Expected tasks to be removed with their project, got:\n%s", out)
	}
}

func TestCommandErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "bad output format", args: []string{"projects", "-o", "xml"}, wantErr: "unsupported output format"},
		{name: "project name required", args: []string{"projects", "add"}, wantErr: "--name is required"},
		{name: "task needs project", args: []string{"tasks", "add", "--title", "x"}, wantErr: "--project and --section are required"},
		{name: "bad priority", args: []string{"tasks", "--priority", "critical"}, wantErr: "priority"},
		{name: "bad task status", args: []string{"tasks", "--status", "done"}, wantErr: "status"},
		{name: "bad deadline status", args: []string{"deadlines", "--status", "late"}, wantErr: "status"},
		{name: "section without project", args: []string{"tasks", "--section", "s1"}, wantErr: "--section requires --project"},
		{name: "unknown project stats", args: []string{"stats", "missing"}, wantErr: "not found"},
		{name: "bad deadline date", args: []string{"deadlines", "add", "--title", "x", "--due", "soon"}, wantErr: "invalid --due"},
		{name: "reminder too long", args: []string{"deadlines", "add", "--title", "x", "--due", "2025-10-01", "--remind", "9000"}, wantErr: "--remind"},
		{name: "unknown task", args: []string{"tasks", "toggle", "t-missing"}, wantErr: "not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := run(t, memoryOpener(storage.NewMemoryKV()), tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDeadlinesAndReminders(t *testing.T) {
	t.Parallel()

	open := memoryOpener(storage.NewMemoryKV())

	mustRun(t, open, "deadlines", "add", "--title", "Ship", "--due", "2025-09-17T00:00:00Z", "--remind", "24")
	mustRun(t, open, "deadlines", "add", "--title", "Later", "--due", "2025-12-01", "--remind", "2")

	var report reminderReport
	out := mustRun(t, open, "reminders", "check", "-o", "json")
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("Failed to decode report: %v\n%s", err, out)
	}
	if report.Sent != 1 || len(report.Reminders) != 1 || !strings.Contains(report.Reminders[0].Message, "Ship") {
		t.Fatalf("Unexpected reminder report: %+v", report)
	}

	out = mustRun(t, open, "reminders", "check")
	if !strings.Contains(out, "No reminders due") {
		t.Errorf("Expected reminders to be sent only once, got:\n%s", out)
	}

	var upcoming []models.Deadline
	out = mustRun(t, open, "deadlines", "--upcoming", "24", "-o", "json")
	if err := json.Unmarshal([]byte(out), &upcoming); err != nil {
		t.Fatalf("Failed to decode deadlines: %v", err)
	}
	if len(upcoming) != 1 || upcoming[0].Title != "Ship" {
		t.Fatalf("Unexpected upcoming deadlines: %+v", upcoming)
	}

	mustRun(t, open, "deadlines", "toggle", upcoming[0].ID)
	out = mustRun(t, open, "deadlines", "clear-completed", "-o", "json")
	if strings.TrimSpace(out) != `{
  "count": 1
}` {
		t.Errorf("Unexpected clear output: %s", out)
	}
}

func TestOverviewOutputs(t *testing.T) {
	t.Parallel()

	open := memoryOpener(storage.NewMemoryKV())
	mustRun(t, open, "projects", "add", "--name", "Garden", "--section", "Beds")

	var res searchResult
	out := mustRun(t, open, "search", "gard", "-o", "yaml")
	if err := yaml.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("Failed to decode yaml: %v\n%s", err, out)
	}
	if res.Query != "gard" || len(res.Projects) != 1 {
		t.Errorf("Unexpected search result: %+v", res)
	}

	var snap storage.Snapshot
	out = mustRun(t, open, "export")
	if err := json.Unmarshal([]byte(out), &snap); err != nil {
		t.Fatalf("Expected export to fall back to JSON: %v", err)
	}
	if len(snap.Projects) != 1 {
		t.Errorf("Expected 1 exported project, got %d", len(snap.Projects))
	}

	out = mustRun(t, open, "dashboard")
	if !strings.Contains(out, "Projects:") || !strings.Contains(out, "Garden") {
		t.Errorf("Unexpected dashboard output:\n%s", out)
	}
}
