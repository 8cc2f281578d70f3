package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benvon/taskboard/internal/models"
	"github.com/benvon/taskboard/internal/storage"
	"github.com/google/go-cmp/cmp"
)

var testNow = time.Date(2025, 9, 16, 12, 0, 0, 0, time.UTC)

// mockPersister is a hand-written Persister with overridable behaviour
type mockPersister struct {
	loadFunc func(ctx context.Context) (storage.Snapshot, error)
	saveFunc func(ctx context.Context, snap storage.Snapshot) error
	pingFunc func(ctx context.Context) error
	saves    int
}

var _ storage.Persister = (*mockPersister)(nil)

func (m *mockPersister) Load(ctx context.Context) (storage.Snapshot, error) {
	if m.loadFunc != nil {
		return m.loadFunc(ctx)
	}
	return storage.Snapshot{}, nil
}

func (m *mockPersister) Save(ctx context.Context, snap storage.Snapshot) error {
	m.saves++
	if m.saveFunc != nil {
		return m.saveFunc(ctx, snap)
	}
	return nil
}

func (m *mockPersister) Ping(ctx context.Context) error {
	if m.pingFunc != nil {
		return m.pingFunc(ctx)
	}
	return nil
}

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// newTestStore returns an unseeded store over an in-memory backend with a fixed clock
func newTestStore(t *testing.T, opts ...Option) (*Store, *storage.MemoryKV, *fixedClock) {
	t.Helper()
	kv := storage.NewMemoryKV()
	clock := &fixedClock{now: testNow}
	base := []Option{WithClock(clock.Now), WithLocation(time.UTC), WithoutSampleData()}
	s, err := New(context.Background(), storage.NewJSONPersister(kv), append(base, opts...)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s, kv, clock
}

func testProject(id string) models.Project {
	return models.Project{
		ID:        id,
		Name:      "Project " + id,
		Color:     "#fff",
		Sections:  []models.Section{{ID: "s1", Name: "To Do"}, {ID: "s2", Name: "Done", Position: 1}},
		CreatedAt: testNow,
		UpdatedAt: testNow,
		Updates:   []models.Update{},
	}
}

func testTask(id, projectID, sectionID string) models.Task {
	return models.Task{
		ID:        id,
		Title:     "Task " + id,
		ProjectID: projectID,
		SectionID: sectionID,
		Status:    models.TaskStatusTodo,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
}

func mustDo(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_SeedsEmptyStore(t *testing.T) {
	t.Parallel()

	kv := storage.NewMemoryKV()
	s, err := New(context.Background(), storage.NewJSONPersister(kv), WithClock(func() time.Time { return testNow }))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if got := len(s.Projects()); got != 3 {
		t.Errorf("len(Projects()) = %d, want 3", got)
	}
	if got := len(s.Tasks()); got != 9 {
		t.Errorf("len(Tasks()) = %d, want 9", got)
	}
	if got := len(s.Deadlines()); got != 5 {
		t.Errorf("len(Deadlines()) = %d, want 5", got)
	}

	// both seeding paths persisted
	reloaded, err := storage.NewJSONPersister(kv).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(reloaded.Projects) != 3 || len(reloaded.Tasks) != 9 || len(reloaded.Deadlines) != 5 {
		t.Errorf("persisted counts = %d/%d/%d, want 3/9/5",
			len(reloaded.Projects), len(reloaded.Tasks), len(reloaded.Deadlines))
	}
}

func TestNew_SeedsDeadlinesIndependently(t *testing.T) {
	t.Parallel()

	p := &mockPersister{
		loadFunc: func(context.Context) (storage.Snapshot, error) {
			return storage.Snapshot{Projects: []models.Project{testProject("p1")}}, nil
		},
	}
	s, err := New(context.Background(), p, WithClock(func() time.Time { return testNow }))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if got := len(s.Projects()); got != 1 {
		t.Errorf("len(Projects()) = %d, want 1 (existing projects kept)", got)
	}
	if got := len(s.Tasks()); got != 0 {
		t.Errorf("len(Tasks()) = %d, want 0", got)
	}
	if got := len(s.Deadlines()); got != 5 {
		t.Errorf("len(Deadlines()) = %d, want 5", got)
	}
	if p.saves != 1 {
		t.Errorf("saves = %d, want 1", p.saves)
	}
}

func TestNew_WithoutSampleData(t *testing.T) {
	t.Parallel()

	s, kv, _ := newTestStore(t)
	if len(s.Projects()) != 0 || len(s.Tasks()) != 0 || len(s.Deadlines()) != 0 {
		t.Error("expected empty collections")
	}
	if kv.Writes() != 0 {
		t.Errorf("Writes() = %d, want 0", kv.Writes())
	}
}

func TestNew_LoadErrors(t *testing.T) {
	t.Parallel()

	kv := storage.NewMemoryKV()
	mustDo(t, kv.Set(context.Background(), storage.KeyTasks, []byte("{not json")))

	if _, err := New(context.Background(), storage.NewJSONPersister(kv)); err == nil {
		t.Fatal("expected error for malformed stored JSON")
	}
}

func TestNew_SeedSaveFailure(t *testing.T) {
	t.Parallel()

	saveErr := errors.New("disk full")
	p := &mockPersister{saveFunc: func(context.Context, storage.Snapshot) error { return saveErr }}

	if _, err := New(context.Background(), p); !errors.Is(err, saveErr) {
		t.Fatalf("New() error = %v, want %v", err, saveErr)
	}
}

func TestAddProjectThenTask(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	p := models.Project{ID: "p1", Name: "X", Color: "#fff", Sections: []models.Section{},
		CreatedAt: testNow, UpdatedAt: testNow, Updates: []models.Update{}}
	task := models.Task{ID: "t1", ProjectID: "p1", SectionID: "s1", Title: "A",
		Status: models.TaskStatusTodo, CreatedAt: testNow, UpdatedAt: testNow}

	mustDo(t, s.AddProject(ctx, p))
	mustDo(t, s.AddTask(ctx, task))

	got := s.TasksByProject("p1")
	if diff := cmp.Diff([]models.Task{task}, got); diff != "" {
		t.Errorf("TasksByProject(p1) mismatch (-want +got):\n%s", diff)
	}
}

func TestDeleteProject_CascadesToTasksOnly(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	mustDo(t, s.AddProject(ctx, testProject("p1")))
	mustDo(t, s.AddProject(ctx, testProject("p2")))
	mustDo(t, s.AddTask(ctx, testTask("t1", "p1", "s1")))
	mustDo(t, s.AddTask(ctx, testTask("t2", "p1", "s2")))
	mustDo(t, s.AddTask(ctx, testTask("t3", "p2", "s1")))
	mustDo(t, s.AddDeadline(ctx, models.Deadline{ID: "d1", ProjectID: "p1", DueDate: "2025-10-01"}))

	mustDo(t, s.DeleteProject(ctx, "p1"))

	if _, ok := s.Project("p1"); ok {
		t.Error("project p1 still present")
	}
	if got := s.TasksByProject("p1"); len(got) != 0 {
		t.Errorf("TasksByProject(p1) = %d tasks, want 0", len(got))
	}
	if got := s.TasksByProject("p2"); len(got) != 1 {
		t.Errorf("TasksByProject(p2) = %d tasks, want 1", len(got))
	}
	if _, ok := s.Deadline("d1"); !ok {
		t.Error("deadline linked to deleted project was removed")
	}
}

func TestPatchTask(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _, clock := newTestStore(t)

	mustDo(t, s.AddTask(ctx, testTask("t1", "p1", "s1")))
	clock.Advance(time.Hour)

	title := "Renamed"
	got, err := s.PatchTask(ctx, "t1", models.TaskPatch{Title: &title})
	if err != nil {
		t.Fatalf("PatchTask() error = %v", err)
	}
	want := testTask("t1", "p1", "s1")
	want.Title = title
	want.UpdatedAt = clock.Now()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("PatchTask() mismatch (-want +got):\n%s", diff)
	}
	stored, _ := s.Task("t1")
	if diff := cmp.Diff(want, stored); diff != "" {
		t.Errorf("stored task mismatch (-want +got):\n%s", diff)
	}
}

func TestPatchTask_ConcurrentPatchesKeepEveryField(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _, _ := newTestStore(t)
	mustDo(t, s.AddTask(ctx, testTask("t1", "p1", "s1")))

	title := "Renamed"
	high := models.PriorityHigh
	due := "2025-10-01"
	done := true
	patches := []models.TaskPatch{
		{Title: &title},
		{Priority: &high},
		{DueDate: &due},
		{Completed: &done},
	}

	var wg sync.WaitGroup
	for _, p := range patches {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.PatchTask(ctx, "t1", p); err != nil {
				t.Errorf("PatchTask() error = %v", err)
			}
		}()
	}
	wg.Wait()

	got, _ := s.Task("t1")
	if got.Title != title || got.Priority != high || got.DueDate != due || !got.Completed {
		t.Errorf("lost update: %+v", got)
	}
}

func TestUpdateTask_RefreshesUpdatedAt(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _, clock := newTestStore(t)

	mustDo(t, s.AddTask(ctx, testTask("t1", "p1", "s1")))
	clock.Advance(time.Hour)
	callTime := clock.Now()

	edited := testTask("t1", "p1", "s1")
	edited.Title = "Renamed"
	edited.UpdatedAt = testNow.Add(-48 * time.Hour)
	mustDo(t, s.UpdateTask(ctx, edited))

	got, ok := s.Task("t1")
	if !ok {
		t.Fatal("task t1 not found")
	}
	if got.UpdatedAt.Before(callTime) {
		t.Errorf("UpdatedAt = %v, want >= %v", got.UpdatedAt, callTime)
	}
	want := edited
	want.UpdatedAt = got.UpdatedAt
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("task mismatch (-want +got):\n%s", diff)
	}
}

func TestEditTask_KeepsCallerTimestamps(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _, clock := newTestStore(t)

	mustDo(t, s.AddTask(ctx, testTask("t1", "p1", "s1")))
	mustDo(t, s.AddTask(ctx, testTask("t2", "p1", "s1")))
	clock.Advance(time.Hour)

	edited := testTask("t1", "p1", "s2")
	mustDo(t, s.EditTask(ctx, edited))

	tasks := s.Tasks()
	if tasks[0].ID != "t1" || tasks[1].ID != "t2" {
		t.Errorf("order changed: %s, %s", tasks[0].ID, tasks[1].ID)
	}
	if !tasks[0].UpdatedAt.Equal(testNow) || tasks[0].SectionID != "s2" {
		t.Errorf("EditTask() stored %+v", tasks[0])
	}
}

func TestMutations_UnknownID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name string
		call func(s *Store) error
	}{
		{"EditProject", func(s *Store) error { return s.EditProject(ctx, testProject("nope")) }},
		{"DeleteProject", func(s *Store) error { return s.DeleteProject(ctx, "nope") }},
		{"ToggleProjectComplete", func(s *Store) error { return s.ToggleProjectComplete(ctx, "nope") }},
		{"AddUpdate", func(s *Store) error { return s.AddUpdate(ctx, "nope", "edited", "") }},
		{"AddSection", func(s *Store) error { _, err := s.AddSection(ctx, "nope", models.Section{Name: "X"}); return err }},
		{"DeleteSection", func(s *Store) error { return s.DeleteSection(ctx, "p1", "nope") }},
		{"EditTask", func(s *Store) error { return s.EditTask(ctx, testTask("nope", "p1", "s1")) }},
		{"UpdateTask", func(s *Store) error { return s.UpdateTask(ctx, testTask("nope", "p1", "s1")) }},
		{"PatchTask", func(s *Store) error { _, err := s.PatchTask(ctx, "nope", models.TaskPatch{}); return err }},
		{"DeleteTask", func(s *Store) error { return s.DeleteTask(ctx, "nope") }},
		{"ToggleTaskComplete", func(s *Store) error { return s.ToggleTaskComplete(ctx, "nope") }},
		{"MoveTaskToSection", func(s *Store) error { return s.MoveTaskToSection(ctx, "nope", "s2") }},
		{"DuplicateTask", func(s *Store) error { _, err := s.DuplicateTask(ctx, "nope"); return err }},
		{"UpdateDeadline", func(s *Store) error { return s.UpdateDeadline(ctx, models.Deadline{ID: "nope"}) }},
		{"RemoveDeadline", func(s *Store) error { return s.RemoveDeadline(ctx, "nope") }},
		{"MarkDeadlineNotified", func(s *Store) error { return s.MarkDeadlineNotified(ctx, "nope") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, kv, _ := newTestStore(t)
			mustDo(t, s.AddProject(ctx, testProject("p1")))
			writes := kv.Writes()

			err := tt.call(s)
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("error = %v, want ErrNotFound", err)
			}
			if kv.Writes() != writes {
				t.Errorf("failed mutation persisted (%d writes, want %d)", kv.Writes(), writes)
			}
		})
	}
}

func TestStrictIDs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	permissive, _, _ := newTestStore(t)
	mustDo(t, permissive.AddTask(ctx, testTask("t1", "p1", "s1")))
	mustDo(t, permissive.AddTask(ctx, testTask("t1", "p1", "s1")))
	if got := len(permissive.Tasks()); got != 2 {
		t.Errorf("permissive store has %d tasks, want 2", got)
	}

	strict, _, _ := newTestStore(t, WithStrictIDs())
	mustDo(t, strict.AddProject(ctx, testProject("p1")))
	mustDo(t, strict.AddTask(ctx, testTask("t1", "p1", "s1")))
	mustDo(t, strict.AddDeadline(ctx, models.Deadline{ID: "d1"}))

	if err := strict.AddProject(ctx, testProject("p1")); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("AddProject() error = %v, want ErrDuplicateID", err)
	}
	if err := strict.AddTask(ctx, testTask("t1", "p1", "s1")); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("AddTask() error = %v, want ErrDuplicateID", err)
	}
	if err := strict.AddDeadline(ctx, models.Deadline{ID: "d1"}); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("AddDeadline() error = %v, want ErrDuplicateID", err)
	}
}

func TestSaveErrorKeepsChange(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	saveErr := errors.New("backend down")
	p := &mockPersister{saveFunc: func(context.Context, storage.Snapshot) error { return saveErr }}
	s, err := New(ctx, p, WithoutSampleData())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := s.AddProject(ctx, testProject("p1")); !errors.Is(err, saveErr) {
		t.Fatalf("AddProject() error = %v, want %v", err, saveErr)
	}
	if _, ok := s.Project("p1"); !ok {
		t.Error("project not kept in memory after failed save")
	}
}

func TestReadsReturnCopies(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	task := testTask("t1", "p1", "s1")
	task.Tags = []string{"a"}
	task.Subtasks = []models.Subtask{{ID: "st1", Title: "x"}}
	mustDo(t, s.AddTask(ctx, task))

	got, _ := s.Task("t1")
	got.Tags[0] = "mutated"
	got.Subtasks[0].Completed = true
	s.Tasks()[0].Title = "mutated"

	again, _ := s.Task("t1")
	if again.Tags[0] != "a" || again.Subtasks[0].Completed || again.Title != task.Title {
		t.Errorf("store state changed through a returned copy: %+v", again)
	}
}

func TestToggleComplete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	mustDo(t, s.AddProject(ctx, testProject("p1")))
	mustDo(t, s.AddTask(ctx, testTask("t1", "p1", "s1")))

	mustDo(t, s.ToggleProjectComplete(ctx, "p1"))
	mustDo(t, s.ToggleTaskComplete(ctx, "t1"))

	p, _ := s.Project("p1")
	task, _ := s.Task("t1")
	if !p.Completed || !task.Completed {
		t.Fatalf("completed = %v/%v, want true/true", p.Completed, task.Completed)
	}
	if task.Status != models.TaskStatusTodo {
		t.Errorf("Status = %q, toggling must not change status", task.Status)
	}

	mustDo(t, s.ToggleTaskComplete(ctx, "t1"))
	if task, _ = s.Task("t1"); task.Completed {
		t.Error("second toggle did not clear completed")
	}
}

func TestCurrentProject(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, kv, _ := newTestStore(t)
	mustDo(t, s.AddProject(ctx, testProject("p1")))
	writes := kv.Writes()

	if _, ok := s.CurrentProject(); ok {
		t.Error("CurrentProject() set before SetCurrentProject")
	}
	if !s.SetCurrentProject("p1") {
		t.Fatal("SetCurrentProject(p1) = false")
	}
	if p, ok := s.CurrentProject(); !ok || p.ID != "p1" {
		t.Errorf("CurrentProject() = %q, %v", p.ID, ok)
	}
	if s.SetCurrentProject("missing") {
		t.Error("SetCurrentProject(missing) = true")
	}
	if _, ok := s.CurrentProject(); ok {
		t.Error("CurrentProject() not cleared for unknown id")
	}
	if kv.Writes() != writes {
		t.Error("current project selection was persisted")
	}
}

func TestAddUpdate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _, _ := newTestStore(t)
	mustDo(t, s.AddProject(ctx, testProject("p1")))

	mustDo(t, s.AddUpdate(ctx, "p1", "Renamed project", ""))
	mustDo(t, s.AddUpdate(ctx, "p1", "Added section", "alice"))

	p, _ := s.Project("p1")
	want := []models.Update{
		{User: DefaultUpdateUser, Action: "Renamed project", Date: testNow},
		{User: "alice", Action: "Added section", Date: testNow},
	}
	if diff := cmp.Diff(want, p.Updates); diff != "" {
		t.Errorf("Updates mismatch (-want +got):\n%s", diff)
	}
}

func TestMoveTaskToSection(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _, clock := newTestStore(t)
	mustDo(t, s.AddTask(ctx, testTask("t1", "p1", "s1")))
	clock.Advance(time.Minute)

	// no check that the section exists
	mustDo(t, s.MoveTaskToSection(ctx, "t1", "elsewhere"))

	got, _ := s.Task("t1")
	if got.SectionID != "elsewhere" {
		t.Errorf("SectionID = %q, want elsewhere", got.SectionID)
	}
	if !got.UpdatedAt.Equal(clock.Now()) {
		t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, clock.Now())
	}
}

func TestDuplicateTask(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _, clock := newTestStore(t)

	orig := testTask("t1", "p1", "s1")
	orig.Completed = true
	orig.Tags = []string{"x"}
	orig.Subtasks = []models.Subtask{{ID: "st1", Title: "done already", Completed: true}}
	mustDo(t, s.AddTask(ctx, orig))
	clock.Advance(time.Hour)

	dup, err := s.DuplicateTask(ctx, "t1")
	if err != nil {
		t.Fatalf("DuplicateTask() error = %v", err)
	}

	if dup.ID == orig.ID {
		t.Error("duplicate reused the original id")
	}
	if dup.Title != "Task t1 (Copy)" {
		t.Errorf("Title = %q", dup.Title)
	}
	if dup.Completed {
		t.Error("duplicate is completed")
	}
	if !dup.CreatedAt.Equal(clock.Now()) || !dup.UpdatedAt.Equal(clock.Now()) {
		t.Errorf("timestamps = %v/%v, want %v", dup.CreatedAt, dup.UpdatedAt, clock.Now())
	}
	if len(dup.Subtasks) != len(orig.Subtasks) {
		t.Fatalf("len(Subtasks) = %d, want %d", len(dup.Subtasks), len(orig.Subtasks))
	}
	for i, st := range dup.Subtasks {
		if st.Completed {
			t.Errorf("subtask %d still completed", i)
		}
		if st.ID == orig.Subtasks[i].ID {
			t.Errorf("subtask %d reused id %q", i, st.ID)
		}
	}

	tasks := s.Tasks()
	if len(tasks) != 2 || tasks[1].ID != dup.ID {
		t.Errorf("duplicate not appended: %d tasks", len(tasks))
	}
	if o, _ := s.Task("t1"); !o.Subtasks[0].Completed {
		t.Error("original subtask was modified")
	}
}

func TestBulkOperations(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _, clock := newTestStore(t)

	for _, id := range []string{"t1", "t2", "t3"} {
		mustDo(t, s.AddTask(ctx, testTask(id, "p1", "s1")))
	}
	clock.Advance(time.Hour)

	high := models.PriorityHigh
	done := true
	mustDo(t, s.BulkUpdateTasks(ctx, []string{"t1", "t3", "missing"}, models.TaskPatch{Priority: &high, Completed: &done}))

	for _, id := range []string{"t1", "t3"} {
		got, _ := s.Task(id)
		if got.Priority != high || !got.Completed || !got.UpdatedAt.Equal(clock.Now()) {
			t.Errorf("%s not patched: %+v", id, got)
		}
		if got.Title != "Task "+id {
			t.Errorf("%s title changed to %q", id, got.Title)
		}
	}
	if got, _ := s.Task("t2"); got.Priority != "" || got.Completed {
		t.Errorf("t2 was patched: %+v", got)
	}

	mustDo(t, s.BulkDeleteTasks(ctx, []string{"t1", "t2", "missing"}))
	tasks := s.Tasks()
	if len(tasks) != 1 || tasks[0].ID != "t3" {
		t.Errorf("after BulkDeleteTasks: %v", tasks)
	}
}

func TestSections(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _, _ := newTestStore(t)
	mustDo(t, s.AddProject(ctx, testProject("p1")))

	sec, err := s.AddSection(ctx, "p1", models.Section{Name: "Review"})
	if err != nil {
		t.Fatalf("AddSection() error = %v", err)
	}
	if sec.ID == "" || sec.Color != DefaultSectionColor || sec.Position != 2 {
		t.Errorf("AddSection() = %+v", sec)
	}
	if _, err := s.AddSection(ctx, "p1", models.Section{ID: "s1", Name: "Dup"}); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("AddSection(existing id) error = %v, want ErrDuplicateID", err)
	}

	mustDo(t, s.AddTask(ctx, testTask("t1", "p1", sec.ID)))
	mustDo(t, s.AddTask(ctx, testTask("t2", "p1", "s1")))
	mustDo(t, s.AddTask(ctx, testTask("t3", "p2", sec.ID)))

	mustDo(t, s.DeleteSection(ctx, "p1", sec.ID))

	p, _ := s.Project("p1")
	if _, ok := p.Section(sec.ID); ok {
		t.Error("section still present")
	}
	if _, ok := s.Task("t1"); ok {
		t.Error("task in deleted section still present")
	}
	if _, ok := s.Task("t3"); !ok {
		t.Error("task of another project removed")
	}
}

func TestClearCompletedAndToggleAll(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	mustDo(t, s.AddTask(ctx, testTask("t1", "p1", "s1")))
	mustDo(t, s.AddTask(ctx, testTask("t2", "p1", "s1")))
	mustDo(t, s.AddTask(ctx, testTask("t3", "p1", "s2")))

	completed, err := s.ToggleAllTasks(ctx, "p1", "s1")
	if err != nil || !completed {
		t.Fatalf("ToggleAllTasks() = %v, %v; want true", completed, err)
	}
	for _, task := range s.TasksBySection("p1", "s1") {
		if !task.Completed {
			t.Errorf("%s not completed", task.ID)
		}
	}
	if got, _ := s.Task("t3"); got.Completed {
		t.Error("task in other section toggled")
	}

	completed, err = s.ToggleAllTasks(ctx, "p1", "s1")
	if err != nil || completed {
		t.Fatalf("second ToggleAllTasks() = %v, %v; want false", completed, err)
	}

	mustDo(t, s.ToggleTaskComplete(ctx, "t1"))
	mustDo(t, s.ToggleTaskComplete(ctx, "t3"))
	removed, err := s.ClearCompletedTasks(ctx, "p1", "s1")
	if err != nil {
		t.Fatalf("ClearCompletedTasks() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if _, ok := s.Task("t3"); !ok {
		t.Error("completed task in other section was cleared")
	}
}

func TestDeadlineMutations(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	withReminder := models.Deadline{ID: "d1", Title: "A", DueDate: "2025-09-17T12:00:00Z",
		Status: models.DeadlineStatusActive, Reminder: &models.Reminder{Enabled: true, Interval: 24}}
	noReminder := models.Deadline{ID: "d2", Title: "B", DueDate: "2025-09-18", Status: models.DeadlineStatusCompleted}
	mustDo(t, s.AddDeadline(ctx, withReminder))
	mustDo(t, s.AddDeadline(ctx, noReminder))

	mustDo(t, s.MarkDeadlineNotified(ctx, "d1"))
	mustDo(t, s.MarkDeadlineNotified(ctx, "d2"))

	if d, _ := s.Deadline("d1"); !d.Reminder.Notified {
		t.Error("d1 not marked notified")
	}
	if d, _ := s.Deadline("d2"); d.Reminder != nil {
		t.Error("reminder created on a deadline that had none")
	}

	updated := withReminder
	updated.Title = "A2"
	mustDo(t, s.UpdateDeadline(ctx, updated))
	if d, _ := s.Deadline("d1"); d.Title != "A2" {
		t.Errorf("Title = %q, want A2", d.Title)
	}

	removed, err := s.ClearCompletedDeadlines(ctx)
	if err != nil || removed != 1 {
		t.Fatalf("ClearCompletedDeadlines() = %d, %v; want 1", removed, err)
	}
	mustDo(t, s.RemoveDeadline(ctx, "d1"))
	if got := len(s.Deadlines()); got != 0 {
		t.Errorf("len(Deadlines()) = %d, want 0", got)
	}
}

func TestPersistRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, kv, _ := newTestStore(t)

	completedAt := testNow.Add(-time.Hour)
	p := testProject("p1")
	p.Description = "desc"
	p.Deadline = "2025-12-01"
	p.Updates = []models.Update{{User: "You", Action: "created", Date: testNow}}
	task := testTask("t1", "p1", "s1")
	task.Priority = models.PriorityUrgent
	task.StartDate = "2025-09-01"
	task.DueDate = "2025-09-30T17:00:00Z"
	task.CompletedAt = &completedAt
	task.Tags = []string{"a", "b"}
	task.Subtasks = []models.Subtask{{ID: "st1", Title: "one", Completed: true}}
	task.Attachments = []string{"spec.pdf"}
	task.Position = 3
	d := models.Deadline{ID: "d1", Title: "D", DueDate: "2025-09-20", Priority: models.PriorityLow,
		Status: models.DeadlineStatusActive, TaskID: "t1", ProjectID: "p1",
		Reminder: &models.Reminder{Enabled: true, Interval: 1.5}, CreatedAt: testNow, UpdatedAt: testNow}

	empty := testProject("p2")
	empty.Updates = []models.Update{}
	bare := testTask("t2", "p2", "s1")
	bare.Tags = []string{}
	bare.Subtasks = []models.Subtask{}
	bare.Attachments = []string{}

	mustDo(t, s.AddProject(ctx, p))
	mustDo(t, s.AddProject(ctx, empty))
	mustDo(t, s.AddTask(ctx, task))
	mustDo(t, s.AddTask(ctx, bare))
	mustDo(t, s.AddDeadline(ctx, d))

	reloaded, err := New(ctx, storage.NewJSONPersister(kv), WithoutSampleData())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if diff := cmp.Diff(s.Snapshot(), reloaded.Snapshot()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestConcurrentMutations(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _, _ := newTestStore(t)
	mustDo(t, s.AddProject(ctx, testProject("p1")))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.AddTask(ctx, testTask(NewID("task"), "p1", "s1"))
			_ = s.ProjectStats("p1")
			_ = s.Dashboard()
		}()
	}
	wg.Wait()

	if got := s.ProjectStats("p1").TotalTasks; got != 20 {
		t.Errorf("TotalTasks = %d, want 20", got)
	}
}

func TestPing(t *testing.T) {
	t.Parallel()

	pingErr := errors.New("backend down")
	p := &mockPersister{pingFunc: func(context.Context) error { return pingErr }}
	s, err := New(context.Background(), p, WithoutSampleData())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := s.Ping(context.Background()); !errors.Is(err, pingErr) {
		t.Errorf("Ping() error = %v, want %v", err, pingErr)
	}
}
