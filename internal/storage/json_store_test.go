package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mveach/rollo/internal/constants"
	"github.com/mveach/rollo/internal/models"
)

func newTestJSONStore(t *testing.T) *JSONStore {
	t.Helper()

	store := NewJSONStore(filepath.Join(t.TempDir(), "rollo.json"))
	if err := store.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return store
}

func TestJSONStore_SeedsDefaultProject(t *testing.T) {
	store := newTestJSONStore(t)

	projects, err := store.GetAllProjects()
	if err != nil {
		t.Fatalf("GetAllProjects failed: %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("Expected exactly the default project, got %d", len(projects))
	}
	if projects[0].Name != constants.DefaultProjectName {
		t.Errorf("Expected default project %q, got %q", constants.DefaultProjectName, projects[0].Name)
	}

	state, err := store.GetRolloverState()
	if err != nil {
		t.Fatalf("GetRolloverState failed: %v", err)
	}
	if state.LastRolloverDate == "" {
		t.Error("Expected a seeded last rollover date")
	}
}

func TestJSONStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rollo.json")

	store := NewJSONStore(path)
	if err := store.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	created := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)
	done := created.Add(2 * time.Hour)
	project := models.Project{ID: "p1", Name: "Work", CreatedAt: created}
	task := models.Task{
		ID:                 "t1",
		ProjectID:          "p1",
		Title:              "Write report",
		Description:        "quarterly numbers",
		Completed:          true,
		AssignedDate:       "2024-03-11",
		RolloverCount:      2,
		CreatedAt:          created,
		CompletedAt:        &done,
		LastRolledOverDate: "2024-03-11",
	}

	if err := store.AddProject(project); err != nil {
		t.Fatalf("AddProject failed: %v", err)
	}
	if err := store.AddTask(task); err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}

	// Fresh store against the same file must see identical data
	reopened := NewJSONStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("reopen Load failed: %v", err)
	}

	gotProject, err := reopened.GetProject("p1")
	if err != nil {
		t.Fatalf("GetProject failed: %v", err)
	}
	if gotProject.Name != "Work" || !gotProject.CreatedAt.Equal(created) {
		t.Errorf("Project did not round-trip: %+v", gotProject)
	}

	gotTask, err := reopened.GetTask("t1")
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if gotTask.Title != "Write report" || gotTask.RolloverCount != 2 ||
		gotTask.LastRolledOverDate != "2024-03-11" {
		t.Errorf("Task did not round-trip: %+v", gotTask)
	}
	if gotTask.CompletedAt == nil || !gotTask.CompletedAt.Equal(done) {
		t.Errorf("CompletedAt did not round-trip: %v", gotTask.CompletedAt)
	}
}

func TestJSONStore_NotFound(t *testing.T) {
	store := newTestJSONStore(t)

	if _, err := store.GetProject("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing project, got %v", err)
	}
	if _, err := store.GetTask("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing task, got %v", err)
	}
	if err := store.DeleteTask("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound deleting missing task, got %v", err)
	}
	if err := store.UpdateProject(models.Project{ID: "missing"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound updating missing project, got %v", err)
	}
}

func TestJSONStore_DeleteProjectCascades(t *testing.T) {
	store := newTestJSONStore(t)

	now := time.Now()
	if err := store.AddProject(models.Project{ID: "p1", Name: "Work", CreatedAt: now}); err != nil {
		t.Fatalf("AddProject failed: %v", err)
	}
	if err := store.AddTask(models.Task{ID: "t1", ProjectID: "p1", Title: "A", AssignedDate: "2024-03-11", CreatedAt: now}); err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}
	if err := store.AddTask(models.Task{ID: "t2", ProjectID: "other", Title: "B", AssignedDate: "2024-03-11", CreatedAt: now}); err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}

	if err := store.DeleteProject("p1"); err != nil {
		t.Fatalf("DeleteProject failed: %v", err)
	}

	if _, err := store.GetTask("t1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected project's task to be deleted, got %v", err)
	}
	if _, err := store.GetTask("t2"); err != nil {
		t.Errorf("Expected unrelated task to survive, got %v", err)
	}
}

func TestJSONStore_QuarantinesCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rollo.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	store := NewJSONStore(path)
	if err := store.Load(); err != nil {
		t.Fatalf("Load should recover from corrupt data, got: %v", err)
	}

	// Original bytes preserved under .corrupt
	moved, err := os.ReadFile(path + ".corrupt")
	if err != nil {
		t.Fatalf("Expected quarantined file: %v", err)
	}
	if string(moved) != "{not json" {
		t.Errorf("Quarantined content mismatch: %q", moved)
	}

	// Store reseeded and usable
	projects, err := store.GetAllProjects()
	if err != nil {
		t.Fatalf("GetAllProjects failed: %v", err)
	}
	if len(projects) != 1 {
		t.Errorf("Expected a fresh seeded state, got %d project(s)", len(projects))
	}
}

func TestJSONStore_InitRefusesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rollo.json")

	store := NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := store.Init(); err == nil {
		t.Error("Expected error initializing over an existing file, got nil")
	}
}

func TestJSONStore_ReplaceTasks(t *testing.T) {
	store := newTestJSONStore(t)

	now := time.Now()
	if err := store.AddTask(models.Task{ID: "t1", Title: "Old", AssignedDate: "2024-03-10", CreatedAt: now}); err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}

	replacement := []models.Task{
		{ID: "t1", Title: "Old", AssignedDate: "2024-03-11", RolloverCount: 1, LastRolledOverDate: "2024-03-11", CreatedAt: now},
	}
	state := RolloverState{LastRolloverDate: "2024-03-11", LastRolloverTime: "Mar 11, 2024 9:00 AM"}
	if err := store.ReplaceTasks(replacement, state); err != nil {
		t.Fatalf("ReplaceTasks failed: %v", err)
	}

	got, err := store.GetTask("t1")
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if got.AssignedDate != "2024-03-11" || got.RolloverCount != 1 {
		t.Errorf("Task not replaced: %+v", got)
	}

	rollover, err := store.GetRolloverState()
	if err != nil {
		t.Fatalf("GetRolloverState failed: %v", err)
	}
	if rollover.LastRolloverDate != "2024-03-11" || rollover.LastRolloverTime != "Mar 11, 2024 9:00 AM" {
		t.Errorf("Rollover state not recorded: %+v", rollover)
	}
}

func TestJSONStore_RequiresLoad(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "rollo.json"))

	if _, err := store.GetAllTasks(); err == nil {
		t.Error("Expected error using store before Load, got nil")
	}
}
