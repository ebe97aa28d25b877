package cli

import (
	"testing"
	"time"

	"github.com/mveach/rollo/internal/constants"
)

func TestProjectAddCmd_Validate(t *testing.T) {
	cmd := &ProjectAddCmd{Name: "   "}
	if err := cmd.Validate(); err == nil {
		t.Error("Expected validation error for blank name, got nil")
	}

	cmd = &ProjectAddCmd{Name: "Work"}
	if err := cmd.Validate(); err != nil {
		t.Errorf("Unexpected validation error: %v", err)
	}
}

func TestTaskAddCmd_Validate(t *testing.T) {
	cmd := &TaskAddCmd{Title: ""}
	if err := cmd.Validate(); err == nil {
		t.Error("Expected validation error for blank title, got nil")
	}
}

func TestCommandWorkflow(t *testing.T) {
	ctx := setupTestContext(t)

	addProject := &ProjectAddCmd{Name: "Work"}
	if err := addProject.Run(ctx); err != nil {
		t.Fatalf("project add failed: %v", err)
	}

	addTask := &TaskAddCmd{Title: "Write report", Project: "Work", Date: "today"}
	if err := addTask.Run(ctx); err != nil {
		t.Fatalf("task add failed: %v", err)
	}

	if err := ctx.Service.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	tasks, err := ctx.Service.TasksByDate(time.Now().Format(constants.DateLayout))
	if err != nil {
		t.Fatalf("TasksByDate failed: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("Expected 1 task today, got %d", len(tasks))
	}

	done := &TaskDoneCmd{Task: tasks[0].ID}
	if err := done.Run(ctx); err != nil {
		t.Fatalf("task done failed: %v", err)
	}

	if err := ctx.Service.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	got, err := ctx.Service.TaskByID(tasks[0].ID)
	if err != nil {
		t.Fatalf("TaskByID failed: %v", err)
	}
	if !got.Completed {
		t.Error("Expected task to be completed after done command")
	}

	if err := (&RolloverCmd{}).Run(ctx); err != nil {
		t.Fatalf("rollover failed: %v", err)
	}
	if err := (&ValidateCmd{}).Run(ctx); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if err := (&DayCmd{Date: "today"}).Run(ctx); err != nil {
		t.Fatalf("day failed: %v", err)
	}
	if err := (&ProjectListCmd{}).Run(ctx); err != nil {
		t.Fatalf("project list failed: %v", err)
	}
	if err := (&TaskListCmd{All: true}).Run(ctx); err != nil {
		t.Fatalf("task list failed: %v", err)
	}
}

func TestDebugCommands(t *testing.T) {
	ctx := setupTestContext(t)

	if err := (&DebugDBPathCmd{}).Run(ctx); err != nil {
		t.Errorf("debug db-path failed: %v", err)
	}
	if err := (&DebugDumpStateCmd{}).Run(ctx); err != nil {
		t.Errorf("debug dump-state failed: %v", err)
	}

	if err := (&DebugDumpTaskCmd{ID: "missing"}).Run(ctx); err == nil {
		t.Error("Expected error dumping unknown task, got nil")
	}
}

func TestBackupCommands(t *testing.T) {
	ctx := setupTestContext(t)

	// Listing with no backup directory is fine
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Errorf("backup list failed: %v", err)
	}

	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Errorf("backup create failed: %v", err)
	}
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Errorf("backup list after create failed: %v", err)
	}
}
