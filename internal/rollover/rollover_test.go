package rollover

import (
	"testing"
	"time"

	"github.com/mveach/rollo/internal/models"
)

func TestApply_CarriesIncompleteTasksForward(t *testing.T) {
	engine := New()

	tasks := []models.Task{
		{ID: "t1", Title: "Write report", AssignedDate: "2024-03-10", LastRolledOverDate: "2024-03-10"},
		{ID: "t2", Title: "Send invoice", AssignedDate: "2024-03-10", Completed: true, LastRolledOverDate: "2024-03-10"},
		{ID: "t3", Title: "Plan sprint", AssignedDate: "2024-03-11", LastRolledOverDate: "2024-03-11"},
	}

	out, advanced, err := engine.Apply("2024-03-11", tasks)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if advanced != 1 {
		t.Errorf("Expected 1 task to advance, got %d", advanced)
	}

	if out[0].AssignedDate != "2024-03-11" {
		t.Errorf("Expected incomplete task to move to 2024-03-11, got %s", out[0].AssignedDate)
	}
	if out[0].RolloverCount != 1 {
		t.Errorf("Expected rollover count 1, got %d", out[0].RolloverCount)
	}
	if out[0].LastRolledOverDate != "2024-03-11" {
		t.Errorf("Expected LastRolledOverDate 2024-03-11, got %s", out[0].LastRolledOverDate)
	}

	if out[1].AssignedDate != "2024-03-10" {
		t.Errorf("Expected completed task to stay on 2024-03-10, got %s", out[1].AssignedDate)
	}
	if out[1].RolloverCount != 0 {
		t.Errorf("Expected completed task rollover count 0, got %d", out[1].RolloverCount)
	}

	if out[2].AssignedDate != "2024-03-11" {
		t.Errorf("Expected today's task to stay on 2024-03-11, got %s", out[2].AssignedDate)
	}
	if out[2].RolloverCount != 0 {
		t.Errorf("Expected today's task rollover count 0, got %d", out[2].RolloverCount)
	}
}

func TestApply_SecondRunSameDayIsNoop(t *testing.T) {
	engine := New()

	tasks := []models.Task{
		{ID: "t1", Title: "Write report", AssignedDate: "2024-03-10"},
	}

	out, advanced, err := engine.Apply("2024-03-11", tasks)
	if err != nil {
		t.Fatalf("first Apply failed: %v", err)
	}
	if advanced != 1 {
		t.Fatalf("Expected 1 task to advance on first run, got %d", advanced)
	}

	out, advanced, err = engine.Apply("2024-03-11", out)
	if err != nil {
		t.Fatalf("second Apply failed: %v", err)
	}
	if advanced != 0 {
		t.Errorf("Expected no tasks to advance on second run, got %d", advanced)
	}
	if out[0].RolloverCount != 1 {
		t.Errorf("Expected rollover count to stay at 1, got %d", out[0].RolloverCount)
	}
}

func TestApply_OnlyExactYesterdayAdvances(t *testing.T) {
	engine := New()

	tasks := []models.Task{
		{ID: "old", Title: "Stale task", AssignedDate: "2024-03-05"},
		{ID: "recent", Title: "Yesterday's task", AssignedDate: "2024-03-10"},
	}

	out, advanced, err := engine.Apply("2024-03-11", tasks)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if advanced != 1 {
		t.Errorf("Expected 1 task to advance, got %d", advanced)
	}
	if out[0].AssignedDate != "2024-03-05" {
		t.Errorf("Expected stale task to stay on 2024-03-05, got %s", out[0].AssignedDate)
	}
	if out[1].AssignedDate != "2024-03-11" {
		t.Errorf("Expected yesterday's task to move to 2024-03-11, got %s", out[1].AssignedDate)
	}
}

func TestApply_AccumulatesRolloverCount(t *testing.T) {
	engine := New()

	tasks := []models.Task{
		{ID: "t1", Title: "Lingering task", AssignedDate: "2024-03-10"},
	}

	days := []string{"2024-03-11", "2024-03-12", "2024-03-13"}
	for _, day := range days {
		var err error
		tasks, _, err = engine.Apply(day, tasks)
		if err != nil {
			t.Fatalf("Apply(%s) failed: %v", day, err)
		}
	}

	if tasks[0].RolloverCount != 3 {
		t.Errorf("Expected rollover count 3 after three daily passes, got %d", tasks[0].RolloverCount)
	}
	if tasks[0].AssignedDate != "2024-03-13" {
		t.Errorf("Expected task on 2024-03-13, got %s", tasks[0].AssignedDate)
	}
}

func TestApply_InvalidDate(t *testing.T) {
	engine := New()

	if _, _, err := engine.Apply("not-a-date", nil); err == nil {
		t.Error("Expected error for invalid date, got nil")
	}
}

func TestPreviousDay_Boundaries(t *testing.T) {
	cases := []struct {
		date string
		want string
	}{
		{"2024-03-11", "2024-03-10"},
		{"2024-03-01", "2024-02-29"}, // leap year
		{"2023-03-01", "2023-02-28"},
		{"2024-01-01", "2023-12-31"},
	}

	for _, tc := range cases {
		got, err := PreviousDay(tc.date)
		if err != nil {
			t.Fatalf("PreviousDay(%s) failed: %v", tc.date, err)
		}
		if got != tc.want {
			t.Errorf("PreviousDay(%s) = %s, want %s", tc.date, got, tc.want)
		}
	}
}

func TestTimestamp_Format(t *testing.T) {
	at := time.Date(2024, 3, 11, 9, 5, 0, 0, time.UTC)
	got := Timestamp(at)
	if got != "Mar 11, 2024 9:05 AM" {
		t.Errorf("Timestamp = %q, want %q", got, "Mar 11, 2024 9:05 AM")
	}
}
