// Package rollover implements the daily carry-forward pass: incomplete
// tasks left on yesterday's date move to today, counting how many days
// they have been carried.
package rollover

import (
	"fmt"
	"time"

	"github.com/mveach/rollo/internal/constants"
	"github.com/mveach/rollo/internal/models"
)

type Engine struct{}

func New() *Engine {
	return &Engine{}
}

// Apply advances every task assigned to the day before today that is still
// incomplete, returning the transformed list and how many tasks moved.
// LastRolledOverDate records the day a task last advanced, so a task moves
// at most once per calendar day and re-running Apply with the same date is
// a no-op. Only an exact yesterday match advances: a task stranded further
// in the past stays put and catches up one day per pass.
func (e *Engine) Apply(today string, tasks []models.Task) ([]models.Task, int, error) {
	yesterday, err := PreviousDay(today)
	if err != nil {
		return nil, 0, err
	}

	out := make([]models.Task, len(tasks))
	advanced := 0
	for i, task := range tasks {
		if task.AssignedDate == yesterday && !task.Completed && task.LastRolledOverDate != today {
			task.AssignedDate = today
			task.RolloverCount++
			task.LastRolledOverDate = today
			advanced++
		}
		out[i] = task
	}

	return out, advanced, nil
}

// PreviousDay computes the calendar day before the given date. This is date
// arithmetic on a parsed date, not wall-clock subtraction: taking 24 hours
// off a local timestamp lands on the same day when DST stretches it to 25.
func PreviousDay(date string) (string, error) {
	t, err := time.Parse(constants.DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t.AddDate(0, 0, -1).Format(constants.DateLayout), nil
}

// Timestamp renders the human-readable string recorded as the last rollover
// time. Display only, never parsed back.
func Timestamp(t time.Time) string {
	return t.Format(constants.TimestampLayout)
}
