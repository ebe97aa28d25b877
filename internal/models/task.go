package models

import "time"

// Task is a unit of work scheduled for a single calendar day. When a day
// ends with the task still incomplete, the rollover engine moves
// AssignedDate forward and increments RolloverCount, at most once per
// calendar day (LastRolledOverDate guards the once-per-day invariant).
type Task struct {
	ID                 string     `json:"id"`
	ProjectID          string     `json:"project_id"`
	Title              string     `json:"title"`
	Description        string     `json:"description,omitempty"`
	Completed          bool       `json:"completed"`
	AssignedDate       string     `json:"assigned_date"` // YYYY-MM-DD format
	RolloverCount      int        `json:"rollover_count"`
	CreatedAt          time.Time  `json:"created_at"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	LastRolledOverDate string     `json:"last_rolled_over_date,omitempty"` // YYYY-MM-DD format
}
