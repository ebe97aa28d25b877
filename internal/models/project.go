package models

import "time"

// Project is a named grouping that owns zero or more tasks. Archiving hides
// a project from active views without touching its tasks; deleting a project
// removes its tasks with it.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"created_at"`
}
