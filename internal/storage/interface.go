package storage

import (
	"errors"

	"github.com/mveach/rollo/internal/models"
)

// ErrNotFound is wrapped by lookup misses so callers can tell a missing
// record apart from an I/O failure.
var ErrNotFound = errors.New("not found")

// RolloverState is the engine bookkeeping persisted alongside the entities.
type RolloverState struct {
	LastRolloverDate string `json:"last_rollover_date"` // YYYY-MM-DD format
	LastRolloverTime string `json:"last_rollover_time"` // display string, may be empty
}

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Projects
	AddProject(models.Project) error
	GetProject(id string) (models.Project, error)
	GetAllProjects() ([]models.Project, error)
	UpdateProject(models.Project) error
	// DeleteProject removes the project and every task that references it.
	DeleteProject(id string) error

	// Tasks
	AddTask(models.Task) error
	GetTask(id string) (models.Task, error)
	GetAllTasks() ([]models.Task, error)
	UpdateTask(models.Task) error
	DeleteTask(id string) error

	// Rollover bookkeeping
	GetRolloverState() (RolloverState, error)
	// ReplaceTasks commits a rollover result: the transformed task list and
	// the new bookkeeping land in a single durable write.
	ReplaceTasks([]models.Task, RolloverState) error

	// Utils
	GetConfigPath() string
}
