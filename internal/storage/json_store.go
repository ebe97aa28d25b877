package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mveach/rollo/internal/constants"
	"github.com/mveach/rollo/internal/models"
)

// State is the full persisted document. Any implementation of Provider must
// round-trip this shape losslessly.
type State struct {
	Version          int                       `json:"version"`
	Projects         map[string]models.Project `json:"projects"`
	Tasks            map[string]models.Task    `json:"tasks"`
	LastRolloverDate string                    `json:"last_rollover_date"` // YYYY-MM-DD format
	LastRolloverTime string                    `json:"last_rollover_time"` // display string
}

type JSONStore struct {
	path  string
	state *State
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Check if file already exists
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.seed()
	return s.save()
}

// Load reads the persisted state. A missing file seeds a fresh state with
// the default project; an unreadable file is moved aside (so nothing is
// destroyed) and replaced with a fresh state. Load never fails on bad data,
// only on I/O errors.
func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.seed()
			return s.save()
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	state := &State{}
	if err := json.Unmarshal(data, state); err != nil {
		quarantine := s.path + ".corrupt"
		if renameErr := os.Rename(s.path, quarantine); renameErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: state file is unreadable (%v); starting fresh\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Warning: state file is unreadable (%v); moved to %s, starting fresh\n", err, quarantine)
		}
		s.seed()
		return s.save()
	}

	// Ensure maps are initialized
	if state.Projects == nil {
		state.Projects = make(map[string]models.Project)
	}
	if state.Tasks == nil {
		state.Tasks = make(map[string]models.Task)
	}

	// Older documents may predate the rollover bookkeeping
	if state.LastRolloverDate == "" {
		state.LastRolloverDate = time.Now().Format(constants.DateLayout)
	}

	s.state = state
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) seed() {
	now := time.Now()
	project := defaultProject(now)
	s.state = &State{
		Version: 1,
		Projects: map[string]models.Project{
			project.ID: project,
		},
		Tasks:            make(map[string]models.Task),
		LastRolloverDate: now.Format(constants.DateLayout),
	}
}

// save writes the full document to a sibling temp file and renames it into
// place, so a crash mid-write can never leave a partial state file behind.
func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		if removeErr := os.Remove(tempPath); removeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to remove temporary file %s: %v\n", tempPath, removeErr)
		}
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}

func (s *JSONStore) AddProject(project models.Project) error {
	if s.state == nil {
		return fmt.Errorf("storage not loaded")
	}

	s.state.Projects[project.ID] = project
	return s.save()
}

func (s *JSONStore) GetProject(id string) (models.Project, error) {
	if s.state == nil {
		return models.Project{}, fmt.Errorf("storage not loaded")
	}

	project, ok := s.state.Projects[id]
	if !ok {
		return models.Project{}, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}

	return project, nil
}

func (s *JSONStore) GetAllProjects() ([]models.Project, error) {
	if s.state == nil {
		return nil, fmt.Errorf("storage not loaded")
	}

	projects := make([]models.Project, 0, len(s.state.Projects))
	for _, project := range s.state.Projects {
		projects = append(projects, project)
	}

	return projects, nil
}

func (s *JSONStore) UpdateProject(project models.Project) error {
	if s.state == nil {
		return fmt.Errorf("storage not loaded")
	}

	if _, ok := s.state.Projects[project.ID]; !ok {
		return fmt.Errorf("project %s: %w", project.ID, ErrNotFound)
	}

	s.state.Projects[project.ID] = project
	return s.save()
}

func (s *JSONStore) DeleteProject(id string) error {
	if s.state == nil {
		return fmt.Errorf("storage not loaded")
	}

	if _, ok := s.state.Projects[id]; !ok {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}

	delete(s.state.Projects, id)
	for taskID, task := range s.state.Tasks {
		if task.ProjectID == id {
			delete(s.state.Tasks, taskID)
		}
	}
	return s.save()
}

func (s *JSONStore) AddTask(task models.Task) error {
	if s.state == nil {
		return fmt.Errorf("storage not loaded")
	}

	s.state.Tasks[task.ID] = task
	return s.save()
}

func (s *JSONStore) GetTask(id string) (models.Task, error) {
	if s.state == nil {
		return models.Task{}, fmt.Errorf("storage not loaded")
	}

	task, ok := s.state.Tasks[id]
	if !ok {
		return models.Task{}, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}

	return task, nil
}

func (s *JSONStore) GetAllTasks() ([]models.Task, error) {
	if s.state == nil {
		return nil, fmt.Errorf("storage not loaded")
	}

	tasks := make([]models.Task, 0, len(s.state.Tasks))
	for _, task := range s.state.Tasks {
		tasks = append(tasks, task)
	}

	return tasks, nil
}

func (s *JSONStore) UpdateTask(task models.Task) error {
	if s.state == nil {
		return fmt.Errorf("storage not loaded")
	}

	if _, ok := s.state.Tasks[task.ID]; !ok {
		return fmt.Errorf("task %s: %w", task.ID, ErrNotFound)
	}

	s.state.Tasks[task.ID] = task
	return s.save()
}

func (s *JSONStore) DeleteTask(id string) error {
	if s.state == nil {
		return fmt.Errorf("storage not loaded")
	}

	if _, ok := s.state.Tasks[id]; !ok {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}

	delete(s.state.Tasks, id)
	return s.save()
}

func (s *JSONStore) GetRolloverState() (RolloverState, error) {
	if s.state == nil {
		return RolloverState{}, fmt.Errorf("storage not loaded")
	}

	return RolloverState{
		LastRolloverDate: s.state.LastRolloverDate,
		LastRolloverTime: s.state.LastRolloverTime,
	}, nil
}

func (s *JSONStore) ReplaceTasks(tasks []models.Task, rollover RolloverState) error {
	if s.state == nil {
		return fmt.Errorf("storage not loaded")
	}

	replacement := make(map[string]models.Task, len(tasks))
	for _, task := range tasks {
		replacement[task.ID] = task
	}
	s.state.Tasks = replacement
	s.state.LastRolloverDate = rollover.LastRolloverDate
	s.state.LastRolloverTime = rollover.LastRolloverTime
	return s.save()
}

// GetConfigPath returns the path to the underlying storage file.
//
// Concurrency note:
//   - JSONStore is not safe for concurrent use by multiple goroutines without
//     external synchronization.
//   - Running multiple rollo processes that share the same storage path at
//     the same time is not supported and may lead to data loss.
func (s *JSONStore) GetConfigPath() string {
	return s.path
}
