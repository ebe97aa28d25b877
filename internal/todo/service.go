// Package todo owns the canonical project/task state. It is constructed
// once at process start and handed to whatever layer needs it; every
// mutation goes through the store so the persisted state always matches the
// in-memory state.
package todo

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mveach/rollo/internal/constants"
	"github.com/mveach/rollo/internal/models"
	"github.com/mveach/rollo/internal/rollover"
	"github.com/mveach/rollo/internal/storage"
)

type Service struct {
	store  storage.Provider
	engine *rollover.Engine

	// now is swapped out in tests to pin the calendar day
	now func() time.Time
}

func New(store storage.Provider) *Service {
	return &Service{
		store:  store,
		engine: rollover.New(),
		now:    time.Now,
	}
}

func (s *Service) Load() error {
	return s.store.Load()
}

func (s *Service) Close() error {
	return s.store.Close()
}

func (s *Service) ConfigPath() string {
	return s.store.GetConfigPath()
}

// Store exposes the underlying provider for lifecycle operations (init,
// diagnostics) that sit outside the mutation/query surface.
func (s *Service) Store() storage.Provider {
	return s.store
}

// Today returns the current calendar date in YYYY-MM-DD form.
func (s *Service) Today() string {
	return s.now().Format(constants.DateLayout)
}

// Projects returns all projects, archived included, sorted by creation time.
func (s *Service) Projects() ([]models.Project, error) {
	projects, err := s.store.GetAllProjects()
	if err != nil {
		return nil, err
	}
	sortProjects(projects)
	return projects, nil
}

// ActiveProjects returns unarchived projects sorted by creation time.
func (s *Service) ActiveProjects() ([]models.Project, error) {
	return s.filterProjects(func(p models.Project) bool { return !p.Archived })
}

// ArchivedProjects returns archived projects sorted by creation time.
func (s *Service) ArchivedProjects() ([]models.Project, error) {
	return s.filterProjects(func(p models.Project) bool { return p.Archived })
}

func (s *Service) filterProjects(keep func(models.Project) bool) ([]models.Project, error) {
	projects, err := s.store.GetAllProjects()
	if err != nil {
		return nil, err
	}
	filtered := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if keep(p) {
			filtered = append(filtered, p)
		}
	}
	sortProjects(filtered)
	return filtered, nil
}

// Tasks returns every task sorted by creation time.
func (s *Service) Tasks() ([]models.Task, error) {
	tasks, err := s.store.GetAllTasks()
	if err != nil {
		return nil, err
	}
	sortTasks(tasks)
	return tasks, nil
}

func (s *Service) AddProject(name string) (models.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Project{}, fmt.Errorf("project name must not be empty")
	}

	project := models.Project{
		ID:        uuid.New().String(),
		Name:      name,
		Archived:  false,
		CreatedAt: s.now(),
	}

	if err := s.store.AddProject(project); err != nil {
		return models.Project{}, err
	}
	return project, nil
}

// ArchiveProject hides a project from active views. Archiving an unknown or
// already-archived project is a no-op.
func (s *Service) ArchiveProject(id string) error {
	project, err := s.store.GetProject(id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if project.Archived {
		return nil
	}

	project.Archived = true
	return s.store.UpdateProject(project)
}

// UnarchiveProject returns an archived project to active views.
func (s *Service) UnarchiveProject(id string) error {
	project, err := s.store.GetProject(id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !project.Archived {
		return nil
	}

	project.Archived = false
	return s.store.UpdateProject(project)
}

// DeleteProject removes a project and all of its tasks. Deleting an unknown
// project is a no-op.
func (s *Service) DeleteProject(id string) error {
	err := s.store.DeleteProject(id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	return err
}

// AddTask creates a task on the given project and date. The task starts
// incomplete with a zero rollover count, and its LastRolledOverDate is
// initialized to the assigned date so the first rollover pass can tell it
// has never been advanced.
func (s *Service) AddTask(projectID, title, description, assignedDate string) (models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Task{}, fmt.Errorf("task title must not be empty")
	}
	if _, err := time.Parse(constants.DateLayout, assignedDate); err != nil {
		return models.Task{}, fmt.Errorf("invalid assigned date %q, use YYYY-MM-DD: %w", assignedDate, err)
	}
	if _, err := s.store.GetProject(projectID); err != nil {
		return models.Task{}, fmt.Errorf("cannot add task: %w", err)
	}

	task := models.Task{
		ID:                 uuid.New().String(),
		ProjectID:          projectID,
		Title:              title,
		Description:        description,
		Completed:          false,
		AssignedDate:       assignedDate,
		RolloverCount:      0,
		CreatedAt:          s.now(),
		LastRolledOverDate: assignedDate,
	}

	if err := s.store.AddTask(task); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// DeleteTask removes a task. Deleting an unknown task is a no-op.
func (s *Service) DeleteTask(id string) error {
	err := s.store.DeleteTask(id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	return err
}

// ToggleTaskComplete flips a task's completion state, setting CompletedAt
// when it completes and clearing it when it reopens. Toggling an unknown
// task is a no-op.
func (s *Service) ToggleTaskComplete(id string) error {
	task, err := s.store.GetTask(id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if task.Completed {
		task.Completed = false
		task.CompletedAt = nil
	} else {
		task.Completed = true
		now := s.now()
		task.CompletedAt = &now
	}

	return s.store.UpdateTask(task)
}

// MoveTask repoints a task at another project. The target project must
// exist; a dangling reference would orphan the task in every view.
func (s *Service) MoveTask(taskID, newProjectID string) error {
	task, err := s.store.GetTask(taskID)
	if err != nil {
		return err
	}
	if _, err := s.store.GetProject(newProjectID); err != nil {
		return fmt.Errorf("cannot move task: %w", err)
	}

	task.ProjectID = newProjectID
	return s.store.UpdateTask(task)
}

// TasksByDate returns the incomplete tasks assigned to the given date.
func (s *Service) TasksByDate(date string) ([]models.Task, error) {
	return s.filterTasks(func(t models.Task) bool {
		return t.AssignedDate == date && !t.Completed
	})
}

// CompletedTasksByDate returns the tasks completed on the given date,
// matched on the date portion of CompletedAt.
func (s *Service) CompletedTasksByDate(date string) ([]models.Task, error) {
	return s.filterTasks(func(t models.Task) bool {
		return t.Completed && t.CompletedAt != nil &&
			t.CompletedAt.Format(constants.DateLayout) == date
	})
}

// TasksByProject returns the incomplete tasks on a project for a date.
func (s *Service) TasksByProject(projectID, date string) ([]models.Task, error) {
	return s.filterTasks(func(t models.Task) bool {
		return t.ProjectID == projectID && t.AssignedDate == date && !t.Completed
	})
}

// IncompleteTasksByProject returns all incomplete tasks on a project
// regardless of date.
func (s *Service) IncompleteTasksByProject(projectID string) ([]models.Task, error) {
	return s.filterTasks(func(t models.Task) bool {
		return t.ProjectID == projectID && !t.Completed
	})
}

func (s *Service) ProjectByID(id string) (models.Project, error) {
	return s.store.GetProject(id)
}

func (s *Service) TaskByID(id string) (models.Task, error) {
	return s.store.GetTask(id)
}

func (s *Service) filterTasks(keep func(models.Task) bool) ([]models.Task, error) {
	tasks, err := s.store.GetAllTasks()
	if err != nil {
		return nil, err
	}
	filtered := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if keep(t) {
			filtered = append(filtered, t)
		}
	}
	sortTasks(filtered)
	return filtered, nil
}

// CheckRollover runs a rollover pass when the calendar day has changed
// since the last recorded pass. It returns how many tasks advanced and
// whether a pass ran at all.
func (s *Service) CheckRollover() (int, bool, error) {
	state, err := s.store.GetRolloverState()
	if err != nil {
		return 0, false, err
	}

	today := s.Today()
	if state.LastRolloverDate == today {
		return 0, false, nil
	}

	advanced, err := s.performRollover(today)
	return advanced, true, err
}

// Rollover always runs a pass for today, even when one already ran. Safe to
// re-run: tasks advanced earlier today are guarded by LastRolledOverDate.
func (s *Service) Rollover() (int, error) {
	return s.performRollover(s.Today())
}

func (s *Service) performRollover(today string) (int, error) {
	tasks, err := s.store.GetAllTasks()
	if err != nil {
		return 0, err
	}

	updated, advanced, err := s.engine.Apply(today, tasks)
	if err != nil {
		return 0, err
	}

	state := storage.RolloverState{
		LastRolloverDate: today,
		LastRolloverTime: rollover.Timestamp(s.now()),
	}
	if err := s.store.ReplaceTasks(updated, state); err != nil {
		return 0, err
	}
	return advanced, nil
}

// LastRollover reports when the rollover engine last ran.
func (s *Service) LastRollover() (storage.RolloverState, error) {
	return s.store.GetRolloverState()
}

// Entity order follows creation time so output is stable even though the
// stores hand back map-ordered slices.
func sortProjects(projects []models.Project) {
	sort.Slice(projects, func(i, j int) bool {
		if !projects[i].CreatedAt.Equal(projects[j].CreatedAt) {
			return projects[i].CreatedAt.Before(projects[j].CreatedAt)
		}
		return projects[i].ID < projects[j].ID
	})
}

func sortTasks(tasks []models.Task) {
	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		}
		return tasks[i].ID < tasks[j].ID
	})
}
