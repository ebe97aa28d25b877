package storage

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mveach/rollo/internal/constants"
	"github.com/mveach/rollo/internal/models"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

const (
	metaLastRolloverDate = "last_rollover_date"
	metaLastRolloverTime = "last_rollover_time"
)

type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		path: path,
	}
}

func (s *SQLiteStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return s.open()
}

// Load opens the database, creating and seeding it when missing. A file
// that is not a readable SQLite database is moved aside and replaced with a
// fresh seeded one rather than aborting.
func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := s.open(); err != nil {
		quarantine := s.path + ".corrupt"
		if renameErr := os.Rename(s.path, quarantine); renameErr != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Warning: database is unreadable (%v); moved to %s, starting fresh\n", err, quarantine)
		s.db = nil
		return s.open()
	}

	return nil
}

// open connects, applies the schema, and seeds an empty database.
func (s *SQLiteStore) open() error {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// Verify the file is actually a SQLite database before trusting it
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count); err != nil {
		db.Close()
		return fmt.Errorf("database appears to be corrupted: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	s.db = db
	return s.seedIfEmpty()
}

func (s *SQLiteStore) seedIfEmpty() error {
	var haveMeta int
	err := s.db.QueryRow("SELECT COUNT(*) FROM meta WHERE key = ?", metaLastRolloverDate).Scan(&haveMeta)
	if err != nil {
		return fmt.Errorf("failed to check rollover state: %w", err)
	}
	if haveMeta > 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()

	var projectCount int
	if err := tx.QueryRow("SELECT COUNT(*) FROM projects").Scan(&projectCount); err != nil {
		return err
	}
	if projectCount == 0 {
		project := defaultProject(now)
		_, err = tx.Exec(
			"INSERT INTO projects (id, name, archived, created_at) VALUES (?, ?, ?, ?)",
			project.ID, project.Name, project.Archived, project.CreatedAt.Format(time.RFC3339Nano),
		)
		if err != nil {
			return err
		}
	}

	_, err = tx.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?), (?, ?)",
		metaLastRolloverDate, now.Format(constants.DateLayout),
		metaLastRolloverTime, "",
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) AddProject(project models.Project) error {
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO projects (id, name, archived, created_at) VALUES (?, ?, ?, ?)",
		project.ID, project.Name, project.Archived, project.CreatedAt.Format(time.RFC3339Nano),
	)
	return err
}

func (s *SQLiteStore) GetProject(id string) (models.Project, error) {
	row := s.db.QueryRow("SELECT id, name, archived, created_at FROM projects WHERE id = ?", id)

	project, err := scanProject(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Project{}, fmt.Errorf("project %s: %w", id, ErrNotFound)
		}
		return models.Project{}, err
	}
	return project, nil
}

func (s *SQLiteStore) GetAllProjects() ([]models.Project, error) {
	rows, err := s.db.Query("SELECT id, name, archived, created_at FROM projects")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

func (s *SQLiteStore) UpdateProject(project models.Project) error {
	res, err := s.db.Exec(
		"UPDATE projects SET name = ?, archived = ?, created_at = ? WHERE id = ?",
		project.Name, project.Archived, project.CreatedAt.Format(time.RFC3339Nano), project.ID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("project %s: %w", project.ID, ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) DeleteProject(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec("DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}

	if _, err := tx.Exec("DELETE FROM tasks WHERE project_id = ?", id); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) AddTask(task models.Task) error {
	return s.writeTask(s.db, task)
}

func (s *SQLiteStore) GetTask(id string) (models.Task, error) {
	row := s.db.QueryRow(`
		SELECT id, project_id, title, description, completed, assigned_date,
		       rollover_count, created_at, completed_at, last_rolled_over_date
		FROM tasks WHERE id = ?`, id)

	task, err := scanTask(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Task{}, fmt.Errorf("task %s: %w", id, ErrNotFound)
		}
		return models.Task{}, err
	}
	return task, nil
}

func (s *SQLiteStore) GetAllTasks() ([]models.Task, error) {
	rows, err := s.db.Query(`
		SELECT id, project_id, title, description, completed, assigned_date,
		       rollover_count, created_at, completed_at, last_rolled_over_date
		FROM tasks`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (s *SQLiteStore) UpdateTask(task models.Task) error {
	if _, err := s.GetTask(task.ID); err != nil {
		return err
	}
	return s.writeTask(s.db, task)
}

func (s *SQLiteStore) DeleteTask(id string) error {
	res, err := s.db.Exec("DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) GetRolloverState() (RolloverState, error) {
	rows, err := s.db.Query("SELECT key, value FROM meta WHERE key IN (?, ?)",
		metaLastRolloverDate, metaLastRolloverTime)
	if err != nil {
		return RolloverState{}, err
	}
	defer rows.Close()

	state := RolloverState{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return RolloverState{}, err
		}
		switch key {
		case metaLastRolloverDate:
			state.LastRolloverDate = value
		case metaLastRolloverTime:
			state.LastRolloverTime = value
		}
	}
	if err := rows.Err(); err != nil {
		return RolloverState{}, err
	}

	if state.LastRolloverDate == "" {
		state.LastRolloverDate = time.Now().Format(constants.DateLayout)
	}

	return state, nil
}

func (s *SQLiteStore) ReplaceTasks(tasks []models.Task, rollover RolloverState) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM tasks"); err != nil {
		return err
	}

	for _, task := range tasks {
		if err := s.writeTask(tx, task); err != nil {
			return err
		}
	}

	_, err = tx.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?), (?, ?)",
		metaLastRolloverDate, rollover.LastRolloverDate,
		metaLastRolloverTime, rollover.LastRolloverTime,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}

func (s *SQLiteStore) GetDB() *sql.DB {
	return s.db
}

// execer lets writeTask run against either the pool or a transaction.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func (s *SQLiteStore) writeTask(e execer, task models.Task) error {
	var completedAt sql.NullString
	if task.CompletedAt != nil {
		completedAt = sql.NullString{String: task.CompletedAt.Format(time.RFC3339Nano), Valid: true}
	}

	_, err := e.Exec(`
		INSERT OR REPLACE INTO tasks (
			id, project_id, title, description, completed, assigned_date,
			rollover_count, created_at, completed_at, last_rolled_over_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.ProjectID, task.Title, task.Description, task.Completed, task.AssignedDate,
		task.RolloverCount, task.CreatedAt.Format(time.RFC3339Nano), completedAt, task.LastRolledOverDate,
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (models.Project, error) {
	var p models.Project
	var createdAt string

	if err := row.Scan(&p.ID, &p.Name, &p.Archived, &createdAt); err != nil {
		return models.Project{}, err
	}

	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return models.Project{}, fmt.Errorf("invalid created_at for project %s: %w", p.ID, err)
	}
	p.CreatedAt = t
	return p, nil
}

func scanTask(row rowScanner) (models.Task, error) {
	var t models.Task
	var createdAt string
	var completedAt, lastRolledOver sql.NullString

	err := row.Scan(
		&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Completed, &t.AssignedDate,
		&t.RolloverCount, &createdAt, &completedAt, &lastRolledOver,
	)
	if err != nil {
		return models.Task{}, err
	}

	created, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return models.Task{}, fmt.Errorf("invalid created_at for task %s: %w", t.ID, err)
	}
	t.CreatedAt = created

	if completedAt.Valid {
		done, err := time.Parse(time.RFC3339Nano, completedAt.String)
		if err != nil {
			return models.Task{}, fmt.Errorf("invalid completed_at for task %s: %w", t.ID, err)
		}
		t.CompletedAt = &done
	}
	t.LastRolledOverDate = lastRolledOver.String

	return t, nil
}
