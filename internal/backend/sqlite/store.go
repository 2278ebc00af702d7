// Package sqlite implements service.Service on a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"gtodo/internal/service"
)

// Store is a service.Service backed by SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			is_done INTEGER NOT NULL DEFAULT 0,
			tags TEXT NOT NULL DEFAULT '[]',
			last_update_time INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_tasks_created ON tasks(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateTask implements service.Service.
func (s *Store) CreateTask(ctx context.Context, name string) (service.Task, error) {
	task := service.Task{
		ID:   uuid.NewString(),
		Name: name,
		Tags: []string{},
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (id, name, is_done, tags, last_update_time, created_at) VALUES (?, ?, 0, '[]', 0, ?)`,
		task.ID, task.Name, s.now().UnixNano())
	if err != nil {
		return service.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return task, nil
}

// ListTasks implements service.Service. Tasks come back in creation order.
func (s *Store) ListTasks(ctx context.Context) (service.Collection, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, is_done, tags, last_update_time FROM tasks ORDER BY created_at, id`)
	if err != nil {
		return service.Collection{}, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var result []service.Task
	for rows.Next() {
		var (
			t        service.Task
			done     int
			tagsJSON string
		)
		if err := rows.Scan(&t.ID, &t.Name, &done, &tagsJSON, &t.LastUpdateTime); err != nil {
			return service.Collection{}, err
		}
		t.IsDone = done != 0
		if err := json.Unmarshal([]byte(tagsJSON), &t.Tags); err != nil {
			return service.Collection{}, fmt.Errorf("task %s: bad tags: %w", t.ID, err)
		}
		if t.Tags == nil {
			t.Tags = []string{}
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return service.Collection{}, err
	}
	return service.Collection{Tasks: result, RowCount: len(result)}, nil
}

// UpdateTask implements service.Service.
func (s *Store) UpdateTask(ctx context.Context, task service.Task) error {
	tags := task.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET name = ?, is_done = ?, tags = ?, last_update_time = ? WHERE id = ?`,
		task.Name, boolToInt(task.IsDone), string(tagsJSON), task.LastUpdateTime, task.ID)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return expectOne(res, task.ID)
}

// DeleteTask implements service.Service.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return expectOne(res, id)
}

func expectOne(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("task %s: %w", id, service.ErrNotFound)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// compile-time check
var _ service.Service = (*Store)(nil)

