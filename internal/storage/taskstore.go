package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/DaniarKamaev/Tasks/internal/logging"
)

const schemaVersion = 1

// DefaultOwnerTag marks records as belonging to the single local user.
// Kept in the schema for a future multi-user extension.
const DefaultOwnerTag = 1

var (
	// ErrNotFound is returned when a lookup targets an id that is not stored.
	ErrNotFound = errors.New("task not found")

	// ErrStoreClosed is returned on write paths after Close. Read paths
	// degrade to empty results instead (logged, not raised), so a caller's
	// happy path stays simple.
	ErrStoreClosed = errors.New("task store is closed")
)

// TaskRecord is the persisted unit of work.
type TaskRecord struct {
	ID          int
	Title       string
	Description string
	CreatedAt   time.Time
	IsCompleted bool
	OwnerTag    int
}

// TaskStore handles SQLite task storage. It is the sole source of truth:
// callers reload from it rather than trusting in-memory copies across
// process restarts.
//
// The store assumes a single local writer. NextAvailableID followed by
// Insert is not protected against interleaving; concurrent writers would
// need a transaction around the allocate-then-insert sequence.
type TaskStore struct {
	db  *sql.DB
	log *logrus.Logger
}

// NewTaskStore opens (creating if needed) the SQLite database at dbPath.
func NewTaskStore(dbPath string, log *logrus.Logger) (*TaskStore, error) {
	if log == nil {
		log = logging.Discard()
	}

	// Expand ~ in path
	if strings.HasPrefix(dbPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	store := &TaskStore{db: db, log: log}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// migrate creates the necessary tables and records the schema version.
func (s *TaskStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS tasks (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL,
			is_completed INTEGER NOT NULL DEFAULT 0,
			owner_tag INTEGER NOT NULL DEFAULT 1
		);

		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_tasks_created ON tasks(created_at);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	var current int
	err := s.db.QueryRow(`SELECT version FROM schema_version LIMIT 1`).Scan(&current)
	switch {
	case err == sql.ErrNoRows:
		_, err = s.db.Exec(`INSERT INTO schema_version (version) VALUES (?)`, schemaVersion)
		return err
	case err != nil:
		return err
	case current > schemaVersion:
		return fmt.Errorf("database schema version %d is newer than supported version %d", current, schemaVersion)
	}
	return nil
}

// Close closes the database connection.
func (s *TaskStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// ready reports whether the underlying database is usable.
func (s *TaskStore) ready() bool {
	return s != nil && s.db != nil
}

// SchemaVersion returns the version recorded in the database.
func (s *TaskStore) SchemaVersion() int {
	if !s.ready() {
		return 0
	}
	var v int
	if err := s.db.QueryRow(`SELECT version FROM schema_version LIMIT 1`).Scan(&v); err != nil {
		return 0
	}
	return v
}

// Insert persists a new record. The id must be unique; inserting a
// duplicate id fails.
func (s *TaskStore) Insert(ctx context.Context, task *TaskRecord) error {
	if !s.ready() {
		return ErrStoreClosed
	}
	if task.OwnerTag == 0 {
		task.OwnerTag = DefaultOwnerTag
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, description, created_at, is_completed, owner_tag)
		VALUES (?, ?, ?, ?, ?, ?)
	`, task.ID, task.Title, task.Description, task.CreatedAt, task.IsCompleted, task.OwnerTag)
	if err != nil {
		return fmt.Errorf("insert task %d: %w", task.ID, err)
	}
	return nil
}

// ListAll returns all records ordered by creation time, newest first.
// On a closed or broken store it returns an empty slice and logs the
// condition; to the caller that is indistinguishable from "no tasks yet".
func (s *TaskStore) ListAll(ctx context.Context) []*TaskRecord {
	if !s.ready() {
		s.logNotReady("list")
		return []*TaskRecord{}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, created_at, is_completed, owner_tag
		FROM tasks
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		s.log.WithError(err).Warn("failed to list tasks")
		return []*TaskRecord{}
	}
	defer rows.Close()

	return s.collect(rows)
}

// FindByID retrieves a record by id, or ErrNotFound.
func (s *TaskStore) FindByID(ctx context.Context, id int) (*TaskRecord, error) {
	if !s.ready() {
		return nil, ErrStoreClosed
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, created_at, is_completed, owner_tag
		FROM tasks WHERE id = ?
	`, id)

	var t TaskRecord
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.CreatedAt, &t.IsCompleted, &t.OwnerTag)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &t, nil
}

// Search returns records whose title or description contains the query,
// case-insensitively, newest first. An empty query is equivalent to ListAll.
func (s *TaskStore) Search(ctx context.Context, query string) []*TaskRecord {
	if query == "" {
		return s.ListAll(ctx)
	}
	if !s.ready() {
		s.logNotReady("search")
		return []*TaskRecord{}
	}

	// instr() gives a plain substring match, so LIKE wildcards in the
	// query are matched literally.
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, created_at, is_completed, owner_tag
		FROM tasks
		WHERE instr(lower(title), lower(?)) > 0
		   OR instr(lower(description), lower(?)) > 0
		ORDER BY created_at DESC, id DESC
	`, query, query)
	if err != nil {
		s.log.WithError(err).WithField("query", query).Warn("failed to search tasks")
		return []*TaskRecord{}
	}
	defer rows.Close()

	return s.collect(rows)
}

// Update overwrites title, description and completion of the record with
// the same id. It never touches id or created_at. Returns whether a
// matching record existed.
func (s *TaskStore) Update(ctx context.Context, task *TaskRecord) (bool, error) {
	if !s.ready() {
		return false, ErrStoreClosed
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET title = ?, description = ?, is_completed = ?
		WHERE id = ?
	`, task.Title, task.Description, task.IsCompleted, task.ID)
	if err != nil {
		return false, fmt.Errorf("update task %d: %w", task.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Delete removes the record with the given id. Returns whether a
// deletion occurred.
func (s *TaskStore) Delete(ctx context.Context, id int) (bool, error) {
	if !s.ready() {
		return false, ErrStoreClosed
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete task %d: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteAll bulk-clears the store. Maintenance only, not part of the
// normal flow.
func (s *TaskStore) DeleteAll(ctx context.Context) error {
	if !s.ready() {
		return ErrStoreClosed
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("delete all tasks: %w", err)
	}
	return nil
}

// Count returns the number of stored records.
func (s *TaskStore) Count(ctx context.Context) int {
	if !s.ready() {
		s.logNotReady("count")
		return 0
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&n); err != nil {
		s.log.WithError(err).Warn("failed to count tasks")
		return 0
	}
	return n
}

// Exists reports whether a record with the given id is stored.
func (s *TaskStore) Exists(ctx context.Context, id int) bool {
	if !s.ready() {
		s.logNotReady("exists")
		return false
	}
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks WHERE id = ?`, id).Scan(&n)
	if err != nil {
		s.log.WithError(err).Warn("failed to check task existence")
		return false
	}
	return n > 0
}

// NextAvailableID returns max(existing ids) + 1, or 1 for an empty store.
// Not race-free under concurrent writers; this store has a single local one.
func (s *TaskStore) NextAvailableID(ctx context.Context) int {
	if !s.ready() {
		s.logNotReady("next id")
		return 1
	}
	var next int
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM tasks`).Scan(&next)
	if err != nil {
		s.log.WithError(err).Warn("failed to compute next task id")
		return 1
	}
	return next
}

func (s *TaskStore) collect(rows *sql.Rows) []*TaskRecord {
	tasks := []*TaskRecord{}
	for rows.Next() {
		var t TaskRecord
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.CreatedAt, &t.IsCompleted, &t.OwnerTag); err != nil {
			s.log.WithError(err).Warn("failed to scan task row")
			continue
		}
		tasks = append(tasks, &t)
	}
	if err := rows.Err(); err != nil {
		s.log.WithError(err).Warn("task row iteration failed")
	}
	return tasks
}

func (s *TaskStore) logNotReady(op string) {
	if s == nil || s.log == nil {
		return
	}
	s.log.WithField("op", op).Warn("task store not ready, degrading to empty result")
}
