package core

import (
	"context"

	"github.com/DaniarKamaev/Tasks/internal/remote"
	"github.com/DaniarKamaev/Tasks/internal/storage"
)

// TaskStorage is durable CRUD over task records.
// Implementations: storage.TaskStore (SQLite)
type TaskStorage interface {
	// Insert persists a new record; the id must not be stored yet.
	Insert(ctx context.Context, task *storage.TaskRecord) error

	// ListAll returns all records, newest first. A broken store degrades
	// to an empty slice.
	ListAll(ctx context.Context) []*storage.TaskRecord

	// FindByID returns the record or storage.ErrNotFound.
	FindByID(ctx context.Context, id int) (*storage.TaskRecord, error)

	// Search matches the query case-insensitively against title or
	// description; an empty query is equivalent to ListAll.
	Search(ctx context.Context, query string) []*storage.TaskRecord

	// Update overwrites the mutable fields of the record with the same
	// id and reports whether one existed.
	Update(ctx context.Context, task *storage.TaskRecord) (bool, error)

	// Delete removes the record and reports whether a deletion occurred.
	Delete(ctx context.Context, id int) (bool, error)

	DeleteAll(ctx context.Context) error
	Count(ctx context.Context) int
	Exists(ctx context.Context, id int) bool

	// NextAvailableID returns max(id)+1, or 1 for an empty store.
	NextAvailableID(ctx context.Context) int

	Close() error
}

// SeedSource fetches the initial task batch when local storage is empty.
// Implementations: remote.Client (dummyjson)
type SeedSource interface {
	FetchTodos(ctx context.Context) ([]remote.Todo, error)
}
