package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/DaniarKamaev/Tasks/internal/remote"
	"github.com/DaniarKamaev/Tasks/internal/storage"
)

// Common test errors
var (
	ErrMockStorage = errors.New("mock storage error")
	ErrMockFetch   = errors.New("mock fetch error")
)

// MockTaskStorage implements TaskStorage for testing
type MockTaskStorage struct {
	mu      sync.Mutex
	Records map[int]*storage.TaskRecord

	InsertCount int
	ListCount   int
	SearchCount int
	UpdateCount int
	DeleteCount int

	FailInsert bool
	FailUpdate bool
	FailDelete bool
	Degraded   bool // reads behave like a broken store: empty results
}

func NewMockTaskStorage() *MockTaskStorage {
	return &MockTaskStorage{
		Records: make(map[int]*storage.TaskRecord),
	}
}

func (m *MockTaskStorage) Insert(ctx context.Context, task *storage.TaskRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InsertCount++
	if m.FailInsert {
		return ErrMockStorage
	}
	if _, exists := m.Records[task.ID]; exists {
		return fmt.Errorf("duplicate id %d", task.ID)
	}
	rec := *task
	m.Records[task.ID] = &rec
	return nil
}

func (m *MockTaskStorage) ListAll(ctx context.Context) []*storage.TaskRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ListCount++
	if m.Degraded {
		return []*storage.TaskRecord{}
	}
	return m.sorted()
}

func (m *MockTaskStorage) FindByID(ctx context.Context, id int) (*storage.TaskRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rec, ok := m.Records[id]; ok {
		out := *rec
		return &out, nil
	}
	return nil, storage.ErrNotFound
}

func (m *MockTaskStorage) Search(ctx context.Context, query string) []*storage.TaskRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SearchCount++
	if m.Degraded {
		return []*storage.TaskRecord{}
	}
	var out []*storage.TaskRecord
	for _, rec := range m.sorted() {
		if containsFold(rec.Title, query) || containsFold(rec.Description, query) {
			out = append(out, rec)
		}
	}
	return out
}

func (m *MockTaskStorage) Update(ctx context.Context, task *storage.TaskRecord) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpdateCount++
	if m.FailUpdate {
		return false, ErrMockStorage
	}
	rec, ok := m.Records[task.ID]
	if !ok {
		return false, nil
	}
	rec.Title = task.Title
	rec.Description = task.Description
	rec.IsCompleted = task.IsCompleted
	return true, nil
}

func (m *MockTaskStorage) Delete(ctx context.Context, id int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeleteCount++
	if m.FailDelete {
		return false, ErrMockStorage
	}
	if _, ok := m.Records[id]; !ok {
		return false, nil
	}
	delete(m.Records, id)
	return true, nil
}

func (m *MockTaskStorage) DeleteAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Records = make(map[int]*storage.TaskRecord)
	return nil
}

func (m *MockTaskStorage) Count(ctx context.Context) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Records)
}

func (m *MockTaskStorage) Exists(ctx context.Context, id int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Records[id]
	return ok
}

func (m *MockTaskStorage) NextAvailableID(ctx context.Context) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := 1
	for id := range m.Records {
		if id >= next {
			next = id + 1
		}
	}
	return next
}

func (m *MockTaskStorage) Close() error { return nil }

// sorted returns copies of the records, newest first, ties broken by
// descending id — the store's defined ordering.
func (m *MockTaskStorage) sorted() []*storage.TaskRecord {
	out := make([]*storage.TaskRecord, 0, len(m.Records))
	for _, rec := range m.Records {
		cp := *rec
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// MockSeedSource implements SeedSource for testing
type MockSeedSource struct {
	mu         sync.Mutex
	Todos      []remote.Todo
	Err        error
	FetchCount int

	// Block, when set, is received from before returning; lets tests
	// hold a load in flight.
	Block chan struct{}
}

func (m *MockSeedSource) FetchTodos(ctx context.Context) ([]remote.Todo, error) {
	m.mu.Lock()
	m.FetchCount++
	block := m.Block
	todos, err := m.Todos, m.Err
	m.mu.Unlock()

	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}
	return todos, nil
}

func (m *MockSeedSource) Fetches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.FetchCount
}
