package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/DaniarKamaev/Tasks/internal/logging"
	"github.com/DaniarKamaev/Tasks/internal/storage"
)

var (
	// ErrLoadInFlight is returned when LoadTasks is called while a
	// previous load is still running. Prevents duplicate seeding.
	ErrLoadInFlight = errors.New("task load already in progress")

	// ErrIndexOutOfRange is returned by index-based accessors and
	// commands when the position does not exist in the filtered set.
	ErrIndexOutOfRange = errors.New("task index out of range")

	// ErrNotFound mirrors the storage sentinel for callers that only
	// import core.
	ErrNotFound = storage.ErrNotFound
)

// TaskService bridges the store and the presentation layer. It owns the
// in-memory working set (all tasks) and filtered set (current view),
// implements the seed-on-empty policy, and publishes change and error
// notifications.
//
// The presentation layer never mutates the sets directly; it reads
// through NumberOfTodos/Todo and issues commands.
type TaskService struct {
	store TaskStorage
	seed  SeedSource
	log   *logrus.Logger
	now   func() time.Time

	mu       sync.Mutex
	loading  bool
	tasks    []Task // working set, newest first
	filtered []Task // search results, or a full copy of the working set

	onChanged []func()
	onError   []func(message string)
}

// TaskServiceDeps holds dependencies for constructing a TaskService.
type TaskServiceDeps struct {
	Store TaskStorage
	Seed  SeedSource
	Log   *logrus.Logger
	Now   func() time.Time // defaults to time.Now
}

// NewTaskService creates a task service with explicit dependencies.
func NewTaskService(deps TaskServiceDeps) *TaskService {
	if deps.Log == nil {
		deps.Log = logging.Discard()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &TaskService{
		store: deps.Store,
		seed:  deps.Seed,
		log:   deps.Log,
		now:   deps.Now,
	}
}

// OnTasksChanged registers an observer called after every mutation of
// the in-memory sets. No payload; observers re-read through the pull
// accessors.
func (s *TaskService) OnTasksChanged(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChanged = append(s.onChanged, fn)
}

// OnError registers an observer for user-visible failures.
func (s *TaskService) OnError(fn func(message string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onError = append(s.onError, fn)
}

// LoadTasks populates the working set from the store, seeding from the
// remote source when the store is empty. A second call while a load is
// in flight is rejected with ErrLoadInFlight.
func (s *TaskService) LoadTasks(ctx context.Context) error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return ErrLoadInFlight
	}
	s.loading = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	records := s.store.ListAll(ctx)
	if len(records) > 0 {
		s.log.WithField("count", len(records)).Debug("loaded tasks from local store")
		s.replaceSets(tasksFromRecords(records))
		s.notifyChanged()
		return nil
	}

	return s.seedFromRemote(ctx)
}

// seedFromRemote runs the seed-on-empty path: fetch the batch, persist
// each record, then publish the fetched batch as the working set.
func (s *TaskService) seedFromRemote(ctx context.Context) error {
	if s.seed == nil {
		s.replaceSets(nil)
		s.notifyChanged()
		return nil
	}

	todos, err := s.seed.FetchTodos(ctx)
	if err != nil {
		s.log.WithError(err).Warn("remote seed failed")
		s.replaceSets(nil)
		s.notifyError("failed to load tasks: " + err.Error())
		return fmt.Errorf("seed tasks: %w", err)
	}

	seededAt := s.now()
	tasks := make([]Task, 0, len(todos))
	for _, todo := range todos {
		task := TaskFromSeed(todo, seededAt)
		tasks = append(tasks, task)

		// Already-have-this-id guard: a partially seeded store keeps
		// its records.
		if s.store.Exists(ctx, task.ID) {
			continue
		}
		if err := s.store.Insert(ctx, recordFromTask(task)); err != nil {
			s.log.WithError(err).WithField("id", task.ID).Warn("failed to persist seeded task")
		}
	}

	s.log.WithField("count", len(tasks)).Info("seeded tasks from remote source")
	s.replaceSets(tasks)
	s.notifyChanged()
	return nil
}

// AddNewTodo creates a task from user input. Empty fields are replaced
// with placeholders; the id comes from the store's allocator; the new
// task is prepended so newest-first ordering holds without re-querying.
func (s *TaskService) AddNewTodo(ctx context.Context, title, description string) (Task, error) {
	if title == "" {
		title = DefaultTitle
	}
	if description == "" {
		description = DefaultDescription
	}

	task := Task{
		ID:          s.store.NextAvailableID(ctx),
		Title:       title,
		Description: description,
		CreatedAt:   s.now(),
		OwnerTag:    storage.DefaultOwnerTag,
	}

	if err := s.store.Insert(ctx, recordFromTask(task)); err != nil {
		s.notifyError("failed to add task")
		return Task{}, fmt.Errorf("add task: %w", err)
	}

	s.mu.Lock()
	s.tasks = append([]Task{task}, s.tasks...)
	s.filtered = copyTasks(s.tasks)
	s.mu.Unlock()

	s.notifyChanged()
	return task, nil
}

// UpdateTodo persists the task's mutable fields and, on success,
// replaces the matching working-set entry. The filtered set becomes a
// full copy again: an edit ends the current search view.
func (s *TaskService) UpdateTodo(ctx context.Context, task Task) error {
	found, err := s.store.Update(ctx, recordFromTask(task))
	if err != nil {
		s.notifyError("failed to update task")
		return fmt.Errorf("update task %d: %w", task.ID, err)
	}
	if !found {
		s.notifyError("failed to update task")
		return fmt.Errorf("update task %d: %w", task.ID, ErrNotFound)
	}

	s.mu.Lock()
	for i := range s.tasks {
		if s.tasks[i].ID == task.ID {
			task.CreatedAt = s.tasks[i].CreatedAt // created_at is immutable
			s.tasks[i] = task
			break
		}
	}
	s.filtered = copyTasks(s.tasks)
	s.mu.Unlock()

	s.notifyChanged()
	return nil
}

// DeleteTodo removes the task shown at the given filtered-set position.
func (s *TaskService) DeleteTodo(ctx context.Context, index int) error {
	s.mu.Lock()
	if index < 0 || index >= len(s.filtered) {
		n := len(s.filtered)
		s.mu.Unlock()
		return fmt.Errorf("%w: have %d, got %d", ErrIndexOutOfRange, n, index)
	}
	id := s.filtered[index].ID
	s.mu.Unlock()

	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		s.notifyError("failed to delete task")
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	if !deleted {
		s.notifyError("failed to delete task")
		return fmt.Errorf("delete task %d: %w", id, ErrNotFound)
	}

	s.mu.Lock()
	s.tasks = removeByID(s.tasks, id)
	s.filtered = removeByID(s.filtered, id)
	s.mu.Unlock()

	s.notifyChanged()
	return nil
}

// ToggleCompletion flips the completion flag of the task shown at the
// given filtered-set position and persists the change. A persistence
// failure is surfaced through the error notification like every other
// write failure.
func (s *TaskService) ToggleCompletion(ctx context.Context, index int) error {
	s.mu.Lock()
	if index < 0 || index >= len(s.filtered) {
		n := len(s.filtered)
		s.mu.Unlock()
		return fmt.Errorf("%w: have %d, got %d", ErrIndexOutOfRange, n, index)
	}
	task := s.filtered[index]
	s.mu.Unlock()

	task.IsCompleted = !task.IsCompleted

	found, err := s.store.Update(ctx, recordFromTask(task))
	if err != nil {
		s.notifyError("failed to toggle task completion")
		return fmt.Errorf("toggle task %d: %w", task.ID, err)
	}
	if !found {
		s.notifyError("failed to toggle task completion")
		return fmt.Errorf("toggle task %d: %w", task.ID, ErrNotFound)
	}

	s.mu.Lock()
	for i := range s.tasks {
		if s.tasks[i].ID == task.ID {
			s.tasks[i] = task
			break
		}
	}
	for i := range s.filtered {
		if s.filtered[i].ID == task.ID {
			s.filtered[i] = task
			break
		}
	}
	s.mu.Unlock()

	s.notifyChanged()
	return nil
}

// SearchTodos updates the filtered set. An empty query restores a full
// copy of the working set without touching the store.
func (s *TaskService) SearchTodos(ctx context.Context, query string) {
	if query == "" {
		s.mu.Lock()
		s.filtered = copyTasks(s.tasks)
		s.mu.Unlock()
		s.notifyChanged()
		return
	}

	records := s.store.Search(ctx, query)

	s.mu.Lock()
	s.filtered = tasksFromRecords(records)
	s.mu.Unlock()
	s.notifyChanged()
}

// NumberOfTodos returns the size of the filtered set.
func (s *TaskService) NumberOfTodos() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.filtered)
}

// Todo returns the filtered-set entry at the given position, or
// ErrIndexOutOfRange.
func (s *TaskService) Todo(index int) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.filtered) {
		return Task{}, fmt.Errorf("%w: have %d, got %d", ErrIndexOutOfRange, len(s.filtered), index)
	}
	return s.filtered[index], nil
}

// TodoByID returns the working-set entry with the given id, or
// ErrNotFound.
func (s *TaskService) TodoByID(id int) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, task := range s.tasks {
		if task.ID == id {
			return task, nil
		}
	}
	return Task{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
}

// Reset bulk-clears the store and the in-memory sets. Maintenance only.
func (s *TaskService) Reset(ctx context.Context) error {
	if err := s.store.DeleteAll(ctx); err != nil {
		s.notifyError("failed to reset tasks")
		return fmt.Errorf("reset tasks: %w", err)
	}
	s.replaceSets(nil)
	s.notifyChanged()
	return nil
}

// replaceSets installs a new working set and mirrors it into the
// filtered set.
func (s *TaskService) replaceSets(tasks []Task) {
	s.mu.Lock()
	s.tasks = copyTasks(tasks)
	s.filtered = copyTasks(tasks)
	s.mu.Unlock()
}

// notifyChanged invokes the change observers outside the lock so that a
// callback may read back through the accessors.
func (s *TaskService) notifyChanged() {
	s.mu.Lock()
	observers := make([]func(), len(s.onChanged))
	copy(observers, s.onChanged)
	s.mu.Unlock()

	for _, fn := range observers {
		fn()
	}
}

func (s *TaskService) notifyError(message string) {
	s.mu.Lock()
	observers := make([]func(string), len(s.onError))
	copy(observers, s.onError)
	s.mu.Unlock()

	for _, fn := range observers {
		fn(message)
	}
}

// Type conversion helpers

func taskFromRecord(r *storage.TaskRecord) Task {
	return Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		IsCompleted: r.IsCompleted,
		OwnerTag:    r.OwnerTag,
	}
}

func recordFromTask(t Task) *storage.TaskRecord {
	return &storage.TaskRecord{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
		IsCompleted: t.IsCompleted,
		OwnerTag:    t.OwnerTag,
	}
}

func tasksFromRecords(records []*storage.TaskRecord) []Task {
	tasks := make([]Task, len(records))
	for i, r := range records {
		tasks[i] = taskFromRecord(r)
	}
	return tasks
}

func copyTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return out
}

func removeByID(tasks []Task, id int) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}
