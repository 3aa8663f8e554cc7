package core

import (
	"fmt"
	"time"

	"github.com/DaniarKamaev/Tasks/internal/remote"
	"github.com/DaniarKamaev/Tasks/internal/storage"
)

// Placeholder values substituted when a task is created with empty fields.
const (
	DefaultTitle       = "New task"
	DefaultDescription = "No description"
)

// Task is one entry of the task list as the presentation layer sees it.
type Task struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	IsCompleted bool      `json:"is_completed"`
	OwnerTag    int       `json:"owner_tag"`
}

// TaskFromSeed maps a remote seed entry into a Task. The title is
// synthesized from the remote id, the description carries the remote
// text, and the creation time is the seed time rather than anything
// the source reports.
func TaskFromSeed(todo remote.Todo, seededAt time.Time) Task {
	return Task{
		ID:          todo.ID,
		Title:       fmt.Sprintf("Task #%d", todo.ID),
		Description: todo.Text,
		CreatedAt:   seededAt,
		IsCompleted: todo.Completed,
		OwnerTag:    storage.DefaultOwnerTag,
	}
}
