package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/tasklist-api/internal/domain"
)

// TaskFilter narrows a task listing. A nil Completed means no completion
// filter; true/false restrict the listing to completed or open tasks.
type TaskFilter struct {
	Completed *bool
}

// TaskPage is one page of a user's tasks, newest first, along with the
// pagination bookkeeping the API reports back to the client.
type TaskPage struct {
	Tasks      []*domain.Task
	Page       int
	Limit      int
	TotalTasks int
	TotalPages int
}

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns validation errors from the domain Task if data is invalid.
	// Returns ErrInvalidEntity if the owning user does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID regardless of owner.
	// Ownership is enforced by the caller so that a missing task and a
	// foreign task stay distinguishable (404 vs 401 at the API layer).
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// List returns one page of the user's tasks ordered newest first,
	// optionally filtered by completion state. Offset pagination:
	// skip = (page-1)*limit. The returned page carries the total count
	// and page count after filtering; an empty collection yields an
	// empty Tasks slice and TotalPages 0.
	List(ctx context.Context, userID uuid.UUID, filter TaskFilter, page, limit int) (*TaskPage, error)

	// Update saves changes to an existing task.
	// Returns ErrTaskNotFound if the task does not exist.
	// Returns validation errors from the domain Task if data is invalid.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task from the store by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}
