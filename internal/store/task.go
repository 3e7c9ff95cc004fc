package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/cadence-api/internal/domain"
)

// TaskFilter narrows ListByUser. Zero values mean "no filter".
type TaskFilter struct {
	Completed *bool
	Category  domain.Category
}

// StartDateChange is one scheduler decision to persist.
type StartDateChange struct {
	TaskID    uuid.UUID
	StartDate *domain.Date
}

// TaskStore defines the interface for task persistence.
type TaskStore interface {
	// Create saves a new task. Returns ErrInvalidEntity if the task fails
	// domain validation.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by ID. Returns ErrTaskNotFound if it does
	// not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// ListByUser returns a user's tasks ordered by created_at, then id.
	ListByUser(ctx context.Context, userID uuid.UUID, filter TaskFilter) ([]domain.Task, error)

	// Update replaces every mutable field of an existing task.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// UpdateStartDates writes only start_date for each change, scoped to
	// userID. Tasks that vanished since the schedule was computed are
	// skipped; the number of rows written is returned.
	UpdateStartDates(ctx context.Context, userID uuid.UUID, changes []StartDateChange) (int, error)

	// Delete removes a task. Returns ErrTaskNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a TaskStore bound to tx.
	WithTx(tx *sql.Tx) TaskStore
}
