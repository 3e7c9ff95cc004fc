package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/cadence-api/internal/domain"
	"github.com/phrazzld/cadence-api/internal/store"
)

// MockTaskStore implements store.TaskStore over an in-memory map.
type MockTaskStore struct {
	CreateFn           func(ctx context.Context, task *domain.Task) error
	GetByIDFn          func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	ListByUserFn       func(ctx context.Context, userID uuid.UUID, filter store.TaskFilter) ([]domain.Task, error)
	UpdateFn           func(ctx context.Context, task *domain.Task) error
	UpdateStartDatesFn func(ctx context.Context, userID uuid.UUID, changes []store.StartDateChange) (int, error)
	DeleteFn           func(ctx context.Context, id uuid.UUID) error

	mu    sync.Mutex
	Tasks map[uuid.UUID]domain.Task

	// StartDateCalls records every UpdateStartDates batch.
	StartDateCalls [][]store.StartDateChange
	// WithTxCalls counts WithTx calls.
	WithTxCalls int
}

// NewMockTaskStore creates an in-memory store seeded with tasks.
func NewMockTaskStore(tasks ...domain.Task) *MockTaskStore {
	m := &MockTaskStore{Tasks: make(map[uuid.UUID]domain.Task)}
	for _, task := range tasks {
		m.Tasks[task.ID] = task
	}
	return m
}

// Create implements store.TaskStore.
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Tasks[task.ID]; exists {
		return store.ErrDuplicate
	}
	m.Tasks[task.ID] = *task
	return nil
}

// GetByID implements store.TaskStore.
func (m *MockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.Tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return &task, nil
}

// ListByUser returns matching tasks ordered by created_at, then id.
func (m *MockTaskStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	filter store.TaskFilter,
) ([]domain.Task, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID, filter)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.Task, 0, len(m.Tasks))
	for _, task := range m.Tasks {
		if task.UserID != userID {
			continue
		}
		if filter.Completed != nil && task.Completed != *filter.Completed {
			continue
		}
		if filter.Category != "" && task.Category != filter.Category {
			continue
		}
		out = append(out, task)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

// Update implements store.TaskStore.
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Tasks[task.ID]; !ok {
		return store.ErrTaskNotFound
	}
	m.Tasks[task.ID] = *task
	return nil
}

// UpdateStartDates implements store.TaskStore.
func (m *MockTaskStore) UpdateStartDates(
	ctx context.Context,
	userID uuid.UUID,
	changes []store.StartDateChange,
) (int, error) {
	m.mu.Lock()
	m.StartDateCalls = append(m.StartDateCalls, changes)
	m.mu.Unlock()

	if m.UpdateStartDatesFn != nil {
		return m.UpdateStartDatesFn(ctx, userID, changes)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	written := 0
	for _, change := range changes {
		task, ok := m.Tasks[change.TaskID]
		if !ok || task.UserID != userID {
			continue
		}
		task.StartDate = change.StartDate
		m.Tasks[change.TaskID] = task
		written++
	}
	return written, nil
}

// Delete implements store.TaskStore.
func (m *MockTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(m.Tasks, id)
	return nil
}

// WithTx returns the same mock.
func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	m.mu.Lock()
	m.WithTxCalls++
	m.mu.Unlock()
	return m
}

var _ store.TaskStore = (*MockTaskStore)(nil)
