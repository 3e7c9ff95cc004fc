package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/cadence-api/internal/domain"
	"github.com/phrazzld/cadence-api/internal/events"
	"github.com/phrazzld/cadence-api/internal/platform/logger"
	"github.com/phrazzld/cadence-api/internal/store"
)

// Reasons attached to the schedule.requested events a mutation emits.
const (
	ReasonTaskCreated   = "task_created"
	ReasonTaskUpdated   = "task_updated"
	ReasonTaskCompleted = "task_completed"
	ReasonTaskReopened  = "task_reopened"
	ReasonTaskPinned    = "task_pinned"
	ReasonTaskDeleted   = "task_deleted"
)

// TaskInput carries the user-editable fields of a task.
type TaskInput struct {
	Title             string
	Category          domain.Category
	EstimatedHours    float64
	Importance        domain.Importance
	Urgency           domain.Urgency
	DueDate           *domain.Date
	IsRecurring       bool
	RecurringSeriesID *uuid.UUID
}

func (in TaskInput) applyTo(task *domain.Task) {
	task.Title = strings.TrimSpace(in.Title)
	task.Category = in.Category
	task.EstimatedHours = in.EstimatedHours
	task.Importance = in.Importance
	task.Urgency = in.Urgency
	task.DueDate = in.DueDate
	task.IsRecurring = in.IsRecurring
	task.RecurringSeriesID = in.RecurringSeriesID
}

// TaskService manages a user's tasks. Every operation is scoped to the
// calling user; a task owned by someone else yields ErrTaskNotOwned.
type TaskService interface {
	CreateTask(ctx context.Context, userID uuid.UUID, input TaskInput) (*domain.Task, error)
	GetTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)
	ListTasks(ctx context.Context, userID uuid.UUID, filter store.TaskFilter) ([]domain.Task, error)
	UpdateTask(ctx context.Context, userID, taskID uuid.UUID, input TaskInput) (*domain.Task, error)
	CompleteTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)
	ReopenTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)
	// PinTask fixes the task to date; a nil date removes the pin.
	PinTask(ctx context.Context, userID, taskID uuid.UUID, date *domain.Date) (*domain.Task, error)
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error
}

type taskServiceImpl struct {
	taskStore store.TaskStore
	db        store.TxBeginner
	emitter   events.EventEmitter
	logger    *slog.Logger
	now       func() time.Time
}

var _ TaskService = (*taskServiceImpl)(nil)

// NewTaskService creates a TaskService. A nil emitter disables rescheduling
// on change.
func NewTaskService(
	taskStore store.TaskStore,
	db store.TxBeginner,
	emitter events.EventEmitter,
	logger *slog.Logger,
) TaskService {
	if taskStore == nil {
		panic("taskStore cannot be nil")
	}
	if db == nil {
		panic("db cannot be nil")
	}
	if emitter == nil {
		emitter = events.NoopEmitter{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &taskServiceImpl{
		taskStore: taskStore,
		db:        db,
		emitter:   emitter,
		logger:    logger.With(slog.String("component", "task_service")),
		now:       time.Now,
	}
}

func invalidTask(err error) error {
	return domain.NewValidationError("", strings.TrimPrefix(err.Error(), "task "), err)
}

// CreateTask implements TaskService.
func (s *taskServiceImpl) CreateTask(ctx context.Context, userID uuid.UUID, input TaskInput) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(userID, input.Title, input.Category, input.EstimatedHours, input.Importance, input.Urgency)
	if err != nil {
		return nil, invalidTask(err)
	}
	input.applyTo(task)
	if input.IsRecurring && input.RecurringSeriesID == nil {
		// A recurring task without a series starts its own.
		series := task.ID
		task.RecurringSeriesID = &series
	}
	if err := task.Validate(); err != nil {
		return nil, invalidTask(err)
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError("task", "create", err)
	}

	log.Info("task created",
		slog.String("user_id", userID.String()),
		slog.String("task_id", task.ID.String()))
	s.requestSchedule(ctx, userID, ReasonTaskCreated)
	return task, nil
}

// GetTask implements TaskService.
func (s *taskServiceImpl) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	return s.ownedTask(ctx, s.taskStore, userID, taskID)
}

// ListTasks implements TaskService.
func (s *taskServiceImpl) ListTasks(
	ctx context.Context,
	userID uuid.UUID,
	filter store.TaskFilter,
) ([]domain.Task, error) {
	tasks, err := s.taskStore.ListByUser(ctx, userID, filter)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError("task", "list", err)
	}
	return tasks, nil
}

// UpdateTask implements TaskService. Completion state, pin and start date
// are left as they are.
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	userID, taskID uuid.UUID,
	input TaskInput,
) (*domain.Task, error) {
	return s.mutate(ctx, "update", ReasonTaskUpdated, userID, taskID, func(task *domain.Task, now time.Time) error {
		input.applyTo(task)
		if task.IsRecurring && task.RecurringSeriesID == nil {
			series := task.ID
			task.RecurringSeriesID = &series
		}
		if err := task.Validate(); err != nil {
			return invalidTask(err)
		}
		task.UpdatedAt = now.UTC()
		return nil
	})
}

// CompleteTask implements TaskService.
func (s *taskServiceImpl) CompleteTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	return s.mutate(ctx, "complete", ReasonTaskCompleted, userID, taskID, func(task *domain.Task, now time.Time) error {
		task.Complete(now)
		return nil
	})
}

// ReopenTask implements TaskService.
func (s *taskServiceImpl) ReopenTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	return s.mutate(ctx, "reopen", ReasonTaskReopened, userID, taskID, func(task *domain.Task, now time.Time) error {
		task.Reopen(now)
		return nil
	})
}

// PinTask implements TaskService.
func (s *taskServiceImpl) PinTask(
	ctx context.Context,
	userID, taskID uuid.UUID,
	date *domain.Date,
) (*domain.Task, error) {
	return s.mutate(ctx, "pin", ReasonTaskPinned, userID, taskID, func(task *domain.Task, now time.Time) error {
		task.Pin(date, now)
		return nil
	})
}

// DeleteTask implements TaskService.
func (s *taskServiceImpl) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.taskStore.WithTx(tx)
		if _, err := s.ownedTask(ctx, txStore, userID, taskID); err != nil {
			return err
		}
		return txStore.Delete(ctx, taskID)
	})
	if err != nil {
		return s.wrapMutationError(log, "delete", taskID, err)
	}

	log.Info("task deleted",
		slog.String("user_id", userID.String()),
		slog.String("task_id", taskID.String()))
	s.requestSchedule(ctx, userID, ReasonTaskDeleted)
	return nil
}

// mutate loads an owned task, applies change and writes it back in one
// transaction, then asks for a reschedule.
func (s *taskServiceImpl) mutate(
	ctx context.Context,
	op, reason string,
	userID, taskID uuid.UUID,
	change func(task *domain.Task, now time.Time) error,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.Task
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.taskStore.WithTx(tx)

		task, err := s.ownedTask(ctx, txStore, userID, taskID)
		if err != nil {
			return err
		}
		if err := change(task, s.now()); err != nil {
			return err
		}
		if err := txStore.Update(ctx, task); err != nil {
			return err
		}
		updated = task
		return nil
	})
	if err != nil {
		return nil, s.wrapMutationError(log, op, taskID, err)
	}

	log.Info("task changed",
		slog.String("op", op),
		slog.String("user_id", userID.String()),
		slog.String("task_id", taskID.String()))
	s.requestSchedule(ctx, userID, reason)
	return updated, nil
}

func (s *taskServiceImpl) ownedTask(
	ctx context.Context,
	tasks store.TaskStore,
	userID, taskID uuid.UUID,
) (*domain.Task, error) {
	task, err := tasks.GetByID(ctx, taskID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if task.UserID != userID {
		logger.FromContextOrDefault(ctx, s.logger).Warn("task owned by another user",
			slog.String("user_id", userID.String()),
			slog.String("task_id", taskID.String()))
		return nil, ErrTaskNotOwned
	}
	return task, nil
}

func (s *taskServiceImpl) wrapMutationError(log *slog.Logger, op string, taskID uuid.UUID, err error) error {
	var validationErr *domain.ValidationError
	switch {
	case errors.Is(err, store.ErrTaskNotFound),
		errors.Is(err, ErrTaskNotOwned),
		errors.As(err, &validationErr):
		return err
	}
	log.Error("task mutation failed",
		slog.String("op", op),
		slog.String("error", err.Error()),
		slog.String("task_id", taskID.String()))
	return NewServiceError("task", op, err)
}

// requestSchedule emits schedule.requested. The mutation has already been
// committed, so a failure here is logged rather than returned; the nightly
// sweep catches up.
func (s *taskServiceImpl) requestSchedule(ctx context.Context, userID uuid.UUID, reason string) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	event, err := events.NewScheduleRequested(userID, reason)
	if err == nil {
		err = s.emitter.EmitEvent(ctx, event)
	}
	if err != nil {
		log.Warn("failed to request reschedule",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("reason", reason))
	}
}
