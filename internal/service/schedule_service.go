package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/cadence-api/internal/domain"
	"github.com/phrazzld/cadence-api/internal/domain/schedule"
	"github.com/phrazzld/cadence-api/internal/platform/logger"
	"github.com/phrazzld/cadence-api/internal/store"
)

// UserLockFunc takes a lock on userID that lasts until tx ends. It
// serializes reschedules across server instances.
type UserLockFunc func(ctx context.Context, tx *sql.Tx, userID uuid.UUID) error

// FocusView is the list of tasks to work on today.
type FocusView struct {
	Date  domain.Date                `json:"date"`
	Tasks []schedule.PrioritizedTask `json:"tasks"`
}

// ScheduleService runs the scheduling engine against stored data.
type ScheduleService interface {
	// Reschedule recomputes the user's start dates and persists the ones
	// that changed. Concurrent calls for one user run one at a time.
	Reschedule(ctx context.Context, userID uuid.UUID) (*schedule.Result, error)

	// Focus returns today's focus list. Nothing is written; the schedule
	// is computed in memory so the list is current even before the next
	// reschedule lands.
	Focus(ctx context.Context, userID uuid.UUID) (*FocusView, error)

	// Priority scores one of the user's tasks as of today.
	Priority(ctx context.Context, userID, taskID uuid.UUID) (*schedule.PrioritizedTask, error)
}

// ScheduleServiceConfig holds the collaborators of a ScheduleService.
type ScheduleServiceConfig struct {
	Users    store.UserStore
	Tasks    store.TaskStore
	Settings store.SettingsStore
	DB       store.TxBeginner
	Engine   schedule.Service
	// LockUser is optional; without it only in-process calls are serialized.
	LockUser UserLockFunc
	// DefaultLocation applies to users without a time zone. Nil means UTC.
	DefaultLocation *time.Location
	Logger          *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

type scheduleServiceImpl struct {
	users      store.UserStore
	tasks      store.TaskStore
	settings   store.SettingsStore
	db         store.TxBeginner
	engine     schedule.Service
	lockUser   UserLockFunc
	defaultLoc *time.Location
	locks      *userLocks
	logger     *slog.Logger
	now        func() time.Time
}

var _ ScheduleService = (*scheduleServiceImpl)(nil)

// NewScheduleService creates a ScheduleService.
func NewScheduleService(cfg ScheduleServiceConfig) ScheduleService {
	if cfg.Users == nil || cfg.Tasks == nil || cfg.Settings == nil {
		panic("schedule service requires user, task and settings stores")
	}
	if cfg.DB == nil {
		panic("db cannot be nil")
	}
	if cfg.Engine == nil {
		cfg.Engine = schedule.NewDefaultService()
	}
	if cfg.LockUser == nil {
		cfg.LockUser = func(context.Context, *sql.Tx, uuid.UUID) error { return nil }
	}
	if cfg.DefaultLocation == nil {
		cfg.DefaultLocation = time.UTC
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &scheduleServiceImpl{
		users:      cfg.Users,
		tasks:      cfg.Tasks,
		settings:   cfg.Settings,
		db:         cfg.DB,
		engine:     cfg.Engine,
		lockUser:   cfg.LockUser,
		defaultLoc: cfg.DefaultLocation,
		locks:      newUserLocks(),
		logger:     cfg.Logger.With(slog.String("component", "schedule_service")),
		now:        cfg.Now,
	}
}

// Reschedule implements ScheduleService.
func (s *scheduleServiceImpl) Reschedule(ctx context.Context, userID uuid.UUID) (*schedule.Result, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("user_id", userID.String()))

	unlock := s.locks.lock(userID)
	defer unlock()

	var (
		result  schedule.Result
		today   domain.Date
		written int
	)
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.lockUser(ctx, tx, userID); err != nil {
			return err
		}

		txTasks := s.tasks.WithTx(tx)
		in, err := s.load(ctx, s.users.WithTx(tx), txTasks, s.settings.WithTx(tx), userID)
		if err != nil {
			return err
		}
		today = in.today

		result = in.engine.AssignStartDates(in.tasks, in.limits, today)
		if len(result.RescheduledTasks) == 0 {
			return nil
		}

		changes := make([]store.StartDateChange, len(result.RescheduledTasks))
		for i, r := range result.RescheduledTasks {
			changes[i] = store.StartDateChange{TaskID: r.Task.ID, StartDate: r.Task.StartDate}
		}
		written, err = txTasks.UpdateStartDates(ctx, userID, changes)
		if err != nil {
			return fmt.Errorf("failed to save start dates: %w", err)
		}
		return nil
	})
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		log.Error("reschedule failed", slog.String("error", err.Error()))
		return nil, NewServiceError("schedule", "reschedule", err)
	}

	for _, warning := range result.Warnings {
		log.Warn("scheduling warning", slog.String("warning", warning))
	}
	log.Info("schedule updated",
		slog.String("today", today.String()),
		slog.Int("tasks", len(result.Tasks)),
		slog.Int("rescheduled", len(result.RescheduledTasks)),
		slog.Int("written", written),
		slog.Int("duplicates", len(result.Duplicates)),
		slog.Int("warnings", len(result.Warnings)))

	return &result, nil
}

// Focus implements ScheduleService.
func (s *scheduleServiceImpl) Focus(ctx context.Context, userID uuid.UUID) (*FocusView, error) {
	in, err := s.load(ctx, s.users, s.tasks, s.settings, userID)
	if err != nil {
		return nil, s.readError(ctx, "focus", userID, err)
	}

	planned := in.engine.AssignStartDates(in.tasks, in.limits, in.today)
	return &FocusView{
		Date:  in.today,
		Tasks: in.engine.TodaysFocus(planned.Tasks, in.limits.DailyMaxTasks, in.today),
	}, nil
}

// Priority implements ScheduleService.
func (s *scheduleServiceImpl) Priority(
	ctx context.Context,
	userID, taskID uuid.UUID,
) (*schedule.PrioritizedTask, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, s.readError(ctx, "priority", userID, err)
	}
	if task.UserID != userID {
		return nil, ErrTaskNotOwned
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, s.readError(ctx, "priority", userID, err)
	}
	loc := user.Location(s.defaultLoc)

	prioritized := s.engine.In(loc).Prioritize(*task, domain.DateIn(s.now(), loc))
	return &prioritized, nil
}

// engineInput is everything one engine run needs for a user.
type engineInput struct {
	tasks  []domain.Task
	limits domain.Limits
	today  domain.Date
	engine schedule.Service
}

func (s *scheduleServiceImpl) load(
	ctx context.Context,
	users store.UserStore,
	tasks store.TaskStore,
	settings store.SettingsStore,
	userID uuid.UUID,
) (*engineInput, error) {
	user, err := users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	list, err := tasks.ListByUser(ctx, userID, store.TaskFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	capacity, err := loadSettings(ctx, settings, userID)
	if err != nil {
		return nil, err
	}

	loc := user.Location(s.defaultLoc)
	return &engineInput{
		tasks:  list,
		limits: capacity.Limits,
		today:  domain.DateIn(s.now(), loc),
		engine: s.engine.In(loc),
	}, nil
}

func (s *scheduleServiceImpl) readError(ctx context.Context, op string, userID uuid.UUID, err error) error {
	if store.IsNotFoundError(err) {
		return err
	}
	logger.FromContextOrDefault(ctx, s.logger).Error("schedule read failed",
		slog.String("op", op),
		slog.String("error", err.Error()),
		slog.String("user_id", userID.String()))
	return NewServiceError("schedule", op, err)
}
