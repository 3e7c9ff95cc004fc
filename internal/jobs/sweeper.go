package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// ReasonNightly is the reschedule reason recorded by the sweeper.
const ReasonNightly = "nightly"

// UserLister lists every user ID. store.UserStore implements it.
type UserLister interface {
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
}

// Sweeper submits one reschedule job per user on a cron schedule, so
// unplaced tasks roll forward as days pass.
type Sweeper struct {
	cron      *cron.Cron
	spec      string
	users     UserLister
	factory   *RescheduleJobFactory
	submitter Submitter
	timeout   time.Duration
	logger    *slog.Logger
}

// NewSweeper parses spec (standard five-field cron) in loc.
func NewSweeper(
	spec string,
	loc *time.Location,
	users UserLister,
	factory *RescheduleJobFactory,
	submitter Submitter,
	logger *slog.Logger,
) (*Sweeper, error) {
	if loc == nil {
		loc = time.UTC
	}
	log := logger.With("component", "nightly_sweeper")

	s := &Sweeper{
		cron:      cron.New(cron.WithLocation(loc)),
		spec:      spec,
		users:     users,
		factory:   factory,
		submitter: submitter,
		timeout:   time.Minute,
		logger:    log,
	}

	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start begins firing on schedule.
func (s *Sweeper) Start() {
	s.cron.Start()
	s.logger.Info("nightly sweep scheduled", "spec", s.spec)
}

// Stop stops the scheduler and waits for a running sweep.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Sweeper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.Sweep(ctx); err != nil {
		s.logger.Error("nightly sweep failed", "error", err)
	}
}

// Sweep submits a reschedule job for every user and returns how many were
// accepted. A failed submission is logged and the sweep continues.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	ids, err := s.users.ListIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}

	submitted := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return submitted, err
		}
		job := s.factory.NewJob(id, ReasonNightly)
		if err := s.submitter.Submit(ctx, job); err != nil {
			s.logger.Warn("failed to submit nightly job", "user_id", id, "error", err)
			continue
		}
		submitted++
	}

	s.logger.Info("nightly sweep finished", "users", len(ids), "submitted", submitted)
	return submitted, nil
}
