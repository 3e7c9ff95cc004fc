package jobs

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/cadence-api/internal/domain/schedule"
	"github.com/phrazzld/cadence-api/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// fakeJobStore is an in-memory store.JobStore.
type fakeJobStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]store.JobRecord
	saveErr error
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{records: make(map[uuid.UUID]store.JobRecord)}
}

func (s *fakeJobStore) SaveJob(_ context.Context, job store.JobRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.records[job.ID] = job
	return nil
}

func (s *fakeJobStore) UpdateJobStatus(_ context.Context, id uuid.UUID, status store.JobStatus, msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return store.ErrJobNotFound
	}
	rec.Status = status
	rec.ErrorMessage = msg
	rec.UpdatedAt = time.Now()
	s.records[id] = rec
	return nil
}

func (s *fakeJobStore) byStatus(status store.JobStatus) []store.JobRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []store.JobRecord
	for _, rec := range s.records {
		if rec.Status == status {
			out = append(out, rec)
		}
	}
	return out
}

func (s *fakeJobStore) GetPendingJobs(context.Context) ([]store.JobRecord, error) {
	return s.byStatus(store.JobStatusPending), nil
}

func (s *fakeJobStore) GetProcessingJobs(context.Context, time.Duration) ([]store.JobRecord, error) {
	return s.byStatus(store.JobStatusProcessing), nil
}

func (s *fakeJobStore) WithTx(*sql.Tx) store.JobStore { return s }

func (s *fakeJobStore) status(id uuid.UUID) store.JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records[id].Status
}

// fakeRescheduler records the users it was asked to reschedule.
type fakeRescheduler struct {
	mu    sync.Mutex
	users []uuid.UUID
	err   error
}

func (r *fakeRescheduler) Reschedule(_ context.Context, userID uuid.UUID) (*schedule.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = append(r.users, userID)
	if r.err != nil {
		return nil, r.err
	}
	return &schedule.Result{}, nil
}

func (r *fakeRescheduler) calls() []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uuid.UUID(nil), r.users...)
}

// funcJob is a Job backed by a function.
type funcJob struct {
	id  uuid.UUID
	run func(ctx context.Context) error
}

func newFuncJob(run func(ctx context.Context) error) *funcJob {
	return &funcJob{id: uuid.New(), run: run}
}

func (j *funcJob) ID() uuid.UUID                     { return j.id }
func (j *funcJob) Type() string                      { return "func" }
func (j *funcJob) Payload() []byte                   { return []byte("{}") }
func (j *funcJob) Execute(ctx context.Context) error { return j.run(ctx) }

// recordingSubmitter captures submitted jobs.
type recordingSubmitter struct {
	mu   sync.Mutex
	jobs []Job
	fail map[uuid.UUID]bool
}

func (s *recordingSubmitter) Submit(_ context.Context, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := job.(*RescheduleUserJob); ok && s.fail[r.UserID()] {
		return errors.New("queue full")
	}
	s.jobs = append(s.jobs, job)
	return nil
}
