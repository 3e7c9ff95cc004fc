package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// JobStatus is the lifecycle state of a persisted background job.
type JobStatus string

// Job states.
const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// JobRecord is the stored form of a background job.
type JobRecord struct {
	ID           uuid.UUID
	Type         string
	Payload      json.RawMessage
	Status       JobStatus
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// JobStore persists background jobs so pending work survives restarts.
type JobStore interface {
	// SaveJob inserts a new job record.
	SaveJob(ctx context.Context, job JobRecord) error

	// UpdateJobStatus sets the status of a job and records errorMsg when
	// it failed. Returns ErrJobNotFound if the job does not exist.
	UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status JobStatus, errorMsg string) error

	// GetPendingJobs returns all jobs still waiting to run, oldest first.
	GetPendingJobs(ctx context.Context) ([]JobRecord, error)

	// GetProcessingJobs returns jobs stuck in processing for longer than
	// olderThan. Zero returns every processing job.
	GetProcessingJobs(ctx context.Context, olderThan time.Duration) ([]JobRecord, error)

	// WithTx returns a JobStore bound to tx.
	WithTx(tx *sql.Tx) JobStore
}
