package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/cadence-api/internal/store"
)

// Job is a unit of background work. Its state lives in a store.JobStore;
// the Job value only knows how to run itself.
type Job interface {
	// ID returns the job's unique identifier
	ID() uuid.UUID

	// Type identifies the job kind and selects its Builder on recovery
	Type() string

	// Payload returns the job's data serialized as JSON
	Payload() []byte

	// Execute runs the job. A returned error marks the job failed.
	Execute(ctx context.Context) error
}

// ErrUnknownJobType is returned when no Builder is registered for a type.
var ErrUnknownJobType = errors.New("unknown job type")

// Builder rebuilds a runnable Job from its stored record.
type Builder func(record store.JobRecord) (Job, error)

// Registry maps job types to Builders so persisted jobs can be resumed.
type Registry struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{builders: make(map[string]Builder)}
}

// Register sets the Builder for jobType, replacing any previous one.
func (r *Registry) Register(jobType string, builder Builder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builders[jobType] = builder
}

// Build turns record back into a Job.
func (r *Registry) Build(record store.JobRecord) (Job, error) {
	r.mu.RLock()
	builder, ok := r.builders[record.Type]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownJobType, record.Type)
	}
	return builder(record)
}

func recordOf(job Job, status store.JobStatus) store.JobRecord {
	return store.JobRecord{
		ID:      job.ID(),
		Type:    job.Type(),
		Payload: job.Payload(),
		Status:  status,
	}
}
