package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/cadence-api/internal/domain/schedule"
	"github.com/phrazzld/cadence-api/internal/platform/logger"
	"github.com/phrazzld/cadence-api/internal/store"
)

// TypeRescheduleUser recomputes and persists one user's schedule.
const TypeRescheduleUser = "reschedule_user"

// Rescheduler recomputes a user's schedule. The schedule service
// implements it.
type Rescheduler interface {
	Reschedule(ctx context.Context, userID uuid.UUID) (*schedule.Result, error)
}

type reschedulePayload struct {
	UserID uuid.UUID `json:"user_id"`
	Reason string    `json:"reason"`
}

// RescheduleUserJob runs the scheduler for one user.
type RescheduleUserJob struct {
	id          uuid.UUID
	payload     reschedulePayload
	rescheduler Rescheduler
}

// ID implements Job.
func (j *RescheduleUserJob) ID() uuid.UUID { return j.id }

// Type implements Job.
func (j *RescheduleUserJob) Type() string { return TypeRescheduleUser }

// UserID returns the user whose schedule the job recomputes.
func (j *RescheduleUserJob) UserID() uuid.UUID { return j.payload.UserID }

// Payload implements Job.
func (j *RescheduleUserJob) Payload() []byte {
	data, err := json.Marshal(j.payload)
	if err != nil {
		return []byte("{}")
	}
	return data
}

// Execute implements Job.
func (j *RescheduleUserJob) Execute(ctx context.Context) error {
	result, err := j.rescheduler.Reschedule(ctx, j.payload.UserID)
	if err != nil {
		return fmt.Errorf("reschedule user %s: %w", j.payload.UserID, err)
	}

	logger.FromContext(ctx).Info("user rescheduled",
		"user_id", j.payload.UserID,
		"reason", j.payload.Reason,
		"rescheduled_count", len(result.RescheduledTasks),
		"warning_count", len(result.Warnings))
	return nil
}

// RescheduleJobFactory creates RescheduleUserJobs bound to a Rescheduler.
type RescheduleJobFactory struct {
	rescheduler Rescheduler
}

// NewRescheduleJobFactory returns a factory whose jobs call rescheduler.
func NewRescheduleJobFactory(rescheduler Rescheduler) *RescheduleJobFactory {
	return &RescheduleJobFactory{rescheduler: rescheduler}
}

// NewJob returns a fresh job for userID.
func (f *RescheduleJobFactory) NewJob(userID uuid.UUID, reason string) *RescheduleUserJob {
	return &RescheduleUserJob{
		id:          uuid.New(),
		payload:     reschedulePayload{UserID: userID, Reason: reason},
		rescheduler: f.rescheduler,
	}
}

// Build is the Registry Builder for TypeRescheduleUser.
func (f *RescheduleJobFactory) Build(record store.JobRecord) (Job, error) {
	var payload reschedulePayload
	if err := json.Unmarshal(record.Payload, &payload); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", TypeRescheduleUser, err)
	}
	if payload.UserID == uuid.Nil {
		return nil, fmt.Errorf("decode %s payload: missing user_id", TypeRescheduleUser)
	}
	return &RescheduleUserJob{id: record.ID, payload: payload, rescheduler: f.rescheduler}, nil
}
