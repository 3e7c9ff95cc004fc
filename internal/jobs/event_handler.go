package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/cadence-api/internal/events"
)

// Submitter accepts jobs for background execution. Runner implements it.
type Submitter interface {
	Submit(ctx context.Context, job Job) error
}

// ScheduleRequestedHandler turns schedule.requested events into
// reschedule jobs.
type ScheduleRequestedHandler struct {
	factory   *RescheduleJobFactory
	submitter Submitter
	logger    *slog.Logger
}

// NewScheduleRequestedHandler creates the handler.
func NewScheduleRequestedHandler(
	factory *RescheduleJobFactory,
	submitter Submitter,
	logger *slog.Logger,
) *ScheduleRequestedHandler {
	return &ScheduleRequestedHandler{
		factory:   factory,
		submitter: submitter,
		logger:    logger.With("component", "schedule_requested_handler"),
	}
}

var _ events.EventHandler = (*ScheduleRequestedHandler)(nil)

// HandleEvent implements events.EventHandler. Other event types are ignored.
func (h *ScheduleRequestedHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	if event.Type != events.TypeScheduleRequested {
		h.logger.Debug("ignoring event with unsupported type",
			"event_type", event.Type,
			"event_id", event.ID)
		return nil
	}

	var payload events.ScheduleRequestedPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		h.logger.Error("failed to unmarshal payload", "error", err, "event_id", event.ID)
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	job := h.factory.NewJob(payload.UserID, payload.Reason)
	if err := h.submitter.Submit(ctx, job); err != nil {
		h.logger.Error("failed to submit job",
			"error", err,
			"job_id", job.ID(),
			"user_id", payload.UserID,
			"event_id", event.ID)
		return fmt.Errorf("failed to submit job: %w", err)
	}

	h.logger.Debug("reschedule job submitted",
		"job_id", job.ID(),
		"user_id", payload.UserID,
		"reason", payload.Reason,
		"event_id", event.ID)
	return nil
}
