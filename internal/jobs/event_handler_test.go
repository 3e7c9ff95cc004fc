package jobs

import (
	"context"
	"testing"

	"github.com/phrazzld/cadence-api/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleRequestedHandler(t *testing.T) {
	t.Parallel()

	submitter := &recordingSubmitter{}
	handler := NewScheduleRequestedHandler(NewRescheduleJobFactory(&fakeRescheduler{}), submitter, discardLogger())

	event, err := events.NewScheduleRequested(testUserID, "task.completed")
	require.NoError(t, err)
	require.NoError(t, handler.HandleEvent(context.Background(), event))

	other, err := events.NewEvent("user.deleted", nil)
	require.NoError(t, err)
	require.NoError(t, handler.HandleEvent(context.Background(), other))

	require.Len(t, submitter.jobs, 1)
	job := submitter.jobs[0].(*RescheduleUserJob)
	assert.Equal(t, testUserID, job.UserID())
	assert.Contains(t, string(job.Payload()), "task.completed")
}

func TestScheduleRequestedHandlerBadPayload(t *testing.T) {
	t.Parallel()

	handler := NewScheduleRequestedHandler(NewRescheduleJobFactory(&fakeRescheduler{}), &recordingSubmitter{}, discardLogger())
	event := &events.Event{Type: events.TypeScheduleRequested, Payload: []byte(`[`)}

	assert.ErrorContains(t, handler.HandleEvent(context.Background(), event), "failed to unmarshal payload")
}

func TestScheduleRequestedHandlerWithEmitter(t *testing.T) {
	t.Parallel()

	submitter := &recordingSubmitter{}
	emitter := events.NewInMemoryEventEmitter(discardLogger())
	emitter.RegisterHandler(NewScheduleRequestedHandler(NewRescheduleJobFactory(&fakeRescheduler{}), submitter, discardLogger()))

	event, err := events.NewScheduleRequested(testUserID, "task.created")
	require.NoError(t, err)
	require.NoError(t, emitter.EmitEvent(context.Background(), event))
	assert.Len(t, submitter.jobs, 1)
}
