package jobs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue(t *testing.T) {
	t.Parallel()

	q := NewQueue(1, discardLogger())
	noop := func(context.Context) error { return nil }

	first := newFuncJob(noop)
	require.NoError(t, q.Enqueue(first))
	assert.ErrorIs(t, q.Enqueue(newFuncJob(noop)), ErrQueueFull)

	q.Close()
	q.Close()
	assert.ErrorIs(t, q.Enqueue(newFuncJob(noop)), ErrQueueClosed)

	got, ok := <-q.Jobs()
	require.True(t, ok, "buffered jobs survive Close")
	assert.Equal(t, first.ID(), got.ID())

	_, ok = <-q.Jobs()
	assert.False(t, ok)
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	factory := NewRescheduleJobFactory(&fakeRescheduler{})
	registry := NewRegistry()
	registry.Register(TypeRescheduleUser, factory.Build)

	job := factory.NewJob(testUserID, "task.created")
	rebuilt, err := registry.Build(recordOf(job, "pending"))
	require.NoError(t, err)
	assert.Equal(t, job.ID(), rebuilt.ID())
	assert.Equal(t, testUserID, rebuilt.(*RescheduleUserJob).UserID())

	_, err = registry.Build(recordOf(newFuncJob(nil), "pending"))
	assert.ErrorIs(t, err, ErrUnknownJobType)
}
