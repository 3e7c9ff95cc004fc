package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	task, err := NewTask(userID, "  Write report  ", CategoryWork, 2.5, Important, NotUrgent)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, task.ID)
	assert.Equal(t, userID, task.UserID)
	assert.Equal(t, "Write report", task.Title)
	assert.Equal(t, QuadrantSchedule, task.Quadrant())
	assert.Nil(t, task.StartDate)
	assert.False(t, task.CreatedAt.IsZero())
}

func TestTaskValidate(t *testing.T) {
	t.Parallel()

	series := uuid.New()
	valid := func() Task {
		return Task{
			ID:             uuid.New(),
			UserID:         uuid.New(),
			Title:          "Laundry",
			Category:       CategoryHome,
			EstimatedHours: 1,
			Importance:     NotImportant,
			Urgency:        Urgent,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Task)
		wantErr error
	}{
		{"valid", func(*Task) {}, nil},
		{"missing id", func(t *Task) { t.ID = uuid.Nil }, ErrTaskIDEmpty},
		{"missing user", func(t *Task) { t.UserID = uuid.Nil }, ErrTaskUserIDEmpty},
		{"blank title", func(t *Task) { t.Title = "   " }, ErrTaskTitleEmpty},
		{"long title", func(t *Task) { t.Title = strings.Repeat("a", MaxTitleLength+1) }, ErrTaskTitleTooLong},
		{"unknown category", func(t *Task) { t.Category = "errands" }, ErrTaskInvalidCategory},
		{"zero hours", func(t *Task) { t.EstimatedHours = 0 }, ErrTaskInvalidHours},
		{"too many hours", func(t *Task) { t.EstimatedHours = 24.5 }, ErrTaskInvalidHours},
		{"full day", func(t *Task) { t.EstimatedHours = 24 }, nil},
		{"bad importance", func(t *Task) { t.Importance = "very" }, ErrTaskInvalidImportance},
		{"bad urgency", func(t *Task) { t.Urgency = "" }, ErrTaskInvalidUrgency},
		{"recurring without series", func(t *Task) { t.IsRecurring = true }, ErrTaskSeriesRequired},
		{"recurring with series", func(t *Task) {
			t.IsRecurring = true
			t.RecurringSeriesID = &series
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := valid()
			tt.mutate(&task)
			err := task.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseCategory(t *testing.T) {
	t.Parallel()

	for _, c := range Categories {
		got, err := ParseCategory(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	_, err := ParseCategory("errands")
	assert.ErrorIs(t, err, ErrTaskInvalidCategory)
}

func TestTaskLifecycle(t *testing.T) {
	t.Parallel()

	task, err := NewTask(uuid.New(), "Run", CategoryHealth, 1, Important, Urgent)
	require.NoError(t, err)
	now := time.Date(2025, time.January, 12, 18, 0, 0, 0, time.FixedZone("UTC-5", -5*60*60))

	task.Complete(now)
	assert.True(t, task.Completed)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, time.UTC, task.CompletedAt.Location())
	assert.True(t, task.CompletedAt.Equal(now))

	task.Reopen(now)
	assert.False(t, task.Completed)
	assert.Nil(t, task.CompletedAt)

	pin := MustParseDate("2025-01-14")
	task.Pin(&pin, now)
	require.NotNil(t, task.PinnedDate)
	pin = pin.AddDays(1)
	assert.Equal(t, MustParseDate("2025-01-14"), *task.PinnedDate, "pin copies the date")
	require.NotNil(t, task.StartDate)
	assert.Equal(t, MustParseDate("2025-01-14"), *task.StartDate, "pin moves the start date")
	assert.NotSame(t, task.PinnedDate, task.StartDate)

	task.Pin(nil, now)
	assert.Nil(t, task.PinnedDate)
	require.NotNil(t, task.StartDate, "unpin keeps the start date")
	assert.Equal(t, MustParseDate("2025-01-14"), *task.StartDate)
}
