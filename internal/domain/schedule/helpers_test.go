package schedule

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/cadence-api/internal/domain"
)

var (
	wednesday = domain.MustParseDate("2025-01-15")
	sunday    = domain.MustParseDate("2025-01-12")
	testUser  = uuid.MustParse("11111111-1111-1111-1111-111111111111")
)

type taskOption func(*domain.Task)

func due(d domain.Date) taskOption {
	return func(t *domain.Task) { t.DueDate = domain.DatePtr(d) }
}

func startOn(d domain.Date) taskOption {
	return func(t *domain.Task) { t.StartDate = domain.DatePtr(d) }
}

func pinnedOn(d domain.Date) taskOption {
	return func(t *domain.Task) { t.PinnedDate = domain.DatePtr(d) }
}

func createdAt(ts time.Time) taskOption {
	return func(t *domain.Task) { t.CreatedAt = ts }
}

func quadrant(importance domain.Importance, urgency domain.Urgency) taskOption {
	return func(t *domain.Task) {
		t.Importance = importance
		t.Urgency = urgency
	}
}

func completedAt(ts time.Time) taskOption {
	return func(t *domain.Task) {
		t.Completed = true
		t.CompletedAt = &ts
	}
}

func recurring(series uuid.UUID) taskOption {
	return func(t *domain.Task) {
		t.IsRecurring = true
		t.RecurringSeriesID = &series
	}
}

// newTestTask builds a not-important, not-urgent task created at midnight
// UTC on the test "today" so age and deadline scores start at zero.
func newTestTask(title string, category domain.Category, hours float64, opts ...taskOption) domain.Task {
	task := domain.Task{
		ID:             uuid.New(),
		UserID:         testUser,
		Title:          title,
		Category:       category,
		EstimatedHours: hours,
		Importance:     domain.NotImportant,
		Urgency:        domain.NotUrgent,
		CreatedAt:      wednesday.Time(),
		UpdatedAt:      wednesday.Time(),
	}
	for _, opt := range opts {
		opt(&task)
	}
	return task
}

func ptrs(tasks []domain.Task) []*domain.Task {
	out := make([]*domain.Task, len(tasks))
	for i := range tasks {
		out[i] = &tasks[i]
	}
	return out
}

// generousLimits never binds except through the task-count cap.
func generousLimits(tasksPerDay int) domain.Limits {
	caps := domain.HourCaps{Weekday: 24, Weekend: 24}
	return domain.Limits{
		Categories: domain.CategoryLimits{
			Work:     caps,
			Home:     caps,
			Health:   caps,
			Personal: caps,
		},
		DailyMaxHours: caps,
		DailyMaxTasks: domain.TaskCaps{Weekday: tasksPerDay, Weekend: tasksPerDay},
	}
}
