package postgres_test

import (
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/cadence-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

var taskColumnNames = []string{
	"id", "user_id", "title", "category", "estimated_hours", "importance", "urgency",
	"due_date", "start_date", "pinned_date", "completed", "completed_at",
	"is_recurring", "recurring_series_id", "created_at", "updated_at",
}

var createdAt = time.Date(2025, time.January, 10, 9, 0, 0, 0, time.UTC)

func sampleTask(userID uuid.UUID) *domain.Task {
	due := domain.MustParseDate("2025-01-15")
	return &domain.Task{
		ID:             uuid.New(),
		UserID:         userID,
		Title:          "Quarterly report",
		Category:       domain.CategoryWork,
		EstimatedHours: 3,
		Importance:     domain.Important,
		Urgency:        domain.NotUrgent,
		DueDate:        &due,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}
}

func taskRow(task *domain.Task) []driver.Value {
	return []driver.Value{
		task.ID.String(), task.UserID.String(), task.Title, string(task.Category), task.EstimatedHours,
		string(task.Importance), string(task.Urgency),
		dateValue(task.DueDate), dateValue(task.StartDate), dateValue(task.PinnedDate),
		task.Completed, nil, task.IsRecurring, nil, task.CreatedAt, task.UpdatedAt,
	}
}

func dateValue(d *domain.Date) any {
	if d == nil {
		return nil
	}
	return d.Time()
}
