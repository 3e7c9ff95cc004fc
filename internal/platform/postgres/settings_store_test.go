package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/cadence-api/internal/domain"
	"github.com/phrazzld/cadence-api/internal/platform/postgres"
	"github.com/phrazzld/cadence-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresSettingsStoreGet(t *testing.T) {
	t.Run("maps every column", func(t *testing.T) {
		db, mock := newMock(t)
		s := postgres.NewPostgresSettingsStore(db, nil)
		userID := uuid.New()
		updated := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

		mock.ExpectQuery("FROM capacity_settings").
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows([]string{
				"user_id",
				"work_weekday_hours", "work_weekend_hours",
				"home_weekday_hours", "home_weekend_hours",
				"health_weekday_hours", "health_weekend_hours",
				"personal_weekday_hours", "personal_weekend_hours",
				"daily_weekday_hours", "daily_weekend_hours",
				"daily_weekday_tasks", "daily_weekend_tasks",
				"updated_at",
			}).AddRow(userID.String(), 6.0, 2.0, 2.0, 4.0, 1.0, 2.0, 2.0, 4.0, 8.0, 6.0, int64(5), int64(3), updated))

		got, err := s.Get(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, userID, got.UserID)
		assert.Equal(t, domain.HourCaps{Weekday: 6, Weekend: 2}, got.Limits.Categories.Work)
		assert.Equal(t, domain.HourCaps{Weekday: 2, Weekend: 4}, got.Limits.Categories.Personal)
		assert.Equal(t, domain.HourCaps{Weekday: 8, Weekend: 6}, got.Limits.DailyMaxHours)
		assert.Equal(t, domain.TaskCaps{Weekday: 5, Weekend: 3}, got.Limits.DailyMaxTasks)
		assert.Equal(t, updated, got.UpdatedAt)
	})

	t.Run("missing", func(t *testing.T) {
		db, mock := newMock(t)
		s := postgres.NewPostgresSettingsStore(db, nil)

		mock.ExpectQuery("FROM capacity_settings").WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

		_, err := s.Get(context.Background(), uuid.New())
		assert.ErrorIs(t, err, store.ErrSettingsNotFound)
	})
}

func TestPostgresSettingsStoreUpsert(t *testing.T) {
	t.Run("fills default task caps", func(t *testing.T) {
		db, mock := newMock(t)
		s := postgres.NewPostgresSettingsStore(db, nil)
		settings := domain.NewCapacitySettings(uuid.New())
		settings.Limits.DailyMaxTasks = domain.TaskCaps{}

		mock.ExpectExec("INSERT INTO capacity_settings (.+) ON CONFLICT \\(user_id\\) DO UPDATE").
			WithArgs(settings.UserID,
				6.0, 2.0, 2.0, 4.0, 1.0, 2.0, 2.0, 4.0, 8.0, 6.0,
				4, 4, settings.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Upsert(context.Background(), settings))
	})

	t.Run("check constraint violation is an invalid entity", func(t *testing.T) {
		db, mock := newMock(t)
		s := postgres.NewPostgresSettingsStore(db, nil)

		mock.ExpectExec("INSERT INTO capacity_settings").WillReturnError(newPgError("23514"))

		err := s.Upsert(context.Background(), domain.NewCapacitySettings(uuid.New()))
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})
}
