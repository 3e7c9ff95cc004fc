package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/cadence-api/internal/domain"
	"github.com/phrazzld/cadence-api/internal/mocks"
	"github.com/phrazzld/cadence-api/internal/service"
	"github.com/phrazzld/cadence-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSettingsService_GetSettings(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("defaults when none are stored", func(t *testing.T) {
		settingsStore := new(mocks.MockSettingsStore)
		settingsStore.On("Get", mock.Anything, userID).Return(nil, store.ErrSettingsNotFound)

		got, err := service.NewSettingsService(settingsStore, nil, discardLogger()).GetSettings(ctx, userID)

		require.NoError(t, err)
		assert.Equal(t, userID, got.UserID)
		assert.Equal(t, domain.DefaultLimits(), got.Limits)
	})

	t.Run("fills missing task caps", func(t *testing.T) {
		stored := &domain.CapacitySettings{
			UserID: userID,
			Limits: domain.Limits{DailyMaxHours: domain.HourCaps{Weekday: 5, Weekend: 1}},
		}
		settingsStore := new(mocks.MockSettingsStore)
		settingsStore.On("Get", mock.Anything, userID).Return(stored, nil)

		got, err := service.NewSettingsService(settingsStore, nil, discardLogger()).GetSettings(ctx, userID)

		require.NoError(t, err)
		assert.Equal(t, domain.DefaultDailyMaxTasks, got.Limits.DailyMaxTasks)
		assert.Equal(t, 5.0, got.Limits.DailyMaxHours.Weekday)
	})

	t.Run("store failure", func(t *testing.T) {
		settingsStore := new(mocks.MockSettingsStore)
		settingsStore.On("Get", mock.Anything, userID).Return(nil, errors.New("connection reset"))

		_, err := service.NewSettingsService(settingsStore, nil, discardLogger()).GetSettings(ctx, userID)

		assert.Error(t, err)
	})
}

func TestSettingsService_UpdateSettings(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("saves and requests a reschedule", func(t *testing.T) {
		settingsStore := new(mocks.MockSettingsStore)
		settingsStore.On("Upsert", mock.Anything, mock.MatchedBy(func(s *domain.CapacitySettings) bool {
			return s.UserID == userID && s.Limits.DailyMaxTasks == domain.DefaultDailyMaxTasks
		})).Return(nil)
		emitter := &mocks.MockEventEmitter{}

		limits := domain.DefaultLimits()
		limits.DailyMaxTasks = domain.TaskCaps{}
		_, err := service.NewSettingsService(settingsStore, emitter, discardLogger()).UpdateSettings(ctx, userID, limits)

		require.NoError(t, err)
		settingsStore.AssertExpectations(t)
		requireScheduleRequested(t, emitter, userID, service.ReasonSettingsUpdated)
	})

	tests := []struct {
		name      string
		mutate    func(*domain.Limits)
		wantField string
	}{
		{"category hours above 24", func(l *domain.Limits) { l.Categories.Work.Weekday = 25 }, "Categories.Work.Weekday"},
		{"negative hours", func(l *domain.Limits) { l.DailyMaxHours.Weekend = -1 }, "DailyMaxHours.Weekend"},
		{"zero task cap", func(l *domain.Limits) { l.DailyMaxTasks.Weekend = 0 }, "DailyMaxTasks.Weekend"},
		{"task cap above 20", func(l *domain.Limits) { l.DailyMaxTasks.Weekday = 21 }, "DailyMaxTasks.Weekday"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settingsStore := new(mocks.MockSettingsStore)
			limits := domain.DefaultLimits()
			tt.mutate(&limits)

			_, err := service.NewSettingsService(settingsStore, nil, discardLogger()).UpdateSettings(ctx, userID, limits)

			var validationErr *domain.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.wantField, validationErr.Field)
			assert.ErrorIs(t, err, domain.ErrValidation)
			settingsStore.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
		})
	}

	t.Run("boundaries are accepted", func(t *testing.T) {
		settingsStore := new(mocks.MockSettingsStore)
		settingsStore.On("Upsert", mock.Anything, mock.Anything).Return(nil)

		limits := domain.Limits{
			Categories:    domain.CategoryLimits{Work: domain.HourCaps{Weekday: 24, Weekend: 0}},
			DailyMaxHours: domain.HourCaps{Weekday: 24, Weekend: 0},
			DailyMaxTasks: domain.TaskCaps{Weekday: 20, Weekend: 1},
		}
		_, err := service.NewSettingsService(settingsStore, nil, discardLogger()).UpdateSettings(ctx, userID, limits)

		assert.NoError(t, err)
	})
}
