package api

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/cadence-api/internal/domain"
	"github.com/phrazzld/cadence-api/internal/domain/schedule"
	"github.com/phrazzld/cadence-api/internal/service"
	"github.com/phrazzld/cadence-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsHandler(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	var saved domain.Limits
	settings := &fakeSettingsService{
		GetSettingsFn: func(ctx context.Context, uid uuid.UUID) (*domain.CapacitySettings, error) {
			return domain.NewCapacitySettings(uid), nil
		},
		UpdateSettingsFn: func(ctx context.Context, uid uuid.UUID, limits domain.Limits) (*domain.CapacitySettings, error) {
			if limits.DailyMaxHours.Weekday > 24 {
				return nil, domain.NewValidationError("DailyMaxHours.Weekday", "must be at most 24", nil)
			}
			saved = limits
			return &domain.CapacitySettings{UserID: uid, Limits: limits.WithDefaults()}, nil
		},
	}
	h := NewSettingsHandler(settings)
	router := newRouter(userID, func(r chi.Router) {
		r.Get("/api/settings", h.GetSettings)
		r.Put("/api/settings", h.UpdateSettings)
	})

	t.Run("get returns defaults", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/settings", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		got := decodeBody[domain.CapacitySettings](t, rec)
		assert.Equal(t, domain.DefaultLimits(), got.Limits)
	})

	t.Run("update without task caps", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPut, "/api/settings", `{
			"category_limits": {"work": {"weekday": 5, "weekend": 0}},
			"daily_max_hours": {"weekday": 7, "weekend": 3}
		}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, 5.0, saved.Categories.Work.Weekday)
		assert.Equal(t, domain.TaskCaps{}, saved.DailyMaxTasks, "defaults are left to the service")
		assert.Equal(t, domain.DefaultDailyMaxTasks, decodeBody[domain.CapacitySettings](t, rec).Limits.DailyMaxTasks)
	})

	t.Run("out of range", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPut, "/api/settings", `{"daily_max_hours": {"weekday": 30, "weekend": 3}}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid DailyMaxHours.Weekday: must be at most 24", errorMessage(t, rec))
	})
}

func TestScheduleHandler(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	today := domain.MustParseDate("2025-01-15")
	moved := domain.Task{ID: uuid.New(), Title: "Groceries", StartDate: domain.DatePtr(today.AddDays(1))}
	dup := domain.Task{ID: uuid.New(), Title: "Water plants"}

	sched := &fakeScheduleService{
		RescheduleFn: func(ctx context.Context, uid uuid.UUID) (*schedule.Result, error) {
			if uid != userID {
				return nil, store.ErrUserNotFound
			}
			return &schedule.Result{
				Tasks:            []domain.Task{moved, dup},
				Warnings:         []string{`Could not fit "Groceries" within 30 days; placed on 2025-02-13`},
				RescheduledTasks: []schedule.Rescheduled{{Task: moved, PreviousDate: domain.DatePtr(today)}},
				Duplicates:       []schedule.Duplicate{{Task: &dup, KeptID: moved.ID, Date: today, Message: "duplicate"}},
			}, nil
		},
		FocusFn: func(ctx context.Context, uid uuid.UUID) (*service.FocusView, error) {
			return &service.FocusView{
				Date:  today,
				Tasks: []schedule.PrioritizedTask{{Task: moved, PriorityScore: 50}},
			}, nil
		},
	}
	h := NewScheduleHandler(sched)
	routes := func(r chi.Router) {
		r.Post("/api/schedule", h.Reschedule)
		r.Get("/api/focus", h.Focus)
	}

	t.Run("reschedule", func(t *testing.T) {
		rec := doRequest(t, newRouter(userID, routes), http.MethodPost, "/api/schedule", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		resp := decodeBody[ScheduleResponse](t, rec)
		assert.Len(t, resp.Tasks, 2)
		require.Len(t, resp.RescheduledTasks, 1)
		assert.Equal(t, moved.ID, resp.RescheduledTasks[0].TaskID)
		assert.Equal(t, "2025-01-15", resp.RescheduledTasks[0].PreviousDate.String())
		assert.Equal(t, "2025-01-16", resp.RescheduledTasks[0].StartDate.String())
		require.Len(t, resp.Duplicates, 1)
		assert.Equal(t, dup.ID, resp.Duplicates[0].TaskID)
		assert.Len(t, resp.Warnings, 1)
	})

	t.Run("reschedule for a deleted user", func(t *testing.T) {
		rec := doRequest(t, newRouter(uuid.New(), routes), http.MethodPost, "/api/schedule", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("focus", func(t *testing.T) {
		rec := doRequest(t, newRouter(userID, routes), http.MethodGet, "/api/focus", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		view := decodeBody[service.FocusView](t, rec)
		assert.Equal(t, today, view.Date)
		require.Len(t, view.Tasks, 1)
		assert.Equal(t, "Groceries", view.Tasks[0].Task.Title)
	})
}

func TestScheduleResponseEmptyResult(t *testing.T) {
	t.Parallel()

	resp := scheduleResponse(&schedule.Result{})

	assert.NotNil(t, resp.Tasks)
	assert.NotNil(t, resp.Warnings)
	assert.NotNil(t, resp.RescheduledTasks)
	assert.NotNil(t, resp.Duplicates)
}

func TestUserHandler(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	user := &domain.User{
		ID:             userID,
		Email:          "ann@example.com",
		HashedPassword: "$2a$10$secret",
		CreatedAt:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	users := &fakeUserService{
		GetUserFn: func(ctx context.Context, uid uuid.UUID) (*domain.User, error) {
			return user, nil
		},
		UpdateTimezoneFn: func(ctx context.Context, uid uuid.UUID, timezone string) (*domain.User, error) {
			updated := *user
			updated.Timezone = timezone
			return &updated, nil
		},
		DeleteUserFn: func(ctx context.Context, uid uuid.UUID) error {
			return errors.New("disk full")
		},
	}
	h := NewUserHandler(users)
	router := newRouter(userID, func(r chi.Router) {
		r.Get("/api/me", h.GetMe)
		r.Patch("/api/me", h.UpdateMe)
		r.Delete("/api/me", h.DeleteMe)
	})

	t.Run("get hides the password hash", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/me", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "secret")
		assert.Equal(t, "ann@example.com", decodeBody[UserResponse](t, rec).Email)
	})

	t.Run("update time zone", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPatch, "/api/me", UpdateUserRequest{Timezone: "Asia/Tokyo"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Asia/Tokyo", decodeBody[UserResponse](t, rec).Timezone)

		rec = doRequest(t, router, http.MethodPatch, "/api/me", UpdateUserRequest{Timezone: "Nowhere/Land"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("delete failure is a 500 without details", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodDelete, "/api/me", nil)
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Failed to delete account", errorMessage(t, rec))
	})
}
