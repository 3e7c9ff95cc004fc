package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/cadence-api/internal/api/shared"
	"github.com/phrazzld/cadence-api/internal/domain"
	"github.com/phrazzld/cadence-api/internal/domain/schedule"
	"github.com/phrazzld/cadence-api/internal/service"
	"github.com/phrazzld/cadence-api/internal/store"
	"github.com/stretchr/testify/require"
)

type fakeUserService struct {
	RegisterFn       func(ctx context.Context, email, password, timezone string) (*domain.User, error)
	GetUserFn        func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	UpdateTimezoneFn func(ctx context.Context, userID uuid.UUID, timezone string) (*domain.User, error)
	DeleteUserFn     func(ctx context.Context, userID uuid.UUID) error
}

var _ service.UserService = (*fakeUserService)(nil)

func (f *fakeUserService) Register(ctx context.Context, email, password, timezone string) (*domain.User, error) {
	return f.RegisterFn(ctx, email, password, timezone)
}

func (f *fakeUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return f.GetUserFn(ctx, userID)
}

func (f *fakeUserService) UpdateTimezone(ctx context.Context, userID uuid.UUID, timezone string) (*domain.User, error) {
	return f.UpdateTimezoneFn(ctx, userID, timezone)
}

func (f *fakeUserService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	return f.DeleteUserFn(ctx, userID)
}

type fakeTaskService struct {
	CreateTaskFn   func(ctx context.Context, userID uuid.UUID, input service.TaskInput) (*domain.Task, error)
	GetTaskFn      func(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)
	ListTasksFn    func(ctx context.Context, userID uuid.UUID, filter store.TaskFilter) ([]domain.Task, error)
	UpdateTaskFn   func(ctx context.Context, userID, taskID uuid.UUID, input service.TaskInput) (*domain.Task, error)
	CompleteTaskFn func(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)
	ReopenTaskFn   func(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)
	PinTaskFn      func(ctx context.Context, userID, taskID uuid.UUID, date *domain.Date) (*domain.Task, error)
	DeleteTaskFn   func(ctx context.Context, userID, taskID uuid.UUID) error
}

var _ service.TaskService = (*fakeTaskService)(nil)

func (f *fakeTaskService) CreateTask(ctx context.Context, userID uuid.UUID, input service.TaskInput) (*domain.Task, error) {
	return f.CreateTaskFn(ctx, userID, input)
}

func (f *fakeTaskService) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	return f.GetTaskFn(ctx, userID, taskID)
}

func (f *fakeTaskService) ListTasks(ctx context.Context, userID uuid.UUID, filter store.TaskFilter) ([]domain.Task, error) {
	return f.ListTasksFn(ctx, userID, filter)
}

func (f *fakeTaskService) UpdateTask(
	ctx context.Context,
	userID, taskID uuid.UUID,
	input service.TaskInput,
) (*domain.Task, error) {
	return f.UpdateTaskFn(ctx, userID, taskID, input)
}

func (f *fakeTaskService) CompleteTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	return f.CompleteTaskFn(ctx, userID, taskID)
}

func (f *fakeTaskService) ReopenTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	return f.ReopenTaskFn(ctx, userID, taskID)
}

func (f *fakeTaskService) PinTask(
	ctx context.Context,
	userID, taskID uuid.UUID,
	date *domain.Date,
) (*domain.Task, error) {
	return f.PinTaskFn(ctx, userID, taskID, date)
}

func (f *fakeTaskService) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	return f.DeleteTaskFn(ctx, userID, taskID)
}

type fakeSettingsService struct {
	GetSettingsFn    func(ctx context.Context, userID uuid.UUID) (*domain.CapacitySettings, error)
	UpdateSettingsFn func(ctx context.Context, userID uuid.UUID, limits domain.Limits) (*domain.CapacitySettings, error)
}

var _ service.SettingsService = (*fakeSettingsService)(nil)

func (f *fakeSettingsService) GetSettings(ctx context.Context, userID uuid.UUID) (*domain.CapacitySettings, error) {
	return f.GetSettingsFn(ctx, userID)
}

func (f *fakeSettingsService) UpdateSettings(
	ctx context.Context,
	userID uuid.UUID,
	limits domain.Limits,
) (*domain.CapacitySettings, error) {
	return f.UpdateSettingsFn(ctx, userID, limits)
}

type fakeScheduleService struct {
	RescheduleFn func(ctx context.Context, userID uuid.UUID) (*schedule.Result, error)
	FocusFn      func(ctx context.Context, userID uuid.UUID) (*service.FocusView, error)
	PriorityFn   func(ctx context.Context, userID, taskID uuid.UUID) (*schedule.PrioritizedTask, error)
}

var _ service.ScheduleService = (*fakeScheduleService)(nil)

func (f *fakeScheduleService) Reschedule(ctx context.Context, userID uuid.UUID) (*schedule.Result, error) {
	return f.RescheduleFn(ctx, userID)
}

func (f *fakeScheduleService) Focus(ctx context.Context, userID uuid.UUID) (*service.FocusView, error) {
	return f.FocusFn(ctx, userID)
}

func (f *fakeScheduleService) Priority(
	ctx context.Context,
	userID, taskID uuid.UUID,
) (*schedule.PrioritizedTask, error) {
	return f.PriorityFn(ctx, userID, taskID)
}

// withUser stands in for the auth middleware.
func withUser(userID uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID != uuid.Nil {
				r = r.WithContext(shared.WithUserID(r.Context(), userID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func newRouter(userID uuid.UUID, routes func(r chi.Router)) http.Handler {
	r := chi.NewRouter()
	r.Use(withUser(userID))
	routes(r)
	return r
}

func doRequest(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[shared.ErrorResponse](t, rec).Error
}
