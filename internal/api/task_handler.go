package api

import (
	"net/http"
	"strconv"

	"github.com/phrazzld/cadence-api/internal/api/shared"
	"github.com/phrazzld/cadence-api/internal/domain"
	"github.com/phrazzld/cadence-api/internal/service"
	"github.com/phrazzld/cadence-api/internal/store"
)

// TaskHandler serves /api/tasks.
type TaskHandler struct {
	tasks    service.TaskService
	schedule service.ScheduleService
}

// NewTaskHandler creates a TaskHandler.
func NewTaskHandler(tasks service.TaskService, schedule service.ScheduleService) *TaskHandler {
	if tasks == nil || schedule == nil {
		panic("task handler requires task and schedule services")
	}
	return &TaskHandler{tasks: tasks, schedule: schedule}
}

// ListTasks handles GET /api/tasks. Optional query parameters:
// completed=true|false and category=<name>.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var filter store.TaskFilter
	query := r.URL.Query()
	if raw := query.Get("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			HandleAPIError(w, r, domain.NewValidationError("completed", "must be true or false", nil), "")
			return
		}
		filter.Completed = &completed
	}
	if raw := query.Get("category"); raw != "" {
		category, err := domain.ParseCategory(raw)
		if err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		filter.Category = category
	}

	tasks, err := h.tasks.ListTasks(r.Context(), userID, filter)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskListResponse{Tasks: tasks})
}

// CreateTask handles POST /api/tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req TaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.tasks.CreateTask(r.Context(), userID, req.toInput())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, task)
}

// GetTask handles GET /api/tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// UpdateTask handles PUT /api/tasks/{id}.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req TaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.tasks.UpdateTask(r.Context(), userID, taskID, req.toInput())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// DeleteTask handles DELETE /api/tasks/{id}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.tasks.DeleteTask(r.Context(), userID, taskID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete task")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CompleteTask handles POST /api/tasks/{id}/complete.
func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	task, err := h.tasks.CompleteTask(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to complete task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// ReopenTask handles POST /api/tasks/{id}/reopen.
func (h *TaskHandler) ReopenTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	task, err := h.tasks.ReopenTask(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to reopen task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// PinTask handles PUT /api/tasks/{id}/pin.
func (h *TaskHandler) PinTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req PinRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.tasks.PinTask(r.Context(), userID, taskID, req.Date)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to pin task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// GetPriority handles GET /api/tasks/{id}/priority.
func (h *TaskHandler) GetPriority(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	prioritized, err := h.schedule.Priority(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to score task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, prioritized)
}
