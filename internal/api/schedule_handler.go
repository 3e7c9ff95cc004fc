package api

import (
	"net/http"

	"github.com/phrazzld/cadence-api/internal/api/shared"
	"github.com/phrazzld/cadence-api/internal/service"
)

// ScheduleHandler serves the reschedule and focus endpoints.
type ScheduleHandler struct {
	schedule service.ScheduleService
}

// NewScheduleHandler creates a ScheduleHandler.
func NewScheduleHandler(schedule service.ScheduleService) *ScheduleHandler {
	if schedule == nil {
		panic("schedule service cannot be nil")
	}
	return &ScheduleHandler{schedule: schedule}
}

// Reschedule handles POST /api/schedule. It runs synchronously and returns
// the full result, warnings included.
func (h *ScheduleHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	result, err := h.schedule.Reschedule(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to reschedule tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, scheduleResponse(result))
}

// Focus handles GET /api/focus.
func (h *ScheduleHandler) Focus(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	view, err := h.schedule.Focus(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to build focus list")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, view)
}
