package api

import (
	"net/http"

	"github.com/phrazzld/cadence-api/internal/api/shared"
	"github.com/phrazzld/cadence-api/internal/service"
)

// SettingsHandler serves /api/settings.
type SettingsHandler struct {
	settings service.SettingsService
}

// NewSettingsHandler creates a SettingsHandler.
func NewSettingsHandler(settings service.SettingsService) *SettingsHandler {
	if settings == nil {
		panic("settings service cannot be nil")
	}
	return &SettingsHandler{settings: settings}
}

// GetSettings handles GET /api/settings.
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	settings, err := h.settings.GetSettings(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load settings")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, settings)
}

// UpdateSettings handles PUT /api/settings.
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req SettingsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	settings, err := h.settings.UpdateSettings(r.Context(), userID, req.toLimits())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to save settings")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, settings)
}
