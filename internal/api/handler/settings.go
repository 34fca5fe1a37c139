package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/pohodnyk/pohodnyk/internal/api/models"
	"github.com/pohodnyk/pohodnyk/internal/api/response"
	"github.com/pohodnyk/pohodnyk/internal/settings"
)

// SettingsHandler handles per-user preference endpoints.
type SettingsHandler struct {
	settings *settings.Service
	logger   zerolog.Logger
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(svc *settings.Service, logger zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{
		settings: svc,
		logger:   logger.With().Str("handler", "settings").Logger(),
	}
}

// Get handles GET /v1/users/{userID}/settings.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	prefs, err := h.settings.GetOrCreate(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("failed to load settings")
		response.InternalError(w, r, "failed to load settings")
		return
	}
	response.JSON(w, r, http.StatusOK, models.NewSettings(prefs))
}

// UpdateLocation handles PUT /v1/users/{userID}/settings/location.
func (h *SettingsHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var input models.LocationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}
	if input.Latitude == nil || input.Longitude == nil {
		response.BadRequest(w, r, "latitude and longitude are required", nil)
		return
	}
	if *input.Latitude < -90 || *input.Latitude > 90 || *input.Longitude < -180 || *input.Longitude > 180 {
		response.BadRequest(w, r, "coordinates are out of range", nil)
		return
	}

	err := h.settings.UpdateLocation(r.Context(), userID, *input.Latitude, *input.Longitude, input.Name, input.Elevation, input.Timezone)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("failed to update location")
		response.InternalError(w, r, "failed to update location")
		return
	}
	h.respondCurrent(w, r, userID)
}

// UpdateUnits handles PUT /v1/users/{userID}/settings/units.
func (h *SettingsHandler) UpdateUnits(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var input models.UnitsInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}

	update := settings.UnitsUpdate{
		TemperatureUnit:   input.TemperatureUnit,
		WindSpeedUnit:     input.WindSpeedUnit,
		PrecipitationUnit: input.PrecipitationUnit,
		TimeFormat:        input.TimeFormat,
		PastDays:          input.PastDays,
	}
	if err := h.settings.UpdateUnits(r.Context(), userID, update); err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("failed to update units")
		response.InternalError(w, r, "failed to update units")
		return
	}
	h.respondCurrent(w, r, userID)
}

// UpdateWindow handles PUT /v1/users/{userID}/settings/window.
func (h *SettingsHandler) UpdateWindow(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var input models.WindowInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}

	if err := h.settings.UpdateWindow(r.Context(), userID, input.ForecastDays, input.PastDays); err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("failed to update window")
		response.InternalError(w, r, "failed to update forecast window")
		return
	}
	h.respondCurrent(w, r, userID)
}

// UpdateNotifications handles PUT /v1/users/{userID}/settings/notifications.
func (h *SettingsHandler) UpdateNotifications(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var input models.NotificationsInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}

	err := h.settings.UpdateNotifications(r.Context(), userID, input.Enabled, input.Time)
	if err != nil {
		if errors.Is(err, settings.ErrBadNotificationTime) {
			response.BadRequest(w, r, "notification time must be in HH:MM format", nil)
			return
		}
		h.logger.Error().Err(err).Str("user_id", userID).Msg("failed to update notifications")
		response.InternalError(w, r, "failed to update notifications")
		return
	}
	h.respondCurrent(w, r, userID)
}

// Toggle handles POST /v1/users/{userID}/settings/toggles/{flag}.
func (h *SettingsHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	flagName := chi.URLParam(r, "flag")

	flag, err := settings.ParseDisplayFlag(flagName)
	if err != nil {
		response.BadRequest(w, r, "unknown display flag: "+flagName, nil)
		return
	}

	value, err := h.settings.ToggleDisplay(r.Context(), userID, flag)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Str("flag", flagName).Msg("failed to toggle display flag")
		response.InternalError(w, r, "failed to toggle display flag")
		return
	}
	response.JSON(w, r, http.StatusOK, models.ToggleResult{Flag: flagName, Value: value})
}

// respondCurrent writes the user's current settings after a mutation.
func (h *SettingsHandler) respondCurrent(w http.ResponseWriter, r *http.Request, userID string) {
	prefs, err := h.settings.GetOrCreate(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("failed to reload settings")
		response.InternalError(w, r, "failed to load settings")
		return
	}
	response.JSON(w, r, http.StatusOK, models.NewSettings(prefs))
}
