package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pohodnyk/pohodnyk/internal/api/models"
	"github.com/pohodnyk/pohodnyk/internal/api/response"
	"github.com/pohodnyk/pohodnyk/internal/forecast"
	"github.com/pohodnyk/pohodnyk/internal/geocode"
	"github.com/pohodnyk/pohodnyk/internal/settings"
)

// Fetcher retrieves a forecast payload for validated parameters.
type Fetcher interface {
	Fetch(ctx context.Context, lat, lon float64, params *forecast.QueryParams) (*forecast.Response, error)
}

// WeatherHandler handles the weather-by-city endpoint.
type WeatherHandler struct {
	geocoder  geocode.Geocoder
	fetcher   Fetcher
	validator *forecast.Validator
	logger    zerolog.Logger
}

// NewWeatherHandler creates a new WeatherHandler.
func NewWeatherHandler(geocoder geocode.Geocoder, fetcher Fetcher, validator *forecast.Validator, logger zerolog.Logger) *WeatherHandler {
	return &WeatherHandler{
		geocoder:  geocoder,
		fetcher:   fetcher,
		validator: validator,
		logger:    logger.With().Str("handler", "weather").Logger(),
	}
}

// GetByCity handles GET /v1/weather?city=... It resolves the city,
// fetches a forecast with default preferences and renders the report.
func (h *WeatherHandler) GetByCity(w http.ResponseWriter, r *http.Request) {
	city := strings.TrimSpace(r.URL.Query().Get("city"))
	if city == "" {
		response.BadRequest(w, r, "query parameter 'city' is required", nil)
		return
	}

	loc, err := h.geocoder.Geocode(r.Context(), city)
	if err != nil {
		switch {
		case errors.Is(err, geocode.ErrPlaceTooShort):
			response.BadRequest(w, r, "city name must be at least two characters", nil)
		case errors.Is(err, geocode.ErrNoResults):
			response.NotFound(w, r, "no location matches the given city")
		default:
			h.logger.Error().Err(err).Str("city", city).Msg("geocoding failed")
			response.UpstreamError(w, r, "geocoding provider is unavailable")
		}
		return
	}

	prefs := settings.DefaultPreferences("")
	prefs.Latitude = &loc.Latitude
	prefs.Longitude = &loc.Longitude

	raw, err := forecast.BuildQuery(prefs)
	if err != nil {
		h.logger.Error().Err(err).Msg("query synthesis failed")
		response.InternalError(w, r, "failed to build forecast query")
		return
	}
	params, err := h.validator.Validate(raw)
	if err != nil {
		h.logger.Error().Err(err).Msg("query validation failed")
		response.InternalError(w, r, "failed to validate forecast query")
		return
	}

	resp, err := h.fetcher.Fetch(r.Context(), loc.Latitude, loc.Longitude, params)
	if err != nil {
		var provErr *forecast.ProviderError
		if errors.As(err, &provErr) {
			if provErr.StatusCode == http.StatusTooManyRequests {
				response.TooManyRequests(w, r, "forecast provider rate limit reached", 60)
				return
			}
			response.UpstreamError(w, r, provErr.Message)
			return
		}
		h.logger.Error().Err(err).Str("city", city).Msg("forecast fetch failed")
		response.UpstreamError(w, r, "forecast provider is unavailable")
		return
	}

	info := forecast.LocationInfo{City: loc.City, State: loc.State, Country: loc.Country}
	if info.City == "" {
		info.City = city
	}

	report := models.WeatherReport{
		City:      info.City,
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		Report:    forecast.ComposeReport(resp, info, params),
		Current:   resp.Current,
		Hourly:    resp.Hourly,
		Daily:     resp.Daily,
	}
	response.JSON(w, r, http.StatusOK, report)
}
