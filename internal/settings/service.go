package settings

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Valid unit values, matching what the forecast provider accepts.
var (
	validTemperatureUnits   = map[string]bool{"celsius": true, "fahrenheit": true}
	validWindSpeedUnits     = map[string]bool{"kmh": true, "ms": true, "mph": true, "kn": true}
	validPrecipitationUnits = map[string]bool{"mm": true, "inch": true}
	validTimeFormats        = map[string]bool{"iso8601": true, "unixtime": true}
)

// Service provides preference management on top of a Repository.
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

// NewService creates a new settings service.
func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// GetOrCreate returns the user's preferences, creating the default record
// on first contact.
func (s *Service) GetOrCreate(ctx context.Context, userID string) (*Preferences, error) {
	prefs, err := s.repo.Get(ctx, userID)
	if err == nil {
		return prefs, nil
	}
	if err != ErrNotFound {
		return nil, err
	}

	prefs = DefaultPreferences(userID)
	if err := s.repo.Create(ctx, prefs); err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", userID).Msg("created default weather settings")
	return prefs, nil
}

// UpdateLocation stores the user's resolved place.
func (s *Service) UpdateLocation(ctx context.Context, userID string, lat, lon float64, name string, elevation *float64, timezone string) error {
	prefs, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}

	if timezone == "" {
		timezone = "auto"
	}
	prefs.Latitude = &lat
	prefs.Longitude = &lon
	prefs.LocationName = name
	prefs.Elevation = elevation
	prefs.Timezone = timezone
	prefs.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, prefs); err != nil {
		return err
	}
	s.logger.Info().
		Str("user_id", userID).
		Str("location", name).
		Float64("lat", lat).
		Float64("lon", lon).
		Msg("updated user location")
	return nil
}

// UnitsUpdate carries an optional set of unit changes. Nil fields are left
// untouched; values outside the accepted enumerations are ignored, not
// rejected.
type UnitsUpdate struct {
	TemperatureUnit   *string
	WindSpeedUnit     *string
	PrecipitationUnit *string
	TimeFormat        *string
	PastDays          *int
}

// UpdateUnits applies unit changes, silently skipping invalid values.
func (s *Service) UpdateUnits(ctx context.Context, userID string, update UnitsUpdate) error {
	prefs, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}

	if update.TemperatureUnit != nil && validTemperatureUnits[*update.TemperatureUnit] {
		prefs.TemperatureUnit = *update.TemperatureUnit
	}
	if update.WindSpeedUnit != nil && validWindSpeedUnits[*update.WindSpeedUnit] {
		prefs.WindSpeedUnit = *update.WindSpeedUnit
	}
	if update.PrecipitationUnit != nil && validPrecipitationUnits[*update.PrecipitationUnit] {
		prefs.PrecipitationUnit = *update.PrecipitationUnit
	}
	if update.TimeFormat != nil && validTimeFormats[*update.TimeFormat] {
		prefs.TimeFormat = *update.TimeFormat
	}
	if update.PastDays != nil && *update.PastDays >= 0 && *update.PastDays <= 92 {
		prefs.PastDays = *update.PastDays
	}
	prefs.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, prefs); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", userID).Msg("updated measurement units")
	return nil
}

// UpdateWindow applies forecast/past day changes, skipping out-of-range
// values the way the unit updates do.
func (s *Service) UpdateWindow(ctx context.Context, userID string, forecastDays, pastDays *int) error {
	prefs, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}

	if forecastDays != nil && *forecastDays >= 1 && *forecastDays <= 16 {
		prefs.ForecastDays = *forecastDays
	}
	if pastDays != nil && *pastDays >= 0 && *pastDays <= 92 {
		prefs.PastDays = *pastDays
	}
	prefs.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, prefs); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", userID).Msg("updated forecast window")
	return nil
}

// UpdateNotifications enables/disables the daily notification and sets its
// time of day. A malformed time is rejected before anything is stored.
func (s *Service) UpdateNotifications(ctx context.Context, userID string, enabled *bool, timeOfDay *string) error {
	if timeOfDay != nil {
		if err := ValidateNotificationTime(*timeOfDay); err != nil {
			return err
		}
	}

	prefs, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}

	if enabled != nil {
		prefs.NotificationEnabled = *enabled
	}
	if timeOfDay != nil {
		prefs.NotificationTime = *timeOfDay
	}
	prefs.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, prefs); err != nil {
		return err
	}
	s.logger.Info().
		Str("user_id", userID).
		Bool("enabled", prefs.NotificationEnabled).
		Str("time", prefs.NotificationTime).
		Msg("updated notification settings")
	return nil
}

// ToggleDisplay flips one display flag and returns the new value.
func (s *Service) ToggleDisplay(ctx context.Context, userID string, flag DisplayFlag) (bool, error) {
	prefs, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return false, err
	}

	newValue, err := prefs.Toggle(flag)
	if err != nil {
		return false, err
	}
	prefs.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, prefs); err != nil {
		return false, err
	}
	s.logger.Info().
		Str("user_id", userID).
		Str("flag", string(flag)).
		Bool("value", newValue).
		Msg("toggled display setting")
	return newValue, nil
}

// Delete removes a user's preferences entirely.
func (s *Service) Delete(ctx context.Context, userID string) error {
	return s.repo.Delete(ctx, userID)
}

// ListDue returns users whose daily notification fires at the given time.
func (s *Service) ListDue(ctx context.Context, hhmm string) ([]*Preferences, error) {
	return s.repo.ListDue(ctx, hhmm)
}

// Summary renders a human-readable overview of the user's settings.
func (s *Service) Summary(ctx context.Context, userID string) (string, error) {
	prefs, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return "", err
	}

	location := "Не встановлена"
	if prefs.HasLocation() {
		name := prefs.LocationName
		if name == "" {
			name = "Невідома назва"
		}
		location = fmt.Sprintf("%s (%.4f, %.4f)", name, *prefs.Latitude, *prefs.Longitude)
	}

	notifications := "Вимкнені"
	if prefs.NotificationEnabled {
		notifications = "Увімкнені"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Ваші налаштування:\n\n")
	fmt.Fprintf(&b, "Локація: %s\n\n", location)
	fmt.Fprintf(&b, "Одиниці виміру:\n")
	fmt.Fprintf(&b, "• Температура: %s\n", prefs.TemperatureUnit)
	fmt.Fprintf(&b, "• Швидкість вітру: %s\n", prefs.WindSpeedUnit)
	fmt.Fprintf(&b, "• Опади: %s\n\n", prefs.PrecipitationUnit)
	fmt.Fprintf(&b, "Прогноз: %d днів\n", prefs.ForecastDays)
	fmt.Fprintf(&b, "Часовий пояс: %s\n\n", prefs.Timezone)
	fmt.Fprintf(&b, "Сповіщення: %s\n", notifications)
	if prefs.NotificationEnabled && prefs.NotificationTime != "" {
		fmt.Fprintf(&b, "Час сповіщень: %s\n", prefs.NotificationTime)
	}

	return b.String(), nil
}
