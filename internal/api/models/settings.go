package models

import "github.com/pohodnyk/pohodnyk/internal/settings"

// Settings is the API representation of a user's preference record.
type Settings struct {
	UserID string `json:"userId"`

	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	LocationName string   `json:"locationName,omitempty"`
	Elevation    *float64 `json:"elevation,omitempty"`
	Timezone     string   `json:"timezone"`

	TemperatureUnit   string `json:"temperatureUnit"`
	WindSpeedUnit     string `json:"windSpeedUnit"`
	PrecipitationUnit string `json:"precipitationUnit"`
	TimeFormat        string `json:"timeFormat"`

	ForecastDays int `json:"forecastDays"`
	PastDays     int `json:"pastDays"`

	Display map[string]bool `json:"display"`

	NotificationEnabled bool   `json:"notificationEnabled"`
	NotificationTime    string `json:"notificationTime,omitempty"`

	UpdatedAt Timestamp `json:"updatedAt"`
}

// NewSettings converts a preference record for the API.
func NewSettings(prefs *settings.Preferences) *Settings {
	display := make(map[string]bool, len(settings.DisplayFlags()))
	for _, flag := range settings.DisplayFlags() {
		value, err := prefs.Flag(flag)
		if err != nil {
			continue
		}
		display[string(flag)] = value
	}

	return &Settings{
		UserID:              prefs.UserID,
		Latitude:            prefs.Latitude,
		Longitude:           prefs.Longitude,
		LocationName:        prefs.LocationName,
		Elevation:           prefs.Elevation,
		Timezone:            prefs.Timezone,
		TemperatureUnit:     prefs.TemperatureUnit,
		WindSpeedUnit:       prefs.WindSpeedUnit,
		PrecipitationUnit:   prefs.PrecipitationUnit,
		TimeFormat:          prefs.TimeFormat,
		ForecastDays:        prefs.ForecastDays,
		PastDays:            prefs.PastDays,
		Display:             display,
		NotificationEnabled: prefs.NotificationEnabled,
		NotificationTime:    prefs.NotificationTime,
		UpdatedAt:           Timestamp(prefs.UpdatedAt),
	}
}

// LocationInput is the PUT settings/location request body.
type LocationInput struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Name      string   `json:"name"`
	Elevation *float64 `json:"elevation"`
	Timezone  string   `json:"timezone"`
}

// UnitsInput is the PUT settings/units request body. Absent fields are
// left unchanged.
type UnitsInput struct {
	TemperatureUnit   *string `json:"temperatureUnit"`
	WindSpeedUnit     *string `json:"windSpeedUnit"`
	PrecipitationUnit *string `json:"precipitationUnit"`
	TimeFormat        *string `json:"timeFormat"`
	PastDays          *int    `json:"pastDays"`
}

// WindowInput is the PUT settings/window request body.
type WindowInput struct {
	ForecastDays *int `json:"forecastDays"`
	PastDays     *int `json:"pastDays"`
}

// NotificationsInput is the PUT settings/notifications request body.
type NotificationsInput struct {
	Enabled *bool   `json:"enabled"`
	Time    *string `json:"time"`
}

// ToggleResult reports the new value of a display flag after a toggle.
type ToggleResult struct {
	Flag  string `json:"flag"`
	Value bool   `json:"value"`
}
