// Package settings manages per-user weather preferences: location, units,
// forecast window, display flags, and daily notification configuration.
package settings

import (
	"errors"
	"time"
)

// Settings errors.
var (
	ErrNotFound            = errors.New("settings not found")
	ErrUnknownDisplayFlag  = errors.New("unknown display flag")
	ErrBadNotificationTime = errors.New("notification time must be in HH:MM format")
)

// Preferences is a user's saved weather configuration. Zero-value booleans
// are meaningful, so new records must come from DefaultPreferences.
type Preferences struct {
	UserID string

	// Location; Latitude/Longitude nil until the user sets a place.
	Latitude     *float64
	Longitude    *float64
	LocationName string
	Elevation    *float64
	Timezone     string

	// Units
	TemperatureUnit   string
	WindSpeedUnit     string
	PrecipitationUnit string
	TimeFormat        string

	// Forecast window
	ForecastDays int
	PastDays     int

	// Hourly display flags
	ShowTemperature              bool
	ShowFeelsLike                bool
	ShowHumidity                 bool
	ShowPressure                 bool
	ShowWind                     bool
	ShowPrecipitation            bool
	ShowPrecipitationProbability bool
	ShowCloudCover               bool
	ShowUVIndex                  bool
	ShowVisibility               bool
	ShowDewPoint                 bool
	ShowSolarRadiation           bool

	// Daily display flags
	ShowDailyTemperature   bool
	ShowDailyPrecipitation bool
	ShowDailyWind          bool
	ShowSunriseSunset      bool
	ShowDaylightDuration   bool
	ShowSunshineDuration   bool
	ShowDailyUV            bool

	// Current block is all-or-nothing.
	ShowCurrentWeather bool

	// Notifications
	NotificationEnabled bool
	NotificationTime    string // "HH:MM", empty when unset

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultPreferences returns the settings a new user starts with.
func DefaultPreferences(userID string) *Preferences {
	now := time.Now()
	return &Preferences{
		UserID:            userID,
		Timezone:          "auto",
		TemperatureUnit:   "celsius",
		WindSpeedUnit:     "kmh",
		PrecipitationUnit: "mm",
		TimeFormat:        "iso8601",
		ForecastDays:      7,
		PastDays:          0,

		ShowTemperature:              true,
		ShowFeelsLike:                true,
		ShowHumidity:                 true,
		ShowWind:                     true,
		ShowPrecipitation:            true,
		ShowPrecipitationProbability: true,
		ShowUVIndex:                  true,

		ShowDailyTemperature:   true,
		ShowDailyPrecipitation: true,
		ShowDailyWind:          true,
		ShowSunriseSunset:      true,
		ShowDailyUV:            true,

		ShowCurrentWeather: true,

		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HasLocation reports whether the user has set coordinates.
func (p *Preferences) HasLocation() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// Clone returns a deep copy.
func (p *Preferences) Clone() *Preferences {
	c := *p
	if p.Latitude != nil {
		lat := *p.Latitude
		c.Latitude = &lat
	}
	if p.Longitude != nil {
		lon := *p.Longitude
		c.Longitude = &lon
	}
	if p.Elevation != nil {
		ele := *p.Elevation
		c.Elevation = &ele
	}
	return &c
}

// DisplayFlag identifies one toggleable display preference.
type DisplayFlag string

// Display flags. The names double as the persisted column identifiers.
const (
	FlagTemperature              DisplayFlag = "show_temperature"
	FlagFeelsLike                DisplayFlag = "show_feels_like"
	FlagHumidity                 DisplayFlag = "show_humidity"
	FlagPressure                 DisplayFlag = "show_pressure"
	FlagWind                     DisplayFlag = "show_wind"
	FlagPrecipitation            DisplayFlag = "show_precipitation"
	FlagPrecipitationProbability DisplayFlag = "show_precipitation_probability"
	FlagCloudCover               DisplayFlag = "show_cloud_cover"
	FlagUVIndex                  DisplayFlag = "show_uv_index"
	FlagVisibility               DisplayFlag = "show_visibility"
	FlagDewPoint                 DisplayFlag = "show_dew_point"
	FlagSolarRadiation           DisplayFlag = "show_solar_radiation"
	FlagDailyTemperature         DisplayFlag = "show_daily_temperature"
	FlagDailyPrecipitation       DisplayFlag = "show_daily_precipitation"
	FlagDailyWind                DisplayFlag = "show_daily_wind"
	FlagSunriseSunset            DisplayFlag = "show_sunrise_sunset"
	FlagDaylightDuration         DisplayFlag = "show_daylight_duration"
	FlagSunshineDuration         DisplayFlag = "show_sunshine_duration"
	FlagDailyUV                  DisplayFlag = "show_daily_uv"
	FlagCurrentWeather           DisplayFlag = "show_current_weather"
)

// flagFields dispatches each flag to its field. Toggling an unknown flag is
// caught against this table instead of failing at runtime string lookup.
var flagFields = map[DisplayFlag]func(*Preferences) *bool{
	FlagTemperature:              func(p *Preferences) *bool { return &p.ShowTemperature },
	FlagFeelsLike:                func(p *Preferences) *bool { return &p.ShowFeelsLike },
	FlagHumidity:                 func(p *Preferences) *bool { return &p.ShowHumidity },
	FlagPressure:                 func(p *Preferences) *bool { return &p.ShowPressure },
	FlagWind:                     func(p *Preferences) *bool { return &p.ShowWind },
	FlagPrecipitation:            func(p *Preferences) *bool { return &p.ShowPrecipitation },
	FlagPrecipitationProbability: func(p *Preferences) *bool { return &p.ShowPrecipitationProbability },
	FlagCloudCover:               func(p *Preferences) *bool { return &p.ShowCloudCover },
	FlagUVIndex:                  func(p *Preferences) *bool { return &p.ShowUVIndex },
	FlagVisibility:               func(p *Preferences) *bool { return &p.ShowVisibility },
	FlagDewPoint:                 func(p *Preferences) *bool { return &p.ShowDewPoint },
	FlagSolarRadiation:           func(p *Preferences) *bool { return &p.ShowSolarRadiation },
	FlagDailyTemperature:         func(p *Preferences) *bool { return &p.ShowDailyTemperature },
	FlagDailyPrecipitation:       func(p *Preferences) *bool { return &p.ShowDailyPrecipitation },
	FlagDailyWind:                func(p *Preferences) *bool { return &p.ShowDailyWind },
	FlagSunriseSunset:            func(p *Preferences) *bool { return &p.ShowSunriseSunset },
	FlagDaylightDuration:         func(p *Preferences) *bool { return &p.ShowDaylightDuration },
	FlagSunshineDuration:         func(p *Preferences) *bool { return &p.ShowSunshineDuration },
	FlagDailyUV:                  func(p *Preferences) *bool { return &p.ShowDailyUV },
	FlagCurrentWeather:           func(p *Preferences) *bool { return &p.ShowCurrentWeather },
}

// DisplayFlags lists all known flags in declaration order.
func DisplayFlags() []DisplayFlag {
	return []DisplayFlag{
		FlagTemperature, FlagFeelsLike, FlagHumidity, FlagPressure, FlagWind,
		FlagPrecipitation, FlagPrecipitationProbability, FlagCloudCover,
		FlagUVIndex, FlagVisibility, FlagDewPoint, FlagSolarRadiation,
		FlagDailyTemperature, FlagDailyPrecipitation, FlagDailyWind,
		FlagSunriseSunset, FlagDaylightDuration, FlagSunshineDuration,
		FlagDailyUV, FlagCurrentWeather,
	}
}

// ParseDisplayFlag validates a flag name coming from outside the process.
func ParseDisplayFlag(name string) (DisplayFlag, error) {
	flag := DisplayFlag(name)
	if _, ok := flagFields[flag]; !ok {
		return "", ErrUnknownDisplayFlag
	}
	return flag, nil
}

// Toggle flips the given display flag and returns the new value.
func (p *Preferences) Toggle(flag DisplayFlag) (bool, error) {
	field, ok := flagFields[flag]
	if !ok {
		return false, ErrUnknownDisplayFlag
	}
	ptr := field(p)
	*ptr = !*ptr
	return *ptr, nil
}

// Flag reads the current value of a display flag.
func (p *Preferences) Flag(flag DisplayFlag) (bool, error) {
	field, ok := flagFields[flag]
	if !ok {
		return false, ErrUnknownDisplayFlag
	}
	return *field(p), nil
}

// ValidateNotificationTime checks an "HH:MM" time-of-day string.
func ValidateNotificationTime(value string) error {
	if _, err := time.Parse("15:04", value); err != nil {
		return ErrBadNotificationTime
	}
	return nil
}
