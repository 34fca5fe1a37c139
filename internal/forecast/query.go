package forecast

import (
	"strings"

	"github.com/pohodnyk/pohodnyk/internal/settings"
)

// currentFields is the fixed field set requested whenever the current
// weather block is enabled. Unlike hourly/daily it is not flag-gated
// field-by-field: the current block is all-or-nothing.
var currentFields = []string{
	"temperature_2m",
	"relative_humidity_2m",
	"apparent_temperature",
	"is_day",
	"precipitation",
	"weather_code",
	"cloud_cover",
	"pressure_msl",
	"wind_speed_10m",
	"wind_direction_10m",
}

// BuildQuery expands a user's preference set into raw provider parameters,
// ready for Validator.Validate. Synthesis itself never fails; the only
// error case is a user without a stored location.
func BuildQuery(prefs *settings.Preferences) (map[string]any, error) {
	if !prefs.HasLocation() {
		return nil, ErrLocationNotSet
	}

	params := map[string]any{
		"latitude":           *prefs.Latitude,
		"longitude":          *prefs.Longitude,
		"timezone":           prefs.Timezone,
		"temperature_unit":   prefs.TemperatureUnit,
		"wind_speed_unit":    prefs.WindSpeedUnit,
		"precipitation_unit": prefs.PrecipitationUnit,
		"timeformat":         prefs.TimeFormat,
		"forecast_days":      prefs.ForecastDays,
		"past_days":          prefs.PastDays,
	}
	if prefs.Elevation != nil {
		params["elevation"] = *prefs.Elevation
	}

	if hourly := hourlyFields(prefs); len(hourly) > 0 {
		params["hourly"] = strings.Join(hourly, ",")
	}
	if daily := dailyFields(prefs); len(daily) > 0 {
		params["daily"] = strings.Join(daily, ",")
	}
	if prefs.ShowCurrentWeather {
		params["current"] = strings.Join(currentFields, ",")
	}

	return params, nil
}

func hourlyFields(prefs *settings.Preferences) []string {
	var fields fieldSet
	if prefs.ShowTemperature {
		fields.add("temperature_2m")
	}
	if prefs.ShowFeelsLike {
		fields.add("apparent_temperature")
	}
	if prefs.ShowHumidity {
		fields.add("relative_humidity_2m")
	}
	if prefs.ShowPressure {
		fields.add("pressure_msl")
	}
	if prefs.ShowWind {
		fields.add("wind_speed_10m", "wind_direction_10m", "wind_gusts_10m")
	}
	if prefs.ShowPrecipitation {
		fields.add("precipitation", "rain", "showers")
	}
	if prefs.ShowPrecipitationProbability {
		fields.add("precipitation_probability")
	}
	if prefs.ShowCloudCover {
		fields.add("cloud_cover")
	}
	if prefs.ShowUVIndex {
		fields.add("uv_index")
	}
	if prefs.ShowVisibility {
		fields.add("visibility")
	}
	if prefs.ShowDewPoint {
		fields.add("dew_point_2m")
	}
	if prefs.ShowSolarRadiation {
		fields.add("shortwave_radiation", "direct_radiation", "diffuse_radiation")
	}
	// Always requested: the formatter needs these to describe each hour.
	fields.add("weather_code", "is_day")
	return fields.list
}

func dailyFields(prefs *settings.Preferences) []string {
	var fields fieldSet
	fields.add("weather_code")
	if prefs.ShowDailyTemperature {
		fields.add(
			"temperature_2m_max", "temperature_2m_min",
			"apparent_temperature_max", "apparent_temperature_min",
		)
	}
	if prefs.ShowDailyPrecipitation {
		fields.add("precipitation_sum", "precipitation_probability_max", "precipitation_hours")
	}
	if prefs.ShowDailyWind {
		fields.add("wind_speed_10m_max", "wind_gusts_10m_max", "wind_direction_10m_dominant")
	}
	if prefs.ShowSunriseSunset {
		fields.add("sunrise", "sunset")
	}
	if prefs.ShowDaylightDuration {
		fields.add("daylight_duration")
	}
	if prefs.ShowSunshineDuration {
		fields.add("sunshine_duration")
	}
	if prefs.ShowDailyUV {
		fields.add("uv_index_max", "uv_index_clear_sky_max")
	}
	return fields.list
}

// fieldSet deduplicates field names preserving insertion order, so
// synthesized lists are deterministic.
type fieldSet struct {
	list []string
	seen map[string]struct{}
}

func (s *fieldSet) add(names ...string) {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	for _, name := range names {
		if _, dup := s.seen[name]; dup {
			continue
		}
		s.seen[name] = struct{}{}
		s.list = append(s.list, name)
	}
}
