// Package forecast implements the request-building and report-rendering
// pipeline between stored user preferences and the Open-Meteo forecast API.
package forecast

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Accepted enumeration values for unit parameters.
var (
	TemperatureUnits   = []string{"celsius", "fahrenheit"}
	WindSpeedUnits     = []string{"kmh", "ms", "mph", "kn"}
	PrecipitationUnits = []string{"mm", "inch"}
	TimeFormats        = []string{"iso8601", "unixtime"}
)

// Window bounds for the forecast request.
const (
	MinForecastDays     = 1
	MaxForecastDays     = 16
	DefaultForecastDays = 7
	MinPastDays         = 0
	MaxPastDays         = 92
	MinElevation        = -1000.0
	MaxElevation        = 9000.0
)

// QueryParams is a validated, provider-ready parameter set. Built fresh for
// every request, never persisted.
type QueryParams struct {
	Latitude  float64
	Longitude float64

	Elevation *float64

	// ForecastDays is 0 when the request did not ask for a day window.
	ForecastDays int
	PastDays     *int

	TemperatureUnit   string
	WindSpeedUnit     string
	PrecipitationUnit string
	TimeFormat        string
	Timezone          string

	// Comma-joined provider field lists per granularity.
	Hourly  string
	Daily   string
	Current string
}

// Map renders the parameter set back into the loosely-typed form accepted
// by Validator.Validate. Validating the result yields an equal set.
func (p *QueryParams) Map() map[string]any {
	m := map[string]any{
		"latitude":  p.Latitude,
		"longitude": p.Longitude,
	}
	if p.Elevation != nil {
		m["elevation"] = *p.Elevation
	}
	if p.ForecastDays != 0 {
		m["forecast_days"] = p.ForecastDays
	}
	if p.PastDays != nil {
		m["past_days"] = *p.PastDays
	}
	for key, val := range map[string]string{
		"temperature_unit":   p.TemperatureUnit,
		"wind_speed_unit":    p.WindSpeedUnit,
		"precipitation_unit": p.PrecipitationUnit,
		"timeformat":         p.TimeFormat,
		"timezone":           p.Timezone,
		"hourly":             p.Hourly,
		"daily":              p.Daily,
		"current":            p.Current,
	} {
		if val != "" {
			m[key] = val
		}
	}
	return m
}

// Values renders the parameter set as a querystring for the provider.
func (p *QueryParams) Values() url.Values {
	v := url.Values{}
	v.Set("latitude", strconv.FormatFloat(p.Latitude, 'f', -1, 64))
	v.Set("longitude", strconv.FormatFloat(p.Longitude, 'f', -1, 64))
	if p.Elevation != nil {
		v.Set("elevation", strconv.FormatFloat(*p.Elevation, 'f', -1, 64))
	}
	if p.ForecastDays != 0 {
		v.Set("forecast_days", strconv.Itoa(p.ForecastDays))
	}
	if p.PastDays != nil {
		v.Set("past_days", strconv.Itoa(*p.PastDays))
	}
	for key, val := range map[string]string{
		"temperature_unit":   p.TemperatureUnit,
		"wind_speed_unit":    p.WindSpeedUnit,
		"precipitation_unit": p.PrecipitationUnit,
		"timeformat":         p.TimeFormat,
		"timezone":           p.Timezone,
		"hourly":             p.Hourly,
		"daily":              p.Daily,
		"current":            p.Current,
	} {
		if val != "" {
			v.Set(key, val)
		}
	}
	return v
}

// Validator normalizes and bounds-checks raw request parameters.
type Validator struct {
	logger zerolog.Logger
}

// NewValidator creates a parameter validator. The logger is used for
// diagnostics only; validation itself is pure.
func NewValidator(logger zerolog.Logger) *Validator {
	return &Validator{logger: logger}
}

// Validate produces a provider-safe parameter set from a loosely-typed
// mapping. Coordinates are required and strictly checked; every other
// parameter degrades silently: out-of-range elevation and past_days are
// dropped, out-of-range forecast_days falls back to the default, and
// unknown unit values are dropped so the provider default applies.
func (v *Validator) Validate(raw map[string]any) (*QueryParams, error) {
	lat, latOK := raw["latitude"]
	lon, lonOK := raw["longitude"]
	if !latOK || !lonOK {
		v.logger.Warn().Msg("coordinates missing from request parameters")
		return nil, &ValidationError{
			Field: "latitude",
			Hint:  "Широта та довгота обов'язкові",
			Err:   ErrInvalidCoordinate,
		}
	}

	latF, ok1 := toFloat(lat)
	lonF, ok2 := toFloat(lon)
	if !ok1 || !ok2 {
		v.logger.Warn().Interface("latitude", lat).Interface("longitude", lon).
			Msg("coordinates are not numeric")
		return nil, &ValidationError{
			Field: "latitude",
			Hint:  "Координати мають бути числами",
			Err:   ErrInvalidCoordinate,
		}
	}
	if latF < -90 || latF > 90 {
		v.logger.Warn().Float64("latitude", latF).Msg("latitude out of range")
		return nil, &ValidationError{
			Field: "latitude",
			Hint:  "Широта повинна бути між -90 та 90",
			Err:   ErrInvalidCoordinate,
		}
	}
	if lonF < -180 || lonF > 180 {
		v.logger.Warn().Float64("longitude", lonF).Msg("longitude out of range")
		return nil, &ValidationError{
			Field: "longitude",
			Hint:  "Довгота повинна бути між -180 та 180",
			Err:   ErrInvalidCoordinate,
		}
	}

	clean := &QueryParams{Latitude: latF, Longitude: lonF}

	if val, present := raw["elevation"]; present && val != nil {
		if ele, ok := toFloat(val); ok && ele >= MinElevation && ele <= MaxElevation {
			clean.Elevation = &ele
		} else {
			v.logger.Warn().Interface("elevation", val).Msg("elevation dropped")
		}
	}

	v.normalizeWindow(raw, clean)
	v.normalizeUnits(raw, clean)

	if tz, present := raw["timezone"]; present {
		if s, ok := tz.(string); ok && s != "" {
			clean.Timezone = s
		}
	}

	clean.Hourly = v.fieldList(raw, "hourly")
	clean.Daily = v.fieldList(raw, "daily")
	clean.Current = v.fieldList(raw, "current")

	return clean, nil
}

// normalizeWindow applies the day-window rules. The two branches are
// intentionally asymmetric: forecast_days falls back to the default while
// past_days is dropped entirely.
func (v *Validator) normalizeWindow(raw map[string]any, clean *QueryParams) {
	if val, present := raw["forecast_days"]; present {
		if days, ok := toInt(val); ok && days >= MinForecastDays && days <= MaxForecastDays {
			clean.ForecastDays = days
		} else {
			v.logger.Warn().Interface("forecast_days", val).
				Msg("forecast_days invalid, using default")
			clean.ForecastDays = DefaultForecastDays
		}
	}

	if val, present := raw["past_days"]; present {
		if days, ok := toInt(val); ok && days >= MinPastDays && days <= MaxPastDays {
			clean.PastDays = &days
		} else {
			v.logger.Warn().Interface("past_days", val).Msg("past_days dropped")
		}
	}
}

func (v *Validator) normalizeUnits(raw map[string]any, clean *QueryParams) {
	clean.TemperatureUnit = v.enumValue(raw, "temperature_unit", TemperatureUnits)
	clean.WindSpeedUnit = v.enumValue(raw, "wind_speed_unit", WindSpeedUnits)
	clean.PrecipitationUnit = v.enumValue(raw, "precipitation_unit", PrecipitationUnits)
	clean.TimeFormat = v.enumValue(raw, "timeformat", TimeFormats)
}

// enumValue returns the raw value when it matches the allowed enumeration,
// or "" (dropped) otherwise.
func (v *Validator) enumValue(raw map[string]any, key string, allowed []string) string {
	val, present := raw[key]
	if !present {
		return ""
	}
	s, _ := val.(string)
	for _, a := range allowed {
		if s == a {
			return s
		}
	}
	v.logger.Warn().Str("param", key).Interface("value", val).
		Msg("unknown enum value dropped")
	return ""
}

// fieldList accepts a comma-joined string or a sequence of field names.
// Anything else is dropped with a warning.
func (v *Validator) fieldList(raw map[string]any, key string) string {
	val, present := raw[key]
	if !present || val == nil {
		return ""
	}
	switch t := val.(type) {
	case string:
		return t
	case []string:
		if len(t) == 0 {
			return ""
		}
		return strings.Join(t, ",")
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				v.logger.Warn().Str("param", key).Interface("value", val).
					Msg("field list with non-string element dropped")
				return ""
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ",")
	default:
		v.logger.Warn().Str("param", key).Interface("value", val).
			Msg("field list of unsupported type dropped")
		return ""
	}
}

// toFloat coerces numeric types and numeric strings.
func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// toInt coerces integer types, truncating floats the way the provider
// expects whole day counts.
func toInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int32:
		return int(t), true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case float32:
		return int(t), true
	case string:
		n, err := strconv.Atoi(t)
		return n, err == nil
	default:
		return 0, false
	}
}
