package forecast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pohodnyk/pohodnyk/internal/forecast"
)

func f64(v float64) *float64 { return &v }

func TestWeatherCodeKnown(t *testing.T) {
	info := forecast.WeatherCode(0)
	assert.Equal(t, "Ясно", info.Description)
	assert.Equal(t, "☀️", info.Emoji)

	info = forecast.WeatherCode(95)
	assert.Equal(t, "Гроза", info.Description)
	assert.Equal(t, "⛈️", info.Emoji)
}

func TestWeatherCodeUnknownFallsBack(t *testing.T) {
	info := forecast.WeatherCode(123)
	assert.Equal(t, "Код 123", info.Description)
	assert.Equal(t, "❓", info.Emoji)
}

func TestFormatTemperature(t *testing.T) {
	assert.Equal(t, "N/A", forecast.FormatTemperature(nil, "celsius"))
	assert.Equal(t, "23.5°C", forecast.FormatTemperature(f64(23.456), "celsius"))
	assert.Equal(t, "74.1°F", forecast.FormatTemperature(f64(74.12), "fahrenheit"))
	assert.Equal(t, "-0.4°C", forecast.FormatTemperature(f64(-0.35), "celsius"))
}

func TestFormatWind(t *testing.T) {
	assert.Equal(t, "N/A", forecast.FormatWind(nil, f64(90), "kmh"))

	// Due east is index 4 of the 16-point rose.
	got := forecast.FormatWind(f64(12.345), f64(90), "kmh")
	assert.Equal(t, "12.3 км/год Сх", got)

	// Direction is optional.
	assert.Equal(t, "5.0 м/с", forecast.FormatWind(f64(5.0), nil, "ms"))

	// North wraps around at 348.75°.
	assert.Equal(t, "3.0 км/год Пн", forecast.FormatWind(f64(3.0), f64(355), "kmh"))

	// Unknown unit falls back to the raw unit string.
	assert.Equal(t, "7.0 bogus", forecast.FormatWind(f64(7.0), nil, "bogus"))
}

func TestFormatHumidityAndPressure(t *testing.T) {
	assert.Equal(t, "N/A", forecast.FormatHumidity(nil))
	assert.Equal(t, "64%", forecast.FormatHumidity(f64(63.7)))

	assert.Equal(t, "N/A", forecast.FormatPressure(nil))
	assert.Equal(t, "1013 hPa", forecast.FormatPressure(f64(1013.25)))
}

func TestFormatPrecipitationZero(t *testing.T) {
	// Zero renders as the fixed string regardless of unit.
	assert.Equal(t, "0 мм", forecast.FormatPrecipitation(f64(0), "mm"))
	assert.Equal(t, "0 мм", forecast.FormatPrecipitation(f64(0), "inch"))
	assert.Equal(t, "0 мм", forecast.FormatPrecipitation(nil, "mm"))

	assert.Equal(t, "2.4 мм", forecast.FormatPrecipitation(f64(2.41), "mm"))
	assert.Equal(t, "0.1 дюйм", forecast.FormatPrecipitation(f64(0.09), "inch"))
}

func TestFormatDatetime(t *testing.T) {
	assert.Equal(t, "03.06.2024", forecast.FormatDatetime("2024-06-03", forecast.ModeDate))
	assert.Equal(t, "15:30", forecast.FormatDatetime("2024-06-03T15:30", forecast.ModeTime))
	assert.Equal(t, "03.06.2024 15:30", forecast.FormatDatetime("2024-06-03T15:30:00Z", forecast.ModeDatetime))
}

func TestFormatDatetimeWeekday(t *testing.T) {
	// 2024-06-03 is a Monday.
	assert.Equal(t, "Понеділок", forecast.FormatDatetime("2024-06-03", forecast.ModeWeekday))
	assert.Equal(t, "Неділя", forecast.FormatDatetime("2024-06-09", forecast.ModeWeekday))
}

func TestFormatDatetimeUnparsableReturnsInput(t *testing.T) {
	assert.Equal(t, "not-a-date", forecast.FormatDatetime("not-a-date", forecast.ModeWeekday))
	assert.Equal(t, "", forecast.FormatDatetime("", forecast.ModeDate))
}
