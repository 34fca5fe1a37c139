package forecast

import (
	"fmt"
	"strconv"
	"strings"
)

// LocationInfo is the resolved place metadata shown in the report header.
type LocationInfo struct {
	City    string
	State   string
	Country string
}

// ComposeReport renders the full multi-section text report: location
// header, optional current-weather block, optional per-day forecast block.
// Section order is fixed. Missing data degrades to placeholders; composing
// never fails.
func ComposeReport(resp *Response, loc LocationInfo, params *QueryParams) string {
	var b strings.Builder

	writeHeader(&b, loc)
	if len(resp.Current) > 0 {
		writeCurrent(&b, resp.Current, params)
	}
	writeDaily(&b, resp.Daily, params)

	return b.String()
}

func writeHeader(b *strings.Builder, loc LocationInfo) {
	parts := make([]string, 0, 3)
	for _, p := range []string{loc.City, loc.State, loc.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	b.WriteString("🌍 **")
	b.WriteString(strings.Join(parts, ", "))
	b.WriteString("**\n\n")
}

// writeCurrent emits the current-weather section. Apart from temperature,
// which always renders (with "N/A" when missing), each line appears only
// when the provider returned the field — absence means "not requested".
func writeCurrent(b *strings.Builder, current map[string]any, params *QueryParams) {
	b.WriteString("☀️ **Поточна погода:**\n")

	fmt.Fprintf(b, "🌡️ Температура: %s\n",
		FormatTemperature(blockFloat(current, "temperature_2m"), params.TemperatureUnit))

	if blockHas(current, "apparent_temperature") {
		fmt.Fprintf(b, "🌡️ Відчувається: %s\n",
			FormatTemperature(blockFloat(current, "apparent_temperature"), params.TemperatureUnit))
	}
	if blockHas(current, "relative_humidity_2m") {
		fmt.Fprintf(b, "💧 Вологість: %s\n",
			FormatHumidity(blockFloat(current, "relative_humidity_2m")))
	}
	if blockHas(current, "pressure_msl") {
		fmt.Fprintf(b, "🔽 Тиск: %s\n",
			FormatPressure(blockFloat(current, "pressure_msl")))
	}
	if blockHas(current, "wind_speed_10m") {
		fmt.Fprintf(b, "💨 Вітер: %s\n",
			FormatWind(
				blockFloat(current, "wind_speed_10m"),
				blockFloat(current, "wind_direction_10m"),
				params.WindSpeedUnit,
			))
	}
	if blockHas(current, "precipitation") {
		fmt.Fprintf(b, "🌧️ Опади: %s\n",
			FormatPrecipitation(blockFloat(current, "precipitation"), params.PrecipitationUnit))
	}
	if code := blockFloat(current, "weather_code"); code != nil {
		info := WeatherCode(int(*code))
		fmt.Fprintf(b, "☁️ Опис: %s %s\n", info.Emoji, info.Description)
	}

	b.WriteString("\n")
}

func writeDaily(b *strings.Builder, daily map[string]any, params *QueryParams) {
	times := seriesStrings(daily, "time")
	if len(times) == 0 {
		return
	}

	b.WriteString("📅 **Прогноз на найближчі дні:**\n")

	days := len(times)
	if params.ForecastDays > 0 && params.ForecastDays < days {
		days = params.ForecastDays
	}

	for i := 0; i < days; i++ {
		maxTemp := bareTemperature(seriesFloat(daily, "temperature_2m_max", i))
		minTemp := bareTemperature(seriesFloat(daily, "temperature_2m_min", i))

		code := 0
		if c := seriesFloat(daily, "weather_code", i); c != nil {
			code = int(*c)
		}
		info := WeatherCode(code)

		fmt.Fprintf(b, "• %s: %s°/%s° %s %s\n",
			formatDay(times[i]), maxTemp, minTemp, info.Emoji, info.Description)
	}
}

// formatDay renders "Понеділок, 03.06", falling back to the raw date
// string when it does not parse.
func formatDay(date string) string {
	t, ok := parseISO(date)
	if !ok {
		return date
	}
	return weekdayNames[t.Weekday()] + ", " + t.Format("02.01")
}

// bareTemperature renders a compact day-line temperature without a unit
// suffix; the caller appends the degree sign.
func bareTemperature(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}
