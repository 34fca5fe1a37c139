package forecast

import (
	"fmt"
	"math"
	"time"
)

// CodeInfo is the display description of a WMO weather interpretation code.
type CodeInfo struct {
	Description string
	Emoji       string
}

// weatherCodes maps the WMO codes Open-Meteo emits to display text.
// Hand-authored; rendered reports depend on these exact strings.
var weatherCodes = map[int]CodeInfo{
	0:  {"Ясно", "☀️"},
	1:  {"Переважно ясно", "🌤️"},
	2:  {"Частково хмарно", "⛅"},
	3:  {"Хмарно", "☁️"},
	45: {"Туман", "🌫️"},
	48: {"Іній", "🌫️"},
	51: {"Легка мряка", "🌦️"},
	53: {"Помірна мряка", "🌦️"},
	55: {"Густа мряка", "🌦️"},
	56: {"Легкий крижаний дощ", "🌨️"},
	57: {"Крижаний дощ", "🌨️"},
	61: {"Легкий дощ", "🌦️"},
	63: {"Помірний дощ", "🌧️"},
	65: {"Сильний дощ", "🌧️"},
	66: {"Легкий дощ зі снігом", "🌨️"},
	67: {"Дощ зі снігом", "🌨️"},
	71: {"Легкий сніг", "❄️"},
	73: {"Помірний сніг", "❄️"},
	75: {"Сильний сніг", "❄️"},
	77: {"Снігові зерна", "❄️"},
	80: {"Легкі зливи", "🌦️"},
	81: {"Помірні зливи", "⛈️"},
	82: {"Сильні зливи", "⛈️"},
	85: {"Легкий снігопад", "❄️"},
	86: {"Сильний снігопад", "❄️"},
	95: {"Гроза", "⛈️"},
	96: {"Гроза з легким градом", "⛈️"},
	99: {"Гроза з сильним градом", "⛈️"},
}

// WeatherCode returns the display description for a weather code. Unknown
// codes degrade to a literal "Код N" with a generic glyph.
func WeatherCode(code int) CodeInfo {
	if info, ok := weatherCodes[code]; ok {
		return info
	}
	return CodeInfo{
		Description: fmt.Sprintf("Код %d", code),
		Emoji:       "❓",
	}
}

// windUnitLabels maps provider wind units to display labels.
var windUnitLabels = map[string]string{
	"kmh": "км/год",
	"ms":  "м/с",
	"mph": "миль/год",
	"kn":  "вузли",
}

// compassPoints is the 16-point rose starting at north, clockwise.
var compassPoints = [16]string{
	"Пн", "ПнПнСх", "ПнСх", "СхПнСх",
	"Сх", "СхПдСх", "ПдСх", "ПдПдСх",
	"Пд", "ПдПдЗх", "ПдЗх", "ЗхПдЗх",
	"Зх", "ЗхПнЗх", "ПнЗх", "ПнПнЗх",
}

// FormatTemperature renders a temperature with one decimal and a unit
// suffix. A missing value renders as "N/A".
func FormatTemperature(temp *float64, unit string) string {
	if temp == nil {
		return "N/A"
	}
	symbol := "°F"
	if unit == "celsius" {
		symbol = "°C"
	}
	return fmt.Sprintf("%.1f%s", *temp, symbol)
}

// FormatWind renders wind speed with a unit label and, when the direction
// is known, a 16-point compass abbreviation.
func FormatWind(speed *float64, direction *float64, unit string) string {
	if speed == nil {
		return "N/A"
	}
	label, ok := windUnitLabels[unit]
	if !ok {
		label = unit
	}
	directionText := ""
	if direction != nil {
		index := ((int(math.Floor((*direction + 11.25) / 22.5))) % 16 + 16) % 16
		directionText = " " + compassPoints[index]
	}
	return fmt.Sprintf("%.1f %s%s", *speed, label, directionText)
}

// FormatHumidity renders relative humidity as a whole percentage.
func FormatHumidity(humidity *float64) string {
	if humidity == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.0f%%", *humidity)
}

// FormatPressure renders pressure in whole hectopascals.
func FormatPressure(pressure *float64) string {
	if pressure == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.0f hPa", *pressure)
}

// FormatPrecipitation renders a precipitation amount with one decimal.
// Missing and exactly-zero values both render as the fixed "0 мм" string.
func FormatPrecipitation(precip *float64, unit string) string {
	if precip == nil || *precip == 0 {
		return "0 мм"
	}
	label := "мм"
	if unit != "mm" {
		label = "дюйм"
	}
	return fmt.Sprintf("%.1f %s", *precip, label)
}

// DatetimeMode selects how FormatDatetime renders a parsed timestamp.
type DatetimeMode string

// Datetime render modes.
const (
	ModeDate     DatetimeMode = "date"
	ModeTime     DatetimeMode = "time"
	ModeDatetime DatetimeMode = "datetime"
	ModeWeekday  DatetimeMode = "weekday"
)

// weekdayNames maps Go weekdays to localized names.
var weekdayNames = map[time.Weekday]string{
	time.Monday:    "Понеділок",
	time.Tuesday:   "Вівторок",
	time.Wednesday: "Середа",
	time.Thursday:  "Четвер",
	time.Friday:    "П'ятниця",
	time.Saturday:  "Субота",
	time.Sunday:    "Неділя",
}

// isoLayouts covers the timestamp shapes Open-Meteo emits, from full
// RFC3339 down to a bare date.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseISO parses an ISO-8601 timestamp, tolerating a trailing "Z".
func parseISO(value string) (time.Time, bool) {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDatetime re-renders an ISO-8601 timestamp in a fixed local pattern.
// On any parse failure the input is returned unchanged: a raw timestamp in
// a report beats no report.
func FormatDatetime(value string, mode DatetimeMode) string {
	t, ok := parseISO(value)
	if !ok {
		return value
	}
	switch mode {
	case ModeDate:
		return t.Format("02.01.2006")
	case ModeTime:
		return t.Format("15:04")
	case ModeDatetime:
		return t.Format("02.01.2006 15:04")
	case ModeWeekday:
		return weekdayNames[t.Weekday()]
	default:
		return value
	}
}
