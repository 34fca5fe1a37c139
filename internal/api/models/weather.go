package models

// WeatherReport is the weather-by-city response: the rendered text plus
// the raw provider payload blocks.
type WeatherReport struct {
	City      string         `json:"city"`
	Latitude  float64        `json:"latitude"`
	Longitude float64        `json:"longitude"`
	Report    string         `json:"report"`
	Current   map[string]any `json:"current,omitempty"`
	Hourly    map[string]any `json:"hourly,omitempty"`
	Daily     map[string]any `json:"daily,omitempty"`
}
