package openmeteo_test

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pohodnyk/pohodnyk/internal/forecast"
	"github.com/pohodnyk/pohodnyk/internal/forecast/openmeteo"
)

func newTestClient(url string) *openmeteo.Client {
	return openmeteo.NewClient(openmeteo.ClientConfig{
		BaseURL: url,
		Logger:  zerolog.Nop(),
	})
}

func validParams() *forecast.QueryParams {
	return &forecast.QueryParams{
		Latitude:     50.45,
		Longitude:    30.52,
		ForecastDays: 3,
		Daily:        "weather_code,temperature_2m_max,temperature_2m_min",
		Current:      "temperature_2m,weather_code",
	}
}

func TestFetchSuccess(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"latitude": 50.45,
			"longitude": 30.52,
			"timezone": "Europe/Kyiv",
			"current": {"temperature_2m": 21.6, "weather_code": 3},
			"daily": {
				"time": ["2024-06-03", "2024-06-04"],
				"temperature_2m_max": [25.0, 26.1],
				"temperature_2m_min": [14.2, 15.0],
				"weather_code": [0, 61]
			}
		}`))
	}))
	defer server.Close()

	resp, err := newTestClient(server.URL).Fetch(context.Background(), 50.45, 30.52, validParams())
	require.NoError(t, err)

	assert.Contains(t, gotQuery, "latitude=50.45")
	assert.Contains(t, gotQuery, "forecast_days=3")
	assert.Equal(t, "Europe/Kyiv", resp.Timezone)
	require.NotNil(t, resp.Current)
	assert.Equal(t, 21.6, resp.Current["temperature_2m"])
	require.NotNil(t, resp.Daily)
}

func TestFetchNonFiniteCoordinates(t *testing.T) {
	client := newTestClient("http://unused.invalid")

	_, err := client.Fetch(context.Background(), math.NaN(), 30.52, validParams())
	var pErr *forecast.ProviderError
	require.True(t, errors.As(err, &pErr))
	assert.ErrorIs(t, err, forecast.ErrInvalidCoordinate)
}

func TestFetchCoordinatesOutOfRange(t *testing.T) {
	client := newTestClient("http://unused.invalid")

	_, err := client.Fetch(context.Background(), 95, 30.52, validParams())
	var pErr *forecast.ProviderError
	require.True(t, errors.As(err, &pErr))
	assert.Equal(t, "Координати поза допустимими межами", pErr.Message)
}

func TestFetchHTTPErrorMapping(t *testing.T) {
	tests := []struct {
		status  int
		message string
	}{
		{http.StatusBadRequest, "Некоректні параметри запиту до API погоди"},
		{http.StatusTooManyRequests, "Перевищено ліміт запитів до API погоди. Спробуйте пізніше"},
		{http.StatusInternalServerError, "Проблема з сервером погоди. Спробуйте пізніше"},
		{http.StatusBadGateway, "Проблема з сервером погоди. Спробуйте пізніше"},
		{http.StatusNotFound, "Помилка HTTP 404"},
	}

	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tt.status)
		}))

		_, err := newTestClient(server.URL).Fetch(context.Background(), 50.45, 30.52, validParams())
		server.Close()

		var pErr *forecast.ProviderError
		require.True(t, errors.As(err, &pErr), "status %d", tt.status)
		assert.Equal(t, tt.message, pErr.Message)
		assert.Equal(t, tt.status, pErr.StatusCode)
	}
}

func TestFetchProviderErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error": true, "reason": "Invalid value for parameter daily"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Fetch(context.Background(), 50.45, 30.52, validParams())
	var pErr *forecast.ProviderError
	require.True(t, errors.As(err, &pErr))
	assert.Equal(t, "API помилка: Invalid value for parameter daily", pErr.Message)
}

func TestFetchTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := openmeteo.NewClient(openmeteo.ClientConfig{
		BaseURL: server.URL,
		Timeout: 20 * time.Millisecond,
		Logger:  zerolog.Nop(),
	})

	_, err := client.Fetch(context.Background(), 50.45, 30.52, validParams())
	var pErr *forecast.ProviderError
	require.True(t, errors.As(err, &pErr))
	assert.Equal(t, "Перевищено час очікування відповіді від сервера погоди", pErr.Message)
}

func TestFetchNetworkFailure(t *testing.T) {
	// Closed server: connection refused.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	server.Close()

	_, err := newTestClient(server.URL).Fetch(context.Background(), 50.45, 30.52, validParams())
	var pErr *forecast.ProviderError
	require.True(t, errors.As(err, &pErr))
	assert.Equal(t, "Помилка мережі при отриманні даних про погоду", pErr.Message)
}

func TestFetchMalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"current": `))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Fetch(context.Background(), 50.45, 30.52, validParams())
	var pErr *forecast.ProviderError
	require.True(t, errors.As(err, &pErr))
	assert.Equal(t, "Технічна помилка. Спробуйте пізніше", pErr.Message)
}
