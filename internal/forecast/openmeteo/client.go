// Package openmeteo provides the Open-Meteo forecast API client.
package openmeteo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/pohodnyk/pohodnyk/internal/forecast"
)

const (
	// ProviderName identifies this forecast provider.
	ProviderName = "open-meteo"

	// DefaultBaseURL is the Open-Meteo forecast endpoint.
	DefaultBaseURL = "https://api.open-meteo.com/v1/forecast"

	// DefaultTimeout bounds the single outbound request. Generous: the
	// provider is a third party and there is no retry behind it.
	DefaultTimeout = 30 * time.Second
)

// ClientConfig holds configuration for the Open-Meteo client.
type ClientConfig struct {
	// BaseURL is the forecast endpoint (defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional). The default client
	// deliberately has no retry or circuit breaking: one forecast request
	// per call.
	HTTPClient *http.Client

	// Timeout for the request when HTTPClient is nil.
	Timeout time.Duration

	// Logger for client operations.
	Logger zerolog.Logger

	// Metrics records outbound call outcomes (optional).
	Metrics RequestRecorder
}

// RequestRecorder receives timing and outcome for each outbound call.
type RequestRecorder interface {
	RecordRequest(provider, operation string, duration time.Duration, err error)
}

// Client is an Open-Meteo forecast client. It issues exactly one outbound
// request per Fetch and maps every failure mode to a *forecast.ProviderError
// whose message is safe to show to the end user.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
	metrics    RequestRecorder
}

// NewClient creates a new Open-Meteo client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Fetch retrieves a forecast for validated parameters. Coordinates are
// re-checked defensively since this boundary can be called without going
// through the validator.
func (c *Client) Fetch(ctx context.Context, lat, lon float64, params *forecast.QueryParams) (*forecast.Response, error) {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		c.logger.Warn().Float64("lat", lat).Float64("lon", lon).
			Msg("non-finite coordinates passed to fetch")
		return nil, &forecast.ProviderError{
			Message: "Координати мають бути числами",
			Err:     forecast.ErrInvalidCoordinate,
		}
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		c.logger.Warn().Float64("lat", lat).Float64("lon", lon).
			Msg("coordinates out of range at fetch boundary")
		return nil, &forecast.ProviderError{
			Message: "Координати поза допустимими межами",
			Err:     forecast.ErrInvalidCoordinate,
		}
	}

	start := time.Now()
	payload, err := c.doFetch(ctx, lat, lon, params)
	if c.metrics != nil {
		c.metrics.RecordRequest(ProviderName, "fetch-forecast", time.Since(start), err)
	}
	return payload, err
}

func (c *Client) doFetch(ctx context.Context, lat, lon float64, params *forecast.QueryParams) (*forecast.Response, error) {
	values := params.Values()
	requestURL := c.baseURL + "?" + values.Encode()

	c.logger.Info().
		Float64("lat", lat).
		Float64("lon", lon).
		Str("provider", ProviderName).
		Msg("fetching forecast")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, http.NoBody)
	if err != nil {
		return nil, &forecast.ProviderError{
			Message: "Технічна помилка. Спробуйте пізніше",
			Err:     err,
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp.StatusCode)
	}

	var payload forecast.Response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logger.Error().Err(err).Msg("failed to decode provider response")
		return nil, &forecast.ProviderError{
			Message: "Технічна помилка. Спробуйте пізніше",
			Err:     err,
		}
	}

	if reason, failed := payload.ProviderFailure(); failed {
		c.logger.Error().Str("reason", reason).Msg("provider reported an error body")
		return nil, &forecast.ProviderError{
			Message: fmt.Sprintf("API помилка: %s", reason),
			Err:     fmt.Errorf("provider error body: %s", reason),
		}
	}

	c.logger.Info().Float64("lat", lat).Float64("lon", lon).Msg("forecast fetched")
	return &payload, nil
}

// transportError classifies a pre-response failure: timeouts get their own
// message, everything else at this layer is a network problem.
func (c *Client) transportError(err error) *forecast.ProviderError {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		c.logger.Error().Err(err).Msg("forecast request timed out")
		return &forecast.ProviderError{
			Message: "Перевищено час очікування відповіді від сервера погоди",
			Err:     err,
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		c.logger.Error().Err(err).Msg("forecast request deadline exceeded")
		return &forecast.ProviderError{
			Message: "Перевищено час очікування відповіді від сервера погоди",
			Err:     err,
		}
	}
	c.logger.Error().Err(err).Msg("network failure fetching forecast")
	return &forecast.ProviderError{
		Message: "Помилка мережі при отриманні даних про погоду",
		Err:     err,
	}
}

func (c *Client) statusError(status int) *forecast.ProviderError {
	var message string
	switch {
	case status == http.StatusBadRequest:
		message = "Некоректні параметри запиту до API погоди"
	case status == http.StatusTooManyRequests:
		message = "Перевищено ліміт запитів до API погоди. Спробуйте пізніше"
	case status >= 500:
		message = "Проблема з сервером погоди. Спробуйте пізніше"
	default:
		message = fmt.Sprintf("Помилка HTTP %d", status)
	}
	c.logger.Error().Int("status", status).Msg("provider returned HTTP error")
	return &forecast.ProviderError{
		Message:    message,
		StatusCode: status,
		Err:        fmt.Errorf("unexpected status code: %d", status),
	}
}
