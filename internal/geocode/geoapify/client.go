// Package geoapify provides a client for the Geoapify geocoding API.
package geoapify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pohodnyk/pohodnyk/internal/geocode"
	"github.com/pohodnyk/pohodnyk/internal/provider/resilience"
)

const (
	// DefaultBaseURL is the base URL for the Geoapify geocoding API.
	DefaultBaseURL = "https://api.geoapify.com/v1/geocode"

	// ProviderName identifies this provider.
	ProviderName = "geoapify"
)

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the Geoapify client.
type ClientConfig struct {
	// APIKey is the Geoapify API key. Required.
	APIKey string

	// BaseURL is the API base URL (defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use.
	// If nil, a default resilient client will be created.
	HTTPClient HTTPDoer

	// Timeout for individual API requests (default: 10s).
	Timeout time.Duration
}

// Client is a Geoapify geocoding client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient HTTPDoer
}

// NewClient creates a new Geoapify client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		httpClient = resilience.NewClient(resilience.ClientConfig{
			Name:            ProviderName,
			Timeout:         timeout,
			MaxRetries:      3,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		})
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	City      string  `json:"city"`
	State     string  `json:"state"`
	Country   string  `json:"country"`
	Formatted string  `json:"formatted"`
}

// Geocode resolves a place name to coordinates using forward search.
// Only the first match is requested and returned.
func (c *Client) Geocode(ctx context.Context, place string) (*geocode.Location, error) {
	place = strings.TrimSpace(place)
	if utf8.RuneCountInString(place) < 2 {
		return nil, geocode.ErrPlaceTooShort
	}

	query := url.Values{}
	query.Set("text", place)
	query.Set("limit", "1")
	query.Set("format", "json")
	query.Set("apiKey", c.apiKey)

	endpoint := c.baseURL + "/search?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode %q: %w", place, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from geocoding endpoint", resp.StatusCode)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode geocoding response: %w", err)
	}

	if len(result.Results) == 0 {
		return nil, geocode.ErrNoResults
	}

	first := result.Results[0]
	return &geocode.Location{
		Latitude:  first.Lat,
		Longitude: first.Lon,
		City:      first.City,
		State:     first.State,
		Country:   first.Country,
		Formatted: first.Formatted,
	}, nil
}
