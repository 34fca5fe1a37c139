// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime settings shared by the API server and the notifier.
type Config struct {
	Port        string
	Environment string

	// Telemetry.
	OTLPEndpoint string
	OTELEnabled  bool

	// Auth.
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string

	// Providers.
	GeoapifyAPIKey   string
	OpenMeteoBaseURL string

	// Notification dispatch. When ProjectID is empty the notifier
	// dispatches inline instead of through Pub/Sub.
	PubSubProjectID    string
	PubSubTopic        string
	PubSubSubscription string

	// Scheduler.
	SchedulerTimezone string
	TickTimeout       time.Duration
}

// Load reads configuration from the environment. A .env file is applied
// first when present, matching local development setups.
func Load() (*Config, error) {
	// Missing .env is the normal case in deployed environments.
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getenvDefault("APP_PORT", "8080"),
		Environment:        getenvDefault("APP_ENV", "development"),
		OTLPEndpoint:       getenvDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OTELEnabled:        os.Getenv("OTEL_ENABLED") == "true",
		JWTSigningKey:      os.Getenv("JWT_SIGNING_KEY"),
		JWTIssuer:          getenvDefault("JWT_ISSUER", "pohodnyk"),
		JWTAudience:        getenvDefault("JWT_AUDIENCE", "pohodnyk-api"),
		GeoapifyAPIKey:     os.Getenv("GEOAPIFY_API_KEY"),
		OpenMeteoBaseURL:   os.Getenv("OPEN_METEO_BASE_URL"),
		PubSubProjectID:    os.Getenv("PUBSUB_PROJECT_ID"),
		PubSubTopic:        getenvDefault("PUBSUB_TOPIC", "daily-weather"),
		PubSubSubscription: getenvDefault("PUBSUB_SUBSCRIPTION", "daily-weather-notifier"),
		SchedulerTimezone:  getenvDefault("SCHEDULER_TIMEZONE", "Europe/Kyiv"),
	}

	tickTimeout, err := time.ParseDuration(getenvDefault("SCHEDULER_TICK_TIMEOUT", "55s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_TICK_TIMEOUT: %w", err)
	}
	cfg.TickTimeout = tickTimeout

	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
