// Package main provides the entrypoint for the pohodnyk API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/pohodnyk/pohodnyk/internal/api"
	"github.com/pohodnyk/pohodnyk/internal/api/middleware"
	"github.com/pohodnyk/pohodnyk/internal/auth"
	"github.com/pohodnyk/pohodnyk/internal/config"
	"github.com/pohodnyk/pohodnyk/internal/database"
	"github.com/pohodnyk/pohodnyk/internal/forecast"
	"github.com/pohodnyk/pohodnyk/internal/forecast/openmeteo"
	"github.com/pohodnyk/pohodnyk/internal/geocode"
	"github.com/pohodnyk/pohodnyk/internal/geocode/geoapify"
	"github.com/pohodnyk/pohodnyk/internal/provider/resilience"
	"github.com/pohodnyk/pohodnyk/internal/settings"
	"github.com/pohodnyk/pohodnyk/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "pohodnyk-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting pohodnyk API")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Initialize OpenTelemetry
	ctx := context.Background()

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if cfg.OTELEnabled {
		log.Info().
			Str("otlp_endpoint", cfg.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Initialize per-user settings service
	settingsRepo := settings.NewPostgresRepository(pool)
	settingsService := settings.NewService(settingsRepo, log)
	log.Info().Msg("settings service initialized")

	// Initialize JWT token service
	signingKey := cfg.JWTSigningKey
	if signingKey == "" {
		signingKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}
	tokens := auth.NewService(auth.Config{
		SigningKey: signingKey,
		Issuer:     cfg.JWTIssuer,
		Audience:   cfg.JWTAudience,
	})

	// Provider registry for the ops stats endpoint
	registry := resilience.NewRegistry()

	// Geocoding goes through the resilient client so retries and the
	// circuit breaker apply
	if cfg.GeoapifyAPIKey == "" {
		log.Warn().Msg("GEOAPIFY_API_KEY not set - geocoding requests will fail")
	}
	geoClient := resilience.NewClient(resilience.ClientConfig{
		Name:            geoapify.ProviderName,
		MaxRetries:      3,
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Logger:          log,
	})
	registry.Register(geoapify.ProviderName, geoClient)
	geocoder := geocode.WithRecorder(geoapify.NewClient(geoapify.ClientConfig{
		APIKey:     cfg.GeoapifyAPIKey,
		HTTPClient: geoClient,
	}), geoapify.ProviderName, registry)

	// Forecast fetches are single-shot, no retry layer
	providerMetrics, err := middleware.NewProviderMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize provider metrics")
	}
	fetcher := openmeteo.NewClient(openmeteo.ClientConfig{
		BaseURL: cfg.OpenMeteoBaseURL,
		Logger:  log,
		Metrics: providerMetrics,
	})

	validator := forecast.NewValidator(log)

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:     Version,
		BuildTime:   BuildTime,
		Logger:      log,
		ServiceName: serviceName,
		Metrics:     metrics,
		Tokens:      tokens,
		Settings:    settingsService,
		Geocoder:    geocoder,
		Fetcher:     fetcher,
		Validator:   validator,
		Registry:    registry,
		Pinger:      pool,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
