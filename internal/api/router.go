// Package api provides the HTTP API for pohodnyk.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/pohodnyk/pohodnyk/internal/api/handler"
	"github.com/pohodnyk/pohodnyk/internal/api/middleware"
	"github.com/pohodnyk/pohodnyk/internal/auth"
	"github.com/pohodnyk/pohodnyk/internal/forecast"
	"github.com/pohodnyk/pohodnyk/internal/geocode"
	"github.com/pohodnyk/pohodnyk/internal/notify"
	"github.com/pohodnyk/pohodnyk/internal/provider/resilience"
	"github.com/pohodnyk/pohodnyk/internal/settings"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version       string
	BuildTime     string
	Logger        zerolog.Logger
	ServiceName   string
	Metrics       *middleware.Metrics
	Tokens        *auth.Service
	Settings      *settings.Service
	Geocoder      geocode.Geocoder
	Fetcher       handler.Fetcher
	Validator     *forecast.Validator
	Registry      *resilience.Registry
	NotifyMetrics *notify.Metrics
	Pinger        handler.Pinger
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "pohodnyk-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Pinger, cfg.Registry, cfg.NotifyMetrics)
	weatherHandler := handler.NewWeatherHandler(cfg.Geocoder, cfg.Fetcher, cfg.Validator, cfg.Logger)
	settingsHandler := handler.NewSettingsHandler(cfg.Settings, cfg.Logger)

	// Create auth middleware
	authMiddleware := middleware.Auth(cfg.Tokens)

	// Create rate limit middleware for different endpoint categories
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			// Stats endpoint requires authentication
			r.With(authMiddleware).Get("/stats", opsHandler.Stats)
		})

		// Weather by city (public) - talks to upstream providers, so
		// the stricter rate limit applies
		r.With(expensiveRateLimit).Get("/weather", weatherHandler.GetByCity)

		// Per-user settings (authenticated) - user-based rate limiting
		r.Route("/users/{userID}/settings", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RateLimitByUser(middleware.StandardRateLimit)) // 100 req/min per user
			r.Get("/", settingsHandler.Get)
			r.Put("/location", settingsHandler.UpdateLocation)
			r.Put("/units", settingsHandler.UpdateUnits)
			r.Put("/window", settingsHandler.UpdateWindow)
			r.Put("/notifications", settingsHandler.UpdateNotifications)
			r.Post("/toggles/{flag}", settingsHandler.Toggle)
		})
	})

	return r
}
