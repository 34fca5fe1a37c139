// Package main provides the entrypoint for the pohodnyk notifier: the
// minute scheduler that dispatches daily weather notifications.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/pohodnyk/pohodnyk/internal/chat"
	"github.com/pohodnyk/pohodnyk/internal/config"
	"github.com/pohodnyk/pohodnyk/internal/database"
	"github.com/pohodnyk/pohodnyk/internal/forecast"
	"github.com/pohodnyk/pohodnyk/internal/forecast/openmeteo"
	"github.com/pohodnyk/pohodnyk/internal/notify"
	"github.com/pohodnyk/pohodnyk/internal/settings"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "pohodnyk-notifier"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting pohodnyk notifier")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	settingsService := settings.NewService(settings.NewPostgresRepository(pool), log)

	fetcher := openmeteo.NewClient(openmeteo.ClientConfig{
		BaseURL: cfg.OpenMeteoBaseURL,
		Logger:  log,
	})
	validator := forecast.NewValidator(log)
	messenger := chat.NewLogMessenger(log)

	metrics := notify.NewMetrics()
	sender := notify.NewSender(settingsService, fetcher, validator, messenger, log)

	// Pick the dispatch path: queue-backed when a Pub/Sub project is
	// configured, inline otherwise.
	var dispatcher notify.Dispatcher
	if cfg.PubSubProjectID != "" {
		pubsubCfg := notify.PubSubConfig{
			ProjectID:        cfg.PubSubProjectID,
			TopicName:        cfg.PubSubTopic,
			SubscriptionName: cfg.PubSubSubscription,
			Logger:           log,
		}

		pubsubDispatcher, err := notify.NewPubSubDispatcher(ctx, pubsubCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub dispatcher")
		}
		defer pubsubDispatcher.Close() //nolint:errcheck // best effort cleanup
		dispatcher = pubsubDispatcher

		consumer, err := notify.NewConsumer(ctx, pubsubCfg, sender, metrics)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub consumer")
		}
		defer consumer.Close() //nolint:errcheck // best effort cleanup

		go func() {
			if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
				log.Fatal().Err(err).Msg("consumer error")
			}
		}()
		log.Info().
			Str("topic", cfg.PubSubTopic).
			Str("subscription", cfg.PubSubSubscription).
			Msg("pubsub dispatch enabled")
	} else {
		dispatcher = notify.NewInlineDispatcher(sender, metrics)
		log.Info().Msg("inline dispatch enabled")
	}

	location, err := time.LoadLocation(cfg.SchedulerTimezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.SchedulerTimezone).Msg("invalid scheduler timezone")
	}

	scheduler := notify.NewScheduler(notify.SchedulerConfig{
		Settings:    settingsService,
		Dispatcher:  dispatcher,
		Metrics:     metrics,
		Logger:      log,
		Location:    location,
		TickTimeout: cfg.TickTimeout,
	})
	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}
	defer scheduler.Stop()
	log.Info().Str("timezone", cfg.SchedulerTimezone).Msg("scheduler started")

	// Health endpoint for the container platform
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","version":"%s"}`, Version)
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("health server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("health server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down notifier")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("notifier stopped")
}
