// Package notify delivers the daily weather notifications: a minute-tick
// scheduler selects due users and a dispatcher hands each one to the sender.
package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pohodnyk/pohodnyk/internal/chat"
	"github.com/pohodnyk/pohodnyk/internal/forecast"
	"github.com/pohodnyk/pohodnyk/internal/settings"
)

const notificationPrefix = "🔔 Щоденна погода:\n\n"

// Sender renders and delivers one user's daily weather message.
type Sender struct {
	settings  *settings.Service
	fetcher   chat.Fetcher
	validator *forecast.Validator
	messenger chat.Messenger
	logger    zerolog.Logger
}

// NewSender creates a notification sender.
func NewSender(svc *settings.Service, fetcher chat.Fetcher, validator *forecast.Validator, messenger chat.Messenger, logger zerolog.Logger) *Sender {
	return &Sender{
		settings:  svc,
		fetcher:   fetcher,
		validator: validator,
		messenger: messenger,
		logger:    logger,
	}
}

// Notify runs the full pipeline for one user. Users without a saved
// location are skipped without error.
func (s *Sender) Notify(ctx context.Context, userID string) error {
	prefs, err := s.settings.GetOrCreate(ctx, userID)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if !prefs.HasLocation() {
		s.logger.Debug().Str("user_id", userID).Msg("skipping notification, no location set")
		return nil
	}

	raw, err := forecast.BuildQuery(prefs)
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	params, err := s.validator.Validate(raw)
	if err != nil {
		return fmt.Errorf("validate query: %w", err)
	}

	resp, err := s.fetcher.Fetch(ctx, *prefs.Latitude, *prefs.Longitude, params)
	if err != nil {
		return fmt.Errorf("fetch forecast: %w", err)
	}

	city := prefs.LocationName
	if city == "" {
		city = "Ваша локація"
	}
	report := forecast.ComposeReport(resp, forecast.LocationInfo{City: city}, params)

	if err := s.messenger.Send(ctx, userID, notificationPrefix+report); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}

	s.logger.Info().Str("user_id", userID).Msg("daily notification sent")
	return nil
}
