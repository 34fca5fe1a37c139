package notify

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"

	"github.com/pohodnyk/pohodnyk/internal/settings"
)

// Dispatcher hands one due user's notification off for delivery, either
// inline or through a message queue.
type Dispatcher interface {
	Dispatch(ctx context.Context, userID string) error
}

// InlineDispatcher delivers notifications directly through the sender,
// used when no queue is configured.
type InlineDispatcher struct {
	sender  *Sender
	metrics *Metrics
}

// NewInlineDispatcher creates a dispatcher that sends in-process.
func NewInlineDispatcher(sender *Sender, metrics *Metrics) *InlineDispatcher {
	return &InlineDispatcher{sender: sender, metrics: metrics}
}

// Dispatch sends the notification immediately.
func (d *InlineDispatcher) Dispatch(ctx context.Context, userID string) error {
	if err := d.sender.Notify(ctx, userID); err != nil {
		d.metrics.RecordFailure()
		return err
	}
	d.metrics.RecordSent()
	return nil
}

// SchedulerConfig holds configuration for the notification scheduler.
type SchedulerConfig struct {
	Settings   *settings.Service
	Dispatcher Dispatcher
	Metrics    *Metrics
	Logger     zerolog.Logger

	// Location for the HH:MM due-time comparison. Default: time.Local.
	Location *time.Location

	// TickTimeout bounds one full tick. Default: 55s, under the minute
	// interval so ticks cannot pile up.
	TickTimeout time.Duration
}

// Scheduler runs a minute tick that dispatches daily notifications to
// every user whose configured time matches the current HH:MM.
type Scheduler struct {
	scheduler *gocron.Scheduler
	cfg       SchedulerConfig
	logger    zerolog.Logger
}

// NewScheduler creates the notification scheduler.
func NewScheduler(cfg SchedulerConfig) *Scheduler {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.TickTimeout == 0 {
		cfg.TickTimeout = 55 * time.Second
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(cfg.Location),
		cfg:       cfg,
		logger:    cfg.Logger,
	}
}

// Start schedules the minute tick and starts the scheduler in the
// background.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(1).Minute().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.TickTimeout)
		defer cancel()
		s.Tick(ctx, time.Now().In(s.cfg.Location))
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.logger.Info().Msg("notification scheduler started")
	return nil
}

// Stop stops the scheduler and waits for a running tick to finish.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	s.logger.Info().Msg("notification scheduler stopped")
}

// Tick selects due users for the given moment and dispatches one job per
// user. A failing user never aborts the rest of the batch.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) {
	hhmm := now.Format("15:04")

	due, err := s.cfg.Settings.ListDue(ctx, hhmm)
	if err != nil {
		s.logger.Error().Err(err).Str("time", hhmm).Msg("listing due users failed")
		return
	}
	s.cfg.Metrics.RecordRun(len(due))
	if len(due) == 0 {
		return
	}

	s.logger.Info().Str("time", hhmm).Int("due", len(due)).Msg("dispatching daily notifications")

	for _, prefs := range due {
		if err := s.cfg.Dispatcher.Dispatch(ctx, prefs.UserID); err != nil {
			s.logger.Error().Err(err).Str("user_id", prefs.UserID).Msg("notification dispatch failed")
		}
	}
}
