package notify_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pohodnyk/pohodnyk/internal/chat"
	"github.com/pohodnyk/pohodnyk/internal/forecast"
	"github.com/pohodnyk/pohodnyk/internal/notify"
	"github.com/pohodnyk/pohodnyk/internal/settings"
)

type stubFetcher struct {
	resp *forecast.Response
	err  error
}

func (s *stubFetcher) Fetch(_ context.Context, _, _ float64, _ *forecast.QueryParams) (*forecast.Response, error) {
	return s.resp, s.err
}

type recordingDispatcher struct {
	mu      sync.Mutex
	userIDs []string
	err     error
}

func (d *recordingDispatcher) Dispatch(_ context.Context, userID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.userIDs = append(d.userIDs, userID)
	return d.err
}

func (d *recordingDispatcher) dispatched() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.userIDs...)
}

func newSettingsService() *settings.Service {
	return settings.NewService(settings.NewInMemoryRepository(), zerolog.Nop())
}

func enableUser(t *testing.T, svc *settings.Service, userID, hhmm string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, svc.UpdateLocation(ctx, userID, 50.45, 30.52, "Київ", nil, ""))
	enabled := true
	require.NoError(t, svc.UpdateNotifications(ctx, userID, &enabled, &hhmm))
}

func TestScheduler_TickDispatchesDueUsers(t *testing.T) {
	svc := newSettingsService()
	enableUser(t, svc, "due-1", "08:30")
	enableUser(t, svc, "due-2", "08:30")
	enableUser(t, svc, "later", "21:00")

	dispatcher := &recordingDispatcher{}
	metrics := notify.NewMetrics()
	scheduler := notify.NewScheduler(notify.SchedulerConfig{
		Settings:   svc,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     zerolog.Nop(),
	})

	now := time.Date(2026, 6, 1, 8, 30, 12, 0, time.UTC)
	scheduler.Tick(context.Background(), now)

	assert.ElementsMatch(t, []string{"due-1", "due-2"}, dispatcher.dispatched())
	assert.Equal(t, 2, metrics.Snapshot().LastDue)
}

func TestScheduler_TickSurvivesDispatchFailures(t *testing.T) {
	svc := newSettingsService()
	enableUser(t, svc, "a", "09:00")
	enableUser(t, svc, "b", "09:00")

	dispatcher := &recordingDispatcher{err: errors.New("queue unavailable")}
	scheduler := notify.NewScheduler(notify.SchedulerConfig{
		Settings:   svc,
		Dispatcher: dispatcher,
		Metrics:    notify.NewMetrics(),
		Logger:     zerolog.Nop(),
	})

	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	scheduler.Tick(context.Background(), now)

	// Both users were attempted despite every dispatch failing.
	assert.Len(t, dispatcher.dispatched(), 2)
}

func TestSender_Notify(t *testing.T) {
	svc := newSettingsService()
	enableUser(t, svc, "u1", "07:00")

	messenger := chat.NewMemoryMessenger()
	fetcher := &stubFetcher{resp: &forecast.Response{
		Current: map[string]any{"temperature_2m": 18.0, "weather_code": 3.0},
	}}
	sender := notify.NewSender(svc, fetcher, forecast.NewValidator(zerolog.Nop()), messenger, zerolog.Nop())

	require.NoError(t, sender.Notify(context.Background(), "u1"))

	sent := messenger.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "u1", sent[0].ChatID)
	assert.Contains(t, sent[0].Text, "🔔 Щоденна погода:")
	assert.Contains(t, sent[0].Text, "Київ")
}

func TestSender_SkipsUserWithoutLocation(t *testing.T) {
	svc := newSettingsService()
	messenger := chat.NewMemoryMessenger()
	sender := notify.NewSender(svc, &stubFetcher{}, forecast.NewValidator(zerolog.Nop()), messenger, zerolog.Nop())

	require.NoError(t, sender.Notify(context.Background(), "nobody"))
	assert.Empty(t, messenger.Sent())
}

func TestInlineDispatcher_CountsOutcomes(t *testing.T) {
	svc := newSettingsService()
	enableUser(t, svc, "u1", "07:00")

	messenger := chat.NewMemoryMessenger()
	metrics := notify.NewMetrics()

	okSender := notify.NewSender(svc, &stubFetcher{resp: &forecast.Response{}}, forecast.NewValidator(zerolog.Nop()), messenger, zerolog.Nop())
	require.NoError(t, notify.NewInlineDispatcher(okSender, metrics).Dispatch(context.Background(), "u1"))

	failSender := notify.NewSender(svc, &stubFetcher{err: errors.New("boom")}, forecast.NewValidator(zerolog.Nop()), messenger, zerolog.Nop())
	require.Error(t, notify.NewInlineDispatcher(failSender, metrics).Dispatch(context.Background(), "u1"))

	snap := metrics.Snapshot()
	assert.Equal(t, uint64(1), snap.Sent)
	assert.Equal(t, uint64(1), snap.Failed)
}
