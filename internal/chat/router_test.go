package chat

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pohodnyk/pohodnyk/internal/forecast"
	"github.com/pohodnyk/pohodnyk/internal/geocode"
	"github.com/pohodnyk/pohodnyk/internal/settings"
)

type stubGeocoder struct {
	loc *geocode.Location
	err error
}

func (s *stubGeocoder) Geocode(_ context.Context, _ string) (*geocode.Location, error) {
	return s.loc, s.err
}

type stubFetcher struct {
	resp *forecast.Response
	err  error
}

func (s *stubFetcher) Fetch(_ context.Context, _, _ float64, _ *forecast.QueryParams) (*forecast.Response, error) {
	return s.resp, s.err
}

func kyivLocation() *geocode.Location {
	return &geocode.Location{
		Latitude:  50.4501,
		Longitude: 30.5234,
		City:      "Київ",
		Country:   "Україна",
		Formatted: "Київ, Україна",
	}
}

func okResponse() *forecast.Response {
	return &forecast.Response{
		Latitude:  50.45,
		Longitude: 30.52,
		Current: map[string]any{
			"temperature_2m": 21.5,
			"weather_code":   0.0,
		},
	}
}

type routerFixture struct {
	router    *Router
	settings  *settings.Service
	messenger *MemoryMessenger
}

func newFixture(geocoder geocode.Geocoder, fetcher Fetcher) *routerFixture {
	svc := settings.NewService(settings.NewInMemoryRepository(), zerolog.Nop())
	messenger := NewMemoryMessenger()
	router := NewRouter(svc, geocoder, fetcher, forecast.NewValidator(zerolog.Nop()), messenger, zerolog.Nop())
	return &routerFixture{router: router, settings: svc, messenger: messenger}
}

func lastSent(t *testing.T, m *MemoryMessenger) string {
	t.Helper()
	sent := m.Sent()
	require.NotEmpty(t, sent)
	return sent[len(sent)-1].Text
}

func TestRouter_Start(t *testing.T) {
	f := newFixture(&stubGeocoder{}, &stubFetcher{})

	err := f.router.Handle(context.Background(), Message{UserID: "u1", ChatID: "c1", Text: "/start"})
	require.NoError(t, err)
	assert.Contains(t, lastSent(t, f.messenger), "погодний асистент")

	// Settings record created on first contact.
	prefs, err := f.settings.GetOrCreate(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "celsius", prefs.TemperatureUnit)
}

func TestRouter_Help(t *testing.T) {
	f := newFixture(&stubGeocoder{}, &stubFetcher{})

	require.NoError(t, f.router.Handle(context.Background(), Message{UserID: "u1", ChatID: "c1", Text: "/help"}))
	assert.Contains(t, lastSent(t, f.messenger), "Допомога")
}

func TestRouter_Settings(t *testing.T) {
	f := newFixture(&stubGeocoder{}, &stubFetcher{})

	require.NoError(t, f.router.Handle(context.Background(), Message{UserID: "u1", ChatID: "c1", Text: "/settings"}))
	assert.Contains(t, lastSent(t, f.messenger), "Ваші налаштування")
}

func TestRouter_UnknownCommand(t *testing.T) {
	f := newFixture(&stubGeocoder{}, &stubFetcher{})

	require.NoError(t, f.router.Handle(context.Background(), Message{UserID: "u1", ChatID: "c1", Text: "/frobnicate"}))
	assert.Contains(t, lastSent(t, f.messenger), "/help")
}

func TestRouter_WeatherWithoutLocation(t *testing.T) {
	f := newFixture(&stubGeocoder{}, &stubFetcher{})

	require.NoError(t, f.router.Handle(context.Background(), Message{UserID: "u1", ChatID: "c1", Text: "/weather"}))
	assert.Contains(t, lastSent(t, f.messenger), "Локація не встановлена")
}

func TestRouter_PlaceName(t *testing.T) {
	f := newFixture(&stubGeocoder{loc: kyivLocation()}, &stubFetcher{resp: okResponse()})
	ctx := context.Background()

	require.NoError(t, f.router.Handle(ctx, Message{UserID: "u1", ChatID: "c1", Text: "Київ"}))

	reply := lastSent(t, f.messenger)
	assert.Contains(t, reply, "🌍 **Київ, Україна**")
	assert.Contains(t, reply, "21.5°C")

	// Location was saved for future /weather calls.
	prefs, err := f.settings.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	require.True(t, prefs.HasLocation())
	assert.Equal(t, 50.4501, *prefs.Latitude)
	assert.Equal(t, "Київ, Україна", prefs.LocationName)
}

func TestRouter_WeatherWithSavedLocation(t *testing.T) {
	f := newFixture(&stubGeocoder{loc: kyivLocation()}, &stubFetcher{resp: okResponse()})
	ctx := context.Background()

	require.NoError(t, f.router.Handle(ctx, Message{UserID: "u1", ChatID: "c1", Text: "Київ"}))
	require.NoError(t, f.router.Handle(ctx, Message{UserID: "u1", ChatID: "c1", Text: "/weather"}))

	reply := lastSent(t, f.messenger)
	assert.Contains(t, reply, "🌍 **Київ, Україна**")
}

func TestRouter_GeocodeNotFound(t *testing.T) {
	f := newFixture(&stubGeocoder{err: geocode.ErrNoResults}, &stubFetcher{})

	require.NoError(t, f.router.Handle(context.Background(), Message{UserID: "u1", ChatID: "c1", Text: "Хтознаде"}))

	reply := lastSent(t, f.messenger)
	assert.Contains(t, reply, "Я не знайшов таке місце")
	assert.Contains(t, reply, "Перевірити правопис")
}

func TestRouter_ProviderFailure(t *testing.T) {
	provErr := &forecast.ProviderError{Message: "Забагато запитів. Спробуйте через хвилину", StatusCode: 429}
	f := newFixture(&stubGeocoder{loc: kyivLocation()}, &stubFetcher{err: provErr})

	require.NoError(t, f.router.Handle(context.Background(), Message{UserID: "u1", ChatID: "c1", Text: "Київ"}))

	reply := lastSent(t, f.messenger)
	assert.Contains(t, reply, "Помилка отримання прогнозу")
	assert.Contains(t, reply, "Забагато запитів")
}
