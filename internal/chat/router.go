package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pohodnyk/pohodnyk/internal/forecast"
	"github.com/pohodnyk/pohodnyk/internal/geocode"
	"github.com/pohodnyk/pohodnyk/internal/settings"
)

// Reply texts.
const (
	welcomeText = "🌤️ **Привіт! Я твій персональний погодний асистент!**\n\n" +
		"Надішли мені назву міста, і я покажу поточну погоду та прогноз " +
		"на найближчі дні.\n\n" +
		"Команди:\n" +
		"• /weather — погода для збереженої локації\n" +
		"• /settings — твої налаштування\n" +
		"• /help — допомога"

	helpText = "🆘 **Допомога по боту:**\n\n" +
		"• Надішли назву міста, щоб отримати погоду\n" +
		"• /weather показує погоду для збереженої локації\n" +
		"• /settings показує поточні налаштування\n\n" +
		"Якщо місто не знаходиться, спробуй вказати країну або " +
		"англійську назву."

	locationNotSetText = "❌ Локація не встановлена. Вкажіть місто або координати."
	technicalErrorText = "❌ Виникла технічна помилка. Спробуй пізніше або звернись до підтримки."
	unknownCommandText = "Не знаю такої команди. Спробуй /help"
)

// Fetcher retrieves a forecast payload for validated parameters.
type Fetcher interface {
	Fetch(ctx context.Context, lat, lon float64, params *forecast.QueryParams) (*forecast.Response, error)
}

// Router dispatches incoming messages: commands to their handlers, free
// text to the geocode-and-forecast pipeline.
type Router struct {
	settings  *settings.Service
	geocoder  geocode.Geocoder
	fetcher   Fetcher
	validator *forecast.Validator
	messenger Messenger
	logger    zerolog.Logger
}

// NewRouter wires the chat pipeline together.
func NewRouter(svc *settings.Service, geocoder geocode.Geocoder, fetcher Fetcher, validator *forecast.Validator, messenger Messenger, logger zerolog.Logger) *Router {
	return &Router{
		settings:  svc,
		geocoder:  geocoder,
		fetcher:   fetcher,
		validator: validator,
		messenger: messenger,
		logger:    logger,
	}
}

// Handle processes one incoming message end to end. Errors in the pipeline
// are reported to the user; the returned error covers delivery failures only.
func (r *Router) Handle(ctx context.Context, msg Message) error {
	text := strings.TrimSpace(msg.Text)

	switch {
	case text == "/start":
		return r.handleStart(ctx, msg)
	case text == "/help":
		return r.messenger.Send(ctx, msg.ChatID, helpText)
	case text == "/settings":
		return r.handleSettings(ctx, msg)
	case text == "/weather":
		return r.handleWeather(ctx, msg)
	case strings.HasPrefix(text, "/"):
		return r.messenger.Send(ctx, msg.ChatID, unknownCommandText)
	default:
		return r.handlePlace(ctx, msg, text)
	}
}

func (r *Router) handleStart(ctx context.Context, msg Message) error {
	if _, err := r.settings.GetOrCreate(ctx, msg.UserID); err != nil {
		r.logger.Error().Err(err).Str("user_id", msg.UserID).Msg("start handler failed")
		return r.messenger.Send(ctx, msg.ChatID, technicalErrorText)
	}
	return r.messenger.Send(ctx, msg.ChatID, welcomeText)
}

func (r *Router) handleSettings(ctx context.Context, msg Message) error {
	summary, err := r.settings.Summary(ctx, msg.UserID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", msg.UserID).Msg("settings summary failed")
		return r.messenger.Send(ctx, msg.ChatID, technicalErrorText)
	}
	return r.messenger.Send(ctx, msg.ChatID, summary)
}

// handleWeather replies with the forecast for the user's saved location.
func (r *Router) handleWeather(ctx context.Context, msg Message) error {
	prefs, err := r.settings.GetOrCreate(ctx, msg.UserID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", msg.UserID).Msg("load settings failed")
		return r.messenger.Send(ctx, msg.ChatID, technicalErrorText)
	}
	if !prefs.HasLocation() {
		return r.messenger.Send(ctx, msg.ChatID, locationNotSetText)
	}

	city := prefs.LocationName
	if city == "" {
		city = "Невідома локація"
	}
	loc := forecast.LocationInfo{City: city}

	report, err := r.report(ctx, prefs, loc)
	if err != nil {
		return r.messenger.Send(ctx, msg.ChatID, r.userError(err, msg.UserID))
	}
	return r.messenger.Send(ctx, msg.ChatID, report)
}

// handlePlace treats the text as a place name: resolve it, remember it as
// the user's location, then run the forecast pipeline.
func (r *Router) handlePlace(ctx context.Context, msg Message, place string) error {
	r.logger.Info().Str("user_id", msg.UserID).Str("place", place).Msg("weather request")

	resolved, err := r.geocoder.Geocode(ctx, place)
	if err != nil {
		return r.messenger.Send(ctx, msg.ChatID, r.geocodeError(err, msg.UserID, place))
	}

	name := place
	if resolved.City != "" && resolved.Country != "" {
		name = resolved.City + ", " + resolved.Country
	}
	if err := r.settings.UpdateLocation(ctx, msg.UserID, resolved.Latitude, resolved.Longitude, name, nil, ""); err != nil {
		r.logger.Error().Err(err).Str("user_id", msg.UserID).Msg("save location failed")
		return r.messenger.Send(ctx, msg.ChatID, technicalErrorText)
	}

	prefs, err := r.settings.GetOrCreate(ctx, msg.UserID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", msg.UserID).Msg("load settings failed")
		return r.messenger.Send(ctx, msg.ChatID, technicalErrorText)
	}

	loc := forecast.LocationInfo{City: resolved.City, State: resolved.State, Country: resolved.Country}
	if resolved.City == "" {
		loc.City = place
	}

	report, err := r.report(ctx, prefs, loc)
	if err != nil {
		return r.messenger.Send(ctx, msg.ChatID, r.userError(err, msg.UserID))
	}
	return r.messenger.Send(ctx, msg.ChatID, report)
}

// report runs build → validate → fetch → compose for one user.
func (r *Router) report(ctx context.Context, prefs *settings.Preferences, loc forecast.LocationInfo) (string, error) {
	raw, err := forecast.BuildQuery(prefs)
	if err != nil {
		return "", err
	}

	params, err := r.validator.Validate(raw)
	if err != nil {
		return "", err
	}

	resp, err := r.fetcher.Fetch(ctx, *prefs.Latitude, *prefs.Longitude, params)
	if err != nil {
		return "", err
	}

	return forecast.ComposeReport(resp, loc, params), nil
}

// geocodeError maps a geocoding failure to user-facing text.
func (r *Router) geocodeError(err error, userID, place string) string {
	r.logger.Warn().Err(err).Str("user_id", userID).Str("place", place).Msg("geocoding failed")

	if errors.Is(err, geocode.ErrNoResults) || errors.Is(err, geocode.ErrPlaceTooShort) {
		return fmt.Sprintf(
			"❌ **Помилка:** %s\n\n💡 **Спробуй:**\n• Вказати місто та країну\n• Використати англійську назву\n• Перевірити правопис",
			err.Error(),
		)
	}
	return technicalErrorText
}

// userError maps a pipeline failure to user-facing text. Provider and
// validation errors carry their own display messages; anything else stays
// in the log only.
func (r *Router) userError(err error, userID string) string {
	r.logger.Error().Err(err).Str("user_id", userID).Msg("forecast pipeline failed")

	var provErr *forecast.ProviderError
	if errors.As(err, &provErr) {
		return "❌ Помилка отримання прогнозу: " + provErr.Message
	}

	var valErr *forecast.ValidationError
	if errors.As(err, &valErr) {
		return "❌ Помилка: " + valErr.Hint
	}

	if errors.Is(err, forecast.ErrLocationNotSet) {
		return locationNotSetText
	}

	return technicalErrorText
}
