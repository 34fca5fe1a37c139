package settings

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL preferences repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const prefColumns = `
	user_id, latitude, longitude, location_name, elevation, timezone,
	temperature_unit, wind_speed_unit, precipitation_unit, timeformat,
	forecast_days, past_days,
	show_temperature, show_feels_like, show_humidity, show_pressure,
	show_wind, show_precipitation, show_precipitation_probability,
	show_cloud_cover, show_uv_index, show_visibility, show_dew_point,
	show_solar_radiation,
	show_daily_temperature, show_daily_precipitation, show_daily_wind,
	show_sunrise_sunset, show_daylight_duration, show_sunshine_duration,
	show_daily_uv,
	show_current_weather,
	notification_enabled, notification_time,
	created_at, updated_at`

// Get retrieves the preferences for a user.
func (r *PostgresRepository) Get(ctx context.Context, userID string) (*Preferences, error) {
	query := `SELECT` + prefColumns + `
		FROM user_weather_settings
		WHERE user_id = $1`

	row := r.pool.QueryRow(ctx, query, userID)
	prefs, err := scanPreferences(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return prefs, nil
}

// Create stores a new preference record.
func (r *PostgresRepository) Create(ctx context.Context, p *Preferences) error {
	query := `
		INSERT INTO user_weather_settings (` + prefColumns + `)
		VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10,
			$11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24,
			$25, $26, $27, $28, $29, $30, $31,
			$32,
			$33, $34,
			$35, $36
		)`

	_, err := r.pool.Exec(ctx, query, prefArgs(p)...)
	return err
}

// Update overwrites an existing preference record.
func (r *PostgresRepository) Update(ctx context.Context, p *Preferences) error {
	query := `
		UPDATE user_weather_settings SET
			latitude = $2, longitude = $3, location_name = $4,
			elevation = $5, timezone = $6,
			temperature_unit = $7, wind_speed_unit = $8,
			precipitation_unit = $9, timeformat = $10,
			forecast_days = $11, past_days = $12,
			show_temperature = $13, show_feels_like = $14,
			show_humidity = $15, show_pressure = $16,
			show_wind = $17, show_precipitation = $18,
			show_precipitation_probability = $19, show_cloud_cover = $20,
			show_uv_index = $21, show_visibility = $22,
			show_dew_point = $23, show_solar_radiation = $24,
			show_daily_temperature = $25, show_daily_precipitation = $26,
			show_daily_wind = $27, show_sunrise_sunset = $28,
			show_daylight_duration = $29, show_sunshine_duration = $30,
			show_daily_uv = $31,
			show_current_weather = $32,
			notification_enabled = $33, notification_time = $34,
			created_at = $35, updated_at = $36
		WHERE user_id = $1`

	tag, err := r.pool.Exec(ctx, query, prefArgs(p)...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a user's preferences.
func (r *PostgresRepository) Delete(ctx context.Context, userID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM user_weather_settings WHERE user_id = $1`, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListDue returns users whose notification is enabled for the given time.
func (r *PostgresRepository) ListDue(ctx context.Context, hhmm string) ([]*Preferences, error) {
	query := `SELECT` + prefColumns + `
		FROM user_weather_settings
		WHERE notification_enabled = TRUE AND notification_time = $1`

	rows, err := r.pool.Query(ctx, query, hhmm)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var due []*Preferences
	for rows.Next() {
		prefs, err := scanPreferences(rows)
		if err != nil {
			return nil, err
		}
		due = append(due, prefs)
	}
	return due, rows.Err()
}

func prefArgs(p *Preferences) []any {
	var notificationTime *string
	if p.NotificationTime != "" {
		notificationTime = &p.NotificationTime
	}
	return []any{
		p.UserID, p.Latitude, p.Longitude, p.LocationName, p.Elevation, p.Timezone,
		p.TemperatureUnit, p.WindSpeedUnit, p.PrecipitationUnit, p.TimeFormat,
		p.ForecastDays, p.PastDays,
		p.ShowTemperature, p.ShowFeelsLike, p.ShowHumidity, p.ShowPressure,
		p.ShowWind, p.ShowPrecipitation, p.ShowPrecipitationProbability,
		p.ShowCloudCover, p.ShowUVIndex, p.ShowVisibility, p.ShowDewPoint,
		p.ShowSolarRadiation,
		p.ShowDailyTemperature, p.ShowDailyPrecipitation, p.ShowDailyWind,
		p.ShowSunriseSunset, p.ShowDaylightDuration, p.ShowSunshineDuration,
		p.ShowDailyUV,
		p.ShowCurrentWeather,
		p.NotificationEnabled, notificationTime,
		p.CreatedAt, p.UpdatedAt,
	}
}

func scanPreferences(row pgx.Row) (*Preferences, error) {
	var (
		p                Preferences
		locationName     *string
		notificationTime *string
	)
	err := row.Scan(
		&p.UserID, &p.Latitude, &p.Longitude, &locationName, &p.Elevation, &p.Timezone,
		&p.TemperatureUnit, &p.WindSpeedUnit, &p.PrecipitationUnit, &p.TimeFormat,
		&p.ForecastDays, &p.PastDays,
		&p.ShowTemperature, &p.ShowFeelsLike, &p.ShowHumidity, &p.ShowPressure,
		&p.ShowWind, &p.ShowPrecipitation, &p.ShowPrecipitationProbability,
		&p.ShowCloudCover, &p.ShowUVIndex, &p.ShowVisibility, &p.ShowDewPoint,
		&p.ShowSolarRadiation,
		&p.ShowDailyTemperature, &p.ShowDailyPrecipitation, &p.ShowDailyWind,
		&p.ShowSunriseSunset, &p.ShowDaylightDuration, &p.ShowSunshineDuration,
		&p.ShowDailyUV,
		&p.ShowCurrentWeather,
		&p.NotificationEnabled, &notificationTime,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if locationName != nil {
		p.LocationName = *locationName
	}
	if notificationTime != nil {
		p.NotificationTime = *notificationTime
	}
	return &p, nil
}
