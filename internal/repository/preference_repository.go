package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"event-radar/internal/domain"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/trace"
)

type PreferenceRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewPreferenceRepository(pool PgxPool, tracer trace.Tracer) *PreferenceRepository {
	return &PreferenceRepository{pool: pool, tracer: tracer}
}

func (r *PreferenceRepository) RunMigrations(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS user_notification_preferences (
			user_id TEXT PRIMARY KEY,
			enabled BOOLEAN NOT NULL DEFAULT FALSE,
			breaking_news BOOLEAN NOT NULL DEFAULT FALSE,
			high_impact BOOLEAN NOT NULL DEFAULT FALSE,
			medium_impact BOOLEAN NOT NULL DEFAULT FALSE,
			low_impact BOOLEAN NOT NULL DEFAULT FALSE,
			categories TEXT NOT NULL DEFAULT '{}',
			signals TEXT NOT NULL DEFAULT '{}',
			quiet_hours_enabled BOOLEAN NOT NULL DEFAULT FALSE,
			quiet_hours_start TEXT NOT NULL DEFAULT '22:00',
			quiet_hours_end TEXT NOT NULL DEFAULT '08:00',
			timezone TEXT NOT NULL DEFAULT 'UTC'
		);
	`)
	return err
}

func (r *PreferenceRepository) UpsertPreferences(ctx context.Context, pref domain.UserNotificationPreference) error {
	_, span := r.tracer.Start(ctx, "preference-repo.upsert")
	defer span.End()

	categories, err := json.Marshal(pref.Categories)
	if err != nil {
		return fmt.Errorf("encode categories: %w", err)
	}
	signals, err := json.Marshal(pref.Signals)
	if err != nil {
		return fmt.Errorf("encode signals: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO user_notification_preferences
			(user_id, enabled, breaking_news, high_impact, medium_impact, low_impact,
			 categories, signals, quiet_hours_enabled, quiet_hours_start, quiet_hours_end, timezone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (user_id) DO UPDATE SET
			enabled = EXCLUDED.enabled,
			breaking_news = EXCLUDED.breaking_news,
			high_impact = EXCLUDED.high_impact,
			medium_impact = EXCLUDED.medium_impact,
			low_impact = EXCLUDED.low_impact,
			categories = EXCLUDED.categories,
			signals = EXCLUDED.signals,
			quiet_hours_enabled = EXCLUDED.quiet_hours_enabled,
			quiet_hours_start = EXCLUDED.quiet_hours_start,
			quiet_hours_end = EXCLUDED.quiet_hours_end,
			timezone = EXCLUDED.timezone`,
		pref.UserID,
		pref.Enabled,
		pref.BreakingNews,
		pref.HighImpact,
		pref.MediumImpact,
		pref.LowImpact,
		string(categories),
		string(signals),
		pref.QuietHoursEnabled,
		pref.QuietHoursStart,
		pref.QuietHoursEnd,
		pref.Timezone,
	)
	return err
}

// GetPreferences returns the stored row, or the conservative defaults when
// the user has never saved settings.
func (r *PreferenceRepository) GetPreferences(ctx context.Context, userID string) (domain.UserNotificationPreference, error) {
	_, span := r.tracer.Start(ctx, "preference-repo.get")
	defer span.End()

	row := r.pool.QueryRow(ctx, selectPreferences+` WHERE user_id = $1`, userID)
	pref, err := scanPreferences(rowScanner{row})
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.DefaultPreferences(userID), nil
	}
	return pref, err
}

func (r *PreferenceRepository) ListPreferences(ctx context.Context) ([]domain.UserNotificationPreference, error) {
	_, span := r.tracer.Start(ctx, "preference-repo.list")
	defer span.End()

	rows, err := r.pool.Query(ctx, selectPreferences+` ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prefs := make([]domain.UserNotificationPreference, 0, 16)
	for rows.Next() {
		pref, err := scanPreferences(rows)
		if err != nil {
			return nil, err
		}
		prefs = append(prefs, pref)
	}
	return prefs, rows.Err()
}

const selectPreferences = `
	SELECT user_id, enabled, breaking_news, high_impact, medium_impact, low_impact,
	       categories, signals, quiet_hours_enabled, quiet_hours_start, quiet_hours_end, timezone
	FROM user_notification_preferences`

type scanner interface {
	Scan(dest ...any) error
}

type rowScanner struct{ row pgx.Row }

func (r rowScanner) Scan(dest ...any) error { return r.row.Scan(dest...) }

func scanPreferences(s scanner) (domain.UserNotificationPreference, error) {
	var pref domain.UserNotificationPreference
	var categories, signals string
	if err := s.Scan(
		&pref.UserID,
		&pref.Enabled,
		&pref.BreakingNews,
		&pref.HighImpact,
		&pref.MediumImpact,
		&pref.LowImpact,
		&categories,
		&signals,
		&pref.QuietHoursEnabled,
		&pref.QuietHoursStart,
		&pref.QuietHoursEnd,
		&pref.Timezone,
	); err != nil {
		return domain.UserNotificationPreference{}, err
	}

	pref.Categories = make(map[domain.NotifyCategory]bool)
	if err := json.Unmarshal([]byte(categories), &pref.Categories); err != nil {
		pref.Categories = map[domain.NotifyCategory]bool{}
	}
	pref.Signals = make(map[domain.SignalType]bool)
	if err := json.Unmarshal([]byte(signals), &pref.Signals); err != nil {
		pref.Signals = map[domain.SignalType]bool{}
	}
	return pref, nil
}
