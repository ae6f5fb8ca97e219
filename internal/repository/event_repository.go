package repository

import (
	"context"
	"encoding/json"
	"time"

	"event-radar/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/trace"
)

type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type EventRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewEventRepository(pool PgxPool, tracer trace.Tracer) *EventRepository {
	return &EventRepository{pool: pool, tracer: tracer}
}

func (r *EventRepository) RunMigrations(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS events (
			name TEXT NOT NULL,
			date TIMESTAMPTZ NOT NULL,
			country TEXT NOT NULL DEFAULT '',
			forecast TEXT,
			previous TEXT,
			actual TEXT,
			PRIMARY KEY (name, date)
		);
		CREATE INDEX IF NOT EXISTS idx_events_date ON events (date);
	`)
	return err
}

func (r *EventRepository) UpsertEvents(ctx context.Context, events []domain.Event) error {
	if len(events) == 0 {
		return nil
	}

	_, span := r.tracer.Start(ctx, "event-repo.upsert-events")
	defer span.End()

	batch := &pgx.Batch{}
	for _, e := range events {
		batch.Queue(
			`INSERT INTO events (name, date, country, forecast, previous, actual)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (name, date) DO UPDATE SET
			     country = EXCLUDED.country,
			     forecast = EXCLUDED.forecast,
			     previous = EXCLUDED.previous,
			     actual = EXCLUDED.actual`,
			e.Name,
			e.Date.UTC(),
			e.Country,
			encodeRaw(e.Forecast),
			encodeRaw(e.Previous),
			encodeRaw(e.Actual),
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range events {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func (r *EventRepository) ListEventsBetween(ctx context.Context, from, to time.Time) ([]domain.Event, error) {
	_, span := r.tracer.Start(ctx, "event-repo.list-events")
	defer span.End()

	rows, err := r.pool.Query(ctx, `
		SELECT name, date, country, COALESCE(forecast, ''), COALESCE(previous, ''), COALESCE(actual, '')
		FROM events
		WHERE date >= $1 AND date <= $2
		ORDER BY date ASC`,
		from.UTC(), to.UTC(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]domain.Event, 0, 32)
	for rows.Next() {
		var e domain.Event
		var date time.Time
		var forecast, previous, actual string
		if err := rows.Scan(&e.Name, &date, &e.Country, &forecast, &previous, &actual); err != nil {
			return nil, err
		}
		e.Date = date.UTC()
		e.Forecast = decodeRaw(forecast)
		e.Previous = decodeRaw(previous)
		e.Actual = decodeRaw(actual)
		events = append(events, e)
	}
	return events, rows.Err()
}

// encodeRaw serializes a raw provider value (number, string, or nil) for a
// TEXT column. Nil round-trips as the empty string.
func encodeRaw(v any) string {
	if v == nil {
		return ""
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(payload)
}

func decodeRaw(s string) any {
	if s == "" {
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	return v
}
