package repository

import (
	"context"
	"encoding/json"
	"time"

	"event-radar/internal/domain"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/trace"
)

// AnalysisRepository stores pre and post event analyses keyed by event
// name+date, one row of each kind per event.
type AnalysisRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewAnalysisRepository(pool PgxPool, tracer trace.Tracer) *AnalysisRepository {
	return &AnalysisRepository{pool: pool, tracer: tracer}
}

func (r *AnalysisRepository) RunMigrations(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS pre_event_analyses (
			event_name TEXT NOT NULL,
			event_date TIMESTAMPTZ NOT NULL,
			scenarios TEXT NOT NULL,
			conviction INT NOT NULL,
			approach TEXT NOT NULL,
			trade_setup TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (event_name, event_date)
		);
		CREATE TABLE IF NOT EXISTS post_event_analyses (
			event_name TEXT NOT NULL,
			event_date TIMESTAMPTZ NOT NULL,
			surprise_category TEXT NOT NULL,
			conviction INT NOT NULL,
			urgency TEXT NOT NULL,
			action TEXT NOT NULL,
			trade_setup TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (event_name, event_date)
		);
	`)
	return err
}

func (r *AnalysisRepository) UpsertPreEvent(ctx context.Context, a domain.PreEventAnalysis) error {
	_, span := r.tracer.Start(ctx, "analysis-repo.upsert-pre")
	defer span.End()

	scenarios, err := json.Marshal(a.Scenarios)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO pre_event_analyses (event_name, event_date, scenarios, conviction, approach, trade_setup)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (event_name, event_date) DO UPDATE SET
		    scenarios = EXCLUDED.scenarios,
		    conviction = EXCLUDED.conviction,
		    approach = EXCLUDED.approach,
		    trade_setup = EXCLUDED.trade_setup`,
		a.EventName,
		a.EventDate.UTC(),
		string(scenarios),
		a.Conviction,
		string(a.RecommendedApproach),
		encodeTradeSetup(a.TradeSetup),
	)
	return err
}

func (r *AnalysisRepository) UpsertPostEvent(ctx context.Context, a domain.PostEventAnalysis) error {
	_, span := r.tracer.Start(ctx, "analysis-repo.upsert-post")
	defer span.End()

	_, err := r.pool.Exec(ctx, `
		INSERT INTO post_event_analyses (event_name, event_date, surprise_category, conviction, urgency, action, trade_setup)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (event_name, event_date) DO UPDATE SET
		    surprise_category = EXCLUDED.surprise_category,
		    conviction = EXCLUDED.conviction,
		    urgency = EXCLUDED.urgency,
		    action = EXCLUDED.action,
		    trade_setup = EXCLUDED.trade_setup`,
		a.EventName,
		a.EventDate.UTC(),
		string(a.SurpriseCategory),
		a.Conviction,
		string(a.Urgency),
		string(a.Action),
		encodeTradeSetup(a.TradeSetup),
	)
	return err
}

// GetPreEvent returns the stored pre-event analysis, or nil when none exists.
func (r *AnalysisRepository) GetPreEvent(ctx context.Context, name string, date time.Time) (*domain.PreEventAnalysis, error) {
	_, span := r.tracer.Start(ctx, "analysis-repo.get-pre")
	defer span.End()

	row := r.pool.QueryRow(ctx, `
		SELECT event_name, event_date, scenarios, conviction, approach, COALESCE(trade_setup, '')
		FROM pre_event_analyses
		WHERE event_name = $1 AND event_date = $2`,
		name, date.UTC(),
	)

	var a domain.PreEventAnalysis
	var eventDate time.Time
	var scenarios, approach, tradeSetup string
	err := row.Scan(&a.EventName, &eventDate, &scenarios, &a.Conviction, &approach, &tradeSetup)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.EventDate = eventDate.UTC()
	a.RecommendedApproach = domain.Approach(approach)
	if err := json.Unmarshal([]byte(scenarios), &a.Scenarios); err != nil {
		return nil, err
	}
	a.TradeSetup = decodeTradeSetup(tradeSetup)
	return &a, nil
}

func (r *AnalysisRepository) GetPostEvent(ctx context.Context, name string, date time.Time) (*domain.PostEventAnalysis, error) {
	_, span := r.tracer.Start(ctx, "analysis-repo.get-post")
	defer span.End()

	row := r.pool.QueryRow(ctx, `
		SELECT event_name, event_date, surprise_category, conviction, urgency, action, COALESCE(trade_setup, '')
		FROM post_event_analyses
		WHERE event_name = $1 AND event_date = $2`,
		name, date.UTC(),
	)

	var a domain.PostEventAnalysis
	var eventDate time.Time
	var category, urgency, action, tradeSetup string
	err := row.Scan(&a.EventName, &eventDate, &category, &a.Conviction, &urgency, &action, &tradeSetup)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.EventDate = eventDate.UTC()
	a.SurpriseCategory = domain.SurpriseCategory(category)
	a.Urgency = domain.Urgency(urgency)
	a.Action = domain.Action(action)
	a.TradeSetup = decodeTradeSetup(tradeSetup)
	return &a, nil
}

func encodeTradeSetup(ts *domain.TradeSetup) string {
	if ts == nil {
		return ""
	}
	payload, err := json.Marshal(ts)
	if err != nil {
		return ""
	}
	return string(payload)
}

func decodeTradeSetup(s string) *domain.TradeSetup {
	if s == "" {
		return nil
	}
	var ts domain.TradeSetup
	if err := json.Unmarshal([]byte(s), &ts); err != nil {
		return nil
	}
	return &ts
}
