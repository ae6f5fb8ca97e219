package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"event-radar/internal/classify"
	"event-radar/internal/domain"
	"event-radar/internal/match"
	"event-radar/internal/surprise"
	"event-radar/internal/window"

	"go.opentelemetry.io/otel/trace"
)

const (
	liveLookback    = 24 * time.Hour
	upcomingHorizon = 7 * 24 * time.Hour
)

type CalendarEventRepository interface {
	UpsertEvents(ctx context.Context, events []domain.Event) error
	ListEventsBetween(ctx context.Context, from, to time.Time) ([]domain.Event, error)
}

type CalendarProvider interface {
	FetchEvents(ctx context.Context, from, to time.Time) ([]domain.CalendarEvent, error)
}

// CalendarService ingests provider events, reconciles released actuals back
// onto stored events, and produces the classified calendar read model.
type CalendarService struct {
	tracer      trace.Tracer
	repo        CalendarEventRepository
	provider    CalendarProvider
	matchWindow time.Duration
	now         func() time.Time
}

func NewCalendarService(tracer trace.Tracer, repo CalendarEventRepository, provider CalendarProvider) *CalendarService {
	return &CalendarService{
		tracer:      tracer,
		repo:        repo,
		provider:    provider,
		matchWindow: liveLookback,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// SetMatchWindow widens the candidate fetch range used when reconciling
// actuals. Values below one day are ignored.
func (s *CalendarService) SetMatchWindow(days int) {
	if days >= 1 {
		s.matchWindow = time.Duration(days) * 24 * time.Hour
	}
}

// Ingest pulls the provider window and upserts every event keyed by
// name+date. Returns the number of events stored.
func (s *CalendarService) Ingest(ctx context.Context) (int, error) {
	ctx, span := s.tracer.Start(ctx, "calendar-service.ingest")
	defer span.End()

	if s.repo == nil || s.provider == nil {
		return 0, fmt.Errorf("calendar service is not fully initialized")
	}

	now := s.now()
	fetched, err := s.provider.FetchEvents(ctx, now.Add(-liveLookback), now.Add(upcomingHorizon))
	if err != nil {
		return 0, fmt.Errorf("fetch calendar events: %w", err)
	}

	events := make([]domain.Event, 0, len(fetched))
	for _, ce := range fetched {
		if ce.Name == "" || ce.Date.IsZero() {
			continue
		}
		events = append(events, domain.Event{
			Name:     ce.Name,
			Date:     ce.Date.UTC(),
			Country:  ce.Country,
			Forecast: ce.Forecast,
			Previous: ce.Previous,
			Actual:   ce.Actual,
		})
	}
	if err := s.repo.UpsertEvents(ctx, events); err != nil {
		return 0, fmt.Errorf("upsert events: %w", err)
	}
	return len(events), nil
}

// ReconcileActuals matches stored events missing a released value against a
// fresh provider fetch and copies matched actuals over. A provider failure
// means zero candidates, never an error for the caller.
func (s *CalendarService) ReconcileActuals(ctx context.Context) (int, error) {
	ctx, span := s.tracer.Start(ctx, "calendar-service.reconcile-actuals")
	defer span.End()

	if s.repo == nil {
		return 0, fmt.Errorf("calendar service is not fully initialized")
	}

	now := s.now()
	events, err := s.repo.ListEventsBetween(ctx, now.Add(-liveLookback), now)
	if err != nil {
		return 0, fmt.Errorf("list events: %w", err)
	}

	pending := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if !surprise.HasValue(e.Actual) {
			pending = append(pending, e)
		}
	}
	if len(pending) == 0 {
		return 0, nil
	}

	var candidates []domain.CalendarEvent
	if s.provider != nil {
		candidates, err = s.provider.FetchEvents(ctx, now.Add(-s.matchWindow), now)
		if err != nil {
			log.Printf("calendar reconcile: provider fetch failed, treating as no candidates: %v", err)
			candidates = nil
		}
	}
	if len(candidates) == 0 {
		return 0, nil
	}

	updated := make([]domain.Event, 0, len(pending))
	for _, e := range pending {
		matched, score, ok := match.Match(e, candidates)
		if !ok || !surprise.HasValue(matched.Actual) {
			continue
		}
		log.Printf("calendar reconcile: matched %q to %q (score %d)", e.Name, matched.Name, score)
		e.Actual = matched.Actual
		if !surprise.HasValue(e.Forecast) && surprise.HasValue(matched.Forecast) {
			e.Forecast = matched.Forecast
		}
		updated = append(updated, e)
	}
	if len(updated) == 0 {
		return 0, nil
	}
	if err := s.repo.UpsertEvents(ctx, updated); err != nil {
		return 0, fmt.Errorf("persist reconciled actuals: %w", err)
	}
	return len(updated), nil
}

// EventViews returns the classified calendar read model: upcoming events plus
// the trailing live bucket, each with bucket, relative label, and surprise
// when both actual and forecast are present.
func (s *CalendarService) EventViews(ctx context.Context) ([]domain.EventView, error) {
	ctx, span := s.tracer.Start(ctx, "calendar-service.event-views")
	defer span.End()

	if s.repo == nil {
		return nil, fmt.Errorf("calendar service is not fully initialized")
	}

	now := s.now()
	events, err := s.repo.ListEventsBetween(ctx, now.Add(-liveLookback), now.Add(upcomingHorizon))
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	views := make([]domain.EventView, 0, len(events))
	for _, e := range events {
		bucket, ok := window.Bucket(e.Date, now)
		if !ok {
			continue
		}
		view := domain.EventView{
			Event:          e,
			Classification: classify.Classify(e.Name),
			Bucket:         bucket,
			RelativeTime:   window.RelativeLabel(e.Date, now),
			HasActual:      surprise.HasValue(e.Actual),
		}
		if view.HasActual {
			view.Actual = e.Actual
			if surprise.HasValue(e.Forecast) {
				sc := surprise.Score(e.Actual, e.Forecast)
				view.Surprise = &sc
			}
		}
		views = append(views, view)
	}
	return views, nil
}
