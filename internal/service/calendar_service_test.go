package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"event-radar/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

func TestCalendarServiceIngestStoresProviderEvents(t *testing.T) {
	fixed := time.Date(2026, 3, 6, 12, 0, 0, 0, time.UTC)
	repo := &stubEventRepo{}
	provider := &stubCalendarProvider{events: []domain.CalendarEvent{
		{Name: "Nonfarm Payrolls", Date: fixed.Add(2 * time.Hour), Country: "US", Forecast: 180.0},
		{Name: "", Date: fixed.Add(3 * time.Hour)},
		{Name: "CPI y/y", Date: fixed.Add(26 * time.Hour), Country: "US"},
	}}
	svc := NewCalendarService(trace.NewNoopTracerProvider().Tracer("test"), repo, provider)
	svc.now = func() time.Time { return fixed }

	count, err := svc.Ingest(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 events stored, got %d", count)
	}
	if len(repo.upserted) != 2 || repo.upserted[0].Name != "Nonfarm Payrolls" {
		t.Fatalf("unexpected upserted events: %+v", repo.upserted)
	}
}

func TestCalendarServiceIngestPropagatesProviderError(t *testing.T) {
	svc := NewCalendarService(
		trace.NewNoopTracerProvider().Tracer("test"),
		&stubEventRepo{},
		&stubCalendarProvider{err: errors.New("timeout")},
	)

	if _, err := svc.Ingest(context.Background()); err == nil {
		t.Fatal("expected provider error")
	}
}

func TestCalendarServiceReconcileCopiesMatchedActuals(t *testing.T) {
	fixed := time.Date(2026, 3, 6, 14, 0, 0, 0, time.UTC)
	eventTime := fixed.Add(-time.Hour)
	repo := &stubEventRepo{events: []domain.Event{
		{Name: "Nonfarm Payrolls (Mar)", Date: eventTime, Country: "US", Forecast: 180.0},
	}}
	provider := &stubCalendarProvider{events: []domain.CalendarEvent{
		{Name: "Nonfarm Payrolls", Date: eventTime, Country: "US", Actual: 212.0},
	}}
	svc := NewCalendarService(trace.NewNoopTracerProvider().Tracer("test"), repo, provider)
	svc.now = func() time.Time { return fixed }

	count, err := svc.ReconcileActuals(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 reconciled event, got %d", count)
	}
	if len(repo.upserted) != 1 {
		t.Fatalf("expected reconciled upsert, got %+v", repo.upserted)
	}
	if actual, ok := repo.upserted[0].Actual.(float64); !ok || actual != 212.0 {
		t.Fatalf("actual not copied: %v", repo.upserted[0].Actual)
	}
}

func TestCalendarServiceReconcileTreatsProviderFailureAsNoCandidates(t *testing.T) {
	fixed := time.Date(2026, 3, 6, 14, 0, 0, 0, time.UTC)
	repo := &stubEventRepo{events: []domain.Event{
		{Name: "CPI y/y", Date: fixed.Add(-time.Hour), Country: "US"},
	}}
	svc := NewCalendarService(
		trace.NewNoopTracerProvider().Tracer("test"),
		repo,
		&stubCalendarProvider{err: errors.New("503")},
	)
	svc.now = func() time.Time { return fixed }

	count, err := svc.ReconcileActuals(context.Background())
	if err != nil {
		t.Fatalf("provider failure should not abort reconcile: %v", err)
	}
	if count != 0 || len(repo.upserted) != 0 {
		t.Fatalf("expected no reconciled events, got %d", count)
	}
}

func TestCalendarServiceReconcileMatchWindowWidensCandidateFetch(t *testing.T) {
	fixed := time.Date(2026, 3, 6, 14, 0, 0, 0, time.UTC)
	repo := &stubEventRepo{events: []domain.Event{
		{Name: "CPI y/y", Date: fixed.Add(-time.Hour), Country: "US"},
	}}
	provider := &stubCalendarProvider{}
	svc := NewCalendarService(trace.NewNoopTracerProvider().Tracer("test"), repo, provider)
	svc.now = func() time.Time { return fixed }
	svc.SetMatchWindow(7)

	if _, err := svc.ReconcileActuals(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.fetchCalls != 1 {
		t.Fatalf("expected one candidate fetch, got %d", provider.fetchCalls)
	}
	if want := fixed.Add(-7 * 24 * time.Hour); !provider.lastFrom.Equal(want) {
		t.Fatalf("expected candidate window from %v, got %v", want, provider.lastFrom)
	}
}

func TestCalendarServiceReconcileSkipsEventsWithActuals(t *testing.T) {
	fixed := time.Date(2026, 3, 6, 14, 0, 0, 0, time.UTC)
	repo := &stubEventRepo{events: []domain.Event{
		{Name: "CPI y/y", Date: fixed.Add(-time.Hour), Country: "US", Actual: 3.4},
	}}
	provider := &stubCalendarProvider{}
	svc := NewCalendarService(trace.NewNoopTracerProvider().Tracer("test"), repo, provider)
	svc.now = func() time.Time { return fixed }

	if _, err := svc.ReconcileActuals(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.fetchCalls != 0 {
		t.Fatal("expected no provider fetch when nothing is pending")
	}
}

func TestCalendarServiceEventViewsBucketsAndScoresSurprise(t *testing.T) {
	fixed := time.Date(2026, 3, 6, 12, 0, 0, 0, time.UTC)
	repo := &stubEventRepo{events: []domain.Event{
		{Name: "FOMC Rate Decision", Date: fixed.Add(3 * time.Hour), Country: "US"},
		{Name: "CPI y/y", Date: fixed.Add(-2 * time.Hour), Country: "US", Forecast: 3.0, Actual: 3.5},
		{Name: "Stale Release", Date: fixed.Add(-30 * time.Hour)},
	}}
	svc := NewCalendarService(trace.NewNoopTracerProvider().Tracer("test"), repo, &stubCalendarProvider{})
	svc.now = func() time.Time { return fixed }

	views, err := svc.EventViews(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 surfaced views, got %d", len(views))
	}

	fomc := views[0]
	if fomc.Bucket != domain.BucketUpcoming || fomc.Classification.Tier != domain.Tier1 {
		t.Fatalf("unexpected upcoming view: %+v", fomc)
	}
	if fomc.RelativeTime != "In 3 hours" {
		t.Fatalf("unexpected relative label: %s", fomc.RelativeTime)
	}

	cpi := views[1]
	if cpi.Bucket != domain.BucketLive || !cpi.HasActual {
		t.Fatalf("unexpected live view: %+v", cpi)
	}
	if cpi.Surprise == nil || cpi.Surprise.Category != domain.SurpriseBigBeat {
		t.Fatalf("unexpected surprise: %+v", cpi.Surprise)
	}
}

type stubEventRepo struct {
	events   []domain.Event
	upserted []domain.Event
	listErr  error
}

func (s *stubEventRepo) UpsertEvents(ctx context.Context, events []domain.Event) error {
	s.upserted = append(s.upserted, events...)
	return nil
}

func (s *stubEventRepo) ListEventsBetween(ctx context.Context, from, to time.Time) ([]domain.Event, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.events, nil
}

type stubCalendarProvider struct {
	events     []domain.CalendarEvent
	err        error
	fetchCalls int
	lastFrom   time.Time
	lastTo     time.Time
}

func (s *stubCalendarProvider) FetchEvents(ctx context.Context, from, to time.Time) ([]domain.CalendarEvent, error) {
	s.fetchCalls++
	s.lastFrom = from
	s.lastTo = to
	if s.err != nil {
		return nil, s.err
	}
	return s.events, nil
}
