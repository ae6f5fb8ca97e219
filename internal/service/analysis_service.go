package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"event-radar/internal/analysis"
	"event-radar/internal/domain"
	"event-radar/internal/window"

	"go.opentelemetry.io/otel/trace"
)

type AnalysisStore interface {
	UpsertPreEvent(ctx context.Context, a domain.PreEventAnalysis) error
	UpsertPostEvent(ctx context.Context, a domain.PostEventAnalysis) error
	GetPreEvent(ctx context.Context, name string, date time.Time) (*domain.PreEventAnalysis, error)
	GetPostEvent(ctx context.Context, name string, date time.Time) (*domain.PostEventAnalysis, error)
}

type AnalysisEventSource interface {
	ListEventsBetween(ctx context.Context, from, to time.Time) ([]domain.Event, error)
}

// AnalysisWork is the scheduler's work list: events inside their pre-event
// window with no stored pre-analysis, and events inside their post-release
// window with no stored post-analysis.
type AnalysisWork struct {
	Pre  []domain.Event
	Post []domain.Event
}

// AnalysisService accepts externally produced analyses, runs the advisory
// consistency checks over them, and computes which events are due for
// analysis. Findings never block a write.
type AnalysisService struct {
	tracer trace.Tracer
	store  AnalysisStore
	events AnalysisEventSource
	now    func() time.Time
}

func NewAnalysisService(tracer trace.Tracer, store AnalysisStore, events AnalysisEventSource) *AnalysisService {
	return &AnalysisService{
		tracer: tracer,
		store:  store,
		events: events,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *AnalysisService) PendingWork(ctx context.Context) (AnalysisWork, error) {
	ctx, span := s.tracer.Start(ctx, "analysis-service.pending-work")
	defer span.End()

	var work AnalysisWork
	if s.store == nil || s.events == nil {
		return work, fmt.Errorf("analysis service is not fully initialized")
	}

	now := s.now()
	events, err := s.events.ListEventsBetween(ctx, now.Add(-liveLookback), now.Add(upcomingHorizon))
	if err != nil {
		return work, fmt.Errorf("list events: %w", err)
	}

	for _, e := range events {
		if window.ShouldRunPreAnalysis(e.Date, now) {
			existing, err := s.store.GetPreEvent(ctx, e.Name, e.Date)
			if err != nil {
				log.Printf("analysis work scan: pre lookup for %q failed: %v", e.Name, err)
				continue
			}
			if existing == nil {
				work.Pre = append(work.Pre, e)
			}
		}
		if window.ShouldRunPostAnalysis(e.Date, now) {
			existing, err := s.store.GetPostEvent(ctx, e.Name, e.Date)
			if err != nil {
				log.Printf("analysis work scan: post lookup for %q failed: %v", e.Name, err)
				continue
			}
			if existing == nil {
				work.Post = append(work.Post, e)
			}
		}
	}
	return work, nil
}

// SubmitPreEvent validates and stores a pre-event analysis. Findings are
// advisory and returned to the caller alongside the write.
func (s *AnalysisService) SubmitPreEvent(ctx context.Context, a domain.PreEventAnalysis) ([]analysis.Finding, error) {
	ctx, span := s.tracer.Start(ctx, "analysis-service.submit-pre")
	defer span.End()

	if s.store == nil {
		return nil, fmt.Errorf("analysis service is not fully initialized")
	}
	if a.EventName == "" || a.EventDate.IsZero() {
		return nil, fmt.Errorf("analysis must reference an event by name and date")
	}

	findings := analysis.ValidatePreEvent(&a)
	logFindings("pre-event", a.EventName, findings)

	if err := s.store.UpsertPreEvent(ctx, a); err != nil {
		return findings, fmt.Errorf("store pre-event analysis: %w", err)
	}
	return findings, nil
}

func (s *AnalysisService) SubmitPostEvent(ctx context.Context, a domain.PostEventAnalysis) ([]analysis.Finding, error) {
	ctx, span := s.tracer.Start(ctx, "analysis-service.submit-post")
	defer span.End()

	if s.store == nil {
		return nil, fmt.Errorf("analysis service is not fully initialized")
	}
	if a.EventName == "" || a.EventDate.IsZero() {
		return nil, fmt.Errorf("analysis must reference an event by name and date")
	}

	findings := analysis.ValidatePostEvent(&a)
	logFindings("post-event", a.EventName, findings)

	if err := s.store.UpsertPostEvent(ctx, a); err != nil {
		return findings, fmt.Errorf("store post-event analysis: %w", err)
	}
	return findings, nil
}

func (s *AnalysisService) GetPreEvent(ctx context.Context, name string, date time.Time) (*domain.PreEventAnalysis, error) {
	if s.store == nil {
		return nil, fmt.Errorf("analysis service is not fully initialized")
	}
	return s.store.GetPreEvent(ctx, name, date)
}

func (s *AnalysisService) GetPostEvent(ctx context.Context, name string, date time.Time) (*domain.PostEventAnalysis, error) {
	if s.store == nil {
		return nil, fmt.Errorf("analysis service is not fully initialized")
	}
	return s.store.GetPostEvent(ctx, name, date)
}

func logFindings(kind, eventName string, findings []analysis.Finding) {
	for _, f := range findings {
		log.Printf("%s analysis for %q: %s %s: %s", kind, eventName, f.Severity, f.Code, f.Message)
	}
}
