package job

import (
	"context"
	"log"
	"time"

	"event-radar/internal/service"

	"go.opentelemetry.io/otel/trace"
)

const defaultAnalysisTick = 5 * time.Minute

type AnalysisPlanner interface {
	PendingWork(ctx context.Context) (service.AnalysisWork, error)
}

// AnalysisScheduler periodically scans the stored calendar for events whose
// pre or post analysis window is open and hands them to the generation
// callback. Generation itself is pluggable; the scheduler only decides what
// is due.
type AnalysisScheduler struct {
	tracer  trace.Tracer
	planner AnalysisPlanner
	tick    time.Duration

	// OnPreDue and OnPostDue receive the due work lists. Either may be nil.
	OnPreDue  func(ctx context.Context, work service.AnalysisWork)
	OnPostDue func(ctx context.Context, work service.AnalysisWork)
}

func NewAnalysisScheduler(tracer trace.Tracer, planner AnalysisPlanner, tick time.Duration) *AnalysisScheduler {
	if tick <= 0 {
		tick = defaultAnalysisTick
	}
	return &AnalysisScheduler{
		tracer:  tracer,
		planner: planner,
		tick:    tick,
	}
}

func (j *AnalysisScheduler) Start(ctx context.Context) {
	if j == nil || j.planner == nil {
		<-ctx.Done()
		return
	}

	log.Println("Analysis scheduler starting...")
	ticker := time.NewTicker(j.tick)
	defer ticker.Stop()

	j.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("Analysis scheduler stopped")
			return
		case <-ticker.C:
			j.runOnce(ctx)
		}
	}
}

func (j *AnalysisScheduler) runOnce(ctx context.Context) {
	if j.tracer != nil {
		_, span := j.tracer.Start(ctx, "analysis-job.scan")
		defer span.End()
	}
	work, err := j.planner.PendingWork(ctx)
	if err != nil {
		log.Printf("analysis scan error: %v", err)
		return
	}
	if len(work.Pre) > 0 {
		log.Printf("analysis scan: %d event(s) due for pre-event analysis", len(work.Pre))
		if j.OnPreDue != nil {
			j.OnPreDue(ctx, work)
		}
	}
	if len(work.Post) > 0 {
		log.Printf("analysis scan: %d event(s) due for post-event analysis", len(work.Post))
		if j.OnPostDue != nil {
			j.OnPostDue(ctx, work)
		}
	}
}
