package job

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel/trace"
)

const defaultCalendarTick = 5 * time.Minute

type CalendarSyncer interface {
	Ingest(ctx context.Context) (int, error)
	ReconcileActuals(ctx context.Context) (int, error)
}

// CalendarPoller keeps the stored calendar fresh: each tick ingests the
// provider window and reconciles released actuals onto pending events.
type CalendarPoller struct {
	tracer trace.Tracer
	syncer CalendarSyncer
	tick   time.Duration
}

func NewCalendarPoller(tracer trace.Tracer, syncer CalendarSyncer, tick time.Duration) *CalendarPoller {
	if tick <= 0 {
		tick = defaultCalendarTick
	}
	return &CalendarPoller{
		tracer: tracer,
		syncer: syncer,
		tick:   tick,
	}
}

func (j *CalendarPoller) Start(ctx context.Context) {
	if j == nil || j.syncer == nil {
		<-ctx.Done()
		return
	}

	log.Println("Calendar poller starting...")
	ticker := time.NewTicker(j.tick)
	defer ticker.Stop()

	j.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("Calendar poller stopped")
			return
		case <-ticker.C:
			j.runOnce(ctx)
		}
	}
}

func (j *CalendarPoller) runOnce(ctx context.Context) {
	if j.tracer != nil {
		_, span := j.tracer.Start(ctx, "calendar-job.sync")
		defer span.End()
	}
	ingested, err := j.syncer.Ingest(ctx)
	if err != nil {
		log.Printf("calendar ingest error: %v", err)
	} else if ingested > 0 {
		log.Printf("calendar ingest stored %d event(s)", ingested)
	}

	reconciled, err := j.syncer.ReconcileActuals(ctx)
	if err != nil {
		log.Printf("calendar reconcile error: %v", err)
		return
	}
	if reconciled > 0 {
		log.Printf("calendar reconcile attached actuals to %d event(s)", reconciled)
	}
}
