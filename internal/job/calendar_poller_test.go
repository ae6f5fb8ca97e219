package job

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
)

func TestCalendarPollerStartRunsAndStops(t *testing.T) {
	stub := &stubCalendarSyncer{}
	poller := NewCalendarPoller(trace.NewNoopTracerProvider().Tracer("test"), stub, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		poller.Start(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("calendar poller did not stop")
	}

	if stub.ingestCalls.Load() == 0 {
		t.Fatal("expected at least one ingest run")
	}
	if stub.reconcileCalls.Load() == 0 {
		t.Fatal("expected at least one reconcile run")
	}
}

func TestCalendarPollerNilSyncerWaitsForCancel(t *testing.T) {
	poller := NewCalendarPoller(trace.NewNoopTracerProvider().Tracer("test"), nil, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		poller.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller without syncer did not stop")
	}
}

type stubCalendarSyncer struct {
	ingestCalls    atomic.Int32
	reconcileCalls atomic.Int32
}

func (s *stubCalendarSyncer) Ingest(ctx context.Context) (int, error) {
	s.ingestCalls.Add(1)
	return 1, nil
}

func (s *stubCalendarSyncer) ReconcileActuals(ctx context.Context) (int, error) {
	s.reconcileCalls.Add(1)
	return 0, nil
}
