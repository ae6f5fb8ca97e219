package repository

import (
	"context"
	"testing"
	"time"

	"event-radar/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/trace"
)

func TestNotificationRunMigrationsExecutesSchema(t *testing.T) {
	pool := &notifStubPool{}
	repo := NewNotificationRepository(pool, trace.NewNoopTracerProvider().Tracer("test"))

	if err := repo.RunMigrations(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pool.execSQL) == 0 {
		t.Fatal("expected Exec to be called")
	}
}

func TestInsertNotificationAssignsIDAndTimestamp(t *testing.T) {
	pool := &notifStubPool{}
	repo := NewNotificationRepository(pool, trace.NewNoopTracerProvider().Tracer("test"))

	rec, err := repo.InsertNotification(context.Background(), domain.NotificationRecord{
		UserID:      "user-1",
		Title:       "FOMC Rate Decision",
		Message:     "Starting in 2 hours",
		RelatedType: domain.RelatedNews,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ID == "" {
		t.Fatal("expected generated id")
	}
	if rec.CreatedAt.IsZero() {
		t.Fatal("expected creation time")
	}
	if len(pool.execArgs) != 1 {
		t.Fatalf("expected 1 Exec, got %d", len(pool.execArgs))
	}
}

func TestInsertNotificationKeepsProvidedID(t *testing.T) {
	pool := &notifStubPool{}
	repo := NewNotificationRepository(pool, trace.NewNoopTracerProvider().Tracer("test"))

	rec, err := repo.InsertNotification(context.Background(), domain.NotificationRecord{
		ID:          "fixed-id",
		UserID:      "user-1",
		RelatedType: domain.RelatedSignal,
		CreatedAt:   time.Unix(42, 0).UTC(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ID != "fixed-id" {
		t.Fatalf("expected id preserved, got %q", rec.ID)
	}
	if !rec.CreatedAt.Equal(time.Unix(42, 0).UTC()) {
		t.Fatalf("expected timestamp preserved, got %v", rec.CreatedAt)
	}
}

func TestPruneHistoryScopesDeleteToUser(t *testing.T) {
	pool := &notifStubPool{}
	repo := NewNotificationRepository(pool, trace.NewNoopTracerProvider().Tracer("test"))

	if _, err := repo.PruneHistory(context.Background(), "user-1", 20); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pool.execArgs) != 1 {
		t.Fatalf("expected 1 Exec, got %d", len(pool.execArgs))
	}
	args := pool.execArgs[0]
	if args[0] != "user-1" || args[1] != 20 {
		t.Fatalf("unexpected delete args: %v", args)
	}
}

func TestPruneHistoryDefaultsKeepLimit(t *testing.T) {
	pool := &notifStubPool{}
	repo := NewNotificationRepository(pool, trace.NewNoopTracerProvider().Tracer("test"))

	if _, err := repo.PruneHistory(context.Background(), "user-1", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if args := pool.execArgs[0]; args[1] != 20 {
		t.Fatalf("expected default keep of 20, got %v", args[1])
	}
}

func TestListByUserDecodesMetadata(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	pool := &notifStubPool{rowsData: [][]any{
		{"id-1", "user-1", "🚨 Fed Cuts Rates", "Emergency 50bp cut", "news-9", "news", `{"impact":"high"}`, now},
	}}
	repo := NewNotificationRepository(pool, trace.NewNoopTracerProvider().Tracer("test"))

	records, err := repo.ListByUser(context.Background(), "user-1", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec.RelatedType != domain.RelatedNews || rec.RelatedID != "news-9" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Metadata["impact"] != "high" {
		t.Fatalf("metadata not decoded: %+v", rec.Metadata)
	}
}

type notifStubPool struct {
	execSQL  []string
	execArgs [][]any
	rowsData [][]any
}

func (s *notifStubPool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	s.execSQL = append(s.execSQL, sql)
	s.execArgs = append(s.execArgs, args)
	return pgconn.CommandTag{}, nil
}

func (s *notifStubPool) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	return &eventStubBatchResults{}
}

func (s *notifStubPool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return &eventStubRows{data: s.rowsData}, nil
}

func (s *notifStubPool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return &eventStubRow{}
}
