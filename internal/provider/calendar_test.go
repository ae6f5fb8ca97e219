package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

var (
	from = time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC)
	to   = time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
)

func newTestClient(t *testing.T, upstream http.HandlerFunc) (*CalendarClient, *httptest.Server, *miniredis.Miniredis) {
	t.Helper()
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = cache.Close() })

	client := NewCalendarClient(srv.URL, trace.NewNoopTracerProvider().Tracer("test"), cache)
	return client, srv, mr
}

func TestFetchEventsBareArray(t *testing.T) {
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("from") != "2026-01-09" {
			t.Errorf("unexpected from param: %s", r.URL.Query().Get("from"))
		}
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"date": "2026-01-09 13:30:00", "event": "Nonfarm Payrolls", "country": "us", "actual": 250.0, "estimate": 180.0},
			{"date": "not-a-date", "event": "Broken Row"},
			{"date": "2026-01-09", "title": "Trade Balance", "country": "JP", "actual": "n/a"},
		})
	})

	events, err := client.FetchEvents(context.Background(), from, to)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 parsable events, got %d", len(events))
	}
	if events[0].Name != "Nonfarm Payrolls" || events[0].Country != "US" {
		t.Fatalf("unexpected first event: %+v", events[0])
	}
	// "estimate" maps into the forecast slot.
	if events[0].Forecast != 180.0 {
		t.Fatalf("expected estimate to fill forecast, got %v", events[0].Forecast)
	}
	if events[1].Name != "Trade Balance" {
		t.Fatalf("title field variant not handled: %+v", events[1])
	}
}

func TestFetchEventsWrappedObject(t *testing.T) {
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"events": []map[string]any{
				{"date": "2026-01-09", "name": "CPI YoY", "country": "DE", "forecast": "2.4%"},
			},
		})
	})

	events, err := client.FetchEvents(context.Background(), from, to)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 || events[0].Name != "CPI YoY" {
		t.Fatalf("wrapped response not normalized: %+v", events)
	}
}

func TestFetchEventsCachesPerDateRange(t *testing.T) {
	calls := 0
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"date": "2026-01-09", "event": "CPI YoY", "country": "US"},
		})
	})

	for i := 0; i < 3; i++ {
		if _, err := client.FetchEvents(context.Background(), from, to); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected one upstream call for repeated range, got %d", calls)
	}
}

func TestFetchEventsNon200IsError(t *testing.T) {
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	if _, err := client.FetchEvents(context.Background(), from, to); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestFetchEventsWorksWithoutCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"date": "2026-01-09", "event": "CPI YoY"},
		})
	}))
	t.Cleanup(srv.Close)

	client := NewCalendarClient(srv.URL, trace.NewNoopTracerProvider().Tracer("test"), nil)
	events, err := client.FetchEvents(context.Background(), from, to)
	if err != nil || len(events) != 1 {
		t.Fatalf("expected cacheless fetch to work, events=%v err=%v", events, err)
	}
}
