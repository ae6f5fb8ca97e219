package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"event-radar/internal/domain"
	"event-radar/internal/notify"

	"go.opentelemetry.io/otel/trace"
)

func newTestNotificationService(prefs *stubPrefStore, store *stubNotifStore, transport Transport) *NotificationService {
	engine := notify.NewEngine(func() time.Time {
		return time.Date(2026, 3, 6, 12, 0, 0, 0, time.UTC)
	})
	return NewNotificationService(
		trace.NewNoopTracerProvider().Tracer("test"),
		prefs,
		store,
		engine,
		transport,
	)
}

func optedInPref(userID string) domain.UserNotificationPreference {
	pref := domain.DefaultPreferences(userID)
	pref.Enabled = true
	pref.BreakingNews = true
	pref.HighImpact = true
	pref.MediumImpact = true
	for _, c := range domain.NotifyCategories {
		pref.Categories[c] = true
	}
	for _, s := range domain.SignalTypes {
		pref.Signals[s] = true
	}
	return pref
}

func TestBroadcastNewsNotifiesOnlyEligibleUsers(t *testing.T) {
	optedOut := domain.DefaultPreferences("opted-out")
	prefs := &stubPrefStore{prefs: []domain.UserNotificationPreference{
		optedInPref("alice"),
		optedOut,
	}}
	store := &stubNotifStore{}
	transport := &stubTransport{}
	svc := newTestNotificationService(prefs, store, transport)

	count, err := svc.BroadcastNews(context.Background(), domain.NewsItem{
		ID:       "news-1",
		Title:    "Fed Cuts Rates",
		Category: "fed",
		Impact:   domain.ImpactHigh,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 notified user, got %d", count)
	}
	if got := store.userIDs(); len(got) != 1 || got[0] != "alice" {
		t.Fatalf("unexpected persisted users: %v", got)
	}
	if transport.deliveries["alice"] != 1 {
		t.Fatalf("expected delivery to alice, got %+v", transport.deliveries)
	}
}

func TestBroadcastNewsPrefixesRelativeLinks(t *testing.T) {
	prefs := &stubPrefStore{prefs: []domain.UserNotificationPreference{optedInPref("alice")}}
	store := &stubNotifStore{}
	transport := &stubTransport{}
	svc := newTestNotificationService(prefs, store, transport)
	svc.SetBaseURL("https://radar.example/")

	if _, err := svc.BroadcastNews(context.Background(), domain.NewsItem{
		ID:       "news-1",
		Title:    "Fed Cuts Rates",
		Category: "fed",
		Impact:   domain.ImpactHigh,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if transport.lastPayload.URL != "https://radar.example/news/news-1" {
		t.Fatalf("expected absolute link, got %q", transport.lastPayload.URL)
	}
}

func TestBroadcastNewsPrunesOnlyNotifiedUsers(t *testing.T) {
	prefs := &stubPrefStore{prefs: []domain.UserNotificationPreference{
		optedInPref("alice"),
		domain.DefaultPreferences("bob"),
	}}
	store := &stubNotifStore{}
	svc := newTestNotificationService(prefs, store, &stubTransport{})

	if _, err := svc.BroadcastNews(context.Background(), domain.NewsItem{
		ID:     "news-1",
		Title:  "Bitcoin ETF Approved",
		Impact: domain.ImpactMedium,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pruned := store.prunedUsers(); len(pruned) != 1 || pruned[0] != "alice" {
		t.Fatalf("prune must cover exactly the notified set, got %v", pruned)
	}
}

func TestBroadcastNewsSurvivesTransportFailure(t *testing.T) {
	prefs := &stubPrefStore{prefs: []domain.UserNotificationPreference{optedInPref("alice")}}
	store := &stubNotifStore{}
	svc := newTestNotificationService(prefs, store, &stubTransport{err: errors.New("offline")})

	count, err := svc.BroadcastNews(context.Background(), domain.NewsItem{
		Title:  "Market Update",
		Impact: domain.ImpactMedium,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Fatalf("delivery failure must not undo the record, got %d", count)
	}
}

func TestBroadcastSignalChecksSignalToggleOnly(t *testing.T) {
	withToggle := optedInPref("alice")
	withoutToggle := optedInPref("bob")
	withoutToggle.Signals[domain.SignalStrongBuy] = false
	prefs := &stubPrefStore{prefs: []domain.UserNotificationPreference{withToggle, withoutToggle}}
	store := &stubNotifStore{}
	svc := newTestNotificationService(prefs, store, &stubTransport{})

	count, err := svc.BroadcastSignal(context.Background(), domain.SignalEvent{
		ID:     "sig-1",
		Signal: domain.SignalStrongBuy,
		Symbol: "BTC",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 notified user, got %d", count)
	}
	if got := store.userIDs(); len(got) != 1 || got[0] != "alice" {
		t.Fatalf("unexpected persisted users: %v", got)
	}
}

func TestBroadcastBoundsWorkerPool(t *testing.T) {
	prefs := &stubPrefStore{}
	for i := 0; i < 40; i++ {
		prefs.prefs = append(prefs.prefs, optedInPref(fmt.Sprintf("user-%d", i)))
	}
	store := &stubNotifStore{}
	svc := newTestNotificationService(prefs, store, &stubTransport{})
	svc.SetWorkers(3)

	if _, err := svc.BroadcastNews(context.Background(), domain.NewsItem{
		Title:  "Volatility Alert",
		Impact: domain.ImpactMedium,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.maxConcurrent > 3 {
		t.Fatalf("worker pool exceeded bound: %d", store.maxConcurrent)
	}
}

type stubPrefStore struct {
	prefs []domain.UserNotificationPreference
}

func (s *stubPrefStore) GetPreferences(ctx context.Context, userID string) (domain.UserNotificationPreference, error) {
	for _, p := range s.prefs {
		if p.UserID == userID {
			return p, nil
		}
	}
	return domain.DefaultPreferences(userID), nil
}

func (s *stubPrefStore) UpsertPreferences(ctx context.Context, pref domain.UserNotificationPreference) error {
	s.prefs = append(s.prefs, pref)
	return nil
}

func (s *stubPrefStore) ListPreferences(ctx context.Context) ([]domain.UserNotificationPreference, error) {
	return s.prefs, nil
}

type stubNotifStore struct {
	mu            sync.Mutex
	inserted      []domain.NotificationRecord
	pruned        []string
	inFlight      int
	maxConcurrent int
}

func (s *stubNotifStore) InsertNotification(ctx context.Context, rec domain.NotificationRecord) (domain.NotificationRecord, error) {
	s.mu.Lock()
	s.inFlight++
	if s.inFlight > s.maxConcurrent {
		s.maxConcurrent = s.inFlight
	}
	s.mu.Unlock()

	time.Sleep(time.Millisecond)

	s.mu.Lock()
	s.inFlight--
	s.inserted = append(s.inserted, rec)
	s.mu.Unlock()
	return rec, nil
}

func (s *stubNotifStore) PruneHistory(ctx context.Context, userID string, keep int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruned = append(s.pruned, userID)
	return 0, nil
}

func (s *stubNotifStore) ListByUser(ctx context.Context, userID string, limit int) ([]domain.NotificationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.NotificationRecord, 0, len(s.inserted))
	for _, rec := range s.inserted {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *stubNotifStore) userIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.inserted))
	for _, rec := range s.inserted {
		out = append(out, rec.UserID)
	}
	return out
}

func (s *stubNotifStore) prunedUsers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.pruned...)
}

type stubTransport struct {
	mu          sync.Mutex
	deliveries  map[string]int
	lastPayload domain.RenderedNotification
	err         error
}

func (s *stubTransport) Deliver(ctx context.Context, userID string, payload domain.RenderedNotification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deliveries == nil {
		s.deliveries = map[string]int{}
	}
	s.deliveries[userID]++
	s.lastPayload = payload
	return s.err
}
