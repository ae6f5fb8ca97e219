package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"log"
	"strings"
	"sync"

	"event-radar/internal/domain"
	"event-radar/internal/notify"

	"go.opentelemetry.io/otel/trace"
)

const (
	defaultNotifyWorkers  = 8
	defaultRetentionLimit = 20
	userLockStripes       = 64
)

type PreferenceStore interface {
	GetPreferences(ctx context.Context, userID string) (domain.UserNotificationPreference, error)
	UpsertPreferences(ctx context.Context, pref domain.UserNotificationPreference) error
	ListPreferences(ctx context.Context) ([]domain.UserNotificationPreference, error)
}

type NotificationStore interface {
	InsertNotification(ctx context.Context, rec domain.NotificationRecord) (domain.NotificationRecord, error)
	PruneHistory(ctx context.Context, userID string, keep int) (int64, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.NotificationRecord, error)
}

// Transport delivers one rendered notification to one user. Delivery
// failures are logged and skipped; they never abort a batch.
type Transport interface {
	Deliver(ctx context.Context, userID string, payload domain.RenderedNotification) error
}

// NotificationService fans one news item or signal out to every eligible
// user, persists the delivered records, and bounds per-user history.
type NotificationService struct {
	tracer    trace.Tracer
	prefs     PreferenceStore
	store     NotificationStore
	engine    *notify.Engine
	transport Transport
	baseURL   string
	workers   int
	retention int

	// Retention deletes for one user must not race an insert for that
	// same user, so writes are serialized per user id.
	userLocks [userLockStripes]sync.Mutex
}

func NewNotificationService(
	tracer trace.Tracer,
	prefs PreferenceStore,
	store NotificationStore,
	engine *notify.Engine,
	transport Transport,
) *NotificationService {
	return &NotificationService{
		tracer:    tracer,
		prefs:     prefs,
		store:     store,
		engine:    engine,
		transport: transport,
		workers:   defaultNotifyWorkers,
		retention: defaultRetentionLimit,
	}
}

// SetWorkers bounds the fan-out pool. Values below 1 are ignored.
func (s *NotificationService) SetWorkers(n int) {
	if n > 0 {
		s.workers = n
	}
}

// SetRetention sets how many records survive per-user cleanup.
func (s *NotificationService) SetRetention(n int) {
	if n > 0 {
		s.retention = n
	}
}

// SetBaseURL sets the public prefix for the relative links the renderer
// produces.
func (s *NotificationService) SetBaseURL(baseURL string) {
	s.baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
}

func (s *NotificationService) absoluteURL(path string) string {
	if s.baseURL == "" || path == "" || !strings.HasPrefix(path, "/") {
		return path
	}
	return s.baseURL + path
}

// BroadcastNews runs the eligibility pipeline once per preference record and
// delivers to the eligible set. Returns the number of users notified.
func (s *NotificationService) BroadcastNews(ctx context.Context, item domain.NewsItem) (int, error) {
	ctx, span := s.tracer.Start(ctx, "notification-service.broadcast-news")
	defer span.End()

	if s.prefs == nil || s.store == nil || s.engine == nil {
		return 0, fmt.Errorf("notification service is not fully initialized")
	}

	prefs, err := s.prefs.ListPreferences(ctx)
	if err != nil {
		return 0, fmt.Errorf("list preferences: %w", err)
	}

	eligible := make([]string, 0, len(prefs))
	for _, pref := range prefs {
		if s.engine.EligibleForNews(pref, item) {
			eligible = append(eligible, pref.UserID)
		}
	}

	payload := notify.RenderNews(item)
	payload.URL = s.absoluteURL(payload.URL)
	record := domain.NotificationRecord{
		Title:       payload.Title,
		Message:     payload.Message,
		RelatedID:   item.ID,
		RelatedType: domain.RelatedNews,
		Metadata: map[string]string{
			"impact":   string(item.Impact),
			"category": item.Category,
		},
	}
	return s.fanOut(ctx, eligible, payload, record), nil
}

// BroadcastSignal is the signal-event variant: only the matching signal
// toggle gates eligibility.
func (s *NotificationService) BroadcastSignal(ctx context.Context, sig domain.SignalEvent) (int, error) {
	ctx, span := s.tracer.Start(ctx, "notification-service.broadcast-signal")
	defer span.End()

	if s.prefs == nil || s.store == nil || s.engine == nil {
		return 0, fmt.Errorf("notification service is not fully initialized")
	}

	prefs, err := s.prefs.ListPreferences(ctx)
	if err != nil {
		return 0, fmt.Errorf("list preferences: %w", err)
	}

	eligible := make([]string, 0, len(prefs))
	for _, pref := range prefs {
		if s.engine.EligibleForSignal(pref, sig) {
			eligible = append(eligible, pref.UserID)
		}
	}

	payload := notify.RenderSignal(sig)
	payload.URL = s.absoluteURL(payload.URL)
	record := domain.NotificationRecord{
		Title:       payload.Title,
		Message:     payload.Message,
		RelatedID:   sig.ID,
		RelatedType: domain.RelatedSignal,
		Metadata: map[string]string{
			"signal": string(sig.Signal),
			"symbol": sig.Symbol,
		},
	}
	return s.fanOut(ctx, eligible, payload, record), nil
}

// fanOut delivers to each eligible user through a bounded worker pool, then
// prunes history for exactly the users just notified.
func (s *NotificationService) fanOut(
	ctx context.Context,
	userIDs []string,
	payload domain.RenderedNotification,
	template domain.NotificationRecord,
) int {
	if len(userIDs) == 0 {
		return 0
	}

	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	notified := 0

	for _, userID := range userIDs {
		wg.Add(1)
		sem <- struct{}{}
		go func(userID string) {
			defer wg.Done()
			defer func() { <-sem }()

			if s.notifyUser(ctx, userID, payload, template) {
				mu.Lock()
				notified++
				mu.Unlock()
			}
		}(userID)
	}
	wg.Wait()
	return notified
}

func (s *NotificationService) notifyUser(
	ctx context.Context,
	userID string,
	payload domain.RenderedNotification,
	template domain.NotificationRecord,
) bool {
	lock := s.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	rec := template
	rec.UserID = userID
	if _, err := s.store.InsertNotification(ctx, rec); err != nil {
		log.Printf("notification insert for %s failed: %v", userID, err)
		return false
	}
	if _, err := s.store.PruneHistory(ctx, userID, s.retention); err != nil {
		log.Printf("notification prune for %s failed: %v", userID, err)
	}

	if s.transport != nil {
		if err := s.transport.Deliver(ctx, userID, payload); err != nil {
			log.Printf("notification delivery to %s failed: %v", userID, err)
		}
	}
	return true
}

func (s *NotificationService) lockFor(userID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return &s.userLocks[h.Sum32()%userLockStripes]
}

// GetPreferences returns stored settings, falling back to the opt-out
// defaults for unknown users.
func (s *NotificationService) GetPreferences(ctx context.Context, userID string) (domain.UserNotificationPreference, error) {
	if s.prefs == nil {
		return domain.UserNotificationPreference{}, fmt.Errorf("notification service is not fully initialized")
	}
	return s.prefs.GetPreferences(ctx, userID)
}

func (s *NotificationService) SavePreferences(ctx context.Context, pref domain.UserNotificationPreference) error {
	if s.prefs == nil {
		return fmt.Errorf("notification service is not fully initialized")
	}
	if pref.UserID == "" {
		return fmt.Errorf("preference record requires a user id")
	}
	return s.prefs.UpsertPreferences(ctx, pref)
}

func (s *NotificationService) History(ctx context.Context, userID string, limit int) ([]domain.NotificationRecord, error) {
	if s.store == nil {
		return nil, fmt.Errorf("notification service is not fully initialized")
	}
	return s.store.ListByUser(ctx, userID, limit)
}
