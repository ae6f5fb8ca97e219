package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"event-radar/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultFetchTimeout = 10 * time.Second
	defaultCacheTTL     = 5 * time.Minute
)

// CalendarClient fetches the external economic calendar. Responses are
// cached per date range in Redis so a reconciliation batch over many
// internal events costs one upstream call.
type CalendarClient struct {
	baseURL    string
	httpClient *http.Client
	tracer     trace.Tracer
	cache      *redis.Client
	cacheTTL   time.Duration
}

func NewCalendarClient(baseURL string, tracer trace.Tracer, cache *redis.Client) *CalendarClient {
	return &CalendarClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultFetchTimeout},
		tracer:     tracer,
		cache:      cache,
		cacheTTL:   defaultCacheTTL,
	}
}

// rawCalendarEvent tolerates the provider's field-name variants. Values stay
// raw; the surprise package's presence predicate interprets them.
type rawCalendarEvent struct {
	Date     string `json:"date"`
	Event    string `json:"event"`
	Title    string `json:"title"`
	Name     string `json:"name"`
	Country  string `json:"country"`
	Actual   any    `json:"actual"`
	Estimate any    `json:"estimate"`
	Forecast any    `json:"forecast"`
	Previous any    `json:"previous"`
}

// calendarEnvelope covers the wrapped-object response shape.
type calendarEnvelope struct {
	Events []rawCalendarEvent `json:"events"`
	Data   []rawCalendarEvent `json:"data"`
	Result []rawCalendarEvent `json:"result"`
}

// FetchEvents returns the provider's events for [from, to]. Errors are
// returned for the caller to log; callers treat any failure as zero
// candidates rather than aborting their batch.
func (c *CalendarClient) FetchEvents(ctx context.Context, from, to time.Time) ([]domain.CalendarEvent, error) {
	ctx, span := c.tracer.Start(ctx, "calendar-provider.fetch-events")
	defer span.End()
	span.SetAttributes(
		attribute.String("calendar.from", from.Format("2006-01-02")),
		attribute.String("calendar.to", to.Format("2006-01-02")),
	)

	cacheKey := fmt.Sprintf("calendar:%s:%s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	if cached, ok := c.fromCache(ctx, cacheKey); ok {
		span.SetAttributes(attribute.Bool("calendar.cache_hit", true))
		return cached, nil
	}

	reqURL := fmt.Sprintf("%s?from=%s&to=%s",
		c.baseURL,
		url.QueryEscape(from.Format("2006-01-02")),
		url.QueryEscape(to.Format("2006-01-02")),
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build calendar request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch calendar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calendar provider returned status %d", resp.StatusCode)
	}

	var body json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode calendar response: %w", err)
	}

	events := parseCalendarBody(body)
	c.toCache(ctx, cacheKey, events)
	return events, nil
}

// parseCalendarBody accepts both a bare array and an object wrapping the
// array under a few known field names. Records without a usable name or
// date are dropped.
func parseCalendarBody(body json.RawMessage) []domain.CalendarEvent {
	var raw []rawCalendarEvent
	if err := json.Unmarshal(body, &raw); err != nil {
		var envelope calendarEnvelope
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil
		}
		switch {
		case len(envelope.Events) > 0:
			raw = envelope.Events
		case len(envelope.Data) > 0:
			raw = envelope.Data
		default:
			raw = envelope.Result
		}
	}

	events := make([]domain.CalendarEvent, 0, len(raw))
	for _, r := range raw {
		name := firstNonEmpty(r.Event, r.Title, r.Name)
		date, ok := parseEventDate(r.Date)
		if name == "" || !ok {
			continue
		}
		forecast := r.Forecast
		if forecast == nil {
			forecast = r.Estimate
		}
		events = append(events, domain.CalendarEvent{
			Name:     name,
			Date:     date,
			Country:  strings.ToUpper(strings.TrimSpace(r.Country)),
			Actual:   r.Actual,
			Forecast: forecast,
			Previous: r.Previous,
		})
	}
	return events
}

var eventDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseEventDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func (c *CalendarClient) fromCache(ctx context.Context, key string) ([]domain.CalendarEvent, bool) {
	if c.cache == nil {
		return nil, false
	}
	payload, err := c.cache.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var events []domain.CalendarEvent
	if err := json.Unmarshal(payload, &events); err != nil {
		return nil, false
	}
	return events, true
}

func (c *CalendarClient) toCache(ctx context.Context, key string, events []domain.CalendarEvent) {
	if c.cache == nil {
		return
	}
	payload, err := json.Marshal(events)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, payload, c.cacheTTL).Err(); err != nil {
		log.Printf("calendar cache write error: %v", err)
	}
}
