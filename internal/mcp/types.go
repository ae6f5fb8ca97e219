package mcp

import (
	"fmt"
	"strings"

	"event-radar/internal/domain"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type eventsClassifyInput struct {
	Name string `json:"name" jsonschema:"event name (e.g. Nonfarm Payrolls, CPI y/y)"`
}

type eventsClassifyOutput struct {
	Name           string                     `json:"name"`
	Classification domain.EventClassification `json:"classification"`
}

type surpriseScoreInput struct {
	Actual   any `json:"actual" jsonschema:"released value; number, numeric string, or placeholder text"`
	Forecast any `json:"forecast" jsonschema:"consensus forecast; number, numeric string, or placeholder text"`
}

type surpriseScoreOutput struct {
	Surprise domain.Surprise `json:"surprise"`
}

type eventsListInput struct {
	Bucket string `json:"bucket,omitempty" jsonschema:"optional bucket filter: upcoming or live"`
}

type eventsListOutput struct {
	Events []domain.EventView `json:"events"`
}

type notificationsListInput struct {
	UserID string `json:"user_id" jsonschema:"user identifier"`
	Limit  int    `json:"limit,omitempty" jsonschema:"number of records to return, max 100"`
}

type notificationsListOutput struct {
	Notifications []domain.NotificationRecord `json:"notifications"`
}

type newsNotifyInput struct {
	ID           string   `json:"id,omitempty" jsonschema:"optional news item identifier"`
	Title        string   `json:"title" jsonschema:"news headline"`
	Summary      string   `json:"summary,omitempty" jsonschema:"optional short summary"`
	Category     string   `json:"category,omitempty" jsonschema:"free-text category (e.g. crypto, forex, fed)"`
	IsBreaking   bool     `json:"is_breaking,omitempty" jsonschema:"whether the item is breaking news"`
	Impact       string   `json:"impact,omitempty" jsonschema:"optional impact: high, medium, low"`
	Sentiment    string   `json:"sentiment,omitempty" jsonschema:"optional sentiment: bullish, bearish, neutral"`
	TradingPairs []string `json:"trading_pairs,omitempty" jsonschema:"optional affected trading pairs"`
	Signal       string   `json:"signal,omitempty" jsonschema:"optional trade signal: strong_buy, buy, sell, strong_sell"`
}

type newsNotifyOutput struct {
	Notified int `json:"notified"`
}

func normalizeEventName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("name is required")
	}
	return name, nil
}

// normalizeBucket returns the empty bucket for blank input, meaning no
// filter.
func normalizeBucket(bucket string) (domain.EventBucket, error) {
	bucket = strings.ToLower(strings.TrimSpace(bucket))
	switch bucket {
	case "":
		return "", nil
	case string(domain.BucketUpcoming):
		return domain.BucketUpcoming, nil
	case string(domain.BucketLive):
		return domain.BucketLive, nil
	default:
		return "", fmt.Errorf("unsupported bucket: %s", bucket)
	}
}

func normalizeHistoryLimit(limit int) int {
	if limit <= 0 {
		return defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		return maxHistoryLimit
	}
	return limit
}

func normalizeNewsItem(in newsNotifyInput) (domain.NewsItem, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return domain.NewsItem{}, fmt.Errorf("title is required")
	}

	item := domain.NewsItem{
		ID:           strings.TrimSpace(in.ID),
		Title:        title,
		Summary:      strings.TrimSpace(in.Summary),
		Category:     strings.TrimSpace(in.Category),
		IsBreaking:   in.IsBreaking,
		TradingPairs: in.TradingPairs,
	}

	switch impact := domain.Impact(strings.ToLower(strings.TrimSpace(in.Impact))); impact {
	case "", domain.ImpactHigh, domain.ImpactMedium, domain.ImpactLow:
		item.Impact = impact
	default:
		return domain.NewsItem{}, fmt.Errorf("unsupported impact: %s", in.Impact)
	}

	switch sentiment := domain.Sentiment(strings.ToLower(strings.TrimSpace(in.Sentiment))); sentiment {
	case "", domain.SentimentBullish, domain.SentimentBearish, domain.SentimentNeutral:
		item.Sentiment = sentiment
	default:
		return domain.NewsItem{}, fmt.Errorf("unsupported sentiment: %s", in.Sentiment)
	}

	if raw := strings.ToLower(strings.TrimSpace(in.Signal)); raw != "" {
		signal := domain.SignalType(raw)
		if !signal.IsValid() {
			return domain.NewsItem{}, fmt.Errorf("unsupported signal: %s", in.Signal)
		}
		item.Signal = signal
	}

	return item, nil
}

func filterViews(views []domain.EventView, bucket domain.EventBucket) []domain.EventView {
	if bucket == "" {
		return views
	}
	filtered := make([]domain.EventView, 0, len(views))
	for _, v := range views {
		if v.Bucket == bucket {
			filtered = append(filtered, v)
		}
	}
	return filtered
}
