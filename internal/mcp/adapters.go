package mcp

import (
	"context"

	"event-radar/internal/domain"
)

// CalendarReader exposes the calendar read model.
type CalendarReader interface {
	EventViews(ctx context.Context) ([]domain.EventView, error)
}

// NotificationGateway exposes notification fan-out and history reads.
type NotificationGateway interface {
	BroadcastNews(ctx context.Context, item domain.NewsItem) (int, error)
	History(ctx context.Context, userID string, limit int) ([]domain.NotificationRecord, error)
}
