package mcp

import (
	"context"
	"encoding/json"
	"time"

	"event-radar/internal/domain"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type stubCalendarService struct {
	views   []domain.EventView
	viewErr error
}

func (s *stubCalendarService) EventViews(ctx context.Context) ([]domain.EventView, error) {
	if s.viewErr != nil {
		return nil, s.viewErr
	}
	return append([]domain.EventView(nil), s.views...), nil
}

type stubNotifyService struct {
	history  []domain.NotificationRecord
	notified int

	lastHistoryUser  string
	lastHistoryLimit int
	lastNewsItem     domain.NewsItem
}

func (s *stubNotifyService) BroadcastNews(ctx context.Context, item domain.NewsItem) (int, error) {
	s.lastNewsItem = item
	return s.notified, nil
}

func (s *stubNotifyService) History(ctx context.Context, userID string, limit int) ([]domain.NotificationRecord, error) {
	s.lastHistoryUser = userID
	s.lastHistoryLimit = limit
	return append([]domain.NotificationRecord(nil), s.history...), nil
}

func testServer() (*sdkmcp.Server, *stubCalendarService, *stubNotifyService) {
	now := time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC)
	calendar := &stubCalendarService{
		views: []domain.EventView{
			{
				Event:          domain.Event{Name: "Nonfarm Payrolls", Date: now.Add(3 * time.Hour), Country: "US"},
				Classification: domain.EventClassification{Tier: domain.Tier1, Category: domain.CategoryEmployment},
				Bucket:         domain.BucketUpcoming,
				RelativeTime:   "In 3 hours",
			},
			{
				Event:          domain.Event{Name: "CPI y/y", Date: now.Add(-time.Hour), Country: "US"},
				Classification: domain.EventClassification{Tier: domain.Tier1, Category: domain.CategoryInflation},
				Bucket:         domain.BucketLive,
				HasActual:      true,
				Actual:         3.5,
			},
		},
	}
	notifier := &stubNotifyService{
		history: []domain.NotificationRecord{
			{ID: "n-1", UserID: "alice", Title: "Fed cuts rates", CreatedAt: time.Unix(0, 0).UTC()},
		},
		notified: 2,
	}

	srv := NewServer(nil, calendar, notifier, ServerConfig{RequestTimeout: time.Second})
	return srv, calendar, notifier
}

func connectInMemory(ctx context.Context, srv *sdkmcp.Server) (*sdkmcp.ClientSession, context.CancelFunc, error) {
	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()
	runCtx, cancel := context.WithCancel(ctx)
	go func() { _ = srv.Run(runCtx, serverTransport) }()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "mcp-test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	return session, cancel, nil
}

func decodeResourceJSON(result *sdkmcp.ReadResourceResult, out any) error {
	if len(result.Contents) == 0 {
		return nil
	}
	return json.Unmarshal([]byte(result.Contents[0].Text), out)
}
