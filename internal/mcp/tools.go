package mcp

import (
	"context"
	"fmt"
	"strings"

	"event-radar/internal/classify"
	"event-radar/internal/surprise"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerTools(server *mcp.Server, calendar CalendarReader, notifier NotificationGateway) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "events_classify",
		Description: "Classify an event name into tier, expected volatility, category, and affected assets",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in eventsClassifyInput) (*mcp.CallToolResult, eventsClassifyOutput, error) {
		name, err := normalizeEventName(in.Name)
		if err != nil {
			return nil, eventsClassifyOutput{}, err
		}
		return nil, eventsClassifyOutput{Name: name, Classification: classify.Classify(name)}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "surprise_score",
		Description: "Score a released actual against its forecast into a surprise category and percent",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in surpriseScoreInput) (*mcp.CallToolResult, surpriseScoreOutput, error) {
		return nil, surpriseScoreOutput{Surprise: surprise.Score(in.Actual, in.Forecast)}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "events_list",
		Description: "Get classified calendar event views, optionally filtered by bucket (upcoming or live)",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in eventsListInput) (*mcp.CallToolResult, eventsListOutput, error) {
		if calendar == nil {
			return nil, eventsListOutput{}, fmt.Errorf("calendar service unavailable")
		}
		bucket, err := normalizeBucket(in.Bucket)
		if err != nil {
			return nil, eventsListOutput{}, err
		}
		views, err := calendar.EventViews(ctx)
		if err != nil {
			return nil, eventsListOutput{}, err
		}
		return nil, eventsListOutput{Events: filterViews(views, bucket)}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "notifications_list",
		Description: "Get a user's recent notification history",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in notificationsListInput) (*mcp.CallToolResult, notificationsListOutput, error) {
		if notifier == nil {
			return nil, notificationsListOutput{}, fmt.Errorf("notification service unavailable")
		}
		userID := strings.TrimSpace(in.UserID)
		if userID == "" {
			return nil, notificationsListOutput{}, fmt.Errorf("user_id is required")
		}
		records, err := notifier.History(ctx, userID, normalizeHistoryLimit(in.Limit))
		if err != nil {
			return nil, notificationsListOutput{}, err
		}
		return nil, notificationsListOutput{Notifications: records}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "news_notify",
		Description: "Run the eligibility batch for a news item and notify every matching user",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in newsNotifyInput) (*mcp.CallToolResult, newsNotifyOutput, error) {
		if notifier == nil {
			return nil, newsNotifyOutput{}, fmt.Errorf("notification service unavailable")
		}
		item, err := normalizeNewsItem(in)
		if err != nil {
			return nil, newsNotifyOutput{}, err
		}
		notified, err := notifier.BroadcastNews(ctx, item)
		if err != nil {
			return nil, newsNotifyOutput{}, err
		}
		return nil, newsNotifyOutput{Notified: notified}, nil
	})
}
