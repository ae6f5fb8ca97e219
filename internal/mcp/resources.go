package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"event-radar/internal/domain"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerResources(server *mcp.Server, calendar CalendarReader, notifier NotificationGateway) {
	server.AddResource(&mcp.Resource{
		URI:         "radar://event-categories",
		Name:        "event-categories",
		Description: "Topical categories the event classifier can emit",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		_ = ctx
		return jsonResource(req.Params.URI, domain.EventCategories)
	})

	server.AddResource(&mcp.Resource{
		URI:         "radar://notify-categories",
		Name:        "notify-categories",
		Description: "Preference category toggles for notification targeting",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		_ = ctx
		return jsonResource(req.Params.URI, domain.NotifyCategories)
	})

	server.AddResource(&mcp.Resource{
		URI:         "radar://countries",
		Name:        "supported-countries",
		Description: "Country codes tracked on the upstream economic calendar",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		_ = ctx
		return jsonResource(req.Params.URI, domain.MajorCountries)
	})

	server.AddResource(&mcp.Resource{
		URI:         "events://calendar",
		Name:        "events-calendar",
		Description: "All classified event views in the active window",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if calendar == nil {
			return nil, fmt.Errorf("calendar service unavailable")
		}
		views, err := calendar.EventViews(ctx)
		if err != nil {
			return nil, err
		}
		return jsonResource(req.Params.URI, eventsListOutput{Events: views})
	})

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "events://bucket/{bucket}",
		Name:        "events-by-bucket",
		Description: "Classified event views filtered by bucket (upcoming or live)",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if calendar == nil {
			return nil, fmt.Errorf("calendar service unavailable")
		}

		parsed, err := url.Parse(req.Params.URI)
		if err != nil {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		if parsed.Scheme != "events" || parsed.Host != "bucket" {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}

		bucket, err := normalizeBucket(strings.Trim(strings.TrimSpace(parsed.Path), "/"))
		if err != nil {
			return nil, err
		}
		if bucket == "" {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}

		views, err := calendar.EventViews(ctx)
		if err != nil {
			return nil, err
		}
		return jsonResource(req.Params.URI, eventsListOutput{Events: filterViews(views, bucket)})
	})

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "notifications://{userID}{?limit}",
		Name:        "notifications-by-user",
		Description: "Recent notification history for a user; optional limit query param",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if notifier == nil {
			return nil, fmt.Errorf("notification service unavailable")
		}

		parsed, err := url.Parse(req.Params.URI)
		if err != nil {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		if parsed.Scheme != "notifications" || strings.TrimSpace(parsed.Host) == "" {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}

		limit := defaultHistoryLimit
		if rawLimit := strings.TrimSpace(parsed.Query().Get("limit")); rawLimit != "" {
			n, err := strconv.Atoi(rawLimit)
			if err != nil {
				return nil, fmt.Errorf("invalid limit: %s", rawLimit)
			}
			limit = normalizeHistoryLimit(n)
		}

		records, err := notifier.History(ctx, parsed.Host, limit)
		if err != nil {
			return nil, err
		}
		return jsonResource(req.Params.URI, notificationsListOutput{Notifications: records})
	})
}

func jsonResource(uri string, payload any) (*mcp.ReadResourceResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(body),
		}},
	}, nil
}
