package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"event-radar/internal/domain"

	tele "gopkg.in/telebot.v3"
)

type EventLister interface {
	EventViews(ctx context.Context) ([]domain.EventView, error)
}

func StartTelegramBot(token string, calendarService EventLister) *AlertDispatcher {
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return nil
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}
	alerts := NewAlertDispatcher(b)

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/events", func(c tele.Context) error {
		if calendarService == nil {
			return c.Send("Calendar service unavailable")
		}

		views, err := calendarService.EventViews(context.Background())
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching events: %v", err))
		}
		if len(views) == 0 {
			return c.Send("No events in the current window.")
		}

		bucket := parseEventBucket(c.Args())
		lines := make([]string, 0, len(views)+1)
		lines = append(lines, "Event calendar:")
		for _, v := range views {
			if bucket != "" && string(v.Bucket) != bucket {
				continue
			}
			lines = append(lines, formatEventView(v))
		}
		if len(lines) == 1 {
			return c.Send("No events in that bucket right now.")
		}
		return c.Send(strings.Join(lines, "\n"))
	})

	b.Handle("/alerts", func(c tele.Context) error {
		chat := c.Chat()
		if chat == nil {
			return c.Send("Unable to detect chat")
		}

		mode, err := parseAlertMode(c.Args())
		if err != nil {
			return c.Send("Usage: /alerts on | /alerts off | /alerts status")
		}

		switch mode {
		case "on":
			if alerts.Subscribe(chat.ID) {
				return c.Send("Event alerts enabled for this chat.")
			}
			return c.Send("Event alerts are already enabled for this chat.")
		case "off":
			if alerts.Unsubscribe(chat.ID) {
				return c.Send("Event alerts disabled for this chat.")
			}
			return c.Send("Event alerts are already disabled for this chat.")
		default:
			if alerts.IsSubscribed(chat.ID) {
				return c.Send("Alerts status: ON")
			}
			return c.Send("Alerts status: OFF")
		}
	})

	log.Println("Telegram bot started")
	go b.Start()
	return alerts
}

func parseEventBucket(args []string) string {
	if len(args) == 0 {
		return ""
	}
	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "upcoming":
		return string(domain.BucketUpcoming)
	case "live":
		return string(domain.BucketLive)
	default:
		return ""
	}
}

func formatEventView(v domain.EventView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", tierBadge(v.Classification.Tier), v.Event.Name)
	if v.Event.Country != "" {
		fmt.Fprintf(&b, " (%s)", v.Event.Country)
	}
	fmt.Fprintf(&b, " - %s", v.RelativeTime)
	if v.HasActual && v.Surprise != nil {
		fmt.Fprintf(&b, " | %s", v.Surprise.Description)
	}
	return b.String()
}

func tierBadge(t domain.Tier) string {
	switch t {
	case domain.Tier1:
		return "🔴"
	case domain.Tier2:
		return "🟡"
	default:
		return "⚪"
	}
}
