package notify

import (
	"fmt"
	"strings"

	"event-radar/internal/domain"
)

const (
	titleMaxRunes   = 50
	messageMaxRunes = 147

	iconBreaking = "🚨"
	iconBullish  = "📈"
	iconBearish  = "📉"
	iconDefault  = "📰"
)

var signalIcons = map[domain.SignalType]string{
	domain.SignalStrongBuy:  "🟢",
	domain.SignalBuy:        "📈",
	domain.SignalSell:       "📉",
	domain.SignalStrongSell: "🔴",
}

var signalLabels = map[domain.SignalType]string{
	domain.SignalStrongBuy:  "Strong Buy",
	domain.SignalBuy:        "Buy",
	domain.SignalSell:       "Sell",
	domain.SignalStrongSell: "Strong Sell",
}

// Truncate bounds s to max runes, appending suffix when anything was cut.
// Both rendering call sites go through here so the two caps cannot diverge.
func Truncate(s string, max int, suffix string) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + suffix
}

// RenderNews builds the transport payload for a news item.
func RenderNews(item domain.NewsItem) domain.RenderedNotification {
	body := item.Summary
	if strings.TrimSpace(body) == "" {
		body = item.Title
	}

	return domain.RenderedNotification{
		Title:   Truncate(item.Title, titleMaxRunes, "…"),
		Message: Truncate(body, messageMaxRunes, "..."),
		Icon:    newsIcon(item),
		URL:     "/news/" + item.ID,
		Tag:     "news-" + item.ID,
	}
}

// RenderSignal builds the transport payload for a standalone signal event.
func RenderSignal(sig domain.SignalEvent) domain.RenderedNotification {
	label := signalLabels[sig.Signal]
	if label == "" {
		label = string(sig.Signal)
	}
	title := fmt.Sprintf("%s: %s", strings.ToUpper(sig.Symbol), label)

	return domain.RenderedNotification{
		Title:   Truncate(title, titleMaxRunes, "…"),
		Message: Truncate(sig.Summary, messageMaxRunes, "..."),
		Icon:    signalIcon(sig.Signal),
		URL:     "/signals/" + sig.ID,
		Tag:     "signal-" + sig.ID,
	}
}

// newsIcon picks by priority: breaking > signal > sentiment > default.
func newsIcon(item domain.NewsItem) string {
	if item.IsBreaking {
		return iconBreaking
	}
	if item.Signal != "" {
		return signalIcon(item.Signal)
	}
	switch item.Sentiment {
	case domain.SentimentBullish:
		return iconBullish
	case domain.SentimentBearish:
		return iconBearish
	default:
		return iconDefault
	}
}

func signalIcon(s domain.SignalType) string {
	if icon, ok := signalIcons[s]; ok {
		return icon
	}
	return iconDefault
}
