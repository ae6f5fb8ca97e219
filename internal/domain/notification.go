package domain

import "time"

type Impact string

const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

type Sentiment string

const (
	SentimentBullish Sentiment = "bullish"
	SentimentBearish Sentiment = "bearish"
	SentimentNeutral Sentiment = "neutral"
)

type SignalType string

const (
	SignalStrongBuy  SignalType = "strong_buy"
	SignalBuy        SignalType = "buy"
	SignalSell       SignalType = "sell"
	SignalStrongSell SignalType = "strong_sell"
)

func (s SignalType) IsValid() bool {
	switch s {
	case SignalStrongBuy, SignalBuy, SignalSell, SignalStrongSell:
		return true
	}
	return false
}

// NotifyCategory is the preference-side category vocabulary. Free-text news
// categories are mapped into it through notify.CategoryToggle.
type NotifyCategory string

const (
	NotifyCrypto      NotifyCategory = "crypto"
	NotifyForex       NotifyCategory = "forex"
	NotifyStocks      NotifyCategory = "stocks"
	NotifyCommodities NotifyCategory = "commodities"
	NotifyIndices     NotifyCategory = "indices"
	NotifyEconomic    NotifyCategory = "economic"
	NotifyCentralBank NotifyCategory = "central_bank"
	NotifyGeopolitics NotifyCategory = "geopolitical"
)

// NotifyCategories lists every preference category toggle.
var NotifyCategories = []NotifyCategory{
	NotifyCrypto,
	NotifyForex,
	NotifyStocks,
	NotifyCommodities,
	NotifyIndices,
	NotifyEconomic,
	NotifyCentralBank,
	NotifyGeopolitics,
}

// SignalTypes lists every per-signal preference toggle.
var SignalTypes = []SignalType{SignalStrongBuy, SignalBuy, SignalSell, SignalStrongSell}

// NewsItem is a market-moving news record queued for notification targeting.
// Signal is empty when the item carries no trade signal.
type NewsItem struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Summary      string     `json:"summary,omitempty"`
	Category     string     `json:"category"`
	IsBreaking   bool       `json:"is_breaking"`
	Impact       Impact     `json:"impact,omitempty"`
	Sentiment    Sentiment  `json:"sentiment,omitempty"`
	TradingPairs []string   `json:"trading_pairs,omitempty"`
	Signal       SignalType `json:"signal,omitempty"`
}

// SignalEvent is a standalone trade signal produced outside the news feed.
type SignalEvent struct {
	ID      string     `json:"id"`
	Signal  SignalType `json:"signal"`
	Symbol  string     `json:"symbol"`
	Summary string     `json:"summary,omitempty"`
}

// UserNotificationPreference holds one user's delivery filters. Zero values
// are conservative: a missing toggle means "do not notify".
type UserNotificationPreference struct {
	UserID            string                  `json:"user_id"`
	Enabled           bool                    `json:"enabled"`
	BreakingNews      bool                    `json:"breaking_news"`
	HighImpact        bool                    `json:"high_impact"`
	MediumImpact      bool                    `json:"medium_impact"`
	LowImpact         bool                    `json:"low_impact"`
	Categories        map[NotifyCategory]bool `json:"categories"`
	Signals           map[SignalType]bool     `json:"signals"`
	QuietHoursEnabled bool                    `json:"quiet_hours_enabled"`
	QuietHoursStart   string                  `json:"quiet_hours_start,omitempty"`
	QuietHoursEnd     string                  `json:"quiet_hours_end,omitempty"`
	Timezone          string                  `json:"timezone,omitempty"`
}

// DefaultPreferences returns the onboarding defaults: everything off.
func DefaultPreferences(userID string) UserNotificationPreference {
	categories := make(map[NotifyCategory]bool, len(NotifyCategories))
	for _, c := range NotifyCategories {
		categories[c] = false
	}
	signals := make(map[SignalType]bool, len(SignalTypes))
	for _, s := range SignalTypes {
		signals[s] = false
	}
	return UserNotificationPreference{
		UserID:          userID,
		Categories:      categories,
		Signals:         signals,
		QuietHoursStart: "22:00",
		QuietHoursEnd:   "08:00",
		Timezone:        "UTC",
	}
}

type RelatedType string

const (
	RelatedNews   RelatedType = "news"
	RelatedSignal RelatedType = "signal"
)

// NotificationRecord is one delivered/pending notification. History is
// bounded per user by NotificationRepository.PruneHistory.
type NotificationRecord struct {
	ID          string            `json:"id"`
	UserID      string            `json:"user_id"`
	Title       string            `json:"title"`
	Message     string            `json:"message"`
	RelatedID   string            `json:"related_id,omitempty"`
	RelatedType RelatedType       `json:"related_type"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// RenderedNotification is the transport-facing payload.
type RenderedNotification struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Icon    string `json:"icon"`
	URL     string `json:"url,omitempty"`
	Tag     string `json:"tag,omitempty"`
}
