package notify

import (
	"strconv"
	"strings"
	"time"

	"event-radar/internal/domain"
)

// CategoryToggle maps free-text news categories onto preference toggles.
// Categories absent from this table carry no category filter at all.
var CategoryToggle = map[string]domain.NotifyCategory{
	"crypto":         domain.NotifyCrypto,
	"cryptocurrency": domain.NotifyCrypto,
	"bitcoin":        domain.NotifyCrypto,
	"forex":          domain.NotifyForex,
	"currencies":     domain.NotifyForex,
	"stocks":         domain.NotifyStocks,
	"equities":       domain.NotifyStocks,
	"commodities":    domain.NotifyCommodities,
	"gold":           domain.NotifyCommodities,
	"oil":            domain.NotifyCommodities,
	"indices":        domain.NotifyIndices,
	"economic":       domain.NotifyEconomic,
	"economy":        domain.NotifyEconomic,
	"fed":            domain.NotifyCentralBank,
	"ecb":            domain.NotifyCentralBank,
	"central_bank":   domain.NotifyCentralBank,
	"geopolitical":   domain.NotifyGeopolitics,
	"politics":       domain.NotifyGeopolitics,
}

// Engine decides per-user notification eligibility. It is stateless apart
// from the injected clock.
type Engine struct {
	now func() time.Time
}

func NewEngine(now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now}
}

// EligibleForNews runs the news decision pipeline. The step order is load
// bearing: quiet hours are checked before any category logic, and each step
// short-circuits to ineligible.
func (e *Engine) EligibleForNews(pref domain.UserNotificationPreference, item domain.NewsItem) bool {
	if !pref.Enabled {
		return false
	}
	if e.inQuietHours(pref) {
		return false
	}

	if item.IsBreaking && !pref.BreakingNews {
		return false
	}

	if !impactEnabled(pref, item.Impact) {
		return false
	}

	if toggle, mapped := CategoryToggle[strings.ToLower(strings.TrimSpace(item.Category))]; mapped {
		if !pref.Categories[toggle] {
			return false
		}
	}

	if item.Signal != "" && !pref.Signals[item.Signal] {
		return false
	}

	return true
}

// EligibleForSignal applies master toggle, quiet hours, and the single
// per-signal toggle; no other filters apply to signal events.
func (e *Engine) EligibleForSignal(pref domain.UserNotificationPreference, sig domain.SignalEvent) bool {
	if !pref.Enabled {
		return false
	}
	if e.inQuietHours(pref) {
		return false
	}
	return pref.Signals[sig.Signal]
}

// inQuietHours resolves the user's local time-of-day and checks it against
// the configured window. Overnight windows (start > end) wrap midnight. Any
// resolution failure fails open: a broken timezone must not silently
// swallow every notification.
func (e *Engine) inQuietHours(pref domain.UserNotificationPreference) bool {
	if !pref.QuietHoursEnabled {
		return false
	}

	start, ok := parseClock(pref.QuietHoursStart)
	if !ok {
		return false
	}
	end, ok := parseClock(pref.QuietHoursEnd)
	if !ok {
		return false
	}

	loc, err := time.LoadLocation(pref.Timezone)
	if err != nil {
		return false
	}

	local := e.now().In(loc)
	current := local.Hour()*60 + local.Minute()

	if start > end {
		return current >= start || current <= end
	}
	return current >= start && current <= end
}

func impactEnabled(pref domain.UserNotificationPreference, impact domain.Impact) bool {
	switch impact {
	case domain.ImpactHigh:
		return pref.HighImpact
	case domain.ImpactLow:
		return pref.LowImpact
	default:
		// Unspecified or unrecognized impact defaults to medium.
		return pref.MediumImpact
	}
}

// parseClock converts "HH:MM" to minutes since midnight.
func parseClock(s string) (int, bool) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}
