package window

import (
	"fmt"
	"time"

	"event-radar/internal/domain"
)

const (
	preAnalysisMinLead = time.Hour
	preAnalysisMaxLead = 24 * time.Hour
	postAnalysisWindow = 2 * time.Hour
	liveWindow         = 24 * time.Hour
)

// ShouldRunPreAnalysis reports whether an event is between 1 and 24 hours
// away (inclusive), the window in which forward-looking analysis is useful.
func ShouldRunPreAnalysis(eventTime, now time.Time) bool {
	lead := eventTime.Sub(now)
	return lead >= preAnalysisMinLead && lead <= preAnalysisMaxLead
}

// ShouldRunPostAnalysis reports whether an event released within the last
// two hours (inclusive).
func ShouldRunPostAnalysis(eventTime, now time.Time) bool {
	elapsed := now.Sub(eventTime)
	return elapsed >= 0 && elapsed <= postAnalysisWindow
}

// Bucket places an event relative to now for display: strictly future events
// are upcoming, events within the trailing 24 hours are live, anything older
// is not surfaced.
func Bucket(eventTime, now time.Time) (domain.EventBucket, bool) {
	if eventTime.After(now) {
		return domain.BucketUpcoming, true
	}
	if now.Sub(eventTime) <= liveWindow {
		return domain.BucketLive, true
	}
	return "", false
}

// RelativeLabel renders a human time distance, picking the coarsest unit
// that keeps the number meaningful.
func RelativeLabel(eventTime, now time.Time) string {
	diff := eventTime.Sub(now)

	if diff > 0 {
		minutes := int(diff.Minutes())
		hours := int(diff.Hours())
		switch {
		case minutes < 60:
			return fmt.Sprintf("In %d minutes", minutes)
		case hours < 24:
			return fmt.Sprintf("In %d hours", hours)
		default:
			return fmt.Sprintf("In %d days", hours/24)
		}
	}

	elapsed := -diff
	if minutes := int(elapsed.Minutes()); minutes < 60 {
		return fmt.Sprintf("%d minutes ago", minutes)
	}
	return fmt.Sprintf("%d hours ago", int(elapsed.Hours()))
}
