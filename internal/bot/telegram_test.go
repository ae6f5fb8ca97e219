package bot

import (
	"strings"
	"testing"

	"event-radar/internal/domain"
)

func TestStartTelegramBotSkipsWithoutToken(t *testing.T) {
	StartTelegramBot("", nil)
}

func TestParseEventBucket(t *testing.T) {
	if got := parseEventBucket(nil); got != "" {
		t.Fatalf("expected no filter, got %q", got)
	}
	if got := parseEventBucket([]string{"UPCOMING"}); got != "upcoming" {
		t.Fatalf("expected upcoming, got %q", got)
	}
	if got := parseEventBucket([]string{"live"}); got != "live" {
		t.Fatalf("expected live, got %q", got)
	}
	if got := parseEventBucket([]string{"stale"}); got != "" {
		t.Fatalf("expected unfiltered for unknown bucket, got %q", got)
	}
}

func TestFormatEventView(t *testing.T) {
	view := domain.EventView{
		Event:          domain.Event{Name: "FOMC Rate Decision", Country: "US"},
		Classification: domain.EventClassification{Tier: domain.Tier1},
		Bucket:         domain.BucketUpcoming,
		RelativeTime:   "In 3 hours",
	}
	line := formatEventView(view)
	if !strings.Contains(line, "🔴") || !strings.Contains(line, "FOMC Rate Decision (US)") {
		t.Fatalf("unexpected line: %s", line)
	}
	if !strings.Contains(line, "In 3 hours") {
		t.Fatalf("missing relative time: %s", line)
	}
}

func TestFormatEventViewWithSurprise(t *testing.T) {
	view := domain.EventView{
		Event:          domain.Event{Name: "CPI y/y", Country: "US"},
		Classification: domain.EventClassification{Tier: domain.Tier1},
		Bucket:         domain.BucketLive,
		RelativeTime:   "2 hours ago",
		HasActual:      true,
		Surprise: &domain.Surprise{
			Category:    domain.SurpriseBigBeat,
			Description: "Major beat: +16.67% above forecast",
		},
	}
	line := formatEventView(view)
	if !strings.Contains(line, "Major beat") {
		t.Fatalf("missing surprise description: %s", line)
	}
}
