package domain

type EventBucket string

const (
	BucketUpcoming EventBucket = "upcoming"
	BucketLive     EventBucket = "live"
)

// EventView is the calendar read model: an ingested event, its recomputed
// classification, the display bucket, and any actual value reconciled from
// the external feed.
type EventView struct {
	Event          Event               `json:"event"`
	Classification EventClassification `json:"classification"`
	Bucket         EventBucket         `json:"bucket"`
	RelativeTime   string              `json:"relative_time"`
	HasActual      bool                `json:"has_actual"`
	Actual         any                 `json:"actual,omitempty"`
	Surprise       *Surprise           `json:"surprise,omitempty"`
}
