package domain

import "time"

// Event is a scheduled market event as ingested from an upstream feed.
// Forecast, Previous, and Actual arrive as numbers, numeric strings, or
// placeholder text ("N/A", "-"); they are kept raw and interpreted by the
// surprise package's presence predicate.
type Event struct {
	Name     string    `json:"name"`
	Date     time.Time `json:"date"`
	Country  string    `json:"country,omitempty"`
	Forecast any       `json:"forecast,omitempty"`
	Previous any       `json:"previous,omitempty"`
	Actual   any       `json:"actual,omitempty"`
}

// CalendarEvent is one record from the external calendar provider. Same raw
// value semantics as Event; naming and casing are provider-controlled.
type CalendarEvent struct {
	Name     string    `json:"name"`
	Date     time.Time `json:"date"`
	Country  string    `json:"country,omitempty"`
	Actual   any       `json:"actual,omitempty"`
	Forecast any       `json:"forecast,omitempty"`
	Previous any       `json:"previous,omitempty"`
}

type Tier int

const (
	Tier1 Tier = 1
	Tier2 Tier = 2
	Tier3 Tier = 3
)

func (t Tier) IsValid() bool {
	return t >= Tier1 && t <= Tier3
}

type Volatility string

const (
	VolatilityLow      Volatility = "low"
	VolatilityModerate Volatility = "moderate"
	VolatilityHigh     Volatility = "high"
	VolatilityExtreme  Volatility = "extreme"
)

// EventCategory is the classifier's topical bucket. It is computed
// independently of Tier and the two may disagree for the same name.
type EventCategory string

const (
	CategoryEmployment  EventCategory = "employment"
	CategoryInflation   EventCategory = "inflation"
	CategoryCentralBank EventCategory = "central_bank"
	CategoryGrowth      EventCategory = "growth"
	CategoryHousing     EventCategory = "housing"
	CategorySentiment   EventCategory = "sentiment"
	CategoryEarnings    EventCategory = "earnings"
	CategoryCrypto      EventCategory = "crypto"
	CategoryOther       EventCategory = "other"
)

// EventCategories lists every topical bucket the classifier can emit.
var EventCategories = []EventCategory{
	CategoryEmployment,
	CategoryInflation,
	CategoryCentralBank,
	CategoryGrowth,
	CategoryHousing,
	CategorySentiment,
	CategoryEarnings,
	CategoryCrypto,
	CategoryOther,
}

// MajorCountries are the country codes the radar tracks on the upstream
// calendar. Events outside this set still ingest; the list is advisory.
var MajorCountries = []string{"US", "EU", "GB", "JP", "CH", "CA", "AU", "NZ", "CN"}

type EventClassification struct {
	Tier               Tier          `json:"tier"`
	ExpectedVolatility Volatility    `json:"expected_volatility"`
	Category           EventCategory `json:"category"`
	PrimaryAssets      []string      `json:"primary_assets"`
	SecondaryAssets    []string      `json:"secondary_assets"`
}

type SurpriseCategory string

const (
	SurpriseBigBeat   SurpriseCategory = "big_beat"
	SurpriseSmallBeat SurpriseCategory = "small_beat"
	SurpriseInline    SurpriseCategory = "inline"
	SurpriseSmallMiss SurpriseCategory = "small_miss"
	SurpriseBigMiss   SurpriseCategory = "big_miss"
	SurpriseUnknown   SurpriseCategory = "unknown"
)

type SurpriseDirection string

const (
	DirectionBeat          SurpriseDirection = "beat"
	DirectionInline        SurpriseDirection = "inline"
	DirectionMiss          SurpriseDirection = "miss"
	DirectionUnknownResult SurpriseDirection = "unknown"
)

type Surprise struct {
	Category    SurpriseCategory  `json:"category"`
	Percent     float64           `json:"percent"`
	Direction   SurpriseDirection `json:"direction"`
	Description string            `json:"description"`
}
