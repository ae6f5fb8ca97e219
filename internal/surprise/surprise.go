package surprise

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"event-radar/internal/domain"
)

// Bucket thresholds are on the signed surprise percent and are checked in
// order, first match wins.
const (
	bigBeatThreshold   = 15.0
	smallBeatThreshold = 5.0
	inlineThreshold    = -5.0
	smallMissThreshold = -15.0
)

var absentPlaceholders = map[string]struct{}{
	"n/a": {},
	"na":  {},
	"-":   {},
	"–":   {},
	"—":   {},
}

// HasValue reports whether a raw provider value carries an actual number.
// Zero is a legitimate value; only nil, NaN, empty strings, and the known
// placeholder strings count as absent.
func HasValue(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case float64:
		return !math.IsNaN(x)
	case float32:
		return !math.IsNaN(float64(x))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case string:
		s := strings.ToLower(strings.TrimSpace(x))
		if s == "" {
			return false
		}
		_, placeholder := absentPlaceholders[s]
		return !placeholder
	default:
		return false
	}
}

// Numeric extracts a float from a raw provider value. Percent signs and
// thousands separators in string forms are tolerated.
func Numeric(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) {
			return 0, false
		}
		return x, true
	case float32:
		return Numeric(float64(x))
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		if !HasValue(x) {
			return 0, false
		}
		s := strings.TrimSpace(x)
		s = strings.TrimSuffix(s, "%")
		s = strings.ReplaceAll(s, ",", "")
		n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(n) {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// Score buckets the deviation of an actual release from its forecast. A
// missing actual or a zero/absent forecast yields the "unknown" result
// rather than an error; this runs unattended inside batches.
func Score(actual, forecast any) domain.Surprise {
	forecastNum, ok := Numeric(forecast)
	if !ok || forecastNum == 0 {
		return unknownSurprise()
	}
	actualNum, ok := Numeric(actual)
	if !ok {
		return unknownSurprise()
	}

	percent := ((actualNum - forecastNum) / math.Abs(forecastNum)) * 100
	percent = math.Round(percent*100) / 100

	switch {
	case percent > bigBeatThreshold:
		return domain.Surprise{
			Category:    domain.SurpriseBigBeat,
			Percent:     percent,
			Direction:   domain.DirectionBeat,
			Description: fmt.Sprintf("Major upside surprise: %+.2f%% vs forecast", percent),
		}
	case percent > smallBeatThreshold:
		return domain.Surprise{
			Category:    domain.SurpriseSmallBeat,
			Percent:     percent,
			Direction:   domain.DirectionBeat,
			Description: fmt.Sprintf("Modest beat: %+.2f%% vs forecast", percent),
		}
	case percent >= inlineThreshold:
		return domain.Surprise{
			Category:    domain.SurpriseInline,
			Percent:     percent,
			Direction:   domain.DirectionInline,
			Description: fmt.Sprintf("Roughly in line with forecast (%+.2f%%)", percent),
		}
	case percent >= smallMissThreshold:
		return domain.Surprise{
			Category:    domain.SurpriseSmallMiss,
			Percent:     percent,
			Direction:   domain.DirectionMiss,
			Description: fmt.Sprintf("Modest miss: %+.2f%% vs forecast", percent),
		}
	default:
		return domain.Surprise{
			Category:    domain.SurpriseBigMiss,
			Percent:     percent,
			Direction:   domain.DirectionMiss,
			Description: fmt.Sprintf("Major downside surprise: %+.2f%% vs forecast", percent),
		}
	}
}

func unknownSurprise() domain.Surprise {
	return domain.Surprise{
		Category:    domain.SurpriseUnknown,
		Percent:     0,
		Direction:   domain.DirectionUnknownResult,
		Description: "Unable to calculate surprise",
	}
}
