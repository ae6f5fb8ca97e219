package match

import (
	"regexp"
	"strings"
	"time"

	"event-radar/internal/domain"
)

// Scores below this threshold never produce a match.
const acceptThreshold = 40

const (
	exactNameScore     = 100
	substringNameScore = 70
	tokenBaseScore     = 40
	tokenBonusScore    = 10
	singleTokenScore   = 30
	countryScore       = 50
)

var (
	monthSuffixRe   = regexp.MustCompile(`\((?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)\)`)
	quarterSuffixRe = regexp.MustCompile(`\(q[1-4]\)`)
	monthWordRe     = regexp.MustCompile(`\b(?:january|february|march|april|may|june|july|august|september|october|november|december)\b`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
)

// Source-attribution tokens providers prepend to otherwise identical event
// names (statistics bureaus, index providers, PMI bank brands). Matched on
// word boundaries so short bureau acronyms cannot eat into other words.
var sourceTokenRes = compileSourceTokens([]string{
	"s&p global",
	"markit",
	"caixin",
	"au jibun bank",
	"jibun bank",
	"hcob",
	"cips",
	"judo bank",
	"halifax",
	"nationwide",
	"westpac",
	"gfk",
	"ifo",
	"zew",
	"destatis",
	"eurostat",
	"istat",
	"insee",
	"ons",
	"bls",
	"bea",
})

func compileSourceTokens(tokens []string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(tokens))
	for _, token := range tokens {
		res = append(res, regexp.MustCompile(`(?:^|\s)`+regexp.QuoteMeta(token)+`(?:$|\s)`))
	}
	return res
}

// Normalize lowercases a provider event name and strips the decorations that
// differ between sources: month/quarter parentheticals, spelled-out month
// names, and source-attribution prefixes.
func Normalize(name string) string {
	s := strings.ToLower(name)
	s = monthSuffixRe.ReplaceAllString(s, " ")
	s = quarterSuffixRe.ReplaceAllString(s, " ")
	s = monthWordRe.ReplaceAllString(s, " ")
	for _, re := range sourceTokenRes {
		s = re.ReplaceAllString(s, " ")
	}
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Match finds the external record most likely describing the same real-world
// event. Candidates on a different calendar day are discarded outright; the
// survivors are scored on country and name similarity and the best must
// clear the acceptance threshold. Ties keep the first candidate encountered
// in iteration order.
func Match(internal domain.Event, candidates []domain.CalendarEvent) (*domain.CalendarEvent, int, bool) {
	normalizedInternal := Normalize(internal.Name)

	bestScore := -1
	bestIdx := -1
	for i, candidate := range candidates {
		if !sameDay(internal.Date, candidate.Date) {
			continue
		}
		score := scoreCandidate(normalizedInternal, internal.Country, candidate)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}

	if bestIdx < 0 || bestScore < acceptThreshold {
		return nil, 0, false
	}
	return &candidates[bestIdx], bestScore, true
}

func scoreCandidate(normalizedInternal, internalCountry string, candidate domain.CalendarEvent) int {
	score := 0

	if internalCountry != "" && candidate.Country != "" &&
		strings.EqualFold(internalCountry, candidate.Country) {
		score += countryScore
	}

	score += nameScore(normalizedInternal, Normalize(candidate.Name))
	return score
}

// nameScore evaluates the comparison branches in priority order; only the
// first applicable branch contributes.
func nameScore(a, b string) int {
	if a == b {
		return exactNameScore
	}
	if a != "" && b != "" && (strings.Contains(a, b) || strings.Contains(b, a)) {
		return substringNameScore
	}

	common := commonTokens(a, b)
	switch {
	case len(common) >= 2:
		return tokenBaseScore + tokenBonusScore*len(common)
	case len(common) == 1 && len(common[0]) > 4:
		return singleTokenScore
	default:
		return 0
	}
}

func commonTokens(a, b string) []string {
	seen := make(map[string]struct{})
	for _, token := range strings.Fields(a) {
		if len(token) > 2 {
			seen[token] = struct{}{}
		}
	}

	common := make([]string, 0, 2)
	matched := make(map[string]struct{})
	for _, token := range strings.Fields(b) {
		if len(token) <= 2 {
			continue
		}
		if _, ok := seen[token]; !ok {
			continue
		}
		if _, dup := matched[token]; dup {
			continue
		}
		matched[token] = struct{}{}
		common = append(common, token)
	}
	return common
}

func sameDay(a, b time.Time) bool {
	au, bu := a.UTC(), b.UTC()
	ay, am, ad := au.Date()
	by, bm, bd := bu.Date()
	return ay == by && am == bm && ad == bd
}
