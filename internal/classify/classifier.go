package classify

import (
	"strings"

	"event-radar/internal/domain"
)

// Keyword lists are checked in tier order; the first tier containing a
// matching keyword wins. Category keywords are evaluated independently of
// tier keywords, so a name can land on tier 1 with category "other" (or the
// reverse). That independence is intentional and relied upon by callers.
var tier1Keywords = []string{
	"fomc",
	"rate decision",
	"interest rate decision",
	"fed funds",
	"nonfarm payrolls",
	"non-farm payrolls",
	"nfp",
	"cpi",
	"consumer price index",
	"halving",
	"etf approval",
	"etf decision",
}

var tier2Keywords = []string{
	"ppi",
	"producer price",
	"pce",
	"pmi",
	"ism",
	"jobless claims",
	"unemployment claims",
	"apple earnings",
	"nvidia earnings",
	"microsoft earnings",
	"tesla earnings",
	"amazon earnings",
	"alphabet earnings",
	"meta earnings",
	"token unlock",
}

var tier3Keywords = []string{
	"housing starts",
	"building permits",
	"existing home sales",
	"new home sales",
	"pending home sales",
	"consumer sentiment",
	"consumer confidence",
	"trade balance",
	"durable goods",
}

var categoryKeywords = []struct {
	category domain.EventCategory
	keywords []string
}{
	{domain.CategoryEmployment, []string{"payrolls", "nfp", "jobless", "unemployment", "employment", "jolts"}},
	{domain.CategoryInflation, []string{"cpi", "ppi", "pce", "inflation", "price index"}},
	{domain.CategoryCentralBank, []string{"fomc", "rate decision", "fed chair", "central bank", "boj", "ecb", "boe", "minutes"}},
	{domain.CategoryGrowth, []string{"gdp", "pmi", "ism", "retail sales", "industrial production"}},
	{domain.CategoryHousing, []string{"housing", "home sales", "building permits", "mortgage"}},
	{domain.CategorySentiment, []string{"sentiment", "confidence"}},
	{domain.CategoryEarnings, []string{"earnings", "revenue", "eps"}},
	{domain.CategoryCrypto, []string{"bitcoin", "btc", "ethereum", "crypto", "halving", "etf", "token unlock"}},
}

var (
	defaultPrimaryAssets = []string{"DXY", "SPX", "TLT"}

	jpyKeywords    = []string{"jpy", "boj", "japan"}
	eurKeywords    = []string{"eur", "ecb"}
	gbpKeywords    = []string{"gbp", "boe", "uk"}
	cryptoKeywords = []string{"bitcoin", "btc", "crypto", "halving", "etf"}
)

// Classify derives tier, expected volatility, category, and affected assets
// from a free-text event name. Total: unknown names fall through to tier 3,
// category "other", and the default asset triple.
func Classify(name string) domain.EventClassification {
	lower := strings.ToLower(name)

	tier := inferTier(lower)
	category := inferCategory(lower)

	return domain.EventClassification{
		Tier:               tier,
		ExpectedVolatility: volatilityFor(tier),
		Category:           category,
		PrimaryAssets:      primaryAssets(lower),
		SecondaryAssets:    secondaryAssets(category),
	}
}

func inferTier(lower string) domain.Tier {
	if containsAny(lower, tier1Keywords) {
		return domain.Tier1
	}
	if containsAny(lower, tier2Keywords) {
		return domain.Tier2
	}
	return domain.Tier3
}

func inferCategory(lower string) domain.EventCategory {
	for _, entry := range categoryKeywords {
		if containsAny(lower, entry.keywords) {
			return entry.category
		}
	}
	return domain.CategoryOther
}

func volatilityFor(tier domain.Tier) domain.Volatility {
	switch tier {
	case domain.Tier1:
		return domain.VolatilityHigh
	case domain.Tier2:
		return domain.VolatilityModerate
	default:
		return domain.VolatilityLow
	}
}

func primaryAssets(lower string) []string {
	switch {
	case containsAny(lower, jpyKeywords):
		return []string{"USDJPY", "NKY"}
	case containsAny(lower, eurKeywords):
		return []string{"EURUSD", "DAX"}
	case containsAny(lower, gbpKeywords):
		return []string{"GBPUSD", "FTSE"}
	case containsAny(lower, cryptoKeywords):
		return []string{"BTC", "ETH"}
	default:
		out := make([]string, len(defaultPrimaryAssets))
		copy(out, defaultPrimaryAssets)
		return out
	}
}

func secondaryAssets(category domain.EventCategory) []string {
	switch category {
	case domain.CategoryInflation, domain.CategoryCentralBank:
		return []string{"GOLD", "TLT", "BTC"}
	case domain.CategoryEmployment, domain.CategoryGrowth:
		return []string{"USDJPY", "GOLD"}
	case domain.CategoryCrypto:
		return []string{"SPX", "DXY"}
	default:
		return []string{"GOLD"}
	}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
