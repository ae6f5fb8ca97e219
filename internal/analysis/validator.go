package analysis

import (
	"fmt"
	"strings"

	"event-radar/internal/domain"
)

type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Finding codes.
const (
	CodeHighConvictionNoTrade    = "HIGH_CONVICTION_NO_TRADE"
	CodeTradeWithoutEntry        = "TRADE_WITHOUT_ENTRY"
	CodeMissingScenarios         = "MISSING_SCENARIOS"
	CodeTradeWithoutStop         = "TRADE_WITHOUT_STOP"
	CodeConvictionOutOfRange     = "CONVICTION_OUT_OF_RANGE"
	CodeInvalidApproach          = "INVALID_APPROACH"
	CodeBigSurpriseLowConviction = "BIG_SURPRISE_LOW_CONVICTION"
	CodeImmediateUrgencyNoTrade  = "IMMEDIATE_URGENCY_NO_TRADE"
	CodePoorRiskRewardTrade      = "POOR_RISK_REWARD_TRADE"
	CodeInvalidUrgency           = "INVALID_URGENCY"
	CodeInvalidAction            = "INVALID_ACTION"
)

type Finding struct {
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// ValidatePreEvent runs every pre-event consistency check and accumulates
// findings. Findings are advisory; nothing here rejects a record.
func ValidatePreEvent(a *domain.PreEventAnalysis) []Finding {
	findings := make([]Finding, 0, 4)

	if a.Conviction >= 7 && !a.RecommendsTrade() {
		findings = append(findings, Finding{
			Code:     CodeHighConvictionNoTrade,
			Message:  fmt.Sprintf("conviction %d with no trade recommended", a.Conviction),
			Severity: SeverityWarning,
		})
	}

	if a.RecommendsTrade() && strings.TrimSpace(a.TradeSetup.EntryCondition) == "" {
		findings = append(findings, Finding{
			Code:     CodeTradeWithoutEntry,
			Message:  "trade recommended but entry condition is missing",
			Severity: SeverityError,
		})
	}

	if missing := missingScenarios(a.Scenarios); len(missing) > 0 {
		findings = append(findings, Finding{
			Code:     CodeMissingScenarios,
			Message:  "missing scenarios: " + strings.Join(missing, ", "),
			Severity: SeverityError,
		})
	}

	if a.RecommendsTrade() && strings.TrimSpace(a.TradeSetup.StopLoss) == "" {
		findings = append(findings, Finding{
			Code:     CodeTradeWithoutStop,
			Message:  "trade recommended but stop loss is missing",
			Severity: SeverityError,
		})
	}

	if a.Conviction < 1 || a.Conviction > 10 {
		findings = append(findings, Finding{
			Code:     CodeConvictionOutOfRange,
			Message:  fmt.Sprintf("conviction %d outside range [1,10]", a.Conviction),
			Severity: SeverityError,
		})
	}

	if !a.RecommendedApproach.IsValid() {
		findings = append(findings, Finding{
			Code:     CodeInvalidApproach,
			Message:  fmt.Sprintf("unknown recommended approach %q", a.RecommendedApproach),
			Severity: SeverityError,
		})
	}

	return findings
}

// ValidatePostEvent runs every post-event consistency check and accumulates
// findings.
func ValidatePostEvent(a *domain.PostEventAnalysis) []Finding {
	findings := make([]Finding, 0, 4)

	bigSurprise := a.SurpriseCategory == domain.SurpriseBigBeat || a.SurpriseCategory == domain.SurpriseBigMiss
	if bigSurprise && a.Conviction < 5 {
		findings = append(findings, Finding{
			Code:     CodeBigSurpriseLowConviction,
			Message:  fmt.Sprintf("%s surprise with conviction %d", a.SurpriseCategory, a.Conviction),
			Severity: SeverityWarning,
		})
	}

	if a.Urgency == domain.UrgencyImmediate && !a.RecommendsTrade() {
		findings = append(findings, Finding{
			Code:     CodeImmediateUrgencyNoTrade,
			Message:  "immediate urgency with no trade recommended",
			Severity: SeverityWarning,
		})
	}

	if a.RecommendsTrade() && a.TradeSetup.RiskReward == domain.RiskRewardPoor {
		findings = append(findings, Finding{
			Code:     CodePoorRiskRewardTrade,
			Message:  "trade recommended with poor risk/reward",
			Severity: SeverityWarning,
		})
	}

	if a.Conviction >= 8 && !a.RecommendsTrade() {
		findings = append(findings, Finding{
			Code:     CodeHighConvictionNoTrade,
			Message:  fmt.Sprintf("conviction %d with no trade recommended", a.Conviction),
			Severity: SeverityWarning,
		})
	}

	if a.RecommendsTrade() && strings.TrimSpace(a.TradeSetup.StopLoss) == "" {
		findings = append(findings, Finding{
			Code:     CodeTradeWithoutStop,
			Message:  "trade recommended but stop loss is missing",
			Severity: SeverityError,
		})
	}

	if !a.Urgency.IsValid() {
		findings = append(findings, Finding{
			Code:     CodeInvalidUrgency,
			Message:  fmt.Sprintf("unknown urgency %q", a.Urgency),
			Severity: SeverityError,
		})
	}

	if !a.Action.IsValid() {
		findings = append(findings, Finding{
			Code:     CodeInvalidAction,
			Message:  fmt.Sprintf("unknown action %q", a.Action),
			Severity: SeverityError,
		})
	}

	return findings
}

func missingScenarios(scenarios map[domain.ScenarioKey]domain.Scenario) []string {
	missing := make([]string, 0, len(domain.RequiredScenarios))
	for _, key := range domain.RequiredScenarios {
		if _, ok := scenarios[key]; !ok {
			missing = append(missing, string(key))
		}
	}
	return missing
}
