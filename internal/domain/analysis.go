package domain

import "time"

type ScenarioKey string

const (
	ScenarioBigBeat   ScenarioKey = "bigBeat"
	ScenarioSmallBeat ScenarioKey = "smallBeat"
	ScenarioInline    ScenarioKey = "inline"
	ScenarioSmallMiss ScenarioKey = "smallMiss"
	ScenarioBigMiss   ScenarioKey = "bigMiss"
)

// RequiredScenarios lists the five scenario keys every pre-event analysis
// must carry, in canonical order.
var RequiredScenarios = []ScenarioKey{
	ScenarioBigBeat,
	ScenarioSmallBeat,
	ScenarioInline,
	ScenarioSmallMiss,
	ScenarioBigMiss,
}

// Scenario describes the expected market reaction for one surprise outcome.
type Scenario struct {
	Reaction string `json:"reaction"`
	Bias     string `json:"bias,omitempty"`
}

type Approach string

const (
	ApproachPositionBefore Approach = "position_before"
	ApproachWaitAndReact   Approach = "wait_and_react"
	ApproachFadeMove       Approach = "fade_move"
	ApproachNoTrade        Approach = "no_trade"
)

func (a Approach) IsValid() bool {
	switch a {
	case ApproachPositionBefore, ApproachWaitAndReact, ApproachFadeMove, ApproachNoTrade:
		return true
	}
	return false
}

type Urgency string

const (
	UrgencyImmediate Urgency = "immediate"
	UrgencySoon      Urgency = "soon"
	UrgencyPatient   Urgency = "patient"
)

func (u Urgency) IsValid() bool {
	switch u {
	case UrgencyImmediate, UrgencySoon, UrgencyPatient:
		return true
	}
	return false
}

type Action string

const (
	ActionTradeContinuation Action = "trade_continuation"
	ActionFadeMove          Action = "fade_move"
	ActionWaitConfirmation  Action = "wait_confirmation"
	ActionNoTrade           Action = "no_trade"
)

func (a Action) IsValid() bool {
	switch a {
	case ActionTradeContinuation, ActionFadeMove, ActionWaitConfirmation, ActionNoTrade:
		return true
	}
	return false
}

type RiskReward string

const (
	RiskRewardExcellent RiskReward = "excellent"
	RiskRewardGood      RiskReward = "good"
	RiskRewardFair      RiskReward = "fair"
	RiskRewardPoor      RiskReward = "poor"
)

type TradeSetup struct {
	HasTrade       bool       `json:"has_trade"`
	EntryCondition string     `json:"entry_condition,omitempty"`
	StopLoss       string     `json:"stop_loss,omitempty"`
	TakeProfit     string     `json:"take_profit,omitempty"`
	RiskReward     RiskReward `json:"risk_reward,omitempty"`
}

// PreEventAnalysis is a forward-looking assessment tied to one event by
// date+name.
type PreEventAnalysis struct {
	EventName           string                   `json:"event_name"`
	EventDate           time.Time                `json:"event_date"`
	Scenarios           map[ScenarioKey]Scenario `json:"scenarios"`
	Conviction          int                      `json:"conviction"`
	RecommendedApproach Approach                 `json:"recommended_approach"`
	TradeSetup          *TradeSetup              `json:"trade_setup,omitempty"`
}

// RecommendsTrade reports whether the analysis carries an actionable trade.
func (a *PreEventAnalysis) RecommendsTrade() bool {
	return a.TradeSetup != nil && a.TradeSetup.HasTrade
}

// PostEventAnalysis is a backward-looking assessment created after release.
type PostEventAnalysis struct {
	EventName        string           `json:"event_name"`
	EventDate        time.Time        `json:"event_date"`
	SurpriseCategory SurpriseCategory `json:"surprise_category"`
	Conviction       int              `json:"conviction"`
	Urgency          Urgency          `json:"urgency"`
	Action           Action           `json:"action"`
	TradeSetup       *TradeSetup      `json:"trade_setup,omitempty"`
}

func (a *PostEventAnalysis) RecommendsTrade() bool {
	return a.TradeSetup != nil && a.TradeSetup.HasTrade
}
