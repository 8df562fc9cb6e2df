package models

import (
	"time"
)

// Indicator keys used in SentimentResult.Signals and the weight table.
const (
	IndicatorVIX            = "vix"
	IndicatorSPYTrend       = "spy_trend"
	IndicatorQQQTrend       = "qqq_trend"
	IndicatorPutCall        = "put_call"
	IndicatorSectorRotation = "sector_rotation"
	IndicatorBreadth        = "breadth"
	IndicatorVolume         = "volume"
	IndicatorAITech         = "ai_tech"
	IndicatorLeverage       = "leverage"
)

// IndicatorOrder is the display order for detailed signal reports.
var IndicatorOrder = []string{
	IndicatorVIX,
	IndicatorSPYTrend,
	IndicatorQQQTrend,
	IndicatorPutCall,
	IndicatorSectorRotation,
	IndicatorBreadth,
	IndicatorVolume,
	IndicatorAITech,
	IndicatorLeverage,
}

// IndicatorSignal is one scorer's output. Score is always in [-10, +10]
// on the indicator's discrete scale. Weight is attached at aggregation
// time from the fixed weight table, not chosen by the scorer.
type IndicatorSignal struct {
	Score  float64 `json:"score"`
	Label  string  `json:"signal"`
	Value  string  `json:"value"`
	Raw    float64 `json:"raw_value,omitempty"`
	Weight float64 `json:"weight"`
}

// Contribution returns the signal's weighted contribution to the composite.
func (s IndicatorSignal) Contribution() float64 {
	return s.Score * s.Weight
}

// SentimentResult is the aggregation output. Constructed fresh on every
// aggregation call and never mutated after return.
type SentimentResult struct {
	Score          float64                    `json:"score"`
	Classification string                     `json:"classification"`
	Recommendation string                     `json:"recommendation"`
	Signals        map[string]IndicatorSignal `json:"signals"`
	Timestamp      time.Time                  `json:"timestamp"`
}

// SentimentHistoryEntry is one persisted day's summary. Date is a calendar
// day in YYYY-MM-DD form with no time component.
type SentimentHistoryEntry struct {
	Date           string  `json:"date"`
	Score          float64 `json:"score"`
	Classification string  `json:"classification"`
}

// SentimentHistory is the persisted rolling log of daily aggregate scores,
// ordered by append, capped at the most recent 90 entries.
type SentimentHistory struct {
	DailyScores []SentimentHistoryEntry `json:"daily_scores"`
}
