// Package scoring implements the priomage priority scoring engine.
// It maps a work item's labels and custom fields to a bounded urgency
// score with a full, reproducible breakdown. Lower scores mean higher
// urgency.
package scoring

// Level is the discrete urgency band derived from a score.
type Level string

const (
	LevelCritical Level = "Critical"
	LevelHigh     Level = "High"
	LevelMedium   Level = "Medium"
	LevelLow      Level = "Low"
	LevelBacklog  Level = "Backlog"
	LevelIcebox   Level = "Icebox"
)

// LevelFromScore maps a priority score to its level. Lower scores are
// more urgent.
func LevelFromScore(score float64) Level {
	switch {
	case score < 10:
		return LevelCritical
	case score <= 20:
		return LevelHigh
	case score <= 50:
		return LevelMedium
	case score <= 100:
		return LevelLow
	case score <= 160:
		return LevelBacklog
	default:
		return LevelIcebox
	}
}

// Explanation is the complete audit trail of one priority computation.
// Every intermediate quantity of the formula is exposed so the result
// can be reproduced from the reported numbers alone. Immutable once
// computed.
//
// Pointer fields are nil when the corresponding term did not apply:
// the logistic denominators when the exponential overflowed, the
// due-date block when no parseable due date was present.
type Explanation struct {
	TotalScore       float64 `json:"total_score"`
	Level            Level   `json:"priority_level"`
	CriticalOverride bool    `json:"critical_override"`

	BaseGoalWeight   float64 `json:"base_goal_weight"`
	StatusMultiplier float64 `json:"status_multiplier"`
	GoalWeight       float64 `json:"goal_weight"` // base weight x status multiplier
	Impact           float64 `json:"impact"`
	EffortDays       float64 `json:"effort_days"`

	GoalImpactProduct float64  `json:"goal_impact_product"` // P = goal weight x impact
	EffortThreshold   float64  `json:"effort_threshold"`    // 0.05*P + 5
	EffortDenominator *float64 `json:"effort_logistic_denominator,omitempty"`
	BaseScore         float64  `json:"base_score"` // S, before due-date urgency

	DaysTillDue       *float64 `json:"days_till_due,omitempty"`
	MedianWorkingTime *float64 `json:"median_working_time,omitempty"`
	DueDenominator    *float64 `json:"due_date_logistic_denominator,omitempty"`

	FinalBeforeClamp float64 `json:"final_before_clamp"`
}
