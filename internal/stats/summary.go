package stats

// Tier is the categorical consistency bucket. It drives both the text label
// and the badge accent color, so the thresholds live in one place only.
type Tier string

const (
	TierExcellent Tier = "excellent"
	TierGood      Tier = "good"
	TierModerate  Tier = "moderate"
	TierNeedsWork Tier = "needs-work"
)

// TierFor classifies a consistency percentage. Boundaries are closed at the
// lower bound: exactly 80.0 is excellent.
func TierFor(percent float64) Tier {
	switch {
	case percent >= 80:
		return TierExcellent
	case percent >= 60:
		return TierGood
	case percent >= 40:
		return TierModerate
	default:
		return TierNeedsWork
	}
}

// Summary is the aggregation result for one user-year. Immutable once
// produced; every field is derived inside Summarize.
type Summary struct {
	ActiveDays         int     `json:"active_days"`
	TotalActivity      int     `json:"total_activity"`
	ElapsedDays        int     `json:"elapsed_days"`
	ConsistencyPercent float64 `json:"consistency_percent"`
	Tier               Tier    `json:"tier"`
}
