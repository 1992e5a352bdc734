package stats

import "time"

// Level is the categorical activity signal GitHub attaches to each calendar
// day (the contribution graph quartile). LevelUnknown means the data source
// supplied no categorical signal at all, which is distinct from LevelNone
// (source said "no activity").
type Level int

const (
	LevelUnknown Level = iota - 1
	LevelNone
	LevelFirstQuartile
	LevelSecondQuartile
	LevelThirdQuartile
	LevelFourthQuartile
)

// DayRecord is one calendar day's activity observation.
type DayRecord struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
	Level Level     `json:"level"`
}

// Active reports whether the record counts toward the active-day tally under
// the given derivation policy. When deriving from the categorical level and
// the record carries none, the count is the only signal left.
func (r DayRecord) Active(d Derivation) bool {
	if d == DeriveFromLevel && r.Level != LevelUnknown {
		return r.Level != LevelNone
	}
	return r.Count > 0
}
