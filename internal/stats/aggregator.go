package stats

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidInput is returned when an argument violates the aggregation
// contract. Invalid statistics are never clamped or defaulted.
var ErrInvalidInput = errors.New("invalid input")

// Derivation selects which signal marks a day as active.
type Derivation int

const (
	// DeriveFromCount marks a day active when its event count is positive.
	DeriveFromCount Derivation = iota

	// DeriveFromLevel marks a day active when its categorical level is not
	// LevelNone. The level is the contribution graph's own ground truth, so
	// it wins over the count when the two disagree.
	DeriveFromLevel
)

// ParseDerivation maps the config value to a Derivation.
func ParseDerivation(s string) (Derivation, error) {
	switch s {
	case "", "count":
		return DeriveFromCount, nil
	case "level":
		return DeriveFromLevel, nil
	default:
		return 0, fmt.Errorf("%w: unknown derivation %q", ErrInvalidInput, s)
	}
}

// Options configures Summarize.
type Options struct {
	Derivation Derivation
}

// Summarize reduces a year's worth of day records to a Summary, anchored to
// an explicit as-of date. The caller supplies "now"; the aggregator never
// reads a clock.
//
// Records outside the target year and records dated after asOf are excluded
// from both ActiveDays and TotalActivity. Records are bucketed per calendar
// day before counting, and the as-of cutoff applies identically to the
// record set and the elapsed-day window, so ActiveDays <= ElapsedDays holds
// by construction.
func Summarize(records []DayRecord, year int, asOf time.Time, opts Options) (*Summary, error) {
	if year < 1 {
		return nil, fmt.Errorf("%w: year %d is not a plausible calendar year", ErrInvalidInput, year)
	}

	asOf = asOf.UTC()
	cutoff := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)

	type dayTotal struct {
		count int
		level Level
	}
	days := make(map[string]*dayTotal)

	for _, rec := range records {
		if rec.Count < 0 {
			return nil, fmt.Errorf("%w: negative count %d on %s",
				ErrInvalidInput, rec.Count, rec.Date.Format("2006-01-02"))
		}

		date := time.Date(rec.Date.Year(), rec.Date.Month(), rec.Date.Day(), 0, 0, 0, 0, time.UTC)

		// Outside the target year
		if date.Year() != year {
			continue
		}

		// Data sources may eagerly return placeholder rows for days that
		// have not happened yet; those must not count.
		if date.After(cutoff) {
			continue
		}

		key := date.Format("2006-01-02")
		dt, ok := days[key]
		if !ok {
			dt = &dayTotal{level: LevelUnknown}
			days[key] = dt
		}
		dt.count += rec.Count
		if rec.Level > dt.level {
			dt.level = rec.Level
		}
	}

	summary := &Summary{
		ElapsedDays: elapsedDays(year, cutoff),
	}

	for _, dt := range days {
		summary.TotalActivity += dt.count
		rec := DayRecord{Count: dt.count, Level: dt.level}
		if rec.Active(opts.Derivation) {
			summary.ActiveDays++
		}
	}

	if summary.ElapsedDays > 0 {
		summary.ConsistencyPercent = 100 * float64(summary.ActiveDays) / float64(summary.ElapsedDays)
	}
	summary.Tier = TierFor(summary.ConsistencyPercent)

	return summary, nil
}

// elapsedDays returns the number of days of the target year that have
// elapsed as of the cutoff date, Jan 1 counting as day 1.
func elapsedDays(year int, cutoff time.Time) int {
	switch {
	case cutoff.Year() == year:
		return cutoff.YearDay()
	case cutoff.Year() > year:
		return daysInYear(year)
	default:
		return 0
	}
}

// daysInYear returns 366 for Gregorian leap years, 365 otherwise.
func daysInYear(year int) int {
	if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
		return 366
	}
	return 365
}
