package github

import (
	"context"
	"fmt"
	"time"

	"github.com/kkusima/commitpulse/internal/stats"
)

// Fetcher produces one year of per-day contribution records for a user.
// Implemented by the GraphQL client (token) and the calendar scraper
// (public profile, no token).
type Fetcher interface {
	FetchYear(ctx context.Context, username string, year int) ([]stats.DayRecord, error)
}

// contributionLevels maps the GraphQL ContributionLevel enum onto the
// categorical activity signal.
var contributionLevels = map[string]stats.Level{
	"NONE":            stats.LevelNone,
	"FIRST_QUARTILE":  stats.LevelFirstQuartile,
	"SECOND_QUARTILE": stats.LevelSecondQuartile,
	"THIRD_QUARTILE":  stats.LevelThirdQuartile,
	"FOURTH_QUARTILE": stats.LevelFourthQuartile,
}

// ParseLevel converts a GraphQL contribution level string. Unrecognized
// values degrade to LevelUnknown so the count signal still applies.
func ParseLevel(s string) stats.Level {
	if lvl, ok := contributionLevels[s]; ok {
		return lvl
	}
	return stats.LevelUnknown
}

// parseDay parses the calendar date format used by both the API and the
// contributions page.
func parseDay(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid contribution date %q: %w", s, err)
	}
	return t, nil
}
