package badge

import "github.com/kkusima/commitpulse/internal/stats"

// GitHub contribution graph palette. One accent color per consistency tier;
// the tier boundaries themselves live in the stats package so color and
// label can never disagree.
const (
	colorExcellent = "#40c463"
	colorGood      = "#9be9a8"
	colorModerate  = "#ffd33d"
	colorNeedsWork = "#f97583"

	colorBackground1 = "#0d1117"
	colorBackground2 = "#161b22"
	colorBorder      = "#30363d"
	colorTrack       = "#21262d"
	colorHeading     = "#58a6ff"
	colorText        = "#ffffff"
	colorMuted       = "#8b949e"
)

// accentColor maps a tier to its ring/headline color.
func accentColor(tier stats.Tier) string {
	switch tier {
	case stats.TierExcellent:
		return colorExcellent
	case stats.TierGood:
		return colorGood
	case stats.TierModerate:
		return colorModerate
	default:
		return colorNeedsWork
	}
}
