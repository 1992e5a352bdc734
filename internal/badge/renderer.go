package badge

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/kkusima/commitpulse/internal/stats"
)

// Ring geometry. The progress arc is drawn with stroke-dasharray on a circle
// rotated so the gap starts at 12 o'clock and sweeps clockwise.
const (
	ringRadius = 54.0
	cardWidth  = 400
	cardHeight = 160
	fontFamily = "Segoe UI, sans-serif"
)

// Render maps a summary to a self-contained SVG badge. Pure function:
// identical inputs produce byte-identical output, so generatedAt must be
// supplied by the caller rather than read from a clock.
func Render(summary *stats.Summary, year int, generatedAt time.Time) ([]byte, error) {
	if summary == nil {
		return nil, fmt.Errorf("%w: nil summary", stats.ErrInvalidInput)
	}
	if summary.ElapsedDays < 0 {
		return nil, fmt.Errorf("%w: negative elapsed days %d", stats.ErrInvalidInput, summary.ElapsedDays)
	}
	if summary.ConsistencyPercent < 0 || summary.ConsistencyPercent > 100 {
		return nil, fmt.Errorf("%w: consistency percent %.3f outside [0,100]",
			stats.ErrInvalidInput, summary.ConsistencyPercent)
	}

	circumference := 2 * math.Pi * ringRadius
	progressLength := summary.ConsistencyPercent / 100 * circumference
	accent := accentColor(summary.Tier)

	var b strings.Builder
	b.Grow(2048)

	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		cardWidth, cardHeight, cardWidth, cardHeight)
	fmt.Fprintf(&b, "\n  <!-- generated %s -->\n", generatedAt.UTC().Format(time.RFC3339))

	b.WriteString(`  <defs>
    <linearGradient id="bgGrad" x1="0%" y1="0%" x2="100%" y2="100%">
      <stop offset="0%" style="stop-color:` + colorBackground1 + `;stop-opacity:1" />
      <stop offset="100%" style="stop-color:` + colorBackground2 + `;stop-opacity:1" />
    </linearGradient>
  </defs>
`)

	// Background card
	fmt.Fprintf(&b, `  <rect width="%d" height="%d" rx="12" fill="url(#bgGrad)" stroke="%s" stroke-width="1"/>`,
		cardWidth, cardHeight, colorBorder)
	b.WriteString("\n")

	// Progress ring
	b.WriteString(`  <g transform="translate(80, 80)">` + "\n")
	fmt.Fprintf(&b, `    <circle cx="0" cy="0" r="%.0f" fill="none" stroke="%s" stroke-width="8"/>`,
		ringRadius, colorTrack)
	b.WriteString("\n")
	fmt.Fprintf(&b, `    <circle cx="0" cy="0" r="%.0f" fill="none" stroke="%s" stroke-width="8" stroke-dasharray="%.1f %.1f" stroke-linecap="round" transform="rotate(-90)"/>`,
		ringRadius, accent, progressLength, circumference)
	b.WriteString("\n")
	fmt.Fprintf(&b, `    <text x="0" y="-8" text-anchor="middle" fill="%s" font-family="%s" font-size="28" font-weight="bold">%d</text>`,
		colorText, fontFamily, summary.ActiveDays)
	b.WriteString("\n")
	fmt.Fprintf(&b, `    <text x="0" y="14" text-anchor="middle" fill="%s" font-family="%s" font-size="11">days</text>`,
		colorMuted, fontFamily)
	b.WriteString("\n  </g>\n")

	// Stats panel
	b.WriteString(`  <g transform="translate(170, 45)">` + "\n")
	fmt.Fprintf(&b, `    <text x="0" y="0" fill="%s" font-family="%s" font-size="14" font-weight="600">%d Commit Activity</text>`,
		colorHeading, fontFamily, year)
	b.WriteString("\n")
	fmt.Fprintf(&b, `    <text x="0" y="32" fill="%s" font-family="%s" font-size="12">Days with commits</text>`,
		colorMuted, fontFamily)
	b.WriteString("\n")
	fmt.Fprintf(&b, `    <text x="0" y="50" fill="%s" font-family="%s" font-size="16" font-weight="500">%d / %d</text>`,
		colorText, fontFamily, summary.ActiveDays, summary.ElapsedDays)
	b.WriteString("\n")
	fmt.Fprintf(&b, `    <text x="0" y="78" fill="%s" font-family="%s" font-size="12">Total contributions</text>`,
		colorMuted, fontFamily)
	b.WriteString("\n")
	fmt.Fprintf(&b, `    <text x="0" y="96" fill="%s" font-family="%s" font-size="16" font-weight="500">%s</text>`,
		colorText, fontFamily, formatThousands(summary.TotalActivity))
	b.WriteString("\n  </g>\n")

	// Consistency footer
	b.WriteString(`  <g transform="translate(320, 130)">` + "\n")
	fmt.Fprintf(&b, `    <text x="0" y="0" text-anchor="end" fill="%s" font-family="%s" font-size="10">%s%% consistency</text>`,
		colorMuted, fontFamily, formatPercent(summary.ConsistencyPercent))
	b.WriteString("\n  </g>\n")

	b.WriteString("</svg>\n")

	return []byte(b.String()), nil
}

// formatPercent rounds half up to a whole percentage label.
func formatPercent(percent float64) string {
	return strconv.Itoa(int(math.Floor(percent + 0.5)))
}

// formatThousands renders n with comma separators (1234567 -> "1,234,567").
func formatThousands(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
