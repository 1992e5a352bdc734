package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kkusima/commitpulse/internal/stats"
	"github.com/kkusima/commitpulse/pkg/httputil"
)

const calendarHTML = `
<table>
  <tbody>
    <tr>
      <td data-date="2026-01-01" data-level="0" id="day-1"></td>
      <td data-date="2026-01-02" data-level="2" id="day-2"></td>
      <td data-date="2026-01-03" data-level="4" id="day-3"></td>
    </tr>
  </tbody>
  <tool-tip for="day-1">No contributions on January 1st.</tool-tip>
  <tool-tip for="day-2">6 contributions on January 2nd.</tool-tip>
  <tool-tip for="day-3">18 contributions on January 3rd.</tool-tip>
</table>`

func TestParseCalendarDoc(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(calendarHTML))
	require.NoError(t, err)

	records, err := parseCalendarDoc(doc)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), records[0].Date)
	assert.Equal(t, 0, records[0].Count)
	assert.Equal(t, stats.LevelNone, records[0].Level)

	assert.Equal(t, 6, records[1].Count)
	assert.Equal(t, stats.LevelSecondQuartile, records[1].Level)

	assert.Equal(t, 18, records[2].Count)
	assert.Equal(t, stats.LevelFourthQuartile, records[2].Level)
}

func TestParseCalendarDoc_LevelFallbackWithoutTooltip(t *testing.T) {
	html := `<table><tr><td data-date="2026-02-01" data-level="3"></td></tr></table>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	records, err := parseCalendarDoc(doc)
	require.NoError(t, err)
	require.Len(t, records, 1)

	// No tooltip text; the level stands in as the count proxy
	assert.Equal(t, 3, records[0].Count)
	assert.Equal(t, stats.LevelThirdQuartile, records[0].Level)
}

func TestParseCalendarDoc_CountInCellText(t *testing.T) {
	html := `<table><tr><td data-date="2026-03-01" data-level="1">2 contributions</td></tr></table>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	records, err := parseCalendarDoc(doc)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 2, records[0].Count)
}

func TestParseCalendarDoc_Empty(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body></body></html>"))
	require.NoError(t, err)

	_, err = parseCalendarDoc(doc)
	require.Error(t, err)
}

func TestScraper_FetchYear(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/users/kkusima/contributions")
		assert.Equal(t, "2026-01-01", r.URL.Query().Get("from"))
		w.Write([]byte(calendarHTML))
	}))
	defer server.Close()

	log := testLogger()
	scraper := NewScraper(httputil.New(log).DisableRetry(), log, server.URL)

	records, err := scraper.FetchYear(context.Background(), "kkusima", 2026)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Counts come from the tooltips, not the 0-4 intensity levels
	assert.Equal(t, 0, records[0].Count)
	assert.Equal(t, 6, records[1].Count)
	assert.Equal(t, 18, records[2].Count)
}

func TestScraper_FetchYearNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	log := testLogger()
	scraper := NewScraper(httputil.New(log).DisableRetry(), log, server.URL)

	_, err := scraper.FetchYear(context.Background(), "ghost", 2026)
	require.Error(t, err)
}
