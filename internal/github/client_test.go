package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/kkusima/commitpulse/internal/stats"
	"github.com/kkusima/commitpulse/pkg/config"
	"github.com/kkusima/commitpulse/pkg/httputil"
	"github.com/kkusima/commitpulse/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{
		Env:       "development",
		LogLevel:  "error",
		LogFormat: "json",
	})
}

const calendarResponse = `{
  "data": {
    "user": {
      "contributionsCollection": {
        "contributionCalendar": {
          "totalContributions": 7,
          "weeks": [
            {
              "contributionDays": [
                {"contributionCount": 3, "contributionLevel": "FIRST_QUARTILE", "date": "2026-01-01"},
                {"contributionCount": 0, "contributionLevel": "NONE", "date": "2026-01-02"},
                {"contributionCount": 4, "contributionLevel": "SECOND_QUARTILE", "date": "2026-01-03"}
              ]
            }
          ]
        }
      }
    }
  }
}`

func TestClient_FetchYear(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var req graphQLRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "kkusima", req.Variables["username"])
		assert.Equal(t, "2026-01-01T00:00:00Z", req.Variables["from"])
		assert.Equal(t, "2026-12-31T23:59:59Z", req.Variables["to"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(calendarResponse))
	}))
	defer server.Close()

	log := testLogger()
	client := NewClient(httputil.New(log).DisableRetry(), log, server.URL, "test-token")

	records, err := client.FetchYear(context.Background(), "kkusima", 2026)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), records[0].Date)
	assert.Equal(t, 3, records[0].Count)
	assert.Equal(t, stats.LevelFirstQuartile, records[0].Level)

	assert.Equal(t, 0, records[1].Count)
	assert.Equal(t, stats.LevelNone, records[1].Level)
}

func TestClient_FetchYearGraphQLError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"Could not resolve to a User"}]}`))
	}))
	defer server.Close()

	log := testLogger()
	client := NewClient(httputil.New(log).DisableRetry(), log, server.URL, "test-token")

	_, err := client.FetchYear(context.Background(), "nobody", 2026)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Could not resolve to a User")
}

func TestClient_FetchYearHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	}))
	defer server.Close()

	log := testLogger()
	client := NewClient(httputil.New(log).DisableRetry(), log, server.URL, "bad-token")

	_, err := client.FetchYear(context.Background(), "kkusima", 2026)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestClient_LimiterPerClient(t *testing.T) {
	log := testLogger()
	a := NewClient(httputil.New(log), log, "https://api.github.com/graphql", "t1")
	b := NewClient(httputil.New(log), log, "https://api.github.com/graphql", "t2")

	// Each client throttles independently
	assert.NotSame(t, a.limiter, b.limiter)
}

func TestClient_FetchYearLimiterExhausted(t *testing.T) {
	log := testLogger()
	client := NewClient(httputil.New(log).DisableRetry(), log, "https://api.github.com/graphql", "t").
		WithLimiter(rate.NewLimiter(0, 0))

	_, err := client.FetchYear(context.Background(), "kkusima", 2026)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
}

func TestDecodeCalendar_BadDate(t *testing.T) {
	body := `{"data":{"user":{"contributionsCollection":{"contributionCalendar":{
		"totalContributions":1,
		"weeks":[{"contributionDays":[{"contributionCount":1,"contributionLevel":"FIRST_QUARTILE","date":"01/02/2026"}]}]
	}}}}}`

	_, _, err := decodeCalendar([]byte(body))
	require.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, stats.LevelNone, ParseLevel("NONE"))
	assert.Equal(t, stats.LevelFourthQuartile, ParseLevel("FOURTH_QUARTILE"))
	assert.Equal(t, stats.LevelUnknown, ParseLevel(""))
	assert.Equal(t, stats.LevelUnknown, ParseLevel("SOMETHING_NEW"))
}
