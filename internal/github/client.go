package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/kkusima/commitpulse/internal/stats"
	"github.com/kkusima/commitpulse/pkg/httputil"
	"github.com/kkusima/commitpulse/pkg/logger"
)

// contributionsQuery asks the GraphQL API for the full contribution
// calendar of one year, one row per day.
const contributionsQuery = `
query($username: String!, $from: DateTime!, $to: DateTime!) {
  user(login: $username) {
    contributionsCollection(from: $from, to: $to) {
      contributionCalendar {
        totalContributions
        weeks {
          contributionDays {
            contributionCount
            contributionLevel
            date
          }
        }
      }
    }
  }
}`

// Client fetches contribution calendars from the GitHub GraphQL API.
// Each client owns its request limiter; GitHub allows 5000 GraphQL
// points/hour and one calendar query needs far less, the limiter just
// keeps a misconfigured scheduler polite.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	limiter    *rate.Limiter
	apiURL     string
	token      string
}

// NewClient creates a new GraphQL API client. The token is required; use
// the Scraper for tokenless operation.
func NewClient(httpClient *httputil.Client, log *logger.Logger, apiURL, token string) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		limiter:    rate.NewLimiter(rate.Limit(1), 5),
		apiURL:     apiURL,
		token:      token,
	}
}

// WithLimiter replaces the default request limiter.
func (c *Client) WithLimiter(limiter *rate.Limiter) *Client {
	c.limiter = limiter
	return c
}

// graphQL wire types

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

type graphQLResponse struct {
	Data struct {
		User struct {
			ContributionsCollection struct {
				ContributionCalendar contributionCalendar `json:"contributionCalendar"`
			} `json:"contributionsCollection"`
		} `json:"user"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type contributionCalendar struct {
	TotalContributions int `json:"totalContributions"`
	Weeks              []struct {
		ContributionDays []contributionDay `json:"contributionDays"`
	} `json:"weeks"`
}

type contributionDay struct {
	ContributionCount int    `json:"contributionCount"`
	ContributionLevel string `json:"contributionLevel"`
	Date              string `json:"date"`
}

// FetchYear retrieves the contribution calendar for one user-year.
func (c *Client) FetchYear(ctx context.Context, username string, year int) ([]stats.DayRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed: %w", err)
	}

	req := graphQLRequest{
		Query: contributionsQuery,
		Variables: map[string]interface{}{
			"username": username,
			"from":     fmt.Sprintf("%d-01-01T00:00:00Z", year),
			"to":       fmt.Sprintf("%d-12-31T23:59:59Z", year),
		},
	}

	headers := map[string]string{
		"Authorization": "Bearer " + c.token,
	}

	resp, err := c.httpClient.PostJSON(ctx, c.apiURL, req, headers)
	if err != nil {
		return nil, fmt.Errorf("graphql request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("graphql request returned status %d: %s", resp.StatusCode, body)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read graphql response: %w", err)
	}

	records, total, err := decodeCalendar(body)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"username": username,
		"year":     year,
		"days":     len(records),
		"total":    total,
	}).Debug("Fetched contribution calendar")

	return records, nil
}

// decodeCalendar flattens the week/day GraphQL shape into day records.
func decodeCalendar(body []byte) ([]stats.DayRecord, int, error) {
	var decoded graphQLResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, 0, fmt.Errorf("failed to decode graphql response: %w", err)
	}

	if len(decoded.Errors) > 0 {
		return nil, 0, fmt.Errorf("graphql error: %s", decoded.Errors[0].Message)
	}

	calendar := decoded.Data.User.ContributionsCollection.ContributionCalendar

	var records []stats.DayRecord
	for _, week := range calendar.Weeks {
		for _, d := range week.ContributionDays {
			date, err := parseDay(d.Date)
			if err != nil {
				return nil, 0, err
			}
			records = append(records, stats.DayRecord{
				Date:  date,
				Count: d.ContributionCount,
				Level: ParseLevel(d.ContributionLevel),
			})
		}
	}

	return records, calendar.TotalContributions, nil
}
