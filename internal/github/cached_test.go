package github

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kkusima/commitpulse/internal/stats"
	"github.com/kkusima/commitpulse/pkg/config"
	"github.com/kkusima/commitpulse/pkg/redis"
)

type countingFetcher struct {
	calls   int
	records []stats.DayRecord
	err     error
}

func (f *countingFetcher) FetchYear(ctx context.Context, username string, year int) ([]stats.DayRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func disabledCache(t *testing.T) *redis.Cache {
	t.Helper()

	client, err := redis.New(&config.Config{
		Redis: config.RedisConfig{Enabled: false},
	})
	require.NoError(t, err)

	return redis.NewCache(client, "commitpulse")
}

func TestCachedFetcher_DisabledRedisAlwaysDelegates(t *testing.T) {
	inner := &countingFetcher{
		records: []stats.DayRecord{
			{Date: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), Count: 3, Level: stats.LevelSecondQuartile},
		},
	}
	fetcher := NewCachedFetcher(inner, disabledCache(t), testLogger())

	ctx := context.Background()

	first, err := fetcher.FetchYear(ctx, "kkusima", 2026)
	require.NoError(t, err)
	assert.Equal(t, inner.records, first)

	second, err := fetcher.FetchYear(ctx, "kkusima", 2026)
	require.NoError(t, err)
	assert.Equal(t, inner.records, second)

	// No cache available, so both calls go upstream
	assert.Equal(t, 2, inner.calls)
}

func TestCachedFetcher_UpstreamErrorPropagates(t *testing.T) {
	upstreamErr := errors.New("graphql unavailable")
	inner := &countingFetcher{err: upstreamErr}
	fetcher := NewCachedFetcher(inner, disabledCache(t), testLogger())

	_, err := fetcher.FetchYear(context.Background(), "kkusima", 2026)
	assert.ErrorIs(t, err, upstreamErr)
	assert.Equal(t, 1, inner.calls)
}
