package github

import (
	"context"
	"time"

	"github.com/kkusima/commitpulse/internal/stats"
	"github.com/kkusima/commitpulse/pkg/logger"
	"github.com/kkusima/commitpulse/pkg/redis"
)

// CachedFetcher wraps a Fetcher with a Redis-backed calendar cache. Years
// that are already over never change, so they get the long TTL; the current
// year uses the short one. With Redis disabled every call goes upstream.
type CachedFetcher struct {
	inner  Fetcher
	cache  *redis.Cache
	logger *logger.Logger
	now    func() time.Time
}

// NewCachedFetcher creates a caching wrapper around fetcher.
func NewCachedFetcher(inner Fetcher, cache *redis.Cache, log *logger.Logger) *CachedFetcher {
	return &CachedFetcher{
		inner:  inner,
		cache:  cache,
		logger: log,
		now:    time.Now,
	}
}

// FetchYear returns the cached calendar when present, otherwise delegates
// and populates the cache. Cache failures degrade to a direct fetch.
func (f *CachedFetcher) FetchYear(ctx context.Context, username string, year int) ([]stats.DayRecord, error) {
	key := redis.CalendarKey(username, year)

	var cached []stats.DayRecord
	found, err := f.cache.Get(ctx, key, &cached)
	if err != nil {
		f.logger.WithError(err).Warn("Calendar cache read failed")
	}
	if found {
		f.logger.WithField("key", key).Debug("Calendar cache hit")
		return cached, nil
	}

	records, err := f.inner.FetchYear(ctx, username, year)
	if err != nil {
		return nil, err
	}

	ttl := redis.TTLShort
	if year < f.now().UTC().Year() {
		ttl = redis.TTLDaily
	}
	if err := f.cache.Set(ctx, key, records, ttl); err != nil {
		f.logger.WithError(err).Warn("Calendar cache write failed")
	}

	return records, nil
}
