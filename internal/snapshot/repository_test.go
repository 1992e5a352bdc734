package snapshot

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kkusima/commitpulse/internal/stats"
)

// Integration test; needs a local PostgreSQL instance.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), connString)
	require.NoError(t, err, "database connection failed")
	t.Cleanup(pool.Close)

	return pool
}

func TestRepository_SaveAndLatest(t *testing.T) {
	pool := testPool(t)
	repo := NewRepository(pool)

	ctx := context.Background()
	require.NoError(t, repo.EnsureSchema(ctx))

	base := time.Date(2026, 1, 31, 10, 0, 0, 0, time.UTC)

	first := &Snapshot{
		Username:           "repo-test-user",
		Year:               2026,
		ActiveDays:         20,
		TotalActivity:      80,
		ElapsedDays:        31,
		ConsistencyPercent: 64.5,
		Tier:               stats.TierGood,
		SVG:                []byte("<svg/>"),
		GeneratedAt:        base,
	}
	require.NoError(t, repo.Save(ctx, first))
	assert.NotZero(t, first.ID)

	second := &Snapshot{
		Username:           "repo-test-user",
		Year:               2026,
		ActiveDays:         25,
		TotalActivity:      100,
		ElapsedDays:        31,
		ConsistencyPercent: 80.6,
		Tier:               stats.TierExcellent,
		SVG:                []byte("<svg>2</svg>"),
		GeneratedAt:        base.Add(time.Hour),
	}
	require.NoError(t, repo.Save(ctx, second))

	latest, err := repo.Latest(ctx, "repo-test-user", 2026)
	require.NoError(t, err)
	assert.Equal(t, 25, latest.ActiveDays)
	assert.Equal(t, stats.TierExcellent, latest.Tier)
	assert.Equal(t, []byte("<svg>2</svg>"), latest.SVG)

	summary := latest.Summary()
	assert.Equal(t, 25, summary.ActiveDays)
	assert.InDelta(t, 80.6, summary.ConsistencyPercent, 1e-9)

	history, err := repo.History(ctx, "repo-test-user", 2026, 10)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(history), 2)
	assert.True(t, history[0].GeneratedAt.After(history[1].GeneratedAt) ||
		history[0].GeneratedAt.Equal(history[1].GeneratedAt))

	// Cleanup this test's rows
	_, err = pool.Exec(ctx, `DELETE FROM badge_snapshots WHERE username = $1`, "repo-test-user")
	require.NoError(t, err)
}

func TestRepository_LatestNotFound(t *testing.T) {
	pool := testPool(t)
	repo := NewRepository(pool)

	ctx := context.Background()
	require.NoError(t, repo.EnsureSchema(ctx))

	_, err := repo.Latest(ctx, "nobody-here", 1999)
	assert.ErrorIs(t, err, ErrNotFound)
}
