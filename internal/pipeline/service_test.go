package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kkusima/commitpulse/internal/stats"
	"github.com/kkusima/commitpulse/pkg/config"
	"github.com/kkusima/commitpulse/pkg/logger"
)

type fakeFetcher struct {
	records []stats.DayRecord
	err     error
	calls   int
}

func (f *fakeFetcher) FetchYear(ctx context.Context, username string, year int) ([]stats.DayRecord, error) {
	f.calls++
	return f.records, f.err
}

func testLogger() *logger.Logger {
	return logger.New(&config.Config{
		Env:       "development",
		LogLevel:  "error",
		LogFormat: "json",
	})
}

func fixedClock() func() time.Time {
	asOf := time.Date(2026, 1, 31, 9, 30, 0, 0, time.UTC)
	return func() time.Time { return asOf }
}

func janRecords(n, countPerDay int) []stats.DayRecord {
	var records []stats.DayRecord
	for i := 1; i <= n; i++ {
		records = append(records, stats.DayRecord{
			Date:  time.Date(2026, 1, i, 0, 0, 0, 0, time.UTC),
			Count: countPerDay,
			Level: stats.LevelUnknown,
		})
	}
	return records
}

func TestService_Generate(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "badge.svg")

	fetcher := &fakeFetcher{records: janRecords(25, 4)}
	svc := NewService(Config{
		Username:   "kkusima",
		Year:       2026,
		OutputPath: output,
	}, fetcher, nil, nil, testLogger()).WithClock(fixedClock())

	result, err := svc.Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 25, result.Summary.ActiveDays)
	assert.Equal(t, 31, result.Summary.ElapsedDays)
	assert.Equal(t, 100, result.Summary.TotalActivity)
	assert.Equal(t, stats.TierExcellent, result.Summary.Tier)

	// The badge file is the rendered SVG, written atomically
	written, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, result.SVG, written)
	assert.Contains(t, string(written), "2026 Commit Activity")

	// No temp files left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestService_GenerateDeterministic(t *testing.T) {
	fetcher := &fakeFetcher{records: janRecords(10, 2)}
	svc := NewService(Config{Username: "kkusima", Year: 2026}, fetcher, nil, nil, testLogger()).
		WithClock(fixedClock())

	first, err := svc.Generate(context.Background())
	require.NoError(t, err)
	second, err := svc.Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.SVG, second.SVG)
}

func TestService_GenerateFetchError(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("api down")}
	svc := NewService(Config{Username: "kkusima", Year: 2026}, fetcher, nil, nil, testLogger()).
		WithClock(fixedClock())

	_, err := svc.Generate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch contributions")
}

func TestService_GenerateInvalidRecords(t *testing.T) {
	fetcher := &fakeFetcher{records: []stats.DayRecord{
		{Date: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), Count: -3},
	}}
	svc := NewService(Config{Username: "kkusima", Year: 2026}, fetcher, nil, nil, testLogger()).
		WithClock(fixedClock())

	_, err := svc.Generate(context.Background())
	require.ErrorIs(t, err, stats.ErrInvalidInput)
}

func TestService_Listeners(t *testing.T) {
	fetcher := &fakeFetcher{records: janRecords(5, 1)}
	svc := NewService(Config{Username: "kkusima", Year: 2026}, fetcher, nil, nil, testLogger()).
		WithClock(fixedClock())

	var got *Result
	svc.Subscribe(func(r *Result) { got = r })

	result, err := svc.Generate(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, result, got)
}

func TestWriteFileAtomic_Overwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.svg")

	require.NoError(t, writeFileAtomic(path, []byte("first")))
	require.NoError(t, writeFileAtomic(path, []byte("second")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}
