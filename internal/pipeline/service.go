package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kkusima/commitpulse/internal/badge"
	"github.com/kkusima/commitpulse/internal/github"
	"github.com/kkusima/commitpulse/internal/observability"
	"github.com/kkusima/commitpulse/internal/snapshot"
	"github.com/kkusima/commitpulse/internal/stats"
	"github.com/kkusima/commitpulse/pkg/logger"
)

// Result is the outcome of one badge generation run.
type Result struct {
	Summary     *stats.Summary `json:"summary"`
	Year        int            `json:"year"`
	Username    string         `json:"username"`
	SVG         []byte         `json:"-"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// Listener receives the result of every successful generation run. The API
// layer uses this to push live updates over websockets.
type Listener func(*Result)

// Service drives the fetch -> summarize -> render -> persist pipeline.
// All inputs that would make runs non-reproducible (the clock, the fetcher)
// are injected.
type Service struct {
	fetcher   github.Fetcher
	repo      *snapshot.Repository // nil when no database is configured
	metrics   *observability.Metrics
	logger    *logger.Logger
	listeners []Listener
	now       func() time.Time

	username   string
	year       int
	derivation stats.Derivation
	outputPath string
}

// Config holds the static generation parameters.
type Config struct {
	Username   string
	Year       int
	Derivation stats.Derivation
	OutputPath string
}

// NewService creates a new pipeline service. repo and metrics may be nil.
func NewService(cfg Config, fetcher github.Fetcher, repo *snapshot.Repository, metrics *observability.Metrics, log *logger.Logger) *Service {
	return &Service{
		fetcher:    fetcher,
		repo:       repo,
		metrics:    metrics,
		logger:     log,
		now:        time.Now,
		username:   cfg.Username,
		year:       cfg.Year,
		derivation: cfg.Derivation,
		outputPath: cfg.OutputPath,
	}
}

// WithClock overrides the time source. Tests use this to pin asOf.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Subscribe registers a listener invoked after every successful run.
func (s *Service) Subscribe(l Listener) {
	s.listeners = append(s.listeners, l)
}

// Generate runs the full pipeline once and returns the result.
func (s *Service) Generate(ctx context.Context) (*Result, error) {
	asOf := s.now().UTC()

	log := s.logger.WithFields(map[string]interface{}{
		"username": s.username,
		"year":     s.year,
	})
	log.Info("Badge generation started")

	fetchStart := time.Now()
	records, err := s.fetcher.FetchYear(ctx, s.username, s.year)
	if err != nil {
		s.countFailure()
		return nil, fmt.Errorf("fetch contributions: %w", err)
	}
	if s.metrics != nil {
		s.metrics.FetchDuration.Observe(time.Since(fetchStart).Seconds())
	}

	summary, err := stats.Summarize(records, s.year, asOf, stats.Options{Derivation: s.derivation})
	if err != nil {
		s.countFailure()
		return nil, fmt.Errorf("summarize contributions: %w", err)
	}

	svg, err := badge.Render(summary, s.year, asOf)
	if err != nil {
		s.countFailure()
		return nil, fmt.Errorf("render badge: %w", err)
	}

	if s.outputPath != "" {
		if err := writeFileAtomic(s.outputPath, svg); err != nil {
			s.countFailure()
			return nil, fmt.Errorf("write badge file: %w", err)
		}
	}

	if s.repo != nil {
		snap := &snapshot.Snapshot{
			Username:           s.username,
			Year:               s.year,
			ActiveDays:         summary.ActiveDays,
			TotalActivity:      summary.TotalActivity,
			ElapsedDays:        summary.ElapsedDays,
			ConsistencyPercent: summary.ConsistencyPercent,
			Tier:               summary.Tier,
			SVG:                svg,
			GeneratedAt:        asOf,
		}
		if err := s.repo.Save(ctx, snap); err != nil {
			// History is best-effort; the badge itself already exists
			log.WithError(err).Warn("Failed to persist snapshot")
		}
	}

	if s.metrics != nil {
		s.metrics.GenerationsTotal.Inc()
		s.metrics.ObserveSummary(summary)
	}

	result := &Result{
		Summary:     summary,
		Year:        s.year,
		Username:    s.username,
		SVG:         svg,
		GeneratedAt: asOf,
	}

	for _, l := range s.listeners {
		l(result)
	}

	log.WithFields(map[string]interface{}{
		"active_days":  summary.ActiveDays,
		"elapsed_days": summary.ElapsedDays,
		"consistency":  summary.ConsistencyPercent,
		"tier":         summary.Tier,
	}).Info("Badge generation completed")

	return result, nil
}

func (s *Service) countFailure() {
	if s.metrics != nil {
		s.metrics.GenerationsFailed.Inc()
	}
}

// writeFileAtomic writes data via a temp file and rename so readers never
// observe a partially written badge.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".badge-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, path)
}
