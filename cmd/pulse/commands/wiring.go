package commands

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kkusima/commitpulse/internal/github"
	"github.com/kkusima/commitpulse/internal/observability"
	"github.com/kkusima/commitpulse/internal/pipeline"
	"github.com/kkusima/commitpulse/internal/snapshot"
	"github.com/kkusima/commitpulse/internal/stats"
	"github.com/kkusima/commitpulse/pkg/config"
	"github.com/kkusima/commitpulse/pkg/database"
	"github.com/kkusima/commitpulse/pkg/httputil"
	"github.com/kkusima/commitpulse/pkg/logger"
	"github.com/kkusima/commitpulse/pkg/redis"
)

// app bundles the wired components shared by the generate/serve/watch
// commands.
type app struct {
	cfg        *config.Config
	log        *logger.Logger
	db         *database.DB // nil without DATABASE_URL
	repo       *snapshot.Repository
	metrics    *observability.Metrics
	metricsReg *prometheus.Registry
	service    *pipeline.Service
}

// loadConfig loads the environment config and applies CLI flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if flagUsername != "" {
		cfg.GitHub.Username = flagUsername
	}
	if flagYear != 0 {
		cfg.Badge.Year = flagYear
	}
	if flagOutput != "" {
		cfg.Badge.OutputPath = flagOutput
	}

	return cfg, nil
}

// buildApp wires the pipeline from config: fetcher (GraphQL or scraper),
// optional cache, optional database, metrics, service.
func buildApp(cfg *config.Config, log *logger.Logger, withMetrics bool) (*app, error) {
	a := &app{cfg: cfg, log: log}

	// 1. Fetcher: GraphQL with a token, public calendar scraper without
	httpClient := httputil.New(log)

	var fetcher github.Fetcher
	if cfg.GitHub.Token != "" {
		fetcher = github.NewClient(httpClient, log, cfg.GitHub.APIURL, cfg.GitHub.Token)
	} else {
		log.Warn("GITHUB_TOKEN not set, falling back to public calendar scraper")
		fetcher = github.NewScraper(httpClient, log, cfg.GitHub.WebURL)
	}

	// 2. Optional Redis calendar cache
	redisClient, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	if redisClient.Enabled() {
		cache := redis.NewCache(redisClient, "commitpulse")
		fetcher = github.NewCachedFetcher(fetcher, cache, log)
		log.Info("Calendar cache enabled")
	}

	// 3. Optional snapshot history
	if cfg.HasDatabase() {
		db, err := database.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		a.db = db
		a.repo = snapshot.NewRepository(db.Pool)
		log.Info("Connected to database")
	}

	// 4. Metrics
	if withMetrics && cfg.MetricsEnabled {
		a.metrics, a.metricsReg = observability.New()
	}

	// 5. Pipeline service
	derivation, err := stats.ParseDerivation(cfg.Badge.Derivation)
	if err != nil {
		return nil, err
	}

	a.service = pipeline.NewService(pipeline.Config{
		Username:   cfg.GitHub.Username,
		Year:       cfg.Badge.Year,
		Derivation: derivation,
		OutputPath: cfg.Badge.OutputPath,
	}, fetcher, a.repo, a.metrics, log)

	return a, nil
}

// Close releases the app's connections.
func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
}
