package jobs

import (
	"context"

	"github.com/kkusima/commitpulse/internal/pipeline"
	"github.com/kkusima/commitpulse/pkg/logger"
)

// RefreshJob regenerates the badge on a cron schedule.
type RefreshJob struct {
	service  *pipeline.Service
	schedule string
	logger   *logger.Logger
}

// NewRefreshJob creates a new badge refresh job
func NewRefreshJob(service *pipeline.Service, schedule string, log *logger.Logger) *RefreshJob {
	return &RefreshJob{
		service:  service,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *RefreshJob) Name() string {
	return "badge_refresh"
}

// Schedule returns the cron schedule from config
func (j *RefreshJob) Schedule() string {
	return j.schedule
}

// Run executes one badge generation
func (j *RefreshJob) Run(ctx context.Context) error {
	j.logger.Debug("Starting scheduled badge refresh")

	result, err := j.service.Generate(ctx)
	if err != nil {
		return err
	}

	j.logger.WithFields(map[string]interface{}{
		"active_days": result.Summary.ActiveDays,
		"tier":        result.Summary.Tier,
	}).Info("Scheduled badge refresh completed")

	return nil
}
