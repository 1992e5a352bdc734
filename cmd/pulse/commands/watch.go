package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kkusima/commitpulse/internal/scheduler"
	"github.com/kkusima/commitpulse/internal/scheduler/jobs"
	"github.com/kkusima/commitpulse/pkg/logger"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate the badge on a schedule",
	Long: `Runs the badge pipeline on a cron schedule (REFRESH_SCHEDULE,
seconds field included, default hourly) until interrupted.

Example:
  go run ./cmd/pulse watch
  REFRESH_SCHEDULE="0 */30 * * * *" go run ./cmd/pulse watch`,
	RunE: runWatch,
}

var watchImmediate bool

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().BoolVar(&watchImmediate, "immediate", true, "run one generation before the first scheduled tick")
}

func runWatch(cmd *cobra.Command, args []string) error {
	fmt.Println("=== commitpulse Scheduler ===")

	// 1. Load config
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Wire the pipeline
	app, err := buildApp(cfg, log, true)
	if err != nil {
		return err
	}
	defer app.Close()

	// 4. Create scheduler with the refresh job
	sched := scheduler.New(log)
	refreshJob := jobs.NewRefreshJob(app.service, cfg.RefreshSchedule, log)
	if err := sched.AddJob(refreshJob); err != nil {
		return fmt.Errorf("add refresh job: %w", err)
	}

	// 5. Optionally run once right away
	if watchImmediate {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		_, err := app.service.Generate(ctx)
		cancel()
		if err != nil {
			log.WithError(err).Warn("Initial generation failed, scheduler continues")
		}
	}

	// 6. Start and wait for interrupt
	sched.Start()

	fmt.Printf("\nRefreshing %q on schedule %q\n", cfg.Badge.OutputPath, cfg.RefreshSchedule)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()

	// 7. Report the scheduled runs before exiting
	if results := sched.LatestResults(refreshJob.Name(), 5); len(results) > 0 {
		fmt.Printf("\nRecent runs (success rate %.0f%%):\n", 100*sched.SuccessRate(refreshJob.Name()))
		for _, r := range results {
			status := "ok"
			if !r.Success {
				status = r.Error
			}
			fmt.Printf("  %s  %-10s %s\n",
				r.StartTime.UTC().Format("15:04:05"), r.Duration.Round(time.Millisecond), status)
		}
	}

	return nil
}
