package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kkusima/commitpulse/internal/snapshot"
	"github.com/kkusima/commitpulse/pkg/database"
	"github.com/kkusima/commitpulse/pkg/logger"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show recent generation runs",
	Long: `Shows the latest badge snapshot and recent generation history
from the database.

Requires DATABASE_URL.

Example:
  go run ./cmd/pulse status
  go run ./cmd/pulse status --limit 10`,
	RunE: runStatus,
}

var statusLimit int

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().IntVar(&statusLimit, "limit", 10, "number of runs to show")
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("=== commitpulse Status ===")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.HasDatabase() {
		return fmt.Errorf("status requires DATABASE_URL")
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	repo := snapshot.NewRepository(db.Pool)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	history, err := repo.History(ctx, cfg.GitHub.Username, cfg.Badge.Year, statusLimit)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	if len(history) == 0 {
		PrintInfo(fmt.Sprintf("No runs recorded for %s/%d yet", cfg.GitHub.Username, cfg.Badge.Year))
		return nil
	}

	fmt.Println()
	PrintTableHeader([]string{"Generated", "Active", "Elapsed", "Total", "Consistency", "Tier"},
		[]int{20, 7, 8, 8, 12, 10})

	for _, snap := range history {
		PrintTableRow([]string{
			snap.GeneratedAt.UTC().Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%d", snap.ActiveDays),
			fmt.Sprintf("%d", snap.ElapsedDays),
			fmt.Sprintf("%d", snap.TotalActivity),
			fmt.Sprintf("%.1f%%", snap.ConsistencyPercent),
			string(snap.Tier),
		}, []int{20, 7, 8, 8, 12, 10})
	}

	log.WithField("runs", len(history)).Debug("Status rendered")
	return nil
}
