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

// testDBCmd represents the test-db command
var testDBCmd = &cobra.Command{
	Use:   "test-db",
	Short: "Verify the database connection and schema",
	Long: `Connects to PostgreSQL, runs a health check and ensures the
snapshot table exists.

Requires DATABASE_URL.

Example:
  go run ./cmd/pulse test-db`,
	RunE: runTestDB,
}

func init() {
	rootCmd.AddCommand(testDBCmd)
}

func runTestDB(cmd *cobra.Command, args []string) error {
	fmt.Println("=== commitpulse Database Test ===")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.HasDatabase() {
		return fmt.Errorf("test-db requires DATABASE_URL")
	}

	log := logger.New(cfg)

	// 1. Connect
	db, err := database.New(cfg)
	if err != nil {
		PrintError(fmt.Sprintf("Connection failed: %v", err))
		return err
	}
	defer db.Close()
	PrintSuccess("Connected")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// 2. Health check
	status, err := db.HealthCheck(ctx)
	if err != nil {
		PrintError(fmt.Sprintf("Health check failed: %v", err))
		return err
	}
	PrintSuccess(fmt.Sprintf("Health check passed in %s", status.ResponseTime))
	PrintKeyValue("Total conns", fmt.Sprintf("%d", status.Stats.TotalConns), 12)
	PrintKeyValue("Idle conns", fmt.Sprintf("%d", status.Stats.IdleConns), 12)

	// 3. Schema
	repo := snapshot.NewRepository(db.Pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		PrintError(fmt.Sprintf("Schema check failed: %v", err))
		return err
	}
	PrintSuccess("Snapshot schema ready")

	log.Info("Database test completed")
	return nil
}
