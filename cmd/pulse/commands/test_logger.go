package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kkusima/commitpulse/pkg/config"
	"github.com/kkusima/commitpulse/pkg/logger"
)

// testLoggerCmd represents the test-logger command
var testLoggerCmd = &cobra.Command{
	Use:   "test-logger",
	Short: "Exercise the structured logger",
	Long: `Exercises structured logging in both output formats.

Example:
  go run ./cmd/pulse test-logger`,
	RunE: runTestLogger,
}

func init() {
	rootCmd.AddCommand(testLoggerCmd)
}

func runTestLogger(cmd *cobra.Command, args []string) error {
	fmt.Println("=== commitpulse Logger Test ===")

	// 1. JSON format (production)
	fmt.Println("1. JSON Format (Production)")
	PrintSeparator()
	jsonLog := logger.New(&config.Config{
		Env:       "production",
		LogLevel:  "info",
		LogFormat: "json",
	})
	jsonLog.Info("Service started")
	jsonLog.Warn("Calendar cache miss")
	jsonLog.Error("Failed to reach GitHub API")
	fmt.Println()

	// 2. Console format (development)
	fmt.Println("2. Console Format (Development)")
	PrintSeparator()
	consoleLog := logger.New(&config.Config{
		Env:       "development",
		LogLevel:  "debug",
		LogFormat: "console",
	})
	consoleLog.Debug("Decoding contribution calendar")
	consoleLog.Info("Badge rendered")
	fmt.Println()

	// 3. Structured fields
	fmt.Println("3. Structured Logging with Fields")
	PrintSeparator()
	jsonLog.WithFields(map[string]interface{}{
		"username":    "kkusima",
		"year":        2026,
		"active_days": 25,
	}).Info("Badge generation completed")

	jsonLog.WithField("module", "scraper").
		WithField("cells", 365).
		Info("Calendar parsed")
	fmt.Println()

	// 4. Error context
	fmt.Println("4. Error Logging")
	PrintSeparator()
	jsonLog.WithError(errors.New("connection refused")).Error("GraphQL request failed")
	fmt.Println()

	PrintSuccess("All logger tests completed!")
	return nil
}
