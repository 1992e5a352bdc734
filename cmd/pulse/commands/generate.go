package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kkusima/commitpulse/pkg/logger"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the badge once",
	Long: `Runs the full pipeline once: fetch the contribution calendar,
summarize it, render the badge SVG and write it to the output path.

With GITHUB_TOKEN set the GraphQL API is used; without it the public
contributions calendar is scraped instead.

Example:
  go run ./cmd/pulse generate
  go run ./cmd/pulse generate --year 2026 --output commit-activity.svg`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	fmt.Println("=== commitpulse Badge Generator ===")

	// 1. Load config
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Wire the pipeline
	app, err := buildApp(cfg, log, false)
	if err != nil {
		return err
	}
	defer app.Close()

	// 4. Run it
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result, err := app.service.Generate(ctx)
	if err != nil {
		PrintError(fmt.Sprintf("Badge generation failed: %v", err))
		return err
	}

	// 5. Report
	fmt.Println()
	PrintSuccess(fmt.Sprintf("Generated %s", cfg.Badge.OutputPath))
	PrintKeyValue("Days with commits", fmt.Sprintf("%d / %d", result.Summary.ActiveDays, result.Summary.ElapsedDays), 19)
	PrintKeyValue("Total contributions", fmt.Sprintf("%d", result.Summary.TotalActivity), 19)
	PrintKeyValue("Consistency", fmt.Sprintf("%.1f%% (%s)", result.Summary.ConsistencyPercent, result.Summary.Tier), 19)

	return nil
}
