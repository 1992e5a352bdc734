package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagUsername string
	flagYear     int
	flagOutput   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pulse",
	Short: "commitpulse - GitHub commit consistency badge generator",
	Long: `commitpulse

Fetches a GitHub user's contribution calendar for one year, reduces it to
an activity consistency summary, and renders the summary as an SVG badge.

Usage:
  go run ./cmd/pulse [command]

Examples:
  go run ./cmd/pulse generate
  go run ./cmd/pulse generate --year 2026 --output commit-activity.svg
  go run ./cmd/pulse serve
  go run ./cmd/pulse watch`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags; zero values defer to the environment config
	rootCmd.PersistentFlags().StringVar(&flagUsername, "username", "", "GitHub username (default from GITHUB_USERNAME)")
	rootCmd.PersistentFlags().IntVar(&flagYear, "year", 0, "target year (default from BADGE_YEAR)")
	rootCmd.PersistentFlags().StringVar(&flagOutput, "output", "", "badge output path (default from BADGE_OUTPUT)")
}
