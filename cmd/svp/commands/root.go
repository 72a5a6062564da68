package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	analyticsConfigPath string
	verbose             bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "svp",
	Short: "SVP - supplier compliance analytics backend",
	Long: `SVP Unified CLI

Supplier compliance scoring, analytics bundles, reports and the realtime
metrics feed over one PostgreSQL database.

Usage:
  go run ./cmd/svp [command]

Examples:
  go run ./cmd/svp api
  go run ./cmd/svp scheduler
  go run ./cmd/svp migrate up
  go run ./cmd/svp analytics risk-analysis
  go run ./cmd/svp report suppliers --format excel`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&analyticsConfigPath, "analytics-config", "", "analytics tuning YAML (default: ANALYTICS_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug log level)")
}
