// =============================================================================
// Donation Stats - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (donation-stats)
//   ├── processCmd (donation-stats process)
//   └── versionCmd (donation-stats version)
//
// The root command owns the global flags (--config, --verbose). Each
// subcommand loads the configuration itself.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// defaultConfigFile is used when --config is not given. It may be absent.
const defaultConfigFile = "config.yaml"

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose forces debug logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "donation-stats",
	Short: "Donation Stats - Aggregate fundraising page donations into reports",

	Long: `Donation Stats reads a saved snapshot of a fundraising page, extracts
every donation card, converts amounts into USD and writes aggregate reports.

Reports:
  - normalized_donations.csv : every donation, newest first
  - battalion_stats.csv      : total, count and average per battalion
  - top_10_donors.csv        : donors with the largest totals
  - donation_report.xlsx     : all three tables as one workbook

Example Usage:
  donation-stats process                     # Process ./2.html into .
  donation-stats process --input page.html   # Process a different snapshot
  donation-stats process --basic             # Page order, no deduplication`,

	SilenceUsage: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	// --config flag: a missing default file means built-in defaults; an
	// explicitly named file must exist.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		defaultConfigFile,
		"Path to the main configuration file",
	)

	// --verbose flag: Enables debug logging.
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}
