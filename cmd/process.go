// =============================================================================
// Donation Stats - Process Command
// =============================================================================
//
// This file defines the 'process' command, the main command of the tool. It
// loads the configuration, runs the report pipeline once and prints the
// console summary.
//
// COMMAND USAGE:
//   donation-stats process [flags]
//
// FLAGS:
//   --input   : Page snapshot to read (overrides input_file)
//   --output  : Directory for the reports (overrides output_dir)
//   --basic   : Keep page order and skip deduplication
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/donation-stats/internal/config"
	"github.com/ginjaninja78/donation-stats/internal/converter"
	"github.com/ginjaninja78/donation-stats/internal/logger"
	"github.com/ginjaninja78/donation-stats/internal/report"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// inputFile overrides the configured snapshot path.
var inputFile string

// outputDir overrides the configured report directory.
var outputDir string

// basicMode selects the reduced processing variant.
var basicMode bool

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

// processCmd represents the 'process' command.
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Build the donation reports from a page snapshot",
	Long: `The process command reads the page snapshot, extracts every donation card
and writes the reports to the output directory.

In full mode (the default) exact duplicate donations are removed and the
ledger is sorted newest first. In basic mode (--basic) records keep their page
order and duplicates are kept.

Cards with missing parts never stop a run: missing donors become "Anonymous",
missing battalions become "Unassigned", and unknown currencies count as USD.`,

	RunE: runProcess,
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(
		&inputFile,
		"input",
		"",
		"Page snapshot to read (default from config, ./2.html)",
	)

	processCmd.Flags().StringVar(
		&outputDir,
		"output",
		"",
		"Directory for the reports (default from config, .)",
	)

	processCmd.Flags().BoolVar(
		&basicMode,
		"basic",
		false,
		"Keep page order and skip deduplication",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runProcess loads the configuration, runs the pipeline and prints the
// console summary.
func runProcess(cmd *cobra.Command, args []string) error {
	// =========================================================================
	// STEP 1: LOAD CONFIGURATION
	// =========================================================================

	optional := !cmd.Flags().Changed("config")
	mainConfig, err := config.LoadMainConfig(cfgFile, optional)
	if err != nil {
		return fmt.Errorf("failed to load main config: %w", err)
	}
	applyFlagOverrides(mainConfig)

	// =========================================================================
	// STEP 2: SET UP LOGGING
	// =========================================================================

	log := logger.New(mainConfig.LogLevel)
	if mainConfig.LogFile != "" {
		var closer io.Closer
		log, closer, err = logger.NewWithFile(mainConfig.LogLevel, mainConfig.LogFile)
		if err != nil {
			return err
		}
		defer closer.Close()
	}
	ctx := logger.WithContext(cmd.Context(), log)

	// =========================================================================
	// STEP 3: RUN PIPELINE
	// =========================================================================

	result, err := converter.New(mainConfig).Run(ctx)
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 4: CONSOLE SUMMARY
	// =========================================================================

	return printSummary(cmd.OutOrStdout(), mainConfig, result)
}

// applyFlagOverrides layers the command line flags over the configuration.
func applyFlagOverrides(cfg *config.MainConfig) {
	if inputFile != "" {
		cfg.InputFile = inputFile
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if basicMode {
		cfg.Mode = config.ModeBasic
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
}

// printSummary renders the console tables and lists the files written.
func printSummary(w io.Writer, cfg *config.MainConfig, result converter.Result) error {
	err := result.Report.Render(w, report.ConsoleOptions{
		ShowDedup: cfg.Mode == config.ModeFull,
		Removed:   result.Stats.DuplicatesRemoved,
		Total:     result.Stats.FinalCount,
		NewestN:   cfg.NewestN,
		TopN:      cfg.TopN,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(w)
	for _, f := range result.OutputFiles {
		fmt.Fprintf(w, "Wrote %s\n", f)
	}
	fmt.Fprintf(w, "Summary: %s\n", result.SummaryFile)
	return nil
}
