// =============================================================================
// Donation Stats - Converter Module
// =============================================================================
//
// This module contains the core pipeline. It orchestrates a single report
// run, from loading the page snapshot to writing every report.
//
// PROCESSING PIPELINE:
//   1. Load and parse the HTML snapshot
//   2. Extract donation records from the donation cards
//   3. Remove duplicates and sort newest first (full mode only)
//   4. Archive the previous run's reports
//   5. Write the CSV reports and the XLSX workbook
//   6. Write the processing summary log
//
// A missing or unreadable snapshot is fatal. Malformed cards never are: the
// extractor substitutes defaults and counts what it substituted.
//
// =============================================================================

package converter

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ginjaninja78/donation-stats/internal/config"
	"github.com/ginjaninja78/donation-stats/internal/csvwriter"
	"github.com/ginjaninja78/donation-stats/internal/currency"
	"github.com/ginjaninja78/donation-stats/internal/extractor"
	"github.com/ginjaninja78/donation-stats/internal/htmlparser"
	"github.com/ginjaninja78/donation-stats/internal/ledger"
	"github.com/ginjaninja78/donation-stats/internal/logger"
	"github.com/ginjaninja78/donation-stats/internal/report"
	"github.com/ginjaninja78/donation-stats/internal/xlsxwriter"
	"github.com/ginjaninja78/donation-stats/pkg/utils"
)

// WorkbookFile is the name of the XLSX workbook inside the output directory.
const WorkbookFile = "donation_report.xlsx"

// ReportFiles lists every report a run produces, relative to the output
// directory. These are the files archived before a new run.
var ReportFiles = []string{
	report.LedgerTable + ".csv",
	report.GroupSummaryTable + ".csv",
	report.TopDonorsTable + ".csv",
	WorkbookFile,
}

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of a report run.
type Result struct {
	// RunID identifies this run in logs and the summary file.
	RunID string

	// InputFile is the snapshot that was processed.
	InputFile string

	// OutputFiles are the reports written, in write order.
	OutputFiles []string

	// SummaryFile is the processing summary log.
	SummaryFile string

	// ArchivedTo is the directory holding the previous reports, if any.
	ArchivedTo string

	// Report gives access to the final table for console rendering.
	Report *report.Generator

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the run.
type ProcessingStats struct {
	// Extraction holds the extractor's counters.
	Extraction extractor.Stats

	// DuplicatesRemoved is the number of duplicate records dropped.
	DuplicatesRemoved int

	// FinalCount is the number of records in the reports.
	FinalCount int

	// Battalions and Donors count distinct groups in the final table.
	Battalions int
	Donors     int

	// ProcessingTime is the time taken by the run.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter runs the report pipeline for one configuration.
type Converter struct {
	cfg *config.MainConfig
	now func() time.Time
}

// Option configures a Converter.
type Option func(*Converter)

// WithClock replaces the clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Converter) {
		c.now = now
	}
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a new Converter instance.
//
// PARAMETERS:
//   - cfg: The validated application configuration.
//   - opts: Optional overrides.
//
// RETURNS:
//   - A new Converter instance.
func New(cfg *config.MainConfig, opts ...Option) *Converter {
	c := &Converter{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the report pipeline. The logger is taken from ctx.
//
// RETURNS:
//   - A Result describing the run.
//   - An error if the snapshot cannot be loaded or a report cannot be
//     written. The run stops at the first such error.
func (c *Converter) Run(ctx context.Context) (Result, error) {
	log := logger.FromContext(ctx)
	startTime := c.now()
	result := Result{
		RunID:     utils.NewRunID(),
		InputFile: c.cfg.InputFile,
	}
	log = log.With().Str("run_id", result.RunID).Logger()

	// =========================================================================
	// STEP 1: LOAD SNAPSHOT
	// =========================================================================

	log.Info().Str("input", c.cfg.InputFile).Str("mode", c.cfg.Mode).Msg("Processing snapshot")

	doc, err := htmlparser.Load(c.cfg.InputFile)
	if err != nil {
		return result, fmt.Errorf("failed to load snapshot: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	// =========================================================================
	// STEP 2: EXTRACT RECORDS
	// =========================================================================

	normalizer := currency.NewNormalizer(currency.NewTable(c.cfg.ExchangeRates))
	ex := extractor.New(
		extractor.MarkersFromConfig(c.cfg.Markers),
		normalizer,
		extractor.WithDateLayout(c.cfg.DateLayout),
		extractor.WithLogger(log),
	)
	records, stats := ex.Extract(doc)
	result.Stats.Extraction = stats

	log.Debug().
		Int("candidates", stats.Candidates).
		Int("extracted", stats.Extracted).
		Int("orphans", stats.Orphans).
		Msg("Extracted donation records")
	if err := ctx.Err(); err != nil {
		return result, err
	}

	// =========================================================================
	// STEP 3: DEDUPLICATE AND SORT
	// =========================================================================

	table := ledger.NewTable(records)
	if c.cfg.Mode == config.ModeFull {
		result.Stats.DuplicatesRemoved = table.Deduplicate()
		table.SortByDateDesc()
		log.Debug().Int("removed", result.Stats.DuplicatesRemoved).Msg("Removed duplicates")
	}
	result.Stats.FinalCount = table.Len()
	result.Stats.Battalions = len(table.GroupBy(ledger.ByBattalion))
	result.Stats.Donors = len(table.GroupBy(ledger.ByDonor))
	result.Report = report.NewGenerator(table)

	// =========================================================================
	// STEP 4: ARCHIVE PREVIOUS REPORTS
	// =========================================================================

	fm := utils.NewFileManager(c.cfg.OutputDir, c.cfg.ArchiveDir)
	if err := fm.EnsureDirectories(); err != nil {
		return result, err
	}
	archivedTo, err := fm.ArchivePrevious(ReportFiles)
	if err != nil {
		return result, fmt.Errorf("failed to archive previous reports: %w", err)
	}
	result.ArchivedTo = archivedTo
	if archivedTo != "" {
		log.Info().Str("archive", archivedTo).Msg("Archived previous reports")
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	// =========================================================================
	// STEP 5: WRITE REPORTS
	// =========================================================================

	csvSink := csvwriter.New(c.cfg.OutputDir)
	if err := result.Report.Publish(csvSink, c.cfg.TopN); err != nil {
		return result, fmt.Errorf("failed to write CSV reports: %w", err)
	}
	result.OutputFiles = csvSink.Written()

	if !c.cfg.DisableWorkbook {
		path, err := c.writeWorkbook(result.Report)
		if err != nil {
			return result, err
		}
		result.OutputFiles = append(result.OutputFiles, path)
	}

	for _, f := range result.OutputFiles {
		log.Info().Str("file", f).Msg("Wrote report")
	}

	// =========================================================================
	// STEP 6: WRITE SUMMARY
	// =========================================================================

	endTime := c.now()
	result.Stats.ProcessingTime = endTime.Sub(startTime)

	summaryPath, err := fm.WriteSummaryLog(utils.ProcessingSummary{
		RunID:             result.RunID,
		InputFile:         result.InputFile,
		Mode:              c.cfg.Mode,
		StartTime:         startTime,
		EndTime:           endTime,
		Candidates:        stats.Candidates,
		Extracted:         stats.Extracted,
		DuplicatesRemoved: result.Stats.DuplicatesRemoved,
		FinalCount:        result.Stats.FinalCount,
		Battalions:        result.Stats.Battalions,
		Donors:            result.Stats.Donors,
		OutputFiles:       result.OutputFiles,
		ArchivedTo:        result.ArchivedTo,
		Defaults:          defaultCounts(stats),
	})
	if err != nil {
		return result, err
	}
	result.SummaryFile = summaryPath

	log.Info().
		Int("records", result.Stats.FinalCount).
		Dur("elapsed", result.Stats.ProcessingTime).
		Msg("Run complete")

	return result, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// writeWorkbook publishes every report table into one XLSX file.
func (c *Converter) writeWorkbook(gen *report.Generator) (string, error) {
	wb, err := xlsxwriter.New()
	if err != nil {
		return "", err
	}
	if err := gen.Publish(wb, c.cfg.TopN); err != nil {
		wb.Close()
		return "", fmt.Errorf("failed to build workbook: %w", err)
	}
	path := filepath.Join(c.cfg.OutputDir, WorkbookFile)
	if err := wb.Save(path); err != nil {
		return "", err
	}
	return path, nil
}

// defaultCounts lists the non-zero default substitutions by field.
func defaultCounts(s extractor.Stats) map[string]int {
	counts := map[string]int{
		"donor":         s.MissingDonor,
		"battalion":     s.MissingBattalion,
		"date":          s.MissingDate,
		"unparsed_date": s.UnparsedDates,
		"amount":        s.MalformedAmounts,
		"currency":      s.UnknownCurrency,
	}
	for k, v := range counts {
		if v == 0 {
			delete(counts, k)
		}
	}
	return counts
}
