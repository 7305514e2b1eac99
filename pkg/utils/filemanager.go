// =============================================================================
// Donation Stats - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for a report run:
//   - Directory management (output and archive directories)
//   - Archival of the previous run's reports before they are overwritten
//   - The processing summary log written at the end of every run
//
// ARCHIVAL STRATEGY:
//   - Reports from the previous run are moved to
//     <archive_dir>/<YYYYMMDD_HHMMSS>/ before the new run writes
//   - Only the known report files are moved; anything else in the output
//     directory is left alone
//   - Without an archive directory, reports are simply overwritten
//
// =============================================================================

package utils

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for a report run.
type FileManager struct {
	// OutputDir is the directory where reports are written.
	OutputDir string

	// ArchiveDir receives previous reports. Empty disables archival.
	ArchiveDir string

	// now is the clock used for timestamps; replaced in tests.
	now func() time.Time
}

// NewFileManager creates a new FileManager with the specified directories.
func NewFileManager(outputDir, archiveDir string) *FileManager {
	return &FileManager{
		OutputDir:  outputDir,
		ArchiveDir: archiveDir,
		now:        time.Now,
	}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates all required directories if they don't exist.
func (fm *FileManager) EnsureDirectories() error {
	dirs := []string{fm.OutputDir}
	if fm.ArchiveDir != "" {
		dirs = append(dirs, fm.ArchiveDir)
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// =============================================================================
// ARCHIVAL
// =============================================================================

// ArchivePrevious moves the named files from the output directory into a
// timestamped archive subdirectory. Missing files are skipped.
//
// RETURNS:
//   - The archive subdirectory used, or "" if nothing was archived.
//   - An error if a file could not be moved.
func (fm *FileManager) ArchivePrevious(fileNames []string) (string, error) {
	if fm.ArchiveDir == "" {
		return "", nil
	}

	var existing []string
	for _, name := range fileNames {
		if FileExists(filepath.Join(fm.OutputDir, name)) {
			existing = append(existing, name)
		}
	}
	if len(existing) == 0 {
		return "", nil
	}

	target := filepath.Join(fm.ArchiveDir, fm.now().Format("20060102_150405"))
	if err := os.MkdirAll(target, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	for _, name := range existing {
		src := filepath.Join(fm.OutputDir, name)
		dst := filepath.Join(target, name)
		if err := moveFile(src, dst); err != nil {
			return "", fmt.Errorf("failed to archive %s: %w", name, err)
		}
	}

	return target, nil
}

// =============================================================================
// PROCESSING SUMMARY
// =============================================================================

// NewRunID returns a fresh identifier for a report run.
func NewRunID() string {
	return uuid.New().String()
}

// ProcessingSummary contains summary information about a report run.
type ProcessingSummary struct {
	RunID             string
	InputFile         string
	Mode              string
	StartTime         time.Time
	EndTime           time.Time
	Candidates        int
	Extracted         int
	DuplicatesRemoved int
	FinalCount        int
	Battalions        int
	Donors            int
	OutputFiles       []string
	ArchivedTo        string
	Defaults          map[string]int
}

// WriteSummaryLog writes a processing summary to a text file in the output
// directory.
//
// RETURNS:
//   - The path to the summary file.
//   - An error if writing fails.
func (fm *FileManager) WriteSummaryLog(summary ProcessingSummary) (string, error) {
	timestamp := summary.EndTime.Format("20060102_150405")
	summaryPath := filepath.Join(fm.OutputDir, fmt.Sprintf("processing_summary_%s.txt", timestamp))

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if err := FormatSummary(writer, summary); err != nil {
		return "", fmt.Errorf("failed to write summary file: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}

	return summaryPath, nil
}

// FormatSummary renders summary as plain text.
func FormatSummary(w io.Writer, summary ProcessingSummary) error {
	duration := summary.EndTime.Sub(summary.StartTime)
	_, err := fmt.Fprintf(w, "Donation Stats - Processing Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Run ID:         %s\n"+
		"  Input:          %s\n"+
		"  Mode:           %s\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n\n"+
		"Statistics:\n"+
		"  Amount Badges:      %d\n"+
		"  Records Extracted:  %d\n"+
		"  Duplicates Removed: %d\n"+
		"  Final Records:      %d\n"+
		"  Battalions:         %d\n"+
		"  Donors:             %d\n\n",
		summary.RunID,
		summary.InputFile,
		summary.Mode,
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		duration.String(),
		summary.Candidates,
		summary.Extracted,
		summary.DuplicatesRemoved,
		summary.FinalCount,
		summary.Battalions,
		summary.Donors)
	if err != nil {
		return err
	}

	if len(summary.Defaults) > 0 {
		if _, err := fmt.Fprintf(w, "Default Substitutions:\n"); err != nil {
			return err
		}
		for _, key := range []string{"donor", "battalion", "date", "unparsed_date", "amount", "currency"} {
			if n, ok := summary.Defaults[key]; ok {
				if _, err := fmt.Fprintf(w, "  %-18s %d\n", key+":", n); err != nil {
					return err
				}
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	if len(summary.OutputFiles) > 0 {
		if _, err := fmt.Fprintf(w, "Output Files:\n"+
			"--------------------------------------------------------------------------------\n"); err != nil {
			return err
		}
		for _, f := range summary.OutputFiles {
			if _, err := fmt.Fprintf(w, "  %s\n", f); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	if summary.ArchivedTo != "" {
		if _, err := fmt.Fprintf(w, "Previous reports archived to: %s\n\n", summary.ArchivedTo); err != nil {
			return err
		}
	}

	_, err = fmt.Fprint(w, "================================================================================\n"+
		"End of Summary\n")
	return err
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// moveFile renames src to dst, falling back to copy and delete when the two
// paths are on different filesystems.
func moveFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) {
		return err
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	_, err = io.Copy(destFile, sourceFile)
	if err != nil {
		return err
	}

	return destFile.Sync()
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
