// =============================================================================
// Donation Stats - CSV Writer
// =============================================================================
//
// This module writes report tables as comma separated files, one file per
// table, named "<table>.csv" inside the output directory:
//   - normalized_donations.csv
//   - battalion_stats.csv
//   - top_10_donors.csv
//
// Each file holds a header row followed by the data rows. Files are written
// to a temporary name and renamed into place, so an interrupted run never
// leaves a half-written report behind.
//
// =============================================================================

package csvwriter

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Writer writes report tables into a directory.
type Writer struct {
	// Dir is the output directory. It must exist.
	Dir string

	// written records the paths produced so far, in write order.
	written []string
}

// New creates a Writer for dir.
func New(dir string) *Writer {
	return &Writer{Dir: dir}
}

// Path returns the file path a table is written to.
func (w *Writer) Path(name string) string {
	return filepath.Join(w.Dir, name+".csv")
}

// Written returns the paths of every file written so far.
func (w *Writer) Written() []string {
	out := make([]string, len(w.written))
	copy(out, w.written)
	return out
}

// WriteTable writes header and rows to "<Dir>/<name>.csv".
func (w *Writer) WriteTable(name string, header []string, rows [][]string) error {
	path := w.Path(name)
	tmp, err := os.CreateTemp(w.Dir, "."+name+"-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	buffered := bufio.NewWriter(tmp)
	if err := Encode(buffered, header, rows); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := buffered.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}

	w.written = append(w.written, path)
	return nil
}

// Encode writes header and rows as CSV to out.
func Encode(out io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(out)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}
