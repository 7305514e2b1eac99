// =============================================================================
// Donation Stats - XLSX Workbook Writer
// =============================================================================
//
// This module collects the report tables into a single XLSX workbook, one
// sheet per table, so the operator can open every report in one place:
//
//   | Table                  | Sheet       |
//   |------------------------|-------------|
//   | normalized_donations   | Donations   |
//   | battalion_stats        | Battalions  |
//   | top_10_donors          | Top Donors  |
//
// Columns whose header ends in "_USD" or "_Count" are stored as numbers so
// spreadsheet formulas work on them; everything else is stored as text.
//
// =============================================================================

package xlsxwriter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// defaultSheet is the sheet every new excelize workbook starts with.
const defaultSheet = "Sheet1"

// SheetNames maps report table names to sheet titles. Tables without an
// entry use their own name, truncated to the 31 character sheet limit.
var SheetNames = map[string]string{
	"normalized_donations": "Donations",
	"battalion_stats":      "Battalions",
	"top_10_donors":        "Top Donors",
}

// Workbook accumulates report tables as sheets of one XLSX file.
type Workbook struct {
	file   *excelize.File
	sheets []string
	bold   int
}

// New creates an empty workbook.
func New() (*Workbook, error) {
	f := excelize.NewFile()
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	return &Workbook{file: f, bold: bold}, nil
}

// Sheets returns the sheet names added so far, in order.
func (w *Workbook) Sheets() []string {
	out := make([]string, len(w.sheets))
	copy(out, w.sheets)
	return out
}

// WriteTable adds a sheet holding header and rows.
func (w *Workbook) WriteTable(name string, header []string, rows [][]string) error {
	sheet := sheetName(name)

	if len(w.sheets) == 0 {
		if err := w.file.SetSheetName(defaultSheet, sheet); err != nil {
			return fmt.Errorf("failed to name sheet %s: %w", sheet, err)
		}
	} else if _, err := w.file.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}
	w.sheets = append(w.sheets, sheet)

	numeric := make([]bool, len(header))
	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
		numeric[i] = strings.HasSuffix(h, "_USD") || strings.HasSuffix(h, "_Count")
	}
	if err := w.file.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", sheet, err)
	}

	if len(header) > 0 {
		last, err := excelize.CoordinatesToCellName(len(header), 1)
		if err != nil {
			return err
		}
		if err := w.file.SetCellStyle(sheet, "A1", last, w.bold); err != nil {
			return fmt.Errorf("failed to style header of %s: %w", sheet, err)
		}
		lastCol, _, err := excelize.SplitCellName(last)
		if err != nil {
			return err
		}
		if err := w.file.SetColWidth(sheet, "A", lastCol, 18); err != nil {
			return fmt.Errorf("failed to size columns of %s: %w", sheet, err)
		}
	}

	for r, row := range rows {
		cells := make([]interface{}, len(row))
		for c, value := range row {
			cells[c] = cellValue(value, c < len(numeric) && numeric[c])
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := w.file.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", r+1, sheet, err)
		}
	}

	return nil
}

// Save writes the workbook to path and releases it.
func (w *Workbook) Save(path string) error {
	if len(w.sheets) > 0 {
		if idx, err := w.file.GetSheetIndex(w.sheets[0]); err == nil && idx >= 0 {
			w.file.SetActiveSheet(idx)
		}
	}
	if err := w.file.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return w.Close()
}

// Close releases the workbook without saving.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// cellValue converts numeric columns to float64 when they parse cleanly.
func cellValue(value string, numeric bool) interface{} {
	if !numeric {
		return value
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	return value
}

func sheetName(table string) string {
	if name, ok := SheetNames[table]; ok {
		return name
	}
	if len(table) > 31 {
		return table[:31]
	}
	return table
}
