package converter

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/donation-stats/internal/config"
	"github.com/ginjaninja78/donation-stats/internal/logger"
)

const snapshot = `<html><body>
<div class="border p-4">
  <div class="font-semibold">Alice</div>
  <div class="bg-gray-800">1st</div>
  <div class="text-neutral-400">03/15/24</div>
  <div class="rounded-full">EUR 100</div>
</div>
<div class="border p-4">
  <div class="font-semibold">Bob</div>
  <div class="bg-gray-800">2nd</div>
  <div class="text-neutral-400">03/16/24</div>
  <div class="rounded-full">USD 50</div>
</div>
<div class="border p-4">
  <div class="font-semibold">Alice</div>
  <div class="bg-gray-800">1st</div>
  <div class="text-neutral-400">03/15/24</div>
  <div class="rounded-full">EUR 100</div>
</div>
<div class="border p-4">
  <div class="bg-gray-800">2nd</div>
  <div class="rounded-full">UAH 1,000</div>
</div>
<div class="rounded-full">Verified</div>
</body></html>`

func fixedClock() time.Time {
	return time.Date(2024, time.April, 1, 12, 0, 0, 0, time.UTC)
}

func setup(t *testing.T, mode string) *config.MainConfig {
	t.Helper()
	dir := t.TempDir()
	input := filepath.Join(dir, "2.html")
	require.NoError(t, os.WriteFile(input, []byte(snapshot), 0644))

	cfg := config.Default()
	cfg.InputFile = input
	cfg.OutputDir = filepath.Join(dir, "out")
	cfg.Mode = mode
	return cfg
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestRun_Full(t *testing.T) {
	cfg := setup(t, config.ModeFull)

	result, err := New(cfg, WithClock(fixedClock)).Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 1, result.Stats.DuplicatesRemoved)
	assert.Equal(t, 3, result.Stats.FinalCount)
	assert.Equal(t, 2, result.Stats.Battalions)
	assert.Equal(t, 3, result.Stats.Donors)
	assert.Equal(t, 5, result.Stats.Extraction.Candidates)
	assert.Equal(t, 1, result.Stats.Extraction.NotCurrency)
	assert.Len(t, result.OutputFiles, 4)

	ledger := readCSV(t, filepath.Join(cfg.OutputDir, "normalized_donations.csv"))
	assert.Equal(t, [][]string{
		{"Date", "Donor", "Battalion", "Amount_USD"},
		{"03/16/24", "Bob", "2nd", "50.00"},
		{"03/15/24", "Alice", "1st", "116.30"},
		{"01/01/70", "Anonymous", "2nd", "23.00"},
	}, ledger)

	stats := readCSV(t, filepath.Join(cfg.OutputDir, "battalion_stats.csv"))
	assert.Equal(t, [][]string{
		{"Battalion", "Total_USD", "Donation_Count", "Average_USD"},
		{"1st", "116.30", "1", "116.30"},
		{"2nd", "73.00", "2", "36.50"},
	}, stats)

	top := readCSV(t, filepath.Join(cfg.OutputDir, "top_10_donors.csv"))
	assert.Equal(t, []string{"Alice", "116.30"}, top[1])

	assert.FileExists(t, filepath.Join(cfg.OutputDir, WorkbookFile))
	assert.Equal(t, filepath.Join(cfg.OutputDir, "processing_summary_20240401_120000.txt"), result.SummaryFile)
	assert.FileExists(t, result.SummaryFile)
}

func TestRun_Basic(t *testing.T) {
	cfg := setup(t, config.ModeBasic)
	cfg.DisableWorkbook = true

	result, err := New(cfg).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Stats.DuplicatesRemoved)
	assert.Equal(t, 4, result.Stats.FinalCount)
	assert.Len(t, result.OutputFiles, 3)
	assert.NoFileExists(t, filepath.Join(cfg.OutputDir, WorkbookFile))

	ledger := readCSV(t, filepath.Join(cfg.OutputDir, "normalized_donations.csv"))
	require.Len(t, ledger, 5)
	assert.Equal(t, "Alice", ledger[1][1], "page order is kept")
	assert.Equal(t, "Bob", ledger[2][1])
}

func TestRun_ArchivesPreviousReports(t *testing.T) {
	cfg := setup(t, config.ModeFull)
	cfg.ArchiveDir = filepath.Join(filepath.Dir(cfg.OutputDir), "archive")
	cfg.DisableWorkbook = true

	_, err := New(cfg, WithClock(fixedClock)).Run(context.Background())
	require.NoError(t, err)

	result, err := New(cfg, WithClock(fixedClock)).Run(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, result.ArchivedTo)
	assert.FileExists(t, filepath.Join(result.ArchivedTo, "normalized_donations.csv"))
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "normalized_donations.csv"))
}

func TestRun_MissingInput(t *testing.T) {
	cfg := config.Default()
	cfg.InputFile = filepath.Join(t.TempDir(), "missing.html")
	cfg.OutputDir = t.TempDir()

	_, err := New(cfg).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRun_Cancelled(t *testing.T) {
	cfg := setup(t, config.ModeFull)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(cfg).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, filepath.Join(cfg.OutputDir, "normalized_donations.csv"))
}

func TestRun_LogsWithRunID(t *testing.T) {
	cfg := setup(t, config.ModeFull)
	cfg.DisableWorkbook = true

	var buf bytes.Buffer
	ctx := logger.WithContext(context.Background(), logger.NewWithWriter(&buf, "info"))

	result, err := New(cfg).Run(ctx)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), result.RunID)
	assert.Contains(t, buf.String(), "Run complete")
}

func TestDefaultCounts(t *testing.T) {
	cfg := setup(t, config.ModeFull)
	cfg.DisableWorkbook = true

	result, err := New(cfg).Run(context.Background())
	require.NoError(t, err)

	counts := defaultCounts(result.Stats.Extraction)
	assert.Equal(t, 1, counts["donor"])
	assert.Equal(t, 1, counts["date"])
	_, ok := counts["currency"]
	assert.False(t, ok)
}
