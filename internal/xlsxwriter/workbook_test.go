package xlsxwriter

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWorkbook_WriteAndSave(t *testing.T) {
	wb, err := New()
	require.NoError(t, err)

	require.NoError(t, wb.WriteTable("normalized_donations",
		[]string{"Date", "Donor", "Battalion", "Amount_USD"},
		[][]string{{"03/15/24", "Alice", "1st", "116.30"}}))
	require.NoError(t, wb.WriteTable("top_10_donors",
		[]string{"Donor", "Amount_USD"},
		[][]string{{"Alice", "116.30"}, {"007", "5.00"}}))

	assert.Equal(t, []string{"Donations", "Top Donors"}, wb.Sheets())

	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, wb.Save(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Donations", "Top Donors"}, f.GetSheetList())

	rows, err := f.GetRows("Donations")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Date", "Donor", "Battalion", "Amount_USD"}, rows[0])
	assert.Equal(t, "03/15/24", rows[1][0])
	assert.Equal(t, "116.3", rows[1][3])

	rows, err = f.GetRows("Top Donors")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "007", rows[2][0], "donor names stay text")
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Battalions", sheetName("battalion_stats"))
	assert.Equal(t, "custom", sheetName("custom"))
	assert.Len(t, sheetName("a_very_long_table_name_that_exceeds_the_limit"), 31)
}

func TestCellValue(t *testing.T) {
	assert.Equal(t, 12.5, cellValue("12.50", true))
	assert.Equal(t, "12.50", cellValue("12.50", false))
	assert.Equal(t, "n/a", cellValue("n/a", true))
}
