package report

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/donation-stats/internal/ledger"
	"github.com/ginjaninja78/donation-stats/internal/types"
)

func rec(d int, donor, battalion, amount string) types.DonationRecord {
	date := types.UnknownDate
	if d > 0 {
		date = types.NewDate(2024, time.February, d)
	}
	return types.NewDonationRecord(date, donor, battalion, decimal.RequireFromString(amount))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleTable() *ledger.Table {
	return ledger.NewTable([]types.DonationRecord{
		rec(3, "Alice", "1st", "100"),
		rec(2, "Bob", "2nd", "50.50"),
		rec(1, "Alice", "2nd", "25"),
		rec(0, "Carol", "3rd", "80"),
		rec(4, "Dan", "1st", "0"),
	})
}

func TestLedger(t *testing.T) {
	rows := NewGenerator(sampleTable()).Ledger()

	require.Len(t, rows, 5)
	assert.Equal(t, LedgerRow{Date: "02/03/24", Donor: "Alice", Battalion: "1st", Amount: rows[0].Amount}, rows[0])
	assert.Equal(t, "", rows[3].Date)
}

func TestGroupSummary(t *testing.T) {
	stats := NewGenerator(sampleTable()).GroupSummary()

	require.Len(t, stats, 3)
	assert.Equal(t, "1st", stats[0].Battalion)
	assert.True(t, dec("100").Equal(stats[0].Total))
	assert.Equal(t, 2, stats[0].Count)
	assert.True(t, dec("50").Equal(stats[0].Average))

	assert.Equal(t, "3rd", stats[1].Battalion)
	assert.Equal(t, "2nd", stats[2].Battalion)
	assert.True(t, dec("75.5").Equal(stats[2].Total))
	assert.True(t, dec("37.75").Equal(stats[2].Average))

	count := 0
	for _, s := range stats {
		count += s.Count
	}
	assert.Equal(t, 5, count)
}

func TestGroupSummary_StableTies(t *testing.T) {
	table := ledger.NewTable([]types.DonationRecord{
		rec(1, "A", "zulu", "10"),
		rec(1, "B", "alpha", "10"),
		rec(1, "C", "mike", "20"),
	})

	stats := NewGenerator(table).GroupSummary()

	require.Len(t, stats, 3)
	assert.Equal(t, []string{"mike", "zulu", "alpha"},
		[]string{stats[0].Battalion, stats[1].Battalion, stats[2].Battalion})
}

func TestGroupSummary_AverageRounded(t *testing.T) {
	table := ledger.NewTable([]types.DonationRecord{
		rec(1, "A", "x", "10"),
		rec(2, "B", "x", "10"),
		rec(3, "C", "x", "0.01"),
	})

	stats := NewGenerator(table).GroupSummary()
	require.Len(t, stats, 1)
	assert.Equal(t, "6.67", stats[0].Average.StringFixed(2))
}

func TestTopDonors(t *testing.T) {
	top := NewGenerator(sampleTable()).TopDonors(2)

	require.Len(t, top, 2)
	assert.Equal(t, "Alice", top[0].Donor)
	assert.True(t, dec("125").Equal(top[0].Total))
	assert.Equal(t, "Carol", top[1].Donor)
}

func TestTopDonors_Bounds(t *testing.T) {
	gen := NewGenerator(sampleTable())

	assert.Len(t, gen.TopDonors(10), 4)
	assert.Empty(t, gen.TopDonors(0))
}

func TestTopDonors_Dominance(t *testing.T) {
	var records []types.DonationRecord
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"}
	for i, name := range names {
		records = append(records, rec(1, name, "x", decimal.NewFromInt(int64((i*7)%12)).String()))
	}
	gen := NewGenerator(ledger.NewTable(records))

	top := gen.TopDonors(DefaultTopN)
	require.Len(t, top, DefaultTopN)

	in := make(map[string]bool)
	for i, d := range top {
		in[d.Donor] = true
		if i > 0 {
			assert.False(t, d.Total.GreaterThan(top[i-1].Total))
		}
	}
	minTop := top[len(top)-1].Total
	for _, r := range records {
		if !in[r.Donor] {
			assert.False(t, r.Amount.GreaterThan(minTop))
		}
	}
}

func TestTopDonors_StableTies(t *testing.T) {
	table := ledger.NewTable([]types.DonationRecord{
		rec(1, "first", "x", "5"),
		rec(1, "second", "x", "5"),
		rec(1, "third", "x", "5"),
	})

	top := NewGenerator(table).TopDonors(2)
	require.Len(t, top, 2)
	assert.Equal(t, "first", top[0].Donor)
	assert.Equal(t, "second", top[1].Donor)
}

func TestNewest(t *testing.T) {
	table := sampleTable()
	table.SortByDateDesc()

	newest := NewGenerator(table).Newest(2)

	require.Len(t, newest, 2)
	assert.Equal(t, "Dan", newest[0].Donor)
	assert.Equal(t, "Alice", newest[1].Donor)
}

type memorySink struct {
	tables map[string][][]string
	fail   string
}

func (m *memorySink) WriteTable(name string, header []string, rows [][]string) error {
	if name == m.fail {
		return errors.New("disk full")
	}
	if m.tables == nil {
		m.tables = make(map[string][][]string)
	}
	m.tables[name] = append([][]string{header}, rows...)
	return nil
}

func TestPublish(t *testing.T) {
	sink := &memorySink{}
	require.NoError(t, NewGenerator(sampleTable()).Publish(sink, DefaultTopN))

	require.Len(t, sink.tables, 3)
	assert.Equal(t, LedgerHeader, sink.tables[LedgerTable][0])
	assert.Equal(t, []string{"02/03/24", "Alice", "1st", "100.00"}, sink.tables[LedgerTable][1])
	assert.Equal(t, []string{"1st", "100.00", "2", "50.00"}, sink.tables[GroupSummaryTable][1])
	assert.Equal(t, []string{"Alice", "125.00"}, sink.tables[TopDonorsTable][1])
}

func TestPublish_Error(t *testing.T) {
	sink := &memorySink{fail: GroupSummaryTable}
	err := NewGenerator(sampleTable()).Publish(sink, DefaultTopN)
	require.Error(t, err)
	assert.Contains(t, err.Error(), GroupSummaryTable)
}

func TestRender(t *testing.T) {
	table := sampleTable()
	table.SortByDateDesc()
	var buf bytes.Buffer

	err := NewGenerator(table).Render(&buf, ConsoleOptions{
		ShowDedup: true,
		Removed:   2,
		Total:     table.Len(),
		NewestN:   5,
		TopN:      10,
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Removed 2 duplicate entries.")
	assert.Contains(t, out, "Final unique donation count: 5")
	assert.Contains(t, out, "NEWEST 5 DONATIONS")
	assert.Contains(t, out, "TOP 10 DONORS")
	assert.Contains(t, out, "BATTALION SUMMARY")
	assert.Contains(t, out, "125.00")
}

func TestRender_Basic(t *testing.T) {
	var buf bytes.Buffer
	err := NewGenerator(sampleTable()).Render(&buf, ConsoleOptions{Total: 5})
	require.NoError(t, err)

	out := buf.String()
	assert.NotContains(t, out, "duplicate")
	assert.NotContains(t, out, "NEWEST")
	assert.Contains(t, out, "TOP 10 DONORS")
}
