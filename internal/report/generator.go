// =============================================================================
// Donation Stats - Report Generator
// =============================================================================
//
// This module computes the three report tables from a finished Record Table:
//   1. Ledger:        every record, table order
//   2. GroupSummary:  per battalion total, count and average, by total desc
//   3. TopDonors:     the N donors with the largest summed amounts
//
// All sorts are stable, so ties keep the order in which groups were first
// seen in the table. The generator only reads the table.
//
// =============================================================================

package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/donation-stats/internal/currency"
	"github.com/ginjaninja78/donation-stats/internal/ledger"
	"github.com/ginjaninja78/donation-stats/internal/types"
)

// DefaultTopN is the size of the top donors report.
const DefaultTopN = 10

// =============================================================================
// REPORT ROWS
// =============================================================================

// LedgerRow is one record of the full ledger, with the date rendered.
type LedgerRow struct {
	Date      string
	Donor     string
	Battalion string
	Amount    decimal.Decimal
}

// GroupStat is the aggregate of one battalion.
type GroupStat struct {
	Battalion string
	Total     decimal.Decimal
	Count     int
	Average   decimal.Decimal
}

// DonorTotal is one row of the top donors report.
type DonorTotal struct {
	Donor string
	Total decimal.Decimal
}

// =============================================================================
// GENERATOR
// =============================================================================

// Generator builds reports from a record table.
type Generator struct {
	table *ledger.Table
}

// NewGenerator creates a Generator over table.
func NewGenerator(table *ledger.Table) *Generator {
	return &Generator{table: table}
}

// Ledger returns every record in the table's current order.
func (g *Generator) Ledger() []LedgerRow {
	return toLedgerRows(g.table.Records())
}

// Newest returns the first n ledger rows. After SortByDateDesc these are
// the n most recent donations.
func (g *Generator) Newest(n int) []LedgerRow {
	return toLedgerRows(g.table.Head(n))
}

func toLedgerRows(records []types.DonationRecord) []LedgerRow {
	rows := make([]LedgerRow, len(records))
	for i, r := range records {
		rows[i] = LedgerRow{
			Date:      r.Date.Format(),
			Donor:     r.Donor,
			Battalion: r.Battalion,
			Amount:    r.Amount,
		}
	}
	return rows
}

// GroupSummary aggregates records per battalion and sorts by total,
// largest first.
func (g *Generator) GroupSummary() []GroupStat {
	groups := g.table.GroupBy(ledger.ByBattalion)
	stats := make([]GroupStat, len(groups))
	for i, group := range groups {
		total := sum(group.Records)
		count := len(group.Records)
		stats[i] = GroupStat{
			Battalion: group.Key,
			Total:     total,
			Count:     count,
			Average:   total.Div(decimal.NewFromInt(int64(count))).Round(currency.Places),
		}
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Total.GreaterThan(stats[j].Total)
	})
	return stats
}

// TopDonors sums amounts per donor and returns the n largest. n <= 0 yields
// an empty report.
func (g *Generator) TopDonors(n int) []DonorTotal {
	if n <= 0 {
		return []DonorTotal{}
	}
	groups := g.table.GroupBy(ledger.ByDonor)
	totals := make([]DonorTotal, len(groups))
	for i, group := range groups {
		totals[i] = DonorTotal{Donor: group.Key, Total: sum(group.Records)}
	}
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Total.GreaterThan(totals[j].Total)
	})
	if len(totals) > n {
		totals = totals[:n]
	}
	return totals
}

func sum(records []types.DonationRecord) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Amount)
	}
	return total
}
