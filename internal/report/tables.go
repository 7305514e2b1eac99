package report

import (
	"fmt"
	"strconv"
)

// Table names passed to sinks.
const (
	LedgerTable       = "normalized_donations"
	GroupSummaryTable = "battalion_stats"
	TopDonorsTable    = "top_10_donors"
)

// Column headers of the three report tables.
var (
	LedgerHeader       = []string{"Date", "Donor", "Battalion", "Amount_USD"}
	GroupSummaryHeader = []string{"Battalion", "Total_USD", "Donation_Count", "Average_USD"}
	TopDonorsHeader    = []string{"Donor", "Amount_USD"}
)

// Sink accepts finished report tables. Implementations decide the format
// and location of the output.
type Sink interface {
	WriteTable(name string, header []string, rows [][]string) error
}

// Publish writes the ledger, group summary and top donors tables to sink,
// with amounts rendered to two decimal places.
func (g *Generator) Publish(sink Sink, topN int) error {
	ledgerRows := g.Ledger()
	ledger := make([][]string, len(ledgerRows))
	for i, r := range ledgerRows {
		ledger[i] = []string{r.Date, r.Donor, r.Battalion, r.Amount.StringFixed(2)}
	}
	if err := sink.WriteTable(LedgerTable, LedgerHeader, ledger); err != nil {
		return fmt.Errorf("failed to write %s: %w", LedgerTable, err)
	}

	stats := g.GroupSummary()
	summary := make([][]string, len(stats))
	for i, s := range stats {
		summary[i] = []string{s.Battalion, s.Total.StringFixed(2), strconv.Itoa(s.Count), s.Average.StringFixed(2)}
	}
	if err := sink.WriteTable(GroupSummaryTable, GroupSummaryHeader, summary); err != nil {
		return fmt.Errorf("failed to write %s: %w", GroupSummaryTable, err)
	}

	donors := g.TopDonors(topN)
	top := make([][]string, len(donors))
	for i, d := range donors {
		top[i] = []string{d.Donor, d.Total.StringFixed(2)}
	}
	if err := sink.WriteTable(TopDonorsTable, TopDonorsHeader, top); err != nil {
		return fmt.Errorf("failed to write %s: %w", TopDonorsTable, err)
	}

	return nil
}
