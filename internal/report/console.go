package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// ConsoleOptions controls what the console summary shows.
type ConsoleOptions struct {
	// ShowDedup prints the duplicate-removal line and the newest donations.
	ShowDedup bool

	// Removed is the number of duplicates dropped.
	Removed int

	// Total is the final number of unique donations.
	Total int

	// NewestN and TopN size the newest-donations and top-donors tables.
	NewestN int
	TopN    int
}

var titleStyle = lipgloss.NewStyle().Bold(true)

// Render writes a human readable summary of the reports to w.
func (g *Generator) Render(w io.Writer, opts ConsoleOptions) error {
	if opts.ShowDedup {
		if _, err := fmt.Fprintf(w, "Removed %d duplicate entries.\n", opts.Removed); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Final unique donation count: %d\n", opts.Total); err != nil {
		return err
	}

	if opts.ShowDedup && opts.NewestN > 0 {
		rows := make([][]string, 0, opts.NewestN)
		for _, r := range g.Newest(opts.NewestN) {
			rows = append(rows, []string{r.Date, r.Donor, r.Battalion, r.Amount.StringFixed(2)})
		}
		if err := renderTable(w, fmt.Sprintf("NEWEST %d DONATIONS", opts.NewestN), LedgerHeader, rows); err != nil {
			return err
		}
	}

	topN := opts.TopN
	if topN == 0 {
		topN = DefaultTopN
	}
	var top [][]string
	for _, d := range g.TopDonors(topN) {
		top = append(top, []string{d.Donor, d.Total.StringFixed(2)})
	}
	if err := renderTable(w, fmt.Sprintf("TOP %d DONORS", topN), TopDonorsHeader, top); err != nil {
		return err
	}

	var groups [][]string
	for _, s := range g.GroupSummary() {
		groups = append(groups, []string{
			s.Battalion,
			s.Total.StringFixed(2),
			strconv.Itoa(s.Count),
			s.Average.StringFixed(2),
		})
	}
	return renderTable(w, "BATTALION SUMMARY", GroupSummaryHeader, groups)
}

func renderTable(w io.Writer, title string, header []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(header...).
		Rows(rows...)
	_, err := fmt.Fprintf(w, "\n%s\n%s\n", titleStyle.Render("--- "+title+" ---"), t.Render())
	return err
}
