// =============================================================================
// Donation Stats - Record Table
// =============================================================================
//
// This module holds the records of one run and provides the table
// operations the reports are built from:
//   - Deduplicate:    drop records identical in all four fields
//   - SortByDateDesc: newest first, unknown dates last, stable
//   - GroupBy:        group records by a key, in first-occurrence order
//
// The table is owned by a single goroutine for the whole run.
//
// =============================================================================

package ledger

import (
	"sort"

	"github.com/ginjaninja78/donation-stats/internal/types"
)

// Table is an ordered collection of donation records.
type Table struct {
	records []types.DonationRecord
}

// Group is one key of a GroupBy with its records in table order.
type Group struct {
	Key     string
	Records []types.DonationRecord
}

// NewTable creates a table holding a copy of records.
func NewTable(records []types.DonationRecord) *Table {
	out := make([]types.DonationRecord, len(records))
	copy(out, records)
	return &Table{records: out}
}

// Len returns the number of records.
func (t *Table) Len() int {
	return len(t.records)
}

// Records returns a copy of the records in table order.
func (t *Table) Records() []types.DonationRecord {
	out := make([]types.DonationRecord, len(t.records))
	copy(out, t.records)
	return out
}

// Head returns a copy of the first n records (fewer if the table is shorter).
func (t *Table) Head(n int) []types.DonationRecord {
	if n < 0 {
		n = 0
	}
	if n > len(t.records) {
		n = len(t.records)
	}
	out := make([]types.DonationRecord, n)
	copy(out, t.records[:n])
	return out
}

// Deduplicate removes records identical across date, donor, battalion and
// amount, keeping the first occurrence. It returns the number removed.
func (t *Table) Deduplicate() int {
	seen := make(map[types.RecordKey]struct{}, len(t.records))
	kept := t.records[:0]
	for _, r := range t.records {
		key := r.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, r)
	}
	removed := len(t.records) - len(kept)
	t.records = kept
	return removed
}

// SortByDateDesc orders records newest first. Records with an unknown date
// go last. Records with equal dates keep their relative order.
func (t *Table) SortByDateDesc() {
	sort.SliceStable(t.records, func(i, j int) bool {
		return t.records[i].Date.After(t.records[j].Date)
	})
}

// GroupBy groups records by key. Groups appear in the order their key is
// first seen; records within a group keep table order.
func (t *Table) GroupBy(key func(types.DonationRecord) string) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, r := range t.records {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Key: k})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	return groups
}

// ByBattalion is a GroupBy key selecting the recipient group.
func ByBattalion(r types.DonationRecord) string {
	return r.Battalion
}

// ByDonor is a GroupBy key selecting the donor.
func ByDonor(r types.DonationRecord) string {
	return r.Donor
}
