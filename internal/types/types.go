// =============================================================================
// Donation Stats - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - extractor
//   - ledger
//   - report
//
// =============================================================================

package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DEFAULT VALUES
// =============================================================================

const (
	// AnonymousDonor is used when a card has no donor name (or a blank one).
	AnonymousDonor = "Anonymous"

	// UnassignedBattalion is used when a card has no battalion badge.
	UnassignedBattalion = "Unassigned"

	// DateLayout is the month/day/2-digit-year layout used by the source page
	// and by every report. Single-digit months and days are accepted on input.
	DateLayout = "01/02/06"

	// inputDateLayout accepts both "1/2/06" and "01/02/06".
	inputDateLayout = "1/2/06"
)

// =============================================================================
// DATE
// =============================================================================

// Date is a calendar date that may be unknown.
// The zero value is the unknown date.
type Date struct {
	t     time.Time
	known bool
}

// UnknownDate is the sentinel for dates that could not be parsed.
var UnknownDate = Date{}

// NewDate builds a known date from year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), known: true}
}

// ParseDate parses text in M/D/YY form. Two-digit years 69-99 map to the
// 1900s and 00-68 to the 2000s. Anything else yields UnknownDate.
func ParseDate(text string) Date {
	return ParseDateLayout(text, inputDateLayout)
}

// ParseDateLayout is ParseDate with a caller supplied time layout.
func ParseDateLayout(text, layout string) Date {
	t, err := time.Parse(layout, text)
	if err != nil {
		return UnknownDate
	}
	return Date{t: t, known: true}
}

// Known reports whether the date was parsed successfully.
func (d Date) Known() bool {
	return d.known
}

// Time returns the underlying time. It is the zero time for unknown dates.
func (d Date) Time() time.Time {
	return d.t
}

// After reports whether d is strictly later than other.
// Unknown dates are never after anything.
func (d Date) After(other Date) bool {
	if !d.known {
		return false
	}
	if !other.known {
		return true
	}
	return d.t.After(other.t)
}

// Format renders the date with DateLayout. Unknown dates render as "".
func (d Date) Format() string {
	if !d.known {
		return ""
	}
	return d.t.Format(DateLayout)
}

// String implements fmt.Stringer.
func (d Date) String() string {
	if !d.known {
		return "unknown"
	}
	return d.Format()
}

// =============================================================================
// DONATION RECORD
// =============================================================================

// DonationRecord is one donation parsed from a card on the source page.
// Records are values: they are built once by the extractor and never changed.
type DonationRecord struct {
	// Date is the donation date, or UnknownDate.
	Date Date

	// Donor is the display name of the donor. Never empty.
	Donor string

	// Battalion is the recipient group the donation is attributed to.
	Battalion string

	// Amount is the normalized amount in USD, rounded to 2 decimal places.
	Amount decimal.Decimal
}

// NewDonationRecord builds a record, substituting defaults for blank donor
// and battalion values and clamping negative amounts to zero.
func NewDonationRecord(date Date, donor, battalion string, amount decimal.Decimal) DonationRecord {
	if donor == "" {
		donor = AnonymousDonor
	}
	if battalion == "" {
		battalion = UnassignedBattalion
	}
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	return DonationRecord{
		Date:      date,
		Donor:     donor,
		Battalion: battalion,
		Amount:    amount,
	}
}

// Key returns a comparable identity covering all four fields.
// Two records with equal keys are duplicates.
func (r DonationRecord) Key() RecordKey {
	return RecordKey{
		Date:      r.Date,
		Donor:     r.Donor,
		Battalion: r.Battalion,
		Amount:    r.Amount.StringFixed(2),
	}
}

// RecordKey is the comparable form of a DonationRecord.
type RecordKey struct {
	Date      Date
	Donor     string
	Battalion string
	Amount    string
}
