// =============================================================================
// Donation Stats - Currency Normalizer
// =============================================================================
//
// This module converts raw amount strings such as "1,234.56" tagged with a
// currency code into USD, using a fixed conversion table supplied at startup.
//
// NORMALIZATION RULES:
//   1. Keep only digits and the decimal point ("1,234.56" -> "1234.56")
//   2. Parse as a decimal; an empty or unparseable remainder is 0
//   3. Multiply by the rate for the code; unknown codes use rate 1
//   4. Round to 2 decimal places (half away from zero)
//
// Amounts are carried as decimal.Decimal end to end so that summing many
// donations does not accumulate binary floating point error.
//
// =============================================================================

package currency

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the number of decimal places normalized amounts are rounded to.
const Places = 2

// =============================================================================
// CONVERSION TABLE
// =============================================================================

// Table is an immutable mapping from currency code to its rate into USD.
type Table struct {
	rates map[string]decimal.Decimal
	codes []string
}

// NewTable builds a Table from a code -> rate mapping. The input map is
// copied; later changes to it do not affect the table.
func NewTable(rates map[string]float64) *Table {
	t := &Table{
		rates: make(map[string]decimal.Decimal, len(rates)),
		codes: make([]string, 0, len(rates)),
	}
	for code, rate := range rates {
		t.rates[code] = decimal.NewFromFloat(rate)
		t.codes = append(t.codes, code)
	}
	sort.Strings(t.codes)
	return t
}

// Rate returns the rate for code and whether the code is known.
// Unknown codes return a rate of 1.
func (t *Table) Rate(code string) (decimal.Decimal, bool) {
	rate, ok := t.rates[code]
	if !ok {
		return decimal.NewFromInt(1), false
	}
	return rate, true
}

// Codes returns the known currency codes in sorted order.
func (t *Table) Codes() []string {
	out := make([]string, len(t.codes))
	copy(out, t.codes)
	return out
}

// ContainsCode reports whether text contains any known code as a substring.
func (t *Table) ContainsCode(text string) bool {
	for _, code := range t.codes {
		if strings.Contains(text, code) {
			return true
		}
	}
	return false
}

// =============================================================================
// NORMALIZER
// =============================================================================

// Normalizer converts amounts into USD using a conversion table.
type Normalizer struct {
	table *Table
}

// NewNormalizer creates a Normalizer backed by table.
func NewNormalizer(table *Table) *Normalizer {
	return &Normalizer{table: table}
}

// Table returns the conversion table the normalizer uses.
func (n *Normalizer) Table() *Table {
	return n.table
}

// Normalize converts raw, an amount in currency code, into USD.
// It never fails: malformed input yields zero and unknown codes use rate 1.
func (n *Normalizer) Normalize(code, raw string) decimal.Decimal {
	amount := Parse(raw)
	rate, _ := n.table.Rate(code)
	return amount.Mul(rate).Round(Places)
}

// Clean keeps only the digits and decimal points of raw.
func Clean(raw string) string {
	var builder strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}

// Parse cleans raw and parses it as a decimal. Anything that does not parse
// after cleaning ("", ".", "1.2.3") is zero.
func Parse(raw string) decimal.Decimal {
	cleaned := Clean(raw)
	if cleaned == "" {
		return decimal.Zero
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return amount
}
