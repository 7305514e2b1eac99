package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func defaultTable() *Table {
	return NewTable(map[string]float64{
		"USD": 1.0,
		"EUR": 1.163,
		"GBP": 1.341,
		"UAH": 0.023,
	})
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestClean(t *testing.T) {
	assert.Equal(t, "1234.56", Clean("1,234.56"))
	assert.Equal(t, "100", Clean(" $100 "))
	assert.Equal(t, "", Clean("free"))
	assert.Equal(t, "1000000", Clean("1 000 000"))
}

func TestParse(t *testing.T) {
	assertDecimal(t, "1234.56", Parse("1,234.56"))
	assertDecimal(t, "0", Parse("n/a"))
	assertDecimal(t, "0", Parse("1.2.3"))
	assertDecimal(t, "0", Parse(""))
}

func TestNormalize(t *testing.T) {
	n := NewNormalizer(defaultTable())

	tests := []struct {
		name string
		code string
		raw  string
		want string
	}{
		{"euro rounds to two places", "EUR", "100", "116.30"},
		{"thousands separators", "GBP", "1,234.56", "1655.54"},
		{"usd passthrough", "USD", "42.5", "42.5"},
		{"unknown code uses rate one", "JPY", "1,234.56", "1234.56"},
		{"non numeric is zero", "EUR", "lots", "0"},
		{"exact product", "UAH", "50", "1.15"},
		{"rounding half away from zero", "UAH", "5", "0.12"},
		{"rounds sub cent", "UAH", "1", "0.02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDecimal(t, tt.want, n.Normalize(tt.code, tt.raw))
		})
	}
}

func TestNormalize_UnknownCodeEqualsClean(t *testing.T) {
	n := NewNormalizer(defaultTable())
	for _, raw := range []string{"0", "7", "12.34", "9,999.99", "abc"} {
		assertDecimal(t, Parse(raw).Round(Places).String(), n.Normalize("XYZ", raw))
	}
}

func TestNormalize_NeverNegative(t *testing.T) {
	n := NewNormalizer(defaultTable())
	assert.False(t, n.Normalize("EUR", "-100").IsNegative())
}

func TestTable(t *testing.T) {
	table := defaultTable()

	rate, ok := table.Rate("EUR")
	assert.True(t, ok)
	assertDecimal(t, "1.163", rate)

	rate, ok = table.Rate("XYZ")
	assert.False(t, ok)
	assertDecimal(t, "1", rate)

	assert.Equal(t, []string{"EUR", "GBP", "UAH", "USD"}, table.Codes())
	assert.True(t, table.ContainsCode("EUR 100"))
	assert.True(t, table.ContainsCode("100 USD"))
	assert.False(t, table.ContainsCode("Anonymous"))
}

func TestNewTable_CopiesInput(t *testing.T) {
	rates := map[string]float64{"EUR": 1.163}
	table := NewTable(rates)
	rates["EUR"] = 99

	rate, _ := table.Rate("EUR")
	assertDecimal(t, "1.163", rate)
}
