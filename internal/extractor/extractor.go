// =============================================================================
// Donation Stats - Record Extractor
// =============================================================================
//
// This module turns the parsed fundraising page into DonationRecords.
//
// EXTRACTION PIPELINE (per amount badge, in document order):
//   1. Read the badge text; skip it unless it mentions a known currency code
//   2. Find the enclosing card; skip the badge if there is none
//   3. Read donor, battalion and date from the card, defaulting when absent
//   4. Split "<CODE> <amount>" on the first whitespace; no split means zero
//   5. Normalize the amount into USD
//
// Nothing in here fails. Every malformed card degrades to default values
// and is counted in Stats so the run can report what was substituted.
//
// =============================================================================

package extractor

import (
	"strings"
	"unicode"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/net/html"

	"github.com/ginjaninja78/donation-stats/internal/config"
	"github.com/ginjaninja78/donation-stats/internal/currency"
	"github.com/ginjaninja78/donation-stats/internal/htmlparser"
	"github.com/ginjaninja78/donation-stats/internal/types"
)

// DefaultDateText is used when a card has no date element.
const DefaultDateText = "01/01/70"

// =============================================================================
// MARKERS
// =============================================================================

// Markers identifies the parts of a donation card.
type Markers struct {
	Card      htmlparser.Marker
	Amount    htmlparser.Marker
	Donor     htmlparser.Marker
	Battalion htmlparser.Marker
	Date      htmlparser.Marker
}

// MarkersFromConfig converts configured markers into parser markers.
func MarkersFromConfig(mc config.MarkerConfig) Markers {
	conv := func(m config.Marker) htmlparser.Marker {
		return htmlparser.Marker{Tag: m.Tag, Class: m.Class}
	}
	return Markers{
		Card:      conv(mc.Card),
		Amount:    conv(mc.Amount),
		Donor:     conv(mc.Donor),
		Battalion: conv(mc.Battalion),
		Date:      conv(mc.Date),
	}
}

// =============================================================================
// STATS
// =============================================================================

// Stats counts what happened while extracting.
type Stats struct {
	// Candidates is the number of amount badges seen.
	Candidates int

	// NotCurrency is the number of badges without a known currency code.
	NotCurrency int

	// Orphans is the number of currency badges outside any card.
	Orphans int

	// Extracted is the number of records produced.
	Extracted int

	// MissingDonor, MissingBattalion and MissingDate count default
	// substitutions per field.
	MissingDonor     int
	MissingBattalion int
	MissingDate      int

	// UnparsedDates is the number of date texts that did not parse.
	UnparsedDates int

	// MalformedAmounts is the number of badges whose text had no
	// code/amount split.
	MalformedAmounts int

	// UnknownCurrency is the number of badges whose code is not in the
	// conversion table.
	UnknownCurrency int
}

// =============================================================================
// EXTRACTOR
// =============================================================================

// Extractor pulls donation records out of a parsed page.
type Extractor struct {
	markers    Markers
	normalizer *currency.Normalizer
	dateLayout string
	logger     zerolog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithDateLayout overrides the Go time layout used for card dates.
func WithDateLayout(layout string) Option {
	return func(e *Extractor) {
		if layout != "" {
			e.dateLayout = layout
		}
	}
}

// WithLogger attaches a logger for per-card debug output.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// New creates an Extractor.
func New(markers Markers, normalizer *currency.Normalizer, opts ...Option) *Extractor {
	e := &Extractor{
		markers:    markers,
		normalizer: normalizer,
		dateLayout: "1/2/06",
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns one record per donation card in document order.
func (e *Extractor) Extract(doc *html.Node) ([]types.DonationRecord, Stats) {
	var (
		records []types.DonationRecord
		stats   Stats
	)

	table := e.normalizer.Table()

	for badge := range htmlparser.Candidates(doc, e.markers.Amount) {
		stats.Candidates++

		text := htmlparser.Text(badge)
		if !table.ContainsCode(text) {
			stats.NotCurrency++
			continue
		}

		card := htmlparser.Closest(badge, e.markers.Card)
		if card == nil {
			stats.Orphans++
			e.logger.Debug().Str("badge", text).Msg("Skipping amount outside any card")
			continue
		}

		record := e.buildRecord(card, text, &stats)
		records = append(records, record)
		stats.Extracted++
	}

	return records, stats
}

// buildRecord reads the card fields and normalizes the badge amount.
func (e *Extractor) buildRecord(card *html.Node, badgeText string, stats *Stats) types.DonationRecord {
	amount := decimal.Zero
	code, raw, ok := SplitAmount(badgeText)
	if ok {
		if _, known := e.normalizer.Table().Rate(code); !known {
			stats.UnknownCurrency++
			e.logger.Debug().Str("code", code).Msg("Unknown currency, treating as USD")
		}
		amount = e.normalizer.Normalize(code, raw)
	} else {
		stats.MalformedAmounts++
		e.logger.Debug().Str("badge", badgeText).Msg("Amount has no currency/amount split, using zero")
	}

	donor := htmlparser.Text(htmlparser.FindFirst(card, e.markers.Donor))
	if donor == "" {
		stats.MissingDonor++
		donor = types.AnonymousDonor
	}

	battalion := htmlparser.Text(htmlparser.FindFirst(card, e.markers.Battalion))
	if battalion == "" {
		stats.MissingBattalion++
		battalion = types.UnassignedBattalion
	}

	dateText := DefaultDateText
	if el := htmlparser.FindFirst(card, e.markers.Date); el != nil {
		dateText = htmlparser.Text(el)
	} else {
		stats.MissingDate++
	}
	date := types.ParseDateLayout(dateText, e.dateLayout)
	if !date.Known() {
		stats.UnparsedDates++
		e.logger.Debug().Str("date", dateText).Msg("Unparseable date")
	}

	return types.NewDonationRecord(date, donor, battalion, amount)
}

// SplitAmount splits badge text on its first whitespace run into a currency
// code and the raw amount. ok is false when there is no whitespace.
func SplitAmount(text string) (code, raw string, ok bool) {
	i := strings.IndexFunc(text, unicode.IsSpace)
	if i < 0 {
		return "", "", false
	}
	return text[:i], strings.TrimLeftFunc(text[i:], unicode.IsSpace), true
}
