package billing

import (
	"fmt"

	"github.com/backoffice/backend/internal/domain/shared"
)

// DocumentSeries identifies a document type with its own number sequence
type DocumentSeries string

const (
	SeriesInvoice    DocumentSeries = "invoice"
	SeriesEstimate   DocumentSeries = "estimate"
	SeriesProposal   DocumentSeries = "proposal"
	SeriesCreditNote DocumentSeries = "credit_note"
)

// AllSeries lists every document series in display order
func AllSeries() []DocumentSeries {
	return []DocumentSeries{SeriesInvoice, SeriesEstimate, SeriesProposal, SeriesCreditNote}
}

// IsValid checks if the series is a known DocumentSeries
func (s DocumentSeries) IsValid() bool {
	switch s {
	case SeriesInvoice, SeriesEstimate, SeriesProposal, SeriesCreditNote:
		return true
	}
	return false
}

// String returns the string representation of the series
func (s DocumentSeries) String() string {
	return string(s)
}

// Prefix returns the human-readable number prefix for the series
func (s DocumentSeries) Prefix() string {
	switch s {
	case SeriesInvoice:
		return "INV"
	case SeriesEstimate:
		return "EST"
	case SeriesProposal:
		return "PROP"
	case SeriesCreditNote:
		return "CN"
	}
	return ""
}

// NumberWidth returns the zero-padded width of the numeric suffix
func (s DocumentSeries) NumberWidth() int {
	if s == SeriesProposal {
		return 4
	}
	return 6
}

// FormatNumber renders a counter value as the series' document number,
// e.g. INV-000042 or PROP-0042.
func (s DocumentSeries) FormatNumber(value int64) string {
	return fmt.Sprintf("%s-%0*d", s.Prefix(), s.NumberWidth(), value)
}

// ItemAmountMode returns how line amounts are stored for this series.
// Invoices and proposals keep line amounts tax-exclusive and aggregate tax
// separately; estimates and credit notes store tax-inclusive line amounts.
func (s DocumentSeries) ItemAmountMode() AmountMode {
	switch s {
	case SeriesEstimate, SeriesCreditNote:
		return AmountTaxInclusive
	}
	return AmountTaxExclusive
}

// ParseSeries parses a series from its string form.
// Accepts the hyphenated URL form for credit notes as well.
func ParseSeries(value string) (DocumentSeries, error) {
	if value == "credit-note" {
		return SeriesCreditNote, nil
	}
	s := DocumentSeries(value)
	if !s.IsValid() {
		return "", shared.NewDomainError("INVALID_SERIES", fmt.Sprintf("Unknown document series: %s", value))
	}
	return s, nil
}
