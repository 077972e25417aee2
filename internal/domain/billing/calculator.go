package billing

import (
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// AmountMode controls whether a line's stored amount includes its tax share
type AmountMode string

const (
	AmountTaxExclusive AmountMode = "tax_exclusive"
	AmountTaxInclusive AmountMode = "tax_inclusive"
)

// DiscountPolicy controls where a flat discount is applied in the totals
type DiscountPolicy string

const (
	DiscountNone      DiscountPolicy = "none"
	DiscountBeforeTax DiscountPolicy = "before_tax"
	DiscountAfterTax  DiscountPolicy = "after_tax"
)

// Normalize maps unknown policies to none
func (p DiscountPolicy) Normalize() DiscountPolicy {
	switch p {
	case DiscountBeforeTax, DiscountAfterTax:
		return p
	}
	return DiscountNone
}

// CalculatorLine is one input row for the totals calculator.
// TaxPercent nil means the document-level fallback rate applies.
type CalculatorLine struct {
	Quantity   decimal.Decimal
	UnitRate   decimal.Decimal
	TaxPercent *decimal.Decimal
}

// CalculatorInput carries everything the calculator needs for one document
type CalculatorInput struct {
	Lines            []CalculatorLine
	Mode             AmountMode
	TaxRateFallback  decimal.Decimal
	DiscountPolicy   DiscountPolicy
	DiscountAmount   decimal.Decimal
	AdjustmentAmount decimal.Decimal
}

// CalculatedLine is one computed row: base, tax share, and the amount
// stored on the line item (base alone or base+tax depending on mode)
type CalculatedLine struct {
	LineBase   decimal.Decimal
	LineTax    decimal.Decimal
	LineAmount decimal.Decimal
}

// CalculatedTotals holds the derived totals for a document.
// SubTotal, TaxTotal and GrandTotal are rounded to the minor unit;
// per-line values stay unrounded so sums do not drift.
type CalculatedTotals struct {
	Lines      []CalculatedLine
	SubTotal   decimal.Decimal
	TaxTotal   decimal.Decimal
	GrandTotal decimal.Decimal
}

// Compute derives all document totals from the line inputs.
//
// Per line: base = quantity * rate, tax = base * rate / 100. Lines are
// summed unrounded, the two sums are rounded to the minor unit, and the
// grand total is built from those rounded figures so the published
// numbers always agree with each other:
//
//	none:       sub + tax + adjustment
//	before_tax: (sub - discount) + tax + adjustment
//	after_tax:  (sub + tax) - discount + adjustment
func Compute(in CalculatorInput) (*CalculatedTotals, error) {
	if len(in.Lines) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "At least one line item is required")
	}
	if in.DiscountAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount amount cannot be negative")
	}

	subTotal := decimal.Zero
	taxTotal := decimal.Zero
	lines := make([]CalculatedLine, 0, len(in.Lines))

	for _, line := range in.Lines {
		if line.Quantity.IsNegative() {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
		}
		if line.UnitRate.IsNegative() {
			return nil, shared.NewDomainError("INVALID_RATE", "Unit rate cannot be negative")
		}

		rate := in.TaxRateFallback
		if line.TaxPercent != nil {
			rate = *line.TaxPercent
		}
		if rate.IsNegative() {
			return nil, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot be negative")
		}

		base := line.Quantity.Mul(line.UnitRate)
		tax := base.Mul(rate).Div(decimal.NewFromInt(100))

		amount := base
		if in.Mode == AmountTaxInclusive {
			amount = base.Add(tax)
		}

		lines = append(lines, CalculatedLine{
			LineBase:   base,
			LineTax:    tax,
			LineAmount: amount,
		})
		subTotal = subTotal.Add(base)
		taxTotal = taxTotal.Add(tax)
	}

	// The grand total derives from the rounded subtotal and tax total,
	// never from the raw sums: with policy none and no adjustment,
	// grand == sub + tax must hold on the published figures.
	subTotal = subTotal.Round(valueobject.MinorUnits)
	taxTotal = taxTotal.Round(valueobject.MinorUnits)

	var grand decimal.Decimal
	switch in.DiscountPolicy.Normalize() {
	case DiscountBeforeTax:
		grand = subTotal.Sub(in.DiscountAmount).Add(taxTotal)
	case DiscountAfterTax:
		grand = subTotal.Add(taxTotal).Sub(in.DiscountAmount)
	default:
		grand = subTotal.Add(taxTotal)
	}
	grand = grand.Add(in.AdjustmentAmount)

	return &CalculatedTotals{
		Lines:      lines,
		SubTotal:   subTotal,
		TaxTotal:   taxTotal,
		GrandTotal: grand.Round(valueobject.MinorUnits),
	}, nil
}
