package billing

import (
	"fmt"
	"time"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem represents one row of a document.
// Items are owned exclusively by their document and replaced wholesale
// on update; there are no partial item edits.
type LineItem struct {
	ID          uuid.UUID
	DocumentID  uuid.UUID
	Position    int
	Description string
	Quantity    decimal.Decimal
	UnitRate    decimal.Decimal
	// TaxPercent nil means the document-level tax rate applies
	TaxPercent *decimal.Decimal
	LineAmount decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewLineItem creates a new line item for the given document
func NewLineItem(documentID uuid.UUID, position int, description string, quantity, unitRate decimal.Decimal, taxPercent *decimal.Decimal) (*LineItem, error) {
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Item description cannot be empty")
	}
	if quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if unitRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RATE", "Unit rate cannot be negative")
	}
	if taxPercent != nil && taxPercent.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot be negative")
	}

	now := time.Now()
	return &LineItem{
		ID:          uuid.New(),
		DocumentID:  documentID,
		Position:    position,
		Description: description,
		Quantity:    quantity,
		UnitRate:    unitRate,
		TaxPercent:  taxPercent,
		LineAmount:  quantity.Mul(unitRate),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Document is the aggregate root for every financial document series:
// invoices, estimates, proposals and credit notes.
type Document struct {
	shared.BaseAggregateRoot
	// Number is assigned once at creation from the series counter
	// and never changes afterwards.
	Number string
	Series DocumentSeries
	// ContactID is a weak reference: the document survives contact
	// deletion and renders a placeholder instead.
	ContactID   *uuid.UUID
	ContactName string
	BillTo      string
	ShipTo      string
	IssueDate   time.Time
	DueDate     *time.Time
	Currency    valueobject.Currency
	// TaxRate is the document-level fallback for items without their own rate
	TaxRate          decimal.Decimal
	DiscountPolicy   DiscountPolicy
	DiscountAmount   decimal.Decimal
	AdjustmentAmount decimal.Decimal
	Status           DocumentStatus
	Notes            string
	Items            []LineItem
	SubTotal         decimal.Decimal
	TaxTotal         decimal.Decimal
	GrandTotal       decimal.Decimal
	// ConvertedToID links an accepted estimate to the invoice created from it
	ConvertedToID *uuid.UUID
}

// NewDocument creates a draft document without a number.
// The number is allocated by the repository inside the same transaction
// as the insert, so an aborted create never consumes a counter value.
func NewDocument(series DocumentSeries, contactID *uuid.UUID, contactName string, issueDate time.Time, currency valueobject.Currency) (*Document, error) {
	if !series.IsValid() {
		return nil, shared.NewDomainError("INVALID_SERIES", fmt.Sprintf("Unknown document series: %s", series))
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	if issueDate.IsZero() {
		issueDate = time.Now()
	}

	return &Document{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Series:            series,
		ContactID:         contactID,
		ContactName:       contactName,
		IssueDate:         issueDate,
		Currency:          currency,
		TaxRate:           decimal.Zero,
		DiscountPolicy:    DiscountNone,
		DiscountAmount:    decimal.Zero,
		AdjustmentAmount:  decimal.Zero,
		Status:            StatusDraft,
		Items:             make([]LineItem, 0),
		SubTotal:          decimal.Zero,
		TaxTotal:          decimal.Zero,
		GrandTotal:        decimal.Zero,
	}, nil
}

// AssignNumber sets the document number exactly once
func (d *Document) AssignNumber(number string) error {
	if d.Number != "" {
		return shared.NewDomainError("NUMBER_IMMUTABLE", "Document number is already assigned")
	}
	if number == "" {
		return shared.NewDomainError("INVALID_NUMBER", "Document number cannot be empty")
	}
	d.Number = number
	return nil
}

// SetPricing sets the document-level pricing parameters.
// Totals are stale until Recalculate is called.
func (d *Document) SetPricing(taxRate decimal.Decimal, policy DiscountPolicy, discount, adjustment decimal.Decimal) error {
	if !d.CanModify() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot modify a %s document", d.Status))
	}
	if taxRate.IsNegative() {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot be negative")
	}
	if discount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount amount cannot be negative")
	}
	if !adjustment.IsZero() && d.Series != SeriesCreditNote {
		return shared.NewDomainError("INVALID_ADJUSTMENT", "Adjustment amounts are only supported on credit notes")
	}

	d.TaxRate = taxRate
	d.DiscountPolicy = policy.Normalize()
	d.DiscountAmount = discount
	d.AdjustmentAmount = adjustment
	d.UpdatedAt = time.Now()
	return nil
}

// ReplaceItems swaps the full item collection.
// Totals are stale until Recalculate is called.
func (d *Document) ReplaceItems(items []LineItem) error {
	if !d.CanModify() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot modify a %s document", d.Status))
	}
	if len(items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "At least one line item is required")
	}

	for idx := range items {
		items[idx].DocumentID = d.ID
		items[idx].Position = idx
	}
	d.Items = items
	d.UpdatedAt = time.Now()
	return nil
}

// Recalculate recomputes all derived totals from the current items and
// pricing parameters. Line amounts are rewritten according to the
// series' amount mode.
func (d *Document) Recalculate() error {
	lines := make([]CalculatorLine, len(d.Items))
	for idx, item := range d.Items {
		lines[idx] = CalculatorLine{
			Quantity:   item.Quantity,
			UnitRate:   item.UnitRate,
			TaxPercent: item.TaxPercent,
		}
	}

	totals, err := Compute(CalculatorInput{
		Lines:            lines,
		Mode:             d.Series.ItemAmountMode(),
		TaxRateFallback:  d.TaxRate,
		DiscountPolicy:   d.DiscountPolicy,
		DiscountAmount:   d.DiscountAmount,
		AdjustmentAmount: d.AdjustmentAmount,
	})
	if err != nil {
		return err
	}

	for idx := range d.Items {
		d.Items[idx].LineAmount = totals.Lines[idx].LineAmount
	}
	d.SubTotal = totals.SubTotal
	d.TaxTotal = totals.TaxTotal
	d.GrandTotal = totals.GrandTotal
	return nil
}

// SetStatus transitions the document to the target status.
// Converted is not reachable this way: it is only entered through
// MarkConverted, which pairs the transition with the invoice insert.
func (d *Document) SetStatus(target DocumentStatus) error {
	if target == StatusConverted {
		return shared.NewDomainError("INVALID_TRANSITION", "Estimates become converted through conversion, not a status change")
	}
	if err := Transition(d.Series, d.Status, target); err != nil {
		return err
	}
	d.Status = target
	d.UpdatedAt = time.Now()
	return nil
}

// MarkConverted transitions an accepted estimate to converted and records
// the invoice created from it
func (d *Document) MarkConverted(invoiceID uuid.UUID) error {
	if d.Series != SeriesEstimate {
		return shared.NewDomainError("INVALID_SERIES", "Only estimates can be converted")
	}
	if err := Transition(d.Series, d.Status, StatusConverted); err != nil {
		return err
	}
	d.Status = StatusConverted
	d.ConvertedToID = &invoiceID
	d.UpdatedAt = time.Now()
	return nil
}

// CanModify returns true if items and pricing may still change.
// Terminal documents are frozen.
func (d *Document) CanModify() bool {
	return !d.Status.IsTerminal(d.Series)
}

// IsTerminal returns true if the document is in a terminal state
func (d *Document) IsTerminal() bool {
	return d.Status.IsTerminal(d.Series)
}

// DisplayContactName returns the contact name, or a placeholder when the
// referenced contact no longer exists
func (d *Document) DisplayContactName() string {
	if d.ContactName == "" {
		return "[deleted contact]"
	}
	return d.ContactName
}

// GetSubTotalMoney returns the subtotal as Money
func (d *Document) GetSubTotalMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(d.SubTotal, d.Currency)
	return m
}

// GetTaxTotalMoney returns the tax total as Money
func (d *Document) GetTaxTotalMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(d.TaxTotal, d.Currency)
	return m
}

// GetGrandTotalMoney returns the grand total as Money
func (d *Document) GetGrandTotalMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(d.GrandTotal, d.Currency)
	return m
}

// ItemCount returns the number of line items
func (d *Document) ItemCount() int {
	return len(d.Items)
}

// NewInvoiceFromEstimate builds the invoice created by converting an
// accepted estimate. Totals are copied verbatim, not recomputed, so the
// quoted price survives conversion unchanged.
func NewInvoiceFromEstimate(estimate *Document) (*Document, error) {
	if estimate.Series != SeriesEstimate {
		return nil, shared.NewDomainError("INVALID_SERIES", "Only estimates can be converted")
	}
	if estimate.Status != StatusAccepted {
		return nil, shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot convert estimate in %s status", estimate.Status))
	}

	invoice, err := NewDocument(SeriesInvoice, estimate.ContactID, estimate.ContactName, time.Now(), estimate.Currency)
	if err != nil {
		return nil, err
	}

	invoice.BillTo = estimate.BillTo
	invoice.ShipTo = estimate.ShipTo
	invoice.Notes = estimate.Notes
	invoice.TaxRate = estimate.TaxRate
	invoice.DiscountPolicy = estimate.DiscountPolicy
	invoice.DiscountAmount = estimate.DiscountAmount
	invoice.AdjustmentAmount = estimate.AdjustmentAmount

	items := make([]LineItem, len(estimate.Items))
	now := time.Now()
	for idx, item := range estimate.Items {
		items[idx] = LineItem{
			ID:          uuid.New(),
			DocumentID:  invoice.ID,
			Position:    idx,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitRate:    item.UnitRate,
			TaxPercent:  item.TaxPercent,
			LineAmount:  item.LineAmount,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}
	invoice.Items = items

	invoice.SubTotal = estimate.SubTotal
	invoice.TaxTotal = estimate.TaxTotal
	invoice.GrandTotal = estimate.GrandTotal

	return invoice, nil
}
