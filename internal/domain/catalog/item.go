package catalog

import (
	"strings"
	"time"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Item is a reusable catalog entry that pre-fills document line items
// with a description, default rate and default tax percentage.
type Item struct {
	shared.BaseAggregateRoot
	Name        string
	Description string
	UnitRate    decimal.Decimal
	TaxPercent  decimal.Decimal
	Active      bool
}

// NewItem creates a new catalog item
func NewItem(name, description string, unitRate, taxPercent decimal.Decimal) (*Item, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
	}
	if unitRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RATE", "Unit rate cannot be negative")
	}
	if taxPercent.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot be negative")
	}

	return &Item{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Description:       description,
		UnitRate:          unitRate,
		TaxPercent:        taxPercent,
		Active:            true,
	}, nil
}

// UpdateDetails updates the item's editable fields
func (i *Item) UpdateDetails(name, description string, unitRate, taxPercent decimal.Decimal) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
	}
	if unitRate.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Unit rate cannot be negative")
	}
	if taxPercent.IsNegative() {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot be negative")
	}

	i.Name = strings.TrimSpace(name)
	i.Description = description
	i.UnitRate = unitRate
	i.TaxPercent = taxPercent
	i.UpdatedAt = time.Now()
	return nil
}

// Deactivate hides the item from new documents
func (i *Item) Deactivate() {
	i.Active = false
	i.UpdatedAt = time.Now()
}

// Activate makes the item available again
func (i *Item) Activate() {
	i.Active = true
	i.UpdatedAt = time.Now()
}
