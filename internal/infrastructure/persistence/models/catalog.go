package models

import (
	"github.com/backoffice/backend/internal/domain/catalog"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ItemModel is the persistence model for the catalog Item aggregate root.
type ItemModel struct {
	AggregateModel
	Name        string          `gorm:"type:varchar(200);not null;index"`
	Description string          `gorm:"type:varchar(500)"`
	UnitRate    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxPercent  decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`
	Active      bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ItemModel) TableName() string {
	return "catalog_items"
}

// ToDomain converts the persistence model to a domain Item entity.
func (m *ItemModel) ToDomain() *catalog.Item {
	return &catalog.Item{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		Name:        m.Name,
		Description: m.Description,
		UnitRate:    m.UnitRate,
		TaxPercent:  m.TaxPercent,
		Active:      m.Active,
	}
}

// FromDomain populates the persistence model from a domain Item entity.
func (m *ItemModel) FromDomain(i *catalog.Item) {
	m.FromDomainAggregateRoot(i.BaseAggregateRoot)
	m.Name = i.Name
	m.Description = i.Description
	m.UnitRate = i.UnitRate
	m.TaxPercent = i.TaxPercent
	m.Active = i.Active
}

// ItemModelFromDomain creates a new persistence model from a domain Item entity.
func ItemModelFromDomain(i *catalog.Item) *ItemModel {
	m := &ItemModel{}
	m.FromDomain(i)
	return m
}
