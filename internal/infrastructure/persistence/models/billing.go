package models

import (
	"time"

	"github.com/backoffice/backend/internal/domain/billing"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentModel is the persistence model for the Document aggregate root.
type DocumentModel struct {
	AggregateModel
	Number           string                 `gorm:"type:varchar(50);not null;uniqueIndex:idx_document_series_number,priority:2"`
	Series           billing.DocumentSeries `gorm:"type:varchar(20);not null;uniqueIndex:idx_document_series_number,priority:1;index"`
	ContactID        *uuid.UUID             `gorm:"type:uuid;index"`
	ContactName      string                 `gorm:"type:varchar(200)"`
	BillTo           string                 `gorm:"type:text"`
	ShipTo           string                 `gorm:"type:text"`
	IssueDate        time.Time              `gorm:"not null;index"`
	DueDate          *time.Time
	Currency         valueobject.Currency   `gorm:"type:varchar(3);not null;default:'INR'"`
	TaxRate          decimal.Decimal        `gorm:"type:decimal(8,4);not null;default:0"`
	DiscountPolicy   billing.DiscountPolicy `gorm:"type:varchar(20);not null;default:'none'"`
	DiscountAmount   decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	AdjustmentAmount decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	Status           billing.DocumentStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	Notes            string                 `gorm:"type:text"`
	Items            []LineItemModel        `gorm:"foreignKey:DocumentID;references:ID"`
	SubTotal         decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	TaxTotal         decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	GrandTotal       decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	ConvertedToID    *uuid.UUID             `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (DocumentModel) TableName() string {
	return "documents"
}

// ToDomain converts the persistence model to a domain Document entity.
func (m *DocumentModel) ToDomain() *billing.Document {
	doc := &billing.Document{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		Number:           m.Number,
		Series:           m.Series,
		ContactID:        m.ContactID,
		ContactName:      m.ContactName,
		BillTo:           m.BillTo,
		ShipTo:           m.ShipTo,
		IssueDate:        m.IssueDate,
		DueDate:          m.DueDate,
		Currency:         m.Currency,
		TaxRate:          m.TaxRate,
		DiscountPolicy:   m.DiscountPolicy,
		DiscountAmount:   m.DiscountAmount,
		AdjustmentAmount: m.AdjustmentAmount,
		Status:           m.Status,
		Notes:            m.Notes,
		SubTotal:         m.SubTotal,
		TaxTotal:         m.TaxTotal,
		GrandTotal:       m.GrandTotal,
		ConvertedToID:    m.ConvertedToID,
		Items:            make([]billing.LineItem, len(m.Items)),
	}
	for i, item := range m.Items {
		doc.Items[i] = *item.ToDomain()
	}
	return doc
}

// FromDomain populates the persistence model from a domain Document entity.
func (m *DocumentModel) FromDomain(d *billing.Document) {
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	m.Number = d.Number
	m.Series = d.Series
	m.ContactID = d.ContactID
	m.ContactName = d.ContactName
	m.BillTo = d.BillTo
	m.ShipTo = d.ShipTo
	m.IssueDate = d.IssueDate
	m.DueDate = d.DueDate
	m.Currency = d.Currency
	m.TaxRate = d.TaxRate
	m.DiscountPolicy = d.DiscountPolicy
	m.DiscountAmount = d.DiscountAmount
	m.AdjustmentAmount = d.AdjustmentAmount
	m.Status = d.Status
	m.Notes = d.Notes
	m.SubTotal = d.SubTotal
	m.TaxTotal = d.TaxTotal
	m.GrandTotal = d.GrandTotal
	m.ConvertedToID = d.ConvertedToID
	m.Items = make([]LineItemModel, len(d.Items))
	for i, item := range d.Items {
		m.Items[i] = *LineItemModelFromDomain(&item)
	}
}

// DocumentModelFromDomain creates a new persistence model from a domain Document entity.
func DocumentModelFromDomain(d *billing.Document) *DocumentModel {
	m := &DocumentModel{}
	m.FromDomain(d)
	return m
}

// LineItemModel is the persistence model for the LineItem entity.
type LineItemModel struct {
	ID          uuid.UUID        `gorm:"type:uuid;primary_key"`
	DocumentID  uuid.UUID        `gorm:"type:uuid;not null;index"`
	Position    int              `gorm:"not null"`
	Description string           `gorm:"type:varchar(500);not null"`
	Quantity    decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	UnitRate    decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	TaxPercent  *decimal.Decimal `gorm:"type:decimal(8,4)"`
	LineAmount  decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	CreatedAt   time.Time        `gorm:"not null"`
	UpdatedAt   time.Time        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (LineItemModel) TableName() string {
	return "line_items"
}

// ToDomain converts the persistence model to a domain LineItem entity.
func (m *LineItemModel) ToDomain() *billing.LineItem {
	return &billing.LineItem{
		ID:          m.ID,
		DocumentID:  m.DocumentID,
		Position:    m.Position,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitRate:    m.UnitRate,
		TaxPercent:  m.TaxPercent,
		LineAmount:  m.LineAmount,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain LineItem entity.
func (m *LineItemModel) FromDomain(i *billing.LineItem) {
	m.ID = i.ID
	m.DocumentID = i.DocumentID
	m.Position = i.Position
	m.Description = i.Description
	m.Quantity = i.Quantity
	m.UnitRate = i.UnitRate
	m.TaxPercent = i.TaxPercent
	m.LineAmount = i.LineAmount
	m.CreatedAt = i.CreatedAt
	m.UpdatedAt = i.UpdatedAt
}

// LineItemModelFromDomain creates a new persistence model from a domain LineItem entity.
func LineItemModelFromDomain(i *billing.LineItem) *LineItemModel {
	m := &LineItemModel{}
	m.FromDomain(i)
	return m
}

// SequenceCounterModel is the persistence model for per-series number counters.
// One row per series, seeded by migration, only ever incremented.
type SequenceCounterModel struct {
	Series    billing.DocumentSeries `gorm:"type:varchar(20);primary_key"`
	LastValue int64                  `gorm:"not null"`
	UpdatedAt time.Time              `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SequenceCounterModel) TableName() string {
	return "sequence_counters"
}

// ToDomain converts the persistence model to a domain SequenceCounter.
func (m *SequenceCounterModel) ToDomain() *billing.SequenceCounter {
	return &billing.SequenceCounter{
		Series:    m.Series,
		LastValue: m.LastValue,
		UpdatedAt: m.UpdatedAt,
	}
}
