package models

import (
	"github.com/backoffice/backend/internal/domain/partner"
	"github.com/backoffice/backend/internal/domain/shared"
)

// ContactModel is the persistence model for the Contact aggregate root.
type ContactModel struct {
	AggregateModel
	Name    string              `gorm:"type:varchar(200);not null;index"`
	Type    partner.ContactType `gorm:"type:varchar(20);not null;default:'LEAD';index"`
	Email   string              `gorm:"type:varchar(200);index"`
	Phone   string              `gorm:"type:varchar(50)"`
	Company string              `gorm:"type:varchar(200)"`
	Address string              `gorm:"type:text"`
	Notes   string              `gorm:"type:text"`
	Active  bool                `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ContactModel) TableName() string {
	return "contacts"
}

// ToDomain converts the persistence model to a domain Contact entity.
func (m *ContactModel) ToDomain() *partner.Contact {
	return &partner.Contact{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		Name:    m.Name,
		Type:    m.Type,
		Email:   m.Email,
		Phone:   m.Phone,
		Company: m.Company,
		Address: m.Address,
		Notes:   m.Notes,
		Active:  m.Active,
	}
}

// FromDomain populates the persistence model from a domain Contact entity.
func (m *ContactModel) FromDomain(c *partner.Contact) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Name = c.Name
	m.Type = c.Type
	m.Email = c.Email
	m.Phone = c.Phone
	m.Company = c.Company
	m.Address = c.Address
	m.Notes = c.Notes
	m.Active = c.Active
}

// ContactModelFromDomain creates a new persistence model from a domain Contact entity.
func ContactModelFromDomain(c *partner.Contact) *ContactModel {
	m := &ContactModel{}
	m.FromDomain(c)
	return m
}
