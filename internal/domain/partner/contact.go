package partner

import (
	"strings"
	"time"

	"github.com/backoffice/backend/internal/domain/shared"
)

// ContactType distinguishes prospects from established customers
type ContactType string

const (
	ContactTypeLead     ContactType = "LEAD"
	ContactTypeCustomer ContactType = "CUSTOMER"
)

// IsValid checks if the contact type is known
func (t ContactType) IsValid() bool {
	return t == ContactTypeLead || t == ContactTypeCustomer
}

// Contact represents a person or company documents are issued to.
// Documents hold only a weak reference to a contact: deleting a contact
// never touches the documents that mention it.
type Contact struct {
	shared.BaseAggregateRoot
	Name    string
	Type    ContactType
	Email   string
	Phone   string
	Company string
	Address string
	Notes   string
	Active  bool
}

// NewContact creates a new contact
func NewContact(name string, contactType ContactType, email string) (*Contact, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Contact name cannot be empty")
	}
	if !contactType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Unknown contact type")
	}
	if email != "" && !strings.Contains(email, "@") {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Invalid email address")
	}

	return &Contact{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Type:              contactType,
		Email:             email,
		Active:            true,
	}, nil
}

// UpdateDetails updates the contact's editable fields
func (c *Contact) UpdateDetails(name, email, phone, company, address, notes string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Contact name cannot be empty")
	}
	if email != "" && !strings.Contains(email, "@") {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email address")
	}

	c.Name = strings.TrimSpace(name)
	c.Email = email
	c.Phone = phone
	c.Company = company
	c.Address = address
	c.Notes = notes
	c.UpdatedAt = time.Now()
	return nil
}

// Promote converts a lead into a customer
func (c *Contact) Promote() error {
	if c.Type == ContactTypeCustomer {
		return shared.NewDomainError("INVALID_STATE", "Contact is already a customer")
	}
	c.Type = ContactTypeCustomer
	c.UpdatedAt = time.Now()
	return nil
}

// Deactivate marks the contact inactive without deleting it
func (c *Contact) Deactivate() {
	c.Active = false
	c.UpdatedAt = time.Now()
}

// Activate marks the contact active again
func (c *Contact) Activate() {
	c.Active = true
	c.UpdatedAt = time.Now()
}
