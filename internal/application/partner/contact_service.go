package partner

import (
	"context"
	"errors"

	"github.com/backoffice/backend/internal/domain/partner"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ContactService handles contact-related business operations
type ContactService struct {
	contacts partner.ContactRepository
}

// NewContactService creates a new ContactService
func NewContactService(contacts partner.ContactRepository) *ContactService {
	return &ContactService{contacts: contacts}
}

// Create creates a new contact
func (s *ContactService) Create(ctx context.Context, req CreateContactRequest) (*ContactResponse, error) {
	if req.Email != "" {
		existing, err := s.contacts.FindByEmail(ctx, req.Email)
		if err != nil && !isNotFound(err) {
			return nil, err
		}
		if existing != nil {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Contact with this email already exists")
		}
	}

	contact, err := partner.NewContact(req.Name, partner.ContactType(req.Type), req.Email)
	if err != nil {
		return nil, err
	}
	if err := contact.UpdateDetails(req.Name, req.Email, req.Phone, req.Company, req.Address, req.Notes); err != nil {
		return nil, err
	}

	if err := s.contacts.Save(ctx, contact); err != nil {
		return nil, err
	}

	response := ToContactResponse(contact)
	return &response, nil
}

// GetByID retrieves a contact by ID
func (s *ContactService) GetByID(ctx context.Context, id uuid.UUID) (*ContactResponse, error) {
	contact, err := s.contacts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToContactResponse(contact)
	return &response, nil
}

// List retrieves contacts with filtering and pagination
func (s *ContactService) List(ctx context.Context, filter ContactListFilter) ([]ContactResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}
	if filter.Active != nil {
		domainFilter.Filters["active"] = *filter.Active
	}

	contacts, err := s.contacts.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.contacts.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ContactResponse, len(contacts))
	for idx := range contacts {
		responses[idx] = ToContactResponse(&contacts[idx])
	}
	return responses, total, nil
}

// Update updates a contact's details
func (s *ContactService) Update(ctx context.Context, id uuid.UUID, req UpdateContactRequest) (*ContactResponse, error) {
	contact, err := s.contacts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := contact.UpdateDetails(req.Name, req.Email, req.Phone, req.Company, req.Address, req.Notes); err != nil {
		return nil, err
	}
	if err := s.contacts.Save(ctx, contact); err != nil {
		return nil, err
	}

	response := ToContactResponse(contact)
	return &response, nil
}

// Promote converts a lead into a customer
func (s *ContactService) Promote(ctx context.Context, id uuid.UUID) (*ContactResponse, error) {
	contact, err := s.contacts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := contact.Promote(); err != nil {
		return nil, err
	}
	if err := s.contacts.Save(ctx, contact); err != nil {
		return nil, err
	}

	response := ToContactResponse(contact)
	return &response, nil
}

// Delete removes a contact. Documents that reference it keep their
// snapshot of the name and render a placeholder for the live link.
func (s *ContactService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.contacts.FindByID(ctx, id); err != nil {
		return err
	}
	return s.contacts.Delete(ctx, id)
}

func isNotFound(err error) bool {
	var domainErr *shared.DomainError
	return errors.As(err, &domainErr) && domainErr.Code == shared.ErrNotFound.Code
}
