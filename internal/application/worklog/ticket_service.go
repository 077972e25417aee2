package worklog

import (
	"context"
	"errors"

	"github.com/backoffice/backend/internal/domain/partner"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/domain/worklog"
	"github.com/google/uuid"
)

// TicketService handles support ticket operations
type TicketService struct {
	tickets  worklog.TicketRepository
	contacts partner.ContactRepository
}

// NewTicketService creates a new TicketService
func NewTicketService(tickets worklog.TicketRepository, contacts partner.ContactRepository) *TicketService {
	return &TicketService{tickets: tickets, contacts: contacts}
}

// Create creates a new ticket. A contact reference is resolved to a
// name snapshot, the same way documents snapshot their contact.
func (s *TicketService) Create(ctx context.Context, req CreateTicketRequest) (*TicketResponse, error) {
	requesterName := req.RequesterName
	requesterEmail := req.RequesterEmail
	if req.ContactID != nil {
		contact, err := s.contacts.FindByID(ctx, *req.ContactID)
		if err != nil {
			var domainErr *shared.DomainError
			if errors.As(err, &domainErr) && domainErr.Code == shared.ErrNotFound.Code {
				return nil, shared.NewDomainError("INVALID_CONTACT", "Referenced contact does not exist")
			}
			return nil, err
		}
		requesterName = contact.Name
		requesterEmail = contact.Email
	}

	ticket, err := worklog.NewTicket(req.Subject, req.ContactID, requesterName, requesterEmail, worklog.TaskPriority(req.Priority))
	if err != nil {
		return nil, err
	}
	ticket.CC = req.CC

	if err := s.tickets.Save(ctx, ticket); err != nil {
		return nil, err
	}

	response := ToTicketResponse(ticket)
	return &response, nil
}

// GetByID retrieves a ticket by ID
func (s *TicketService) GetByID(ctx context.Context, id uuid.UUID) (*TicketResponse, error) {
	ticket, err := s.tickets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToTicketResponse(ticket)
	return &response, nil
}

// List retrieves tickets with filtering and pagination
func (s *TicketService) List(ctx context.Context, filter TicketListFilter) ([]TicketResponse, int64, error) {
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
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Priority != "" {
		domainFilter.Filters["priority"] = filter.Priority
	}
	if filter.ContactID != "" {
		domainFilter.Filters["contact_id"] = filter.ContactID
	}

	tickets, err := s.tickets.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.tickets.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]TicketResponse, len(tickets))
	for idx := range tickets {
		responses[idx] = ToTicketResponse(&tickets[idx])
	}
	return responses, total, nil
}

// Update updates a ticket's details
func (s *TicketService) Update(ctx context.Context, id uuid.UUID, req UpdateTicketRequest) (*TicketResponse, error) {
	ticket, err := s.tickets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := ticket.UpdateDetails(req.Subject, req.CC, worklog.TaskPriority(req.Priority)); err != nil {
		return nil, err
	}
	if err := s.tickets.Save(ctx, ticket); err != nil {
		return nil, err
	}

	response := ToTicketResponse(ticket)
	return &response, nil
}

// SetStatus moves a ticket to the requested status
func (s *TicketService) SetStatus(ctx context.Context, id uuid.UUID, req SetTicketStatusRequest) (*TicketResponse, error) {
	ticket, err := s.tickets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := ticket.SetStatus(worklog.TicketStatus(req.Status)); err != nil {
		return nil, err
	}
	if err := s.tickets.Save(ctx, ticket); err != nil {
		return nil, err
	}

	response := ToTicketResponse(ticket)
	return &response, nil
}

// Delete removes a ticket
func (s *TicketService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.tickets.FindByID(ctx, id); err != nil {
		return err
	}
	return s.tickets.Delete(ctx, id)
}
