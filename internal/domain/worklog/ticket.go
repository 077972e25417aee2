package worklog

import (
	"strings"
	"time"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TicketStatus is the support ticket lifecycle state
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// IsValid checks if the status is known
func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// Ticket is a support request. The requester is either a stored contact
// (weak reference, same rules as documents) or a bare name and email
// for people outside the contact book.
type Ticket struct {
	shared.BaseAggregateRoot
	Subject        string
	ContactID      *uuid.UUID
	RequesterName  string
	RequesterEmail string
	CC             string
	Priority       TaskPriority
	Status         TicketStatus
}

// NewTicket creates an open ticket. Exactly one requester form is
// required: a contact reference, or a name plus email.
func NewTicket(subject string, contactID *uuid.UUID, requesterName, requesterEmail string, priority TaskPriority) (*Ticket, error) {
	if strings.TrimSpace(subject) == "" {
		return nil, shared.NewDomainError("INVALID_SUBJECT", "Ticket subject cannot be empty")
	}
	if contactID == nil {
		if strings.TrimSpace(requesterName) == "" || requesterEmail == "" {
			return nil, shared.NewDomainError("INVALID_REQUESTER", "Requester name and email are required when no contact is given")
		}
		if !strings.Contains(requesterEmail, "@") {
			return nil, shared.NewDomainError("INVALID_EMAIL", "Invalid requester email address")
		}
	}
	if priority == "" {
		priority = PriorityMedium
	}
	if !priority.IsValid() {
		return nil, shared.NewDomainError("INVALID_PRIORITY", "Unknown ticket priority")
	}

	return &Ticket{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Subject:           strings.TrimSpace(subject),
		ContactID:         contactID,
		RequesterName:     strings.TrimSpace(requesterName),
		RequesterEmail:    requesterEmail,
		Priority:          priority,
		Status:            TicketStatusOpen,
	}, nil
}

// UpdateDetails updates the ticket's editable fields.
// Closed tickets are frozen.
func (t *Ticket) UpdateDetails(subject, cc string, priority TaskPriority) error {
	if t.Status == TicketStatusClosed {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify a closed ticket")
	}
	if strings.TrimSpace(subject) == "" {
		return shared.NewDomainError("INVALID_SUBJECT", "Ticket subject cannot be empty")
	}
	if !priority.IsValid() {
		return shared.NewDomainError("INVALID_PRIORITY", "Unknown ticket priority")
	}

	t.Subject = strings.TrimSpace(subject)
	t.CC = cc
	t.Priority = priority
	t.UpdatedAt = time.Now()
	return nil
}

// SetStatus moves the ticket to the target status.
// Closed is terminal.
func (t *Ticket) SetStatus(target TicketStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown ticket status")
	}
	if t.Status == TicketStatusClosed {
		return shared.NewDomainError("INVALID_TRANSITION", "Closed tickets cannot change status")
	}
	t.Status = target
	t.UpdatedAt = time.Now()
	return nil
}

// DisplayRequester returns the requester's name, falling back to the
// placeholder for a deleted contact
func (t *Ticket) DisplayRequester() string {
	if t.RequesterName == "" {
		return "[deleted contact]"
	}
	return t.RequesterName
}
