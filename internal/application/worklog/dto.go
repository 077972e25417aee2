package worklog

import (
	"time"

	"github.com/backoffice/backend/internal/domain/worklog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateTaskRequest represents a request to create a task
type CreateTaskRequest struct {
	Subject     string          `json:"subject" binding:"required,min=1,max=200"`
	Description string          `json:"description" binding:"max=2000"`
	Priority    string          `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
	StartDate   time.Time       `json:"start_date" binding:"required"`
	DueDate     *time.Time      `json:"due_date"`
	HourlyRate  decimal.Decimal `json:"hourly_rate"`
	Billable    bool            `json:"billable"`
	Public      *bool           `json:"public"`
	RelatedType string          `json:"related_type" binding:"omitempty,oneof=invoice estimate proposal contact"`
	RelatedRef  string          `json:"related_ref" binding:"max=100"`
}

// UpdateTaskRequest represents a request to update a task
type UpdateTaskRequest struct {
	Subject     string          `json:"subject" binding:"required,min=1,max=200"`
	Description string          `json:"description" binding:"max=2000"`
	Priority    string          `json:"priority" binding:"required,oneof=LOW MEDIUM HIGH"`
	StartDate   time.Time       `json:"start_date" binding:"required"`
	DueDate     *time.Time      `json:"due_date"`
	HourlyRate  decimal.Decimal `json:"hourly_rate"`
	Billable    bool            `json:"billable"`
	Public      bool            `json:"public"`
	RelatedType string          `json:"related_type" binding:"omitempty,oneof=invoice estimate proposal contact"`
	RelatedRef  string          `json:"related_ref" binding:"max=100"`
}

// SetTaskStatusRequest carries a task status transition
type SetTaskStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// TaskResponse represents a task in API responses
type TaskResponse struct {
	ID          uuid.UUID       `json:"id"`
	Subject     string          `json:"subject"`
	Description string          `json:"description"`
	Priority    string          `json:"priority"`
	Status      string          `json:"status"`
	StartDate   time.Time       `json:"start_date"`
	DueDate     *time.Time      `json:"due_date"`
	HourlyRate  decimal.Decimal `json:"hourly_rate"`
	Billable    bool            `json:"billable"`
	Public      bool            `json:"public"`
	RelatedType string          `json:"related_type"`
	RelatedRef  string          `json:"related_ref"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Version     int             `json:"version"`
}

// TaskListFilter represents filter options for task lists
type TaskListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=OPEN IN_PROGRESS COMPLETED"`
	Priority string `form:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
	Billable *bool  `form:"billable"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=created_at start_date due_date priority"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToTaskResponse converts a domain task to a response DTO
func ToTaskResponse(t *worklog.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Subject:     t.Subject,
		Description: t.Description,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		StartDate:   t.StartDate,
		DueDate:     t.DueDate,
		HourlyRate:  t.HourlyRate,
		Billable:    t.Billable,
		Public:      t.Public,
		RelatedType: string(t.RelatedType),
		RelatedRef:  t.RelatedRef,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		Version:     t.Version,
	}
}

// CreateTicketRequest represents a request to create a ticket.
// Either contact_id or requester name plus email must be supplied.
type CreateTicketRequest struct {
	Subject        string     `json:"subject" binding:"required,min=1,max=200"`
	ContactID      *uuid.UUID `json:"contact_id"`
	RequesterName  string     `json:"requester_name" binding:"max=200"`
	RequesterEmail string     `json:"requester_email" binding:"omitempty,email,max=200"`
	CC             string     `json:"cc" binding:"max=500"`
	Priority       string     `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
}

// UpdateTicketRequest represents a request to update a ticket
type UpdateTicketRequest struct {
	Subject  string `json:"subject" binding:"required,min=1,max=200"`
	CC       string `json:"cc" binding:"max=500"`
	Priority string `json:"priority" binding:"required,oneof=LOW MEDIUM HIGH"`
}

// SetTicketStatusRequest carries a ticket status transition
type SetTicketStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// TicketResponse represents a ticket in API responses
type TicketResponse struct {
	ID             uuid.UUID  `json:"id"`
	Subject        string     `json:"subject"`
	ContactID      *uuid.UUID `json:"contact_id"`
	RequesterName  string     `json:"requester_name"`
	RequesterEmail string     `json:"requester_email"`
	CC             string     `json:"cc"`
	Priority       string     `json:"priority"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	Version        int        `json:"version"`
}

// TicketListFilter represents filter options for ticket lists
type TicketListFilter struct {
	Search    string `form:"search"`
	Status    string `form:"status" binding:"omitempty,oneof=OPEN IN_PROGRESS RESOLVED CLOSED"`
	Priority  string `form:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
	ContactID string `form:"contact_id" binding:"omitempty,uuid"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string `form:"order_by" binding:"omitempty,oneof=created_at priority status"`
	OrderDir  string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToTicketResponse converts a domain ticket to a response DTO
func ToTicketResponse(t *worklog.Ticket) TicketResponse {
	return TicketResponse{
		ID:             t.ID,
		Subject:        t.Subject,
		ContactID:      t.ContactID,
		RequesterName:  t.DisplayRequester(),
		RequesterEmail: t.RequesterEmail,
		CC:             t.CC,
		Priority:       string(t.Priority),
		Status:         string(t.Status),
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
		Version:        t.Version,
	}
}
