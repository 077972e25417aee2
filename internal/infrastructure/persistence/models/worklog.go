package models

import (
	"time"

	"github.com/backoffice/backend/internal/domain/worklog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaskModel is the persistence model for the Task aggregate root.
type TaskModel struct {
	AggregateModel
	Subject     string               `gorm:"type:varchar(200);not null;index"`
	Description string               `gorm:"type:text"`
	Priority    worklog.TaskPriority `gorm:"type:varchar(10);not null;default:'LOW';index"`
	Status      worklog.TaskStatus   `gorm:"type:varchar(20);not null;default:'OPEN';index"`
	StartDate   time.Time            `gorm:"not null"`
	DueDate     *time.Time
	HourlyRate  decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0"`
	Billable    bool            `gorm:"not null;default:false;index"`
	Public      bool            `gorm:"not null;default:true"`
	RelatedType string          `gorm:"type:varchar(20)"`
	RelatedRef  string          `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (TaskModel) TableName() string {
	return "tasks"
}

// ToDomain converts the persistence model to a domain Task entity.
func (m *TaskModel) ToDomain() *worklog.Task {
	task := &worklog.Task{
		Subject:     m.Subject,
		Description: m.Description,
		Priority:    m.Priority,
		Status:      m.Status,
		StartDate:   m.StartDate,
		DueDate:     m.DueDate,
		HourlyRate:  m.HourlyRate,
		Billable:    m.Billable,
		Public:      m.Public,
		RelatedType: worklog.RelatedType(m.RelatedType),
		RelatedRef:  m.RelatedRef,
	}
	m.PopulateAggregateRoot(&task.BaseAggregateRoot)
	return task
}

// FromDomain populates the persistence model from a domain Task entity.
func (m *TaskModel) FromDomain(t *worklog.Task) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.Subject = t.Subject
	m.Description = t.Description
	m.Priority = t.Priority
	m.Status = t.Status
	m.StartDate = t.StartDate
	m.DueDate = t.DueDate
	m.HourlyRate = t.HourlyRate
	m.Billable = t.Billable
	m.Public = t.Public
	m.RelatedType = string(t.RelatedType)
	m.RelatedRef = t.RelatedRef
}

// TaskModelFromDomain creates a new persistence model from a domain Task entity.
func TaskModelFromDomain(t *worklog.Task) *TaskModel {
	m := &TaskModel{}
	m.FromDomain(t)
	return m
}

// TicketModel is the persistence model for the Ticket aggregate root.
// ContactID is a weak reference: the contact row may be deleted while
// the ticket keeps its requester snapshot.
type TicketModel struct {
	AggregateModel
	Subject        string               `gorm:"type:varchar(200);not null;index"`
	ContactID      *uuid.UUID           `gorm:"type:uuid;index"`
	RequesterName  string               `gorm:"type:varchar(200)"`
	RequesterEmail string               `gorm:"type:varchar(200)"`
	CC             string               `gorm:"type:varchar(500)"`
	Priority       worklog.TaskPriority `gorm:"type:varchar(10);not null;default:'MEDIUM';index"`
	Status         worklog.TicketStatus `gorm:"type:varchar(20);not null;default:'OPEN';index"`
}

// TableName returns the table name for GORM
func (TicketModel) TableName() string {
	return "tickets"
}

// ToDomain converts the persistence model to a domain Ticket entity.
func (m *TicketModel) ToDomain() *worklog.Ticket {
	ticket := &worklog.Ticket{
		Subject:        m.Subject,
		ContactID:      m.ContactID,
		RequesterName:  m.RequesterName,
		RequesterEmail: m.RequesterEmail,
		CC:             m.CC,
		Priority:       m.Priority,
		Status:         m.Status,
	}
	m.PopulateAggregateRoot(&ticket.BaseAggregateRoot)
	return ticket
}

// FromDomain populates the persistence model from a domain Ticket entity.
func (m *TicketModel) FromDomain(t *worklog.Ticket) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.Subject = t.Subject
	m.ContactID = t.ContactID
	m.RequesterName = t.RequesterName
	m.RequesterEmail = t.RequesterEmail
	m.CC = t.CC
	m.Priority = t.Priority
	m.Status = t.Status
}

// TicketModelFromDomain creates a new persistence model from a domain Ticket entity.
func TicketModelFromDomain(t *worklog.Ticket) *TicketModel {
	m := &TicketModel{}
	m.FromDomain(t)
	return m
}
