package worklog

import (
	"strings"
	"time"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TaskPriority orders tasks for triage
type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
)

// IsValid checks if the priority is known
func (p TaskPriority) IsValid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// TaskStatus is the task lifecycle state
type TaskStatus string

const (
	TaskStatusOpen       TaskStatus = "OPEN"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
)

// IsValid checks if the status is known
func (s TaskStatus) IsValid() bool {
	return s == TaskStatusOpen || s == TaskStatusInProgress || s == TaskStatusCompleted
}

// RelatedType names the kind of record a task was raised for
type RelatedType string

const (
	RelatedInvoice  RelatedType = "invoice"
	RelatedEstimate RelatedType = "estimate"
	RelatedProposal RelatedType = "proposal"
	RelatedContact  RelatedType = "contact"
)

// IsValid checks if the related type is known
func (r RelatedType) IsValid() bool {
	switch r {
	case RelatedInvoice, RelatedEstimate, RelatedProposal, RelatedContact:
		return true
	}
	return false
}

// Task is a unit of work, optionally billable and optionally linked to
// the record it was raised for. The link is weak, like the document →
// contact reference: the referenced record may be deleted at any time.
type Task struct {
	shared.BaseAggregateRoot
	Subject     string
	Description string
	Priority    TaskPriority
	Status      TaskStatus
	StartDate   time.Time
	DueDate     *time.Time
	HourlyRate  decimal.Decimal
	Billable    bool
	Public      bool
	// RelatedType/RelatedRef point at a document number or contact id;
	// both empty when the task stands alone
	RelatedType RelatedType
	RelatedRef  string
}

// NewTask creates an open task
func NewTask(subject string, priority TaskPriority, startDate time.Time) (*Task, error) {
	if strings.TrimSpace(subject) == "" {
		return nil, shared.NewDomainError("INVALID_SUBJECT", "Task subject cannot be empty")
	}
	if priority == "" {
		priority = PriorityLow
	}
	if !priority.IsValid() {
		return nil, shared.NewDomainError("INVALID_PRIORITY", "Unknown task priority")
	}
	if startDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_START_DATE", "Task start date is required")
	}

	return &Task{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Subject:           strings.TrimSpace(subject),
		Priority:          priority,
		Status:            TaskStatusOpen,
		StartDate:         startDate,
		HourlyRate:        decimal.Zero,
		Public:            true,
	}, nil
}

// UpdateDetails updates the task's editable fields.
// Completed tasks are frozen.
func (t *Task) UpdateDetails(subject, description string, priority TaskPriority, startDate time.Time, dueDate *time.Time, hourlyRate decimal.Decimal, billable, public bool) error {
	if t.Status == TaskStatusCompleted {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify a completed task")
	}
	if strings.TrimSpace(subject) == "" {
		return shared.NewDomainError("INVALID_SUBJECT", "Task subject cannot be empty")
	}
	if !priority.IsValid() {
		return shared.NewDomainError("INVALID_PRIORITY", "Unknown task priority")
	}
	if startDate.IsZero() {
		return shared.NewDomainError("INVALID_START_DATE", "Task start date is required")
	}
	if hourlyRate.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Hourly rate cannot be negative")
	}

	t.Subject = strings.TrimSpace(subject)
	t.Description = description
	t.Priority = priority
	t.StartDate = startDate
	t.DueDate = dueDate
	t.HourlyRate = hourlyRate
	t.Billable = billable
	t.Public = public
	t.UpdatedAt = time.Now()
	return nil
}

// Relate links the task to the record it was raised for
func (t *Task) Relate(relatedType RelatedType, ref string) error {
	if relatedType == "" {
		t.RelatedType = ""
		t.RelatedRef = ""
		return nil
	}
	if !relatedType.IsValid() {
		return shared.NewDomainError("INVALID_RELATED_TYPE", "Unknown related record type")
	}
	if strings.TrimSpace(ref) == "" {
		return shared.NewDomainError("INVALID_RELATED_REF", "Related record reference is required")
	}
	t.RelatedType = relatedType
	t.RelatedRef = strings.TrimSpace(ref)
	t.UpdatedAt = time.Now()
	return nil
}

// SetStatus moves the task to the target status.
// Completed is terminal.
func (t *Task) SetStatus(target TaskStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown task status")
	}
	if t.Status == TaskStatusCompleted {
		return shared.NewDomainError("INVALID_TRANSITION", "Completed tasks cannot change status")
	}
	t.Status = target
	t.UpdatedAt = time.Now()
	return nil
}
