package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/domain/worklog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTask(t *testing.T, subject string, priority worklog.TaskPriority) *worklog.Task {
	t.Helper()
	task, err := worklog.NewTask(subject, priority, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return task
}

func TestGormTaskRepository_SaveAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormTaskRepository(db)
	ctx := context.Background()

	task := buildTask(t, "Chase overdue payment", worklog.PriorityHigh)
	task.HourlyRate = decimal.NewFromInt(50)
	task.Billable = true
	require.NoError(t, task.Relate(worklog.RelatedInvoice, "INV-000001"))
	require.NoError(t, repo.Save(ctx, task))

	loaded, err := repo.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Chase overdue payment", loaded.Subject)
	assert.Equal(t, worklog.PriorityHigh, loaded.Priority)
	assert.Equal(t, worklog.TaskStatusOpen, loaded.Status)
	assert.Equal(t, worklog.RelatedInvoice, loaded.RelatedType)
	assert.Equal(t, "INV-000001", loaded.RelatedRef)
	assert.True(t, loaded.Billable)
	assert.Equal(t, "50", loaded.HourlyRate.String())
}

func TestGormTaskRepository_FindAllFilters(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormTaskRepository(db)
	ctx := context.Background()

	billable := buildTask(t, "Chase overdue payment", worklog.PriorityHigh)
	billable.Billable = true
	require.NoError(t, repo.Save(ctx, billable))

	internal := buildTask(t, "Clean up archive", worklog.PriorityLow)
	require.NoError(t, internal.SetStatus(worklog.TaskStatusInProgress))
	require.NoError(t, repo.Save(ctx, internal))

	filter := shared.DefaultFilter()
	filter.Filters["billable"] = true
	tasks, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, billable.ID, tasks[0].ID)

	filter = shared.DefaultFilter()
	filter.Filters["status"] = "IN_PROGRESS"
	count, err := repo.Count(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	filter = shared.DefaultFilter()
	filter.Search = "archive"
	tasks, err = repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, internal.ID, tasks[0].ID)
}

func TestGormTaskRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormTaskRepository(db)
	ctx := context.Background()

	task := buildTask(t, "Chase payment", worklog.PriorityLow)
	require.NoError(t, repo.Save(ctx, task))
	require.NoError(t, repo.Delete(ctx, task.ID))

	_, err := repo.FindByID(ctx, task.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), shared.ErrNotFound)
}

func TestGormTicketRepository_SaveAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormTicketRepository(db)
	ctx := context.Background()

	contactID := uuid.New()
	ticket, err := worklog.NewTicket("Printer not working", &contactID, "Acme Traders", "sales@acme.example", worklog.PriorityHigh)
	require.NoError(t, err)
	ticket.CC = "support@acme.example"
	require.NoError(t, repo.Save(ctx, ticket))

	loaded, err := repo.FindByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "Printer not working", loaded.Subject)
	assert.Equal(t, &contactID, loaded.ContactID)
	assert.Equal(t, "Acme Traders", loaded.RequesterName)
	assert.Equal(t, "support@acme.example", loaded.CC)
	assert.Equal(t, worklog.TicketStatusOpen, loaded.Status)
}

func TestGormTicketRepository_FindAllFilters(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormTicketRepository(db)
	ctx := context.Background()

	contactID := uuid.New()
	linked, err := worklog.NewTicket("Printer not working", &contactID, "Acme Traders", "sales@acme.example", "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, linked))

	walkIn, err := worklog.NewTicket("Login issue", nil, "Walk-in Visitor", "visitor@example.com", worklog.PriorityHigh)
	require.NoError(t, err)
	require.NoError(t, walkIn.SetStatus(worklog.TicketStatusResolved))
	require.NoError(t, repo.Save(ctx, walkIn))

	filter := shared.DefaultFilter()
	filter.Filters["contact_id"] = contactID.String()
	tickets, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, linked.ID, tickets[0].ID)

	filter = shared.DefaultFilter()
	filter.Filters["status"] = "RESOLVED"
	count, err := repo.Count(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	filter = shared.DefaultFilter()
	filter.Search = "visitor"
	tickets, err = repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, walkIn.ID, tickets[0].ID)
}
