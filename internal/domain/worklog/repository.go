package worklog

import (
	"github.com/backoffice/backend/internal/domain/shared"
)

// TaskRepository persists tasks
type TaskRepository interface {
	shared.Repository[Task]
}

// TicketRepository persists tickets
type TicketRepository interface {
	shared.Repository[Ticket]
}
