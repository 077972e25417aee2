package worklog

import (
	"context"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/domain/worklog"
	"github.com/google/uuid"
)

// TaskService handles task-related business operations
type TaskService struct {
	tasks worklog.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(tasks worklog.TaskRepository) *TaskService {
	return &TaskService{tasks: tasks}
}

// Create creates a new task
func (s *TaskService) Create(ctx context.Context, req CreateTaskRequest) (*TaskResponse, error) {
	task, err := worklog.NewTask(req.Subject, worklog.TaskPriority(req.Priority), req.StartDate)
	if err != nil {
		return nil, err
	}
	task.Description = req.Description
	task.DueDate = req.DueDate
	task.Billable = req.Billable
	if req.Public != nil {
		task.Public = *req.Public
	}
	if !req.HourlyRate.IsZero() {
		if req.HourlyRate.IsNegative() {
			return nil, shared.NewDomainError("INVALID_RATE", "Hourly rate cannot be negative")
		}
		task.HourlyRate = req.HourlyRate
	}
	if err := task.Relate(worklog.RelatedType(req.RelatedType), req.RelatedRef); err != nil {
		return nil, err
	}

	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, err
	}

	response := ToTaskResponse(task)
	return &response, nil
}

// GetByID retrieves a task by ID
func (s *TaskService) GetByID(ctx context.Context, id uuid.UUID) (*TaskResponse, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToTaskResponse(task)
	return &response, nil
}

// List retrieves tasks with filtering and pagination
func (s *TaskService) List(ctx context.Context, filter TaskListFilter) ([]TaskResponse, int64, error) {
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
	if filter.Billable != nil {
		domainFilter.Filters["billable"] = *filter.Billable
	}

	tasks, err := s.tasks.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.tasks.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]TaskResponse, len(tasks))
	for idx := range tasks {
		responses[idx] = ToTaskResponse(&tasks[idx])
	}
	return responses, total, nil
}

// Update updates a task's details
func (s *TaskService) Update(ctx context.Context, id uuid.UUID, req UpdateTaskRequest) (*TaskResponse, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := task.UpdateDetails(req.Subject, req.Description, worklog.TaskPriority(req.Priority), req.StartDate, req.DueDate, req.HourlyRate, req.Billable, req.Public); err != nil {
		return nil, err
	}
	if err := task.Relate(worklog.RelatedType(req.RelatedType), req.RelatedRef); err != nil {
		return nil, err
	}
	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, err
	}

	response := ToTaskResponse(task)
	return &response, nil
}

// SetStatus moves a task to the requested status
func (s *TaskService) SetStatus(ctx context.Context, id uuid.UUID, req SetTaskStatusRequest) (*TaskResponse, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := task.SetStatus(worklog.TaskStatus(req.Status)); err != nil {
		return nil, err
	}
	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, err
	}

	response := ToTaskResponse(task)
	return &response, nil
}

// Delete removes a task
func (s *TaskService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.tasks.FindByID(ctx, id); err != nil {
		return err
	}
	return s.tasks.Delete(ctx, id)
}
