package handler

import (
	worklogapp "github.com/backoffice/backend/internal/application/worklog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TaskHandler handles task endpoints
type TaskHandler struct {
	BaseHandler
	tasks *worklogapp.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(tasks *worklogapp.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// RegisterRoutes registers task routes on the given router group
func (h *TaskHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tasks := rg.Group("/tasks")
	{
		tasks.POST("", h.Create)
		tasks.GET("", h.List)
		tasks.GET("/:id", h.Get)
		tasks.PUT("/:id", h.Update)
		tasks.POST("/:id/status", h.SetStatus)
		tasks.DELETE("/:id", h.Delete)
	}
}

func (h *TaskHandler) taskID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid task ID")
		return uuid.Nil, false
	}
	return id, true
}

// Create creates a new task
func (h *TaskHandler) Create(c *gin.Context) {
	var req worklogapp.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.tasks.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List lists tasks
func (h *TaskHandler) List(c *gin.Context) {
	var filter worklogapp.TaskListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	rows, total, err := h.tasks.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page := filter.Page
	if page == 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize == 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, rows, total, page, pageSize)
}

// Get returns a task by ID
func (h *TaskHandler) Get(c *gin.Context) {
	id, ok := h.taskID(c)
	if !ok {
		return
	}

	resp, err := h.tasks.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update updates a task's details
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := h.taskID(c)
	if !ok {
		return
	}

	var req worklogapp.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.tasks.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SetStatus moves a task to the requested status
func (h *TaskHandler) SetStatus(c *gin.Context) {
	id, ok := h.taskID(c)
	if !ok {
		return
	}

	var req worklogapp.SetTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.tasks.SetStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete deletes a task
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := h.taskID(c)
	if !ok {
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
