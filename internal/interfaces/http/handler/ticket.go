package handler

import (
	worklogapp "github.com/backoffice/backend/internal/application/worklog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TicketHandler handles support ticket endpoints
type TicketHandler struct {
	BaseHandler
	tickets *worklogapp.TicketService
}

// NewTicketHandler creates a new TicketHandler
func NewTicketHandler(tickets *worklogapp.TicketService) *TicketHandler {
	return &TicketHandler{tickets: tickets}
}

// RegisterRoutes registers ticket routes on the given router group
func (h *TicketHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tickets := rg.Group("/tickets")
	{
		tickets.POST("", h.Create)
		tickets.GET("", h.List)
		tickets.GET("/:id", h.Get)
		tickets.PUT("/:id", h.Update)
		tickets.POST("/:id/status", h.SetStatus)
		tickets.DELETE("/:id", h.Delete)
	}
}

func (h *TicketHandler) ticketID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid ticket ID")
		return uuid.Nil, false
	}
	return id, true
}

// Create creates a new ticket
func (h *TicketHandler) Create(c *gin.Context) {
	var req worklogapp.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.tickets.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List lists tickets
func (h *TicketHandler) List(c *gin.Context) {
	var filter worklogapp.TicketListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	rows, total, err := h.tickets.List(c.Request.Context(), filter)
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

// Get returns a ticket by ID
func (h *TicketHandler) Get(c *gin.Context) {
	id, ok := h.ticketID(c)
	if !ok {
		return
	}

	resp, err := h.tickets.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update updates a ticket's details
func (h *TicketHandler) Update(c *gin.Context) {
	id, ok := h.ticketID(c)
	if !ok {
		return
	}

	var req worklogapp.UpdateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.tickets.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SetStatus moves a ticket to the requested status
func (h *TicketHandler) SetStatus(c *gin.Context) {
	id, ok := h.ticketID(c)
	if !ok {
		return
	}

	var req worklogapp.SetTicketStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.tickets.SetStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete deletes a ticket
func (h *TicketHandler) Delete(c *gin.Context) {
	id, ok := h.ticketID(c)
	if !ok {
		return
	}

	if err := h.tickets.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
