package handler

import (
	partnerapp "github.com/backoffice/backend/internal/application/partner"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContactHandler handles contact endpoints
type ContactHandler struct {
	BaseHandler
	contacts *partnerapp.ContactService
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contacts *partnerapp.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

// RegisterRoutes registers contact routes on the given router group
func (h *ContactHandler) RegisterRoutes(rg *gin.RouterGroup) {
	contacts := rg.Group("/contacts")
	{
		contacts.POST("", h.Create)
		contacts.GET("", h.List)
		contacts.GET("/:id", h.Get)
		contacts.PUT("/:id", h.Update)
		contacts.POST("/:id/promote", h.Promote)
		contacts.DELETE("/:id", h.Delete)
	}
}

func (h *ContactHandler) contactID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contact ID")
		return uuid.Nil, false
	}
	return id, true
}

// Create creates a new contact
func (h *ContactHandler) Create(c *gin.Context) {
	var req partnerapp.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.contacts.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List lists contacts
func (h *ContactHandler) List(c *gin.Context) {
	var filter partnerapp.ContactListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	rows, total, err := h.contacts.List(c.Request.Context(), filter)
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

// Get returns a contact by ID
func (h *ContactHandler) Get(c *gin.Context) {
	id, ok := h.contactID(c)
	if !ok {
		return
	}

	resp, err := h.contacts.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update updates a contact's details
func (h *ContactHandler) Update(c *gin.Context) {
	id, ok := h.contactID(c)
	if !ok {
		return
	}

	var req partnerapp.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.contacts.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Promote promotes a lead to a customer
func (h *ContactHandler) Promote(c *gin.Context) {
	id, ok := h.contactID(c)
	if !ok {
		return
	}

	resp, err := h.contacts.Promote(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete deletes a contact. Documents referencing it keep their
// name snapshot.
func (h *ContactHandler) Delete(c *gin.Context) {
	id, ok := h.contactID(c)
	if !ok {
		return
	}

	if err := h.contacts.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
