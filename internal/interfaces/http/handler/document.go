package handler

import (
	"net/http"

	billingapp "github.com/backoffice/backend/internal/application/billing"
	"github.com/backoffice/backend/internal/domain/billing"
	"github.com/backoffice/backend/internal/infrastructure/pdf"
	"github.com/gin-gonic/gin"
)

// IdempotencyKeyHeader carries the client-chosen key that makes document
// creation safe to retry
const IdempotencyKeyHeader = "Idempotency-Key"

// DocumentHandler handles document endpoints for every series.
// The series is a path segment, so one handler serves invoices,
// estimates, proposals and credit notes.
type DocumentHandler struct {
	BaseHandler
	documents *billingapp.DocumentService
	printer   *pdf.DocumentPrinter
}

// NewDocumentHandler creates a new DocumentHandler.
// The printer may be nil when PDF rendering is disabled.
func NewDocumentHandler(documents *billingapp.DocumentService, printer *pdf.DocumentPrinter) *DocumentHandler {
	return &DocumentHandler{
		documents: documents,
		printer:   printer,
	}
}

// RegisterRoutes registers document routes on the given router group
func (h *DocumentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	docs := rg.Group("/documents/:series")
	{
		docs.POST("", h.Create)
		docs.GET("", h.List)
		docs.GET("/:ref", h.Get)
		docs.PUT("/:ref", h.Update)
		docs.DELETE("/:ref", h.Delete)
		docs.POST("/:ref/status", h.SetStatus)
		docs.POST("/:ref/convert", h.Convert)
		docs.GET("/:ref/pdf", h.PDF)
	}
}

func (h *DocumentHandler) series(c *gin.Context) (billing.DocumentSeries, bool) {
	series, err := billing.ParseSeries(c.Param("series"))
	if err != nil {
		h.HandleError(c, err)
		return "", false
	}
	return series, true
}

// Create creates a new document in the series
func (h *DocumentHandler) Create(c *gin.Context) {
	series, ok := h.series(c)
	if !ok {
		return
	}

	var req billingapp.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.documents.Create(c.Request.Context(), series, req, c.GetHeader(IdempotencyKeyHeader))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List lists documents in the series
func (h *DocumentHandler) List(c *gin.Context) {
	series, ok := h.series(c)
	if !ok {
		return
	}

	var filter billingapp.DocumentListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	rows, total, err := h.documents.List(c.Request.Context(), series, filter)
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

// Get returns a document by ID or by its number
func (h *DocumentHandler) Get(c *gin.Context) {
	series, ok := h.series(c)
	if !ok {
		return
	}

	resp, err := h.documents.Get(c.Request.Context(), series, c.Param("ref"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update replaces a document's header fields and full item list
func (h *DocumentHandler) Update(c *gin.Context) {
	series, ok := h.series(c)
	if !ok {
		return
	}

	var req billingapp.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.documents.Update(c.Request.Context(), series, c.Param("ref"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete deletes a document. The series counter keeps its value.
func (h *DocumentHandler) Delete(c *gin.Context) {
	series, ok := h.series(c)
	if !ok {
		return
	}

	if err := h.documents.Delete(c.Request.Context(), series, c.Param("ref")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// SetStatus transitions a document to a new status
func (h *DocumentHandler) SetStatus(c *gin.Context) {
	series, ok := h.series(c)
	if !ok {
		return
	}

	var req billingapp.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.documents.SetStatus(c.Request.Context(), series, c.Param("ref"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Convert converts an accepted estimate into a new invoice
func (h *DocumentHandler) Convert(c *gin.Context) {
	series, ok := h.series(c)
	if !ok {
		return
	}
	if series != billing.SeriesEstimate {
		h.respondError(c, http.StatusUnprocessableEntity, "INVALID_SERIES", "Only estimates can be converted")
		return
	}

	resp, err := h.documents.Convert(c.Request.Context(), c.Param("ref"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// PDF renders the document's print layout as a PDF download
func (h *DocumentHandler) PDF(c *gin.Context) {
	series, ok := h.series(c)
	if !ok {
		return
	}
	if h.printer == nil {
		h.respondError(c, http.StatusServiceUnavailable, "PDF_DISABLED", "PDF rendering is disabled")
		return
	}

	doc, err := h.documents.GetDocument(c.Request.Context(), series, c.Param("ref"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	data, err := h.printer.Print(c.Request.Context(), doc)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+doc.Number+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
