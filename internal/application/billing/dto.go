package billing

import (
	"time"

	"github.com/backoffice/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItemRequest represents one line in a create/update request
type LineItemRequest struct {
	Description string           `json:"description" binding:"required,min=1,max=500"`
	Quantity    decimal.Decimal  `json:"quantity" binding:"required"`
	UnitRate    decimal.Decimal  `json:"unit_rate"`
	TaxPercent  *decimal.Decimal `json:"tax_percent"`
}

// CreateDocumentRequest represents a request to create a document.
// DiscountPolicy values other than before_tax/after_tax fall back to none.
type CreateDocumentRequest struct {
	ContactID        *uuid.UUID        `json:"contact_id"`
	BillTo           string            `json:"bill_to" binding:"max=1000"`
	ShipTo           string            `json:"ship_to" binding:"max=1000"`
	IssueDate        *time.Time        `json:"issue_date"`
	DueDate          *time.Time        `json:"due_date"`
	Currency         string            `json:"currency" binding:"omitempty,len=3"`
	TaxRate          decimal.Decimal   `json:"tax_rate"`
	DiscountPolicy   string            `json:"discount_policy"`
	DiscountAmount   decimal.Decimal   `json:"discount_amount"`
	AdjustmentAmount decimal.Decimal   `json:"adjustment_amount"`
	Notes            string            `json:"notes" binding:"max=2000"`
	Items            []LineItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateDocumentRequest represents a full-replacement update.
// The item list supersedes the stored one entirely; the document number
// never changes.
type UpdateDocumentRequest struct {
	ContactID        *uuid.UUID        `json:"contact_id"`
	BillTo           string            `json:"bill_to" binding:"max=1000"`
	ShipTo           string            `json:"ship_to" binding:"max=1000"`
	IssueDate        *time.Time        `json:"issue_date"`
	DueDate          *time.Time        `json:"due_date"`
	TaxRate          decimal.Decimal   `json:"tax_rate"`
	DiscountPolicy   string            `json:"discount_policy"`
	DiscountAmount   decimal.Decimal   `json:"discount_amount"`
	AdjustmentAmount decimal.Decimal   `json:"adjustment_amount"`
	Notes            string            `json:"notes" binding:"max=2000"`
	Items            []LineItemRequest `json:"items" binding:"required,min=1,dive"`
	Version          int               `json:"version" binding:"required,min=1"`
}

// SetStatusRequest represents a status transition request
type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// LineItemResponse represents a line item in API responses
type LineItemResponse struct {
	ID          uuid.UUID        `json:"id"`
	Position    int              `json:"position"`
	Description string           `json:"description"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitRate    decimal.Decimal  `json:"unit_rate"`
	TaxPercent  *decimal.Decimal `json:"tax_percent"`
	LineAmount  decimal.Decimal  `json:"line_amount"`
}

// DocumentResponse represents a document with items in API responses
type DocumentResponse struct {
	ID               uuid.UUID          `json:"id"`
	Number           string             `json:"number"`
	Series           string             `json:"series"`
	ContactID        *uuid.UUID         `json:"contact_id"`
	ContactName      string             `json:"contact_name"`
	BillTo           string             `json:"bill_to"`
	ShipTo           string             `json:"ship_to"`
	IssueDate        time.Time          `json:"issue_date"`
	DueDate          *time.Time         `json:"due_date"`
	Currency         string             `json:"currency"`
	TaxRate          decimal.Decimal    `json:"tax_rate"`
	DiscountPolicy   string             `json:"discount_policy"`
	DiscountAmount   decimal.Decimal    `json:"discount_amount"`
	AdjustmentAmount decimal.Decimal    `json:"adjustment_amount"`
	Status           string             `json:"status"`
	Notes            string             `json:"notes"`
	Items            []LineItemResponse `json:"items"`
	SubTotal         decimal.Decimal    `json:"sub_total"`
	TaxTotal         decimal.Decimal    `json:"tax_total"`
	GrandTotal       decimal.Decimal    `json:"grand_total"`
	ConvertedToID    *uuid.UUID         `json:"converted_to_id,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
	Version          int                `json:"version"`
}

// DocumentListResponse represents a list row without items
type DocumentListResponse struct {
	ID          uuid.UUID       `json:"id"`
	Number      string          `json:"number"`
	ContactName string          `json:"contact_name"`
	IssueDate   time.Time       `json:"issue_date"`
	Status      string          `json:"status"`
	Currency    string          `json:"currency"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
	CreatedAt   time.Time       `json:"created_at"`
}

// DocumentListFilter represents filter options for document lists
type DocumentListFilter struct {
	Search    string `form:"search"`
	Status    string `form:"status"`
	ContactID string `form:"contact_id" binding:"omitempty,uuid"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string `form:"order_by" binding:"omitempty,oneof=created_at issue_date number grand_total status"`
	OrderDir  string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CreateDocumentResponse is the payload returned from a successful create
type CreateDocumentResponse struct {
	ID     uuid.UUID `json:"id"`
	Number string    `json:"number"`
}

// ConvertResponse is the payload returned from converting an estimate
type ConvertResponse struct {
	InvoiceID     uuid.UUID `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
}

// ToLineItemResponse converts a domain line item to a response DTO
func ToLineItemResponse(item *billing.LineItem) LineItemResponse {
	return LineItemResponse{
		ID:          item.ID,
		Position:    item.Position,
		Description: item.Description,
		Quantity:    item.Quantity,
		UnitRate:    item.UnitRate,
		TaxPercent:  item.TaxPercent,
		LineAmount:  item.LineAmount,
	}
}

// ToDocumentResponse converts a domain document to a response DTO
func ToDocumentResponse(doc *billing.Document) DocumentResponse {
	items := make([]LineItemResponse, len(doc.Items))
	for idx := range doc.Items {
		items[idx] = ToLineItemResponse(&doc.Items[idx])
	}

	return DocumentResponse{
		ID:               doc.ID,
		Number:           doc.Number,
		Series:           doc.Series.String(),
		ContactID:        doc.ContactID,
		ContactName:      doc.DisplayContactName(),
		BillTo:           doc.BillTo,
		ShipTo:           doc.ShipTo,
		IssueDate:        doc.IssueDate,
		DueDate:          doc.DueDate,
		Currency:         string(doc.Currency),
		TaxRate:          doc.TaxRate,
		DiscountPolicy:   string(doc.DiscountPolicy),
		DiscountAmount:   doc.DiscountAmount,
		AdjustmentAmount: doc.AdjustmentAmount,
		Status:           doc.Status.String(),
		Notes:            doc.Notes,
		Items:            items,
		SubTotal:         doc.SubTotal,
		TaxTotal:         doc.TaxTotal,
		GrandTotal:       doc.GrandTotal,
		ConvertedToID:    doc.ConvertedToID,
		CreatedAt:        doc.CreatedAt,
		UpdatedAt:        doc.UpdatedAt,
		Version:          doc.Version,
	}
}

// ToDocumentListResponse converts a domain document to a list row DTO
func ToDocumentListResponse(doc *billing.Document) DocumentListResponse {
	return DocumentListResponse{
		ID:          doc.ID,
		Number:      doc.Number,
		ContactName: doc.DisplayContactName(),
		IssueDate:   doc.IssueDate,
		Status:      doc.Status.String(),
		Currency:    string(doc.Currency),
		GrandTotal:  doc.GrandTotal,
		CreatedAt:   doc.CreatedAt,
	}
}
