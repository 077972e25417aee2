package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/backoffice/backend/internal/domain/billing"
	"github.com/backoffice/backend/internal/domain/partner"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// DocumentService orchestrates document creation, updates, status
// transitions, conversion and deletion. It is the sole transaction
// boundary for document writes; the repository carries the actual
// transaction and the number allocation joins it.
type DocumentService struct {
	documents   billing.DocumentRepository
	contacts    partner.ContactRepository
	idempotency shared.IdempotencyStore
	idemConfig  shared.IdempotencyConfig
}

// NewDocumentService creates a new DocumentService.
// The idempotency store may be nil, which disables duplicate-request
// detection.
func NewDocumentService(documents billing.DocumentRepository, contacts partner.ContactRepository, idempotency shared.IdempotencyStore, idemConfig shared.IdempotencyConfig) *DocumentService {
	return &DocumentService{
		documents:   documents,
		contacts:    contacts,
		idempotency: idempotency,
		idemConfig:  idemConfig,
	}
}

// Create creates a new document in the given series. The document number
// is allocated inside the repository transaction, so validation failures
// never consume a counter value. A non-empty idempotencyKey guards
// against retried requests creating a second document.
func (s *DocumentService) Create(ctx context.Context, series billing.DocumentSeries, req CreateDocumentRequest, idempotencyKey string) (*CreateDocumentResponse, error) {
	if idempotencyKey != "" && s.idempotency != nil && s.idemConfig.Enabled {
		fresh, err := s.idempotency.MarkProcessed(ctx, fmt.Sprintf("doc:%s:%s", series, idempotencyKey), s.idemConfig.TTL)
		if err != nil {
			return nil, err
		}
		if !fresh {
			return nil, shared.NewDomainError("DUPLICATE_REQUEST", "This request was already processed")
		}
	}

	contactName, err := s.resolveContactName(ctx, req.ContactID)
	if err != nil {
		return nil, err
	}

	var issueDate time.Time
	if req.IssueDate != nil {
		issueDate = *req.IssueDate
	}
	doc, err := billing.NewDocument(series, req.ContactID, contactName, issueDate, valueobject.Currency(req.Currency))
	if err != nil {
		return nil, err
	}
	doc.BillTo = req.BillTo
	doc.ShipTo = req.ShipTo
	doc.DueDate = req.DueDate
	doc.Notes = req.Notes

	if err := doc.SetPricing(req.TaxRate, billing.DiscountPolicy(req.DiscountPolicy), req.DiscountAmount, req.AdjustmentAmount); err != nil {
		return nil, err
	}

	items, err := buildLineItems(doc.ID, req.Items)
	if err != nil {
		return nil, err
	}
	if err := doc.ReplaceItems(items); err != nil {
		return nil, err
	}
	if err := doc.Recalculate(); err != nil {
		return nil, err
	}

	if err := s.documents.Create(ctx, doc); err != nil {
		// a lost race on the counter row is retried exactly once
		if !isSequenceConflict(err) {
			return nil, err
		}
		if err := s.documents.Create(ctx, doc); err != nil {
			return nil, err
		}
	}

	return &CreateDocumentResponse{ID: doc.ID, Number: doc.Number}, nil
}

// Get retrieves a document by ID or by its series-scoped number
func (s *DocumentService) Get(ctx context.Context, series billing.DocumentSeries, ref string) (*DocumentResponse, error) {
	doc, err := s.find(ctx, series, ref)
	if err != nil {
		return nil, err
	}
	response := ToDocumentResponse(doc)
	return &response, nil
}

// List retrieves documents of a series with filtering and pagination,
// newest first by default
func (s *DocumentService) List(ctx context.Context, series billing.DocumentSeries, filter DocumentListFilter) ([]DocumentListResponse, int64, error) {
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
	if filter.ContactID != "" {
		domainFilter.Filters["contact_id"] = filter.ContactID
	}

	docs, err := s.documents.FindAll(ctx, series, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.documents.Count(ctx, series, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]DocumentListResponse, len(docs))
	for idx := range docs {
		responses[idx] = ToDocumentListResponse(&docs[idx])
	}
	return responses, total, nil
}

// Update replaces a document's header fields and full item list.
// The number is immutable; stale versions are rejected.
func (s *DocumentService) Update(ctx context.Context, series billing.DocumentSeries, ref string, req UpdateDocumentRequest) (*DocumentResponse, error) {
	doc, err := s.find(ctx, series, ref)
	if err != nil {
		return nil, err
	}

	contactName, err := s.resolveContactName(ctx, req.ContactID)
	if err != nil {
		return nil, err
	}

	if err := doc.SetPricing(req.TaxRate, billing.DiscountPolicy(req.DiscountPolicy), req.DiscountAmount, req.AdjustmentAmount); err != nil {
		return nil, err
	}

	items, err := buildLineItems(doc.ID, req.Items)
	if err != nil {
		return nil, err
	}
	if err := doc.ReplaceItems(items); err != nil {
		return nil, err
	}

	doc.ContactID = req.ContactID
	doc.ContactName = contactName
	doc.BillTo = req.BillTo
	doc.ShipTo = req.ShipTo
	if req.IssueDate != nil {
		doc.IssueDate = *req.IssueDate
	}
	doc.DueDate = req.DueDate
	doc.Notes = req.Notes
	doc.Version = req.Version

	if err := doc.Recalculate(); err != nil {
		return nil, err
	}

	if err := s.documents.Update(ctx, doc); err != nil {
		return nil, err
	}

	response := ToDocumentResponse(doc)
	return &response, nil
}

// SetStatus transitions a document to the requested status
func (s *DocumentService) SetStatus(ctx context.Context, series billing.DocumentSeries, ref string, req SetStatusRequest) (*DocumentResponse, error) {
	doc, err := s.find(ctx, series, ref)
	if err != nil {
		return nil, err
	}

	if err := doc.SetStatus(billing.DocumentStatus(req.Status)); err != nil {
		return nil, err
	}
	if err := s.documents.UpdateStatus(ctx, doc); err != nil {
		return nil, err
	}

	response := ToDocumentResponse(doc)
	return &response, nil
}

// Convert promotes an accepted estimate into a new invoice. Totals are
// copied verbatim rather than recomputed; the estimate's transition and
// the invoice insert commit in one transaction.
func (s *DocumentService) Convert(ctx context.Context, ref string) (*ConvertResponse, error) {
	estimate, err := s.find(ctx, billing.SeriesEstimate, ref)
	if err != nil {
		return nil, err
	}

	invoice, err := billing.NewInvoiceFromEstimate(estimate)
	if err != nil {
		return nil, err
	}
	if err := estimate.MarkConverted(invoice.ID); err != nil {
		return nil, err
	}

	if err := s.documents.Convert(ctx, estimate, invoice); err != nil {
		if !isSequenceConflict(err) {
			return nil, err
		}
		if err := s.documents.Convert(ctx, estimate, invoice); err != nil {
			return nil, err
		}
	}

	return &ConvertResponse{InvoiceID: invoice.ID, InvoiceNumber: invoice.Number}, nil
}

// Delete removes a document and its items. The series counter keeps its
// value: deleted numbers are never reissued.
func (s *DocumentService) Delete(ctx context.Context, series billing.DocumentSeries, ref string) error {
	doc, err := s.find(ctx, series, ref)
	if err != nil {
		return err
	}
	return s.documents.Delete(ctx, doc.ID)
}

// GetDocument loads the domain document behind a reference, for rendering
// and export flows that need more than the response DTO
func (s *DocumentService) GetDocument(ctx context.Context, series billing.DocumentSeries, ref string) (*billing.Document, error) {
	return s.find(ctx, series, ref)
}

func (s *DocumentService) find(ctx context.Context, series billing.DocumentSeries, ref string) (*billing.Document, error) {
	if id, err := uuid.Parse(ref); err == nil {
		doc, err := s.documents.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if doc.Series != series {
			return nil, shared.ErrNotFound
		}
		return doc, nil
	}
	return s.documents.FindByNumber(ctx, series, ref)
}

func (s *DocumentService) resolveContactName(ctx context.Context, contactID *uuid.UUID) (string, error) {
	if contactID == nil {
		return "", nil
	}
	contact, err := s.contacts.FindByID(ctx, *contactID)
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == shared.ErrNotFound.Code {
			return "", shared.NewDomainError("INVALID_CONTACT", "Referenced contact does not exist")
		}
		return "", err
	}
	return contact.Name, nil
}

func buildLineItems(documentID uuid.UUID, requests []LineItemRequest) ([]billing.LineItem, error) {
	items := make([]billing.LineItem, 0, len(requests))
	for idx, req := range requests {
		item, err := billing.NewLineItem(documentID, idx, req.Description, req.Quantity, req.UnitRate, req.TaxPercent)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, nil
}

func isSequenceConflict(err error) bool {
	var domainErr *shared.DomainError
	return errors.As(err, &domainErr) && domainErr.Code == shared.ErrSequenceConflict.Code
}
