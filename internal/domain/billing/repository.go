package billing

import (
	"context"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DocumentRepository persists documents with their line items.
// Create and Convert allocate numbers from the series counter inside the
// same storage transaction as the writes they perform, so a failed write
// never leaks a number into a committed counter.
type DocumentRepository interface {
	// FindByID loads a document with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Document, error)

	// FindByNumber loads a document by its series-scoped number
	FindByNumber(ctx context.Context, series DocumentSeries, number string) (*Document, error)

	// FindAll lists documents of a series, newest first by default
	FindAll(ctx context.Context, series DocumentSeries, filter shared.Filter) ([]Document, error)

	// Count counts documents of a series matching the filter
	Count(ctx context.Context, series DocumentSeries, filter shared.Filter) (int64, error)

	// Create allocates the document number and inserts header plus items
	// in one transaction. The document's Number field is set on success.
	Create(ctx context.Context, doc *Document) error

	// Update writes the header and replaces the full item collection
	// atomically. Writes with a stale version fail with a concurrency
	// conflict.
	Update(ctx context.Context, doc *Document) error

	// UpdateStatus writes only the status fields of a document,
	// honoring the version check
	UpdateStatus(ctx context.Context, doc *Document) error

	// Delete removes a document and cascades to its items.
	// The series counter is left untouched.
	Delete(ctx context.Context, id uuid.UUID) error

	// Convert persists an estimate's transition to converted and the
	// invoice created from it in one transaction, allocating the invoice
	// number inside that same transaction.
	Convert(ctx context.Context, estimate *Document, invoice *Document) error
}
