package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/backoffice/backend/internal/domain/billing"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDocumentRepository implements DocumentRepository using GORM.
// Create and Convert run the number allocation inside the same
// transaction as the inserts they perform.
type GormDocumentRepository struct {
	db       *gorm.DB
	counters *GormSequenceRepository
}

// NewGormDocumentRepository creates a new GormDocumentRepository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{
		db:       db,
		counters: NewGormSequenceRepository(db),
	}
}

// FindByID loads a document with its items
func (r *GormDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Document, error) {
	var model models.DocumentModel
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber loads a document by its series-scoped number
func (r *GormDocumentRepository) FindByNumber(ctx context.Context, series billing.DocumentSeries, number string) (*billing.Document, error) {
	var model models.DocumentModel
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("series = ? AND number = ?", series, number).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists documents of a series, newest first by default
func (r *GormDocumentRepository) FindAll(ctx context.Context, series billing.DocumentSeries, filter shared.Filter) ([]billing.Document, error) {
	var docModels []models.DocumentModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.DocumentModel{}).Where("series = ?", series),
		filter,
	)

	if err := query.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Find(&docModels).Error; err != nil {
		return nil, err
	}

	docs := make([]billing.Document, len(docModels))
	for i := range docModels {
		docs[i] = *docModels[i].ToDomain()
	}
	return docs, nil
}

// Count counts documents of a series matching the filter
func (r *GormDocumentRepository) Count(ctx context.Context, series billing.DocumentSeries, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.DocumentModel{}).Where("series = ?", series),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create allocates the document number and inserts header plus items in
// one transaction. A rollback releases the reserved counter value along
// with everything else. The number reaches the aggregate only after the
// transaction commits, so a failed attempt leaves the document
// unnumbered and a retry allocates a fresh value.
func (r *GormDocumentRepository) Create(ctx context.Context, doc *billing.Document) error {
	var number string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, _, err := billing.NewSequenceGenerator(r.counters.WithTx(tx)).Next(ctx, doc.Series)
		if err != nil {
			return err
		}
		number = n

		model := models.DocumentModelFromDomain(doc)
		model.Number = number
		if err := tx.Create(model).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return shared.ErrSequenceConflict
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	return doc.AssignNumber(number)
}

// Update writes the header and replaces the full item collection
// atomically. Writes with a stale version fail with a concurrency
// conflict.
func (r *GormDocumentRepository) Update(ctx context.Context, doc *billing.Document) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		currentVersion := doc.Version
		doc.UpdatedAt = time.Now()

		result := tx.Model(&models.DocumentModel{}).
			Where("id = ? AND version = ?", doc.ID, currentVersion).
			Updates(map[string]interface{}{
				"contact_id":        doc.ContactID,
				"contact_name":      doc.ContactName,
				"bill_to":           doc.BillTo,
				"ship_to":           doc.ShipTo,
				"issue_date":        doc.IssueDate,
				"due_date":          doc.DueDate,
				"currency":          doc.Currency,
				"tax_rate":          doc.TaxRate,
				"discount_policy":   doc.DiscountPolicy,
				"discount_amount":   doc.DiscountAmount,
				"adjustment_amount": doc.AdjustmentAmount,
				"notes":             doc.Notes,
				"sub_total":         doc.SubTotal,
				"tax_total":         doc.TaxTotal,
				"grand_total":       doc.GrandTotal,
				"version":           currentVersion + 1,
				"updated_at":        doc.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return r.staleOrMissing(tx, doc.ID)
		}
		doc.Version = currentVersion + 1

		// Items are replaced wholesale; there are no partial item edits.
		if err := tx.Where("document_id = ?", doc.ID).
			Delete(&models.LineItemModel{}).Error; err != nil {
			return err
		}
		for i := range doc.Items {
			doc.Items[i].DocumentID = doc.ID
			itemModel := models.LineItemModelFromDomain(&doc.Items[i])
			if err := tx.Create(itemModel).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateStatus writes only the status fields of a document, honoring
// the version check
func (r *GormDocumentRepository) UpdateStatus(ctx context.Context, doc *billing.Document) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.updateStatusTx(tx, doc)
	})
}

func (r *GormDocumentRepository) updateStatusTx(tx *gorm.DB, doc *billing.Document) error {
	currentVersion := doc.Version
	doc.UpdatedAt = time.Now()

	result := tx.Model(&models.DocumentModel{}).
		Where("id = ? AND version = ?", doc.ID, currentVersion).
		Updates(map[string]interface{}{
			"status":          doc.Status,
			"converted_to_id": doc.ConvertedToID,
			"version":         currentVersion + 1,
			"updated_at":      doc.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.staleOrMissing(tx, doc.ID)
	}
	doc.Version = currentVersion + 1
	return nil
}

// Delete removes a document and cascades to its items.
// The series counter is left untouched, so deleted numbers become gaps.
func (r *GormDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", id).
			Delete(&models.LineItemModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.DocumentModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Convert persists an estimate's transition to converted and the invoice
// created from it in one transaction. The invoice number is allocated
// inside that same transaction and, like Create, is written back to the
// aggregate only once the transaction commits.
func (r *GormDocumentRepository) Convert(ctx context.Context, estimate *billing.Document, invoice *billing.Document) error {
	var number string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, _, err := billing.NewSequenceGenerator(r.counters.WithTx(tx)).Next(ctx, invoice.Series)
		if err != nil {
			return err
		}
		number = n

		invoiceModel := models.DocumentModelFromDomain(invoice)
		invoiceModel.Number = number
		if err := tx.Create(invoiceModel).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return shared.ErrSequenceConflict
			}
			return err
		}

		estimate.ConvertedToID = &invoice.ID
		return r.updateStatusTx(tx, estimate)
	})
	if err != nil {
		return err
	}
	return invoice.AssignNumber(number)
}

// staleOrMissing distinguishes a stale version from a missing row after
// a zero-row update
func (r *GormDocumentRepository) staleOrMissing(tx *gorm.DB, id uuid.UUID) error {
	var count int64
	if err := tx.Model(&models.DocumentModel{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return shared.ErrNotFound
	}
	return shared.ErrConcurrencyConflict
}

// applyFilter applies filter options including pagination to the query
func (r *GormDocumentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies search and field filters only
func (r *GormDocumentRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(number) LIKE ? OR LOWER(contact_name) LIKE ?",
			searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "contact_id":
			query = query.Where("contact_id = ?", value)
		case "issued_from":
			if t, ok := value.(time.Time); ok {
				query = query.Where("issue_date >= ?", t)
			}
		case "issued_until":
			if t, ok := value.(time.Time); ok {
				query = query.Where("issue_date <= ?", t)
			}
		}
	}

	return query
}

// Ensure GormDocumentRepository implements DocumentRepository
var _ billing.DocumentRepository = (*GormDocumentRepository)(nil)
