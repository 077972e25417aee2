package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/backoffice/backend/internal/domain/billing"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSequenceRepository implements SequenceRepository using GORM.
// The increment is a single UPDATE ... RETURNING statement, so two
// concurrent allocations for the same series serialize on the counter
// row and never observe the same value.
type GormSequenceRepository struct {
	db *gorm.DB
}

// NewGormSequenceRepository creates a new GormSequenceRepository
func NewGormSequenceRepository(db *gorm.DB) *GormSequenceRepository {
	return &GormSequenceRepository{db: db}
}

// WithTx returns a repository bound to the given transaction, so number
// allocation joins the caller's transaction and rolls back with it.
func (r *GormSequenceRepository) WithTx(tx *gorm.DB) *GormSequenceRepository {
	return &GormSequenceRepository{db: tx}
}

// Next increments the counter for the series and returns the new value
func (r *GormSequenceRepository) Next(ctx context.Context, series billing.DocumentSeries) (int64, error) {
	if !series.IsValid() {
		return 0, shared.NewDomainError("INVALID_SERIES", "Unknown document series")
	}

	// Seed the counter row on first use; migrations normally do this,
	// but a fresh series must not fail the allocation.
	seed := models.SequenceCounterModel{Series: series, LastValue: 0, UpdatedAt: time.Now()}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&seed).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return 0, err
	}

	var next int64
	err := r.db.WithContext(ctx).Raw(
		`UPDATE sequence_counters SET last_value = last_value + 1, updated_at = ? WHERE series = ? RETURNING last_value`,
		time.Now(), series,
	).Scan(&next).Error
	if err != nil {
		return 0, err
	}
	if next == 0 {
		return 0, shared.ErrSequenceConflict
	}
	return next, nil
}

// Current returns the last allocated value without incrementing
func (r *GormSequenceRepository) Current(ctx context.Context, series billing.DocumentSeries) (int64, error) {
	var counter models.SequenceCounterModel
	if err := r.db.WithContext(ctx).
		First(&counter, "series = ?", series).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return counter.LastValue, nil
}

// Ensure GormSequenceRepository implements SequenceRepository
var _ billing.SequenceRepository = (*GormSequenceRepository)(nil)
