package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/backoffice/backend/internal/domain/billing"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockSequenceRepository creates a GormSequenceRepository with a mocked
// SQL connection, to pin down the exact statements the allocation issues
func newMockSequenceRepository(t *testing.T) (*GormSequenceRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormSequenceRepository(gormDB), mock, mockDB
}

func TestGormSequenceRepository_NextIncrementsInPlace(t *testing.T) {
	repo, mock, mockDB := newMockSequenceRepository(t)
	defer mockDB.Close()

	mock.ExpectExec(`INSERT INTO "sequence_counters"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`UPDATE sequence_counters SET last_value = last_value \+ 1, updated_at = \$1 WHERE series = \$2 RETURNING last_value`).
		WithArgs(sqlmock.AnyArg(), billing.SeriesInvoice).
		WillReturnRows(sqlmock.NewRows([]string{"last_value"}).AddRow(int64(124)))

	next, err := repo.Next(context.Background(), billing.SeriesInvoice)

	assert.NoError(t, err)
	assert.Equal(t, int64(124), next)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormSequenceRepository_NextReportsMissingCounterRow(t *testing.T) {
	repo, mock, mockDB := newMockSequenceRepository(t)
	defer mockDB.Close()

	mock.ExpectExec(`INSERT INTO "sequence_counters"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`UPDATE sequence_counters .* RETURNING last_value`).
		WithArgs(sqlmock.AnyArg(), billing.SeriesInvoice).
		WillReturnRows(sqlmock.NewRows([]string{"last_value"}))

	_, err := repo.Next(context.Background(), billing.SeriesInvoice)

	assert.ErrorIs(t, err, shared.ErrSequenceConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormSequenceRepository_NextRejectsInvalidSeriesWithoutQuerying(t *testing.T) {
	repo, mock, mockDB := newMockSequenceRepository(t)
	defer mockDB.Close()

	_, err := repo.Next(context.Background(), billing.DocumentSeries("receipt"))

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_SERIES", domainErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormSequenceRepository_Current(t *testing.T) {
	t.Run("returns last allocated value", func(t *testing.T) {
		repo, mock, mockDB := newMockSequenceRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"series", "last_value"}).
			AddRow("estimate", int64(42))
		mock.ExpectQuery(`SELECT \* FROM "sequence_counters" WHERE series = \$1`).
			WithArgs(billing.SeriesEstimate, 1).
			WillReturnRows(rows)

		current, err := repo.Current(context.Background(), billing.SeriesEstimate)

		assert.NoError(t, err)
		assert.Equal(t, int64(42), current)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("treats a missing row as zero", func(t *testing.T) {
		repo, mock, mockDB := newMockSequenceRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "sequence_counters" WHERE series = \$1`).
			WithArgs(billing.SeriesProposal, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		current, err := repo.Current(context.Background(), billing.SeriesProposal)

		assert.NoError(t, err)
		assert.Zero(t, current)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
