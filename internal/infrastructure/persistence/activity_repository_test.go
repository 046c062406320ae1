package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renovabill/backend/internal/domain/billing"
	"github.com/renovabill/backend/internal/domain/shared/valueobject"
)

func newMockActivityRepository(t *testing.T) (*GormActivityRepository, sqlmock.Sqlmock, *sql.DB) {
	gormDB, mock, mockDB := newMockGormDB(t)
	return NewGormActivityRepository(gormDB), mock, mockDB
}

func activityRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "version", "collaborator_id", "service_type", "reference", "details",
		"count", "unit_rate", "amount", "currency", "activity_date",
		"period_month", "period_year", "status", "invoice_id",
	})
}

func TestGormActivityRepository_FindPendingForPeriod(t *testing.T) {
	t.Run("finds pending activities of the period", func(t *testing.T) {
		repo, mock, mockDB := newMockActivityRepository(t)
		defer mockDB.Close()

		collaboratorID := uuid.New()
		period, err := valueobject.NewBillingPeriod(4, 2025)
		require.NoError(t, err)

		rows := activityRows().
			AddRow(uuid.New(), 1, collaboratorID, "TECHNICAL_VISIT", "DOS-001", "",
				1, decimal.NewFromInt(55), decimal.NewFromInt(55), "EUR",
				time.Date(2025, 4, 3, 0, 0, 0, 0, time.UTC), 4, 2025, "PENDING", nil).
			AddRow(uuid.New(), 1, collaboratorID, "TECHNICAL_VISIT", "DOS-002", "",
				1, decimal.NewFromInt(55), decimal.NewFromInt(55), "EUR",
				time.Date(2025, 4, 9, 0, 0, 0, 0, time.UTC), 4, 2025, "PENDING", nil)

		mock.ExpectQuery(`SELECT \* FROM "billable_activities" WHERE collaborator_id = \$1 AND period_year = \$2 AND period_month = \$3 AND status = \$4`).
			WithArgs(collaboratorID, 2025, 4, string(billing.ActivityStatusPending)).
			WillReturnRows(rows)

		activities, err := repo.FindPendingForPeriod(context.Background(), collaboratorID, period)

		require.NoError(t, err)
		require.Len(t, activities, 2)
		assert.Equal(t, "DOS-001", activities[0].Reference)
		assert.Equal(t, billing.ActivityStatusPending, activities[0].Status)
		assert.True(t, activities[0].Amount.Equals(valueobject.NewMoneyEURFromFloat(55)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns empty slice when nothing pending", func(t *testing.T) {
		repo, mock, mockDB := newMockActivityRepository(t)
		defer mockDB.Close()

		collaboratorID := uuid.New()
		period, err := valueobject.NewBillingPeriod(5, 2025)
		require.NoError(t, err)

		mock.ExpectQuery(`SELECT \* FROM "billable_activities"`).
			WillReturnRows(activityRows())

		activities, err := repo.FindPendingForPeriod(context.Background(), collaboratorID, period)

		require.NoError(t, err)
		assert.Empty(t, activities)
	})
}

func TestGormActivityRepository_FindByInvoice(t *testing.T) {
	t.Run("finds activities attached to an invoice", func(t *testing.T) {
		repo, mock, mockDB := newMockActivityRepository(t)
		defer mockDB.Close()

		invoiceID := uuid.New()
		rows := activityRows().
			AddRow(uuid.New(), 2, uuid.New(), "INSTALLATION", "DOS-003", "",
				2, decimal.NewFromInt(80), decimal.NewFromInt(160), "EUR",
				time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC), 4, 2025, "INVOICED", invoiceID)

		mock.ExpectQuery(`SELECT \* FROM "billable_activities" WHERE invoice_id = \$1`).
			WithArgs(invoiceID).
			WillReturnRows(rows)

		activities, err := repo.FindByInvoice(context.Background(), invoiceID)

		require.NoError(t, err)
		require.Len(t, activities, 1)
		require.NotNil(t, activities[0].InvoiceID)
		assert.Equal(t, invoiceID, *activities[0].InvoiceID)
		assert.Equal(t, billing.ActivityStatusInvoiced, activities[0].Status)
	})
}

func TestGormActivityRepository_SaveAll(t *testing.T) {
	t.Run("returns nil for empty batch", func(t *testing.T) {
		repo, _, mockDB := newMockActivityRepository(t)
		defer mockDB.Close()

		err := repo.SaveAll(context.Background(), nil)

		assert.NoError(t, err)
	})
}
