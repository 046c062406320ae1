package billing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renovabill/backend/internal/domain/shared/valueobject"
)

func TestCalculateMonthlyStatistics(t *testing.T) {
	t.Run("empty collection yields zero-filled view", func(t *testing.T) {
		stats := CalculateMonthlyStatistics(nil)
		assert.Equal(t, 0, stats.TotalInvoices)
		assert.True(t, stats.TotalAmount.IsZero())
		assert.True(t, stats.PendingAmount.IsZero())
		assert.True(t, stats.PaidAmount.IsZero())

		// every status bucket present, even at zero
		assert.Len(t, stats.ByStatus, 3)
		for _, s := range AllMonthlyInvoiceStatuses() {
			count, ok := stats.ByStatus[s.String()]
			assert.True(t, ok, s.String())
			assert.Equal(t, 0, count)
		}
	})

	t.Run("totals reconcile with underlying invoices", func(t *testing.T) {
		invoices := make([]*MonthlyInvoice, 0, 3)
		for month := 1; month <= 3; month++ {
			collabID, activities := activitiesForPeriod(t, 4, "55.50", month, 2025)
			inv, err := NewMonthlyInvoice(collabID, mustPeriod(t, month, 2025), activities)
			require.NoError(t, err)
			invoices = append(invoices, inv)
		}
		require.NoError(t, invoices[1].MarkSent())
		require.NoError(t, invoices[2].MarkSent())
		require.NoError(t, invoices[2].MarkPaid())

		stats := CalculateMonthlyStatistics(invoices)
		assert.Equal(t, 3, stats.TotalInvoices)
		// 4 * 55.50 = 222 per invoice
		assert.True(t, stats.TotalAmount.Amount().Equal(decimal.NewFromInt(666)))
		assert.Equal(t, 1, stats.ByStatus["DRAFT"])
		assert.Equal(t, 1, stats.ByStatus["SENT"])
		assert.Equal(t, 1, stats.ByStatus["PAID"])
		assert.True(t, stats.PendingAmount.Amount().Equal(decimal.NewFromInt(444)))
		assert.True(t, stats.PaidAmount.Amount().Equal(decimal.NewFromInt(222)))
	})
}

func TestCalculateGovernmentStatistics(t *testing.T) {
	newClaim := func(t *testing.T, funding GovernmentFundingType, amount float64) *GovernmentInvoice {
		g, err := NewGovernmentInvoice(funding, []string{"d1", "d2"}, valueobject.NewMoneyEURFromFloat(amount), testPaymentLag)
		require.NoError(t, err)
		return g
	}

	t.Run("empty collection includes every bucket", func(t *testing.T) {
		stats := CalculateGovernmentStatistics(nil)
		assert.Equal(t, 0, stats.TotalInvoices)
		assert.True(t, stats.TotalAmount.IsZero())
		assert.Len(t, stats.ByStatus, 5)
		assert.Len(t, stats.ByFundingType, 3)
		for _, f := range AllFundingTypes() {
			count, ok := stats.ByFundingType[f.String()]
			assert.True(t, ok, f.String())
			assert.Equal(t, 0, count)
		}
	})

	t.Run("buckets by status and funding type", func(t *testing.T) {
		submitted := newClaim(t, FundingTypeCEE, 8000)

		accepted := newClaim(t, FundingTypeMaPrimeRenov, 12000)
		require.NoError(t, accepted.Accept("REF-1"))

		paid := newClaim(t, FundingTypeCEE, 5000)
		require.NoError(t, paid.Accept("REF-2"))
		require.NoError(t, paid.MarkPaid(time.Time{}))

		rejected := newClaim(t, FundingTypeEcoPTZ, 3000)
		require.NoError(t, rejected.Reject("incomplete dossier"))

		stats := CalculateGovernmentStatistics([]*GovernmentInvoice{submitted, accepted, paid, rejected})

		assert.Equal(t, 4, stats.TotalInvoices)
		assert.True(t, stats.TotalAmount.Amount().Equal(decimal.NewFromInt(28000)))

		assert.Equal(t, 1, stats.ByStatus["SUBMITTED"])
		assert.Equal(t, 1, stats.ByStatus["ACCEPTED"])
		assert.Equal(t, 1, stats.ByStatus["PAID"])
		assert.Equal(t, 1, stats.ByStatus["REJECTED"])
		assert.Equal(t, 0, stats.ByStatus["DRAFT"])

		assert.Equal(t, 2, stats.ByFundingType["CEE"])
		assert.Equal(t, 1, stats.ByFundingType["MAPRIMERENOVS"])
		assert.Equal(t, 1, stats.ByFundingType["ECO_PTZ"])

		// pending covers draft and submitted only
		assert.True(t, stats.PendingAmount.Amount().Equal(decimal.NewFromInt(8000)))
		assert.True(t, stats.PaidAmount.Amount().Equal(decimal.NewFromInt(5000)))
	})
}
