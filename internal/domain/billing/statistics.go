package billing

import (
	"github.com/renovabill/backend/internal/domain/shared/valueobject"
)

// Statistics is an aggregate view over an invoice collection. Counts
// cover every enumerated status (and funding type, for government
// claims) even when zero; amounts reconcile exactly with the sum of
// the underlying invoices.
type Statistics struct {
	TotalInvoices int               `json:"total_invoices"`
	TotalAmount   valueobject.Money `json:"total_amount"`
	ByStatus      map[string]int    `json:"by_status"`
	ByFundingType map[string]int    `json:"by_funding_type,omitempty"`
	PendingAmount valueobject.Money `json:"pending_amount"`
	PaidAmount    valueobject.Money `json:"paid_amount"`
}

// CalculateMonthlyStatistics folds a monthly invoice collection into a
// Statistics view. Draft and sent invoices count toward the pending
// amount; the fold is pure and accepts the empty collection.
func CalculateMonthlyStatistics(invoices []*MonthlyInvoice) Statistics {
	stats := Statistics{
		TotalInvoices: len(invoices),
		TotalAmount:   valueobject.ZeroEUR(),
		ByStatus:      make(map[string]int, 3),
		PendingAmount: valueobject.ZeroEUR(),
		PaidAmount:    valueobject.ZeroEUR(),
	}
	for _, s := range AllMonthlyInvoiceStatuses() {
		stats.ByStatus[s.String()] = 0
	}

	for _, inv := range invoices {
		stats.TotalAmount = stats.TotalAmount.MustAdd(inv.TotalAmount)
		stats.ByStatus[inv.Status.String()]++
		switch inv.Status {
		case MonthlyInvoiceStatusDraft, MonthlyInvoiceStatusSent:
			stats.PendingAmount = stats.PendingAmount.MustAdd(inv.TotalAmount)
		case MonthlyInvoiceStatusPaid:
			stats.PaidAmount = stats.PaidAmount.MustAdd(inv.TotalAmount)
		}
	}
	return stats
}

// CalculateGovernmentStatistics folds a government claim collection
// into a Statistics view, additionally bucketing by funding type.
// Draft and submitted claims count toward the pending amount.
func CalculateGovernmentStatistics(invoices []*GovernmentInvoice) Statistics {
	stats := Statistics{
		TotalInvoices: len(invoices),
		TotalAmount:   valueobject.ZeroEUR(),
		ByStatus:      make(map[string]int, 5),
		ByFundingType: make(map[string]int, 3),
		PendingAmount: valueobject.ZeroEUR(),
		PaidAmount:    valueobject.ZeroEUR(),
	}
	for _, s := range AllGovernmentInvoiceStatuses() {
		stats.ByStatus[s.String()] = 0
	}
	for _, f := range AllFundingTypes() {
		stats.ByFundingType[f.String()] = 0
	}

	for _, inv := range invoices {
		stats.TotalAmount = stats.TotalAmount.MustAdd(inv.TotalAmount)
		stats.ByStatus[inv.Status.String()]++
		stats.ByFundingType[inv.FundingType.String()]++
		switch inv.Status {
		case GovernmentInvoiceStatusDraft, GovernmentInvoiceStatusSubmitted:
			stats.PendingAmount = stats.PendingAmount.MustAdd(inv.TotalAmount)
		case GovernmentInvoiceStatusPaid:
			stats.PaidAmount = stats.PaidAmount.MustAdd(inv.TotalAmount)
		}
	}
	return stats
}
