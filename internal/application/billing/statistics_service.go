package billing

import (
	"context"

	"github.com/renovabill/backend/internal/domain/billing"
)

// StatisticsService derives aggregate views over invoice collections.
// The folds themselves are pure; the service only selects the
// collection through the repository filters.
type StatisticsService struct {
	invoiceRepo    billing.MonthlyInvoiceRepository
	governmentRepo billing.GovernmentInvoiceRepository
}

// NewStatisticsService creates a new StatisticsService
func NewStatisticsService(invoiceRepo billing.MonthlyInvoiceRepository, governmentRepo billing.GovernmentInvoiceRepository) *StatisticsService {
	return &StatisticsService{
		invoiceRepo:    invoiceRepo,
		governmentRepo: governmentRepo,
	}
}

// MonthlyStatistics folds the monthly invoices matching the filter
func (s *StatisticsService) MonthlyStatistics(ctx context.Context, filter InvoiceListFilter) (*billing.Statistics, error) {
	domainFilter, err := filter.toDomain()
	if err != nil {
		return nil, err
	}

	invoices, err := s.invoiceRepo.FindAllMatching(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	stats := billing.CalculateMonthlyStatistics(invoices)
	return &stats, nil
}

// GovernmentStatistics folds the government claims matching the filter
func (s *StatisticsService) GovernmentStatistics(ctx context.Context, filter ClaimListFilter) (*billing.Statistics, error) {
	domainFilter, err := filter.toDomain()
	if err != nil {
		return nil, err
	}

	claims, err := s.governmentRepo.FindAllMatching(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	stats := billing.CalculateGovernmentStatistics(claims)
	return &stats, nil
}
