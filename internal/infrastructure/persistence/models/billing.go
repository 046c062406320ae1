package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/renovabill/backend/internal/domain/billing"
	"github.com/renovabill/backend/internal/domain/collaborator"
	"github.com/renovabill/backend/internal/domain/shared/valueobject"
)

// BillableActivityModel is the persistence model for the BillableActivity aggregate root.
type BillableActivityModel struct {
	AggregateModel
	CollaboratorID uuid.UUID                `gorm:"type:uuid;not null;index:idx_activities_collaborator_period,priority:1"`
	ServiceType    collaborator.ServiceType `gorm:"type:varchar(30);not null"`
	Reference      string                   `gorm:"type:varchar(100);not null"`
	Details        string                   `gorm:"type:text"`
	Count          int64                    `gorm:"not null"`
	UnitRate       decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	Amount         decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	Currency       string                   `gorm:"type:varchar(3);not null;default:'EUR'"`
	ActivityDate   time.Time                `gorm:"not null"`
	PeriodMonth    int                      `gorm:"not null;index:idx_activities_collaborator_period,priority:3"`
	PeriodYear     int                      `gorm:"not null;index:idx_activities_collaborator_period,priority:2"`
	Status         billing.ActivityStatus   `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	InvoiceID      *uuid.UUID               `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (BillableActivityModel) TableName() string {
	return "billable_activities"
}

// ToDomain converts the persistence model to a domain BillableActivity entity.
func (m *BillableActivityModel) ToDomain() *billing.BillableActivity {
	period, _ := valueobject.NewBillingPeriod(m.PeriodMonth, m.PeriodYear)
	a := &billing.BillableActivity{
		CollaboratorID: m.CollaboratorID,
		ServiceType:    m.ServiceType,
		Reference:      m.Reference,
		Details:        m.Details,
		Count:          m.Count,
		UnitRate:       moneyColumn(m.UnitRate, m.Currency),
		Amount:         moneyColumn(m.Amount, m.Currency),
		ActivityDate:   m.ActivityDate,
		Period:         period,
		Status:         m.Status,
		InvoiceID:      m.InvoiceID,
	}
	m.PopulateAggregateRoot(&a.BaseAggregateRoot)
	return a
}

// FromDomain populates the persistence model from a domain BillableActivity entity.
func (m *BillableActivityModel) FromDomain(a *billing.BillableActivity) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.CollaboratorID = a.CollaboratorID
	m.ServiceType = a.ServiceType
	m.Reference = a.Reference
	m.Details = a.Details
	m.Count = a.Count
	m.UnitRate = a.UnitRate.Amount()
	m.Amount = a.Amount.Amount()
	m.Currency = string(a.Amount.Currency())
	m.ActivityDate = a.ActivityDate
	m.PeriodMonth = a.Period.Month()
	m.PeriodYear = a.Period.Year()
	m.Status = a.Status
	m.InvoiceID = a.InvoiceID
}

// BillableActivityModelFromDomain creates a new persistence model from a domain BillableActivity.
func BillableActivityModelFromDomain(a *billing.BillableActivity) *BillableActivityModel {
	m := &BillableActivityModel{}
	m.FromDomain(a)
	return m
}

// MonthlyInvoiceModel is the persistence model for the MonthlyInvoice aggregate root.
// The unique index on PeriodID is the storage-level guarantee that at
// most one invoice exists per collaborator and billing period.
type MonthlyInvoiceModel struct {
	AggregateModel
	PeriodID       string                        `gorm:"type:varchar(60);not null;uniqueIndex:idx_monthly_invoices_period_id"`
	InvoiceNumber  string                        `gorm:"type:varchar(30);not null;uniqueIndex:idx_monthly_invoices_number"`
	CollaboratorID uuid.UUID                     `gorm:"type:uuid;not null;index"`
	PeriodMonth    int                           `gorm:"not null"`
	PeriodYear     int                           `gorm:"not null"`
	ActivityIDs    pq.StringArray                `gorm:"type:text[];not null"`
	ActivityCount  int                           `gorm:"not null"`
	TotalAmount    decimal.Decimal               `gorm:"type:decimal(18,4);not null"`
	Currency       string                        `gorm:"type:varchar(3);not null;default:'EUR'"`
	Status         billing.MonthlyInvoiceStatus  `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	IssuedAt       time.Time                     `gorm:"not null"`
	SentAt         *time.Time
	PaidAt         *time.Time
}

// TableName returns the table name for GORM
func (MonthlyInvoiceModel) TableName() string {
	return "monthly_invoices"
}

// ToDomain converts the persistence model to a domain MonthlyInvoice entity.
func (m *MonthlyInvoiceModel) ToDomain() *billing.MonthlyInvoice {
	period, _ := valueobject.NewBillingPeriod(m.PeriodMonth, m.PeriodYear)

	activityIDs := make([]uuid.UUID, 0, len(m.ActivityIDs))
	for _, raw := range m.ActivityIDs {
		if id, err := uuid.Parse(raw); err == nil {
			activityIDs = append(activityIDs, id)
		}
	}

	inv := &billing.MonthlyInvoice{
		PeriodID:       m.PeriodID,
		InvoiceNumber:  m.InvoiceNumber,
		CollaboratorID: m.CollaboratorID,
		Period:         period,
		ActivityIDs:    activityIDs,
		ActivityCount:  m.ActivityCount,
		TotalAmount:    moneyColumn(m.TotalAmount, m.Currency),
		Status:         m.Status,
		IssuedAt:       m.IssuedAt,
		SentAt:         m.SentAt,
		PaidAt:         m.PaidAt,
	}
	m.PopulateAggregateRoot(&inv.BaseAggregateRoot)
	return inv
}

// FromDomain populates the persistence model from a domain MonthlyInvoice entity.
func (m *MonthlyInvoiceModel) FromDomain(inv *billing.MonthlyInvoice) {
	m.FromDomainAggregateRoot(inv.BaseAggregateRoot)
	m.PeriodID = inv.PeriodID
	m.InvoiceNumber = inv.InvoiceNumber
	m.CollaboratorID = inv.CollaboratorID
	m.PeriodMonth = inv.Period.Month()
	m.PeriodYear = inv.Period.Year()
	m.ActivityIDs = make(pq.StringArray, 0, len(inv.ActivityIDs))
	for _, id := range inv.ActivityIDs {
		m.ActivityIDs = append(m.ActivityIDs, id.String())
	}
	m.ActivityCount = inv.ActivityCount
	m.TotalAmount = inv.TotalAmount.Amount()
	m.Currency = string(inv.TotalAmount.Currency())
	m.Status = inv.Status
	m.IssuedAt = inv.IssuedAt
	m.SentAt = inv.SentAt
	m.PaidAt = inv.PaidAt
}

// MonthlyInvoiceModelFromDomain creates a new persistence model from a domain MonthlyInvoice.
func MonthlyInvoiceModelFromDomain(inv *billing.MonthlyInvoice) *MonthlyInvoiceModel {
	m := &MonthlyInvoiceModel{}
	m.FromDomain(inv)
	return m
}

// GovernmentInvoiceModel is the persistence model for the GovernmentInvoice aggregate root.
type GovernmentInvoiceModel struct {
	AggregateModel
	InvoiceNumber       string                          `gorm:"type:varchar(30);not null;uniqueIndex:idx_government_invoices_number"`
	FundingType         billing.GovernmentFundingType   `gorm:"type:varchar(20);not null;index"`
	DossierIDs          pq.StringArray                  `gorm:"type:text[];not null"`
	TotalAmount         decimal.Decimal                 `gorm:"type:decimal(18,4);not null"`
	Currency            string                          `gorm:"type:varchar(3);not null;default:'EUR'"`
	SubmissionDate      time.Time                       `gorm:"not null;index"`
	ExpectedPaymentDate time.Time                       `gorm:"not null"`
	PaidDate            *time.Time
	Status              billing.GovernmentInvoiceStatus `gorm:"type:varchar(20);not null;default:'SUBMITTED';index"`
	ReferenceNumber     string                          `gorm:"type:varchar(100)"`
	RejectionReason     string                          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (GovernmentInvoiceModel) TableName() string {
	return "government_invoices"
}

// ToDomain converts the persistence model to a domain GovernmentInvoice entity.
func (m *GovernmentInvoiceModel) ToDomain() *billing.GovernmentInvoice {
	inv := &billing.GovernmentInvoice{
		InvoiceNumber:       m.InvoiceNumber,
		FundingType:         m.FundingType,
		DossierIDs:          append([]string(nil), m.DossierIDs...),
		TotalAmount:         moneyColumn(m.TotalAmount, m.Currency),
		SubmissionDate:      m.SubmissionDate,
		ExpectedPaymentDate: m.ExpectedPaymentDate,
		PaidDate:            m.PaidDate,
		Status:              m.Status,
		ReferenceNumber:     m.ReferenceNumber,
		RejectionReason:     m.RejectionReason,
	}
	m.PopulateAggregateRoot(&inv.BaseAggregateRoot)
	return inv
}

// FromDomain populates the persistence model from a domain GovernmentInvoice entity.
func (m *GovernmentInvoiceModel) FromDomain(inv *billing.GovernmentInvoice) {
	m.FromDomainAggregateRoot(inv.BaseAggregateRoot)
	m.InvoiceNumber = inv.InvoiceNumber
	m.FundingType = inv.FundingType
	m.DossierIDs = append(pq.StringArray(nil), inv.DossierIDs...)
	m.TotalAmount = inv.TotalAmount.Amount()
	m.Currency = string(inv.TotalAmount.Currency())
	m.SubmissionDate = inv.SubmissionDate
	m.ExpectedPaymentDate = inv.ExpectedPaymentDate
	m.PaidDate = inv.PaidDate
	m.Status = inv.Status
	m.ReferenceNumber = inv.ReferenceNumber
	m.RejectionReason = inv.RejectionReason
}

// GovernmentInvoiceModelFromDomain creates a new persistence model from a domain GovernmentInvoice.
func GovernmentInvoiceModelFromDomain(inv *billing.GovernmentInvoice) *GovernmentInvoiceModel {
	m := &GovernmentInvoiceModel{}
	m.FromDomain(inv)
	return m
}
