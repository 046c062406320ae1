package collaborator

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/renovabill/backend/internal/domain/shared"
	"github.com/renovabill/backend/internal/domain/shared/valueobject"
)

// ServiceType classifies the kind of work a collaborator performs
type ServiceType string

const (
	ServiceTypeTechnicalVisit ServiceType = "TECHNICAL_VISIT"
	ServiceTypeInstallation   ServiceType = "INSTALLATION"
	ServiceTypeQualification  ServiceType = "QUALIFICATION"
	ServiceTypeConfirmation   ServiceType = "CONFIRMATION"
	ServiceTypeAdministrative ServiceType = "ADMINISTRATIVE"
	ServiceTypeBilling        ServiceType = "BILLING"
)

// AllServiceTypes lists every recognized service type
func AllServiceTypes() []ServiceType {
	return []ServiceType{
		ServiceTypeTechnicalVisit,
		ServiceTypeInstallation,
		ServiceTypeQualification,
		ServiceTypeConfirmation,
		ServiceTypeAdministrative,
		ServiceTypeBilling,
	}
}

// IsValid checks if the service type is a known value
func (s ServiceType) IsValid() bool {
	switch s {
	case ServiceTypeTechnicalVisit, ServiceTypeInstallation, ServiceTypeQualification,
		ServiceTypeConfirmation, ServiceTypeAdministrative, ServiceTypeBilling:
		return true
	}
	return false
}

// String returns the string representation
func (s ServiceType) String() string {
	return string(s)
}

// Collaborator is an external service provider paid per unit of work.
// The unit rate recorded here is a default; each billable activity
// snapshots the rate in force at recording time.
type Collaborator struct {
	shared.BaseAggregateRoot
	Name        string
	Email       string
	ServiceType ServiceType
	UnitRate    valueobject.Money
	Active      bool
	Notes       string
}

// NewCollaborator creates a collaborator with a positive unit rate
func NewCollaborator(name, email string, serviceType ServiceType, unitRate valueobject.Money) (*Collaborator, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Collaborator name cannot be empty")
	}
	if !serviceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown service type: "+serviceType.String())
	}
	if !unitRate.IsPositive() {
		return nil, shared.ErrNonPositiveAmount
	}

	return &Collaborator{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Email:             strings.TrimSpace(email),
		ServiceType:       serviceType,
		UnitRate:          unitRate,
		Active:            true,
	}, nil
}

// Update describes a partial change to a collaborator. Nil fields are
// left unchanged, so a zero rate can never sneak in through an absent
// request field.
type Update struct {
	Name        *string
	Email       *string
	ServiceType *ServiceType
	UnitRate    *valueobject.Money
	Notes       *string
}

// Apply validates and applies the partial update
func (c *Collaborator) Apply(u Update) error {
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return shared.NewDomainError("INVALID_INPUT", "Collaborator name cannot be empty")
		}
		c.Name = name
	}
	if u.Email != nil {
		c.Email = strings.TrimSpace(*u.Email)
	}
	if u.ServiceType != nil {
		if !u.ServiceType.IsValid() {
			return shared.NewDomainError("INVALID_INPUT", "Unknown service type: "+u.ServiceType.String())
		}
		c.ServiceType = *u.ServiceType
	}
	if u.UnitRate != nil {
		if !u.UnitRate.IsPositive() {
			return shared.ErrNonPositiveAmount
		}
		c.UnitRate = *u.UnitRate
	}
	if u.Notes != nil {
		c.Notes = *u.Notes
	}
	c.IncrementVersion()
	return nil
}

// ChangeRate replaces the default unit rate. Existing activities keep
// the rate they were recorded with.
func (c *Collaborator) ChangeRate(rate valueobject.Money) error {
	if !rate.IsPositive() {
		return shared.ErrNonPositiveAmount
	}
	c.UnitRate = rate
	c.IncrementVersion()
	return nil
}

// Deactivate marks the collaborator as no longer available for new activities
func (c *Collaborator) Deactivate() {
	if !c.Active {
		return
	}
	c.Active = false
	c.IncrementVersion()
}

// Reactivate restores a deactivated collaborator
func (c *Collaborator) Reactivate() {
	if c.Active {
		return
	}
	c.Active = true
	c.IncrementVersion()
}

// RateForCount computes the amount for a number of units at the current
// default rate, rounded half-up to the given number of decimal places
func (c *Collaborator) RateForCount(count int64, precision int32) valueobject.Money {
	return c.UnitRate.Multiply(decimal.NewFromInt(count)).Round(precision)
}
