package models

import (
	"github.com/shopspring/decimal"

	"github.com/renovabill/backend/internal/domain/collaborator"
)

// CollaboratorModel is the persistence model for the Collaborator aggregate root.
type CollaboratorModel struct {
	AggregateModel
	Name        string                   `gorm:"type:varchar(200);not null"`
	Email       string                   `gorm:"type:varchar(255);uniqueIndex:idx_collaborators_email,where:email <> ''"`
	ServiceType collaborator.ServiceType `gorm:"type:varchar(30);not null;index"`
	UnitRate    decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	Currency    string                   `gorm:"type:varchar(3);not null;default:'EUR'"`
	Active      bool                     `gorm:"not null;default:true;index"`
	Notes       string                   `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CollaboratorModel) TableName() string {
	return "collaborators"
}

// ToDomain converts the persistence model to a domain Collaborator entity.
func (m *CollaboratorModel) ToDomain() *collaborator.Collaborator {
	c := &collaborator.Collaborator{
		Name:        m.Name,
		Email:       m.Email,
		ServiceType: m.ServiceType,
		UnitRate:    moneyColumn(m.UnitRate, m.Currency),
		Active:      m.Active,
		Notes:       m.Notes,
	}
	m.PopulateAggregateRoot(&c.BaseAggregateRoot)
	return c
}

// FromDomain populates the persistence model from a domain Collaborator entity.
func (m *CollaboratorModel) FromDomain(c *collaborator.Collaborator) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Name = c.Name
	m.Email = c.Email
	m.ServiceType = c.ServiceType
	m.UnitRate = c.UnitRate.Amount()
	m.Currency = string(c.UnitRate.Currency())
	m.Active = c.Active
	m.Notes = c.Notes
}

// CollaboratorModelFromDomain creates a new persistence model from a domain Collaborator.
func CollaboratorModelFromDomain(c *collaborator.Collaborator) *CollaboratorModel {
	m := &CollaboratorModel{}
	m.FromDomain(c)
	return m
}
