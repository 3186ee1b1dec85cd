package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/record"
	"github.com/shopspring/decimal"
)

// CommunicationModel is the persistence model for the Communication aggregate
type CommunicationModel struct {
	TenantAggregateModel
	PropertyID   *uuid.UUID       `gorm:"type:uuid;index"`
	Channel      record.Channel   `gorm:"type:varchar(20);not null"`
	Direction    record.Direction `gorm:"type:varchar(10);not null"`
	Counterparty string           `gorm:"type:varchar(200);not null;default:''"`
	Subject      string           `gorm:"type:varchar(300);not null"`
	Body         string           `gorm:"type:text;not null;default:''"`
	OccurredAt   time.Time        `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (CommunicationModel) TableName() string {
	return "communications"
}

// ToDomain converts the persistence model to a domain Communication
func (m *CommunicationModel) ToDomain() *record.Communication {
	return &record.Communication{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		PropertyID:          m.PropertyID,
		Channel:             m.Channel,
		Direction:           m.Direction,
		Counterparty:        m.Counterparty,
		Subject:             m.Subject,
		Body:                m.Body,
		OccurredAt:          m.OccurredAt,
	}
}

// CommunicationModelFromDomain creates a persistence model from a domain Communication
func CommunicationModelFromDomain(c *record.Communication) *CommunicationModel {
	m := &CommunicationModel{
		PropertyID:   c.PropertyID,
		Channel:      c.Channel,
		Direction:    c.Direction,
		Counterparty: c.Counterparty,
		Subject:      c.Subject,
		Body:         c.Body,
		OccurredAt:   c.OccurredAt,
	}
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	return m
}

// DecisionModel is the persistence model for the Decision aggregate
type DecisionModel struct {
	TenantAggregateModel
	PropertyID *uuid.UUID            `gorm:"type:uuid;index"`
	Title      string                `gorm:"type:varchar(200);not null"`
	Context    string                `gorm:"type:text;not null;default:''"`
	Outcome    string                `gorm:"type:text;not null;default:''"`
	Status     record.DecisionStatus `gorm:"type:varchar(20);not null;index"`
	DecidedAt  *time.Time
	DecidedBy  string `gorm:"type:varchar(255);not null;default:''"`
}

// TableName returns the table name for GORM
func (DecisionModel) TableName() string {
	return "decisions"
}

// ToDomain converts the persistence model to a domain Decision
func (m *DecisionModel) ToDomain() *record.Decision {
	return &record.Decision{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		PropertyID:          m.PropertyID,
		Title:               m.Title,
		Context:             m.Context,
		Outcome:             m.Outcome,
		Status:              m.Status,
		DecidedAt:           m.DecidedAt,
		DecidedBy:           m.DecidedBy,
	}
}

// DecisionModelFromDomain creates a persistence model from a domain Decision
func DecisionModelFromDomain(d *record.Decision) *DecisionModel {
	m := &DecisionModel{
		PropertyID: d.PropertyID,
		Title:      d.Title,
		Context:    d.Context,
		Outcome:    d.Outcome,
		Status:     d.Status,
		DecidedAt:  d.DecidedAt,
		DecidedBy:  d.DecidedBy,
	}
	m.FromDomainTenantAggregateRoot(d.TenantAggregateRoot)
	return m
}

// RegistryItemModel is the persistence model for the RegistryItem aggregate
type RegistryItemModel struct {
	TenantAggregateModel
	PropertyID      *uuid.UUID              `gorm:"type:uuid;index"`
	Category        record.RegistryCategory `gorm:"type:varchar(30);not null;index"`
	Name            string                  `gorm:"type:varchar(200);not null"`
	Provider        string                  `gorm:"type:varchar(200);not null;default:''"`
	ReferenceNumber string                  `gorm:"type:varchar(100);not null;default:''"`
	Amount          *decimal.Decimal        `gorm:"type:decimal(18,2)"`
	StartsOn        *time.Time              `gorm:"type:date"`
	ExpiresOn       *time.Time              `gorm:"type:date;index"`
	Notes           string                  `gorm:"type:text;not null;default:''"`
}

// TableName returns the table name for GORM
func (RegistryItemModel) TableName() string {
	return "registry_items"
}

// ToDomain converts the persistence model to a domain RegistryItem
func (m *RegistryItemModel) ToDomain() *record.RegistryItem {
	return &record.RegistryItem{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		PropertyID:          m.PropertyID,
		Category:            m.Category,
		Name:                m.Name,
		Provider:            m.Provider,
		ReferenceNumber:     m.ReferenceNumber,
		Amount:              m.Amount,
		StartsOn:            m.StartsOn,
		ExpiresOn:           m.ExpiresOn,
		Notes:               m.Notes,
	}
}

// RegistryItemModelFromDomain creates a persistence model from a domain RegistryItem
func RegistryItemModelFromDomain(r *record.RegistryItem) *RegistryItemModel {
	m := &RegistryItemModel{
		PropertyID:      r.PropertyID,
		Category:        r.Category,
		Name:            r.Name,
		Provider:        r.Provider,
		ReferenceNumber: r.ReferenceNumber,
		Amount:          r.Amount,
		StartsOn:        r.StartsOn,
		ExpiresOn:       r.ExpiresOn,
		Notes:           r.Notes,
	}
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	return m
}
