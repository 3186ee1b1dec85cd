package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/shared"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// AggregateModel extends BaseModel with the optimistic locking version
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// FromDomainAggregateRoot populates AggregateModel from domain BaseAggregateRoot
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Version = a.Version
}

// ToDomainAggregateRoot converts AggregateModel to domain BaseAggregateRoot
func (m *AggregateModel) ToDomainAggregateRoot() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{
		BaseEntity: m.BaseModel.ToDomain(),
		Version:    m.Version,
	}
}

// TenantAggregateModel provides the fields of portfolio-scoped aggregate roots
type TenantAggregateModel struct {
	AggregateModel
	PortfolioID uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedBy   string    `gorm:"type:varchar(255);not null;default:''"`
}

// FromDomainTenantAggregateRoot populates TenantAggregateModel from domain TenantAggregateRoot
func (m *TenantAggregateModel) FromDomainTenantAggregateRoot(t shared.TenantAggregateRoot) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.PortfolioID = t.PortfolioID
	m.CreatedBy = t.CreatedBy
}

// ToDomainTenantAggregateRoot converts TenantAggregateModel to domain TenantAggregateRoot
func (m *TenantAggregateModel) ToDomainTenantAggregateRoot() shared.TenantAggregateRoot {
	return shared.TenantAggregateRoot{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		PortfolioID:       m.PortfolioID,
		CreatedBy:         m.CreatedBy,
	}
}

// All returns every model, in dependency order, for AutoMigrate in tests
// and development databases
func All() []any {
	return []any{
		&PortfolioModel{},
		&MemberModel{},
		&InvitationModel{},
		&PropertyModel{},
		&DocumentModel{},
		&CommunicationModel{},
		&DecisionModel{},
		&RegistryItemModel{},
		&LearningProgressModel{},
		&TicketModel{},
		&ExecutionModel{},
		&TokenBudgetModel{},
		&RunnerKeyModel{},
	}
}
