package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/portfolio"
)

// PortfolioModel is the persistence model for the Portfolio aggregate
type PortfolioModel struct {
	AggregateModel
	Name         string `gorm:"type:varchar(200);not null"`
	Description  string `gorm:"type:text;not null;default:''"`
	BaseCurrency string `gorm:"type:varchar(3);not null;default:'USD'"`
	OwnerID      string `gorm:"type:varchar(255);not null;index"`
}

// TableName returns the table name for GORM
func (PortfolioModel) TableName() string {
	return "portfolios"
}

// ToDomain converts the persistence model to a domain Portfolio
func (m *PortfolioModel) ToDomain() *portfolio.Portfolio {
	return &portfolio.Portfolio{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Description:       m.Description,
		BaseCurrency:      m.BaseCurrency,
		OwnerID:           m.OwnerID,
	}
}

// PortfolioModelFromDomain creates a persistence model from a domain Portfolio
func PortfolioModelFromDomain(p *portfolio.Portfolio) *PortfolioModel {
	m := &PortfolioModel{
		Name:         p.Name,
		Description:  p.Description,
		BaseCurrency: p.BaseCurrency,
		OwnerID:      p.OwnerID,
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	return m
}

// MemberModel is the persistence model for a portfolio membership
type MemberModel struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	PortfolioID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_member_portfolio_user,priority:1"`
	UserID      string         `gorm:"type:varchar(255);not null;uniqueIndex:idx_member_portfolio_user,priority:2;index"`
	Email       string         `gorm:"type:varchar(320);not null;default:''"`
	Role        portfolio.Role `gorm:"type:varchar(20);not null"`
	JoinedAt    time.Time      `gorm:"not null"`
	UpdatedAt   time.Time      `gorm:"not null"`
}

// TableName returns the table name for GORM
func (MemberModel) TableName() string {
	return "portfolio_members"
}

// ToDomain converts the persistence model to a domain Member
func (m *MemberModel) ToDomain() *portfolio.Member {
	return &portfolio.Member{
		ID:          m.ID,
		PortfolioID: m.PortfolioID,
		UserID:      m.UserID,
		Email:       m.Email,
		Role:        m.Role,
		JoinedAt:    m.JoinedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// MemberModelFromDomain creates a persistence model from a domain Member
func MemberModelFromDomain(mem *portfolio.Member) *MemberModel {
	return &MemberModel{
		ID:          mem.ID,
		PortfolioID: mem.PortfolioID,
		UserID:      mem.UserID,
		Email:       mem.Email,
		Role:        mem.Role,
		JoinedAt:    mem.JoinedAt,
		UpdatedAt:   mem.UpdatedAt,
	}
}

// InvitationModel is the persistence model for the Invitation aggregate
type InvitationModel struct {
	TenantAggregateModel
	Email      string                     `gorm:"type:varchar(320);not null;index"`
	Role       portfolio.Role             `gorm:"type:varchar(20);not null"`
	TokenHash  string                     `gorm:"type:varchar(64);not null;uniqueIndex"`
	Status     portfolio.InvitationStatus `gorm:"type:varchar(20);not null;index"`
	ExpiresAt  time.Time                  `gorm:"not null;index"`
	AcceptedBy string                     `gorm:"type:varchar(255);not null;default:''"`
	AcceptedAt *time.Time
	RevokedAt  *time.Time
}

// TableName returns the table name for GORM
func (InvitationModel) TableName() string {
	return "invitations"
}

// ToDomain converts the persistence model to a domain Invitation
func (m *InvitationModel) ToDomain() *portfolio.Invitation {
	return &portfolio.Invitation{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Email:               m.Email,
		Role:                m.Role,
		TokenHash:           m.TokenHash,
		Status:              m.Status,
		ExpiresAt:           m.ExpiresAt,
		AcceptedBy:          m.AcceptedBy,
		AcceptedAt:          m.AcceptedAt,
		RevokedAt:           m.RevokedAt,
	}
}

// InvitationModelFromDomain creates a persistence model from a domain Invitation
func InvitationModelFromDomain(inv *portfolio.Invitation) *InvitationModel {
	m := &InvitationModel{
		Email:      inv.Email,
		Role:       inv.Role,
		TokenHash:  inv.TokenHash,
		Status:     inv.Status,
		ExpiresAt:  inv.ExpiresAt,
		AcceptedBy: inv.AcceptedBy,
		AcceptedAt: inv.AcceptedAt,
		RevokedAt:  inv.RevokedAt,
	}
	m.FromDomainTenantAggregateRoot(inv.TenantAggregateRoot)
	return m
}
