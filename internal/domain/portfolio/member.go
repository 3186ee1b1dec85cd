package portfolio

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/shared"
)

// Role is a member's role within a portfolio
type Role string

const (
	RoleOwner   Role = "owner"
	RoleManager Role = "manager"
	RoleViewer  Role = "viewer"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleManager, RoleViewer:
		return true
	}
	return false
}

// CanWrite reports whether the role may create or change portfolio data
func (r Role) CanWrite() bool {
	return r == RoleOwner || r == RoleManager
}

// CanAdminister reports whether the role may manage members, invitations and the portfolio itself
func (r Role) CanAdminister() bool {
	return r == RoleOwner
}

// Membership errors
var (
	ErrMemberNotFound = shared.NewDomainError("MEMBER_NOT_FOUND", "Member not found")
	ErrLastOwner      = shared.NewDomainError("LAST_OWNER", "A portfolio must keep at least one owner")
)

// Member is a user's membership in a portfolio
type Member struct {
	ID          uuid.UUID
	PortfolioID uuid.UUID
	UserID      string
	Email       string
	Role        Role
	JoinedAt    time.Time
	UpdatedAt   time.Time
}

// NewMember creates a membership
func NewMember(portfolioID uuid.UUID, userID, email string, role Role) (*Member, error) {
	if userID == "" {
		return nil, shared.NewDomainError("INVALID_USER", "User id is required")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainErrorf("INVALID_ROLE", "Invalid role: %s", role)
	}
	now := time.Now().UTC()
	return &Member{
		ID:          uuid.New(),
		PortfolioID: portfolioID,
		UserID:      userID,
		Email:       strings.ToLower(strings.TrimSpace(email)),
		Role:        role,
		JoinedAt:    now,
		UpdatedAt:   now,
	}, nil
}

// ChangeRole sets a new role
func (m *Member) ChangeRole(role Role) error {
	if !role.IsValid() {
		return shared.NewDomainErrorf("INVALID_ROLE", "Invalid role: %s", role)
	}
	m.Role = role
	m.UpdatedAt = time.Now().UTC()
	return nil
}
