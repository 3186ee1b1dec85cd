package portfolio

import (
	"time"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/portfolio"
)

// CreatePortfolioRequest represents a request to create a portfolio
type CreatePortfolioRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=200"`
	Description  string `json:"description" binding:"max=2000"`
	BaseCurrency string `json:"base_currency" binding:"omitempty,len=3,alpha"`
}

// UpdatePortfolioRequest represents a request to update a portfolio
type UpdatePortfolioRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=200"`
	Description  *string `json:"description" binding:"omitempty,max=2000"`
	BaseCurrency *string `json:"base_currency" binding:"omitempty,len=3,alpha"`
}

// PortfolioResponse represents a portfolio in API responses
type PortfolioResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	BaseCurrency string    `json:"base_currency"`
	OwnerID      string    `json:"owner_id"`
	// Role is the caller's role, set on list and get
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

// ListPortfoliosFilter represents list parameters for portfolios
type ListPortfoliosFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search" binding:"max=100"`
}

// MemberResponse represents a membership in API responses
type MemberResponse struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	JoinedAt  time.Time `json:"joined_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChangeMemberRoleRequest represents a request to change a member's role
type ChangeMemberRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=owner manager viewer"`
}

// CreateInvitationRequest represents a request to invite someone to a portfolio
type CreateInvitationRequest struct {
	Email string `json:"email" binding:"required,email,max=320"`
	Role  string `json:"role" binding:"required,oneof=manager viewer"`
	// TTLHours overrides the default lifetime, bounded by configuration
	TTLHours *int `json:"ttl_hours" binding:"omitempty,min=1"`
}

// InvitationResponse represents an invitation in API responses. The token is never included.
type InvitationResponse struct {
	ID          uuid.UUID  `json:"id"`
	PortfolioID uuid.UUID  `json:"portfolio_id"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	ExpiresAt   time.Time  `json:"expires_at"`
	InvitedBy   string     `json:"invited_by"`
	AcceptedBy  string     `json:"accepted_by,omitempty"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
	RevokedAt   *time.Time `json:"revoked_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// IssuedInvitationResponse is returned once, when an invitation is created
type IssuedInvitationResponse struct {
	Invitation InvitationResponse `json:"invitation"`
	Token      string             `json:"token"`
	AcceptURL  string             `json:"accept_url,omitempty"`
}

// InvitationPreviewResponse is what an invitee may see before accepting
type InvitationPreviewResponse struct {
	PortfolioID   uuid.UUID `json:"portfolio_id"`
	PortfolioName string    `json:"portfolio_name"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// AcceptInvitationRequest represents a request to accept an invitation
type AcceptInvitationRequest struct {
	Token string `json:"token" binding:"required,min=16,max=128"`
}

// ListInvitationsFilter represents list parameters for invitations
type ListInvitationsFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Status   string `form:"status" binding:"omitempty,oneof=pending accepted expired revoked"`
	Search   string `form:"search" binding:"max=100"`
}

// ToPortfolioResponse converts a domain portfolio to a response
func ToPortfolioResponse(p *portfolio.Portfolio) PortfolioResponse {
	return PortfolioResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		BaseCurrency: p.BaseCurrency,
		OwnerID:      p.OwnerID,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		Version:      p.Version,
	}
}

// ToMemberResponse converts a domain member to a response
func ToMemberResponse(m *portfolio.Member) MemberResponse {
	return MemberResponse{
		UserID:    m.UserID,
		Email:     m.Email,
		Role:      string(m.Role),
		JoinedAt:  m.JoinedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// ToInvitationResponse converts a domain invitation to a response
func ToInvitationResponse(inv *portfolio.Invitation) InvitationResponse {
	return InvitationResponse{
		ID:          inv.ID,
		PortfolioID: inv.PortfolioID,
		Email:       inv.Email,
		Role:        string(inv.Role),
		Status:      string(inv.Status),
		ExpiresAt:   inv.ExpiresAt,
		InvitedBy:   inv.CreatedBy,
		AcceptedBy:  inv.AcceptedBy,
		AcceptedAt:  inv.AcceptedAt,
		RevokedAt:   inv.RevokedAt,
		CreatedAt:   inv.CreatedAt,
	}
}
