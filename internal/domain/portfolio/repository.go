package portfolio

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/shared"
)

// PortfolioRepository persists portfolios
type PortfolioRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Portfolio, error)
	// FindAllForUser returns the portfolios the user is a member of
	FindAllForUser(ctx context.Context, userID string, filter shared.Filter) ([]Portfolio, error)
	CountForUser(ctx context.Context, userID string, filter shared.Filter) (int64, error)
	Save(ctx context.Context, p *Portfolio) error
	// Create stores a new portfolio together with its owner membership in one transaction
	Create(ctx context.Context, p *Portfolio, owner *Member) error
	// Delete removes the portfolio and everything scoped to it
	Delete(ctx context.Context, id uuid.UUID) error
}

// MemberRepository persists memberships
type MemberRepository interface {
	Find(ctx context.Context, portfolioID uuid.UUID, userID string) (*Member, error)
	FindAll(ctx context.Context, portfolioID uuid.UUID) ([]Member, error)
	CountByRole(ctx context.Context, portfolioID uuid.UUID, role Role) (int64, error)
	Save(ctx context.Context, m *Member) error
	Delete(ctx context.Context, portfolioID uuid.UUID, userID string) error
}

// InvitationRepository persists invitations
type InvitationRepository interface {
	FindByIDForTenant(ctx context.Context, portfolioID, id uuid.UUID) (*Invitation, error)
	FindByTokenHash(ctx context.Context, tokenHash string) (*Invitation, error)
	FindAllForTenant(ctx context.Context, portfolioID uuid.UUID, filter shared.Filter) ([]Invitation, error)
	CountForTenant(ctx context.Context, portfolioID uuid.UUID, filter shared.Filter) (int64, error)
	FindPendingByEmail(ctx context.Context, portfolioID uuid.UUID, email string) ([]Invitation, error)
	Save(ctx context.Context, inv *Invitation) error
	// AcceptWithMember flips a pending invitation to accepted and inserts the
	// membership in one transaction. It returns ErrInvitationAlreadyUsed when
	// the row is no longer pending, so only one of several concurrent accepts wins.
	AcceptWithMember(ctx context.Context, inv *Invitation, member *Member) error
	// ExpirePending marks pending invitations expired when expires_at <= now and returns how many changed
	ExpirePending(ctx context.Context, now time.Time) (int64, error)
}
