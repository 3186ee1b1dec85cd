package portfolio

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/portfolio"
	"github.com/keystone/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockPortfolioRepository is a mock implementation of PortfolioRepository
type MockPortfolioRepository struct {
	mock.Mock
}

func (m *MockPortfolioRepository) FindByID(ctx context.Context, id uuid.UUID) (*portfolio.Portfolio, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portfolio.Portfolio), args.Error(1)
}

func (m *MockPortfolioRepository) FindAllForUser(ctx context.Context, userID string, filter shared.Filter) ([]portfolio.Portfolio, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]portfolio.Portfolio), args.Error(1)
}

func (m *MockPortfolioRepository) CountForUser(ctx context.Context, userID string, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPortfolioRepository) Save(ctx context.Context, p *portfolio.Portfolio) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPortfolioRepository) Create(ctx context.Context, p *portfolio.Portfolio, owner *portfolio.Member) error {
	return m.Called(ctx, p, owner).Error(0)
}

func (m *MockPortfolioRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockMemberRepository is a mock implementation of MemberRepository
type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) Find(ctx context.Context, portfolioID uuid.UUID, userID string) (*portfolio.Member, error) {
	args := m.Called(ctx, portfolioID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portfolio.Member), args.Error(1)
}

func (m *MockMemberRepository) FindAll(ctx context.Context, portfolioID uuid.UUID) ([]portfolio.Member, error) {
	args := m.Called(ctx, portfolioID)
	return args.Get(0).([]portfolio.Member), args.Error(1)
}

func (m *MockMemberRepository) CountByRole(ctx context.Context, portfolioID uuid.UUID, role portfolio.Role) (int64, error) {
	args := m.Called(ctx, portfolioID, role)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMemberRepository) Save(ctx context.Context, member *portfolio.Member) error {
	return m.Called(ctx, member).Error(0)
}

func (m *MockMemberRepository) Delete(ctx context.Context, portfolioID uuid.UUID, userID string) error {
	return m.Called(ctx, portfolioID, userID).Error(0)
}

// MockInvitationRepository is a mock implementation of InvitationRepository
type MockInvitationRepository struct {
	mock.Mock
}

func (m *MockInvitationRepository) FindByIDForTenant(ctx context.Context, portfolioID, id uuid.UUID) (*portfolio.Invitation, error) {
	args := m.Called(ctx, portfolioID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portfolio.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*portfolio.Invitation, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portfolio.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) FindAllForTenant(ctx context.Context, portfolioID uuid.UUID, filter shared.Filter) ([]portfolio.Invitation, error) {
	args := m.Called(ctx, portfolioID, filter)
	return args.Get(0).([]portfolio.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) CountForTenant(ctx context.Context, portfolioID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, portfolioID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvitationRepository) FindPendingByEmail(ctx context.Context, portfolioID uuid.UUID, email string) ([]portfolio.Invitation, error) {
	args := m.Called(ctx, portfolioID, email)
	return args.Get(0).([]portfolio.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) Save(ctx context.Context, inv *portfolio.Invitation) error {
	return m.Called(ctx, inv).Error(0)
}

func (m *MockInvitationRepository) AcceptWithMember(ctx context.Context, inv *portfolio.Invitation, member *portfolio.Member) error {
	return m.Called(ctx, inv, member).Error(0)
}

func (m *MockInvitationRepository) ExpirePending(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}
