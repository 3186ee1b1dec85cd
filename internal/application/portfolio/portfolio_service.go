package portfolio

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/portfolio"
	"github.com/keystone/backend/internal/domain/shared"
)

// PortfolioService handles portfolios and their memberships
type PortfolioService struct {
	portfolioRepo portfolio.PortfolioRepository
	memberRepo    portfolio.MemberRepository
}

// NewPortfolioService creates a new PortfolioService
func NewPortfolioService(portfolioRepo portfolio.PortfolioRepository, memberRepo portfolio.MemberRepository) *PortfolioService {
	return &PortfolioService{
		portfolioRepo: portfolioRepo,
		memberRepo:    memberRepo,
	}
}

// Create creates a portfolio; the creator becomes its owner
func (s *PortfolioService) Create(ctx context.Context, userID, email string, req CreatePortfolioRequest) (*PortfolioResponse, error) {
	p, err := portfolio.NewPortfolio(req.Name, req.Description, req.BaseCurrency, userID)
	if err != nil {
		return nil, err
	}
	owner, err := portfolio.NewMember(p.ID, userID, email, portfolio.RoleOwner)
	if err != nil {
		return nil, err
	}

	if err := s.portfolioRepo.Create(ctx, p, owner); err != nil {
		return nil, err
	}

	response := ToPortfolioResponse(p)
	response.Role = string(portfolio.RoleOwner)
	return &response, nil
}

// ListMine lists the portfolios the user belongs to, with the user's role in each
func (s *PortfolioService) ListMine(ctx context.Context, userID string, filter ListPortfoliosFilter) ([]PortfolioResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "name",
		OrderDir: "asc",
		Search:   filter.Search,
	}.Normalize()

	portfolios, err := s.portfolioRepo.FindAllForUser(ctx, userID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.portfolioRepo.CountForUser(ctx, userID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PortfolioResponse, 0, len(portfolios))
	for i := range portfolios {
		r := ToPortfolioResponse(&portfolios[i])
		if m, err := s.memberRepo.Find(ctx, portfolios[i].ID, userID); err == nil {
			r.Role = string(m.Role)
		}
		responses = append(responses, r)
	}
	return responses, total, nil
}

// Get retrieves a portfolio
func (s *PortfolioService) Get(ctx context.Context, portfolioID uuid.UUID, role portfolio.Role) (*PortfolioResponse, error) {
	p, err := s.portfolioRepo.FindByID(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	response := ToPortfolioResponse(p)
	response.Role = string(role)
	return &response, nil
}

// Update updates a portfolio
func (s *PortfolioService) Update(ctx context.Context, portfolioID uuid.UUID, req UpdatePortfolioRequest) (*PortfolioResponse, error) {
	p, err := s.portfolioRepo.FindByID(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	name, description, currency := p.Name, p.Description, p.BaseCurrency
	if req.Name != nil {
		name = *req.Name
	}
	if req.Description != nil {
		description = *req.Description
	}
	if req.BaseCurrency != nil {
		currency = *req.BaseCurrency
	}
	if err := p.Update(name, description, currency); err != nil {
		return nil, err
	}

	if err := s.portfolioRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	response := ToPortfolioResponse(p)
	return &response, nil
}

// Delete deletes a portfolio and everything in it
func (s *PortfolioService) Delete(ctx context.Context, portfolioID uuid.UUID) error {
	if _, err := s.portfolioRepo.FindByID(ctx, portfolioID); err != nil {
		return err
	}
	return s.portfolioRepo.Delete(ctx, portfolioID)
}

// ResolveAccess returns the user's role in the portfolio. Non-members, and
// portfolios that do not exist, yield shared.ErrForbidden so the two cannot
// be told apart.
func (s *PortfolioService) ResolveAccess(ctx context.Context, userID string, portfolioID uuid.UUID) (portfolio.Role, error) {
	if userID == "" || portfolioID == uuid.Nil {
		return "", shared.ErrForbidden
	}
	m, err := s.memberRepo.Find(ctx, portfolioID, userID)
	if err != nil {
		if errors.Is(err, portfolio.ErrMemberNotFound) {
			return "", shared.ErrForbidden
		}
		return "", err
	}
	return m.Role, nil
}

// ListMembers lists the members of a portfolio
func (s *PortfolioService) ListMembers(ctx context.Context, portfolioID uuid.UUID) ([]MemberResponse, error) {
	members, err := s.memberRepo.FindAll(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	responses := make([]MemberResponse, 0, len(members))
	for i := range members {
		responses = append(responses, ToMemberResponse(&members[i]))
	}
	return responses, nil
}

// ChangeMemberRole changes a member's role. The last owner cannot be demoted.
func (s *PortfolioService) ChangeMemberRole(ctx context.Context, portfolioID uuid.UUID, userID string, req ChangeMemberRoleRequest) (*MemberResponse, error) {
	m, err := s.memberRepo.Find(ctx, portfolioID, userID)
	if err != nil {
		return nil, err
	}

	newRole := portfolio.Role(req.Role)
	if m.Role == portfolio.RoleOwner && newRole != portfolio.RoleOwner {
		if err := s.ensureAnotherOwner(ctx, portfolioID); err != nil {
			return nil, err
		}
	}
	if err := m.ChangeRole(newRole); err != nil {
		return nil, err
	}

	if err := s.memberRepo.Save(ctx, m); err != nil {
		return nil, err
	}

	response := ToMemberResponse(m)
	return &response, nil
}

// RemoveMember removes a member. The last owner cannot be removed.
func (s *PortfolioService) RemoveMember(ctx context.Context, portfolioID uuid.UUID, userID string) error {
	m, err := s.memberRepo.Find(ctx, portfolioID, userID)
	if err != nil {
		return err
	}
	if m.Role == portfolio.RoleOwner {
		if err := s.ensureAnotherOwner(ctx, portfolioID); err != nil {
			return err
		}
	}
	return s.memberRepo.Delete(ctx, portfolioID, userID)
}

func (s *PortfolioService) ensureAnotherOwner(ctx context.Context, portfolioID uuid.UUID) error {
	owners, err := s.memberRepo.CountByRole(ctx, portfolioID, portfolio.RoleOwner)
	if err != nil {
		return err
	}
	if owners <= 1 {
		return portfolio.ErrLastOwner
	}
	return nil
}
