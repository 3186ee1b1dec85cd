package portfolio

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/portfolio"
	"github.com/keystone/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InvitationMetrics records invitation activity
type InvitationMetrics interface {
	RecordInvitationIssued(ctx context.Context, portfolioID uuid.UUID)
	RecordInvitationAccepted(ctx context.Context, portfolioID uuid.UUID)
}

// InvitationConfig bounds invitation lifetimes
type InvitationConfig struct {
	DefaultTTL time.Duration
	MinTTL     time.Duration
	MaxTTL     time.Duration
	// AcceptBaseURL, when set, is used to build the accept link returned on issue
	AcceptBaseURL string
}

// DefaultInvitationConfig returns a 7 day default lifetime bounded to 1h..30d
func DefaultInvitationConfig() InvitationConfig {
	return InvitationConfig{
		DefaultTTL: 7 * 24 * time.Hour,
		MinTTL:     time.Hour,
		MaxTTL:     30 * 24 * time.Hour,
	}
}

// InvitationService issues, validates and redeems portfolio invitations
type InvitationService struct {
	invitationRepo portfolio.InvitationRepository
	memberRepo     portfolio.MemberRepository
	portfolioRepo  portfolio.PortfolioRepository
	config         InvitationConfig
	metrics        InvitationMetrics
	logger         *zap.Logger
	now            func() time.Time
}

// NewInvitationService creates a new InvitationService
func NewInvitationService(
	invitationRepo portfolio.InvitationRepository,
	memberRepo portfolio.MemberRepository,
	portfolioRepo portfolio.PortfolioRepository,
	config InvitationConfig,
	logger *zap.Logger,
) *InvitationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvitationService{
		invitationRepo: invitationRepo,
		memberRepo:     memberRepo,
		portfolioRepo:  portfolioRepo,
		config:         config,
		logger:         logger,
		now:            time.Now,
	}
}

// SetMetrics attaches a metrics recorder
func (s *InvitationService) SetMetrics(m InvitationMetrics) {
	s.metrics = m
}

// SetClock replaces the time source
func (s *InvitationService) SetClock(now func() time.Time) {
	s.now = now
}

// Issue creates an invitation and returns its plaintext token once. A pending
// invitation for the same email is revoked first.
func (s *InvitationService) Issue(ctx context.Context, portfolioID uuid.UUID, invitedBy string, req CreateInvitationRequest) (*IssuedInvitationResponse, error) {
	ttl, err := s.ttl(req.TTLHours)
	if err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	members, err := s.memberRepo.FindAll(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		if m.Email == email {
			return nil, portfolio.ErrAlreadyMember
		}
	}

	now := s.now()
	pending, err := s.invitationRepo.FindPendingByEmail(ctx, portfolioID, email)
	if err != nil {
		return nil, err
	}
	for i := range pending {
		if err := pending[i].Revoke(now); err != nil {
			continue
		}
		if err := s.invitationRepo.Save(ctx, &pending[i]); err != nil {
			return nil, err
		}
	}

	inv, token, err := portfolio.NewInvitation(portfolioID, email, portfolio.Role(req.Role), invitedBy, now, ttl)
	if err != nil {
		return nil, err
	}
	if err := s.invitationRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordInvitationIssued(ctx, portfolioID)
	}

	return &IssuedInvitationResponse{
		Invitation: ToInvitationResponse(inv),
		Token:      token,
		AcceptURL:  s.acceptURL(token),
	}, nil
}

// List lists a portfolio's invitations
func (s *InvitationService) List(ctx context.Context, portfolioID uuid.UUID, filter ListInvitationsFilter) ([]InvitationResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Search:   filter.Search,
	}.Normalize()
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	invitations, err := s.invitationRepo.FindAllForTenant(ctx, portfolioID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.invitationRepo.CountForTenant(ctx, portfolioID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]InvitationResponse, 0, len(invitations))
	for i := range invitations {
		responses = append(responses, ToInvitationResponse(&invitations[i]))
	}
	return responses, total, nil
}

// Revoke cancels a pending invitation
func (s *InvitationService) Revoke(ctx context.Context, portfolioID, invitationID uuid.UUID) (*InvitationResponse, error) {
	inv, err := s.invitationRepo.FindByIDForTenant(ctx, portfolioID, invitationID)
	if err != nil {
		return nil, err
	}
	if err := inv.Revoke(s.now()); err != nil {
		return nil, err
	}
	if err := s.invitationRepo.Save(ctx, inv); err != nil {
		return nil, err
	}
	response := ToInvitationResponse(inv)
	return &response, nil
}

// Validate checks a token without consuming it
func (s *InvitationService) Validate(ctx context.Context, token string) (*InvitationPreviewResponse, error) {
	inv, err := s.lookup(ctx, token)
	if err != nil {
		return nil, err
	}

	p, err := s.portfolioRepo.FindByID(ctx, inv.PortfolioID)
	if err != nil {
		return nil, err
	}
	return &InvitationPreviewResponse{
		PortfolioID:   p.ID,
		PortfolioName: p.Name,
		Email:         inv.Email,
		Role:          string(inv.Role),
		ExpiresAt:     inv.ExpiresAt,
	}, nil
}

// Accept redeems a token for userID. Of several concurrent accepts of the
// same token exactly one succeeds.
func (s *InvitationService) Accept(ctx context.Context, token, userID, email string) (*MemberResponse, error) {
	inv, err := s.lookup(ctx, token)
	if err != nil {
		return nil, err
	}

	if _, err := s.memberRepo.Find(ctx, inv.PortfolioID, userID); err == nil {
		return nil, portfolio.ErrAlreadyMember
	} else if !errors.Is(err, portfolio.ErrMemberNotFound) {
		return nil, err
	}

	if err := inv.Accept(userID, s.now()); err != nil {
		return nil, err
	}
	if email == "" {
		email = inv.Email
	}
	member, err := portfolio.NewMember(inv.PortfolioID, userID, email, inv.Role)
	if err != nil {
		return nil, err
	}

	if err := s.invitationRepo.AcceptWithMember(ctx, inv, member); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordInvitationAccepted(ctx, inv.PortfolioID)
	}
	s.logger.Info("Invitation accepted",
		zap.String("invitation_id", inv.ID.String()),
		zap.String("portfolio_id", inv.PortfolioID.String()),
		zap.String("user_id", userID),
	)

	response := ToMemberResponse(member)
	return &response, nil
}

// ExpireStale marks lapsed pending invitations expired
func (s *InvitationService) ExpireStale(ctx context.Context) (int64, error) {
	return s.invitationRepo.ExpirePending(ctx, s.now())
}

// lookup finds a usable invitation by token. A lapsed pending invitation is
// marked expired on the way out.
func (s *InvitationService) lookup(ctx context.Context, token string) (*portfolio.Invitation, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, portfolio.ErrInvitationNotFound
	}
	inv, err := s.invitationRepo.FindByTokenHash(ctx, portfolio.HashToken(token))
	if err != nil {
		return nil, err
	}

	if err := inv.Validate(s.now()); err != nil {
		if errors.Is(err, portfolio.ErrInvitationExpired) && inv.Status == portfolio.InvitationStatusPending {
			inv.MarkExpired()
			if saveErr := s.invitationRepo.Save(ctx, inv); saveErr != nil {
				s.logger.Warn("Failed to mark invitation expired",
					zap.String("invitation_id", inv.ID.String()),
					zap.Error(saveErr),
				)
			}
		}
		return nil, err
	}
	return inv, nil
}

func (s *InvitationService) ttl(hours *int) (time.Duration, error) {
	if hours == nil {
		return s.config.DefaultTTL, nil
	}
	ttl := time.Duration(*hours) * time.Hour
	if ttl < s.config.MinTTL || ttl > s.config.MaxTTL {
		return 0, shared.NewDomainErrorf("INVALID_TTL", "Invitation lifetime must be between %s and %s",
			s.config.MinTTL, s.config.MaxTTL)
	}
	return ttl, nil
}

func (s *InvitationService) acceptURL(token string) string {
	if s.config.AcceptBaseURL == "" {
		return ""
	}
	return strings.TrimRight(s.config.AcceptBaseURL, "/") + "/invitations/accept?token=" + url.QueryEscape(token)
}
