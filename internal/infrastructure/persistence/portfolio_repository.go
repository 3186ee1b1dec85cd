package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/portfolio"
	"github.com/keystone/backend/internal/domain/shared"
	"github.com/keystone/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPortfolioRepository implements PortfolioRepository using GORM
type GormPortfolioRepository struct {
	db *gorm.DB
}

// NewGormPortfolioRepository creates a new GormPortfolioRepository
func NewGormPortfolioRepository(db *gorm.DB) *GormPortfolioRepository {
	return &GormPortfolioRepository{db: db}
}

// FindByID finds a portfolio by its ID
func (r *GormPortfolioRepository) FindByID(ctx context.Context, id uuid.UUID) (*portfolio.Portfolio, error) {
	var model models.PortfolioModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, portfolio.ErrPortfolioNotFound)
	}
	return model.ToDomain(), nil
}

// FindAllForUser finds the portfolios userID is a member of
func (r *GormPortfolioRepository) FindAllForUser(ctx context.Context, userID string, filter shared.Filter) ([]portfolio.Portfolio, error) {
	var portfolioModels []models.PortfolioModel
	err := r.forUser(ctx, userID, filter).
		Scopes(orderBy(filter, PortfolioSortFields, "created_at"), paginate(filter)).
		Find(&portfolioModels).Error
	if err != nil {
		return nil, err
	}

	portfolios := make([]portfolio.Portfolio, len(portfolioModels))
	for i, model := range portfolioModels {
		portfolios[i] = *model.ToDomain()
	}
	return portfolios, nil
}

// CountForUser counts the portfolios userID is a member of
func (r *GormPortfolioRepository) CountForUser(ctx context.Context, userID string, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.forUser(ctx, userID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormPortfolioRepository) forUser(ctx context.Context, userID string, filter shared.Filter) *gorm.DB {
	memberships := r.db.Model(&models.MemberModel{}).Select("portfolio_id").Where("user_id = ?", userID)
	return r.db.WithContext(ctx).Model(&models.PortfolioModel{}).
		Where("id IN (?)", memberships).
		Scopes(search(filter.Search, "name", "description"))
}

// Save updates a portfolio with optimistic locking
func (r *GormPortfolioRepository) Save(ctx context.Context, p *portfolio.Portfolio) error {
	return saveVersioned(r.db.WithContext(ctx), models.PortfolioModelFromDomain(p), p.Version, "owner_id")
}

// Create stores a new portfolio with its owner membership
func (r *GormPortfolioRepository) Create(ctx context.Context, p *portfolio.Portfolio, owner *portfolio.Member) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(models.PortfolioModelFromDomain(p)).Error; err != nil {
			return err
		}
		return tx.Create(models.MemberModelFromDomain(owner)).Error
	})
}

// Delete removes the portfolio and every row scoped to it
func (r *GormPortfolioRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scoped := []any{
			&models.DocumentModel{},
			&models.CommunicationModel{},
			&models.DecisionModel{},
			&models.RegistryItemModel{},
			&models.PropertyModel{},
			&models.InvitationModel{},
			&models.MemberModel{},
		}
		for _, m := range scoped {
			if err := tx.Where("portfolio_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		result := tx.Delete(&models.PortfolioModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return portfolio.ErrPortfolioNotFound
		}
		return nil
	})
}

// GormMemberRepository implements MemberRepository using GORM
type GormMemberRepository struct {
	db *gorm.DB
}

// NewGormMemberRepository creates a new GormMemberRepository
func NewGormMemberRepository(db *gorm.DB) *GormMemberRepository {
	return &GormMemberRepository{db: db}
}

// Find finds the membership of userID in a portfolio
func (r *GormMemberRepository) Find(ctx context.Context, portfolioID uuid.UUID, userID string) (*portfolio.Member, error) {
	var model models.MemberModel
	if err := r.db.WithContext(ctx).
		Where("portfolio_id = ? AND user_id = ?", portfolioID, userID).
		First(&model).Error; err != nil {
		return nil, notFound(err, portfolio.ErrMemberNotFound)
	}
	return model.ToDomain(), nil
}

// FindAll lists the members of a portfolio in joining order
func (r *GormMemberRepository) FindAll(ctx context.Context, portfolioID uuid.UUID) ([]portfolio.Member, error) {
	var memberModels []models.MemberModel
	if err := r.db.WithContext(ctx).
		Where("portfolio_id = ?", portfolioID).
		Order("joined_at ASC").
		Find(&memberModels).Error; err != nil {
		return nil, err
	}

	members := make([]portfolio.Member, len(memberModels))
	for i, model := range memberModels {
		members[i] = *model.ToDomain()
	}
	return members, nil
}

// CountByRole counts the members holding a role
func (r *GormMemberRepository) CountByRole(ctx context.Context, portfolioID uuid.UUID, role portfolio.Role) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.MemberModel{}).
		Where("portfolio_id = ? AND role = ?", portfolioID, role).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save updates the role of an existing membership
func (r *GormMemberRepository) Save(ctx context.Context, m *portfolio.Member) error {
	result := r.db.WithContext(ctx).Model(&models.MemberModel{}).
		Where("portfolio_id = ? AND user_id = ?", m.PortfolioID, m.UserID).
		Updates(map[string]any{
			"role":       m.Role,
			"email":      m.Email,
			"updated_at": m.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return portfolio.ErrMemberNotFound
	}
	return nil
}

// Delete removes a membership
func (r *GormMemberRepository) Delete(ctx context.Context, portfolioID uuid.UUID, userID string) error {
	result := r.db.WithContext(ctx).
		Delete(&models.MemberModel{}, "portfolio_id = ? AND user_id = ?", portfolioID, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return portfolio.ErrMemberNotFound
	}
	return nil
}

// GormInvitationRepository implements InvitationRepository using GORM
type GormInvitationRepository struct {
	db *gorm.DB
}

// NewGormInvitationRepository creates a new GormInvitationRepository
func NewGormInvitationRepository(db *gorm.DB) *GormInvitationRepository {
	return &GormInvitationRepository{db: db}
}

// FindByIDForTenant finds an invitation of a portfolio
func (r *GormInvitationRepository) FindByIDForTenant(ctx context.Context, portfolioID, id uuid.UUID) (*portfolio.Invitation, error) {
	var model models.InvitationModel
	if err := r.db.WithContext(ctx).
		Scopes(forPortfolio(portfolioID)).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, portfolio.ErrInvitationNotFound)
	}
	return model.ToDomain(), nil
}

// FindByTokenHash finds the invitation a token was issued for
func (r *GormInvitationRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*portfolio.Invitation, error) {
	var model models.InvitationModel
	if err := r.db.WithContext(ctx).First(&model, "token_hash = ?", tokenHash).Error; err != nil {
		return nil, notFound(err, portfolio.ErrInvitationNotFound)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists the invitations of a portfolio
func (r *GormInvitationRepository) FindAllForTenant(ctx context.Context, portfolioID uuid.UUID, filter shared.Filter) ([]portfolio.Invitation, error) {
	var invitationModels []models.InvitationModel
	if err := r.filtered(ctx, portfolioID, filter).
		Scopes(orderBy(filter, InvitationSortFields, "created_at"), paginate(filter)).
		Find(&invitationModels).Error; err != nil {
		return nil, err
	}
	return invitationsToDomain(invitationModels), nil
}

// CountForTenant counts the invitations of a portfolio
func (r *GormInvitationRepository) CountForTenant(ctx context.Context, portfolioID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.filtered(ctx, portfolioID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormInvitationRepository) filtered(ctx context.Context, portfolioID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.InvitationModel{}).
		Scopes(forPortfolio(portfolioID), search(filter.Search, "email"))
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	return query
}

// FindPendingByEmail finds the pending invitations for an address
func (r *GormInvitationRepository) FindPendingByEmail(ctx context.Context, portfolioID uuid.UUID, email string) ([]portfolio.Invitation, error) {
	var invitationModels []models.InvitationModel
	if err := r.db.WithContext(ctx).
		Scopes(forPortfolio(portfolioID)).
		Where("email = ? AND status = ?", email, portfolio.InvitationStatusPending).
		Find(&invitationModels).Error; err != nil {
		return nil, err
	}
	return invitationsToDomain(invitationModels), nil
}

// Save inserts or updates an invitation with optimistic locking
func (r *GormInvitationRepository) Save(ctx context.Context, inv *portfolio.Invitation) error {
	return saveVersioned(r.db.WithContext(ctx), models.InvitationModelFromDomain(inv), inv.Version,
		"portfolio_id", "created_by", "token_hash")
}

// AcceptWithMember flips a pending invitation to accepted and inserts the
// membership in one transaction
func (r *GormInvitationRepository) AcceptWithMember(ctx context.Context, inv *portfolio.Invitation, member *portfolio.Member) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.InvitationModel{}).
			Where("id = ? AND status = ?", inv.ID, portfolio.InvitationStatusPending).
			Updates(map[string]any{
				"status":      inv.Status,
				"accepted_by": inv.AcceptedBy,
				"accepted_at": inv.AcceptedAt,
				"version":     inv.Version,
				"updated_at":  inv.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return portfolio.ErrInvitationAlreadyUsed
		}
		if err := tx.Create(models.MemberModelFromDomain(member)).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return portfolio.ErrAlreadyMember
			}
			return err
		}
		return nil
	})
}

// ExpirePending marks lapsed pending invitations expired
func (r *GormInvitationRepository) ExpirePending(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.InvitationModel{}).
		Where("status = ? AND expires_at <= ?", portfolio.InvitationStatusPending, now).
		Updates(map[string]any{
			"status":     portfolio.InvitationStatusExpired,
			"version":    gorm.Expr("version + 1"),
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}

func invitationsToDomain(in []models.InvitationModel) []portfolio.Invitation {
	out := make([]portfolio.Invitation, len(in))
	for i, model := range in {
		out[i] = *model.ToDomain()
	}
	return out
}

// Ensure the GORM repositories implement the portfolio interfaces
var (
	_ portfolio.PortfolioRepository  = (*GormPortfolioRepository)(nil)
	_ portfolio.MemberRepository     = (*GormMemberRepository)(nil)
	_ portfolio.InvitationRepository = (*GormInvitationRepository)(nil)
)
