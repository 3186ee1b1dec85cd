package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/record"
	"github.com/keystone/backend/internal/domain/shared"
	"github.com/keystone/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCommunicationRepository implements CommunicationRepository using GORM
type GormCommunicationRepository struct {
	db *gorm.DB
}

// NewGormCommunicationRepository creates a new GormCommunicationRepository
func NewGormCommunicationRepository(db *gorm.DB) *GormCommunicationRepository {
	return &GormCommunicationRepository{db: db}
}

// FindByIDForTenant finds a communication of a portfolio
func (r *GormCommunicationRepository) FindByIDForTenant(ctx context.Context, portfolioID, id uuid.UUID) (*record.Communication, error) {
	var model models.CommunicationModel
	if err := r.db.WithContext(ctx).
		Scopes(forPortfolio(portfolioID)).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, record.ErrCommunicationNotFound)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists the communications of a portfolio
func (r *GormCommunicationRepository) FindAllForTenant(ctx context.Context, portfolioID uuid.UUID, filter shared.Filter) ([]record.Communication, error) {
	var communicationModels []models.CommunicationModel
	if err := r.filtered(ctx, portfolioID, filter).
		Scopes(orderBy(filter, CommunicationSortFields, "occurred_at"), paginate(filter)).
		Find(&communicationModels).Error; err != nil {
		return nil, err
	}

	out := make([]record.Communication, len(communicationModels))
	for i, model := range communicationModels {
		out[i] = *model.ToDomain()
	}
	return out, nil
}

// CountForTenant counts the communications of a portfolio
func (r *GormCommunicationRepository) CountForTenant(ctx context.Context, portfolioID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.filtered(ctx, portfolioID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormCommunicationRepository) filtered(ctx context.Context, portfolioID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.CommunicationModel{}).
		Scopes(forPortfolio(portfolioID), search(filter.Search, "subject", "counterparty", "body"))

	for key, value := range filter.Filters {
		switch key {
		case "property_id":
			query = query.Where("property_id = ?", value)
		case "channel":
			query = query.Where("channel = ?", value)
		case "direction":
			query = query.Where("direction = ?", value)
		case "occurred_from":
			query = query.Where("occurred_at >= ?", value)
		case "occurred_to":
			query = query.Where("occurred_at <= ?", value)
		}
	}
	return query
}

// Save inserts or updates a communication with optimistic locking
func (r *GormCommunicationRepository) Save(ctx context.Context, c *record.Communication) error {
	return saveVersioned(r.db.WithContext(ctx), models.CommunicationModelFromDomain(c), c.Version, tenantImmutable...)
}

// DeleteForTenant deletes a communication of a portfolio
func (r *GormCommunicationRepository) DeleteForTenant(ctx context.Context, portfolioID, id uuid.UUID) error {
	return deleteForTenant(r.db.WithContext(ctx), &models.CommunicationModel{}, portfolioID, id, record.ErrCommunicationNotFound)
}

// GormDecisionRepository implements DecisionRepository using GORM
type GormDecisionRepository struct {
	db *gorm.DB
}

// NewGormDecisionRepository creates a new GormDecisionRepository
func NewGormDecisionRepository(db *gorm.DB) *GormDecisionRepository {
	return &GormDecisionRepository{db: db}
}

// FindByIDForTenant finds a decision of a portfolio
func (r *GormDecisionRepository) FindByIDForTenant(ctx context.Context, portfolioID, id uuid.UUID) (*record.Decision, error) {
	var model models.DecisionModel
	if err := r.db.WithContext(ctx).
		Scopes(forPortfolio(portfolioID)).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, record.ErrDecisionNotFound)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists the decisions of a portfolio
func (r *GormDecisionRepository) FindAllForTenant(ctx context.Context, portfolioID uuid.UUID, filter shared.Filter) ([]record.Decision, error) {
	var decisionModels []models.DecisionModel
	if err := r.filtered(ctx, portfolioID, filter).
		Scopes(orderBy(filter, DecisionSortFields, "created_at"), paginate(filter)).
		Find(&decisionModels).Error; err != nil {
		return nil, err
	}

	out := make([]record.Decision, len(decisionModels))
	for i, model := range decisionModels {
		out[i] = *model.ToDomain()
	}
	return out, nil
}

// CountForTenant counts the decisions of a portfolio
func (r *GormDecisionRepository) CountForTenant(ctx context.Context, portfolioID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.filtered(ctx, portfolioID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormDecisionRepository) filtered(ctx context.Context, portfolioID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.DecisionModel{}).
		Scopes(forPortfolio(portfolioID), search(filter.Search, "title", "context", "outcome"))

	for key, value := range filter.Filters {
		switch key {
		case "property_id":
			query = query.Where("property_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}
	return query
}

// Save inserts or updates a decision with optimistic locking
func (r *GormDecisionRepository) Save(ctx context.Context, d *record.Decision) error {
	return saveVersioned(r.db.WithContext(ctx), models.DecisionModelFromDomain(d), d.Version, tenantImmutable...)
}

// DeleteForTenant deletes a decision of a portfolio
func (r *GormDecisionRepository) DeleteForTenant(ctx context.Context, portfolioID, id uuid.UUID) error {
	return deleteForTenant(r.db.WithContext(ctx), &models.DecisionModel{}, portfolioID, id, record.ErrDecisionNotFound)
}

// GormRegistryRepository implements RegistryRepository using GORM
type GormRegistryRepository struct {
	db *gorm.DB
}

// NewGormRegistryRepository creates a new GormRegistryRepository
func NewGormRegistryRepository(db *gorm.DB) *GormRegistryRepository {
	return &GormRegistryRepository{db: db}
}

// FindByIDForTenant finds a registry item of a portfolio
func (r *GormRegistryRepository) FindByIDForTenant(ctx context.Context, portfolioID, id uuid.UUID) (*record.RegistryItem, error) {
	var model models.RegistryItemModel
	if err := r.db.WithContext(ctx).
		Scopes(forPortfolio(portfolioID)).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, record.ErrRegistryItemNotFound)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists the registry items of a portfolio
func (r *GormRegistryRepository) FindAllForTenant(ctx context.Context, portfolioID uuid.UUID, filter shared.Filter) ([]record.RegistryItem, error) {
	var itemModels []models.RegistryItemModel
	if err := r.filtered(ctx, portfolioID, filter).
		Scopes(orderBy(filter, RegistrySortFields, "name"), paginate(filter)).
		Find(&itemModels).Error; err != nil {
		return nil, err
	}

	out := make([]record.RegistryItem, len(itemModels))
	for i, model := range itemModels {
		out[i] = *model.ToDomain()
	}
	return out, nil
}

// CountForTenant counts the registry items of a portfolio
func (r *GormRegistryRepository) CountForTenant(ctx context.Context, portfolioID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.filtered(ctx, portfolioID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// filtered applies the filters; the expiry window is [expires_after, expires_before)
func (r *GormRegistryRepository) filtered(ctx context.Context, portfolioID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.RegistryItemModel{}).
		Scopes(forPortfolio(portfolioID), search(filter.Search, "name", "provider", "reference_number"))

	for key, value := range filter.Filters {
		switch key {
		case "property_id":
			query = query.Where("property_id = ?", value)
		case "category":
			query = query.Where("category = ?", value)
		case "expires_after":
			query = query.Where("expires_on >= ?", value)
		case "expires_before":
			query = query.Where("expires_on < ?", value)
		}
	}
	return query
}

// Save inserts or updates a registry item with optimistic locking
func (r *GormRegistryRepository) Save(ctx context.Context, item *record.RegistryItem) error {
	return saveVersioned(r.db.WithContext(ctx), models.RegistryItemModelFromDomain(item), item.Version, tenantImmutable...)
}

// DeleteForTenant deletes a registry item of a portfolio
func (r *GormRegistryRepository) DeleteForTenant(ctx context.Context, portfolioID, id uuid.UUID) error {
	return deleteForTenant(r.db.WithContext(ctx), &models.RegistryItemModel{}, portfolioID, id, record.ErrRegistryItemNotFound)
}

func deleteForTenant(db *gorm.DB, model any, portfolioID, id uuid.UUID, notFoundErr error) error {
	result := db.Scopes(forPortfolio(portfolioID)).Delete(model, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFoundErr
	}
	return nil
}

// Ensure the GORM repositories implement the record interfaces
var (
	_ record.CommunicationRepository = (*GormCommunicationRepository)(nil)
	_ record.DecisionRepository      = (*GormDecisionRepository)(nil)
	_ record.RegistryRepository      = (*GormRegistryRepository)(nil)
)
