package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/property"
	"github.com/keystone/backend/internal/domain/shared"
	"github.com/keystone/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// tenantImmutable are columns never rewritten by an update
var tenantImmutable = []string{"portfolio_id", "created_by"}

// GormPropertyRepository implements PropertyRepository using GORM
type GormPropertyRepository struct {
	db *gorm.DB
}

// NewGormPropertyRepository creates a new GormPropertyRepository
func NewGormPropertyRepository(db *gorm.DB) *GormPropertyRepository {
	return &GormPropertyRepository{db: db}
}

// FindByIDForTenant finds a property of a portfolio
func (r *GormPropertyRepository) FindByIDForTenant(ctx context.Context, portfolioID, id uuid.UUID) (*property.Property, error) {
	var model models.PropertyModel
	if err := r.db.WithContext(ctx).
		Scopes(forPortfolio(portfolioID)).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, property.ErrPropertyNotFound)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists the properties of a portfolio
func (r *GormPropertyRepository) FindAllForTenant(ctx context.Context, portfolioID uuid.UUID, filter shared.Filter) ([]property.Property, error) {
	var propertyModels []models.PropertyModel
	if err := r.filtered(ctx, portfolioID, filter).
		Scopes(orderBy(filter, PropertySortFields, "created_at"), paginate(filter)).
		Find(&propertyModels).Error; err != nil {
		return nil, err
	}
	return propertiesToDomain(propertyModels), nil
}

// CountForTenant counts the properties of a portfolio
func (r *GormPropertyRepository) CountForTenant(ctx context.Context, portfolioID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.filtered(ctx, portfolioID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormPropertyRepository) filtered(ctx context.Context, portfolioID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.PropertyModel{}).
		Scopes(forPortfolio(portfolioID), search(filter.Search, "name", "address_line1", "city"))

	for key, value := range filter.Filters {
		switch key {
		case "type":
			query = query.Where("type = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "city":
			if city, ok := value.(string); ok {
				query = query.Where("LOWER(city) = ?", strings.ToLower(city))
			}
		}
	}
	return query
}

// FindAllHeld returns every property of the portfolio that is not sold
func (r *GormPropertyRepository) FindAllHeld(ctx context.Context, portfolioID uuid.UUID) ([]property.Property, error) {
	var propertyModels []models.PropertyModel
	if err := r.db.WithContext(ctx).
		Scopes(forPortfolio(portfolioID)).
		Where("status <> ?", property.StatusSold).
		Order("name ASC").
		Find(&propertyModels).Error; err != nil {
		return nil, err
	}
	return propertiesToDomain(propertyModels), nil
}

// ExistsForTenant reports whether the property belongs to the portfolio
func (r *GormPropertyRepository) ExistsForTenant(ctx context.Context, portfolioID, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.PropertyModel{}).
		Scopes(forPortfolio(portfolioID)).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save inserts or updates a property with optimistic locking
func (r *GormPropertyRepository) Save(ctx context.Context, p *property.Property) error {
	return saveVersioned(r.db.WithContext(ctx), models.PropertyModelFromDomain(p), p.Version, tenantImmutable...)
}

// DeleteForTenant deletes a property. Documents and records that referenced
// it stay in the portfolio with their property cleared.
func (r *GormPropertyRepository) DeleteForTenant(ctx context.Context, portfolioID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		referencing := []any{
			&models.DocumentModel{},
			&models.CommunicationModel{},
			&models.DecisionModel{},
			&models.RegistryItemModel{},
		}
		for _, m := range referencing {
			if err := detachProperty(tx, m, portfolioID, id); err != nil {
				return err
			}
		}

		result := tx.Scopes(forPortfolio(portfolioID)).Delete(&models.PropertyModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return property.ErrPropertyNotFound
		}
		return nil
	})
}

func detachProperty(db *gorm.DB, model any, portfolioID, propertyID uuid.UUID) error {
	return db.Model(model).
		Scopes(forPortfolio(portfolioID)).
		Where("property_id = ?", propertyID).
		Update("property_id", nil).Error
}

func propertiesToDomain(in []models.PropertyModel) []property.Property {
	out := make([]property.Property, len(in))
	for i, model := range in {
		out[i] = *model.ToDomain()
	}
	return out
}

// Ensure GormPropertyRepository implements PropertyRepository
var _ property.PropertyRepository = (*GormPropertyRepository)(nil)
