package property

import (
	"context"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/property"
	"github.com/keystone/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DashboardInvalidator drops cached portfolio dashboards after property writes
type DashboardInvalidator interface {
	Invalidate(ctx context.Context, portfolioID uuid.UUID)
}

// PropertyService handles property operations within a portfolio
type PropertyService struct {
	propertyRepo property.PropertyRepository
	dashboards   DashboardInvalidator
	logger       *zap.Logger
}

// NewPropertyService creates a new PropertyService
func NewPropertyService(propertyRepo property.PropertyRepository, dashboards DashboardInvalidator, logger *zap.Logger) *PropertyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PropertyService{
		propertyRepo: propertyRepo,
		dashboards:   dashboards,
		logger:       logger,
	}
}

// Create creates a new property
func (s *PropertyService) Create(ctx context.Context, portfolioID uuid.UUID, createdBy string, req CreatePropertyRequest) (*PropertyResponse, error) {
	p, err := property.NewProperty(portfolioID, createdBy, property.Details{
		Name:         req.Name,
		Address:      req.Address.toDomain(),
		Type:         property.PropertyType(req.Type),
		Status:       property.Status(req.Status),
		Units:        req.Units,
		PurchaseDate: req.PurchaseDate,
		Notes:        req.Notes,
	})
	if err != nil {
		return nil, err
	}

	if req.Financials != nil {
		f := req.Financials.ToDomain()
		if err := f.Validate(); err != nil {
			return nil, err
		}
		p.Financials = f
	}

	if err := s.propertyRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, portfolioID)

	response := ToPropertyResponse(p)
	return &response, nil
}

// GetByID retrieves a property
func (s *PropertyService) GetByID(ctx context.Context, portfolioID, propertyID uuid.UUID) (*PropertyResponse, error) {
	p, err := s.propertyRepo.FindByIDForTenant(ctx, portfolioID, propertyID)
	if err != nil {
		return nil, err
	}
	response := ToPropertyResponse(p)
	return &response, nil
}

// List retrieves properties with filtering and pagination
func (s *PropertyService) List(ctx context.Context, portfolioID uuid.UUID, filter ListPropertiesFilter) ([]PropertyResponse, int64, error) {
	if filter.OrderBy == "" {
		filter.OrderBy = "name"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}.Normalize()
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.City != "" {
		domainFilter.Filters["city"] = filter.City
	}

	properties, err := s.propertyRepo.FindAllForTenant(ctx, portfolioID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.propertyRepo.CountForTenant(ctx, portfolioID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PropertyResponse, 0, len(properties))
	for i := range properties {
		responses = append(responses, ToPropertyResponse(&properties[i]))
	}
	return responses, total, nil
}

// Update updates the descriptive fields of a property
func (s *PropertyService) Update(ctx context.Context, portfolioID, propertyID uuid.UUID, req UpdatePropertyRequest) (*PropertyResponse, error) {
	p, err := s.propertyRepo.FindByIDForTenant(ctx, portfolioID, propertyID)
	if err != nil {
		return nil, err
	}

	d := property.Details{
		Name:         p.Name,
		Address:      p.Address,
		Type:         p.Type,
		Status:       p.Status,
		Units:        p.Units,
		PurchaseDate: p.PurchaseDate,
		Notes:        p.Notes,
	}
	if req.Name != nil {
		d.Name = *req.Name
	}
	if req.Address != nil {
		d.Address = req.Address.toDomain()
	}
	if req.Type != nil {
		d.Type = property.PropertyType(*req.Type)
	}
	if req.Status != nil {
		d.Status = property.Status(*req.Status)
	}
	if req.Units != nil {
		d.Units = *req.Units
	}
	if req.PurchaseDate != nil {
		d.PurchaseDate = req.PurchaseDate
	}
	if req.Notes != nil {
		d.Notes = *req.Notes
	}

	if err := p.Update(d); err != nil {
		return nil, err
	}
	if err := s.propertyRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, portfolioID)

	response := ToPropertyResponse(p)
	return &response, nil
}

// GetFinancials returns a property's financials and derived figures
func (s *PropertyService) GetFinancials(ctx context.Context, portfolioID, propertyID uuid.UUID) (*FinancialsResponse, error) {
	p, err := s.propertyRepo.FindByIDForTenant(ctx, portfolioID, propertyID)
	if err != nil {
		return nil, err
	}
	response := ToFinancialsResponse(p)
	return &response, nil
}

// UpdateFinancials replaces a property's financials
func (s *PropertyService) UpdateFinancials(ctx context.Context, portfolioID, propertyID uuid.UUID, req FinancialsDTO) (*FinancialsResponse, error) {
	p, err := s.propertyRepo.FindByIDForTenant(ctx, portfolioID, propertyID)
	if err != nil {
		return nil, err
	}
	if err := p.UpdateFinancials(req.ToDomain()); err != nil {
		return nil, err
	}
	if err := s.propertyRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, portfolioID)

	response := ToFinancialsResponse(p)
	return &response, nil
}

// Delete deletes a property. Its documents and records stay in the
// portfolio with the property reference cleared.
func (s *PropertyService) Delete(ctx context.Context, portfolioID, propertyID uuid.UUID) error {
	if err := s.propertyRepo.DeleteForTenant(ctx, portfolioID, propertyID); err != nil {
		return err
	}
	s.invalidate(ctx, portfolioID)
	s.logger.Info("Property deleted",
		zap.String("portfolio_id", portfolioID.String()),
		zap.String("property_id", propertyID.String()),
	)
	return nil
}

// EnsureExists returns ErrPropertyNotFound unless the property is in the portfolio.
// A nil id is accepted.
func (s *PropertyService) EnsureExists(ctx context.Context, portfolioID uuid.UUID, propertyID *uuid.UUID) error {
	if propertyID == nil {
		return nil
	}
	ok, err := s.propertyRepo.ExistsForTenant(ctx, portfolioID, *propertyID)
	if err != nil {
		return err
	}
	if !ok {
		return property.ErrPropertyNotFound
	}
	return nil
}

func (s *PropertyService) invalidate(ctx context.Context, portfolioID uuid.UUID) {
	if s.dashboards == nil {
		return
	}
	s.dashboards.Invalidate(ctx, portfolioID)
}
