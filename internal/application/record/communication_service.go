package record

import (
	"context"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/record"
	"github.com/keystone/backend/internal/domain/shared"
)

// PropertyChecker verifies that a property belongs to a portfolio
type PropertyChecker interface {
	EnsureExists(ctx context.Context, portfolioID uuid.UUID, propertyID *uuid.UUID) error
}

// CommunicationService handles the communication log of a portfolio
type CommunicationService struct {
	repo       record.CommunicationRepository
	properties PropertyChecker
}

// NewCommunicationService creates a new CommunicationService
func NewCommunicationService(repo record.CommunicationRepository, properties PropertyChecker) *CommunicationService {
	return &CommunicationService{repo: repo, properties: properties}
}

// Create logs a communication
func (s *CommunicationService) Create(ctx context.Context, portfolioID uuid.UUID, createdBy string, req CommunicationRequest) (*CommunicationResponse, error) {
	if err := s.properties.EnsureExists(ctx, portfolioID, req.PropertyID); err != nil {
		return nil, err
	}
	c, err := record.NewCommunication(portfolioID, createdBy, req.toInput())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	response := ToCommunicationResponse(c)
	return &response, nil
}

// GetByID retrieves a communication
func (s *CommunicationService) GetByID(ctx context.Context, portfolioID, id uuid.UUID) (*CommunicationResponse, error) {
	c, err := s.repo.FindByIDForTenant(ctx, portfolioID, id)
	if err != nil {
		return nil, err
	}
	response := ToCommunicationResponse(c)
	return &response, nil
}

// List retrieves communications, newest first by default
func (s *CommunicationService) List(ctx context.Context, portfolioID uuid.UUID, filter ListCommunicationsFilter) ([]CommunicationResponse, int64, error) {
	domainFilter := listFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search, "occurred_at", "desc")
	if filter.PropertyID != "" {
		domainFilter.Filters["property_id"] = filter.PropertyID
	}
	if filter.Channel != "" {
		domainFilter.Filters["channel"] = filter.Channel
	}
	if filter.Direction != "" {
		domainFilter.Filters["direction"] = filter.Direction
	}
	if !filter.OccurredFrom.IsZero() {
		domainFilter.Filters["occurred_from"] = filter.OccurredFrom.UTC()
	}
	if !filter.OccurredTo.IsZero() {
		domainFilter.Filters["occurred_to"] = filter.OccurredTo.UTC()
	}

	items, err := s.repo.FindAllForTenant(ctx, portfolioID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountForTenant(ctx, portfolioID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]CommunicationResponse, 0, len(items))
	for i := range items {
		responses = append(responses, ToCommunicationResponse(&items[i]))
	}
	return responses, total, nil
}

// Update replaces a communication
func (s *CommunicationService) Update(ctx context.Context, portfolioID, id uuid.UUID, req CommunicationRequest) (*CommunicationResponse, error) {
	c, err := s.repo.FindByIDForTenant(ctx, portfolioID, id)
	if err != nil {
		return nil, err
	}
	if err := s.properties.EnsureExists(ctx, portfolioID, req.PropertyID); err != nil {
		return nil, err
	}
	if err := c.Update(req.toInput()); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	response := ToCommunicationResponse(c)
	return &response, nil
}

// Delete removes a communication
func (s *CommunicationService) Delete(ctx context.Context, portfolioID, id uuid.UUID) error {
	return s.repo.DeleteForTenant(ctx, portfolioID, id)
}

func listFilter(page, pageSize int, orderBy, orderDir, search, defaultOrder, defaultDir string) shared.Filter {
	if orderBy == "" {
		orderBy = defaultOrder
	}
	if orderDir == "" {
		orderDir = defaultDir
	}
	return shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  orderBy,
		OrderDir: orderDir,
		Search:   search,
	}.Normalize()
}
