package record

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/record"
)

// RegistryService handles the registry of appliances, warranties, policies and keys
type RegistryService struct {
	repo       record.RegistryRepository
	properties PropertyChecker
	now        func() time.Time
}

// NewRegistryService creates a new RegistryService
func NewRegistryService(repo record.RegistryRepository, properties PropertyChecker) *RegistryService {
	return &RegistryService{repo: repo, properties: properties, now: time.Now}
}

// Create adds a registry item
func (s *RegistryService) Create(ctx context.Context, portfolioID uuid.UUID, createdBy string, req RegistryItemRequest) (*RegistryItemResponse, error) {
	if err := s.properties.EnsureExists(ctx, portfolioID, req.PropertyID); err != nil {
		return nil, err
	}
	item, err := record.NewRegistryItem(portfolioID, createdBy, req.toInput())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, item); err != nil {
		return nil, err
	}
	response := ToRegistryItemResponse(item)
	return &response, nil
}

// GetByID retrieves a registry item
func (s *RegistryService) GetByID(ctx context.Context, portfolioID, id uuid.UUID) (*RegistryItemResponse, error) {
	item, err := s.repo.FindByIDForTenant(ctx, portfolioID, id)
	if err != nil {
		return nil, err
	}
	response := ToRegistryItemResponse(item)
	return &response, nil
}

// List retrieves registry items. ExpiringWithinDays keeps only items that
// expire between today and today plus the given number of days.
func (s *RegistryService) List(ctx context.Context, portfolioID uuid.UUID, filter ListRegistryFilter) ([]RegistryItemResponse, int64, error) {
	domainFilter := listFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search, "name", "asc")
	if filter.PropertyID != "" {
		domainFilter.Filters["property_id"] = filter.PropertyID
	}
	if filter.Category != "" {
		domainFilter.Filters["category"] = filter.Category
	}
	if filter.ExpiringWithinDays != nil {
		today := startOfDay(s.now())
		domainFilter.Filters["expires_after"] = today
		domainFilter.Filters["expires_before"] = today.AddDate(0, 0, *filter.ExpiringWithinDays+1)
	}

	items, err := s.repo.FindAllForTenant(ctx, portfolioID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountForTenant(ctx, portfolioID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]RegistryItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, ToRegistryItemResponse(&items[i]))
	}
	return responses, total, nil
}

// Update replaces a registry item
func (s *RegistryService) Update(ctx context.Context, portfolioID, id uuid.UUID, req RegistryItemRequest) (*RegistryItemResponse, error) {
	item, err := s.repo.FindByIDForTenant(ctx, portfolioID, id)
	if err != nil {
		return nil, err
	}
	if err := s.properties.EnsureExists(ctx, portfolioID, req.PropertyID); err != nil {
		return nil, err
	}
	if err := item.Update(req.toInput()); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, item); err != nil {
		return nil, err
	}
	response := ToRegistryItemResponse(item)
	return &response, nil
}

// Delete removes a registry item
func (s *RegistryService) Delete(ctx context.Context, portfolioID, id uuid.UUID) error {
	return s.repo.DeleteForTenant(ctx, portfolioID, id)
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
