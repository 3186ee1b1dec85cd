package record

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/record"
)

// DecisionService handles the decision journal of a portfolio
type DecisionService struct {
	repo       record.DecisionRepository
	properties PropertyChecker
	now        func() time.Time
}

// NewDecisionService creates a new DecisionService
func NewDecisionService(repo record.DecisionRepository, properties PropertyChecker) *DecisionService {
	return &DecisionService{repo: repo, properties: properties, now: time.Now}
}

// Create proposes a decision
func (s *DecisionService) Create(ctx context.Context, portfolioID uuid.UUID, createdBy string, req CreateDecisionRequest) (*DecisionResponse, error) {
	if err := s.properties.EnsureExists(ctx, portfolioID, req.PropertyID); err != nil {
		return nil, err
	}
	d, err := record.NewDecision(portfolioID, createdBy, req.PropertyID, req.Title, req.Context)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, d); err != nil {
		return nil, err
	}
	response := ToDecisionResponse(d)
	return &response, nil
}

// GetByID retrieves a decision
func (s *DecisionService) GetByID(ctx context.Context, portfolioID, id uuid.UUID) (*DecisionResponse, error) {
	d, err := s.repo.FindByIDForTenant(ctx, portfolioID, id)
	if err != nil {
		return nil, err
	}
	response := ToDecisionResponse(d)
	return &response, nil
}

// List retrieves decisions
func (s *DecisionService) List(ctx context.Context, portfolioID uuid.UUID, filter ListDecisionsFilter) ([]DecisionResponse, int64, error) {
	domainFilter := listFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search, "created_at", "desc")
	if filter.PropertyID != "" {
		domainFilter.Filters["property_id"] = filter.PropertyID
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	items, err := s.repo.FindAllForTenant(ctx, portfolioID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountForTenant(ctx, portfolioID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]DecisionResponse, 0, len(items))
	for i := range items {
		responses = append(responses, ToDecisionResponse(&items[i]))
	}
	return responses, total, nil
}

// Update edits the title, context or property of a decision
func (s *DecisionService) Update(ctx context.Context, portfolioID, id uuid.UUID, req UpdateDecisionRequest) (*DecisionResponse, error) {
	d, err := s.repo.FindByIDForTenant(ctx, portfolioID, id)
	if err != nil {
		return nil, err
	}

	propertyID, title, text := d.PropertyID, d.Title, d.Context
	if req.PropertyID != nil {
		if err := s.properties.EnsureExists(ctx, portfolioID, req.PropertyID); err != nil {
			return nil, err
		}
		propertyID = req.PropertyID
	}
	if req.Title != nil {
		title = *req.Title
	}
	if req.Context != nil {
		text = *req.Context
	}

	if err := d.Update(propertyID, title, text); err != nil {
		return nil, err
	}
	return s.save(ctx, d)
}

// Decide accepts a proposed decision
func (s *DecisionService) Decide(ctx context.Context, portfolioID, id uuid.UUID, userID string, req ResolveDecisionRequest) (*DecisionResponse, error) {
	return s.transition(ctx, portfolioID, id, func(d *record.Decision) error {
		return d.Decide(req.Outcome, userID, s.now())
	})
}

// Reject turns down a proposed decision
func (s *DecisionService) Reject(ctx context.Context, portfolioID, id uuid.UUID, userID string, req ResolveDecisionRequest) (*DecisionResponse, error) {
	return s.transition(ctx, portfolioID, id, func(d *record.Decision) error {
		return d.Reject(req.Outcome, userID, s.now())
	})
}

// Supersede retires a decided decision
func (s *DecisionService) Supersede(ctx context.Context, portfolioID, id uuid.UUID) (*DecisionResponse, error) {
	return s.transition(ctx, portfolioID, id, func(d *record.Decision) error {
		return d.Supersede()
	})
}

// Delete removes a decision
func (s *DecisionService) Delete(ctx context.Context, portfolioID, id uuid.UUID) error {
	return s.repo.DeleteForTenant(ctx, portfolioID, id)
}

func (s *DecisionService) transition(ctx context.Context, portfolioID, id uuid.UUID, apply func(*record.Decision) error) (*DecisionResponse, error) {
	d, err := s.repo.FindByIDForTenant(ctx, portfolioID, id)
	if err != nil {
		return nil, err
	}
	if err := apply(d); err != nil {
		return nil, err
	}
	return s.save(ctx, d)
}

func (s *DecisionService) save(ctx context.Context, d *record.Decision) (*DecisionResponse, error) {
	if err := s.repo.Save(ctx, d); err != nil {
		return nil, err
	}
	response := ToDecisionResponse(d)
	return &response, nil
}
