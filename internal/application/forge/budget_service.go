package forge

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/forge"
)

// BudgetService manages monthly token budgets
type BudgetService struct {
	budgets  forge.BudgetRepository
	defaults forge.BudgetLimits
	now      func() time.Time
}

// NewBudgetService creates a new BudgetService. defaults are used when the
// current month has no budget yet.
func NewBudgetService(budgets forge.BudgetRepository, defaults forge.BudgetLimits) *BudgetService {
	return &BudgetService{budgets: budgets, defaults: defaults, now: time.Now}
}

// Create adds a budget for a period, the current month when omitted
func (s *BudgetService) Create(ctx context.Context, req BudgetRequest) (*BudgetResponse, error) {
	period := req.Period
	if period == "" {
		period = forge.PeriodOf(s.now())
	}
	b, err := forge.NewTokenBudget(period, req.limits())
	if err != nil {
		return nil, err
	}
	if err := s.budgets.Create(ctx, b); err != nil {
		return nil, err
	}
	response := ToBudgetResponse(b)
	return &response, nil
}

// List retrieves budgets, newest period first
func (s *BudgetService) List(ctx context.Context, filter ListBudgetsFilter) ([]BudgetResponse, int64, error) {
	domainFilter := listFilter(filter.Page, filter.PageSize, "", "", "period", "desc")
	budgets, err := s.budgets.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.budgets.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]BudgetResponse, 0, len(budgets))
	for i := range budgets {
		responses = append(responses, ToBudgetResponse(&budgets[i]))
	}
	return responses, total, nil
}

// GetByID retrieves a budget
func (s *BudgetService) GetByID(ctx context.Context, id uuid.UUID) (*BudgetResponse, error) {
	b, err := s.budgets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToBudgetResponse(b)
	return &response, nil
}

// GetCurrent returns this month's budget, creating it from the defaults
func (s *BudgetService) GetCurrent(ctx context.Context) (*BudgetResponse, error) {
	b, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	response := ToBudgetResponse(b)
	return &response, nil
}

// Update replaces the limits of a budget
func (s *BudgetService) Update(ctx context.Context, id uuid.UUID, req BudgetRequest) (*BudgetResponse, error) {
	b, err := s.budgets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := b.UpdateLimits(req.limits()); err != nil {
		return nil, err
	}
	if err := s.budgets.Save(ctx, b); err != nil {
		return nil, err
	}
	response := ToBudgetResponse(b)
	return &response, nil
}

// current loads or lazily creates the budget of the current month. Two
// requests racing to create it both end up with the stored row.
func (s *BudgetService) current(ctx context.Context) (*forge.TokenBudget, error) {
	period := forge.PeriodOf(s.now())
	b, err := s.budgets.FindByPeriod(ctx, period)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, forge.ErrBudgetNotFound) {
		return nil, err
	}

	b, err = forge.NewTokenBudget(period, s.defaults)
	if err != nil {
		return nil, err
	}
	if err := s.budgets.Create(ctx, b); err != nil {
		if errors.Is(err, forge.ErrBudgetExists) {
			return s.budgets.FindByPeriod(ctx, period)
		}
		return nil, err
	}
	return b, nil
}

func (r BudgetRequest) limits() forge.BudgetLimits {
	return forge.BudgetLimits{
		TokenLimit:     r.TokenLimit,
		CostLimit:      r.CostLimit,
		AlertThreshold: r.AlertThreshold,
		HardLimit:      r.HardLimit,
	}
}
