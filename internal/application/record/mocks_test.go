package record

import (
	"context"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockTenantRepository is a mock implementation of the portfolio-scoped repositories
type MockTenantRepository[T any] struct {
	mock.Mock
}

func (m *MockTenantRepository[T]) FindByIDForTenant(ctx context.Context, portfolioID, id uuid.UUID) (*T, error) {
	args := m.Called(ctx, portfolioID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockTenantRepository[T]) FindAllForTenant(ctx context.Context, portfolioID uuid.UUID, filter shared.Filter) ([]T, error) {
	args := m.Called(ctx, portfolioID, filter)
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockTenantRepository[T]) CountForTenant(ctx context.Context, portfolioID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, portfolioID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTenantRepository[T]) Save(ctx context.Context, entity *T) error {
	return m.Called(ctx, entity).Error(0)
}

func (m *MockTenantRepository[T]) DeleteForTenant(ctx context.Context, portfolioID, id uuid.UUID) error {
	return m.Called(ctx, portfolioID, id).Error(0)
}

// MockPropertyChecker is a mock implementation of PropertyChecker
type MockPropertyChecker struct {
	mock.Mock
}

func (m *MockPropertyChecker) EnsureExists(ctx context.Context, portfolioID uuid.UUID, propertyID *uuid.UUID) error {
	return m.Called(ctx, portfolioID, propertyID).Error(0)
}
