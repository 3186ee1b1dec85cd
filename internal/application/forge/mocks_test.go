package forge

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/forge"
	"github.com/keystone/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockTicketRepository is a mock implementation of TicketRepository
type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) FindByID(ctx context.Context, id uuid.UUID) (*forge.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*forge.Ticket), args.Error(1)
}

func (m *MockTicketRepository) FindByKey(ctx context.Context, key string) (*forge.Ticket, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*forge.Ticket), args.Error(1)
}

func (m *MockTicketRepository) FindAll(ctx context.Context, filter shared.Filter) ([]forge.Ticket, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]forge.Ticket), args.Error(1)
}

func (m *MockTicketRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTicketRepository) FindBoard(ctx context.Context) ([]forge.Ticket, error) {
	args := m.Called(ctx)
	return args.Get(0).([]forge.Ticket), args.Error(1)
}

func (m *MockTicketRepository) LastPosition(ctx context.Context, status forge.TicketStatus) (float64, bool, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(float64), args.Bool(1), args.Error(2)
}

func (m *MockTicketRepository) Create(ctx context.Context, t *forge.Ticket, keyPrefix string) error {
	return m.Called(ctx, t, keyPrefix).Error(0)
}

func (m *MockTicketRepository) Save(ctx context.Context, t *forge.Ticket) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTicketRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockExecutionRepository is a mock implementation of ExecutionRepository
type MockExecutionRepository struct {
	mock.Mock
}

func (m *MockExecutionRepository) FindByID(ctx context.Context, id uuid.UUID) (*forge.Execution, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*forge.Execution), args.Error(1)
}

func (m *MockExecutionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]forge.Execution, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]forge.Execution), args.Error(1)
}

func (m *MockExecutionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockExecutionRepository) Create(ctx context.Context, e *forge.Execution) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockExecutionRepository) Finish(ctx context.Context, e *forge.Execution) error {
	return m.Called(ctx, e).Error(0)
}

// MockBudgetRepository is a mock implementation of BudgetRepository
type MockBudgetRepository struct {
	mock.Mock
}

func (m *MockBudgetRepository) FindByID(ctx context.Context, id uuid.UUID) (*forge.TokenBudget, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*forge.TokenBudget), args.Error(1)
}

func (m *MockBudgetRepository) FindByPeriod(ctx context.Context, period string) (*forge.TokenBudget, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*forge.TokenBudget), args.Error(1)
}

func (m *MockBudgetRepository) FindAll(ctx context.Context, filter shared.Filter) ([]forge.TokenBudget, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]forge.TokenBudget), args.Error(1)
}

func (m *MockBudgetRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBudgetRepository) Create(ctx context.Context, b *forge.TokenBudget) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBudgetRepository) Save(ctx context.Context, b *forge.TokenBudget) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBudgetRepository) AddUsage(ctx context.Context, period string, tokens int64, cost decimal.Decimal) error {
	return m.Called(ctx, period, tokens, cost).Error(0)
}

// MockRunnerKeyRepository is a mock implementation of RunnerKeyRepository
type MockRunnerKeyRepository struct {
	mock.Mock
}

func (m *MockRunnerKeyRepository) FindByID(ctx context.Context, id uuid.UUID) (*forge.RunnerKey, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*forge.RunnerKey), args.Error(1)
}

func (m *MockRunnerKeyRepository) FindByPrefix(ctx context.Context, prefix string) (*forge.RunnerKey, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*forge.RunnerKey), args.Error(1)
}

func (m *MockRunnerKeyRepository) FindAll(ctx context.Context) ([]forge.RunnerKey, error) {
	args := m.Called(ctx)
	return args.Get(0).([]forge.RunnerKey), args.Error(1)
}

func (m *MockRunnerKeyRepository) Create(ctx context.Context, k *forge.RunnerKey) error {
	return m.Called(ctx, k).Error(0)
}

func (m *MockRunnerKeyRepository) Save(ctx context.Context, k *forge.RunnerKey) error {
	return m.Called(ctx, k).Error(0)
}

func (m *MockRunnerKeyRepository) TouchLastUsed(ctx context.Context, id uuid.UUID, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}
