package forge

import (
	"context"
	"testing"
	"time"

	"github.com/keystone/backend/internal/domain/forge"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBudgetService_Create(t *testing.T) {
	repo := new(MockBudgetRepository)
	svc := NewBudgetService(repo, forge.BudgetLimits{TokenLimit: 100})
	svc.now = func() time.Time { return time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC) }

	t.Run("defaults to the current month", func(t *testing.T) {
		repo.On("Create", mock.Anything, mock.MatchedBy(func(b *forge.TokenBudget) bool { return b.Period == "2026-07" })).Return(nil).Once()
		resp, err := svc.Create(context.Background(), BudgetRequest{TokenLimit: 500})
		require.NoError(t, err)
		assert.Equal(t, "2026-07", resp.Period)
		assert.Equal(t, 80, resp.AlertThreshold)
		assert.Equal(t, int64(500), resp.TokensRemaining)
	})

	t.Run("duplicate period is reported", func(t *testing.T) {
		repo.On("Create", mock.Anything, mock.MatchedBy(func(b *forge.TokenBudget) bool { return b.Period == "2026-06" })).Return(forge.ErrBudgetExists).Once()
		_, err := svc.Create(context.Background(), BudgetRequest{Period: "2026-06", TokenLimit: 500})
		assert.ErrorIs(t, err, forge.ErrBudgetExists)
	})
}

func TestBudgetService_UpdateReportsUsage(t *testing.T) {
	repo := new(MockBudgetRepository)
	b, err := forge.NewTokenBudget("2026-07", forge.BudgetLimits{TokenLimit: 1000})
	require.NoError(t, err)
	b.TokensUsed = 850
	b.CostUsed = decimal.NewFromInt(3)
	repo.On("FindByID", mock.Anything, b.ID).Return(b, nil)
	repo.On("Save", mock.Anything, b).Return(nil)

	cost := decimal.NewFromInt(4)
	svc := NewBudgetService(repo, forge.BudgetLimits{TokenLimit: 100})
	resp, err := svc.Update(context.Background(), b.ID, BudgetRequest{TokenLimit: 2000, CostLimit: &cost, HardLimit: true})
	require.NoError(t, err)

	assert.Equal(t, int64(850), resp.TokensUsed)
	assert.Equal(t, 75.0, resp.Percent)
	assert.False(t, resp.Alert)
	assert.False(t, resp.Exhausted)
	assert.Equal(t, 2, resp.Version)
}
