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
	"go.uber.org/zap/zaptest"
)

type usageCall struct {
	status string
	tokens int64
}

type recordingUsage struct {
	calls []usageCall
}

func (r *recordingUsage) RecordAgentExecution(_ context.Context, _, _, status string, tokens int64, _ float64, _ time.Duration) {
	r.calls = append(r.calls, usageCall{status: status, tokens: tokens})
}

type executionFixture struct {
	tickets    *MockTicketRepository
	executions *MockExecutionRepository
	budgets    *MockBudgetRepository
	service    *ExecutionService
	now        time.Time
}

func newExecutionFixture(t *testing.T) *executionFixture {
	f := &executionFixture{
		tickets:    new(MockTicketRepository),
		executions: new(MockExecutionRepository),
		budgets:    new(MockBudgetRepository),
		now:        time.Date(2026, 3, 31, 23, 50, 0, 0, time.UTC),
	}
	budgets := NewBudgetService(f.budgets, forge.BudgetLimits{TokenLimit: 1_000_000, HardLimit: true})
	budgets.now = func() time.Time { return f.now }
	f.service = NewExecutionService(f.tickets, f.executions, budgets, zaptest.NewLogger(t))
	f.service.now = func() time.Time { return f.now }
	return f
}

func budgetFor(t *testing.T, period string, limit, used int64, hard bool) *forge.TokenBudget {
	b, err := forge.NewTokenBudget(period, forge.BudgetLimits{TokenLimit: limit, HardLimit: hard})
	require.NoError(t, err)
	b.TokensUsed = used
	return b
}

func TestExecutionService_Start(t *testing.T) {
	t.Run("starts a running execution charged to the current month", func(t *testing.T) {
		f := newExecutionFixture(t)
		tk := newTicket(t, forge.StatusInProgress, 1024, 4)
		f.tickets.On("FindByID", mock.Anything, tk.ID).Return(tk, nil)
		f.budgets.On("FindByPeriod", mock.Anything, "2026-03").Return(budgetFor(t, "2026-03", 1000, 10, true), nil)
		f.executions.On("Create", mock.Anything, mock.AnythingOfType("*forge.Execution")).Return(nil)

		resp, err := f.service.Start(context.Background(), tk.ID, "admin", StartExecutionRequest{AgentName: "builder", Model: "model-x"})
		require.NoError(t, err)
		assert.Equal(t, "running", resp.Status)
		assert.Equal(t, "2026-03", resp.BudgetPeriod)
	})

	t.Run("refuses when a hard budget is exhausted", func(t *testing.T) {
		f := newExecutionFixture(t)
		tk := newTicket(t, forge.StatusTodo, 1024, 4)
		f.tickets.On("FindByID", mock.Anything, tk.ID).Return(tk, nil)
		f.budgets.On("FindByPeriod", mock.Anything, "2026-03").Return(budgetFor(t, "2026-03", 1000, 1000, true), nil)

		_, err := f.service.Start(context.Background(), tk.ID, "admin", StartExecutionRequest{AgentName: "a", Model: "m"})
		assert.ErrorIs(t, err, forge.ErrBudgetExceeded)
		f.executions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("soft budget only alerts", func(t *testing.T) {
		f := newExecutionFixture(t)
		tk := newTicket(t, forge.StatusTodo, 1024, 4)
		f.tickets.On("FindByID", mock.Anything, tk.ID).Return(tk, nil)
		f.budgets.On("FindByPeriod", mock.Anything, "2026-03").Return(budgetFor(t, "2026-03", 1000, 5000, false), nil)
		f.executions.On("Create", mock.Anything, mock.Anything).Return(nil)

		_, err := f.service.Start(context.Background(), tk.ID, "admin", StartExecutionRequest{AgentName: "a", Model: "m"})
		assert.NoError(t, err)
	})

	t.Run("refuses a done ticket", func(t *testing.T) {
		f := newExecutionFixture(t)
		tk := newTicket(t, forge.StatusDone, 1024, 4)
		f.tickets.On("FindByID", mock.Anything, tk.ID).Return(tk, nil)
		f.budgets.On("FindByPeriod", mock.Anything, "2026-03").Return(budgetFor(t, "2026-03", 1000, 0, true), nil)

		_, err := f.service.Start(context.Background(), tk.ID, "admin", StartExecutionRequest{AgentName: "a", Model: "m"})
		assert.ErrorIs(t, err, forge.ErrTicketClosed)
	})

	t.Run("creates the month's budget from defaults", func(t *testing.T) {
		f := newExecutionFixture(t)
		tk := newTicket(t, forge.StatusTodo, 1024, 4)
		f.tickets.On("FindByID", mock.Anything, tk.ID).Return(tk, nil)
		f.budgets.On("FindByPeriod", mock.Anything, "2026-03").Return(nil, forge.ErrBudgetNotFound).Once()
		f.budgets.On("Create", mock.Anything, mock.MatchedBy(func(b *forge.TokenBudget) bool {
			return b.Period == "2026-03" && b.TokenLimit == 1_000_000 && b.AlertThreshold == forge.DefaultAlertThreshold
		})).Return(forge.ErrBudgetExists)
		f.budgets.On("FindByPeriod", mock.Anything, "2026-03").Return(budgetFor(t, "2026-03", 1000, 0, true), nil).Once()
		f.executions.On("Create", mock.Anything, mock.Anything).Return(nil)

		_, err := f.service.Start(context.Background(), tk.ID, "admin", StartExecutionRequest{AgentName: "a", Model: "m"})
		require.NoError(t, err)
		f.budgets.AssertNumberOfCalls(t, "FindByPeriod", 2)
	})
}

func TestExecutionService_Complete(t *testing.T) {
	startRun := func(t *testing.T, f *executionFixture) *forge.Execution {
		tk := newTicket(t, forge.StatusInProgress, 1024, 4)
		e, err := forge.StartExecution(tk, "builder", "model-x", "", "admin", f.now)
		require.NoError(t, err)
		return e
	}

	t.Run("charges usage to the start month even after rollover", func(t *testing.T) {
		f := newExecutionFixture(t)
		e := startRun(t, f)
		f.now = f.now.Add(time.Hour) // now April
		metrics := &recordingUsage{}
		f.service.SetMetrics(metrics)

		f.executions.On("FindByID", mock.Anything, e.ID).Return(e, nil)
		f.executions.On("Finish", mock.Anything, e).Return(nil)
		f.budgets.On("FindByPeriod", mock.Anything, "2026-03").Return(budgetFor(t, "2026-03", 1000, 900, true), nil)

		success := true
		resp, err := f.service.Complete(context.Background(), e.ID, CompleteExecutionRequest{
			Success: &success,
			Usage: UsageDTO{
				InputTokens:     100,
				OutputTokens:    50,
				CacheReadTokens: 25,
				Cost:            decimal.RequireFromString("0.0123"),
			},
			ResultSummary: "opened PR",
		})
		require.NoError(t, err)
		assert.Equal(t, "succeeded", resp.Status)
		assert.Equal(t, "2026-03", resp.BudgetPeriod)
		assert.Equal(t, int64(175), resp.TotalTokens)
		assert.Equal(t, []usageCall{{status: "succeeded", tokens: 175}}, metrics.calls)
	})

	t.Run("failure keeps usage and message", func(t *testing.T) {
		f := newExecutionFixture(t)
		e := startRun(t, f)
		f.executions.On("FindByID", mock.Anything, e.ID).Return(e, nil)
		f.executions.On("Finish", mock.Anything, e).Return(nil)
		f.budgets.On("FindByPeriod", mock.Anything, "2026-03").Return(budgetFor(t, "2026-03", 1000, 0, true), nil)

		failed := false
		resp, err := f.service.Complete(context.Background(), e.ID, CompleteExecutionRequest{
			Success: &failed,
			Usage:   UsageDTO{InputTokens: 10},
			Error:   "tests failed",
		})
		require.NoError(t, err)
		assert.Equal(t, "failed", resp.Status)
		assert.Equal(t, "tests failed", resp.Error)
	})

	t.Run("second completion is rejected", func(t *testing.T) {
		f := newExecutionFixture(t)
		e := startRun(t, f)
		require.NoError(t, e.Cancel(f.now))
		f.executions.On("FindByID", mock.Anything, e.ID).Return(e, nil)

		success := true
		_, err := f.service.Complete(context.Background(), e.ID, CompleteExecutionRequest{Success: &success})
		assert.ErrorIs(t, err, forge.ErrExecutionFinished)
		f.executions.AssertNotCalled(t, "Finish", mock.Anything, mock.Anything)
	})

	t.Run("losing the race at the database is reported", func(t *testing.T) {
		f := newExecutionFixture(t)
		e := startRun(t, f)
		f.executions.On("FindByID", mock.Anything, e.ID).Return(e, nil)
		f.executions.On("Finish", mock.Anything, e).Return(forge.ErrExecutionFinished)

		success := true
		_, err := f.service.Complete(context.Background(), e.ID, CompleteExecutionRequest{Success: &success})
		assert.ErrorIs(t, err, forge.ErrExecutionFinished)
	})
}

func TestExecutionService_Cancel(t *testing.T) {
	f := newExecutionFixture(t)
	tk := newTicket(t, forge.StatusInProgress, 1024, 4)
	e, err := forge.StartExecution(tk, "builder", "model-x", "", "admin", f.now)
	require.NoError(t, err)
	f.executions.On("FindByID", mock.Anything, e.ID).Return(e, nil)
	f.executions.On("Finish", mock.Anything, e).Return(nil)

	resp, err := f.service.Cancel(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	assert.Zero(t, resp.TotalTokens)
}
