package forge

import (
	"strings"
	"testing"
	"time"

	"github.com/keystone/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTicket(t *testing.T) *Ticket {
	t.Helper()
	tk, err := NewTicket(TicketDetails{Title: "Fix invoice export"}, "", "admin_1")
	require.NoError(t, err)
	return tk
}

func TestNewTicket(t *testing.T) {
	tk := newTicket(t)
	assert.Equal(t, StatusBacklog, tk.Status)
	assert.Equal(t, PriorityMedium, tk.Priority)
	assert.Equal(t, 1, tk.Version)
	assert.Empty(t, tk.Labels)

	tk.AssignKey("FRG", 42)
	assert.Equal(t, "FRG-42", tk.Key)
	assert.Equal(t, int64(42), tk.Number)

	tests := []struct {
		name    string
		details TicketDetails
		status  TicketStatus
		code    string
	}{
		{"empty title", TicketDetails{Title: "  "}, "", "INVALID_TITLE"},
		{"long title", TicketDetails{Title: strings.Repeat("x", 201)}, "", "INVALID_TITLE"},
		{"bad priority", TicketDetails{Title: "t", Priority: "asap"}, "", "INVALID_PRIORITY"},
		{"bad status", TicketDetails{Title: "t"}, "archived", "INVALID_STATUS"},
		{"long label", TicketDetails{Title: "t", Labels: []string{strings.Repeat("l", 51)}}, "", "INVALID_LABELS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTicket(tt.details, tt.status, "admin_1")
			de, ok := shared.AsDomainError(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, de.Code)
		})
	}

	t.Run("labels are normalized", func(t *testing.T) {
		tk, err := NewTicket(TicketDetails{Title: "t", Labels: []string{" Backend", "backend", "", "API"}}, StatusTodo, "a")
		require.NoError(t, err)
		assert.Equal(t, []string{"backend", "api"}, tk.Labels)
	})
}

func TestTicket_Move(t *testing.T) {
	t.Run("applies with the current version", func(t *testing.T) {
		tk := newTicket(t)
		require.NoError(t, tk.Move(StatusInProgress, 512, 1))
		assert.Equal(t, StatusInProgress, tk.Status)
		assert.Equal(t, 512.0, tk.Position)
		assert.Equal(t, 2, tk.Version)
	})

	t.Run("rejects a stale version", func(t *testing.T) {
		tk := newTicket(t)
		require.NoError(t, tk.Move(StatusTodo, 1, 1))

		err := tk.Move(StatusDone, 2, 1)
		require.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		de, _ := shared.AsDomainError(err)
		assert.Equal(t, 1, de.Details["expected_version"])
		assert.Equal(t, 2, de.Details["current_version"])
		assert.Equal(t, StatusTodo, tk.Status)
	})

	t.Run("rejects an unknown column", func(t *testing.T) {
		tk := newTicket(t)
		err := tk.Move("archived", 1, 1)
		require.Error(t, err)
		assert.Equal(t, 1, tk.Version)
	})
}

func TestPositionBetween(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	assert.Equal(t, PositionStep, PositionBetween(nil, nil))
	assert.Equal(t, 100.0+PositionStep, PositionBetween(f(100), nil))
	assert.Equal(t, 100.0-PositionStep, PositionBetween(nil, f(100)))
	assert.Equal(t, 150.0, PositionBetween(f(100), f(200)))

	// repeated inserts at the same gap keep ordering
	lo, hi := 1.0, 2.0
	for i := 0; i < 30; i++ {
		mid := PositionBetween(&lo, &hi)
		require.Greater(t, mid, lo)
		require.Less(t, mid, hi)
		hi = mid
	}
}

func TestExecution(t *testing.T) {
	now := time.Date(2026, 1, 31, 23, 30, 0, 0, time.UTC)

	t.Run("start charges the start month", func(t *testing.T) {
		e, err := StartExecution(newTicket(t), "coder", "claude-sonnet", "implement", "admin_1", now)
		require.NoError(t, err)
		assert.Equal(t, ExecutionRunning, e.Status)
		assert.Equal(t, "2026-01", e.BudgetPeriod)

		usage := Usage{InputTokens: 100, OutputTokens: 50, CacheCreationTokens: 10, CacheReadTokens: 5, Cost: decimal.RequireFromString("0.25")}
		require.NoError(t, e.Succeed(usage, "done", now.Add(time.Hour)))
		assert.Equal(t, ExecutionSucceeded, e.Status)
		assert.Equal(t, int64(165), e.Usage.TotalTokens())
		assert.Equal(t, time.Hour, e.Duration())
		assert.Equal(t, "2026-01", e.BudgetPeriod)

		err = e.Cancel(now)
		assert.ErrorIs(t, err, ErrExecutionFinished)
	})

	t.Run("done tickets cannot start executions", func(t *testing.T) {
		tk := newTicket(t)
		require.NoError(t, tk.Move(StatusDone, 1, 1))
		_, err := StartExecution(tk, "coder", "m", "", "admin_1", now)
		assert.ErrorIs(t, err, ErrTicketClosed)
	})

	t.Run("fail records a default error and rejects negative usage", func(t *testing.T) {
		e, err := StartExecution(newTicket(t), "coder", "m", "", "admin_1", now)
		require.NoError(t, err)

		err = e.Fail(Usage{InputTokens: -1}, "", now)
		require.Error(t, err)
		assert.Equal(t, ExecutionRunning, e.Status)

		require.NoError(t, e.Fail(Usage{InputTokens: 1}, "", now))
		assert.Equal(t, "execution failed", e.Error)
	})
}

func TestTokenBudget(t *testing.T) {
	t.Run("validates period and limits", func(t *testing.T) {
		_, err := NewTokenBudget("2026-13", BudgetLimits{TokenLimit: 1})
		assert.Error(t, err)
		_, err = NewTokenBudget("2026-1", BudgetLimits{TokenLimit: 1})
		assert.Error(t, err)
		_, err = NewTokenBudget("2026-01", BudgetLimits{TokenLimit: 0})
		assert.Error(t, err)
		_, err = NewTokenBudget("2026-01", BudgetLimits{TokenLimit: 1, AlertThreshold: 101})
		assert.Error(t, err)

		b, err := NewTokenBudget("2026-01", BudgetLimits{TokenLimit: 1000})
		require.NoError(t, err)
		assert.Equal(t, DefaultAlertThreshold, b.AlertThreshold)
	})

	t.Run("usage flags", func(t *testing.T) {
		b, err := NewTokenBudget("2026-01", BudgetLimits{TokenLimit: 1000, HardLimit: true})
		require.NoError(t, err)

		b.Record(Usage{InputTokens: 700})
		u := b.Usage()
		assert.Equal(t, 70.0, u.Percent)
		assert.False(t, u.Alert)
		assert.NoError(t, b.CheckCanStart())

		b.Record(Usage{OutputTokens: 100})
		assert.True(t, b.Usage().Alert)

		b.Record(Usage{OutputTokens: 300})
		u = b.Usage()
		assert.True(t, u.Exhausted)
		assert.Zero(t, u.TokensRemaining)
		assert.ErrorIs(t, b.CheckCanStart(), ErrBudgetExceeded)

		b.HardLimit = false
		assert.NoError(t, b.CheckCanStart())
	})

	t.Run("cost limit counts too", func(t *testing.T) {
		limit := decimal.NewFromInt(10)
		b, err := NewTokenBudget("2026-02", BudgetLimits{TokenLimit: 1_000_000, CostLimit: &limit, HardLimit: true})
		require.NoError(t, err)

		b.Record(Usage{InputTokens: 10, Cost: decimal.NewFromInt(10)})
		u := b.Usage()
		assert.Equal(t, 100.0, u.Percent)
		assert.True(t, u.Exhausted)
	})
}

func TestRunnerKey(t *testing.T) {
	k, token, err := NewRunnerKey("ci-runner", "admin_1")
	require.NoError(t, err)
	assert.Len(t, k.Prefix, 8)
	assert.True(t, strings.HasPrefix(token, "frg_"+k.Prefix+"_"))
	assert.NotContains(t, k.Hash, token)

	prefix, secret, err := ParseRunnerToken(token)
	require.NoError(t, err)
	assert.Equal(t, k.Prefix, prefix)
	assert.True(t, k.Verify(secret))
	assert.False(t, k.Verify(secret+"x"))

	require.NoError(t, k.Revoke(time.Now()))
	assert.False(t, k.Verify(secret))
	assert.Error(t, k.Revoke(time.Now()))

	for _, bad := range []string{"", "frg_", "xyz_12345678_abc", "frg_short_abc", "frg_12345678_"} {
		_, _, err := ParseRunnerToken(bad)
		assert.ErrorIs(t, err, ErrRunnerKeyInvalid, bad)
	}

	_, _, err = NewRunnerKey(" ", "admin_1")
	assert.Error(t, err)
}
