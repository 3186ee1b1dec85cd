package forge

import (
	"math"
	"time"

	"github.com/keystone/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const periodLayout = "2006-01"

// DefaultAlertThreshold is the usage percentage that raises the alert flag
const DefaultAlertThreshold = 80

var (
	ErrBudgetNotFound = shared.NewDomainError("BUDGET_NOT_FOUND", "Token budget not found")
	ErrBudgetExceeded = shared.NewDomainError("BUDGET_EXCEEDED", "Monthly token budget is exhausted")
	ErrBudgetExists   = shared.NewDomainError("BUDGET_EXISTS", "A budget for this period already exists")
)

// PeriodOf returns the YYYY-MM budget period containing t
func PeriodOf(t time.Time) string {
	return t.UTC().Format(periodLayout)
}

// ValidatePeriod checks a YYYY-MM period string
func ValidatePeriod(period string) error {
	if _, err := time.Parse(periodLayout, period); err != nil || len(period) != len(periodLayout) {
		return shared.NewDomainErrorf("INVALID_PERIOD", "Period must be YYYY-MM, got %q", period)
	}
	return nil
}

// TokenBudget caps the tokens (and optionally cost) agents may spend in a month
type TokenBudget struct {
	shared.BaseAggregateRoot
	Period         string
	TokenLimit     int64
	CostLimit      *decimal.Decimal
	AlertThreshold int
	TokensUsed     int64
	CostUsed       decimal.Decimal
	// HardLimit refuses new executions once exhausted; otherwise exhaustion only alerts
	HardLimit bool
}

// BudgetLimits are the user-editable settings of a budget
type BudgetLimits struct {
	TokenLimit     int64
	CostLimit      *decimal.Decimal
	AlertThreshold int
	HardLimit      bool
}

// NewTokenBudget creates an empty budget for a period
func NewTokenBudget(period string, limits BudgetLimits) (*TokenBudget, error) {
	if err := ValidatePeriod(period); err != nil {
		return nil, err
	}
	b := &TokenBudget{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Period:            period,
		CostUsed:          decimal.Zero,
	}
	if err := b.apply(limits); err != nil {
		return nil, err
	}
	return b, nil
}

// UpdateLimits replaces the limits; usage is untouched
func (b *TokenBudget) UpdateLimits(limits BudgetLimits) error {
	if err := b.apply(limits); err != nil {
		return err
	}
	b.IncrementVersion()
	return nil
}

func (b *TokenBudget) apply(l BudgetLimits) error {
	if l.TokenLimit <= 0 {
		return shared.NewDomainError("INVALID_LIMIT", "Token limit must be positive")
	}
	if l.CostLimit != nil && !l.CostLimit.IsPositive() {
		return shared.NewDomainError("INVALID_LIMIT", "Cost limit must be positive when set")
	}
	if l.AlertThreshold == 0 {
		l.AlertThreshold = DefaultAlertThreshold
	}
	if l.AlertThreshold < 1 || l.AlertThreshold > 100 {
		return shared.NewDomainError("INVALID_THRESHOLD", "Alert threshold must be between 1 and 100")
	}
	b.TokenLimit = l.TokenLimit
	b.CostLimit = l.CostLimit
	b.AlertThreshold = l.AlertThreshold
	b.HardLimit = l.HardLimit
	return nil
}

// BudgetUsage reports how much of a budget is spent
type BudgetUsage struct {
	TokensRemaining int64
	// Percent is the larger of token and cost consumption, 0..n
	Percent   float64
	Alert     bool
	Exhausted bool
}

// Usage computes the consumption flags
func (b *TokenBudget) Usage() BudgetUsage {
	pct := float64(b.TokensUsed) / float64(b.TokenLimit) * 100
	exhausted := b.TokensUsed >= b.TokenLimit
	if b.CostLimit != nil && b.CostLimit.IsPositive() {
		costPct, _ := b.CostUsed.Div(*b.CostLimit).Mul(decimal.NewFromInt(100)).Float64()
		pct = math.Max(pct, costPct)
		exhausted = exhausted || b.CostUsed.GreaterThanOrEqual(*b.CostLimit)
	}
	remaining := b.TokenLimit - b.TokensUsed
	if remaining < 0 {
		remaining = 0
	}
	pct = math.Round(pct*100) / 100
	return BudgetUsage{
		TokensRemaining: remaining,
		Percent:         pct,
		Alert:           pct >= float64(b.AlertThreshold),
		Exhausted:       exhausted,
	}
}

// CheckCanStart refuses new executions on an exhausted hard-limited budget
func (b *TokenBudget) CheckCanStart() error {
	if b.HardLimit && b.Usage().Exhausted {
		return ErrBudgetExceeded.WithDetail("period", b.Period)
	}
	return nil
}

// Record adds usage to the in-memory totals. Persistence increments the
// stored counters atomically instead of saving these values.
func (b *TokenBudget) Record(u Usage) {
	b.TokensUsed += u.TotalTokens()
	b.CostUsed = b.CostUsed.Add(u.Cost)
}
