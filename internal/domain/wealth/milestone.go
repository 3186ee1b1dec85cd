package wealth

import (
	"github.com/shopspring/decimal"
)

// Milestone is a named goal on the journey with its progress
type Milestone struct {
	Key         string
	Title       string
	Description string
	Achieved    bool
	Progress    decimal.Decimal // 0..1
}

type milestoneDef struct {
	key         string
	title       string
	description string
	progress    func(t Totals) decimal.Decimal
	achieved    func(t Totals) bool
}

// unfinishedCap is the highest progress an unachieved milestone reports
var unfinishedCap = decimal.RequireFromString("0.99")

func equityGoal(key, title, description string, amount int64) milestoneDef {
	target := decimal.NewFromInt(amount)
	return milestoneDef{
		key:         key,
		title:       title,
		description: description,
		progress: func(t Totals) decimal.Decimal {
			return clampRatio(t.TotalEquity, target)
		},
		achieved: func(t Totals) bool {
			return t.TotalEquity.GreaterThanOrEqual(target)
		},
	}
}

func ltvBelowHalf(t Totals) bool {
	return t.PropertyCount > 0 && t.TotalValue.IsPositive() &&
		t.LoanToValue.LessThan(decimal.RequireFromString("0.5"))
}

var milestones = []milestoneDef{
	{
		key:         "first_property",
		title:       "First property",
		description: "Add your first property to the portfolio",
		progress: func(t Totals) decimal.Decimal {
			return clampRatio(decimal.NewFromInt(int64(t.PropertyCount)), decimal.NewFromInt(1))
		},
		achieved: func(t Totals) bool { return t.PropertyCount >= 1 },
	},
	{
		key:         "positive_cash_flow",
		title:       "Positive cash flow",
		description: "Rent covers expenses and mortgage payments",
		progress: func(t Totals) decimal.Decimal {
			if t.PropertyCount > 0 && t.MonthlyCashFlow.IsPositive() {
				return decimal.NewFromInt(1)
			}
			if t.MonthlyRent.IsZero() {
				return decimal.Zero
			}
			// share of outgoings already covered by rent
			outgoing := t.MonthlyRent.Sub(t.MonthlyCashFlow)
			return clampRatio(t.MonthlyRent, outgoing)
		},
		achieved: func(t Totals) bool {
			return t.PropertyCount > 0 && t.MonthlyCashFlow.IsPositive()
		},
	},
	equityGoal("equity_100k", "$100k equity", "Reach 100,000 in total equity", 100_000),
	equityGoal("equity_500k", "$500k equity", "Reach 500,000 in total equity", 500_000),
	equityGoal("equity_1m", "$1M equity", "Reach 1,000,000 in total equity", 1_000_000),
	equityGoal("equity_2m", "$2M equity", "Reach 2,000,000 in total equity", 2_000_000),
	{
		key:         "five_properties",
		title:       "Five properties",
		description: "Hold five properties at once",
		progress: func(t Totals) decimal.Decimal {
			return clampRatio(decimal.NewFromInt(int64(t.PropertyCount)), decimal.NewFromInt(5))
		},
		achieved: func(t Totals) bool { return t.PropertyCount >= 5 },
	},
	{
		key:         "ltv_below_50",
		title:       "Leverage below 50%",
		description: "Bring the portfolio loan-to-value under 50%",
		progress: func(t Totals) decimal.Decimal {
			if t.PropertyCount == 0 || !t.TotalValue.IsPositive() {
				return decimal.Zero
			}
			if ltvBelowHalf(t) {
				return decimal.NewFromInt(1)
			}
			// 0 at 100% LTV, approaching 1 as LTV nears 50%
			return clampRatio(decimal.NewFromInt(1).Sub(t.LoanToValue), decimal.RequireFromString("0.5"))
		},
		achieved: ltvBelowHalf,
	},
}

func evaluateMilestones(t Totals) []Milestone {
	out := make([]Milestone, 0, len(milestones))
	for _, def := range milestones {
		achieved := def.achieved(t)
		p := def.progress(t)
		switch {
		case achieved:
			p = decimal.NewFromInt(1)
		case p.GreaterThan(unfinishedCap):
			p = unfinishedCap
		}
		out = append(out, Milestone{
			Key:         def.key,
			Title:       def.title,
			Description: def.description,
			Achieved:    achieved,
			Progress:    p,
		})
	}
	return out
}
