package wealth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/property"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newProperty(t *testing.T, pid uuid.UUID, name string, f property.Financials) property.Property {
	t.Helper()
	p, err := property.NewProperty(pid, "user_1", property.Details{
		Name: name,
		Type: property.TypeSingleFamily,
	})
	require.NoError(t, err)
	require.NoError(t, p.UpdateFinancials(f))
	return *p
}

func milestone(t *testing.T, j Journey, key string) Milestone {
	t.Helper()
	for _, m := range j.Milestones {
		if m.Key == key {
			return m
		}
	}
	t.Fatalf("milestone %s not found", key)
	return Milestone{}
}

func TestStageFor(t *testing.T) {
	tests := []struct {
		equity string
		want   Stage
	}{
		{"-5000", StageFoundation},
		{"0", StageFoundation},
		{"99999.99", StageFoundation},
		{"100000", StageMomentum},
		{"499999", StageMomentum},
		{"500000", StageGrowth},
		{"1999999.99", StageGrowth},
		{"2000000", StageIndependence},
		{"9000000", StageIndependence},
	}
	for _, tt := range tests {
		t.Run(tt.equity, func(t *testing.T) {
			assert.Equal(t, tt.want, StageFor(d(tt.equity)))
		})
	}
}

func TestCompute(t *testing.T) {
	pid := uuid.New()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("empty portfolio", func(t *testing.T) {
		j := Compute(pid, nil, now)

		assert.Equal(t, StageFoundation, j.Stage)
		assert.Equal(t, StageMomentum, j.NextStage)
		assert.Equal(t, 0, j.Totals.PropertyCount)
		assert.True(t, j.Totals.TotalEquity.IsZero())
		assert.True(t, j.Totals.LoanToValue.IsZero())
		assert.True(t, j.StageProgress.IsZero())
		assert.NotNil(t, j.Properties)
		assert.Len(t, j.Milestones, 8)
		for _, m := range j.Milestones {
			assert.False(t, m.Achieved, m.Key)
		}
	})

	t.Run("aggregates held properties and skips sold ones", func(t *testing.T) {
		a := newProperty(t, pid, "A", property.Financials{
			CurrentValue:    d("300000"),
			MortgageBalance: d("200000"),
			MonthlyRent:     d("2500"),
			MonthlyMortgage: d("1200"),
			Expenses:        property.MonthlyExpenses{PropertyTax: d("300"), Insurance: d("100")},
		})
		b := newProperty(t, pid, "B", property.Financials{
			CurrentValue:    d("200000"),
			MortgageBalance: d("50000"),
			MonthlyRent:     d("1500"),
			MonthlyMortgage: d("400"),
			Expenses:        property.MonthlyExpenses{Maintenance: d("100")},
		})
		sold := newProperty(t, pid, "Sold", property.Financials{CurrentValue: d("900000")})
		sold.Status = property.StatusSold

		j := Compute(pid, []property.Property{a, b, sold}, now)

		tot := j.Totals
		assert.Equal(t, 2, tot.PropertyCount)
		assert.True(t, d("500000").Equal(tot.TotalValue))
		assert.True(t, d("250000").Equal(tot.TotalMortgage))
		assert.True(t, d("250000").Equal(tot.TotalEquity))
		assert.True(t, d("0.5").Equal(tot.LoanToValue))
		assert.True(t, d("4000").Equal(tot.MonthlyRent))
		assert.True(t, d("500").Equal(tot.MonthlyExpenses))
		// (2500-400-1200) + (1500-100-400)
		assert.True(t, d("1900").Equal(tot.MonthlyCashFlow))
		assert.True(t, d("42000").Equal(tot.AnnualNOI))
		assert.True(t, d("0.084").Equal(tot.CapRate))

		assert.Equal(t, StageMomentum, j.Stage)
		assert.Equal(t, StageGrowth, j.NextStage)
		assert.True(t, d("0.5").Equal(j.StageProgress))
		require.Len(t, j.Properties, 2)
		assert.Equal(t, "A", j.Properties[0].Name)
		assert.True(t, d("100000").Equal(j.Properties[0].Equity))
		assert.Equal(t, now, j.GeneratedAt)

		assert.True(t, milestone(t, j, "first_property").Achieved)
		assert.True(t, milestone(t, j, "positive_cash_flow").Achieved)
		assert.True(t, milestone(t, j, "equity_100k").Achieved)
		assert.False(t, milestone(t, j, "equity_500k").Achieved)
		assert.True(t, d("0.5").Equal(milestone(t, j, "equity_500k").Progress))
		assert.True(t, d("0.4").Equal(milestone(t, j, "five_properties").Progress))
		// exactly 50% is not below 50%
		assert.False(t, milestone(t, j, "ltv_below_50").Achieved)
	})

	t.Run("last stage reports full progress", func(t *testing.T) {
		p := newProperty(t, pid, "Tower", property.Financials{CurrentValue: d("2500000")})
		j := Compute(pid, []property.Property{p}, now)

		assert.Equal(t, StageIndependence, j.Stage)
		assert.Equal(t, Stage(""), j.NextStage)
		assert.True(t, d("1").Equal(j.StageProgress))
		assert.True(t, milestone(t, j, "equity_2m").Achieved)
		assert.True(t, milestone(t, j, "ltv_below_50").Achieved)
	})

	t.Run("negative cash flow reports partial coverage", func(t *testing.T) {
		p := newProperty(t, pid, "Thin", property.Financials{
			CurrentValue:    d("100000"),
			MortgageBalance: d("90000"),
			MonthlyRent:     d("750"),
			MonthlyMortgage: d("1000"),
		})
		j := Compute(pid, []property.Property{p}, now)

		m := milestone(t, j, "positive_cash_flow")
		assert.False(t, m.Achieved)
		assert.True(t, d("0.75").Equal(m.Progress))
		assert.True(t, d("0.2").Equal(milestone(t, j, "ltv_below_50").Progress))
	})

	t.Run("boundaries are not achievements", func(t *testing.T) {
		p := newProperty(t, pid, "Even", property.Financials{
			CurrentValue:    d("200000"),
			MortgageBalance: d("100000"),
			MonthlyRent:     d("1000"),
			MonthlyMortgage: d("1000"),
		})
		j := Compute(pid, []property.Property{p}, now)

		require.True(t, d("0.5").Equal(j.Totals.LoanToValue))
		require.True(t, j.Totals.MonthlyCashFlow.IsZero())

		ltv := milestone(t, j, "ltv_below_50")
		assert.False(t, ltv.Achieved)
		assert.True(t, ltv.Progress.LessThan(d("1")))

		cash := milestone(t, j, "positive_cash_flow")
		assert.False(t, cash.Achieved)
		assert.True(t, cash.Progress.LessThan(d("1")))

		assert.True(t, milestone(t, j, "equity_100k").Achieved)
		assert.True(t, d("1").Equal(milestone(t, j, "equity_100k").Progress))
	})
}
