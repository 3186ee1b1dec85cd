package property

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDetails() Details {
	return Details{
		Name: "Maple Duplex",
		Address: Address{
			Line1:   "12 Maple St",
			City:    "Austin",
			Region:  "TX",
			Country: "us",
		},
		Type: TypeMultiFamily,
	}
}

func TestNewProperty(t *testing.T) {
	pid := uuid.New()

	t.Run("applies defaults", func(t *testing.T) {
		p, err := NewProperty(pid, "user_1", validDetails())
		require.NoError(t, err)
		assert.Equal(t, pid, p.PortfolioID)
		assert.Equal(t, StatusOwned, p.Status)
		assert.Equal(t, 1, p.Units)
		assert.Equal(t, "US", p.Address.Country)
		assert.True(t, p.IsHeld())
		assert.True(t, p.Financials.CurrentValue.IsZero())
	})

	future := time.Now().Add(72 * time.Hour)
	tests := []struct {
		name   string
		mutate func(d *Details)
		code   string
	}{
		{"empty name", func(d *Details) { d.Name = "" }, "INVALID_NAME"},
		{"bad type", func(d *Details) { d.Type = "castle" }, "INVALID_TYPE"},
		{"bad status", func(d *Details) { d.Status = "lost" }, "INVALID_STATUS"},
		{"negative units", func(d *Details) { d.Units = -2 }, "INVALID_UNITS"},
		{"future purchase", func(d *Details) { d.PurchaseDate = &future }, "INVALID_PURCHASE_DATE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDetails()
			tt.mutate(&d)
			_, err := NewProperty(pid, "u", d)
			require.Error(t, err)
			assert.Equal(t, tt.code, codeOf(err))
		})
	}
}

func TestFinancials_Summarize(t *testing.T) {
	f := Financials{
		PurchasePrice:   decimal.NewFromInt(400000),
		CurrentValue:    decimal.NewFromInt(500000),
		MortgageBalance: decimal.NewFromInt(300000),
		InterestRate:    decimal.RequireFromString("6.5"),
		MonthlyRent:     decimal.NewFromInt(4000),
		MonthlyMortgage: decimal.NewFromInt(1900),
		Expenses: MonthlyExpenses{
			PropertyTax: decimal.NewFromInt(600),
			Insurance:   decimal.NewFromInt(150),
			Maintenance: decimal.NewFromInt(200),
			HOA:         decimal.Zero,
			Management:  decimal.NewFromInt(250),
		},
	}
	require.NoError(t, f.Validate())

	s := f.Summarize()
	assert.True(t, s.Equity.Equal(decimal.NewFromInt(200000)))
	assert.True(t, s.LoanToValue.Equal(decimal.RequireFromString("0.6")))
	assert.True(t, s.MonthlyExpenses.Equal(decimal.NewFromInt(1200)))
	assert.True(t, s.MonthlyCashFlow.Equal(decimal.NewFromInt(900)))
	assert.True(t, s.AnnualNOI.Equal(decimal.NewFromInt(33600)))
	assert.True(t, s.CapRate.Equal(decimal.RequireFromString("0.0672")))
	assert.True(t, s.Appreciation.Equal(decimal.NewFromInt(100000)))
}

func TestFinancials_ZeroValueHasZeroRatios(t *testing.T) {
	s := ZeroFinancials().Summarize()
	assert.True(t, s.LoanToValue.IsZero())
	assert.True(t, s.CapRate.IsZero())
}

func TestFinancials_Validate(t *testing.T) {
	f := Financials{MonthlyRent: decimal.NewFromInt(-1)}
	err := f.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "monthly_rent")

	f = Financials{InterestRate: decimal.NewFromInt(101)}
	assert.Error(t, f.Validate())
}

func TestProperty_UpdateFinancials(t *testing.T) {
	p, err := NewProperty(uuid.New(), "u", validDetails())
	require.NoError(t, err)

	require.NoError(t, p.UpdateFinancials(Financials{CurrentValue: decimal.NewFromInt(10)}))
	assert.Equal(t, 2, p.Version)

	assert.Error(t, p.UpdateFinancials(Financials{CurrentValue: decimal.NewFromInt(-10)}))
	assert.True(t, p.Financials.CurrentValue.Equal(decimal.NewFromInt(10)))
}
