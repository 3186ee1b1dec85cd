package property

import (
	"github.com/keystone/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// Financials are the money figures of a property. All amounts are in the
// portfolio's base currency; rates are percentages.
type Financials struct {
	PurchasePrice   decimal.Decimal
	CurrentValue    decimal.Decimal
	MortgageBalance decimal.Decimal
	InterestRate    decimal.Decimal
	MonthlyRent     decimal.Decimal
	MonthlyMortgage decimal.Decimal
	Expenses        MonthlyExpenses
}

// MonthlyExpenses are the recurring operating costs of a property
type MonthlyExpenses struct {
	PropertyTax decimal.Decimal
	Insurance   decimal.Decimal
	Maintenance decimal.Decimal
	HOA         decimal.Decimal
	Management  decimal.Decimal
}

// Total is the sum of all operating expenses
func (e MonthlyExpenses) Total() decimal.Decimal {
	return e.PropertyTax.Add(e.Insurance).Add(e.Maintenance).Add(e.HOA).Add(e.Management)
}

// ZeroFinancials returns financials with every figure set to zero
func ZeroFinancials() Financials {
	return Financials{}
}

// Validate checks that no figure is negative and the rate is a sane percentage
func (f Financials) Validate() error {
	fields := map[string]decimal.Decimal{
		"purchase_price":   f.PurchasePrice,
		"current_value":    f.CurrentValue,
		"mortgage_balance": f.MortgageBalance,
		"interest_rate":    f.InterestRate,
		"monthly_rent":     f.MonthlyRent,
		"monthly_mortgage": f.MonthlyMortgage,
		"property_tax":     f.Expenses.PropertyTax,
		"insurance":        f.Expenses.Insurance,
		"maintenance":      f.Expenses.Maintenance,
		"hoa":              f.Expenses.HOA,
		"management":       f.Expenses.Management,
	}
	for name, v := range fields {
		if v.IsNegative() {
			return shared.NewDomainErrorf("INVALID_FINANCIALS", "%s cannot be negative", name).WithDetail("field", name)
		}
	}
	if f.InterestRate.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_FINANCIALS", "interest_rate is a percentage and cannot exceed 100").
			WithDetail("field", "interest_rate")
	}
	return nil
}

// Summary holds figures derived from Financials
type Summary struct {
	Equity          decimal.Decimal
	LoanToValue     decimal.Decimal // ratio, 0..n
	MonthlyExpenses decimal.Decimal
	MonthlyCashFlow decimal.Decimal
	AnnualNOI       decimal.Decimal
	CapRate         decimal.Decimal // ratio
	Appreciation    decimal.Decimal // current value minus purchase price
}

// Summarize derives equity, leverage and income metrics. Ratios whose
// denominator is zero are reported as zero.
func (f Financials) Summarize() Summary {
	expenses := f.Expenses.Total()
	noiMonthly := f.MonthlyRent.Sub(expenses)
	annualNOI := noiMonthly.Mul(twelve)

	s := Summary{
		Equity:          f.CurrentValue.Sub(f.MortgageBalance),
		MonthlyExpenses: expenses,
		MonthlyCashFlow: noiMonthly.Sub(f.MonthlyMortgage),
		AnnualNOI:       annualNOI,
		Appreciation:    f.CurrentValue.Sub(f.PurchasePrice),
	}
	if f.CurrentValue.IsPositive() {
		s.LoanToValue = f.MortgageBalance.DivRound(f.CurrentValue, 4)
		s.CapRate = annualNOI.DivRound(f.CurrentValue, 4)
	}
	return s
}
