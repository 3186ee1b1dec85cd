// Package wealth derives the "wealth journey" view of a portfolio from its properties.
package wealth

import (
	"time"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/property"
	"github.com/shopspring/decimal"
)

// Stage is a step on the wealth journey, chosen by total equity
type Stage string

const (
	StageFoundation   Stage = "foundation"
	StageMomentum     Stage = "momentum"
	StageGrowth       Stage = "growth"
	StageIndependence Stage = "independence"
)

var (
	momentumThreshold     = decimal.NewFromInt(100_000)
	growthThreshold       = decimal.NewFromInt(500_000)
	independenceThreshold = decimal.NewFromInt(2_000_000)
)

// StageFor returns the stage reached with the given total equity
func StageFor(equity decimal.Decimal) Stage {
	switch {
	case equity.GreaterThanOrEqual(independenceThreshold):
		return StageIndependence
	case equity.GreaterThanOrEqual(growthThreshold):
		return StageGrowth
	case equity.GreaterThanOrEqual(momentumThreshold):
		return StageMomentum
	default:
		return StageFoundation
	}
}

// nextStageThreshold returns the equity needed for the next stage, or false at the last stage
func nextStageThreshold(s Stage) (Stage, decimal.Decimal, bool) {
	switch s {
	case StageFoundation:
		return StageMomentum, momentumThreshold, true
	case StageMomentum:
		return StageGrowth, growthThreshold, true
	case StageGrowth:
		return StageIndependence, independenceThreshold, true
	}
	return "", decimal.Zero, false
}

// PropertyBreakdown is the per-property line of the dashboard
type PropertyBreakdown struct {
	PropertyID      uuid.UUID
	Name            string
	CurrentValue    decimal.Decimal
	MortgageBalance decimal.Decimal
	Equity          decimal.Decimal
	MonthlyCashFlow decimal.Decimal
	CapRate         decimal.Decimal
}

// Totals aggregates the financials of all held properties
type Totals struct {
	PropertyCount   int
	TotalValue      decimal.Decimal
	TotalMortgage   decimal.Decimal
	TotalEquity     decimal.Decimal
	LoanToValue     decimal.Decimal
	MonthlyRent     decimal.Decimal
	MonthlyExpenses decimal.Decimal
	MonthlyCashFlow decimal.Decimal
	AnnualNOI       decimal.Decimal
	// CapRate is NOI over value across the portfolio, i.e. the value-weighted cap rate
	CapRate decimal.Decimal
}

// Journey is the wealth dashboard of one portfolio
type Journey struct {
	PortfolioID     uuid.UUID
	Stage           Stage
	NextStage       Stage
	NextStageEquity decimal.Decimal
	StageProgress   decimal.Decimal
	Totals          Totals
	Properties      []PropertyBreakdown
	Milestones      []Milestone
	GeneratedAt     time.Time
}

// Compute builds the journey from the portfolio's properties. Sold properties are ignored.
func Compute(portfolioID uuid.UUID, properties []property.Property, now time.Time) Journey {
	t := Totals{
		TotalValue:      decimal.Zero,
		TotalMortgage:   decimal.Zero,
		TotalEquity:     decimal.Zero,
		LoanToValue:     decimal.Zero,
		MonthlyRent:     decimal.Zero,
		MonthlyExpenses: decimal.Zero,
		MonthlyCashFlow: decimal.Zero,
		AnnualNOI:       decimal.Zero,
		CapRate:         decimal.Zero,
	}
	breakdown := make([]PropertyBreakdown, 0, len(properties))

	for i := range properties {
		p := &properties[i]
		if !p.IsHeld() {
			continue
		}
		f := p.Financials
		s := f.Summarize()

		t.PropertyCount++
		t.TotalValue = t.TotalValue.Add(f.CurrentValue)
		t.TotalMortgage = t.TotalMortgage.Add(f.MortgageBalance)
		t.MonthlyRent = t.MonthlyRent.Add(f.MonthlyRent)
		t.MonthlyExpenses = t.MonthlyExpenses.Add(s.MonthlyExpenses)
		t.MonthlyCashFlow = t.MonthlyCashFlow.Add(s.MonthlyCashFlow)
		t.AnnualNOI = t.AnnualNOI.Add(s.AnnualNOI)

		breakdown = append(breakdown, PropertyBreakdown{
			PropertyID:      p.ID,
			Name:            p.Name,
			CurrentValue:    f.CurrentValue,
			MortgageBalance: f.MortgageBalance,
			Equity:          s.Equity,
			MonthlyCashFlow: s.MonthlyCashFlow,
			CapRate:         s.CapRate,
		})
	}

	t.TotalEquity = t.TotalValue.Sub(t.TotalMortgage)
	if t.TotalValue.IsPositive() {
		t.LoanToValue = t.TotalMortgage.DivRound(t.TotalValue, 4)
		t.CapRate = t.AnnualNOI.DivRound(t.TotalValue, 4)
	}

	j := Journey{
		PortfolioID: portfolioID,
		Stage:       StageFor(t.TotalEquity),
		Totals:      t,
		Properties:  breakdown,
		GeneratedAt: now.UTC(),
	}
	if next, threshold, ok := nextStageThreshold(j.Stage); ok {
		j.NextStage = next
		j.NextStageEquity = threshold
		j.StageProgress = clampRatio(t.TotalEquity, threshold)
	} else {
		j.StageProgress = decimal.NewFromInt(1)
	}
	j.Milestones = evaluateMilestones(t)
	return j
}

// clampRatio returns value/target limited to 0..1
func clampRatio(value, target decimal.Decimal) decimal.Decimal {
	one := decimal.NewFromInt(1)
	if !target.IsPositive() {
		return one
	}
	r := value.DivRound(target, 4)
	if r.IsNegative() {
		return decimal.Zero
	}
	if r.GreaterThan(one) {
		return one
	}
	return r
}
