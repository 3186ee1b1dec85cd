package wealth

import (
	"time"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/wealth"
	"github.com/shopspring/decimal"
)

// JourneyResponse is the wealth dashboard of a portfolio
type JourneyResponse struct {
	PortfolioID     uuid.UUID           `json:"portfolio_id"`
	Stage           string              `json:"stage"`
	NextStage       string              `json:"next_stage,omitempty"`
	NextStageEquity decimal.Decimal     `json:"next_stage_equity"`
	StageProgress   decimal.Decimal     `json:"stage_progress"`
	Totals          TotalsDTO           `json:"totals"`
	Properties      []PropertyLineDTO   `json:"properties"`
	Milestones      []MilestoneResponse `json:"milestones"`
	GeneratedAt     time.Time           `json:"generated_at"`
}

// TotalsDTO aggregates the held properties of a portfolio
type TotalsDTO struct {
	PropertyCount   int             `json:"property_count"`
	TotalValue      decimal.Decimal `json:"total_value"`
	TotalMortgage   decimal.Decimal `json:"total_mortgage"`
	TotalEquity     decimal.Decimal `json:"total_equity"`
	LoanToValue     decimal.Decimal `json:"loan_to_value"`
	MonthlyRent     decimal.Decimal `json:"monthly_rent"`
	MonthlyExpenses decimal.Decimal `json:"monthly_expenses"`
	MonthlyCashFlow decimal.Decimal `json:"monthly_cash_flow"`
	AnnualNOI       decimal.Decimal `json:"annual_noi"`
	CapRate         decimal.Decimal `json:"cap_rate"`
}

// PropertyLineDTO is one property on the dashboard
type PropertyLineDTO struct {
	PropertyID      uuid.UUID       `json:"property_id"`
	Name            string          `json:"name"`
	CurrentValue    decimal.Decimal `json:"current_value"`
	MortgageBalance decimal.Decimal `json:"mortgage_balance"`
	Equity          decimal.Decimal `json:"equity"`
	MonthlyCashFlow decimal.Decimal `json:"monthly_cash_flow"`
	CapRate         decimal.Decimal `json:"cap_rate"`
}

// MilestoneResponse is a milestone and its progress
type MilestoneResponse struct {
	Key         string          `json:"key"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Achieved    bool            `json:"achieved"`
	Progress    decimal.Decimal `json:"progress"`
}

// ToJourneyResponse converts a computed journey to a response
func ToJourneyResponse(j wealth.Journey) JourneyResponse {
	t := j.Totals
	resp := JourneyResponse{
		PortfolioID:     j.PortfolioID,
		Stage:           string(j.Stage),
		NextStage:       string(j.NextStage),
		NextStageEquity: j.NextStageEquity,
		StageProgress:   j.StageProgress,
		Totals: TotalsDTO{
			PropertyCount:   t.PropertyCount,
			TotalValue:      t.TotalValue,
			TotalMortgage:   t.TotalMortgage,
			TotalEquity:     t.TotalEquity,
			LoanToValue:     t.LoanToValue,
			MonthlyRent:     t.MonthlyRent,
			MonthlyExpenses: t.MonthlyExpenses,
			MonthlyCashFlow: t.MonthlyCashFlow,
			AnnualNOI:       t.AnnualNOI,
			CapRate:         t.CapRate,
		},
		Properties:  make([]PropertyLineDTO, 0, len(j.Properties)),
		Milestones:  make([]MilestoneResponse, 0, len(j.Milestones)),
		GeneratedAt: j.GeneratedAt,
	}
	for _, p := range j.Properties {
		resp.Properties = append(resp.Properties, PropertyLineDTO{
			PropertyID:      p.PropertyID,
			Name:            p.Name,
			CurrentValue:    p.CurrentValue,
			MortgageBalance: p.MortgageBalance,
			Equity:          p.Equity,
			MonthlyCashFlow: p.MonthlyCashFlow,
			CapRate:         p.CapRate,
		})
	}
	for _, m := range j.Milestones {
		resp.Milestones = append(resp.Milestones, MilestoneResponse{
			Key:         m.Key,
			Title:       m.Title,
			Description: m.Description,
			Achieved:    m.Achieved,
			Progress:    m.Progress,
		})
	}
	return resp
}
