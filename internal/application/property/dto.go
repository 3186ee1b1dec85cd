package property

import (
	"time"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/property"
	"github.com/shopspring/decimal"
)

// AddressDTO is the postal address of a property
type AddressDTO struct {
	Line1      string `json:"line1" binding:"max=300"`
	City       string `json:"city" binding:"max=100"`
	Region     string `json:"region" binding:"max=100"`
	PostalCode string `json:"postal_code" binding:"max=20"`
	Country    string `json:"country" binding:"omitempty,len=2,alpha"`
}

// CreatePropertyRequest represents a request to create a property
type CreatePropertyRequest struct {
	Name         string         `json:"name" binding:"required,min=1,max=200"`
	Address      AddressDTO     `json:"address"`
	Type         string         `json:"type" binding:"required,oneof=single_family multi_family condo townhouse commercial land"`
	Status       string         `json:"status" binding:"omitempty,oneof=owned under_contract sold"`
	Units        int            `json:"units" binding:"omitempty,min=1,max=10000"`
	PurchaseDate *time.Time     `json:"purchase_date"`
	Notes        string         `json:"notes" binding:"max=5000"`
	Financials   *FinancialsDTO `json:"financials"`
}

// UpdatePropertyRequest represents a request to update a property.
// Omitted fields keep their current value.
type UpdatePropertyRequest struct {
	Name         *string     `json:"name" binding:"omitempty,min=1,max=200"`
	Address      *AddressDTO `json:"address"`
	Type         *string     `json:"type" binding:"omitempty,oneof=single_family multi_family condo townhouse commercial land"`
	Status       *string     `json:"status" binding:"omitempty,oneof=owned under_contract sold"`
	Units        *int        `json:"units" binding:"omitempty,min=1,max=10000"`
	PurchaseDate *time.Time  `json:"purchase_date"`
	Notes        *string     `json:"notes" binding:"omitempty,max=5000"`
}

// FinancialsDTO carries property money figures
type FinancialsDTO struct {
	PurchasePrice   decimal.Decimal    `json:"purchase_price" binding:"decimal_gte0"`
	CurrentValue    decimal.Decimal    `json:"current_value" binding:"decimal_gte0"`
	MortgageBalance decimal.Decimal    `json:"mortgage_balance" binding:"decimal_gte0"`
	InterestRate    decimal.Decimal    `json:"interest_rate" binding:"decimal_gte0"`
	MonthlyRent     decimal.Decimal    `json:"monthly_rent" binding:"decimal_gte0"`
	MonthlyMortgage decimal.Decimal    `json:"monthly_mortgage" binding:"decimal_gte0"`
	Expenses        MonthlyExpensesDTO `json:"expenses"`
}

// MonthlyExpensesDTO carries recurring monthly costs
type MonthlyExpensesDTO struct {
	PropertyTax decimal.Decimal `json:"property_tax" binding:"decimal_gte0"`
	Insurance   decimal.Decimal `json:"insurance" binding:"decimal_gte0"`
	Maintenance decimal.Decimal `json:"maintenance" binding:"decimal_gte0"`
	HOA         decimal.Decimal `json:"hoa" binding:"decimal_gte0"`
	Management  decimal.Decimal `json:"management" binding:"decimal_gte0"`
}

// FinancialSummaryDTO carries derived figures
type FinancialSummaryDTO struct {
	Equity          decimal.Decimal `json:"equity"`
	LoanToValue     decimal.Decimal `json:"loan_to_value"`
	MonthlyExpenses decimal.Decimal `json:"monthly_expenses"`
	MonthlyCashFlow decimal.Decimal `json:"monthly_cash_flow"`
	AnnualNOI       decimal.Decimal `json:"annual_noi"`
	CapRate         decimal.Decimal `json:"cap_rate"`
	Appreciation    decimal.Decimal `json:"appreciation"`
}

// FinancialsResponse is the financials of a property with derived figures
type FinancialsResponse struct {
	PropertyID uuid.UUID           `json:"property_id"`
	Financials FinancialsDTO       `json:"financials"`
	Summary    FinancialSummaryDTO `json:"summary"`
	Version    int                 `json:"version"`
}

// PropertyResponse represents a property in API responses
type PropertyResponse struct {
	ID           uuid.UUID           `json:"id"`
	PortfolioID  uuid.UUID           `json:"portfolio_id"`
	Name         string              `json:"name"`
	Address      AddressDTO          `json:"address"`
	Type         string              `json:"type"`
	Status       string              `json:"status"`
	Units        int                 `json:"units"`
	PurchaseDate *time.Time          `json:"purchase_date,omitempty"`
	Notes        string              `json:"notes"`
	Financials   FinancialsDTO       `json:"financials"`
	Summary      FinancialSummaryDTO `json:"summary"`
	CreatedBy    string              `json:"created_by"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	Version      int                 `json:"version"`
}

// ListPropertiesFilter represents list parameters for properties
type ListPropertiesFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=name city created_at updated_at type status"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search   string `form:"search" binding:"max=100"`
	Type     string `form:"type" binding:"omitempty,oneof=single_family multi_family condo townhouse commercial land"`
	Status   string `form:"status" binding:"omitempty,oneof=owned under_contract sold"`
	City     string `form:"city" binding:"max=100"`
}

func (a AddressDTO) toDomain() property.Address {
	return property.Address{
		Line1:      a.Line1,
		City:       a.City,
		Region:     a.Region,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

// ToDomain converts the DTO to domain financials
func (f FinancialsDTO) ToDomain() property.Financials {
	return property.Financials{
		PurchasePrice:   f.PurchasePrice,
		CurrentValue:    f.CurrentValue,
		MortgageBalance: f.MortgageBalance,
		InterestRate:    f.InterestRate,
		MonthlyRent:     f.MonthlyRent,
		MonthlyMortgage: f.MonthlyMortgage,
		Expenses: property.MonthlyExpenses{
			PropertyTax: f.Expenses.PropertyTax,
			Insurance:   f.Expenses.Insurance,
			Maintenance: f.Expenses.Maintenance,
			HOA:         f.Expenses.HOA,
			Management:  f.Expenses.Management,
		},
	}
}

// ToFinancialsDTO converts domain financials to the DTO
func ToFinancialsDTO(f property.Financials) FinancialsDTO {
	return FinancialsDTO{
		PurchasePrice:   f.PurchasePrice,
		CurrentValue:    f.CurrentValue,
		MortgageBalance: f.MortgageBalance,
		InterestRate:    f.InterestRate,
		MonthlyRent:     f.MonthlyRent,
		MonthlyMortgage: f.MonthlyMortgage,
		Expenses: MonthlyExpensesDTO{
			PropertyTax: f.Expenses.PropertyTax,
			Insurance:   f.Expenses.Insurance,
			Maintenance: f.Expenses.Maintenance,
			HOA:         f.Expenses.HOA,
			Management:  f.Expenses.Management,
		},
	}
}

// ToSummaryDTO converts derived figures to the DTO
func ToSummaryDTO(s property.Summary) FinancialSummaryDTO {
	return FinancialSummaryDTO{
		Equity:          s.Equity,
		LoanToValue:     s.LoanToValue,
		MonthlyExpenses: s.MonthlyExpenses,
		MonthlyCashFlow: s.MonthlyCashFlow,
		AnnualNOI:       s.AnnualNOI,
		CapRate:         s.CapRate,
		Appreciation:    s.Appreciation,
	}
}

// ToPropertyResponse converts a domain property to a response
func ToPropertyResponse(p *property.Property) PropertyResponse {
	return PropertyResponse{
		ID:          p.ID,
		PortfolioID: p.PortfolioID,
		Name:        p.Name,
		Address: AddressDTO{
			Line1:      p.Address.Line1,
			City:       p.Address.City,
			Region:     p.Address.Region,
			PostalCode: p.Address.PostalCode,
			Country:    p.Address.Country,
		},
		Type:         string(p.Type),
		Status:       string(p.Status),
		Units:        p.Units,
		PurchaseDate: p.PurchaseDate,
		Notes:        p.Notes,
		Financials:   ToFinancialsDTO(p.Financials),
		Summary:      ToSummaryDTO(p.Financials.Summarize()),
		CreatedBy:    p.CreatedBy,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		Version:      p.Version,
	}
}

// ToFinancialsResponse converts a property's financials to a response
func ToFinancialsResponse(p *property.Property) FinancialsResponse {
	return FinancialsResponse{
		PropertyID: p.ID,
		Financials: ToFinancialsDTO(p.Financials),
		Summary:    ToSummaryDTO(p.Financials.Summarize()),
		Version:    p.Version,
	}
}
