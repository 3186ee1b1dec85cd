package models

import (
	"time"

	"github.com/keystone/backend/internal/domain/property"
	"github.com/shopspring/decimal"
)

// PropertyModel is the persistence model for the Property aggregate.
// Address and financial figures are flattened into columns.
type PropertyModel struct {
	TenantAggregateModel
	Name            string                `gorm:"type:varchar(200);not null"`
	AddressLine1    string                `gorm:"column:address_line1;type:varchar(300);not null;default:''"`
	City            string                `gorm:"type:varchar(100);not null;default:'';index"`
	Region          string                `gorm:"type:varchar(100);not null;default:''"`
	PostalCode      string                `gorm:"type:varchar(20);not null;default:''"`
	Country         string                `gorm:"type:varchar(2);not null;default:''"`
	Type            property.PropertyType `gorm:"type:varchar(20);not null"`
	Status          property.Status       `gorm:"type:varchar(20);not null;index"`
	Units           int                   `gorm:"not null;default:1"`
	PurchaseDate    *time.Time            `gorm:"type:date"`
	Notes           string                `gorm:"type:text;not null;default:''"`
	PurchasePrice   decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	CurrentValue    decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	MortgageBalance decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	InterestRate    decimal.Decimal       `gorm:"type:decimal(7,4);not null;default:0"`
	MonthlyRent     decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	MonthlyMortgage decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	PropertyTax     decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	Insurance       decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	Maintenance     decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	HOA             decimal.Decimal       `gorm:"column:hoa;type:decimal(18,2);not null;default:0"`
	Management      decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (PropertyModel) TableName() string {
	return "properties"
}

// ToDomain converts the persistence model to a domain Property
func (m *PropertyModel) ToDomain() *property.Property {
	return &property.Property{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Name:                m.Name,
		Address: property.Address{
			Line1:      m.AddressLine1,
			City:       m.City,
			Region:     m.Region,
			PostalCode: m.PostalCode,
			Country:    m.Country,
		},
		Type:         m.Type,
		Status:       m.Status,
		Units:        m.Units,
		PurchaseDate: m.PurchaseDate,
		Notes:        m.Notes,
		Financials: property.Financials{
			PurchasePrice:   m.PurchasePrice,
			CurrentValue:    m.CurrentValue,
			MortgageBalance: m.MortgageBalance,
			InterestRate:    m.InterestRate,
			MonthlyRent:     m.MonthlyRent,
			MonthlyMortgage: m.MonthlyMortgage,
			Expenses: property.MonthlyExpenses{
				PropertyTax: m.PropertyTax,
				Insurance:   m.Insurance,
				Maintenance: m.Maintenance,
				HOA:         m.HOA,
				Management:  m.Management,
			},
		},
	}
}

// PropertyModelFromDomain creates a persistence model from a domain Property
func PropertyModelFromDomain(p *property.Property) *PropertyModel {
	f := p.Financials
	m := &PropertyModel{
		Name:            p.Name,
		AddressLine1:    p.Address.Line1,
		City:            p.Address.City,
		Region:          p.Address.Region,
		PostalCode:      p.Address.PostalCode,
		Country:         p.Address.Country,
		Type:            p.Type,
		Status:          p.Status,
		Units:           p.Units,
		PurchaseDate:    p.PurchaseDate,
		Notes:           p.Notes,
		PurchasePrice:   f.PurchasePrice,
		CurrentValue:    f.CurrentValue,
		MortgageBalance: f.MortgageBalance,
		InterestRate:    f.InterestRate,
		MonthlyRent:     f.MonthlyRent,
		MonthlyMortgage: f.MonthlyMortgage,
		PropertyTax:     f.Expenses.PropertyTax,
		Insurance:       f.Expenses.Insurance,
		Maintenance:     f.Expenses.Maintenance,
		HOA:             f.Expenses.HOA,
		Management:      f.Expenses.Management,
	}
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	return m
}
