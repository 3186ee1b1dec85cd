package property

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/shared"
)

// PropertyType classifies a property
type PropertyType string

const (
	TypeSingleFamily PropertyType = "single_family"
	TypeMultiFamily  PropertyType = "multi_family"
	TypeCondo        PropertyType = "condo"
	TypeTownhouse    PropertyType = "townhouse"
	TypeCommercial   PropertyType = "commercial"
	TypeLand         PropertyType = "land"
)

// IsValid reports whether t is a known property type
func (t PropertyType) IsValid() bool {
	switch t {
	case TypeSingleFamily, TypeMultiFamily, TypeCondo, TypeTownhouse, TypeCommercial, TypeLand:
		return true
	}
	return false
}

// Status is the ownership status of a property
type Status string

const (
	StatusOwned         Status = "owned"
	StatusUnderContract Status = "under_contract"
	StatusSold          Status = "sold"
)

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	switch s {
	case StatusOwned, StatusUnderContract, StatusSold:
		return true
	}
	return false
}

// ErrPropertyNotFound is returned when a property does not exist in the portfolio
var ErrPropertyNotFound = shared.NewDomainError("PROPERTY_NOT_FOUND", "Property not found")

// Address is the postal address of a property
type Address struct {
	Line1      string
	City       string
	Region     string
	PostalCode string
	Country    string
}

// Property is a real-estate asset held in a portfolio
type Property struct {
	shared.TenantAggregateRoot
	Name         string
	Address      Address
	Type         PropertyType
	Status       Status
	Units        int
	PurchaseDate *time.Time
	Notes        string
	Financials   Financials
}

// Details are the descriptive, user-editable fields of a property
type Details struct {
	Name         string
	Address      Address
	Type         PropertyType
	Status       Status
	Units        int
	PurchaseDate *time.Time
	Notes        string
}

// NewProperty creates a property in a portfolio
func NewProperty(portfolioID uuid.UUID, createdBy string, d Details) (*Property, error) {
	p := &Property{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(portfolioID, createdBy),
		Financials:          ZeroFinancials(),
	}
	if d.Status == "" {
		d.Status = StatusOwned
	}
	if d.Units == 0 {
		d.Units = 1
	}
	if err := p.apply(d); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces the descriptive fields
func (p *Property) Update(d Details) error {
	if err := p.apply(d); err != nil {
		return err
	}
	p.IncrementVersion()
	return nil
}

// UpdateFinancials replaces the financial figures
func (p *Property) UpdateFinancials(f Financials) error {
	if err := f.Validate(); err != nil {
		return err
	}
	p.Financials = f
	p.IncrementVersion()
	return nil
}

// IsHeld reports whether the property still counts towards the portfolio
func (p *Property) IsHeld() bool {
	return p.Status != StatusSold
}

func (p *Property) apply(d Details) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Property name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Property name cannot exceed 200 characters")
	}
	if !d.Type.IsValid() {
		return shared.NewDomainErrorf("INVALID_TYPE", "Invalid property type: %s", d.Type)
	}
	if !d.Status.IsValid() {
		return shared.NewDomainErrorf("INVALID_STATUS", "Invalid property status: %s", d.Status)
	}
	if d.Units < 1 {
		return shared.NewDomainError("INVALID_UNITS", "A property has at least one unit")
	}
	if d.PurchaseDate != nil && d.PurchaseDate.After(time.Now().Add(24*time.Hour)) {
		return shared.NewDomainError("INVALID_PURCHASE_DATE", "Purchase date cannot be in the future")
	}

	p.Name = name
	p.Address = Address{
		Line1:      strings.TrimSpace(d.Address.Line1),
		City:       strings.TrimSpace(d.Address.City),
		Region:     strings.TrimSpace(d.Address.Region),
		PostalCode: strings.TrimSpace(d.Address.PostalCode),
		Country:    strings.ToUpper(strings.TrimSpace(d.Address.Country)),
	}
	p.Type = d.Type
	p.Status = d.Status
	p.Units = d.Units
	p.PurchaseDate = d.PurchaseDate
	p.Notes = d.Notes
	return nil
}
