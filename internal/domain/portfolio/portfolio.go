package portfolio

import (
	"strings"
	"unicode/utf8"

	"github.com/keystone/backend/internal/domain/shared"
)

// ErrPortfolioNotFound is returned when a portfolio does not exist
var ErrPortfolioNotFound = shared.NewDomainError("PORTFOLIO_NOT_FOUND", "Portfolio not found")

// DefaultCurrency is used when a portfolio is created without a base currency
const DefaultCurrency = "USD"

// Portfolio is the tenant of the customer API. Every property, document and
// record belongs to exactly one portfolio.
type Portfolio struct {
	shared.BaseAggregateRoot
	Name         string
	Description  string
	BaseCurrency string
	OwnerID      string
}

// NewPortfolio creates a portfolio owned by ownerID
func NewPortfolio(name, description, currency, ownerID string) (*Portfolio, error) {
	if ownerID == "" {
		return nil, shared.NewDomainError("INVALID_OWNER", "Portfolio owner is required")
	}
	p := &Portfolio{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OwnerID:           ownerID,
	}
	if err := p.apply(name, description, currency); err != nil {
		return nil, err
	}
	return p, nil
}

// Update changes the descriptive fields of the portfolio
func (p *Portfolio) Update(name, description, currency string) error {
	if err := p.apply(name, description, currency); err != nil {
		return err
	}
	p.IncrementVersion()
	return nil
}

func (p *Portfolio) apply(name, description, currency string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Portfolio name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Portfolio name cannot exceed 200 characters")
	}
	if utf8.RuneCountInString(description) > 2000 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 2000 characters")
	}
	code, err := normalizeCurrency(currency)
	if err != nil {
		return err
	}

	p.Name = name
	p.Description = strings.TrimSpace(description)
	p.BaseCurrency = code
	return nil
}

func normalizeCurrency(currency string) (string, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return DefaultCurrency, nil
	}
	if len(currency) != 3 {
		return "", shared.NewDomainError("INVALID_CURRENCY", "Currency must be a 3-letter ISO 4217 code")
	}
	for _, r := range currency {
		if r < 'A' || r > 'Z' {
			return "", shared.NewDomainError("INVALID_CURRENCY", "Currency must be a 3-letter ISO 4217 code")
		}
	}
	return currency, nil
}
