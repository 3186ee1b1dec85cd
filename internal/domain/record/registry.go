package record

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RegistryCategory classifies a registry item
type RegistryCategory string

const (
	RegistryAppliance       RegistryCategory = "appliance"
	RegistryWarranty        RegistryCategory = "warranty"
	RegistryInsurancePolicy RegistryCategory = "insurance_policy"
	RegistryUtility         RegistryCategory = "utility"
	RegistryServiceContract RegistryCategory = "service_contract"
	RegistryKey             RegistryCategory = "key"
	RegistryOther           RegistryCategory = "other"
)

// IsValid reports whether c is a known registry category
func (c RegistryCategory) IsValid() bool {
	switch c {
	case RegistryAppliance, RegistryWarranty, RegistryInsurancePolicy, RegistryUtility,
		RegistryServiceContract, RegistryKey, RegistryOther:
		return true
	}
	return false
}

// ErrRegistryItemNotFound is returned when a registry item does not exist in the portfolio
var ErrRegistryItemNotFound = shared.NewDomainError("REGISTRY_ITEM_NOT_FOUND", "Registry item not found")

// RegistryItem is something the owner needs to keep track of: an appliance,
// a warranty, a policy, a utility account, a key
type RegistryItem struct {
	shared.TenantAggregateRoot
	PropertyID      *uuid.UUID
	Category        RegistryCategory
	Name            string
	Provider        string
	ReferenceNumber string
	Amount          *decimal.Decimal
	StartsOn        *time.Time
	ExpiresOn       *time.Time
	Notes           string
}

// RegistryInput carries the editable fields of a registry item
type RegistryInput struct {
	PropertyID      *uuid.UUID
	Category        RegistryCategory
	Name            string
	Provider        string
	ReferenceNumber string
	Amount          *decimal.Decimal
	StartsOn        *time.Time
	ExpiresOn       *time.Time
	Notes           string
}

// NewRegistryItem creates a registry item
func NewRegistryItem(portfolioID uuid.UUID, createdBy string, in RegistryInput) (*RegistryItem, error) {
	r := &RegistryItem{TenantAggregateRoot: shared.NewTenantAggregateRoot(portfolioID, createdBy)}
	if err := r.apply(in); err != nil {
		return nil, err
	}
	return r, nil
}

// Update replaces the editable fields
func (r *RegistryItem) Update(in RegistryInput) error {
	if err := r.apply(in); err != nil {
		return err
	}
	r.IncrementVersion()
	return nil
}

// ExpiresWithin reports whether the item expires between now and now+d
func (r *RegistryItem) ExpiresWithin(now time.Time, d time.Duration) bool {
	if r.ExpiresOn == nil {
		return false
	}
	return !r.ExpiresOn.Before(now) && !r.ExpiresOn.After(now.Add(d))
}

func (r *RegistryItem) apply(in RegistryInput) error {
	if in.Category == "" {
		in.Category = RegistryOther
	}
	if !in.Category.IsValid() {
		return shared.NewDomainErrorf("INVALID_CATEGORY", "Invalid registry category: %s", in.Category)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Registry item name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Registry item name cannot exceed 200 characters")
	}
	if in.Amount != nil && in.Amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	if in.StartsOn != nil && in.ExpiresOn != nil && in.ExpiresOn.Before(*in.StartsOn) {
		return shared.NewDomainError("INVALID_DATES", "Expiry date cannot be before the start date")
	}

	r.PropertyID = in.PropertyID
	r.Category = in.Category
	r.Name = name
	r.Provider = strings.TrimSpace(in.Provider)
	r.ReferenceNumber = strings.TrimSpace(in.ReferenceNumber)
	r.Amount = in.Amount
	r.StartsOn = in.StartsOn
	r.ExpiresOn = in.ExpiresOn
	r.Notes = in.Notes
	return nil
}
