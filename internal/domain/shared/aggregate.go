package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries identity and timestamps. Timestamps are always UTC.
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity returns an entity with a fresh random id
func NewBaseEntity() BaseEntity {
	now := time.Now().UTC()
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

// Touch bumps UpdatedAt without changing the version, for writes that are
// not user edits (document processing state, last-used stamps)
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now().UTC()
}

// BaseAggregateRoot adds the optimistic-locking version. Repositories save
// with "WHERE version = loaded version" and fail with ErrConcurrencyConflict
// when another writer got there first.
type BaseAggregateRoot struct {
	BaseEntity
	Version int
}

// NewBaseAggregateRoot starts a new aggregate at version 1
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntity(), Version: 1}
}

// IncrementVersion records a user-visible change
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
	a.Touch()
}

// CheckVersion compares the version a client last saw with the current one
func (a *BaseAggregateRoot) CheckVersion(expected int) error {
	if a.Version == expected {
		return nil
	}
	return ErrConcurrencyConflict.
		WithDetail("expected_version", expected).
		WithDetail("current_version", a.Version)
}

// TenantAggregateRoot is an aggregate owned by one portfolio. The portfolio
// is the isolation boundary: repositories filter every query by PortfolioID.
type TenantAggregateRoot struct {
	BaseAggregateRoot
	PortfolioID uuid.UUID
	// CreatedBy is the auth provider subject of the creating user
	CreatedBy string
}

// NewTenantAggregateRoot starts a portfolio-scoped aggregate
func NewTenantAggregateRoot(portfolioID uuid.UUID, createdBy string) TenantAggregateRoot {
	return TenantAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		PortfolioID:       portfolioID,
		CreatedBy:         createdBy,
	}
}
