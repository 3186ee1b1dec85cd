package shared

import (
	"context"

	"github.com/google/uuid"
)

// TenantRepository is the common read surface of portfolio-scoped repositories
type TenantRepository[T any] interface {
	FindByIDForTenant(ctx context.Context, portfolioID, id uuid.UUID) (*T, error)
	FindAllForTenant(ctx context.Context, portfolioID uuid.UUID, filter Filter) ([]T, error)
	CountForTenant(ctx context.Context, portfolioID uuid.UUID, filter Filter) (int64, error)
	Save(ctx context.Context, entity *T) error
	DeleteForTenant(ctx context.Context, portfolioID, id uuid.UUID) error
}

// Page size bounds applied by Filter.Normalize
const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	// MaxPage keeps Offset far from int overflow
	MaxPage = 1_000_000
)

// Filter carries paging, ordering, free-text search and exact-match column
// filters for list queries
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]any
}

// DefaultFilter returns the first page ordered newest first
func DefaultFilter() Filter {
	return Filter{OrderBy: "created_at", OrderDir: "desc"}.Normalize()
}

// Normalize clamps Page into [1, MaxPage], PageSize into [1, MaxPageSize]
// and allocates Filters
func (f Filter) Normalize() Filter {
	f.Page = min(max(f.Page, 1), MaxPage)
	switch {
	case f.PageSize < 1:
		f.PageSize = DefaultPageSize
	case f.PageSize > MaxPageSize:
		f.PageSize = MaxPageSize
	}
	if f.Filters == nil {
		f.Filters = map[string]any{}
	}
	return f
}

// Offset is the number of rows before the current page
func (f Filter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}
