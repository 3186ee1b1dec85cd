package property

import (
	"context"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/shared"
)

// PropertyRepository persists properties
type PropertyRepository interface {
	shared.TenantRepository[Property]
	// FindAllHeld returns every property of the portfolio that is not sold
	FindAllHeld(ctx context.Context, portfolioID uuid.UUID) ([]Property, error)
	ExistsForTenant(ctx context.Context, portfolioID, id uuid.UUID) (bool, error)
}
