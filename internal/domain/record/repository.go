package record

import (
	"github.com/keystone/backend/internal/domain/shared"
)

// CommunicationRepository persists communications.
// Supported filter keys: property_id, channel, direction, occurred_from, occurred_to.
type CommunicationRepository interface {
	shared.TenantRepository[Communication]
}

// DecisionRepository persists decisions.
// Supported filter keys: property_id, status.
type DecisionRepository interface {
	shared.TenantRepository[Decision]
}

// RegistryRepository persists registry items.
// Supported filter keys: property_id, category, expires_before, expires_after.
type RegistryRepository interface {
	shared.TenantRepository[RegistryItem]
}
