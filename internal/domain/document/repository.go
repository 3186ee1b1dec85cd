package document

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/shared"
)

// DocumentRepository persists documents
type DocumentRepository interface {
	shared.TenantRepository[Document]
	// FindByID loads a document regardless of tenant; used by background processing
	FindByID(ctx context.Context, id uuid.UUID) (*Document, error)
	// SaveProcessingState writes only the processing columns of one row
	SaveProcessingState(ctx context.Context, d *Document) error
	// DetachProperty clears property_id on the portfolio's documents of a deleted property
	DetachProperty(ctx context.Context, portfolioID, propertyID uuid.UUID) error
	// FailStale marks rows stuck in pending/processing since before cutoff as failed
	FailStale(ctx context.Context, cutoff time.Time, reason string, now time.Time) (int64, error)
}
