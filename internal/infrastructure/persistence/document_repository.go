package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/document"
	"github.com/keystone/backend/internal/domain/shared"
	"github.com/keystone/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormDocumentRepository implements DocumentRepository using GORM
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository creates a new GormDocumentRepository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

// FindByID finds a document in any portfolio
func (r *GormDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	var model models.DocumentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, document.ErrDocumentNotFound)
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a document of a portfolio
func (r *GormDocumentRepository) FindByIDForTenant(ctx context.Context, portfolioID, id uuid.UUID) (*document.Document, error) {
	var model models.DocumentModel
	if err := r.db.WithContext(ctx).
		Scopes(forPortfolio(portfolioID)).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, document.ErrDocumentNotFound)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists the documents of a portfolio
func (r *GormDocumentRepository) FindAllForTenant(ctx context.Context, portfolioID uuid.UUID, filter shared.Filter) ([]document.Document, error) {
	var documentModels []models.DocumentModel
	if err := r.filtered(ctx, portfolioID, filter).
		Scopes(orderBy(filter, DocumentSortFields, "created_at"), paginate(filter)).
		Find(&documentModels).Error; err != nil {
		return nil, err
	}

	docs := make([]document.Document, len(documentModels))
	for i, model := range documentModels {
		docs[i] = *model.ToDomain()
	}
	return docs, nil
}

// CountForTenant counts the documents of a portfolio
func (r *GormDocumentRepository) CountForTenant(ctx context.Context, portfolioID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.filtered(ctx, portfolioID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormDocumentRepository) filtered(ctx context.Context, portfolioID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.DocumentModel{}).
		Scopes(forPortfolio(portfolioID), search(filter.Search, "file_name", "extraction_summary"))

	for key, value := range filter.Filters {
		switch key {
		case "property_id":
			query = query.Where("property_id = ?", value)
		case "category":
			query = query.Where("category = ?", value)
		case "processing_status":
			query = query.Where("processing_status = ?", value)
		}
	}
	return query
}

// Save inserts or updates a document with optimistic locking
func (r *GormDocumentRepository) Save(ctx context.Context, d *document.Document) error {
	return saveVersioned(r.db.WithContext(ctx), models.DocumentModelFromDomain(d), d.Version,
		"portfolio_id", "created_by", "storage_key")
}

// SaveProcessingState writes only the processing columns. Processing does not
// bump the version, so the row must still carry the version MarkPending set;
// a reprocess or stale sweep in between makes the write a conflict.
func (r *GormDocumentRepository) SaveProcessingState(ctx context.Context, d *document.Document) error {
	model := models.DocumentModelFromDomain(d)
	result := r.db.WithContext(ctx).Model(&models.DocumentModel{}).
		Where("id = ? AND version = ?", d.ID, d.Version).
		Updates(model.ProcessingColumns())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// DetachProperty clears property_id on the documents of a deleted property
func (r *GormDocumentRepository) DetachProperty(ctx context.Context, portfolioID, propertyID uuid.UUID) error {
	return detachProperty(r.db.WithContext(ctx), &models.DocumentModel{}, portfolioID, propertyID)
}

// FailStale marks documents stuck in pending or processing since before
// cutoff as failed
func (r *GormDocumentRepository) FailStale(ctx context.Context, cutoff time.Time, reason string, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.DocumentModel{}).
		Where("processing_status IN ? AND COALESCE(processing_started_at, updated_at) < ?",
			[]document.ProcessingStatus{document.ProcessingPending, document.ProcessingProcessing}, cutoff).
		Updates(map[string]any{
			"processing_status": document.ProcessingFailed,
			"processing_error":  reason,
			"processed_at":      now,
			"version":           gorm.Expr("version + 1"),
			"updated_at":        now,
		})
	return result.RowsAffected, result.Error
}

// DeleteForTenant deletes a document of a portfolio
func (r *GormDocumentRepository) DeleteForTenant(ctx context.Context, portfolioID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Scopes(forPortfolio(portfolioID)).Delete(&models.DocumentModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return document.ErrDocumentNotFound
	}
	return nil
}

// Ensure GormDocumentRepository implements DocumentRepository
var _ document.DocumentRepository = (*GormDocumentRepository)(nil)
