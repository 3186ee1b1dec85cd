package document

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/document"
	"github.com/keystone/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ServiceConfig holds document upload and download settings
type ServiceConfig struct {
	MaxUploadSize int64
	PresignExpiry time.Duration
}

// Trigger starts background processing of a pending document
type Trigger interface {
	Trigger(ctx context.Context, documentID uuid.UUID)
}

// DocumentService handles document upload, retrieval and processing requests
type DocumentService struct {
	repo       document.DocumentRepository
	storage    ObjectStorage
	properties PropertyChecker
	processor  Trigger
	config     ServiceConfig
	logger     *zap.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(repo document.DocumentRepository, storage ObjectStorage, properties PropertyChecker,
	processor Trigger, config ServiceConfig, logger *zap.Logger) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.PresignExpiry <= 0 {
		config.PresignExpiry = 15 * time.Minute
	}
	return &DocumentService{
		repo:       repo,
		storage:    storage,
		properties: properties,
		processor:  processor,
		config:     config,
		logger:     logger,
	}
}

// Upload stores a file and creates its document row. When requested and the
// file type supports it, processing starts once the row is persisted.
func (s *DocumentService) Upload(ctx context.Context, portfolioID uuid.UUID, uploadedBy string, req UploadRequest, body io.Reader) (*DocumentResponse, error) {
	if err := s.properties.EnsureExists(ctx, portfolioID, req.PropertyID); err != nil {
		return nil, err
	}

	d, err := document.NewDocument(portfolioID, uploadedBy, req.PropertyID, document.Category(req.Category),
		req.FileName, req.ContentType, req.Size, s.config.MaxUploadSize)
	if err != nil {
		return nil, err
	}

	if err := s.storage.Upload(ctx, d.StorageKey, body, d.SizeBytes, d.ContentType); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, d); err != nil {
		if delErr := s.storage.Delete(context.WithoutCancel(ctx), d.StorageKey); delErr != nil {
			s.logger.Warn("Failed to remove orphaned upload",
				zap.String("storage_key", d.StorageKey),
				zap.Error(delErr),
			)
		}
		return nil, err
	}

	if req.Process && d.IsExtractable() {
		if err := s.startProcessing(ctx, d); err != nil {
			return nil, err
		}
	}

	s.logger.Info("Document uploaded",
		zap.String("portfolio_id", portfolioID.String()),
		zap.String("document_id", d.ID.String()),
		zap.String("category", string(d.Category)),
		zap.Int64("size_bytes", d.SizeBytes),
	)

	response := ToDocumentResponse(d)
	return &response, nil
}

// GetByID retrieves a document with a fresh download link. A failure to sign
// the link is logged and the link omitted.
func (s *DocumentService) GetByID(ctx context.Context, portfolioID, documentID uuid.UUID) (*DocumentResponse, error) {
	d, err := s.repo.FindByIDForTenant(ctx, portfolioID, documentID)
	if err != nil {
		return nil, err
	}

	response := ToDocumentResponse(d)
	url, expiresAt, err := s.storage.PresignDownload(ctx, d.StorageKey, d.FileName, s.config.PresignExpiry)
	if err != nil {
		s.logger.Warn("Failed to presign document download",
			zap.String("document_id", d.ID.String()),
			zap.Error(err),
		)
		return &response, nil
	}
	response.DownloadURL = url
	response.DownloadExpiresAt = &expiresAt
	return &response, nil
}

// List retrieves documents with filtering and pagination
func (s *DocumentService) List(ctx context.Context, portfolioID uuid.UUID, filter ListDocumentsFilter) ([]DocumentResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}.Normalize()
	if domainFilter.OrderBy == "" {
		domainFilter.OrderBy = "created_at"
	}
	if domainFilter.OrderDir == "" {
		domainFilter.OrderDir = "desc"
	}
	if filter.PropertyID != "" {
		domainFilter.Filters["property_id"] = filter.PropertyID
	}
	if filter.Category != "" {
		domainFilter.Filters["category"] = filter.Category
	}
	if filter.ProcessingStatus != "" {
		domainFilter.Filters["processing_status"] = filter.ProcessingStatus
	}

	docs, err := s.repo.FindAllForTenant(ctx, portfolioID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountForTenant(ctx, portfolioID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]DocumentResponse, 0, len(docs))
	for i := range docs {
		responses = append(responses, ToDocumentResponse(&docs[i]))
	}
	return responses, total, nil
}

// DownloadURL signs a time-limited download link
func (s *DocumentService) DownloadURL(ctx context.Context, portfolioID, documentID uuid.UUID) (*DownloadResponse, error) {
	d, err := s.repo.FindByIDForTenant(ctx, portfolioID, documentID)
	if err != nil {
		return nil, err
	}
	url, expiresAt, err := s.storage.PresignDownload(ctx, d.StorageKey, d.FileName, s.config.PresignExpiry)
	if err != nil {
		return nil, err
	}
	return &DownloadResponse{URL: url, ExpiresAt: expiresAt}, nil
}

// Reprocess queues a new extraction run
func (s *DocumentService) Reprocess(ctx context.Context, portfolioID, documentID uuid.UUID) (*DocumentResponse, error) {
	d, err := s.repo.FindByIDForTenant(ctx, portfolioID, documentID)
	if err != nil {
		return nil, err
	}
	if err := s.startProcessing(ctx, d); err != nil {
		return nil, err
	}
	response := ToDocumentResponse(d)
	return &response, nil
}

// Delete removes the row, then the stored file. A failure removing the file
// is logged only.
func (s *DocumentService) Delete(ctx context.Context, portfolioID, documentID uuid.UUID) error {
	d, err := s.repo.FindByIDForTenant(ctx, portfolioID, documentID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteForTenant(ctx, portfolioID, documentID); err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, d.StorageKey); err != nil && !errors.Is(err, ErrObjectNotFound) {
		s.logger.Warn("Failed to delete document object",
			zap.String("document_id", d.ID.String()),
			zap.String("storage_key", d.StorageKey),
			zap.Error(err),
		)
	}
	return nil
}

// startProcessing marks d pending, persists it under its version and hands
// it to the processor
func (s *DocumentService) startProcessing(ctx context.Context, d *document.Document) error {
	if err := d.MarkPending(); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, d); err != nil {
		return err
	}
	s.processor.Trigger(ctx, d.ID)
	return nil
}
