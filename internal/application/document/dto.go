package document

import (
	"time"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/document"
)

// UploadRequest carries the form fields of a multipart upload
type UploadRequest struct {
	PropertyID *uuid.UUID
	Category   string
	FileName   string
	// ContentType is the declared type; the handler sniffs it when missing
	ContentType string
	Size        int64
	// Process starts extraction right after upload when the file supports it
	Process bool
}

// DocumentResponse represents a document in API responses
type DocumentResponse struct {
	ID                  uuid.UUID      `json:"id"`
	PortfolioID         uuid.UUID      `json:"portfolio_id"`
	PropertyID          *uuid.UUID     `json:"property_id,omitempty"`
	Category            string         `json:"category"`
	FileName            string         `json:"file_name"`
	ContentType         string         `json:"content_type"`
	SizeBytes           int64          `json:"size_bytes"`
	UploadedBy          string         `json:"uploaded_by"`
	ProcessingStatus    string         `json:"processing_status"`
	Extractable         bool           `json:"extractable"`
	ExtractedFields     map[string]any `json:"extracted_fields"`
	ExtractionSummary   string         `json:"extraction_summary,omitempty"`
	ExtractionModel     string         `json:"extraction_model,omitempty"`
	ProcessingError     string         `json:"processing_error,omitempty"`
	ProcessingStartedAt *time.Time     `json:"processing_started_at,omitempty"`
	ProcessedAt         *time.Time     `json:"processed_at,omitempty"`
	DownloadURL         string         `json:"download_url,omitempty"`
	DownloadExpiresAt   *time.Time     `json:"download_expires_at,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	Version             int            `json:"version"`
}

// ListDocumentsFilter represents list parameters for documents
type ListDocumentsFilter struct {
	Page             int    `form:"page" binding:"omitempty,min=1"`
	PageSize         int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy          string `form:"order_by" binding:"omitempty,oneof=created_at file_name category size_bytes"`
	OrderDir         string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search           string `form:"search" binding:"max=100"`
	PropertyID       string `form:"property_id" binding:"omitempty,uuid"`
	Category         string `form:"category" binding:"omitempty,oneof=lease tax insurance mortgage inspection receipt other"`
	ProcessingStatus string `form:"processing_status" binding:"omitempty,oneof=none pending processing completed failed"`
}

// DownloadResponse is a pre-signed download link
type DownloadResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ToDocumentResponse converts a domain document to a response
func ToDocumentResponse(d *document.Document) DocumentResponse {
	fields := d.ExtractedFields
	if fields == nil {
		fields = map[string]any{}
	}
	return DocumentResponse{
		ID:                  d.ID,
		PortfolioID:         d.PortfolioID,
		PropertyID:          d.PropertyID,
		Category:            string(d.Category),
		FileName:            d.FileName,
		ContentType:         d.ContentType,
		SizeBytes:           d.SizeBytes,
		UploadedBy:          d.CreatedBy,
		ProcessingStatus:    string(d.ProcessingStatus),
		Extractable:         d.IsExtractable(),
		ExtractedFields:     fields,
		ExtractionSummary:   d.ExtractionSummary,
		ExtractionModel:     d.ExtractionModel,
		ProcessingError:     d.ProcessingError,
		ProcessingStartedAt: d.ProcessingStartedAt,
		ProcessedAt:         d.ProcessedAt,
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
		Version:             d.Version,
	}
}
