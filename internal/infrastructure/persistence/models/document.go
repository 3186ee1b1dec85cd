package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/document"
)

// DocumentModel is the persistence model for the Document aggregate
type DocumentModel struct {
	TenantAggregateModel
	PropertyID          *uuid.UUID                `gorm:"type:uuid;index"`
	Category            document.Category         `gorm:"type:varchar(20);not null;index"`
	FileName            string                    `gorm:"type:varchar(255);not null"`
	ContentType         string                    `gorm:"type:varchar(100);not null"`
	SizeBytes           int64                     `gorm:"not null"`
	StorageKey          string                    `gorm:"type:varchar(500);not null;uniqueIndex"`
	ProcessingStatus    document.ProcessingStatus `gorm:"type:varchar(20);not null;default:'none';index"`
	ExtractedFields     *string                   `gorm:"type:jsonb"`
	ExtractionSummary   string                    `gorm:"type:text;not null;default:''"`
	ExtractionModel     string                    `gorm:"type:varchar(100);not null;default:''"`
	ProcessingError     string                    `gorm:"type:text;not null;default:''"`
	ProcessingStartedAt *time.Time
	ProcessedAt         *time.Time
}

// TableName returns the table name for GORM
func (DocumentModel) TableName() string {
	return "documents"
}

// ToDomain converts the persistence model to a domain Document
func (m *DocumentModel) ToDomain() *document.Document {
	d := &document.Document{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		PropertyID:          m.PropertyID,
		Category:            m.Category,
		FileName:            m.FileName,
		ContentType:         m.ContentType,
		SizeBytes:           m.SizeBytes,
		StorageKey:          m.StorageKey,
		ProcessingStatus:    m.ProcessingStatus,
		ExtractionSummary:   m.ExtractionSummary,
		ExtractionModel:     m.ExtractionModel,
		ProcessingError:     m.ProcessingError,
		ProcessingStartedAt: m.ProcessingStartedAt,
		ProcessedAt:         m.ProcessedAt,
	}
	if m.ExtractedFields != nil {
		_ = json.Unmarshal([]byte(*m.ExtractedFields), &d.ExtractedFields)
	}
	return d
}

// DocumentModelFromDomain creates a persistence model from a domain Document
func DocumentModelFromDomain(d *document.Document) *DocumentModel {
	m := &DocumentModel{
		PropertyID:          d.PropertyID,
		Category:            d.Category,
		FileName:            d.FileName,
		ContentType:         d.ContentType,
		SizeBytes:           d.SizeBytes,
		StorageKey:          d.StorageKey,
		ProcessingStatus:    d.ProcessingStatus,
		ExtractedFields:     encodeFields(d.ExtractedFields),
		ExtractionSummary:   d.ExtractionSummary,
		ExtractionModel:     d.ExtractionModel,
		ProcessingError:     d.ProcessingError,
		ProcessingStartedAt: d.ProcessingStartedAt,
		ProcessedAt:         d.ProcessedAt,
	}
	m.FromDomainTenantAggregateRoot(d.TenantAggregateRoot)
	return m
}

// ProcessingColumns returns the column values written by SaveProcessingState
func (m *DocumentModel) ProcessingColumns() map[string]any {
	return map[string]any{
		"processing_status":     m.ProcessingStatus,
		"extracted_fields":      m.ExtractedFields,
		"extraction_summary":    m.ExtractionSummary,
		"extraction_model":      m.ExtractionModel,
		"processing_error":      m.ProcessingError,
		"processing_started_at": m.ProcessingStartedAt,
		"processed_at":          m.ProcessedAt,
		"updated_at":            m.UpdatedAt,
	}
}

// encodeFields stores a nil map as SQL NULL
func encodeFields(fields map[string]any) *string {
	if fields == nil {
		return nil
	}
	b, err := json.Marshal(fields)
	if err != nil {
		return nil
	}
	s := string(b)
	return &s
}
