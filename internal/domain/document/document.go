package document

import (
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/shared"
)

// Category classifies a document
type Category string

const (
	CategoryLease      Category = "lease"
	CategoryTax        Category = "tax"
	CategoryInsurance  Category = "insurance"
	CategoryMortgage   Category = "mortgage"
	CategoryInspection Category = "inspection"
	CategoryReceipt    Category = "receipt"
	CategoryOther      Category = "other"
)

// IsValid reports whether c is a known category
func (c Category) IsValid() bool {
	switch c {
	case CategoryLease, CategoryTax, CategoryInsurance, CategoryMortgage,
		CategoryInspection, CategoryReceipt, CategoryOther:
		return true
	}
	return false
}

// ProcessingStatus tracks AI extraction of a document
type ProcessingStatus string

const (
	ProcessingNone       ProcessingStatus = "none"
	ProcessingPending    ProcessingStatus = "pending"
	ProcessingProcessing ProcessingStatus = "processing"
	ProcessingCompleted  ProcessingStatus = "completed"
	ProcessingFailed     ProcessingStatus = "failed"
)

// IsInFlight reports whether a run is queued or executing
func (s ProcessingStatus) IsInFlight() bool {
	return s == ProcessingPending || s == ProcessingProcessing
}

// allowedContentTypes maps accepted MIME types to the file extension used in storage keys
var allowedContentTypes = map[string]string{
	"application/pdf": ".pdf",
	"image/png":       ".png",
	"image/jpeg":      ".jpg",
	"image/webp":      ".webp",
	"image/tiff":      ".tiff",
	"text/plain":      ".txt",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
}

// IsAllowedContentType reports whether documents of this MIME type may be uploaded
func IsAllowedContentType(contentType string) bool {
	_, ok := allowedContentTypes[normalizeContentType(contentType)]
	return ok
}

func normalizeContentType(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

// Errors
var (
	ErrDocumentNotFound   = shared.NewDomainError("DOCUMENT_NOT_FOUND", "Document not found")
	ErrUnsupportedType    = shared.NewDomainError("UNSUPPORTED_CONTENT_TYPE", "This file type is not supported")
	ErrFileTooLarge       = shared.NewDomainError("FILE_TOO_LARGE", "File exceeds the maximum upload size")
	ErrEmptyFile          = shared.NewDomainError("EMPTY_FILE", "File is empty")
	ErrProcessingInFlight = shared.NewDomainError("PROCESSING_IN_PROGRESS", "Document is already being processed")
	ErrNotExtractable     = shared.NewDomainError("NOT_EXTRACTABLE", "Documents of this type cannot be processed")
)

// StaleProcessingReason is recorded on runs that never finished
const StaleProcessingReason = "processing interrupted"

// Document is an uploaded file and the result of its AI extraction
type Document struct {
	shared.TenantAggregateRoot
	PropertyID          *uuid.UUID
	Category            Category
	FileName            string
	ContentType         string
	SizeBytes           int64
	StorageKey          string
	ProcessingStatus    ProcessingStatus
	ExtractedFields     map[string]any
	ExtractionSummary   string
	ExtractionModel     string
	ProcessingError     string
	ProcessingStartedAt *time.Time
	ProcessedAt         *time.Time
}

// NewDocument creates a document for a file about to be stored
func NewDocument(portfolioID uuid.UUID, uploadedBy string, propertyID *uuid.UUID, category Category,
	fileName, contentType string, size, maxSize int64) (*Document, error) {
	if category == "" {
		category = CategoryOther
	}
	if !category.IsValid() {
		return nil, shared.NewDomainErrorf("INVALID_CATEGORY", "Invalid document category: %s", category)
	}
	contentType = normalizeContentType(contentType)
	ext, ok := allowedContentTypes[contentType]
	if !ok {
		return nil, ErrUnsupportedType.WithDetail("content_type", contentType)
	}
	if size <= 0 {
		return nil, ErrEmptyFile
	}
	if maxSize > 0 && size > maxSize {
		return nil, ErrFileTooLarge.WithDetail("max_bytes", maxSize)
	}

	fileName = sanitizeFileName(fileName)
	if fileName == "" {
		fileName = "document" + ext
	}

	d := &Document{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(portfolioID, uploadedBy),
		PropertyID:          propertyID,
		Category:            category,
		FileName:            fileName,
		ContentType:         contentType,
		SizeBytes:           size,
		ProcessingStatus:    ProcessingNone,
		ExtractedFields:     map[string]any{},
	}
	d.StorageKey = StorageKey(portfolioID, d.ID, ext)
	return d, nil
}

// StorageKey returns the object key of a document file
func StorageKey(portfolioID, documentID uuid.UUID, ext string) string {
	return "portfolios/" + portfolioID.String() + "/documents/" + documentID.String() + ext
}

func sanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, name)
	for utf8.RuneCountInString(name) > 255 {
		_, size := utf8.DecodeLastRuneInString(name)
		name = name[:len(name)-size]
	}
	return name
}

// IsExtractable reports whether the document can be sent for AI extraction
func (d *Document) IsExtractable() bool {
	switch d.ContentType {
	case "application/pdf", "image/png", "image/jpeg", "image/webp", "text/plain":
		return true
	}
	return false
}

// CanProcess reports whether a processing run may be started now
func (d *Document) CanProcess() error {
	if d.ProcessingStatus.IsInFlight() {
		return ErrProcessingInFlight
	}
	if !d.IsExtractable() {
		return ErrNotExtractable.WithDetail("content_type", d.ContentType)
	}
	return nil
}

// MarkPending queues the document for processing and clears the previous result
func (d *Document) MarkPending() error {
	if err := d.CanProcess(); err != nil {
		return err
	}
	d.ProcessingStatus = ProcessingPending
	d.ProcessingError = ""
	d.ProcessingStartedAt = nil
	d.ProcessedAt = nil
	d.IncrementVersion()
	return nil
}

// MarkProcessing records that a run started
func (d *Document) MarkProcessing(now time.Time) {
	at := now.UTC()
	d.ProcessingStatus = ProcessingProcessing
	d.ProcessingStartedAt = &at
	d.Touch()
}

// Complete stores a successful extraction
func (d *Document) Complete(fields map[string]any, summary, model string, now time.Time) {
	at := now.UTC()
	if fields == nil {
		fields = map[string]any{}
	}
	d.ProcessingStatus = ProcessingCompleted
	d.ExtractedFields = fields
	d.ExtractionSummary = summary
	d.ExtractionModel = model
	d.ProcessingError = ""
	d.ProcessedAt = &at
	d.Touch()
}

// Fail stores a failed extraction. Previously extracted fields are kept.
func (d *Document) Fail(reason string, now time.Time) {
	at := now.UTC()
	if utf8.RuneCountInString(reason) > 1000 {
		reason = string([]rune(reason)[:1000])
	}
	d.ProcessingStatus = ProcessingFailed
	d.ProcessingError = reason
	d.ProcessedAt = &at
	d.Touch()
}
