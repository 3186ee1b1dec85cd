package document

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
)

// ErrObjectNotFound is returned by ObjectStorage when a key does not exist
var ErrObjectNotFound = errors.New("object not found")

// ObjectStorage stores document files.
// Implemented by the infrastructure layer (S3-compatible storage, in-memory).
type ObjectStorage interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	// Download reads the whole object, failing when it exceeds maxBytes
	Download(ctx context.Context, key string, maxBytes int64) ([]byte, error)
	Delete(ctx context.Context, key string) error
	// PresignDownload returns a time-limited GET URL that downloads as fileName
	PresignDownload(ctx context.Context, key, fileName string, ttl time.Duration) (string, time.Time, error)
	ObjectExists(ctx context.Context, key string) (bool, error)
}

// ExtractionInput is a file sent for AI extraction
type ExtractionInput struct {
	FileName    string
	ContentType string
	Category    string
	Content     []byte
}

// ExtractionResult is the structured data extracted from a file
type ExtractionResult struct {
	Fields       map[string]any
	Summary      string
	Model        string
	InputTokens  int
	OutputTokens int
}

// Extractor turns a document into structured fields
type Extractor interface {
	Extract(ctx context.Context, in ExtractionInput) (*ExtractionResult, error)
}

// PropertyChecker verifies that a property belongs to a portfolio
type PropertyChecker interface {
	EnsureExists(ctx context.Context, portfolioID uuid.UUID, propertyID *uuid.UUID) error
}

// ProcessingMetrics records processing outcomes
type ProcessingMetrics interface {
	RecordDocumentProcessed(ctx context.Context, category, status string, duration time.Duration)
}
