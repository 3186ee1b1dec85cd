package extraction

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	documentapp "github.com/keystone/backend/internal/application/document"
)

// StubModel is reported as the model of stub extractions
const StubModel = "stub"

// StubExtractor returns deterministic fields without calling any API.
// Used in development and tests.
type StubExtractor struct{}

// NewStubExtractor creates a StubExtractor
func NewStubExtractor() *StubExtractor {
	return &StubExtractor{}
}

// Extract returns the requested keys of the category with placeholder values
// and a checksum of the content
func (StubExtractor) Extract(ctx context.Context, in documentapp.ExtractionInput) (*documentapp.ExtractionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sum := sha256.Sum256(in.Content)
	fields := map[string]any{
		"file_name": in.FileName,
		"sha256":    hex.EncodeToString(sum[:]),
		"bytes":     int64(len(in.Content)),
	}
	for _, key := range categoryFields[in.Category] {
		fields[key] = nil
	}
	return &documentapp.ExtractionResult{
		Fields:  fields,
		Summary: "Stub extraction of " + in.FileName,
		Model:   StubModel,
	}, nil
}
