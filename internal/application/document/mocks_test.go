package document

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/document"
	"github.com/keystone/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockDocumentRepository is a mock implementation of DocumentRepository
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) FindByIDForTenant(ctx context.Context, portfolioID, id uuid.UUID) (*document.Document, error) {
	args := m.Called(ctx, portfolioID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindAllForTenant(ctx context.Context, portfolioID uuid.UUID, filter shared.Filter) ([]document.Document, error) {
	args := m.Called(ctx, portfolioID, filter)
	return args.Get(0).([]document.Document), args.Error(1)
}

func (m *MockDocumentRepository) CountForTenant(ctx context.Context, portfolioID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, portfolioID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDocumentRepository) Save(ctx context.Context, d *document.Document) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDocumentRepository) DeleteForTenant(ctx context.Context, portfolioID, id uuid.UUID) error {
	return m.Called(ctx, portfolioID, id).Error(0)
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Document), args.Error(1)
}

func (m *MockDocumentRepository) SaveProcessingState(ctx context.Context, d *document.Document) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDocumentRepository) DetachProperty(ctx context.Context, portfolioID, propertyID uuid.UUID) error {
	return m.Called(ctx, portfolioID, propertyID).Error(0)
}

func (m *MockDocumentRepository) FailStale(ctx context.Context, cutoff time.Time, reason string, now time.Time) (int64, error) {
	args := m.Called(ctx, cutoff, reason, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockObjectStorage is a mock implementation of ObjectStorage
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	return m.Called(ctx, key, body, size, contentType).Error(0)
}

func (m *MockObjectStorage) Download(ctx context.Context, key string, maxBytes int64) ([]byte, error) {
	args := m.Called(ctx, key, maxBytes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockObjectStorage) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockObjectStorage) PresignDownload(ctx context.Context, key, fileName string, ttl time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, key, fileName, ttl)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) ObjectExists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// MockExtractor is a mock implementation of Extractor
type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(ctx context.Context, in ExtractionInput) (*ExtractionResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ExtractionResult), args.Error(1)
}

// MockPropertyChecker is a mock implementation of PropertyChecker
type MockPropertyChecker struct {
	mock.Mock
}

func (m *MockPropertyChecker) EnsureExists(ctx context.Context, portfolioID uuid.UUID, propertyID *uuid.UUID) error {
	return m.Called(ctx, portfolioID, propertyID).Error(0)
}

// MockTrigger is a mock implementation of Trigger
type MockTrigger struct {
	mock.Mock
}

func (m *MockTrigger) Trigger(ctx context.Context, documentID uuid.UUID) {
	m.Called(ctx, documentID)
}
