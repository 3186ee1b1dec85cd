package document

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/document"
	"github.com/keystone/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type serviceFixture struct {
	repo       *MockDocumentRepository
	storage    *MockObjectStorage
	properties *MockPropertyChecker
	trigger    *MockTrigger
	service    *DocumentService
}

func newServiceFixture(t *testing.T) *serviceFixture {
	f := &serviceFixture{
		repo:       new(MockDocumentRepository),
		storage:    new(MockObjectStorage),
		properties: new(MockPropertyChecker),
		trigger:    new(MockTrigger),
	}
	f.service = NewDocumentService(f.repo, f.storage, f.properties, f.trigger,
		ServiceConfig{MaxUploadSize: 1024, PresignExpiry: time.Minute}, zaptest.NewLogger(t))
	return f
}

func storedDocument(t *testing.T, portfolioID uuid.UUID, contentType string) *document.Document {
	d, err := document.NewDocument(portfolioID, "user_1", nil, document.CategoryLease, "lease.pdf", contentType, 10, 0)
	require.NoError(t, err)
	return d
}

func TestDocumentService_Upload(t *testing.T) {
	pid := uuid.New()

	t.Run("stores, saves and triggers processing", func(t *testing.T) {
		f := newServiceFixture(t)
		f.properties.On("EnsureExists", mock.Anything, pid, (*uuid.UUID)(nil)).Return(nil)
		f.storage.On("Upload", mock.Anything, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "portfolios/"+pid.String()+"/documents/") && strings.HasSuffix(key, ".pdf")
		}), mock.Anything, int64(10), "application/pdf").Return(nil)

		var versions []int
		f.repo.On("Save", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			versions = append(versions, args.Get(1).(*document.Document).Version)
		}).Return(nil)
		f.trigger.On("Trigger", mock.Anything, mock.Anything).Return()

		resp, err := f.service.Upload(context.Background(), pid, "user_1", UploadRequest{
			Category:    "lease",
			FileName:    "lease.pdf",
			ContentType: "application/pdf",
			Size:        10,
			Process:     true,
		}, strings.NewReader("0123456789"))
		require.NoError(t, err)

		assert.Equal(t, "pending", resp.ProcessingStatus)
		assert.Equal(t, []int{1, 2}, versions)
		f.trigger.AssertCalled(t, "Trigger", mock.Anything, resp.ID)
	})

	t.Run("does not trigger for non-extractable types", func(t *testing.T) {
		f := newServiceFixture(t)
		f.properties.On("EnsureExists", mock.Anything, pid, (*uuid.UUID)(nil)).Return(nil)
		f.storage.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		f.repo.On("Save", mock.Anything, mock.Anything).Return(nil).Once()

		resp, err := f.service.Upload(context.Background(), pid, "user_1", UploadRequest{
			FileName:    "scan.tiff",
			ContentType: "image/tiff",
			Size:        10,
			Process:     true,
		}, strings.NewReader("0123456789"))
		require.NoError(t, err)
		assert.Equal(t, "none", resp.ProcessingStatus)
		assert.False(t, resp.Extractable)
		f.trigger.AssertNotCalled(t, "Trigger", mock.Anything, mock.Anything)
	})

	t.Run("rejects oversized files before storing", func(t *testing.T) {
		f := newServiceFixture(t)
		f.properties.On("EnsureExists", mock.Anything, pid, (*uuid.UUID)(nil)).Return(nil)

		_, err := f.service.Upload(context.Background(), pid, "user_1", UploadRequest{
			FileName:    "big.pdf",
			ContentType: "application/pdf",
			Size:        4096,
		}, strings.NewReader(""))
		assert.ErrorIs(t, err, document.ErrFileTooLarge)
		f.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects a property outside the portfolio", func(t *testing.T) {
		f := newServiceFixture(t)
		propertyID := uuid.New()
		f.properties.On("EnsureExists", mock.Anything, pid, &propertyID).Return(shared.NewDomainError("PROPERTY_NOT_FOUND", "Property not found"))

		_, err := f.service.Upload(context.Background(), pid, "user_1", UploadRequest{
			PropertyID:  &propertyID,
			FileName:    "a.pdf",
			ContentType: "application/pdf",
			Size:        10,
		}, strings.NewReader("0123456789"))
		require.Error(t, err)
		f.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("removes the object when the row cannot be saved", func(t *testing.T) {
		f := newServiceFixture(t)
		f.properties.On("EnsureExists", mock.Anything, pid, (*uuid.UUID)(nil)).Return(nil)
		f.storage.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		f.repo.On("Save", mock.Anything, mock.Anything).Return(errors.New("db down"))
		f.storage.On("Delete", mock.Anything, mock.Anything).Return(nil)

		_, err := f.service.Upload(context.Background(), pid, "user_1", UploadRequest{
			FileName:    "a.pdf",
			ContentType: "application/pdf",
			Size:        10,
			Process:     true,
		}, strings.NewReader("0123456789"))
		require.Error(t, err)
		f.storage.AssertNumberOfCalls(t, "Delete", 1)
		f.trigger.AssertNotCalled(t, "Trigger", mock.Anything, mock.Anything)
	})
}

func TestDocumentService_GetByID(t *testing.T) {
	pid := uuid.New()
	d := storedDocument(t, pid, "application/pdf")
	expires := time.Now().Add(time.Minute)

	t.Run("includes a download link", func(t *testing.T) {
		f := newServiceFixture(t)
		f.repo.On("FindByIDForTenant", mock.Anything, pid, d.ID).Return(d, nil)
		f.storage.On("PresignDownload", mock.Anything, d.StorageKey, "lease.pdf", time.Minute).
			Return("https://files.example/x", expires, nil)

		resp, err := f.service.GetByID(context.Background(), pid, d.ID)
		require.NoError(t, err)
		assert.Equal(t, "https://files.example/x", resp.DownloadURL)
		require.NotNil(t, resp.DownloadExpiresAt)
	})

	t.Run("omits the link when signing fails", func(t *testing.T) {
		f := newServiceFixture(t)
		f.repo.On("FindByIDForTenant", mock.Anything, pid, d.ID).Return(d, nil)
		f.storage.On("PresignDownload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return("", time.Time{}, errors.New("signer down"))

		resp, err := f.service.GetByID(context.Background(), pid, d.ID)
		require.NoError(t, err)
		assert.Empty(t, resp.DownloadURL)
		assert.Nil(t, resp.DownloadExpiresAt)
	})
}

func TestDocumentService_Reprocess(t *testing.T) {
	pid := uuid.New()

	t.Run("rejects while a run is in flight", func(t *testing.T) {
		f := newServiceFixture(t)
		d := storedDocument(t, pid, "application/pdf")
		require.NoError(t, d.MarkPending())
		f.repo.On("FindByIDForTenant", mock.Anything, pid, d.ID).Return(d, nil)

		_, err := f.service.Reprocess(context.Background(), pid, d.ID)
		assert.ErrorIs(t, err, document.ErrProcessingInFlight)
		f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("requeues a failed document", func(t *testing.T) {
		f := newServiceFixture(t)
		d := storedDocument(t, pid, "application/pdf")
		d.Fail("boom", time.Now())
		f.repo.On("FindByIDForTenant", mock.Anything, pid, d.ID).Return(d, nil)
		f.repo.On("Save", mock.Anything, d).Return(nil)
		f.trigger.On("Trigger", mock.Anything, d.ID).Return()

		resp, err := f.service.Reprocess(context.Background(), pid, d.ID)
		require.NoError(t, err)
		assert.Equal(t, "pending", resp.ProcessingStatus)
		assert.Empty(t, resp.ProcessingError)
		f.trigger.AssertExpectations(t)
	})

	t.Run("surfaces a version conflict without triggering", func(t *testing.T) {
		f := newServiceFixture(t)
		d := storedDocument(t, pid, "application/pdf")
		f.repo.On("FindByIDForTenant", mock.Anything, pid, d.ID).Return(d, nil)
		f.repo.On("Save", mock.Anything, d).Return(shared.ErrConcurrencyConflict)

		_, err := f.service.Reprocess(context.Background(), pid, d.ID)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		f.trigger.AssertNotCalled(t, "Trigger", mock.Anything, mock.Anything)
	})
}

func TestDocumentService_Delete(t *testing.T) {
	pid := uuid.New()
	d := storedDocument(t, pid, "application/pdf")

	f := newServiceFixture(t)
	f.repo.On("FindByIDForTenant", mock.Anything, pid, d.ID).Return(d, nil)
	f.repo.On("DeleteForTenant", mock.Anything, pid, d.ID).Return(nil)
	f.storage.On("Delete", mock.Anything, d.StorageKey).Return(errors.New("bucket unavailable"))

	assert.NoError(t, f.service.Delete(context.Background(), pid, d.ID))
	f.repo.AssertExpectations(t)
}

func TestDocumentService_List(t *testing.T) {
	pid := uuid.New()
	f := newServiceFixture(t)
	d := storedDocument(t, pid, "application/pdf")

	matcher := mock.MatchedBy(func(filter shared.Filter) bool {
		return filter.OrderBy == "created_at" && filter.OrderDir == "desc" &&
			filter.Filters["category"] == "lease" && filter.PageSize == 20
	})
	f.repo.On("FindAllForTenant", mock.Anything, pid, matcher).Return([]document.Document{*d}, nil)
	f.repo.On("CountForTenant", mock.Anything, pid, matcher).Return(int64(1), nil)

	items, total, err := f.service.List(context.Background(), pid, ListDocumentsFilter{Category: "lease"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, d.ID, items[0].ID)
}
