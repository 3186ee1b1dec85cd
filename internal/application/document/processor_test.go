package document

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type recordingMetrics struct {
	statuses []string
}

func (r *recordingMetrics) RecordDocumentProcessed(_ context.Context, _ string, status string, _ time.Duration) {
	r.statuses = append(r.statuses, status)
}

func pendingDocument(t *testing.T) *document.Document {
	d, err := document.NewDocument(uuid.New(), "user_1", nil, document.CategoryLease, "lease.pdf", "application/pdf", 10, 0)
	require.NoError(t, err)
	require.NoError(t, d.MarkPending())
	return d
}

func newTestProcessor(t *testing.T, repo *MockDocumentRepository, storage *MockObjectStorage, extractor *MockExtractor, timeout time.Duration) *Processor {
	p := NewProcessor(repo, storage, extractor, ProcessorConfig{Timeout: timeout, MaxBytes: 1 << 20, StaleAfter: time.Hour}, zaptest.NewLogger(t))
	return p
}

func TestProcessor_Run(t *testing.T) {
	t.Run("completes with extracted fields", func(t *testing.T) {
		repo, storage, extractor := new(MockDocumentRepository), new(MockObjectStorage), new(MockExtractor)
		d := pendingDocument(t)
		metrics := &recordingMetrics{}

		var states []document.ProcessingStatus
		repo.On("FindByID", mock.Anything, d.ID).Return(d, nil)
		repo.On("SaveProcessingState", mock.Anything, d).Run(func(args mock.Arguments) {
			states = append(states, args.Get(1).(*document.Document).ProcessingStatus)
		}).Return(nil)
		storage.On("Download", mock.Anything, d.StorageKey, int64(1<<20)).Return([]byte("%PDF-1.4"), nil)
		extractor.On("Extract", mock.Anything, mock.MatchedBy(func(in ExtractionInput) bool {
			return in.Category == "lease" && in.ContentType == "application/pdf" && string(in.Content) == "%PDF-1.4"
		})).Return(&ExtractionResult{
			Fields:  map[string]any{"tenant_name": "Ada", "monthly_rent": 1800.0},
			Summary: "12 month lease",
			Model:   "test-model",
		}, nil)

		p := newTestProcessor(t, repo, storage, extractor, time.Minute)
		p.SetMetrics(metrics)
		require.NoError(t, p.Run(context.Background(), d.ID))

		assert.Equal(t, []document.ProcessingStatus{document.ProcessingProcessing, document.ProcessingCompleted}, states)
		assert.Equal(t, "Ada", d.ExtractedFields["tenant_name"])
		assert.Equal(t, "test-model", d.ExtractionModel)
		assert.NotNil(t, d.ProcessingStartedAt)
		assert.NotNil(t, d.ProcessedAt)
		assert.Equal(t, []string{"completed"}, metrics.statuses)
	})

	t.Run("records the extractor error", func(t *testing.T) {
		repo, storage, extractor := new(MockDocumentRepository), new(MockObjectStorage), new(MockExtractor)
		d := pendingDocument(t)
		repo.On("FindByID", mock.Anything, d.ID).Return(d, nil)
		repo.On("SaveProcessingState", mock.Anything, d).Return(nil)
		storage.On("Download", mock.Anything, mock.Anything, mock.Anything).Return([]byte("x"), nil)
		extractor.On("Extract", mock.Anything, mock.Anything).Return(nil, errors.New("upstream returned 529"))

		p := newTestProcessor(t, repo, storage, extractor, time.Minute)
		err := p.Run(context.Background(), d.ID)
		require.Error(t, err)

		assert.Equal(t, document.ProcessingFailed, d.ProcessingStatus)
		assert.Contains(t, d.ProcessingError, "upstream returned 529")
		repo.AssertNumberOfCalls(t, "SaveProcessingState", 2)
	})

	t.Run("reports a missing object", func(t *testing.T) {
		repo, storage, extractor := new(MockDocumentRepository), new(MockObjectStorage), new(MockExtractor)
		d := pendingDocument(t)
		repo.On("FindByID", mock.Anything, d.ID).Return(d, nil)
		repo.On("SaveProcessingState", mock.Anything, d).Return(nil)
		storage.On("Download", mock.Anything, mock.Anything, mock.Anything).Return(nil, ErrObjectNotFound)

		p := newTestProcessor(t, repo, storage, extractor, time.Minute)
		require.Error(t, p.Run(context.Background(), d.ID))
		assert.Contains(t, d.ProcessingError, "stored file is missing")
		extractor.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
	})

	t.Run("marks a timed out run as failed and still saves it", func(t *testing.T) {
		repo, storage, extractor := new(MockDocumentRepository), new(MockObjectStorage), new(MockExtractor)
		d := pendingDocument(t)
		var finalCtxErr error
		repo.On("FindByID", mock.Anything, d.ID).Return(d, nil)
		repo.On("SaveProcessingState", mock.Anything, d).Run(func(args mock.Arguments) {
			finalCtxErr = args.Get(0).(context.Context).Err()
		}).Return(nil)
		storage.On("Download", mock.Anything, mock.Anything, mock.Anything).Return([]byte("x"), nil)
		extractor.On("Extract", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).Return(nil, context.DeadlineExceeded)

		p := newTestProcessor(t, repo, storage, extractor, 20*time.Millisecond)
		require.Error(t, p.Run(context.Background(), d.ID))
		assert.Equal(t, document.ProcessingFailed, d.ProcessingStatus)
		assert.Contains(t, d.ProcessingError, "timed out")
		assert.NoError(t, finalCtxErr)
	})

	t.Run("skips documents that are not pending", func(t *testing.T) {
		repo, storage, extractor := new(MockDocumentRepository), new(MockObjectStorage), new(MockExtractor)
		d := pendingDocument(t)
		d.Complete(nil, "", "m", time.Now())
		repo.On("FindByID", mock.Anything, d.ID).Return(d, nil)

		p := newTestProcessor(t, repo, storage, extractor, time.Minute)
		require.NoError(t, p.Run(context.Background(), d.ID))
		repo.AssertNotCalled(t, "SaveProcessingState", mock.Anything, mock.Anything)
	})

	t.Run("recovers from an extractor panic", func(t *testing.T) {
		repo, storage, extractor := new(MockDocumentRepository), new(MockObjectStorage), new(MockExtractor)
		d := pendingDocument(t)
		repo.On("FindByID", mock.Anything, d.ID).Return(d, nil)
		repo.On("SaveProcessingState", mock.Anything, d).Return(nil)
		storage.On("Download", mock.Anything, mock.Anything, mock.Anything).Return([]byte("x"), nil)
		extractor.On("Extract", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
			panic("bad response shape")
		}).Return(nil, nil)

		p := newTestProcessor(t, repo, storage, extractor, time.Minute)
		err := p.Run(context.Background(), d.ID)
		require.Error(t, err)
		assert.Equal(t, document.ProcessingFailed, d.ProcessingStatus)
		assert.Contains(t, d.ProcessingError, "bad response shape")
	})
}

func TestProcessor_TriggerIsDetachedFromRequest(t *testing.T) {
	repo, storage, extractor := new(MockDocumentRepository), new(MockObjectStorage), new(MockExtractor)
	d := pendingDocument(t)
	repo.On("FindByID", mock.Anything, d.ID).Return(d, nil)
	repo.On("SaveProcessingState", mock.Anything, d).Return(nil)
	storage.On("Download", mock.Anything, mock.Anything, mock.Anything).Return([]byte("x"), nil)
	extractor.On("Extract", mock.Anything, mock.Anything).Return(&ExtractionResult{Model: "m"}, nil)

	p := newTestProcessor(t, repo, storage, extractor, time.Minute)

	reqCtx, cancel := context.WithCancel(context.Background())
	p.Trigger(reqCtx, d.ID)
	cancel()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer waitCancel()
	require.NoError(t, p.Wait(waitCtx))
	assert.Equal(t, document.ProcessingCompleted, d.ProcessingStatus)
}

func TestProcessor_FailStale(t *testing.T) {
	repo := new(MockDocumentRepository)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo.On("FailStale", mock.Anything, now.Add(-time.Hour), document.StaleProcessingReason, now).Return(int64(3), nil)

	p := newTestProcessor(t, repo, new(MockObjectStorage), new(MockExtractor), time.Minute)
	p.now = func() time.Time { return now }

	n, err := p.FailStale(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
