package document

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/document"
	"go.uber.org/zap"
)

// ProcessorConfig tunes document processing
type ProcessorConfig struct {
	// Timeout bounds one run, from download to the final write
	Timeout time.Duration
	// MaxBytes caps how much of an object is read for extraction
	MaxBytes int64
	// StaleAfter is how long a run may stay pending or processing before the sweeper fails it
	StaleAfter time.Duration
}

// Processor runs AI extraction in the background. Every triggered document
// gets its own goroutine; runs for different documents are independent and
// each writes only its own row. There is no queue and no retry.
type Processor struct {
	repo      document.DocumentRepository
	storage   ObjectStorage
	extractor Extractor
	config    ProcessorConfig
	metrics   ProcessingMetrics
	logger    *zap.Logger
	now       func() time.Time

	wg sync.WaitGroup
}

// NewProcessor creates a new Processor
func NewProcessor(repo document.DocumentRepository, storage ObjectStorage, extractor Extractor, config ProcessorConfig, log *zap.Logger) *Processor {
	if log == nil {
		log = zap.NewNop()
	}
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Minute
	}
	if config.StaleAfter <= 0 {
		config.StaleAfter = 30 * time.Minute
	}
	return &Processor{
		repo:      repo,
		storage:   storage,
		extractor: extractor,
		config:    config,
		logger:    log,
		now:       time.Now,
	}
}

// SetMetrics attaches a metrics recorder
func (p *Processor) SetMetrics(m ProcessingMetrics) {
	p.metrics = m
}

// Trigger starts processing a document that is already marked pending. The
// run is detached from ctx: cancelling the triggering request does not stop
// it, only the processing timeout does. Context values such as the trace
// span are carried over.
func (p *Processor) Trigger(ctx context.Context, documentID uuid.UUID) {
	runCtx := context.WithoutCancel(ctx)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := p.Run(runCtx, documentID); err != nil {
			p.logger.Error("Document processing failed",
				zap.String("document_id", documentID.String()),
				zap.Error(err),
			)
		}
	}()
}

// Wait blocks until in-flight runs finish or ctx is done
func (p *Processor) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes one document synchronously. The returned error is the
// extraction failure, which is also recorded on the row; errors writing the
// row itself are returned too.
func (p *Processor) Run(ctx context.Context, documentID uuid.UUID) (err error) {
	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	d, err := p.repo.FindByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	if d.ProcessingStatus != document.ProcessingPending {
		p.logger.Info("Skipping document that is no longer pending",
			zap.String("document_id", documentID.String()),
			zap.String("status", string(d.ProcessingStatus)),
		)
		return nil
	}

	start := p.now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during processing: %v", r)
			p.fail(ctx, d, err, start)
		}
	}()

	d.MarkProcessing(start)
	if err := p.repo.SaveProcessingState(ctx, d); err != nil {
		return fmt.Errorf("mark processing: %w", err)
	}

	content, err := p.storage.Download(ctx, d.StorageKey, p.config.MaxBytes)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			err = errors.New("stored file is missing")
		}
		return p.fail(ctx, d, fmt.Errorf("download: %w", err), start)
	}

	result, err := p.extractor.Extract(ctx, ExtractionInput{
		FileName:    d.FileName,
		ContentType: d.ContentType,
		Category:    string(d.Category),
		Content:     content,
	})
	if err != nil {
		return p.fail(ctx, d, fmt.Errorf("extract: %w", err), start)
	}

	d.Complete(result.Fields, result.Summary, result.Model, p.now())
	wctx, wcancel := writeContext(ctx)
	defer wcancel()
	if err := p.repo.SaveProcessingState(wctx, d); err != nil {
		return fmt.Errorf("save result: %w", err)
	}

	p.record(ctx, d, start)
	p.logger.Info("Document processed",
		zap.String("document_id", d.ID.String()),
		zap.String("model", result.Model),
		zap.Int("input_tokens", result.InputTokens),
		zap.Int("output_tokens", result.OutputTokens),
		zap.Int("fields", len(result.Fields)),
	)
	return nil
}

// FailStale marks runs stuck in pending or processing as failed
func (p *Processor) FailStale(ctx context.Context) (int64, error) {
	now := p.now()
	return p.repo.FailStale(ctx, now.Add(-p.config.StaleAfter), document.StaleProcessingReason, now)
}

func (p *Processor) fail(ctx context.Context, d *document.Document, cause error, start time.Time) error {
	reason := cause.Error()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		reason = fmt.Sprintf("processing timed out after %s", p.config.Timeout)
	}
	d.Fail(reason, p.now())
	wctx, cancel := writeContext(ctx)
	defer cancel()
	if err := p.repo.SaveProcessingState(wctx, d); err != nil {
		return errors.Join(cause, fmt.Errorf("save failure: %w", err))
	}
	p.record(ctx, d, start)
	return cause
}

// writeContext gives the final write a few seconds even when the run's own
// deadline has passed
func writeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx.Err() == nil {
		return ctx, func() {}
	}
	return context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
}

func (p *Processor) record(ctx context.Context, d *document.Document, start time.Time) {
	if p.metrics == nil {
		return
	}
	p.metrics.RecordDocumentProcessed(ctx, string(d.Category), string(d.ProcessingStatus), p.now().Sub(start))
}
