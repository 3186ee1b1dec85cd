package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics provides business metrics for Keystone.
// It tracks document processing, invitations and Forge agent usage.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	documentsProcessedTotal *Counter
	invitationsIssuedTotal  *Counter
	invitationsAccepted     *Counter
	agentExecutionsTotal    *Counter
	agentTokensTotal        *Counter
	agentCostMicroUSD       *Counter

	// Histograms
	documentProcessingDuration *Histogram
	agentExecutionDuration     *Histogram

	// Gauge metrics (point-in-time values)
	documentsByStatus *Gauge
	budgetUsedPercent *FloatGauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	gaugeProvider GaugeProvider
}

// GaugeProvider supplies the state sampled into gauges. It lets the telemetry
// layer read aggregates without depending on the domain packages.
type GaugeProvider interface {
	// DocumentsByStatus counts documents per processing status across all portfolios
	DocumentsByStatus(ctx context.Context) (map[string]int64, error)
	// BudgetUsage returns the usage of a YYYY-MM budget; found is false when none exists
	BudgetUsage(ctx context.Context, period string) (tokensUsed, tokenLimit int64, found bool, err error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter         metric.Meter
	Logger        *zap.Logger
	GaugeProvider GaugeProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:         cfg.Meter,
		logger:        logger,
		stopChan:      make(chan struct{}),
		gaugeProvider: cfg.GaugeProvider,
	}

	counters := []struct {
		dst        **Counter
		name, desc string
		unit       string
	}{
		{&bm.documentsProcessedTotal, "keystone_documents_processed_total", "Document extraction runs by outcome", "{runs}"},
		{&bm.invitationsIssuedTotal, "keystone_invitations_issued_total", "Portfolio invitations issued", "{invitations}"},
		{&bm.invitationsAccepted, "keystone_invitations_accepted_total", "Portfolio invitations accepted", "{invitations}"},
		{&bm.agentExecutionsTotal, "keystone_forge_executions_total", "Finished Forge agent executions", "{executions}"},
		{&bm.agentTokensTotal, "keystone_forge_tokens_total", "Tokens consumed by Forge agents", "{tokens}"},
		{&bm.agentCostMicroUSD, "keystone_forge_cost_micro_usd_total", "Forge agent cost in millionths of a US dollar", "{micro_usd}"},
	}
	for _, c := range counters {
		counter, err := NewCounter(cfg.Meter, c.name, c.desc, c.unit)
		if err != nil {
			return nil, err
		}
		*c.dst = counter
	}

	var err error
	bm.documentProcessingDuration, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "keystone_document_processing_duration_seconds",
		Description: "Wall time of a document extraction run",
		Unit:        "s",
		Boundaries:  LongDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	bm.agentExecutionDuration, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "keystone_forge_execution_duration_seconds",
		Description: "Wall time of a Forge agent execution",
		Unit:        "s",
		Boundaries:  LongDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	bm.documentsByStatus, err = NewGauge(
		cfg.Meter,
		"keystone_documents",
		"Documents per processing status",
		"{documents}",
	)
	if err != nil {
		return nil, err
	}

	bm.budgetUsedPercent, err = NewFloatGauge(
		cfg.Meter,
		"keystone_forge_budget_used_percent",
		"Share of the current month's token budget already spent",
		"%",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Document Metrics
// =============================================================================

// RecordDocumentProcessed records the outcome of one extraction run
func (bm *BusinessMetrics) RecordDocumentProcessed(ctx context.Context, category, status string, duration time.Duration) {
	attrs := []attribute.KeyValue{
		AttrDocumentCategory.String(category),
		AttrProcessingStatus.String(status),
	}
	bm.documentsProcessedTotal.Inc(ctx, attrs...)
	bm.documentProcessingDuration.RecordDuration(ctx, duration, attrs...)
}

// =============================================================================
// Invitation Metrics
// =============================================================================

// RecordInvitationIssued records an issued invitation
func (bm *BusinessMetrics) RecordInvitationIssued(ctx context.Context, portfolioID uuid.UUID) {
	bm.invitationsIssuedTotal.Inc(ctx, AttrPortfolioID.String(portfolioID.String()))
}

// RecordInvitationAccepted records an accepted invitation
func (bm *BusinessMetrics) RecordInvitationAccepted(ctx context.Context, portfolioID uuid.UUID) {
	bm.invitationsAccepted.Inc(ctx, AttrPortfolioID.String(portfolioID.String()))
}

// =============================================================================
// Forge Metrics
// =============================================================================

// RecordAgentExecution records a finished agent execution with its usage.
// Cost is converted to micro-dollars so it fits an integer counter.
func (bm *BusinessMetrics) RecordAgentExecution(ctx context.Context, agent, model, status string, tokens int64, cost float64, duration time.Duration) {
	attrs := []attribute.KeyValue{
		AttrAgentName.String(agent),
		AttrAgentModel.String(model),
		AttrExecutionStatus.String(status),
	}
	bm.agentExecutionsTotal.Inc(ctx, attrs...)
	if tokens > 0 {
		bm.agentTokensTotal.Add(ctx, tokens, attrs...)
	}
	if micro := int64(cost * 1_000_000); micro > 0 {
		bm.agentCostMicroUSD.Add(ctx, micro, attrs...)
	}
	if duration > 0 {
		bm.agentExecutionDuration.RecordDuration(ctx, duration, attrs...)
	}
}

// RecordBudgetUsage records how much of a period's budget is spent
func (bm *BusinessMetrics) RecordBudgetUsage(ctx context.Context, period string, percent float64) {
	bm.budgetUsedPercent.Record(ctx, percent, AttrBudgetPeriod.String(period))
}

// RecordDocumentsByStatus records the number of documents in one processing status
func (bm *BusinessMetrics) RecordDocumentsByStatus(ctx context.Context, status string, count int64) {
	bm.documentsByStatus.Record(ctx, count, AttrProcessingStatus.String(status))
}

// =============================================================================
// Periodic Collection
// =============================================================================

// StartPeriodicCollection samples the gauges every interval (default: 1 minute).
// This is non-blocking - use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = time.Minute
		}

		go bm.runPeriodicCollection(ctx, interval)
	})
}

func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	bm.collectGauges(ctx, time.Now())

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case now := <-ticker.C:
			bm.collectGauges(ctx, now)
		}
	}
}

func (bm *BusinessMetrics) collectGauges(ctx context.Context, now time.Time) {
	if bm.gaugeProvider == nil {
		bm.logger.Debug("No gauge provider configured, skipping gauge collection")
		return
	}

	counts, err := bm.gaugeProvider.DocumentsByStatus(ctx)
	if err != nil {
		bm.logger.Warn("Failed to count documents by status", zap.Error(err))
	} else {
		for status, n := range counts {
			bm.RecordDocumentsByStatus(ctx, status, n)
		}
	}

	period := now.UTC().Format("2006-01")
	used, limit, found, err := bm.gaugeProvider.BudgetUsage(ctx, period)
	switch {
	case err != nil:
		bm.logger.Warn("Failed to read token budget usage", zap.String("period", period), zap.Error(err))
	case found && limit > 0:
		bm.RecordBudgetUsage(ctx, period, float64(used)/float64(limit)*100)
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
