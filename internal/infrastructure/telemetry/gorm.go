package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GormConfig controls the GORM instrumentation.
type GormConfig struct {
	// Tracing registers otelgorm so every statement gets a span
	Tracing bool
	// FullSQL keeps bound variables in span statements; development only
	FullSQL bool
	// SlowQueryThreshold flags and counts statements slower than this (default 200ms)
	SlowQueryThreshold time.Duration
	DBSystem           string
	// Meter records query durations and pool usage when set
	Meter metric.Meter
}

type gormInstrumentation struct {
	cfg      GormConfig
	duration *Histogram
	slow     *Counter
}

type queryStartKey struct{}

// InstrumentGorm registers tracing, slow query detection and query metrics
// on db.
func InstrumentGorm(db *gorm.DB, cfg GormConfig, logger *zap.Logger) error {
	if cfg.SlowQueryThreshold <= 0 {
		cfg.SlowQueryThreshold = 200 * time.Millisecond
	}
	if cfg.DBSystem == "" {
		cfg.DBSystem = db.Dialector.Name()
	}
	gi := &gormInstrumentation{cfg: cfg}

	if cfg.Tracing {
		opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBSystem)}
		if !cfg.FullSQL {
			opts = append(opts, otelgorm.WithoutQueryVariables())
		}
		if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
			return fmt.Errorf("register otelgorm: %w", err)
		}
	}

	if cfg.Meter != nil {
		var err error
		gi.duration, err = NewHistogram(cfg.Meter, HistogramOpts{
			Name:        "keystone_db_query_duration_seconds",
			Description: "Database statement duration",
			Unit:        "s",
			Boundaries:  DBDurationBuckets,
		})
		if err != nil {
			return err
		}
		gi.slow, err = NewCounter(cfg.Meter, "keystone_db_slow_queries_total", "Statements over the slow query threshold", "{queries}")
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("get sql.DB: %w", err)
		}
		if err := registerPoolGauges(cfg.Meter, sqlDB); err != nil {
			return err
		}
	}

	if err := gi.registerCallbacks(db); err != nil {
		return err
	}

	logger.Info("Database instrumentation enabled",
		zap.Bool("tracing", cfg.Tracing),
		zap.Bool("metrics", cfg.Meter != nil),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThreshold),
	)
	return nil
}

func (gi *gormInstrumentation) registerCallbacks(db *gorm.DB) error {
	cb := db.Callback()
	return errors.Join(
		cb.Create().Before("gorm:create").Register("keystone:before_create", gi.before),
		cb.Create().After("gorm:create").Register("keystone:after_create", gi.afterFor("create")),
		cb.Query().Before("gorm:query").Register("keystone:before_query", gi.before),
		cb.Query().After("gorm:query").Register("keystone:after_query", gi.afterFor("query")),
		cb.Update().Before("gorm:update").Register("keystone:before_update", gi.before),
		cb.Update().After("gorm:update").Register("keystone:after_update", gi.afterFor("update")),
		cb.Delete().Before("gorm:delete").Register("keystone:before_delete", gi.before),
		cb.Delete().After("gorm:delete").Register("keystone:after_delete", gi.afterFor("delete")),
		cb.Row().Before("gorm:row").Register("keystone:before_row", gi.before),
		cb.Row().After("gorm:row").Register("keystone:after_row", gi.afterFor("row")),
		cb.Raw().Before("gorm:raw").Register("keystone:before_raw", gi.before),
		cb.Raw().After("gorm:raw").Register("keystone:after_raw", gi.afterFor("raw")),
	)
}

func (gi *gormInstrumentation) afterFor(op string) func(*gorm.DB) {
	return func(tx *gorm.DB) { gi.after(tx, op) }
}

func (gi *gormInstrumentation) before(tx *gorm.DB) {
	if tx.Statement.Context != nil {
		tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartKey{}, time.Now())
	}
}

func (gi *gormInstrumentation) after(tx *gorm.DB, op string) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	elapsed := time.Since(start)
	table := tx.Statement.Table
	if table == "" {
		table = "unknown"
	}
	failed := tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound)

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.String("db.sql.table", table),
			attribute.Int64("db.rows_affected", tx.Statement.RowsAffected),
		)
		if failed {
			span.RecordError(tx.Error)
			span.SetStatus(codes.Error, tx.Error.Error())
		}
		if elapsed > gi.cfg.SlowQueryThreshold {
			span.SetAttributes(attribute.Bool("db.slow_query", true))
		}
	}

	opAttr := AttrDBOperation.String(strings.ToUpper(op))
	if gi.duration != nil {
		gi.duration.RecordDuration(ctx, elapsed, opAttr, AttrDBTable.String(table))
	}
	// Slow statements are logged by the GORM logger; here they are only counted
	if elapsed > gi.cfg.SlowQueryThreshold {
		if gi.slow != nil {
			gi.slow.Inc(ctx, AttrDBTable.String(table))
		}
	}
}

// registerPoolGauges reports connection pool usage on every collection.
func registerPoolGauges(meter metric.Meter, sqlDB *sql.DB) error {
	conns, err := meter.Int64ObservableGauge("keystone_db_pool_connections",
		metric.WithDescription("Database connections by state"),
		metric.WithUnit("{connections}"),
	)
	if err != nil {
		return fmt.Errorf("create pool gauge: %w", err)
	}
	waits, err := meter.Int64ObservableCounter("keystone_db_pool_wait_total",
		metric.WithDescription("Connections waited for since start"),
		metric.WithUnit("{waits}"),
	)
	if err != nil {
		return fmt.Errorf("create pool wait counter: %w", err)
	}
	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s := sqlDB.Stats()
		o.ObserveInt64(conns, int64(s.Idle), metric.WithAttributes(AttrDBState.String("idle")))
		o.ObserveInt64(conns, int64(s.InUse), metric.WithAttributes(AttrDBState.String("in_use")))
		o.ObserveInt64(conns, int64(s.MaxOpenConnections), metric.WithAttributes(AttrDBState.String("max")))
		o.ObserveInt64(waits, s.WaitCount)
		return nil
	}, conns, waits)
	if err != nil {
		return fmt.Errorf("register pool callback: %w", err)
	}
	return nil
}
