package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/propdesk/backend/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type contextKey string

const queryStartTimeKey contextKey = "otel_query_start_time"

// DBTracingPlugin registers otelgorm and marks slow queries on the span
type DBTracingPlugin struct {
	logFullSQL bool
	slowQuery  time.Duration
	logger     *zap.Logger
}

// NewDBTracingPlugin creates the plugin from the telemetry config
func NewDBTracingPlugin(cfg config.TelemetryConfig, logger *zap.Logger) *DBTracingPlugin {
	slow := cfg.DBSlowQueryThresh
	if slow <= 0 {
		slow = 200 * time.Millisecond
	}
	return &DBTracingPlugin{logFullSQL: cfg.DBLogFullSQL, slowQuery: slow, logger: logger}
}

// Register installs otelgorm and the timing callbacks on db
func (p *DBTracingPlugin) Register(db *gorm.DB) error {
	opts := []otelgorm.Option{otelgorm.WithDBName("postgresql")}
	if !p.logFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	cb := db.Callback()
	type hook struct {
		op     string
		before func(string) gormRegisterer
		after  func(string) gormRegisterer
	}
	hooks := []hook{
		{"create", func(n string) gormRegisterer { return cb.Create().Before(n) }, func(n string) gormRegisterer { return cb.Create().After(n) }},
		{"query", func(n string) gormRegisterer { return cb.Query().Before(n) }, func(n string) gormRegisterer { return cb.Query().After(n) }},
		{"update", func(n string) gormRegisterer { return cb.Update().Before(n) }, func(n string) gormRegisterer { return cb.Update().After(n) }},
		{"delete", func(n string) gormRegisterer { return cb.Delete().Before(n) }, func(n string) gormRegisterer { return cb.Delete().After(n) }},
		{"row", func(n string) gormRegisterer { return cb.Row().Before(n) }, func(n string) gormRegisterer { return cb.Row().After(n) }},
		{"raw", func(n string) gormRegisterer { return cb.Raw().Before(n) }, func(n string) gormRegisterer { return cb.Raw().After(n) }},
	}
	for _, h := range hooks {
		if err := h.before("gorm:"+h.op).Register("otel_timing:before_"+h.op, markQueryStart); err != nil {
			return err
		}
		if err := h.after("gorm:"+h.op).Register("otel_slow_query:"+h.op, p.afterQuery); err != nil {
			return err
		}
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.logFullSQL),
		zap.Duration("slow_query_threshold", p.slowQuery),
	)
	return nil
}

type gormRegisterer interface {
	Register(name string, fn func(*gorm.DB)) error
}

func markQueryStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartTimeKey, time.Now())
	}
}

func (p *DBTracingPlugin) afterQuery(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.RecordError(db.Error)
	}
	if start, ok := ctx.Value(queryStartTimeKey).(time.Time); ok {
		if elapsed := time.Since(start); elapsed > p.slowQuery {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
		}
	}
}
