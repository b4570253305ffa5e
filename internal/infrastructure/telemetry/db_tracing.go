package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultSlowQuery = 200 * time.Millisecond

type queryStartKey struct{}

// callbackRegistrar is gorm's unexported callback builder
type callbackRegistrar interface {
	Register(name string, fn func(*gorm.DB)) error
}

// RegisterGORM adds otelgorm spans and tags them with the table, the rows
// affected and a slow flag. Query variables are never recorded.
func RegisterGORM(db *gorm.DB, cfg Config, logger *zap.Logger) error {
	if !cfg.Enabled || !cfg.DBTraceEnabled {
		return nil
	}
	plugin := otelgorm.NewPlugin(otelgorm.WithDBName(db.Dialector.Name()), otelgorm.WithoutQueryVariables())
	if err := db.Use(plugin); err != nil {
		return err
	}

	slow := cfg.DBSlowQueryThresh
	if slow <= 0 {
		slow = defaultSlowQuery
	}
	cb := db.Callback()
	hooks := []struct {
		op            string
		before, after callbackRegistrar
	}{
		{"create", cb.Create().Before("gorm:create"), cb.Create().After("gorm:create")},
		{"query", cb.Query().Before("gorm:query"), cb.Query().After("gorm:query")},
		{"update", cb.Update().Before("gorm:update"), cb.Update().After("gorm:update")},
		{"delete", cb.Delete().Before("gorm:delete"), cb.Delete().After("gorm:delete")},
		{"raw", cb.Raw().Before("gorm:raw"), cb.Raw().After("gorm:raw")},
	}
	for _, h := range hooks {
		if err := h.before.Register("rwbiz:start_"+h.op, markQueryStart); err != nil {
			return err
		}
		if err := h.after.Register("rwbiz:annotate_"+h.op, annotateSpan(slow)); err != nil {
			return err
		}
	}

	logger.Info("Database tracing enabled", zap.Duration("slow_query_threshold", slow))
	return nil
}

func markQueryStart(db *gorm.DB) {
	if ctx := db.Statement.Context; ctx != nil {
		db.Statement.Context = context.WithValue(ctx, queryStartKey{}, time.Now())
	}
}

func annotateSpan(slow time.Duration) func(*gorm.DB) {
	return func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			return
		}
		span := trace.SpanFromContext(ctx)
		if !span.IsRecording() {
			return
		}
		attrs := []attribute.KeyValue{attribute.Int64("db.rows_affected", db.Statement.RowsAffected)}
		if db.Statement.Table != "" {
			attrs = append(attrs, attribute.String("db.sql.table", db.Statement.Table))
		}
		if start, ok := ctx.Value(queryStartKey{}).(time.Time); ok {
			if took := time.Since(start); took > slow {
				attrs = append(attrs, attribute.Bool("db.slow_query", true), attribute.Int64("db.query_duration_ms", took.Milliseconds()))
			}
		}
		span.SetAttributes(attrs...)

		// a missing row is an answer, not a failure
		if err := db.Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}
}
