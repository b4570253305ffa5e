package telemetry

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/billing"
	"github.com/rwbiz/backend/internal/domain/document"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/domain/tax"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestSetup_Disabled(t *testing.T) {
	ctx := context.Background()
	tel, err := Setup(ctx, Config{ServiceName: "test"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, tel.Tracer.IsEnabled())
	assert.False(t, tel.Logs.IsEnabled())
	assert.False(t, tel.Profiler.IsEnabled())
	assert.NotNil(t, tel.Metrics)
	assert.NoError(t, tel.Shutdown(ctx))
	assert.NoError(t, tel.Profiler.Stop())
}

func TestNewProfiler_RequiresServer(t *testing.T) {
	_, err := NewProfiler(Config{ProfilingEnabled: true}, zap.NewNop())
	assert.Error(t, err)
}

func TestZapCore_DisabledIsNop(t *testing.T) {
	lp := &LoggerProvider{}
	core := lp.ZapCore(zapcore.InfoLevel)
	assert.False(t, core.Enabled(zapcore.ErrorLevel))
}

func TestLevelFilterCore(t *testing.T) {
	base := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), zapcore.AddSync(&nopWriter{}), zapcore.DebugLevel)
	core := &levelFilterCore{Core: base, min: zapcore.WarnLevel}
	assert.False(t, core.Enabled(zapcore.InfoLevel))
	assert.True(t, core.Enabled(zapcore.ErrorLevel))
	assert.IsType(t, &levelFilterCore{}, core.With(nil))
}

type nopWriter struct{}

func (*nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestBusinessMetrics_Record(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	mp := NewMeterProviderWithReader(reader)
	t.Cleanup(func() { _ = mp.Shutdown(ctx) })

	m, err := NewBusinessMetrics(mp.Meter("test"))
	require.NoError(t, err)
	m.InvoiceIssued(ctx, "c1", "RWF")
	m.InvoiceIssued(ctx, "c1", "RWF")
	m.JobRun(ctx, "invoice_overdue", 20*time.Millisecond, errors.New("boom"))
	m.NotificationsCreated(ctx, "DIVIDEND_DECLARED", 0)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	names := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, mt := range sm.Metrics {
			names[mt.Name] = mt.Data
		}
	}
	sum, ok := names["billing.invoices.issued"].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(2), sum.DataPoints[0].Value)
	assert.Contains(t, names, "scheduler.job.duration")
	assert.NotContains(t, names, "notifications.created")
}

func TestBusinessMetrics_NilSafe(t *testing.T) {
	var m *BusinessMetrics
	m.InvoiceIssued(context.Background(), "c", "RWF")
	m.JobRun(context.Background(), "j", time.Second, nil)
}

func TestEndSpan_RecordsError(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	_, span := tp.Tracer("t").Start(context.Background(), "op")
	EndSpan(span, errors.New("failed"))

	ended := rec.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "failed", ended[0].Status().Description)
}

func TestRegisterGORM(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, RegisterGORM(db, Config{}, zap.NewNop()))
	require.NoError(t, RegisterGORM(db, Config{Enabled: true, DBTraceEnabled: true}, zap.NewNop()))
	assert.NoError(t, db.Exec("SELECT 1").Error)
}

func TestEventMetrics_Handle(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	mp := NewMeterProviderWithReader(reader)
	t.Cleanup(func() { _ = mp.Shutdown(ctx) })

	m, err := NewBusinessMetrics(mp.Meter("test"))
	require.NoError(t, err)
	handler := NewEventMetrics(m)
	companyID := uuid.New()

	require.NoError(t, handler.Handle(ctx, &billing.PaymentReceivedEvent{
		EventHeader: shared.NewEventHeader(billing.EventTypePaymentReceived, billing.AggregateTypeInvoice, uuid.New(), companyID),
		Currency:    "RWF",
		Amount:      decimal.NewFromInt(590000),
	}))
	require.NoError(t, handler.Handle(ctx, &document.DocumentUploadedEvent{
		EventHeader: shared.NewEventHeader(document.EventTypeDocumentUploaded, document.AggregateTypeDocument, uuid.New(), companyID),
		SizeBytes:   2048,
	}))
	base := shared.NewEventHeader("Unrelated", "Test", uuid.New(), companyID)
	require.NoError(t, handler.Handle(ctx, &base))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	names := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, mt := range sm.Metrics {
			names[mt.Name] = mt.Data
		}
	}

	paid, ok := names["billing.payments.amount"].(metricdata.Sum[float64])
	require.True(t, ok)
	require.Len(t, paid.DataPoints, 1)
	assert.Equal(t, 590000.0, paid.DataPoints[0].Value)

	size, ok := names["documents.upload.size"].(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Equal(t, int64(2048), size.DataPoints[0].Value)
	assert.Contains(t, handler.EventTypes(), tax.EventTypeFilingOverdue)
}

func TestSanitizeLabels(t *testing.T) {
	long := strings.Repeat("x", MaxLabelValueLength+10)
	pairs := sanitizeLabels(map[string]string{
		ProfilingLabelRoute:  "/api/v1/invoices/:id",
		ProfilingLabelMethod: "GET",
		"user_id":            "u-1",
		"empty":              " ",
		"long":               long,
	})
	require.Len(t, pairs, 6)
	assert.Equal(t, "long", pairs[0])
	assert.Len(t, pairs[1], MaxLabelValueLength)
	assert.Equal(t, []string{ProfilingLabelMethod, "GET", ProfilingLabelRoute, "/api/v1/invoices/:id"}, pairs[2:])
}

func TestWithProfilingLabels_RunsFn(t *testing.T) {
	called := 0
	WithProfilingLabels(context.Background(), nil, func(context.Context) { called++ })
	WithProfilingLabels(context.Background(), map[string]string{ProfilingLabelJob: "unlock-capital"}, func(context.Context) { called++ })
	assert.Equal(t, 2, called)
}
