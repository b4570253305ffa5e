package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

// MeterProvider wraps the OpenTelemetry MeterProvider with lifecycle management.
type MeterProvider struct {
	provider *sdkmetric.MeterProvider
}

// NewMeterProvider exports metrics over OTLP when telemetry and metrics are enabled
func NewMeterProvider(ctx context.Context, cfg Config, logger *zap.Logger) (*MeterProvider, error) {
	mp := &MeterProvider{}
	if !cfg.Enabled || !cfg.MetricsEnabled {
		return mp, nil
	}

	interval := cfg.MetricsInterval
	if interval <= 0 {
		interval = 60 * time.Second
	}
	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
	}
	res, err := newResource(cfg)
	if err != nil {
		return nil, err
	}

	mp.provider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
	)
	otel.SetMeterProvider(mp.provider)
	logger.Info("OpenTelemetry MeterProvider initialized", zap.Duration("export_interval", interval))
	return mp, nil
}

// NewMeterProviderWithReader builds a provider around a custom reader (tests use a ManualReader)
func NewMeterProviderWithReader(reader sdkmetric.Reader) *MeterProvider {
	return &MeterProvider{provider: sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))}
}

// Meter returns a named meter, falling back to the global provider
func (mp *MeterProvider) Meter(name string) metric.Meter {
	if mp.provider == nil {
		return otel.GetMeterProvider().Meter(name)
	}
	return mp.provider.Meter(name)
}

// Shutdown flushes pending metrics
func (mp *MeterProvider) Shutdown(ctx context.Context) error {
	if mp.provider == nil {
		return nil
	}
	ctx, cancel := shutdownTimeout(ctx)
	defer cancel()
	if err := mp.provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown meter provider: %w", err)
	}
	return nil
}

// Common attribute keys
var (
	AttrCompanyID = attribute.Key("company_id")
	AttrModule    = attribute.Key("module")
	AttrOutcome   = attribute.Key("outcome")
	AttrJob       = attribute.Key("job")
	AttrCurrency  = attribute.Key("currency")
	AttrTaxType   = attribute.Key("tax_type")
)

// JobDurationBuckets are histogram boundaries for scheduler jobs (seconds)
var JobDurationBuckets = []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60, 300}

// BusinessMetrics holds the application's domain counters
type BusinessMetrics struct {
	invoicesIssued    metric.Int64Counter
	paymentsReceived  metric.Float64Counter
	payrollRuns       metric.Int64Counter
	filings           metric.Int64Counter
	documentsUploaded metric.Int64Counter
	uploadBytes       metric.Int64Counter
	notifications     metric.Int64Counter
	jobRuns           metric.Int64Counter
	jobDuration       metric.Float64Histogram
}

// NewBusinessMetrics registers the domain instruments on meter
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	var (
		m   BusinessMetrics
		err error
	)
	if m.invoicesIssued, err = meter.Int64Counter("billing.invoices.issued",
		metric.WithDescription("Invoices moved out of draft"), metric.WithUnit("{invoice}")); err != nil {
		return nil, fmt.Errorf("failed to create invoices counter: %w", err)
	}
	if m.paymentsReceived, err = meter.Float64Counter("billing.payments.amount",
		metric.WithDescription("Payment amount received in major units"), metric.WithUnit("{amount}")); err != nil {
		return nil, fmt.Errorf("failed to create payments counter: %w", err)
	}
	if m.payrollRuns, err = meter.Int64Counter("payroll.runs",
		metric.WithDescription("Payroll runs by outcome"), metric.WithUnit("{run}")); err != nil {
		return nil, fmt.Errorf("failed to create payroll counter: %w", err)
	}
	if m.filings, err = meter.Int64Counter("tax.filings",
		metric.WithDescription("Tax filing transitions"), metric.WithUnit("{filing}")); err != nil {
		return nil, fmt.Errorf("failed to create filings counter: %w", err)
	}
	if m.documentsUploaded, err = meter.Int64Counter("documents.uploaded",
		metric.WithDescription("Documents stored"), metric.WithUnit("{document}")); err != nil {
		return nil, fmt.Errorf("failed to create documents counter: %w", err)
	}
	if m.uploadBytes, err = meter.Int64Counter("documents.upload.size",
		metric.WithDescription("Bytes stored"), metric.WithUnit("By")); err != nil {
		return nil, fmt.Errorf("failed to create upload size counter: %w", err)
	}
	if m.notifications, err = meter.Int64Counter("notifications.created",
		metric.WithDescription("Notifications fanned out"), metric.WithUnit("{notification}")); err != nil {
		return nil, fmt.Errorf("failed to create notifications counter: %w", err)
	}
	if m.jobRuns, err = meter.Int64Counter("scheduler.job.runs",
		metric.WithDescription("Scheduled job executions"), metric.WithUnit("{run}")); err != nil {
		return nil, fmt.Errorf("failed to create job runs counter: %w", err)
	}
	if m.jobDuration, err = meter.Float64Histogram("scheduler.job.duration",
		metric.WithDescription("Scheduled job duration"), metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(JobDurationBuckets...)); err != nil {
		return nil, fmt.Errorf("failed to create job duration histogram: %w", err)
	}
	return &m, nil
}

// A nil *BusinessMetrics is valid and records nothing.

func (m *BusinessMetrics) InvoiceIssued(ctx context.Context, companyID, currency string) {
	if m == nil {
		return
	}
	m.invoicesIssued.Add(ctx, 1, metric.WithAttributes(AttrCompanyID.String(companyID), AttrCurrency.String(currency)))
}

func (m *BusinessMetrics) PaymentReceived(ctx context.Context, companyID, currency string, amount float64) {
	if m == nil {
		return
	}
	m.paymentsReceived.Add(ctx, amount, metric.WithAttributes(AttrCompanyID.String(companyID), AttrCurrency.String(currency)))
}

func (m *BusinessMetrics) PayrollRun(ctx context.Context, companyID, outcome string) {
	if m == nil {
		return
	}
	m.payrollRuns.Add(ctx, 1, metric.WithAttributes(AttrCompanyID.String(companyID), AttrOutcome.String(outcome)))
}

func (m *BusinessMetrics) Filing(ctx context.Context, companyID, taxType, outcome string) {
	if m == nil {
		return
	}
	m.filings.Add(ctx, 1, metric.WithAttributes(
		AttrCompanyID.String(companyID), AttrTaxType.String(taxType), AttrOutcome.String(outcome)))
}

func (m *BusinessMetrics) DocumentUploaded(ctx context.Context, companyID string, size int64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(AttrCompanyID.String(companyID))
	m.documentsUploaded.Add(ctx, 1, attrs)
	m.uploadBytes.Add(ctx, size, attrs)
}

func (m *BusinessMetrics) NotificationsCreated(ctx context.Context, kind string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.notifications.Add(ctx, int64(n), metric.WithAttributes(AttrModule.String(kind)))
}

func (m *BusinessMetrics) JobRun(ctx context.Context, job string, d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	attrs := metric.WithAttributes(AttrJob.String(job), AttrOutcome.String(outcome))
	m.jobRuns.Add(ctx, 1, attrs)
	m.jobDuration.Record(ctx, d.Seconds(), attrs)
}
