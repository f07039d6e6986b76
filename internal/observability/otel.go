// Package observability sets up OpenTelemetry tracing and metrics with
// optional Prometheus export, and owns the custom pipeline metrics.
package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"fitcheck/internal/errors"
)

// Manager owns the telemetry providers and the custom instruments.
type Manager struct {
	config *Config
	logger *errors.Logger

	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	promServer     *http.Server

	tracer trace.Tracer
	meter  metric.Meter

	analysisCounter     metric.Int64Counter
	analysisDuration    metric.Float64Histogram
	augmentationCounter metric.Int64Counter
	rateLimitCounter    metric.Int64Counter
}

// NewManager creates an uninitialized manager.
func NewManager(cfg *Config, logger *errors.Logger) *Manager {
	return &Manager{config: cfg, logger: logger}
}

// Initialize sets up exporters, providers and instruments. With
// observability disabled it installs nothing and every record method is
// a no-op through the default providers.
func (m *Manager) Initialize(ctx context.Context) error {
	if !m.config.Enabled {
		m.tracer = otel.Tracer("fitcheck")
		m.meter = otel.Meter("fitcheck")
		return nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(m.config.ServiceName),
			semconv.ServiceVersion(m.config.ServiceVersion),
			semconv.DeploymentEnvironment(m.config.Environment),
		),
	)
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeInvalidConfig, "failed to create telemetry resource", err)
	}

	if err := m.setupTracing(ctx, res); err != nil {
		return err
	}
	if err := m.setupMetrics(ctx, res); err != nil {
		return err
	}

	return m.createInstruments()
}

func (m *Manager) setupTracing(ctx context.Context, res *resource.Resource) error {
	var exporter sdktrace.SpanExporter
	var err error

	switch m.config.TraceExporter {
	case "otlp":
		exporter, err = otlptracehttp.New(ctx,
			otlptracehttp.WithEndpoint(m.config.OTLPEndpoint),
			otlptracehttp.WithInsecure(),
		)
	case "stdout":
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	case "none":
		exporter = &noOpSpanExporter{}
	default:
		return errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("unknown trace exporter: %s", m.config.TraceExporter), nil)
	}
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeInvalidConfig, "failed to create trace exporter", err)
	}

	m.tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(m.tracerProvider)
	m.tracer = m.tracerProvider.Tracer("fitcheck")
	return nil
}

func (m *Manager) setupMetrics(ctx context.Context, res *resource.Resource) error {
	var readers []sdkmetric.Reader

	switch m.config.MetricExporter {
	case "otlp":
		exporter, err := otlpmetrichttp.New(ctx,
			otlpmetrichttp.WithEndpoint(m.config.OTLPEndpoint),
			otlpmetrichttp.WithInsecure(),
		)
		if err != nil {
			return errors.NewInternalError(errors.ErrCodeInvalidConfig, "failed to create OTLP metric exporter", err)
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(30*time.Second)))
	case "stdout":
		exporter, err := stdoutmetric.New()
		if err != nil {
			return errors.NewInternalError(errors.ErrCodeInvalidConfig, "failed to create stdout metric exporter", err)
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(30*time.Second)))
	case "none":
	default:
		return errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("unknown metric exporter: %s", m.config.MetricExporter), nil)
	}

	if m.config.PrometheusEnabled {
		promReader, err := SetupPrometheusExporter()
		if err != nil {
			return err
		}
		readers = append(readers, promReader)
		m.promServer = StartPrometheusServer(m.config.PrometheusPort, m.logger)
	}

	opts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	for _, r := range readers {
		opts = append(opts, sdkmetric.WithReader(r))
	}
	m.meterProvider = sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(m.meterProvider)
	m.meter = m.meterProvider.Meter("fitcheck")
	return nil
}

func (m *Manager) createInstruments() error {
	var err error

	m.analysisCounter, err = m.meter.Int64Counter("fitcheck.analyses.total",
		metric.WithDescription("Analyses performed"))
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeInvalidConfig, "failed to create analysis counter", err)
	}

	m.analysisDuration, err = m.meter.Float64Histogram("fitcheck.analysis.duration",
		metric.WithDescription("Analysis pipeline duration"),
		metric.WithUnit("s"))
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeInvalidConfig, "failed to create duration histogram", err)
	}

	m.augmentationCounter, err = m.meter.Int64Counter("fitcheck.augmentation.calls",
		metric.WithDescription("Augmentation sub-capability outcomes"))
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeInvalidConfig, "failed to create augmentation counter", err)
	}

	m.rateLimitCounter, err = m.meter.Int64Counter("fitcheck.ratelimit.hits",
		metric.WithDescription("Requests rejected by rate limiting"))
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeInvalidConfig, "failed to create rate limit counter", err)
	}

	return nil
}

// Tracer returns the application tracer.
func (m *Manager) Tracer() trace.Tracer {
	if m.tracer == nil {
		return otel.Tracer("fitcheck")
	}
	return m.tracer
}

// HTTPMiddleware wraps a handler with otelhttp instrumentation.
func (m *Manager) HTTPMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, "fitcheck.http")
	}
}

// RecordAnalysis records one finished analysis.
func (m *Manager) RecordAnalysis(ctx context.Context, duration time.Duration, overallScore int, similarityUsed bool) {
	if m.analysisCounter == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.Bool("similarity.used", similarityUsed),
	)
	m.analysisCounter.Add(ctx, 1, attrs)
	m.analysisDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordAugmentation records one augmentation sub-capability outcome.
func (m *Manager) RecordAugmentation(ctx context.Context, capability string, degraded bool) {
	if m.augmentationCounter == nil {
		return
	}
	m.augmentationCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("capability", capability),
		attribute.Bool("degraded", degraded),
	))
}

// RecordRateLimitHit records one rejected request.
func (m *Manager) RecordRateLimitHit(ctx context.Context) {
	if m.rateLimitCounter == nil {
		return
	}
	m.rateLimitCounter.Add(ctx, 1)
}

// Shutdown flushes and stops the telemetry providers.
func (m *Manager) Shutdown(ctx context.Context) error {
	var firstErr error

	if m.promServer != nil {
		if err := m.promServer.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if m.tracerProvider != nil {
		if err := m.tracerProvider.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if m.meterProvider != nil {
		if err := m.meterProvider.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// noOpSpanExporter drops all spans.
type noOpSpanExporter struct{}

func (e *noOpSpanExporter) ExportSpans(context.Context, []sdktrace.ReadOnlySpan) error { return nil }
func (e *noOpSpanExporter) Shutdown(context.Context) error                            { return nil }
