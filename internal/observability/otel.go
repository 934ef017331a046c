package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"resumerefiner/internal/config"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Metrics holds all custom metrics for the analysis service
type Metrics struct {
	// Analysis pipeline metrics
	AnalysisDuration  metric.Float64Histogram
	AnalysisCount     metric.Int64Counter
	ScoreDistribution metric.Float64Histogram

	// External predictor metrics
	PredictorRequests metric.Int64Counter
	PredictorErrors   metric.Int64Counter

	// Infrastructure metrics
	RateLimitHits metric.Int64Counter
	CertReloads   metric.Int64Counter
}

// Manager owns the OpenTelemetry tracer and meter providers for the process
type Manager struct {
	config         config.ObservabilityConfig
	tracerProvider *trace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	metrics        *Metrics
	shutdownFuncs  []func(context.Context) error
}

// NewManager sets up tracing and metrics from configuration. When
// observability is disabled the manager is inert: middleware passes through
// and metrics are nil-safe no-ops.
func NewManager(cfg config.ObservabilityConfig) (*Manager, error) {
	if !cfg.Enabled {
		return &Manager{config: cfg}, nil
	}

	m := &Manager{
		config:        cfg,
		shutdownFuncs: make([]func(context.Context) error, 0),
	}

	if err := m.initTracing(); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	if err := m.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return m, nil
}

func (m *Manager) newResource() (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(m.config.ServiceName),
			semconv.ServiceVersion(m.config.ServiceVersion),
		),
	)
}

// initTracing sets up the tracer provider. Console output wins for
// development, then OTLP for production, otherwise a no-op exporter.
func (m *Manager) initTracing() error {
	var exporter trace.SpanExporter
	var err error

	switch {
	case m.config.ConsoleOutput:
		opts := []stdouttrace.Option{}
		if m.config.PrettyPrint {
			opts = append(opts, stdouttrace.WithPrettyPrint())
		}
		exporter, err = stdouttrace.New(opts...)
	case m.config.OTLP.Enabled:
		exporter, err = m.createOTLPTraceExporter()
	default:
		exporter = &noOpSpanExporter{}
	}
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := m.newResource()
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
		trace.WithSampler(trace.TraceIDRatioBased(m.config.SampleRate)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	m.tracerProvider = tp
	m.shutdownFuncs = append(m.shutdownFuncs, tp.Shutdown)

	return nil
}

// initMetrics sets up the meter provider with every configured reader
func (m *Manager) initMetrics() error {
	var readers []sdkmetric.Reader

	if m.config.ConsoleOutput {
		exporter, err := stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console metric exporter: %w", err)
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(m.config.MetricsInterval)))
	}

	if m.config.OTLP.Enabled {
		reader, err := m.createOTLPMetricsReader()
		if err != nil {
			return fmt.Errorf("failed to create OTLP metrics reader: %w", err)
		}
		readers = append(readers, reader)
	}

	if m.config.Prometheus.Enabled {
		reader, mux, err := SetupPrometheusExporter(m.config.Prometheus)
		if err != nil {
			return fmt.Errorf("failed to create Prometheus exporter: %w", err)
		}
		if reader != nil {
			readers = append(readers, reader)
			if err := StartPrometheusServer(mux, m.config.Prometheus.Port); err != nil {
				return fmt.Errorf("failed to start Prometheus server: %w", err)
			}
		}
	}

	if len(readers) == 0 {
		readers = append(readers, sdkmetric.NewManualReader())
	}

	res, err := m.newResource()
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	opts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	for _, reader := range readers {
		opts = append(opts, sdkmetric.WithReader(reader))
	}

	mp := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(mp)
	m.meterProvider = mp
	m.shutdownFuncs = append(m.shutdownFuncs, mp.Shutdown)

	return m.initCustomMetrics()
}

func (m *Manager) initCustomMetrics() error {
	meter := m.meterProvider.Meter(m.config.ServiceName)
	m.metrics = &Metrics{}

	var err error

	m.metrics.AnalysisDuration, err = meter.Float64Histogram(
		"resumerefiner_analysis_duration_seconds",
		metric.WithDescription("Time spent running a full analysis"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create analysis duration metric: %w", err)
	}

	m.metrics.AnalysisCount, err = meter.Int64Counter(
		"resumerefiner_analyses_total",
		metric.WithDescription("Total number of analyses performed"),
	)
	if err != nil {
		return fmt.Errorf("failed to create analysis count metric: %w", err)
	}

	m.metrics.ScoreDistribution, err = meter.Float64Histogram(
		"resumerefiner_score",
		metric.WithDescription("Distribution of produced scores by type"),
	)
	if err != nil {
		return fmt.Errorf("failed to create score distribution metric: %w", err)
	}

	m.metrics.PredictorRequests, err = meter.Int64Counter(
		"resumerefiner_predictor_requests_total",
		metric.WithDescription("Total number of external predictor requests"),
	)
	if err != nil {
		return fmt.Errorf("failed to create predictor request metric: %w", err)
	}

	m.metrics.PredictorErrors, err = meter.Int64Counter(
		"resumerefiner_predictor_errors_total",
		metric.WithDescription("Total number of external predictor failures"),
	)
	if err != nil {
		return fmt.Errorf("failed to create predictor error metric: %w", err)
	}

	m.metrics.RateLimitHits, err = meter.Int64Counter(
		"resumerefiner_rate_limit_hits_total",
		metric.WithDescription("Total number of rate limited requests"),
	)
	if err != nil {
		return fmt.Errorf("failed to create rate limit metric: %w", err)
	}

	m.metrics.CertReloads, err = meter.Int64Counter(
		"resumerefiner_cert_reloads_total",
		metric.WithDescription("Total number of TLS certificate reloads"),
	)
	if err != nil {
		return fmt.Errorf("failed to create cert reload metric: %w", err)
	}

	return nil
}

// GetMetrics returns the metrics instance. Never nil; disabled observability
// yields empty metrics whose recorders are nil-checked.
func (m *Manager) GetMetrics() *Metrics {
	if m.metrics == nil {
		return &Metrics{}
	}
	return m.metrics
}

// HTTPMiddleware returns OpenTelemetry HTTP instrumentation middleware
func (m *Manager) HTTPMiddleware() func(http.Handler) http.Handler {
	if !m.config.Enabled {
		return func(h http.Handler) http.Handler { return h }
	}

	return otelhttp.NewMiddleware(
		m.config.ServiceName,
		otelhttp.WithTracerProvider(m.tracerProvider),
		otelhttp.WithMeterProvider(m.meterProvider),
	)
}

// Tracer returns a tracer for the named component
func (m *Manager) Tracer(name string) oteltrace.Tracer {
	if !m.config.Enabled {
		return noop.NewTracerProvider().Tracer(name)
	}
	return otel.Tracer(name)
}

// Shutdown flushes and stops all providers
func (m *Manager) Shutdown(ctx context.Context) error {
	for _, shutdown := range m.shutdownFuncs {
		if err := shutdown(ctx); err != nil {
			return err
		}
	}
	return nil
}

// TrackAnalysis wraps an analysis run with a span, duration and count
// metrics. The fn result flags feed the success and degraded attributes.
func (m *Manager) TrackAnalysis(ctx context.Context, operation string, fn func(context.Context) (degraded bool)) {
	tracer := m.Tracer("resumerefiner.engine")
	ctx, span := tracer.Start(ctx, "engine."+operation)
	defer span.End()

	start := time.Now()
	degraded := fn(ctx)
	duration := time.Since(start).Seconds()

	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.Bool("degraded", degraded),
	}
	span.SetAttributes(attrs...)

	metrics := m.GetMetrics()
	if metrics.AnalysisDuration != nil {
		metrics.AnalysisDuration.Record(ctx, duration, metric.WithAttributes(attrs...))
	}
	if metrics.AnalysisCount != nil {
		metrics.AnalysisCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordScores adds the produced scores to the score distribution histogram
func (m *Metrics) RecordScores(ctx context.Context, atsScore, matchScore float64) {
	if m.ScoreDistribution == nil {
		return
	}
	m.ScoreDistribution.Record(ctx, atsScore,
		metric.WithAttributes(attribute.String("score_type", "ats")))
	m.ScoreDistribution.Record(ctx, matchScore,
		metric.WithAttributes(attribute.String("score_type", "match")))
}

// RecordPredictor counts a predictor request and, on failure, an error
func (m *Metrics) RecordPredictor(ctx context.Context, provider string, failed bool) {
	attrs := metric.WithAttributes(attribute.String("provider", provider))
	if m.PredictorRequests != nil {
		m.PredictorRequests.Add(ctx, 1, attrs)
	}
	if failed && m.PredictorErrors != nil {
		m.PredictorErrors.Add(ctx, 1, attrs)
	}
}

// RecordRateLimitHit counts a rejected request
func (m *Metrics) RecordRateLimitHit(ctx context.Context, key string) {
	if m.RateLimitHits != nil {
		m.RateLimitHits.Add(ctx, 1, metric.WithAttributes(attribute.String("client", key)))
	}
}

// RecordCertReload counts a TLS certificate reload
func (m *Metrics) RecordCertReload(ctx context.Context, success bool) {
	if m.CertReloads != nil {
		m.CertReloads.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", success)))
	}
}

type noOpSpanExporter struct{}

func (n *noOpSpanExporter) ExportSpans(ctx context.Context, spans []trace.ReadOnlySpan) error {
	return nil
}

func (n *noOpSpanExporter) Shutdown(ctx context.Context) error {
	return nil
}

func (m *Manager) createOTLPTraceExporter() (trace.SpanExporter, error) {
	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpointURL(m.config.OTLP.Endpoint),
	}
	if m.config.OTLP.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}
	return exporter, nil
}

func (m *Manager) createOTLPMetricsReader() (sdkmetric.Reader, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpointURL(m.config.OTLP.Endpoint),
	}
	if m.config.OTLP.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
	}

	return sdkmetric.NewPeriodicReader(exporter,
		sdkmetric.WithInterval(m.config.MetricsInterval)), nil
}
