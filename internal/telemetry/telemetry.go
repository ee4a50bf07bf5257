package telemetry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/diogo/mcchat/internal/config"
)

const (
	serviceName = "mcchat"

	// TraceFileName and MetricsFileName are created inside TelemetryConfig.Dir
	TraceFileName   = "mcchat_traces.log"
	MetricsFileName = "mcchat_metrics.log"
)

// Provider bundles the tracer and instruments handed to the chat client
type Provider struct {
	tracer      trace.Tracer
	instruments *Instruments
	shutdown    []func(context.Context) error
}

// Tracer returns the tracer for chat requests
func (p *Provider) Tracer() trace.Tracer {
	return p.tracer
}

// Instruments returns the request instruments
func (p *Provider) Instruments() *Instruments {
	return p.instruments
}

// Shutdown flushes exporters and closes the export files
func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error
	for _, fn := range p.shutdown {
		if err := fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	p.shutdown = nil
	return errors.Join(errs...)
}

// Noop returns a provider whose tracer and instruments record nothing
func Noop() *Provider {
	instruments, _ := NewInstruments(metricnoop.NewMeterProvider().Meter(serviceName))
	return &Provider{
		tracer:      tracenoop.NewTracerProvider().Tracer(serviceName),
		instruments: instruments,
	}
}

// Init sets up OpenTelemetry tracing and metrics.
// Traces and metrics are exported as JSON to rotating files in cfg.Dir.
// When telemetry is disabled a no-op provider is returned.
func Init(ctx context.Context, cfg config.TelemetryConfig, version string) (*Provider, error) {
	if !cfg.Enabled {
		return Noop(), nil
	}

	if cfg.Dir == "" {
		return nil, fmt.Errorf("telemetry directory is empty")
	}
	if err := os.MkdirAll(cfg.Dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create telemetry directory: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	fileCfg := config.LogConfig{MaxSizeMB: 10, MaxBackups: 3, MaxAgeDays: 28, Compress: true}

	traceFile := newRotatingFile(filepath.Join(cfg.Dir, TraceFileName), fileCfg)
	traceExporter, err := stdouttrace.New(
		stdouttrace.WithWriter(traceFile),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		_ = traceFile.Close()
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)

	metricsFile := newRotatingFile(filepath.Join(cfg.Dir, MetricsFileName), fileCfg)
	metricExporter, err := stdoutmetric.New(
		stdoutmetric.WithWriter(metricsFile),
		stdoutmetric.WithPrettyPrint(),
	)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = traceFile.Close()
		_ = metricsFile.Close()
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}

	interval := time.Duration(orDefault(cfg.ExportIntervalSeconds, 10)) * time.Second
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(metricExporter, sdkmetric.WithInterval(interval)),
		),
		sdkmetric.WithResource(res),
	)

	instruments, err := NewInstruments(mp.Meter(serviceName))
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		_ = traceFile.Close()
		_ = metricsFile.Close()
		return nil, err
	}

	return &Provider{
		tracer:      tp.Tracer(serviceName),
		instruments: instruments,
		shutdown: []func(context.Context) error{
			tp.Shutdown,
			mp.Shutdown,
			func(context.Context) error { return traceFile.Close() },
			func(context.Context) error { return metricsFile.Close() },
		},
	}, nil
}

// Instruments holds the metrics recorded for each chat request
type Instruments struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

// NewInstruments creates the request counter and latency histogram on meter
func NewInstruments(meter metric.Meter) (*Instruments, error) {
	requests, err := meter.Int64Counter(
		"mcchat.requests",
		metric.WithDescription("Chat requests by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request counter: %w", err)
	}

	duration, err := meter.Float64Histogram(
		"mcchat.request.duration",
		metric.WithDescription("Chat request latency"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return &Instruments{requests: requests, duration: duration}, nil
}

// RecordRequest counts one request and its latency under the given outcome.
// Safe to call on a nil receiver.
func (i *Instruments) RecordRequest(ctx context.Context, outcome string, elapsed time.Duration) {
	if i == nil {
		return
	}
	attrs := metric.WithAttributes(OutcomeKey.String(outcome))
	i.requests.Add(ctx, 1, attrs)
	i.duration.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)
}
