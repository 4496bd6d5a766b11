package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/llmstream/logger"
)

// Stream outcome values recorded in the status attribute.
const (
	StatusOK       = "ok"
	StatusEmpty    = "empty"
	StatusCanceled = "canceled"
	StatusError    = "error"
	StatusClosed   = "closed"
)

// InitMeter initializes the OpenTelemetry meter provider and installs it globally.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, cfg Config) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.WithComponent("observability").Info("meter initialized", logger.Fields(
		"service", cfg.ServiceName,
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the instruments recorded around stream calls.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	requests metric.Int64Counter
	active   metric.Int64UpDownCounter
	chunks   metric.Int64Counter
	duration metric.Float64Histogram
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	requests, err := meter.Int64Counter("llm.stream.requests",
		metric.WithDescription("Stream calls by provider and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating llm.stream.requests counter: %w", err)
	}

	active, err := meter.Int64UpDownCounter("llm.stream.active",
		metric.WithDescription("Streams currently being consumed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating llm.stream.active counter: %w", err)
	}

	chunks, err := meter.Int64Counter("llm.stream.chunks",
		metric.WithDescription("Chunks emitted by kind"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating llm.stream.chunks counter: %w", err)
	}

	duration, err := meter.Float64Histogram("llm.stream.duration",
		metric.WithDescription("Time from first pull to end of stream"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating llm.stream.duration histogram: %w", err)
	}

	return &Metrics{
		requests: requests,
		active:   active,
		chunks:   chunks,
		duration: duration,
	}, nil
}

// RecordStreamStart increments the active stream count.
func (m *Metrics) RecordStreamStart(ctx context.Context, provider string) {
	if m == nil {
		return
	}
	m.active.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrProvider, provider)))
}

// RecordStreamEnd decrements active streams and records the finished call.
func (m *Metrics) RecordStreamEnd(ctx context.Context, provider, model, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.active.Add(ctx, -1, metric.WithAttributes(attribute.String(AttrProvider, provider)))
	m.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrProvider, provider),
		attribute.String(AttrModel, model),
		attribute.String(AttrStatus, status),
	))
	m.duration.Record(ctx, float64(duration.Microseconds())/1000, metric.WithAttributes(
		attribute.String(AttrProvider, provider),
		attribute.String(AttrStatus, status),
	))
}

// RecordChunk counts one emitted chunk of the given kind.
func (m *Metrics) RecordChunk(ctx context.Context, provider, kind string) {
	if m == nil {
		return
	}
	m.chunks.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrProvider, provider),
		attribute.String(AttrChunkKind, kind),
	))
}
