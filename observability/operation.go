package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Operation tracks the span and metrics of one stream call from the first
// pull until the stream ends.
type Operation struct {
	Provider  string
	Model     string
	StartTime time.Time
	Metrics   *Metrics

	ctx    context.Context
	span   trace.Span
	chunks int
	ended  bool
}

// StartOperation starts a span named spanName and records the stream start.
// If metrics is nil, metric recording is skipped.
func StartOperation(ctx context.Context, spanName, provider, model string, metrics *Metrics) *Operation {
	ctx, span := StartSpan(ctx, spanName, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String(AttrProvider, provider),
		attribute.String(AttrModel, model),
	)
	metrics.RecordStreamStart(ctx, provider)
	return &Operation{
		Provider:  provider,
		Model:     model,
		StartTime: time.Now(),
		Metrics:   metrics,
		ctx:       ctx,
		span:      span,
	}
}

// Context returns the context carrying the operation's span.
func (o *Operation) Context() context.Context {
	return o.ctx
}

// SetAttribute sets a span attribute on the operation's span.
func (o *Operation) SetAttribute(key string, value any) {
	SetSpanAttribute(o.ctx, key, value)
}

// Chunk counts one emitted chunk.
func (o *Operation) Chunk(kind string) {
	o.chunks++
	o.Metrics.RecordChunk(o.ctx, o.Provider, kind)
}

// Chunks returns the number of chunks counted so far.
func (o *Operation) Chunks() int {
	return o.chunks
}

// End finishes the span and records the stream outcome. Calls after the
// first are ignored.
func (o *Operation) End(status string, err error) {
	if o.ended {
		return
	}
	o.ended = true
	duration := o.Duration()

	if err != nil {
		SetSpanError(o.ctx, err)
		o.span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
	}
	o.span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int(AttrChunks, o.chunks),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	o.span.End()

	o.Metrics.RecordStreamEnd(o.ctx, o.Provider, o.Model, status, duration)
}

// Duration returns the elapsed time since the operation started.
func (o *Operation) Duration() time.Duration {
	return time.Since(o.StartTime)
}
