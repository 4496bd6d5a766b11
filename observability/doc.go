// Package observability provides OpenTelemetry tracing and metrics for
// llmstream stream calls.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, cfg)
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, "clarifai.stream")
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, cfg)
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("llmstream"))
//	op := observability.StartOperation(ctx, "clarifai.stream", "clarifai", model, metrics)
//	defer op.End(observability.StatusOK, nil)
//
// When nothing calls InitTracer or InitMeter the global providers are no-ops
// and instrumentation costs almost nothing.
package observability
