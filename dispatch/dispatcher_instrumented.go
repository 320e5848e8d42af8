package dispatch

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"markitdownmcp/tools"
)

// InstrumentedDispatcher wraps a Dispatcher with a span per call and the
// tool call counters and duration histogram.
type InstrumentedDispatcher struct {
	inner  *Dispatcher
	tracer trace.Tracer

	callsCounter       metric.Int64Counter
	callsFailedCounter metric.Int64Counter
	callDurationHist   metric.Float64Histogram
}

func NewInstrumentedDispatcher(inner *Dispatcher, tracer trace.Tracer, meter metric.Meter) (*InstrumentedDispatcher, error) {
	callsCounter, err := meter.Int64Counter("tool_calls_total",
		metric.WithDescription("Total number of tool calls dispatched"))
	if err != nil {
		return nil, err
	}
	callsFailedCounter, err := meter.Int64Counter("tool_calls_failed_total",
		metric.WithDescription("Total number of tool calls answered with an error message"))
	if err != nil {
		return nil, err
	}
	callDurationHist, err := meter.Float64Histogram("tool_call_duration_seconds",
		metric.WithDescription("Time spent handling a tool call"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return &InstrumentedDispatcher{
		inner:              inner,
		tracer:             tracer,
		callsCounter:       callsCounter,
		callsFailedCounter: callsFailedCounter,
		callDurationHist:   callDurationHist,
	}, nil
}

func (d *InstrumentedDispatcher) Call(ctx context.Context, name string, args map[string]any) tools.TextResponse {
	ctx, span := d.tracer.Start(ctx, "Dispatcher.Call", trace.WithAttributes(
		attribute.String("tool_name", name),
	))
	defer span.End()

	toolAttr := metric.WithAttributes(attribute.String("tool_name", name))
	d.callsCounter.Add(ctx, 1, toolAttr)

	start := time.Now()
	resp, err := d.inner.Run(ctx, name, args)
	d.callDurationHist.Record(ctx, time.Since(start).Seconds(), toolAttr)

	span.SetAttributes(attribute.Int("response_length", len(resp.Text)))
	if err != nil {
		kind := tools.ErrorKind(err)
		d.callsFailedCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("tool_name", name),
			attribute.String("error_type", kind),
		))
		span.SetStatus(codes.Error, kind)
		span.RecordError(err)
	}
	return resp
}
