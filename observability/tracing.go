package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/hooksink/hooksink"

// Tracer provides OpenTelemetry tracing for the receive path.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer creates a new hooksink tracer.
func NewTracer() *Tracer {
	return &Tracer{
		tracer: otel.Tracer(tracerName),
	}
}

// StartReceiveSpan starts a new span for an inbound delivery.
func (t *Tracer) StartReceiveSpan(ctx context.Context, endpointID string, bodyBytes int) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "hooksink.receive",
		trace.WithAttributes(
			attribute.String("hooksink.endpoint_id", endpointID),
			attribute.Int("hooksink.body_bytes", bodyBytes),
		),
	)
}

// EndReceiveSpan ends a receive span with result attributes.
func (t *Tracer) EndReceiveSpan(span trace.Span, payloadID, errCode string) {
	if payloadID != "" {
		span.SetAttributes(attribute.String("hooksink.payload_id", payloadID))
	}
	if errCode != "" {
		span.SetAttributes(attribute.String("hooksink.error_code", errCode))
	}
	span.End()
}
