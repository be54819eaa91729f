package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	// TracerName is the name of the tracer used by this module.
	TracerName = "github.com/upb/api-authorizer"

	// SpanNameAuthorize is the span name for one authorization attempt.
	SpanNameAuthorize = "authorizer.authorize"

	// SpanNameKeySetFetch is the span name for the key set HTTP fetch.
	SpanNameKeySetFetch = "authorizer.keyset.fetch"
)

// Attribute keys for tracing.
const (
	AttrKeyID      = "authorizer.kid"
	AttrKeySetURL  = "authorizer.keyset_url"
	AttrKeyCount   = "authorizer.keyset_size"
	AttrEffect     = "authorizer.effect"
	AttrStage      = "authorizer.stage"
	AttrDenyReason = "authorizer.deny_reason"
	AttrHTTPStatus = "http.response.status_code"
)

// Tracer wraps the OpenTelemetry tracer with authorizer-specific spans.
type Tracer struct {
	tracer  trace.Tracer
	enabled bool
}

// NewTracer creates a new Tracer.
// If enabled is false, all operations use a noop tracer.
func NewTracer(enabled bool) *Tracer {
	var tracer trace.Tracer
	if enabled {
		tracer = otel.Tracer(TracerName)
	} else {
		tracer = noop.NewTracerProvider().Tracer(TracerName)
	}
	return &Tracer{
		tracer:  tracer,
		enabled: enabled,
	}
}

// IsEnabled returns whether tracing is enabled.
func (t *Tracer) IsEnabled() bool {
	return t.enabled
}

// StartAuthorize starts a span for one authorization attempt.
func (t *Tracer) StartAuthorize(ctx context.Context) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, SpanNameAuthorize,
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartKeySetFetch starts a client span for the key set fetch.
func (t *Tracer) StartKeySetFetch(ctx context.Context, url, kid string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, SpanNameKeySetFetch,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String(AttrKeySetURL, url),
			attribute.String(AttrKeyID, kid),
		),
	)
}

// RecordKeySetResponse records the HTTP status and entry count of a fetch.
func (t *Tracer) RecordKeySetResponse(span trace.Span, status, keys int) {
	span.SetAttributes(
		attribute.Int(AttrHTTPStatus, status),
		attribute.Int(AttrKeyCount, keys),
	)
}

// RecordDecision records the decision outcome on the span.
func (t *Tracer) RecordDecision(span trace.Span, effect, stage, reason string) {
	attrs := []attribute.KeyValue{
		attribute.String(AttrEffect, effect),
		attribute.String(AttrStage, stage),
	}
	if reason != "" {
		attrs = append(attrs, attribute.String(AttrDenyReason, reason))
	}
	span.SetAttributes(attrs...)
}

// EndSpan ends a span, marking it as failed when err is non-nil.
func (t *Tracer) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
