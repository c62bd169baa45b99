package observability

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	dbTracerName   = "ticketsync/db"
	syncTracerName = "ticketsync/sync"
)

type contextKey string

const (
	organizerIDKey contextKey = "observability.organizer_id"
	runIDKey       contextKey = "observability.run_id"
	phaseKey       contextKey = "observability.phase"
	requestIDKey   contextKey = "observability.request_id"
	routeKey       contextKey = "observability.route"
)

// Span is the application-level tracing span contract.
type Span interface {
	End()
	RecordError(error)
	SetAttributes(...attribute.KeyValue)
}

type otelSpan struct {
	inner trace.Span
}

// StartDBSpan starts a database tracing span for one query operation.
func StartDBSpan(ctx context.Context, queryName, operation string) (context.Context, Span) {
	queryName = strings.TrimSpace(queryName)
	if queryName == "" {
		queryName = "unknown"
	}
	attrs := []attribute.KeyValue{
		attribute.String("db.system.name", "sqlite"),
		attribute.String("db.query_name", queryName),
		attribute.String("db.operation", strings.TrimSpace(operation)),
	}
	attrs = append(attrs, syncAttributes(ctx)...)

	ctx, span := otel.Tracer(dbTracerName).Start(ctx, "db."+queryName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)

	return ctx, otelSpan{inner: span}
}

// StartSyncSpan starts an internal span for one step of an organizer sync.
func StartSyncSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, Span) {
	attrs = append(attrs, syncAttributes(ctx)...)
	ctx, span := otel.Tracer(syncTracerName).Start(ctx, "sync."+strings.TrimSpace(name),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	return ctx, otelSpan{inner: span}
}

// WithSyncRun tags the context with the organizer and run being synced.
func WithSyncRun(ctx context.Context, organizerID, runID string) context.Context {
	organizerID = strings.TrimSpace(organizerID)
	runID = strings.TrimSpace(runID)
	if organizerID != "" {
		ctx = context.WithValue(ctx, organizerIDKey, organizerID)
	}
	if runID != "" {
		ctx = context.WithValue(ctx, runIDKey, runID)
	}
	return ctx
}

// WithSyncPhase records the current state machine phase on the context.
func WithSyncPhase(ctx context.Context, phase string) context.Context {
	phase = strings.TrimSpace(phase)
	if phase == "" {
		return ctx
	}
	ctx = context.WithValue(ctx, phaseKey, phase)
	if span := trace.SpanFromContext(ctx); span != nil {
		span.SetAttributes(attribute.String("ticketsync.phase", phase))
	}
	return ctx
}

// WithRequestMetadata enriches context and current span with request metadata.
func WithRequestMetadata(ctx context.Context, requestID, route string) context.Context {
	requestID = strings.TrimSpace(requestID)
	route = strings.TrimSpace(route)
	if requestID != "" {
		ctx = context.WithValue(ctx, requestIDKey, requestID)
	}
	if route != "" {
		ctx = context.WithValue(ctx, routeKey, route)
	}
	setSpanRequestAttributes(ctx, requestID, route)
	return ctx
}

// OrganizerIDFromContext extracts the organizer being synced.
func OrganizerIDFromContext(ctx context.Context) (string, bool) {
	return stringValue(ctx, organizerIDKey)
}

// RunIDFromContext extracts the sync run id.
func RunIDFromContext(ctx context.Context) (string, bool) {
	return stringValue(ctx, runIDKey)
}

// PhaseFromContext extracts the sync phase.
func PhaseFromContext(ctx context.Context) (string, bool) {
	return stringValue(ctx, phaseKey)
}

// RequestIDFromContext extracts request id.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	return stringValue(ctx, requestIDKey)
}

// RouteFromContext extracts normalized route path.
func RouteFromContext(ctx context.Context) (string, bool) {
	return stringValue(ctx, routeKey)
}

func stringValue(ctx context.Context, key contextKey) (string, bool) {
	value, ok := ctx.Value(key).(string)
	value = strings.TrimSpace(value)
	return value, ok && value != ""
}

func syncAttributes(ctx context.Context) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 3)
	if organizerID, ok := OrganizerIDFromContext(ctx); ok {
		attrs = append(attrs, attribute.String("ticketsync.organizer_id", organizerID))
	}
	if runID, ok := RunIDFromContext(ctx); ok {
		attrs = append(attrs, attribute.String("ticketsync.run_id", runID))
	}
	if phase, ok := PhaseFromContext(ctx); ok {
		attrs = append(attrs, attribute.String("ticketsync.phase", phase))
	}
	return attrs
}

func setSpanRequestAttributes(ctx context.Context, requestID, route string) {
	span := trace.SpanFromContext(ctx)
	if span == nil {
		return
	}
	attrs := make([]attribute.KeyValue, 0, 2)
	if requestID != "" {
		attrs = append(attrs, attribute.String("request.id", requestID))
	}
	if route != "" {
		attrs = append(attrs, attribute.String("http.route", route))
	}
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
}

func (s otelSpan) End() {
	if s.inner == nil {
		return
	}
	s.inner.End()
}

func (s otelSpan) RecordError(err error) {
	if s.inner == nil || err == nil {
		return
	}
	s.inner.RecordError(err)
	s.inner.SetStatus(codes.Error, err.Error())
}

func (s otelSpan) SetAttributes(attrs ...attribute.KeyValue) {
	if s.inner == nil || len(attrs) == 0 {
		return
	}
	s.inner.SetAttributes(attrs...)
}
