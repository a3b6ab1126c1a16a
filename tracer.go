package jwtmiddleware

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/auth0/go-jwks-validator/core"
)

const tracerName = "github.com/auth0/go-jwks-validator"

func defaultTracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// startRequestSpan opens the span covering token extraction and validation.
func startRequestSpan(ctx context.Context, tracer trace.Tracer, r *http.Request) (context.Context, trace.Span) {
	return tracer.Start(ctx, "jwtmiddleware.CheckJWT",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("http.request.method", r.Method),
			attribute.String("url.path", r.URL.Path),
		),
	)
}

func endRequestSpan(span trace.Span, err error) {
	if err == nil {
		span.SetAttributes(attribute.String("jwt.outcome", "ok"))
		span.SetStatus(codes.Ok, "")
		return
	}

	outcome := core.KindOf(err).String()
	span.SetAttributes(attribute.String("jwt.outcome", outcome))
	span.RecordError(err)
	span.SetStatus(codes.Error, outcome)
}
