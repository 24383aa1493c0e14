package server

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "secrets-portal/internal/server"

// Trace wraps each request in a server span named after its method and path
// and counts completed requests by status code. Status codes at or above 500
// mark the span as an error.
func Trace(next http.Handler) http.Handler {
	tracer := otel.Tracer(tracerName)
	requests, err := otel.Meter(tracerName).Int64Counter("http.server.requests",
		metric.WithDescription("Completed HTTP requests by status code."))
	if err != nil {
		log.Printf("telemetry: request counter: %v", err)
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), r.Method+" "+r.URL.Path,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.target", r.URL.Path),
			),
		)
		defer span.End()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		span.SetAttributes(attribute.Int("http.status_code", ww.Status()))
		if ww.Status() >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(ww.Status()))
		}
		if requests != nil {
			requests.Add(ctx, 1, metric.WithAttributes(attribute.Int("http.status_code", ww.Status())))
		}
	})
}
