package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/vango-dev/hfs/pkg/message"
	"github.com/vango-dev/hfs/pkg/router"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for hfs.
const defaultTracerName = "hfs"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "hfs").
	TracerName string

	// IncludeParams adds every capture as an "hfs.param.<name>"
	// attribute. Captures may hold user data, so this is off by default.
	IncludeParams bool

	// IncludeTarget adds the raw request path. Enabled by default.
	IncludeTarget bool

	// Filter determines which calls to trace. If nil, all are traced.
	Filter func(c *router.Call) bool

	// AttributeExtractor adds custom attributes for each traced call.
	AttributeExtractor func(c *router.Call) []attribute.KeyValue

	// TracerProvider overrides the global provider.
	TracerProvider trace.TracerProvider

	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithIncludeParams enables recording captures as span attributes.
func WithIncludeParams(include bool) OTelOption {
	return func(c *OTelConfig) {
		c.IncludeParams = include
	}
}

// WithIncludeTarget enables/disables recording the raw request path.
func WithIncludeTarget(include bool) OTelOption {
	return func(c *OTelConfig) {
		c.IncludeTarget = include
	}
}

// WithCallFilter sets a filter function for calls.
func WithCallFilter(filter func(c *router.Call) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(c *router.Call) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName:    defaultTracerName,
		IncludeTarget: true,
	}
}

// OpenTelemetry creates middleware that traces every dispatched request.
//
// The middleware:
//   - Starts a server span named "<METHOD> <pattern>"
//   - Replaces Call.Context with the span context so the handler's ctx
//     carries the span
//   - Records the response status and marks 5xx and nil responses as
//     errors
//
// The tracer comes from the global OpenTelemetry provider unless
// WithTracerProvider is given. Configure it in main() before serving:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
func OpenTelemetry(opts ...OTelOption) router.Middleware {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}

	if config.TracerProvider != nil {
		config.tracer = config.TracerProvider.Tracer(config.TracerName)
	} else {
		config.tracer = otel.Tracer(config.TracerName)
	}

	return router.MiddlewareFunc(func(c *router.Call, next func() *message.Response) *message.Response {
		if config.Filter != nil && !config.Filter(c) {
			return next()
		}

		attrs := []attribute.KeyValue{
			attribute.String("http.method", c.Route.Method.String()),
			attribute.String("http.route", c.Route.Pattern),
			attribute.Int("hfs.route_index", c.Route.Index),
		}
		if config.IncludeTarget && c.Request != nil {
			attrs = append(attrs, attribute.String("http.target", c.Request.Path()))
		}
		if config.IncludeParams {
			for name, value := range c.Params {
				attrs = append(attrs, attribute.String("hfs.param."+name, value))
			}
		}
		if config.AttributeExtractor != nil {
			attrs = append(attrs, config.AttributeExtractor(c)...)
		}

		parent := c.Context
		if parent == nil {
			parent = context.Background()
		}
		spanCtx, span := config.tracer.Start(
			parent,
			formatSpanName(c),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attrs...),
			trace.WithTimestamp(time.Now()),
		)
		defer span.End()

		// Keep the span reachable even when the provider hands out
		// non-recording spans.
		c.Context = context.WithValue(spanCtx, spanContextKey{}, span)

		resp := next()

		switch {
		case resp == nil:
			span.SetStatus(codes.Error, "handler returned no response")
		case resp.Status.Code() >= 500:
			span.SetAttributes(attribute.Int("http.status_code", resp.Status.Code()))
			span.SetStatus(codes.Error, resp.Status.String())
		default:
			span.SetAttributes(attribute.Int("http.status_code", resp.Status.Code()))
			span.SetStatus(codes.Ok, "")
		}

		return resp
	})
}

// spanContextKey is the context key the middleware stores its span under.
type spanContextKey struct{}

// SpanFromContext returns the span started by OpenTelemetry for the
// current dispatch, or nil outside of one.
func SpanFromContext(ctx context.Context) trace.Span {
	if ctx == nil {
		return nil
	}
	if span, ok := ctx.Value(spanContextKey{}).(trace.Span); ok {
		return span
	}
	return nil
}

func formatSpanName(c *router.Call) string {
	pattern := c.Route.Pattern
	if pattern == "" {
		pattern = "/"
	}
	return fmt.Sprintf("%s %s", c.Route.Method, pattern)
}
