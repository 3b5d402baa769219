package middleware

import (
	"context"
	"testing"

	"github.com/vango-dev/hfs/pkg/message"
	"github.com/vango-dev/hfs/pkg/router"
	"go.opentelemetry.io/otel/attribute"
)

func TestOpenTelemetryConfig(t *testing.T) {
	config := defaultOTelConfig()
	if config.TracerName != "hfs" {
		t.Errorf("TracerName = %q, want %q", config.TracerName, "hfs")
	}
	if config.IncludeParams {
		t.Error("IncludeParams should default to false")
	}
	if !config.IncludeTarget {
		t.Error("IncludeTarget should default to true")
	}
}

func TestOpenTelemetryMiddleware_HandlerContextCarriesSpan(t *testing.T) {
	extractorCalled := false
	r := newTestRouter(t, OpenTelemetry(
		WithTracerName("test"),
		WithIncludeParams(true),
		WithAttributeExtractor(func(c *router.Call) []attribute.KeyValue {
			extractorCalled = true
			return []attribute.KeyValue{attribute.String("test.attr", "ok")}
		}),
	))

	var sawSpan bool
	r.Get("/users/:id", func(ctx context.Context, req *message.Request, params router.Params, _ testState) *message.Response {
		sawSpan = SpanFromContext(ctx) != nil
		return message.NewResponse(message.StatusOK)
	})

	resp := dispatch(t, r, message.MethodGet, "/users/9")
	if resp.Status != message.StatusOK {
		t.Errorf("status = %v", resp.Status)
	}
	if !sawSpan {
		t.Error("expected the handler ctx to carry a span")
	}
	if !extractorCalled {
		t.Error("attribute extractor was not called")
	}
}

func TestOpenTelemetryMiddleware_ReplacesCallContext(t *testing.T) {
	c := &router.Call{
		Context: context.Background(),
		Route:   router.RouteInfo{Method: message.MethodPost, Pattern: "/echo"},
	}
	OpenTelemetry().Handle(c, func() *message.Response {
		return message.NewResponse(message.StatusInternalServerError)
	})

	if SpanFromContext(c.Context) == nil {
		t.Fatal("expected Call.Context to carry the span after the middleware ran")
	}
}

func TestOpenTelemetryMiddleware_NilContext(t *testing.T) {
	c := &router.Call{Route: router.RouteInfo{Method: message.MethodGet, Pattern: "/"}}
	resp := OpenTelemetry().Handle(c, func() *message.Response { return nil })
	if resp != nil {
		t.Errorf("resp = %v, want nil", resp)
	}
	if c.Context == nil {
		t.Error("expected a context to be set")
	}
}

func TestOpenTelemetryMiddleware_FilterSkipsTracing(t *testing.T) {
	r := newTestRouter(t, OpenTelemetry(
		WithCallFilter(func(c *router.Call) bool { return c.Route.Pattern != "/healthz" }),
	))

	nextCalled := false
	r.Get("/healthz", func(ctx context.Context, req *message.Request, params router.Params, _ testState) *message.Response {
		nextCalled = true
		if SpanFromContext(ctx) != nil {
			t.Error("expected no span when filter skips tracing")
		}
		return message.NewResponse(message.StatusOK)
	})

	dispatch(t, r, message.MethodGet, "/healthz")
	if !nextCalled {
		t.Fatal("expected next to be called")
	}
}

func TestSpanFromContext_NoSpan(t *testing.T) {
	if SpanFromContext(context.Background()) != nil {
		t.Fatal("expected nil span when no span is stored")
	}
	if SpanFromContext(nil) != nil {
		t.Fatal("expected nil span for nil context")
	}
}

func TestFormatSpanName(t *testing.T) {
	tests := []struct {
		route router.RouteInfo
		want  string
	}{
		{router.RouteInfo{Method: message.MethodGet, Pattern: "/users/:id"}, "GET /users/:id"},
		{router.RouteInfo{Method: message.MethodOptions, Pattern: ""}, "OPTIONS /"},
	}
	for _, tt := range tests {
		if got := formatSpanName(&router.Call{Route: tt.route}); got != tt.want {
			t.Errorf("formatSpanName(%+v) = %q, want %q", tt.route, got, tt.want)
		}
	}
}
