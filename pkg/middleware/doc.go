// Package middleware provides dispatch middleware for hfs routers.
//
// This package includes:
//   - Prometheus metrics middleware plus recorders for transport events
//   - OpenTelemetry tracing middleware
//   - Panic recovery and request logging
//
// Middleware wraps the winning handler of a Router.Dispatch call and sees
// the request, the captures and the matched route:
//
//	r := router.New(state)
//	r.Use(
//	    middleware.Recover(logger),
//	    middleware.Logging(logger),
//	    middleware.Prometheus(middleware.WithNamespace("hfs")),
//	    middleware.OpenTelemetry(),
//	)
//
// # Prometheus Metrics
//
// Route-level metrics are labelled by method, route pattern and status
// code. Requests that never reach a handler (parse failures and misses)
// are counted by the server through RecordParseError and RecordMiss.
// Expose them with promhttp on the admin listener.
//
// # Context Propagation
//
// OpenTelemetry replaces Call.Context with the span context before the
// handler runs, so the ctx a handler receives carries the span:
//
//	func show(ctx context.Context, req *message.Request, p router.Params, s *State) *message.Response {
//	    if span := middleware.SpanFromContext(ctx); span != nil {
//	        span.SetAttributes(attribute.String("user.id", p.Get("id")))
//	    }
//	    ...
//	}
package middleware
