package router

import (
	"context"

	"github.com/vango-dev/hfs/pkg/message"
)

// Params maps capture names to the path text they matched. A fresh map
// is built for every successful match.
type Params map[string]string

// Get returns the capture named name, or "".
func (p Params) Get(name string) string {
	return p[name]
}

// Handler serves a matched request. state is the value the Router was
// created with; it is shared by every concurrent invocation, so it must
// do its own locking.
type Handler[S any] func(ctx context.Context, req *message.Request, params Params, state S) *message.Response

// RouteInfo describes a registered route.
type RouteInfo struct {
	// Method is the request method the route accepts.
	Method message.Method

	// Pattern is the pattern source, e.g. "/users/:id".
	Pattern string

	// Index is the registration position; lower wins.
	Index int
}

// Call is what middleware sees of a dispatch in progress.
type Call struct {
	// Context is passed to the handler. Middleware may replace it before
	// calling next.
	Context context.Context

	// Request is the request being dispatched.
	Request *message.Request

	// Params are the captures of the matched route.
	Params Params

	// Route is the matched route.
	Route RouteInfo
}

// Middleware wraps handler invocation.
type Middleware interface {
	// Handle processes the call and optionally calls next. Returning
	// without calling next short-circuits the handler.
	Handle(c *Call, next func() *message.Response) *message.Response
}

// MiddlewareFunc is a function adapter for Middleware.
type MiddlewareFunc func(c *Call, next func() *message.Response) *message.Response

// Handle implements Middleware.
func (f MiddlewareFunc) Handle(c *Call, next func() *message.Response) *message.Response {
	return f(c, next)
}
