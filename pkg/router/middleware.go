package router

import "github.com/vango-dev/hfs/pkg/message"

// ComposeMiddleware runs handler behind mw. Middleware is executed in
// order (first to last), with the handler at the end.
func ComposeMiddleware(c *Call, mw []Middleware, handler func() *message.Response) *message.Response {
	if len(mw) == 0 {
		return handler()
	}

	// Build chain from end to start
	chain := handler
	for i := len(mw) - 1; i >= 0; i-- {
		m := mw[i]
		next := chain
		chain = func() *message.Response {
			return m.Handle(c, next)
		}
	}

	return chain()
}

// Chain creates a middleware that combines multiple middleware in order.
func Chain(middleware ...Middleware) Middleware {
	return MiddlewareFunc(func(c *Call, next func() *message.Response) *message.Response {
		return ComposeMiddleware(c, middleware, next)
	})
}

// Skip bypasses mw for calls where condition is true.
func Skip(condition func(c *Call) bool, mw Middleware) Middleware {
	return MiddlewareFunc(func(c *Call, next func() *message.Response) *message.Response {
		if condition(c) {
			return next()
		}
		return mw.Handle(c, next)
	})
}

// Only runs mw only for calls where condition is true.
func Only(condition func(c *Call) bool, mw Middleware) Middleware {
	return MiddlewareFunc(func(c *Call, next func() *message.Response) *message.Response {
		if !condition(c) {
			return next()
		}
		return mw.Handle(c, next)
	})
}
