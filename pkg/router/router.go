package router

import (
	"context"

	"github.com/vango-dev/hfs/pkg/message"
)

// route is one registration.
type route[S any] struct {
	method  message.Method
	pattern *Pattern
	handler Handler[S]
	index   int
}

func (rt *route[S]) info() RouteInfo {
	return RouteInfo{Method: rt.method, Pattern: rt.pattern.String(), Index: rt.index}
}

// Router holds an ordered route table and the state shared by its
// handlers. Register every route before calling Dispatch from more than
// one goroutine; the table is not locked.
type Router[S any] struct {
	routes     []*route[S]
	state      S
	middleware []Middleware
}

// New creates a router whose handlers all receive state.
func New[S any](state S) *Router[S] {
	return &Router[S]{state: state}
}

// State returns the shared state.
func (r *Router[S]) State() S {
	return r.state
}

// Handle compiles pattern and appends a route. A pattern that does not
// compile is not registered and the compile error is returned.
func (r *Router[S]) Handle(method message.Method, pattern string, handler Handler[S]) error {
	if _, err := message.ParseMethod(string(method)); err != nil {
		return err
	}
	p, err := Compile(pattern)
	if err != nil {
		return err
	}
	r.routes = append(r.routes, &route[S]{
		method:  method,
		pattern: p,
		handler: handler,
		index:   len(r.routes),
	})
	return nil
}

// Add is like Handle but panics on an invalid pattern, so a misconfigured
// route table stops the program before it serves anything.
func (r *Router[S]) Add(method message.Method, pattern string, handler Handler[S]) {
	if err := r.Handle(method, pattern, handler); err != nil {
		panic(err)
	}
}

// Get registers a GET route.
func (r *Router[S]) Get(pattern string, handler Handler[S]) {
	r.Add(message.MethodGet, pattern, handler)
}

// Post registers a POST route.
func (r *Router[S]) Post(pattern string, handler Handler[S]) {
	r.Add(message.MethodPost, pattern, handler)
}

// Put registers a PUT route.
func (r *Router[S]) Put(pattern string, handler Handler[S]) {
	r.Add(message.MethodPut, pattern, handler)
}

// Delete registers a DELETE route.
func (r *Router[S]) Delete(pattern string, handler Handler[S]) {
	r.Add(message.MethodDelete, pattern, handler)
}

// Options registers an OPTIONS route.
func (r *Router[S]) Options(pattern string, handler Handler[S]) {
	r.Add(message.MethodOptions, pattern, handler)
}

// Use adds middleware that wraps every handler invocation.
func (r *Router[S]) Use(mw ...Middleware) {
	r.middleware = append(r.middleware, mw...)
}

// Routes lists the registered routes in dispatch order.
func (r *Router[S]) Routes() []RouteInfo {
	infos := make([]RouteInfo, len(r.routes))
	for i, rt := range r.routes {
		infos[i] = rt.info()
	}
	return infos
}

// Lookup returns the route that Dispatch would invoke for method and
// path, without invoking it.
func (r *Router[S]) Lookup(method message.Method, path string) (RouteInfo, Params, bool) {
	rt, params := r.find(method, path)
	if rt == nil {
		return RouteInfo{}, nil, false
	}
	return rt.info(), params, true
}

// Dispatch invokes the first route whose method equals the request
// method and whose pattern matches the request path, and returns its
// response. ok is false when no route matches; answering that case is
// up to the caller.
func (r *Router[S]) Dispatch(ctx context.Context, req *message.Request) (resp *message.Response, ok bool) {
	rt, params := r.find(req.Method(), req.Path())
	if rt == nil {
		return nil, false
	}

	c := &Call{
		Context: ctx,
		Request: req,
		Params:  params,
		Route:   rt.info(),
	}
	resp = ComposeMiddleware(c, r.middleware, func() *message.Response {
		return rt.handler(c.Context, req, params, r.state)
	})
	return resp, true
}

// find scans the table in registration order.
func (r *Router[S]) find(method message.Method, path string) (*route[S], Params) {
	for _, rt := range r.routes {
		if rt.method != method {
			continue
		}
		if params, ok := rt.pattern.Match(path); ok {
			return rt, params
		}
	}
	return nil, nil
}
