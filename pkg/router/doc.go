// Package router compiles path patterns and dispatches requests to the
// first registered route that matches.
//
// # Patterns
//
// A pattern is split on '/' into segments:
//
//	/users/:id        :id captures exactly one path segment
//	/files/*rest      *rest captures every remaining segment, joined by '/'
//	/static/logo.png  anything else must match literally
//
// Empty segments are kept, so "/a/" and "/a" are different patterns. A
// wildcard may only be the last segment; Compile rejects anything else
// with ErrWildcardNotLast.
//
// # Dispatch order
//
// Routes are tried in registration order and the first one whose method
// and pattern both match wins. There is no specificity ranking: with
//
//	r.Get("/x/:p", h1)
//	r.Get("/x/static", h2)
//
// a request for GET /x/static is handled by h1. Register specific routes
// before general ones. Validate reports routes that can never win.
//
// # Usage
//
//	r := router.New(counter)
//	r.Post("/echo", echo)
//	r.Get("/files/*key", files)
//
//	resp, ok := r.Dispatch(ctx, req)
//	if !ok {
//	    resp = message.NewResponse(message.StatusNotFound)
//	}
package router
