package middleware

import (
	"log/slog"
	"time"

	"github.com/vango-dev/hfs/pkg/message"
	"github.com/vango-dev/hfs/pkg/router"
)

// Logging logs one line per dispatched request. 5xx and nil responses
// are logged at error level, 4xx at warn, everything else at info. A nil
// logger means slog.Default().
func Logging(logger *slog.Logger) router.Middleware {
	return router.MiddlewareFunc(func(c *router.Call, next func() *message.Response) *message.Response {
		l := logger
		if l == nil {
			l = slog.Default()
		}

		// Inner middleware may replace c.Context with one whose span ends
		// before next returns.
		ctx := c.Context
		start := time.Now()
		resp := next()
		elapsed := time.Since(start)

		attrs := []any{
			"method", c.Route.Method,
			"path", c.Request.Path(),
			"route", c.Route.Pattern,
			"duration", elapsed,
		}

		switch {
		case resp == nil:
			l.ErrorContext(ctx, "request", append(attrs, "status", "none")...)
		case resp.Status.Code() >= 500:
			l.ErrorContext(ctx, "request", append(attrs, "status", resp.Status.Code())...)
		case resp.Status.Code() >= 400:
			l.WarnContext(ctx, "request", append(attrs, "status", resp.Status.Code())...)
		default:
			l.InfoContext(ctx, "request", append(attrs, "status", resp.Status.Code(), "bytes", len(resp.Body))...)
		}
		return resp
	})
}
