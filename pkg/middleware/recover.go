package middleware

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	herrors "github.com/vango-dev/hfs/internal/errors"
	"github.com/vango-dev/hfs/pkg/message"
	"github.com/vango-dev/hfs/pkg/router"
)

// Recover turns a handler panic into a 500 response. The panic is logged
// as an H060 error with its stack and counted by RecordPanic. A nil
// logger means slog.Default().
func Recover(logger *slog.Logger) router.Middleware {
	return router.MiddlewareFunc(func(c *router.Call, next func() *message.Response) (resp *message.Response) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			stack := debug.Stack()

			err := herrors.New(herrors.CodeHandlerPanic).
				WithDetail(fmt.Sprintf("%s %s: %v", c.Route.Method, c.Route.Pattern, r))
			if e, ok := r.(error); ok {
				err = err.Wrap(e)
			}

			l := logger
			if l == nil {
				l = slog.Default()
			}
			l.Error("handler panic",
				"error", err,
				"method", c.Route.Method,
				"route", c.Route.Pattern,
				"stack", string(stack))

			RecordPanic(c.Route)
			resp = message.NewResponse(message.StatusInternalServerError).
				WithHeader("Content-Type", "text/plain; charset=utf-8").
				WithText(message.StatusInternalServerError.Reason())
		}()

		return next()
	})
}
