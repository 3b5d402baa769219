package objstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"

	"github.com/vango-dev/hfs/pkg/message"
	"github.com/vango-dev/hfs/pkg/router"
)

// Options configures the object handlers.
type Options struct {
	// Param is the wildcard capture holding the key (default: "key").
	Param string

	// ReadOnly registers only the GET route in Mount.
	ReadOnly bool

	// Logger receives store failures (default: slog.Default()).
	Logger *slog.Logger
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() *Options {
	return &Options{Param: "key"}
}

func (o *Options) withDefaults() *Options {
	if o == nil {
		o = DefaultOptions()
	}
	clone := *o
	if clone.Param == "" {
		clone.Param = "key"
	}
	if clone.Logger == nil {
		clone.Logger = slog.Default().With("component", "objstore")
	}
	return &clone
}

// Mount registers object routes under prefix on r: GET, plus PUT and
// DELETE unless opts.ReadOnly. The routes are prefix + "/*" + opts.Param.
func Mount[S any](r *router.Router[S], prefix string, store Store, opts *Options) error {
	opts = opts.withDefaults()
	pattern := prefix + "/*" + opts.Param

	if err := r.Handle(message.MethodGet, pattern, GetHandler[S](store, opts)); err != nil {
		return err
	}
	if opts.ReadOnly {
		return nil
	}
	if err := r.Handle(message.MethodPut, pattern, PutHandler[S](store, opts)); err != nil {
		return err
	}
	return r.Handle(message.MethodDelete, pattern, DeleteHandler[S](store, opts))
}

// GetHandler serves the object named by the key capture.
func GetHandler[S any](store Store, opts *Options) router.Handler[S] {
	opts = opts.withDefaults()
	return func(ctx context.Context, req *message.Request, params router.Params, _ S) *message.Response {
		obj, err := store.Get(ctx, params.Get(opts.Param))
		if err != nil {
			return errorResponse(opts.Logger, "get", params.Get(opts.Param), err)
		}
		defer obj.Close()

		var buf bytes.Buffer
		if obj.Size > 0 {
			buf.Grow(int(obj.Size))
		}
		if _, err := io.Copy(&buf, obj.Body); err != nil {
			return errorResponse(opts.Logger, "read", obj.Key, err)
		}

		return message.NewResponse(message.StatusOK).
			WithHeader("Content-Type", obj.ContentType).
			WithBody(buf.Bytes())
	}
}

// PutHandler stores the request body under the key capture. The
// request's Content-Type is recorded with the object.
func PutHandler[S any](store Store, opts *Options) router.Handler[S] {
	opts = opts.withDefaults()
	return func(ctx context.Context, req *message.Request, params router.Params, _ S) *message.Response {
		key := params.Get(opts.Param)
		body := req.Body()
		if err := store.Put(ctx, key, req.Header("Content-Type"), bytes.NewReader(body)); err != nil {
			return errorResponse(opts.Logger, "put", key, err)
		}
		return message.NewResponse(message.StatusCreated).
			WithHeader("Content-Type", "text/plain; charset=utf-8").
			WithText(strconv.Itoa(len(body)) + " bytes stored\n")
	}
}

// DeleteHandler removes the object named by the key capture.
func DeleteHandler[S any](store Store, opts *Options) router.Handler[S] {
	opts = opts.withDefaults()
	return func(ctx context.Context, req *message.Request, params router.Params, _ S) *message.Response {
		key := params.Get(opts.Param)
		if err := store.Delete(ctx, key); err != nil {
			return errorResponse(opts.Logger, "delete", key, err)
		}
		return message.NewResponse(message.StatusNoContent)
	}
}

func errorResponse(logger *slog.Logger, op, key string, err error) *message.Response {
	var status message.Status
	switch {
	case errors.Is(err, ErrNotFound):
		status = message.StatusNotFound
	case errors.Is(err, ErrInvalidKey):
		status = message.StatusBadRequest
	case errors.Is(err, ErrTooLarge):
		status = message.StatusContentTooLarge
	default:
		logger.Error("object store failure", "op", op, "key", key, "error", err)
		status = message.StatusBadGateway
	}
	return message.NewResponse(status).
		WithHeader("Content-Type", "text/plain; charset=utf-8").
		WithText(status.Reason())
}
