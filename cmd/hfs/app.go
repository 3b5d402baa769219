package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/vango-dev/hfs/internal/config"
	"github.com/vango-dev/hfs/pkg/message"
	"github.com/vango-dev/hfs/pkg/middleware"
	"github.com/vango-dev/hfs/pkg/objstore"
	"github.com/vango-dev/hfs/pkg/router"
)

// hitCounter is the demo server's shared state. Handlers run
// concurrently, so every access goes through mu.
type hitCounter struct {
	mu sync.Mutex
	n  int
}

func (h *hitCounter) inc() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.n++
	return h.n
}

func (h *hitCounter) value() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.n
}

const allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"

// newApp builds the demo route table. The files routes are only
// registered when cfg names a storage backend.
func newApp(cfg *config.Config, logger *slog.Logger) (*router.Router[*hitCounter], error) {
	r := router.New(&hitCounter{})

	// Logging is outermost so it sees the 500 that Recover produces.
	r.Use(
		middleware.Logging(logger),
		middleware.Prometheus(middleware.WithNamespace(cfg.Admin.MetricsNamespace)),
	)
	if cfg.Tracing.Enabled {
		r.Use(middleware.OpenTelemetry(
			middleware.WithTracerName(cfg.Tracing.TracerName),
			middleware.WithIncludeParams(cfg.Tracing.IncludeParams),
		))
	}
	r.Use(middleware.Recover(logger))

	r.Post("/echo", echoHandler)
	r.Get("/hits", hitsHandler)
	r.Get("/users/:id", userHandler)

	store, err := newStore(cfg)
	if err != nil {
		return nil, err
	}
	if store != nil {
		err := objstore.Mount(r, "/files", store, &objstore.Options{
			ReadOnly: cfg.Files.ReadOnly,
			Logger:   logger.With("component", "objstore"),
		})
		if err != nil {
			return nil, err
		}
	}

	r.Options("/*any", optionsHandler)

	return r, nil
}

// newStore opens the backend named by cfg.Files. It returns nil when
// the files routes are disabled.
func newStore(cfg *config.Config) (objstore.Store, error) {
	files := cfg.Files
	switch files.Backend {
	case "disk":
		return objstore.NewDiskStore(cfg.FilesDir(), files.MaxSize)
	case "s3":
		client := objstore.NewS3Client(objstore.S3Config{
			Bucket:          files.S3.Bucket,
			Prefix:          files.S3.Prefix,
			Region:          files.S3.Region,
			Endpoint:        files.S3.Endpoint,
			UsePathStyle:    files.S3.UsePathStyle,
			AccessKeyID:     files.S3.AccessKeyID,
			SecretAccessKey: files.S3.SecretAccessKey,
		})
		return objstore.NewS3Store(client, files.S3.Bucket, files.S3.Prefix, files.MaxSize), nil
	}
	return nil, nil
}

// echoHandler answers with the request body and counts the hit.
func echoHandler(_ context.Context, req *message.Request, _ router.Params, hits *hitCounter) *message.Response {
	n := hits.inc()

	contentType := req.Header("Content-Type")
	if contentType == "" {
		contentType = "text/plain"
	}
	body := req.Body()
	if body == nil {
		body = []byte{}
	}
	return message.NewResponse(message.StatusOK).
		WithHeader("Content-Type", contentType).
		WithHeader("X-Hit", strconv.Itoa(n)).
		WithBody(body)
}

func hitsHandler(_ context.Context, _ *message.Request, _ router.Params, hits *hitCounter) *message.Response {
	return message.NewResponse(message.StatusOK).
		WithHeader("Content-Type", "text/plain").
		WithText(fmt.Sprintf("%d\n", hits.value()))
}

// userHandler greets a numeric user id; anything else is a 400.
func userHandler(_ context.Context, _ *message.Request, params router.Params, _ *hitCounter) *message.Response {
	id, err := params.Int("id")
	if err != nil {
		return message.NewResponse(message.StatusBadRequest).
			WithHeader("Content-Type", "text/plain").
			WithText("user id must be numeric\n")
	}
	return message.NewResponse(message.StatusOK).
		WithHeader("Content-Type", "text/plain").
		WithText(fmt.Sprintf("user %d\n", id))
}

func optionsHandler(_ context.Context, _ *message.Request, _ router.Params, _ *hitCounter) *message.Response {
	return message.NewResponse(message.StatusNoContent).
		WithHeader("Allow", allowedMethods)
}
