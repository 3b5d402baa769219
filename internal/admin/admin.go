package admin

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/hfs/pkg/router"
)

// DefaultShutdownTimeout bounds how long Serve waits for in-flight admin
// requests once its context is cancelled.
const DefaultShutdownTimeout = 5 * time.Second

// RouteTable is the part of a router the /routes endpoint reads.
// *router.Router satisfies it for any state type.
type RouteTable interface {
	Routes() []router.RouteInfo
	Validate() []router.Warning
}

// Options configures the admin server.
type Options struct {
	// Gatherer backs /metrics (default: prometheus.DefaultGatherer).
	Gatherer prometheus.Gatherer

	// Logger receives lifecycle messages (default: slog.Default()).
	Logger *slog.Logger

	// ShutdownTimeout bounds graceful shutdown (default: 5s).
	ShutdownTimeout time.Duration
}

// Server is the admin HTTP server.
type Server struct {
	routes  RouteTable
	opts    Options
	handler http.Handler
	logger  *slog.Logger
}

// New creates an admin server reporting on routes.
func New(routes RouteTable, opts Options) *Server {
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = DefaultShutdownTimeout
	}

	s := &Server{
		routes: routes,
		opts:   opts,
		logger: opts.Logger.With("component", "admin"),
	}
	s.handler = s.buildRouter()
	return s
}

func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok\n"))
	})
	r.With(middleware.NoCache).Get("/routes", s.serveRoutes)

	return r
}

// Handler returns the admin routes as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves admin requests on ln until ctx is cancelled, then shuts
// down gracefully. It returns nil after a clean shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.logger.Info("admin listening", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("admin shutdown", "error", err)
		return err
	}
	return nil
}

type routeJSON struct {
	Method  string `json:"method"`
	Pattern string `json:"pattern"`
	Index   int    `json:"index"`
}

type warningJSON struct {
	Kind    string     `json:"kind"`
	Route   routeJSON  `json:"route"`
	By      *routeJSON `json:"by,omitempty"`
	Message string     `json:"message"`
}

type routesJSON struct {
	Routes   []routeJSON   `json:"routes"`
	Warnings []warningJSON `json:"warnings"`
}

func toRouteJSON(info router.RouteInfo) routeJSON {
	return routeJSON{
		Method:  info.Method.String(),
		Pattern: info.Pattern,
		Index:   info.Index,
	}
}

func (s *Server) serveRoutes(w http.ResponseWriter, _ *http.Request) {
	out := routesJSON{
		Routes:   []routeJSON{},
		Warnings: []warningJSON{},
	}
	for _, info := range s.routes.Routes() {
		out.Routes = append(out.Routes, toRouteJSON(info))
	}
	for _, warn := range s.routes.Validate() {
		wj := warningJSON{
			Kind:    string(warn.Kind),
			Route:   toRouteJSON(warn.Route),
			Message: warn.Message,
		}
		if warn.By != nil {
			by := toRouteJSON(*warn.By)
			wj.By = &by
		}
		out.Warnings = append(out.Warnings, wj)
	}

	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		s.logger.Warn("encode routes", "error", err)
	}
}
