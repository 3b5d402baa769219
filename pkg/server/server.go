package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"runtime/debug"
	"sync"
	"time"

	herrors "github.com/vango-dev/hfs/internal/errors"
	"github.com/vango-dev/hfs/pkg/message"
	"github.com/vango-dev/hfs/pkg/middleware"
	"github.com/vango-dev/hfs/pkg/router"
)

// ErrServerClosed is returned by Serve and ListenAndServe after Shutdown.
var ErrServerClosed = errors.New("server: closed")

// Server serves a Router over TCP.
type Server[S any] struct {
	router *router.Router[S]
	config *Config
	parser message.Parser
	logger *slog.Logger

	mu        sync.Mutex
	listener  net.Listener
	conns     map[net.Conn]struct{}
	shutdown  bool
	wg        sync.WaitGroup
	ready     chan struct{}
	readyOnce sync.Once
}

// New creates a server for r. A nil config means DefaultConfig().
func New[S any](r *router.Router[S], config *Config) *Server[S] {
	config = config.withDefaults()
	return &Server[S]{
		router: r,
		config: config,
		parser: message.Parser{LenientCookies: config.LenientCookies},
		logger: slog.Default().With("component", "server"),
		conns:  make(map[net.Conn]struct{}),
		ready:  make(chan struct{}),
	}
}

// Config returns the server configuration.
func (s *Server[S]) Config() *Config {
	return s.config
}

// Router returns the router being served.
func (s *Server[S]) Router() *router.Router[S] {
	return s.router
}

// Logger returns the server logger.
func (s *Server[S]) Logger() *slog.Logger {
	return s.logger
}

// SetLogger sets the server logger.
func (s *Server[S]) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Addr blocks until the server is listening and returns the listener
// address, or returns nil when ctx is done first.
func (s *Server[S]) Addr(ctx context.Context) net.Addr {
	select {
	case <-s.ready:
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.listener == nil {
			return nil
		}
		return s.listener.Addr()
	case <-ctx.Done():
		return nil
	}
}

// ListenAndServe listens on the configured address and calls Serve.
func (s *Server[S]) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", s.config.Address, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled or Shutdown is
// called, serving each on its own goroutine. Cancelling ctx shuts the
// server down gracefully; Serve then returns nil once in-flight
// connections are done.
func (s *Server[S]) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	if s.shutdown {
		s.mu.Unlock()
		ln.Close()
		return ErrServerClosed
	}
	s.listener = ln
	s.mu.Unlock()
	s.readyOnce.Do(func() { close(s.ready) })

	s.logger.Info("server starting", "address", ln.Addr().String())

	stopped := make(chan struct{})
	defer close(stopped)
	shutdownErr := make(chan error, 1)
	go func() {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down...")
			shutdownErr <- s.Shutdown(context.Background())
		case <-stopped:
		}
	}()

	// Connections outlive ctx so shutdown can drain them.
	connCtx := context.WithoutCancel(ctx)

	var backoff time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.closing() {
				if ctx.Err() != nil {
					return <-shutdownErr
				}
				return ErrServerClosed
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				backoff = nextBackoff(backoff)
				s.logger.Warn("accept error", "error", err, "retry_in", backoff)
				time.Sleep(backoff)
				continue
			}
			return fmt.Errorf("server: accept: %w", err)
		}
		backoff = 0

		if !s.track(conn) {
			conn.Close()
			continue
		}
		go func() {
			defer s.untrack(conn)
			s.ServeConn(connCtx, conn)
		}()
	}
}

func nextBackoff(d time.Duration) time.Duration {
	if d == 0 {
		return 5 * time.Millisecond
	}
	d *= 2
	if d > time.Second {
		d = time.Second
	}
	return d
}

func (s *Server[S]) closing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shutdown
}

func (s *Server[S]) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shutdown {
		return false
	}
	s.conns[conn] = struct{}{}
	s.wg.Add(1)
	return true
}

func (s *Server[S]) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
	s.wg.Done()
}

// Shutdown stops accepting connections and waits for in-flight ones,
// bounded by ShutdownTimeout and ctx. Connections still open when the
// wait ends are closed and the wait's error is returned.
func (s *Server[S]) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.mu.Lock()
	s.shutdown = true
	ln := s.listener
	s.mu.Unlock()
	s.readyOnce.Do(func() { close(s.ready) })

	if ln != nil {
		ln.Close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("server shutdown complete")
		return nil
	case <-ctx.Done():
		s.mu.Lock()
		n := len(s.conns)
		for conn := range s.conns {
			conn.Close()
		}
		s.mu.Unlock()
		s.logger.Error("shutdown error", "error", ctx.Err(), "closed_connections", n)
		return ctx.Err()
	}
}

// ServeConn serves a single request on conn and closes it.
func (s *Server[S]) ServeConn(ctx context.Context, conn net.Conn) {
	middleware.RecordConnectionOpen()
	defer middleware.RecordConnectionClose()
	defer conn.Close()

	log := s.logger.With("remote", remoteAddr(conn))

	if s.config.ReadTimeout > 0 {
		conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
	}
	req, err := s.parser.ReadRequest(bufio.NewReader(conn))
	if err != nil {
		resp := s.parseFailure(log, err)
		if resp == nil {
			return
		}
		s.write(log, conn, resp)
		return
	}

	s.write(log, conn, s.Respond(ctx, req))
}

// Respond dispatches req and returns the response to send, synthesizing
// 404 on a miss and 500 when the handler returns nil.
// A panic that escapes the router's middleware also becomes 500.
func (s *Server[S]) Respond(ctx context.Context, req *message.Request) (resp *message.Response) {
	defer func() {
		if r := recover(); r != nil {
			err := herrors.New(herrors.CodeHandlerPanic).
				WithDetailf("%s %s: %v", req.Method(), req.Path(), r)
			s.logger.Error("handler panic", "error", err, "stack", string(debug.Stack()))
			resp = textResponse(message.StatusInternalServerError)
		}
	}()

	resp, ok := s.router.Dispatch(ctx, req)
	if !ok {
		middleware.RecordMiss(req.Method())
		s.logger.Debug("no route", "method", req.Method(), "path", req.Path())
		return textResponse(message.StatusNotFound)
	}
	if resp == nil {
		s.logger.Error("handler returned no response", "method", req.Method(), "path", req.Path())
		return textResponse(message.StatusInternalServerError)
	}
	return resp
}

// parseFailure logs err and returns the response for it, or nil when the
// connection should be closed silently.
func (s *Server[S]) parseFailure(log *slog.Logger, err error) *message.Response {
	if errors.Is(err, io.EOF) {
		log.Debug("connection closed before request")
		return nil
	}

	code := herrors.CodeOf(err)
	if code == "" {
		middleware.RecordParseError("io")
		log.Warn("read error", "error", err)
		return nil
	}

	middleware.RecordParseError(code)
	log.Warn("bad request", "code", code, "error", err)
	return textResponse(message.StatusBadRequest)
}

func (s *Server[S]) write(log *slog.Logger, conn net.Conn, resp *message.Response) {
	if s.config.WriteTimeout > 0 {
		conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	}
	n, err := resp.WriteTo(conn)
	middleware.RecordResponseBytes(n)
	if err != nil {
		middleware.RecordWriteError()
		log.Warn("write failed", "error", herrors.New(herrors.CodeWriteFailed).
			WithDetailf("wrote %d bytes of %d %s", n, resp.Status.Code(), resp.Status.Reason()).
			Wrap(err))
	}
}

func textResponse(status message.Status) *message.Response {
	return message.NewResponse(status).
		WithHeader("Content-Type", "text/plain; charset=utf-8").
		WithText(status.Reason())
}

func remoteAddr(conn net.Conn) string {
	if addr := conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}
