package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/hfs/pkg/message"
	"github.com/vango-dev/hfs/pkg/router"
)

func okHandler(ctx context.Context, req *message.Request, params router.Params, _ struct{}) *message.Response {
	return message.NewResponse(message.StatusOK)
}

func newTestServer(t *testing.T) (*Server, *prometheus.Registry) {
	t.Helper()

	r := router.New(struct{}{})
	r.Get("/users/:id", okHandler)
	r.Get("/users/me", okHandler)
	r.Post("/echo", okHandler)

	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "admin_test_total",
		Help: "Test counter.",
	})
	reg.MustRegister(counter)
	counter.Add(3)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(r, Options{Gatherer: reg, Logger: logger}), reg
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "ok\n" {
		t.Errorf("body = %q, want %q", rec.Body.String(), "ok\n")
	}
}

func TestMetrics(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "admin_test_total 3") {
		t.Errorf("metrics output missing counter:\n%s", rec.Body.String())
	}
}

func TestRoutes(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/routes", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var got routesJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, rec.Body.String())
	}

	want := []routeJSON{
		{Method: "GET", Pattern: "/users/:id", Index: 0},
		{Method: "GET", Pattern: "/users/me", Index: 1},
		{Method: "POST", Pattern: "/echo", Index: 2},
	}
	if len(got.Routes) != len(want) {
		t.Fatalf("routes = %+v, want %+v", got.Routes, want)
	}
	for i := range want {
		if got.Routes[i] != want[i] {
			t.Errorf("routes[%d] = %+v, want %+v", i, got.Routes[i], want[i])
		}
	}

	if len(got.Warnings) != 1 {
		t.Fatalf("warnings = %+v, want one shadowed route", got.Warnings)
	}
	w := got.Warnings[0]
	if w.Kind != string(router.WarningShadowedRoute) {
		t.Errorf("warning kind = %q", w.Kind)
	}
	if w.Route.Index != 1 || w.By == nil || w.By.Index != 0 {
		t.Errorf("warning = %+v, want route 1 shadowed by route 0", w)
	}
}

func TestRoutesEmpty(t *testing.T) {
	s := New(router.New(struct{}{}), Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})

	req := httptest.NewRequest(http.MethodGet, "/routes", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if !bytes.Contains(rec.Body.Bytes(), []byte(`"routes": []`)) {
		t.Errorf("empty table should encode as [], got:\n%s", rec.Body.String())
	}
}

func TestUnknownPath(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestServeShutdown(t *testing.T) {
	s, _ := newTestServer(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Serve(ctx, ln)
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() = %v, want nil after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
