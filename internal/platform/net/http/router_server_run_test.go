package http_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dcbadmin/internal/platform/config"
	phttp "dcbadmin/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func TestNewServer_Defaults(t *testing.T) {
	called := false
	srv := phttp.NewServer(apiEnv(), func(*chi.Mux) { called = true })
	if !called {
		t.Fatal("option not applied")
	}
	if srv.Addr() != ":4000" {
		t.Fatalf("addr %q", srv.Addr())
	}

	r := srv.Router()
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "pong") })
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if rec.Body.String() != "pong" {
		t.Fatalf("got %q", rec.Body.String())
	}
}

func TestNewServer_AddrFromEnv(t *testing.T) {
	t.Setenv("CORE_API_PORT", ":12345")
	if got := phttp.NewServer(apiEnv()).Addr(); got != ":12345" {
		t.Fatalf("addr %q", got)
	}
}

func TestServer_RunStopsWithContext(t *testing.T) {
	t.Setenv("CORE_API_PORT", "127.0.0.1:0")
	t.Setenv("CORE_API_SHUTDOWN_GRACE", "1s")
	srv := phttp.NewServer(apiEnv())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}

func TestServer_RunReturnsAfterShutdown(t *testing.T) {
	t.Setenv("CORE_API_PORT", "127.0.0.1:0")
	srv := phttp.NewServer(apiEnv())

	done := make(chan error, 1)
	go func() { done <- srv.Run(context.Background()) }()
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("run did not return after shutdown")
	}
}

func TestServer_RunReturnsListenError(t *testing.T) {
	t.Setenv("CORE_API_PORT", "127.0.0.1:abc")
	if err := phttp.NewServer(apiEnv()).Run(context.Background()); err == nil {
		t.Fatal("expected listen error")
	}
}

func apiEnv() config.Conf { return config.New().Prefix("CORE_API_") }
