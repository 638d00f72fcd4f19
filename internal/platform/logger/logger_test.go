package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	pnet "dcbadmin/internal/platform/net"
)

var out bytes.Buffer

func init() {
	Init(Options{Level: "debug", Format: "json", Service: "svc-test", Writer: &out})
}

func lastLine(t *testing.T) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	var m map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &m); err != nil {
		t.Fatalf("decode %q: %v", lines[len(lines)-1], err)
	}
	return m
}

func TestInit_OnlyFirstCallCounts(t *testing.T) {
	var other bytes.Buffer
	Init(Options{Level: "error", Writer: &other})
	Get().Debug().Msg("still debug")
	if other.Len() != 0 {
		t.Fatalf("second Init took effect: %s", other.String())
	}
	if m := lastLine(t); m["message"] != "still debug" || m["service"] != "svc-test" {
		t.Fatalf("line %v", m)
	}
}

func TestNamed_TagsComponent(t *testing.T) {
	Named("grid").Info().Msg("mounted")
	if m := lastLine(t); m["component"] != "grid" {
		t.Fatalf("line %v", m)
	}
}

func TestC_CarriesRequestFields(t *testing.T) {
	ctx := pnet.WithRequest(context.Background(), "rid-1", "sess-1")
	ctx = pnet.WithUser(ctx, "user-1")
	C(ctx).Info().Msg("ctx")
	m := lastLine(t)
	if m["request_id"] != "rid-1" || m["session_id"] != "sess-1" || m["user_id"] != "user-1" {
		t.Fatalf("line %v", m)
	}

	C(context.Background()).Info().Msg("bare")
	if _, ok := lastLine(t)["request_id"]; ok {
		t.Fatal("bare context grew a request id")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "CONSOLE")
	t.Setenv("LOG_CALLER", "true")
	t.Setenv("LOG_SERVICE", "")

	got := FromEnv()
	if got.Level != "warn" || got.Format != "console" || !got.Caller || got.Service != "dcb-admin-api" {
		t.Fatalf("got %+v", got)
	}
}
