package net_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	pnet "dcbadmin/internal/platform/net"

	chimw "github.com/go-chi/chi/v5/middleware"
)

func TestWithRequest(t *testing.T) {
	base := context.Background()
	cases := []struct {
		name, rid, sid string
	}{
		{"both", "req-1", "sess-1"},
		{"request only", "req-1", ""},
		{"session only", "", "sess-1"},
		{"neither", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := pnet.WithRequest(base, tc.rid, tc.sid)
			if got := pnet.RequestID(ctx); got != tc.rid {
				t.Fatalf("request id %q", got)
			}
			if got := pnet.SessionID(ctx); got != tc.sid {
				t.Fatalf("session id %q", got)
			}
			if tc.rid == "" && tc.sid == "" && ctx != base {
				t.Fatal("context replaced with nothing to store")
			}
		})
	}
}

func TestWithUser(t *testing.T) {
	ctx := pnet.WithUser(context.Background(), "kc-subject")
	if pnet.UserID(ctx) != "kc-subject" || pnet.UserID(context.Background()) != "" {
		t.Fatal("user id not round tripped")
	}
}

func TestRequestID_SeesChiMiddleware(t *testing.T) {
	var got string
	h := chimw.RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = pnet.RequestID(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(chimw.RequestIDHeader, "from-proxy")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != "from-proxy" {
		t.Fatalf("request id %q", got)
	}
}
